package bots

import "github.com/picogrid/robot-arena/pkg/arena"

const (
	chargerSweep      = 15
	chargerCone       = 10
	chargerSpeed      = 50
	chargerWallGuard  = 100
	chargerPointBlank = 60
)

// Charger sweeps for a target, then keeps its scanner and wheels on it and
// fires every time the cannon is ready. Near a wall it turns back towards
// the centre first.
type Charger struct {
	heading float64
	locked  bool
}

// NewCharger returns a fresh charger
func NewCharger() arena.Program { return &Charger{} }

func (c *Charger) Initialize(ctl *arena.Controls) {
	size := ctl.BoardSize()
	c.heading = headingTo(ctl, size/2, size/2)
	ctl.PointScanner(c.heading, chargerCone)
}

func (c *Charger) Respond(ctl *arena.Controls) {
	dist := ctl.Scanned()
	c.locked = found(dist)

	if !c.locked {
		c.heading += chargerSweep
		ctl.PointScanner(c.heading, chargerCone)
		c.avoidWalls(ctl)
		return
	}

	if ctl.IsCannonReady() && dist > chargerPointBlank {
		ctl.Cannon(c.heading, dist)
	}
	ctl.PointScanner(c.heading, chargerCone)
	if !c.avoidWalls(ctl) {
		ctl.Drive(c.heading, chargerSpeed)
	}
}

// avoidWalls steers towards the centre when the robot is close to an edge
func (c *Charger) avoidWalls(ctl *arena.Controls) bool {
	size := ctl.BoardSize()
	x, y := ctl.Position()
	if x > chargerWallGuard && x < size-chargerWallGuard && y > chargerWallGuard && y < size-chargerWallGuard {
		return false
	}
	ctl.Drive(headingTo(ctl, size/2, size/2), chargerSpeed)
	return true
}

// Locked reports whether the last scan found a target
func (c *Charger) Locked() bool { return c.locked }

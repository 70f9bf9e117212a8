package arena

import (
	"math"

	"github.com/picogrid/robot-arena/pkg/geometry"
)

// Program is the only surface a competitor implements.
//
// Initialize runs once before the first tick and Respond once per tick. Both
// receive a Controls handle that is valid only for the duration of the call;
// everything a program wants to do that tick goes through it.
type Program interface {
	Initialize(ctl *Controls)
	Respond(ctl *Controls)
}

// ProgramFactory builds a fresh Program for one game
type ProgramFactory func() Program

// Competitor pairs a stable external id with its program
type Competitor struct {
	ID      string
	Factory ProgramFactory
}

// ProgramFunc adapts a pair of plain functions to Program
type ProgramFunc struct {
	InitFunc    func(ctl *Controls)
	RespondFunc func(ctl *Controls)
}

func (p ProgramFunc) Initialize(ctl *Controls) {
	if p.InitFunc != nil {
		p.InitFunc(ctl)
	}
}

func (p ProgramFunc) Respond(ctl *Controls) {
	if p.RespondFunc != nil {
		p.RespondFunc(ctl)
	}
}

type scanRequest struct {
	direction  float64 // radians
	resolution float64 // half-angle, radians
}

type fireRequest struct {
	direction float64 // radians
	distance  float64
}

// Controls is the handle a program uses to read its robot and schedule
// movement, scanning and firing. It is a private copy of the robot's state;
// the board commits the scheduled requests only when the call returns in
// time and without panicking.
type Controls struct {
	phys *Physics

	pos        geometry.Vec2
	dir        float64
	desiredVel float64
	currentVel float64
	dmg        int
	scanned    float64
	cooldown   int

	scan *scanRequest
	fire *fireRequest
}

func newControls(r *Robot) *Controls {
	c := &Controls{
		phys:       r.phys,
		pos:        r.pos,
		dir:        r.dir,
		desiredVel: r.desiredVel,
		currentVel: r.currentVel,
		dmg:        r.dmg,
		scanned:    r.scanned,
		cooldown:   r.cooldown,
	}
	if r.scan != nil {
		s := *r.scan
		c.scan = &s
	}
	if r.fire != nil {
		f := *r.fire
		c.fire = &f
	}
	return c
}

// Drive sets the heading in degrees and the desired velocity as a percentage
// of the maximum. The heading only changes while the robot is at or below the
// turn threshold; at higher speed it is silently kept.
func (c *Controls) Drive(direction, velocity float64) {
	if c.currentVel <= c.phys.TurnThreshold*c.phys.MaxVelocity {
		c.dir = geometry.Radians(geometry.NormalizeDegrees(direction))
	}
	c.desiredVel = geometry.Clamp(velocity, 0, c.phys.MaxVelocity)
}

// Cannon schedules a missile towards direction (degrees) that detonates after
// travelling distance. It fires during this tick's weapons phase if the
// cannon is ready.
func (c *Controls) Cannon(direction, distance float64) {
	c.fire = &fireRequest{
		direction: geometry.Radians(geometry.NormalizeDegrees(direction)),
		distance:  geometry.Clamp(distance, 0, c.phys.MaxFireRange),
	}
}

// PointScanner schedules a scan centred on direction with the given
// half-angle, both in degrees. The result is available through Scanned on the
// next tick.
func (c *Controls) PointScanner(direction, resolution float64) {
	c.scan = &scanRequest{
		direction:  geometry.Radians(geometry.NormalizeDegrees(direction)),
		resolution: geometry.Radians(geometry.Clamp(resolution, 0, c.phys.MaxScanHalfAngle)),
	}
}

// Scanned returns the distance to the closest robot found by the last
// resolved scan, or +Inf
func (c *Controls) Scanned() float64 { return c.scanned }

// Position returns the robot position
func (c *Controls) Position() (x, y float64) { return c.pos.X, c.pos.Y }

// Direction returns the heading in degrees
func (c *Controls) Direction() float64 { return geometry.Degrees(c.dir) }

// Velocity returns the current velocity
func (c *Controls) Velocity() float64 { return c.currentVel }

// Damage returns accumulated damage
func (c *Controls) Damage() int { return c.dmg }

// IsCannonReady reports whether the cannon cooldown has run out
func (c *Controls) IsCannonReady() bool { return c.cooldown == 0 }

// BoardSize returns the side of the square arena
func (c *Controls) BoardSize() float64 { return c.phys.BoardSize }

func noScan() float64 { return math.Inf(1) }

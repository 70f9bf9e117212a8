package arena

import (
	"math"

	"github.com/picogrid/robot-arena/pkg/geometry"
)

// Robot is one competitor's body on a board. Programs never see it directly;
// they act through Controls.
type Robot struct {
	id      string // stable across games
	boardID int    // per board, used in snapshots
	program Program
	phys    *Physics

	pos        geometry.Vec2
	dir        float64 // radians
	desiredVel float64
	currentVel float64
	dmg        int

	scan    *scanRequest
	scanned float64

	fire     *fireRequest
	cooldown int
}

func newRobot(phys *Physics, id string, boardID int, program Program, pos geometry.Vec2) *Robot {
	return &Robot{
		id:      id,
		boardID: boardID,
		program: program,
		phys:    phys,
		pos:     pos,
		scanned: noScan(),
	}
}

func (r *Robot) ID() string               { return r.id }
func (r *Robot) BoardID() int             { return r.boardID }
func (r *Robot) Position() geometry.Vec2  { return r.pos }
func (r *Robot) Direction() float64       { return geometry.Degrees(r.dir) }
func (r *Robot) Velocity() float64        { return r.currentVel }
func (r *Robot) DesiredVelocity() float64 { return r.desiredVel }
func (r *Robot) Damage() int              { return r.dmg }
func (r *Robot) Scanned() float64         { return r.scanned }
func (r *Robot) Cooldown() int            { return r.cooldown }
func (r *Robot) IsCannonReady() bool      { return r.cooldown == 0 }
func (r *Robot) Dead() bool               { return r.dmg >= r.phys.MaxDamage }

// takeDamage adds dmg, saturating at MaxDamage
func (r *Robot) takeDamage(dmg int) {
	r.dmg = min(r.dmg+dmg, r.phys.MaxDamage)
}

func (r *Robot) kill() {
	r.dmg = r.phys.MaxDamage
}

// commit copies what the program scheduled through ctl back onto the robot
func (r *Robot) commit(ctl *Controls) {
	r.dir = ctl.dir
	r.desiredVel = ctl.desiredVel
	r.scan = ctl.scan
	r.fire = ctl.fire
}

// resolveScan consumes the pending scan request against the positions of the
// other robots. The request is one-shot whether or not anything is found.
func (r *Robot) resolveScan(targets []geometry.Vec2) {
	if r.scan == nil {
		return
	}
	req := *r.scan
	r.scan = nil

	inCone := coneTest(r.pos, req.direction, req.resolution)

	best := noScan()
	for _, pt := range targets {
		if !inCone(pt) {
			continue
		}
		best = math.Min(best, geometry.Dist(r.pos, pt))
	}
	r.scanned = best
}

// coneTest returns a membership test for the cone with apex origin centred on
// dir with half-angle res. Each boundary ray splits the plane in two; an
// acute or right cone is the intersection of the inner half-planes and a
// wider cone their union.
func coneTest(origin geometry.Vec2, dir, res float64) func(geometry.Vec2) bool {
	if res >= math.Pi {
		return func(geometry.Vec2) bool { return true }
	}

	right := origin.Add(geometry.FromAngle(dir - res))
	left := origin.Add(geometry.FromAngle(dir + res))

	if res <= math.Pi/2 {
		return func(pt geometry.Vec2) bool {
			return geometry.Orientation(origin, left, pt) >= 0 &&
				geometry.Orientation(origin, right, pt) <= 0
		}
	}
	return func(pt geometry.Vec2) bool {
		return geometry.Orientation(origin, left, pt) >= 0 ||
			geometry.Orientation(origin, right, pt) <= 0
	}
}

// launchMissile ticks the cannon cooldown and fires the pending request if
// the cannon is ready. The request is cleared either way.
func (r *Robot) launchMissile() *Missile {
	if r.cooldown > 0 {
		r.cooldown--
	}
	req := r.fire
	r.fire = nil

	if r.cooldown > 0 || req == nil {
		return nil
	}
	r.cooldown = r.phys.CannonCooldown
	return newMissile(r.phys, r.boardID, r.pos, req.direction, req.distance)
}

// moveAndCheckCrash accelerates towards the desired velocity, moves along the
// heading and applies collision damage against robots that already moved
// this tick and against the walls. Robots killed earlier in the phase still
// count as obstacles until the board prunes them.
func (r *Robot) moveAndCheckCrash(moved []*Robot) {
	if r.Dead() {
		return
	}

	r.currentVel = geometry.Clamp(r.desiredVel, r.currentVel-r.phys.AccelFactor, r.currentVel+r.phys.AccelFactor)

	step := r.currentVel * r.phys.DeltaTime() * r.phys.VelocityScale
	r.pos = r.pos.Add(geometry.FromAngle(r.dir).Scale(step))

	for _, other := range moved {
		if geometry.Dist(r.pos, other.pos) < r.phys.RobotDiameter {
			other.takeDamage(r.phys.CollisionDamage)
			r.takeDamage(r.phys.CollisionDamage)
		}
	}

	lo := r.phys.RobotRadius()
	hi := r.phys.BoardSize - lo
	if r.pos.X < lo || r.pos.X > hi || r.pos.Y < lo || r.pos.Y > hi {
		r.pos = geometry.Vec2{
			X: geometry.Clamp(r.pos.X, lo, hi),
			Y: geometry.Clamp(r.pos.Y, lo, hi),
		}
		r.takeDamage(r.phys.CollisionDamage)
	}
}

package arena

import (
	"github.com/picogrid/robot-arena/pkg/geometry"
)

// Missile is a cannon shot in flight
type Missile struct {
	id        int
	sender    int // board id of the robot that fired
	pos       geometry.Vec2
	dir       geometry.Vec2 // unit vector
	remaining float64
	exploded  bool
	phys      *Physics
}

func newMissile(phys *Physics, sender int, src geometry.Vec2, direction, distance float64) *Missile {
	return &Missile{
		sender:    sender,
		pos:       src,
		dir:       geometry.FromAngle(direction),
		remaining: distance,
		phys:      phys,
	}
}

func (m *Missile) ID() int                 { return m.id }
func (m *Missile) Sender() int             { return m.sender }
func (m *Missile) Position() geometry.Vec2 { return m.pos }
func (m *Missile) Remaining() float64      { return m.remaining }
func (m *Missile) Exploded() bool          { return m.exploded }

// advance moves the missile one tick along its heading. Leaving the arena
// forces detonation on the spot.
func (m *Missile) advance() {
	if m.remaining > 0 {
		step := min(m.remaining, m.phys.MissileStep)
		m.remaining -= step
		m.pos = m.pos.Add(m.dir.Scale(step))
	}

	size := m.phys.BoardSize
	if !(0 < m.pos.X && m.pos.X < size && 0 < m.pos.Y && m.pos.Y < size) {
		m.remaining = 0
	}
}

// explode applies splash damage to every live robot once the missile has run
// out of distance. It reports whether the missile detonated on this call.
func (m *Missile) explode(robots []*Robot) bool {
	if m.remaining > 0 || m.exploded {
		return false
	}
	m.exploded = true

	for _, r := range robots {
		if r.Dead() {
			continue
		}
		if dmg := m.phys.SplashDamage(geometry.Dist(m.pos, r.pos)); dmg > 0 {
			r.takeDamage(dmg)
		}
	}
	return true
}

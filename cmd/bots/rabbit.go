package bots

import (
	"math/rand"

	"github.com/picogrid/robot-arena/pkg/arena"
)

const (
	rabbitSpeed   = 25
	rabbitArrival = 50
)

// Rabbit drives towards a random waypoint, stops when it gets there and
// then picks the next one
type Rabbit struct {
	rng    *rand.Rand
	margin float64
	goalX  float64
	goalY  float64
}

// NewRabbit returns a fresh rabbit
func NewRabbit() arena.Program { return &Rabbit{} }

func (r *Rabbit) Initialize(ctl *arena.Controls) {
	r.rng = seededRand(ctl)
	r.margin = ctl.BoardSize() / 20
	r.pickGoal(ctl)
}

func (r *Rabbit) Respond(ctl *arena.Controls) {
	if distanceTo(ctl, r.goalX, r.goalY) < rabbitArrival {
		if ctl.Velocity() > 0 {
			ctl.Drive(ctl.Direction(), 0)
			return
		}
		r.pickGoal(ctl)
	}
	ctl.Drive(headingTo(ctl, r.goalX, r.goalY), rabbitSpeed)
}

// Goal returns the current waypoint
func (r *Rabbit) Goal() (x, y float64) { return r.goalX, r.goalY }

func (r *Rabbit) pickGoal(ctl *arena.Controls) {
	span := ctl.BoardSize() - 2*r.margin
	r.goalX = r.margin + r.rng.Float64()*span
	r.goalY = r.margin + r.rng.Float64()*span
}

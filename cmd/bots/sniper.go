package bots

import "github.com/picogrid/robot-arena/pkg/arena"

// Sniper stays where it was placed and covers a single line: the heading
// towards the arena centre it had at the start. It fires at the scanned
// distance when something crosses the line and at the centre otherwise.
type Sniper struct {
	heading float64
	reach   float64
}

// NewSniper returns a fresh sniper
func NewSniper() arena.Program { return &Sniper{} }

func (s *Sniper) Initialize(ctl *arena.Controls) {
	centre := ctl.BoardSize() / 2
	s.heading = headingTo(ctl, centre, centre)
	s.reach = distanceTo(ctl, centre, centre)
	ctl.PointScanner(s.heading, 1)
}

func (s *Sniper) Respond(ctl *arena.Controls) {
	dist := s.reach
	if scanned := ctl.Scanned(); found(scanned) {
		dist = scanned
	}
	ctl.Cannon(s.heading, dist)
	ctl.PointScanner(s.heading, 1)
}

// Heading returns the fixed firing heading in degrees
func (s *Sniper) Heading() float64 { return s.heading }

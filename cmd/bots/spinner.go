package bots

import (
	"math/rand"

	"github.com/picogrid/robot-arena/pkg/arena"
)

const (
	spinnerStep   = 5
	spinnerSearch = 3
	spinnerTrack  = 2.5
	spinnerJitter = 5
)

// Spinner turns its scanner a few degrees every tick. Once something shows
// up it stops turning and fires at the reported distance with a little
// jitter until the contact is lost.
type Spinner struct {
	rng     *rand.Rand
	heading float64
}

// NewSpinner returns a fresh spinner
func NewSpinner() arena.Program { return &Spinner{} }

func (s *Spinner) Initialize(ctl *arena.Controls) {
	s.rng = seededRand(ctl)
}

func (s *Spinner) Respond(ctl *arena.Controls) {
	if dist := ctl.Scanned(); found(dist) {
		jitter := float64(s.rng.Intn(2*spinnerJitter) - spinnerJitter)
		ctl.Cannon(s.heading+jitter, dist)
		ctl.PointScanner(s.heading, spinnerTrack)
		return
	}
	s.heading += spinnerStep
	ctl.PointScanner(s.heading, spinnerSearch)
}

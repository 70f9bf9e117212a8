// Package bots holds the built-in competitor programs. Importing it
// registers every bot with roster.DefaultRegistry.
package bots

import (
	"math"
	"math/rand"

	"github.com/picogrid/robot-arena/pkg/arena"
	"github.com/picogrid/robot-arena/pkg/geometry"
	"github.com/picogrid/robot-arena/pkg/logger"
	"github.com/picogrid/robot-arena/pkg/roster"
)

var builtins = []roster.Entry{
	{Name: "idle", Description: "Sits still and does nothing", Factory: NewIdle},
	{Name: "spinner", Description: "Sweeps the scanner in a circle and fires at whatever it finds", Factory: NewSpinner},
	{Name: "rabbit", Description: "Runs between random waypoints and never fires", Factory: NewRabbit},
	{Name: "sniper", Description: "Holds position and fires along a fixed heading", Factory: NewSniper},
	{Name: "charger", Description: "Hunts the nearest robot and rams it while firing", Factory: NewCharger},
}

// Register adds every built-in bot to reg
func Register(reg *roster.Registry) error {
	for _, b := range builtins {
		if err := reg.Register(b.Name, b.Description, b.Factory); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	if err := Register(roster.DefaultRegistry); err != nil {
		logger.Errorf("Failed to register bots: %v", err)
	}
}

// NewIdle returns a program that never acts
func NewIdle() arena.Program { return arena.ProgramFunc{} }

// headingTo returns the heading in degrees from the robot to (x, y)
func headingTo(ctl *arena.Controls, x, y float64) float64 {
	px, py := ctl.Position()
	return geometry.NormalizeDegrees(geometry.Degrees(math.Atan2(y-py, x-px)))
}

// distanceTo returns how far (x, y) is from the robot
func distanceTo(ctl *arena.Controls, x, y float64) float64 {
	px, py := ctl.Position()
	return geometry.Dist(geometry.Vec2{X: px, Y: py}, geometry.Vec2{X: x, Y: y})
}

// seededRand derives a generator from the starting position, so a bot
// behaves the same whenever the board places it the same way
func seededRand(ctl *arena.Controls) *rand.Rand {
	x, y := ctl.Position()
	return rand.New(rand.NewSource(int64(x*1000)<<20 ^ int64(y*1000)))
}

func found(dist float64) bool { return !math.IsInf(dist, 1) }

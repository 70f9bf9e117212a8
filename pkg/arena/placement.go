package arena

import (
	"math"
	"math/rand"

	"github.com/picogrid/robot-arena/pkg/geometry"
)

// circlePlacement spreads n robots around a circle centred in the arena.
// Each robot gets its own angular slot with jitter of up to a quarter slot
// either way and a radius between half and all of the usable ring; the
// resulting positions are then shuffled so slot order carries no turn-order
// bias.
func circlePlacement(rng *rand.Rand, phys *Physics, n int) []geometry.Vec2 {
	center := geometry.Vec2{X: phys.BoardSize / 2, Y: phys.BoardSize / 2}
	maxRadius := phys.BoardSize/2 - phys.RobotDiameter
	slot := 2 * math.Pi / float64(n)

	positions := make([]geometry.Vec2, n)
	for i := range positions {
		angle := slot*float64(i) + (rng.Float64()-0.5)*slot/2
		radius := maxRadius * (0.5 + 0.5*rng.Float64())
		positions[i] = center.Add(geometry.FromAngle(angle).Scale(radius))
	}

	rng.Shuffle(n, func(i, j int) {
		positions[i], positions[j] = positions[j], positions[i]
	})
	return positions
}

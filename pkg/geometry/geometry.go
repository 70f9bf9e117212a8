package geometry

import "math"

// Vec2 is a point or displacement in arena units
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func (a Vec2) Add(b Vec2) Vec2      { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2      { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }
func (a Vec2) Len() float64         { return math.Hypot(a.X, a.Y) }

// FromAngle returns the unit vector pointing at angle radians
func FromAngle(angle float64) Vec2 {
	return Vec2{math.Cos(angle), math.Sin(angle)}
}

// Dist returns the Euclidean distance between a and b
func Dist(a, b Vec2) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Clamp bounds x into [lo, hi]
func Clamp(x, lo, hi float64) float64 {
	return math.Min(math.Max(lo, x), hi)
}

// ClampInt bounds x into [lo, hi]
func ClampInt(x, lo, hi int) int {
	return min(max(lo, x), hi)
}

// Orientation returns the determinant (signed area) spanned by the vectors
// b->a and b->c. Zero means the three points are collinear; the sign gives
// the winding.
func Orientation(a, b, c Vec2) float64 {
	ba := a.Sub(b)
	bc := c.Sub(b)
	return ba.X*bc.Y - ba.Y*bc.X
}

// NormalizeDegrees maps any angle in degrees into [0, 360)
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Radians converts degrees to radians
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

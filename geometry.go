package braitenberg

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	twoPi     = 2 * math.Pi
	halfPi    = math.Pi / 2
	threeHalf = 3 * math.Pi / 2
)

// A Point is a position in arena coordinates (pixels, y pointing down).
type Point r2.Vec

// Add returns the vector sum of p and q.
func (p Point) Add(q Point) Point {
	return Point(r2.Add(r2.Vec(p), r2.Vec(q)))
}

// Finite reports whether both coordinates are finite numbers.
func (p Point) Finite() bool {
	return finite(p.X) && finite(p.Y)
}

// NormalizeAngle maps θ into [0, 2π).
// Large magnitudes are reduced with math.Mod first so that the correction
// loop runs a bounded number of times. Non-finite inputs return NaN.
func NormalizeAngle(θ float64) float64 {
	if θ >= 0 && θ < twoPi {
		return θ
	}
	θ = math.Mod(θ, twoPi)
	for i := 0; i < 2 && θ < 0; i++ {
		θ += twoPi
	}
	// θ+2π may round up to exactly 2π
	if θ >= twoPi {
		θ -= twoPi
	}
	return θ
}

// AngleBetween returns the direction of p2 as seen from p1.
func AngleBetween(p1, p2 Point) float64 {
	return math.Atan2(p2.Y-p1.Y, p2.X-p1.X)
}

// DistanceBetween returns the Euclidean distance between p1 and p2.
func DistanceBetween(p1, p2 Point) float64 {
	return r2.Norm(r2.Sub(r2.Vec(p2), r2.Vec(p1)))
}

// Scale linearly maps v from [inLo, inHi] onto [outLo, outHi].
// A degenerate input range yields 0.
func Scale(v, inLo, inHi, outLo, outHi float64) float64 {
	in := inHi - inLo
	if in == 0 {
		return 0
	}
	return outLo + (v-inLo)*(outHi-outLo)/in
}

// Clip clamps v to [lo, hi].
func Clip(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}

// Square returns x*x.
func Square(x float64) float64 {
	return x * x
}

// RotateAroundPoint rotates p about pivot by angle radians.
//
// The rotated y is computed from the already rotated x, not the original one.
// This is not a rigid rotation; vehicle motion depends on it.
func RotateAroundPoint(p, pivot Point, angle float64) Point {
	x, y := p.X-pivot.X, p.Y-pivot.Y
	sin, cos := math.Sincos(angle)
	x = x*cos - y*sin
	y = y*cos + x*sin
	return Point{X: x + pivot.X, Y: y + pivot.Y}
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

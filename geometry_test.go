package braitenberg

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero", 0, 0},
		{"in range", 1, 1},
		{"full turn", twoPi, 0},
		{"negative quarter", -halfPi, threeHalf},
		{"several turns", 7 * math.Pi, math.Pi},
		{"several negative turns", -5*math.Pi - halfPi, halfPi},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, NormalizeAngle(tt.in), 1e-9)
		})
	}
}

func TestNormalizeAngleRangeAndIdempotence(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	inputs := []float64{1e300, -1e300, math.MaxFloat64, -math.MaxFloat64, -1e-300, math.SmallestNonzeroFloat64, -twoPi}
	for i := 0; i < 1000; i++ {
		inputs = append(inputs, (r.Float64()-0.5)*1e6)
	}
	for _, a := range inputs {
		n := NormalizeAngle(a)
		assert.GreaterOrEqual(t, n, 0.0, "input %g", a)
		assert.Less(t, n, twoPi, "input %g", a)
		assert.Equal(t, n, NormalizeAngle(n), "input %g", a)
	}
}

func TestNormalizeAngleNonFinite(t *testing.T) {
	assert.True(t, math.IsNaN(NormalizeAngle(math.NaN())))
	assert.True(t, math.IsNaN(NormalizeAngle(math.Inf(1))))
	assert.True(t, math.IsNaN(NormalizeAngle(math.Inf(-1))))
}

func TestAngleAndDistanceBetween(t *testing.T) {
	a, b := Point{X: 1, Y: 1}, Point{X: 4, Y: 5}
	assert.Equal(t, 5.0, DistanceBetween(a, b))
	assert.Equal(t, DistanceBetween(a, b), DistanceBetween(b, a))
	assert.InDelta(t, math.Atan2(4, 3), AngleBetween(a, b), 1e-15)
	assert.InDelta(t, math.Pi, AngleBetween(Point{}, Point{X: -1}), 1e-15)
}

func TestScale(t *testing.T) {
	assert.Equal(t, 0.5, Scale(5, 0, 10, 0, 1))
	assert.Equal(t, 25.0, Scale(0.5, 0, 1, 0, 50))
	assert.Equal(t, 1.0, Scale(0, 0, 10, 1, 0))
	assert.Equal(t, 0.0, Scale(3, 2, 2, 5, 9), "degenerate input range")
}

func TestClip(t *testing.T) {
	assert.Equal(t, 1.0, Clip(0, 1, 2))
	assert.Equal(t, 1.5, Clip(1.5, 1, 2))
	assert.Equal(t, 2.0, Clip(3, 1, 2))
}

func TestRotateAroundSelf(t *testing.T) {
	p := Point{X: 12.5, Y: -3}
	for _, θ := range []float64{0, 0.3, math.Pi, -2, 100} {
		assert.Equal(t, p, RotateAroundPoint(p, p, θ))
	}
}

func TestRotateAroundPointUsesRotatedX(t *testing.T) {
	// a rigid quarter turn would give (0, 1)
	got := RotateAroundPoint(Point{X: 1}, Point{}, halfPi)
	assert.InDelta(t, 0, got.X, 1e-12)
	assert.InDelta(t, 0, got.Y, 1e-12)

	θ := 0.1
	p, pivot := Point{X: 13, Y: 7}, Point{X: 10, Y: 5}
	x := 3*math.Cos(θ) - 2*math.Sin(θ)
	y := 2*math.Cos(θ) + x*math.Sin(θ)
	got = RotateAroundPoint(p, pivot, θ)
	assert.Equal(t, Point{X: x + 10, Y: y + 5}, got)
}

package braitenberg

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBoundary(t *testing.T) {
	for _, name := range []string{"unbounded", "clip", "reflect", "wrap"} {
		b, err := ParseBoundary(name, 640, 480)
		require.NoError(t, err, name)
		assert.NotNil(t, b, name)
	}
	_, err := ParseBoundary("torus", 640, 480)
	assert.ErrorIs(t, err, ErrUnknownBoundary)
}

func TestUnbounded(t *testing.T) {
	s := State{Pos: Point{X: -1e6, Y: 3}, Orientation: 1}
	assert.Equal(t, s, Unbounded(State{}, s, 16))
}

func TestClamp(t *testing.T) {
	move := Clamp(640, 480)
	got := move(State{}, State{Pos: Point{X: 700, Y: -5}, Orientation: 2}, 16)
	assert.Equal(t, State{Pos: Point{X: 624, Y: 16}, Orientation: 2}, got)
}

func TestWrap(t *testing.T) {
	move := Wrap(640, 480)
	tests := []struct {
		name string
		in   Point
		want Point
	}{
		{"inside", Point{X: 320, Y: 240}, Point{X: 320, Y: 240}},
		{"on the padded edge", Point{X: 624, Y: 16}, Point{X: 624, Y: 16}},
		{"past right", Point{X: 630, Y: 240}, Point{X: 22, Y: 240}},
		{"past left", Point{X: 10, Y: 240}, Point{X: 618, Y: 240}},
		{"past bottom", Point{X: 320, Y: 470}, Point{X: 320, Y: 22}},
		{"far away", Point{X: 16 + 3*608 + 5, Y: 240}, Point{X: 21, Y: 240}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := move(State{}, State{Pos: tt.in, Orientation: 4}, 16)
			assert.InDelta(t, tt.want.X, got.Pos.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Pos.Y, 1e-9)
			assert.Equal(t, 4.0, got.Orientation)
		})
	}
}

func TestWrapVehicleReenters(t *testing.T) {
	w := NewWorld(640, 480, 1)
	v, err := w.AddVehicle(Point{X: 700, Y: 240}, 0.3, "grey")
	require.NoError(t, err)

	require.NoError(t, w.Step())
	assert.GreaterOrEqual(t, v.Pos.X, 16.0)
	assert.LessOrEqual(t, v.Pos.X, 624.0)
	assert.Equal(t, NormalizeAngle(0.3-0.015+0.01), v.Orientation, "wrapping keeps the heading")
}

func TestReflect(t *testing.T) {
	move := Reflect(640, 480)

	got := move(State{}, State{Pos: Point{X: 10, Y: 240}, Orientation: 0}, 16)
	assert.Equal(t, 22.0, got.Pos.X)
	assert.InDelta(t, math.Pi, got.Orientation, 1e-12)

	got = move(State{}, State{Pos: Point{X: 320, Y: 470}, Orientation: halfPi}, 16)
	assert.Equal(t, 458.0, got.Pos.Y)
	assert.InDelta(t, threeHalf, got.Orientation, 1e-12)

	inside := State{Pos: Point{X: 320, Y: 240}, Orientation: 1}
	assert.Equal(t, inside, move(State{}, inside, 16))
}

func TestReflectFarOutside(t *testing.T) {
	move := Reflect(640, 480)
	for _, tt := range []struct {
		x, want float64
		flip    bool
	}{
		{x: 1242, want: 26},              // two walls
		{x: -1000, want: 216},            // two walls
		{x: 2000, want: 464, flip: true}, // three walls
		{x: 630, want: 618, flip: true},
	} {
		got := move(State{}, State{Pos: Point{X: tt.x, Y: 240}, Orientation: 0.5}, 16)
		assert.Equal(t, tt.want, got.Pos.X, "x=%g", tt.x)
		assert.Equal(t, 240.0, got.Pos.Y)
		if tt.flip {
			assert.InDelta(t, math.Pi-0.5, got.Orientation, 1e-12, "x=%g", tt.x)
		} else {
			assert.Equal(t, 0.5, got.Orientation, "x=%g", tt.x)
		}
	}
}

func TestReflectReleasedFarAway(t *testing.T) {
	w := NewWorld(640, 480, 1)
	w.Env.Move = Reflect(640, 480)
	w.Behavior.Idle = IdleStop
	v, err := w.AddVehicle(Point{X: 320, Y: 240}, 0, "grey")
	require.NoError(t, err)

	require.True(t, w.Grab(v.ID, Point{X: -3000, Y: 5000}))
	require.NoError(t, w.Step())
	w.Release(v.ID)
	require.NoError(t, w.Step())
	assert.GreaterOrEqual(t, v.Pos.X, 16.0)
	assert.LessOrEqual(t, v.Pos.X, 624.0)
	assert.GreaterOrEqual(t, v.Pos.Y, 16.0)
	assert.LessOrEqual(t, v.Pos.Y, 464.0)
}

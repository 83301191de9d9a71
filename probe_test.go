package braitenberg

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbe(t *testing.T) {
	w := NewWorld(640, 480, 1)
	_, err := w.AddBeacon(Point{X: 100, Y: 240}, "red")
	require.NoError(t, err)
	w.Gains.Set("red", "grey", GainEntry{L2L: 1, R2R: 1})

	// facing the beacon head on
	l, r, err := w.Probe(Point{X: 300, Y: 240}, 0, "grey")
	require.NoError(t, err)
	assert.Greater(t, l, 0.0)
	assert.InDelta(t, l, r, 1e-9)
	assert.InDelta(t, 0, Turn(l, r), 1e-9)

	// closer means stronger
	l2, _, err := w.Probe(Point{X: 200, Y: 240}, 0, "grey")
	require.NoError(t, err)
	assert.Greater(t, l2, l)

	assert.Empty(t, w.Vehicles, "probing leaves the world untouched")

	_, _, err = w.Probe(Point{X: math.NaN()}, 0, "grey")
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestProbeIdle(t *testing.T) {
	w := NewWorld(640, 480, 1)
	l, r, err := w.Probe(Point{X: 300, Y: 240}, 0, "grey")
	require.NoError(t, err)
	assert.Equal(t, IdleCircle.Left, l)
	assert.Equal(t, IdleCircle.Right, r)
	assert.Equal(t, 0.01-0.015, Turn(l, r))
}

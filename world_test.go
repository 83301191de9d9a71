package braitenberg

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepIsOrderIndependent(t *testing.T) {
	build := func() (*World, *Vehicle, *Vehicle) {
		w := NewWorld(640, 480, 1)
		w.Gains.Set("B", "A", GainEntry{L2R: 1, R2L: 1})
		w.Gains.Set("A", "B", GainEntry{L2L: -1, R2R: 1})
		a, err := w.AddVehicle(Point{X: 300, Y: 240}, 0.3, "A")
		require.NoError(t, err)
		b, err := w.AddVehicle(Point{X: 340, Y: 250}, 2, "B")
		require.NoError(t, err)
		return w, a, b
	}
	w1, a, b := build()
	w2 := NewWorld(640, 480, 1)
	w2.Gains = w1.Gains.Clone()
	ac, bc := *a, *b
	w2.Vehicles = []*Vehicle{&bc, &ac}

	for i := 0; i < 50; i++ {
		require.NoError(t, w1.Step())
		require.NoError(t, w2.Step())
	}
	opt := cmpopts.EquateApprox(0, 1e-12)
	for _, v := range w1.Vehicles {
		other := w2.Vehicle(v.ID)
		require.NotNil(t, other)
		if diff := cmp.Diff(v.State, other.State, opt); diff != "" {
			t.Errorf("vehicle %s (-w1 +w2):\n%s", v.Color, diff)
		}
	}
}

func TestDrainAppliesAndRejects(t *testing.T) {
	w := NewWorld(640, 480, 1)
	w.Post(func(w *World) error { return w.SetGain("a", "b", "l2l", 1) })
	w.Post(func(w *World) error { return w.SetGain("a", "b", "sideways", 1) })
	w.Post(func(w *World) error { return w.SetGain("a", "b", "r2r", 0.5) })

	err := w.Drain()
	assert.ErrorIs(t, err, ErrUnknownChannel)
	assert.Equal(t, GainEntry{L2L: 1, R2R: 0.5}, w.Gains.Get("a", "b"))
	assert.NoError(t, w.Drain(), "queue is emptied")
}

func TestSetGainNonFinite(t *testing.T) {
	w := NewWorld(640, 480, 1)
	require.NoError(t, w.SetGain("a", "b", "l2r", 0.25))
	v, err := w.GainValue("a", "b", "L2R")
	require.NoError(t, err)
	assert.Equal(t, 0.25, v)

	err = w.SetGain("a", "b", "l2r", math.Inf(1))
	assert.ErrorIs(t, err, ErrNonFinite)
	v, err = w.GainValue("a", "b", "l2r")
	require.NoError(t, err)
	assert.Equal(t, 0.25, v)
}

func TestAdvancePaused(t *testing.T) {
	w := NewWorld(640, 480, 1)
	_, err := w.AddVehicle(Point{X: 320, Y: 240}, 0, "grey")
	require.NoError(t, err)

	w.Post(func(w *World) error { w.SetPaused(true); return nil })
	require.NoError(t, w.Advance())
	assert.Equal(t, uint64(0), w.Tick)

	w.Post(func(w *World) error { w.SetPaused(false); return nil })
	require.NoError(t, w.Advance())
	assert.Equal(t, uint64(1), w.Tick)
}

func TestAdvanceStepOnce(t *testing.T) {
	w := NewWorld(640, 480, 1)
	_, err := w.AddVehicle(Point{X: 320, Y: 240}, 0, "grey")
	require.NoError(t, err)
	w.SetPaused(true)

	w.Post(func(w *World) error { w.StepOnce(); return nil })
	require.NoError(t, w.Advance())
	assert.Equal(t, uint64(1), w.Tick)
	require.NoError(t, w.Advance())
	assert.Equal(t, uint64(1), w.Tick)
	assert.True(t, w.Paused)
}

func TestAdvanceStepOnceNonFinite(t *testing.T) {
	w := NewWorld(640, 480, 1)
	w.Behavior.Idle = Idle{Left: 0.01, Right: math.NaN()}
	_, err := w.AddVehicle(Point{X: 320, Y: 240}, 0, "grey")
	require.NoError(t, err)
	w.SetPaused(true)

	w.Post(func(w *World) error { w.StepOnce(); return nil })
	assert.ErrorIs(t, w.Advance(), ErrNonFinite)
}

func TestAdvanceStopsOnNonFinite(t *testing.T) {
	w := NewWorld(640, 480, 1)
	w.Behavior.Idle = Idle{Left: 0.01, Right: math.NaN()}
	_, err := w.AddVehicle(Point{X: 320, Y: 240}, 0, "grey")
	require.NoError(t, err)
	assert.ErrorIs(t, w.Advance(), ErrNonFinite)
}

func TestSetPopulation(t *testing.T) {
	w := NewWorld(640, 480, 3)
	require.NoError(t, w.SetPopulation("red", 4))
	require.NoError(t, w.SetPopulation("blue", 2))
	assert.Equal(t, 4, w.Population("red"))
	assert.Equal(t, 2, w.Population("blue"))

	first := w.Vehicles[0].ID
	require.NoError(t, w.SetPopulation("red", 1))
	assert.Equal(t, 1, w.Population("red"))
	assert.Equal(t, 2, w.Population("blue"))
	assert.Equal(t, first, w.Vehicles[0].ID, "most recent vehicles go first")
	assert.Equal(t, []Label{"red", "blue"}, w.Colors())

	assert.Error(t, w.SetPopulation("red", -1))
	assert.Equal(t, 1, w.Population("red"))

	for _, v := range w.Vehicles {
		assert.GreaterOrEqual(t, v.Pos.X, 16.0)
		assert.LessOrEqual(t, v.Pos.X, 624.0)
		assert.GreaterOrEqual(t, v.Pos.Y, 16.0)
		assert.LessOrEqual(t, v.Pos.Y, 464.0)
	}
}

func TestSpawnIsSeeded(t *testing.T) {
	poses := func() []State {
		w := NewWorld(640, 480, 42)
		require.NoError(t, w.SetPopulation("red", 3))
		var out []State
		for _, v := range w.Vehicles {
			out = append(out, v.State)
		}
		return out
	}
	assert.Equal(t, poses(), poses())
}

func TestEntityAt(t *testing.T) {
	w := NewWorld(640, 480, 1)
	v, err := w.AddVehicle(Point{X: 100, Y: 100}, 0, "grey")
	require.NoError(t, err)
	b, err := w.AddBeacon(Point{X: 300, Y: 300}, "red")
	require.NoError(t, err)

	id, ok := w.EntityAt(Point{X: 110, Y: 105})
	assert.True(t, ok)
	assert.Equal(t, v.ID, id)

	id, ok = w.EntityAt(Point{X: 305, Y: 295})
	assert.True(t, ok)
	assert.Equal(t, b.ID, id)

	assert.True(t, w.EnableBeacon(b.ID, false))
	_, ok = w.EntityAt(Point{X: 305, Y: 295})
	assert.False(t, ok, "disabled beacons cannot be picked")
	assert.False(t, w.EnableBeacon(uuid.New(), true))

	_, ok = w.EntityAt(Point{X: 500, Y: 20})
	assert.False(t, ok)
}

func TestDisabledBeaconIsNotSensed(t *testing.T) {
	w := NewWorld(640, 480, 1)
	_, err := w.AddVehicle(Point{X: 100, Y: 100}, 0, "grey")
	require.NoError(t, err)
	b, err := w.AddBeacon(Point{X: 300, Y: 300}, "red")
	require.NoError(t, err)
	assert.Len(t, w.Targets(), 2)
	w.EnableBeacon(b.ID, false)
	assert.Len(t, w.Targets(), 1)
}

func TestGrabDragRelease(t *testing.T) {
	w := NewWorld(640, 480, 1)
	v, err := w.AddVehicle(Point{X: 100, Y: 100}, 1, "grey")
	require.NoError(t, err)
	b, err := w.AddBeacon(Point{X: 300, Y: 300}, "red")
	require.NoError(t, err)

	assert.False(t, w.Grab(uuid.New(), Point{}))
	assert.True(t, w.Grab(v.ID, Point{X: 200, Y: 210}))
	assert.True(t, w.Grab(b.ID, Point{X: 50, Y: 60}))
	require.NoError(t, w.Step())
	assert.Equal(t, Point{X: 200, Y: 210}, v.Pos)
	assert.Equal(t, 1.0, v.Orientation)
	assert.Equal(t, Point{X: 50, Y: 60}, b.Pos)

	w.DragTo(v.ID, Point{X: 220, Y: 230})
	assert.True(t, w.Nudge(v.ID, 0.5))
	require.NoError(t, w.Step())
	assert.Equal(t, Point{X: 220, Y: 230}, v.Pos)
	assert.Equal(t, 1.5, v.Orientation)

	w.Release(v.ID)
	w.Release(b.ID)
	assert.False(t, w.Nudge(v.ID, 0.5))
	require.NoError(t, w.Step())
	assert.Equal(t, Point{X: 50, Y: 60}, b.Pos, "released beacons stay put")
}

func TestAddBeaconNonFinite(t *testing.T) {
	w := NewWorld(640, 480, 1)
	_, err := w.AddBeacon(Point{X: 1, Y: math.NaN()}, "red")
	assert.True(t, errors.Is(err, ErrNonFinite))
	assert.Empty(t, w.Beacons)
}

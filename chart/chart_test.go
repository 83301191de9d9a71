package chart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/PrincetonUniversity/braitenberg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrajectories(t *testing.T) {
	w := braitenberg.NewWorld(640, 480, 1)
	require.NoError(t, w.ApplyScenario("fear"))
	tr := NewTrajectories("fear", w.Env)

	require.NoError(t, w.Render(tr))
	for i := 0; i < 100; i++ {
		require.NoError(t, w.Step())
		require.NoError(t, w.Render(tr))
	}
	assert.Equal(t, 101, tr.Frames())
	assert.Len(t, tr.order, len(w.Vehicles))

	v := w.Vehicles[0]
	segs := tr.tracks[v.ID].segs
	last := segs[len(segs)-1]
	assert.Equal(t, v.Pos.X, last[len(last)-1].X)
	assert.Equal(t, 480-v.Pos.Y, last[len(last)-1].Y, "y axis is flipped")

	path := filepath.Join(t.TempDir(), "fear.png")
	require.NoError(t, tr.Save(path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestTrajectorySplitsOnWrap(t *testing.T) {
	tr := NewTrajectories("", braitenberg.Environment{Width: 640, Height: 480})
	s := braitenberg.Sprite{Kind: braitenberg.KindVehicle, Color: "red"}
	for _, x := range []float64{600, 620, 20, 40} {
		s.Pos = braitenberg.Point{X: x, Y: 240}
		require.NoError(t, tr.Draw(s))
	}
	segs := tr.tracks[s.ID].segs
	require.Len(t, segs, 2)
	assert.Len(t, segs[0], 2)
	assert.Len(t, segs[1], 2)
}

func TestBeaconsArePlotted(t *testing.T) {
	w := braitenberg.NewWorld(640, 480, 1)
	require.NoError(t, w.ApplyScenario("classic"))
	tr := NewTrajectories("classic", w.Env)
	require.NoError(t, w.Render(tr))

	p, err := tr.Plot()
	require.NoError(t, err)
	assert.Equal(t, "classic", p.Title.Text)
}

func TestField(t *testing.T) {
	f := NewField(3, 2, 10, 20, 5)
	f.Set(2, 1, 7)
	c, r := f.Dims()
	assert.Equal(t, 3, c)
	assert.Equal(t, 2, r)
	assert.Equal(t, 7.0, f.Z(2, 1))
	assert.Equal(t, 20.0, f.X(2))
	assert.Equal(t, 25.0, f.Y(1))

	lo, hi := f.Range()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 7.0, hi)

	path := filepath.Join(t.TempDir(), "field.png")
	require.NoError(t, SaveHeatMap(f, "field", path))
	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestFlatField(t *testing.T) {
	f := NewField(4, 4, 0, 0, 1)
	_, err := HeatMap(f, "flat")
	require.NoError(t, err)

	_, err = HeatMap(NewField(0, 0, 0, 0, 1), "empty")
	assert.Error(t, err)
}

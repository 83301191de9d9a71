package braitenberg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGainMatrixMiss(t *testing.T) {
	g := NewGainMatrix()
	assert.Equal(t, GainEntry{}, g.Get("never", "inserted"))

	var nilMatrix *GainMatrix
	assert.Equal(t, GainEntry{}, nilMatrix.Get("a", "b"))
	assert.Nil(t, nilMatrix.Pairs())
}

func TestGainMatrixSetChannel(t *testing.T) {
	g := NewGainMatrix()
	require.NoError(t, g.SetChannel("red", "blue", "l2r", 0.5))
	require.NoError(t, g.SetChannel("red", "blue", "R2L", -0.25))
	assert.Equal(t, GainEntry{L2R: 0.5, R2L: -0.25}, g.Get("red", "blue"))
	assert.Equal(t, GainEntry{}, g.Get("blue", "red"), "pairs are ordered")

	v, err := g.Channel("red", "blue", "l2r")
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)
}

func TestGainMatrixUnknownChannel(t *testing.T) {
	g := NewGainMatrix()
	g.Set("red", "blue", GainEntry{L2L: 1})

	err := g.SetChannel("red", "blue", "left", 0.3)
	assert.ErrorIs(t, err, ErrUnknownChannel)
	assert.Contains(t, err.Error(), `"left"`)
	assert.Equal(t, GainEntry{L2L: 1}, g.Get("red", "blue"), "rejected write leaves entry untouched")

	_, err = g.Channel("red", "blue", "")
	assert.ErrorIs(t, err, ErrUnknownChannel)
}

func TestParseChannel(t *testing.T) {
	for i, s := range []string{"l2l", "L2R", " r2l ", "r2r"} {
		c, err := ParseChannel(s)
		require.NoError(t, err)
		assert.Equal(t, Channel(i), c)
	}
	assert.Equal(t, "r2l", R2L.String())
}

func TestGainEntryWith(t *testing.T) {
	e := GainEntry{}.With(L2L, 1).With(R2R, -1)
	assert.Equal(t, GainEntry{L2L: 1, R2R: -1}, e)
	assert.Equal(t, -1.0, e.Get(R2R))
}

func TestGainMatrixCloneAndPairs(t *testing.T) {
	g := NewGainMatrix()
	g.Set("green", "red", GainEntry{L2L: 1})
	g.Set("blue", "red", GainEntry{R2R: 1})
	g.Set("blue", "blue", GainEntry{L2R: 1})

	c := g.Clone()
	c.Set("green", "red", GainEntry{})
	assert.Equal(t, GainEntry{L2L: 1}, g.Get("green", "red"))

	assert.Equal(t, []Pair{{"blue", "blue"}, {"blue", "red"}, {"green", "red"}}, g.Pairs())
	assert.Equal(t, "green>red", Pair{"green", "red"}.String())
}

package config

import (
	"os"
	"sort"
	"time"

	"github.com/PrincetonUniversity/braitenberg"
	"github.com/rs/zerolog"
)

// Setup builds the world described by c.
func (c *Config) Setup(log zerolog.Logger) (*braitenberg.World, error) {
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	w := braitenberg.NewWorld(c.Width, c.Height, seed)
	w.Logger = log

	var err error
	if w.Env.Move, err = braitenberg.ParseBoundary(c.Boundary, c.Width, c.Height); err != nil {
		return nil, err
	}
	if w.Behavior.Idle, err = braitenberg.ParseIdle(c.Idle); err != nil {
		return nil, err
	}
	w.Behavior.Influence = braitenberg.Influence{
		AngleFloor:    c.AngleFloor,
		DistanceFloor: c.DistanceFloor,
	}
	w.Behavior.Speed = c.Speed
	w.Behavior.SensorOffset = c.SensorOffset
	w.HalfDim = braitenberg.Point{X: c.BodyLength / 2, Y: c.BodyWidth / 2}

	if err := w.ApplyScenario(c.Scenario); err != nil {
		return nil, err
	}

	colors := make([]string, 0, len(c.Population))
	for color := range c.Population {
		colors = append(colors, color)
	}
	sort.Strings(colors)
	for _, color := range colors {
		if err := w.SetPopulation(braitenberg.Label(color), c.Population[color]); err != nil {
			return nil, err
		}
	}
	for _, g := range c.Gains {
		if err := w.SetGain(braitenberg.Label(g.Observed), braitenberg.Label(g.Observer), g.Channel, g.Value); err != nil {
			return nil, err
		}
	}

	log.Debug().Int64("seed", seed).Str("boundary", c.Boundary).Msg("world ready")
	return w, nil
}

// Logger returns a console logger at the configured level.
func (c *Config) Logger() zerolog.Logger {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).Level(lvl).With().Timestamp().Logger()
}

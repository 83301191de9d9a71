// Package config reads simulation parameters from TOML files and builds
// the corresponding world.
package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/BurntSushi/toml"
	"github.com/PrincetonUniversity/braitenberg"
	"github.com/rs/zerolog"
)

// Config holds the various parameters required for running a simulation.
type Config struct {
	// Output selects the driver from its extension: .h5 records poses to an
	// HDF5 file, .db to an SQLite database, .png, .svg or .pdf plots
	// trajectories. The empty string runs an interactive OpenGL simulation.
	Output string

	Scenario   string // preset gains and population
	Seed       int64  // random seed, 0 means time based
	Steps      int    // number of ticks (non interactive only)
	TickMillis int    // tick period (interactive only)
	Paused     bool   // start paused (interactive only)

	// Arena parameters
	Width    float64 // unit: pixel
	Height   float64 // unit: pixel
	Boundary string  // possible values: unbounded, clip, reflect, wrap

	// Vehicle parameters
	Idle          string  // possible values: circle, stop
	AngleFloor    float64 // unit: 1
	DistanceFloor float64 // unit: 1
	Speed         float64 // unit: rad/tick
	SensorOffset  float64 // unit: rad
	BodyLength    float64 // unit: pixel
	BodyWidth     float64 // unit: pixel

	// Interaction parameters
	NudgeStep float64 // unit: rad/notch

	// HDF5 parameters
	MaxVehicles int

	LogLevel string // possible values: trace, debug, info, warn, error

	// Population overrides the scenario population per colour.
	Population map[string]int

	// Gains override single gain scalars of the scenario.
	Gains []GainConfig
}

// GainConfig sets one gain scalar.
type GainConfig struct {
	Observed string
	Observer string
	Channel  string // possible values: l2l, l2r, r2l, r2r
	Value    float64
}

// DefaultConf are the default parameters.
var DefaultConf = &Config{
	Output:        "",
	Scenario:      "classic",
	Steps:         2000,
	TickMillis:    20,
	Width:         640,
	Height:        480,
	Boundary:      "wrap",
	Idle:          "circle",
	AngleFloor:    braitenberg.DefaultInfluence.AngleFloor,
	DistanceFloor: braitenberg.DefaultInfluence.DistanceFloor,
	Speed:         braitenberg.DefaultBehavior.Speed,
	SensorOffset:  0,
	BodyLength:    2 * braitenberg.DefaultHalfDim.X,
	BodyWidth:     2 * braitenberg.DefaultHalfDim.Y,
	NudgeStep:     120.0 / 500,
	MaxVehicles:   64,
	LogLevel:      "info",
}

// Default returns a copy of DefaultConf.
func Default() *Config {
	c := *DefaultConf
	return &c
}

// Parse parses the TOML config file whose path is provided into a copy of
// the default parameters, then validates the result.
func Parse(path string) (*Config, error) {
	c := Default()
	if err := ParseInto(path, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ParseInto decodes the TOML config file into conf, which may embed extra
// fields, and validates it. Keys matching no field are an error.
func ParseInto(path string, conf Validator) error {
	md, err := toml.DecodeFile(path, conf)
	if err != nil {
		return err
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return fmt.Errorf("%s: unknown keys %v", path, keys)
	}
	if err := conf.Validate(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// A Validator checks its own consistency.
type Validator interface {
	Validate() error
}

// Validate reports every invalid parameter.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	finite := func(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

	check(c.Width > 0 && finite(c.Width), "bad width %g", c.Width)
	check(c.Height > 0 && finite(c.Height), "bad height %g", c.Height)
	check(c.Steps >= 0, "bad steps %d", c.Steps)
	check(c.TickMillis >= 0, "bad tick period %dms", c.TickMillis)
	check(c.BodyLength > 0 && finite(c.BodyLength), "bad body length %g", c.BodyLength)
	check(c.BodyWidth > 0 && finite(c.BodyWidth), "bad body width %g", c.BodyWidth)
	check(c.MaxVehicles > 0, "bad max vehicles %d", c.MaxVehicles)
	for name, v := range map[string]float64{
		"angle floor":    c.AngleFloor,
		"distance floor": c.DistanceFloor,
		"speed":          c.Speed,
		"sensor offset":  c.SensorOffset,
		"nudge step":     c.NudgeStep,
	} {
		check(finite(v), "bad %s %g", name, v)
	}

	if _, err := braitenberg.ParseBoundary(c.Boundary, c.Width, c.Height); err != nil {
		errs = append(errs, err)
	}
	if _, err := braitenberg.ParseIdle(c.Idle); err != nil {
		errs = append(errs, err)
	}
	if _, ok := braitenberg.LookupScenario(c.Scenario); !ok {
		errs = append(errs, fmt.Errorf("%w %q", braitenberg.ErrUnknownScenario, c.Scenario))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("bad log level %q", c.LogLevel))
	}
	for color, n := range c.Population {
		check(n >= 0, "bad population %d for %s", n, color)
	}
	for _, g := range c.Gains {
		if _, err := braitenberg.ParseChannel(g.Channel); err != nil {
			errs = append(errs, fmt.Errorf("gain %s>%s: %w", g.Observed, g.Observer, err))
		}
		check(finite(g.Value), "gain %s>%s %s: bad value %g", g.Observed, g.Observer, g.Channel, g.Value)
	}
	return errors.Join(errs...)
}

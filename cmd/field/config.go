package main

import (
	"errors"
	"fmt"

	"github.com/PrincetonUniversity/braitenberg"
	"github.com/PrincetonUniversity/braitenberg/config"
)

// Config holds the parameters of a field sweep on top of those of the world.
type Config struct {
	config.Config

	Probe            string  // colour of the probe vehicle
	ProbeOrientation float64 // unit: rad
	Metric           string  // possible values: left, right, turn, drive
	GridStep         float64 // unit: pixel
	Replicates       int     // number of fields computed
	StepsBetween     int     // ticks between two replicates (scenario layout)

	Layout string // possible values: scenario, data
	Input  string // HDF5 recording (data layout)
}

// DefaultConf are the default parameters.
var DefaultConf = &Config{
	Config:           *config.DefaultConf,
	Probe:            "grey",
	ProbeOrientation: 0,
	Metric:           "turn",
	GridStep:         8,
	Replicates:       1,
	StepsBetween:     100,
	Layout:           "scenario",
}

// ParseConfig parses the TOML config file whose path is provided.
func ParseConfig(path string) (*Config, error) {
	// config file overwrites a copy of the default parameters
	conf := *DefaultConf
	if err := config.ParseInto(path, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

// Validate reports every invalid parameter.
func (c *Config) Validate() error {
	errs := []error{c.Config.Validate()}
	if _, err := metric(c.Metric); err != nil {
		errs = append(errs, err)
	}
	if !(c.GridStep > 0) {
		errs = append(errs, fmt.Errorf("bad grid step %g", c.GridStep))
	}
	if c.Replicates < 1 {
		errs = append(errs, fmt.Errorf("bad replicates %d", c.Replicates))
	}
	if c.StepsBetween < 0 {
		errs = append(errs, fmt.Errorf("bad steps between replicates %d", c.StepsBetween))
	}
	switch c.Layout {
	case "scenario":
	case "data":
		if c.Input == "" {
			errs = append(errs, errors.New("data layout needs an input file"))
		}
	default:
		errs = append(errs, fmt.Errorf("bad layout %q", c.Layout))
	}
	return errors.Join(errs...)
}

// metric returns the function reducing wheel speeds to a field value.
func metric(name string) (func(left, right float64) float64, error) {
	switch name {
	case "left":
		return func(l, r float64) float64 { return l }, nil
	case "right":
		return func(l, r float64) float64 { return r }, nil
	case "turn":
		return braitenberg.Turn, nil
	case "drive":
		return func(l, r float64) float64 { return (l + r) / 2 }, nil
	}
	return nil, fmt.Errorf("bad metric %q", name)
}

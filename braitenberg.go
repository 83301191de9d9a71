// Package braitenberg simulates differential-drive vehicles steered by their sensors.
//
// Every vehicle carries two sensors, one on each wheel. Each sensor measures
// the bearing and distance of every other vehicle or beacon, and a gain matrix
// keyed by colour pair couples those readings to the two wheel speeds.
// Motion is integrated at a fixed tick by composing two rotations, one about
// each wheel.
package braitenberg

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/rs/zerolog"
)

// An Environment contains all the parameters relative to the arena.
type Environment struct {
	// Width and Height are the arena dimensions.
	Width  float64
	Height float64

	// Move validates and canonicalizes a move by returning the actual new
	// state given a requested change in state. pad is half the largest
	// dimension of the moving body. It implements the boundary policy.
	Move Boundary
}

// Reach returns the largest distance between two points of the arena.
func (e *Environment) Reach() float64 {
	return math.Hypot(e.Width, e.Height)
}

// Idle holds the wheel speeds used by a vehicle that has nothing to sense.
type Idle struct {
	Left  float64
	Right float64
}

// Idle policies.
var (
	IdleCircle = Idle{Left: 0.015, Right: 0.01} // circle around
	IdleStop   = Idle{}                         // stand still
)

// ParseIdle returns the idle policy with the given name: circle or stop.
func ParseIdle(name string) (Idle, error) {
	switch name {
	case "circle":
		return IdleCircle, nil
	case "stop":
		return IdleStop, nil
	}
	return Idle{}, fmt.Errorf("bad idle policy %q", name)
}

// Behavior contains all the parameters relative to the rules followed by vehicles.
type Behavior struct {
	Influence Influence

	// Speed scales the averaged sensor drive into wheel angular velocity.
	Speed float64

	// Idle is used when there are no targets to sense.
	Idle Idle

	// SensorOffset turns the left sensor cone by +SensorOffset
	// and the right one by -SensorOffset (radians).
	SensorOffset float64
}

// DefaultBehavior matches the reference vehicles.
var DefaultBehavior = Behavior{
	Influence: DefaultInfluence,
	Speed:     0.05,
	Idle:      IdleCircle,
}

// DefaultHalfDim is the half extent of newly spawned vehicles.
var DefaultHalfDim = Point{X: 16, Y: 8}

// A World contains all the state and parameters of a simulation.
//
// A World is not safe for concurrent use. Other goroutines must go through
// Post, whose mutations are applied by Drain between ticks.
type World struct {
	Vehicles []*Vehicle
	Beacons  []*Beacon
	Gains    *GainMatrix
	Env      Environment
	Behavior Behavior

	// HalfDim is used for vehicles created by SetPopulation and scenarios.
	HalfDim Point

	Tick   uint64
	Paused bool

	stepOnce bool

	Logger zerolog.Logger

	rand *rand.Rand

	mu      sync.Mutex
	pending []func(*World) error
}

// NewWorld returns an empty wrapping arena with default behavior.
func NewWorld(width, height float64, seed int64) *World {
	return &World{
		Gains: NewGainMatrix(),
		Env: Environment{
			Width:  width,
			Height: height,
			Move:   Wrap(width, height),
		},
		Behavior: DefaultBehavior,
		HalfDim:  DefaultHalfDim,
		Logger:   zerolog.Nop(),
		rand:     rand.New(rand.NewSource(seed)),
	}
}

// Step runs a single simulation step.
//
// All velocities are computed against the poses of the previous tick before
// any vehicle moves, so the result does not depend on vehicle order.
func (w *World) Step() error {
	targets := w.Targets()
	for _, v := range w.Vehicles {
		v.CalcVelocity(w, targets)
	}
	for _, v := range w.Vehicles {
		if err := v.Update(&w.Env); err != nil {
			return err
		}
	}
	for _, b := range w.Beacons {
		if err := b.Update(); err != nil {
			return err
		}
	}
	w.Tick++
	return nil
}

// Advance applies pending mutations, then steps unless the world is paused.
// Rejected mutations are logged; only errors from Step are returned.
func (w *World) Advance() error {
	w.Drain()
	if !w.ShouldStep() {
		return nil
	}
	return w.Step()
}

// Targets returns what sensors can perceive this tick:
// every vehicle and every enabled beacon.
func (w *World) Targets() []Target {
	ts := make([]Target, 0, len(w.Vehicles)+len(w.Beacons))
	for _, v := range w.Vehicles {
		ts = append(ts, v.Target())
	}
	for _, b := range w.Beacons {
		if b.Enabled {
			ts = append(ts, b.Target())
		}
	}
	return ts
}

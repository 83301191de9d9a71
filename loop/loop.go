// Package loop drives a world at a fixed tick and renders every frame.
package loop

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/PrincetonUniversity/braitenberg"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/PrincetonUniversity/braitenberg/loop"

// DefaultPeriod is the tick of the interactive simulation.
const DefaultPeriod = 20 * time.Millisecond

// Config holds the parameters of the loop driver.
type Config struct {
	// Period between two ticks. Zero runs ticks back to back.
	Period time.Duration

	// Steps is the number of ticks to run. Zero runs until the context is done.
	Steps int

	// Sink receives a frame after every tick. It may be nil.
	Sink braitenberg.Sink

	// Meter records tick metrics. It defaults to the global meter,
	// which is a no-op unless a provider is installed.
	Meter metric.Meter

	Logger zerolog.Logger
}

type instruments struct {
	ticks    metric.Int64Counter
	rejected metric.Int64Counter
	duration metric.Float64Histogram
	vehicles metric.Int64ObservableGauge

	population atomic.Int64
}

func newInstruments(m metric.Meter) (*instruments, error) {
	in := new(instruments)
	var err error

	in.ticks, err = m.Int64Counter(
		"braitenberg.ticks",
		metric.WithDescription("Simulation ticks run"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tick counter: %w", err)
	}

	in.rejected, err = m.Int64Counter(
		"braitenberg.mutations.rejected",
		metric.WithDescription("Queued mutations rejected by the world"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rejected counter: %w", err)
	}

	in.duration, err = m.Float64Histogram(
		"braitenberg.tick.duration",
		metric.WithDescription("Time spent stepping and rendering one tick"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tick histogram: %w", err)
	}

	in.vehicles, err = m.Int64ObservableGauge(
		"braitenberg.vehicles",
		metric.WithDescription("Current number of vehicles"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating vehicle gauge: %w", err)
	}
	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			o.ObserveInt64(in.vehicles, in.population.Load())
			return nil
		},
		in.vehicles,
	)
	if err != nil {
		return nil, fmt.Errorf("registering vehicle callback: %w", err)
	}
	return in, nil
}

// A Runner performs ticks on a world with metrics and rendering.
// It is meant for drivers that own their event loop.
type Runner struct {
	w    *braitenberg.World
	sink braitenberg.Sink
	in   *instruments
	log  zerolog.Logger
}

// NewRunner returns a Runner for w. Only the Sink, Meter and Logger of conf are used.
func NewRunner(w *braitenberg.World, conf *Config) (*Runner, error) {
	m := conf.Meter
	if m == nil {
		m = otel.Meter(instrumentationName)
	}
	in, err := newInstruments(m)
	if err != nil {
		return nil, err
	}
	return &Runner{
		w:    w,
		sink: conf.Sink,
		in:   in,
		log:  conf.Logger.With().Str("component", "loop").Logger(),
	}, nil
}

// Render sends the current frame to the sink, if any.
func (r *Runner) Render() error {
	if r.sink == nil {
		return nil
	}
	if err := r.w.Render(r.sink); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// Tick applies queued mutations, steps the world unless it is paused and
// renders the result.
func (r *Runner) Tick(ctx context.Context) error {
	start := time.Now()
	if err := r.w.Drain(); err != nil {
		r.in.rejected.Add(ctx, int64(len(unwrap(err))))
	}
	paused := r.w.Paused
	if r.w.ShouldStep() {
		if err := r.w.Step(); err != nil {
			if errors.Is(err, braitenberg.ErrNonFinite) {
				r.log.Error().Err(err).Uint64("tick", r.w.Tick).Msg("simulation diverged")
			}
			return err
		}
	}
	r.in.ticks.Add(ctx, 1, metric.WithAttributes(attribute.Bool("paused", paused)))
	if err := r.Render(); err != nil {
		return err
	}
	r.in.population.Store(int64(len(r.w.Vehicles)))
	r.in.duration.Record(ctx, float64(time.Since(start).Microseconds())/1000)
	return nil
}

// Run advances w once per period and renders it to conf.Sink.
// It returns nil when conf.Steps ticks have run, ctx.Err() when the context
// is done first, and the first error from the world or the sink otherwise.
// Non-finite state stops the loop.
func Run(ctx context.Context, w *braitenberg.World, conf *Config) error {
	r, err := NewRunner(w, conf)
	if err != nil {
		return err
	}

	var tick <-chan time.Time
	if conf.Period > 0 {
		t := time.NewTicker(conf.Period)
		defer t.Stop()
		tick = t.C
	}

	r.log.Info().Dur("period", conf.Period).Int("steps", conf.Steps).Msg("starting")
	if err := r.Render(); err != nil {
		return err
	}

	for k := 0; conf.Steps == 0 || k < conf.Steps; k++ {
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.Tick(ctx); err != nil {
			return err
		}
	}
	r.log.Info().Uint64("tick", w.Tick).Msg("done")
	return nil
}

// unwrap lists the errors joined by the world's drain.
func unwrap(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}

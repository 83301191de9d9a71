package braitenberg

import (
	"errors"

	"github.com/google/uuid"
)

// Kind tells vehicles and beacons apart in a Sprite.
type Kind int

// Kinds of sprite.
const (
	KindVehicle Kind = iota
	KindBeacon
)

func (k Kind) String() string {
	if k == KindBeacon {
		return "beacon"
	}
	return "vehicle"
}

// A Sprite is everything a renderer needs to draw one entity.
type Sprite struct {
	ID          uuid.UUID
	Kind        Kind
	Pos         Point
	Orientation float64
	HalfDim     Point
	Color       Label
	Wheels      [2]Point // left, right; zero for beacons
}

// A Sink receives one frame per tick: Clear, then one Draw per entity.
type Sink interface {
	Clear() error
	Draw(s Sprite) error
}

// Sinks fans a frame out to several sinks.
type Sinks []Sink

// Clear clears every sink.
func (ss Sinks) Clear() error {
	var errs []error
	for _, s := range ss {
		errs = append(errs, s.Clear())
	}
	return errors.Join(errs...)
}

// Draw draws s on every sink.
func (ss Sinks) Draw(s Sprite) error {
	var errs []error
	for _, k := range ss {
		errs = append(errs, k.Draw(s))
	}
	return errors.Join(errs...)
}

// Sprites returns the current frame: vehicles first, then enabled beacons.
func (w *World) Sprites() []Sprite {
	out := make([]Sprite, 0, len(w.Vehicles)+len(w.Beacons))
	for _, v := range w.Vehicles {
		out = append(out, Sprite{
			ID:          v.ID,
			Kind:        KindVehicle,
			Pos:         v.Pos,
			Orientation: v.Orientation,
			HalfDim:     v.HalfDim,
			Color:       v.Color,
			Wheels:      [2]Point{v.Wheels.Left.Pos, v.Wheels.Right.Pos},
		})
	}
	for _, b := range w.Beacons {
		if !b.Enabled {
			continue
		}
		out = append(out, Sprite{
			ID:      b.ID,
			Kind:    KindBeacon,
			Pos:     b.Pos,
			HalfDim: b.HalfDim,
			Color:   b.Color,
		})
	}
	return out
}

// Render sends the current frame to s.
func (w *World) Render(s Sink) error {
	if err := s.Clear(); err != nil {
		return err
	}
	for _, sp := range w.Sprites() {
		if err := s.Draw(sp); err != nil {
			return err
		}
	}
	return nil
}

// Package pointer turns mouse input into world mutations.
//
// A Pointer never touches the world directly: every event is posted to the
// world's mutation queue and takes effect at the next drain, between ticks.
// The drag claim itself is only read and written inside those mutations.
package pointer

import (
	"fmt"

	"github.com/PrincetonUniversity/braitenberg"
	"github.com/google/uuid"
)

// Config holds the parameters of a Pointer.
type Config struct {
	// NudgeStep is the rotation in radians applied to a dragged vehicle
	// per scroll notch.
	NudgeStep float64
}

// DefaultConfig turns by 120/500 rad per notch.
var DefaultConfig = Config{NudgeStep: 120.0 / 500}

// A Pointer drags at most one entity at a time.
type Pointer struct {
	w    *braitenberg.World
	conf Config

	// guarded by the world's drain
	claim *uuid.UUID
	at    braitenberg.Point
}

// New returns a Pointer acting on w.
func New(w *braitenberg.World, conf Config) *Pointer {
	return &Pointer{w: w, conf: conf}
}

// Press claims the entity under the pointer, unless one is already claimed.
func (p *Pointer) Press(at braitenberg.Point) {
	p.w.Post(func(w *braitenberg.World) error {
		if err := p.moveTo(at); err != nil {
			return err
		}
		if p.held(w) {
			return nil
		}
		id, ok := w.EntityAt(at)
		if !ok || !w.Grab(id, at) {
			return nil
		}
		p.claim = &id
		w.Logger.Debug().Stringer("entity", id).Msg("grabbed")
		return nil
	})
}

// Move drags the claimed entity, if any, to at.
func (p *Pointer) Move(at braitenberg.Point) {
	p.w.Post(func(w *braitenberg.World) error {
		if err := p.moveTo(at); err != nil {
			return err
		}
		if p.held(w) {
			w.DragTo(*p.claim, at)
		}
		return nil
	})
}

// Release drops the claimed entity, if any.
func (p *Pointer) Release() {
	p.w.Post(func(w *braitenberg.World) error {
		if p.claim == nil {
			return nil
		}
		w.Release(*p.claim)
		w.Logger.Debug().Stringer("entity", *p.claim).Msg("released")
		p.claim = nil
		return nil
	})
}

// Scroll turns the claimed vehicle by the given number of wheel notches.
func (p *Pointer) Scroll(notches float64) {
	p.w.Post(func(w *braitenberg.World) error {
		if p.held(w) {
			w.Nudge(*p.claim, notches*p.conf.NudgeStep)
		}
		return nil
	})
}

// Claim returns the claimed entity. It must only be called from the
// goroutine that drains the world.
func (p *Pointer) Claim() (uuid.UUID, bool) {
	if p.claim == nil {
		return uuid.Nil, false
	}
	return *p.claim, true
}

// At returns the last pointer position seen by a drain.
func (p *Pointer) At() braitenberg.Point {
	return p.at
}

// held reports whether the claim still names a draggable entity.
// A claim on a removed vehicle or a removed or disabled beacon is dropped.
func (p *Pointer) held(w *braitenberg.World) bool {
	if p.claim == nil {
		return false
	}
	if w.Vehicle(*p.claim) != nil {
		return true
	}
	if b := w.Beacon(*p.claim); b != nil && b.Enabled {
		return true
	}
	w.Logger.Debug().Stringer("entity", *p.claim).Msg("claim dropped")
	p.claim = nil
	return false
}

func (p *Pointer) moveTo(at braitenberg.Point) error {
	if !at.Finite() {
		return fmt.Errorf("pointer: %w: (%g, %g)", braitenberg.ErrNonFinite, at.X, at.Y)
	}
	p.at = at
	return nil
}

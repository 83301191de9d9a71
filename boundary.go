package braitenberg

import (
	"errors"
	"fmt"
	"math"
)

// A Boundary canonicalizes a move. It returns the state actually reached when
// an entity of padding pad moves from old to new.
type Boundary func(old, new State, pad float64) State

// ErrUnknownBoundary is returned by ParseBoundary.
var ErrUnknownBoundary = errors.New("unknown boundary policy")

// ParseBoundary returns the boundary policy with the given name for a
// width×height arena: unbounded, clip, reflect or wrap.
func ParseBoundary(name string, width, height float64) (Boundary, error) {
	switch name {
	case "unbounded":
		return Unbounded, nil
	case "clip":
		return Clamp(width, height), nil
	case "reflect":
		return Reflect(width, height), nil
	case "wrap":
		return Wrap(width, height), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownBoundary, name)
}

// Unbounded is the trivial move function a.k.a. identity.
func Unbounded(old, new State, pad float64) State {
	return new
}

// Clamp keeps entities inside the padded arena by clipping their position.
func Clamp(width, height float64) Boundary {
	return func(old, new State, pad float64) State {
		new.Pos.X = Clip(new.Pos.X, pad, width-pad)
		new.Pos.Y = Clip(new.Pos.Y, pad, height-pad)
		return new
	}
}

// Reflect bounces entities off the padded walls, mirroring their heading.
// Positions beyond several arena widths are folded back as many times as needed.
func Reflect(width, height float64) Boundary {
	return func(old, new State, pad float64) State {
		// heading is (-cos θ, sin θ)
		var flip bool
		if new.Pos.X, flip = fold(new.Pos.X, pad, width-pad); flip {
			new.Orientation = NormalizeAngle(math.Pi - new.Orientation)
		}
		if new.Pos.Y, flip = fold(new.Pos.Y, pad, height-pad); flip {
			new.Orientation = NormalizeAngle(-new.Orientation)
		}
		return new
	}
}

// fold reflects x into [lo, hi] and reports whether it took an odd number
// of reflections.
func fold(x, lo, hi float64) (float64, bool) {
	span := hi - lo
	if span <= 0 || (x >= lo && x <= hi) {
		return x, false
	}
	d := math.Mod(x-lo, 2*span)
	if d < 0 {
		d += 2 * span
	}
	if d > span {
		return hi - (d - span), true
	}
	return lo + d, false
}

// Wrap makes the padded arena a torus: leaving through one padded edge
// re-enters through the opposite one. Orientation is unchanged.
func Wrap(width, height float64) Boundary {
	return func(old, new State, pad float64) State {
		new.Pos.X = wrap(new.Pos.X, pad, width-pad)
		new.Pos.Y = wrap(new.Pos.Y, pad, height-pad)
		return new
	}
}

func wrap(x, lo, hi float64) float64 {
	span := hi - lo
	if span <= 0 || (x >= lo && x <= hi) {
		return x
	}
	x = math.Mod(x-lo, span)
	if x < 0 {
		x += span
	}
	return lo + x
}

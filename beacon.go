package braitenberg

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// A Beacon is a fixed stimulus. It only moves when dragged and is only
// perceived while enabled.
type Beacon struct {
	ID      uuid.UUID
	Pos     Point
	HalfDim Point
	Color   Label
	Enabled bool
	Drag    Drag
}

// NewBeacon returns an enabled beacon.
func NewBeacon(pos Point, color Label, halfDim Point) *Beacon {
	return &Beacon{
		ID:      uuid.New(),
		Pos:     pos,
		HalfDim: halfDim,
		Color:   color,
		Enabled: true,
	}
}

// Target returns the beacon as seen by sensors.
func (b *Beacon) Target() Target {
	return Target{ID: b.ID, Pos: b.Pos, Color: b.Color}
}

// Contains reports whether p falls within the half extents of b.
func (b *Beacon) Contains(p Point) bool {
	return math.Abs(b.Pos.X-p.X) < b.HalfDim.X && math.Abs(b.Pos.Y-p.Y) < b.HalfDim.Y
}

// Update moves a dragged, enabled beacon to the pointer.
func (b *Beacon) Update() error {
	if !b.Enabled || !b.Drag.Active {
		return nil
	}
	if !b.Drag.At.Finite() {
		return fmt.Errorf("beacon %s: %w: pos=(%g, %g)", b.ID, ErrNonFinite, b.Drag.At.X, b.Drag.At.Y)
	}
	b.Pos = b.Drag.At
	return nil
}

package braitenberg

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// ErrNonFinite is returned when a NaN or infinite value would be written into
// entity state. It is not recoverable: the simulation must stop.
var ErrNonFinite = errors.New("non-finite state")

// State contains the pose of an entity.
type State struct {
	Pos         Point   // centroid
	Orientation float64 // heading in radians, in [0, 2π)
}

// Finite reports whether s holds only finite numbers.
func (s State) Finite() bool {
	return s.Pos.Finite() && finite(s.Orientation)
}

// A Wheel is derived from the pose of its vehicle.
type Wheel struct {
	Pos    Point   // recomputed after every pose change
	AngVel float64 // rotation applied about Pos each tick
}

// Wheels holds both wheels of a vehicle.
type Wheels struct {
	Left  Wheel
	Right Wheel
}

// Drag records an external override of an entity position.
type Drag struct {
	Active bool
	At     Point // pointer position to follow while Active
}

// A Target is what a sensor perceives of another entity.
type Target struct {
	ID    uuid.UUID
	Pos   Point
	Color Label
}

// A Vehicle is a two-wheeled body steered by its two sensors.
type Vehicle struct {
	ID uuid.UUID
	State
	HalfDim Point // half length (X) and half width (Y)
	Color   Label
	Wheels  Wheels
	Drag    Drag
}

// NewVehicle returns a vehicle with its wheels placed.
func NewVehicle(pos Point, orientation float64, color Label, halfDim Point) (*Vehicle, error) {
	v := &Vehicle{
		ID:      uuid.New(),
		HalfDim: halfDim,
		Color:   color,
	}
	if err := v.SetPose(State{Pos: pos, Orientation: orientation}); err != nil {
		return nil, err
	}
	return v, nil
}

// Target returns the current pose of v as seen by sensors.
func (v *Vehicle) Target() Target {
	return Target{ID: v.ID, Pos: v.Pos, Color: v.Color}
}

// Padding is half the largest dimension of v.
func (v *Vehicle) Padding() float64 {
	return math.Max(v.HalfDim.X, v.HalfDim.Y)
}

// Contains reports whether p falls within the half extents of v.
func (v *Vehicle) Contains(p Point) bool {
	return math.Abs(v.Pos.X-p.X) < v.HalfDim.X && math.Abs(v.Pos.Y-p.Y) < v.HalfDim.Y
}

// SetPose overwrites the pose of v and re-derives its wheel positions.
func (v *Vehicle) SetPose(s State) error {
	s.Orientation = NormalizeAngle(s.Orientation)
	if !s.Finite() {
		return fmt.Errorf("vehicle %s: %w: pos=(%g, %g) orientation=%g", v.ID, ErrNonFinite, s.Pos.X, s.Pos.Y, s.Orientation)
	}
	v.State = s
	v.placeWheels()
	return nil
}

// wheelPos returns the point at a lateral offset from the centroid.
func (v *Vehicle) wheelPos(offset float64) Point {
	sin, cos := math.Sincos(v.Orientation)
	return Point{X: v.Pos.X + offset*sin, Y: v.Pos.Y + offset*cos}
}

func (v *Vehicle) placeWheels() {
	v.Wheels.Left.Pos = v.wheelPos(v.HalfDim.Y)
	v.Wheels.Right.Pos = v.wheelPos(-v.HalfDim.Y)
}

// SetSpeed sets the wheel angular velocities from signed wheel speeds.
func (v *Vehicle) SetSpeed(left, right float64) {
	// rotating about the right wheel turns the other way
	v.Wheels.Left.AngVel = -left
	v.Wheels.Right.AngVel = right
}

// Speed returns the wheel speeds last passed to SetSpeed.
func (v *Vehicle) Speed() (left, right float64) {
	return -v.Wheels.Left.AngVel, v.Wheels.Right.AngVel
}

// CalcVelocity sets the wheel speeds of v from every target but itself.
//
// Each target contributes its left and right sensor influences weighted by the
// gains for (target colour, vehicle colour). Contributions are averaged so the
// speed does not grow with the population. Without targets the idle policy of
// the world applies.
func (v *Vehicle) CalcVelocity(w *World, targets []Target) {
	b := &w.Behavior
	reach := w.Env.Reach()

	var left, right float64
	var n int
	for _, t := range targets {
		if t.ID == v.ID {
			continue
		}
		n++
		li := b.Influence.Strength(v.Wheels.Left.Pos, v.Orientation+b.SensorOffset, t.Pos, reach)
		ri := b.Influence.Strength(v.Wheels.Right.Pos, v.Orientation-b.SensorOffset, t.Pos, reach)
		g := w.Gains.Get(t.Color, v.Color)
		left += li*g.L2L + ri*g.R2L
		right += li*g.L2R + ri*g.R2R
	}

	if n == 0 {
		v.SetSpeed(b.Idle.Left, b.Idle.Right)
		return
	}
	v.SetSpeed(b.Speed*left/float64(n), b.Speed*right/float64(n))
}

// Update advances v by one tick.
//
// A dragged vehicle jumps to the pointer and keeps its orientation.
// Otherwise it turns by the sum of the wheel angular velocities and moves by
// rotating about the left wheel, then about the right wheel where it stood
// before the first rotation. The boundary policy of env is applied last.
func (v *Vehicle) Update(env *Environment) error {
	if v.Drag.Active {
		return v.SetPose(State{Pos: v.Drag.At, Orientation: v.Orientation})
	}

	l, r := v.Wheels.Left, v.Wheels.Right
	old := v.State
	next := State{
		Pos:         RotateAroundPoint(RotateAroundPoint(v.Pos, l.Pos, l.AngVel), r.Pos, r.AngVel),
		Orientation: NormalizeAngle(v.Orientation + l.AngVel + r.AngVel),
	}
	if env != nil && env.Move != nil {
		next = env.Move(old, next, v.Padding())
	}
	return v.SetPose(next)
}

// Nudge turns a dragged vehicle by Δ radians.
// It reports whether v was dragged and Δ finite.
func (v *Vehicle) Nudge(Δ float64) bool {
	if !v.Drag.Active || !finite(Δ) {
		return false
	}
	v.Orientation = NormalizeAngle(v.Orientation + Δ)
	v.placeWheels()
	return true
}

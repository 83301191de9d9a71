package braitenberg

import "github.com/google/uuid"

// Probe returns the wheel speeds a vehicle of the given colour would get at
// pos with the given orientation, without adding it to the world.
func (w *World) Probe(pos Point, orientation float64, color Label) (left, right float64, err error) {
	v := &Vehicle{ID: uuid.Nil, HalfDim: w.HalfDim, Color: color}
	if err := v.SetPose(State{Pos: pos, Orientation: orientation}); err != nil {
		return 0, 0, err
	}
	v.CalcVelocity(w, w.Targets())
	left, right = v.Speed()
	return left, right, nil
}

// Turn returns the orientation change of a vehicle with the given wheel speeds
// over one tick.
func Turn(left, right float64) float64 {
	return right - left
}

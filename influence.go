package braitenberg

import "math"

// Influence shapes how strongly a sensor reacts to a target.
//
// Relative bearings are expressed so that 0 (or 2π) is directly behind the
// sensor owner, π/2 to its left, π dead ahead and 3π/2 to its right.
// Only the forward half plane [π/2, 3π/2] is perceived; bearings outside it are
// clamped to the cone edge.
type Influence struct {
	// AngleFloor is the angle term at the edge of the forward cone.
	// Zero makes targets on the edge invisible.
	AngleFloor float64

	// DistanceFloor is the distance term for a target at the reach limit.
	DistanceFloor float64
}

// DefaultInfluence is a forward cone with a small edge sensitivity.
var DefaultInfluence = Influence{AngleFloor: 0.01, DistanceFloor: 0}

// Bearing returns the bearing of target relative to a sensor at pos carried by
// a vehicle with the given orientation, normalized to [0, 2π).
func Bearing(pos Point, orientation float64, target Point) float64 {
	return NormalizeAngle(AngleBetween(pos, target) + orientation)
}

// AngleTerm maps a relative bearing to [AngleFloor, 1], peaking at π.
func (f Influence) AngleTerm(bearing float64) float64 {
	θ := Clip(bearing, halfPi, threeHalf)
	facing := 1 - math.Abs(θ-math.Pi)/halfPi
	return Scale(facing, 0, 1, f.AngleFloor, 1)
}

// DistanceTerm maps a distance to [DistanceFloor, 1].
// The squared gap to reach gives a sharp near-field falloff;
// targets beyond reach are treated as being at reach.
func (f Influence) DistanceTerm(dist, reach float64) float64 {
	gap := math.Max(reach-dist, 0)
	return Scale(Square(gap), 0, Square(reach), f.DistanceFloor, 1)
}

// Strength returns the influence of target on a sensor at pos.
// reach is the largest possible distance in the arena, usually its diagonal.
func (f Influence) Strength(pos Point, orientation float64, target Point, reach float64) float64 {
	θ := Bearing(pos, orientation, target)
	d := DistanceBetween(pos, target)
	return f.AngleTerm(θ) * f.DistanceTerm(d, reach)
}

package braitenberg

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"
)

// Post queues a mutation to be applied by the next Drain.
// It is safe to call from any goroutine and never blocks on a tick.
func (w *World) Post(f func(*World) error) {
	w.mu.Lock()
	w.pending = append(w.pending, f)
	w.mu.Unlock()
}

// Drain applies queued mutations in order and returns the errors of the
// rejected ones. It must run on the goroutine that steps the world.
func (w *World) Drain() error {
	w.mu.Lock()
	fs := w.pending
	w.pending = nil
	w.mu.Unlock()

	var errs []error
	for _, f := range fs {
		if err := f(w); err != nil {
			w.Logger.Warn().Err(err).Uint64("tick", w.Tick).Msg("mutation rejected")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SetGain sets one gain scalar. channel is one of l2l, l2r, r2l, r2r.
func (w *World) SetGain(observed, observer Label, channel string, v float64) error {
	if !finite(v) {
		return fmt.Errorf("gain %s>%s %s: %w: %g", observed, observer, channel, ErrNonFinite, v)
	}
	if w.Gains == nil {
		w.Gains = NewGainMatrix()
	}
	return w.Gains.SetChannel(observed, observer, channel, v)
}

// GainValue returns one gain scalar.
func (w *World) GainValue(observed, observer Label, channel string) (float64, error) {
	return w.Gains.Channel(observed, observer, channel)
}

// SetGains replaces the whole gain matrix.
func (w *World) SetGains(g *GainMatrix) {
	w.Gains = g
}

// Population returns the number of vehicles of the given colour.
func (w *World) Population(color Label) int {
	var n int
	for _, v := range w.Vehicles {
		if v.Color == color {
			n++
		}
	}
	return n
}

// Colors returns the colours present among vehicles and beacons, in order of
// first appearance.
func (w *World) Colors() []Label {
	seen := make(map[Label]bool)
	var out []Label
	add := func(c Label) {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, v := range w.Vehicles {
		add(v.Color)
	}
	for _, b := range w.Beacons {
		add(b.Color)
	}
	return out
}

// SetPopulation spawns or removes vehicles so that exactly n have the given
// colour. New vehicles get a random pose; the most recent ones are removed first.
func (w *World) SetPopulation(color Label, n int) error {
	if n < 0 {
		return fmt.Errorf("population of %s: negative count %d", color, n)
	}
	for have := w.Population(color); have < n; have++ {
		if _, err := w.Spawn(color); err != nil {
			return err
		}
	}
	for have := w.Population(color); have > n; have-- {
		for i := len(w.Vehicles) - 1; i >= 0; i-- {
			if w.Vehicles[i].Color == color {
				w.Vehicles = append(w.Vehicles[:i], w.Vehicles[i+1:]...)
				break
			}
		}
	}
	return nil
}

// Spawn adds a vehicle of the given colour at a random pose inside the
// padded arena.
func (w *World) Spawn(color Label) (*Vehicle, error) {
	if w.rand == nil {
		w.rand = rand.New(rand.NewSource(1))
	}
	pad := math.Max(w.HalfDim.X, w.HalfDim.Y)
	pos := Point{
		X: pad + w.rand.Float64()*(w.Env.Width-2*pad),
		Y: pad + w.rand.Float64()*(w.Env.Height-2*pad),
	}
	return w.AddVehicle(pos, twoPi*w.rand.Float64(), color)
}

// AddVehicle adds a vehicle at the given pose.
func (w *World) AddVehicle(pos Point, orientation float64, color Label) (*Vehicle, error) {
	v, err := NewVehicle(pos, orientation, color, w.HalfDim)
	if err != nil {
		return nil, err
	}
	w.Vehicles = append(w.Vehicles, v)
	return v, nil
}

// AddBeacon adds an enabled beacon.
func (w *World) AddBeacon(pos Point, color Label) (*Beacon, error) {
	if !pos.Finite() {
		return nil, fmt.Errorf("beacon %s: %w: pos=(%g, %g)", color, ErrNonFinite, pos.X, pos.Y)
	}
	b := NewBeacon(pos, color, Point{X: 8, Y: 8})
	w.Beacons = append(w.Beacons, b)
	return b, nil
}

// Vehicle returns the vehicle with the given id, or nil.
func (w *World) Vehicle(id uuid.UUID) *Vehicle {
	for _, v := range w.Vehicles {
		if v.ID == id {
			return v
		}
	}
	return nil
}

// Beacon returns the beacon with the given id, or nil.
func (w *World) Beacon(id uuid.UUID) *Beacon {
	for _, b := range w.Beacons {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// EnableBeacon switches a beacon on or off. It reports whether it exists.
func (w *World) EnableBeacon(id uuid.UUID, on bool) bool {
	b := w.Beacon(id)
	if b == nil {
		return false
	}
	b.Enabled = on
	if !on {
		b.Drag = Drag{}
	}
	return true
}

// EntityAt returns the first vehicle, then enabled beacon, whose half
// extents contain p.
func (w *World) EntityAt(p Point) (uuid.UUID, bool) {
	for _, v := range w.Vehicles {
		if v.Contains(p) {
			return v.ID, true
		}
	}
	for _, b := range w.Beacons {
		if b.Enabled && b.Contains(p) {
			return b.ID, true
		}
	}
	return uuid.Nil, false
}

// drag returns the drag override of an entity, if it can be dragged.
func (w *World) drag(id uuid.UUID) *Drag {
	if v := w.Vehicle(id); v != nil {
		return &v.Drag
	}
	if b := w.Beacon(id); b != nil && b.Enabled {
		return &b.Drag
	}
	return nil
}

// Grab starts dragging an entity towards at. It reports whether the entity exists.
func (w *World) Grab(id uuid.UUID, at Point) bool {
	d := w.drag(id)
	if d == nil {
		return false
	}
	*d = Drag{Active: true, At: at}
	return true
}

// DragTo updates the pointer position followed by a dragged entity.
func (w *World) DragTo(id uuid.UUID, at Point) {
	if d := w.drag(id); d != nil && d.Active {
		d.At = at
	}
}

// Release ends the drag of an entity.
func (w *World) Release(id uuid.UUID) {
	if d := w.drag(id); d != nil {
		*d = Drag{}
	}
}

// Nudge turns a dragged vehicle. It reports whether anything turned.
func (w *World) Nudge(id uuid.UUID, Δ float64) bool {
	v := w.Vehicle(id)
	return v != nil && v.Nudge(Δ)
}

// SetPaused pauses or resumes Advance.
func (w *World) SetPaused(p bool) {
	w.Paused = p
}

// StepOnce makes the next tick step even if the world is paused.
// Mutations must use it rather than calling Step themselves, so that
// errors from the step reach the driver instead of Drain.
func (w *World) StepOnce() {
	w.stepOnce = true
}

// ShouldStep reports whether the current tick steps: the world is running
// or a single step was requested. It consumes the request.
func (w *World) ShouldStep() bool {
	step := !w.Paused || w.stepOnce
	w.stepOnce = false
	return step
}

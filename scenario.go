package braitenberg

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownScenario is returned by ApplyScenario for unregistered names.
var ErrUnknownScenario = errors.New("unknown scenario")

// A BeaconSpec places a beacon when a scenario is applied.
type BeaconSpec struct {
	Color   Label
	Pos     Point
	Enabled bool
}

// A Scenario is a named preset for the gain matrix and the population.
type Scenario struct {
	Name        string
	Description string
	Gains       map[Pair]GainEntry
	Population  map[Label]int
	Beacons     []BeaconSpec
}

// Wiring presets named after the vehicles in Braitenberg's "Vehicles".
var (
	fear       = GainEntry{L2L: 1, R2R: 1}   // 2a: uncrossed, excitatory
	aggression = GainEntry{L2R: 1, R2L: 1}   // 2b: crossed, excitatory
	love       = GainEntry{L2L: -1, R2R: -1} // 3a: uncrossed, inhibitory
	explorer   = GainEntry{L2R: -1, R2L: -1} // 3b: crossed, inhibitory
)

var scenarios = map[string]Scenario{}

func init() {
	for _, s := range []Scenario{
		{
			Name:        "classic",
			Description: "one vehicle among a red attractor, a green repeller and a blue crossed attractor",
			Gains: map[Pair]GainEntry{
				{"red", "grey"}:   aggression,
				{"green", "grey"}: explorer,
				{"blue", "grey"}:  fear,
			},
			Population: map[Label]int{"grey": 1},
			Beacons: []BeaconSpec{
				{Color: "red", Pos: Point{X: 50, Y: 40}, Enabled: true},
				{Color: "green", Pos: Point{X: 100, Y: 40}, Enabled: true},
				{Color: "blue", Pos: Point{X: 150, Y: 40}, Enabled: true},
			},
		},
		chase("fear", "red vehicles avoid blue ones", fear),
		chase("aggression", "red vehicles charge at blue ones", aggression),
		chase("love", "red vehicles settle facing blue ones", love),
		chase("explorer", "red vehicles approach blue ones and move on", explorer),
		{
			Name:        "ecosystem",
			Description: "red hunts green, green hunts blue, blue hunts red; prey flee",
			Gains: map[Pair]GainEntry{
				{"green", "red"}:  aggression,
				{"blue", "green"}: aggression,
				{"red", "blue"}:   aggression,
				{"red", "green"}:  fear,
				{"green", "blue"}: fear,
				{"blue", "red"}:   fear,
			},
			Population: map[Label]int{"red": 5, "green": 5, "blue": 5},
		},
	} {
		RegisterScenario(s)
	}
}

// chase builds a two-population scenario where red vehicles react to blue
// ones with the given wiring and blue vehicles slowly seek red ones.
func chase(name, desc string, wiring GainEntry) Scenario {
	return Scenario{
		Name:        name,
		Description: desc,
		Gains: map[Pair]GainEntry{
			{"blue", "red"}: wiring,
			{"red", "blue"}: {L2R: 0.5, R2L: 0.5},
		},
		Population: map[Label]int{"red": 5, "blue": 3},
	}
}

// RegisterScenario adds or replaces a named scenario.
func RegisterScenario(s Scenario) {
	scenarios[s.Name] = s
}

// LookupScenario returns a registered scenario.
func LookupScenario(name string) (Scenario, bool) {
	s, ok := scenarios[name]
	return s, ok
}

// Scenarios returns the registered scenario names in sorted order.
func Scenarios() []string {
	names := make([]string, 0, len(scenarios))
	for n := range scenarios {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ApplyScenario replaces the gain matrix, the vehicles and the beacons with
// those of the named scenario. On error the world is left unchanged.
func (w *World) ApplyScenario(name string) error {
	s, ok := scenarios[name]
	if !ok {
		return fmt.Errorf("%w %q (have %v)", ErrUnknownScenario, name, Scenarios())
	}

	gains := NewGainMatrix()
	for p, e := range s.Gains {
		gains.Set(p.Observed, p.Observer, e)
	}

	// build into a scratch world so a failure leaves w untouched
	scratch := &World{Env: w.Env, HalfDim: w.HalfDim, rand: w.rand}
	colors := make([]Label, 0, len(s.Population))
	for c := range s.Population {
		colors = append(colors, c)
	}
	sort.Slice(colors, func(i, j int) bool { return colors[i] < colors[j] })
	for _, c := range colors {
		if err := scratch.SetPopulation(c, s.Population[c]); err != nil {
			return fmt.Errorf("scenario %s: %w", name, err)
		}
	}
	for _, b := range s.Beacons {
		nb, err := scratch.AddBeacon(b.Pos, b.Color)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", name, err)
		}
		nb.Enabled = b.Enabled
	}

	w.Gains = gains
	w.Vehicles = scratch.Vehicles
	w.Beacons = scratch.Beacons
	w.rand = scratch.rand
	w.Logger.Info().Str("scenario", name).Int("vehicles", len(w.Vehicles)).Int("beacons", len(w.Beacons)).Msg("scenario applied")
	return nil
}

package braitenberg

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// A Label is a colour tag. Its only use is as a key into a GainMatrix.
type Label string

// GainEntry couples the two sensors of an observer to its two wheels.
// Values are conventionally in [-1, 1] but are not clamped.
type GainEntry struct {
	L2L float64 // left sensor to left wheel
	L2R float64 // left sensor to right wheel
	R2L float64 // right sensor to left wheel
	R2R float64 // right sensor to right wheel
}

// Channel names one of the four scalars of a GainEntry.
type Channel int

// Channels of a GainEntry.
const (
	L2L Channel = iota
	L2R
	R2L
	R2R
)

var channelNames = [...]string{"l2l", "l2r", "r2l", "r2r"}

func (c Channel) String() string {
	if c < 0 || int(c) >= len(channelNames) {
		return fmt.Sprintf("Channel(%d)", int(c))
	}
	return channelNames[c]
}

// ErrUnknownChannel is returned for channel keys other than l2l, l2r, r2l and r2r.
var ErrUnknownChannel = errors.New("unknown gain channel")

// ParseChannel parses a case-insensitive channel key.
func ParseChannel(s string) (Channel, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, name := range channelNames {
		if key == name {
			return Channel(i), nil
		}
	}
	return 0, fmt.Errorf("%w %q (want one of %s)", ErrUnknownChannel, s, strings.Join(channelNames[:], ", "))
}

// Get returns the value of channel c.
func (e GainEntry) Get(c Channel) float64 {
	switch c {
	case L2L:
		return e.L2L
	case L2R:
		return e.L2R
	case R2L:
		return e.R2L
	case R2R:
		return e.R2R
	}
	return 0
}

// With returns a copy of e with channel c set to v.
func (e GainEntry) With(c Channel, v float64) GainEntry {
	switch c {
	case L2L:
		e.L2L = v
	case L2R:
		e.L2R = v
	case R2L:
		e.R2L = v
	case R2R:
		e.R2R = v
	}
	return e
}

// A Pair identifies the gain applied when Observer senses Observed.
type Pair struct {
	Observed Label
	Observer Label
}

func (p Pair) String() string {
	return string(p.Observed) + ">" + string(p.Observer)
}

// GainMatrix maps (observed, observer) colour pairs to gain entries.
// The zero value is not usable; a nil *GainMatrix reads as all zeros.
type GainMatrix struct {
	m map[Pair]GainEntry
}

// NewGainMatrix returns an empty matrix.
func NewGainMatrix() *GainMatrix {
	return &GainMatrix{m: make(map[Pair]GainEntry)}
}

// Get returns the gains applied when observer senses observed.
// Unconfigured pairs yield the zero entry.
func (g *GainMatrix) Get(observed, observer Label) GainEntry {
	if g == nil {
		return GainEntry{}
	}
	return g.m[Pair{observed, observer}]
}

// Set replaces the entry for (observed, observer).
func (g *GainMatrix) Set(observed, observer Label, e GainEntry) {
	g.m[Pair{observed, observer}] = e
}

// SetChannel sets a single scalar identified by its channel key.
// Unknown keys are rejected and leave the matrix untouched.
func (g *GainMatrix) SetChannel(observed, observer Label, channel string, v float64) error {
	c, err := ParseChannel(channel)
	if err != nil {
		return err
	}
	p := Pair{observed, observer}
	g.m[p] = g.m[p].With(c, v)
	return nil
}

// Channel returns a single scalar identified by its channel key.
func (g *GainMatrix) Channel(observed, observer Label, channel string) (float64, error) {
	c, err := ParseChannel(channel)
	if err != nil {
		return 0, err
	}
	return g.Get(observed, observer).Get(c), nil
}

// Clone returns a deep copy of g.
func (g *GainMatrix) Clone() *GainMatrix {
	c := NewGainMatrix()
	if g != nil {
		for p, e := range g.m {
			c.m[p] = e
		}
	}
	return c
}

// Pairs returns the configured pairs in a stable order.
func (g *GainMatrix) Pairs() []Pair {
	if g == nil {
		return nil
	}
	ps := make([]Pair, 0, len(g.m))
	for p := range g.m {
		ps = append(ps, p)
	}
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].Observed != ps[j].Observed {
			return ps[i].Observed < ps[j].Observed
		}
		return ps[i].Observer < ps[j].Observer
	})
	return ps
}

// Package chart renders trajectories and influence fields with gonum/plot.
package chart

import (
	"fmt"

	"github.com/PrincetonUniversity/braitenberg"
	"github.com/google/uuid"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Default size of saved images.
const (
	Width  = 8 * vg.Inch
	Height = 6 * vg.Inch
)

// A track is the path of one entity, split wherever it jumps across
// the arena (wrapping or dragging).
type track struct {
	kind  braitenberg.Kind
	color braitenberg.Label
	segs  []plotter.XYs
}

// Trajectories is a sink that accumulates the path of every entity.
// Arena coordinates point down; plotted ones point up.
type Trajectories struct {
	Title string
	Env   braitenberg.Environment

	tracks map[uuid.UUID]*track
	order  []uuid.UUID
	frames int
}

// NewTrajectories returns an empty trajectory recorder.
func NewTrajectories(title string, env braitenberg.Environment) *Trajectories {
	return &Trajectories{
		Title:  title,
		Env:    env,
		tracks: make(map[uuid.UUID]*track),
	}
}

// Clear starts a new frame.
func (t *Trajectories) Clear() error {
	t.frames++
	return nil
}

// Draw appends the position of s to its track.
func (t *Trajectories) Draw(s braitenberg.Sprite) error {
	tr, ok := t.tracks[s.ID]
	if !ok {
		tr = &track{kind: s.Kind, color: s.Color}
		t.tracks[s.ID] = tr
		t.order = append(t.order, s.ID)
	}
	p := plotter.XY{X: s.Pos.X, Y: t.Env.Height - s.Pos.Y}
	n := len(tr.segs)
	if n == 0 || t.jump(tr.segs[n-1][len(tr.segs[n-1])-1], p) {
		tr.segs = append(tr.segs, plotter.XYs{p})
		return nil
	}
	tr.segs[n-1] = append(tr.segs[n-1], p)
	return nil
}

// jump reports whether two consecutive points are too far apart to be joined.
func (t *Trajectories) jump(a, b plotter.XY) bool {
	return 2*abs(a.X-b.X) > t.Env.Width || 2*abs(a.Y-b.Y) > t.Env.Height
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// Frames returns the number of frames drawn so far.
func (t *Trajectories) Frames() int {
	return t.frames
}

// Plot builds the trajectory plot: a line per vehicle and a box at the last
// position of every beacon.
func (t *Trajectories) Plot() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = t.Title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.X.Min, p.X.Max = 0, t.Env.Width
	p.Y.Min, p.Y.Max = 0, t.Env.Height

	legend := make(map[braitenberg.Label]bool)
	for _, id := range t.order {
		tr := t.tracks[id]
		c := tr.color.RGBA()

		if tr.kind == braitenberg.KindBeacon {
			last := tr.segs[len(tr.segs)-1]
			s, err := plotter.NewScatter(last[len(last)-1:])
			if err != nil {
				return nil, err
			}
			s.GlyphStyle.Color = c
			s.GlyphStyle.Shape = draw.BoxGlyph{}
			s.GlyphStyle.Radius = vg.Points(5)
			p.Add(s)
			continue
		}

		for i, seg := range tr.segs {
			l, err := plotter.NewLine(seg)
			if err != nil {
				return nil, err
			}
			l.Color = c
			l.Width = vg.Points(1)
			p.Add(l)
			if i == 0 && !legend[tr.color] {
				legend[tr.color] = true
				p.Legend.Add(string(tr.color), l)
			}
		}
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// Save writes the trajectory plot to path. The format follows the extension.
func (t *Trajectories) Save(path string) error {
	p, err := t.Plot()
	if err != nil {
		return err
	}
	if err := p.Save(Width, Height, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

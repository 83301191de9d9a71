package chart

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
)

// A Field is a regular grid of values over the arena, stored row-major.
// It implements plotter.GridXYZ.
type Field struct {
	Cols, Rows int
	X0, Y0     float64 // centre of cell (0, 0)
	Step       float64 // cell size
	Values     []float64
}

// NewField returns a zeroed cols×rows field.
func NewField(cols, rows int, x0, y0, step float64) *Field {
	return &Field{
		Cols:   cols,
		Rows:   rows,
		X0:     x0,
		Y0:     y0,
		Step:   step,
		Values: make([]float64, cols*rows),
	}
}

// Dims returns the dimensions of the grid.
func (f *Field) Dims() (c, r int) { return f.Cols, f.Rows }

// Z returns the value of a grid cell.
func (f *Field) Z(c, r int) float64 { return f.Values[r*f.Cols+c] }

// X returns the coordinate of a column.
func (f *Field) X(c int) float64 { return f.X0 + float64(c)*f.Step }

// Y returns the coordinate of a row.
func (f *Field) Y(r int) float64 { return f.Y0 + float64(r)*f.Step }

// Set sets the value of a grid cell.
func (f *Field) Set(c, r int, v float64) { f.Values[r*f.Cols+c] = v }

// Range returns the smallest and largest finite values.
func (f *Field) Range() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range f.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// HeatMap builds a heat map plot of f.
func HeatMap(f *Field, title string) (*plot.Plot, error) {
	if f.Cols == 0 || f.Rows == 0 {
		return nil, fmt.Errorf("heat map %q: empty field", title)
	}
	h := plotter.NewHeatMap(f, palette.Heat(16, 1))
	if lo, hi := f.Range(); lo == hi {
		h.Min, h.Max = lo-0.5, hi+0.5
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	// arena y points down
	p.Y.Scale = plot.InvertedScale{Normalizer: p.Y.Scale}
	p.Add(h)
	return p, nil
}

// SaveHeatMap writes a heat map of f to path.
func SaveHeatMap(f *Field, title, path string) error {
	p, err := HeatMap(f, title)
	if err != nil {
		return err
	}
	if err := p.Save(Width, Height, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

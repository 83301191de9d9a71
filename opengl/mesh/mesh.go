// Package mesh turns sprites into coloured triangles.
package mesh

import (
	"math"

	"github.com/PrincetonUniversity/braitenberg"
)

// A Vertex is a 2D position in arena coordinates and an RGB colour.
type Vertex struct {
	X, Y    float32
	R, G, B float32
}

// A Mesh is a sink that turns sprites into triangles.
type Mesh struct {
	Verts []Vertex
}

// Clear empties the mesh.
func (m *Mesh) Clear() error {
	m.Verts = m.Verts[:0]
	return nil
}

// Draw appends the triangles of s: a body with two wheels and a nose for a
// vehicle, a square for a beacon.
func (m *Mesh) Draw(s braitenberg.Sprite) error {
	c := s.Color.RGBA()
	r, g, b := float32(c.R)/255, float32(c.G)/255, float32(c.B)/255

	if s.Kind == braitenberg.KindBeacon {
		m.quad(s.Pos, braitenberg.Point{X: -1}, braitenberg.Point{Y: 1}, s.HalfDim, r, g, b)
		return nil
	}

	// heading and lateral axes; the left wheel sits on +lateral
	sin, cos := math.Sincos(s.Orientation)
	head := braitenberg.Point{X: -cos, Y: sin}
	lat := braitenberg.Point{X: sin, Y: cos}

	m.quad(s.Pos, head, lat, s.HalfDim, r, g, b)
	wheel := braitenberg.Point{X: s.HalfDim.X / 3, Y: s.HalfDim.Y / 4}
	for _, p := range s.Wheels {
		m.quad(p, head, lat, wheel, 0.1, 0.1, 0.1)
	}
	nose := s.Pos.Add(scale(head, s.HalfDim.X))
	m.tri(
		nose.Add(scale(head, s.HalfDim.Y)),
		nose.Add(scale(lat, s.HalfDim.Y/2)),
		nose.Add(scale(lat, -s.HalfDim.Y/2)),
		1, 1, 1,
	)
	return nil
}

// quad appends a rectangle centred on c with half extents h along the axes u and v.
func (m *Mesh) quad(c, u, v, h braitenberg.Point, r, g, b float32) {
	du, dv := scale(u, h.X), scale(v, h.Y)
	p0 := c.Add(scale(du, -1)).Add(scale(dv, -1))
	p1 := c.Add(du).Add(scale(dv, -1))
	p2 := c.Add(du).Add(dv)
	p3 := c.Add(scale(du, -1)).Add(dv)
	m.tri(p0, p1, p2, r, g, b)
	m.tri(p0, p2, p3, r, g, b)
}

func (m *Mesh) tri(a, b, c braitenberg.Point, r, g, bl float32) {
	for _, p := range [3]braitenberg.Point{a, b, c} {
		m.Verts = append(m.Verts, Vertex{float32(p.X), float32(p.Y), r, g, bl})
	}
}

func scale(p braitenberg.Point, k float64) braitenberg.Point {
	return braitenberg.Point{X: p.X * k, Y: p.Y * k}
}

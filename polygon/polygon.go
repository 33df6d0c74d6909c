// Package polygon deals with closed polygons of pairs, as needed for filling
// strokes onto a raster: construction, transformation, bounding boxes and
// boolean operations (clipping).
/*
# BSD License

Copyright (c) 2024, François Straet.

All rights reserved.

Please refer to the license file for more information.
*/
package polygon

import (
	"bytes"
	"fmt"
	"math"

	fg "github.com/Rayerdyne/FG"
	polyclip "github.com/akavel/polyclip-go"
	"github.com/npillmayer/schuko/tracing"
)

// L traces to the 'polygon' tracer.
func L() tracing.Trace {
	return tracing.Select("polygon")
}

// Polygon is a set of closed contours. To construct a polygon, start with
// NullPolygon() and extend it with knots. Cycle() closes the current
// contour; further knots start a new one.
type Polygon struct {
	contours polyclip.Polygon
	open     bool // is the last contour still being built?
}

// NullPolygon creates an empty polygon.
func NullPolygon() *Polygon {
	return &Polygon{}
}

// Knot appends a knot to the current contour. Part of builder functionality.
func (pg *Polygon) Knot(p fg.Pair) *Polygon {
	if !pg.open {
		pg.contours = append(pg.contours, polyclip.Contour{})
		pg.open = true
	}
	last := len(pg.contours) - 1
	pg.contours[last] = append(pg.contours[last], pt(p))
	return pg
}

// Cycle closes the current contour. Part of builder functionality.
func (pg *Polygon) Cycle() *Polygon {
	pg.open = false
	return pg
}

// Box creates a rectangle from two opposite corners.
func Box(p1, p2 fg.Pair) *Polygon {
	x0, x1 := math.Min(p1.X(), p2.X()), math.Max(p1.X(), p2.X())
	y0, y1 := math.Min(p1.Y(), p2.Y()), math.Max(p1.Y(), p2.Y())
	return NullPolygon().Knot(fg.P(x0, y0)).Knot(fg.P(x1, y0)).Knot(fg.P(x1, y1)).
		Knot(fg.P(x0, y1)).Cycle()
}

// Circle approximates a circle by a regular polygon with n corners.
func Circle(center fg.Pair, r float64, n int) *Polygon {
	pg := NullPolygon()
	if n < 3 {
		n = 3
	}
	for i := 0; i < n; i++ {
		pg.Knot(center + fg.C2P(fg.Scaled(fg.Expj(2*math.Pi*float64(i)/float64(n)), r)))
	}
	return pg.Cycle()
}

// Stroke creates the outline of a straight line from p to q with width w.
// Returns an empty polygon for lines shorter than ε.
func Stroke(p, q fg.Pair, w float64) *Polygon {
	d := (q - p).C()
	length := math.Hypot(real(d), imag(d))
	if fg.Is0(length) {
		return NullPolygon()
	}
	n := fg.C2P(fg.Scaled(fg.TimesJ(d), w/2/length)) // normal of length w/2
	return NullPolygon().Knot(p + n).Knot(q + n).Knot(q - n).Knot(p - n).Cycle()
}

// N returns the number of knots over all contours.
func (pg *Polygon) N() int {
	n := 0
	for _, c := range pg.contours {
		n += len(c)
	}
	return n
}

// Contours returns the number of contours.
func (pg *Polygon) Contours() int {
	return len(pg.contours)
}

// Contour returns the knots of contour i.
func (pg *Polygon) Contour(i int) []fg.Pair {
	c := pg.contours[i]
	knots := make([]fg.Pair, len(c))
	for j, p := range c {
		knots[j] = fg.P(p.X, p.Y)
	}
	return knots
}

// IsEmpty is a predicate: does the polygon have no knots?
func (pg *Polygon) IsEmpty() bool {
	return pg.N() == 0
}

// BoundingBox returns the lower left and upper right corner of the smallest
// axis aligned rectangle containing all knots.
func (pg *Polygon) BoundingBox() (fg.Pair, fg.Pair) {
	if pg.IsEmpty() {
		return fg.Origin, fg.Origin
	}
	bb := pg.contours.BoundingBox()
	return fg.P(bb.Min.X, bb.Min.Y), fg.P(bb.Max.X, bb.Max.Y)
}

// Inside is a predicate: is pg completely contained in the bounding box of other?
func (pg *Polygon) Inside(other *Polygon) bool {
	if pg.IsEmpty() {
		return true
	}
	ll, ur := pg.BoundingBox()
	oll, our := other.BoundingBox()
	return ll.X() >= oll.X() && ll.Y() >= oll.Y() && ur.X() <= our.X() && ur.Y() <= our.Y()
}

// Transform applies an affine transformation to every knot, returning a new polygon.
func (pg *Polygon) Transform(m fg.AT) *Polygon {
	t := &Polygon{contours: make(polyclip.Polygon, len(pg.contours)), open: pg.open}
	for i, c := range pg.contours {
		t.contours[i] = make(polyclip.Contour, len(c))
		for j, p := range c {
			t.contours[i][j] = pt(m.Transform(fg.P(p.X, p.Y)))
		}
	}
	return t
}

// Intersect clips pg against clip.
func (pg *Polygon) Intersect(clip *Polygon) *Polygon {
	return pg.construct(polyclip.INTERSECTION, clip)
}

// Union joins pg and other.
func (pg *Polygon) Union(other *Polygon) *Polygon {
	return pg.construct(polyclip.UNION, other)
}

// Difference removes other from pg.
func (pg *Polygon) Difference(other *Polygon) *Polygon {
	return pg.construct(polyclip.DIFFERENCE, other)
}

func (pg *Polygon) construct(op polyclip.Op, other *Polygon) *Polygon {
	if pg.IsEmpty() || other.IsEmpty() {
		switch op {
		case polyclip.UNION:
			if pg.IsEmpty() {
				return other.clone()
			}
			return pg.clone()
		case polyclip.DIFFERENCE:
			return pg.clone()
		}
		return NullPolygon()
	}
	result := pg.contours.Construct(op, other.contours)
	L().Debugf("boolean operation %d: %d contours ⊗ %d contours = %d contours", op,
		len(pg.contours), len(other.contours), len(result))
	return &Polygon{contours: result}
}

func (pg *Polygon) clone() *Polygon {
	return pg.Transform(fg.Identity())
}

func pt(p fg.Pair) polyclip.Point {
	return polyclip.Point{X: p.X(), Y: p.Y()}
}

// AsString returns a polygon in MetaPost-like notation.
func AsString(pg *Polygon) string {
	var buffer bytes.Buffer
	for i := range pg.contours {
		if i > 0 {
			buffer.WriteString(" & ")
		}
		for j, p := range pg.Contour(i) {
			if j > 0 {
				buffer.WriteString(" -- ")
			}
			buffer.WriteString(fmt.Sprintf("(%g,%g)", fg.Round(p.X()), fg.Round(p.Y())))
		}
		buffer.WriteString(" -- cycle")
	}
	return buffer.String()
}

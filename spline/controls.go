package spline

import (
	"bytes"
	"fmt"
	"math/cmplx"

	fg "github.com/Rayerdyne/FG"
)

// Controls holds a planar spline path in cubic Bézier form: the knots
// (x(tᵢ), y(tᵢ)) and, for every segment, the two inner control points.
// The conversion is exact, as every segment is a cubic polynomial.
type Controls struct {
	knots []fg.Pair
	postc []fg.Pair // control point after knot i
	prec  []fg.Pair // control point before knot i, prec[0] unused
}

// BezierControls converts a pair of coordinate splines into Bézier form.
// Both splines must share their breakpoints.
func BezierControls(sx, sy *Spline) (*Controls, error) {
	if sx.N() != sy.N() {
		return nil, fmt.Errorf("%w: %d vs %d segments", fg.ErrDimensionMismatch, sx.N(), sy.N())
	}
	for i, t := range sx.tt {
		if t != sy.tt[i] {
			return nil, fmt.Errorf("%w: breakpoint %d differs", fg.ErrDimensionMismatch, i)
		}
	}
	n := len(sx.tt)
	ctrls := &Controls{
		knots: make([]fg.Pair, n),
		postc: make([]fg.Pair, n),
		prec:  make([]fg.Pair, n),
	}
	ctrls.prec[0] = fg.Pair(cmplx.NaN())
	ctrls.postc[n-1] = fg.Pair(cmplx.NaN())
	for i := range sx.segments {
		t0, t1 := sx.tt[i], sx.tt[i+1]
		h := (t1 - t0) / 3
		segx, segy := sx.segments[i], sy.segments[i]
		z0 := fg.P(segx.Eval(t0), segy.Eval(t0))
		z1 := fg.P(segx.Eval(t1), segy.Eval(t1))
		ctrls.knots[i] = z0
		ctrls.postc[i] = z0 + fg.P(h*segx.Deriv(t0), h*segy.Deriv(t0))
		ctrls.prec[i+1] = z1 - fg.P(h*segx.Deriv(t1), h*segy.Deriv(t1))
		ctrls.knots[i+1] = z1
	}
	tracer().Debugf("Bézier form of %d segments", n-1)
	return ctrls, nil
}

// N returns the number of knots.
func (ctrls *Controls) N() int {
	return len(ctrls.knots)
}

// Z returns knot i.
func (ctrls *Controls) Z(i int) fg.Pair {
	return ctrls.knots[i]
}

// PostControl returns the control point leaving knot i.
func (ctrls *Controls) PostControl(i int) fg.Pair {
	return ctrls.postc[i]
}

// PreControl returns the control point entering knot i.
func (ctrls *Controls) PreControl(i int) fg.Pair {
	return ctrls.prec[i]
}

// Flatten approximates the path by a polyline with steps points per segment
// (plus the final knot), evaluating the Bézier segments with de Casteljau's
// algorithm.
func (ctrls *Controls) Flatten(steps int) []fg.Pair {
	if steps < 1 {
		steps = 1
	}
	pts := make([]fg.Pair, 0, (ctrls.N()-1)*steps+1)
	for i := 0; i < ctrls.N()-1; i++ {
		b := [4]complex128{ctrls.knots[i].C(), ctrls.postc[i].C(), ctrls.prec[i+1].C(), ctrls.knots[i+1].C()}
		for s := 0; s < steps; s++ {
			pts = append(pts, fg.C2P(casteljau(b, float64(s)/float64(steps))))
		}
	}
	return append(pts, ctrls.knots[ctrls.N()-1])
}

func casteljau(b [4]complex128, u float64) complex128 {
	v := complex(u, 0)
	for n := 3; n > 0; n-- {
		for i := 0; i < n; i++ {
			b[i] = b[i] + v*(b[i+1]-b[i])
		}
	}
	return b[0]
}

// ControlsAsString returns a path in Bézier form as a (debugging) string,
// one segment per line.
//
//	(0,0) .. controls (0.3333,0.0000) and (0.6667,1.0000)
//	  .. (1,1)
func ControlsAsString(ctrls *Controls) string {
	var buffer bytes.Buffer
	for i := 0; i < ctrls.N(); i++ {
		if i > 0 {
			buffer.WriteString(fmt.Sprintf(" and %s\n  .. ", ptstring(ctrls.PreControl(i), true)))
		}
		buffer.WriteString(ptstring(ctrls.Z(i), false))
		if i < ctrls.N()-1 {
			buffer.WriteString(fmt.Sprintf(" .. controls %s", ptstring(ctrls.PostControl(i), true)))
		}
	}
	return buffer.String()
}

func ptstring(p fg.Pair, iscontrol bool) string {
	if cmplx.IsNaN(p.C()) {
		return "(<unknown>)"
	}
	if iscontrol {
		return fmt.Sprintf("(%.4f,%.4f)", round(p.X()), round(p.Y()))
	}
	return fmt.Sprintf("(%.4g,%.4g)", round(p.X()), round(p.Y()))
}

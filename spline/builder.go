package spline

import (
	"fmt"

	fg "github.com/Rayerdyne/FG"
)

// Skeleton collects time-tagged knots and segment modes, before any spline
// coefficients are known. To construct a skeleton, start with Nullpath() and
// extend it.
type Skeleton struct {
	tt      []float64 // time tag of knot i
	points  []fg.Pair // knot i
	modes   []Mode    // mode at knot i
	pending Mode      // mode for the segment ending at the next knot
}

// Nullpath creates an empty skeleton, to be extended by subsequent builder
// calls. The following example builds a path of three knots, connected by a
// curve and then a straight line.
//
//	sk := Nullpath().Knot(0, P(0,0)).Curve().Knot(1, P(3,2)).Line().Knot(2, P(5,2.5)).End()
//	sx, sy, err := sk.Fit()
func Nullpath() *Skeleton {
	return &Skeleton{}
}

// End ends the skeleton. Part of builder functionality.
func (sk *Skeleton) End() *Skeleton {
	return sk
}

// Knot appends point p at time t. Part of builder functionality.
func (sk *Skeleton) Knot(t float64, p fg.Pair) *Skeleton {
	sk.tt = append(sk.tt, t)
	sk.points = append(sk.points, p)
	if len(sk.tt) == 1 {
		sk.modes = extendM(sk.modes, 0, Cubic)
	} else {
		sk.SetMode(sk.N()-1, sk.pending)
	}
	sk.pending = Cubic
	return sk
}

// Curve connects the last knot and the next one with a cubic.
// Part of builder functionality.
func (sk *Skeleton) Curve() *Skeleton {
	if sk.N() == 0 {
		panic("cannot add curve to empty skeleton")
	}
	sk.pending = Cubic
	return sk
}

// Line connects the last knot and the next one with a straight line.
// Part of builder functionality.
func (sk *Skeleton) Line() *Skeleton {
	if sk.N() == 0 {
		panic("cannot add line to empty skeleton")
	}
	sk.pending = Linear
	return sk
}

// LinearStart replaces the zero slope condition at the first knot by a
// vanishing cubic coefficient. Part of builder functionality.
func (sk *Skeleton) LinearStart() *Skeleton {
	return sk.SetMode(0, Linear)
}

// SetMode is a property setter for the mode at knot i.
func (sk *Skeleton) SetMode(i int, m Mode) *Skeleton {
	sk.modes = extendM(sk.modes, i, Cubic)
	sk.modes[i] = m
	return sk
}

// N returns the number of knots.
func (sk *Skeleton) N() int {
	return len(sk.points)
}

// T returns the time tag of knot i.
func (sk *Skeleton) T(i int) float64 {
	return sk.tt[i]
}

// Z returns knot i.
func (sk *Skeleton) Z(i int) fg.Pair {
	return sk.points[i]
}

// Mode returns the mode at knot i.
func (sk *Skeleton) Mode(i int) Mode {
	return getM(sk.modes, i, Cubic)
}

// Times returns the time tags of all knots.
func (sk *Skeleton) Times() []float64 {
	return append([]float64(nil), sk.tt...)
}

// Modes returns the mode vector, one entry per knot.
func (sk *Skeleton) Modes() []Mode {
	modes := make([]Mode, sk.N())
	for i := range modes {
		modes[i] = sk.Mode(i)
	}
	return modes
}

// Axes splits the knots into x- and y-samples.
func (sk *Skeleton) Axes() (xx, yy []float64) {
	xx = make([]float64, sk.N())
	yy = make([]float64, sk.N())
	for i, p := range sk.points {
		xx[i], yy[i] = p.X(), p.Y()
	}
	return xx, yy
}

// Fit solves the skeleton for a spline per axis.
func (sk *Skeleton) Fit() (sx, sy *Spline, err error) {
	if sk == nil {
		return nil, nil, fmt.Errorf("%w: skeleton is nil", ErrTooFewBreakpoints)
	}
	tracer().Debugf("fitting skeleton %s", AsString(sk))
	xx, yy := sk.Axes()
	return FitPath(sk.tt, xx, yy, sk.Modes())
}

package spline

import (
	"fmt"
	"math"
	"strings"

	fg "github.com/Rayerdyne/FG"
	"gonum.org/v1/gonum/mat"
)

// Factorized is a spline system after LU decomposition. It is read-only and
// may be used for any number of axes, concurrently.
type Factorized struct {
	sys *System
	lu  mat.LU
}

// Factorize decomposes the system. If the system has no unique solution,
// Factorize returns an error wrapping fg.ErrSingularSystem.
func (sys *System) Factorize() (*Factorized, error) {
	for i := 1; i < len(sys.tt); i++ {
		if sys.tt[i] == sys.tt[i-1] {
			return nil, fmt.Errorf("%w: breakpoints t[%d] and t[%d] coincide at %g",
				fg.ErrSingularSystem, i-1, i, sys.tt[i])
		}
	}
	f := &Factorized{sys: sys}
	f.lu.Factorize(sys.m)
	cond := f.lu.Cond()
	if math.IsNaN(cond) || math.IsInf(cond, 0) || cond > mat.ConditionTolerance {
		tracer().Errorf("spline system of order %d is singular, condition number %g", sys.Order(), cond)
		if undet := sys.Undetermined(); len(undet) > 0 {
			return nil, fmt.Errorf("%w: cannot determine %s", fg.ErrSingularSystem,
				strings.Join(undet, ", "))
		}
		return nil, fmt.Errorf("%w: condition number %g", fg.ErrSingularSystem, cond)
	}
	tracer().Debugf("factorized spline system, condition number %g", cond)
	return f, nil
}

// System returns the underlying linear system.
func (f *Factorized) System() *System {
	return f.sys
}

// Solve computes a spline through samples, one sample per breakpoint.
func (f *Factorized) Solve(samples []float64) (*Spline, error) {
	n := f.sys.N()
	if len(samples) != n {
		return nil, fmt.Errorf("%w: %d breakpoints, but %d samples", fg.ErrDimensionMismatch,
			n, len(samples))
	}
	for i, v := range samples {
		if !fg.IsFinite(v) {
			return nil, fmt.Errorf("%w: sample[%d] = %g", ErrInvalidSample, i, v)
		}
	}
	var x mat.VecDense
	if err := f.lu.SolveVecTo(&x, false, f.sys.rhs(samples)); err != nil {
		return nil, fmt.Errorf("%w: %v", fg.ErrSingularSystem, err)
	}
	sp := &Spline{
		tt:       append([]float64(nil), f.sys.tt...),
		segments: f.sys.segments(&x),
	}
	tracer().Debugf("solved spline with %d segments on [%g, %g]", sp.N(), sp.Start(), sp.End())
	return sp, nil
}

// Fit builds and factorizes the system for breakpoints tt and modes once, and
// solves it for every axis. Splines are returned in the order of axes.
func Fit(tt []float64, modes []Mode, axes ...[]float64) ([]*Spline, error) {
	sys, err := NewSystem(tt, modes)
	if err != nil {
		return nil, err
	}
	for k, samples := range axes { // check all axes before paying for the decomposition
		if len(samples) != len(tt) {
			return nil, fmt.Errorf("%w: axis %d has %d samples for %d breakpoints",
				fg.ErrDimensionMismatch, k, len(samples), len(tt))
		}
	}
	f, err := sys.Factorize()
	if err != nil {
		return nil, err
	}
	splines := make([]*Spline, len(axes))
	for k, samples := range axes {
		if splines[k], err = f.Solve(samples); err != nil {
			return nil, fmt.Errorf("axis %d: %w", k, err)
		}
	}
	tracer().Infof("fitted %d axes through %d breakpoints", len(axes), len(tt))
	return splines, nil
}

// FitPath fits a 2D path x(t), y(t).
func FitPath(tt, xx, yy []float64, modes []Mode) (sx, sy *Spline, err error) {
	splines, err := Fit(tt, modes, xx, yy)
	if err != nil {
		return nil, nil, err
	}
	return splines[0], splines[1], nil
}

// AllCubic returns a mode vector of length n with every segment cubic.
func AllCubic(n int) []Mode {
	return make([]Mode, n)
}

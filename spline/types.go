package spline

import (
	"errors"

	fg "github.com/Rayerdyne/FG"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'spline'
func tracer() tracing.Trace {
	return tracing.Select("spline")
}

var (
	// ErrTooFewBreakpoints indicates less than two breakpoints.
	ErrTooFewBreakpoints = errors.New("spline needs at least 2 breakpoints")
	// ErrInvalidBreakpoint indicates a breakpoint which is NaN or infinite.
	ErrInvalidBreakpoint = errors.New("breakpoint is not a finite number")
	// ErrUnorderedBreakpoints indicates decreasing breakpoints.
	ErrUnorderedBreakpoints = errors.New("breakpoints are not in increasing order")
	// ErrInvalidSample indicates a sample value which is NaN or infinite.
	ErrInvalidSample = errors.New("sample is not a finite number")
)

// Mode tells whether a segment is a full cubic or degenerates to an affine function.
type Mode uint8

// Segment modes.
const (
	Cubic Mode = iota
	Linear
)

func (m Mode) String() string {
	switch m {
	case Cubic:
		return "cubic"
	case Linear:
		return "linear"
	}
	return "<unknown mode>"
}

// Segment holds the coefficients of a cubic
//
//	a·τ³ + b·τ² + c·τ + d,   τ = t - T,
//
// in time local to the segment's origin T, which is its left breakpoint. For
// segments in mode Linear, A and B are 0. All methods take absolute time t.
type Segment struct {
	A, B, C, D float64
	T          float64 // origin of local time
	Mode       Mode
}

// Eval evaluates the segment polynomial at t.
func (s Segment) Eval(t float64) float64 {
	x := t - s.T
	return ((s.A*x+s.B)*x+s.C)*x + s.D
}

// Deriv is the first derivative at t.
func (s Segment) Deriv(t float64) float64 {
	x := t - s.T
	return (3*s.A*x+2*s.B)*x + s.C
}

// Deriv2 is the second derivative at t.
func (s Segment) Deriv2(t float64) float64 {
	return 6*s.A*(t-s.T) + 2*s.B
}

// Deriv3 is the (constant) third derivative.
func (s Segment) Deriv3() float64 {
	return 6 * s.A
}

// Integral returns the definite integral of the segment polynomial from t0 to t1.
func (s Segment) Integral(t0, t1 float64) float64 {
	F := func(x float64) float64 {
		return (((s.A/4*x+s.B/3)*x+s.C/2)*x + s.D) * x
	}
	return F(t1-s.T) - F(t0-s.T)
}

// Coeffs returns the local coefficients ordered by descending power of τ.
func (s Segment) Coeffs() [4]float64 {
	return [4]float64{s.A, s.B, s.C, s.D}
}

// Absolute expands the segment into powers of absolute time t, ordered by
// descending power. Far from t = 0 the expansion loses precision; evaluate
// with Eval instead.
func (s Segment) Absolute() [4]float64 {
	T := s.T
	return [4]float64{
		s.A,
		s.B - 3*s.A*T,
		s.C - 2*s.B*T + 3*s.A*T*T,
		s.D - s.C*T + s.B*T*T - s.A*T*T*T,
	}
}

// IsAffine is a predicate: does the segment have no quadratic or cubic part?
func (s Segment) IsAffine() bool {
	return fg.Is0(s.A) && fg.Is0(s.B)
}

// Spline is a piecewise cubic function of time. It is created by the solver
// and not altered afterwards.
type Spline struct {
	tt       []float64 // breakpoints, strictly increasing
	segments []Segment // segment i is valid on [tt[i], tt[i+1])
}

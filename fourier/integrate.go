package fourier

import (
	"errors"
	"fmt"

	fg "github.com/Rayerdyne/FG"
	"github.com/Rayerdyne/FG/spline"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fourier'
func tracer() tracing.Trace {
	return tracing.Select("fourier")
}

// ErrDomainMismatch indicates a pair of splines which disagree on their domain
// or on their number of segments. It wraps fg.ErrDimensionMismatch.
var ErrDomainMismatch = fmt.Errorf("%w: splines do not share a domain", fg.ErrDimensionMismatch)

// SegmentIntegral returns
//
//	∫ p(t)·e^{-jkω₀t} dt   for t from t0 to t1,
//
// where p is the segment polynomial. For k = 0 this is the plain polynomial
// integral. Otherwise the antiderivative of p(t)·e^{σt}, σ = -jkω₀, is
//
//	F(t) = e^{σt} · ( p/σ - p'/σ² + p''/σ³ - p'''/σ⁴ )
//
// which is exact, as the fourth derivative of a cubic vanishes. The segment
// evaluates p and its derivatives in its local time, so large time tags do
// not cost precision.
func SegmentIntegral(seg spline.Segment, t0, t1 float64, k int, omega0 float64) complex128 {
	if k == 0 {
		return complex(seg.Integral(t0, t1), 0)
	}
	kw := float64(k) * omega0
	sigma := complex(0, -kw)
	s2 := sigma * sigma
	s3 := s2 * sigma
	s4 := s3 * sigma
	F := func(t float64) complex128 {
		p := complex(seg.Eval(t), 0)
		p1 := complex(seg.Deriv(t), 0)
		p2 := complex(seg.Deriv2(t), 0)
		p3 := complex(seg.Deriv3(), 0)
		return fg.Expj(-kw*t) * (p/sigma - p1/s2 + p2/s3 - p3/s4)
	}
	return F(t1) - F(t0)
}

// AxisIntegral sums the segment integrals of one spline over its whole domain.
func AxisIntegral(sp *spline.Spline, k int, omega0 float64) complex128 {
	var sum complex128
	for i, seg := range sp.Segments() {
		t0, t1 := sp.Interval(i)
		sum += SegmentIntegral(seg, t0, t1, k, omega0)
	}
	return sum
}

// checkDomains asserts that sx and sy can be combined into one signal x + jy.
func checkDomains(sx, sy *spline.Spline) error {
	if sx == nil || sy == nil {
		return errors.Join(ErrDomainMismatch, errors.New("spline is nil"))
	}
	if sx.Start() != sy.Start() || sx.End() != sy.End() {
		return fmt.Errorf("%w: [%g, %g] vs. [%g, %g]", ErrDomainMismatch,
			sx.Start(), sx.End(), sy.Start(), sy.End())
	}
	if sx.N() != sy.N() {
		return fmt.Errorf("%w: %d vs. %d segments", ErrDomainMismatch, sx.N(), sy.N())
	}
	if sx.End() <= sx.Start() {
		return fmt.Errorf("%w: empty period [%g, %g]", ErrDomainMismatch, sx.Start(), sx.End())
	}
	return nil
}

package fourier

import (
	"bytes"
	"fmt"
	"math"

	fg "github.com/Rayerdyne/FG"
	"github.com/Rayerdyne/FG/spline"
)

// CoeffSet holds the coefficients of a truncated complex Fourier series, for
// harmonics k and -k, 0 ≤ k < N(). The coefficient of -0 repeats the DC
// coefficient.
//
// A CoeffSet is not altered after construction.
type CoeffSet struct {
	pos []complex128 // pos[k] for harmonic k
	neg []complex128 // neg[k] for harmonic -k
}

// NewCoeffSet creates a coefficient set from positive and negative harmonics.
func NewCoeffSet(pos, neg []complex128) (*CoeffSet, error) {
	if len(pos) != len(neg) {
		return nil, fmt.Errorf("%w: %d positive, but %d negative harmonics",
			fg.ErrDimensionMismatch, len(pos), len(neg))
	}
	if len(pos) == 0 {
		return nil, fmt.Errorf("%w: empty coefficient set", fg.ErrIndex)
	}
	return &CoeffSet{
		pos: append([]complex128(nil), pos...),
		neg: append([]complex128(nil), neg...),
	}, nil
}

// Coefficients integrates the path x(t) + jy(t) given by two splines against
// e^{-jkω₀t}, for harmonics k = -(n-1) … n-1, with ω₀ = 2π/T and T the length
// of the common domain:
//
//	c.k = 1/T ∫ (x(t) + jy(t))·e^{-jkω₀t} dt
//
// Each spline is integrated segment by segment over its own breakpoints.
func Coefficients(sx, sy *spline.Spline, n int) (*CoeffSet, error) {
	if err := checkDomains(sx, sy); err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: need at least 1 harmonic, have %d", fg.ErrIndex, n)
	}
	period := sx.End() - sx.Start()
	omega0 := 2 * math.Pi / period
	cs := &CoeffSet{
		pos: make([]complex128, n),
		neg: make([]complex128, n),
	}
	for k := 0; k < n; k++ {
		cs.pos[k] = harmonic(sx, sy, k, omega0, period)
		if k == 0 {
			cs.neg[0] = cs.pos[0]
			continue
		}
		cs.neg[k] = harmonic(sx, sy, -k, omega0, period)
	}
	tracer().Infof("computed %d harmonics over period %g, DC = %s", n, period, fg.CString(cs.pos[0]))
	return cs, nil
}

// x.k + j·y.k, normalized by the period.
func harmonic(sx, sy *spline.Spline, k int, omega0, period float64) complex128 {
	x := AxisIntegral(sx, k, omega0)
	y := AxisIntegral(sy, k, omega0)
	return fg.Scaled(x+fg.TimesJ(y), 1/period)
}

// N returns the number of harmonics per direction.
func (cs *CoeffSet) N() int {
	return len(cs.pos)
}

// Positive returns the coefficient of harmonic k.
func (cs *CoeffSet) Positive(k int) (complex128, error) {
	if k < 0 || k >= len(cs.pos) {
		return 0, fmt.Errorf("%w: harmonic %d of %d", fg.ErrIndex, k, len(cs.pos))
	}
	return cs.pos[k], nil
}

// Negative returns the coefficient of harmonic -k.
func (cs *CoeffSet) Negative(k int) (complex128, error) {
	if k < 0 || k >= len(cs.neg) {
		return 0, fmt.Errorf("%w: harmonic -%d of %d", fg.ErrIndex, k, len(cs.neg))
	}
	return cs.neg[k], nil
}

// DC returns the constant term, i.e. the coefficient of harmonic 0.
func (cs *CoeffSet) DC() complex128 {
	return cs.pos[0]
}

// Harmonics returns copies of the coefficients for harmonics 0 … N()-1 and
// -0 … -(N()-1).
func (cs *CoeffSet) Harmonics() (pos, neg []complex128) {
	return append([]complex128(nil), cs.pos...), append([]complex128(nil), cs.neg...)
}

// Coeff returns the coefficient of harmonic k, for k positive or negative.
func (cs *CoeffSet) Coeff(k int) (complex128, error) {
	if k < 0 {
		return cs.Negative(-k)
	}
	return cs.Positive(k)
}

// String lists the coefficients per harmonic, for diagnostics.
func (cs *CoeffSet) String() string {
	var buffer bytes.Buffer
	for k := range cs.pos {
		buffer.WriteString(fmt.Sprintf("%d:\t+%s\n\t-%s\n", k, fg.CString(cs.pos[k]),
			fg.CString(cs.neg[k])))
	}
	return buffer.String()
}

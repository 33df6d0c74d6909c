package fourier

import (
	"fmt"
	"math"

	fg "github.com/Rayerdyne/FG"
	"github.com/Rayerdyne/FG/spline"
	dsp "gonum.org/v1/gonum/dsp/fourier"
)

// Sampled estimates the coefficients of harmonics -(n-1) … n-1 from m uniform
// samples of x(t) + jy(t) over one period, with a discrete Fourier transform.
// m has to be at least 2n-1. The estimate converges to the result of
// Coefficients as m grows, and serves as an independent check of it.
func Sampled(sx, sy *spline.Spline, n, m int) (*CoeffSet, error) {
	if err := checkDomains(sx, sy); err != nil {
		return nil, err
	}
	if n < 1 || m < 2*n-1 {
		return nil, fmt.Errorf("%w: %d samples cannot resolve %d harmonics", fg.ErrIndex, m, n)
	}
	start, period := sx.Start(), sx.End()-sx.Start()
	omega0 := 2 * math.Pi / period
	seq := make([]complex128, m)
	for i := range seq {
		t := start + float64(i)*period/float64(m)
		seq[i] = complex(sx.Eval(t), sy.Eval(t))
	}
	fft := dsp.NewCmplxFFT(m)
	spectrum := fft.Coefficients(nil, seq)
	// spectrum is relative to the first sample; shift its phase to absolute time
	coeff := func(k, bin int) complex128 {
		return fg.Scaled(spectrum[bin]*fg.Expj(-float64(k)*omega0*start), 1/float64(m))
	}
	cs := &CoeffSet{
		pos: make([]complex128, n),
		neg: make([]complex128, n),
	}
	for k := 0; k < n; k++ {
		cs.pos[k] = coeff(k, k)
		cs.neg[k] = coeff(-k, (m-k)%m)
	}
	tracer().Debugf("estimated %d harmonics from %d samples", n, m)
	return cs, nil
}

// MaxDeviation returns the largest absolute difference between corresponding
// coefficients of two sets with equal length.
func MaxDeviation(a, b *CoeffSet) (float64, error) {
	if a.N() != b.N() {
		return 0, fmt.Errorf("%w: %d vs. %d harmonics", fg.ErrDimensionMismatch, a.N(), b.N())
	}
	dev := 0.0
	for k := 0; k < a.N(); k++ {
		dev = math.Max(dev, cabs(a.pos[k]-b.pos[k]))
		dev = math.Max(dev, cabs(a.neg[k]-b.neg[k]))
	}
	return dev, nil
}

func cabs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

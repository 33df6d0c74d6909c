package fourier

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	fg "github.com/Rayerdyne/FG"
	"github.com/Rayerdyne/FG/spline"
	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/integrate/quad"
)

// a closed square, visited counter-clockwise
func squarePath(t *testing.T) (*spline.Spline, *spline.Spline) {
	t.Helper()
	sk := spline.Nullpath().
		Knot(0, fg.P(0, 0)).Curve().
		Knot(1, fg.P(1, 0)).Curve().
		Knot(2, fg.P(1, 1)).Curve().
		Knot(3, fg.P(0, 1)).Curve().
		Knot(4, fg.P(0, 0)).End()
	sx, sy, err := sk.Fit()
	require.NoError(t, err)
	return sx, sy
}

// per segment quadrature of Re/Im of sp(t)·e^{-jkω₀t}
func quadAxis(sp *spline.Spline, k int, omega0 float64) complex128 {
	var re, im float64
	for i := range sp.Segments() {
		t0, t1 := sp.Interval(i)
		re += quad.Fixed(func(t float64) float64 {
			return sp.Eval(t) * math.Cos(float64(k)*omega0*t)
		}, t0, t1, 64, nil, 0)
		im += quad.Fixed(func(t float64) float64 {
			return -sp.Eval(t) * math.Sin(float64(k)*omega0*t)
		}, t0, t1, 64, nil, 0)
	}
	return complex(re, im)
}

func TestSegmentIntegralMatchesQuadrature(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	seg := spline.Segment{A: 0.5, B: -2, C: 1, D: 3}
	omega0 := 2 * math.Pi / 3.5
	for _, k := range []int{0, 1, -1, 2, -5, 9} {
		got := SegmentIntegral(seg, 0.25, 1.75, k, omega0)
		re := quad.Fixed(func(t float64) float64 {
			return seg.Eval(t) * math.Cos(float64(k)*omega0*t)
		}, 0.25, 1.75, 64, nil, 0)
		im := quad.Fixed(func(t float64) float64 {
			return -seg.Eval(t) * math.Sin(float64(k)*omega0*t)
		}, 0.25, 1.75, 64, nil, 0)
		assert.InDelta(t, re, real(got), 1e-10, "Re at k=%d", k)
		assert.InDelta(t, im, imag(got), 1e-10, "Im at k=%d", k)
	}
}

func TestSegmentIntegralWithLocalOrigin(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	const origin = 1e4
	seg := spline.Segment{A: 0.5, B: -2, C: 1, D: 3, T: origin}
	omega0 := 2 * math.Pi / 3.5
	for _, k := range []int{0, 1, -2, 7} {
		got := SegmentIntegral(seg, origin+0.25, origin+1.75, k, omega0)
		re := quad.Fixed(func(t float64) float64 {
			return seg.Eval(t) * math.Cos(float64(k)*omega0*t)
		}, origin+0.25, origin+1.75, 64, nil, 0)
		im := quad.Fixed(func(t float64) float64 {
			return -seg.Eval(t) * math.Sin(float64(k)*omega0*t)
		}, origin+0.25, origin+1.75, 64, nil, 0)
		assert.InDelta(t, re, real(got), 1e-8, "Re at k=%d", k)
		assert.InDelta(t, im, imag(got), 1e-8, "Im at k=%d", k)
	}
}

// Shifting the time tags by s multiplies c.k by e^{-jkω₀s}.
func TestOffsetPathCoefficients(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	xx := []float64{0, 1, 1, 0, 0}
	yy := []float64{0, 0, 1, 1, 0}
	modes := spline.AllCubic(5)
	sx, sy, err := spline.FitPath([]float64{0, 1, 2, 3, 4}, xx, yy, modes)
	require.NoError(t, err)
	ref, err := Coefficients(sx, sy, 5)
	require.NoError(t, err)
	const shift = 1e5
	sx, sy, err = spline.FitPath([]float64{shift, shift + 1, shift + 2, shift + 3, shift + 4}, xx, yy, modes)
	require.NoError(t, err)
	cs, err := Coefficients(sx, sy, 5)
	require.NoError(t, err)
	omega0 := 2 * math.Pi / 4
	for k := -4; k <= 4; k++ {
		want, _ := ref.Coeff(k)
		got, _ := cs.Coeff(k)
		want *= fg.Expj(-float64(k) * omega0 * shift)
		assert.InDelta(t, 0, cmplx.Abs(want-got), 1e-9, "harmonic %d", k)
	}
}

func TestDCIsTimeAverage(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	sx, sy := squarePath(t)
	cs, err := Coefficients(sx, sy, 4)
	require.NoError(t, err)
	period := sx.End() - sx.Start()
	var xavg, yavg float64
	for i := range sx.Segments() {
		t0, t1 := sx.Interval(i)
		xavg += quad.Fixed(sx.Eval, t0, t1, 8, nil, 0) / period
		yavg += quad.Fixed(sy.Eval, t0, t1, 8, nil, 0) / period
	}
	assert.InDelta(t, xavg, real(cs.pos[0]), 1e-10)
	assert.InDelta(t, yavg, imag(cs.pos[0]), 1e-10)
	assert.NotZero(t, cs.pos[0], "DC must not be suppressed")
	assert.Equal(t, cs.pos[0], cs.neg[0])
}

func TestHarmonicsMatchQuadrature(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	sx, sy := squarePath(t)
	cs, err := Coefficients(sx, sy, 6)
	require.NoError(t, err)
	period := sx.End() - sx.Start()
	omega0 := 2 * math.Pi / period
	for k := 1; k < 6; k++ {
		for _, kk := range []int{k, -k} {
			want := (quadAxis(sx, kk, omega0) + 1i*quadAxis(sy, kk, omega0)) / complex(period, 0)
			got, err := cs.Coeff(kk)
			require.NoError(t, err)
			assert.InDelta(t, 0, cmplx.Abs(want-got), 1e-9, "harmonic %d", kk)
		}
	}
}

func TestRampCoefficients(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	// x(t) = t on [0,1]: c.0 = 1/2, c.k = j/(2πk)
	modes := []spline.Mode{spline.Linear, spline.Linear}
	sx, sy, err := spline.FitPath([]float64{0, 1}, []float64{0, 1}, []float64{0, 0}, modes)
	require.NoError(t, err)
	cs, err := Coefficients(sx, sy, 3)
	require.NoError(t, err)
	want := []complex128{0.5, complex(0, 1/(2*math.Pi)), complex(0, 1/(4*math.Pi))}
	opt := cmp.Comparer(func(a, b complex128) bool { return cmplx.Abs(a-b) <= 1e-12 })
	if diff := cmp.Diff(want, cs.pos, opt); diff != "" {
		t.Errorf("positive harmonics mismatch (-want +got):\n%s", diff)
	}
	wantNeg := []complex128{0.5, complex(0, -1/(2*math.Pi)), complex(0, -1/(4*math.Pi))}
	if diff := cmp.Diff(wantNeg, cs.neg, opt); diff != "" {
		t.Errorf("negative harmonics mismatch (-want +got):\n%s", diff)
	}
}

func TestReconstructionConverges(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	sx, sy := squarePath(t)
	period := sx.End() - sx.Start()
	coarse, err := Coefficients(sx, sy, 8)
	require.NoError(t, err)
	fine, err := Coefficients(sx, sy, 64)
	require.NoError(t, err)
	for _, tb := range []float64{1, 2, 3} {
		want := fg.P(sx.Eval(tb), sy.Eval(tb))
		errCoarse := cmplx.Abs((coarse.FejerAt(tb, period) - want).C())
		errFine := cmplx.Abs((fine.FejerAt(tb, period) - want).C())
		assert.Less(t, errFine, errCoarse, "Fejér mean at t=%g", tb)
		assert.Less(t, cmplx.Abs((fine.At(tb, period) - want).C()), 1e-2, "partial sum at t=%g", tb)
	}
}

func TestSampledAgreesWithClosedForm(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	sx, sy := squarePath(t)
	exact, err := Coefficients(sx, sy, 5)
	require.NoError(t, err)
	estimate, err := Sampled(sx, sy, 5, 4096)
	require.NoError(t, err)
	dev, err := MaxDeviation(exact, estimate)
	require.NoError(t, err)
	assert.Less(t, dev, 1e-4)
	_, err = Sampled(sx, sy, 5, 8)
	assert.True(t, errors.Is(err, fg.ErrIndex))
}

func TestDomainMismatch(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	modes := spline.AllCubic(3)
	sx, _, err := spline.FitPath([]float64{0, 1, 2}, []float64{0, 1, 0}, []float64{0, 1, 0}, modes)
	require.NoError(t, err)
	_, sy, err := spline.FitPath([]float64{0, 1, 3}, []float64{0, 1, 0}, []float64{0, 1, 0}, modes)
	require.NoError(t, err)
	_, err = Coefficients(sx, sy, 3)
	assert.True(t, errors.Is(err, ErrDomainMismatch))
	assert.True(t, errors.Is(err, fg.ErrDimensionMismatch))
	_, sy2, err := spline.FitPath([]float64{0, 2}, []float64{0, 1}, []float64{0, 1}, spline.AllCubic(2))
	require.NoError(t, err)
	_, err = Coefficients(sx, sy2, 3)
	assert.True(t, errors.Is(err, ErrDomainMismatch), "segment count differs")
	_, err = Coefficients(sx, sx, 0)
	assert.True(t, errors.Is(err, fg.ErrIndex))
}

func TestCoeffSetAccess(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	cs, err := NewCoeffSet([]complex128{1, 2i}, []complex128{1, -3})
	require.NoError(t, err)
	assert.Equal(t, 2, cs.N())
	c, err := cs.Coeff(-1)
	assert.NoError(t, err)
	assert.Equal(t, complex128(-3), c)
	_, err = cs.Positive(2)
	assert.True(t, errors.Is(err, fg.ErrIndex))
	_, err = cs.Negative(-1)
	assert.True(t, errors.Is(err, fg.ErrIndex))
	_, err = NewCoeffSet([]complex128{1}, nil)
	assert.True(t, errors.Is(err, fg.ErrDimensionMismatch))
	assert.Equal(t, "0:\t+(1 + j * 0)\n\t-(1 + j * 0)\n1:\t+(0 + j * 2)\n\t-(-3 + j * 0)\n", cs.String())
	assert.Equal(t, complex128(1), cs.DC())
	pos, neg := cs.Harmonics()
	pos[1], neg[1] = 7, 7
	c, _ = cs.Coeff(1)
	assert.Equal(t, 2i, c, "harmonics are handed out as copies")
	c, _ = cs.Coeff(-1)
	assert.Equal(t, complex128(-3), c)
}

func TestSeriesRotation(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	cs, err := NewCoeffSet([]complex128{0, 1}, []complex128{0, 0})
	require.NoError(t, err)
	assert.True(t, cs.At(0.25, 1).Equal(fg.P(0, 1)), "quarter turn, got %v", cs.At(0.25, 1))
	assert.True(t, cs.At(0.5, 1).Equal(fg.P(-1, 0)))
	assert.True(t, cs.FejerAt(0.5, 1).Equal(fg.P(-0.5, 0)))
}

func TestEpicycleTipsEndOnPath(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	sx, sy := squarePath(t)
	cs, err := Coefficients(sx, sy, 7)
	require.NoError(t, err)
	terms := cs.Epicycles(1.3, 4)
	assert.Len(t, terms, 13)
	assert.Equal(t, 0, terms[0].K)
	assert.Equal(t, 1, terms[1].K)
	assert.Equal(t, -1, terms[2].K)
	tips := Tips(fg.Origin, terms)
	assert.True(t, tips[len(tips)-1].Equal(cs.At(1.3, 4)))
}

package codec

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	fg "github.com/Rayerdyne/FG"
	"github.com/Rayerdyne/FG/fourier"
	"github.com/Rayerdyne/FG/spline"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const points = `0: (1, 2)
1.5: (-3.25, .5)

# a comment
2.: (2.5E-1, 4e2) linear
3: ( 0 , -0.0 )
`

func TestReadPoints(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	ps, err := ReadPoints(strings.NewReader(points))
	require.NoError(t, err)
	assert.Equal(t, 4, ps.Len())
	if diff := cmp.Diff([]float64{0, 1.5, 2, 3}, ps.T, cmpopts.EquateApprox(0, 1e-15)); diff != "" {
		t.Errorf("time tags mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, fg.P(-3.25, 0.5), ps.P[1])
	assert.Equal(t, fg.P(0.25, 400), ps.P[2])
	assert.Equal(t, []spline.Mode{spline.Cubic, spline.Cubic, spline.Linear, spline.Cubic}, ps.Modes)
}

func TestReadSpecialFloats(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	ps, err := ReadPoints(strings.NewReader("0: (inf, -inf)\n1: (NaN, 1)\n"))
	require.NoError(t, err)
	assert.True(t, math.IsInf(ps.P[0].X(), 1))
	assert.True(t, math.IsInf(ps.P[0].Y(), -1))
	assert.True(t, math.IsNaN(ps.P[1].X()))
	// the spline solver rejects them
	_, _, err = ps.Skeleton().Fit()
	assert.True(t, errors.Is(err, spline.ErrInvalidSample))
}

func TestSyntaxErrorsCarryLineNumbers(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for _, input := range []string{
		"0: (1, 2)\n\n1 (2, 3)\n",
		"0: (1, 2)\n\n1: (2; 3)\n",
		"0: (1, 2)\n\n1: (2, x)\n",
		"0: (1, 2)\n\n1: (2, 3) bent\n",
		"0: (1, 2)\n\n: (2, 3)\n",
	} {
		_, err := ReadPoints(strings.NewReader(input))
		assert.True(t, errors.Is(err, ErrSyntax), "input %q", input)
		assert.Contains(t, err.Error(), "line 3", "input %q", input)
	}
}

func TestTooFewPoints(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, err := ReadPoints(strings.NewReader("0: (1, 2)\n"))
	assert.True(t, errors.Is(err, ErrTooFewPoints))
	_, err = ReadPoints(strings.NewReader(""))
	assert.True(t, errors.Is(err, ErrTooFewPoints))
}

func TestSkeletonFromPoints(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	ps, err := ReadPoints(strings.NewReader("0: (0, 0) linear\n1: (1, 1)\n2: (2, 0) linear\n"))
	require.NoError(t, err)
	sk := ps.Skeleton()
	assert.Equal(t, "{linear} 0:(0,0) .. 1:(1,1) -- 2:(2,0)", spline.AsString(sk))
	sx, sy, err := sk.Fit()
	require.NoError(t, err)
	assert.InDelta(t, 1.5, sx.Eval(1.5), 1e-9)
	assert.InDelta(t, 0.5, sy.Eval(1.5), 1e-9)
}

func TestCoefficientsRoundTrip(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	input := "(0.5,0.25) & (0.5,0.25)\n(1e-3,-2) & (.5,3.)\n(-0.1,0.30000000000000004) & (7,-8)\n"
	cs, err := ReadCoefficients(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 3, cs.N())
	c, err := cs.Coeff(1)
	require.NoError(t, err)
	assert.Equal(t, complex(0.001, -2), c)
	c, err = cs.Coeff(-1)
	require.NoError(t, err)
	assert.Equal(t, complex(0.5, 3), c)
	var buf bytes.Buffer
	require.NoError(t, WriteCoefficients(&buf, cs))
	again, err := ReadCoefficients(&buf)
	require.NoError(t, err)
	assert.Equal(t, cs, again)
}

func TestWriteComputedCoefficients(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	sx, sy, err := spline.FitPath([]float64{0, 1, 2}, []float64{0, 1, 0}, []float64{1, 0, 1},
		spline.AllCubic(3))
	require.NoError(t, err)
	cs, err := fourier.Coefficients(sx, sy, 5)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WriteCoefficients(&buf, cs))
	assert.Equal(t, 5, strings.Count(buf.String(), "\n"))
	again, err := ReadCoefficients(&buf)
	require.NoError(t, err)
	assert.Equal(t, cs, again)
}

func TestCoefficientSyntaxErrors(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, err := ReadCoefficients(strings.NewReader("(1,2) & (3,4)\n(1,2) (3,4)\n"))
	assert.True(t, errors.Is(err, ErrSyntax))
	assert.Contains(t, err.Error(), "line 2")
	_, err = ReadCoefficients(strings.NewReader("(1,2,3) & (3,4)\n"))
	assert.True(t, errors.Is(err, ErrSyntax))
	_, err = ReadCoefficients(strings.NewReader("\n\n"))
	assert.True(t, errors.Is(err, ErrSyntax))
}

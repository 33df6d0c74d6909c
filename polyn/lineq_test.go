package polyn

import (
	"errors"
	"fmt"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// segmentNames resolves IDs like the spline diagnosis does: 4i+1 is seg[i].a,
// 4i+2 is seg[i].b, and so on. Solved values are remembered.
type segmentNames map[int]float64

func (r segmentNames) GetVariableName(id int) string {
	return fmt.Sprintf("seg[%d].%c", (id-1)/4, "abcd"[(id-1)%4])
}

func (r segmentNames) SetVariableSolved(id int, v float64) {
	if r != nil {
		r[id] = v
	}
}

// row turns a dense matrix row with right hand side rhs into the equation
// 0 = row·x - rhs. Column c is variable c+1.
func row(rhs float64, coeffs ...float64) Polynomial {
	p := NewConstantPolynomial(-rhs)
	for c, v := range coeffs {
		if v != 0 {
			p.SetTerm(c+1, v)
		}
	}
	return p
}

func newDiagnosis() (*LinEqSolver, segmentNames) {
	leq := NewLinEqSolver()
	names := make(segmentNames)
	leq.SetVariableResolver(names)
	return leq, names
}

func addRows(t *testing.T, leq *LinEqSolver, rows ...Polynomial) {
	t.Helper()
	for i, p := range rows {
		_, err := leq.AddEq(p)
		require.NoError(t, err, "row %d: 0 = %s", i, leq.PolynString(p))
	}
}

// One clamped segment through (0,0) and (1,1): a = -2, b = 3, c = d = 0.
func TestClampedSegment(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	leq, names := newDiagnosis()
	addRows(t, leq,
		row(0, 0, 0, 0, 1), // value at w = 0
		row(1, 1, 1, 1, 1), // value at w = 1
		row(0, 0, 0, 1),    // slope at w = 0
		row(0, 3, 2, 1),    // slope at w = 1
	)
	for id, want := range map[int]float64{1: -2, 2: 3, 3: 0, 4: 0} {
		assert.True(t, leq.IsSolved(id), names.GetVariableName(id))
		assert.InDelta(t, want, names[id], 1e-9, names.GetVariableName(id))
	}
	assert.Empty(t, leq.Dependents())
	assert.Len(t, leq.Solved(), 4)
}

// Breakpoints t0 = t1 < t2: both value rows of segment 0 read d0, its cubic
// coefficient is left undetermined.
func TestEmptySegmentLeavesCubicFree(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	leq, _ := newDiagnosis()
	rows := []Polynomial{
		row(0, 0, 0, 0, 1),             // seg[0](t0)
		row(0, 0, 0, 0, 1),             // seg[0](t1), same row
		row(0, 0, 0, 0, 0, 0, 0, 0, 1), // seg[1](t1)
		row(0, 0, 0, 0, 0, 1, 1, 1, 1), // seg[1](t2)
		row(0, 0, 0, 1, 0, 0, 0, -1),   // slopes at t1
		row(0, 0, 2, 0, 0, 0, -2),      // curvatures at t1
		row(0, 0, 0, 1),                // slope at t0
		row(0, 0, 0, 0, 0, 3, 2, 1),    // slope at t2
	}
	for i, p := range rows {
		known := len(leq.Solved()) + len(leq.Dependents())
		addRows(t, leq, p)
		if i == 1 {
			assert.Equal(t, known, len(leq.Solved())+len(leq.Dependents()), "second value row is redundant")
		}
	}
	for id := 1; id <= 8; id++ {
		assert.Equal(t, id != 1, leq.IsSolved(id), "x.%d", id)
	}
}

// Conflicting samples at coinciding breakpoints.
func TestInconsistentRows(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	leq, _ := newDiagnosis()
	addRows(t, leq, row(0, 0, 0, 0, 1))
	_, err := leq.AddEq(row(1, 0, 0, 0, 1))
	assert.True(t, errors.Is(err, ErrInconsistentEquation))
}

// A row is judged relative to its own norm, not to an absolute ε.
func TestRowsWithSmallNorm(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	leq, _ := newDiagnosis()
	addRows(t, leq,
		row(0, 1e-9),
		row(0, 3e-9, 1e-9),
	)
	assert.True(t, leq.IsSolved(1))
	assert.True(t, leq.IsSolved(2))
}

func TestTolerance(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	rows := []Polynomial{
		row(0, 1, 1e-9), // a + 1e-9·b = 0
		row(0, 1),       // a = 0
	}
	leq, _ := newDiagnosis()
	addRows(t, leq, rows...)
	assert.True(t, leq.IsSolved(1))
	assert.False(t, leq.IsSolved(2), "1e-9 is below the default tolerance")

	leq, _ = newDiagnosis()
	leq.SetTolerance(1e-12)
	addRows(t, leq, rows...)
	assert.True(t, leq.IsSolved(1))
	assert.True(t, leq.IsSolved(2))
}

func TestDependentsAscending(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	leq, _ := newDiagnosis()
	addRows(t, leq,
		row(0, 0, 0, 0, 0, 0, 0, 0, 4, -1), // 4·seg[1].d = seg[2].a
		row(0, 0, 2, -1),                   // 2·seg[0].b = seg[0].c
	)
	assert.Equal(t, []int{2, 8}, leq.Dependents())
	assert.Empty(t, leq.Solved())
}

func TestAddEqs(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	leq, names := newDiagnosis()
	_, err := leq.AddEqs([]Polynomial{row(6, 1, 1), row(-2, -3, 1)}) // a+b = 6, b = 3a-2
	require.NoError(t, err)
	assert.InDelta(t, 2.0, names[1], 1e-9)
	assert.InDelta(t, 4.0, names[2], 1e-9)
	_, err = leq.AddEqs(nil)
	assert.True(t, errors.Is(err, ErrEmptyEquationList))
}

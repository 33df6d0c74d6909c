package spline

import (
	"fmt"
	"math"

	fg "github.com/Rayerdyne/FG"
	"gonum.org/v1/gonum/mat"
)

// System is the square linear system determining the coefficients of a
// spline with given breakpoints and modes. Unknowns are ordered a, b, c, d per
// segment, segment by segment. The system does not depend on sample values,
// which enter on the right hand side only.
//
// Every segment i is assembled in its own normalized time w = (t - t_i)/h_i,
// with h_i = t_{i+1} - t_i, so that w runs from 0 to 1 on the segment. The
// entries of the matrix therefore do not depend on the offset of the time tags,
// and segments of very different lengths differ only in the factors of the
// continuity rows. Solutions are converted to segments in local time t - t_i.
type System struct {
	tt        []float64  // breakpoints
	modes     []Mode     // mode vector, one per breakpoint
	h         []float64  // time scale per segment, h_i or 1 for empty segments
	m         *mat.Dense // coefficient matrix of order 4(n-1)
	valueRows [][2]int   // rows of segment i which carry the samples at t_i and t_{i+1}
	rowinfo   []string   // description per row, for tracing
}

// NewSystem assembles the linear system for breakpoints tt and a mode vector
// of the same length.
//
// Breakpoints have to be finite and must not decrease. Coinciding breakpoints
// are accepted here, but will be reported as fg.ErrSingularSystem by Factorize.
func NewSystem(tt []float64, modes []Mode) (*System, error) {
	if len(tt) < 2 {
		return nil, fmt.Errorf("%w: have %d", ErrTooFewBreakpoints, len(tt))
	}
	if len(modes) != len(tt) {
		return nil, fmt.Errorf("%w: %d breakpoints, but %d modes", fg.ErrDimensionMismatch,
			len(tt), len(modes))
	}
	for i, t := range tt {
		if !fg.IsFinite(t) {
			return nil, fmt.Errorf("%w: t[%d] = %g", ErrInvalidBreakpoint, i, t)
		}
		if i > 0 && t < tt[i-1] {
			return nil, fmt.Errorf("%w: t[%d] = %g < t[%d] = %g", ErrUnorderedBreakpoints,
				i, t, i-1, tt[i-1])
		}
	}
	sys := &System{
		tt:    append([]float64(nil), tt...),
		modes: append([]Mode(nil), modes...),
		h:     make([]float64, len(tt)-1),
	}
	for i := range sys.h {
		if sys.h[i] = tt[i+1] - tt[i]; sys.h[i] == 0 {
			sys.h[i] = 1 // keeps the rows finite, Factorize reports the system
		}
	}
	sys.assemble()
	tracer().Debugf("assembled spline system of order %d", sys.Order())
	return sys, nil
}

// N returns the number of breakpoints.
func (sys *System) N() int {
	return len(sys.tt)
}

// Order returns the order of the square system, 4(n-1).
func (sys *System) Order() int {
	return 4 * (len(sys.tt) - 1)
}

// Matrix returns the coefficient matrix, in normalized segment time.
func (sys *System) Matrix() mat.Matrix {
	return sys.m
}

// SegmentMode returns the mode of segment i, i.e. the mode of its right breakpoint.
func (sys *System) SegmentMode(i int) Mode {
	return sys.modes[i+1]
}

// Row builder: every call to put fills the next row of the matrix.
type rowWriter struct {
	m    *mat.Dense
	row  int
	info []string
}

func (w *rowWriter) put(info string, entries ...colEntry) int {
	for _, e := range entries {
		w.m.Set(w.row, e.col, e.val)
	}
	w.info = append(w.info, info)
	w.row++
	return w.row - 1
}

type colEntry struct {
	col int
	val float64
}

// Coefficient vectors of value, first and second derivative at w, for the
// segment whose unknowns start at column base. Derivatives are taken with
// respect to w.
func valueAt(base int, w float64) []colEntry {
	return []colEntry{{base, w * w * w}, {base + 1, w * w}, {base + 2, w}, {base + 3, 1}}
}

func derivAt(base int, w float64) []colEntry {
	return []colEntry{{base, 3 * w * w}, {base + 1, 2 * w}, {base + 2, 1}}
}

func deriv2At(base int, w float64) []colEntry {
	return []colEntry{{base, 6 * w}, {base + 1, 2}}
}

// scaled multiplies entries by f, for continuity rows
// f_l·left(w) - f_r·right(0) = 0.
func scaled(entries []colEntry, f float64) []colEntry {
	for i := range entries {
		entries[i].val *= f
	}
	return entries
}

// end returns the normalized time of t_{i+1} within segment i: 1, or 0 for
// an empty segment.
func (sys *System) end(i int) float64 {
	return (sys.tt[i+1] - sys.tt[i]) / sys.h[i]
}

func (sys *System) assemble() {
	n := len(sys.tt)
	order := sys.Order()
	sys.m = mat.NewDense(order, order, nil)
	sys.valueRows = make([][2]int, n-1)
	w := &rowWriter{m: sys.m}
	for i := 0; i < n-1; i++ {
		base := 4 * i
		r0 := w.put(fmt.Sprintf("seg[%d](t[%d]) = value", i, i), valueAt(base, 0)...)
		r1 := w.put(fmt.Sprintf("seg[%d](t[%d]) = value", i, i+1), valueAt(base, sys.end(i))...)
		sys.valueRows[i] = [2]int{r0, r1}
		if sys.SegmentMode(i) == Linear {
			w.put(fmt.Sprintf("seg[%d].a = 0", i), colEntry{base, 1})
			w.put(fmt.Sprintf("seg[%d].b = 0", i), colEntry{base + 1, 1})
		}
		if i == n-2 {
			break
		}
		left, right := sys.SegmentMode(i), sys.SegmentMode(i+1)
		if left == Linear && right == Linear {
			continue // values already agree at t[i+1]
		}
		// d/dt = (1/h)·d/dw; rows are multiplied by the shorter h
		next := base + 4
		hmin := math.Min(sys.h[i], sys.h[i+1])
		fl, fr := hmin/sys.h[i], hmin/sys.h[i+1]
		w.put(fmt.Sprintf("seg[%d]' = seg[%d]' at t[%d]", i, i+1, i+1),
			append(scaled(derivAt(base, sys.end(i)), fl), scaled(derivAt(next, 0), -fr)...)...)
		if left == Cubic && right == Cubic {
			w.put(fmt.Sprintf("seg[%d]'' = seg[%d]'' at t[%d]", i, i+1, i+1),
				append(scaled(deriv2At(base, sys.end(i)), fl*fl), scaled(deriv2At(next, 0), -fr*fr)...)...)
		}
	}
	if sys.SegmentMode(0) == Cubic {
		if sys.modes[0] == Linear {
			w.put("seg[0].a = 0", colEntry{0, 1})
		} else {
			w.put("seg[0]'(t[0]) = 0", derivAt(0, 0)...)
		}
	}
	if last := n - 2; sys.SegmentMode(last) == Cubic {
		w.put(fmt.Sprintf("seg[%d]'(t[%d]) = 0", last, n-1), derivAt(4*last, sys.end(last))...)
	}
	if w.row != order {
		panic(fmt.Sprintf("spline system has %d rows, expected %d", w.row, order))
	}
	sys.rowinfo = w.info
}

// rhs creates the right hand side for one axis of samples.
func (sys *System) rhs(samples []float64) *mat.VecDense {
	b := mat.NewVecDense(sys.Order(), nil)
	for i, rows := range sys.valueRows {
		b.SetVec(rows[0], samples[i])
		b.SetVec(rows[1], samples[i+1])
	}
	return b
}

// Convert the solution vector in normalized time into segments in local time
// τ = t - t_i. With w = τ/h, a·w³ = (a/h³)·τ³ etc.
func (sys *System) segments(x *mat.VecDense) []Segment {
	segs := make([]Segment, len(sys.tt)-1)
	for i := range segs {
		base, h := 4*i, sys.h[i]
		segs[i] = Segment{
			A:    x.AtVec(base) / (h * h * h),
			B:    x.AtVec(base+1) / (h * h),
			C:    x.AtVec(base+2) / h,
			D:    x.AtVec(base + 3),
			T:    sys.tt[i],
			Mode: sys.SegmentMode(i),
		}
		if segs[i].Mode == Linear {
			segs[i].A, segs[i].B = 0, 0
		}
	}
	return segs
}

package spline

import (
	"bytes"
	"fmt"
	"iter"
	"sort"

	fg "github.com/Rayerdyne/FG"
)

// Start is the first breakpoint.
func (sp *Spline) Start() float64 {
	return sp.tt[0]
}

// End is the last breakpoint.
func (sp *Spline) End() float64 {
	return sp.tt[len(sp.tt)-1]
}

// N returns the number of segments, which is one less than the number of breakpoints.
func (sp *Spline) N() int {
	return len(sp.segments)
}

// Breakpoints returns a copy of the breakpoints.
func (sp *Spline) Breakpoints() []float64 {
	return append([]float64(nil), sp.tt...)
}

// Breakpoint returns t_i.
func (sp *Spline) Breakpoint(i int) float64 {
	return sp.tt[i]
}

// SegmentAt returns the coefficients of segment i, 0 ≤ i < N().
func (sp *Spline) SegmentAt(i int) (Segment, error) {
	if i < 0 || i >= len(sp.segments) {
		return Segment{}, fmt.Errorf("%w: segment %d of %d", fg.ErrIndex, i, len(sp.segments))
	}
	return sp.segments[i], nil
}

// Contains is a predicate: is t within the domain [Start(), End()] ?
func (sp *Spline) Contains(t float64) bool {
	return t >= sp.Start() && t <= sp.End()
}

// active returns the index of the segment in charge of t, which has to be
// within the domain. A breakpoint belongs to the segment starting there,
// End() belongs to the last segment.
func (sp *Spline) active(t float64) int {
	i := sort.Search(len(sp.tt), func(k int) bool { return sp.tt[k] > t }) - 1
	if i >= len(sp.segments) {
		i = len(sp.segments) - 1
	}
	return i
}

// Eval evaluates the spline at t. Outside of [Start(), End()] Eval returns 0.
func (sp *Spline) Eval(t float64) float64 {
	if !sp.Contains(t) {
		return 0
	}
	return sp.segments[sp.active(t)].Eval(t)
}

// EvalChecked evaluates the spline at t, reporting fg.ErrDomain for t outside
// of [Start(), End()].
func (sp *Spline) EvalChecked(t float64) (float64, error) {
	if !sp.Contains(t) {
		return 0, fmt.Errorf("%w: t = %g not in [%g, %g]", fg.ErrDomain, t, sp.Start(), sp.End())
	}
	return sp.segments[sp.active(t)].Eval(t), nil
}

// Segments iterates over the segments in breakpoint order. Every call
// starts a new iteration from the first segment.
func (sp *Spline) Segments() iter.Seq2[int, Segment] {
	return func(yield func(int, Segment) bool) {
		for i, seg := range sp.segments {
			if !yield(i, seg) {
				return
			}
		}
	}
}

// Interval returns the breakpoints enclosing segment i.
func (sp *Spline) Interval(i int) (float64, float64) {
	return sp.tt[i], sp.tt[i+1]
}

// Integral integrates the spline over its domain.
func (sp *Spline) Integral() float64 {
	sum := 0.0
	for i, seg := range sp.Segments() {
		t0, t1 := sp.Interval(i)
		sum += seg.Integral(t0, t1)
	}
	return sum
}

// String lists the segments with their intervals, for debugging. Coefficients
// are those of local time τ = t - t_i.
func (sp *Spline) String() string {
	var buffer bytes.Buffer
	for i, seg := range sp.Segments() {
		t0, t1 := sp.Interval(i)
		buffer.WriteString(fmt.Sprintf("[%g,%g): %gτ³ + %gτ² + %gτ + %g (%s)\n",
			t0, t1, fg.Round(seg.A), fg.Round(seg.B), fg.Round(seg.C), fg.Round(seg.D), seg.Mode))
	}
	return buffer.String()
}

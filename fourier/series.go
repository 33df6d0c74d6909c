package fourier

import (
	"math"

	fg "github.com/Rayerdyne/FG"
)

// Term is one rotating vector of the series at a given time.
type Term struct {
	K   int        // harmonic, positive or negative
	Vec complex128 // c.k · e^{jkω₀t}
}

func (cs *CoeffSet) rotate(k int, t, omega0 float64) complex128 {
	c, _ := cs.Coeff(k)
	return c * fg.Expj(float64(k)*omega0*t)
}

// At evaluates the partial sum
//
//	Σ c.k · e^{jkω₀t},   -(N-1) ≤ k ≤ N-1,  ω₀ = 2π/period
//
// and returns it as a point.
func (cs *CoeffSet) At(t, period float64) fg.Pair {
	omega0 := 2 * math.Pi / period
	z := cs.pos[0]
	for k := 1; k < cs.N(); k++ {
		z += cs.rotate(k, t, omega0) + cs.rotate(-k, t, omega0)
	}
	return fg.C2P(z)
}

// FejerAt evaluates the Cesàro mean of the partial sums up to N-1, which
// weights harmonic k by 1 - |k|/N. Fejér sums converge at every point of
// continuity of a continuous periodic path.
func (cs *CoeffSet) FejerAt(t, period float64) fg.Pair {
	omega0 := 2 * math.Pi / period
	n := float64(cs.N())
	z := cs.pos[0]
	for k := 1; k < cs.N(); k++ {
		w := 1 - float64(k)/n
		z += fg.Scaled(cs.rotate(k, t, omega0)+cs.rotate(-k, t, omega0), w)
	}
	return fg.C2P(z)
}

// Epicycles returns the chain of rotating vectors at time t, ordered
// 0, +1, -1, +2, -2, … The running sum of the vectors is the path of the
// epicycle tips; the last tip equals At(t, period).
func (cs *CoeffSet) Epicycles(t, period float64) []Term {
	omega0 := 2 * math.Pi / period
	terms := make([]Term, 0, 2*cs.N()-1)
	terms = append(terms, Term{K: 0, Vec: cs.pos[0]})
	for k := 1; k < cs.N(); k++ {
		terms = append(terms,
			Term{K: k, Vec: cs.rotate(k, t, omega0)},
			Term{K: -k, Vec: cs.rotate(-k, t, omega0)})
	}
	return terms
}

// Tips returns the running sums of a chain of terms, starting at origin.
// The result has one element more than terms.
func Tips(origin fg.Pair, terms []Term) []fg.Pair {
	tips := make([]fg.Pair, len(terms)+1)
	tips[0] = origin
	for i, term := range terms {
		tips[i+1] = tips[i] + fg.Pair(term.Vec)
	}
	return tips
}

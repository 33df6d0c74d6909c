// Package polyn is for arithmetic with linear polynomials and linear equations.
/*
The spline solver of this module factorizes its systems with LU decomposition.
Package polyn offers a second, symbolic view onto the same equations: it
eliminates variables one equation at a time and therefore knows, for a system
without a unique solution, exactly which unknowns stayed undetermined.

BSD 3-Clause License

Copyright (c) 2017–21, Norbert Pillmayer.
Copyright (c) 2024, François Straet.

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions are met:

1. Redistributions of source code must retain the above copyright notice, this
list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright notice,
this list of conditions and the following disclaimer in the documentation
and/or other materials provided with the distribution.

3. Neither the name of the copyright holder nor the names of its
contributors may be used to endorse or promote products derived from
this software without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE
FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL
DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER
CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY,
OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.
*/
package polyn

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	fg "github.com/Rayerdyne/FG"
	"github.com/emirpasic/gods/maps"
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/npillmayer/schuko/tracing"
)

// T traces to the equations tracer.
func T() tracing.Trace {
	return tracing.Select("equations")
}

var (
	// ErrIllegalDivisor indicates a division by zero or by a non-constant polynomial.
	ErrIllegalDivisor = errors.New("illegal divisor")
	// ErrNonLinear indicates a multiplication of two non-constant polynomials.
	ErrNonLinear = errors.New("product of unknowns is not linear")
)

// X is a helper for quick construction of polynomials.
// It denotes a term
//
//	C⋅x[I]
//
// I > 0
type X struct {
	I int     // variable ID
	C float64 // coefficient
}

// New creates a polynomial, given the constant and the terms.
//
// Use it as
//
//	polyn.New(8, polyn.X{2,5}, polyn.X{1,2/3} )
//
// to get
//
//	P(x) = 8 + 5x.2 + 2/3x.1
func New(c float64, tms ...X) (Polynomial, error) {
	p := NewConstantPolynomial(c)
	var err error
	for _, t := range tms {
		if t.I < 1 {
			err = fmt.Errorf("variable ID must be at least 1, skipping term %d", t.I)
		} else {
			p.SetTerm(t.I, t.C)
		}
	}
	return p, err
}

// Polynomial is a type for linear polynomials
//
//	c + a.1 x.1 + a.2 x.2 + ... a.n x.n .
//
// We store the coefficients only. Index 0 is the constant term.
// We store the scales/coeff in a TreeMap (sorted map). Coefficients are of
// type float64.
type Polynomial struct {
	Terms *treemap.Map
}

// NewConstantPolynomial creates a Polynomial consisting of just a constant term.
func NewConstantPolynomial(c float64) Polynomial {
	p := Polynomial{}
	p.checkTerms()
	p.Terms.Put(0, c) // initialize with constant term (at position 0)
	return p.Zap()
}

func (p *Polynomial) checkTerms() {
	if p.Terms == nil {
		p.Terms = treemap.NewWithIntComparator()
	}
}

// SetTerm sets the coefficient for a term a.i within a Polynomial.
// For i=0, sets the constant term.
func (p Polynomial) SetTerm(i int, scale float64) Polynomial {
	p.checkTerms()
	p.Terms.Put(i, scale)
	return p
}

// Exponents returns the keys of all terms in ascending order, including 0
// for the constant term.
func (p Polynomial) Exponents() []int {
	p.checkTerms()
	keys := make([]int, 0, p.Terms.Size())
	for _, k := range p.Terms.Keys() {
		keys = append(keys, k.(int))
	}
	return keys
}

// TermCount returns the number of terms, including the constant term.
func (p Polynomial) TermCount() int {
	if p.Terms == nil {
		return 0
	}
	return p.Terms.Size()
}

// Helper: for an equation [ 0 = p ] check if p is constant. Returns the
// constant and a flag. A constant != 0 signals an inconsistent equation,
// which the caller has to report.
func (p Polynomial) isOff() (float64, bool) {
	if coeff, isconst := p.IsConstant(); isconst {
		return coeff, true
	}
	return 0.0, false
}

// Find coefficient of maximum absolute value.
// If parameter 'dependents' is given, first search for a.i * x.i, with
// x.i not in dependents (i.e., we're looking for free variables only).
// If no free variable can be found, find max(dependent(a.j)).
// Ties resolve to the lowest variable ID.
func (p Polynomial) maxCoeff(dependents maps.Map) (int, float64) {
	p.checkTerms()
	it := p.Terms.Iterator()
	var maxp int   // variable position of max coeff
	var maxc = 0.0 // max |coeff|
	var coeff float64
	for it.Next() {
		i := it.Key().(int)
		var isdep = false
		if dependents != nil {
			_, isdep = dependents.Get(i)
		}
		if i == 0 || isdep {
			continue
		}
		c := it.Value().(float64)
		if math.Abs(c) > maxc {
			maxc, maxp, coeff = math.Abs(c), i, c
		}
	}
	if maxp == 0 && dependents != nil { // no free variable found
		maxp, coeff = p.maxCoeff(nil)
	}
	return maxp, coeff
}

// maxAbsCoeff returns the largest absolute coefficient of a variable term,
// or 0 for a constant polynomial.
func (p Polynomial) maxAbsCoeff() float64 {
	_, c := p.maxCoeff(nil)
	return math.Abs(c)
}

// Substitute variable i within p with Polynomial p2, i.e. replace a.i x.i
// by a.i·p2. Terms with a coefficient of at most eps are dropped from the
// result. If p does not contain a term.i, p is unchanged. p is not altered.
func (p Polynomial) substitute(i int, p2 Polynomial, eps float64) Polynomial {
	scale := p.GetCoeffForTerm(i)
	if math.Abs(scale) <= eps {
		return p
	}
	p = p.CopyPolynomial()
	p.Terms.Remove(i)
	return p.addScaled(p2, scale).zapBelow(eps)
}

// CopyPolynomial makes a copy of a numeric Polynomial.
func (p Polynomial) CopyPolynomial() Polynomial {
	p1 := NewConstantPolynomial(0.0) // will become our return value
	p.checkTerms()
	it := p.Terms.Iterator()
	for it.Next() { // copy all terms of p into p1
		p1.SetTerm(it.Key().(int), it.Value().(float64))
	}
	return p1
}

// Internal method: add or subtract 2 polynomials. The high level methods
// are based on this one.
// Flag doAdd signals addition or subtraction.
func (p Polynomial) addOrSub(p2 Polynomial, doAdd bool, destructive bool) Polynomial {
	p.checkTerms()
	p1 := p.CopyPolynomial() // will become our return value
	p2.checkTerms()
	it2 := p2.Terms.Iterator()
	for it2.Next() { // inspect all terms of p2
		pos2 := it2.Key().(int)
		scale2 := it2.Value().(float64)
		if !fg.Is0(scale2) {
			scale1 := p1.GetCoeffForTerm(pos2)
			if doAdd {
				scale1 += scale2
			} else {
				scale1 -= scale2
			}
			p1.SetTerm(pos2, scale1) // we operate on the copy p1
		}
	}
	if destructive {
		p.replaceTerms(p1)
	}
	return p1
}

// addScaled returns p + c·p2, keeping coefficients of any magnitude.
func (p Polynomial) addScaled(p2 Polynomial, c float64) Polynomial {
	p1 := p.CopyPolynomial()
	p2.checkTerms()
	it := p2.Terms.Iterator()
	for it.Next() {
		pos := it.Key().(int)
		p1.SetTerm(pos, p1.GetCoeffForTerm(pos)+c*it.Value().(float64))
	}
	return p1
}

// replaceTerms makes the terms of p those of p1. As the term map is shared
// between copies of p, the change is visible to the caller.
func (p Polynomial) replaceTerms(p1 Polynomial) {
	if p.Terms == nil || p.Terms == p1.Terms {
		return
	}
	p.Terms.Clear()
	it := p1.Terms.Iterator()
	for it.Next() {
		p.Terms.Put(it.Key(), it.Value())
	}
}

// Add adds two Polynomials. Returns a new Polynomial, except when the
// 'destructive'-flag is set (then p is altered as well).
func (p Polynomial) Add(p2 Polynomial, destructive bool) Polynomial {
	return p.addOrSub(p2, true, destructive)
}

// Subtract subtracts two Polynomials. Returns a new Polynomial, except when the
// 'destructive'-flag is set (then p is altered as well).
func (p Polynomial) Subtract(p2 Polynomial, destructive bool) Polynomial {
	return p.addOrSub(p2, false, destructive)
}

// Multiply multiplies two Polynomials. One of both must be a constant.
// Operands are left untouched unless 'destructive' is set, in which case p
// receives the product.
func (p Polynomial) Multiply(p2 Polynomial, destructive bool) (Polynomial, error) {
	var src Polynomial
	c, isconst := p2.IsConstant()
	if isconst {
		src = p
	} else if c, isconst = p.IsConstant(); isconst {
		src = p2
	} else {
		return Polynomial{}, fmt.Errorf("%w: %s * %s", ErrNonLinear, p, p2)
	}
	p1 := src.CopyPolynomial()
	it := p1.Terms.Iterator()
	for it.Next() { // multiply all coefficients by c
		p1.Terms.Put(it.Key(), fg.Zap(it.Value().(float64)*c))
	}
	p1 = p1.Zap()
	if destructive {
		p.replaceTerms(p1)
	}
	return p1, nil
}

// Divide divides a polynomial by a numeric (not 0). The divisor is not altered.
func (p Polynomial) Divide(p2 Polynomial, destructive bool) (Polynomial, error) {
	c, isconst := p2.IsConstant()
	if !isconst || fg.Is0(c) {
		return Polynomial{}, fmt.Errorf("%w: %s", ErrIllegalDivisor, p2.String())
	}
	return p.Multiply(NewConstantPolynomial(1.0/c), destructive)
}

// Zap eliminates all terms with coefficient=0 from a polynomial.
func (p Polynomial) Zap() Polynomial {
	return p.zapBelow(fg.Epsilon)
}

// zapBelow eliminates all terms with |coefficient| ≤ eps.
func (p Polynomial) zapBelow(eps float64) Polynomial {
	p.checkTerms()
	for _, pos := range p.Terms.Keys() {
		if scale, _ := p.Terms.Get(pos); math.Abs(scale.(float64)) <= eps {
			p.Terms.Remove(pos) // may lose constant term c
		}
	}
	if _, ok := p.Terms.Get(0); !ok {
		p.Terms.Put(0, 0.0) // set p = 0: re-introduce c
	}
	return p
}

// IsConstant checks wether
// a Polynomial is a constant, i.e. p = { c }? Returns the constant and a flag.
func (p Polynomial) IsConstant() (float64, bool) {
	return p.GetCoeffForTerm(0), p.TermCount() <= 1
}

// IsVariable checks wether
// a Polynomial is a variable?, i.e. a single term with coefficient = 1.
// Returns the position of the term and a flag.
func (p Polynomial) IsVariable() (int, bool) {
	if p.TermCount() == 2 && fg.Is0(p.GetCoeffForTerm(0)) {
		pos := p.Exponents()[1]
		if fg.Is1(p.GetCoeffForTerm(pos)) {
			return pos, true
		}
	}
	return -1, false
}

// IsValid checks if this a correctly initialized polynomial.
func (p Polynomial) IsValid() bool {
	return p.Terms != nil
}

// GetConstantValue returns the constant term of a polynomial.
func (p Polynomial) GetConstantValue() float64 {
	return p.GetCoeffForTerm(0)
}

// GetCoeffForTerm gets the coefficient for term # i.
//
// Example:
//
//	p = x + 3x.2
//
// ⇒
//
//	coeff(2) = 3
func (p Polynomial) GetCoeffForTerm(i int) float64 {
	if p.Terms == nil {
		return 0.0
	}
	if sc, found := p.Terms.Get(i); found {
		return sc.(float64)
	}
	return 0.0
}

// ArityComparator is a
// Comparator for polynomials. Polynomials are "smaller" if their arity
// is smaller, i.e. they have less unknown variables. It fits
// github.com/emirpasic/gods/utils.Comparator.
func ArityComparator(polyn1, polyn2 interface{}) int {
	p1, _ := polyn1.(Polynomial)
	p2, _ := polyn2.(Polynomial)
	return p1.TermCount() - p2.TermCount()
}

// String creates a readable string representation for a Polynomial.
// Uses internal variable representations x.<n> where n corresponds to
// the variable's ID.
func (p Polynomial) String() string {
	return p.TraceString(nil)
}

// TraceString creates a string representation for a Polynomial. Uses a variable name
// resolver to print 'real' variable identifiers. If no resolver is
// present, variables are printed in a generic form: { a.i x.i }.
func (p Polynomial) TraceString(resolv VariableResolver) string {
	var buffer bytes.Buffer
	p.checkTerms()
	it := p.Terms.Iterator()
	var indent = false // no space before first term (usually constant)
	for it.Next() {
		pos := it.Key().(int)
		scale := it.Value().(float64)
		if pos == 0 {
			if resolv == nil {
				buffer.WriteString(fmt.Sprintf("{ %g } ", fg.Round(scale)))
			} else if !fg.Is0(scale) {
				buffer.WriteString(fmt.Sprintf("%g", fg.Round(scale)))
				indent = true
			}
			continue
		}
		if resolv == nil {
			buffer.WriteString(fmt.Sprintf("{ %g x.%d } ", fg.Round(scale), pos))
			continue
		}
		if indent {
			if scale < 0.0 {
				buffer.WriteString(" - ")
			} else {
				buffer.WriteString(" + ")
			}
		} else {
			indent = true
			if scale < 0.0 {
				buffer.WriteString("-")
			}
		}
		if !fg.Is0(math.Abs(scale) - 1.0) {
			buffer.WriteString(fmt.Sprintf("%g", math.Abs(scale)))
		}
		buffer.WriteString(resolv.GetVariableName(pos))
	}
	return buffer.String()
}

// TraceStringVar is a helper for tracing output. Parameter resolv may be nil.
func TraceStringVar(i int, resolv VariableResolver) string {
	if resolv == nil {
		return fmt.Sprintf("x.%d", i)
	}
	return resolv.GetVariableName(i)
}

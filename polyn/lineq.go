/*
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
	"errors"
	"fmt"
	"math"

	fg "github.com/Rayerdyne/FG"
	"github.com/emirpasic/gods/maps/treemap"
)

var (
	// ErrEmptyEquationList indicates no equations were supplied to AddEqs.
	ErrEmptyEquationList = errors.New("empty list of equations")
	// ErrInconsistentEquation indicates an equation reduced to 0 = c with c != 0.
	ErrInconsistentEquation = errors.New("inconsistent equation")
)

/*
----------------------------------------------------------------------

Objects and interfaces for solving systems of linear equations (LEQ).

Inspired by Donald E. Knuth's MetaFont, John Hobby's MetaPost and by
a Lua project by John D. Ramsdell: http://luaforge.net/projects/lineqpp/
*/

// A VariableResolver links solver variable IDs to "real" variable names.
//
// Terms are keyed by variable ID i, the solver works on x.i internally.
// Example: the spline unknown "seg[3].b" with ID=14 is represented as x.14.
// The resolver maps x.14 back to "seg[3].b".
type VariableResolver interface {
	GetVariableName(int) string     // get real-life name of x.i
	SetVariableSolved(int, float64) // message: x.i is solved
}

// EquationMap holds equations x.i = p(i), ordered by variable ID i.
type EquationMap struct {
	*treemap.Map
}

func newEquationMap() EquationMap {
	return EquationMap{treemap.NewWithIntComparator()}
}

func (m EquationMap) get(i int) (Polynomial, bool) {
	if p, ok := m.Get(i); ok {
		return p.(Polynomial), true
	}
	return Polynomial{}, false
}

// Walk equations in ascending order of variable IDs.
// Keys are snapshotted so callbacks may remove entries from m safely.
func forEachEquationAscending(m EquationMap, fn func(int, Polynomial) error) error {
	for _, k := range m.Keys() {
		p, ok := m.get(k.(int))
		if !ok { // key may have been removed by callback
			continue
		}
		if err := fn(k.(int), p); err != nil {
			return err
		}
	}
	return nil
}

// LinEqSolver is a container for linear equations. Used to incrementally solve
// systems of linear equations.
type LinEqSolver struct {
	dependents  EquationMap      // dependent variable at position i has dependencies[i]
	solved      EquationMap      // map x.i => numeric
	varresolver VariableResolver // to resolve variable names from term positions
	eps         float64          // relative tolerance for coefficients
}

// NewLinEqSolver creates a new system of linear equations.
func NewLinEqSolver() *LinEqSolver {
	return &LinEqSolver{
		dependents: newEquationMap(),
		solved:     newEquationMap(),
		eps:        fg.Epsilon,
	}
}

// SetVariableResolver sets a variable resolver.
func (leq *LinEqSolver) SetVariableResolver(resolver VariableResolver) {
	leq.varresolver = resolver
}

// SetTolerance sets the tolerance below which coefficients count as 0. Every
// equation is divided by its largest coefficient when it is added, so the
// tolerance is relative to the norm of the equation's row. The default is
// fg.Epsilon.
func (leq *LinEqSolver) SetTolerance(eps float64) {
	leq.eps = eps
}

func (leq *LinEqSolver) is0(c float64) bool {
	return math.Abs(c) <= leq.eps
}

// Solved returns all currently solved variables as a map: ID -> value.
func (leq *LinEqSolver) Solved() map[int]float64 {
	setOfSolved := make(map[int]float64, leq.solved.Size())
	_ = forEachEquationAscending(leq.solved, func(i int, p Polynomial) error {
		setOfSolved[i] = p.GetConstantValue()
		return nil
	})
	return setOfSolved
}

// Dependents returns the IDs of all variables which are known only in terms
// of other variables, in ascending order.
func (leq *LinEqSolver) Dependents() []int {
	ids := make([]int, 0, leq.dependents.Size())
	for _, k := range leq.dependents.Keys() {
		ids = append(ids, k.(int))
	}
	return ids
}

// IsSolved is a predicate: has x.i a numeric value?
func (leq *LinEqSolver) IsSolved(i int) bool {
	_, ok := leq.solved.Get(i)
	return ok
}

// AddEq adds a
// new equation 0 = p (p is Polynomial) to a system of linear equations.
// Immediately starts to solve the -- possibly incomplete -- system, as
// far as possible.
func (leq *LinEqSolver) AddEq(p Polynomial) (*LinEqSolver, error) {
	return leq, leq.addEq(p)
}

// AddEqs adds a set of linear equations to the LEQ system.
// See AddEq.
func (leq *LinEqSolver) AddEqs(plist []Polynomial) (*LinEqSolver, error) {
	l := len(plist)
	if l == 0 {
		T().Errorf("given empty list of equations")
		return leq, ErrEmptyEquationList
	}
	for i, p := range plist {
		T().Debugf("adding equation %d/%d: 0 = %s", i+1, l, p)
		if err := leq.addEq(p); err != nil {
			return leq, err
		}
	}
	return leq, nil
}

func (leq *LinEqSolver) addEq(p Polynomial) error {
	p = p.CopyPolynomial()
	if norm := p.maxAbsCoeff(); norm > 0 { // normalize the row
		p = NewConstantPolynomial(0).addScaled(p, 1/norm)
	}
	p = p.zapBelow(leq.eps)
	T().P("op", "new equation").Debugf("0 = %s", leq.PolynString(p))
	p = leq.substituteSolved(0, p, leq.solved)
	coeff, off := p.isOff()
	if off {
		if !leq.is0(coeff) {
			return fmt.Errorf("%w: 0 = %s (off by %g)", ErrInconsistentEquation, leq.PolynString(p), coeff)
		}
		return nil // redundant equation 0 = 0
	}
	i, _ := p.maxCoeff(leq.dependents.Map) // start with max (free) coefficient of p
	p, err := leq.activateEquationTowards(i, p)
	if err != nil {
		return err
	}
	// Phase 1: substitute p(i) in every x.j=p(j)
	D, err := leq.updateDependentVariables(i, p)
	if err != nil {
		return err
	}
	// Phase 2: split solved x from D' off to S'
	S := newEquationMap()
	_ = forEachEquationAscending(D, func(i int, p Polynomial) error {
		if ok, rhs := solved(p); ok {
			S.Put(i, rhs)
			D.Remove(i)
		}
		return nil
	})
	_ = forEachEquationAscending(D, func(i int, p Polynomial) error {
		p = leq.substituteSolved(i, p, S)
		if ok, rhs := solved(p); ok {
			S.Put(i, rhs)
			D.Remove(i)
		} else {
			D.Put(i, p)
		}
		return nil
	})
	_ = forEachEquationAscending(S, func(i int, p Polynomial) error {
		leq.setSolved(i, p)
		return nil
	})
	leq.dependents = D
	return nil
}

// With a new equation x.i=p(i) walk through all dependent variables
// x.j=p(j) and substitute p(i) for x.i in every RHS.
// Return a new set D' of dependent variables.
func (leq *LinEqSolver) updateDependentVariables(i int, p Polynomial) (EquationMap, error) {
	D := newEquationMap()
	leq.updateDependency(i, p, D)
	savei := i
	err := forEachEquationAscending(leq.dependents, func(j int, q Polynomial) error {
		i = savei
		tmp, ok := D.get(i)
		if !ok {
			return fmt.Errorf("internal solver state missing dependency for %s", leq.VarString(i))
		}
		p = tmp.CopyPolynomial() // get current version of p(i)
		q = q.CopyPolynomial()
		if j == i { // x.j = x.i, i.e. equations with identical LHS
			k, _ := q.maxCoeff(D.Map)
			q = q.addScaled(NewConstantPolynomial(0).SetTerm(j, 1), -1) // move x.j to RHS
			var err error
			if q, err = leq.activateEquationTowards(k, q); err != nil {
				return err
			}
			j = k
		}
		leq.updateDependency(j, q, D) // insert original dependency
		if !leq.termContains(q, i) && leq.termContains(p, j) {
			i, j = j, i
			p, q = q, p
		}
		if !leq.termContains(q, i) {
			return nil
		}
		var err error
		j, q, err = leq.subst(i, p, j, q) // substitute new equation in x.j=q(j)
		if err != nil {
			return err
		}
		if j != 0 {
			leq.updateDependency(j, q, D)
			return nil
		}
		// j has been eliminated from q
		if coeff, off := q.isOff(); !off {
			k, _ := q.maxCoeff(D.Map)
			if q, err = leq.activateEquationTowards(k, q); err != nil {
				return err
			}
			leq.updateDependency(k, q, D)
		} else if !leq.is0(coeff) {
			return fmt.Errorf("%w: 0 = %s (off by %g)", ErrInconsistentEquation, leq.PolynString(q), coeff)
		}
		return nil
	})
	if err != nil {
		return EquationMap{}, err
	}
	return D, nil
}

// Check if a polynomial is constant, i.e. solves an equation.
func solved(p Polynomial) (bool, Polynomial) {
	if rhs, isconst := p.IsConstant(); isconst {
		p = p.SetTerm(0, fg.Round(rhs))
		return true, p
	}
	return false, p
}

// Does this polynomial contain x.i ?
func (leq *LinEqSolver) termContains(p Polynomial, i int) bool {
	return !leq.is0(p.GetCoeffForTerm(i))
}

// Insert or replace x.i=p(i) in a set of equations. Shorter right hand sides
// win.
func (leq *LinEqSolver) updateDependency(i int, p Polynomial, m EquationMap) {
	p = p.CopyPolynomial()
	if q, found := m.get(i); found {
		if termlength(p) < termlength(q) {
			varname := leq.VarString(i)
			T().P("var", varname).Debugf("## %s = %s", varname, leq.PolynString(p))
			m.Put(i, p)
		}
	} else {
		m.Put(i, p)
	}
}

// Substitute term x.i=p(i) for x.i in q(j). p(i) may contain a.j*x.j,
// resulting in an equation x.j=q(j) with x.j in q(j). We then resolve
// for x.j. This may result in the elimination of x.j. We then return 0=q'.
//
// Returns the resulting - possibly new - equation.
func (leq *LinEqSolver) subst(i int, p Polynomial, j int, q Polynomial) (int, Polynomial, error) {
	if !leq.termContains(q, i) {
		return j, q, nil
	}
	q = q.substitute(i, p, leq.eps)
	aj := q.GetCoeffForTerm(j)
	if leq.is0(aj) {
		return j, q, nil
	}
	q = q.CopyPolynomial()
	q.Terms.Remove(j)
	if leq.is0(aj - 1) { // x.j = c + x.j + ...  => x.j eliminated
		return 0, q, nil
	}
	// x.j = c + a.j*x.j + ...  => scale RHS by -1/(a.j-1)
	q = NewConstantPolynomial(0).addScaled(q, -1.0/(aj-1.0))
	return j, q.zapBelow(leq.eps), nil
}

// Helper: number of variables in RHS of an equation.
func termlength(p Polynomial) int {
	return p.TermCount()
}

// In an equation, substitute all variables which are already known.
func (leq *LinEqSolver) substituteSolved(j int, p Polynomial, solved EquationMap) Polynomial {
	_ = forEachEquationAscending(solved, func(i int, rhs Polynomial) error {
		coeff := p.GetCoeffForTerm(i)
		if leq.is0(coeff) {
			return nil
		}
		p.SetTerm(0, p.GetConstantValue()+coeff*rhs.GetConstantValue())
		p.Terms.Remove(i)
		if j > 0 {
			T().P("op", "subst-solved").Debugf("%s = %s", leq.VarString(j), leq.PolynString(p))
		}
		return nil
	})
	return p
}

// Transform an equation 0 = p(a x.i) to make x.i the dependent variable, i.e.
// x.i = -1/a * p(...).
func (leq *LinEqSolver) activateEquationTowards(i int, p Polynomial) (Polynomial, error) {
	coeff := p.GetCoeffForTerm(i)
	if i == 0 || coeff == 0 {
		return Polynomial{}, fmt.Errorf("cannot activate equation towards %s: zero coefficient", leq.VarString(i))
	}
	p = p.CopyPolynomial()
	p.Terms.Remove(i)
	p = NewConstantPolynomial(0).addScaled(p, -1.0/coeff).zapBelow(leq.eps)
	varname := leq.VarString(i)
	T().P("var", varname).Debugf("## %s = %s", varname, leq.PolynString(p))
	return p, nil
}

// Mark a variable as solved. Sends a message to the variable resolver.
func (leq *LinEqSolver) setSolved(i int, p Polynomial) {
	c := p.GetConstantValue()
	varname := leq.VarString(i)
	T().P("var", varname).Debugf("#### %s = %g", varname, c)
	leq.solved.Put(i, p)
	if leq.varresolver != nil {
		leq.varresolver.SetVariableSolved(i, c)
	}
}

// VarString returns a readable variable name for an internal variable.
// Uses a VariableResolver, if present.
func (leq *LinEqSolver) VarString(i int) string {
	return TraceStringVar(i, leq.varresolver)
}

// PolynString outputs a polynomial as string. Uses VariableResolver, if present.
func (leq *LinEqSolver) PolynString(p Polynomial) string {
	if leq.varresolver != nil {
		return p.TraceString(leq.varresolver)
	}
	return p.String()
}

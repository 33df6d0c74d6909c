package spline

import (
	"fmt"

	"github.com/Rayerdyne/FG/polyn"
)

// Systems above this order are not diagnosed symbolically.
const maxDiagnosisOrder = 400

// Coefficients below this fraction of their row's largest coefficient count
// as 0 during diagnosis.
const diagnosisTolerance = 1e-10

// unknowns resolves solver variable IDs to spline unknowns. ID 4i+1 is
// seg[i].a, 4i+2 is seg[i].b, and so on.
type unknowns map[int]float64

func (u unknowns) GetVariableName(id int) string {
	return fmt.Sprintf("seg[%d].%c", (id-1)/4, "abcd"[(id-1)%4])
}

func (u unknowns) SetVariableSolved(id int, v float64) {
	u[id] = v
}

// Undetermined eliminates the homogeneous system M·x = 0 equation by equation
// and returns the names of all unknowns which stay free. For a regular system
// the result is empty. Rows which turn out to be redundant are traced.
func (sys *System) Undetermined() []string {
	order := sys.Order()
	if order > maxDiagnosisOrder {
		tracer().Infof("spline system of order %d too large for diagnosis", order)
		return nil
	}
	leq := polyn.NewLinEqSolver()
	leq.SetTolerance(diagnosisTolerance)
	resolver := make(unknowns)
	leq.SetVariableResolver(resolver)
	for r := 0; r < order; r++ {
		p := polyn.NewConstantPolynomial(0)
		for c := 0; c < order; c++ {
			if v := sys.m.At(r, c); v != 0 {
				p.SetTerm(c+1, v)
			}
		}
		if _, isconst := p.IsConstant(); isconst {
			tracer().Debugf("row %d (%s) is empty", r, sys.rowinfo[r])
			continue
		}
		before := len(resolver) + len(leq.Dependents())
		if _, err := leq.AddEq(p); err != nil {
			tracer().Errorf("row %d (%s): %v", r, sys.rowinfo[r], err)
			continue
		}
		if len(resolver)+len(leq.Dependents()) == before {
			tracer().Infof("row %d (%s) is redundant", r, sys.rowinfo[r])
		}
	}
	var free []string
	for id := 1; id <= order; id++ {
		if !leq.IsSolved(id) {
			free = append(free, resolver.GetVariableName(id))
		}
	}
	return free
}

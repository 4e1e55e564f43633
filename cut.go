/*
Copyright © 2015-2022 Leo Antunes <leo@costela.net>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <http://www.gnu.org/licenses/>.
*/

package benders

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// CutKind tells optimality and feasibility cuts apart.
type CutKind int

const (
	OptimalityCut CutKind = iota + 1
	FeasibilityCut
)

func (k CutKind) String() string {
	switch k {
	case OptimalityCut:
		return "optimality"
	case FeasibilityCut:
		return "feasibility"
	default:
		return fmt.Sprintf("CutKind(%d)", int(k))
	}
}

// Cut is the inequality T·t + Xᵗx <= RHS over the master variables.
// Iteration is the generator call that produced it, counting from 1.
type Cut struct {
	Kind      CutKind
	X         []float64
	T         float64
	RHS       float64
	Iteration int
}

// newOptimalityCut builds t + (A1ᵗu - c1)ᵗx <= bᵗu from an optimal dual
// vertex u.
func newOptimalityCut(inst *Instance, u []float64) Cut {
	coefs := inst.transposeA1(u)
	floats.Sub(coefs, inst.C1)
	return Cut{
		Kind: OptimalityCut,
		X:    coefs,
		T:    1,
		RHS:  floats.Dot(inst.B, u),
	}
}

// newFeasibilityCut builds (A1ᵗr)ᵗx <= bᵗr from an extreme ray r.
func newFeasibilityCut(inst *Instance, r []float64) Cut {
	return Cut{
		Kind: FeasibilityCut,
		X:    inst.transposeA1(r),
		RHS:  floats.Dot(inst.B, r),
	}
}

// Slack returns RHS - (T·t + Xᵗx); it is negative when the cut is violated.
func (c Cut) Slack(x []float64, t float64) float64 {
	return c.RHS - c.T*t - floats.Dot(c.X, x)
}

// Holds reports whether (x, t) satisfies the cut up to tol.
func (c Cut) Holds(x []float64, t, tol float64) bool {
	return c.Slack(x, t) >= -tol
}

func (c Cut) String() string {
	var sb strings.Builder
	term := func(coef float64, name string) {
		if coef == 0 {
			return
		}
		switch {
		case sb.Len() == 0 && coef < 0:
			sb.WriteString("-")
		case sb.Len() == 0:
		case coef < 0:
			sb.WriteString(" - ")
		default:
			sb.WriteString(" + ")
		}
		if abs := math.Abs(coef); abs != 1 {
			fmt.Fprintf(&sb, "%g ", abs)
		}
		sb.WriteString(name)
	}

	term(c.T, "t")
	for i, coef := range c.X {
		term(coef, fmt.Sprintf("x%d", i+1))
	}
	if sb.Len() == 0 {
		sb.WriteString("0")
	}
	fmt.Fprintf(&sb, " <= %g", c.RHS)
	return sb.String()
}

// CutViolation describes a cut that does not hold at a reference point.
type CutViolation struct {
	Index int
	Cut   Cut
	Slack float64
}

// CheckError lists every cut violated by CheckCuts.
type CheckError struct {
	Violations []CutViolation
}

func (e *CheckError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = fmt.Sprintf("cut %d (%s: %s) violated by %g", v.Index, v.Cut.Kind, v.Cut, -v.Slack)
	}
	return "benders: " + strings.Join(parts, "; ")
}

// CheckCuts verifies that every cut holds at (x, t) up to tol. A cut that
// excludes a known feasible point, such as the optimum of the extensive
// form, is unsound. The returned error is a *CheckError.
func CheckCuts(cuts []Cut, x []float64, t, tol float64) error {
	var violations []CutViolation
	for i, c := range cuts {
		if len(c.X) != len(x) {
			return fmt.Errorf("cut %d has %d coefficients, point has %d: %w", i, len(c.X), len(x), ErrDimensionMismatch)
		}
		if s := c.Slack(x, t); s < -tol {
			violations = append(violations, CutViolation{Index: i, Cut: c, Slack: s})
		}
	}
	if len(violations) > 0 {
		return &CheckError{Violations: violations}
	}
	return nil
}

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

	"github.com/costela/benders/golp"
)

// SubproblemStatus is the outcome of one dual subproblem solve.
type SubproblemStatus int

const (
	SubproblemOptimal SubproblemStatus = iota + 1
	// the dual is unbounded: the recourse LP is infeasible at the candidate
	SubproblemUnbounded
	// the dual has no feasible point at all
	SubproblemInfeasible
)

func (s SubproblemStatus) String() string {
	switch s {
	case SubproblemOptimal:
		return "optimal"
	case SubproblemUnbounded:
		return "unbounded"
	case SubproblemInfeasible:
		return "infeasible"
	default:
		return fmt.Sprintf("SubproblemStatus(%d)", int(s))
	}
}

// SubproblemSolution is what Solve reports. Objective and U are only set
// when Status is SubproblemOptimal.
type SubproblemSolution struct {
	Status    SubproblemStatus
	Objective float64
	U         []float64
}

// Subproblem is the dual of the recourse LP,
//
//	minimize  k + dᵗu  subject to  A2ᵗu >= c2,  u >= 0
//
// whose region is fixed by the instance and whose objective (d, k) is set
// anew for every candidate. A second model over the same region,
//
//	minimize  dᵗr  subject to  A2ᵗr >= 0,  Σr <= 1,  r >= 0
//
// recovers a normalized extreme ray when the dual is unbounded.
//
// A Subproblem owns its GLPK models and is not safe for concurrent use.
type Subproblem struct {
	inst *Instance

	dual *golp.Model
	u    []*golp.Variable

	ray *golp.Model
	r   []*golp.Variable

	coefs    []float64
	constant float64
}

// NewSubproblem builds the dual region of inst once.
func NewSubproblem(inst *Instance) (*Subproblem, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	rows, _, n2 := inst.Dims()

	s := &Subproblem{
		inst:  inst,
		dual:  golp.NewModel("benders dual subproblem", golp.Minimize),
		ray:   golp.NewModel("benders dual ray", golp.Minimize),
		coefs: make([]float64, rows),
	}
	// statuses are only reported as such with the presolver off
	s.dual.Presolve = false
	s.ray.Presolve = false

	for i := 0; i < rows; i++ {
		u, err := s.dual.AddDefinedVariable(fmt.Sprintf("u%d", i+1), golp.ContinuousVariable, 0, 0, math.Inf(1))
		if err != nil {
			return nil, err
		}
		s.u = append(s.u, u)

		r, err := s.ray.AddDefinedVariable(fmt.Sprintf("r%d", i+1), golp.ContinuousVariable, 0, 0, math.Inf(1))
		if err != nil {
			return nil, err
		}
		s.r = append(s.r, r)
	}

	col := make([]float64, rows)
	for j := 0; j < n2; j++ {
		a2Column(inst, j, col)
		if err := s.dual.AddConstraint(inst.C2[j], math.Inf(1), s.u, col); err != nil {
			return nil, fmt.Errorf("dual row %d: %w", j+1, err)
		}
		if err := s.ray.AddConstraint(0, math.Inf(1), s.r, col); err != nil {
			return nil, fmt.Errorf("ray row %d: %w", j+1, err)
		}
	}

	ones := make([]float64, rows)
	for i := range ones {
		ones[i] = 1
	}
	if err := s.ray.AddConstraint(math.Inf(-1), 1, s.r, ones); err != nil {
		return nil, fmt.Errorf("ray normalization: %w", err)
	}

	return s, nil
}

// a2Column copies column j of A2 into dst.
func a2Column(inst *Instance, j int, dst []float64) {
	for i := range dst {
		dst[i] = inst.A2.At(i, j)
	}
}

// SetObjective replaces the objective with coefsᵗu + constant. The region
// is left untouched.
func (s *Subproblem) SetObjective(coefs []float64, constant float64) error {
	if len(coefs) != len(s.u) {
		return fmt.Errorf("objective has %d coefficients, want %d: %w", len(coefs), len(s.u), ErrDimensionMismatch)
	}
	copy(s.coefs, coefs)
	s.constant = constant

	if err := s.dual.SetObjectiveFunction(coefs, s.u); err != nil {
		return err
	}
	s.dual.SetObjectiveConstant(constant)
	return s.ray.SetObjectiveFunction(coefs, s.r)
}

// Parameterize sets the objective for candidate x: c1ᵗx + (b - A1x)ᵗu.
func (s *Subproblem) Parameterize(x []float64) error {
	residual, err := s.inst.Residual(x)
	if err != nil {
		return err
	}
	return s.SetObjective(residual, floats.Dot(s.inst.C1, x))
}

// Solve re-optimizes the dual from the previous basis.
func (s *Subproblem) Solve() (SubproblemSolution, error) {
	res, err := s.dual.SolveSimplex()
	if err != nil {
		return SubproblemSolution{}, fmt.Errorf("solving dual subproblem: %w", err)
	}

	switch status := res.Status(); status {
	case golp.SimplexSolutionOptimal:
		return SubproblemSolution{
			Status:    SubproblemOptimal,
			Objective: res.ObjectiveValue(),
			U:         res.Values(),
		}, nil
	case golp.SimplexSolutionUnbounded:
		return SubproblemSolution{Status: SubproblemUnbounded}, nil
	case golp.SimplexNoFeasibleSolution:
		return SubproblemSolution{Status: SubproblemInfeasible}, nil
	default:
		return SubproblemSolution{}, fmt.Errorf("dual subproblem finished as %s: %w", status, golp.ErrSolverFailure)
	}
}

// Ray returns an extreme ray r of the dual region along which the current
// objective decreases, scaled so that Σr = 1.
func (s *Subproblem) Ray() ([]float64, error) {
	res, err := s.ray.SolveSimplex()
	if err != nil {
		return nil, fmt.Errorf("solving ray subproblem: %w", err)
	}
	if status := res.Status(); status != golp.SimplexSolutionOptimal {
		return nil, fmt.Errorf("ray subproblem finished as %s: %w", status, ErrRayNotFound)
	}
	// r = 0 is always feasible, so only a strictly negative optimum is a ray
	if res.ObjectiveValue() >= -rayTolerance {
		return nil, ErrRayNotFound
	}
	return res.Values(), nil
}

const rayTolerance = 1e-7

// String restates the current subproblem.
func (s *Subproblem) String() string {
	var sb strings.Builder
	sb.WriteString("min ")
	for i, c := range s.coefs {
		if i > 0 {
			sb.WriteString(" + ")
		}
		fmt.Fprintf(&sb, "%g u%d", c, i+1)
	}
	fmt.Fprintf(&sb, " + %g", s.constant)

	rows, _, n2 := s.inst.Dims()
	sb.WriteString(" s.t.")
	for j := 0; j < n2; j++ {
		if j > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(" ")
		for i := 0; i < rows; i++ {
			if i > 0 {
				sb.WriteString(" + ")
			}
			fmt.Fprintf(&sb, "%g u%d", s.inst.A2.At(i, j), i+1)
		}
		fmt.Fprintf(&sb, " >= %g", s.inst.C2[j])
	}
	sb.WriteString(", u >= 0")
	return sb.String()
}

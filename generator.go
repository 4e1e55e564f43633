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

	"gonum.org/v1/gonum/floats"

	"github.com/costela/benders/golp"
)

// Iteration records one call of the cut generator.
type Iteration struct {
	Number     int
	X          []float64
	T          float64
	Subproblem string // the subproblem as solved in this call
	Status     SubproblemStatus
	Value      float64 // subproblem objective, if Status is SubproblemOptimal
	Cut        *Cut    // nil when the candidate was accepted
}

func (it Iteration) String() string {
	outcome := "no cut"
	if it.Cut != nil {
		outcome = fmt.Sprintf("%s cut added: %s", it.Cut.Kind, it.Cut)
	}
	result := it.Status.String()
	if it.Status == SubproblemOptimal {
		result = fmt.Sprintf("%s %g", result, it.Value)
	}
	return fmt.Sprintf("iteration %d: x=%v t=%g | %s | %s | %s", it.Number, it.X, it.T, it.Subproblem, result, outcome)
}

// Generator turns master candidates into cuts. It owns the subproblem, the
// call counter and the ordered list of cuts it has emitted; nothing else
// survives between calls.
type Generator struct {
	inst      *Instance
	sub       *Subproblem
	tolerance float64
	logger    Logger

	calls      int
	cuts       []Cut
	iterations []Iteration
}

// NewGenerator builds the subproblem for inst. Only the logger and tolerance
// options apply.
func NewGenerator(inst *Instance, opts ...Option) (*Generator, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}
	return newGenerator(inst, o)
}

func newGenerator(inst *Instance, o options) (*Generator, error) {
	sub, err := NewSubproblem(inst)
	if err != nil {
		return nil, err
	}
	return &Generator{
		inst:      inst,
		sub:       sub,
		tolerance: o.tolerance,
		logger:    o.logger,
	}, nil
}

// Evaluate decides whether candidate (x, t) needs a cut. It returns a
// feasibility cut if the recourse LP is infeasible at x, an optimality cut
// if its value falls short of t by more than the tolerance, and nil
// otherwise.
func (g *Generator) Evaluate(x []float64, t float64) (*Cut, error) {
	g.calls++
	it := Iteration{
		Number: g.calls,
		X:      append([]float64(nil), x...),
		T:      t,
	}

	cut, err := g.evaluate(&it)
	if err != nil {
		g.logger.Print(fmt.Sprintf("iteration %d: x=%v t=%g | %v", it.Number, it.X, it.T, err))
		return nil, err
	}

	if cut != nil {
		cut.Iteration = it.Number
		g.cuts = append(g.cuts, *cut)
	}
	it.Cut = cut
	g.iterations = append(g.iterations, it)
	g.logger.Print(it.String())

	return cut, nil
}

func (g *Generator) evaluate(it *Iteration) (*Cut, error) {
	if err := g.sub.Parameterize(it.X); err != nil {
		return nil, err
	}
	it.Subproblem = g.sub.String()

	sol, err := g.sub.Solve()
	if err != nil {
		return nil, err
	}
	it.Status = sol.Status

	switch sol.Status {
	case SubproblemUnbounded:
		ray, err := g.sub.Ray()
		if err != nil {
			return nil, err
		}
		cut := newFeasibilityCut(g.inst, ray)
		return &cut, nil
	case SubproblemOptimal:
		it.Value = sol.Objective
		if sol.Objective < it.T && !floats.EqualWithinAbs(sol.Objective, it.T, g.tolerance) {
			cut := newOptimalityCut(g.inst, sol.U)
			return &cut, nil
		}
		return nil, nil
	case SubproblemInfeasible:
		return nil, ErrUnboundedRecourse
	default:
		return nil, fmt.Errorf("unexpected subproblem status %s", sol.Status)
	}
}

// value returns the objective c1ᵗx + c2ᵗy of x with the best recourse y,
// without counting a call or emitting a cut.
func (g *Generator) value(x []float64) (float64, error) {
	if err := g.sub.Parameterize(x); err != nil {
		return 0, err
	}
	sol, err := g.sub.Solve()
	if err != nil {
		return 0, err
	}
	if sol.Status != SubproblemOptimal {
		return 0, fmt.Errorf("subproblem at x=%v is %s: %w", x, sol.Status, golp.ErrSolverFailure)
	}
	return sol.Objective, nil
}

// Calls returns how many candidates have been evaluated.
func (g *Generator) Calls() int {
	return g.calls
}

// Cuts returns the emitted cuts in order.
func (g *Generator) Cuts() []Cut {
	return append([]Cut(nil), g.cuts...)
}

// Iterations returns the trace of all successful calls.
func (g *Generator) Iterations() []Iteration {
	return append([]Iteration(nil), g.iterations...)
}

// violated returns the first emitted cut that (x, t) violates.
func (g *Generator) violated(x []float64, t float64) (Cut, bool) {
	for _, c := range g.cuts {
		if !c.Holds(x, t, g.tolerance) {
			return c, true
		}
	}
	return Cut{}, false
}

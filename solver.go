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
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/costela/benders/golp"
)

// ErrStalled is returned when a cut added at a candidate did not move the
// master away from it, which would otherwise loop forever.
var ErrStalled = errors.New("benders: cut did not cut off the candidate")

// Status is the terminal state of a solve.
type Status int

const (
	StatusUndefined Status = iota
	StatusOptimal
	// an incumbent exists but optimality was not proven
	StatusFeasible
	StatusInfeasible
	StatusUnbounded
)

func (s Status) String() string {
	switch s {
	case StatusUndefined:
		return "undefined"
	case StatusOptimal:
		return "optimal"
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result describes a finished decomposition. X and T are only meaningful
// with StatusOptimal or StatusFeasible.
type Result struct {
	Status     Status
	X          []float64
	T          float64
	Cuts       []Cut       // every cut emitted, in order
	Iterations []Iteration // one record per generator call
	Calls      int         // generator calls
	Reimposed  int         // pooled cuts added again at a later candidate
}

// Solver runs the decomposition for one instance. Every Solve builds fresh
// models, so a Solver may be reused and repeated runs are independent.
type Solver struct {
	inst *Instance
	opts options
}

// NewSolver validates inst and applies opts.
func NewSolver(inst *Instance, opts ...Option) (*Solver, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}
	return &Solver{inst: inst, opts: o}, nil
}

// Solve runs branch-and-bound on the master to completion.
func (s *Solver) Solve() (*Result, error) {
	return s.SolveWithContext(context.Background())
}

// SolveWithContext is Solve with cancellation. If the time limit expires
// with an incumbent, the result (StatusFeasible) is returned together with
// golp.ErrTimeLimit. If the objective bound is still binding at the end,
// the result is StatusFeasible, T is the true objective value of X, and
// the error is ErrObjectiveBound.
func (s *Solver) SolveWithContext(ctx context.Context) (*Result, error) {
	gen, err := newGenerator(s.inst, s.opts)
	if err != nil {
		return nil, err
	}
	m, err := newMaster(s.inst, gen, s.opts)
	if err != nil {
		return nil, err
	}

	res, solveErr := m.model.SolveBranchCutWithContext(ctx, m)

	result := &Result{
		Cuts:       gen.Cuts(),
		Iterations: gen.Iterations(),
		Calls:      gen.Calls(),
		Reimposed:  m.reimposed,
	}

	if res == nil {
		if !errors.Is(solveErr, ErrUnboundedRecourse) {
			return nil, fmt.Errorf("solving master: %w", solveErr)
		}
		// no cut can describe the recourse: the problem is unbounded if it
		// has any feasible point at all
		if result.Status, err = feasibilityStatus(s.inst); err != nil {
			return nil, err
		}
		return result, nil
	}

	result.Status = statusOf(res.Status())

	if result.Status == StatusOptimal || result.Status == StatusFeasible {
		result.X = make([]float64, len(m.x))
		for i, v := range m.x {
			result.X[i] = res.Value(v)
		}
		result.T = res.Value(m.t)

		if s.boundBinding(result.T) {
			result.Status = StatusFeasible
			if result.T, err = gen.value(result.X); err != nil {
				return nil, err
			}
			if solveErr == nil {
				solveErr = ErrObjectiveBound
			}
		}
	}

	if solveErr != nil {
		return result, fmt.Errorf("solving master: %w", solveErr)
	}
	return result, nil
}

// boundBinding reports whether t sits at the objective bound, in which case
// the subproblem value at the incumbent may be anything above it.
func (s *Solver) boundBinding(t float64) bool {
	bound := s.opts.objectiveBound
	if math.IsInf(bound, 1) {
		return false
	}
	return bound-t <= s.opts.tolerance*math.Max(1, math.Abs(bound))
}

func statusOf(s golp.BranchCutStatus) Status {
	switch s {
	case golp.BranchCutSolutionOptimal:
		return StatusOptimal
	case golp.BranchCutSolutionFeasible:
		return StatusFeasible
	case golp.BranchCutNoFeasibleSolution:
		return StatusInfeasible
	case golp.BranchCutRelaxationUnbounded:
		return StatusUnbounded
	default:
		return StatusUndefined
	}
}

// feasibilityStatus tells an unbounded problem from an infeasible one by
// looking for any point of A1 x + A2 y <= b with x integer, x, y >= 0.
func feasibilityStatus(inst *Instance) (Status, error) {
	rows, n1, n2 := inst.Dims()

	model := golp.NewModel("benders feasibility", golp.Maximize)
	cols := make([]*golp.Variable, 0, n1+n2)
	for j := 0; j < n1; j++ {
		v, err := model.AddDefinedVariable(fmt.Sprintf("x%d", j+1), golp.IntegerVariable, 0, 0, math.Inf(1))
		if err != nil {
			return StatusUndefined, err
		}
		cols = append(cols, v)
	}
	for k := 0; k < n2; k++ {
		v, err := model.AddDefinedVariable(fmt.Sprintf("y%d", k+1), golp.ContinuousVariable, 0, 0, math.Inf(1))
		if err != nil {
			return StatusUndefined, err
		}
		cols = append(cols, v)
	}

	coefs := make([]float64, n1+n2)
	for i := 0; i < rows; i++ {
		for j := 0; j < n1; j++ {
			coefs[j] = inst.A1.At(i, j)
		}
		for k := 0; k < n2; k++ {
			coefs[n1+k] = inst.A2.At(i, k)
		}
		if err := model.AddConstraint(math.Inf(-1), inst.B[i], cols, coefs); err != nil {
			return StatusUndefined, fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	res, err := model.SolveBranchCut()
	switch {
	case errors.Is(err, golp.ErrNoPrimalFeasible):
		return StatusInfeasible, nil
	case err != nil:
		return StatusUndefined, fmt.Errorf("checking feasibility: %w", err)
	}

	switch res.Status() {
	case golp.BranchCutSolutionOptimal, golp.BranchCutSolutionFeasible:
		return StatusUnbounded, nil
	case golp.BranchCutNoFeasibleSolution:
		return StatusInfeasible, nil
	default:
		return StatusUndefined, fmt.Errorf("feasibility check finished as %s: %w", res.Status(), golp.ErrSolverFailure)
	}
}

// master is the row generator registered with GLPK. Before asking the
// generator, it re-imposes any emitted cut the candidate violates, so cuts
// accumulate even where the solver scopes lazy rows to a subtree.
type master struct {
	model *golp.Model
	x     []*golp.Variable
	t     *golp.Variable
	cols  []*golp.Variable // x followed by t

	gen        *Generator
	fractional bool
	reimposed  int

	stall stallGuard
}

// a candidate may legitimately come back once, in a subtree that does not
// carry the cut yet; more than that means the cut has no effect
const maxRepeats = 3

func newMaster(inst *Instance, gen *Generator, o options) (*master, error) {
	_, n1, _ := inst.Dims()

	model := golp.NewModel("benders master", golp.Maximize)
	model.Branching = o.branching
	model.Backtracking = o.backtracking
	model.TimeLimit = o.timeLimit

	m := &master{
		model:      model,
		gen:        gen,
		fractional: o.fractional,
	}

	for j := 0; j < n1; j++ {
		v, err := model.AddDefinedVariable(fmt.Sprintf("x%d", j+1), golp.IntegerVariable, 0, 0, math.Inf(1))
		if err != nil {
			return nil, err
		}
		m.x = append(m.x, v)
	}

	t, err := model.AddDefinedVariable("t", golp.ContinuousVariable, 1, math.Inf(-1), math.Inf(1))
	if err != nil {
		return nil, err
	}
	m.t = t
	m.cols = append(append([]*golp.Variable(nil), m.x...), t)

	if err := model.AddConstraint(math.Inf(-1), o.objectiveBound, []*golp.Variable{t}, []float64{1}); err != nil {
		return nil, fmt.Errorf("objective bound: %w", err)
	}

	return m, nil
}

// GenerateRows evaluates one candidate of the master search.
func (m *master) GenerateRows(c *golp.Candidate) error {
	x := make([]float64, len(m.x))
	for i, v := range m.x {
		x[i] = c.Value(v)
	}
	t := c.Value(m.t)

	point := append(append([]float64(nil), x...), t)
	if err := m.stall.visit(point); err != nil {
		return fmt.Errorf("at x=%v t=%g: %w", x, t, err)
	}

	if cut, ok := m.gen.violated(x, t); ok {
		m.reimposed++
		m.gen.logger.Print(fmt.Sprintf("re-imposing cut from iteration %d: %s", cut.Iteration, cut))
		return m.add(c, cut, point)
	}

	if !c.Integral() && !m.fractional {
		return nil
	}

	cut, err := m.gen.Evaluate(x, t)
	if err != nil || cut == nil {
		return err
	}
	return m.add(c, *cut, point)
}

func (m *master) add(c *golp.Candidate, cut Cut, point []float64) error {
	coefs := append(append([]float64(nil), cut.X...), cut.T)
	if err := c.AddConstraint(math.Inf(-1), cut.RHS, m.cols, coefs); err != nil {
		return fmt.Errorf("adding %s cut: %w", cut.Kind, err)
	}
	m.stall.cutAt(point)
	return nil
}

// stallGuard notices a candidate that keeps coming back right after a cut
// was added at it.
type stallGuard struct {
	last    []float64 // candidate at which the previous cut was added
	repeats int
}

// visit is called for every candidate before any cut is added.
func (g *stallGuard) visit(point []float64) error {
	if g.last != nil && floats.EqualApprox(point, g.last, 1e-12) {
		g.repeats++
		if g.repeats >= maxRepeats {
			return ErrStalled
		}
	} else {
		g.repeats = 0
	}
	g.last = nil
	return nil
}

func (g *stallGuard) cutAt(point []float64) {
	g.last = point
}

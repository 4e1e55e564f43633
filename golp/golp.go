/*
Copyright © 2015 Leo Antunes <leo@costela.net>

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

/*
Package golp wraps the GLPK solver for the models the Benders driver needs:
LP subproblems solved with the simplex method and a MIP master solved with
branch-and-cut, where a RowGenerator may add lazy constraints whenever the
solver reaches a new LP optimum.

	model := golp.NewModel("master", golp.Maximize)
	x, _ := model.AddDefinedVariable("x", golp.IntegerVariable, 1, 0, 10)

	res, err := model.SolveBranchCutWithContext(ctx, golp.RowGeneratorFunc(func(c *golp.Candidate) error {
		if c.Value(x) > 3 {
			return c.AddConstraint(math.Inf(-1), 3, []*golp.Variable{x}, []float64{1})
		}
		return nil
	}))
*/
package golp

// #cgo LDFLAGS: -lglpk
// #include <glpk.h>
// #include <stdlib.h>
import "C"
import (
	"fmt"
	"math"
	"runtime"
	"time"
	"unsafe"
)

/* Types */

type Model struct {
	prob *C.glp_prob
	vars []*Variable

	Verbose      bool
	Presolve     bool
	Branching    Branching
	Backtracking Backtracking
	TimeLimit    time.Duration // zero means no limit
}

type Direction C.int

const (
	Minimize = Direction(C.GLP_MIN)
	Maximize = Direction(C.GLP_MAX)
)

/* Model related functions */

// NewModel instantiates an empty GLPK problem with the given name and
// optimization direction.
func NewModel(name string, dir Direction) *Model {
	prob := C.glp_create_prob()
	c_name := C.CString(name)
	defer C.free(unsafe.Pointer(c_name))
	C.glp_set_prob_name(prob, c_name)
	C.glp_set_obj_dir(prob, C.int(dir))

	model := &Model{
		prob:         prob,
		Presolve:     true,
		Branching:    BranchDriebeckTomlin,
		Backtracking: BacktrackBestLocal,
	}

	// plug the underlying C library's destructors to the instance of Model,
	// otherwise we get a memory-leak of the underlying struct
	runtime.SetFinalizer(model, finalizeModel)

	return model
}

func finalizeModel(model *Model) {
	C.glp_delete_prob(model.prob)
}

func (model *Model) Name() string {
	return C.GoString(C.glp_get_prob_name(model.prob))
}

func (model *Model) SetDirection(dir Direction) {
	C.glp_set_obj_dir(model.prob, C.int(dir))
}

func (model *Model) Direction() Direction {
	return Direction(C.glp_get_obj_dir(model.prob))
}

// SetObjectiveConstant sets the constant term of the objective function.
func (model *Model) SetObjectiveConstant(c float64) {
	C.glp_set_obj_coef(model.prob, 0, C.double(c))
}

func (model *Model) ObjectiveConstant() float64 {
	return float64(C.glp_get_obj_coef(model.prob, 0))
}

// SetObjectiveFunction sets the objective coefficients of vars, leaving all
// other coefficients untouched.
func (model *Model) SetObjectiveFunction(coefs []float64, vars []*Variable) error {
	if len(vars) != len(coefs) {
		return fmt.Errorf("inconsistent number of variables and coefficients: %d != %d", len(vars), len(coefs))
	}
	for i, v := range vars {
		v.SetObjectiveCoefficient(coefs[i])
	}
	return nil
}

/* Column-related functions */

func (model *Model) VariableCount() int {
	return int(C.glp_get_num_cols(model.prob))
}

func (model *Model) Variables() []*Variable {
	return model.vars
}

// AddVariable adds a variable to the linear programming model.
// A freshly instantiated variable has the default type of
// ContinuousVariable, no bounds and a coefficient of 1.
func (model *Model) AddVariable(name string) (v *Variable, err error) {
	return model.AddDefinedVariable(name, ContinuousVariable, 1, math.Inf(-1), math.Inf(1))
}

// AddBinaryVariable is a convenience function for adding a single
// named binary variable to the model, with a default coefficient of 1.
func (model *Model) AddBinaryVariable(name string) (v *Variable, err error) {
	return model.AddDefinedVariable(name, BinaryVariable, 1, 0, 1)
}

// AddIntegerVariable is a convenience function for adding a single
// named unbounded integer variable to the model, with a default
// coefficient of 1.
func (model *Model) AddIntegerVariable(name string) (v *Variable, err error) {
	return model.AddDefinedVariable(name, IntegerVariable, 1, math.Inf(-1), math.Inf(1))
}

// AddDefinedVariable add a variable to the linear programming model
// with its attributes passed as arguments.
// If varType is BinaryVariable, the bounds are ignored.
func (model *Model) AddDefinedVariable(name string, varType VariableType, coefficient, lowerBound, upperBound float64) (v *Variable, err error) {
	if ret := C.glp_add_cols(model.prob, 1); ret < 1 {
		return nil, fmt.Errorf("could not add column to model")
	}
	v = &Variable{model: model, index: len(model.vars)}
	model.vars = append(model.vars, v)

	if name == "" {
		name = fmt.Sprintf("V%d", v.index)
	}
	c_name := C.CString(name)
	defer C.free(unsafe.Pointer(c_name))
	C.glp_set_col_name(model.prob, C.int(v.index+1), c_name)

	v.SetType(varType)
	v.SetObjectiveCoefficient(coefficient)
	if varType != BinaryVariable {
		v.SetBounds(lowerBound, upperBound)
	}

	return v, nil
}

/* Constraint-related functions */

func (model *Model) ConstraintCount() int {
	return int(C.glp_get_num_rows(model.prob))
}

// AddConstraint appends the row lower <= coefs·vars <= upper. Infinite
// bounds leave that side open. The row is written to the constraint matrix
// right away, so it is also safe to call from inside a RowGenerator.
func (model *Model) AddConstraint(lower, upper float64, vars []*Variable, coefs []float64) error {
	if len(vars) != len(coefs) {
		return fmt.Errorf("inconsistent number of variables and coefficients: %d != %d", len(vars), len(coefs))
	}

	// glpk indices start at 1; index 0 is ignored
	ind := make([]C.int, len(vars)+1)
	val := make([]C.double, len(vars)+1)
	for i, v := range vars {
		if v.model != model {
			return fmt.Errorf("variable %q belongs to a different model", v.Name())
		}
		ind[i+1] = C.int(v.index + 1)
		val[i+1] = C.double(coefs[i])
	}

	row := C.glp_add_rows(model.prob, 1)
	if row < 1 {
		return fmt.Errorf("could not add row to model")
	}
	setRowBounds(model.prob, row, lower, upper)
	C.glp_set_mat_row(model.prob, row, C.int(len(vars)), &ind[0], &val[0])

	return nil
}

func setRowBounds(prob *C.glp_prob, row C.int, lower, upper float64) {
	kind, lb, ub := glpkBounds(lower, upper)
	C.glp_set_row_bnds(prob, row, kind, lb, ub)
}

/* Errors */

type SolveError C.int

const (
	ErrInvalidBasis     = SolveError(C.GLP_EBADB)
	ErrSingularBasis    = SolveError(C.GLP_ESING)
	ErrIllConditioned   = SolveError(C.GLP_ECOND)
	ErrBadBounds        = SolveError(C.GLP_EBOUND)
	ErrSolverFailure    = SolveError(C.GLP_EFAIL)
	ErrIterationLimit   = SolveError(C.GLP_EITLIM)
	ErrTimeLimit        = SolveError(C.GLP_ETMLIM)
	ErrRootRelaxation   = SolveError(C.GLP_EROOT)
	ErrNoPrimalFeasible = SolveError(C.GLP_ENOPFS)
	ErrNoDualFeasible   = SolveError(C.GLP_ENODFS)
	ErrMIPGap           = SolveError(C.GLP_EMIPGAP)
	ErrStopped          = SolveError(C.GLP_ESTOP)
)

// Error returns a string representation of the given error value.
func (e SolveError) Error() string {
	switch e {
	case ErrInvalidBasis:
		return "initial basis invalid"
	case ErrSingularBasis:
		return "initial basis is exactly singular"
	case ErrIllConditioned:
		return "initial basis is ill-conditioned"
	case ErrBadBounds:
		return "double-bounded (auxiliary or structural) variables has incorrect bounds"
	case ErrSolverFailure:
		return "solver failure"
	case ErrIterationLimit:
		return "simplex iteration limit exceeded"
	case ErrTimeLimit:
		return "time limit exceeded"
	case ErrRootRelaxation:
		return "optimal basis for initial LP relaxation not provided and presolver not used"
	case ErrNoPrimalFeasible:
		return "LP relaxation has no primal feasible solution"
	case ErrNoDualFeasible:
		return "LP relaxation has no dual feasible solution"
	case ErrMIPGap:
		return "MIP gap tolerance reached"
	case ErrStopped:
		return "search terminated by callback"
	default:
		return fmt.Sprintf("unknown glpk error: %d", int(e))
	}
}

func glpkError(ret C.int) error {
	if ret == 0 {
		return nil
	}
	return SolveError(ret)
}

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

package golp

// #cgo LDFLAGS: -lglpk
// #include <glpk.h>
// #include <stdlib.h>
import "C"

type SimplexResult struct {
	model *Model
}

type SimplexStatus C.int

const (
	SimplexSolutionOptimal    = SimplexStatus(C.GLP_OPT)
	SimplexSolutionFeasible   = SimplexStatus(C.GLP_FEAS)
	SimplexSolutionInfeasible = SimplexStatus(C.GLP_INFEAS)
	SimplexNoFeasibleSolution = SimplexStatus(C.GLP_NOFEAS)
	SimplexSolutionUnbounded  = SimplexStatus(C.GLP_UNBND)
	SimplexSolutionUndefined  = SimplexStatus(C.GLP_UNDEF)
)

func (s SimplexStatus) String() string {
	switch s {
	case SimplexSolutionOptimal:
		return "optimal"
	case SimplexSolutionFeasible:
		return "feasible"
	case SimplexSolutionInfeasible:
		return "infeasible"
	case SimplexNoFeasibleSolution:
		return "no feasible solution"
	case SimplexSolutionUnbounded:
		return "unbounded"
	case SimplexSolutionUndefined:
		return "undefined"
	default:
		return "unknown"
	}
}

// SolveSimplex solves the linear programming model using the
// primal simplex algorithm.
//
// With Presolve disabled an infeasible or unbounded model is not an
// error: the returned result reports it through Status. With Presolve
// enabled GLPK reports those cases as ErrNoPrimalFeasible or
// ErrNoDualFeasible instead.
func (model *Model) SolveSimplex() (res *SimplexResult, err error) {
	return model.solveSimplex(C.GLP_PRIMAL, model.Presolve)
}

// SolveSimplexDual solves the linear programming model using the
// dual simplex algorithm.
func (model *Model) SolveSimplexDual() (res *SimplexResult, err error) {
	return model.solveSimplex(C.GLP_DUALP, model.Presolve)
}

func (model *Model) solveSimplex(method C.int, presolve bool) (result *SimplexResult, err error) {
	var parm C.glp_smcp
	C.glp_init_smcp(&parm)
	parm.meth = method

	if model.Verbose {
		parm.msg_lev = C.GLP_MSG_ON
	} else {
		parm.msg_lev = C.GLP_MSG_OFF
	}

	if presolve {
		parm.presolve = C.GLP_ON
	} else {
		parm.presolve = C.GLP_OFF
	}

	if model.TimeLimit > 0 {
		parm.tm_lim = C.int(model.TimeLimit.Milliseconds())
	}

	if err := glpkError(C.glp_simplex(model.prob, &parm)); err != nil {
		return nil, err
	}
	return &SimplexResult{model: model}, nil
}

/* Result-related functions */

func (res SimplexResult) Status() SimplexStatus {
	return SimplexStatus(C.glp_get_status(res.model.prob))
}

func (res SimplexResult) Value(v *Variable) float64 {
	return res.PrimalValue(v)
}

func (res SimplexResult) PrimalValue(v *Variable) float64 {
	return float64(C.glp_get_col_prim(res.model.prob, C.int(v.index+1)))
}

// DualValue returns the reduced cost of the given variable.
func (res SimplexResult) DualValue(v *Variable) float64 {
	return float64(C.glp_get_col_dual(res.model.prob, C.int(v.index+1)))
}

// RowDualValue returns the dual value of the i-th constraint, counting
// from zero in the order constraints were added.
func (res SimplexResult) RowDualValue(i int) float64 {
	return float64(C.glp_get_row_dual(res.model.prob, C.int(i+1)))
}

// Values returns the primal values of all variables in column order.
func (res SimplexResult) Values() []float64 {
	values := make([]float64, len(res.model.vars))
	for i, v := range res.model.vars {
		values[i] = res.PrimalValue(v)
	}
	return values
}

func (res SimplexResult) ObjectiveValue() float64 {
	return float64(C.glp_get_obj_val(res.model.prob))
}

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

package lpsolve

// #cgo CFLAGS: -I/usr/include/lpsolve/
// #cgo linux LDFLAGS: -llpsolve55 -lm -ldl -lcolamd
// #cgo darwin LDFLAGS: -L/usr/local/lib -llpsolve55
// #cgo darwin CFLAGS: -I/usr/local/include
// #include <lp_lib.h>
// #include <stdlib.h>
import "C"

import "unsafe"

/* Types */

// SolveResult is a snapshot of a successful solve; later changes to the
// model do not affect it.
type SolveResult struct {
	status    SolveStatus
	objective float64
	values    []float64
}

type SolveStatus C.int

const (
	SolutionOptimal    = SolveStatus(C.OPTIMAL)
	SolutionSuboptimal = SolveStatus(C.SUBOPTIMAL)
)

type SolveError C.int

const (
	ErrBranchCutBreak   = SolveError(C.PROCBREAK)
	ErrBranchCutFail    = SolveError(C.PROCFAIL)
	ErrFeasibleFound    = SolveError(C.FEASFOUND)
	ErrModelDegenerate  = SolveError(C.DEGENERATE)
	ErrModelInfeasible  = SolveError(C.INFEASIBLE)
	ErrModelUnbounded   = SolveError(C.UNBOUNDED)
	ErrNoFeasibleFound  = SolveError(C.NOFEASFOUND)
	ErrNoMemory         = SolveError(C.NOMEMORY)
	ErrNumericalFailure = SolveError(C.NUMFAILURE)
	ErrPresolved        = SolveError(C.PRESOLVED) // should not be seen: presolve is never enabled
	ErrTimeout          = SolveError(C.TIMEOUT)
	ErrUserAbort        = SolveError(C.USERABORT)
)

// Error returns a string representation of the given error value.
func (e SolveError) Error() string {
	switch e {
	case ErrBranchCutBreak:
		return "branch-and-cut stopped at breakpoint"
	case ErrBranchCutFail:
		return "branch-and-cut failure"
	case ErrFeasibleFound:
		return "feasible but non-integer solution found"
	case ErrModelDegenerate:
		return "model is degenerate"
	case ErrModelInfeasible:
		return "model is infeasible"
	case ErrModelUnbounded:
		return "model is unbounded"
	case ErrNoFeasibleFound:
		return "no feasible solution found"
	case ErrNoMemory:
		return "ran out of memory while solving"
	case ErrNumericalFailure:
		return "numerical failure while solving"
	case ErrPresolved:
		return "model was presolved"
	case ErrTimeout:
		return "timeout occurred before any integer solution could be found"
	case ErrUserAbort:
		return "aborted by user abort function"
	default:
		return "unrecognized lp_solve error"
	}
}

// newSolveResult copies the solution out of the solver. The caller must hold
// the model's lock.
func newSolveResult(model *Model, status SolveStatus) *SolveResult {
	res := &SolveResult{
		status:    status,
		objective: float64(C.get_objective(model.prob)),
		values:    make([]float64, len(model.vars)),
	}

	if len(res.values) > 0 {
		var ptr *C.REAL
		if C.get_ptr_variables(model.prob, &ptr) == C.TRUE && ptr != nil {
			cols := unsafe.Slice(ptr, len(res.values))
			for i := range res.values {
				res.values[i] = float64(cols[i])
			}
		}
	}

	return res
}

// Status reports if the solution is optimal (SolutionOptimal) or
// not (SolutionSuboptimal)
func (res SolveResult) Status() SolveStatus {
	return res.status
}

// Value returns the computed value of the given variable for this
// optimization result.
func (res SolveResult) Value(v *Variable) float64 {
	return res.values[v.index]
}

// Values returns the computed values of all variables in column order.
func (res SolveResult) Values() []float64 {
	return append([]float64(nil), res.values...)
}

// ObjectiveValue returns the value of the objective function for
// this optimization result. This value is only optimal if Status
// also returns SolutionOptimal.
func (res SolveResult) ObjectiveValue() float64 {
	return res.objective
}

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
/*
// https://golang.org/issue/19837
extern void rowgenCallback(glp_tree *T, void *info);
*/
import "C"

import (
	"context"
	"errors"
	"unsafe"

	"github.com/costela/benders/internal/cref"
)

type BranchCutResult struct {
	model  *Model
	status BranchCutStatus
}

type BranchCutStatus C.int

const (
	BranchCutSolutionOptimal    = BranchCutStatus(C.GLP_OPT)
	BranchCutSolutionFeasible   = BranchCutStatus(C.GLP_FEAS)
	BranchCutNoFeasibleSolution = BranchCutStatus(C.GLP_NOFEAS)
	BranchCutSolutionUndefined  = BranchCutStatus(C.GLP_UNDEF)
	// only reported when the LP relaxation of the root is unbounded
	BranchCutRelaxationUnbounded = BranchCutStatus(C.GLP_UNBND)
)

func (s BranchCutStatus) String() string {
	switch s {
	case BranchCutSolutionOptimal:
		return "optimal"
	case BranchCutSolutionFeasible:
		return "feasible"
	case BranchCutNoFeasibleSolution:
		return "no feasible solution"
	case BranchCutSolutionUndefined:
		return "undefined"
	case BranchCutRelaxationUnbounded:
		return "relaxation unbounded"
	default:
		return "unknown"
	}
}

// Branching selects the variable GLPK branches on.
type Branching C.int

const (
	BranchFirstFractional  = Branching(C.GLP_BR_FFV)
	BranchLastFractional   = Branching(C.GLP_BR_LFV)
	BranchMostFractional   = Branching(C.GLP_BR_MFV)
	BranchDriebeckTomlin   = Branching(C.GLP_BR_DTH)
	BranchHybridPseudoCost = Branching(C.GLP_BR_PCH)
)

// Backtracking selects the next node GLPK explores.
type Backtracking C.int

const (
	BacktrackDepthFirst     = Backtracking(C.GLP_BT_DFS)
	BacktrackBreadthFirst   = Backtracking(C.GLP_BT_BFS)
	BacktrackBestLocal      = Backtracking(C.GLP_BT_BLB)
	BacktrackBestProjection = Backtracking(C.GLP_BT_BPH)
)

// SolveBranchCut solves the linear programming model using the
// branch-and-cut algorithm. Better suited for mixed-integer linear
// programs, i.e.: problems with integer and/or binary variables.
func (model *Model) SolveBranchCut() (result *BranchCutResult, err error) {
	return model.SolveBranchCutWithContext(context.Background(), nil)
}

// SolveBranchCutWithContext runs branch-and-cut, handing every LP optimum
// found during the search to gen (which may be nil). See RowGenerator.
//
// A registered generator disables the MIP presolver, so that the problem
// seen by the generator is the model itself; the root relaxation is then
// solved with the primal simplex first. If that relaxation is infeasible
// or unbounded, the result reports BranchCutNoFeasibleSolution or
// BranchCutRelaxationUnbounded without entering the search.
//
// If ctx is cancelled or gen fails, the search stops and that error is
// returned. On ErrTimeLimit and ErrMIPGap the result is returned along
// with the error, since it may hold an incumbent (BranchCutSolutionFeasible).
func (model *Model) SolveBranchCutWithContext(ctx context.Context, gen RowGenerator) (result *BranchCutResult, err error) {
	result = &BranchCutResult{model: model}

	presolve := model.Presolve && gen == nil
	if !presolve {
		relaxation, err := model.solveSimplex(C.GLP_PRIMAL, false)
		if err != nil {
			return nil, err
		}
		switch relaxation.Status() {
		case SimplexSolutionOptimal:
		case SimplexNoFeasibleSolution, SimplexSolutionInfeasible:
			result.status = BranchCutNoFeasibleSolution
			return result, nil
		case SimplexSolutionUnbounded:
			result.status = BranchCutRelaxationUnbounded
			return result, nil
		default:
			result.status = BranchCutSolutionUndefined
			return result, nil
		}
	}

	var parm C.glp_iocp
	C.glp_init_iocp(&parm)

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

	if gen != nil {
		// incumbents found by rounding would never be shown to gen
		parm.sr_heur = C.GLP_OFF
		parm.fp_heur = C.GLP_OFF
		parm.ps_heur = C.GLP_OFF
	}

	parm.br_tech = C.int(model.Branching)
	parm.bt_tech = C.int(model.Backtracking)
	if model.TimeLimit > 0 {
		parm.tm_lim = C.int(model.TimeLimit.Milliseconds())
	}

	sess := &branchCutSession{ctx: ctx, model: model, gen: gen}
	info := cref.Save(sess)
	defer cref.Release(info)

	parm.cb_func = (*[0]byte)(unsafe.Pointer(C.rowgenCallback))
	parm.cb_info = info

	ret := glpkError(C.glp_intopt(model.prob, &parm))
	if sess.err != nil {
		return nil, sess.err
	}

	result.status = BranchCutStatus(C.glp_mip_status(model.prob))

	switch {
	case ret == nil:
		return result, nil
	case errors.Is(ret, ErrTimeLimit), errors.Is(ret, ErrMIPGap):
		return result, ret
	default:
		return nil, ret
	}
}

/* Result-related functions */

func (res BranchCutResult) Status() BranchCutStatus {
	return res.status
}

func (res BranchCutResult) Value(v *Variable) float64 {
	return float64(C.glp_mip_col_val(res.model.prob, C.int(v.index+1)))
}

// Values returns the incumbent's values of all variables in column order.
func (res BranchCutResult) Values() []float64 {
	values := make([]float64, len(res.model.vars))
	for i, v := range res.model.vars {
		values[i] = res.Value(v)
	}
	return values
}

func (res BranchCutResult) ObjectiveValue() float64 {
	return float64(C.glp_mip_obj_val(res.model.prob))
}

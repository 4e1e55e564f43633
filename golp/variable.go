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

package golp

// #cgo LDFLAGS: -lglpk
// #include <glpk.h>
import "C"

import (
	"math"
)

// Variable is a column of a Model. It stays valid for the lifetime of the
// model and must only be passed back to methods of that model, its results
// and the candidates of its branch-and-cut searches.
type Variable struct {
	model *Model
	index int
}

// VariableType is the kind of a column: continuous, general integer or
// binary.
type VariableType C.int

const (
	ContinuousVariable = VariableType(C.GLP_CV)
	IntegerVariable    = VariableType(C.GLP_IV)
	BinaryVariable     = VariableType(C.GLP_BV)
)

// col is the column number as GLPK counts them.
func (v *Variable) col() C.int {
	return C.int(v.index + 1)
}

func (v *Variable) Name() string {
	return C.GoString(C.glp_get_col_name(v.model.prob, v.col()))
}

// Index is the position of v in Model.Variables and in the Values slices of
// results and candidates.
func (v *Variable) Index() int {
	return v.index
}

// IsInteger reports whether branch-and-cut treats v as integral; candidates
// use it to decide Candidate.Integral.
func (v *Variable) IsInteger() bool {
	return v.Type() != ContinuousVariable
}

// SetType changes the column kind. Switching to BinaryVariable also resets
// the bounds to [0, 1].
func (v *Variable) SetType(vartype VariableType) {
	C.glp_set_col_kind(v.model.prob, v.col(), C.int(vartype))
}

func (v *Variable) Type() VariableType {
	return VariableType(C.glp_get_col_kind(v.model.prob, v.col()))
}

// SetBounds restricts v to [lower, upper]. An infinite value of either sign
// leaves that side open, so math.Inf(1) works as a lower bound of "none".
func (v *Variable) SetBounds(lower, upper float64) {
	kind, lb, ub := glpkBounds(lower, upper)
	C.glp_set_col_bnds(v.model.prob, v.col(), kind, lb, ub)
}

// Bounds returns the bounds as set, with infinities for open sides.
func (v *Variable) Bounds() (lower, upper float64) {
	return goBounds(
		C.glp_get_col_type(v.model.prob, v.col()),
		C.glp_get_col_lb(v.model.prob, v.col()),
		C.glp_get_col_ub(v.model.prob, v.col()),
	)
}

// SetObjectiveCoefficient changes the cost of v. Between two SolveSimplex
// calls the basis is kept, so the next solve starts warm.
func (v *Variable) SetObjectiveCoefficient(coef float64) {
	C.glp_set_obj_coef(v.model.prob, v.col(), C.double(coef))
}

func (v *Variable) ObjectiveCoefficient() float64 {
	return float64(C.glp_get_obj_coef(v.model.prob, v.col()))
}

// glpkBounds encodes a Go interval as a GLPK bound type and the two values
// glp_set_col_bnds and glp_set_row_bnds expect. Unused values are zero.
func glpkBounds(lower, upper float64) (kind C.int, lb, ub C.double) {
	switch {
	case math.IsInf(lower, 0) && math.IsInf(upper, 0):
		return C.GLP_FR, 0, 0
	case math.IsInf(lower, 0):
		return C.GLP_UP, 0, C.double(upper)
	case math.IsInf(upper, 0):
		return C.GLP_LO, C.double(lower), 0
	case upper == lower:
		return C.GLP_FX, C.double(lower), C.double(upper)
	default:
		return C.GLP_DB, C.double(lower), C.double(upper)
	}
}

// goBounds is the inverse of glpkBounds.
func goBounds(kind C.int, lb, ub C.double) (lower, upper float64) {
	lower, upper = math.Inf(-1), math.Inf(1)
	switch kind {
	case C.GLP_UP:
		upper = float64(ub)
	case C.GLP_LO:
		lower = float64(lb)
	case C.GLP_FX:
		// GLPK only keeps lb for fixed columns
		lower, upper = float64(lb), float64(lb)
	case C.GLP_DB:
		lower, upper = float64(lb), float64(ub)
	}
	return lower, upper
}

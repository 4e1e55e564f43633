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
import "C"

import (
	"context"
	"math"
	"unsafe"

	"github.com/costela/benders/internal/cref"
)

// same as GLPK's default tol_int
const integralityTolerance = 1e-5

// RowGenerator is called synchronously by the branch-and-cut search each
// time an LP relaxation has been solved to optimality and its objective is
// better than the incumbent. It may add lazy constraints through
// Candidate.AddConstraint; if it adds any, the LP is re-optimized and the
// generator is called again. If it adds none, the search carries on, and an
// integral candidate becomes the new incumbent.
//
// A non-nil error stops the search and is returned by
// SolveBranchCutWithContext.
type RowGenerator interface {
	GenerateRows(c *Candidate) error
}

// RowGeneratorFunc adapts a plain function to RowGenerator.
type RowGeneratorFunc func(c *Candidate) error

func (f RowGeneratorFunc) GenerateRows(c *Candidate) error {
	return f(c)
}

// Candidate is the optimal LP solution of the current branch-and-bound
// node. It is only valid during the GenerateRows call it was passed to.
type Candidate struct {
	model     *Model
	values    []float64
	objective float64
	integral  bool
	added     int
}

// Value returns the node LP value of v.
func (c *Candidate) Value(v *Variable) float64 {
	return c.values[v.index]
}

// Values returns the node LP values of all variables in column order. The
// slice belongs to the caller.
func (c *Candidate) Values() []float64 {
	return append([]float64(nil), c.values...)
}

func (c *Candidate) ObjectiveValue() float64 {
	return c.objective
}

// Integral reports whether every integer column holds an integral value.
func (c *Candidate) Integral() bool {
	return c.integral
}

// AddConstraint adds a lazy row to the model being solved.
func (c *Candidate) AddConstraint(lower, upper float64, vars []*Variable, coefs []float64) error {
	if err := c.model.AddConstraint(lower, upper, vars, coefs); err != nil {
		return err
	}
	c.added++
	return nil
}

// Added returns the number of rows added through this candidate.
func (c *Candidate) Added() int {
	return c.added
}

func (model *Model) candidate() *Candidate {
	c := &Candidate{
		model:     model,
		values:    make([]float64, len(model.vars)),
		objective: float64(C.glp_get_obj_val(model.prob)),
		integral:  true,
	}
	for i, v := range model.vars {
		val := float64(C.glp_get_col_prim(model.prob, C.int(i+1)))
		c.values[i] = val
		if v.IsInteger() && math.Abs(val-math.Round(val)) > integralityTolerance {
			c.integral = false
		}
	}
	return c
}

type branchCutSession struct {
	ctx   context.Context
	model *Model
	gen   RowGenerator
	err   error
}

func (s *branchCutSession) stop(tree *C.glp_tree, err error) {
	s.err = err
	C.glp_ios_terminate(tree)
}

//export rowgenCallback
func rowgenCallback(tree *C.glp_tree, info unsafe.Pointer) {
	s, ok := cref.Load(info).(*branchCutSession)
	if !ok || s.err != nil {
		return
	}

	if err := s.ctx.Err(); err != nil {
		s.stop(tree, err)
		return
	}

	if s.gen == nil || C.glp_ios_reason(tree) != C.GLP_IROWGEN {
		return
	}

	// the MIP presolver is off whenever a generator is registered, so the
	// tree works on the model's own problem object
	if err := s.gen.GenerateRows(s.model.candidate()); err != nil {
		s.stop(tree, err)
		return
	}

	if err := s.ctx.Err(); err != nil {
		s.stop(tree, err)
	}
}

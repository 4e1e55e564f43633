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

/*
Package lpsolve is a binding to lp_solve 5.5, used to solve mixed-integer
models in one piece.

	model, _ := lpsolve.NewModel("extensive", lpsolve.Maximize, lpsolve.WithLogger(logger))
	x, _ := model.AddVariable("x", lpsolve.IntegerVariable, 1, 0, math.Inf(1))
	y, _ := model.AddVariable("y", lpsolve.ContinuousVariable, 2, 0, math.Inf(1))
	model.AddConstraint(math.Inf(-1), 4, []*lpsolve.Variable{x, y}, []float64{1, 1})

	res, err := model.SolveWithContext(ctx)
*/
package lpsolve

// #cgo CFLAGS: -I/usr/include/lpsolve/
// #cgo linux LDFLAGS: -llpsolve55 -lm -ldl -lcolamd
// #cgo darwin LDFLAGS: -L/usr/local/lib -llpsolve55
// #cgo darwin CFLAGS: -I/usr/local/include
// #include <lp_lib.h>
// #include <stdlib.h>
/*
// https://golang.org/issue/19837
extern int abortCallback(lprec *lp, void *userhandle);
extern void logCallback(lprec *lp, void *userhandle, char *buf);
*/
import "C"

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"
	"unsafe"

	"github.com/costela/benders/internal/cref"
)

/* Types */

type Model struct {
	mu     sync.RWMutex
	prob   *C.lprec
	vars   []*Variable
	logger Logger
	logRef unsafe.Pointer
}

type direction C.uchar

const (
	Minimize = direction(C.FALSE)
	Maximize = direction(C.TRUE)
)

/* Model related functions */

// NewModel instantiates a new model, providing a name (purely
// informational) and an optimization direction (either Minimize or
// Maximize).
func NewModel(name string, dir direction, opts ...Option) (*Model, error) {
	prob := C.make_lp(0, 0)
	if prob == nil {
		return nil, fmt.Errorf("could not allocate lp_solve model")
	}

	c_name := C.CString(name)
	defer C.free(unsafe.Pointer(c_name))

	C.set_lp_name(prob, c_name)
	C.set_sense(prob, C.uchar(dir))

	model := &Model{
		prob:   prob,
		logger: noopLogger{},
	}

	for _, opt := range opts {
		if err := opt(model); err != nil {
			C.delete_lp(prob)
			return nil, fmt.Errorf("applying model option: %w", err)
		}
	}

	// disable stdout logging and redirect to our own logger; the handle
	// refers to the logger only, so the model itself stays collectable
	model.logRef = cref.Save(model.logger)
	C.put_logfunc(model.prob, (*C.lphandlestr_func)(C.logCallback), model.logRef)
	empty := C.CString("")
	defer C.free(unsafe.Pointer(empty))
	C.set_outputfile(model.prob, empty)

	// plug the underlying C library's destructors to the instance of Model,
	// otherwise we get a memory-leak of the underlying struct
	runtime.SetFinalizer(model, finalizeModel)

	return model, nil
}

//export logCallback
func logCallback(prob *C.lprec, loggerPtr unsafe.Pointer, msg *C.char) {
	logger, ok := cref.Load(loggerPtr).(Logger)
	if !ok {
		return
	}

	logger.Print(C.GoString(msg))
}

// finalizeModel is the function registered to be called upon garbage-
// collection of the model value
func finalizeModel(model *Model) {
	C.delete_lp(model.prob)
	cref.Release(model.logRef)
}

// Name returns the name provided upon instantiation of a model
func (model *Model) Name() string {
	model.mu.RLock()
	defer model.mu.RUnlock()

	return C.GoString(C.get_lp_name(model.prob))
}

// Direction returns the model's current optimization direction
func (model *Model) Direction() direction {
	model.mu.RLock()
	defer model.mu.RUnlock()

	if C.is_maxim(model.prob) == C.TRUE {
		return Maximize
	}
	return Minimize
}

/* Column-related functions */

func (model *Model) VariableCount() int {
	model.mu.RLock()
	defer model.mu.RUnlock()

	return int(C.get_Ncolumns(model.prob))
}

// AddVariable adds a column with the given kind, objective coefficient and
// bounds. Empty names are replaced by a unique name.
//
// A variable is bound to its model. Attempting to use a variable
// created in one model for fetching solutions from a different model
// results in undefined behaviour.
func (model *Model) AddVariable(name string, kind VariableKind, coefficient, lower, upper float64) (*Variable, error) {
	model.mu.Lock()
	defer model.mu.Unlock()

	v := &Variable{model: model, index: len(model.vars)}

	// the new column is not used by any existing constraint
	if C.add_columnex(model.prob, 0, nil, nil) != C.TRUE {
		return nil, fmt.Errorf("could not add column %d", v.index)
	}
	model.vars = append(model.vars, v)

	if name == "" {
		name = fmt.Sprintf("C%d", v.index)
	}
	c_name := C.CString(name)
	defer C.free(unsafe.Pointer(c_name))

	col := C.int(v.index + 1)
	C.set_col_name(model.prob, col, c_name)
	C.set_obj(model.prob, col, C.REAL(coefficient))

	switch kind {
	case BinaryVariable:
		C.set_binary(model.prob, col, C.TRUE)
	case IntegerVariable:
		C.set_int(model.prob, col, C.TRUE)
		C.set_bounds(model.prob, col, C.REAL(lower), C.REAL(upper))
	default:
		C.set_bounds(model.prob, col, C.REAL(lower), C.REAL(upper))
	}

	return v, nil
}

/* Constraint-related functions */

// ConstraintCount returns the number of individual constraints in
// the model
func (model *Model) ConstraintCount() int {
	model.mu.RLock()
	defer model.mu.RUnlock()

	return int(C.get_Nrows(model.prob))
}

// AddConstraint adds a constraint to the model as a lower and an upper
// bounds, a slice of variables and a slice of their respective
// coefficients. A range with two finite, distinct bounds becomes two rows.
func (model *Model) AddConstraint(lower, upper float64, vars []*Variable, coefs []float64) error {
	if len(vars) != len(coefs) {
		return fmt.Errorf("inconsistent number of variables and coefficients: %d != %d", len(vars), len(coefs))
	}
	if len(vars) == 0 {
		return fmt.Errorf("constraint without variables")
	}

	model.mu.Lock()
	defer model.mu.Unlock()

	row := make([]C.REAL, len(vars))
	colno := make([]C.int, len(vars))
	for i, v := range vars {
		colno[i] = C.int(v.index + 1)
		row[i] = C.REAL(coefs[i])
	}

	add := func(kind C.int, rhs float64) {
		C.add_constraintex(model.prob, C.int(len(vars)), &row[0], &colno[0], kind, C.REAL(rhs))
	}

	switch {
	case math.IsInf(lower, 0) && math.IsInf(upper, 0):
		// no constraints
	case math.IsInf(lower, 0):
		add(C.LE, upper)
	case math.IsInf(upper, 0):
		add(C.GE, lower)
	case upper == lower:
		add(C.EQ, upper)
	default:
		add(C.LE, upper)
		add(C.GE, lower)
	}

	return nil
}

// Solve attempts to find an optimal solution to the model.
// Information about the solution can be queried from the returned
// SolveResult value.
func (model *Model) Solve() (res *SolveResult, err error) {
	model.mu.Lock()
	defer model.mu.Unlock()

	ret := C.solve(model.prob)

	switch ret {
	case C.OPTIMAL, C.SUBOPTIMAL:
		return newSolveResult(model, SolveStatus(ret)), nil
	case C.INFEASIBLE, C.UNBOUNDED, C.DEGENERATE, C.NUMFAILURE,
		C.USERABORT, C.TIMEOUT, C.PROCFAIL, C.PROCBREAK, C.FEASFOUND,
		C.NOFEASFOUND, C.NOMEMORY, C.PRESOLVED:
		return nil, SolveError(ret)
	default:
		return nil, fmt.Errorf("unrecognized lp_solve result %d", int(ret))
	}
}

//export abortCallback
func abortCallback(prob *C.lprec, ctxPtr unsafe.Pointer) C.int {
	ctx, ok := cref.Load(ctxPtr).(context.Context)
	if ok && ctx.Err() != nil {
		return C.TRUE
	}

	return C.FALSE
}

// SolveWithContext wraps Solve() with a context. If the context is cancelled or times out, the solution search will be
// aborted and the context error will be returned.
func (model *Model) SolveWithContext(ctx context.Context) (res *SolveResult, err error) {
	ref := cref.Save(ctx)
	defer cref.Release(ref)

	C.put_abortfunc(model.prob, (*C.lphandle_intfunc)(C.abortCallback), ref)
	defer C.put_abortfunc(model.prob, nil, nil)

	res, err = model.Solve()

	if errors.Is(err, ErrUserAbort) {
		return res, ctx.Err()
	}

	return res, err
}

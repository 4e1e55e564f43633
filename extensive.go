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

	"github.com/costela/benders/lpsolve"
)

// ExtensiveResult is the solution of the undecomposed problem. X, Y and
// Objective are only set with StatusOptimal.
type ExtensiveResult struct {
	Status    Status
	X         []float64
	Y         []float64
	Objective float64
}

// SolveExtensive solves inst as a single MIP with lp_solve. Only the logger
// option applies; lp_solve's own messages are passed to it.
func SolveExtensive(ctx context.Context, inst *Instance, opts ...Option) (*ExtensiveResult, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}

	model, err := lpsolve.NewModel("benders extensive form", lpsolve.Maximize, lpsolve.WithLogger(o.logger))
	if err != nil {
		return nil, err
	}

	rows, n1, n2 := inst.Dims()
	x := make([]*lpsolve.Variable, n1)
	y := make([]*lpsolve.Variable, n2)
	for j := range x {
		if x[j], err = model.AddVariable(fmt.Sprintf("x%d", j+1), lpsolve.IntegerVariable, inst.C1[j], 0, math.Inf(1)); err != nil {
			return nil, err
		}
	}
	for k := range y {
		if y[k], err = model.AddVariable(fmt.Sprintf("y%d", k+1), lpsolve.ContinuousVariable, inst.C2[k], 0, math.Inf(1)); err != nil {
			return nil, err
		}
	}

	cols := append(append([]*lpsolve.Variable(nil), x...), y...)
	coefs := make([]float64, n1+n2)
	for i := 0; i < rows; i++ {
		for j := 0; j < n1; j++ {
			coefs[j] = inst.A1.At(i, j)
		}
		for k := 0; k < n2; k++ {
			coefs[n1+k] = inst.A2.At(i, k)
		}
		if err := model.AddConstraint(math.Inf(-1), inst.B[i], cols, coefs); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	res, err := model.SolveWithContext(ctx)
	switch {
	case errors.Is(err, lpsolve.ErrModelInfeasible):
		return &ExtensiveResult{Status: StatusInfeasible}, nil
	case errors.Is(err, lpsolve.ErrModelUnbounded):
		return &ExtensiveResult{Status: StatusUnbounded}, nil
	case err != nil:
		return nil, fmt.Errorf("solving extensive form: %w", err)
	}

	out := &ExtensiveResult{
		Status: StatusOptimal,
		X:      make([]float64, n1),
		Y:      make([]float64, n2),
	}
	if res.Status() != lpsolve.SolutionOptimal {
		out.Status = StatusFeasible
	}
	for j, v := range x {
		out.X[j] = res.Value(v)
	}
	for k, v := range y {
		out.Y[k] = res.Value(v)
	}
	out.Objective = inst.objective(out.X, out.Y)

	return out, nil
}

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
	"gonum.org/v1/gonum/mat"
)

// Instance holds the constant data of a problem
//
//	maximize c1ᵗx + c2ᵗy  s.t.  A1 x + A2 y <= b,  x >= 0 integer,  y >= 0
//
// An Instance is never modified after construction and may be shared by any
// number of solvers.
type Instance struct {
	C1 []float64  // objective of the integer part, one per column of A1
	C2 []float64  // objective of the continuous part, one per column of A2
	B  []float64  // right-hand side, one per row
	A1 *mat.Dense // rows × len(C1)
	A2 *mat.Dense // rows × len(C2)
}

// NewInstance builds an instance from row-major coefficient slices.
func NewInstance(c1, c2, b []float64, a1, a2 [][]float64) (*Instance, error) {
	dense := func(name string, rows [][]float64, cols int) (*mat.Dense, error) {
		if len(rows) == 0 || cols == 0 {
			return nil, fmt.Errorf("%s: %w", name, ErrEmptyInstance)
		}
		data := make([]float64, 0, len(rows)*cols)
		for i, row := range rows {
			if len(row) != cols {
				return nil, fmt.Errorf("%s row %d has %d entries, want %d: %w", name, i, len(row), cols, ErrDimensionMismatch)
			}
			data = append(data, row...)
		}
		return mat.NewDense(len(rows), cols, data), nil
	}

	a1m, err := dense("A1", a1, len(c1))
	if err != nil {
		return nil, err
	}
	a2m, err := dense("A2", a2, len(c2))
	if err != nil {
		return nil, err
	}

	inst := &Instance{
		C1: append([]float64(nil), c1...),
		C2: append([]float64(nil), c2...),
		B:  append([]float64(nil), b...),
		A1: a1m,
		A2: a2m,
	}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

// ExampleInstance returns the small two-by-two instance whose optimum is
// t = -4 at x = (0, 1).
func ExampleInstance() *Instance {
	inst, err := NewInstance(
		[]float64{-1, -4},
		[]float64{-2, -3},
		[]float64{-2, -3},
		[][]float64{{1, -3}, {-1, -3}},
		[][]float64{{1, -2}, {-1, -1}},
	)
	if err != nil {
		panic(err)
	}
	return inst
}

// Validate checks that all parts of the instance agree on dimensions.
func (inst *Instance) Validate() error {
	if inst.A1 == nil || inst.A2 == nil {
		return ErrEmptyInstance
	}
	r1, n1 := inst.A1.Dims()
	r2, n2 := inst.A2.Dims()
	switch {
	case r1 == 0 || n1 == 0 || n2 == 0:
		return ErrEmptyInstance
	case r1 != r2:
		return fmt.Errorf("A1 has %d rows, A2 has %d: %w", r1, r2, ErrDimensionMismatch)
	case len(inst.B) != r1:
		return fmt.Errorf("b has %d entries, want %d: %w", len(inst.B), r1, ErrDimensionMismatch)
	case len(inst.C1) != n1:
		return fmt.Errorf("c1 has %d entries, want %d: %w", len(inst.C1), n1, ErrDimensionMismatch)
	case len(inst.C2) != n2:
		return fmt.Errorf("c2 has %d entries, want %d: %w", len(inst.C2), n2, ErrDimensionMismatch)
	}
	return nil
}

// Dims returns the number of rows, integer columns and continuous columns.
func (inst *Instance) Dims() (rows, n1, n2 int) {
	rows, n1 = inst.A1.Dims()
	_, n2 = inst.A2.Dims()
	return rows, n1, n2
}

// Residual returns b - A1 x, the right-hand side left for the continuous
// part once x is fixed.
func (inst *Instance) Residual(x []float64) ([]float64, error) {
	rows, n1, _ := inst.Dims()
	if len(x) != n1 {
		return nil, fmt.Errorf("candidate has %d entries, want %d: %w", len(x), n1, ErrDimensionMismatch)
	}
	r := mat.NewVecDense(rows, nil)
	r.MulVec(inst.A1, mat.NewVecDense(n1, append([]float64(nil), x...)))
	r.SubVec(mat.NewVecDense(rows, append([]float64(nil), inst.B...)), r)
	return r.RawVector().Data, nil
}

// transposeA1 returns A1ᵗu.
func (inst *Instance) transposeA1(u []float64) []float64 {
	rows, n1, _ := inst.Dims()
	v := mat.NewVecDense(n1, nil)
	v.MulVec(inst.A1.T(), mat.NewVecDense(rows, append([]float64(nil), u...)))
	return v.RawVector().Data
}

// objective returns c1ᵗx + c2ᵗy.
func (inst *Instance) objective(x, y []float64) float64 {
	return floats.Dot(inst.C1, x) + floats.Dot(inst.C2, y)
}

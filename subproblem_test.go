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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// referenceDual solves the dual subproblem at x with gonum's simplex, in
// standard form: minimize (b - A1x)ᵗu s.t. -A2ᵗu + s = -c2, u, s >= 0. It
// only works where -c2 >= 0, as for the example instance.
func referenceDual(t *testing.T, inst *Instance, x []float64) float64 {
	rows, _, n2 := inst.Dims()

	residual, err := inst.Residual(x)
	require.NoError(t, err)

	c := make([]float64, rows+n2)
	copy(c, residual)

	a := mat.NewDense(n2, rows+n2, nil)
	b := make([]float64, n2)
	for j := 0; j < n2; j++ {
		for i := 0; i < rows; i++ {
			a.Set(j, i, -inst.A2.At(i, j))
		}
		a.Set(j, rows+j, 1)
		b[j] = -inst.C2[j]
	}

	opt, _, err := lp.Simplex(c, a, b, 1e-10, nil)
	require.NoError(t, err)
	return opt + floats.Dot(inst.C1, x)
}

func TestSubproblemFirstCandidate(t *testing.T) {
	sub, err := NewSubproblem(ExampleInstance())
	require.NoError(t, err)

	require.NoError(t, sub.Parameterize([]float64{0, 0}))
	sol, err := sub.Solve()
	require.NoError(t, err)

	assert.Equal(t, SubproblemOptimal, sol.Status)
	assert.InDelta(t, -23.0/3, sol.Objective, delta)
	assert.InDeltaSlice(t, []float64{1.0 / 3, 7.0 / 3}, sol.U, delta)
}

func TestSubproblemMatchesReference(t *testing.T) {
	inst := ExampleInstance()
	sub, err := NewSubproblem(inst)
	require.NoError(t, err)

	// reparameterizing in sequence exercises the warm start
	for _, x := range [][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}, {0, 2}, {2, 3}, {0, 0}} {
		t.Run(fmt.Sprint(x), func(t *testing.T) {
			require.NoError(t, sub.Parameterize(x))
			sol, err := sub.Solve()
			require.NoError(t, err)
			require.Equal(t, SubproblemOptimal, sol.Status)

			assert.InDelta(t, referenceDual(t, inst, x), sol.Objective, delta)
		})
	}
}

func TestSubproblemBestCandidate(t *testing.T) {
	inst := ExampleInstance()
	sub, err := NewSubproblem(inst)
	require.NoError(t, err)

	require.NoError(t, sub.Parameterize([]float64{0, 1}))
	sol, err := sub.Solve()
	require.NoError(t, err)
	assert.InDelta(t, -4.0, sol.Objective, delta)
}

func TestSubproblemUnboundedAndRay(t *testing.T) {
	sub, err := NewSubproblem(engineeredInstance(t, 2))
	require.NoError(t, err)

	require.NoError(t, sub.Parameterize([]float64{3}))
	sol, err := sub.Solve()
	require.NoError(t, err)
	assert.Equal(t, SubproblemUnbounded, sol.Status)
	assert.Nil(t, sol.U)

	ray, err := sub.Ray()
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1}, ray, delta)

	// back inside the feasible range the dual is bounded again
	require.NoError(t, sub.Parameterize([]float64{1}))
	sol, err = sub.Solve()
	require.NoError(t, err)
	assert.Equal(t, SubproblemOptimal, sol.Status)
	assert.InDelta(t, 2.0, sol.Objective, delta)
}

func TestSubproblemRayNotFound(t *testing.T) {
	sub, err := NewSubproblem(engineeredInstance(t, 2))
	require.NoError(t, err)

	require.NoError(t, sub.Parameterize([]float64{1}))
	_, err = sub.Ray()
	assert.ErrorIs(t, err, ErrRayNotFound)
}

func TestSubproblemInfeasible(t *testing.T) {
	sub, err := NewSubproblem(unboundedRecourseInstance(t))
	require.NoError(t, err)

	require.NoError(t, sub.Parameterize([]float64{0}))
	sol, err := sub.Solve()
	require.NoError(t, err)
	assert.Equal(t, SubproblemInfeasible, sol.Status)
}

func TestSubproblemSetObjective(t *testing.T) {
	sub, err := NewSubproblem(ExampleInstance())
	require.NoError(t, err)

	assert.ErrorIs(t, sub.SetObjective([]float64{1}, 0), ErrDimensionMismatch)
	assert.ErrorIs(t, sub.Parameterize([]float64{1, 2, 3}), ErrDimensionMismatch)

	// maximize 2u1 + 3u2 over the region, shifted by 10
	require.NoError(t, sub.SetObjective([]float64{-2, -3}, 10))
	sol, err := sub.Solve()
	require.NoError(t, err)
	assert.InDelta(t, 10-23.0/3, sol.Objective, delta)
}

func TestSubproblemString(t *testing.T) {
	sub, err := NewSubproblem(ExampleInstance())
	require.NoError(t, err)
	require.NoError(t, sub.Parameterize([]float64{0, 1}))

	s := sub.String()
	assert.Contains(t, s, "min 1 u1 + 0 u2 + -4")
	assert.Contains(t, s, "1 u1 + -1 u2 >= -2")
	assert.Contains(t, s, "-2 u1 + -1 u2 >= -3")
	assert.Contains(t, s, "u >= 0")
}

func TestSubproblemStatusString(t *testing.T) {
	assert.Equal(t, "optimal", SubproblemOptimal.String())
	assert.Equal(t, "unbounded", SubproblemUnbounded.String())
	assert.Equal(t, "infeasible", SubproblemInfeasible.String())
}

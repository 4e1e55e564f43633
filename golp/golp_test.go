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

import (
	"context"
	"errors"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	delta = 0.0000001 // acceptable numerical deviation for test results
)

func TestInstantiation(t *testing.T) {
	name := "test model 1"
	model := NewModel(name, Maximize)

	assert.Equal(t, name, model.Name())
	assert.Equal(t, Maximize, model.Direction())
}

func TestAddVariableWithDetails(t *testing.T) {
	model := NewModel("test", Maximize)

	v1, err := model.AddDefinedVariable("x", BinaryVariable, 3.1416, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, "x", v1.Name())
	assert.Equal(t, BinaryVariable, v1.Type())
	assert.Equal(t, 3.1416, v1.ObjectiveCoefficient())
	l, h := v1.Bounds()
	assert.Equal(t, 0.0, l)
	assert.Equal(t, 1.0, h)

	v2, err := model.AddDefinedVariable("y", ContinuousVariable, -1, math.Inf(-1), 5)
	require.NoError(t, err)
	assert.Equal(t, "y", v2.Name())
	assert.Equal(t, ContinuousVariable, v2.Type())
	assert.Equal(t, -1.0, v2.ObjectiveCoefficient())
	l, h = v2.Bounds()
	assert.Equal(t, math.Inf(-1), l)
	assert.Equal(t, 5.0, h)

	assert.Equal(t, 2, model.VariableCount())
	assert.Equal(t, 1, v2.Index())
}

func TestAddConstraintRejectsMismatch(t *testing.T) {
	model := NewModel("test", Maximize)
	x, _ := model.AddVariable("x")

	err := model.AddConstraint(0, 1, []*Variable{x}, []float64{1, 2})
	assert.Error(t, err)
	assert.Equal(t, 0, model.ConstraintCount())

	other := NewModel("other", Maximize)
	y, _ := other.AddVariable("y")
	err = model.AddConstraint(0, 1, []*Variable{y}, []float64{1})
	assert.Error(t, err)
}

func TestSolveBranchCut(t *testing.T) {
	model := NewModel("test", Maximize)
	x1, _ := model.AddDefinedVariable("x1", ContinuousVariable, 1, 0, 40)
	x2, _ := model.AddDefinedVariable("x2", ContinuousVariable, 2, 0, math.Inf(1))
	x3, _ := model.AddDefinedVariable("x3", ContinuousVariable, 3, 0, math.Inf(1))
	x4, _ := model.AddDefinedVariable("x4", IntegerVariable, 1, 2, 3)

	require.NoError(t, model.AddConstraint(0, 20, []*Variable{x1, x2, x3, x4}, []float64{-1, 1, 1, 10}))
	require.NoError(t, model.AddConstraint(0, 30, []*Variable{x1, x2, x3}, []float64{1, -3, 1}))
	require.NoError(t, model.AddConstraint(0, 0, []*Variable{x2, x4}, []float64{1, -3.5}))

	res, err := model.SolveBranchCut()
	require.NoError(t, err)

	expected_xs := []float64{40, 10.5, 19.5, 3}
	expected_obj := 122.5

	assert.Equal(t, BranchCutSolutionOptimal, res.Status())
	assert.InDelta(t, expected_obj, res.ObjectiveValue(), delta)
	for i, x := range []*Variable{x1, x2, x3, x4} {
		assert.InDelta(t, expected_xs[i], res.Value(x), delta, "value of %s", x.Name())
	}
}

func TestSolveSimplex(t *testing.T) {
	model := NewModel("test", Maximize)
	x1, _ := model.AddDefinedVariable("x1", ContinuousVariable, 1, 0, math.Inf(1))
	x2, _ := model.AddDefinedVariable("x2", ContinuousVariable, 2, 0, math.Inf(1))
	x3, _ := model.AddDefinedVariable("x3", ContinuousVariable, -1, 0, math.Inf(1))

	require.NoError(t, model.AddConstraint(0, 14, []*Variable{x1, x2, x3}, []float64{2, 1, 1}))
	require.NoError(t, model.AddConstraint(0, 28, []*Variable{x1, x2, x3}, []float64{4, 2, 3}))
	require.NoError(t, model.AddConstraint(0, 30, []*Variable{x1, x2, x3}, []float64{2, 5, 5}))

	res, err := model.SolveSimplex()
	require.NoError(t, err)

	expected_xs := []float64{5, 4, 0}
	expected_obj := 13.0

	assert.Equal(t, SimplexSolutionOptimal, res.Status())
	assert.InDelta(t, expected_obj, res.ObjectiveValue(), delta)
	assert.InDeltaSlice(t, expected_xs, res.Values(), delta)
}

func TestSolveSimplexReportsStatusWithoutPresolve(t *testing.T) {
	model := NewModel("unbounded", Minimize)
	model.Presolve = false
	x, _ := model.AddDefinedVariable("x", ContinuousVariable, -1, 0, math.Inf(1))
	require.NoError(t, model.AddConstraint(0, math.Inf(1), []*Variable{x}, []float64{1}))

	res, err := model.SolveSimplex()
	require.NoError(t, err)
	assert.Equal(t, SimplexSolutionUnbounded, res.Status())

	// same region, made empty
	require.NoError(t, model.AddConstraint(math.Inf(-1), -1, []*Variable{x}, []float64{1}))
	res, err = model.SolveSimplex()
	require.NoError(t, err)
	assert.Equal(t, SimplexNoFeasibleSolution, res.Status())
}

func TestObjectiveConstantAndMutation(t *testing.T) {
	model := NewModel("test", Minimize)
	model.Presolve = false
	u, _ := model.AddDefinedVariable("u", ContinuousVariable, 1, 0, 4)
	model.SetObjectiveConstant(10)
	assert.Equal(t, 10.0, model.ObjectiveConstant())

	res, err := model.SolveSimplex()
	require.NoError(t, err)
	assert.InDelta(t, 10, res.ObjectiveValue(), delta)

	require.NoError(t, model.SetObjectiveFunction([]float64{-2}, []*Variable{u}))
	res, err = model.SolveSimplex()
	require.NoError(t, err)
	assert.InDelta(t, 2, res.ObjectiveValue(), delta)
	assert.InDelta(t, 4, res.Value(u), delta)
}

func TestSimplexDualValues(t *testing.T) {
	model := NewModel("duals", Maximize)
	model.Presolve = false
	x, _ := model.AddDefinedVariable("x", ContinuousVariable, 2, 0, math.Inf(1))
	y, _ := model.AddDefinedVariable("y", ContinuousVariable, 3, 0, 3)
	require.NoError(t, model.AddConstraint(math.Inf(-1), 4, []*Variable{x, y}, []float64{1, 1}))
	assert.Equal(t, []*Variable{x, y}, model.Variables())

	for name, solve := range map[string]func() (*SimplexResult, error){
		"primal": model.SolveSimplex,
		"dual":   model.SolveSimplexDual,
	} {
		t.Run(name, func(t *testing.T) {
			res, err := solve()
			require.NoError(t, err)
			assert.Equal(t, SimplexSolutionOptimal, res.Status())
			assert.InDelta(t, 11, res.ObjectiveValue(), delta)
			assert.InDeltaSlice(t, []float64{1, 3}, res.Values(), delta)
			assert.InDelta(t, 2, res.RowDualValue(0), delta)
			assert.InDelta(t, 0, res.DualValue(x), delta)
			assert.InDelta(t, 1, res.DualValue(y), delta)
		})
	}

	y.SetBounds(0, 1)
	res, err := model.SolveSimplex()
	require.NoError(t, err)
	assert.InDelta(t, 9, res.ObjectiveValue(), delta)

	model.SetDirection(Minimize)
	assert.Equal(t, Minimize, model.Direction())
	res, err = model.SolveSimplex()
	require.NoError(t, err)
	assert.InDelta(t, 0, res.ObjectiveValue(), delta)

	y.SetType(IntegerVariable)
	assert.True(t, y.IsInteger())
	assert.False(t, x.IsInteger())
}

func lazyCapModel(t *testing.T) (*Model, *Variable) {
	t.Helper()

	model := NewModel("lazy", Maximize)
	x, err := model.AddDefinedVariable("x", IntegerVariable, 2, 0, 10)
	require.NoError(t, err)
	y, err := model.AddDefinedVariable("y", IntegerVariable, 1, 0, 10)
	require.NoError(t, err)
	require.NoError(t, model.AddConstraint(math.Inf(-1), 12, []*Variable{x, y}, []float64{1, 1}))

	return model, x
}

func TestRowGeneratorAddsLazyConstraints(t *testing.T) {
	model, x := lazyCapModel(t)

	calls := 0
	res, err := model.SolveBranchCutWithContext(context.Background(), RowGeneratorFunc(func(c *Candidate) error {
		calls++
		if c.Value(x) > 3+delta {
			if err := c.AddConstraint(math.Inf(-1), 3, []*Variable{x}, []float64{1}); err != nil {
				return err
			}
			assert.Equal(t, 1, c.Added())
		}
		return nil
	}))
	require.NoError(t, err)

	assert.Equal(t, BranchCutSolutionOptimal, res.Status())
	assert.InDelta(t, 15, res.ObjectiveValue(), delta)
	assert.InDelta(t, 3, res.Value(x), delta)
	assert.GreaterOrEqual(t, calls, 2)
	assert.Equal(t, 2, model.ConstraintCount())
}

func TestRowGeneratorSeesIntegrality(t *testing.T) {
	model := NewModel("fractional", Maximize)
	x, _ := model.AddDefinedVariable("x", IntegerVariable, 1, 0, math.Inf(1))
	y, _ := model.AddDefinedVariable("y", IntegerVariable, 1, 0, math.Inf(1))
	require.NoError(t, model.AddConstraint(math.Inf(-1), 5, []*Variable{x, y}, []float64{2, 2}))

	fractional, integral := 0, 0
	res, err := model.SolveBranchCutWithContext(context.Background(), RowGeneratorFunc(func(c *Candidate) error {
		if c.Integral() {
			integral++
		} else {
			fractional++
		}
		return nil
	}))
	require.NoError(t, err)

	assert.InDelta(t, 2, res.ObjectiveValue(), delta)
	assert.InDelta(t, 2, res.Value(x)+res.Value(y), delta)
	assert.Positive(t, fractional, "the root relaxation has x+y=2.5")
	assert.Positive(t, integral, "incumbents are always offered to the generator")
}

func TestRowGeneratorErrorStopsSearch(t *testing.T) {
	model, _ := lazyCapModel(t)
	boom := errors.New("boom")

	res, err := model.SolveBranchCutWithContext(context.Background(), RowGeneratorFunc(func(c *Candidate) error {
		return boom
	}))
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, res)
}

func TestRowGeneratorContextCancel(t *testing.T) {
	model, _ := lazyCapModel(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := model.SolveBranchCutWithContext(ctx, RowGeneratorFunc(func(c *Candidate) error {
		cancel()
		return nil
	}))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBranchCutRelaxationStatus(t *testing.T) {
	noop := RowGeneratorFunc(func(*Candidate) error { return nil })

	unbounded := NewModel("unbounded", Maximize)
	x, _ := unbounded.AddDefinedVariable("x", IntegerVariable, 1, 0, math.Inf(1))
	require.NoError(t, unbounded.AddConstraint(0, math.Inf(1), []*Variable{x}, []float64{1}))
	res, err := unbounded.SolveBranchCutWithContext(context.Background(), noop)
	require.NoError(t, err)
	assert.Equal(t, BranchCutRelaxationUnbounded, res.Status())

	infeasible := NewModel("infeasible", Maximize)
	y, _ := infeasible.AddDefinedVariable("y", IntegerVariable, 1, 0, math.Inf(1))
	require.NoError(t, infeasible.AddConstraint(math.Inf(-1), -1, []*Variable{y}, []float64{1}))
	res, err = infeasible.SolveBranchCutWithContext(context.Background(), noop)
	require.NoError(t, err)
	assert.Equal(t, BranchCutNoFeasibleSolution, res.Status())
}

func TestSolveErrorMessages(t *testing.T) {
	assert.Equal(t, "time limit exceeded", ErrTimeLimit.Error())
	assert.Contains(t, SolveError(-1).Error(), "unknown glpk error")
}

/* Benchmarks */

func BenchmarkMemoryLeaks(b *testing.B) {
	if testing.Short() {
		b.SkipNow()
	}
	b.ReportAllocs()
	const n = 1000000
	for i := 0; i < n; i++ {
		NewModel(strconv.Itoa(i), Minimize)
	}
	time.Sleep(5 * time.Second)
}

func TestVariableBoundsRoundTrip(t *testing.T) {
	model := NewModel("bounds", Minimize)
	v, err := model.AddVariable("v")
	require.NoError(t, err)

	for _, tt := range []struct{ lower, upper float64 }{
		{math.Inf(-1), math.Inf(1)},
		{math.Inf(-1), 2},
		{-3, math.Inf(1)},
		{1.5, 1.5},
		{-1, 4},
	} {
		v.SetBounds(tt.lower, tt.upper)
		l, h := v.Bounds()
		assert.Equal(t, tt.lower, l)
		assert.Equal(t, tt.upper, h)
	}
	assert.Equal(t, 0, v.Index())
}

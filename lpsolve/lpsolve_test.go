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

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	delta = 0.0000001 // acceptable numerical deviation for test results
)

var (
	bigModel     *Model
	bigModelOnce sync.Once
)

// getBigModel returns a shared integer model that takes lp_solve a while.
func getBigModel(t *testing.T) *Model {
	t.Helper()

	bigModelOnce.Do(func() {
		num_vars := 10000
		model, err := NewModel("testBig", Maximize)
		require.NoError(t, err)

		for i := 0; i < num_vars; i++ {
			v, err := model.AddVariable(fmt.Sprintf("x%d", i), IntegerVariable, 1, math.Inf(-1), math.Inf(1))
			require.NoError(t, err)
			require.NoError(t, model.AddConstraint(-float64(i), float64(i), []*Variable{v}, []float64{1}))
		}

		bigModel = model
	})

	return bigModel
}

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Print(v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprint(v...))
}

func TestInstantiation(t *testing.T) {
	name := "test model 1"
	model, err := NewModel(name, Maximize)
	require.NoError(t, err)

	assert.Equal(t, name, model.Name())
	assert.Equal(t, Maximize, model.Direction())
}

func TestNilLoggerRejected(t *testing.T) {
	_, err := NewModel("test", Minimize, WithLogger(nil))
	assert.Error(t, err)
}

func TestAddVariableWithDetails(t *testing.T) {
	model, err := NewModel("test", Maximize)
	require.NoError(t, err)

	v1, err := model.AddVariable("x", BinaryVariable, 3.1416, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, "x", v1.Name())
	assert.Equal(t, BinaryVariable, v1.Kind())
	l, h := v1.Bounds()
	assert.Equal(t, 0.0, l)
	assert.Equal(t, 1.0, h)

	v2, err := model.AddVariable("", IntegerVariable, -1, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, "C1", v2.Name())
	assert.Equal(t, IntegerVariable, v2.Kind())
	l, h = v2.Bounds()
	assert.Equal(t, 2.0, l)
	assert.Equal(t, 5.0, h)

	assert.Equal(t, 2, model.VariableCount())
}

func TestAddConstraintValidation(t *testing.T) {
	model, err := NewModel("test", Maximize)
	require.NoError(t, err)
	x, _ := model.AddVariable("x", ContinuousVariable, 1, 0, 1)

	assert.Error(t, model.AddConstraint(0, 1, []*Variable{x}, nil))
	assert.Error(t, model.AddConstraint(0, 1, nil, nil))

	require.NoError(t, model.AddConstraint(0, 1, []*Variable{x}, []float64{1}))
	assert.Equal(t, 2, model.ConstraintCount(), "ranges become two rows")
}

func TestSolveMIP(t *testing.T) {
	model, err := NewModel("test", Maximize)
	require.NoError(t, err)

	x1, _ := model.AddVariable("x1", ContinuousVariable, 1, 0, 40)
	x2, _ := model.AddVariable("x2", ContinuousVariable, 2, 0, math.Inf(1))
	x3, _ := model.AddVariable("x3", ContinuousVariable, 3, 0, math.Inf(1))
	x4, _ := model.AddVariable("x4", IntegerVariable, 1, 2, 3)

	require.NoError(t, model.AddConstraint(0, 20, []*Variable{x1, x2, x3, x4}, []float64{-1, 1, 1, 10}))
	require.NoError(t, model.AddConstraint(0, 30, []*Variable{x1, x2, x3}, []float64{1, -3, 1}))
	require.NoError(t, model.AddConstraint(0, 0, []*Variable{x2, x4}, []float64{1, -3.5}))

	res, err := model.Solve()
	require.NoError(t, err)

	expected_xs := []float64{40, 10.5, 19.5, 3}
	expected_obj := 122.5

	assert.Equal(t, SolutionOptimal, res.Status())

	// ignore numerical inaccuracies
	assert.InDelta(t, expected_obj, res.ObjectiveValue(), delta)

	for i, x := range []*Variable{x1, x2, x3, x4} {
		assert.InDelta(t, expected_xs[i], res.Value(x), delta)
	}
	assert.InDeltaSlice(t, expected_xs, res.Values(), delta)
}

func TestSolveInfeasibleAndUnbounded(t *testing.T) {
	infeasible, err := NewModel("infeasible", Maximize)
	require.NoError(t, err)
	x, _ := infeasible.AddVariable("x", IntegerVariable, 1, 0, math.Inf(1))
	require.NoError(t, infeasible.AddConstraint(math.Inf(-1), -1, []*Variable{x}, []float64{1}))

	_, err = infeasible.Solve()
	assert.ErrorIs(t, err, ErrModelInfeasible)

	unbounded, err := NewModel("unbounded", Maximize)
	require.NoError(t, err)
	y, _ := unbounded.AddVariable("y", ContinuousVariable, 1, 0, math.Inf(1))
	require.NoError(t, unbounded.AddConstraint(1, math.Inf(1), []*Variable{y}, []float64{1}))

	_, err = unbounded.Solve()
	assert.ErrorIs(t, err, ErrModelUnbounded)
}

func TestLoggerReceivesMessages(t *testing.T) {
	logger := &recordingLogger{}
	model, err := NewModel("logged", Maximize, WithLogger(logger))
	require.NoError(t, err)
	x, _ := model.AddVariable("x", ContinuousVariable, 1, 0, 1)
	require.NoError(t, model.AddConstraint(math.Inf(-1), 1, []*Variable{x}, []float64{1}))

	_, err = model.Solve()
	require.NoError(t, err)
	// lp_solve only reports at higher verbosity; routing must not crash
	runtime.KeepAlive(model)
}

func TestBig(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode.")
	}

	model := getBigModel(t)

	res, err := model.Solve()
	require.NoError(t, err)

	expected := 49995000.0
	assert.Equal(t, expected, res.ObjectiveValue())
}

func TestContext(t *testing.T) {
	model := getBigModel(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	<-ctx.Done()

	_, err := model.SolveWithContext(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

/* Benchmarks */

/*
 * BenchmarkMemoryLeaks is a hack to check if the GC really gets rid of
 * unreferenced model values.
 */
func BenchmarkMemoryLeaks(b *testing.B) {
	if testing.Short() {
		b.SkipNow()
	}
	b.ReportAllocs()
	const n = 100000
	for i := 0; i < n; i++ {
		NewModel(strconv.Itoa(i), Minimize)
	}
	runtime.GC()
	time.Sleep(10 * time.Second)
}

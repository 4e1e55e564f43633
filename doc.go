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
Package benders solves mixed-integer programs of the form

	maximize   c1ᵗx + c2ᵗy
	subject to A1 x + A2 y <= b
	           x >= 0 integer, y >= 0

by Benders decomposition. The master problem keeps only x and a proxy t for
the objective and is solved by GLPK's branch-and-cut. Whenever the search
reaches a candidate (x̂, t̂), a cut generator solves the dual of the
remaining LP in y,

	minimize   c1ᵗx̂ + (b - A1x̂)ᵗu
	subject to A2ᵗu >= c2, u >= 0

and hands back a lazy constraint: an optimality cut built from an optimal
dual vertex when t̂ overestimates the subproblem value, or a feasibility cut
built from an extreme ray when the dual is unbounded.

	inst := benders.ExampleInstance()
	solver, _ := benders.NewSolver(inst, benders.WithLogger(log.Default()))

	res, err := solver.Solve() // you should check for errors

	fmt.Printf("status: %s\n", res.Status)
	fmt.Printf("t = %f, x = %v\n", res.T, res.X)
	for _, cut := range res.Cuts {
		fmt.Println(cut)
	}

SolveExtensive solves the same instance without decomposition, which is
useful to check every emitted cut against a known optimum (see CheckCuts).
*/
package benders

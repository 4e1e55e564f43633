package benders

import "errors"

var (
	// ErrDimensionMismatch is returned when instance data or a candidate
	// vector does not fit the instance's dimensions.
	ErrDimensionMismatch = errors.New("benders: dimension mismatch")

	// ErrEmptyInstance is returned for instances without rows or columns.
	ErrEmptyInstance = errors.New("benders: empty instance")

	// ErrUnboundedRecourse is returned by Generator.Evaluate when the dual
	// subproblem has no feasible point: the recourse problem is then
	// infeasible or unbounded for every x, and no cut can describe it.
	// Solver reports this case as StatusUnbounded or StatusInfeasible.
	ErrUnboundedRecourse = errors.New("benders: dual subproblem infeasible, recourse unbounded or infeasible for every x")

	// ErrRayNotFound is returned when the solver reports an unbounded dual
	// subproblem but no decreasing ray can be recovered.
	ErrRayNotFound = errors.New("benders: no extreme ray for unbounded subproblem")

	// ErrObjectiveBound is returned when t still sits at the objective
	// bound after the search: the optimum may lie above the bound, so the
	// incumbent is only known to be feasible.
	ErrObjectiveBound = errors.New("benders: objective bound is binding, raise it with WithObjectiveBound")

	// ErrInvalidOption is returned by options given out-of-range values.
	ErrInvalidOption = errors.New("benders: invalid option")
)

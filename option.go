package benders

import (
	"fmt"
	"math"
	"time"

	"github.com/costela/benders/golp"
)

const (
	// DefaultTolerance is the default slack below which a subproblem value is
	// taken to match the master's estimate t.
	DefaultTolerance = 1e-6

	// DefaultObjectiveBound caps t until the first optimality cut arrives;
	// without it the master relaxation starts out unbounded. A solve whose
	// t ends at the cap reports ErrObjectiveBound.
	DefaultObjectiveBound = 1e6
)

type options struct {
	logger         Logger
	tolerance      float64
	objectiveBound float64
	branching      golp.Branching
	backtracking   golp.Backtracking
	timeLimit      time.Duration
	fractional     bool
}

func defaultOptions() options {
	return options{
		logger:         noopLogger{},
		tolerance:      DefaultTolerance,
		objectiveBound: DefaultObjectiveBound,
		branching:      golp.BranchDriebeckTomlin,
		backtracking:   golp.BacktrackBestLocal,
	}
}

// Option configures a Solver, a Generator or SolveExtensive.
type Option func(*options) error

// WithLogger sends the per-call trace to logger.
func WithLogger(logger Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return fmt.Errorf("nil logger: %w", ErrInvalidOption)
		}
		o.logger = logger

		return nil
	}
}

// WithTolerance sets how far below t a subproblem value must be before an
// optimality cut is emitted.
func WithTolerance(tol float64) Option {
	return func(o *options) error {
		if tol < 0 || math.IsNaN(tol) || math.IsInf(tol, 0) {
			return fmt.Errorf("tolerance %g: %w", tol, ErrInvalidOption)
		}
		o.tolerance = tol

		return nil
	}
}

// WithObjectiveBound sets the initial upper bound on t. math.Inf(1) removes
// it, in which case the master is reported unbounded.
func WithObjectiveBound(bound float64) Option {
	return func(o *options) error {
		if math.IsNaN(bound) || math.IsInf(bound, -1) {
			return fmt.Errorf("objective bound %g: %w", bound, ErrInvalidOption)
		}
		o.objectiveBound = bound

		return nil
	}
}

// WithSearch fixes the branching and backtracking rules of the master's
// branch-and-bound.
func WithSearch(branching golp.Branching, backtracking golp.Backtracking) Option {
	return func(o *options) error {
		o.branching = branching
		o.backtracking = backtracking

		return nil
	}
}

// WithTimeLimit bounds the master search. Zero means no limit.
func WithTimeLimit(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return fmt.Errorf("time limit %s: %w", d, ErrInvalidOption)
		}
		o.timeLimit = d

		return nil
	}
}

// WithFractionalCuts also calls the cut generator at fractional LP
// solutions, not only at integral candidates.
func WithFractionalCuts() Option {
	return func(o *options) error {
		o.fractional = true

		return nil
	}
}

// Package runtime wires construction, local search and cancellation
// together into one solve: the solver runtime proper. It also defines the
// job abstraction (package-level Job/Registry) both command-line
// applications use to expose solves over REST — one job per in-flight or
// completed solve, looked up by ID, solved on a bounded worker pool so an
// unbounded number of concurrent requests can't spawn an unbounded number
// of CPU-bound solves.
package runtime

import (
	"context"
	"time"

	"github.com/gitrdm/gosolve/pkg/solver/director"
	"github.com/gitrdm/gosolve/pkg/solver/localsearch"
	"github.com/gitrdm/gosolve/pkg/solver/move"
	"github.com/gitrdm/gosolve/pkg/solver/score"
)

// InvariantViolation marks an internal consistency failure detected while
// solving (a move left the model in a state that breaks one of the
// solution's structural invariants, not a bad user input). Constraint and
// move code panics with one instead of returning an error; the solve
// goroutine recovers it, passes it to the registry's onPanic callback, and
// aborts that one job.
type InvariantViolation struct{ Msg string }

func (e *InvariantViolation) Error() string { return e.Msg }

// PanicInvariant raises an InvariantViolation. Call this, never a bare
// panic, when code detects the model has drifted from what its invariants
// guarantee.
func PanicInvariant(msg string) { panic(&InvariantViolation{Msg: msg}) }

// Config holds the runtime's tunables: local search's own config plus an
// overall wall-clock budget. A zero TimeLimit means the solve runs until
// ctx is cancelled or local search's own step limit (if any) is hit.
type Config struct {
	LocalSearch localsearch.Config
	TimeLimit   time.Duration
}

// DefaultConfig returns the solver's baseline tuning: LAHC's default
// history size and a 30 second time limit, matching the Rust quickstarts'
// default solver.toml.
func DefaultConfig() Config {
	return Config{LocalSearch: localsearch.DefaultConfig(), TimeLimit: 30 * time.Second}
}

// Update is one point in a solve's progress, published after construction
// completes and after every local search step that sets a new best score.
// The sequence of Scores across successive Updates never regresses.
type Update[Sol any, S score.Score[S]] struct {
	Solution Sol
	Score    S
	Step     int64 // -1 for the post-construction update
}

// Run executes construct then local search against d, publishing an Update
// after construction and after every step that improves on the best score
// seen so far, until ctx is done or cfg.TimeLimit elapses. It always closes
// publish before returning, so callers may safely range over it.
func Run[Sol any, S score.Score[S]](
	ctx context.Context,
	d *director.Director[Sol, S],
	cfg Config,
	construct func(d *director.Director[Sol, S]),
	next func() move.Move[Sol, S],
	publish chan<- Update[Sol, S],
) {
	defer close(publish)

	construct(d)
	select {
	case publish <- Update[Sol, S]{Solution: d.Solution(), Score: d.Score(), Step: -1}:
	case <-ctx.Done():
		return
	}

	var deadline <-chan time.Time
	if cfg.TimeLimit > 0 {
		timer := time.NewTimer(cfg.TimeLimit)
		defer timer.Stop()
		deadline = timer.C
	}

	expired := false
	shouldStop := func() bool {
		if expired {
			return true
		}
		select {
		case <-ctx.Done():
			return true
		default:
		}
		if deadline != nil {
			select {
			case <-deadline:
				expired = true
				return true
			default:
			}
		}
		return false
	}

	localsearch.Run(d, cfg.LocalSearch, next, shouldStop, func(step int64, s S) {
		select {
		case publish <- Update[Sol, S]{Solution: d.Solution(), Score: s, Step: step}:
		case <-ctx.Done():
		}
	})
}

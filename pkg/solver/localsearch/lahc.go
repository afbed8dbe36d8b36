// Package localsearch implements the solver's local search phase: Late
// Acceptance Hill Climbing (LAHC) over a caller-supplied move neighborhood.
// LAHC accepts a candidate move whenever it is at least as good as either
// the current score or the score from a fixed number of steps ago (the
// "late acceptance" history), which lets the search tolerate short
// worsening streaks without the tuning cost of simulated annealing's
// temperature schedule.
package localsearch

import (
	"github.com/gitrdm/gosolve/pkg/solver/director"
	"github.com/gitrdm/gosolve/pkg/solver/move"
	"github.com/gitrdm/gosolve/pkg/solver/score"
)

// Config holds LAHC's tunables.
type Config struct {
	// HistorySize is the number of past scores kept for late acceptance
	// comparison. Larger values tolerate longer worsening streaks at the
	// cost of slower convergence; see DESIGN.md for the chosen default.
	HistorySize int
	// StepLimit bounds the number of moves tried; zero means unbounded
	// (the caller's shouldStop/context must bound the search instead).
	StepLimit int64
}

// DefaultConfig returns the solver's baseline LAHC tuning.
func DefaultConfig() Config {
	return Config{HistorySize: 400, StepLimit: 0}
}

// StepObserver is invoked only when an accepted step strictly improves the
// best score seen so far in this run. Callers use it to publish progress
// (the solver runtime's publish channel) and to drive termination
// heuristics; it never fires twice with the same or a worse score, so a
// sequence of published scores is always strictly improving.
type StepObserver[S any] func(step int64, accepted S)

// Run drives LAHC over d until shouldStop reports true or cfg.StepLimit is
// reached. next produces one candidate move per call; Run applies it,
// accepts or rejects it, and repeats. The director's score after Run
// returns is the best-last-accepted score, not necessarily the global best
// seen — LAHC does not keep a separate incumbent and may wander away from
// its best find before shouldStop fires. onStep only reports the subset of
// accepted steps that set a new best, so it tracks that global best on its
// own.
func Run[Sol any, S score.Score[S]](
	d *director.Director[Sol, S],
	cfg Config,
	next func() move.Move[Sol, S],
	shouldStop func() bool,
	onStep StepObserver[S],
) {
	historySize := cfg.HistorySize
	if historySize < 1 {
		historySize = 1
	}
	initial := d.Score()
	history := make([]S, historySize)
	for i := range history {
		history[i] = initial
	}
	current := initial
	best := initial

	var step int64
	for !shouldStop() {
		if cfg.StepLimit > 0 && step >= cfg.StepLimit {
			return
		}
		mv := next()
		if mv == nil {
			return
		}
		mv.Do(d)
		candidate := d.Score()
		idx := step % int64(historySize)

		accept := candidate.CompareTo(history[idx]) >= 0 || candidate.CompareTo(current) >= 0
		if accept {
			current = candidate
			if candidate.CompareTo(history[idx]) > 0 {
				history[idx] = candidate
			}
			if onStep != nil && candidate.CompareTo(best) > 0 {
				best = candidate
				onStep(step, candidate)
			}
		} else {
			mv.Undo(d)
		}
		step++
	}
}

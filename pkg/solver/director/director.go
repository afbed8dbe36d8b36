// Package director implements the incremental score director: the single
// place that knows how to keep a solution's running score in step with
// planning variable mutations without ever rescanning the whole solution.
//
// The director itself is deliberately thin — it owns the constraint set and
// the before/after notification pair, nothing else. Moves (package move)
// are responsible for calling BeforeEntity/AfterEntity around whatever raw
// model mutation they perform, and for triggering shadow variable
// recompute in between; the director has no opinion on what a "move" is.
package director

import (
	"github.com/gitrdm/gosolve/pkg/solver/constraint"
	"github.com/gitrdm/gosolve/pkg/solver/score"
)

// Director maintains a solution's incremental score alongside the solution
// itself. Sol is left unconstrained here so the same type works for both
// the basic-variable and list-variable domains; helper functions that need
// a specific model contract (move.NewChangeMove,
// construction.GreedyListInsertion, ...) add
// their own stricter type parameter, since Go methods cannot.
type Director[Sol any, S score.Score[S]] struct {
	solution    Sol
	constraints *constraint.Set[Sol, S]
}

// New builds a director over solution and performs the one full,
// from-scratch score computation it will ever need — every later score
// change flows through BeforeEntity/AfterEntity instead.
func New[Sol any, S score.Score[S]](solution Sol, constraints *constraint.Set[Sol, S]) *Director[Sol, S] {
	d := &Director[Sol, S]{solution: solution, constraints: constraints}
	d.constraints.FullRecompute(solution)
	return d
}

// Solution returns the solution the director is tracking.
func (d *Director[Sol, S]) Solution() Sol { return d.solution }

// Score returns the current running score in O(1).
func (d *Director[Sol, S]) Score() S { return d.constraints.Total() }

// Constraints exposes the underlying constraint set, for callers (the
// analyze endpoint) that need a per-constraint breakdown.
func (d *Director[Sol, S]) Constraints() *constraint.Set[Sol, S] { return d.constraints }

// BeforeEntity retracts entity's current contribution from every
// constraint's running score. Must be called with the solution in its
// state immediately prior to mutating entity's planning variable, and must
// be paired with a matching AfterEntity call once the mutation (and any
// shadow variable recompute it triggers) has completed. Pairs for
// different entities may interleave; pairs for the same entity must not.
func (d *Director[Sol, S]) BeforeEntity(entity int) {
	d.constraints.Before(d.solution, entity)
}

// AfterEntity inserts entity's new contribution into every constraint's
// running score, using the solution's state after the mutation.
func (d *Director[Sol, S]) AfterEntity(entity int) {
	d.constraints.After(d.solution, entity)
}

// Recalculate discards the incrementally maintained state and recomputes
// every constraint from scratch, returning the resulting score. Used to
// validate that incremental maintenance hasn't drifted (property testing)
// and to seed a freshly deserialized solution.
func (d *Director[Sol, S]) Recalculate() S {
	return d.constraints.FullRecompute(d.solution)
}

// EvaluateDetailed returns a from-scratch per-constraint breakdown without
// disturbing the incrementally maintained running totals.
func (d *Director[Sol, S]) EvaluateDetailed() []constraint.Breakdown[S] {
	return d.constraints.EvaluateDetailed(d.solution)
}

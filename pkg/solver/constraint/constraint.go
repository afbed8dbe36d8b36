// Package constraint defines the shared contract every scoring rule
// implements, regardless of whether it was compiled from the fluent stream
// DSL (package stream) or hand-written against a problem's own model (as
// vehicle routing's capacity and time-window constraints are). The score
// director (package director) only ever talks to this interface.
package constraint

import "github.com/gitrdm/gosolve/pkg/solver/score"

// Match is one live tuple contributing to a constraint's score, surfaced by
// DetailedMatches for the analyze endpoint.
type Match[S any] struct {
	Score         S
	Justification string
}

// Constraint is one named scoring rule over a solution of type Sol,
// producing scores of kind S. Before/After let the director maintain the
// constraint's running score incrementally: Before is called with the
// entity's state just before a planning variable mutation, After with its
// state just after. Both calls touch only the subset of matches entity
// participates in, so their cost is proportional to entity's affected
// tuples, not to the size of the whole solution.
type Constraint[Sol any, S score.Score[S]] interface {
	// Name is the constraint's identifier, used in analyze output and logs.
	Name() string
	// IsHard reports whether this constraint contributes to the hard level
	// (true) or the soft level (false) of the score.
	IsHard() bool
	// FullRecompute discards any incrementally maintained state and
	// recomputes the constraint's score from scratch, returning it. Used
	// at job creation and for the analyze endpoint's throwaway director.
	FullRecompute(sol Sol) S
	// Before retracts entity's current contribution from the running
	// score, using sol's state prior to the upcoming mutation.
	Before(sol Sol, entity int)
	// After inserts entity's new contribution into the running score,
	// using sol's state after the mutation (and after any shadow variable
	// recompute the mutation triggered).
	After(sol Sol, entity int)
	// Score returns the constraint's current running score in O(1).
	Score() S
	// DetailedMatches recomputes the constraint from scratch and returns
	// every live match with its justification, for the analyze endpoint.
	DetailedMatches(sol Sol) []Match[S]
}

// Set is a compile-time-known tuple of constraints evaluated together.
// Constraints don't interact: the set's score is the sum of its members'.
type Set[Sol any, S score.Score[S]] struct {
	Constraints []Constraint[Sol, S]
}

// NewSet builds a Set from its constraints.
func NewSet[Sol any, S score.Score[S]](constraints ...Constraint[Sol, S]) *Set[Sol, S] {
	return &Set[Sol, S]{Constraints: constraints}
}

// Total sums every constraint's current running score.
func (s *Set[Sol, S]) Total() S {
	var total S
	for _, c := range s.Constraints {
		total = total.Add(c.Score())
	}
	return total
}

// FullRecompute recomputes every constraint from scratch, replacing their
// running state, and returns the resulting total score.
func (s *Set[Sol, S]) FullRecompute(sol Sol) S {
	var total S
	for _, c := range s.Constraints {
		total = total.Add(c.FullRecompute(sol))
	}
	return total
}

// Before retracts entity's contribution from every constraint.
func (s *Set[Sol, S]) Before(sol Sol, entity int) {
	for _, c := range s.Constraints {
		c.Before(sol, entity)
	}
}

// After inserts entity's new contribution into every constraint.
func (s *Set[Sol, S]) After(sol Sol, entity int) {
	for _, c := range s.Constraints {
		c.After(sol, entity)
	}
}

// Breakdown is one constraint's full detail, for the analyze endpoint.
type Breakdown[S any] struct {
	Name    string
	IsHard  bool
	Score   S
	Matches []Match[S]
}

// EvaluateDetailed recomputes every constraint from scratch and returns a
// per-constraint breakdown without disturbing the set's incrementally
// maintained running state (each constraint's DetailedMatches call is
// itself a from-scratch pass that does not mutate Score()).
func (s *Set[Sol, S]) EvaluateDetailed(sol Sol) []Breakdown[S] {
	out := make([]Breakdown[S], 0, len(s.Constraints))
	for _, c := range s.Constraints {
		matches := c.DetailedMatches(sol)
		var total S
		for _, m := range matches {
			total = total.Add(m.Score)
		}
		out = append(out, Breakdown[S]{
			Name:    c.Name(),
			IsHard:  c.IsHard(),
			Score:   total,
			Matches: matches,
		})
	}
	return out
}

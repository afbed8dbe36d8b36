package stream

import (
	"fmt"

	"github.com/gitrdm/gosolve/pkg/solver/constraint"
	"github.com/gitrdm/gosolve/pkg/solver/score"
)

// entityConstraint is the concrete constraint.Constraint every terminal
// builder in this file produces. It holds a running total plus three
// closures supplied by the specific stream shape (Uni, Bi, or
// UniquePair) that know how to recompute from scratch, score just the rows
// touching one entity, and (for pair streams only) keep a live join index
// in step with mutations.
type entityConstraint[Sol any, S score.Score[S]] struct {
	name           string
	hard           bool
	before         func(sol Sol, idx int) S
	after          func(sol Sol, idx int) S
	maintainBefore func(sol Sol, idx int)
	maintainAfter  func(sol Sol, idx int)
	recompute      func(sol Sol) (S, []constraint.Match[S])
	total          S
}

func (c *entityConstraint[Sol, S]) Name() string { return c.name }
func (c *entityConstraint[Sol, S]) IsHard() bool { return c.hard }

func (c *entityConstraint[Sol, S]) FullRecompute(sol Sol) S {
	total, _ := c.recompute(sol)
	c.total = total
	return total
}

func (c *entityConstraint[Sol, S]) Before(sol Sol, idx int) {
	c.total = c.total.Subtract(c.before(sol, idx))
	if c.maintainBefore != nil {
		c.maintainBefore(sol, idx)
	}
}

func (c *entityConstraint[Sol, S]) After(sol Sol, idx int) {
	if c.maintainAfter != nil {
		c.maintainAfter(sol, idx)
	}
	c.total = c.total.Add(c.after(sol, idx))
}

func (c *entityConstraint[Sol, S]) Score() S { return c.total }

func (c *entityConstraint[Sol, S]) DetailedMatches(sol Sol) []constraint.Match[S] {
	_, matches := c.recompute(sol)
	return matches
}

// AsConstraintUni finalizes a single-column stream into a constraint.
// weightFn computes the (already signed) score contribution of a matching
// row; justify renders a human-readable explanation for the analyze
// endpoint (pass nil to fall back to name).
func AsConstraintUni[Sol any, A any, S score.Score[S]](
	u *Uni[Sol, A], name string, hard bool,
	weightFn func(A) S, justify func(A) string,
) constraint.Constraint[Sol, S] {
	sumRows := func(rows []A) S {
		var total S
		for _, a := range rows {
			total = total.Add(weightFn(a))
		}
		return total
	}
	return &entityConstraint[Sol, S]{
		name: name, hard: hard,
		before: func(sol Sol, idx int) S { return sumRows(u.touching(sol, idx)) },
		after:  func(sol Sol, idx int) S { return sumRows(u.touching(sol, idx)) },
		recompute: func(sol Sol) (S, []constraint.Match[S]) {
			var total S
			var matches []constraint.Match[S]
			for _, a := range u.all(sol) {
				w := weightFn(a)
				total = total.Add(w)
				matches = append(matches, constraint.Match[S]{Score: w, Justification: justifyOrName(justify, a, name)})
			}
			return total, matches
		},
	}
}

// AsConstraintBi finalizes a two-column stream into a constraint.
func AsConstraintBi[Sol any, A, B any, S score.Score[S]](
	b *Bi[Sol, A, B], name string, hard bool,
	weightFn func(A, B) S, justify func(A, B) string,
) constraint.Constraint[Sol, S] {
	sumRows := func(rows []pairAB[A, B]) S {
		var total S
		for _, r := range rows {
			total = total.Add(weightFn(r.A, r.B))
		}
		return total
	}
	return &entityConstraint[Sol, S]{
		name: name, hard: hard,
		before: func(sol Sol, idx int) S { return sumRows(b.touchingFn(sol, idx)) },
		after:  func(sol Sol, idx int) S { return sumRows(b.touchingFn(sol, idx)) },
		recompute: func(sol Sol) (S, []constraint.Match[S]) {
			var total S
			var matches []constraint.Match[S]
			for _, rows := range b.allFn(sol) {
				for _, r := range rows {
					w := weightFn(r.A, r.B)
					total = total.Add(w)
					just := name
					if justify != nil {
						just = justify(r.A, r.B)
					}
					matches = append(matches, constraint.Match[S]{Score: w, Justification: just})
				}
			}
			return total, matches
		},
	}
}

// AsConstraintPair finalizes a unique-pair stream into a constraint,
// wiring the pair stream's live index maintenance into Before/After.
func AsConstraintPair[Sol any, A any, K comparable, S score.Score[S]](
	p *UniquePair[Sol, A, K], name string, hard bool,
	weightFn func(a, b A) S, justify func(a, b A) string,
) constraint.Constraint[Sol, S] {
	sumRows := func(rows []pairAA[A]) S {
		var total S
		for _, r := range rows {
			total = total.Add(weightFn(r.A, r.B))
		}
		return total
	}
	return &entityConstraint[Sol, S]{
		name: name, hard: hard,
		before:         func(sol Sol, idx int) S { return sumRows(p.touching(sol, idx)) },
		after:          func(sol Sol, idx int) S { return sumRows(p.touching(sol, idx)) },
		maintainBefore: p.maintainBefore,
		maintainAfter:  p.maintainAfter,
		recompute: func(sol Sol) (S, []constraint.Match[S]) {
			var total S
			var matches []constraint.Match[S]
			for _, r := range p.all(sol) {
				w := weightFn(r.A, r.B)
				total = total.Add(w)
				just := name
				if justify != nil {
					just = justify(r.A, r.B)
				}
				matches = append(matches, constraint.Match[S]{Score: w, Justification: just})
			}
			return total, matches
		},
	}
}

func justifyOrName[A any](justify func(A) string, a A, name string) string {
	if justify == nil {
		return name
	}
	return justify(a)
}

// Justf is a convenience formatter for justify callbacks.
func Justf(format string, args ...any) string { return fmt.Sprintf(format, args...) }

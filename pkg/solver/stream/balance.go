package stream

import (
	"math"

	"github.com/gitrdm/gosolve/pkg/solver/constraint"
	"github.com/gitrdm/gosolve/pkg/solver/score"
)

// Balance is a stream that groups an entity collection by key and scores
// the standard deviation of group sizes — a fairness constraint with no
// per-tuple decomposition (unlike Uni/Bi/UniquePair, its score is one
// global number, not a sum over independent matches). It maintains a live
// histogram plus running Σk and Σk² so recomputing after one entity's key
// changes is O(1) rather than O(distinct groups).
type Balance[Sol any, A any, K comparable] struct {
	collection func(Sol) []A
	key        func(A) K

	counts     map[K]int64
	sumK       int64
	sumKSquare int64
	groups     int64
	built      bool
}

// ForBalance starts a balance stream grouping collection by key.
func ForBalance[Sol any, A any, K comparable](collection func(Sol) []A, key func(A) K) *Balance[Sol, A, K] {
	return &Balance[Sol, A, K]{collection: collection, key: key, counts: map[K]int64{}}
}

func (b *Balance[Sol, A, K]) reset() {
	b.counts = map[K]int64{}
	b.sumK = 0
	b.sumKSquare = 0
	b.groups = 0
}

func (b *Balance[Sol, A, K]) rebuild(sol Sol) {
	b.reset()
	for _, a := range b.collection(sol) {
		b.increment(b.key(a))
	}
	b.built = true
}

func (b *Balance[Sol, A, K]) increment(k K) {
	c := b.counts[k]
	if c == 0 {
		b.groups++
	}
	b.sumK++
	b.sumKSquare += 2*c + 1
	b.counts[k] = c + 1
}

func (b *Balance[Sol, A, K]) decrement(k K) {
	c := b.counts[k]
	if c == 0 {
		return
	}
	b.sumK--
	b.sumKSquare -= 2*c - 1
	c--
	if c == 0 {
		delete(b.counts, k)
		b.groups--
	} else {
		b.counts[k] = c
	}
}

// stdDev returns the population standard deviation of current group sizes.
func (b *Balance[Sol, A, K]) stdDev() float64 {
	if b.groups == 0 {
		return 0
	}
	n := float64(b.groups)
	mean := float64(b.sumK) / n
	variance := float64(b.sumKSquare)/n - mean*mean
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// AsConstraintBalance finalizes a balance stream into a constraint. scoreFn
// maps the current standard deviation of group sizes into a score
// contribution (typically a soft penalty proportional to -stdDev); it is
// called once per Before/After pair and once per FullRecompute, never
// per-tuple — balance is a single aggregate match, not a sum of independent
// ones.
func AsConstraintBalance[Sol any, A any, K comparable, S score.Score[S]](
	b *Balance[Sol, A, K], name string, scoreFn func(stdDev float64) S,
) constraint.Constraint[Sol, S] {
	return &balanceConstraint[Sol, A, K, S]{balance: b, name: name, scoreFn: scoreFn}
}

type balanceConstraint[Sol any, A any, K comparable, S score.Score[S]] struct {
	balance *Balance[Sol, A, K]
	name    string
	scoreFn func(stdDev float64) S
	current S
}

func (c *balanceConstraint[Sol, A, K, S]) Name() string { return c.name }
func (c *balanceConstraint[Sol, A, K, S]) IsHard() bool { return false }

func (c *balanceConstraint[Sol, A, K, S]) FullRecompute(sol Sol) S {
	c.balance.rebuild(sol)
	c.current = c.scoreFn(c.balance.stdDev())
	return c.current
}

func (c *balanceConstraint[Sol, A, K, S]) Before(sol Sol, idx int) {
	if !c.balance.built {
		c.balance.rebuild(sol)
	}
	all := c.balance.collection(sol)
	if idx < 0 || idx >= len(all) {
		return
	}
	c.balance.decrement(c.balance.key(all[idx]))
}

func (c *balanceConstraint[Sol, A, K, S]) After(sol Sol, idx int) {
	all := c.balance.collection(sol)
	if idx < 0 || idx >= len(all) {
		return
	}
	c.balance.increment(c.balance.key(all[idx]))
	c.current = c.scoreFn(c.balance.stdDev())
}

func (c *balanceConstraint[Sol, A, K, S]) Score() S { return c.current }

func (c *balanceConstraint[Sol, A, K, S]) DetailedMatches(sol Sol) []constraint.Match[S] {
	c.balance.rebuild(sol)
	s := c.scoreFn(c.balance.stdDev())
	c.current = s
	return []constraint.Match[S]{{Score: s, Justification: "group size standard deviation"}}
}

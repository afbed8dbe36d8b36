// Package stream implements the constraint stream DSL: a small fluent
// builder for declaring scoring rules over a solution's entity collections,
// compiling down to constraint.Constraint implementations the score
// director can maintain incrementally.
//
// Go methods cannot introduce new type parameters, so operations that
// change a stream's tuple shape (Join, FlattenLast) and the terminal
// AsConstraint* builders are free functions rather than methods;
// operations that keep the shape (Filter) are methods. A chain reads
//
//	joined := stream.Join(stream.ForEach(shifts), employees, keyFn, availableFn).
//	    Filter(pred)
//	stream.AsConstraintBi(joined, "Required skill", true, weightFn, justifyFn)
//
// Every stream is rooted at ForEach, ForEachUniquePair or ForBalance over a planning
// entity collection; the entity's own index is carried through every
// downstream stage so the compiled constraint can recompute just the
// tuples touching a single changed entity (package constraint's
// Before/After contract) instead of rescanning the whole collection.
package stream

// Uni is a stream of single-column tuples, one per (filtered) entity.
type Uni[Sol any, A any] struct {
	collection func(Sol) []A
	filters    []func(A) bool
}

// ForEach starts a stream over every element of an entity collection.
func ForEach[Sol any, A any](collection func(Sol) []A) *Uni[Sol, A] {
	return &Uni[Sol, A]{collection: collection}
}

// Filter narrows the stream to elements matching pred.
func (u *Uni[Sol, A]) Filter(pred func(A) bool) *Uni[Sol, A] {
	return &Uni[Sol, A]{collection: u.collection, filters: appendFilter(u.filters, pred)}
}

func (u *Uni[Sol, A]) passes(a A) bool {
	for _, f := range u.filters {
		if !f(a) {
			return false
		}
	}
	return true
}

// touching returns the (at most one) tuple at entity index idx.
func (u *Uni[Sol, A]) touching(sol Sol, idx int) []A {
	all := u.collection(sol)
	if idx < 0 || idx >= len(all) {
		return nil
	}
	if a := all[idx]; u.passes(a) {
		return []A{a}
	}
	return nil
}

func (u *Uni[Sol, A]) all(sol Sol) map[int]A {
	out := map[int]A{}
	for i, a := range u.collection(sol) {
		if u.passes(a) {
			out[i] = a
		}
	}
	return out
}

func appendFilter[A any](base []func(A) bool, next func(A) bool) []func(A) bool {
	out := make([]func(A) bool, len(base), len(base)+1)
	copy(out, base)
	return append(out, next)
}

// pairAB is one joined or flattened tuple.
type pairAB[A, B any] struct {
	A A
	B B
}

// Bi is a stream of two-column tuples, one entity index per row.
type Bi[Sol any, A, B any] struct {
	touchingFn func(sol Sol, idx int) []pairAB[A, B]
	allFn      func(sol Sol) map[int][]pairAB[A, B]
}

// Join pairs every row of u with the element of side at index keyFn(a),
// skipping rows where available(a) is false. Because the join key is a
// direct slice index (every planning variable in this solver's two domains
// ranges over a value-range index), this degenerates the usual hash
// multimap join into an O(1) array lookup per row while remaining a
// perfectly general equality join on index-valued keys.
func Join[Sol any, A, B any](u *Uni[Sol, A], side func(Sol) []B, keyFn func(A) int, available func(A) bool) *Bi[Sol, A, B] {
	lookup := func(sol Sol, a A) ([]pairAB[A, B], bool) {
		if !available(a) {
			return nil, false
		}
		s := side(sol)
		k := keyFn(a)
		if k < 0 || k >= len(s) {
			return nil, false
		}
		return []pairAB[A, B]{{A: a, B: s[k]}}, true
	}
	return &Bi[Sol, A, B]{
		touchingFn: func(sol Sol, idx int) []pairAB[A, B] {
			rows := u.touching(sol, idx)
			if len(rows) == 0 {
				return nil
			}
			pairs, ok := lookup(sol, rows[0])
			if !ok {
				return nil
			}
			return pairs
		},
		allFn: func(sol Sol) map[int][]pairAB[A, B] {
			out := map[int][]pairAB[A, B]{}
			for idx, a := range u.all(sol) {
				if pairs, ok := lookup(sol, a); ok {
					out[idx] = pairs
				}
			}
			return out
		},
	}
}

// FlattenLast replaces a stream's last column with each element produced by
// expanding it through expand, multiplying one input row into zero or more
// output rows.
func FlattenLast[Sol any, A, B, C any](b *Bi[Sol, A, B], expand func(B) []C) *Bi[Sol, A, C] {
	flatten := func(rows []pairAB[A, B]) []pairAB[A, C] {
		var out []pairAB[A, C]
		for _, row := range rows {
			for _, c := range expand(row.B) {
				out = append(out, pairAB[A, C]{A: row.A, B: c})
			}
		}
		return out
	}
	return &Bi[Sol, A, C]{
		touchingFn: func(sol Sol, idx int) []pairAB[A, C] { return flatten(b.touchingFn(sol, idx)) },
		allFn: func(sol Sol) map[int][]pairAB[A, C] {
			out := map[int][]pairAB[A, C]{}
			for idx, rows := range b.allFn(sol) {
				if flat := flatten(rows); len(flat) > 0 {
					out[idx] = flat
				}
			}
			return out
		},
	}
}

// Filter narrows a two-column stream to rows matching pred.
func (b *Bi[Sol, A, B]) Filter(pred func(A, B) bool) *Bi[Sol, A, B] {
	keep := func(rows []pairAB[A, B]) []pairAB[A, B] {
		var out []pairAB[A, B]
		for _, r := range rows {
			if pred(r.A, r.B) {
				out = append(out, r)
			}
		}
		return out
	}
	return &Bi[Sol, A, B]{
		touchingFn: func(sol Sol, idx int) []pairAB[A, B] { return keep(b.touchingFn(sol, idx)) },
		allFn: func(sol Sol) map[int][]pairAB[A, B] {
			out := map[int][]pairAB[A, B]{}
			for idx, rows := range b.allFn(sol) {
				if kept := keep(rows); len(kept) > 0 {
					out[idx] = kept
				}
			}
			return out
		},
	}
}

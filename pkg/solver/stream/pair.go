package stream

// UniquePair is a stream of unordered pairs drawn from a single entity
// collection, restricted to pairs whose key function agrees (the
// for_each_unique_pair + equal joiner combination). Unlike Uni and Bi it
// carries persistent state — a key-to-entity-index bucket — because the
// join key is itself a planning variable that changes as the solver moves,
// so the index must be kept in step with Before/After rather than rebuilt
// from scratch on every touch.
type UniquePair[Sol any, A any, K comparable] struct {
	collection func(Sol) []A
	key        func(A) K
	filters    []func(A, A) bool
	index      map[K][]int
	built      bool
}

// ForEachUniquePair starts a stream over every unordered pair of distinct
// elements sharing the same key.
func ForEachUniquePair[Sol any, A any, K comparable](collection func(Sol) []A, key func(A) K) *UniquePair[Sol, A, K] {
	return &UniquePair[Sol, A, K]{collection: collection, key: key, index: map[K][]int{}}
}

// Filter narrows the pair stream to pairs matching pred. The returned
// stream shares the original's index: filters don't change which entities
// share a key, only which resulting pairs are scored.
func (p *UniquePair[Sol, A, K]) Filter(pred func(a, b A) bool) *UniquePair[Sol, A, K] {
	return &UniquePair[Sol, A, K]{
		collection: p.collection,
		key:        p.key,
		filters:    append(append([]func(A, A) bool{}, p.filters...), pred),
		index:      p.index,
		built:      p.built,
	}
}

func (p *UniquePair[Sol, A, K]) passes(a, b A) bool {
	for _, f := range p.filters {
		if !f(a, b) {
			return false
		}
	}
	return true
}

func (p *UniquePair[Sol, A, K]) ensureBuilt(sol Sol) {
	if p.built {
		return
	}
	for i, a := range p.collection(sol) {
		k := p.key(a)
		p.index[k] = append(p.index[k], i)
	}
	p.built = true
}

// pairAA is one entity paired with a distinct peer sharing its key.
type pairAA[A any] struct {
	Peer int
	A    A
	B    A
}

// touching returns every pair currently involving entity idx, using the
// live index rather than a full scan.
func (p *UniquePair[Sol, A, K]) touching(sol Sol, idx int) []pairAA[A] {
	p.ensureBuilt(sol)
	all := p.collection(sol)
	if idx < 0 || idx >= len(all) {
		return nil
	}
	a := all[idx]
	k := p.key(a)
	var out []pairAA[A]
	for _, j := range p.index[k] {
		if j == idx {
			continue
		}
		b := all[j]
		if p.passes(a, b) {
			out = append(out, pairAA[A]{Peer: j, A: a, B: b})
		}
	}
	return out
}

// all enumerates every pair from scratch, for FullRecompute/DetailedMatches.
func (p *UniquePair[Sol, A, K]) all(sol Sol) []pairAA[A] {
	elems := p.collection(sol)
	var out []pairAA[A]
	for i := 0; i < len(elems); i++ {
		for j := i + 1; j < len(elems); j++ {
			if p.key(elems[i]) != p.key(elems[j]) {
				continue
			}
			if p.passes(elems[i], elems[j]) {
				out = append(out, pairAA[A]{Peer: j, A: elems[i], B: elems[j]})
			}
		}
	}
	return out
}

// maintainBefore removes idx from its current bucket, using sol's state
// prior to the upcoming mutation. Must run after scoring idx's current
// contribution and before the external mutation.
func (p *UniquePair[Sol, A, K]) maintainBefore(sol Sol, idx int) {
	p.ensureBuilt(sol)
	all := p.collection(sol)
	if idx < 0 || idx >= len(all) {
		return
	}
	k := p.key(all[idx])
	bucket := p.index[k]
	for i, j := range bucket {
		if j == idx {
			p.index[k] = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
}

// maintainAfter inserts idx into its new bucket, using sol's state after
// the mutation. Must run before scoring idx's new contribution.
func (p *UniquePair[Sol, A, K]) maintainAfter(sol Sol, idx int) {
	all := p.collection(sol)
	if idx < 0 || idx >= len(all) {
		return
	}
	k := p.key(all[idx])
	p.index[k] = append(p.index[k], idx)
}

// Package construction implements the solver's construction phase: a
// greedy, deterministic pass that assigns every planning entity (or list
// target) a reasonable starting value before local search takes over. Each
// entity is placed wherever it currently scores best, trying every
// candidate once via the director's incremental score and keeping the
// winner — never a full from-scratch rescan per candidate.
package construction

import (
	"github.com/gitrdm/gosolve/pkg/solver/director"
	"github.com/gitrdm/gosolve/pkg/solver/model"
	"github.com/gitrdm/gosolve/pkg/solver/score"
)

// GreedyBasicVariable assigns each entity in entities the best-scoring
// value from values, trying every candidate via the director and then
// setting the winner (the first of equally scoring values). Entities are
// processed in the given order. Leaving an entity unassigned is not among
// the candidates: with a non-empty values every entity ends up assigned,
// and with an empty one every entity keeps its current value.
func GreedyBasicVariable[Sol model.BasicVariableModel, S score.Score[S]](d *director.Director[Sol, S], entities []int, values []int) {
	sol := d.Solution()
	for _, e := range entities {
		bestValue := 0
		bestOk := false
		var bestScore S
		first := true
		for _, v := range values {
			d.BeforeEntity(e)
			sol.SetValue(e, v, true)
			d.AfterEntity(e)
			s := d.Score()
			if first || s.CompareTo(bestScore) > 0 {
				bestScore, bestValue, bestOk, first = s, v, true, false
			}
		}
		if !first {
			d.BeforeEntity(e)
			sol.SetValue(e, bestValue, bestOk)
			d.AfterEntity(e)
		}
	}
}

// GreedyListInsertion inserts each target in targets into whichever
// (source, position) currently scores best across every source in
// sources, trying every insertion point once via the director.
func GreedyListInsertion[Sol model.ListVariableModel, S score.Score[S]](d *director.Director[Sol, S], targets []int, sources []int) {
	sol := d.Solution()
	for _, t := range targets {
		bestSource, bestPos := sources[0], 0
		var bestScore S
		first := true
		for _, src := range sources {
			length := sol.ListLen(src)
			for pos := 0; pos <= length; pos++ {
				d.BeforeEntity(src)
				sol.ListInsert(src, pos, t)
				sol.ShadowRecompute(t)
				d.AfterEntity(src)

				s := d.Score()
				if first || s.CompareTo(bestScore) > 0 {
					bestScore, bestSource, bestPos, first = s, src, pos, false
				}

				d.BeforeEntity(src)
				sol.ListRemove(src, pos)
				d.AfterEntity(src)
			}
		}
		d.BeforeEntity(bestSource)
		sol.ListInsert(bestSource, bestPos, t)
		sol.ShadowRecompute(t)
		d.AfterEntity(bestSource)
	}
}

package main

import (
	"math/rand/v2"

	"github.com/gitrdm/gosolve/pkg/solver/construction"
	"github.com/gitrdm/gosolve/pkg/solver/director"
	"github.com/gitrdm/gosolve/pkg/solver/move"
	"github.com/gitrdm/gosolve/pkg/solver/score"
)

func construct(d *director.Director[*VehicleRoutePlan, score.HardSoft]) {
	plan := d.Solution()
	if len(plan.Vehicles) == 0 {
		return
	}
	targets := make([]int, len(plan.Visits))
	for i := range targets {
		targets[i] = i
	}
	sources := make([]int, len(plan.Vehicles))
	for i := range sources {
		sources[i] = i
	}
	construction.GreedyListInsertion[*VehicleRoutePlan, score.HardSoft](d, targets, sources)
}

// nonEmptySources returns the indices of vehicles whose visit list is not
// empty, the only valid sources for a swap, 2-opt, or relocation pick.
func nonEmptySources(plan *VehicleRoutePlan) []int {
	out := make([]int, 0, len(plan.Vehicles))
	for i, v := range plan.Vehicles {
		if len(v.Visits) > 0 {
			out = append(out, i)
		}
	}
	return out
}

// moveGenerator produces a uniformly random choice among three
// list-variable moves: relocating a visit (possibly to a different
// vehicle), swapping two visits, and reversing a segment of one route
// (2-opt), the classic untangling move for routing problems. A nil
// return tells the local search loop to stop entirely, so it is reserved
// for the case where no visit is assigned anywhere yet.
func moveGenerator(plan *VehicleRoutePlan, rng *rand.Rand) func() move.Move[*VehicleRoutePlan, score.HardSoft] {
	return func() move.Move[*VehicleRoutePlan, score.HardSoft] {
		n := len(plan.Vehicles)
		if n == 0 {
			return nil
		}
		nonEmpty := nonEmptySources(plan)
		if len(nonEmpty) == 0 {
			return nil
		}
		switch rng.IntN(3) {
		case 0:
			srcSource := nonEmpty[rng.IntN(len(nonEmpty))]
			srcLen := len(plan.Vehicles[srcSource].Visits)
			srcPos := rng.IntN(srcLen)
			dstSource := rng.IntN(n)
			dstLen := len(plan.Vehicles[dstSource].Visits)
			if dstSource == srcSource {
				dstLen = srcLen
			}
			dstPos := rng.IntN(dstLen + 1)
			return &move.ListChangeMove[*VehicleRoutePlan, score.HardSoft]{
				SrcSource: srcSource, SrcPos: srcPos,
				DstSource: dstSource, DstPos: dstPos,
			}
		case 1:
			a := nonEmpty[rng.IntN(len(nonEmpty))]
			b := nonEmpty[rng.IntN(len(nonEmpty))]
			return &move.ListSwapMove[*VehicleRoutePlan, score.HardSoft]{
				SourceA: a, PosA: rng.IntN(len(plan.Vehicles[a].Visits)),
				SourceB: b, PosB: rng.IntN(len(plan.Vehicles[b].Visits)),
			}
		default:
			candidates := make([]int, 0, len(nonEmpty))
			for _, src := range nonEmpty {
				if len(plan.Vehicles[src].Visits) >= 2 {
					candidates = append(candidates, src)
				}
			}
			if len(candidates) == 0 {
				source := nonEmpty[rng.IntN(len(nonEmpty))]
				return &move.ListSwapMove[*VehicleRoutePlan, score.HardSoft]{SourceA: source, PosA: 0, SourceB: source, PosB: 0}
			}
			source := candidates[rng.IntN(len(candidates))]
			length := len(plan.Vehicles[source].Visits)
			from := rng.IntN(length - 1)
			to := from + 1 + rng.IntN(length-from-1)
			return &move.TwoOptMove[*VehicleRoutePlan, score.HardSoft]{Source: source, From: from, To: to}
		}
	}
}

package main

import (
	"math/rand/v2"

	"github.com/gitrdm/gosolve/pkg/solver/construction"
	"github.com/gitrdm/gosolve/pkg/solver/director"
	"github.com/gitrdm/gosolve/pkg/solver/move"
	"github.com/gitrdm/gosolve/pkg/solver/score"
)

// construct assigns every shift to whichever employee currently scores best
// for it, in input order.
func construct(d *director.Director[*EmployeeSchedule, score.HardSoftDecimal]) {
	sched := d.Solution()
	entities := make([]int, len(sched.Shifts))
	for i := range entities {
		entities[i] = i
	}
	values := make([]int, len(sched.Employees))
	for i := range values {
		values[i] = i
	}
	if len(values) == 0 {
		return
	}
	construction.GreedyBasicVariable[*EmployeeSchedule, score.HardSoftDecimal](d, entities, values)
}

// moveGenerator returns a next func that produces one random reassignment
// move per call, picking a random shift and a random employee (or leaving
// it unassigned), for local search to try.
func moveGenerator(sched *EmployeeSchedule, rng *rand.Rand) func() move.Move[*EmployeeSchedule, score.HardSoftDecimal] {
	return func() move.Move[*EmployeeSchedule, score.HardSoftDecimal] {
		if len(sched.Shifts) == 0 {
			return nil
		}
		entity := rng.IntN(len(sched.Shifts))
		if len(sched.Employees) == 0 {
			return move.NewChangeMove[*EmployeeSchedule, score.HardSoftDecimal](sched, entity, 0, false)
		}
		// one in (employees+1) chance of trying "unassigned" as the candidate
		pick := rng.IntN(len(sched.Employees) + 1)
		if pick == len(sched.Employees) {
			return move.NewChangeMove[*EmployeeSchedule, score.HardSoftDecimal](sched, entity, 0, false)
		}
		return move.NewChangeMove[*EmployeeSchedule, score.HardSoftDecimal](sched, entity, pick, true)
	}
}

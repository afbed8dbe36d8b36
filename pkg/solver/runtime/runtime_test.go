package runtime_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/gitrdm/gosolve/pkg/solver/constraint"
	"github.com/gitrdm/gosolve/pkg/solver/construction"
	"github.com/gitrdm/gosolve/pkg/solver/director"
	"github.com/gitrdm/gosolve/pkg/solver/localsearch"
	"github.com/gitrdm/gosolve/pkg/solver/move"
	"github.com/gitrdm/gosolve/pkg/solver/runtime"
	"github.com/gitrdm/gosolve/pkg/solver/score"
	"github.com/gitrdm/gosolve/pkg/solver/stream"
)

// assignmentSolution is a minimal basic-variable solution used only to
// exercise the runtime: each entity wants to be assigned the value at the
// same index in target, and the only constraint penalizes a mismatch.
type assignmentSolution struct {
	values   []int
	assigned []bool
	target   []int
}

func (s *assignmentSolution) EntityCount() int     { return len(s.values) }
func (s *assignmentSolution) ValueRangeSize() int  { return len(s.values) }
func (s *assignmentSolution) GetValue(e int) (int, bool) {
	return s.values[e], s.assigned[e]
}
func (s *assignmentSolution) SetValue(e, v int, ok bool) {
	s.values[e], s.assigned[e] = v, ok
}

type assignmentRow struct {
	entity, value, target int
	assigned              bool
}

func matchConstraint() constraint.Constraint[*assignmentSolution, score.HardSoft] {
	rows := stream.ForEach(func(sol *assignmentSolution) []assignmentRow {
		out := make([]assignmentRow, sol.EntityCount())
		for e := range out {
			v, ok := sol.GetValue(e)
			out[e] = assignmentRow{entity: e, value: v, target: sol.target[e], assigned: ok}
		}
		return out
	})
	return stream.AsConstraintUni[*assignmentSolution, assignmentRow, score.HardSoft](
		rows, "matchesTarget", true,
		func(r assignmentRow) score.HardSoft {
			if r.assigned && r.value != r.target {
				return score.OneHard.Negate()
			}
			return score.HardSoft{}
		},
		func(r assignmentRow) string {
			return stream.Justf("entity %d wants %d, got %d", r.entity, r.target, r.value)
		},
	)
}

func newTestDirector(n int) *director.Director[*assignmentSolution, score.HardSoft] {
	sol := &assignmentSolution{
		values:   make([]int, n),
		assigned: make([]bool, n),
		target:   make([]int, n),
	}
	for i := range sol.target {
		sol.target[i] = i
	}
	cs := constraint.NewSet(matchConstraint())
	return director.New[*assignmentSolution, score.HardSoft](sol, cs)
}

func TestRunPublishesConstructionThenBestImprovingSteps(t *testing.T) {
	d := newTestDirector(5)

	construct := func(d *director.Director[*assignmentSolution, score.HardSoft]) {
		entities := make([]int, d.Solution().EntityCount())
		values := make([]int, d.Solution().ValueRangeSize())
		for i := range entities {
			entities[i] = i
		}
		for i := range values {
			values[i] = i
		}
		construction.GreedyBasicVariable[*assignmentSolution, score.HardSoft](d, entities, values)
	}

	rng := rand.New(rand.NewSource(1))
	next := func() move.Move[*assignmentSolution, score.HardSoft] {
		sol := d.Solution()
		e := rng.Intn(sol.EntityCount())
		v := rng.Intn(sol.ValueRangeSize())
		return move.NewChangeMove[*assignmentSolution, score.HardSoft](sol, e, v, true)
	}

	cfg := runtime.Config{LocalSearch: localsearch.Config{HistorySize: 10, StepLimit: 20}}
	publish := make(chan runtime.Update[*assignmentSolution, score.HardSoft], 64)

	runtime.Run(context.Background(), d, cfg, construct, next, publish)

	var updates []runtime.Update[*assignmentSolution, score.HardSoft]
	for u := range publish {
		updates = append(updates, u)
	}

	if len(updates) == 0 {
		t.Fatal("expected at least the post-construction update")
	}
	if updates[0].Step != -1 {
		t.Fatalf("expected first update to be the post-construction marker, got step %d", updates[0].Step)
	}
	if !updates[0].Score.IsFeasible() {
		t.Fatalf("expected greedy construction to find a feasible assignment, got %s", updates[0].Score)
	}
	// Every assignment is achievable (target values fit inside the range),
	// so construction alone should already reach the best possible score.
	if updates[0].Score.CompareTo(score.HardSoft{}) != 0 {
		t.Fatalf("expected a perfect score after construction, got %s", updates[0].Score)
	}
	for i := 1; i < len(updates); i++ {
		if updates[i].Step < 0 {
			t.Fatalf("expected update %d to come from a local search step, got step %d", i, updates[i].Step)
		}
		if updates[i].Score.CompareTo(updates[i-1].Score) <= 0 {
			t.Fatalf("expected update %d to improve on %s, got %s", i, updates[i-1].Score, updates[i].Score)
		}
	}
}

func TestRunStopsOnContextCancellation(t *testing.T) {
	d := newTestDirector(3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	publish := make(chan runtime.Update[*assignmentSolution, score.HardSoft], 4)
	runtime.Run(ctx, d, runtime.DefaultConfig(), func(*director.Director[*assignmentSolution, score.HardSoft]) {}, func() move.Move[*assignmentSolution, score.HardSoft] {
		t.Fatal("next should not be called once the context is already cancelled")
		return nil
	}, publish)

	for range publish {
	}
}

func TestRegistrySolveTransitionsToNotSolvingAndRecoversPanics(t *testing.T) {
	reg := runtime.NewRegistry[*assignmentSolution, score.HardSoft](2)
	defer reg.Shutdown()

	sol := &assignmentSolution{values: []int{0}, assigned: []bool{false}, target: []int{0}}
	cs := constraint.NewSet(matchConstraint())

	panicked := make(chan any, 1)
	_, updates, err := reg.Solve(
		context.Background(), "job-1", sol, cs,
		runtime.Config{LocalSearch: localsearch.Config{HistorySize: 5}, TimeLimit: 50 * time.Millisecond},
		func(*director.Director[*assignmentSolution, score.HardSoft]) {},
		func() move.Move[*assignmentSolution, score.HardSoft] { panic("boom") },
		func(id string, recovered any) { panicked <- recovered },
	)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	for range updates {
	}

	select {
	case <-panicked:
	case <-time.After(time.Second):
		t.Fatal("expected the panicking move to be recovered")
	}

	job, ok := reg.Get("job-1")
	if !ok {
		t.Fatal("expected job-1 to be registered")
	}
	deadline := time.Now().Add(time.Second)
	for job.Status() != runtime.StatusNotSolving && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if job.Status() != runtime.StatusNotSolving {
		t.Fatalf("expected job to settle to NOT_SOLVING, got %s", job.Status())
	}
}

func TestRegistryStopCancelsInFlightSolve(t *testing.T) {
	reg := runtime.NewRegistry[*assignmentSolution, score.HardSoft](1)
	defer reg.Shutdown()

	sol := &assignmentSolution{values: []int{0, 0}, assigned: []bool{false, false}, target: []int{0, 1}}
	cs := constraint.NewSet(matchConstraint())

	job, updates, err := reg.Solve(
		context.Background(), "job-2", sol, cs,
		runtime.Config{LocalSearch: localsearch.Config{HistorySize: 5}},
		func(*director.Director[*assignmentSolution, score.HardSoft]) {},
		func() move.Move[*assignmentSolution, score.HardSoft] {
			return move.NewChangeMove[*assignmentSolution, score.HardSoft](sol, 0, 0, true)
		},
		nil,
	)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	job.Stop()
	deadline := time.Now().Add(time.Second)
	for range updates {
		if time.Now().After(deadline) {
			t.Fatal("solve did not stop after Stop()")
		}
	}
	if job.Status() != runtime.StatusNotSolving {
		t.Fatalf("expected stopped job to report NOT_SOLVING, got %s", job.Status())
	}
}

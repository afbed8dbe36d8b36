package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestJobStartedIncrementsActiveSolvesAndStarted(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.JobStarted()
	m.JobStarted()

	if got := testutil.ToFloat64(m.ActiveSolves); got != 2 {
		t.Fatalf("expected 2 active solves, got %v", got)
	}
	if got := testutil.ToFloat64(m.JobsStarted); got != 2 {
		t.Fatalf("expected 2 jobs started, got %v", got)
	}
}

func TestJobOutcomeDecrementsActiveAndLabelsOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.JobStarted()
	m.JobOutcome("solved", 2*time.Second)

	if got := testutil.ToFloat64(m.ActiveSolves); got != 0 {
		t.Fatalf("expected active solves back to 0, got %v", got)
	}
	if got := testutil.ToFloat64(m.JobsCompleted.WithLabelValues("solved")); got != 1 {
		t.Fatalf("expected 1 solved completion, got %v", got)
	}
	if got := testutil.ToFloat64(m.JobsCompleted.WithLabelValues("panicked")); got != 0 {
		t.Fatalf("expected 0 panicked completions, got %v", got)
	}
}

func TestStepObservedTracksAcceptedVsEvaluated(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.StepObserved(false, 0, 0)
	m.StepObserved(true, -1, 3)

	if got := testutil.ToFloat64(m.MovesEvaluated); got != 2 {
		t.Fatalf("expected 2 moves evaluated, got %v", got)
	}
	if got := testutil.ToFloat64(m.StepsAccepted); got != 1 {
		t.Fatalf("expected 1 accepted step, got %v", got)
	}
	if got := testutil.ToFloat64(m.ScoreHard); got != -1 {
		t.Fatalf("expected last hard score -1, got %v", got)
	}
	if got := testutil.ToFloat64(m.ScoreSoft); got != 3 {
		t.Fatalf("expected last soft score 3, got %v", got)
	}
}

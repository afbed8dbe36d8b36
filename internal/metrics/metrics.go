// Package metrics exposes the solver's Prometheus metrics: how many jobs
// are solving right now, how fast moves and steps are being evaluated, and
// basic counters per job outcome. Both command applications share one
// registry instance, created at startup and wired to /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every metric the solver publishes.
type Registry struct {
	ActiveSolves   prometheus.Gauge
	JobsStarted    prometheus.Counter
	JobsCompleted  *prometheus.CounterVec // label "outcome": solved, cancelled, panicked
	StepsAccepted  prometheus.Counter
	MovesEvaluated prometheus.Counter
	ScoreHard      prometheus.Gauge
	ScoreSoft      prometheus.Gauge
	SolveDuration  prometheus.Histogram
}

// New builds a metrics registry and registers its collectors against reg
// (prometheus.DefaultRegisterer in main.go; an isolated
// prometheus.NewRegistry() in tests that also want isolated gathering via
// Gather instead of the process-wide Handler).
func New(reg prometheus.Registerer) *Registry {
	m := &Registry{
		ActiveSolves: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gosolve_active_solves",
			Help: "Number of solve jobs currently in the SOLVING state.",
		}),
		JobsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gosolve_jobs_started_total",
			Help: "Total number of solve jobs submitted.",
		}),
		JobsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gosolve_jobs_completed_total",
			Help: "Total number of solve jobs that reached NOT_SOLVING, by outcome.",
		}, []string{"outcome"}),
		StepsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gosolve_local_search_steps_accepted_total",
			Help: "Total number of local search moves accepted across every job.",
		}),
		MovesEvaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gosolve_local_search_moves_evaluated_total",
			Help: "Total number of local search moves tried (accepted or not) across every job.",
		}),
		ScoreHard: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gosolve_last_score_hard",
			Help: "Hard level of the most recently published score across all jobs.",
		}),
		ScoreSoft: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gosolve_last_score_soft",
			Help: "Soft level of the most recently published score across all jobs.",
		}),
		SolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gosolve_solve_duration_seconds",
			Help:    "Wall-clock duration of a solve job from submission to NOT_SOLVING.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}),
	}

	reg.MustRegister(
		m.ActiveSolves,
		m.JobsStarted,
		m.JobsCompleted,
		m.StepsAccepted,
		m.MovesEvaluated,
		m.ScoreHard,
		m.ScoreSoft,
		m.SolveDuration,
	)
	return m
}

// Handler returns the HTTP handler to mount at /metrics, serving whatever
// is registered against prometheus.DefaultRegisterer. Use this only when
// New was called with prometheus.DefaultRegisterer; a Registry built over
// an isolated registry should scrape it directly instead (see tests).
func (m *Registry) Handler() http.Handler { return promhttp.Handler() }

// JobStarted records a newly submitted solve job.
func (m *Registry) JobStarted() {
	m.JobsStarted.Inc()
	m.ActiveSolves.Inc()
}

// JobOutcome records a solve job reaching NOT_SOLVING after d wall-clock
// time, with outcome one of "solved", "cancelled", "panicked".
func (m *Registry) JobOutcome(outcome string, d time.Duration) {
	m.ActiveSolves.Dec()
	m.JobsCompleted.WithLabelValues(outcome).Inc()
	m.SolveDuration.Observe(d.Seconds())
}

// StepObserved records one local search iteration: always a move
// evaluation, and (when accepted) a step plus the score it moved to.
func (m *Registry) StepObserved(accepted bool, hard, soft float64) {
	m.MovesEvaluated.Inc()
	if !accepted {
		return
	}
	m.StepsAccepted.Inc()
	m.ScoreHard.Set(hard)
	m.ScoreSoft.Set(soft)
}

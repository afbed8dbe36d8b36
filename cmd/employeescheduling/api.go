package main

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/gitrdm/gosolve/internal/metrics"
	"github.com/gitrdm/gosolve/pkg/solver/director"
	"github.com/gitrdm/gosolve/pkg/solver/runtime"
	"github.com/gitrdm/gosolve/pkg/solver/score"
)

// API wires the employee scheduling REST surface to a solve job registry.
type API struct {
	jobs    *runtime.Registry[*EmployeeSchedule, score.HardSoftDecimal]
	cfg     runtime.Config
	metrics *metrics.Registry
	log     zerolog.Logger
}

// NewAPI builds the router for the employee scheduling application.
func NewAPI(jobs *runtime.Registry[*EmployeeSchedule, score.HardSoftDecimal], cfg runtime.Config, m *metrics.Registry, log zerolog.Logger) *mux.Router {
	a := &API{jobs: jobs, cfg: cfg, metrics: m, log: log}

	r := mux.NewRouter()
	r.Use(a.loggingMiddleware)
	r.HandleFunc("/health", a.health).Methods(http.MethodGet)
	r.HandleFunc("/info", a.info).Methods(http.MethodGet)
	r.HandleFunc("/demo-data", a.listDemoData).Methods(http.MethodGet)
	r.HandleFunc("/demo-data/{id}", a.getDemoData).Methods(http.MethodGet)
	r.HandleFunc("/schedules", a.createSchedule).Methods(http.MethodPost)
	r.HandleFunc("/schedules/analyze", a.analyzeSchedule).Methods(http.MethodPut)
	r.HandleFunc("/schedules/{id}", a.getSchedule).Methods(http.MethodGet)
	r.HandleFunc("/schedules/{id}", a.deleteSchedule).Methods(http.MethodDelete)
	r.HandleFunc("/schedules/{id}/status", a.getStatus).Methods(http.MethodGet)
	if m != nil {
		r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	}
	return r
}

func (a *API) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		a.log.Info().Str("method", r.Method).Str("path", r.URL.Path).Dur("duration", time.Since(start)).Msg("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "UP"})
}

func (a *API) info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, InfoResponse{
		Name:         "employee-scheduling",
		Version:      "1.0.0",
		SolverEngine: "gosolve",
	})
}

func (a *API) listDemoData(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ListDemoDatasets())
}

func (a *API) getDemoData(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sched, err := GenerateDemoData(DemoDataset(id))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, scheduleToDTO(sched))
}

// createSchedule submits a new solve job: it registers the job under a fresh
// id and returns that id immediately while the job solves, matching the quickstart's
// fire-and-poll workflow (the client later polls /schedules/{id} or
// /schedules/{id}/status).
func (a *API) createSchedule(w http.ResponseWriter, r *http.Request) {
	var dto ScheduleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "invalid schedule payload: "+err.Error())
		return
	}
	sched, err := dto.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sched.SolverStatus = string(runtime.StatusSolving)

	id := uuid.New().String()
	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	_, updates, err := a.jobs.Solve(
		context.Background(), id, sched, buildConstraints(), a.cfg,
		construct, moveGenerator(sched, rng),
		func(jobID string, recovered any) {
			a.log.Error().Str("job", jobID).Any("panic", recovered).Msg("solve job recovered from panic")
		},
	)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if a.metrics != nil {
		a.metrics.JobStarted()
	}
	go a.drain(id, updates)

	writeJSON(w, http.StatusOK, id)
}

func (a *API) drain(id string, updates <-chan runtime.Update[*EmployeeSchedule, score.HardSoftDecimal]) {
	start := time.Now()
	var last runtime.Update[*EmployeeSchedule, score.HardSoftDecimal]
	for u := range updates {
		last = u
		if a.metrics != nil {
			a.metrics.StepObserved(u.Step >= 0, float64(u.Score.Hard), float64(u.Score.Soft))
		}
	}
	last.Solution.SolverStatus = string(runtime.StatusNotSolving)
	if a.metrics != nil {
		a.metrics.JobOutcome("solved", time.Since(start))
	}
}

func (a *API) getSchedule(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	job, ok := a.jobs.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown schedule id "+id)
		return
	}
	sched, sc := job.Snapshot()
	sched.Score = sc
	sched.SolverStatus = string(job.Status())
	writeJSON(w, http.StatusOK, scheduleToDTO(sched))
}

func (a *API) getStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	job, ok := a.jobs.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown schedule id "+id)
		return
	}
	_, sc := job.Snapshot()
	str := sc.String()
	writeJSON(w, http.StatusOK, StatusResponse{Score: &str, Status: string(job.Status())})
}

func (a *API) deleteSchedule(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	a.jobs.Remove(id)
	w.WriteHeader(http.StatusNoContent)
}

// analyzeSchedule bypasses the job registry entirely: it builds a throwaway
// director over the submitted schedule and returns a full per-constraint
// breakdown, never mutating any registered job.
func (a *API) analyzeSchedule(w http.ResponseWriter, r *http.Request) {
	var dto ScheduleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "invalid schedule payload: "+err.Error())
		return
	}
	sched, err := dto.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	d := director.New[*EmployeeSchedule, score.HardSoftDecimal](sched, buildConstraints())
	breakdown := d.EvaluateDetailed()
	writeJSON(w, http.StatusOK, analyzeResponseFromBreakdown(d.Score(), breakdown))
}

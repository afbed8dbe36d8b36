package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/gitrdm/gosolve/internal/metrics"
	"github.com/gitrdm/gosolve/pkg/routing"
	"github.com/gitrdm/gosolve/pkg/solver/director"
	"github.com/gitrdm/gosolve/pkg/solver/runtime"
	"github.com/gitrdm/gosolve/pkg/solver/score"
)

// API wires the vehicle routing REST and SSE surface to a solve job
// registry, optionally routing distances through a real road network
// fetched on demand instead of the haversine fallback.
type API struct {
	jobs    *runtime.Registry[*VehicleRoutePlan, score.HardSoft]
	cfg     runtime.Config
	metrics *metrics.Registry
	log     zerolog.Logger
	roads   *routing.Fetcher // nil when config selects the haversine-only network
}

// NewAPI builds the router for the vehicle routing application. roads is
// nil when solver.road_network is "haversine": every handler then serves
// the fast, no-network-call estimate instead of attempting a download.
func NewAPI(jobs *runtime.Registry[*VehicleRoutePlan, score.HardSoft], cfg runtime.Config, m *metrics.Registry, log zerolog.Logger, roads *routing.Fetcher) *mux.Router {
	a := &API{jobs: jobs, cfg: cfg, metrics: m, log: log, roads: roads}

	r := mux.NewRouter()
	r.Use(a.loggingMiddleware)
	r.HandleFunc("/health", a.health).Methods(http.MethodGet)
	r.HandleFunc("/info", a.info).Methods(http.MethodGet)
	r.HandleFunc("/demo-data", a.listDemoData).Methods(http.MethodGet)
	r.HandleFunc("/demo-data/{id}", a.getDemoData).Methods(http.MethodGet)
	r.HandleFunc("/demo-data/{id}/stream", a.streamDemoData).Methods(http.MethodGet)
	r.HandleFunc("/route-plans", a.createRoutePlan).Methods(http.MethodPost)
	r.HandleFunc("/route-plans/{id}", a.getRoutePlan).Methods(http.MethodGet)
	r.HandleFunc("/route-plans/{id}", a.deleteRoutePlan).Methods(http.MethodDelete)
	r.HandleFunc("/route-plans/{id}/status", a.getStatus).Methods(http.MethodGet)
	r.HandleFunc("/route-plans/analyze", a.analyzeRoutePlan).Methods(http.MethodPut)
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
		Name:         "vehicle-routing",
		Version:      "1.0.0",
		SolverEngine: "gosolve",
	})
}

func (a *API) listDemoData(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ListDemoDatasets())
}

// usesRealRoads reports whether the request asked for road-network routing
// via ?routing=real_roads, and whether this API instance has one to use.
func (a *API) usesRealRoads(r *http.Request) bool {
	return a.roads != nil && r.URL.Query().Get("routing") == "real_roads"
}

func (a *API) getDemoData(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	plan, err := GenerateDemoData(DemoDataset(id))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if a.usesRealRoads(r) {
		if err := a.loadRoadNetwork(r.Context(), plan, nil); err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, planToDTO(plan, string(runtime.StatusNotSolving)))
}

// sseWriter emits one named Server-Sent Events message per call, flushing
// immediately so a streaming client sees it without buffering delay.
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func newSSEWriter(w http.ResponseWriter) (*sseWriter, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, false
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	return &sseWriter{w: w, flusher: flusher}, true
}

func (s *sseWriter) send(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, data)
	s.flusher.Flush()
}

type progressEvent struct {
	Event   string `json:"event"`
	Phase   string `json:"phase"`
	Message string `json:"message"`
	Percent int    `json:"percent"`
	Detail  string `json:"detail,omitempty"`
}

type solutionEvent struct {
	Event    string              `json:"event"`
	Solution VehicleRoutePlanDTO `json:"solution"`
	Score    string              `json:"score"`
}

type completeEvent struct {
	Event    string               `json:"event"`
	Solution *VehicleRoutePlanDTO `json:"solution,omitempty"`
}

type errorEvent struct {
	Event   string `json:"event"`
	Message string `json:"message"`
}

// loadRoadNetwork fetches and applies a road network over plan's bounding
// box, publishing progress events as it goes when sse is non-nil. A
// download failure never aborts a solve: the plan keeps the haversine
// matrix Finalize already populated, and an error event (if streaming) is
// the only externally visible sign a real-roads request fell back.
func (a *API) loadRoadNetwork(ctx context.Context, plan *VehicleRoutePlan, sse *sseWriter) error {
	if sse != nil {
		sse.send("progress", progressEvent{Event: "progress", Phase: "downloading", Message: "Downloading road network", Percent: 10})
	}
	sw, ne := plan.BoundingBox()
	bbox := routing.BoundingBox{MinLat: sw[0], MinLng: sw[1], MaxLat: ne[0], MaxLng: ne[1]}.Expand(0.1)

	network, err := a.roads.LoadOrFetch(ctx, bbox)
	if err != nil {
		if sse != nil {
			sse.send("error", errorEvent{Event: "error", Message: "road network unavailable, using straight-line estimate: " + err.Error()})
		}
		return nil
	}
	if sse != nil {
		sse.send("progress", progressEvent{Event: "progress", Phase: "computing", Message: "Computing travel times", Percent: 50})
	}

	coords := make([][2]float64, len(plan.Locations))
	for i, loc := range plan.Locations {
		coords[i] = [2]float64{loc.Latitude, loc.Longitude}
	}
	total := len(coords)
	plan.TravelTimeMatrix = network.ComputeMatrixWithProgress(coords, func(row, _ int) {
		if sse != nil && total > 0 {
			pct := 50 + (row+1)*40/total
			sse.send("progress", progressEvent{Event: "progress", Phase: "computing", Message: "Computing travel times", Percent: pct})
		}
	})

	geometries := network.ComputeAllGeometriesWithProgress(coords, nil)
	plan.RouteGeometries = make(map[routeKey][][2]float64, len(geometries))
	for k, v := range geometries {
		plan.RouteGeometries[routeKey{From: k.From, To: k.To}] = v
	}

	if sse != nil {
		sse.send("progress", progressEvent{Event: "progress", Phase: "complete", Message: "Road network ready", Percent: 100})
	}
	return nil
}

// streamDemoData streams a demo dataset over SSE: progress events while the
// (optional) road network loads, then a single terminal complete event
// carrying the fully-populated plan.
func (a *API) streamDemoData(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	plan, err := GenerateDemoData(DemoDataset(id))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	sse, ok := newSSEWriter(w)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	if a.usesRealRoads(r) {
		_ = a.loadRoadNetwork(r.Context(), plan, sse)
	} else {
		sse.send("progress", progressEvent{Event: "progress", Phase: "complete", Message: "Using straight-line estimate", Percent: 100})
	}
	dto := planToDTO(plan, string(runtime.StatusNotSolving))
	sse.send("complete", completeEvent{Event: "complete", Solution: &dto})
}

// createRoutePlan submits a plan for solving and streams progress: a
// progress event while any requested road network loads, a solution event
// after every improving local search step, and a bare complete event once
// the solve finishes or the client disconnects.
func (a *API) createRoutePlan(w http.ResponseWriter, r *http.Request) {
	var dto VehicleRoutePlanDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "invalid route plan payload: "+err.Error())
		return
	}
	plan, err := dto.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sse, ok := newSSEWriter(w)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	if a.usesRealRoads(r) {
		_ = a.loadRoadNetwork(r.Context(), plan, sse)
	}

	plan.SolverStatus = string(runtime.StatusSolving)
	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	id := uuid.New().String()

	_, updates, err := a.jobs.Solve(
		r.Context(), id, plan, buildConstraints(), a.cfg,
		construct, moveGenerator(plan, rng),
		func(jobID string, recovered any) {
			a.log.Error().Str("job", jobID).Any("panic", recovered).Msg("solve job recovered from panic")
		},
	)
	if err != nil {
		sse.send("error", errorEvent{Event: "error", Message: err.Error()})
		return
	}
	if a.metrics != nil {
		a.metrics.JobStarted()
	}

	start := time.Now()
	for u := range updates {
		if a.metrics != nil {
			a.metrics.StepObserved(u.Step >= 0, float64(u.Score.Hard), float64(u.Score.Soft))
		}
		dto := planToDTO(u.Solution, string(runtime.StatusSolving))
		sse.send("solution", solutionEvent{Event: "solution", Solution: dto, Score: u.Score.String()})
	}
	if a.metrics != nil {
		a.metrics.JobOutcome("solved", time.Since(start))
	}
	sse.send("complete", completeEvent{Event: "complete"})
}

func (a *API) getRoutePlan(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	job, ok := a.jobs.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown route plan id "+id)
		return
	}
	plan, sc := job.Snapshot()
	plan.Score = sc
	plan.SolverStatus = string(job.Status())
	writeJSON(w, http.StatusOK, planToDTO(plan, plan.SolverStatus))
}

func (a *API) getStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	job, ok := a.jobs.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown route plan id "+id)
		return
	}
	_, sc := job.Snapshot()
	str := sc.String()
	writeJSON(w, http.StatusOK, StatusResponse{Score: &str, Status: string(job.Status())})
}

func (a *API) deleteRoutePlan(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	a.jobs.Remove(id)
	w.WriteHeader(http.StatusNoContent)
}

// analyzeRoutePlan bypasses the job registry: it scores the submitted plan
// once against a throwaway director and returns a per-constraint breakdown,
// without ever registering a solve job.
func (a *API) analyzeRoutePlan(w http.ResponseWriter, r *http.Request) {
	var dto VehicleRoutePlanDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "invalid route plan payload: "+err.Error())
		return
	}
	plan, err := dto.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	d := director.New[*VehicleRoutePlan, score.HardSoft](plan, buildConstraints())
	breakdown := d.EvaluateDetailed()
	writeJSON(w, http.StatusOK, analyzeResponseFromBreakdown(d.Score(), breakdown))
}

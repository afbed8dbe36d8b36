package runtime

import (
	"context"
	"fmt"
	"sync"

	"github.com/gitrdm/gosolve/internal/parallel"
	"github.com/gitrdm/gosolve/pkg/solver/constraint"
	"github.com/gitrdm/gosolve/pkg/solver/director"
	"github.com/gitrdm/gosolve/pkg/solver/move"
	"github.com/gitrdm/gosolve/pkg/solver/score"
)

// Status is a solve job's lifecycle state, mirrored directly in the REST
// API's job status responses.
type Status string

const (
	StatusNotSolving Status = "NOT_SOLVING"
	StatusSolving    Status = "SOLVING"
)

// Job tracks one solve: its current best-known solution and score, its
// status, and the cancel function for the solve goroutine backing it. All
// fields are guarded by mu since the REST handlers read them from a
// different goroutine than the one solving.
type Job[Sol any, S score.Score[S]] struct {
	mu          sync.RWMutex
	id          string
	status      Status
	solution    Sol
	sc          S
	hasSolution bool
	cancel      context.CancelFunc
}

// ID returns the job's identifier.
func (j *Job[Sol, S]) ID() string { return j.id }

// Status returns the job's current lifecycle state.
func (j *Job[Sol, S]) Status() Status {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.status
}

// Snapshot returns the job's most recently published solution and score.
func (j *Job[Sol, S]) Snapshot() (Sol, S) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.solution, j.sc
}

func (j *Job[Sol, S]) setStatus(s Status) {
	j.mu.Lock()
	j.status = s
	j.mu.Unlock()
}

// record stores u as the job's snapshot only if it is an improvement over
// (or the first update after) whatever is currently stored, so Snapshot
// never regresses even if an older update is delivered out of order.
func (j *Job[Sol, S]) record(u Update[Sol, S]) {
	j.mu.Lock()
	if !j.hasSolution || u.Score.CompareTo(j.sc) > 0 {
		j.solution, j.sc = u.Solution, u.Score
		j.hasSolution = true
	}
	j.mu.Unlock()
}

// Stop cancels the job's in-flight solve, if any. Safe to call on a job
// that has already finished or never started.
func (j *Job[Sol, S]) Stop() {
	j.mu.RLock()
	cancel := j.cancel
	j.mu.RUnlock()
	if cancel != nil {
		cancel()
	}
}

// Registry holds every job a solver process knows about, keyed by ID, and
// runs solves on a bounded worker pool so a burst of solve requests can't
// spawn an unbounded number of concurrent searches.
type Registry[Sol any, S score.Score[S]] struct {
	mu   sync.RWMutex
	jobs map[string]*Job[Sol, S]
	pool *parallel.WorkerPool
}

// NewRegistry creates a registry backed by a worker pool with the given
// number of concurrent solve slots (non-positive defaults to NumCPU, see
// parallel.NewWorkerPool).
func NewRegistry[Sol any, S score.Score[S]](maxConcurrentSolves int) *Registry[Sol, S] {
	return &Registry[Sol, S]{
		jobs: make(map[string]*Job[Sol, S]),
		pool: parallel.NewWorkerPool(maxConcurrentSolves),
	}
}

// Get returns the job with the given ID, if any.
func (r *Registry[Sol, S]) Get(id string) (*Job[Sol, S], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	return j, ok
}

// Remove deletes a job from the registry, stopping its solve first if it
// is still running.
func (r *Registry[Sol, S]) Remove(id string) {
	r.mu.Lock()
	j, ok := r.jobs[id]
	delete(r.jobs, id)
	r.mu.Unlock()
	if ok {
		j.Stop()
	}
}

// Shutdown stops the registry's worker pool, waiting for in-flight solves
// to observe cancellation and exit.
func (r *Registry[Sol, S]) Shutdown() {
	r.mu.RLock()
	for _, j := range r.jobs {
		j.Stop()
	}
	r.mu.RUnlock()
	r.pool.Shutdown()
}

// Solve registers a new job under id with the given starting solution and
// submits its solve to the worker pool. construct and next are as in
// Run. Solve returns immediately; the caller ranges over the returned
// update channel to observe progress (and may also read the job's Status
// and Snapshot). The solve stalls once that channel's buffer is full and
// nobody is reading it.
//
// Recovers any InvariantViolation (or other panic) raised while solving:
// the job's solve goroutine logs nothing itself (callers pass a logging
// next/construct or wrap onDone) but always transitions to NOT_SOLVING so
// the job never gets stuck reporting SOLVING forever.
func (r *Registry[Sol, S]) Solve(
	ctx context.Context,
	id string,
	solution Sol,
	cs *constraint.Set[Sol, S],
	cfg Config,
	construct func(d *director.Director[Sol, S]),
	next func() move.Move[Sol, S],
	onPanic func(id string, recovered any),
) (*Job[Sol, S], <-chan Update[Sol, S], error) {
	d := director.New[Sol, S](solution, cs)
	jobCtx, cancel := context.WithCancel(ctx)
	j := &Job[Sol, S]{id: id, status: StatusSolving, solution: solution, cancel: cancel}

	r.mu.Lock()
	r.jobs[id] = j
	r.mu.Unlock()

	updates := make(chan Update[Sol, S], 16)
	broadcast := make(chan Update[Sol, S], 16)

	// Run's own defer closes updates on every exit path, normal or
	// panicking, so the forwarder below always terminates; it is the one
	// place that flips the job back to NOT_SOLVING and closes broadcast,
	// so a caller ranging over broadcast never races a close against a
	// still-in-flight send.
	go func() {
		for u := range updates {
			j.record(u)
			broadcast <- u
		}
		j.setStatus(StatusNotSolving)
		close(broadcast)
	}()

	err := r.pool.Submit(ctx, func() {
		defer func() {
			if rec := recover(); rec != nil && onPanic != nil {
				onPanic(id, rec)
			}
		}()
		Run(jobCtx, d, cfg, construct, next, updates)
	})
	if err != nil {
		cancel()
		close(updates)
		return j, broadcast, fmt.Errorf("submit solve job %s: %w", id, err)
	}

	return j, broadcast, nil
}

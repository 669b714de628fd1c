// Package tasks runs asynchronous work keyed by the entity it targets.
//
// A task is identified by a kind ("describe", "thumbnail", "bulk") and an
// entity id. Tasks never hold positional references: when they finish they
// merge their result by id into the catalog, which drops results for ids that
// no longer exist. Duplicate tasks for the same key may run concurrently;
// the last to finish wins.
package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"lumina/internal/logging"
	"lumina/internal/metrics"
	"lumina/internal/workers"
)

// Task kinds.
const (
	KindDescribe  = "describe"
	KindThumbnail = "thumbnail"
	KindBulk      = "bulk"
)

type key struct {
	kind string
	id   string
}

// Tracker bounds and tracks in-flight tasks.
type Tracker struct {
	ctx    context.Context
	sem    *semaphore.Weighted
	wg     sync.WaitGroup
	mu     sync.Mutex
	active map[key]int
}

// NewTracker creates a tracker running at most slots tasks at once. Tasks see
// the values of ctx but are not cancelled with it. slots <= 0 sizes the pool
// for I/O-bound work.
func NewTracker(ctx context.Context, slots int) *Tracker {
	if slots <= 0 {
		slots = workers.ForIO(16)
	}
	return &Tracker{
		ctx:    context.WithoutCancel(ctx),
		sem:    semaphore.NewWeighted(int64(slots)),
		active: make(map[key]int),
	}
}

// Go starts fn for (kind, id) in its own goroutine. fn waits for a free slot
// before running. A panic in fn is logged and counted as an error.
func (t *Tracker) Go(kind, id string, fn func(ctx context.Context) error) {
	k := key{kind: kind, id: id}

	t.mu.Lock()
	t.active[k]++
	t.mu.Unlock()
	metrics.TasksInFlight.WithLabelValues(kind).Inc()

	t.wg.Add(1)
	go func() {
		start := time.Now()
		status := "success"
		defer func() {
			if r := recover(); r != nil {
				logging.Error("Task %s/%s panicked: %v", kind, id, r)
				status = "error"
			}
			t.finish(k, status)
			logging.Debug("Task %s/%s finished in %v (%s)", kind, id, time.Since(start), status)
			t.wg.Done()
		}()

		if err := t.sem.Acquire(t.ctx, 1); err != nil {
			status = "error"
			return
		}
		defer t.sem.Release(1)

		if err := fn(t.ctx); err != nil {
			logging.Warn("Task %s/%s failed: %v", kind, id, err)
			status = "error"
		}
	}()
}

func (t *Tracker) finish(k key, status string) {
	t.mu.Lock()
	t.active[k]--
	if t.active[k] <= 0 {
		delete(t.active, k)
	}
	t.mu.Unlock()

	metrics.TasksInFlight.WithLabelValues(k.kind).Dec()
	metrics.TasksCompletedTotal.WithLabelValues(k.kind, status).Inc()
}

// InFlight returns how many tasks for (kind, id) are queued or running.
func (t *Tracker) InFlight(kind, id string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active[key{kind: kind, id: id}]
}

// Pending returns the total number of queued or running tasks.
func (t *Tracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, c := range t.active {
		n += c
	}
	return n
}

// Wait blocks until every started task has finished.
func (t *Tracker) Wait() {
	t.wg.Wait()
}

// WaitContext is Wait bounded by ctx.
func (t *Tracker) WaitContext(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%d tasks still running: %w", t.Pending(), ctx.Err())
	}
}

package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/marvinkos/pawstore/internal/domain"
	"github.com/marvinkos/pawstore/internal/logger"
	"github.com/marvinkos/pawstore/internal/service"
)

type fakeProcessor struct {
	mu        sync.Mutex
	processed []string
	done      chan string
}

func newFakeProcessor() *fakeProcessor {
	return &fakeProcessor{done: make(chan string, 16)}
}

func (p *fakeProcessor) ProcessJob(_ context.Context, jobID string) service.JobOutcome {
	p.mu.Lock()
	p.processed = append(p.processed, jobID)
	p.mu.Unlock()
	p.done <- jobID
	return service.JobOutcome{JobID: jobID, Status: domain.JobStatusCompleted}
}

func (p *fakeProcessor) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.processed)
}

func (p *fakeProcessor) has(jobID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, id := range p.processed {
		if id == jobID {
			return true
		}
	}
	return false
}

type fakeLister struct {
	mu      sync.Mutex
	pending []domain.EnhancementJob
}

func (l *fakeLister) ListByStatus(_ context.Context, status domain.JobStatus, limit int) ([]domain.EnhancementJob, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if status != domain.JobStatusPending {
		return nil, nil
	}
	out := l.pending
	if len(out) > limit {
		out = out[:limit]
	}
	l.pending = nil
	return out, nil
}

func waitFor(t *testing.T, p *fakeProcessor, jobID string) {
	t.Helper()
	// Check recorded completions rather than draining p.done: with concurrent
	// jobs the channel delivers completions in any order, and discarding a
	// non-matching id would lose it for a later waitFor call.
	deadline := time.Now().Add(2 * time.Second)
	for {
		if p.has(jobID) {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("job %s was not processed in time", jobID)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func testWorker(p *fakeProcessor, l *fakeLister, cfg *Config) *Worker {
	return New(l, p, logger.NewDefault(), cfg)
}

func TestWorkerProcessesEnqueuedJob(t *testing.T) {
	p := newFakeProcessor()
	w := testWorker(p, &fakeLister{}, &Config{Concurrency: 2, PollInterval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	w.Enqueue("job-1")
	waitFor(t, p, "job-1")
}

func TestWorkerSweepsPendingJobs(t *testing.T) {
	p := newFakeProcessor()
	l := &fakeLister{pending: []domain.EnhancementJob{{ID: "job-a"}, {ID: "job-b"}}}
	w := testWorker(p, l, &Config{Concurrency: 2, PollInterval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	waitFor(t, p, "job-a")
	waitFor(t, p, "job-b")
}

func TestWorkerEnqueueNeverBlocks(t *testing.T) {
	p := newFakeProcessor()
	w := testWorker(p, &fakeLister{}, &Config{Concurrency: 1, PollInterval: time.Hour})

	// Worker not running: the buffer fills and further signals are dropped.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			w.Enqueue("job-x")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked")
	}
}

// blockingProcessor holds a job mid-flight until released and records the
// state of the job's context at release time.
type blockingProcessor struct {
	started chan struct{}
	release chan struct{}
	ctxErr  error
}

func newBlockingProcessor() *blockingProcessor {
	return &blockingProcessor{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (p *blockingProcessor) ProcessJob(ctx context.Context, jobID string) service.JobOutcome {
	close(p.started)
	<-p.release
	p.ctxErr = ctx.Err()
	return service.JobOutcome{JobID: jobID, Status: domain.JobStatusCompleted}
}

func TestWorkerFinishesInFlightJobOnCancel(t *testing.T) {
	p := newBlockingProcessor()
	w := New(&fakeLister{}, p, logger.NewDefault(), &Config{Concurrency: 1, PollInterval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(stopped)
	}()

	w.Enqueue("job-1")
	select {
	case <-p.started:
	case <-time.After(2 * time.Second):
		t.Fatal("job was not picked up")
	}

	// Shut the worker down while the job is mid-flight, then let it finish.
	cancel()
	close(p.release)

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not drain after cancel")
	}

	if p.ctxErr != nil {
		t.Errorf("in-flight job's context was cancelled during drain: %v", p.ctxErr)
	}
}

func TestWorkerStopsOnCancel(t *testing.T) {
	p := newFakeProcessor()
	w := testWorker(p, &fakeLister{}, &Config{Concurrency: 1, PollInterval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(stopped)
	}()

	w.Enqueue("job-1")
	waitFor(t, p, "job-1")

	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}

	if p.count() != 1 {
		t.Errorf("expected exactly one processed job, got %d", p.count())
	}
}

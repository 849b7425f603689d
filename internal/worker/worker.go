// Package worker delivers created enhancement jobs to the orchestrator. Jobs
// created through the API are signalled on a channel for immediate pickup; a
// poller sweeps pending rows on an interval so jobs survive a crash or a
// missed signal. Delivery is therefore at-least-once; the orchestrator's
// status check makes redelivery safe.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/marvinkos/pawstore/internal/domain"
	"github.com/marvinkos/pawstore/internal/logger"
	"github.com/marvinkos/pawstore/internal/service"
)

// Processor runs the pipeline for one job id.
type Processor interface {
	ProcessJob(ctx context.Context, jobID string) service.JobOutcome
}

// JobLister lists jobs awaiting processing.
type JobLister interface {
	ListByStatus(ctx context.Context, status domain.JobStatus, limit int) ([]domain.EnhancementJob, error)
}

// Config holds worker tuning knobs.
type Config struct {
	Concurrency  int
	PollInterval time.Duration
	BatchSize    int
	JobTimeout   time.Duration
}

// Worker dispatches enhancement jobs with bounded concurrency.
type Worker struct {
	jobs      JobLister
	processor Processor
	log       *logger.Logger

	notify       chan string
	sem          chan struct{}
	pollInterval time.Duration
	batchSize    int
	jobTimeout   time.Duration
	wg           sync.WaitGroup
}

// New creates a worker.
func New(jobs JobLister, processor Processor, log *logger.Logger, cfg *Config) *Worker {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = 15 * time.Second
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 10
	}
	jobTimeout := cfg.JobTimeout
	if jobTimeout <= 0 {
		jobTimeout = 10 * time.Minute
	}

	return &Worker{
		jobs:         jobs,
		processor:    processor,
		log:          log,
		notify:       make(chan string, concurrency*2),
		sem:          make(chan struct{}, concurrency),
		pollInterval: pollInterval,
		batchSize:    batchSize,
		jobTimeout:   jobTimeout,
	}
}

// Enqueue signals a freshly created job for immediate pickup. Non-blocking;
// when the buffer is full the poller picks the job up instead.
func (w *Worker) Enqueue(jobID string) {
	select {
	case w.notify <- jobID:
	default:
	}
}

// Run processes jobs until the context is cancelled, then waits for in-flight
// jobs to finish; claimed jobs run on a context detached from the run context
// so cancellation never aborts them mid-pipeline. An initial sweep picks up
// jobs left pending by a previous process.
func (w *Worker) Run(ctx context.Context) {
	w.log.WithField(logger.FieldComponent, "worker").Info("Worker started")

	w.sweep(ctx)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Worker stopping, waiting for in-flight jobs")
			w.wg.Wait()
			return
		case jobID := <-w.notify:
			w.dispatch(ctx, jobID)
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// sweep lists pending jobs and dispatches them.
func (w *Worker) sweep(ctx context.Context) {
	jobs, err := w.jobs.ListByStatus(ctx, domain.JobStatusPending, w.batchSize)
	if err != nil {
		if ctx.Err() == nil {
			w.log.WithError(err).Error("Failed to list pending jobs")
		}
		return
	}
	for _, job := range jobs {
		w.dispatch(ctx, job.ID)
	}
}

func (w *Worker) dispatch(ctx context.Context, jobID string) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		select {
		case w.sem <- struct{}{}:
			defer func() { <-w.sem }()
		case <-ctx.Done():
			return
		}

		// A claimed job runs to its terminal status even while the worker is
		// shutting down; cancelling mid-pipeline would strand it in processing.
		// The timeout bounds how long shutdown can drain.
		jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.jobTimeout)
		defer cancel()

		outcome := w.processor.ProcessJob(jobCtx, jobID)
		if outcome.Skipped {
			return
		}
		w.log.WithFields(logger.Fields{
			logger.FieldJobID:  outcome.JobID,
			logger.FieldStatus: string(outcome.Status),
		}).Info("Job finished")
	}()
}

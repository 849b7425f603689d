package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/marvinkos/pawstore/internal/domain"
	"github.com/marvinkos/pawstore/internal/logger"
	"github.com/marvinkos/pawstore/internal/media"
	"github.com/marvinkos/pawstore/internal/repository"
	"github.com/marvinkos/pawstore/internal/secrets"
)

// enhancedSuffix marks the storage name of enhanced assets, e.g. "a_enhanced".
const enhancedSuffix = "_enhanced"

// JobStore is the slice of the job repository the orchestrator mutates.
type JobStore interface {
	GetByID(ctx context.Context, id string) (*domain.EnhancementJob, error)
	MarkProcessing(ctx context.Context, id string) error
	MarkCompleted(ctx context.Context, id, enhancedURL, enhancedPublicID string) error
	MarkFailed(ctx context.Context, id, message string) error
}

// ProductStore is the slice of the product repository the orchestrator uses
// to attach the enhanced media reference.
type ProductStore interface {
	GetByID(ctx context.Context, storeID, productID string) (*domain.Product, error)
	AppendMedia(ctx context.Context, storeID, productID string, file domain.MediaFile) error
}

// JobOutcome reports how a job invocation ended. ProcessJob always returns an
// outcome and never an error: pipeline failures become a FAILED status write,
// not a propagated error, so the invoking runtime never retries a job that
// already reached a terminal, explainable state.
type JobOutcome struct {
	JobID   string
	Status  domain.JobStatus
	Skipped bool   // re-delivery of an already-handled job, nothing was done
	Message string // error message on failure
}

// EnhancementService drives the enhancement pipeline for one job at a time:
// validate, mark processing, resolve credential, download, transform, upload,
// attach to product, mark completed.
type EnhancementService struct {
	jobs     JobStore
	products ProductStore
	media    media.Store
	enhancer Enhancer
	secrets  secrets.Provider
	log      *logger.Logger
}

// NewEnhancementService creates the pipeline orchestrator.
func NewEnhancementService(
	jobs JobStore,
	products ProductStore,
	mediaStore media.Store,
	enhancer Enhancer,
	secretProvider secrets.Provider,
	log *logger.Logger,
) *EnhancementService {
	return &EnhancementService{
		jobs:     jobs,
		products: products,
		media:    mediaStore,
		enhancer: enhancer,
		secrets:  secretProvider,
		log:      log,
	}
}

func (s *EnhancementService) logger(ctx context.Context) *logger.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l
	}
	return s.log
}

// ProcessJob runs the pipeline for the job with the given id. Delivery is
// at-least-once, so the current status is checked first: jobs already in a
// terminal state, or claimed by a concurrent delivery, are skipped.
func (s *EnhancementService) ProcessJob(ctx context.Context, jobID string) JobOutcome {
	ctx = logger.WithFields(ctx, logger.Fields{
		logger.FieldJobID:     jobID,
		logger.FieldComponent: "enhancement",
	})
	log := s.logger(ctx)

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		log.WithError(err).Error("Failed to load enhancement job")
		return JobOutcome{JobID: jobID, Skipped: true, Message: fmt.Sprintf("job not found: %v", err)}
	}

	if job.Status.Terminal() || job.Status == domain.JobStatusProcessing {
		log.WithField(logger.FieldStatus, string(job.Status)).Info("Job already handled, skipping")
		return JobOutcome{JobID: jobID, Status: job.Status, Skipped: true}
	}

	// Required fields are checked before any status write or external call
	if err := job.Validate(); err != nil {
		return s.fail(ctx, job, err)
	}

	// Mark processing before the first external call so pollers see progress.
	// The claim is exclusive; losing it means a concurrent delivery owns the
	// job and this one must not touch it.
	if err := s.jobs.MarkProcessing(ctx, job.ID); err != nil {
		if errors.Is(err, repository.ErrJobNotPending) {
			log.Info("Job claimed by a concurrent delivery, skipping")
			return JobOutcome{JobID: job.ID, Status: domain.JobStatusProcessing, Skipped: true}
		}
		return s.fail(ctx, job, fmt.Errorf("failed to mark job processing: %w", err))
	}

	apiKey, err := s.secrets.APIKey(ctx)
	if err != nil {
		return s.fail(ctx, job, err)
	}

	img, err := s.media.Download(ctx, job.ImageURL)
	if err != nil {
		return s.fail(ctx, job, err)
	}

	if w, h, err := media.Dimensions(img); err != nil {
		log.WithError(err).Warn("Failed to read source image dimensions")
	} else {
		log.WithFields(logger.Fields{"width": w, "height": h}).Debug("Source image downloaded")
	}

	enhanced, err := s.enhancer.Transform(ctx, apiKey, img)
	if err != nil {
		return s.fail(ctx, job, err)
	}

	name := media.DeriveName(job.ImageURL) + enhancedSuffix
	folder := fmt.Sprintf("products/%s", job.StoreID)

	uploaded, err := s.media.Upload(ctx, enhanced, folder, name)
	if err != nil {
		return s.fail(ctx, job, err)
	}

	// The upload has already happened at this point; a missing product fails
	// the job but leaves the uploaded asset behind, which is accepted.
	file := domain.NewEnhancedMediaFile(job.MediaFileID, uploaded.URL, uploaded.PublicID)
	if err := s.products.AppendMedia(ctx, job.StoreID, job.ProductID, file); err != nil {
		return s.fail(ctx, job, err)
	}

	if err := s.jobs.MarkCompleted(ctx, job.ID, uploaded.URL, uploaded.PublicID); err != nil {
		return s.fail(ctx, job, fmt.Errorf("failed to mark job completed: %w", err))
	}

	log.WithFields(logger.Fields{
		logger.FieldStoreID:   job.StoreID,
		logger.FieldProductID: job.ProductID,
	}).Info("Enhancement job completed")

	return JobOutcome{JobID: job.ID, Status: domain.JobStatusCompleted}
}

// fail writes the FAILED status with the cause's message and suppresses the
// error. A failure of the status write itself is logged only, leaving the job
// in its last-written status.
func (s *EnhancementService) fail(ctx context.Context, job *domain.EnhancementJob, cause error) JobOutcome {
	log := s.logger(ctx)
	log.WithError(cause).Error("Enhancement job failed")

	if err := s.jobs.MarkFailed(ctx, job.ID, cause.Error()); err != nil {
		log.WithError(err).Error("Failed to record job failure")
	}

	return JobOutcome{JobID: job.ID, Status: domain.JobStatusFailed, Message: cause.Error()}
}

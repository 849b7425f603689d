package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marvinkos/pawstore/internal/domain"
)

// ErrJobNotPending is returned by MarkProcessing when the job was already
// claimed or finished. Delivery is at-least-once, so concurrent deliveries of
// the same job race to claim it; exactly one wins.
var ErrJobNotPending = errors.New("job is not pending")

// JobRepository handles enhancement job persistence. The job record is only
// ever mutated through the MarkX methods; everything else is immutable after
// creation.
type JobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new JobRepository.
func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a new job record in pending status, assigning an id when
// none is set.
func (r *JobRepository) Create(ctx context.Context, job *domain.EnhancementJob) error {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.Status == "" {
		job.Status = domain.JobStatusPending
	}
	return r.db.WithContext(ctx).Create(job).Error
}

// GetByID retrieves a job by its ID.
func (r *JobRepository) GetByID(ctx context.Context, id string) (*domain.EnhancementJob, error) {
	var job domain.EnhancementJob
	if err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// MarkProcessing atomically claims a pending job. The status guard makes the
// claim exclusive: a concurrent delivery that lost the race gets
// ErrJobNotPending instead of re-running the job.
func (r *JobRepository) MarkProcessing(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&domain.EnhancementJob{}).
		Where("id = ? AND status = ?", id, domain.JobStatusPending).
		Update("status", domain.JobStatusProcessing)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrJobNotPending
	}
	return nil
}

// MarkCompleted transitions the job to completed with the enhancement result.
func (r *JobRepository) MarkCompleted(ctx context.Context, id, enhancedURL, enhancedPublicID string) error {
	return r.db.WithContext(ctx).Model(&domain.EnhancementJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":             domain.JobStatusCompleted,
			"enhanced_image_url": enhancedURL,
			"enhanced_public_id": enhancedPublicID,
		}).Error
}

// MarkFailed transitions the job to failed with a human-readable message.
func (r *JobRepository) MarkFailed(ctx context.Context, id, message string) error {
	return r.db.WithContext(ctx).Model(&domain.EnhancementJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status": domain.JobStatusFailed,
			"error":  message,
		}).Error
}

// ListByStatus retrieves jobs in the given status, oldest first.
func (r *JobRepository) ListByStatus(ctx context.Context, status domain.JobStatus, limit int) ([]domain.EnhancementJob, error) {
	var jobs []domain.EnhancementJob
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Limit(limit).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// CountByStatus counts jobs in the given status.
func (r *JobRepository) CountByStatus(ctx context.Context, status domain.JobStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.EnhancementJob{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

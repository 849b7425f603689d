package domain

import (
	"fmt"
	"time"
)

// JobStatus represents the lifecycle status of an enhancement job.
// Values include JobStatusPending, JobStatusProcessing, JobStatusCompleted, and JobStatusFailed.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether the status is final. Completed and failed jobs
// are never transitioned again.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// EnhancementJob represents one image-enhancement request. A job is created
// in pending status, picked up by the worker, and driven to exactly one
// terminal status. Only status, the result/error fields, and updated_at are
// mutated after creation.
type EnhancementJob struct {
	ID               string    `gorm:"type:text;primaryKey" json:"id"`
	Status           JobStatus `gorm:"type:text;index:idx_enhancement_jobs_status;default:pending" json:"status"`
	ImageURL         string    `gorm:"type:text;not null" json:"image_url"`
	MediaFileID      string    `gorm:"type:text;not null" json:"media_file_id"`
	StoreID          string    `gorm:"type:text;not null;index:idx_enhancement_jobs_store" json:"store_id"`
	ProductID        string    `gorm:"type:text;not null;index:idx_enhancement_jobs_product" json:"product_id"`
	EnhancedImageURL string    `gorm:"type:text" json:"enhanced_image_url,omitempty"`
	EnhancedPublicID string    `gorm:"type:text" json:"enhanced_public_id,omitempty"`
	Error            string    `gorm:"type:text" json:"error,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName returns the database table name for EnhancementJob.
func (EnhancementJob) TableName() string {
	return "enhancement_jobs"
}

// Validate checks that every field required to run the pipeline is present.
func (j *EnhancementJob) Validate() error {
	switch {
	case j.ImageURL == "":
		return fmt.Errorf("missing required field: image_url")
	case j.MediaFileID == "":
		return fmt.Errorf("missing required field: media_file_id")
	case j.StoreID == "":
		return fmt.Errorf("missing required field: store_id")
	case j.ProductID == "":
		return fmt.Errorf("missing required field: product_id")
	}
	return nil
}

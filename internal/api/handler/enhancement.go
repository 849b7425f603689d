package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marvinkos/pawstore/internal/domain"
	"github.com/marvinkos/pawstore/internal/repository"
)

// JobEnqueuer signals a created job for immediate pickup.
type JobEnqueuer interface {
	Enqueue(jobID string)
}

// EnhancementHandler handles enhancement job endpoints.
type EnhancementHandler struct {
	jobs     *repository.JobRepository
	enqueuer JobEnqueuer
}

// NewEnhancementHandler creates a new enhancement handler.
func NewEnhancementHandler(jobs *repository.JobRepository, enqueuer JobEnqueuer) *EnhancementHandler {
	return &EnhancementHandler{jobs: jobs, enqueuer: enqueuer}
}

type createEnhancementRequest struct {
	ImageURL    string `json:"image_url" binding:"required,url"`
	MediaFileID string `json:"media_file_id" binding:"required"`
	StoreID     string `json:"store_id" binding:"required"`
	ProductID   string `json:"product_id" binding:"required"`
}

// CreateJob handles POST /api/v1/enhancements. The job record is created in
// pending status and handed to the worker; the caller polls GetJob for the
// result.
func (h *EnhancementHandler) CreateJob(c *gin.Context) {
	var req createEnhancementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	job := &domain.EnhancementJob{
		ImageURL:    req.ImageURL,
		MediaFileID: req.MediaFileID,
		StoreID:     req.StoreID,
		ProductID:   req.ProductID,
	}
	if err := h.jobs.Create(c.Request.Context(), job); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create enhancement job: " + err.Error(),
		})
		return
	}

	h.enqueuer.Enqueue(job.ID)

	c.JSON(http.StatusAccepted, job)
}

// GetJob handles GET /api/v1/enhancements/:id.
func (h *EnhancementHandler) GetJob(c *gin.Context) {
	id := c.Param("id")

	job, err := h.jobs.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Enhancement job not found",
		})
		return
	}

	c.JSON(http.StatusOK, job)
}

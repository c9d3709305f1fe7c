package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/camden-git/congoaddressmapper/auth"
	"github.com/camden-git/congoaddressmapper/database"
	"github.com/camden-git/congoaddressmapper/models"
)

// AiJobRepository stores processing job descriptors. No worker consumes them.
type AiJobRepository struct {
	store *database.Provider
}

func NewAiJobRepository(store *database.Provider) *AiJobRepository {
	return &AiJobRepository{store: store}
}

func (r *AiJobRepository) Create(ctx context.Context, caller auth.Caller, job *models.AiProcessingJob) error {
	job.ID = strings.TrimSpace(job.ID)
	if job.ID == "" {
		return invalid("id", "is required")
	}
	if !job.JobType.IsValid() {
		return invalid("jobType", fmt.Sprintf("unknown job type %q", job.JobType))
	}
	if len(job.InputData) > 0 && !json.Valid(job.InputData) {
		return invalid("inputData", "must be valid JSON")
	}
	job.Status = models.JobPending
	job.Progress = zeroDecimal(progressPlaces)
	job.OutputData = nil
	job.ErrorMessage = nil
	job.CompletedAt = nil
	if !caller.IsZero() {
		job.CreatedBy = &caller.ID
	}

	db, err := r.store.DB(ctx)
	if err != nil {
		return err
	}
	if err := db.Create(job).Error; err != nil {
		return createErr(err, "ai processing job", job.ID)
	}
	return nil
}

// List returns jobs newest first, optionally restricted to one status.
func (r *AiJobRepository) List(ctx context.Context, status models.JobStatus, limit int) ([]models.AiProcessingJob, error) {
	jobs := []models.AiProcessingJob{}
	db, err := r.store.DB(ctx)
	if err != nil {
		return degradeRead(ctx, jobs, err, "list ai jobs")
	}
	q := db.Order("created_at DESC, id ASC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("failed to list ai processing jobs: %w", err)
	}
	return jobs, nil
}

func (r *AiJobRepository) GetByID(ctx context.Context, id string) (*models.AiProcessingJob, error) {
	db, err := r.store.DB(ctx)
	if err != nil {
		return nil, err
	}
	var job models.AiProcessingJob
	if err := db.Where("id = ?", id).First(&job).Error; err != nil {
		return nil, notFound(err, "ai processing job", id)
	}
	return &job, nil
}

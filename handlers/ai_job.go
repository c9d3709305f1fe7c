package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/camden-git/congoaddressmapper/models"
	"github.com/camden-git/congoaddressmapper/repository"
)

const defaultJobListLimit = 50

type AiJobHandler struct {
	Jobs repository.AiJobRepositoryInterface
}

type createJobRequest struct {
	ID        string          `json:"id"`
	JobType   models.JobType  `json:"jobType"`
	InputData json.RawMessage `json:"inputData"`
}

// List accepts optional status and limit query parameters.
func (h *AiJobHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := nonNegativeInt(q.Get("limit"))
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_filter", "limit "+err.Error())
		return
	}
	if limit == 0 {
		limit = defaultJobListLimit
	}
	jobs, err := h.Jobs.List(r.Context(), models.JobStatus(q.Get("status")), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (h *AiJobHandler) Get(w http.ResponseWriter, r *http.Request) {
	job, err := h.Jobs.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *AiJobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	job := &models.AiProcessingJob{ID: strings.TrimSpace(req.ID), JobType: req.JobType}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if len(req.InputData) > 0 && string(req.InputData) != "null" {
		job.InputData = datatypes.JSON(req.InputData)
	}
	if err := h.Jobs.Create(r.Context(), callerOf(r), job); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

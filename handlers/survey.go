package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/camden-git/congoaddressmapper/models"
	"github.com/camden-git/congoaddressmapper/repository"
)

type SurveyHandler struct {
	Sessions repository.SurveyRepositoryInterface
}

type startSessionRequest struct {
	ID         string `json:"id"`
	ProvinceID string `json:"provinceId"`
}

// Start opens a session for the caller. When the caller already has an
// active session it is returned with 200 instead of 201.
func (h *SurveyHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = uuid.NewString()
	}
	session, started, err := h.Sessions.Start(r.Context(), callerOf(r), id, strings.TrimSpace(req.ProvinceID))
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if started {
		status = http.StatusCreated
	}
	writeJSON(w, status, session)
}

// Active returns the caller's active session, or null when there is none.
func (h *SurveyHandler) Active(w http.ResponseWriter, r *http.Request) {
	session, err := h.Sessions.GetActive(r.Context(), callerOf(r))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusOK, json.RawMessage("null"))
			return
		}
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *SurveyHandler) End(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Sessions.End)
}

func (h *SurveyHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Sessions.Pause)
}

func (h *SurveyHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Sessions.Resume)
}

type sessionTransition func(ctx context.Context, id string) (*models.SurveySession, error)

func (h *SurveyHandler) transition(w http.ResponseWriter, r *http.Request, fn sessionTransition) {
	session, err := fn(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

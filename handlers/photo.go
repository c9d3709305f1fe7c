package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/camden-git/congoaddressmapper/logging"
	"github.com/camden-git/congoaddressmapper/media"
	"github.com/camden-git/congoaddressmapper/models"
	"github.com/camden-git/congoaddressmapper/repository"
	"github.com/camden-git/congoaddressmapper/workers"
)

// PhotoQueue hands uploads to the processing workers.
type PhotoQueue interface {
	QueueJob(job workers.PhotoJob) bool
}

type PhotoHandler struct {
	Photos         repository.PhotoRepositoryInterface
	Store          media.Store
	Queue          PhotoQueue
	MaxUploadBytes int64
}

type createPhotoRequest struct {
	ID          string           `json:"id"`
	AddressID   string           `json:"addressId"`
	URL         string           `json:"url"`
	Type        models.PhotoType `json:"type"`
	Description *string          `json:"description"`
}

func (h *PhotoHandler) ListByAddress(w http.ResponseWriter, r *http.Request) {
	photos, err := h.Photos.ListByAddress(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, photos)
}

// Create records a photo hosted elsewhere.
func (h *PhotoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPhotoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	photo := &models.Photo{
		ID:          strings.TrimSpace(req.ID),
		AddressID:   req.AddressID,
		URL:         req.URL,
		Type:        req.Type,
		Description: req.Description,
	}
	if photo.ID == "" {
		photo.ID = uuid.NewString()
	}
	if err := h.Photos.Create(r.Context(), callerOf(r), photo); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, photo)
}

// Upload stores a multipart "file" for the address and queues it for thumbnailing
// and EXIF extraction. Optional form fields: type, description.
func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	addressID := chi.URLParam(r, "id")
	if addressID == "" || addressID == "." || addressID == ".." || strings.ContainsAny(addressID, `/\`) {
		WriteAPIError(w, http.StatusBadRequest, "invalid_address", "invalid address id")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteAPIError(w, http.StatusRequestEntityTooLarge, "upload_too_large", "photo exceeds the upload limit")
			return
		}
		WriteAPIError(w, http.StatusBadRequest, "invalid_upload", "invalid multipart form: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_upload", "missing form file 'file'")
		return
	}
	defer file.Close()

	if !media.IsSupportedPhoto(header.Filename) {
		WriteAPIError(w, http.StatusBadRequest, "unsupported_media", "only JPEG and PNG photos are accepted")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	rel, err := h.Store.Save(media.AssetTypePhoto, addressID, "", ext, file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	photo := &models.Photo{
		ID:          uuid.NewString(),
		AddressID:   addressID,
		URL:         media.FileURL(rel),
		Type:        models.PhotoType(r.FormValue("type")),
		StoragePath: &rel,
	}
	if d := strings.TrimSpace(r.FormValue("description")); d != "" {
		photo.Description = &d
	}
	if err := h.Photos.Create(r.Context(), callerOf(r), photo); err != nil {
		if delErr := h.Store.Delete(rel); delErr != nil {
			logging.Warn(r.Context(), "failed to remove orphaned upload", slog.String("path", rel), logging.Err(delErr))
		}
		writeError(w, r, err)
		return
	}

	if h.Queue != nil && !h.Queue.QueueJob(workers.PhotoJob{PhotoID: photo.ID, StoragePath: rel}) {
		// stays pending and is picked up again on the next start
		logging.Warn(r.Context(), "photo not queued for processing", slog.String("photo_id", photo.ID))
	}
	writeJSON(w, http.StatusCreated, photo)
}

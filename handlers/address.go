package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/camden-git/congoaddressmapper/database"
	"github.com/camden-git/congoaddressmapper/geo"
	"github.com/camden-git/congoaddressmapper/metrics"
	"github.com/camden-git/congoaddressmapper/models"
	"github.com/camden-git/congoaddressmapper/realtime"
	"github.com/camden-git/congoaddressmapper/repository"
)

// EventPublisher receives address events for websocket clients.
type EventPublisher interface {
	Broadcast(event realtime.Event)
}

type AddressHandler struct {
	Addresses repository.AddressRepositoryInterface
	Events    EventPublisher
	Metrics   *metrics.Metrics
}

type createAddressRequest struct {
	ID                string            `json:"id"`
	FullAddress       string            `json:"fullAddress"`
	Zone              *string           `json:"zone"`
	Street            *string           `json:"street"`
	DoorNumber        *string           `json:"doorNumber"`
	Quartier          *string           `json:"quartier"`
	Commune           *string           `json:"commune"`
	ProvinceID        *string           `json:"provinceId"`
	Latitude          *string           `json:"latitude"`
	Longitude         *string           `json:"longitude"`
	EmergencyContacts json.RawMessage   `json:"emergencyContacts"`
	ServiceIcons      json.RawMessage   `json:"serviceIcons"`
	DataSource        models.DataSource `json:"dataSource"`
	ConfidenceScore   string            `json:"confidenceScore"`
	// accepted for imports; Verify is the only way to set verifiedBy
	VerificationStatus models.VerificationStatus `json:"verificationStatus"`
}

func (req createAddressRequest) model() *models.Address {
	a := &models.Address{
		ID:                 strings.TrimSpace(req.ID),
		FullAddress:        req.FullAddress,
		Zone:               req.Zone,
		Street:             req.Street,
		DoorNumber:         req.DoorNumber,
		Quartier:           req.Quartier,
		Commune:            req.Commune,
		ProvinceID:         req.ProvinceID,
		Latitude:           req.Latitude,
		Longitude:          req.Longitude,
		VerificationStatus: req.VerificationStatus,
		ConfidenceScore:    req.ConfidenceScore,
		DataSource:         req.DataSource,
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if len(req.EmergencyContacts) > 0 && string(req.EmergencyContacts) != "null" {
		a.EmergencyContacts = datatypes.JSON(req.EmergencyContacts)
	}
	if len(req.ServiceIcons) > 0 && string(req.ServiceIcons) != "null" {
		a.ServiceIcons = datatypes.JSON(req.ServiceIcons)
	}
	return a
}

// parseAddressFilter reads the listing filter from the query string.
func parseAddressFilter(r *http.Request) (database.AddressFilter, error) {
	q := r.URL.Query()
	f := database.AddressFilter{
		ProvinceID:         strings.TrimSpace(q.Get("provinceId")),
		VerificationStatus: models.VerificationStatus(strings.TrimSpace(q.Get("verificationStatus"))),
		DataSource:         models.DataSource(strings.TrimSpace(q.Get("dataSource"))),
		Search:             q.Get("search"),
	}
	if f.VerificationStatus != "" && !f.VerificationStatus.IsValid() {
		return f, fmt.Errorf("unknown verificationStatus %q", f.VerificationStatus)
	}
	if f.DataSource != "" && !f.DataSource.IsValid() {
		return f, fmt.Errorf("unknown dataSource %q", f.DataSource)
	}
	var err error
	if f.Limit, err = nonNegativeInt(q.Get("limit")); err != nil {
		return f, fmt.Errorf("limit %w", err)
	}
	if f.Offset, err = nonNegativeInt(q.Get("offset")); err != nil {
		return f, fmt.Errorf("offset %w", err)
	}
	return f, nil
}

func nonNegativeInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("must be a non-negative integer")
	}
	return n, nil
}

func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	f, err := parseAddressFilter(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_filter", err.Error())
		return
	}
	page, err := h.Addresses.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GeoJSON returns the filtered addresses that have coordinates as a FeatureCollection.
func (h *AddressHandler) GeoJSON(w http.ResponseWriter, r *http.Request) {
	f, err := parseAddressFilter(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_filter", err.Error())
		return
	}
	page, err := h.Addresses.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	body, err := geo.AddressFeatures(page.Addresses).MarshalJSON()
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Header().Set("X-Total-Count", strconv.FormatInt(page.Total, 10))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *AddressHandler) Get(w http.ResponseWriter, r *http.Request) {
	address, err := h.Addresses.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, address)
}

func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAddressRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	created, err := h.Addresses.Create(r.Context(), callerOf(r), req.model())
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.Metrics.AddressCreated()
	h.publish(realtime.EventAddressCreated, created)
	writeJSON(w, http.StatusCreated, created)
}

func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	var upd repository.AddressUpdate
	if !decodeJSON(w, r, &upd) {
		return
	}
	updated, err := h.Addresses.Update(r.Context(), callerOf(r), chi.URLParam(r, "id"), upd)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.Metrics.AddressUpdated()
	h.publish(realtime.EventAddressUpdated, updated)
	writeJSON(w, http.StatusOK, updated)
}

func (h *AddressHandler) Verify(w http.ResponseWriter, r *http.Request) {
	verified, err := h.Addresses.Verify(r.Context(), callerOf(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.Metrics.AddressVerified()
	h.publish(realtime.EventAddressVerified, verified)
	writeJSON(w, http.StatusOK, verified)
}

func (h *AddressHandler) ChangeLog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Addresses.ListChangeLog(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *AddressHandler) publish(eventType string, a *models.Address) {
	if h.Events == nil || a == nil {
		return
	}
	ev := realtime.Event{Type: eventType, AddressID: a.ID, Status: string(a.VerificationStatus)}
	if a.ProvinceID != nil {
		ev.ProvinceID = *a.ProvinceID
	}
	h.Events.Broadcast(ev)
}

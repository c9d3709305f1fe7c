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

type BuildingHandler struct {
	Buildings repository.BuildingRepositoryInterface
}

type createBuildingRequest struct {
	ID              string                 `json:"id"`
	AddressID       *string                `json:"addressId"`
	DetectionMethod models.DetectionMethod `json:"detectionMethod"`
	ConfidenceScore string                 `json:"confidenceScore"`
	BuildingType    string                 `json:"buildingType"`
	FloorCount      int                    `json:"floorCount"`
	RoofMaterial    *string                `json:"roofMaterial"`
	PolygonData     json.RawMessage        `json:"polygonData"`
}

func (h *BuildingHandler) ListByAddress(w http.ResponseWriter, r *http.Request) {
	buildings, err := h.Buildings.ListByAddress(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, buildings)
}

func (h *BuildingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBuildingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	b := &models.Building{
		ID:              strings.TrimSpace(req.ID),
		AddressID:       req.AddressID,
		DetectionMethod: req.DetectionMethod,
		ConfidenceScore: req.ConfidenceScore,
		BuildingType:    req.BuildingType,
		FloorCount:      req.FloorCount,
		RoofMaterial:    req.RoofMaterial,
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if len(req.PolygonData) > 0 && string(req.PolygonData) != "null" {
		b.PolygonData = datatypes.JSON(req.PolygonData)
	}
	if err := h.Buildings.Create(r.Context(), b); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/camden-git/congoaddressmapper/models"
	"github.com/camden-git/congoaddressmapper/repository"
)

type RegionHandler struct {
	Regions repository.RegionRepositoryInterface
}

type createProvinceRequest struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Code            string  `json:"code"`
	Population      *int    `json:"population"`
	AreaSqkm        *string `json:"areaSqkm"`
	CapitalCity     *string `json:"capitalCity"`
	TargetAddresses int     `json:"targetAddresses"`
}

func (h *RegionHandler) ListProvinces(w http.ResponseWriter, r *http.Request) {
	provinces, err := h.Regions.ListProvinces(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, provinces)
}

func (h *RegionHandler) GetProvince(w http.ResponseWriter, r *http.Request) {
	province, err := h.Regions.GetProvince(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, province)
}

func (h *RegionHandler) CreateProvince(w http.ResponseWriter, r *http.Request) {
	var req createProvinceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	province := &models.Province{
		ID:              req.ID,
		Name:            req.Name,
		Code:            req.Code,
		Population:      req.Population,
		AreaSqkm:        req.AreaSqkm,
		CapitalCity:     req.CapitalCity,
		TargetAddresses: req.TargetAddresses,
	}
	if err := h.Regions.CreateProvince(r.Context(), province); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, province)
}

func (h *RegionHandler) ListCommunes(w http.ResponseWriter, r *http.Request) {
	communes, err := h.Regions.ListCommunes(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, communes)
}

func (h *RegionHandler) CreateCommune(w http.ResponseWriter, r *http.Request) {
	var commune models.Commune
	if !decodeJSON(w, r, &commune) {
		return
	}
	if err := h.Regions.CreateCommune(r.Context(), &commune); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, commune)
}

func (h *RegionHandler) ListQuartiers(w http.ResponseWriter, r *http.Request) {
	quartiers, err := h.Regions.ListQuartiers(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quartiers)
}

func (h *RegionHandler) CreateQuartier(w http.ResponseWriter, r *http.Request) {
	var quartier models.Quartier
	if !decodeJSON(w, r, &quartier) {
		return
	}
	if err := h.Regions.CreateQuartier(r.Context(), &quartier); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, quartier)
}

package handlers

import (
	"math"
	"net/http"

	"github.com/camden-git/congoaddressmapper/repository"
)

type AnalyticsHandler struct {
	Analytics repository.AnalyticsRepositoryInterface
}

type dashboardResponse struct {
	repository.DashboardStats
	VerificationRate float64 `json:"verificationRate"`
}

func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Analytics.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	rate := math.Round(stats.VerificationRate()*100) / 100
	writeJSON(w, http.StatusOK, dashboardResponse{DashboardStats: stats, VerificationRate: rate})
}

func (h *AnalyticsHandler) ByProvince(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Analytics.ByRegion(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *AnalyticsHandler) ByDataSource(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Analytics.ByDataSource(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

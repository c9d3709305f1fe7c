package handlers

import (
	"context"
	"net/http"

	"github.com/camden-git/congoaddressmapper/auth"
	"github.com/camden-git/congoaddressmapper/database"
	"github.com/camden-git/congoaddressmapper/seed"
)

type Seeder interface {
	Run(ctx context.Context, caller auth.Caller) (seed.Result, error)
}

type AdminHandler struct {
	Seeder Seeder
}

// Seed loads the provinces and sample addresses; it reports what was inserted.
func (h *AdminHandler) Seed(w http.ResponseWriter, r *http.Request) {
	res, err := h.Seeder.Run(r.Context(), callerOf(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type HealthHandler struct {
	Store *database.Provider
}

// Health reports whether the address store can be reached. The API itself
// stays up without a store, so this never fails with a 5xx.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{"status": "ok", "store": "available"}
	db, err := h.Store.DB(r.Context())
	if err == nil {
		sqlDB, dbErr := db.DB()
		if dbErr != nil {
			err = dbErr
		} else {
			err = sqlDB.PingContext(r.Context())
		}
	}
	if err != nil {
		status["store"] = "unavailable"
	}
	writeJSON(w, http.StatusOK, status)
}

package handlers

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/camden-git/congoaddressmapper/logging"
	"github.com/camden-git/congoaddressmapper/media"
)

const assetCacheDuration = 24 * time.Hour

// AssetServer serves uploaded photos and thumbnails from the media store.
// It is mounted on a wildcard route; the wildcard is the storage relative path.
func AssetServer(store media.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		relativePath := chi.URLParam(r, "*")
		if relativePath == "" {
			WriteAPIError(w, http.StatusBadRequest, "invalid_path", "invalid asset path")
			return
		}

		fullPath, err := store.GetFullPath(relativePath)
		if err != nil {
			WriteAPIError(w, http.StatusForbidden, "forbidden", "access denied")
			return
		}

		info, err := os.Stat(fullPath)
		if os.IsNotExist(err) || (err == nil && info.IsDir()) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "asset not found")
			return
		} else if err != nil {
			logging.Error(r.Context(), "failed to stat asset", logging.Err(err))
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}

		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(assetCacheDuration.Seconds())))
		w.Header().Set("Expires", time.Now().Add(assetCacheDuration).Format(http.TimeFormat))
		http.ServeFile(w, r, fullPath)
	}
}

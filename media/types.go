package media

import (
	"strings"
	"time"
)

type AssetType string

const (
	AssetTypePhoto     AssetType = "photo"
	AssetTypeThumbnail AssetType = "thumbnail"
)

// PhotoMetadata is what a survey photo's EXIF block tells us about where and when it was taken.
type PhotoMetadata struct {
	Width       *int       `json:"width,omitempty"`
	Height      *int       `json:"height,omitempty"`
	TakenAt     *time.Time `json:"takenAt,omitempty"`
	Latitude    *float64   `json:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty"`
	CameraMake  *string    `json:"cameraMake,omitempty"`
	CameraModel *string    `json:"cameraModel,omitempty"`
}

// HasLocation reports whether both GPS coordinates were found.
func (m *PhotoMetadata) HasLocation() bool {
	return m != nil && m.Latitude != nil && m.Longitude != nil
}

// FilesURLPrefix is the route uploaded photos and thumbnails are served from.
const FilesURLPrefix = "/api/photos/files/"

// FileURL maps a storage relative path to its public URL.
func FileURL(relativePath string) string {
	return FilesURLPrefix + strings.TrimPrefix(relativePath, "/")
}

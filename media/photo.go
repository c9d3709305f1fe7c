package media

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	// register decoders for image.DecodeConfig
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rwcarlsen/goexif/exif"
)

const (
	ThumbnailJpegQuality = 80
	thumbnailExtension   = ".jpg"
)

var supportedPhotoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// IsSupportedPhoto checks the extension of an uploaded file name.
func IsSupportedPhoto(filename string) bool {
	return supportedPhotoExtensions[strings.ToLower(filepath.Ext(filename))]
}

// GenerateThumbnail fits the photo into a size x size box and saves it as JPEG
// with a random name in dir. It returns the file name.
func GenerateThumbnail(srcPath, dir string, size int) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create thumbnail directory %s: %w", dir, err)
	}

	img, err := imaging.Open(srcPath, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to open image %s: %w", srcPath, err)
	}

	thumb := imaging.Fit(img, size, size, imaging.Lanczos)
	name := uuid.NewString() + thumbnailExtension
	if err := imaging.Save(thumb, filepath.Join(dir, name), imaging.JPEGQuality(ThumbnailJpegQuality)); err != nil {
		return "", fmt.Errorf("failed to save thumbnail for %s: %w", srcPath, err)
	}
	return name, nil
}

// ReadPhotoMetadata reads dimensions and, when present, the EXIF capture time,
// GPS position and camera. A photo without EXIF is not an error.
func ReadPhotoMetadata(path string) (*PhotoMetadata, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("metadata: failed to open file %s: %w", path, err)
	}
	defer file.Close()

	meta := &PhotoMetadata{}
	if cfg, _, err := image.DecodeConfig(file); err == nil {
		w, h := cfg.Width, cfg.Height
		meta.Width, meta.Height = &w, &h
	}

	if _, err := file.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("metadata: failed to seek file %s: %w", path, err)
	}

	x, err := exif.Decode(file)
	if err != nil {
		slog.Debug("no EXIF data", "component", "media", "path", path, "error", err)
		return meta, nil
	}

	if dt, err := x.DateTime(); err == nil {
		utc := dt.UTC()
		meta.TakenAt = &utc
	}
	if lat, long, err := x.LatLong(); err == nil {
		meta.Latitude, meta.Longitude = &lat, &long
	}
	meta.CameraMake = exifString(x, exif.Make)
	meta.CameraModel = exifString(x, exif.Model)
	return meta, nil
}

func exifString(x *exif.Exif, name exif.FieldName) *string {
	tag, err := x.Get(name)
	if err != nil || tag == nil {
		return nil
	}
	val, err := tag.StringVal()
	if err != nil {
		return nil
	}
	val = strings.TrimRight(val, "\x00 ")
	if val == "" {
		return nil
	}
	return &val
}

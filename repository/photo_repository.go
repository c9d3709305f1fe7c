package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/camden-git/congoaddressmapper/auth"
	"github.com/camden-git/congoaddressmapper/database"
	"github.com/camden-git/congoaddressmapper/media"
	"github.com/camden-git/congoaddressmapper/models"
)

type PhotoRepository struct {
	store *database.Provider
}

func NewPhotoRepository(store *database.Provider) *PhotoRepository {
	return &PhotoRepository{store: store}
}

func (r *PhotoRepository) ListByAddress(ctx context.Context, addressID string) ([]models.Photo, error) {
	photos := []models.Photo{}
	db, err := r.store.DB(ctx)
	if err != nil {
		return degradeRead(ctx, photos, err, "list photos")
	}
	if err := db.Where("address_id = ?", addressID).Order("uploaded_at ASC, id ASC").Find(&photos).Error; err != nil {
		return nil, fmt.Errorf("failed to list photos for address %s: %w", addressID, err)
	}
	return photos, nil
}

func (r *PhotoRepository) GetByID(ctx context.Context, id string) (*models.Photo, error) {
	db, err := r.store.DB(ctx)
	if err != nil {
		return nil, err
	}
	var photo models.Photo
	if err := db.Where("id = ?", id).First(&photo).Error; err != nil {
		return nil, notFound(err, "photo", id)
	}
	return &photo, nil
}

// Create records a photo that lives at an external URL, or an upload when
// StoragePath is set; uploads start in the pending processing state.
func (r *PhotoRepository) Create(ctx context.Context, caller auth.Caller, photo *models.Photo) error {
	photo.ID = strings.TrimSpace(photo.ID)
	switch {
	case photo.ID == "":
		return invalid("id", "is required")
	case strings.TrimSpace(photo.AddressID) == "":
		return invalid("addressId", "is required")
	case strings.TrimSpace(photo.URL) == "":
		return invalid("url", "is required")
	}
	if photo.Type == "" {
		photo.Type = models.PhotoSurvey
	} else if !photo.Type.IsValid() {
		return invalid("type", fmt.Sprintf("unknown photo type %q", photo.Type))
	}
	if !caller.IsZero() {
		photo.UploadedBy = &caller.ID
	}
	if photo.StoragePath != nil {
		photo.ProcessingStatus = models.ProcessingPending
	} else {
		photo.ProcessingStatus = models.ProcessingNotRequired
	}

	db, err := r.store.DB(ctx)
	if err != nil {
		return err
	}
	if err := exists(db, &models.Address{}, photo.AddressID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return invalid("addressId", "unknown address")
		}
		return fmt.Errorf("failed to check address %s: %w", photo.AddressID, err)
	}
	if err := db.Create(photo).Error; err != nil {
		return createErr(err, "photo", photo.ID)
	}
	return nil
}

func (r *PhotoRepository) MarkProcessing(ctx context.Context, id string) error {
	db, err := r.store.DB(ctx)
	if err != nil {
		return err
	}
	res := db.Model(&models.Photo{}).Where("id = ?", id).Updates(map[string]any{
		"processing_status": models.ProcessingInProgress,
		"processing_error":  gorm.Expr("NULL"),
	})
	if res.Error != nil {
		return fmt.Errorf("failed to mark photo %s processing: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("photo %s: %w", id, ErrNotFound)
	}
	return nil
}

// UpdateProcessingResult stores the thumbnail and EXIF data produced by a worker.
// Coordinates found in EXIF are only written when the photo has none yet.
func (r *PhotoRepository) UpdateProcessingResult(ctx context.Context, id string, thumbnailURL *string, meta *media.PhotoMetadata, taskErr error) error {
	db, err := r.store.DB(ctx)
	if err != nil {
		return err
	}

	values := map[string]any{
		"processing_status": models.ProcessingDone,
		"processing_error":  nil,
	}
	if taskErr != nil {
		msg := taskErr.Error()
		values["processing_status"] = models.ProcessingError
		values["processing_error"] = msg
	}
	if thumbnailURL != nil {
		values["thumbnail_url"] = *thumbnailURL
	}
	if meta != nil && meta.TakenAt != nil {
		values["taken_at"] = *meta.TakenAt
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var photo models.Photo
		if err := tx.Where("id = ?", id).First(&photo).Error; err != nil {
			return notFound(err, "photo", id)
		}
		if meta.HasLocation() && photo.Latitude == nil && photo.Longitude == nil {
			values["latitude"] = formatFloat(*meta.Latitude, coordinatePlaces)
			values["longitude"] = formatFloat(*meta.Longitude, coordinatePlaces)
		}
		if err := tx.Model(&models.Photo{}).Where("id = ?", id).Updates(values).Error; err != nil {
			return fmt.Errorf("failed to update processing result for photo %s: %w", id, err)
		}
		return nil
	})
}

// ListRequiringProcessing returns uploads whose processing never finished.
func (r *PhotoRepository) ListRequiringProcessing(ctx context.Context) ([]models.Photo, error) {
	db, err := r.store.DB(ctx)
	if err != nil {
		return nil, err
	}
	var photos []models.Photo
	err = db.Where("processing_status IN ?", []string{models.ProcessingPending, models.ProcessingInProgress}).
		Where("storage_path IS NOT NULL").
		Find(&photos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list photos requiring processing: %w", err)
	}
	return photos, nil
}

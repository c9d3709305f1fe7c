package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/facette/natsort"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/camden-git/congoaddressmapper/database"
	"github.com/camden-git/congoaddressmapper/logging"
	"github.com/camden-git/congoaddressmapper/models"
)

type RegionRepository struct {
	store *database.Provider
}

func NewRegionRepository(store *database.Provider) *RegionRepository {
	return &RegionRepository{store: store}
}

// RecomputeProgress sets completed_addresses from a count taken inside the
// UPDATE itself and derives mapping_progress from it. Provinces without a
// positive target are left unchanged.
func (r *RegionRepository) RecomputeProgress(ctx context.Context, provinceID string) error {
	db, err := r.store.DB(ctx)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var province models.Province
		err := tx.Select("id", "target_addresses").Where("id = ?", provinceID).First(&province).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load province %s: %w", provinceID, err)
		}
		if province.TargetAddresses <= 0 {
			return nil
		}

		err = tx.Model(&models.Province{}).
			Where("id = ?", provinceID).
			Update("completed_addresses", gorm.Expr("(SELECT COUNT(*) FROM addresses WHERE province_id = ?)", provinceID)).
			Error
		if err != nil {
			return fmt.Errorf("failed to update completed addresses for province %s: %w", provinceID, err)
		}

		var completed int
		err = tx.Model(&models.Province{}).
			Select("completed_addresses").
			Where("id = ?", provinceID).
			Scan(&completed).Error
		if err != nil {
			return fmt.Errorf("failed to read completed addresses for province %s: %w", provinceID, err)
		}

		progress := progressPercent(completed, province.TargetAddresses)
		err = tx.Model(&models.Province{}).
			Where("id = ?", provinceID).
			Update("mapping_progress", progress).
			Error
		if err != nil {
			return fmt.Errorf("failed to update mapping progress for province %s: %w", provinceID, err)
		}
		return nil
	})
}

func (r *RegionRepository) ListProvinces(ctx context.Context) ([]models.Province, error) {
	provinces := []models.Province{}
	db, err := r.store.DB(ctx)
	if err != nil {
		return degradeRead(ctx, provinces, err, "list provinces")
	}
	if err := db.Order("name ASC").Find(&provinces).Error; err != nil {
		return nil, fmt.Errorf("failed to list provinces: %w", err)
	}
	return provinces, nil
}

func (r *RegionRepository) GetProvince(ctx context.Context, id string) (*models.Province, error) {
	db, err := r.store.DB(ctx)
	if err != nil {
		return nil, err
	}
	var province models.Province
	if err := db.Where("id = ?", id).First(&province).Error; err != nil {
		return nil, notFound(err, "province", id)
	}
	return &province, nil
}

func (r *RegionRepository) CreateProvince(ctx context.Context, province *models.Province) error {
	if err := prepareNewProvince(province); err != nil {
		return err
	}

	db, err := r.store.DB(ctx)
	if err != nil {
		return err
	}
	if err := db.Create(province).Error; err != nil {
		return createErr(err, "province", province.ID)
	}
	logging.Info(ctx, "province created", slog.String("province_id", province.ID))
	return nil
}

// EnsureProvince inserts the province unless a row with the same id or code exists.
// It reports whether a row was inserted.
func (r *RegionRepository) EnsureProvince(ctx context.Context, province *models.Province) (bool, error) {
	if err := prepareNewProvince(province); err != nil {
		return false, err
	}
	db, err := r.store.DB(ctx)
	if err != nil {
		return false, err
	}
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(province)
	if res.Error != nil {
		return false, fmt.Errorf("failed to ensure province %s: %w", province.ID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListCommunes returns the communes of a province in natural code order.
func (r *RegionRepository) ListCommunes(ctx context.Context, provinceID string) ([]models.Commune, error) {
	communes := []models.Commune{}
	db, err := r.store.DB(ctx)
	if err != nil {
		return degradeRead(ctx, communes, err, "list communes")
	}
	if err := db.Where("province_id = ?", provinceID).Find(&communes).Error; err != nil {
		return nil, fmt.Errorf("failed to list communes for province %s: %w", provinceID, err)
	}
	sort.SliceStable(communes, func(i, j int) bool {
		return natsort.Compare(communes[i].Code, communes[j].Code)
	})
	return communes, nil
}

func (r *RegionRepository) CreateCommune(ctx context.Context, commune *models.Commune) error {
	if err := validateRegion(commune.ID, commune.Name, commune.Code); err != nil {
		return err
	}
	db, err := r.store.DB(ctx)
	if err != nil {
		return err
	}
	if commune.ProvinceID != nil {
		if err := exists(db, &models.Province{}, *commune.ProvinceID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return invalid("provinceId", "unknown province")
			}
			return fmt.Errorf("failed to check province %s: %w", *commune.ProvinceID, err)
		}
	}
	if err := db.Create(commune).Error; err != nil {
		return createErr(err, "commune", commune.ID)
	}
	return nil
}

// ListQuartiers returns the quartiers of a commune in natural code order.
func (r *RegionRepository) ListQuartiers(ctx context.Context, communeID string) ([]models.Quartier, error) {
	quartiers := []models.Quartier{}
	db, err := r.store.DB(ctx)
	if err != nil {
		return degradeRead(ctx, quartiers, err, "list quartiers")
	}
	if err := db.Where("commune_id = ?", communeID).Find(&quartiers).Error; err != nil {
		return nil, fmt.Errorf("failed to list quartiers for commune %s: %w", communeID, err)
	}
	sort.SliceStable(quartiers, func(i, j int) bool {
		return natsort.Compare(quartiers[i].Code, quartiers[j].Code)
	})
	return quartiers, nil
}

func (r *RegionRepository) CreateQuartier(ctx context.Context, quartier *models.Quartier) error {
	if err := validateRegion(quartier.ID, quartier.Name, quartier.Code); err != nil {
		return err
	}
	db, err := r.store.DB(ctx)
	if err != nil {
		return err
	}
	if quartier.CommuneID != nil {
		if err := exists(db, &models.Commune{}, *quartier.CommuneID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return invalid("communeId", "unknown commune")
			}
			return fmt.Errorf("failed to check commune %s: %w", *quartier.CommuneID, err)
		}
	}
	if err := db.Create(quartier).Error; err != nil {
		return createErr(err, "quartier", quartier.ID)
	}
	return nil
}

// prepareNewProvince validates a province about to be inserted and resets
// its derived progress columns.
func prepareNewProvince(province *models.Province) error {
	if err := validateRegion(province.ID, province.Name, province.Code); err != nil {
		return err
	}
	if province.TargetAddresses < 0 {
		return invalid("targetAddresses", "must not be negative")
	}
	if province.Population != nil && *province.Population < 0 {
		return invalid("population", "must not be negative")
	}
	area, err := normalizeOptionalDecimal("areaSqkm", province.AreaSqkm, areaPlaces)
	if err != nil {
		return err
	}
	province.AreaSqkm = area
	province.MappingProgress = zeroDecimal(progressPlaces)
	province.CompletedAddresses = 0
	return nil
}

func validateRegion(id, name, code string) error {
	switch {
	case strings.TrimSpace(id) == "":
		return invalid("id", "is required")
	case strings.TrimSpace(name) == "":
		return invalid("name", "is required")
	case strings.TrimSpace(code) == "":
		return invalid("code", "is required")
	}
	return nil
}

func exists(db *gorm.DB, model any, id string) error {
	var n int64
	if err := db.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// degradeRead turns an unavailable store into an empty result with a warning.
// Any other error is returned unchanged.
func degradeRead[T any](ctx context.Context, empty T, err error, op string) (T, error) {
	if errors.Is(err, ErrStoreUnavailable) {
		logging.Warn(ctx, "store unavailable, returning empty result",
			slog.String("op", op), logging.Err(err))
		return empty, nil
	}
	var zero T
	return zero, err
}

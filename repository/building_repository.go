package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/camden-git/congoaddressmapper/database"
	"github.com/camden-git/congoaddressmapper/geo"
	"github.com/camden-git/congoaddressmapper/models"
)

type BuildingRepository struct {
	store *database.Provider
}

func NewBuildingRepository(store *database.Provider) *BuildingRepository {
	return &BuildingRepository{store: store}
}

func (r *BuildingRepository) ListByAddress(ctx context.Context, addressID string) ([]models.Building, error) {
	buildings := []models.Building{}
	db, err := r.store.DB(ctx)
	if err != nil {
		return degradeRead(ctx, buildings, err, "list buildings")
	}
	if err := db.Where("address_id = ?", addressID).Order("created_at ASC").Find(&buildings).Error; err != nil {
		return nil, fmt.Errorf("failed to list buildings for address %s: %w", addressID, err)
	}
	for i := range buildings {
		fillFootprintArea(&buildings[i])
	}
	return buildings, nil
}

// Create validates the footprint polygon, if any, before inserting.
func (r *BuildingRepository) Create(ctx context.Context, building *models.Building) error {
	building.ID = strings.TrimSpace(building.ID)
	if building.ID == "" {
		return invalid("id", "is required")
	}
	if building.DetectionMethod == "" {
		building.DetectionMethod = models.DetectionManual
	} else if !building.DetectionMethod.IsValid() {
		return invalid("detectionMethod", fmt.Sprintf("unknown detection method %q", building.DetectionMethod))
	}
	if building.BuildingType == "" {
		building.BuildingType = "residential"
	}
	if building.FloorCount == 0 {
		building.FloorCount = 1
	} else if building.FloorCount < 0 {
		return invalid("floorCount", "must be positive")
	}
	score, err := normalizeScore("confidenceScore", building.ConfidenceScore)
	if err != nil {
		return err
	}
	building.ConfidenceScore = score

	if len(building.PolygonData) > 0 && string(building.PolygonData) != "null" {
		if _, err := geo.ParseFootprint(building.PolygonData); err != nil {
			if errors.Is(err, geo.ErrInvalidFootprint) {
				return invalid("polygonData", err.Error())
			}
			return err
		}
	}

	db, err := r.store.DB(ctx)
	if err != nil {
		return err
	}
	if building.AddressID != nil {
		if err := exists(db, &models.Address{}, *building.AddressID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return invalid("addressId", "unknown address")
			}
			return fmt.Errorf("failed to check address %s: %w", *building.AddressID, err)
		}
	}
	if err := db.Create(building).Error; err != nil {
		return createErr(err, "building", building.ID)
	}
	fillFootprintArea(building)
	return nil
}

func fillFootprintArea(b *models.Building) {
	if len(b.PolygonData) == 0 {
		return
	}
	g, err := geo.ParseFootprint(b.PolygonData)
	if err != nil {
		return
	}
	area := formatFloat(geo.FootprintArea(g), areaPlaces)
	b.FootprintAreaSqm = &area
}

// Package seed loads the province list and a set of sample addresses.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"

	"github.com/camden-git/congoaddressmapper/auth"
	"github.com/camden-git/congoaddressmapper/logging"
	"github.com/camden-git/congoaddressmapper/models"
	"github.com/camden-git/congoaddressmapper/repository"
)

// Result counts the rows a run actually inserted.
type Result struct {
	Provinces int `json:"provinces"`
	Addresses int `json:"addresses"`
}

type Seeder struct {
	regions   repository.RegionRepositoryInterface
	addresses repository.AddressRepositoryInterface
}

func NewSeeder(regions repository.RegionRepositoryInterface, addresses repository.AddressRepositoryInterface) *Seeder {
	return &Seeder{regions: regions, addresses: addresses}
}

// Run inserts whatever part of the seed data is missing. Running it twice
// inserts nothing the second time. Only administrators may seed.
func (s *Seeder) Run(ctx context.Context, caller auth.Caller) (Result, error) {
	if err := auth.RequireAdmin(caller); err != nil {
		return Result{}, err
	}
	ctx = logging.WithAttrs(ctx, slog.String("component", "seed"), slog.String("caller", caller.ID))

	var res Result
	for _, p := range provinces {
		name, capital, area, population := p.name, p.capital, p.areaSqkm, p.population
		inserted, err := s.regions.EnsureProvince(ctx, &models.Province{
			ID:              p.id,
			Name:            name,
			Code:            p.code,
			CapitalCity:     &capital,
			AreaSqkm:        &area,
			Population:      &population,
			TargetAddresses: population / personsPerHousehold,
		})
		if err != nil {
			return res, fmt.Errorf("failed to seed province %s: %w", p.id, err)
		}
		if inserted {
			res.Provinces++
		}
	}

	for _, a := range addresses {
		_, err := s.addresses.Create(ctx, caller, a.model())
		switch {
		case err == nil:
			res.Addresses++
		case errors.Is(err, repository.ErrConflict):
			// already seeded
			continue
		default:
			return res, fmt.Errorf("failed to seed address %s: %w", a.id, err)
		}
		// verified rows go through Verify so they carry verifiedBy and verifiedAt
		if models.VerificationStatus(a.status) == models.StatusVerified {
			if _, err := s.addresses.Verify(ctx, caller, a.id); err != nil {
				return res, fmt.Errorf("failed to verify seeded address %s: %w", a.id, err)
			}
		}
	}

	logging.Info(ctx, "seed complete", slog.Int("provinces", res.Provinces), slog.Int("addresses", res.Addresses))
	return res, nil
}

func (a addressSeed) model() *models.Address {
	provinceID, zone, street, door, quartier, commune := a.provinceID, a.zone, a.street, a.doorNumber, a.quartier, a.com
	lat, long := a.lat, a.long
	return &models.Address{
		ID:                 a.id,
		FullAddress:        fmt.Sprintf("%s, %s n°%s, Q. %s, C. %s, %s", zone, street, door, quartier, commune, a.city),
		Zone:               &zone,
		Street:             &street,
		DoorNumber:         &door,
		Quartier:           &quartier,
		Commune:            &commune,
		ProvinceID:         &provinceID,
		Latitude:           &lat,
		Longitude:          &long,
		EmergencyContacts:  datatypes.JSON(emergencyContacts),
		ServiceIcons:       datatypes.JSON(a.services),
		VerificationStatus: a.initialStatus(),
		ConfidenceScore:    a.confidence,
		DataSource:         models.DataSource(a.source),
	}
}

// initialStatus is the status the row is inserted with. Verified rows start
// unverified and are verified by the seeding administrator afterwards.
func (a addressSeed) initialStatus() models.VerificationStatus {
	status := models.VerificationStatus(a.status)
	if status == models.StatusVerified {
		return models.StatusUnverified
	}
	return status
}

package cmd

import (
	"github.com/camden-git/congoaddressmapper/config"
	"github.com/camden-git/congoaddressmapper/database"
	"github.com/camden-git/congoaddressmapper/repository"
	"github.com/camden-git/congoaddressmapper/seed"
)

// repositories bundles the repositories every command builds on one store.
type repositories struct {
	store     *database.Provider
	addresses *repository.AddressRepository
	regions   *repository.RegionRepository
	sessions  *repository.SurveyRepository
	analytics *repository.AnalyticsRepository
	buildings *repository.BuildingRepository
	photos    *repository.PhotoRepository
	jobs      *repository.AiJobRepository
	users     *repository.UserRepository
}

func newRepositories(cfg config.DatabaseConfig) *repositories {
	store := database.NewProvider(cfg)
	regions := repository.NewRegionRepository(store)
	sessions := repository.NewSurveyRepository(store)
	return &repositories{
		store:     store,
		addresses: repository.NewAddressRepository(store, regions, sessions),
		regions:   regions,
		sessions:  sessions,
		analytics: repository.NewAnalyticsRepository(store),
		buildings: repository.NewBuildingRepository(store),
		photos:    repository.NewPhotoRepository(store),
		jobs:      repository.NewAiJobRepository(store),
		users:     repository.NewUserRepository(store),
	}
}

func (r *repositories) seeder() *seed.Seeder {
	return seed.NewSeeder(r.regions, r.addresses)
}

package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/camden-git/congoaddressmapper/auth"
	"github.com/camden-git/congoaddressmapper/config"
	"github.com/camden-git/congoaddressmapper/database"
	"github.com/camden-git/congoaddressmapper/models"
)

var (
	surveyor = auth.Caller{ID: "surveyor-1", Role: models.RoleUser}
	reviewer = auth.Caller{ID: "reviewer-1", Role: models.RoleUser}
)

type testRepos struct {
	db        *gorm.DB
	store     *database.Provider
	addresses *AddressRepository
	regions   *RegionRepository
	sessions  *SurveyRepository
	analytics *AnalyticsRepository
	buildings *BuildingRepository
	photos    *PhotoRepository
	jobs      *AiJobRepository
	users     *UserRepository
}

func setupTestDB(t *testing.T) *testRepos {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := database.InitGormDB(config.DatabaseConfig{Driver: "sqlite", DSN: dsn, LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateModels(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	store := database.NewStaticProvider(db)
	regions := NewRegionRepository(store)
	sessions := NewSurveyRepository(store)
	return &testRepos{
		db:        db,
		store:     store,
		addresses: NewAddressRepository(store, regions, sessions),
		regions:   regions,
		sessions:  sessions,
		analytics: NewAnalyticsRepository(store),
		buildings: NewBuildingRepository(store),
		photos:    NewPhotoRepository(store),
		jobs:      NewAiJobRepository(store),
		users:     NewUserRepository(store),
	}
}

func strPtr(s string) *string { return &s }

func (tr *testRepos) mustProvince(t *testing.T, id string, target int) *models.Province {
	t.Helper()
	p := &models.Province{ID: id, Name: "Province " + id, Code: id, TargetAddresses: target}
	require.NoError(t, tr.regions.CreateProvince(context.Background(), p))
	return p
}

func (tr *testRepos) mustAddress(t *testing.T, a models.Address) *models.Address {
	t.Helper()
	created, err := tr.addresses.Create(context.Background(), surveyor, &a)
	require.NoError(t, err)
	return created
}

// base time for addresses that need a deterministic order
var t0 = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

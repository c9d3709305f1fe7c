package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camden-git/congoaddressmapper/auth"
	"github.com/camden-git/congoaddressmapper/config"
	"github.com/camden-git/congoaddressmapper/database"
	"github.com/camden-git/congoaddressmapper/models"
	"github.com/camden-git/congoaddressmapper/repository"
)

var admin = auth.Caller{ID: auth.DemoUserID, Role: models.RoleAdmin}

func setupSeeder(t *testing.T) (*Seeder, *repository.RegionRepository, *repository.AnalyticsRepository) {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "seed.db")
	db, err := database.InitGormDB(config.DatabaseConfig{Driver: "sqlite", DSN: dsn, LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateModels(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	store := database.NewStaticProvider(db)
	regions := repository.NewRegionRepository(store)
	addresses := repository.NewAddressRepository(store, regions, repository.NewSurveyRepository(store))
	return NewSeeder(regions, addresses), regions, repository.NewAnalyticsRepository(store)
}

func TestSeedIsIdempotent(t *testing.T) {
	seeder, regions, analytics := setupSeeder(t)
	ctx := context.Background()

	res, err := seeder.Run(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, Result{Provinces: 26, Addresses: 12}, res)

	res, err = seeder.Run(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)

	kinshasa, err := regions.GetProvince(ctx, "prov-kinshasa")
	require.NoError(t, err)
	assert.Equal(t, 4, kinshasa.CompletedAddresses)
	assert.Equal(t, 17071000/personsPerHousehold, kinshasa.TargetAddresses)
	assert.Equal(t, "9965.00", *kinshasa.AreaSqkm)

	stats, err := analytics.Dashboard(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 12, stats.TotalAddresses)
	assert.EqualValues(t, 6, stats.VerifiedAddresses)
	assert.EqualValues(t, 26, stats.TotalProvinces)
}

func TestSeedVerifiedAddressesCarryVerifier(t *testing.T) {
	seeder, _, _ := setupSeeder(t)
	ctx := context.Background()

	_, err := seeder.Run(ctx, admin)
	require.NoError(t, err)

	for _, a := range addresses {
		want := models.VerificationStatus(a.status)
		got, err := seeder.addresses.GetByID(ctx, a.id)
		require.NoError(t, err)
		assert.Equal(t, want, got.VerificationStatus, a.id)
		if want == models.StatusVerified {
			require.NotNil(t, got.VerifiedBy, a.id)
			assert.Equal(t, admin.ID, *got.VerifiedBy)
			assert.NotNil(t, got.VerifiedAt, a.id)
		} else {
			assert.Nil(t, got.VerifiedBy, a.id)
			assert.Nil(t, got.VerifiedAt, a.id)
		}
	}
}

func TestSeedRequiresAdmin(t *testing.T) {
	seeder, _, _ := setupSeeder(t)

	_, err := seeder.Run(context.Background(), auth.Caller{ID: "u1", Role: models.RoleUser})
	require.ErrorIs(t, err, auth.ErrForbidden)

	_, err = seeder.Run(context.Background(), auth.Caller{})
	require.ErrorIs(t, err, auth.ErrUnauthorized)
}

func TestSeedDataIsConsistent(t *testing.T) {
	assert.Len(t, provinces, 26)
	codes := map[string]bool{}
	ids := map[string]bool{}
	for _, p := range provinces {
		assert.False(t, codes[p.code], "duplicate code %s", p.code)
		codes[p.code] = true
		ids[p.id] = true
	}
	for _, a := range addresses {
		assert.True(t, ids[a.provinceID], "address %s references unknown province", a.id)
		assert.True(t, models.VerificationStatus(a.status).IsValid())
		assert.True(t, models.DataSource(a.source).IsValid())
	}
}

package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/camden-git/congoaddressmapper/database"
	"github.com/camden-git/congoaddressmapper/models"
)

func TestCreateAddressAppliesDefaults(t *testing.T) {
	tr := setupTestDB(t)

	created := tr.mustAddress(t, models.Address{ID: "addr-1", FullAddress: "12 Avenue Lumumba, Gombe"})

	assert.Equal(t, models.StatusUnverified, created.VerificationStatus)
	assert.Equal(t, models.SourceManualSurvey, created.DataSource)
	assert.Equal(t, "0.00", created.ConfidenceScore)
	require.NotNil(t, created.CreatedBy)
	assert.Equal(t, surveyor.ID, *created.CreatedBy)
	assert.Nil(t, created.VerifiedBy)
	assert.Nil(t, created.VerifiedAt)
}

func TestCreateAddressNormalizesDecimals(t *testing.T) {
	tr := setupTestDB(t)

	created := tr.mustAddress(t, models.Address{
		ID: "addr-1", FullAddress: "Kinshasa",
		Latitude: strPtr("-4.3217"), Longitude: strPtr("15.3125"), ConfidenceScore: "0.9",
	})

	assert.Equal(t, "-4.3217000", *created.Latitude)
	assert.Equal(t, "15.3125000", *created.Longitude)
	assert.Equal(t, "0.90", created.ConfidenceScore)
}

func TestCreateAddressValidation(t *testing.T) {
	tr := setupTestDB(t)
	ctx := context.Background()

	cases := map[string]struct {
		address models.Address
		field   string
	}{
		"missing id":       {models.Address{FullAddress: "x"}, "id"},
		"missing text":     {models.Address{ID: "a"}, "fullAddress"},
		"bad status":       {models.Address{ID: "a", FullAddress: "x", VerificationStatus: "lost"}, "verificationStatus"},
		"bad source":       {models.Address{ID: "a", FullAddress: "x", DataSource: "rumour"}, "dataSource"},
		"bad latitude":     {models.Address{ID: "a", FullAddress: "x", Latitude: strPtr("north")}, "latitude"},
		"score over one":   {models.Address{ID: "a", FullAddress: "x", ConfidenceScore: "1.5"}, "confidenceScore"},
		"invalid contacts": {models.Address{ID: "a", FullAddress: "x", EmergencyContacts: []byte("{")}, "emergencyContacts"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			a := tc.address
			_, err := tr.addresses.Create(ctx, surveyor, &a)
			require.ErrorIs(t, err, ErrValidation)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestCreateAddressDuplicateID(t *testing.T) {
	tr := setupTestDB(t)
	tr.mustAddress(t, models.Address{ID: "addr-1", FullAddress: "first"})

	_, err := tr.addresses.Create(context.Background(), surveyor, &models.Address{ID: "addr-1", FullAddress: "second"})
	require.ErrorIs(t, err, ErrConflict)
}

func TestCreateAddressBlankProvinceIsNull(t *testing.T) {
	tr := setupTestDB(t)
	ctx := context.Background()

	blank := tr.mustAddress(t, models.Address{ID: "addr-1", FullAddress: "one", ProvinceID: strPtr("")})
	spaces := tr.mustAddress(t, models.Address{ID: "addr-2", FullAddress: "two", ProvinceID: strPtr("   ")})
	tr.mustAddress(t, models.Address{ID: "addr-3", FullAddress: "three"})
	assert.Nil(t, blank.ProvinceID)
	assert.Nil(t, spaces.ProvinceID)

	stats, err := tr.analytics.ByRegion(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Nil(t, stats[0].ProvinceID)
	assert.EqualValues(t, 3, stats[0].Total)
}

func TestCreateAddressUnknownProvince(t *testing.T) {
	tr := setupTestDB(t)
	ctx := context.Background()

	_, err := tr.addresses.Create(ctx, surveyor, &models.Address{ID: "addr-1", FullAddress: "x", ProvinceID: strPtr("nope")})
	require.ErrorIs(t, err, ErrValidation)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "provinceId", verr.Field)

	_, err = tr.addresses.GetByID(ctx, "addr-1")
	require.ErrorIs(t, err, ErrNotFound)

	tr.mustProvince(t, "P", 1)
	created := tr.mustAddress(t, models.Address{ID: "addr-1", FullAddress: "x", ProvinceID: strPtr(" P ")})
	require.NotNil(t, created.ProvinceID)
	assert.Equal(t, "P", *created.ProvinceID)
}

func TestCreateErrMapsForeignKeyToValidation(t *testing.T) {
	err := createErr(fmt.Errorf("insert: %w", gorm.ErrForeignKeyViolated), "address", "a1")
	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrConflict)

	err = createErr(gorm.ErrDuplicatedKey, "address", "a1")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateAddressRecomputesProvinceProgress(t *testing.T) {
	tr := setupTestDB(t)
	ctx := context.Background()
	tr.mustProvince(t, "P", 10)

	for i := 1; i <= 3; i++ {
		tr.mustAddress(t, models.Address{ID: fmt.Sprintf("addr-%d", i), FullAddress: "Kinshasa", ProvinceID: strPtr("P")})
	}

	p, err := tr.regions.GetProvince(ctx, "P")
	require.NoError(t, err)
	assert.Equal(t, 3, p.CompletedAddresses)
	assert.Equal(t, "30.00", p.MappingProgress)

	stats, err := tr.analytics.ByRegion(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	require.NotNil(t, stats[0].ProvinceID)
	assert.Equal(t, "P", *stats[0].ProvinceID)
	assert.Equal(t, RegionStats{
		ProvinceID: stats[0].ProvinceID, ProvinceName: stats[0].ProvinceName,
		Total: 3, Verified: 0, Pending: 0, Unverified: 3,
	}, stats[0])
}

func TestCreateAddressIncrementsActiveSession(t *testing.T) {
	tr := setupTestDB(t)
	ctx := context.Background()

	session, started, err := tr.sessions.Start(ctx, surveyor, "sess-1", "")
	require.NoError(t, err)
	require.True(t, started)

	tr.mustAddress(t, models.Address{ID: "addr-1", FullAddress: "one"})
	tr.mustAddress(t, models.Address{ID: "addr-2", FullAddress: "two"})

	active, err := tr.sessions.GetActive(ctx, surveyor)
	require.NoError(t, err)
	assert.Equal(t, session.ID, active.ID)
	assert.Equal(t, 2, active.AddressesCollected)
}

func TestGetAddressNotFound(t *testing.T) {
	tr := setupTestDB(t)

	_, err := tr.addresses.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

type filterFixture struct {
	id       string
	province string
	status   models.VerificationStatus
	source   models.DataSource
	street   string
}

// seedFilterFixtures creates provinces P1 and P2 and eight addresses, one without a province.
func seedFilterFixtures(t *testing.T, tr *testRepos) []filterFixture {
	t.Helper()
	tr.mustProvince(t, "P1", 0)
	tr.mustProvince(t, "P2", 0)
	fixtures := []filterFixture{
		{"a01", "P1", models.StatusVerified, models.SourceManualSurvey, "Avenue Lumumba"},
		{"a02", "P1", models.StatusUnverified, models.SourceAIDetected, "Boulevard du 30 Juin"},
		{"a03", "P2", models.StatusVerified, models.SourceAIDetected, "Avenue Lumumba"},
		{"a04", "P2", models.StatusPending, models.SourceManualSurvey, "Avenue Kasa-Vubu"},
		{"a05", "P1", models.StatusDisputed, models.SourceCrowdsourced, "Avenue Lumumba"},
		{"a06", "", models.StatusVerified, models.SourceImported, "Route de Matadi"},
		{"a07", "P2", models.StatusUnverified, models.SourceManualSurvey, "Avenue Lumumba"},
		{"a08", "P1", models.StatusVerified, models.SourceManualSurvey, "Avenue de la Justice"},
	}
	for i, f := range fixtures {
		a := models.Address{
			ID:                 f.id,
			FullAddress:        fmt.Sprintf("%d %s", i+1, f.street),
			Street:             strPtr(f.street),
			VerificationStatus: f.status,
			DataSource:         f.source,
			CreatedAt:          t0.Add(time.Duration(i%3) * time.Minute),
		}
		if f.province != "" {
			a.ProvinceID = strPtr(f.province)
		}
		tr.mustAddress(t, a)
	}
	return fixtures
}

func ids(addresses []models.Address) []string {
	out := make([]string, 0, len(addresses))
	for _, a := range addresses {
		out = append(out, a.ID)
	}
	return out
}

func TestListFilterConjunction(t *testing.T) {
	tr := setupTestDB(t)
	ctx := context.Background()
	seedFilterFixtures(t, tr)

	singles := []database.AddressFilter{
		{ProvinceID: "P1"},
		{VerificationStatus: models.StatusVerified},
		{DataSource: models.SourceManualSurvey},
		{Search: "Lumumba"},
	}

	resultOf := func(f database.AddressFilter) map[string]bool {
		page, err := tr.addresses.List(ctx, f)
		require.NoError(t, err)
		assert.EqualValues(t, len(page.Addresses), page.Total)
		set := map[string]bool{}
		for _, id := range ids(page.Addresses) {
			set[id] = true
		}
		return set
	}

	// every subset of the single filters
	for mask := 1; mask < 1<<len(singles); mask++ {
		var combined database.AddressFilter
		var expected map[string]bool
		for i, single := range singles {
			if mask&(1<<i) == 0 {
				continue
			}
			if single.ProvinceID != "" {
				combined.ProvinceID = single.ProvinceID
			}
			if single.VerificationStatus != "" {
				combined.VerificationStatus = single.VerificationStatus
			}
			if single.DataSource != "" {
				combined.DataSource = single.DataSource
			}
			if single.Search != "" {
				combined.Search = single.Search
			}
			got := resultOf(single)
			if expected == nil {
				expected = got
				continue
			}
			for id := range expected {
				if !got[id] {
					delete(expected, id)
				}
			}
		}
		assert.Equal(t, expected, resultOf(combined), "filter mask %b", mask)
	}

	assert.Equal(t, map[string]bool{"a01": true, "a08": true}, resultOf(database.AddressFilter{
		ProvinceID: "P1", VerificationStatus: models.StatusVerified, DataSource: models.SourceManualSurvey,
	}))
}

func TestListPaginationTilesAndTotal(t *testing.T) {
	tr := setupTestDB(t)
	ctx := context.Background()
	seedFilterFixtures(t, tr)

	full, err := tr.addresses.List(ctx, database.AddressFilter{})
	require.NoError(t, err)
	require.EqualValues(t, 8, full.Total)
	require.Len(t, full.Addresses, 8)

	// newest first, id ascending within equal timestamps
	assert.True(t, sort.SliceIsSorted(full.Addresses, func(i, j int) bool {
		a, b := full.Addresses[i], full.Addresses[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	}))

	for _, limit := range []int{1, 3, 5} {
		var tiled []string
		for offset := 0; offset < 8; offset += limit {
			page, err := tr.addresses.List(ctx, database.AddressFilter{Limit: limit, Offset: offset})
			require.NoError(t, err)
			assert.EqualValues(t, 8, page.Total, "total must ignore limit %d offset %d", limit, offset)
			tiled = append(tiled, ids(page.Addresses)...)
		}
		assert.Equal(t, ids(full.Addresses), tiled, "limit %d", limit)
	}

	page, err := tr.addresses.List(ctx, database.AddressFilter{Offset: 6})
	require.NoError(t, err)
	assert.Equal(t, ids(full.Addresses)[6:], ids(page.Addresses))
}

func TestListWithUnavailableStoreDegrades(t *testing.T) {
	store := database.NewStaticProvider(nil)
	regions := NewRegionRepository(store)
	repo := NewAddressRepository(store, regions, NewSurveyRepository(store))
	ctx := context.Background()

	page, err := repo.List(ctx, database.AddressFilter{Search: "x"})
	require.NoError(t, err)
	assert.Empty(t, page.Addresses)
	assert.NotNil(t, page.Addresses)
	assert.Zero(t, page.Total)

	_, err = repo.Create(ctx, surveyor, &models.Address{ID: "a", FullAddress: "x"})
	require.ErrorIs(t, err, ErrStoreUnavailable)
	_, err = repo.Update(ctx, surveyor, "a", AddressUpdate{Zone: strPtr("z")})
	require.ErrorIs(t, err, ErrStoreUnavailable)
	_, err = repo.Verify(ctx, surveyor, "a")
	require.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestUpdateLogsOnlyChangedFields(t *testing.T) {
	tr := setupTestDB(t)
	ctx := context.Background()
	tr.mustAddress(t, models.Address{
		ID: "addr-1", FullAddress: "12 Avenue Lumumba", Zone: strPtr("Zone A"), Street: strPtr("Avenue Lumumba"),
	})

	pending := models.StatusPending
	updated, err := tr.addresses.Update(ctx, reviewer, "addr-1", AddressUpdate{
		Zone:               strPtr("Zone A"),
		Street:             strPtr("Avenue Patrice Lumumba"),
		Commune:            strPtr("Gombe"),
		VerificationStatus: &pending,
		Reason:             strPtr("field check"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Avenue Patrice Lumumba", *updated.Street)
	assert.Equal(t, "Gombe", *updated.Commune)
	assert.Equal(t, models.StatusPending, updated.VerificationStatus)
	assert.Equal(t, "12 Avenue Lumumba", updated.FullAddress)
	assert.Nil(t, updated.VerifiedBy)

	entries, err := tr.addresses.ListChangeLog(ctx, "addr-1")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	byField := map[string]models.ChangeLogEntry{}
	for _, e := range entries {
		byField[e.FieldChanged] = e
		assert.Equal(t, reviewer.ID, e.ChangedBy)
		require.NotNil(t, e.Reason)
		assert.Equal(t, "field check", *e.Reason)
	}
	assert.NotContains(t, byField, "zone")

	assert.Equal(t, "Avenue Lumumba", *byField["street"].OldValue)
	assert.Equal(t, "Avenue Patrice Lumumba", *byField["street"].NewValue)
	assert.Nil(t, byField["commune"].OldValue)
	assert.Equal(t, "Gombe", *byField["commune"].NewValue)
	assert.Equal(t, "unverified", *byField["verificationStatus"].OldValue)
	assert.Equal(t, "pending", *byField["verificationStatus"].NewValue)
}

func TestUpdateWithoutChangesWritesNothing(t *testing.T) {
	tr := setupTestDB(t)
	ctx := context.Background()
	created := tr.mustAddress(t, models.Address{ID: "addr-1", FullAddress: "x", Latitude: strPtr("-4.3")})

	updated, err := tr.addresses.Update(ctx, reviewer, "addr-1", AddressUpdate{
		FullAddress: strPtr("x"),
		Latitude:    strPtr("-4.3000"),
	})
	require.NoError(t, err)
	assert.Equal(t, created.UpdatedAt, updated.UpdatedAt)

	entries, err := tr.addresses.ListChangeLog(ctx, "addr-1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpdateJSONFields(t *testing.T) {
	tr := setupTestDB(t)
	ctx := context.Background()
	tr.mustAddress(t, models.Address{ID: "addr-1", FullAddress: "x", ServiceIcons: []byte(`["police"]`)})

	_, err := tr.addresses.Update(ctx, reviewer, "addr-1", AddressUpdate{
		ServiceIcons:      json.RawMessage(`[ "police" ]`),
		EmergencyContacts: json.RawMessage(`{"police": "+243 112"}`),
	})
	require.NoError(t, err)

	entries, err := tr.addresses.ListChangeLog(ctx, "addr-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "emergencyContacts", entries[0].FieldChanged)
	assert.Nil(t, entries[0].OldValue)
	assert.Equal(t, `{"police":"+243 112"}`, *entries[0].NewValue)

	cleared, err := tr.addresses.Update(ctx, reviewer, "addr-1", AddressUpdate{ServiceIcons: json.RawMessage(`null`)})
	require.NoError(t, err)
	assert.Empty(t, cleared.ServiceIcons)
}

func TestUpdateMissingAddress(t *testing.T) {
	tr := setupTestDB(t)

	_, err := tr.addresses.Update(context.Background(), reviewer, "missing", AddressUpdate{Zone: strPtr("z")})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	tr := setupTestDB(t)
	tr.mustAddress(t, models.Address{ID: "addr-1", FullAddress: "x"})

	bad := models.VerificationStatus("lost")
	_, err := tr.addresses.Update(context.Background(), reviewer, "addr-1", AddressUpdate{VerificationStatus: &bad})
	require.ErrorIs(t, err, ErrValidation)
}

func TestVerifyOverwritesPreviousVerification(t *testing.T) {
	tr := setupTestDB(t)
	ctx := context.Background()
	tr.mustAddress(t, models.Address{ID: "addr-1", FullAddress: "x", VerificationStatus: models.StatusDisputed})

	first, err := tr.addresses.Verify(ctx, surveyor, "addr-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusVerified, first.VerificationStatus)
	require.NotNil(t, first.VerifiedAt)
	assert.Equal(t, surveyor.ID, *first.VerifiedBy)

	second, err := tr.addresses.Verify(ctx, reviewer, "addr-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusVerified, second.VerificationStatus)
	assert.Equal(t, reviewer.ID, *second.VerifiedBy)
	assert.False(t, second.VerifiedAt.Before(*first.VerifiedAt))
}

func TestVerifyMissingAddress(t *testing.T) {
	tr := setupTestDB(t)

	_, err := tr.addresses.Verify(context.Background(), reviewer, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camden-git/congoaddressmapper/models"
)

func TestBuildAddressQueryNoFilter(t *testing.T) {
	q := BuildAddressQuery(AddressFilter{})

	records, args, err := q.Records.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM addresses ORDER BY created_at DESC, id ASC", records)
	assert.Empty(t, args)

	count, args, err := q.Count.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM addresses", count)
	assert.Empty(t, args)
}

func TestBuildAddressQuerySharesWhere(t *testing.T) {
	q := BuildAddressQuery(AddressFilter{
		ProvinceID:         "prov-kin",
		VerificationStatus: models.StatusVerified,
		DataSource:         models.SourceManualSurvey,
		Search:             "Lumumba",
		Limit:              10,
		Offset:             20,
	})

	records, recordArgs, err := q.Records.ToSql()
	require.NoError(t, err)
	count, countArgs, err := q.Count.ToSql()
	require.NoError(t, err)

	where := "WHERE (province_id = ? AND verification_status = ? AND data_source = ? AND " +
		"(full_address LIKE ? OR street LIKE ? OR quartier LIKE ?))"
	assert.Equal(t, "SELECT * FROM addresses "+where+" ORDER BY created_at DESC, id ASC LIMIT 10 OFFSET 20", records)
	assert.Equal(t, "SELECT COUNT(*) FROM addresses "+where, count)

	expected := []any{"prov-kin", "verified", "manual_survey", "%Lumumba%", "%Lumumba%", "%Lumumba%"}
	assert.Equal(t, expected, recordArgs)
	assert.Equal(t, expected, countArgs)
}

func TestBuildAddressQueryNeverInterpolatesSearch(t *testing.T) {
	q := BuildAddressQuery(AddressFilter{Search: "x' OR '1'='1"})

	records, args, err := q.Records.ToSql()
	require.NoError(t, err)
	assert.NotContains(t, records, "'1'='1")
	assert.Contains(t, args, "%x' OR '1'='1%")
}

func TestBuildAddressQueryOffsetWithoutLimit(t *testing.T) {
	q := BuildAddressQuery(AddressFilter{Offset: 5})

	records, _, err := q.Records.ToSql()
	require.NoError(t, err)
	assert.Contains(t, records, "LIMIT 9223372036854775807 OFFSET 5")
}

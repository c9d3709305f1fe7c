package geo

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camden-git/congoaddressmapper/models"
)

const squarePolygon = `{"type":"Polygon","coordinates":[[[15.30,-4.32],[15.3001,-4.32],[15.3001,-4.3201],[15.30,-4.3201],[15.30,-4.32]]]}`

func TestParseFootprintPolygon(t *testing.T) {
	g, err := ParseFootprint([]byte(squarePolygon))
	require.NoError(t, err)
	assert.IsType(t, orb.Polygon{}, g)
	assert.Greater(t, FootprintArea(g), 50.0)
	assert.Less(t, FootprintArea(g), 200.0)
}

func TestParseFootprintFeature(t *testing.T) {
	raw := `{"type":"Feature","properties":{},"geometry":` + squarePolygon + `}`
	g, err := ParseFootprint([]byte(raw))
	require.NoError(t, err)
	assert.IsType(t, orb.Polygon{}, g)
}

func TestParseFootprintRejects(t *testing.T) {
	cases := map[string]string{
		"not json":   `{`,
		"point":      `{"type":"Point","coordinates":[15.3,-4.3]}`,
		"open ring":  `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1]]]}`,
		"short ring": `{"type":"Polygon","coordinates":[[[0,0],[1,0],[0,0]]]}`,
		"out of range": `{"type":"Polygon","coordinates":[[[0,0],[200,0],[1,1],[0,0]]]}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseFootprint([]byte(raw))
			require.ErrorIs(t, err, ErrInvalidFootprint)
		})
	}
}

func TestAddressFeaturesSkipsMissingCoordinates(t *testing.T) {
	lat, lon := "-4.3217000", "15.3125000"
	province := "prov-kin"
	addresses := []models.Address{
		{ID: "a1", FullAddress: "12 Avenue Lumumba", Latitude: &lat, Longitude: &lon, ProvinceID: &province,
			VerificationStatus: models.StatusVerified, DataSource: models.SourceManualSurvey, ConfidenceScore: "0.90"},
		{ID: "a2", FullAddress: "no coordinates"},
	}

	fc := AddressFeatures(addresses)
	require.Len(t, fc.Features, 1)

	f := fc.Features[0]
	assert.Equal(t, "a1", f.ID)
	assert.Equal(t, orb.Point{15.3125, -4.3217}, f.Geometry)
	assert.Equal(t, "prov-kin", f.Properties["provinceId"])

	raw, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"FeatureCollection"`)
}

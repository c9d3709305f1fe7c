// Package geo converts between stored records and GeoJSON.
package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"

	"github.com/camden-git/congoaddressmapper/models"
)

var ErrInvalidFootprint = errors.New("invalid building footprint")

// ParseFootprint accepts a GeoJSON Polygon or MultiPolygon geometry, or a
// Feature wrapping one, and checks that every ring is closed.
func ParseFootprint(raw []byte) (orb.Geometry, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFootprint, err)
	}

	var g orb.Geometry
	switch head.Type {
	case "Feature":
		f, err := geojson.UnmarshalFeature(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFootprint, err)
		}
		g = f.Geometry
	default:
		gj, err := geojson.UnmarshalGeometry(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFootprint, err)
		}
		g = gj.Geometry()
	}

	switch t := g.(type) {
	case orb.Polygon:
		if err := checkPolygon(t); err != nil {
			return nil, err
		}
	case orb.MultiPolygon:
		if len(t) == 0 {
			return nil, fmt.Errorf("%w: empty multipolygon", ErrInvalidFootprint)
		}
		for _, p := range t {
			if err := checkPolygon(p); err != nil {
				return nil, err
			}
		}
	case nil:
		return nil, fmt.Errorf("%w: missing geometry", ErrInvalidFootprint)
	default:
		return nil, fmt.Errorf("%w: expected Polygon or MultiPolygon, got %s", ErrInvalidFootprint, g.GeoJSONType())
	}
	return g, nil
}

func checkPolygon(p orb.Polygon) error {
	if len(p) == 0 {
		return fmt.Errorf("%w: polygon has no rings", ErrInvalidFootprint)
	}
	for _, ring := range p {
		if len(ring) < 4 {
			return fmt.Errorf("%w: ring needs at least 4 positions", ErrInvalidFootprint)
		}
		if !ring.Closed() {
			return fmt.Errorf("%w: ring is not closed", ErrInvalidFootprint)
		}
		for _, pt := range ring {
			if pt.Lon() < -180 || pt.Lon() > 180 || pt.Lat() < -90 || pt.Lat() > 90 {
				return fmt.Errorf("%w: position out of range", ErrInvalidFootprint)
			}
		}
	}
	return nil
}

// FootprintArea is the area of g in square metres.
func FootprintArea(g orb.Geometry) float64 {
	return geo.Area(g)
}

// AddressFeatures builds a point FeatureCollection for the map view.
// Addresses without parseable coordinates are skipped.
func AddressFeatures(addresses []models.Address) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, a := range addresses {
		pt, ok := addressPoint(a)
		if !ok {
			continue
		}
		f := geojson.NewFeature(pt)
		f.ID = a.ID
		f.Properties["fullAddress"] = a.FullAddress
		f.Properties["verificationStatus"] = a.VerificationStatus
		f.Properties["dataSource"] = a.DataSource
		f.Properties["confidenceScore"] = a.ConfidenceScore
		if a.ProvinceID != nil {
			f.Properties["provinceId"] = *a.ProvinceID
		}
		if a.Commune != nil {
			f.Properties["commune"] = *a.Commune
		}
		if a.Quartier != nil {
			f.Properties["quartier"] = *a.Quartier
		}
		fc.Append(f)
	}
	return fc
}

func addressPoint(a models.Address) (orb.Point, bool) {
	if a.Latitude == nil || a.Longitude == nil {
		return orb.Point{}, false
	}
	lat, err := strconv.ParseFloat(*a.Latitude, 64)
	if err != nil {
		return orb.Point{}, false
	}
	lon, err := strconv.ParseFloat(*a.Longitude, 64)
	if err != nil {
		return orb.Point{}, false
	}
	return orb.Point{lon, lat}, true
}

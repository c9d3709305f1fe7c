package repository

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	coordinatePlaces int32 = 7
	scorePlaces      int32 = 2
	areaPlaces       int32 = 2
	progressPlaces   int32 = 2
)

var (
	maxLatitude  = decimal.NewFromInt(90)
	maxLongitude = decimal.NewFromInt(180)
	hundred      = decimal.NewFromInt(100)
)

// zeroDecimal renders 0 with a fixed number of places, e.g. "0.00".
func zeroDecimal(places int32) string {
	return decimal.Zero.StringFixed(places)
}

// formatFloat renders a measured value (EXIF position, polygon area) with a
// fixed number of places. Ties round half away from zero.
func formatFloat(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// progressPercent is completed/target*100 to two places. target must be positive.
func progressPercent(completed, target int) string {
	return decimal.NewFromInt(int64(completed)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(target))).
		StringFixed(progressPlaces)
}

func parseDecimal(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, invalid(field, "must be a decimal number")
	}
	return d, nil
}

// normalizeDecimal parses s and renders it with a fixed number of places,
// the way a decimal(p, places) column would store it.
func normalizeDecimal(field, s string, places int32) (string, error) {
	d, err := parseDecimal(field, s)
	if err != nil {
		return "", err
	}
	return d.StringFixed(places), nil
}

func normalizeOptionalDecimal(field string, s *string, places int32) (*string, error) {
	if s == nil {
		return nil, nil
	}
	n, err := normalizeDecimal(field, *s, places)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func normalizeCoordinate(field string, s *string, limit decimal.Decimal) (*string, error) {
	if s == nil {
		return nil, nil
	}
	d, err := parseDecimal(field, *s)
	if err != nil {
		return nil, err
	}
	d = d.Round(coordinatePlaces)
	if d.Abs().GreaterThan(limit) {
		return nil, invalid(field, "must be between -"+limit.String()+" and "+limit.String())
	}
	n := d.StringFixed(coordinatePlaces)
	return &n, nil
}

func normalizeLatitude(s *string) (*string, error) {
	return normalizeCoordinate("latitude", s, maxLatitude)
}

func normalizeLongitude(s *string) (*string, error) {
	return normalizeCoordinate("longitude", s, maxLongitude)
}

// normalizeScore defaults an empty score to "0.00" and requires 0..1.
func normalizeScore(field, s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return zeroDecimal(scorePlaces), nil
	}
	d, err := parseDecimal(field, s)
	if err != nil {
		return "", err
	}
	d = d.Round(scorePlaces)
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(1)) {
		return "", invalid(field, "must be between 0 and 1")
	}
	return d.StringFixed(scorePlaces), nil
}

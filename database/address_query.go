package database

import (
	"math"

	sq "github.com/Masterminds/squirrel"

	"github.com/camden-git/congoaddressmapper/models"
)

// gorm rebinds '?' for postgres, so one placeholder format serves both drivers
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

const addressesTable = "addresses"

// AddressFilter selects addresses. Zero values impose no constraint.
type AddressFilter struct {
	ProvinceID         string
	VerificationStatus models.VerificationStatus
	DataSource         models.DataSource
	// matched as a substring of full_address, street or quartier
	Search string
	Limit  int
	Offset int
}

// AddressQuery is the pair of statements for one filtered page.
type AddressQuery struct {
	Records sq.SelectBuilder
	Count   sq.SelectBuilder
}

// Where returns the conjunction of the filter's predicates.
func (f AddressFilter) Where() sq.And {
	where := sq.And{}
	if f.ProvinceID != "" {
		where = append(where, sq.Eq{"province_id": f.ProvinceID})
	}
	if f.VerificationStatus != "" {
		where = append(where, sq.Eq{"verification_status": string(f.VerificationStatus)})
	}
	if f.DataSource != "" {
		where = append(where, sq.Eq{"data_source": string(f.DataSource)})
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		where = append(where, sq.Or{
			sq.Like{"full_address": pattern},
			sq.Like{"street": pattern},
			sq.Like{"quartier": pattern},
		})
	}
	return where
}

// BuildAddressQuery translates f into a records statement (newest first, id as
// tie-break, then limit/offset when positive) and a count statement sharing the same WHERE.
func BuildAddressQuery(f AddressFilter) AddressQuery {
	where := f.Where()

	records := psql.Select("*").
		From(addressesTable).
		OrderBy("created_at DESC", "id ASC")
	count := psql.Select("COUNT(*)").From(addressesTable)

	if len(where) > 0 {
		records = records.Where(where)
		count = count.Where(where)
	}
	if f.Limit > 0 {
		records = records.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		// sqlite rejects OFFSET without LIMIT
		if f.Limit <= 0 {
			records = records.Limit(math.MaxInt64)
		}
		records = records.Offset(uint64(f.Offset))
	}

	return AddressQuery{Records: records, Count: count}
}

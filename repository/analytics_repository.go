package repository

import (
	"context"
	"fmt"
	"sort"

	sq "github.com/Masterminds/squirrel"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/camden-git/congoaddressmapper/database"
	"github.com/camden-git/congoaddressmapper/models"
)

var statsBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// RegionStats counts the addresses of one province. Disputed addresses are
// included in Total only. The row with a nil ProvinceID collects addresses
// without a province.
type RegionStats struct {
	ProvinceID   *string `json:"provinceId"`
	ProvinceName *string `json:"provinceName"`
	Total        int64   `json:"total"`
	Verified     int64   `json:"verified"`
	Pending      int64   `json:"pending"`
	Unverified   int64   `json:"unverified"`
}

type DataSourceStats struct {
	DataSource models.DataSource `json:"dataSource"`
	Count      int64             `json:"count"`
}

type DashboardStats struct {
	TotalAddresses    int64 `json:"totalAddresses"`
	VerifiedAddresses int64 `json:"verifiedAddresses"`
	TotalProvinces    int64 `json:"totalProvinces"`
	ActiveSurveyors   int64 `json:"activeSurveyors"`
}

// VerificationRate is verified/total as a percentage, 0 when there are no addresses.
func (s DashboardStats) VerificationRate() float64 {
	if s.TotalAddresses == 0 {
		return 0
	}
	return float64(s.VerifiedAddresses) / float64(s.TotalAddresses) * 100
}

type AnalyticsRepository struct {
	store *database.Provider
}

func NewAnalyticsRepository(store *database.Provider) *AnalyticsRepository {
	return &AnalyticsRepository{store: store}
}

func countStatus(status models.VerificationStatus, alias string) sq.Sqlizer {
	return sq.Expr("COALESCE(SUM(CASE WHEN a.verification_status = ? THEN 1 ELSE 0 END), 0) AS "+alias, string(status))
}

// ByRegion groups all addresses by province. Provinces without addresses are absent.
func (r *AnalyticsRepository) ByRegion(ctx context.Context) ([]RegionStats, error) {
	stats := []RegionStats{}
	db, err := r.store.DB(ctx)
	if err != nil {
		return degradeRead(ctx, stats, err, "analytics by region")
	}

	query := statsBuilder.
		Select("a.province_id AS province_id", "p.name AS province_name", "COUNT(a.id) AS total").
		Column(countStatus(models.StatusVerified, "verified")).
		Column(countStatus(models.StatusPending, "pending")).
		Column(countStatus(models.StatusUnverified, "unverified")).
		From("addresses a").
		LeftJoin("provinces p ON a.province_id = p.id").
		GroupBy("a.province_id", "p.name")

	if err := scanBuilder(db, query, &stats); err != nil {
		return nil, fmt.Errorf("failed to aggregate addresses by region: %w", err)
	}

	// unnamed bucket last, then by province name
	sort.SliceStable(stats, func(i, j int) bool {
		a, b := stats[i].ProvinceName, stats[j].ProvinceName
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return *a < *b
	})
	return stats, nil
}

// ByDataSource counts addresses per observed data source, largest first.
func (r *AnalyticsRepository) ByDataSource(ctx context.Context) ([]DataSourceStats, error) {
	stats := []DataSourceStats{}
	db, err := r.store.DB(ctx)
	if err != nil {
		return degradeRead(ctx, stats, err, "analytics by data source")
	}

	query := statsBuilder.
		Select("data_source", "COUNT(id) AS count").
		From("addresses").
		GroupBy("data_source").
		OrderBy("count DESC", "data_source ASC")

	if err := scanBuilder(db, query, &stats); err != nil {
		return nil, fmt.Errorf("failed to aggregate addresses by data source: %w", err)
	}
	return stats, nil
}

// Dashboard runs its three aggregates concurrently.
func (r *AnalyticsRepository) Dashboard(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats
	db, err := r.store.DB(ctx)
	if err != nil {
		return degradeRead(ctx, stats, err, "analytics dashboard")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var row struct {
			Total    int64
			Verified int64
		}
		query := statsBuilder.
			Select("COUNT(a.id) AS total").
			Column(countStatus(models.StatusVerified, "verified")).
			From("addresses a")
		if err := scanBuilder(db.WithContext(gctx), query, &row); err != nil {
			return fmt.Errorf("failed to count addresses: %w", err)
		}
		stats.TotalAddresses, stats.VerifiedAddresses = row.Total, row.Verified
		return nil
	})
	g.Go(func() error {
		if err := db.WithContext(gctx).Model(&models.Province{}).Count(&stats.TotalProvinces).Error; err != nil {
			return fmt.Errorf("failed to count provinces: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		err := db.WithContext(gctx).Model(&models.SurveySession{}).
			Where("status = ?", models.SurveyActive).
			Count(&stats.ActiveSurveyors).Error
		if err != nil {
			return fmt.Errorf("failed to count active survey sessions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return DashboardStats{}, err
	}
	return stats, nil
}

func scanBuilder(db *gorm.DB, query sq.SelectBuilder, dest any) error {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	return db.Raw(sqlStr, args...).Scan(dest).Error
}

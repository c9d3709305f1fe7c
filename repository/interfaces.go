package repository

import (
	"context"

	"github.com/camden-git/congoaddressmapper/auth"
	"github.com/camden-git/congoaddressmapper/database"
	"github.com/camden-git/congoaddressmapper/media"
	"github.com/camden-git/congoaddressmapper/models"
)

// AddressRepositoryInterface defines the address record operations
type AddressRepositoryInterface interface {
	List(ctx context.Context, f database.AddressFilter) (AddressPage, error)
	GetByID(ctx context.Context, id string) (*models.Address, error)
	Create(ctx context.Context, caller auth.Caller, address *models.Address) (*models.Address, error)
	Update(ctx context.Context, caller auth.Caller, id string, upd AddressUpdate) (*models.Address, error)
	Verify(ctx context.Context, caller auth.Caller, id string) (*models.Address, error)
	ListChangeLog(ctx context.Context, addressID string) ([]models.ChangeLogEntry, error)
}

// RegionRepositoryInterface defines the province, commune and quartier operations
type RegionRepositoryInterface interface {
	RecomputeProgress(ctx context.Context, provinceID string) error
	ListProvinces(ctx context.Context) ([]models.Province, error)
	GetProvince(ctx context.Context, id string) (*models.Province, error)
	CreateProvince(ctx context.Context, province *models.Province) error
	EnsureProvince(ctx context.Context, province *models.Province) (bool, error)
	ListCommunes(ctx context.Context, provinceID string) ([]models.Commune, error)
	CreateCommune(ctx context.Context, commune *models.Commune) error
	ListQuartiers(ctx context.Context, communeID string) ([]models.Quartier, error)
	CreateQuartier(ctx context.Context, quartier *models.Quartier) error
}

// AnalyticsRepositoryInterface defines the on-demand aggregates
type AnalyticsRepositoryInterface interface {
	ByRegion(ctx context.Context) ([]RegionStats, error)
	ByDataSource(ctx context.Context) ([]DataSourceStats, error)
	Dashboard(ctx context.Context) (DashboardStats, error)
}

type BuildingRepositoryInterface interface {
	ListByAddress(ctx context.Context, addressID string) ([]models.Building, error)
	Create(ctx context.Context, building *models.Building) error
}

type PhotoRepositoryInterface interface {
	ListByAddress(ctx context.Context, addressID string) ([]models.Photo, error)
	GetByID(ctx context.Context, id string) (*models.Photo, error)
	Create(ctx context.Context, caller auth.Caller, photo *models.Photo) error
	MarkProcessing(ctx context.Context, id string) error
	UpdateProcessingResult(ctx context.Context, id string, thumbnailURL *string, meta *media.PhotoMetadata, taskErr error) error
	ListRequiringProcessing(ctx context.Context) ([]models.Photo, error)
}

type SurveyRepositoryInterface interface {
	Start(ctx context.Context, caller auth.Caller, id, provinceID string) (*models.SurveySession, bool, error)
	GetActive(ctx context.Context, caller auth.Caller) (*models.SurveySession, error)
	End(ctx context.Context, id string) (*models.SurveySession, error)
	Pause(ctx context.Context, id string) (*models.SurveySession, error)
	Resume(ctx context.Context, id string) (*models.SurveySession, error)
}

type AiJobRepositoryInterface interface {
	Create(ctx context.Context, caller auth.Caller, job *models.AiProcessingJob) error
	List(ctx context.Context, status models.JobStatus, limit int) ([]models.AiProcessingJob, error)
	GetByID(ctx context.Context, id string) (*models.AiProcessingJob, error)
}

type UserRepositoryInterface interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Upsert(ctx context.Context, user *models.User) error
}

var (
	_ AddressRepositoryInterface   = (*AddressRepository)(nil)
	_ RegionRepositoryInterface    = (*RegionRepository)(nil)
	_ AnalyticsRepositoryInterface = (*AnalyticsRepository)(nil)
	_ BuildingRepositoryInterface  = (*BuildingRepository)(nil)
	_ PhotoRepositoryInterface     = (*PhotoRepository)(nil)
	_ SurveyRepositoryInterface    = (*SurveyRepository)(nil)
	_ AiJobRepositoryInterface     = (*AiJobRepository)(nil)
	_ UserRepositoryInterface      = (*UserRepository)(nil)
)

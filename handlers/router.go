package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/camden-git/congoaddressmapper/database"
	"github.com/camden-git/congoaddressmapper/media"
	"github.com/camden-git/congoaddressmapper/metrics"
	"github.com/camden-git/congoaddressmapper/permissions"
	"github.com/camden-git/congoaddressmapper/realtime"
	"github.com/camden-git/congoaddressmapper/repository"
)

// Deps is everything the HTTP surface is built from.
type Deps struct {
	Store          *database.Provider
	Addresses      repository.AddressRepositoryInterface
	Regions        repository.RegionRepositoryInterface
	Analytics      repository.AnalyticsRepositoryInterface
	Buildings      repository.BuildingRepositoryInterface
	Photos         repository.PhotoRepositoryInterface
	Sessions       repository.SurveyRepositoryInterface
	Jobs           repository.AiJobRepositoryInterface
	Users          repository.UserRepositoryInterface
	Seeder         Seeder
	Identity       *Identity
	MediaStore     media.Store
	PhotoQueue     PhotoQueue
	Hub            *realtime.Hub
	Metrics        *metrics.Metrics
	AllowedOrigins []string
	MaxUploadBytes int64
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "X-Total-Count"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}
	r.Use(corsHandler.Handler)
	r.Use(d.Identity.CallerMiddleware)

	var events EventPublisher
	if d.Hub != nil {
		events = d.Hub
	}

	addressHandler := &AddressHandler{Addresses: d.Addresses, Events: events, Metrics: d.Metrics}
	regionHandler := &RegionHandler{Regions: d.Regions}
	buildingHandler := &BuildingHandler{Buildings: d.Buildings}
	photoHandler := &PhotoHandler{Photos: d.Photos, Store: d.MediaStore, Queue: d.PhotoQueue, MaxUploadBytes: d.MaxUploadBytes}
	surveyHandler := &SurveyHandler{Sessions: d.Sessions}
	analyticsHandler := &AnalyticsHandler{Analytics: d.Analytics}
	jobHandler := &AiJobHandler{Jobs: d.Jobs}
	authHandler := &AuthHandler{Identity: d.Identity, Users: d.Users}
	adminHandler := &AdminHandler{Seeder: d.Seeder}
	healthHandler := &HealthHandler{Store: d.Store}
	permissionsHandler := NewPermissionsHandler()

	r.Route("/api", func(r chi.Router) {
		// long lived; kept out of the request timeout
		if d.Hub != nil {
			r.Get("/ws", d.Hub.ServeWS)
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Get("/health", healthHandler.Health)

			r.Route("/auth", func(r chi.Router) {
				r.Post("/login", authHandler.Login)
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})

			r.Route("/permissions", func(r chi.Router) {
				r.Get("/", permissionsHandler.ListDefinedPermissions)
				r.Get("/keys", permissionsHandler.ListDefinedPermissionKeys)
			})

			r.Route("/provinces", func(r chi.Router) {
				r.Get("/", regionHandler.ListProvinces)
				r.With(RequirePermission(permissions.RegionManage)).Post("/", regionHandler.CreateProvince)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", regionHandler.GetProvince)
					r.Get("/communes", regionHandler.ListCommunes)
				})
			})

			r.Route("/communes", func(r chi.Router) {
				r.With(RequirePermission(permissions.RegionManage)).Post("/", regionHandler.CreateCommune)
				r.Get("/{id}/quartiers", regionHandler.ListQuartiers)
			})
			r.With(RequirePermission(permissions.RegionManage)).Post("/quartiers", regionHandler.CreateQuartier)

			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", addressHandler.List)
				r.Get("/geojson", addressHandler.GeoJSON)
				r.With(RequirePermission(permissions.AddressCreate)).Post("/", addressHandler.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", addressHandler.Get)
					r.With(RequirePermission(permissions.AddressEdit)).Put("/", addressHandler.Update)
					r.With(RequirePermission(permissions.AddressVerify)).Post("/verify", addressHandler.Verify)
					r.Get("/changes", addressHandler.ChangeLog)
					r.Get("/buildings", buildingHandler.ListByAddress)
					r.Get("/photos", photoHandler.ListByAddress)
					r.With(RequirePermission(permissions.PhotoUpload)).Post("/photos/upload", photoHandler.Upload)
				})
			})

			r.With(RequirePermission(permissions.BuildingCreate)).Post("/buildings", buildingHandler.Create)

			r.Route("/photos", func(r chi.Router) {
				r.With(RequirePermission(permissions.PhotoUpload)).Post("/", photoHandler.Create)
				if d.MediaStore != nil {
					r.Get("/files/*", AssetServer(d.MediaStore))
				}
			})

			r.Route("/survey/sessions", func(r chi.Router) {
				r.Use(RequirePermission(permissions.SurveyManage))
				r.Post("/", surveyHandler.Start)
				r.Get("/active", surveyHandler.Active)
				r.Post("/{id}/end", surveyHandler.End)
				r.Post("/{id}/pause", surveyHandler.Pause)
				r.Post("/{id}/resume", surveyHandler.Resume)
			})

			r.Route("/analytics", func(r chi.Router) {
				r.Get("/dashboard", analyticsHandler.Dashboard)
				r.Get("/by-province", analyticsHandler.ByProvince)
				r.Get("/by-data-source", analyticsHandler.ByDataSource)
			})

			r.Route("/ai-jobs", func(r chi.Router) {
				r.Get("/", jobHandler.List)
				r.With(RequirePermission(permissions.AiJobCreate)).Post("/", jobHandler.Create)
				r.Get("/{id}", jobHandler.Get)
			})

			r.With(RequirePermission(permissions.AdminSeed)).Post("/admin/seed", adminHandler.Seed)
		})
	})

	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics.Handler())
	}

	return r
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/camden-git/congoaddressmapper/auth"
	"github.com/camden-git/congoaddressmapper/config"
	"github.com/camden-git/congoaddressmapper/handlers"
	"github.com/camden-git/congoaddressmapper/logging"
	"github.com/camden-git/congoaddressmapper/media"
	"github.com/camden-git/congoaddressmapper/metrics"
	"github.com/camden-git/congoaddressmapper/realtime"
	"github.com/camden-git/congoaddressmapper/workers"
)

const shutdownTimeout = 15 * time.Second

func serveCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, websocket feed and photo workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, *cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	ctx = logging.WithAttrs(ctx, slog.String("component", "server"))
	repos := newRepositories(cfg.Database)
	defer func() {
		if err := repos.store.Close(); err != nil {
			logging.Warn(ctx, "failed to close database", logging.Err(err))
		}
	}()

	// the API starts without a store; reads degrade until it can be opened
	if _, err := repos.store.DB(ctx); err != nil {
		logging.Warn(ctx, "address store unavailable at startup", logging.Err(err))
	}

	mediaStore, err := media.NewLocalStorage(cfg.Media.StoragePath, map[media.AssetType]string{
		media.AssetTypePhoto:     config.DefaultPhotosSubDir,
		media.AssetTypeThumbnail: config.DefaultThumbnailsSubDir,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize media store: %w", err)
	}

	m, err := metrics.New()
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	hub := realtime.NewHub(originChecker(cfg.Server.AllowedOrigins))
	go hub.Run()
	defer hub.Close()

	processor := workers.NewPhotoProcessor(cfg, mediaStore, repos.photos)
	processor.OnDone = func(photoID string, taskErr error) {
		m.PhotoProcessed(taskErr)
		ev := realtime.Event{Type: realtime.EventPhotoProcessed, Status: "completed", Extra: map[string]any{"photoId": photoID}}
		if taskErr != nil {
			ev.Status = "error"
			ev.Error = taskErr.Error()
		}
		if photo, err := repos.photos.GetByID(context.Background(), photoID); err == nil {
			ev.AddressID = photo.AddressID
		}
		hub.Broadcast(ev)
	}
	defer processor.Stop()

	if n, err := processor.QueueUnfinished(ctx); err != nil {
		logging.Warn(ctx, "failed to requeue unfinished photos", logging.Err(err))
	} else if n > 0 {
		logging.Info(ctx, "requeued unfinished photos", slog.Int("count", n))
	}

	demo, err := auth.NewDemoIdentity(cfg.Auth.DemoPassword)
	if err != nil {
		return err
	}
	if cfg.Auth.DemoMode {
		logging.Warn(ctx, "demo mode is on: unauthenticated requests act as the demo administrator")
	}

	router := handlers.NewRouter(handlers.Deps{
		Store:          repos.store,
		Addresses:      repos.addresses,
		Regions:        repos.regions,
		Analytics:      repos.analytics,
		Buildings:      repos.buildings,
		Photos:         repos.photos,
		Sessions:       repos.sessions,
		Jobs:           repos.jobs,
		Users:          repos.users,
		Seeder:         repos.seeder(),
		Identity:       &handlers.Identity{Tokens: auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL), Demo: demo, DemoMode: cfg.Auth.DemoMode},
		MediaStore:     mediaStore,
		PhotoQueue:     processor,
		Hub:            hub,
		Metrics:        m,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MaxUploadBytes: cfg.MaxUploadBytes(),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logging.Info(ctx, "server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logging.Info(ctx, "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// originChecker accepts websocket upgrades from the configured CORS origins
// and from non-browser clients that send no Origin header.
func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return slices.Contains(allowed, "*") || slices.Contains(allowed, origin)
	}
}

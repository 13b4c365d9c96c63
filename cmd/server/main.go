package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/roasboard/backend-go/internal/api"
	"github.com/andresuchdata/roasboard/backend-go/internal/cache"
	"github.com/andresuchdata/roasboard/backend-go/internal/config"
	"github.com/andresuchdata/roasboard/backend-go/internal/drive"
	"github.com/andresuchdata/roasboard/backend-go/internal/forecast"
	"github.com/andresuchdata/roasboard/backend-go/internal/metrics"
	"github.com/andresuchdata/roasboard/backend-go/internal/mockdata"
	"github.com/andresuchdata/roasboard/backend-go/internal/repository"
	"github.com/andresuchdata/roasboard/backend-go/internal/repository/source"
	"github.com/andresuchdata/roasboard/backend-go/internal/service"
	"github.com/andresuchdata/roasboard/backend-go/internal/storage"
	"github.com/andresuchdata/roasboard/backend-go/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.App.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Log.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
	logger.Log.Info().Msg("Server exiting")
}

func run(ctx context.Context, cfg *config.Config) error {
	repo, closeRepo, err := source.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeRepo(); err != nil {
			logger.Log.Warn().Err(err).Msg("failed to close sku source")
		}
	}()

	dashboardCache, err := cache.NewDashboardCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("dashboard cache unavailable, falling back to in-memory cache")
		dashboardCache = cache.NewMemoryDashboardCache(time.Duration(cfg.Cache.DashboardTTLSeconds) * time.Second)
	}
	defer dashboardCache.Close()

	var objectStore storage.ObjectStorage
	if cfg.Storage.Enabled {
		client, err := storage.NewS3Client(cfg.Storage)
		if err != nil {
			return err
		}
		objectStore = client
	}

	reg := metrics.NewRegistry()

	// Initialize services
	dashboardService := service.NewDashboardService(repo, dashboardCache, forecast.NewForest(), mockdata.New(cfg.Source.MockSeed), reg)
	planningService := service.NewPlanningService(repo, dashboardCache, cfg.Bidding, cfg.Simulation, reg)
	exportService := service.NewExportService(dashboardService, planningService, objectStore, reg)

	router := api.NewRouter(&api.Services{
		DashboardService: dashboardService,
		PlanningService:  planningService,
		ExportService:    exportService,
		Metrics:          reg,
	}, cfg.Server.AllowedOrigins)

	var driveHandler *drive.Handler
	var watcher *drive.Watcher
	if cfg.Drive.Enabled {
		ingest, err := newDriveIngest(ctx, cfg.Drive, repo, dashboardCache.InvalidateAll)
		if err != nil {
			return err
		}
		driveHandler = drive.NewHandler(ingest)
		watcher = drive.NewWatcher(ingest, time.Duration(cfg.Drive.PollIntervalSeconds)*time.Second)
	}

	servers := []*http.Server{{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}}
	if cfg.Metrics.Enabled {
		servers = append(servers, &http.Server{
			Addr:              ":" + cfg.Metrics.Port,
			Handler:           opsRouter(reg, driveHandler),
			ReadHeaderTimeout: 5 * time.Second,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			logger.Log.Info().Str("addr", srv.Addr).Msg("Starting server")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	if watcher != nil {
		g.Go(func() error { return watcher.Run(gctx) })
	}

	// Wait for interrupt signal to gracefully shut down the servers
	g.Go(func() error {
		<-gctx.Done()
		logger.Log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		defer cancel()

		var shutdownErr error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				shutdownErr = errors.Join(shutdownErr, err)
			}
		}
		return shutdownErr
	})

	return g.Wait()
}

func newDriveIngest(ctx context.Context, cfg config.DriveConfig, repo repository.SKURepository, afterIngest func(context.Context) error) (*drive.IngestService, error) {
	svc, err := drive.NewService(ctx, cfg)
	if err != nil {
		return nil, err
	}

	folderID := cfg.FolderID
	if folderID == "" {
		if folderID, err = svc.FindFolderByPath(ctx, cfg.FolderPath); err != nil {
			return nil, err
		}
	}
	logger.Log.Info().Str("folder", folderID).Msg("drive snapshot ingest enabled")
	return drive.NewIngestService(svc, folderID, repo, afterIngest), nil
}

// opsRouter serves the scrape and liveness endpoints on the internal port, plus the
// drive ingest routes when a handler is given.
func opsRouter(reg *metrics.Registry, driveHandler *drive.Handler) http.Handler {
	r := mux.NewRouter()
	if driveHandler != nil {
		driveHandler.RegisterRoutes(r)
	}
	r.Handle("/metrics", reg.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods(http.MethodGet)
	return r
}

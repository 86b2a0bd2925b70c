package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	httpapi "github.com/i474232898/fire-risk-dashboard/internal/api/http"
	"github.com/i474232898/fire-risk-dashboard/internal/config"
	"github.com/i474232898/fire-risk-dashboard/internal/dashboard"
	"github.com/i474232898/fire-risk-dashboard/internal/feed"
	"github.com/i474232898/fire-risk-dashboard/internal/firerisk"
	"github.com/i474232898/fire-risk-dashboard/internal/model"
	"github.com/i474232898/fire-risk-dashboard/internal/observability"
	"github.com/i474232898/fire-risk-dashboard/internal/scheduler"
	"github.com/i474232898/fire-risk-dashboard/internal/station"
	"github.com/i474232898/fire-risk-dashboard/internal/store"
)

const serviceName = "fire-risk-dashboard"

func main() {
	// Load configuration.
	cfg, envLoaded, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := observability.NewLogger(observability.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck // stderr sync fails on some platforms
	zl = zl.With(zap.String("service", serviceName))
	if !envLoaded {
		zl.Info("no .env file found; using environment only")
	}

	metrics := observability.NewMetrics()

	// Model artifacts are loaded once; the service cannot run without them.
	scaler, err := model.LoadScaler(cfg.ScalerPath)
	if err != nil {
		zl.Fatal("failed to load scaler", zap.String("path", cfg.ScalerPath), zap.Error(err))
	}
	classifier, err := model.LoadClassifier(cfg.ModelPath)
	if err != nil {
		zl.Fatal("failed to load classifier", zap.String("path", cfg.ModelPath), zap.Error(err))
	}
	metrics.ModelArtifactsOK.Set(1)
	predictor := firerisk.NewPredictor(scaler, classifier)

	// Shared HTTP client for outbound feed calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	var riskStore firerisk.Store
	switch cfg.StoreDriver {
	case "sqlite":
		sqliteStore, err := store.NewSQLiteStore(cfg.SQLitePath, cfg.StoreMaxAge, nil)
		if err != nil {
			zl.Fatal("failed to open sqlite store", zap.String("path", cfg.SQLitePath), zap.Error(err))
		}
		defer sqliteStore.Close()
		riskStore = sqliteStore
	default:
		riskStore = store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge, nil)
	}

	geoCtx, geoCancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
	site := station.Resolve(geoCtx, station.Params{
		Name:           cfg.StationName,
		Country:        cfg.StationCountry,
		Lat:            cfg.StationLat,
		Lon:            cfg.StationLon,
		GeocoderAPIKey: cfg.GeocoderAPIKey,
		Fallback: firerisk.Station{
			Name: config.DefaultStationName,
			Lat:  config.DefaultStationLat,
			Lon:  config.DefaultStationLon,
		},
	}, station.GoogleGeocode, zl)
	geoCancel()

	source := feed.NewFetcher(cfg.FeedURL, httpClient, zl.Named("feed"))

	// Core service orchestrating feed, model and store.
	service := firerisk.NewService(source, predictor, riskStore, site, nil, zl.Named("refresh"), metrics)

	profiles, err := dashboard.LoadProfiles(cfg.BrandingFile)
	if err != nil {
		zl.Fatal("failed to load branding profiles", zap.Error(err))
	}
	if _, err := profiles.Get(cfg.DashboardVariant); err != nil {
		zl.Fatal("invalid DASHBOARD_VARIANT", zap.Strings("available", profiles.Keys()), zap.Error(err))
	}
	renderer, err := dashboard.NewRenderer()
	if err != nil {
		zl.Fatal("failed to build dashboard renderer", zap.Error(err))
	}

	// Scheduler that periodically refreshes the assessment.
	sched := scheduler.New(cfg.RefreshInterval, service, zl.Named("scheduler"))
	if err := sched.Start(); err != nil {
		zl.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": serviceName,
		})
	})

	httpapi.RegisterRoutes(app, service)
	httpapi.RegisterDashboard(app, service, httpapi.DashboardConfig{
		Renderer:       renderer,
		Profiles:       profiles,
		DefaultVariant: cfg.DashboardVariant,
		FeedEditURL:    cfg.FeedEditURL,
		Refresh:        cfg.RefreshInterval,
	})

	go func() {
		zl.Info("http server listening",
			zap.String("port", cfg.Port),
			zap.String("station", site.Name),
			zap.String("store", cfg.StoreDriver),
		)
		if err := app.Listen(":" + cfg.Port); err != nil {
			zl.Error("fiber server stopped", zap.Error(err))
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		zl.Error("error during shutdown", zap.Error(err))
	}
}

package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/riky007-ux/stylemingle-sub000/internal/auth"
	"github.com/riky007-ux/stylemingle-sub000/internal/config"
	"github.com/riky007-ux/stylemingle-sub000/internal/database"
	"github.com/riky007-ux/stylemingle-sub000/internal/database/migration"
	handlers "github.com/riky007-ux/stylemingle-sub000/internal/http/handler"
	"github.com/riky007-ux/stylemingle-sub000/internal/http/middleware"
	"github.com/riky007-ux/stylemingle-sub000/internal/otel"
	"github.com/riky007-ux/stylemingle-sub000/internal/repository"
	"github.com/riky007-ux/stylemingle-sub000/internal/repository/postgres"
	"github.com/riky007-ux/stylemingle-sub000/internal/service"
	"github.com/riky007-ux/stylemingle-sub000/internal/storage"
	"github.com/riky007-ux/stylemingle-sub000/internal/vision"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// The item repository reads the current schema first and falls back to the
	// pre-migration layout, so a half-migrated database degrades instead of
	// hard-failing every request.
	itemRepo := repository.NewSchemaFallback(
		postgres.NewItemPostgres(db),
		postgres.NewItemPostgresLegacy(db),
	)

	verifier := auth.NewHMACVerifier(cfg.Upload.TokenSecret)

	// Without an API key the tagging endpoints answer AI_UNAVAILABLE; the rest
	// of the API is unaffected.
	var tagger service.VisionTagger
	if cfg.Vision.APIKey != "" {
		tagger = vision.NewClient(cfg.Vision.APIKey,
			vision.WithBaseURL(cfg.Vision.BaseURL),
			vision.WithModel(cfg.Vision.Model),
			vision.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Vision.TimeoutSec) * time.Second}),
		)
	}

	presignExpiry := time.Duration(cfg.Upload.PresignExpirySec) * time.Second
	uploadSvc := service.NewUploadService(objStore, itemRepo, cfg.Upload.TokenSecret, presignExpiry)
	itemSvc := service.NewItemService(itemRepo, objStore)
	tagSvc := service.NewTaggingService(itemRepo, tagger)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector())
	promMiddleware, err := middleware.NewPrometheusMiddleware(promRegistry)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, verifier, uploadSvc, itemSvc, tagSvc)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

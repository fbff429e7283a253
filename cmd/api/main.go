package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docreview/docs"
	"docreview/internal/config"
	"docreview/internal/database"
	"docreview/internal/database/migration"
	handlers "docreview/internal/http/handler"
	"docreview/internal/http/middleware"
	"docreview/internal/ledger"
	"docreview/internal/otel"
	"docreview/internal/repository/postgres"
	"docreview/internal/service"
	"docreview/internal/store"
)

// @title Document Review API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx, time.UTC)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	// Submission journal (PostgreSQL with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Content store (S3-compatible, MinIO-supported)
	contentStore, err := store.NewMinIO(cfg.Store)
	if err != nil {
		log.Fatalf("failed to initialize content store: %v", err)
	}

	// Ledger client. Refuses to start without a resolvable target: a
	// misconfigured target must never register documents nowhere.
	ledgerClient, err := ledger.NewHTTPClient(cfg.Ledger)
	if err != nil {
		log.Fatalf("failed to initialize ledger client: %v", err)
	}

	journal := postgres.NewSubmissionPostgres(db)
	subSvc := service.NewSubmissionService(contentStore, ledgerClient, journal)
	reviewSvc := service.NewReviewService(contentStore, ledgerClient, cfg.StatusFanout)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.RegisterRoutes(app, db, subSvc, reviewSvc)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"zerowaste/docs"
	"zerowaste/internal/auth"
	"zerowaste/internal/config"
	"zerowaste/internal/database"
	"zerowaste/internal/database/migration"
	"zerowaste/internal/geo"
	handlers "zerowaste/internal/http/handler"
	"zerowaste/internal/http/middleware"
	"zerowaste/internal/logging"
	"zerowaste/internal/matcher"
	"zerowaste/internal/metrics"
	appotel "zerowaste/internal/otel"
	"zerowaste/internal/repository"
	"zerowaste/internal/repository/memory"
	"zerowaste/internal/repository/postgres"
	"zerowaste/internal/service"
	"zerowaste/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title Zero Waste API
// @version 1.0
// @description Matches surplus food from donors to nearby receivers with spare capacity.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.Env, cfg.LogLevel, time.UTC)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server_exit", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) error {
	shutdownTracing, err := appotel.Init(ctx, logger)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracing_shutdown_failed", zap.Error(err))
		}
	}()

	if cfg.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	var objects storage.Storage
	if cfg.MinIO.Enabled() {
		objects, err = storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			return fmt.Errorf("init object storage: %w", err)
		}
	} else {
		logger.Info("report_exports_disabled", zap.String("reason", "MINIO_ENDPOINT not set"))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	donationMetrics, err := metrics.NewDonations(reg)
	if err != nil {
		return fmt.Errorf("register donation metrics: %w", err)
	}
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("register http metrics: %w", err)
	}

	radius := cfg.Matching.EarthRadiusKm
	m := matcher.New(store.Organizations(),
		matcher.WithPolicy(matcher.ExpiryWeighted{Weight: cfg.Matching.ExpiryWeight}),
		matcher.WithDistance(func(lat1, lon1, lat2, lon2 float64) float64 {
			return geo.DistanceWithRadius(radius, lat1, lon1, lat2, lon2)
		}),
	)

	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry)
	orgSvc := service.NewOrganizationService(store, auth.NewBcryptHasher(cfg.Auth.BcryptCost), tokens, logger)
	donationSvc := service.NewDonationService(store, m,
		service.WithLogger(logger),
		service.WithMetrics(donationMetrics),
		service.WithMaxAttempts(cfg.Matching.MaxAttempts),
	)
	reportSvc := service.NewReportService(store, objects, logger)

	app := fiber.New(fiber.Config{
		AppName:      "zerowaste",
		ErrorHandler: handlers.ErrorHandler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})

	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == middleware.MetricsPath || c.Path() == "/healthz"
	})))
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(logger))
	app.Use(promMiddleware.Handler())

	app.Get(middleware.MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	health := []handlers.Pinger{store}
	if objects != nil {
		health = append(health, objects)
	}
	handlers.RegisterRoutes(app, handlers.Dependencies{
		Health:        health,
		Organizations: orgSvc,
		Donations:     donationSvc,
		Reports:       reportSvc,
		Tokens:        tokens,
	})

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

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_listening",
			zap.String("addr", ":"+cfg.Port),
			zap.String("store_backend", cfg.StoreBackend),
			zap.Bool("reports_enabled", objects != nil),
		)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("server_shutdown", zap.Duration("timeout", shutdownTimeout))
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openStore builds the repository.Store selected by STORE_BACKEND.
func openStore(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (repository.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		logger.Warn("store_backend_memory", zap.String("detail", "state is lost on restart"))
		return memory.NewStore(), func() {}, nil

	case config.StorePostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("migrate database: %w", err)
		}
		return postgres.NewStore(db), func() { _ = db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"brgydocs/docs"
	"brgydocs/internal/config"
	"brgydocs/internal/database"
	"brgydocs/internal/database/migration"
	"brgydocs/internal/events"
	handlers "brgydocs/internal/http/handler"
	"brgydocs/internal/http/middleware"
	"brgydocs/internal/logger"
	"brgydocs/internal/ornumber"
	"brgydocs/internal/otel"
	"brgydocs/internal/repository/cache"
	"brgydocs/internal/repository/postgres"
	"brgydocs/internal/service"
	"brgydocs/internal/storage"
)

const catalogCacheTTL = time.Minute

// @title Barangay Document Request API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := cfg.Location()

	log, err := logger.New(loc)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Fatal("tracing_init_failed", zap.Error(err))
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("db_connect_failed", zap.Error(err))
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		log.Fatal("db_migration_failed", zap.Error(err))
	}

	objStore, err := storage.NewMinIO(ctx, cfg.MinIO, log)
	if err != nil {
		log.Fatal("storage_init_failed", zap.Error(err))
	}

	publisher, closeEvents := newPublisher(ctx, cfg.Redis, log)
	defer closeEvents()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := service.NewMetrics(reg)
	if err != nil {
		log.Fatal("metrics_init_failed", zap.Error(err))
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatal("metrics_init_failed", zap.Error(err))
	}

	auth, err := middleware.NewAuthenticator(cfg.Auth)
	if err != nil {
		log.Fatal("auth_init_failed", zap.Error(err))
	}

	// Initialize repositories and services
	types := cache.NewDocumentTypes(postgres.NewDocumentTypePostgres(db), catalogCacheTTL)
	requestSvc := service.NewDocumentRequestService(service.Deps{
		Tx:        postgres.NewTxManager(db),
		Requests:  postgres.NewDocumentRequestPostgres(db),
		Payments:  postgres.NewPaymentPostgres(db),
		Audit:     postgres.NewAuditPostgres(db),
		Residents: postgres.NewResidentPostgres(db),
		Types:     types,
		ORNumbers: ornumber.NewGenerator(postgres.NewORCounterPostgres(db)),
		Store:     objStore,
		Events:    publisher,
		Metrics:   metrics,
		Log:       log,
		Release:   cfg.Release,
		Location:  loc,
	})
	typeSvc := service.NewDocumentTypeService(types, log)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// RequestID runs first so every later middleware and the audit trail see the id.
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger(log))
	app.Use(httpMetrics.Handler())

	handlers.RegisterRoutes(app, handlers.Dependencies{
		DB:       db,
		Requests: requestSvc,
		Types:    typeSvc,
		Auth:     auth,
		Gatherer: reg,
		Location: loc,
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

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("server_shutdown_failed", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Port
	log.Info("server_starting", zap.String("addr", addr), zap.String("timezone", loc.String()))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server_start_failed", zap.Error(err))
	}
}

// newPublisher connects the status-change channel. Without REDIS_ADDR events are dropped.
func newPublisher(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) (events.Publisher, func()) {
	if cfg.Addr == "" {
		log.Info("events_disabled", zap.String("reason", "REDIS_ADDR not set"))
		return events.Noop{}, func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		// Publishing is best effort; keep the client so it can recover.
		log.Warn("events_redis_unreachable", zap.String("addr", cfg.Addr), zap.Error(err))
	}
	return events.NewRedisPublisher(client, cfg.Channel), func() { _ = client.Close() }
}

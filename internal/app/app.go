package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	"github.com/utafrali/wishlist/internal/auth"
	"github.com/utafrali/wishlist/internal/config"
	"github.com/utafrali/wishlist/internal/event"
	handler "github.com/utafrali/wishlist/internal/handler/http"
	"github.com/utafrali/wishlist/internal/repository"
	"github.com/utafrali/wishlist/internal/repository/postgres"
	"github.com/utafrali/wishlist/internal/repository/redis"
	"github.com/utafrali/wishlist/internal/service"
	"github.com/utafrali/wishlist/migrations"
	"github.com/utafrali/wishlist/pkg/database"
	"github.com/utafrali/wishlist/pkg/health"
	pkgkafka "github.com/utafrali/wishlist/pkg/kafka"
	"github.com/utafrali/wishlist/pkg/middleware"
	"github.com/utafrali/wishlist/pkg/tracing"
)

const (
	serviceName    = "wishlist-api"
	serviceVersion = "0.1.0"
)

// Swapped in tests.
var (
	newPostgresPool = database.NewPostgresPool
	runMigrations   = database.RunMigrations
)

// App wires together all dependencies and runs the wishlist API.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	redis          *goredis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown tracing.ShutdownFunc
}

// NewApp creates a new application instance, initializing all dependencies.
// Redis and Kafka are optional: the API runs without the list cache when
// Redis is unreachable and without item events when Kafka is disabled.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Insecure:       cfg.OTELInsecure,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// PostgreSQL
	pgCfg := database.DefaultPostgresConfig()
	pgCfg.Host = cfg.PostgresHost
	pgCfg.Port = cfg.PostgresPort
	pgCfg.User = cfg.PostgresUser
	pgCfg.Password = cfg.PostgresPass
	pgCfg.DBName = cfg.PostgresDB
	pgCfg.SSLMode = cfg.PostgresSSL
	if cfg.DBMaxConns > 0 {
		pgCfg.MaxConns = cfg.DBMaxConns
	}
	if cfg.DBMinConns > 0 {
		pgCfg.MinConns = cfg.DBMinConns
	}
	if cfg.DBMaxConnLifetimeMins > 0 {
		pgCfg.MaxConnLifetime = time.Duration(cfg.DBMaxConnLifetimeMins) * time.Minute
	}
	if cfg.DBMaxConnIdleTimeMins > 0 {
		pgCfg.MaxConnIdleTime = time.Duration(cfg.DBMaxConnIdleTimeMins) * time.Minute
	}

	pool, err := newPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		shutdownTracer(tracerShutdown, logger)
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool, serviceName); err != nil {
		logger.Warn("pool metrics not registered", slog.String("error", err.Error()))
	}

	if err := runMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		shutdownTracer(tracerShutdown, logger)
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	queryTracer := &database.QueryTracer{
		SlowThreshold: time.Duration(cfg.SlowQueryThresholdMs) * time.Millisecond,
		Logger:        logger,
	}

	healthHandler := health.NewHandler(2 * time.Second)
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})

	// Redis list cache. A nil interface value disables caching in the service.
	var (
		listCache   repository.ItemListCache
		redisClient *goredis.Client
	)
	if cfg.CacheEnabled() {
		redisClient, err = database.NewRedisClient(ctx, database.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			logger.Warn("redis unavailable, item list cache disabled", slog.String("error", err.Error()))
		} else {
			cache := redis.NewListCache(redisClient, cfg.CacheTTL)
			listCache = cache
			healthHandler.Register("redis", cache.Ping)
			logger.Info("item list cache enabled",
				slog.String("addr", redisClient.Options().Addr),
				slog.Duration("ttl", cfg.CacheTTL),
			)
		}
	}

	// Kafka item events.
	var producer *pkgkafka.Producer
	if cfg.KafkaEnabled {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		healthHandler.Register("kafka", producer.Ping)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Build the dependency graph.
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry)
	itemRepo := postgres.NewItemRepository(pool, queryTracer)
	eventProducer := event.NewProducer(producer, logger)
	itemService := service.NewItemService(itemRepo, listCache, eventProducer, logger)

	router := handler.NewRouter(itemService, jwtManager.Owner, healthHandler, logger, handler.RouterConfig{
		CORS:              middleware.CORSConfig{AllowedOrigins: cfg.CORSAllowedOrigins},
		PprofAllowedCIDRs: cfg.PprofAllowedCIDRs,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		redis:          redisClient,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return errors.Join(err, a.Shutdown())
	}

	return a.Shutdown()
}

// Shutdown stops components in order: HTTP server, tracer, Kafka, Redis,
// then the PostgreSQL pool.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// Flush spans after the HTTP drain so in-flight request spans are captured.
	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

// shutdownTracer stops the tracer provider when NewApp fails after it was started.
func shutdownTracer(shutdown tracing.ShutdownFunc, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		logger.Warn("tracer shutdown error", slog.String("error", err.Error()))
	}
}

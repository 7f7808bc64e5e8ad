package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/diillson/usuarios-api/internal/adapter/database"
	"github.com/diillson/usuarios-api/internal/adapter/http"
	"github.com/diillson/usuarios-api/internal/app/usuario"
	"github.com/diillson/usuarios-api/internal/infra/metrics"
	"github.com/diillson/usuarios-api/internal/infra/middleware"
	"github.com/diillson/usuarios-api/pkg/config"
	"github.com/diillson/usuarios-api/pkg/ratelimit"
	"github.com/diillson/usuarios-api/pkg/resilience"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// App agrupa as dependências da aplicação montadas a partir da configuração
type App struct {
	Config         *config.Config
	Logger         *zap.Logger
	DB             *database.Database
	Repository     *database.UsuarioRepository
	Service        *usuario.Service
	Breaker        *resilience.CircuitBreaker
	Limiter        ratelimit.Limiter
	Redis          *redis.Client
	Middleware     *middleware.Middleware
	MetricsHandler *middleware.MetricsHandler
	APIMetrics     *metrics.APIMetrics
	Health         *http.HealthChecker
	UsuarioHandler *http.UsuarioHandler
}

// NewApp cria uma nova instância da aplicação com todas as dependências injetadas
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	// Inicializar banco de dados
	db, err := database.NewDatabase(ctx, database.ConfigFrom(cfg.Database), logger)
	if err != nil {
		return nil, err
	}

	// Inicializar métricas
	apiMetrics := metrics.NewAPIMetrics()

	repo := database.NewUsuarioRepository(db.DB(), logger)

	opts := []usuario.Option{usuario.WithRecorder(apiMetrics)}

	var breaker *resilience.CircuitBreaker
	if cfg.Resilience.CircuitBreaker {
		breaker = resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Name:            "database",
			MaxRequestsFail: cfg.Resilience.MaxFailures,
			Timeout:         cfg.Resilience.OpenTimeout,
			MaxRequests:     cfg.Resilience.HalfOpenMaxReqs,
			IsFailure:       usuario.IsStorageFailure,
		}, logger, apiMetrics)
		opts = append(opts, usuario.WithCircuitBreaker(breaker))
	}

	service := usuario.NewService(repo, logger, opts...)

	// Rate limiting por IP
	var (
		limiter     ratelimit.Limiter
		redisClient *redis.Client
		extraChecks []http.Dependency
	)
	if cfg.RateLimit.Enabled {
		switch cfg.RateLimit.Backend {
		case "redis":
			redisClient = newRedisClient(cfg.RateLimit.Redis)
			redisLimiter := ratelimit.NewRedisLimiter(redisClient, logger)
			limiter = redisLimiter
			extraChecks = append(extraChecks, http.Dependency{Name: "redis", Check: redisLimiter.Ping})
		default:
			limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.Period, logger)
		}
		logger.Info("Rate limiting habilitado",
			zap.String("backend", cfg.RateLimit.Backend),
			zap.Int("limit", cfg.RateLimit.Limit),
			zap.Duration("period", cfg.RateLimit.Period))
	}

	var mwMetrics *metrics.APIMetrics
	if cfg.Metrics.Enabled {
		mwMetrics = apiMetrics
	}

	return &App{
		Config:         cfg,
		Logger:         logger,
		DB:             db,
		Repository:     repo,
		Service:        service,
		Breaker:        breaker,
		Limiter:        limiter,
		Redis:          redisClient,
		Middleware:     middleware.NewMiddleware(logger, mwMetrics, limiter, cfg.RateLimit, cfg.Security),
		MetricsHandler: middleware.NewMetricsHandler(apiMetrics, logger),
		APIMetrics:     apiMetrics,
		Health:         http.NewHealthChecker(db, repo, logger, extraChecks...),
		UsuarioHandler: http.NewUsuarioHandler(service, cfg.Pagination, logger),
	}, nil
}

func newRedisClient(opts config.RedisOptions) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         opts.Address,
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     opts.PoolSize,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	})
}

// RegisterRoutes registra todas as rotas no router
func (a *App) RegisterRoutes(router *gin.Engine) {
	// Configurar middleware global
	router.Use(a.Middleware.Recovery())
	router.Use(a.Middleware.RequestID())
	router.Use(a.Middleware.Tracing())
	router.Use(a.Middleware.Logger())
	router.Use(a.Middleware.Metrics())
	router.Use(a.Middleware.SecurityHeaders())
	router.Use(a.Middleware.CORS())
	router.Use(a.Middleware.IgnoreFavicon())

	// Rotas públicas
	a.Health.RegisterRoutes(router)

	if a.Config.Metrics.Enabled {
		a.MetricsHandler.RegisterEndpoint(router, a.Config.Metrics.PrometheusPath)
	}

	api := router.Group("/api")
	api.Use(a.Middleware.RateLimit())
	a.UsuarioHandler.RegisterRoutes(api)
}

// Close libera as conexões abertas pela aplicação
func (a *App) Close() error {
	var errs []error

	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("falha ao fechar redis: %w", err))
		}
	}
	if err := a.DB.Close(); err != nil {
		errs = append(errs, fmt.Errorf("falha ao fechar banco de dados: %w", err))
	}

	return errors.Join(errs...)
}

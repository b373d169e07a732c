// Package main is the entrypoint for the Pet Community API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/petcommunity/petcommunity/internal/auth"
	"github.com/petcommunity/petcommunity/internal/cache"
	"github.com/petcommunity/petcommunity/internal/config"
	"github.com/petcommunity/petcommunity/internal/handler"
	"github.com/petcommunity/petcommunity/internal/metrics"
	"github.com/petcommunity/petcommunity/internal/middleware"
	"github.com/petcommunity/petcommunity/internal/repository"
	"github.com/petcommunity/petcommunity/internal/router"
	"github.com/petcommunity/petcommunity/internal/server"
	"github.com/petcommunity/petcommunity/internal/service"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	if cfg.AutoMigrate {
		if err := repo.Migrate(ctx); err != nil {
			logger.Error("failed to apply migrations", "error", err)
			repo.Close()
			os.Exit(1)
		}
		logger.Info("migrations applied")
	}

	// Profile cache is optional
	var (
		cacheClient *cache.Cache
		userCache   service.UserCache
		redisCheck  handler.HealthChecker
	)
	if cfg.CacheEnabled() {
		cacheClient, err = cache.New(ctx, cfg.RedisURL, cfg.UserCacheTTL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			repo.Close()
			os.Exit(1)
		}
		userCache = cacheClient
		redisCheck = cacheClient
		logger.Info("connected to Redis")
	} else {
		logger.Info("profile cache disabled")
	}

	// Initialize services
	recorder := metrics.NewInMemory()
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)

	authService := service.NewAuthService(service.AuthServiceConfig{
		Users:   repo,
		Hasher:  auth.NewPasswordHasher(auth.DefaultParams),
		Tokens:  tokens,
		Cache:   userCache,
		Metrics: recorder,
		Logger:  logger,
	})
	petService := service.NewPetService(repo, recorder)

	// Initialize handlers and routes
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	r := router.New(router.Deps{
		Handler: handler.New(),
		Health: handler.NewHealthHandler(logger,
			handler.Dependency{Name: "postgres", Checker: repo},
			handler.Dependency{Name: "redis", Checker: redisCheck},
		),
		Users:       handler.NewUserHandler(authService, logger),
		Pets:        handler.NewPetHandler(petService, logger, handler.PetHandlerOptions{EmptyListOK: cfg.PetsEmptyListOK}),
		Metrics:     handler.NewMetricsHandler(recorder),
		Identity:    authService,
		Logger:      logger,
		Security:    middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()},
		CORS:        corsCfg,
		MaxBodySize: cfg.MaxRequestBodySize,
	})

	srv := server.New(r, server.Config{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// Hooks run in reverse registration order: Redis closes before Postgres.
	srv.OnShutdown("postgres", func(context.Context) error {
		repo.Close()
		return nil
	})
	if cacheClient != nil {
		srv.OnShutdown("redis", func(context.Context) error {
			return cacheClient.Close()
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"cache_enabled", cfg.CacheEnabled(),
		"token_ttl", cfg.JWTTTL.String(),
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}

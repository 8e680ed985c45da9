// Package main is the entrypoint for the Gridboard API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/gridboard/gridboard/internal/config"
	"github.com/gridboard/gridboard/internal/dashboard"
	"github.com/gridboard/gridboard/internal/handler"
	"github.com/gridboard/gridboard/internal/metrics"
	"github.com/gridboard/gridboard/internal/middleware"
	"github.com/gridboard/gridboard/internal/repository"
	"github.com/gridboard/gridboard/internal/server"
	"github.com/gridboard/gridboard/internal/service"
	"github.com/gridboard/gridboard/internal/store"
)

func main() {
	// Initialize context
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
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
	defer repo.Close()
	logger.Info("connected to database")

	// Initialize key-value store
	kvClient, err := store.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer kvClient.Close()
	logger.Info("connected to Redis")

	// Initialize services
	recorder := metrics.NewInMemory()
	accountService := service.NewAccountService(repo, kvClient, []byte(cfg.JWTSecret), cfg.TokenTTL, logger, recorder)
	prefsService := service.NewPrefsService(kvClient, logger)
	dashboards := dashboard.NewManager(kvClient, logger, recorder)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(repo, kvClient)
	metricsHandler := handler.NewMetricsHandler(recorder)
	authHandler := handler.NewAuthHandler(accountService, dashboards, logger)
	dashboardHandler := handler.NewDashboardHandler(dashboards, logger)
	prefsHandler := handler.NewPrefsHandler(prefsService, logger)

	// Setup router
	r := setupRouter(routerDeps{
		health:    healthHandler,
		metrics:   metricsHandler,
		auth:      authHandler,
		dashboard: dashboardHandler,
		prefs:     prefsHandler,
		accounts:  accountService,
		kv:        kvClient,
		cfg:       cfg,
		logger:    logger,
	})

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
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
	switch level {
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

// routerDeps bundles everything the router needs.
type routerDeps struct {
	health    *handler.HealthHandler
	metrics   *handler.MetricsHandler
	auth      *handler.AuthHandler
	dashboard *handler.DashboardHandler
	prefs     *handler.PrefsHandler
	accounts  *service.AccountService
	kv        *store.Client
	cfg       *config.Config
	logger    *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recoverer(deps.logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment: deps.cfg.IsDevelopment(),
	}))
	r.Use(middleware.MaxBodySize(deps.cfg.MaxRequestBodySize))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: deps.cfg.GetCORSAllowedOrigins(),
	}))

	// Health endpoints (no auth required)
	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)
	r.Get("/metrics", deps.metrics.Metrics)

	// Root info endpoint
	r.Get("/", handler.Hello)

	// Auth middleware configuration
	authCfg := middleware.AuthConfig{
		Logger:   deps.logger,
		Accounts: deps.accounts,
	}

	// Credential endpoint rate limiting
	rateLimitCfg := middleware.RateLimitConfig{
		Logger:      deps.logger,
		Attempts:    deps.kv,
		Enabled:     deps.cfg.RateLimitAuthEnabled,
		MaxAttempts: deps.cfg.RateLimitAuthMax,
		Window:      deps.cfg.RateLimitAuthWindow,
	}

	// Session endpoints
	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.RateLimitAuth(rateLimitCfg)).Post("/register", deps.auth.Register)
		r.With(middleware.RateLimitAuth(rateLimitCfg)).Post("/login", deps.auth.Login)
		r.With(middleware.RateLimitAuth(rateLimitCfg)).Post("/reset-password", deps.auth.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))
			r.Get("/me", deps.auth.Me)
			r.Patch("/me", deps.auth.UpdateProfile)
			r.Post("/signout", deps.auth.SignOut)
		})
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Subscription plans are public
		r.Get("/plans", deps.prefs.Plans)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/", deps.dashboard.Get)
				r.Get("/features", deps.dashboard.Features)
				r.Put("/layout", deps.dashboard.Reorder)
				r.Patch("/widgets/{id}", deps.dashboard.Toggle)
			})

			r.Route("/me", func(r chi.Router) {
				r.Get("/theme", deps.prefs.GetTheme)
				r.Put("/theme", deps.prefs.SetTheme)
				r.Get("/settings", deps.prefs.GetSettings)
				r.Put("/settings", deps.prefs.SetSettings)
			})
		})
	})

	// 404 and 405 handlers
	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	return r
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

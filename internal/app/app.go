// Package app wires configuration, storage, observability and the record
// modules into a runnable HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/logger"
	"gorm.io/gorm"

	"github.com/simp-lee/fleetbase/internal/config"
	"github.com/simp-lee/fleetbase/internal/domain"
	"github.com/simp-lee/fleetbase/internal/metrics"
	"github.com/simp-lee/fleetbase/internal/middleware"
	"github.com/simp-lee/fleetbase/internal/pkg"
	"github.com/simp-lee/fleetbase/internal/store"
)

// Version is stamped at build time with -ldflags "-X".
var Version = "dev"

const shutdownTimeout = 5 * time.Second

// App holds the core application dependencies and the HTTP server.
type App struct {
	engine          *gin.Engine
	db              *gorm.DB
	logger          *logger.Logger
	cfg             *config.Config
	shutdownTracing config.ShutdownFunc
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

var newHTTPServer = func(addr string, handler http.Handler) httpServer {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

var notifyContext = func(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}

// Migrate creates or updates the tables of every record kind.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.Branch{}, &domain.Employee{}, &domain.Vehicle{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// New creates and wires a fully configured App from cfg. Resources acquired
// before a failure are released.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := validateGinMode(cfg.Server.Mode); err != nil {
		return nil, err
	}

	var cleanups []func()
	success := false
	defer func() {
		if success {
			return
		}
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}()

	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}
	cleanups = append(cleanups, func() {
		if err := log.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	})

	if cfg.Server.Mode == gin.DebugMode && cfg.Server.Host == "0.0.0.0" {
		log.Warn("insecure server config: debug mode on 0.0.0.0 may expose debug behavior and permissive CORS")
	}
	if !cfg.Auth.Enabled && cfg.Server.Mode == gin.ReleaseMode {
		log.Warn("api key authentication is disabled in release mode")
	}

	shutdownTracing, err := config.SetupTracing(context.Background(), &cfg.Tracing, Version)
	if err != nil {
		return nil, fmt.Errorf("setup tracing: %w", err)
	}
	cleanups = append(cleanups, func() { _ = shutdownTracing(context.Background()) })

	db, err := config.SetupDatabase(&cfg.Database, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}
	cleanups = append(cleanups, func() { closeDB(db, log.Logger) })

	if cfg.Database.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		log.Info("auto migration completed")
	}

	if err := pkg.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	var (
		m         *metrics.Metrics
		storeOpts []store.Option
	)
	if cfg.Metrics.Enabled {
		m = metrics.New()
		storeOpts = append(storeOpts, store.WithObserver(m))
	}

	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()
	engine.Use(buildMiddleware(cfg, log.Logger, m)...)

	deps := &RouteDeps{
		Modules: buildModules(db, cfg.Server.BaseURL, storeOpts...),
		DB:      db,
		APIBase: cfg.Server.BaseURL,
		Mode:    cfg.Server.Mode,
		Version: Version,
	}
	if m != nil {
		deps.Metrics = m.Handler()
		deps.MetricsPath = cfg.Metrics.Path
	}
	if err := RegisterRoutes(engine, deps); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	success = true
	return &App{
		engine:          engine,
		db:              db,
		logger:          log,
		cfg:             cfg,
		shutdownTracing: shutdownTracing,
	}, nil
}

// Handler exposes the engine, mainly for tests.
func (a *App) Handler() http.Handler { return a.engine }

const slowRequestThreshold = time.Second

// buildMiddleware returns the global chain. Recovery comes first so a panic
// anywhere below still yields a JSON 500; the API key check comes last so
// rejected requests are still traced, counted and logged.
func buildMiddleware(cfg *config.Config, log *slog.Logger, m *metrics.Metrics) []gin.HandlerFunc {
	chain := []gin.HandlerFunc{
		middleware.Recovery(log),
		middleware.RequestID(middleware.RequestIDConfig{}),
	}
	if cfg.Tracing.Enabled {
		chain = append(chain, middleware.Tracing(nil))
	}
	if m != nil {
		chain = append(chain, middleware.Metrics(m))
	}
	chain = append(chain,
		middleware.Logger(log, middleware.AccessLogConfig{
			QuietPaths:    []string{"/health", "/health/detailed", cfg.Metrics.Path},
			SlowThreshold: slowRequestThreshold,
		}),
		middleware.CORSWithConfig(resolveCORSConfig(cfg.Server.Mode, cfg.Server.CORS)),
	)
	if d, err := time.ParseDuration(cfg.Server.Timeout); err == nil && d > 0 {
		chain = append(chain, middleware.Timeout(d))
	}
	if cfg.Server.RateLimit.Enabled {
		chain = append(chain, middleware.RateLimit(middleware.RateLimitConfig{
			RPS:   cfg.Server.RateLimit.RPS,
			Burst: cfg.Server.RateLimit.Burst,
		}))
	}
	if cfg.Auth.Enabled {
		chain = append(chain, middleware.APIKey(middleware.APIKeyConfig{
			Header:      cfg.Auth.Header,
			Keys:        cfg.Auth.APIKeys,
			Hashes:      cfg.Auth.APIKeyHashes,
			PublicPaths: cfg.Auth.PublicPaths,
		}))
	}
	return chain
}

// resolveCORSConfig overlays configured CORS settings on the defaults. In
// release mode an empty allowlist denies every cross-origin request.
func resolveCORSConfig(mode string, cfg config.CORSConfig) middleware.CORSConfig {
	out := middleware.DefaultCORSConfig()

	switch {
	case len(cfg.AllowOrigins) > 0:
		out.AllowOrigins = cfg.AllowOrigins
	case mode == gin.ReleaseMode:
		out.AllowOrigins = []string{}
	}
	if len(cfg.AllowMethods) > 0 {
		out.AllowMethods = cfg.AllowMethods
	}
	if len(cfg.AllowHeaders) > 0 {
		out.AllowHeaders = cfg.AllowHeaders
	}
	out.AllowCredentials = cfg.AllowCredentials
	if d, err := time.ParseDuration(cfg.MaxAge); err == nil && d > 0 {
		out.MaxAge = d
	}
	return out
}

func validateGinMode(mode string) error {
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		return nil
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}
}

func closeDB(db *gorm.DB, log *slog.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error("database close error", slog.Any("error", err))
		return
	}
	log.Info("database connection closed")
}

// Run starts the HTTP server and blocks until SIGINT or SIGTERM. It drains
// in-flight requests, flushes traces and closes the database before
// returning.
func (a *App) Run() error {
	if a == nil {
		return errors.New("app is nil")
	}
	if a.cfg == nil {
		return errors.New("app config is nil")
	}
	if a.engine == nil {
		return errors.New("app engine is nil")
	}

	log := slog.Default()
	if a.logger != nil {
		log = a.logger.Logger
	}

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	srv := newHTTPServer(addr, a.engine)

	ctx, stop := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("addr", addr), slog.String("version", Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if runErr == nil {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", slog.Any("error", err))
		}
	}
	if a.shutdownTracing != nil {
		if err := a.shutdownTracing(shutdownCtx); err != nil {
			log.Error("tracing shutdown error", slog.Any("error", err))
		}
	}
	if a.db != nil {
		closeDB(a.db, log)
	}

	log.Info("server stopped")
	if a.logger != nil {
		if err := a.logger.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}

	return runErr
}

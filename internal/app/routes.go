package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RouteDeps holds all dependencies needed to register routes.
type RouteDeps struct {
	Modules []Module
	DB      *gorm.DB
	// APIBase prefixes every module route, e.g. "/api/v1".
	APIBase string
	Mode    string
	Version string
	// Metrics serves the scrape endpoint at MetricsPath when non-nil.
	Metrics     http.Handler
	MetricsPath string
	StartedAt   time.Time
}

// RegisterRoutes registers all application routes on the given gin.Engine.
func RegisterRoutes(r *gin.Engine, deps *RouteDeps) error {
	if r == nil {
		return errors.New("router is nil")
	}
	if deps == nil {
		return errors.New("route dependencies are nil")
	}
	if len(deps.Modules) == 0 {
		return errors.New("at least one module is required")
	}
	if deps.APIBase == "" {
		return errors.New("api base path is required")
	}
	if deps.StartedAt.IsZero() {
		deps.StartedAt = time.Now()
	}

	r.GET("/", indexHandler(deps))
	r.GET("/health", healthHandler(deps.DB))
	r.GET("/health/detailed", detailedHealthHandler(deps))
	if deps.Metrics != nil {
		r.GET(deps.MetricsPath, gin.WrapH(deps.Metrics))
	}

	api := r.Group(deps.APIBase)
	for i, m := range deps.Modules {
		if m == nil {
			return fmt.Errorf("module at index %d is nil", i)
		}
		m.RegisterRoutes(api)
	}

	r.HandleMethodNotAllowed = true
	r.NoRoute(noRouteHandler())
	r.NoMethod(noMethodHandler())

	return nil
}

// indexHandler describes the service and points at its collections.
func indexHandler(deps *RouteDeps) gin.HandlerFunc {
	body := gin.H{
		"service": "fleetbase",
		"version": deps.Version,
		"links": gin.H{
			"branches":  deps.APIBase + "/branches",
			"employees": deps.APIBase + "/employees",
			"vehicles":  deps.APIBase + "/vehicles",
			"health":    "/health",
		},
	}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, body)
	}
}

// pingDB reports whether the database answers within a second.
func pingDB(ctx context.Context, db *gorm.DB) (time.Duration, error) {
	if db == nil {
		return 0, errors.New("database not configured")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return 0, err
	}
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	start := time.Now()
	err = sqlDB.PingContext(ctx)
	return time.Since(start), err
}

// healthHandler returns a handler that pings the database and reports status.
func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, dbStatus, code := "ok", "ok", http.StatusOK
		if _, err := pingDB(c.Request.Context(), db); err != nil {
			status, dbStatus, code = "degraded", "error", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status": status,
			"components": gin.H{
				"database": dbStatus,
			},
		})
	}
}

// detailedHealthHandler adds build, runtime and uptime details to the health
// report.
func detailedHealthHandler(deps *RouteDeps) gin.HandlerFunc {
	host, _ := os.Hostname()
	return func(c *gin.Context) {
		status, code := "ok", http.StatusOK
		database := gin.H{"status": "ok"}
		latency, err := pingDB(c.Request.Context(), deps.DB)
		if err != nil {
			status, code = "degraded", http.StatusServiceUnavailable
			database = gin.H{"status": "error", "error": err.Error()}
		} else {
			database["latency_ms"] = float64(latency.Microseconds()) / 1000
		}
		if deps.DB != nil {
			database["driver"] = deps.DB.Name()
		}

		c.JSON(code, gin.H{
			"status":     status,
			"version":    deps.Version,
			"mode":       deps.Mode,
			"started_at": deps.StartedAt.UTC().Format(time.RFC3339),
			"uptime":     time.Since(deps.StartedAt).Round(time.Second).String(),
			"components": gin.H{
				"database": database,
			},
			"runtime": gin.H{
				"host":       host,
				"go_version": runtime.Version(),
				"os":         runtime.GOOS,
				"arch":       runtime.GOARCH,
				"cpus":       runtime.NumCPU(),
				"goroutines": runtime.NumGoroutine(),
			},
		})
	}
}

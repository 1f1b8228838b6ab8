package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// AccessLogConfig tunes the access log.
type AccessLogConfig struct {
	// QuietPaths are request paths (health probes, scrapes) that are only
	// logged when they fail.
	QuietPaths []string
	// SlowThreshold raises successful requests slower than this to Warn.
	// Zero disables the check.
	SlowThreshold time.Duration
}

// Logger writes one access-log record per request. Server errors log at
// Error, client errors and slow requests at Warn, everything else at Info.
// Records go through the request context so request_id is included.
func Logger(log *slog.Logger, cfg AccessLogConfig) gin.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}
	quiet := make(map[string]struct{}, len(cfg.QuietPaths))
	for _, p := range cfg.QuietPaths {
		quiet[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		status := c.Writer.Status()
		level := accessLevel(status, elapsed, cfg.SlowThreshold)
		if _, ok := quiet[c.Request.URL.Path]; ok && level == slog.LevelInfo {
			return
		}

		attrs := make([]slog.Attr, 0, 9)
		attrs = append(attrs,
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("route", c.FullPath()),
			slog.Int("status", status),
			slog.Int("bytes", c.Writer.Size()),
			slog.Duration("latency", elapsed),
			slog.String("client_ip", c.ClientIP()),
		)
		if cfg.SlowThreshold > 0 && elapsed >= cfg.SlowThreshold {
			attrs = append(attrs, slog.Bool("slow", true))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}
		log.LogAttrs(c.Request.Context(), level, "request", attrs...)
	}
}

func accessLevel(status int, elapsed, slow time.Duration) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	case slow > 0 && elapsed >= slow:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

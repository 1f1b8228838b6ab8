package middleware

import (
	"log/slog"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/simp-lee/logger"
)

// RequestIDHeader carries the request id on requests and responses.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

var upstreamIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// RequestIDConfig controls how request ids are assigned.
type RequestIDConfig struct {
	// TrustUpstream reuses a well-formed X-Request-ID sent by the caller,
	// typically a load balancer that already tagged the request.
	TrustUpstream bool
	// Generate creates new ids. Defaults to random UUIDs.
	Generate func() string
}

// RequestID tags every request with an id. The id is echoed in the
// X-Request-ID response header, kept on the gin context and attached to the
// request context so every slog record written with it carries request_id.
func RequestID(cfg RequestIDConfig) gin.HandlerFunc {
	generate := cfg.Generate
	if generate == nil {
		generate = uuid.NewString
	}

	return func(c *gin.Context) {
		id := ""
		if cfg.TrustUpstream {
			id = upstreamID(c)
		}
		if id == "" {
			id = generate()
		}

		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		ctx := logger.WithContextAttrs(c.Request.Context(), slog.String(requestIDKey, id))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func upstreamID(c *gin.Context) string {
	id := c.GetHeader(RequestIDHeader)
	if !upstreamIDPattern.MatchString(id) {
		return ""
	}
	return id
}

// RequestIDFrom returns the id assigned to the current request, or "" when
// RequestID is not installed.
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

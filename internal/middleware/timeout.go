package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/fleetbase/internal/pkg"
)

// Timeout bounds each request context by d. A handler that gives up on the
// deadline without writing a response gets 503.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if !c.Writer.Written() && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, pkg.Response{
				Code:    http.StatusServiceUnavailable,
				Message: "request timed out",
			})
		}
	}
}

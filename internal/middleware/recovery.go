package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/fleetbase/internal/pkg"
)

// Recovery turns a panicking handler into a 500 envelope. The body carries the
// request id, when one is assigned, so a caller can quote it in a report.
// http.ErrAbortHandler is re-raised so net/http can drop the connection.
func Recovery(log *slog.Logger) gin.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}

	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			log.ErrorContext(c.Request.Context(), "handler panicked",
				slog.Any("panic", rec),
				slog.String("method", c.Request.Method),
				slog.String("route", c.FullPath()),
				slog.String("stack", string(debug.Stack())),
			)

			var data any
			if id := RequestIDFrom(c); id != "" {
				data = gin.H{"request_id": id}
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, pkg.Response{
				Code:    http.StatusInternalServerError,
				Message: "internal server error",
				Data:    data,
			})
		}()
		c.Next()
	}
}

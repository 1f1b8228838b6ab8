package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/simp-lee/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// echoRequestID answers with the id seen by the handler and the id found in
// the request context, separated by a pipe.
func echoRequestID(cfg RequestIDConfig) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(cfg))
	r.GET("/vehicles", func(c *gin.Context) {
		fromCtx := ""
		for _, a := range logger.FromContext(c.Request.Context()) {
			if a.Key == "request_id" {
				fromCtx = a.Value.String()
			}
		}
		c.String(http.StatusOK, RequestIDFrom(c)+"|"+fromCtx)
	})
	return r
}

func requestWithID(r http.Handler, upstream string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/vehicles", nil)
	if upstream != "" {
		req.Header.Set(RequestIDHeader, upstream)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID_AssignsUUID(t *testing.T) {
	w := requestWithID(echoRequestID(RequestIDConfig{}), "")

	id := w.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("response id %q is not a UUID: %v", id, err)
	}
	if got := w.Body.String(); got != id+"|"+id {
		t.Errorf("handler saw %q; want the header id in both places", got)
	}
}

func TestRequestID_FreshPerRequest(t *testing.T) {
	r := echoRequestID(RequestIDConfig{})
	seen := make(map[string]bool)
	for range 20 {
		id := requestWithID(r, "").Header().Get(RequestIDHeader)
		if seen[id] {
			t.Fatalf("id %q issued twice", id)
		}
		seen[id] = true
	}
}

func TestRequestID_Upstream(t *testing.T) {
	tests := []struct {
		name     string
		trust    bool
		upstream string
		reused   bool
	}{
		{"ignored by default", false, "lb-7f3a", false},
		{"reused when trusted", true, "lb-7f3a", true},
		{"dots and underscores allowed", true, "edge_01.fleet", true},
		{"64 characters allowed", true, strings.Repeat("a", 64), true},
		{"65 characters rejected", true, strings.Repeat("a", 65), false},
		{"spaces rejected", true, "lb 7f3a", false},
		{"header injection rejected", true, "id\r\nX-Evil: 1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := requestWithID(echoRequestID(RequestIDConfig{TrustUpstream: tt.trust}), tt.upstream)
			got := w.Header().Get(RequestIDHeader)
			if tt.reused && got != tt.upstream {
				t.Errorf("id = %q; want upstream %q", got, tt.upstream)
			}
			if !tt.reused && got == tt.upstream {
				t.Errorf("upstream id %q should have been replaced", tt.upstream)
			}
		})
	}
}

func TestRequestID_CustomGenerator(t *testing.T) {
	w := requestWithID(echoRequestID(RequestIDConfig{Generate: func() string { return "fixed-id" }}), "")
	if got := w.Body.String(); got != "fixed-id|fixed-id" {
		t.Errorf("body = %q; want fixed-id|fixed-id", got)
	}
}

func TestRequestIDFrom_NotInstalled(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if id := RequestIDFrom(c); id != "" {
		t.Errorf("RequestIDFrom() = %q; want empty", id)
	}
}

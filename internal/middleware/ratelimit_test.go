package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func setupRateLimitRouter(cfg RateLimitConfig) *gin.Engine {
	r := gin.New()
	r.Use(RateLimit(cfg))
	r.GET("/test", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func doFrom(r http.Handler, addr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = addr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit_BurstThenReject(t *testing.T) {
	r := setupRateLimitRouter(RateLimitConfig{RPS: 0.5, Burst: 2})

	for i := 0; i < 2; i++ {
		if w := doFrom(r, "10.0.0.1:1234"); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d; want 200", i, w.Code)
		}
	}

	w := doFrom(r, "10.0.0.1:1234")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d; want 429", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "2" {
		t.Errorf("Retry-After = %q; want 2", got)
	}
}

func TestRateLimit_PerClient(t *testing.T) {
	r := setupRateLimitRouter(RateLimitConfig{RPS: 1, Burst: 1})

	if w := doFrom(r, "10.0.0.1:1234"); w.Code != http.StatusOK {
		t.Fatalf("first client status = %d", w.Code)
	}
	if w := doFrom(r, "10.0.0.1:1234"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("first client second request status = %d; want 429", w.Code)
	}
	if w := doFrom(r, "10.0.0.2:1234"); w.Code != http.StatusOK {
		t.Errorf("second client status = %d; want 200", w.Code)
	}
}

func TestRateLimit_CustomKey(t *testing.T) {
	r := setupRateLimitRouter(RateLimitConfig{
		RPS:     1,
		Burst:   1,
		KeyFunc: func(c *gin.Context) string { return c.GetHeader("X-API-Key") },
	})

	send := func(key string) int {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-API-Key", key)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	if send("a") != http.StatusOK || send("b") != http.StatusOK {
		t.Fatal("distinct keys should get distinct buckets")
	}
	if send("a") != http.StatusTooManyRequests {
		t.Error("key a should be limited")
	}
}

func TestIPLimiter_RefillAndSweep(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newIPLimiter(1, 1)
	l.now = func() time.Time { return now }

	if ok, _ := l.reserve("a"); !ok {
		t.Fatal("first reservation should pass")
	}
	ok, wait := l.reserve("a")
	if ok || wait != time.Second {
		t.Fatalf("reserve = %v, %v; want false, 1s", ok, wait)
	}

	now = now.Add(time.Second)
	if ok, _ := l.reserve("a"); !ok {
		t.Fatal("token should refill after a second")
	}

	now = now.Add(clientIdleTTL + time.Second)
	l.reserve("b")
	if _, ok := l.clients["a"]; ok {
		t.Error("idle client should be swept")
	}
	if len(l.clients) != 1 {
		t.Errorf("clients = %d; want 1", len(l.clients))
	}
}

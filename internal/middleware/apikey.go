package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/simp-lee/fleetbase/internal/pkg"
)

// API key error identifiers carried in the response data.
const (
	APIKeyMissing = "API_KEY_MISSING"
	APIKeyInvalid = "INVALID_API_KEY"
)

// APIKeyConfig configures the APIKey middleware.
type APIKeyConfig struct {
	// Header carries the key. Defaults to "X-API-Key".
	Header string
	// Keys are accepted as-is.
	Keys []string
	// Hashes are bcrypt hashes of accepted keys.
	Hashes []string
	// PublicPaths bypass the check. "/" matches only the root; any other entry
	// also matches the paths below it.
	PublicPaths []string
}

// APIKey returns a gin middleware that rejects requests without a valid API
// key: 401 when the header is absent, 403 when it does not match.
func APIKey(cfg APIKeyConfig) gin.HandlerFunc {
	header := strings.TrimSpace(cfg.Header)
	if header == "" {
		header = "X-API-Key"
	}
	v := newKeyVerifier(cfg.Keys, cfg.Hashes)

	return func(c *gin.Context) {
		if isPublicPath(cfg.PublicPaths, c.Request.URL.Path) {
			c.Next()
			return
		}

		key := c.GetHeader(header)
		if key == "" {
			slog.WarnContext(c.Request.Context(), "api key missing", slog.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusUnauthorized, pkg.Response{
				Code:    http.StatusUnauthorized,
				Message: "API key is missing",
				Data:    gin.H{"error": APIKeyMissing},
			})
			return
		}
		if !v.verify(key) {
			slog.WarnContext(c.Request.Context(), "api key rejected", slog.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusForbidden, pkg.Response{
				Code:    http.StatusForbidden,
				Message: "invalid API key",
				Data:    gin.H{"error": APIKeyInvalid},
			})
			return
		}

		c.Next()
	}
}

func isPublicPath(public []string, path string) bool {
	for _, p := range public {
		if path == p {
			return true
		}
		if p != "/" && strings.HasPrefix(path, strings.TrimRight(p, "/")+"/") {
			return true
		}
	}
	return false
}

// keyVerifier checks plain keys in constant time and bcrypt hashes. Keys that
// matched a hash are remembered by digest so bcrypt runs once per key.
type keyVerifier struct {
	keys   [][]byte
	hashes [][]byte

	mu       sync.RWMutex
	verified map[[sha256.Size]byte]struct{}
}

func newKeyVerifier(keys, hashes []string) *keyVerifier {
	v := &keyVerifier{verified: make(map[[sha256.Size]byte]struct{})}
	for _, k := range keys {
		v.keys = append(v.keys, []byte(k))
	}
	for _, h := range hashes {
		v.hashes = append(v.hashes, []byte(h))
	}
	return v
}

func (v *keyVerifier) verify(key string) bool {
	candidate := []byte(key)
	match := 0
	for _, k := range v.keys {
		match |= subtle.ConstantTimeCompare(candidate, k)
	}
	if match == 1 {
		return true
	}
	if len(v.hashes) == 0 {
		return false
	}

	digest := sha256.Sum256(candidate)
	v.mu.RLock()
	_, ok := v.verified[digest]
	v.mu.RUnlock()
	if ok {
		return true
	}

	for _, h := range v.hashes {
		if bcrypt.CompareHashAndPassword(h, candidate) == nil {
			v.mu.Lock()
			v.verified[digest] = struct{}{}
			v.mu.Unlock()
			return true
		}
	}
	return false
}

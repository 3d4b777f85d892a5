package http

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshtrack/backend/internal/auth"
	"github.com/freshtrack/backend/internal/domain"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func TestCORSMiddleware(t *testing.T) {
	allowed := []string{"https://freshtrack.app", "https://*.freshtrack.app"}

	router := gin.New()
	router.Use(CORSMiddleware(allowed))
	router.GET("/ping", okHandler)

	t.Run("exact origin allowed", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "https://freshtrack.app")
		router.ServeHTTP(w, req)

		assert.Equal(t, "https://freshtrack.app", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard subdomain allowed", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "https://staging.freshtrack.app")
		router.ServeHTTP(w, req)

		assert.Equal(t, "https://staging.freshtrack.app", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("suffix look-alike rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "https://evil-freshtrack.app")
		router.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin gets no CORS headers", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		router.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
		req.Header.Set("Origin", "https://freshtrack.app")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestIsAllowedOrigin(t *testing.T) {
	allowed := []string{"https://freshtrack.app", "https://*.freshtrack.app", "http://localhost:*"}

	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{"exact match", "https://freshtrack.app", true},
		{"embedded wildcard matches subdomain", "https://staging.freshtrack.app", true},
		{"embedded wildcard matches nested subdomain", "https://a.b.freshtrack.app", true},
		{"trailing wildcard matches any port", "http://localhost:5173", true},
		{"registrable-domain look-alike rejected", "https://evil-freshtrack.app", false},
		{"different scheme rejected", "http://staging.freshtrack.app", false},
		{"unrelated origin rejected", "https://evil.example.com", false},
		{"empty origin rejected", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isAllowedOrigin(tt.origin, allowed))
		})
	}
}

func TestRateLimiterSetEvictsIdleClients(t *testing.T) {
	set := newRateLimiterSet(5)
	base := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)

	set.limiterFor("10.0.0.1", base)
	set.limiterFor("10.0.0.2", base.Add(limiterIdleTTL)) // still active at sweep time

	evicted := set.evictIdle(base.Add(limiterIdleTTL).Add(time.Second))
	assert.Equal(t, 1, evicted)
	assert.Len(t, set.clients, 1)
	assert.Contains(t, set.clients, "10.0.0.2")

	// A returning client gets a fresh bucket rather than a stale one.
	set.limiterFor("10.0.0.1", base.Add(limiterIdleTTL).Add(2*time.Second))
	assert.Len(t, set.clients, 2)
}

func TestRateLimitMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RateLimitMiddleware(1)) // 1 rps, burst 2
	router.GET("/ping", okHandler)

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Contains(t, codes[2:], http.StatusTooManyRequests)

	t.Run("other clients unaffected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	router := gin.New()
	router.Use(AuthMiddleware(tokens))
	router.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": c.GetString(ctxUserID), "role": c.GetString(ctxRole)})
	})

	user := &domain.User{ID: uuid.New(), Email: "asha@example.com", Role: domain.RoleConsumer}
	token, err := tokens.Generate(user)
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), user.ID.String())
	})

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", token)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	router := gin.New()
	router.GET("/retail", func(c *gin.Context) {
		c.Set(ctxRole, domain.RoleConsumer)
	}, RequireRole(domain.RoleRetailer), okHandler)
	router.GET("/retail-ok", func(c *gin.Context) {
		c.Set(ctxRole, domain.RoleRetailer)
	}, RequireRole(domain.RoleRetailer), okHandler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/retail", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/retail-ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

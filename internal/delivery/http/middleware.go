package http

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/freshtrack/backend/internal/auth"
)

// Context keys set by AuthMiddleware
const (
	ctxUserID = "userID"
	ctxEmail  = "userEmail"
	ctxRole   = "userRole"
)

// CORSMiddleware handles CORS for the web frontend
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if isAllowedOrigin(origin, allowedOrigins) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, PATCH, DELETE")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
			c.Writer.Header().Set("Access-Control-Max-Age", "3600")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// isAllowedOrigin checks if the origin is in the allowed list. A single "*"
// in an entry matches any run of characters, so "https://*.freshtrack.app"
// covers every subdomain.
func isAllowedOrigin(origin string, allowedOrigins []string) bool {
	if origin == "" {
		return false
	}
	for _, allowed := range allowedOrigins {
		star := strings.Index(allowed, "*")
		if star < 0 {
			if origin == allowed {
				return true
			}
			continue
		}
		prefix, suffix := allowed[:star], allowed[star+1:]
		if len(origin) >= len(prefix)+len(suffix) &&
			strings.HasPrefix(origin, prefix) && strings.HasSuffix(origin, suffix) {
			return true
		}
	}
	return false
}

// LoggerMiddleware logs requests
func LoggerMiddleware() gin.HandlerFunc {
	return gin.Logger()
}

// RecoveryMiddleware recovers from panics
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.Recovery()
}

const (
	limiterIdleTTL       = 10 * time.Minute
	limiterSweepInterval = time.Minute
)

// clientLimiter pairs a token bucket with the time it was last consulted so
// idle entries can be swept out of the per-IP map.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiterSet tracks one token bucket per client IP and evicts buckets
// that have been idle longer than limiterIdleTTL.
type rateLimiterSet struct {
	mu        sync.Mutex
	perSecond int
	clients   map[string]*clientLimiter
}

func newRateLimiterSet(perSecond int) *rateLimiterSet {
	return &rateLimiterSet{
		perSecond: perSecond,
		clients:   make(map[string]*clientLimiter),
	}
}

func (s *rateLimiterSet) limiterFor(ip string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	cl, ok := s.clients[ip]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(s.perSecond), s.perSecond*2)}
		s.clients[ip] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

// evictIdle removes entries whose last request is older than the TTL and
// reports how many were dropped.
func (s *rateLimiterSet) evictIdle(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for ip, cl := range s.clients {
		if now.Sub(cl.lastSeen) > limiterIdleTTL {
			delete(s.clients, ip)
			evicted++
		}
	}
	return evicted
}

func (s *rateLimiterSet) sweep() {
	ticker := time.NewTicker(limiterSweepInterval)
	defer ticker.Stop()
	for now := range ticker.C {
		s.evictIdle(now)
	}
}

// RateLimitMiddleware enforces a per-client-IP token bucket. Buckets idle for
// longer than limiterIdleTTL are evicted so the map stays bounded by the
// number of recently active clients.
func RateLimitMiddleware(perSecond int) gin.HandlerFunc {
	if perSecond <= 0 {
		perSecond = 20
	}
	set := newRateLimiterSet(perSecond)
	go set.sweep()

	return func(c *gin.Context) {
		if !set.limiterFor(c.ClientIP(), time.Now()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// AuthMiddleware validates the bearer token and attaches the caller identity
// to the request context.
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format, use 'Bearer <token>'"})
			return
		}

		claims, err := tokens.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxEmail, claims.Email)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// RequireRole gates a route group to the given roles
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ctxRole)
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "role missing"})
			return
		}
		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	}
}

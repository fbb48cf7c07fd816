package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/fenrir-gym/fenrir-backend/internal/utils"
)

// TokenResolver turns a raw bearer token into a caller identity. The
// auth package provides the production implementation; tests use
// mocks.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (utils.Identity, error)
}

// Authenticator guards a route group behind the token resolver. The
// resolved identity is placed on the request context for handlers and
// downstream guards.
func Authenticator(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)

			identity, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				utils.RespondError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), utils.ContextIdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// RequireRoles admits only callers whose role is in the allow list.
// Must run after Authenticator.
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := utils.GetIdentityFromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized: missing identity in context", http.StatusUnauthorized)
				return
			}
			if _, ok := allowed[identity.Role]; !ok {
				http.Error(w, "Forbidden: insufficient role", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CORSMiddleware echoes the origin back only if it is on the allow
// list supplied by config.
func CORSMiddleware(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if _, ok := allowed[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin") // important for caches
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods",
					"GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers",
					"Content-Type, Authorization")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitMiddleware applies a per-client token bucket. The limiter
// map is never pruned; entries are one small struct per distinct
// remote address, which is fine at gym scale.
func RateLimitMiddleware(perMinute int) func(http.Handler) http.Handler {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)
	limit := rate.Limit(float64(perMinute) / 60.0)

	lookup := func(addr string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		lim, ok := limiters[addr]
		if !ok {
			lim = rate.NewLimiter(limit, perMinute)
			limiters[addr] = lim
		}
		return lim
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// SplitHostPort keeps IPv6 addresses intact.
			addr := r.RemoteAddr
			if host, _, err := net.SplitHostPort(addr); err == nil {
				addr = host
			}
			if !lookup(addr).Allow() {
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

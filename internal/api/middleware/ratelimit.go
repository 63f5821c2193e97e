package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/reviewpilot/reviewpilot/pkg/config"
)

// RateLimit enforces a fixed-window per-IP limit backed by Redis, so the
// limit holds across server replicas. Redis being down fails open.
func RateLimit(rdb *redis.Client, cfg *config.RateLimitConfig) func(http.Handler) http.Handler {
	window := time.Duration(cfg.WindowSeconds) * time.Second

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			key := fmt.Sprintf("ratelimit:%s:%d", ip, time.Now().Unix()/int64(cfg.WindowSeconds))

			count, err := rdb.Incr(r.Context(), key).Result()
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				rdb.Expire(context.WithoutCancel(r.Context()), key, window)
			}

			if count > int64(cfg.Requests) {
				w.Header().Set("Retry-After", strconv.Itoa(cfg.WindowSeconds))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"rate limit exceeded"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

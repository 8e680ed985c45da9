package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// AttemptCounter counts auth attempts per client within a fixed window.
type AttemptCounter interface {
	IncrAuthAttempt(ctx context.Context, clientKey string, window time.Duration) (int64, error)
}

// RateLimitConfig holds configuration for the auth rate limit middleware.
type RateLimitConfig struct {
	Logger   *slog.Logger
	Attempts AttemptCounter
	Enabled  bool
	// Maximum attempts per client IP within Window.
	MaxAttempts int64
	Window      time.Duration
}

// RateLimitAuth returns middleware that limits credential-bearing endpoints
// (register, login, reset) per client IP to slow down brute forcing.
func RateLimitAuth(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled || cfg.Attempts == nil {
				next.ServeHTTP(w, r)
				return
			}

			ip := getClientIP(r)

			count, err := cfg.Attempts.IncrAuthAttempt(r.Context(), ip, cfg.Window)
			if err != nil {
				cfg.Logger.Error("rate limit check failed",
					slog.String("error", err.Error()),
					slog.String("ip", ip),
				)
				// Fail open - allow request
				next.ServeHTTP(w, r)
				return
			}

			remaining := cfg.MaxAttempts - count
			if remaining < 0 {
				remaining = 0
			}
			setRateLimitHeaders(w, cfg.MaxAttempts, remaining, time.Now().Add(cfg.Window))

			if count > cfg.MaxAttempts {
				cfg.Logger.Warn("rate limit exceeded",
					slog.String("type", "auth"),
					slog.String("ip", ip),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.Int64("attempts", count),
					slog.String("request_id", GetRequestID(r.Context())),
				)

				w.Header().Set("Retry-After", strconv.Itoa(int(cfg.Window.Seconds())))
				writeRateLimitError(w, cfg.Window)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// setRateLimitHeaders sets standard rate limit response headers.
func setRateLimitHeaders(w http.ResponseWriter, limit, remaining int64, resetAt time.Time) {
	if limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(limit, 10))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))
	}
}

// writeRateLimitError writes a 429 Too Many Requests response.
func writeRateLimitError(w http.ResponseWriter, retryAfter time.Duration) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	msg := fmt.Sprintf(`{"error":"Rate limit exceeded. Retry after %d seconds.","code":"RATE_LIMITED"}`,
		int(retryAfter.Seconds()))
	_, _ = w.Write([]byte(msg))
}

// getClientIP extracts the client IP from the request.
// Checks X-Forwarded-For and X-Real-IP headers for proxied requests.
func getClientIP(r *http.Request) string {
	// X-Forwarded-For may contain multiple IPs; take the first.
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		for i := range xff {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}

	xri := r.Header.Get("X-Real-IP")
	if xri != "" {
		return xri
	}

	return r.RemoteAddr
}

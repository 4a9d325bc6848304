// internal/api/middleware.go
package api

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	apperrors "github.com/The-Young-Programer/Investor-Zteller/internal/common/errors"
	"github.com/The-Young-Programer/Investor-Zteller/internal/common/logger"
	"github.com/The-Young-Programer/Investor-Zteller/internal/common/metrics"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const RequestIDHeader = "X-Request-ID"

const MsgRateLimited = "Rate limit exceeded. Please try again later."

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestID propagates or assigns X-Request-ID and stores a tagged logger in the context.
func RequestID(log logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)

			ctx := logger.WithRequestID(r.Context(), id)
			ctx = logger.IntoContext(ctx, log.WithFields(map[string]interface{}{"requestId": id}))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Deadline bounds every request context by d. A zero d leaves requests unbounded.
func Deadline(d time.Duration) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Recover turns a panic into a 500 JSON response.
func Recover(log logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.FromContext(r.Context(), log).Error("panic recovered", map[string]interface{}{
						"panic":  fmt.Sprint(rec),
						"path":   r.URL.Path,
						"method": r.Method,
						"stack":  string(debug.Stack()),
					})
					apperrors.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": apperrors.MsgGeneric})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Instrument logs each request and records prometheus metrics by route template.
func Instrument(log logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			route := routeTemplate(r)
			elapsed := time.Since(start)
			metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())

			logger.FromContext(r.Context(), log).Info("request completed", map[string]interface{}{
				"method":     r.Method,
				"route":      route,
				"status":     rec.status,
				"durationMs": elapsed.Milliseconds(),
			})
		})
	}
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// InternalTokenHeader carries the shared token of in-process service calls
// such as the admin notification posted by the submission pipeline.
const InternalTokenHeader = "X-Internal-Token"

// RateLimit applies limiter to POST requests, keyed by client IP. Requests
// presenting internalToken are exempt.
func RateLimit(limiter Limiter, internalToken string, log logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || limiter == nil || isInternal(r, internalToken) {
				next.ServeHTTP(w, r)
				return
			}

			allowed, err := limiter.Allow(r.Context(), clientIP(r))
			if err != nil {
				logger.FromContext(r.Context(), log).Warn("rate limiter unavailable", map[string]interface{}{
					"error": err.Error(),
				})
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				apperrors.WriteJSON(w, http.StatusTooManyRequests, map[string]string{"error": MsgRateLimited})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isInternal(r *http.Request, token string) bool {
	if token == "" {
		return false
	}
	got := r.Header.Get(InternalTokenHeader)
	return subtle.ConstantTimeCompare([]byte(got), []byte(token)) == 1
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// CORS allows the configured front-end origin.
func CORS(allowedOrigin string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allowedOrigin != "" {
				w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+RequestIDHeader)
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Package http serves the payroll ledger over a JSON API. Month summaries
// are cached per key and invalidated wholesale on any mutation.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"payroll/internal/cache"
	"payroll/internal/core"
	"payroll/internal/log"
	"payroll/internal/services"
)

type Server struct {
	http.Server
	svc         *services.PayrollService
	rateLimiter *rateLimiter

	// LRU caches for month queries with eviction policy
	summaryCache *cache.LRUCache[[]core.PayLine]
	sortedCache  *cache.LRUCache[[]core.PayLine]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and caches, returning a ready-to-run server.
func NewServer(addr string, svc *services.PayrollService, cacheSize int, cacheTTL, cacheCleanup time.Duration) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		svc:          svc,
		rateLimiter:  newRateLimiter(),
		summaryCache: cache.NewLRUCache[[]core.PayLine](cacheSize, cacheTTL),
		sortedCache:  cache.NewLRUCache[[]core.PayLine](cacheSize, cacheTTL),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.Register(s.sortedCache)
	s.cacheManager.StartCleanup(cacheCleanup)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /months", s.withMiddleware(s.handleListMonths))
	mux.HandleFunc("GET /months/{key}", s.withMiddleware(s.handleGetMonth))
	mux.HandleFunc("GET /months/{key}/sorted", s.withMiddleware(s.handleSortedMonth))
	mux.HandleFunc("POST /months/{key}", s.withMiddleware(s.handleIngestMonth))
	mux.HandleFunc("DELETE /months/{key}", s.withMiddleware(s.handleRemoveMonth))

	mux.HandleFunc("GET /employees", s.withMiddleware(s.handleListEmployees))
	mux.HandleFunc("GET /employees/{id}", s.withMiddleware(s.handleGetEmployee))
	mux.HandleFunc("GET /employees/{id}/totals", s.withMiddleware(s.handleEmployeeTotals))

	return s
}

// withMiddleware adds security headers, rate limiting and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Extract client IP (considering proxies)
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldClientIP, clientIP)

		// Rate limit mutations only; queries are cheap and cached.
		if (r.Method == http.MethodPost || r.Method == http.MethodDelete) && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, duration.Milliseconds(),
			log.FieldClientIP, clientIP)
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// invalidateCaches drops every cached query result. Mutations are rare
// enough that tracking affected keys is not worth it.
func (s *Server) invalidateCaches() {
	s.summaryCache.Clear()
	s.sortedCache.Clear()
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

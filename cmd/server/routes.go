package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/soundmirror/constellate/pkg/logger"
)

// slowRequestThreshold flags requests worth a WARN instead of an INFO in
// loggingMiddleware. /api/align runs a full decode+STFT+peak+fan-out
// pass over two clips under a 2-minute context timeout (see
// handleAlign), so anything above a couple of seconds is worth calling
// out rather than burying in the same stream as a health check.
const slowRequestThreshold = 2 * time.Second

// setupRoutes registers all HTTP routes and middleware.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/metrics", s.handleMetrics)
	mux.HandleFunc("/api/align", s.requirePost(s.handleAlign))
	mux.HandleFunc("/api/fingerprint", s.requirePost(s.handleFingerprint))

	return corsMiddleware(s.config.AllowedOrigins)(loggingMiddleware(mux))
}

// requirePost rejects anything but POST before delegating to handler.
func (s *Server) requirePost(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		handler(w, r)
	}
}

// corsMiddleware adds CORS headers to responses.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			allowed := false
			if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
				w.Header().Set("Access-Control-Allow-Origin", "*")
				allowed = true
			} else {
				for _, allowedOrigin := range allowedOrigins {
					if allowedOrigin == origin {
						w.Header().Set("Access-Control-Allow-Origin", origin)
						allowed = true
						break
					}
				}
			}

			if allowed {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
				w.Header().Set("Access-Control-Max-Age", "3600")
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// loggingMiddleware logs every request's method, path, client IP,
// resulting status, and latency in a single line once the handler
// returns, through the "http" component logger rather than the bare
// process-wide default — so access logs can be filtered out from
// alignment/fingerprint logs without grepping on format. Requests
// slower than slowRequestThreshold log at WARN, since for this server
// that almost always means an /api/align call that's landed near its
// 2-minute ceiling rather than an ordinary health check.
func loggingMiddleware(next http.Handler) http.Handler {
	log := logger.Component("http")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(wrapped, r)

		elapsed := time.Since(start)
		line := fmt.Sprintf("%s %s from %s -> %d (%s)", r.Method, r.URL.Path, getClientIP(r), wrapped.statusCode, elapsed)
		if elapsed >= slowRequestThreshold || wrapped.statusCode >= http.StatusInternalServerError {
			log.Warnf(line)
		} else {
			log.Infof(line)
		}
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	xri := r.Header.Get("X-Real-IP")
	if xri != "" {
		return xri
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	handler := s.setupRoutes()

	addr := fmt.Sprintf(":%d", s.config.Port)
	s.log.Infof("🚀 constellate server starting on %s", addr)
	s.log.Infof("   Cache:       %s", s.config.CachePath)
	s.log.Infof("   Sample rate: %d Hz", s.config.SampleRate)
	s.log.Infof("   CORS origins: %v", s.config.AllowedOrigins)
	s.log.Infof("Endpoints:")
	s.log.Infof("   GET    /health          - Health check")
	s.log.Infof("   GET    /api/metrics     - Server metrics")
	s.log.Infof("   POST   /api/align       - Align a sample clip against a reference clip")
	s.log.Infof("   POST   /api/fingerprint - Inspect a fingerprint for a single clip")

	return http.ListenAndServe(addr, handler)
}

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/soundmirror/constellate/pkg/constellate"
	"github.com/soundmirror/constellate/pkg/logger"
)

// Server encapsulates the HTTP server and its dependencies.
type Server struct {
	service *constellate.Service
	config  *ServerConfig
	log     *logger.Logger

	alignCount uint64
	errorCount uint64
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port           int
	CachePath      string
	TempDir        string
	SampleRate     int
	AllowedOrigins []string
}

// NewServer creates a new server instance.
func NewServer(service *constellate.Service, config *ServerConfig) *Server {
	return &Server{
		service: service,
		config:  config,
		log:     logger.GetLogger(),
	}
}

// respondJSON writes a JSON response.
func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Errorf("Failed to encode JSON response: %v", err)
	}
}

// respondError writes an error response.
func (s *Server) respondError(w http.ResponseWriter, statusCode int, message string) {
	s.respondJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}

// handleRoot handles GET /.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"service": "constellate alignment API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"health":      "GET /health",
			"metrics":     "GET /api/metrics",
			"align":       "POST /api/align",
			"fingerprint": "POST /api/fingerprint",
		},
	})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handleMetrics handles GET /api/metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, MetricsResponse{
		Status:     "healthy",
		CachePath:  s.config.CachePath,
		SampleRate: s.config.SampleRate,
		AlignCount: atomic.LoadUint64(&s.alignCount),
		ErrorCount: atomic.LoadUint64(&s.errorCount),
	})
}

// handleAlign handles POST /api/align.
func (s *Server) handleAlign(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	var req AlignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.log.Errorf("Failed to decode request: %v", err)
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.log.Infof("Aligning %s against %s", req.SamplePath, req.ReferencePath)

	alignment, err := s.service.Align(ctx, req.ReferencePath, req.SamplePath)
	if err != nil {
		atomic.AddUint64(&s.errorCount, 1)
		s.log.Errorf("Align failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	offset := constellate.RoundOffset(alignment.EstimatedTimeOffset)

	atomic.AddUint64(&s.alignCount, 1)
	s.log.Infof("Aligned %s against %s: offset=%.4fs", req.SamplePath, req.ReferencePath, offset)
	s.respondJSON(w, http.StatusOK, AlignResponse{
		EstimatedTimeOffset: offset,
	})
}

// handleFingerprint handles POST /api/fingerprint.
func (s *Server) handleFingerprint(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), time.Minute)
	defer cancel()

	var req struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.log.Errorf("Failed to decode request: %v", err)
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required")
		return
	}

	fp, err := s.service.Fingerprint(ctx, req.Path)
	if err != nil {
		atomic.AddUint64(&s.errorCount, 1)
		s.log.Errorf("Fingerprint failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, FingerprintResponse{
		PatternCount: len(fp.Patterns()),
		SampleRate:   fp.Configuration().SampleRate,
	})
}

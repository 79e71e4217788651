// Package api - Thin, deterministic API layer
// The API is only responsible for input ingestion, engine
// orchestration, and output serialization. It never performs pricing
// logic.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"genquote/core/bracket"
	"genquote/core/calc"
	"genquote/core/catalog"
	"genquote/core/engine"
	"genquote/core/types"
	"genquote/internal/config"
	"genquote/internal/errors"
	"genquote/internal/logging"
)

// Server is the API server
type Server struct {
	orchestrator *engine.Orchestrator
	cfg          *config.Config
	mux          *http.ServeMux
	logger       *zap.Logger
}

// NewServer creates an API server around an orchestrator
func NewServer(orchestrator *engine.Orchestrator, cfg *config.Config) *Server {
	s := &Server{
		orchestrator: orchestrator,
		cfg:          cfg,
		mux:          http.NewServeMux(),
		logger:       logging.Component("api"),
	}
	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	// Core endpoints
	s.mux.HandleFunc("POST /api/calculate", s.handleCalculate)
	s.mux.HandleFunc("POST /api/compare", s.handleCompare)
	s.mux.HandleFunc("GET /api/settings", s.handleSettings)

	// Diagnostics
	s.mux.HandleFunc("GET /api/audit/stats", s.handleAuditStats)
	s.mux.HandleFunc("GET /api/cache/stats", s.handleCacheStats)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.Handle("GET /metrics", promhttp.Handler())
}

// handleCalculate handles POST /api/calculate
func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	start := time.Now()

	var req types.PricingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, requestID, errors.Wrap(errors.TypeInput, "invalid JSON body", err))
		return
	}

	result, err := s.orchestrator.Calculate(r.Context(), &req)
	if err != nil {
		s.writeError(w, requestID, err)
		return
	}

	s.logger.Info("calculation served",
		zap.String("request_id", requestID),
		zap.String("grand_total", result.GrandTotal.String()),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()))
	s.writeJSON(w, map[string]interface{}{
		"request_id": requestID,
		"result":     result,
	}, http.StatusOK)
}

// handleCompare handles POST /api/compare
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	var req types.PricingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, requestID, errors.Wrap(errors.TypeInput, "invalid JSON body", err))
		return
	}

	comparison, err := s.orchestrator.Compare(r.Context(), &req)
	if err != nil {
		s.writeError(w, requestID, err)
		return
	}
	s.writeJSON(w, map[string]interface{}{
		"request_id": requestID,
		"comparison": comparison,
	}, http.StatusOK)
}

// handleSettings handles GET /api/settings. The response is the full
// pricing surface a front end needs to mirror the engine's inputs.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	type bracketInfo struct {
		Label               string  `json:"label"`
		MinKW               float64 `json:"min_kw"`
		MaxKW               float64 `json:"max_kw"`
		MobilizationPercent string  `json:"mobilization_percent"`
	}
	var brackets []bracketInfo
	for _, rng := range bracket.Ranges() {
		brackets = append(brackets, bracketInfo{
			Label:               rng.Label,
			MinKW:               rng.Min,
			MaxKW:               rng.Max,
			MobilizationPercent: calc.MobilizationPercent(rng.Min).String(),
		})
	}

	services := make(map[string]string, len(catalog.ServiceLabels))
	for code, label := range catalog.ServiceLabels {
		services[string(code)] = label
	}

	s.writeJSON(w, map[string]interface{}{
		"version":   s.cfg.Version,
		"labor":     s.cfg.Labor,
		"materials": s.cfg.Materials,
		"analysis":  s.cfg.Analysis,
		"engine": map[string]interface{}{
			"default_tax_rate":   s.cfg.Engine.DefaultTaxRate,
			"escalation_rate":    s.cfg.Engine.EscalationRate,
			"service_e_override": s.cfg.Engine.ServiceEOverride,
			"version":            engine.Version,
		},
		"brackets": brackets,
		"services": services,
	}, http.StatusOK)
}

// handleAuditStats handles GET /api/audit/stats
func (s *Server) handleAuditStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.orchestrator.Trail().Stats(), http.StatusOK)
}

// handleCacheStats handles GET /api/cache/stats
func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.orchestrator.Cache().Stats(), http.StatusOK)
}

// handleHealth handles GET /health. The parity self test runs on every
// probe; a drifted lookup table takes the instance out of rotation.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.orchestrator.SelfTest(); err != nil {
		s.writeJSON(w, map[string]interface{}{
			"status": "unhealthy",
			"error":  err.Error(),
		}, http.StatusServiceUnavailable)
		return
	}
	s.writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": engine.Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("response encoding failed", zap.Error(err))
	}
}

// writeError maps domain error types onto HTTP statuses and keeps the
// aggregated violation details intact for clients.
func (s *Server) writeError(w http.ResponseWriter, requestID string, err error) {
	status := http.StatusInternalServerError
	code := string(errors.TypeCalculation)
	message := err.Error()
	var details []string

	if e, ok := err.(*errors.Error); ok {
		code = string(e.Type)
		message = e.Message
		details = e.Details
		switch e.Type {
		case errors.TypeValidation, errors.TypeInput:
			status = http.StatusBadRequest
		case errors.TypeNotFound:
			status = http.StatusNotFound
		}
	}

	s.logger.Warn("request failed",
		zap.String("request_id", requestID),
		zap.String("code", code),
		zap.Error(err))
	s.writeJSON(w, map[string]interface{}{
		"request_id": requestID,
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
			"details": details,
		},
	}, status)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the server on the configured address
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.logger.Info("listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, s)
}

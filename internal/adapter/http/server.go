package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/doppelganger-engine/internal/domain"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// TwinFinder resolves a ZIP code to its combined demographic entry.
type TwinFinder interface {
	Lookup(ctx context.Context, zipCode string) (domain.CacheEntry, error)
}

// Server exposes the lookup endpoint plus health, readiness, and metrics.
type Server struct {
	httpServer *http.Server
	finder     TwinFinder
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /find-twin, /healthz, /readyz, and
// /metrics routes. The write timeout is generous because a cold lookup
// holds the connection through two generative model calls.
func NewServer(addr string, finder TwinFinder, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 150 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		finder: finder,
		logger: logger,
	}

	mux.HandleFunc("POST /find-twin", s.handleFindTwin)
	mux.HandleFunc("OPTIONS /find-twin", s.handlePreflight)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleFindTwin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ZipCode any `json:"zip_code"`
	}
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil || body.ZipCode == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Missing 'zip_code' in JSON body",
		})
		return
	}
	zipCode := coerceZip(body.ZipCode)

	entry, err := s.finder.Lookup(r.Context(), zipCode)
	switch {
	case errors.Is(err, domain.ErrNoData):
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": fmt.Sprintf("No demographic data found for ZIP code %s.", zipCode),
		})
	case err != nil:
		s.logger.Error("lookup failed", "zip", zipCode, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "An internal server error occurred.",
		})
	default:
		writeJSON(w, http.StatusOK, entry)
	}
}

func (s *Server) handlePreflight(w http.ResponseWriter, _ *http.Request) {
	setCORS(w)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// coerceZip accepts either a JSON string or a bare number for zip_code;
// clients sometimes send unquoted ZIPs.
func coerceZip(v any) string {
	switch z := v.(type) {
	case string:
		return z
	case json.Number:
		return z.String()
	default:
		return fmt.Sprintf("%v", z)
	}
}

func setCORS(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	setCORS(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}

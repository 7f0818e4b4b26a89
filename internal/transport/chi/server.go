// Package chi serves the benchmark status endpoints: health, metrics and the latest summary.
package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	gochi "github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ftbench/internal/metrics"
	healthuc "github.com/kailas-cloud/ftbench/internal/usecase/health"
)

// Error codes returned in ErrorResponse.
const (
	ErrorCodeUnauthorized = "unauthorized"
	ErrorCodeNotFound     = "not_found"
	ErrorCodeInternal     = "internal_error"
)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// SummarySource provides the latest summary JSON, if any run finished.
type SummarySource interface {
	Latest() ([]byte, bool)
}

// Server implements the status endpoints.
type Server struct {
	health    HealthChecker
	summaries SummarySource
	logger    *zap.Logger
}

// NewServer creates a status server.
func NewServer(health HealthChecker, summaries SummarySource, logger *zap.Logger) *Server {
	return &Server{health: health, summaries: summaries, logger: logger}
}

// Router wires the middleware chain and routes. Bearer auth applies when apiKeys is non-empty.
func (s *Server) Router(apiKeys []string) http.Handler {
	r := gochi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(requestLogMiddleware(s.logger))
	r.Use(BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware())

	r.Get("/healthz", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Get("/summary", s.Summary)
	return r
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// Summary handles GET /summary.
func (s *Server) Summary(w http.ResponseWriter, _ *http.Request) {
	data, ok := s.summaries.Latest()
	if !ok {
		writeError(w, http.StatusNotFound, ErrorCodeNotFound, "no benchmark run has finished yet")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Serve runs the status server on addr until ctx is done, then shuts it down within shutdown.
func (s *Server) Serve(ctx context.Context, srv *http.Server, shutdown time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting status server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err //nolint:wrapcheck // listener error is reported as is
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdown)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Error during status server shutdown", zap.Error(err))
		return err //nolint:wrapcheck // shutdown error is reported as is
	}
	s.logger.Info("Status server stopped")
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

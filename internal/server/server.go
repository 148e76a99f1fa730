// Package server exposes the assistant features as a JSON API. Every request
// reloads the data files and builds a fresh customer view, so nothing is
// shared between requests except the model and weather clients.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jgoulah/gridassist/internal/assistant"
	"github.com/jgoulah/gridassist/internal/customer"
	"github.com/jgoulah/gridassist/internal/llm"
	"github.com/jgoulah/gridassist/internal/metrics"
)

const maxBodyBytes = 1 << 20

// Deps are the collaborators a server builds each request's assistant from
type Deps struct {
	// LoadView loads the data files and builds the customer view
	LoadView func() (*customer.View, error)
	Provider llm.Provider
	Weather  assistant.ForecastSource
	Options  assistant.Options
	Logger   *zap.Logger
}

// Server serves the JSON API
type Server struct {
	deps   Deps
	logger *zap.Logger
	mux    *http.ServeMux
}

// New creates a server and registers its routes
func New(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.L()
	}
	s := &Server{deps: deps, logger: logger, mux: http.NewServeMux()}

	s.mux.HandleFunc("GET /api/v1/usage", s.withView(s.handleUsage))
	s.mux.HandleFunc("GET /api/v1/weather", s.withView(s.handleWeather))
	s.mux.HandleFunc("GET /api/v1/billing", s.withView(s.handleBilling))
	s.mux.HandleFunc("GET /api/v1/payments", s.withView(s.handlePayments))
	s.mux.HandleFunc("POST /api/v1/tips", s.withView(s.handleTips))
	s.mux.HandleFunc("POST /api/v1/weather/insight", s.withView(s.handleWeatherInsight))
	s.mux.HandleFunc("POST /api/v1/forecast", s.withView(s.handleForecast))
	s.mux.HandleFunc("POST /api/v1/ask", s.withView(s.handleAsk))
	s.mux.HandleFunc("POST /api/v1/offers", s.withView(s.handleOffers))
	s.mux.HandleFunc("POST /api/v1/copilot", s.handleCopilot)

	s.mux.Handle("GET /metrics", promhttp.Handler())
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return s
}

// Handler returns the routes wrapped in request logging and metrics
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		s.mux.ServeHTTP(resp, r)

		metrics.IncHTTPRequest(routeLabel(r), strconv.Itoa(resp.status))
		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", resp.status),
			zap.Duration("elapsed", time.Since(start)))
	})
}

// routeLabel is the matched mux pattern, so arbitrary paths share one series
func routeLabel(r *http.Request) string {
	if r.Pattern == "" {
		return "unmatched"
	}
	return r.Pattern
}

// ListenAndServe serves on addr until the server fails
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("http listening", zap.String("addr", addr))
	return srv.ListenAndServe()
}

type viewHandler func(w http.ResponseWriter, r *http.Request, a *assistant.Assistant)

// withView builds the request's assistant from freshly loaded data
func (s *Server) withView(h viewHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := s.deps.LoadView()
		if err != nil {
			s.logger.Warn("loading data", zap.Error(err))
			writeError(w, http.StatusServiceUnavailable, fmt.Sprintf("loading data: %v", err))
			return
		}
		h(w, r, s.newAssistant(view))
	}
}

func (s *Server) newAssistant(view *customer.View) *assistant.Assistant {
	opts := s.deps.Options
	opts.RunID = ""
	opts.Logger = s.logger
	return assistant.New(view, s.deps.Provider, s.deps.Weather, opts)
}

func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request, a *assistant.Assistant) {
	writeJSON(w, http.StatusOK, a.Usage())
}

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request, a *assistant.Assistant) {
	writeJSON(w, http.StatusOK, a.WeatherImpact(r.Context(), false))
}

func (s *Server) handleBilling(w http.ResponseWriter, r *http.Request, a *assistant.Assistant) {
	writeJSON(w, http.StatusOK, a.BillingHistory())
}

func (s *Server) handlePayments(w http.ResponseWriter, r *http.Request, a *assistant.Assistant) {
	writeJSON(w, http.StatusOK, a.PaymentActivity())
}

func (s *Server) handleTips(w http.ResponseWriter, r *http.Request, a *assistant.Assistant) {
	writeJSON(w, http.StatusOK, a.Tips(r.Context()))
}

func (s *Server) handleWeatherInsight(w http.ResponseWriter, r *http.Request, a *assistant.Assistant) {
	writeJSON(w, http.StatusOK, a.WeatherImpact(r.Context(), true))
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request, a *assistant.Assistant) {
	writeJSON(w, http.StatusOK, a.Forecast(r.Context()))
}

type askRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request, a *assistant.Assistant) {
	var req askRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, a.Ask(r.Context(), req.Question))
}

func (s *Server) handleOffers(w http.ResponseWriter, r *http.Request, a *assistant.Assistant) {
	writeJSON(w, http.StatusOK, a.Offers(r.Context()))
}

type copilotRequest struct {
	Role  string `json:"role"`
	Query string `json:"query"`
}

// handleCopilot needs no customer data, so it works even when the files are missing
func (s *Server) handleCopilot(w http.ResponseWriter, r *http.Request) {
	var req copilotRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := assistant.SystemPromptFor(req.Role); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.newAssistant(nil).Copilot(r.Context(), req.Role, req.Query))
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("request body too large")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

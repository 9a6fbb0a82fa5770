package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"PortfolioSentinel/internal/analyzer"
	"PortfolioSentinel/internal/collector"
	"PortfolioSentinel/internal/metrics"
	"PortfolioSentinel/internal/planner"
)

// RequestTimeout bounds every API request, including provider calls.
const RequestTimeout = 30 * time.Second

// Server is the read-only JSON API over the analyzer.
type Server struct {
	router   *mux.Router
	server   *http.Server
	analyzer *analyzer.Analyzer
	metrics  *metrics.Metrics
	budget   decimal.Decimal
}

// New builds the router. budget is used by /api/plan when the query omits it.
func New(addr string, an *analyzer.Analyzer, m *metrics.Metrics, budget decimal.Decimal) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		analyzer: an,
		metrics:  m,
		budget:   budget,
	}
	s.setupRoutes()
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.loggingMiddleware)

	s.router.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(s.timeoutMiddleware)
	api.HandleFunc("/portfolio", s.portfolio).Methods(http.MethodGet)
	api.HandleFunc("/indicators/{ticker}", s.indicators).Methods(http.MethodGet)
	api.HandleFunc("/valuation/{ticker}", s.valuation).Methods(http.MethodGet)
	api.HandleFunc("/risk", s.risk).Methods(http.MethodGet)
	api.HandleFunc("/plan", s.plan).Methods(http.MethodGet)
	api.HandleFunc("/compare", s.compare).Methods(http.MethodGet)

	// mux skips middleware for unmatched requests
	s.router.NotFoundHandler = s.requestIDMiddleware(s.loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "no route for "+r.URL.Path)
	})))
}

// Start serves until Shutdown; http.ErrServerClosed is not an error.
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("http server listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "time": time.Now().UTC()})
}

func (s *Server) portfolio(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.analyzer.Portfolio(r.Context()))
}

func (s *Server) indicators(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(mux.Vars(r)["ticker"])
	ind, err := s.analyzer.Indicators(r.Context(), ticker)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ind)
}

func (s *Server) valuation(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(mux.Vars(r)["ticker"])
	writeJSON(w, http.StatusOK, s.analyzer.Valuations(r.Context(), []string{ticker})[0])
}

func (s *Server) risk(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.analyzer.Risk(r.Context()))
}

func (s *Server) plan(w http.ResponseWriter, r *http.Request) {
	budget := s.budget
	if v := r.URL.Query().Get("budget"); v != "" {
		b, err := decimal.NewFromString(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_budget", "budget must be a number")
			return
		}
		budget = b
	}
	plan, err := s.analyzer.Plan(r.Context(), budget, tickerList(r.URL.Query().Get("extra"))...)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) compare(w http.ResponseWriter, r *http.Request) {
	rows, err := s.analyzer.Compare(r.Context(), tickerList(r.URL.Query().Get("tickers")))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// tickerList splits a comma-separated query value into upper-case tickers.
func tickerList(v string) []string {
	var out []string
	for _, t := range strings.Split(v, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, strings.ToUpper(t))
		}
	}
	return out
}

func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, planner.ErrInvalidInput), errors.Is(err, analyzer.ErrTooFewTickers):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, collector.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "data_unavailable", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, code int, kind, msg string) {
	writeJSON(w, code, errorResponse{Error: kind, Message: msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

type ctxKey string

const requestIDKey ctxKey = "request_id"

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()[:8]
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		route := "not_found"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		s.metrics.HTTPRequest(route, strconv.Itoa(rw.status))
		id, _ := r.Context().Value(requestIDKey).(string)
		log.Info().Str("request_id", id).Str("method", r.Method).Str("route", route).
			Int("status", rw.status).Dur("duration", time.Since(start)).Msg("http request")
	})
}

func (s *Server) timeoutMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), RequestTimeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

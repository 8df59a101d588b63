package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/secmon-lab/qaboard/pkg/service/metrics"
	"github.com/secmon-lab/qaboard/pkg/usecase"
	"github.com/secmon-lab/qaboard/pkg/utils/logging"
)

// DefaultIdempotencyTTL is how long a recorded POST response can be replayed
const DefaultIdempotencyTTL = 10 * time.Minute

type Server struct {
	router         *chi.Mux
	uc             *usecase.UseCases
	metrics        *metrics.Metrics
	allowedOrigins []string
	idempotencyTTL time.Duration
}

type Options func(*Server)

// WithMetrics enables request metrics and the /metrics endpoint
func WithMetrics(m *metrics.Metrics) Options {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithAllowedOrigins enables CORS for browser dashboards served from other origins
func WithAllowedOrigins(origins []string) Options {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

func WithIdempotencyTTL(ttl time.Duration) Options {
	return func(s *Server) {
		s.idempotencyTTL = ttl
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:         r,
		uc:             uc,
		idempotencyTTL: DefaultIdempotencyTTL,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(metricsRecorder(s.metrics))
	}
	if len(s.allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", idempotencyHeader},
			MaxAge:         300,
		}))
	}

	idem := newIdempotencyStore(s.idempotencyTTL)

	r.Route("/api", func(r chi.Router) {
		r.Get("/kpi", kpiSeriesHandler(uc))
		r.Get("/kpi_targets", kpiTargetsHandler(uc))
		r.Get("/metrics", metricDefinitionsHandler(uc))
		r.Get("/predefined_risks", predefinedRisksHandler(uc))
		r.Get("/risks", risksHandler(uc))
		r.Get("/feedback", feedbackHandler(uc))

		r.Group(func(r chi.Router) {
			r.Use(idempotent(idem))
			r.Post("/risks", submitRiskHandler(uc))
			r.Post("/feedback-submission", submitFeedbackHandler(uc))
		})
	})

	r.Get("/healthz", healthHandler)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
				"remote", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// metricsRecorder counts requests by route pattern so path parameters do not explode cardinality
func metricsRecorder(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.ObserveRequest(route, r.Method, status, time.Since(start))
		})
	}
}

// Package api exposes the recommendation engine, the loan calculator and the
// chat advisor over HTTP.
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"loan-advisor/internal/advisory/chat"
	"loan-advisor/internal/analytics"
	"loan-advisor/internal/common/logger"
	"loan-advisor/internal/common/metrics"
	"loan-advisor/internal/loan/catalog"
	"loan-advisor/internal/loan/recommend"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

type Options struct {
	Catalog        *catalog.Catalog
	Recommender    recommend.Recommender
	Chat           *chat.Service
	Tracker        *analytics.Tracker
	Logger         logger.Logger
	RateLimiter    *RateLimiter
	AllowedOrigins []string
	Readiness      map[string]ReadinessCheck
}

type Server struct {
	catalog     *catalog.Catalog
	recommender recommend.Recommender
	chat        *chat.Service
	tracker     *analytics.Tracker
	log         logger.Logger
	readiness   map[string]ReadinessCheck
}

// NewRouter builds the HTTP handler. /health, /ready and /metrics are never
// rate limited.
func NewRouter(opts Options) http.Handler {
	s := &Server{
		catalog:     opts.Catalog,
		recommender: opts.Recommender,
		chat:        opts.Chat,
		tracker:     opts.Tracker,
		log:         opts.Logger.WithFields(map[string]interface{}{"component": "api"}),
		readiness:   opts.Readiness,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/health", s.health)
	r.Get("/ready", s.ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		origins := opts.AllowedOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
			MaxAge:         300,
		}))
		if opts.RateLimiter != nil {
			r.Use(opts.RateLimiter.Middleware)
		}
		r.Use(middleware.AllowContentType("application/json"))

		r.Get("/products", s.listProducts)
		r.Post("/products/{productID}/view", s.productViewed)
		r.Post("/products/{productID}/apply", s.applicationStarted)

		r.Post("/recommendations", s.recommendations)
		r.Post("/calculator", s.calculate)

		r.Route("/chat/sessions", func(r chi.Router) {
			r.Post("/", s.createSession)
			r.Get("/{sessionID}", s.getSession)
			r.Delete("/{sessionID}", s.deleteSession)
			r.Post("/{sessionID}/messages", s.postMessage)
			r.Put("/{sessionID}/profile", s.updateProfile)
			r.Put("/{sessionID}/language", s.setLanguage)
			r.Delete("/{sessionID}/history", s.clearHistory)
		})
	})

	return r
}

// instrument counts requests by route pattern and logs them.
func (s *Server) instrument(next http.Handler) http.Handler {
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
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()

		s.log.Debug("HTTP request", map[string]interface{}{
			"method":     r.Method,
			"route":      route,
			"status":     status,
			"durationMs": time.Since(start).Milliseconds(),
			"requestId":  middleware.GetReqID(r.Context()),
		})
	})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := make(map[string]string, len(s.readiness))
	status := http.StatusOK
	for name, check := range s.readiness {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not ready"
	}
	writeJSON(w, status, map[string]interface{}{"status": state, "checks": checks})
}

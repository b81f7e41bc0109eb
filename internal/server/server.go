// Package server exposes the prediction pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"churn-predictor/internal/artifact"
	"churn-predictor/internal/common/config"
	"churn-predictor/internal/common/logger"
	"churn-predictor/internal/common/observability"
	"churn-predictor/internal/predictor"
)

type Server struct {
	cfg       *config.Config
	log       logger.Logger
	service   *predictor.Service
	artifacts *artifact.Manager
	obs       *observability.Observability
	httpSrv   *http.Server
}

func New(cfg *config.Config, svc *predictor.Service, mgr *artifact.Manager, obs *observability.Observability, log logger.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		log:       log.WithFields(map[string]interface{}{"component": "http-server"}),
		service:   svc,
		artifacts: mgr,
		obs:       obs,
	}

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.Router(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	return s
}

// Router assembles the route tree. Exposed separately so tests can mount
// it on httptest without binding a port.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(config.GetDuration(s.cfg.Server.RequestTimeout)))
	r.Use(s.instrument)

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/predict", s.handlePredict)
		r.Get("/model_info", s.handleModelInfo)
		r.Get("/sample_input", s.handleSampleInput)
		r.Post("/reload", s.handleReload)
	})

	return r
}

// Start blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("http server listening", map[string]interface{}{"addr": s.httpSrv.Addr})
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("http server shutting down", nil)
	return s.httpSrv.Shutdown(ctx)
}

// instrument records per-route request counts and durations.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := routePattern(r)
		if s.obs != nil {
			s.obs.RecordRequest(r.Context(), route, fmt.Sprintf("%d", ww.Status()))
			s.obs.RecordRequestDuration(r.Context(), time.Since(start), route)
		}
	})
}

// routePattern returns the matched chi route pattern, so metric labels stay
// bounded. Raw URL paths would let 404 probes mint unlimited label values.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// Package server serves identity charts over HTTP.
//
// # Routes
//
//	GET    /                               interactive primary chart page
//	GET    /drill/{category}               secondary chart page
//	GET    /api/map                        the identity map as JSON
//	GET    /api/drill/{category}           the expanded detail map as JSON
//	GET    /api/chart                      a rendered artifact (?role, category, format, viz, interactive)
//	POST   /api/sessions                   start a live chart session
//	GET    /api/sessions/{id}              session state
//	GET    /api/sessions/{id}/svg          live scene of ?role
//	POST   /api/sessions/{id}/hover        {"role", "name", "x", "y"}
//	POST   /api/sessions/{id}/leave        {"role", "name"}
//	POST   /api/sessions/{id}/click        {"role", "name"}
//	POST   /api/sessions/{id}/back
//	DELETE /api/sessions/{id}
//	GET    /metrics                        Prometheus metrics
//	GET    /healthz
//
// Live sessions drive a [viz.Controller] per client. Its drill-down timer
// runs on another goroutine, so every session is guarded by its own mutex.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matzehuels/selfmap/pkg/buildinfo"
	"github.com/matzehuels/selfmap/pkg/identity"
	"github.com/matzehuels/selfmap/pkg/layout"
	"github.com/matzehuels/selfmap/pkg/pipeline"
	"github.com/matzehuels/selfmap/pkg/render"
	"github.com/matzehuels/selfmap/pkg/viz"
)

// Config holds server configuration.
type Config struct {
	Addr      string
	AllowAll  bool // allow all CORS origins
	Seed      uint64
	Primary   render.Dimensions
	Secondary render.Dimensions

	PrimaryMode   layout.Mode
	SecondaryMode layout.Mode

	DrillDelay  time.Duration
	MaxSessions int
	SessionTTL  time.Duration
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.Primary.Width == 0 {
		c.Primary = render.PrimaryDimensions()
	}
	if c.Secondary.Width == 0 {
		c.Secondary = render.SecondaryDimensions()
	}
	if c.PrimaryMode == "" {
		c.PrimaryMode = layout.Radial
	}
	if c.SecondaryMode == "" {
		c.SecondaryMode = layout.Bucketed
	}
	if c.DrillDelay == 0 {
		c.DrillDelay = viz.DefaultDelay
	}
	if c.MaxSessions == 0 {
		c.MaxSessions = 256
	}
	if c.SessionTTL == 0 {
		c.SessionTTL = 30 * time.Minute
	}
}

// Server serves one identity map.
type Server struct {
	cfg        Config
	runner     *pipeline.Runner
	data       *identity.Map
	logger     *log.Logger
	metrics    *Metrics
	sessions   *sessionStore
	router     chi.Router
	httpServer *http.Server
}

// New creates a server. A nil metrics disables /metrics.
func New(cfg Config, runner *pipeline.Runner, data *identity.Map, logger *log.Logger, metrics *Metrics) *Server {
	cfg.setDefaults()
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		cfg:     cfg,
		runner:  runner,
		data:    data,
		logger:  logger,
		metrics: metrics,
	}
	var onChange func(int)
	if metrics != nil {
		onChange = func(n int) { metrics.sessions.Set(float64(n)) }
	}
	s.sessions = newSessionStore(cfg.MaxSessions, cfg.SessionTTL, onChange)
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Get("/", s.handlePrimaryPage)
	r.Get("/drill/{category}", s.handleDrillPage)

	r.Route("/api", func(r chi.Router) {
		r.Get("/map", s.handleMap)
		r.Get("/drill/{category}", s.handleDrill)
		r.Get("/chart", s.handleChart)

		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleSessionState)
			r.Get("/svg", s.handleSessionSVG)
			r.Post("/hover", s.handleSessionEvent(eventHover))
			r.Post("/leave", s.handleSessionEvent(eventLeave))
			r.Post("/click", s.handleSessionEvent(eventClick))
			r.Post("/back", s.handleSessionEvent(eventBack))
			r.Delete("/", s.handleDeleteSession)
		})
	})
	return r
}

// requestLogger logs one line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		w.Header().Set("Server", buildinfo.UserAgent())
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("selfmap server listening", "addr", s.cfg.Addr)
		errc <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

// Shutdown stops the listener and closes every live session.
func (s *Server) Shutdown(ctx context.Context) error {
	s.sessions.closeAll()
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Package server exposes the assistant, the catalog and carts over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"shopping-assistant/internal/assistant"
	"shopping-assistant/internal/cart"
	"shopping-assistant/internal/catalog"
	"shopping-assistant/internal/common/logger"
	"shopping-assistant/internal/common/validation"
	"shopping-assistant/internal/models"
	"shopping-assistant/pkg/registry"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Assistant is the part of *assistant.Session the HTTP layer needs.
type Assistant interface {
	ProcessMessage(ctx context.Context, text string) models.MessageResult
	Initialize(ctx context.Context)
	State() assistant.State
	Snapshot() []models.Product
	Categories() []string
	WelcomeMessage() string
}

// CacheInvalidator is implemented by catalog.CachedProvider.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// HealthChecker is implemented by camunda.Client.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Config struct {
	Port           int
	AllowedOrigins []string
	RequestTimeout time.Duration
}

type Deps struct {
	Assistant Assistant
	Catalog   catalog.Provider
	Cart      *cart.Service
	Registry  *registry.ActivityRegistry
	// Cache is optional; when set, POST /api/assistant/refresh drops cached catalog entries first.
	Cache CacheInvalidator
	// WorkflowEngine is optional; when set, /ready also requires the broker to answer.
	WorkflowEngine HealthChecker
	Logger         logger.Logger
}

type Server struct {
	cfg        Config
	assistant  Assistant
	catalog    catalog.Provider
	cart       *cart.Service
	cache      CacheInvalidator
	engine     HealthChecker
	logger     logger.Logger
	messages   *validation.Validator
	router     chi.Router
	httpServer *http.Server
}

// New compiles the chat message schema from the registry and builds the router.
func New(cfg Config, deps Deps) (*Server, error) {
	reg := deps.Registry
	if reg == nil {
		reg = registry.Default()
	}
	activity, ok := reg.Find(registry.ChatMessageSchemaID)
	if !ok {
		return nil, fmt.Errorf("registry has no %q schema", registry.ChatMessageSchemaID)
	}
	validator, err := validation.NewValidator(activity.InputSchema)
	if err != nil {
		return nil, fmt.Errorf("chat message schema: %w", err)
	}

	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	s := &Server{
		cfg:       cfg,
		assistant: deps.Assistant,
		catalog:   deps.Catalog,
		cart:      deps.Cart,
		cache:     deps.Cache,
		engine:    deps.WorkflowEngine,
		logger:    log.With(map[string]interface{}{"component": "http"}),
		messages:  validator,
	}
	s.router = s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if s.cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))
	}

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/assistant", func(r chi.Router) {
			r.Post("/messages", s.handleMessage)
			r.Get("/welcome", s.handleWelcome)
			r.Post("/refresh", s.handleRefresh)
		})
		r.Route("/products", func(r chi.Router) {
			r.Get("/", s.handleListProducts)
			r.Get("/categories", s.handleListCategories)
			r.Get("/category/{name}", s.handleProductsByCategory)
			r.Get("/search", s.handleSearchProducts)
			r.Get("/{id}", s.handleGetProduct)
		})
		r.Route("/carts", func(r chi.Router) {
			r.Post("/", s.handleCreateCart)
			r.Get("/{cartID}", s.handleGetCart)
			r.Post("/{cartID}/items", s.handleAddItem)
			r.Put("/{cartID}/items/{productID}", s.handleUpdateItem)
			r.Delete("/{cartID}/items/{productID}", s.handleRemoveItem)
			r.Post("/{cartID}/checkout", s.handleCheckout)
		})
	})

	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Start blocks serving on the configured port until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", map[string]interface{}{"addr": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	state := s.assistant.State()
	if state != assistant.StateReady {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": state.String(),
		})
		return
	}
	if s.engine != nil {
		if err := s.engine.HealthCheck(r.Context()); err != nil {
			s.logger.Warn("workflow engine health check failed", map[string]interface{}{"error": err.Error()})
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "workflow_engine_unavailable",
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       state.String(),
		"productCount": len(s.assistant.Snapshot()),
		"time":         time.Now().Format(time.RFC3339),
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Debug("http request", map[string]interface{}{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"requestId":  middleware.GetReqID(r.Context()),
			"durationMs": time.Since(start).Milliseconds(),
		})
	})
}

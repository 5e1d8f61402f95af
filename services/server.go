package services

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	gorillaws "github.com/gorilla/websocket"

	"github.com/olaniyigeorge/iHR/repository"
)

// Server holds all server dependencies
type Server struct {
	config             *Config
	store              *repository.Store
	cache              *repository.ContextCache
	geminiService      *GeminiService
	elevenLabsService  *ElevenLabsService
	contextBuilder     *ContextBuilder
	responder          *ResponseGenerator
	orchestrator       *SessionOrchestrator
	authService        *AuthService
	authEndpoints      *AuthEndpoints
	userEndpoints      *UserEndpoints
	industryEndpoints  *IndustryEndpoints
	jobEndpoints       *JobEndpoints
	interviewEndpoints *InterviewEndpoints
	statementEndpoints *StatementEndpoints
	simulationHandler  *SimulationHandler
	upgrader           gorillaws.Upgrader
}

// NewServer creates a new server instance
func NewServer(config *Config, store *repository.Store, cache *repository.ContextCache) *Server {
	return &Server{
		config: config,
		store:  store,
		cache:  cache,
		upgrader: gorillaws.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return CheckOrigin(r, config.WebSocket.AllowedOrigins)
			},
		},
	}
}

// InitializeServices wires the conversation pipeline and the API endpoints
func (s *Server) InitializeServices() {
	if s.config.AI.GeminiAPIKey != "" {
		s.geminiService = NewGeminiService(s.config.AI.GeminiAPIKey)
		slog.Info("Gemini service initialized")
	} else {
		slog.Warn("Gemini API key not configured, conversation turns will use the fallback reply")
	}

	if s.config.AI.ElevenLabsKey != "" {
		s.elevenLabsService = NewElevenLabsService(s.config.AI.ElevenLabsKey)
		slog.Info("ElevenLabs service initialized")
	}

	s.contextBuilder = NewContextBuilder(s.store, s.cache)
	s.responder = NewResponseGenerator(s.geminiService)
	s.orchestrator = NewSessionOrchestrator(
		s.contextBuilder,
		s.responder,
		s.store,
		s.geminiService,
		s.elevenLabsService,
		UnimplementedVideoAdapter{},
		UnimplementedVideoAdapter{},
		s.config.Interview.PersistSet(),
		s.config.Interview.Persona,
	)
	s.simulationHandler = NewSimulationHandler(s.store, s.orchestrator, s.upgrader)

	s.authService = NewAuthService(s.store, s.config.JWT.Secret)
	s.authEndpoints = NewAuthEndpoints(s.authService)
	s.userEndpoints = NewUserEndpoints(s.store)
	s.industryEndpoints = NewIndustryEndpoints(s.store)
	s.jobEndpoints = NewJobEndpoints(s.store)
	s.interviewEndpoints = NewInterviewEndpoints(s.store, s.contextBuilder)
	s.statementEndpoints = NewStatementEndpoints(s.store)

	slog.Info("Services initialized")
}

// SetupRoutes configures all HTTP routes
func (s *Server) SetupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.homeHandler)
	r.Get("/health", s.healthHandler)

	r.Route("/api/v1", func(r chi.Router) {
		s.authEndpoints.RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(s.authService.Middleware)
			s.userEndpoints.RegisterRoutes(r)
			s.industryEndpoints.RegisterRoutes(r)
			s.jobEndpoints.RegisterRoutes(r)
			s.interviewEndpoints.RegisterRoutes(r)
			s.statementEndpoints.RegisterRoutes(r)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(s.authService.Middleware)
		r.Get("/ws/simulate-interview/{interview_id}", s.simulationHandler.SimulateInterviewHandler)
	})

	return r
}

// Start runs the HTTP server until SIGINT or SIGTERM
func (s *Server) Start() {
	port := s.config.Server.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: s.SetupRoutes(),
	}

	go func() {
		slog.Info("Starting server", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exited")
}

// CheckOrigin validates WebSocket connection origins against the configured
// comma-separated allow list. An empty list denies everything.
func CheckOrigin(r *http.Request, allowedOriginsStr string) bool {
	origin := r.Header.Get("Origin")

	if allowedOriginsStr == "" {
		slog.Warn("WebSocket connection rejected: no allowed origins configured", "origin", origin)
		return false
	}

	for _, allowed := range strings.Split(allowedOriginsStr, ",") {
		if strings.TrimSpace(allowed) == origin {
			return true
		}
	}

	slog.Warn("WebSocket connection rejected: origin not allowed", "origin", origin, "allowed_origins", allowedOriginsStr)
	return false
}

func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Welcome to iHR, your AI-powered interview simulation service",
		"docs":      "/api/v1",
		"websocket": "/ws/simulate-interview/{interview_id}",
	})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	dbStatus := "up"
	cacheStatus := "up"

	if sqlDB, err := s.store.DB().DB(); err != nil {
		dbStatus = "down"
		status = "degraded"
	} else if err := sqlDB.PingContext(r.Context()); err != nil {
		dbStatus = "down"
		status = "degraded"
	}

	if err := s.cache.Ping(r.Context()); err != nil {
		cacheStatus = "down"
		status = "degraded"
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":   status,
		"database": dbStatus,
		"cache":    cacheStatus,
	})
}

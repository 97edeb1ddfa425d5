package server

import (
	"log/slog"
	"net/http"

	"cafe-dashboard/internal/analytics"
	"cafe-dashboard/internal/handlers"
)

type Server struct {
	engine      *analytics.Engine
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(engine *analytics.Engine, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		engine:      engine,
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(engine, logger),
		sseHandlers: handlers.NewSSEHandlers(engine, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Dashboard routes
	s.mux.HandleFunc("GET /", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints
	s.mux.HandleFunc("GET /api/report", s.apiHandlers.HandleReport)
	s.mux.HandleFunc("GET /api/filters", s.apiHandlers.HandleFilters)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/report", s.sseHandlers.HandleReport)
	s.mux.HandleFunc("GET /sse/filters", s.sseHandlers.HandleFilters)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

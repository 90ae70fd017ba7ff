package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/sranjan/examforge/internal/config"
	"github.com/sranjan/examforge/internal/store"
)

// Server is the HTTP API driving assessment sessions. The browser UI is a
// thin collaborator: it uploads files, triggers transitions, and renders
// the status snapshots and exports returned here.
type Server struct {
	router   chi.Router
	sessions *Registry
	eventLog store.EventLog
	log      *zap.Logger
	cfg      config.ServerConfig
}

// NewServer creates and configures the HTTP server.
func NewServer(sessions *Registry, eventLog store.EventLog, log *zap.Logger, cfg config.ServerConfig) *Server {
	s := &Server{
		sessions: sessions,
		eventLog: eventLog,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleSessionStatus)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/files", s.handleUploadFile)
			r.Post("/analyze", s.handleAnalyze)
			r.Post("/generate", s.handleGenerate)
			r.Get("/export/csv", s.handleExportCSV)
			r.Get("/export/json", s.handleExportJSON)
		})
		r.Get("/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

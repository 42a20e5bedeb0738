// Package server exposes the rasterizer over HTTP: scene listing, single
// frame PNG renders, streamed spin animations and pixel inspection.
package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/df07/go-soft-renderer/pkg/presets"
)

// Server handles web requests for the software rasterizer
type Server struct {
	port      int
	scenesDir string
	staticDir string
	logger    *slog.Logger
	mux       *http.ServeMux
}

// NewServer creates a new web server. Scene files are discovered in scenesDir.
func NewServer(port int, scenesDir string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		port:      port,
		scenesDir: scenesDir,
		staticDir: "static",
		logger:    logger,
		mux:       http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	if info, err := os.Stat(s.staticDir); err == nil && info.IsDir() {
		s.mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
	}

	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/scenes", s.handleScenes)
	s.mux.HandleFunc("GET /api/render", s.handleRender)
	s.mux.HandleFunc("GET /api/animate", s.handleAnimate)
	s.mux.HandleFunc("GET /api/inspect", s.handleInspect)
}

// Handler returns the server's request router
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves until the listener fails
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("starting web server", "url", "http://localhost"+addr)
	return srv.ListenAndServe()
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in presets and discovered scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := presets.ListAllScenes(s.scenesDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server wires the HTTP surface of the resume builder: auth routes,
// resume CRUD, the document conversion endpoint, and a health check.
package server

import (
	"net/http"
	"time"

	"github.com/pdiddy/resume-builder/internal/auth"
	"github.com/pdiddy/resume-builder/internal/convert"
	"github.com/pdiddy/resume-builder/internal/store"
)

// Server holds the handler dependencies.
type Server struct {
	store     *store.Store
	tokens    *auth.Service
	pipeline  *convert.Pipeline
	clientURL string
	maxUpload int64
}

// New assembles a Server.
func New(st *store.Store, tokens *auth.Service, pipeline *convert.Pipeline, clientURL string, maxUpload int64) *Server {
	return &Server{
		store:     st,
		tokens:    tokens,
		pipeline:  pipeline,
		clientURL: clientURL,
		maxUpload: maxUpload,
	}
}

// Handler returns the routed HTTP handler with CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)

	mux.HandleFunc("POST /api/resumes", s.requireUser(s.handleCreateResume))
	mux.HandleFunc("GET /api/resumes", s.requireUser(s.handleListResumes))
	mux.HandleFunc("GET /api/resumes/{id}", s.requireUser(s.handleGetResume))
	mux.HandleFunc("PUT /api/resumes/{id}", s.requireUser(s.handleUpdateResume))
	mux.HandleFunc("DELETE /api/resumes/{id}", s.requireUser(s.handleDeleteResume))
	mux.HandleFunc("GET /api/resumes/{id}/download", s.requireUser(s.handleDownloadResume))

	mux.HandleFunc("POST /api/convert", s.handleConvert)

	mux.HandleFunc("GET /health", s.handleHealth)

	return s.cors(mux)
}

// cors allows the configured browser origin.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.clientURL)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message":   "Server is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/resume-builder/internal/store"
	"github.com/pdiddy/resume-builder/pkg/types"
)

type createResumeRequest struct {
	Title            string             `json:"title"`
	PersonalInfo     types.PersonalInfo `json:"personalInfo"`
	SelectedTemplate string             `json:"selectedTemplate"`
	Experiences      []types.Experience `json:"experiences"`
	Education        []types.Education  `json:"education"`
	Skills           []types.Skill      `json:"skills"`
}

type updateResumeRequest struct {
	Title            *string             `json:"title"`
	PersonalInfo     *types.PersonalInfo `json:"personalInfo"`
	Experiences      *[]types.Experience `json:"experiences"`
	Education        *[]types.Education  `json:"education"`
	Skills           *[]types.Skill      `json:"skills"`
	SelectedTemplate *string             `json:"selectedTemplate"`
}

func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request, userID string) {
	var req createResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		respondError(w, http.StatusBadRequest, "Title is required")
		return
	}

	resume, err := s.store.CreateResume(r.Context(), types.Resume{
		UserID:           userID,
		Title:            req.Title,
		PersonalInfo:     req.PersonalInfo,
		Experiences:      req.Experiences,
		Education:        req.Education,
		Skills:           req.Skills,
		SelectedTemplate: req.SelectedTemplate,
	})
	if err != nil {
		log.Printf("server: creating resume: %v", err)
		respondError(w, http.StatusInternalServerError, "could not create resume")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Resume created successfully",
		"resume":  resume,
	})
}

func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request, userID string) {
	resumes, err := s.store.ListResumes(r.Context(), userID)
	if err != nil {
		log.Printf("server: listing resumes: %v", err)
		respondError(w, http.StatusInternalServerError, "could not list resumes")
		return
	}
	writeJSON(w, http.StatusOK, resumes)
}

// ownedResume loads the resume in the request path and enforces ownership.
// It writes the error response itself and returns false when the caller
// should stop.
func (s *Server) ownedResume(w http.ResponseWriter, r *http.Request, userID string) (types.Resume, bool) {
	resume, err := s.store.GetResume(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Resume not found")
		return types.Resume{}, false
	}
	if err != nil {
		log.Printf("server: loading resume: %v", err)
		respondError(w, http.StatusInternalServerError, "could not load resume")
		return types.Resume{}, false
	}
	if resume.UserID != userID {
		respondError(w, http.StatusForbidden, "Not authorized")
		return types.Resume{}, false
	}
	return resume, true
}

func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request, userID string) {
	resume, ok := s.ownedResume(w, r, userID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, resume)
}

func (s *Server) handleUpdateResume(w http.ResponseWriter, r *http.Request, userID string) {
	resume, ok := s.ownedResume(w, r, userID)
	if !ok {
		return
	}

	var req updateResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := s.store.UpdateResume(r.Context(), resume.ID, store.ResumeUpdate{
		Title:            req.Title,
		PersonalInfo:     req.PersonalInfo,
		Experiences:      req.Experiences,
		Education:        req.Education,
		Skills:           req.Skills,
		SelectedTemplate: req.SelectedTemplate,
	})
	if err != nil {
		log.Printf("server: updating resume: %v", err)
		respondError(w, http.StatusInternalServerError, "could not update resume")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Resume updated successfully",
		"resume":  updated,
	})
}

func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request, userID string) {
	resume, ok := s.ownedResume(w, r, userID)
	if !ok {
		return
	}
	if err := s.store.DeleteResume(r.Context(), resume.ID); err != nil {
		log.Printf("server: deleting resume: %v", err)
		respondError(w, http.StatusInternalServerError, "could not delete resume")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Resume deleted successfully"})
}

func (s *Server) handleDownloadResume(w http.ResponseWriter, r *http.Request, userID string) {
	resume, ok := s.ownedResume(w, r, userID)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "pdf"
	}

	// YAML renders inline; other formats return the record for the client
	// to render (PDF layout is the frontend's job).
	if format == "yaml" {
		data, err := yaml.Marshal(resume)
		if err != nil {
			log.Printf("server: marshaling resume: %v", err)
			respondError(w, http.StatusInternalServerError, "could not render resume")
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		w.Write(data)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Resume download as " + format,
		"resume":  resume,
		"format":  format,
	})
}

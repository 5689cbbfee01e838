// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/pdiddy/resume-builder/internal/auth"
	"github.com/pdiddy/resume-builder/internal/store"
	"github.com/pdiddy/resume-builder/pkg/types"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userPayload is the public shape of an account.
type userPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func publicUser(u types.User) userPayload {
	return userPayload{ID: u.ID, Name: u.Name, Email: u.Email}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if !auth.ValidEmail(req.Email) {
		respondError(w, http.StatusBadRequest, "Please provide a valid email")
		return
	}
	if len(req.Password) < auth.MinPasswordLength {
		respondError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("server: hashing password: %v", err)
		respondError(w, http.StatusInternalServerError, "could not register user")
		return
	}

	user, err := s.store.CreateUser(r.Context(), req.Name, req.Email, hash)
	if errors.Is(err, store.ErrEmailTaken) {
		respondError(w, http.StatusBadRequest, "Email already registered")
		return
	}
	if err != nil {
		log.Printf("server: creating user: %v", err)
		respondError(w, http.StatusInternalServerError, "could not register user")
		return
	}

	token, err := s.tokens.IssueToken(user.ID)
	if err != nil {
		log.Printf("server: issuing token: %v", err)
		respondError(w, http.StatusInternalServerError, "could not register user")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"token":   token,
		"user":    publicUser(user),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.store.UserByEmail(r.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusBadRequest, "Invalid credentials")
		return
	}
	if err != nil {
		log.Printf("server: looking up user: %v", err)
		respondError(w, http.StatusInternalServerError, "could not log in")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondError(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	token, err := s.tokens.IssueToken(user.ID)
	if err != nil {
		log.Printf("server: issuing token: %v", err)
		respondError(w, http.StatusInternalServerError, "could not log in")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   token,
		"user":    publicUser(user),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	// Stateless tokens: the client discards its copy.
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

// requireUser wraps a handler with bearer-token verification, passing the
// authenticated user id through.
func (s *Server) requireUser(next func(w http.ResponseWriter, r *http.Request, userID string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			respondError(w, http.StatusUnauthorized, "No token, authorization denied")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		userID, err := s.tokens.VerifyToken(token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Token is not valid")
			return
		}
		next(w, r, userID)
	}
}

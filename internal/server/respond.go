// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"log"
	"net/http"
)

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encoding response: %v", err)
	}
}

// respondError writes the plain error body used by the auth and resume
// routes.
func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// conversionFailure is the structured error body of the convert endpoint.
type conversionFailure struct {
	Error struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
}

// respondConversionError writes the kind-tagged envelope of the convert
// endpoint.
func respondConversionError(w http.ResponseWriter, status int, kind, message string) {
	var body conversionFailure
	body.Error.Kind = kind
	body.Error.Message = message
	writeJSON(w, status, body)
}

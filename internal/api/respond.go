// ABOUTME: JSON response helpers and store-error to HTTP status mapping
// ABOUTME: Keeps handler bodies focused on orchestration

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// errorResponse is the JSON body for all non-2xx responses
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// writeJSON serializes v with the given status code
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body with the given status code
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeValidationError writes a 422 with field-level detail
func writeValidationError(w http.ResponseWriter, fields map[string]string) {
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
		Error:  "validation failed",
		Fields: fields,
	})
}

// writeNotFound writes the generic 404 body. The same body covers resources
// that do not exist and resources owned by someone else.
func writeNotFound(w http.ResponseWriter, id string) {
	writeError(w, http.StatusNotFound, fmt.Sprintf("resource with id %s not found", id))
}

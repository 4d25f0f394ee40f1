package handlers

import (
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "Invalid request body"

// errBodyTooLarge is returned when a request exceeds the configured body limit.
const errBodyTooLarge = "Request body too large"

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// errorResponse is the body of every HTTP-level error.
type errorResponse struct {
	Detail  string `json:"detail"`
	TraceID string `json:"trace_id,omitempty"`
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Detail: message})
}

// respondTracedError sends an error response that points to a logged trace id instead of the cause.
func respondTracedError(w http.ResponseWriter, status int, message, traceID string) {
	respondJSON(w, status, errorResponse{Detail: message, TraceID: traceID})
}

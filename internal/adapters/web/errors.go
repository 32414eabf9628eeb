package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"vendtrack/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	writeErrorDetails(w, r, message, code, status, nil)
}

func writeErrorDetails(w http.ResponseWriter, r *http.Request, message, code string, status int, details any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		Details:   details,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writePipelineError maps a pipeline failure onto HTTP: problems with the
// uploaded file itself are the client's (400), anything else is a store
// failure (500).
func writePipelineError(w http.ResponseWriter, r *http.Request, err error) {
	var inputErr *core.InputError
	if errors.As(err, &inputErr) {
		writeErrorDetails(w, r, inputErr.Message, "BAD_UPLOAD", http.StatusBadRequest, inputErr.Details)
		return
	}
	writeError(w, r, err.Error(), "STORE_ERROR", http.StatusInternalServerError)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/tagonlink/tagonlink/internal/handler/dto"
	"github.com/tagonlink/tagonlink/internal/service"
)

// StatusMessage is the greeting served at GET /.
const StatusMessage = "TAGONLINK backend is running"

// Handler serves the unauthenticated status endpoints.
type Handler struct {
	now func() time.Time
}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{now: time.Now}
}

// Root reports that the service is up.
// GET /
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.StatusResponse{
		Message:   StatusMessage,
		Status:    "ok",
		Timestamp: timestamp(h.now()),
	})
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// decodeJSON reads the request body into dst. On failure it writes the
// error response itself and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "request body too large")
		return false
	}
	writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
	return false
}

// writeValidationError answers 400 when err is a validation failure.
// It reports whether it wrote a response.
func writeValidationError(w http.ResponseWriter, err error) bool {
	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", verr.Error())
	return true
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/tagonlink/tagonlink/internal/handler/dto"
)

// writeError writes a JSON error body in the API's error shape.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Error: message, Code: code})
}

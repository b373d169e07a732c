package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/petcommunity/petcommunity/internal/handler/dto"
)

// writeError writes the standard JSON error envelope.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.Error(code, message))
}

// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/petcommunity/petcommunity/internal/handler/dto"
	"github.com/petcommunity/petcommunity/internal/middleware"
	"github.com/petcommunity/petcommunity/internal/service"
)

// Version is reported by the service banner.
const Version = "1.0.0"

// Handler serves the banner and router fallbacks.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// Hello reports that the service is up.
// GET /
func (h *Handler) Hello(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"message": "Pet Community Backend is running!",
		"version": Version,
	}
	writeJSON(w, http.StatusOK, response)
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes the standard error envelope.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.Error(code, message))
}

var errEmptyBody = errors.New("request body is empty")

// decodeJSON decodes the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	return nil
}

// writeDecodeError maps a decodeJSON failure to a 400 or 413 response.
func writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large")
		return
	}
	writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
}

// handleServiceError maps service errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var verr *service.ValidationError

	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", verr.Message)
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request")
	case errors.Is(err, service.ErrConflict):
		writeError(w, http.StatusBadRequest, "CONFLICT", "Username or email already exists!")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials")
	case errors.Is(err, service.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid bearer token")
	case errors.Is(err, service.ErrIdentityType):
		writeError(w, http.StatusUnprocessableEntity, "INVALID_IDENTITY", "Token identity must be a user id string")
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, service.ErrPetNotFound):
		writeError(w, http.StatusNotFound, "PET_NOT_FOUND", "Pet not found or unauthorized")
	default:
		logger.Error("internal_error",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
			"endpoint", r.Method+" "+r.URL.Path,
		)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong!")
	}
}

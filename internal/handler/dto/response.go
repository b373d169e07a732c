// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// Envelope status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// SuccessResponse wraps confirmation and user payloads.
type SuccessResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success builds a success envelope.
func Success(message string, data any) SuccessResponse {
	return SuccessResponse{Status: StatusSuccess, Message: message, Data: data}
}

// Error builds an error envelope.
func Error(code, message string) ErrorResponse {
	return ErrorResponse{Status: StatusError, Code: code, Message: message}
}

package helpers

import (
	"encoding/json"
	"net/http"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest    = "bad_request"
	ErrCodeValidation    = "validation_error"
	ErrCodeDuplicate     = "duplicate_registration"
	ErrCodeNotFound      = "not_found"
	ErrCodeInvalidStatus = "invalid_status"
	ErrCodeInvalidEvent  = "invalid_event"
	ErrCodeUnauthorized  = "unauthorized"
	ErrCodeInternalError = "internal_error"
)

// APIError is the error object in the standardized API response envelope.
// swagger:model APIError
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIResponse is the standardized envelope for all API responses.
// On success: Success is true and Data is set. On error: Success is false
// and Error is set.
// swagger:model APIResponse
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

// WriteJSON sets Content-Type to application/json, writes statusCode, and
// encodes v as the response body. Use for payloads that extend the
// standard envelope (e.g. the check-registration and duplicate responses).
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteJSONSuccess writes statusCode and an APIResponse with success true
// and the given data.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	WriteJSON(w, statusCode, APIResponse{Success: true, Data: data})
}

// WriteJSONError writes statusCode and an APIResponse with success false
// and the given error code and message.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	WriteJSON(w, statusCode, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: message},
	})
}

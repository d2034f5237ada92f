package common

import (
	"encoding/json"
	"net/http"

	apperrors "healthchat-backend/pkg/errors"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	response := APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// RespondError sends an error response
func RespondError(w http.ResponseWriter, status int, code, message string) {
	response := APIResponse{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// RespondAppError maps an application error onto the wire format.
// The error type doubles as the machine-readable code.
func RespondAppError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatusOf(err)
	code := string(apperrors.ErrorTypeInternal)
	message := "internal error"
	if appErr := apperrors.GetAppError(err); appErr != nil {
		code = string(appErr.Type)
		message = appErr.Message
	}
	RespondError(w, status, code, message)
}

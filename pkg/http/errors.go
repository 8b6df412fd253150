package http

import (
	"fmt"
	"net/http"
)

// Error codes written to the wire.
const (
	CodeInvalidInput    = "ERR_INVALID_INPUT"
	CodeConfiguration   = "ERR_CONFIGURATION"
	CodeUpstream        = "ERR_UPSTREAM"
	CodeStorage         = "ERR_STORAGE"
	CodeInternal        = "ERR_INTERNAL"
	CodeTooManyRequests = "ERR_TOO_MANY_REQUESTS"
)

// AppError represents application-level error with HTTP status.
type AppError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"error"`
	Field   string                 `json:"-"`
	Params  map[string]interface{} `json:"-"`
	Status  int                    `json:"-"`
	Err     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error.
func NewAppError(code, field, message string, status int) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Field:   field,
		Status:  status,
		Params:  make(map[string]interface{}),
	}
}

// WithParam sets a single error param.
func (e *AppError) WithParam(key string, value interface{}) *AppError {
	if e.Params == nil {
		e.Params = make(map[string]interface{})
	}
	e.Params[key] = value
	return e
}

// WithError wraps an underlying error.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// InvalidInputError reports a request that failed binding or validation.
// Top-level failures all answer 500; the code tells them apart.
func InvalidInputError(message string) *AppError {
	return NewAppError(CodeInvalidInput, "", message, http.StatusInternalServerError)
}

// InternalError creates a 500 error.
func InternalError(message string) *AppError {
	return NewAppError(CodeInternal, "", message, http.StatusInternalServerError)
}

// TooManyRequestsError creates a 429 error.
func TooManyRequestsError(message string) *AppError {
	return NewAppError(CodeTooManyRequests, "", message, http.StatusTooManyRequests)
}

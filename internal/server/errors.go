package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"StructureSentinel/internal/model"
)

// AppError is an application error with its HTTP status.
type AppError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Field   string                 `json:"field,omitempty"`
	Params  map[string]interface{} `json:"params,omitempty"`
	Status  int                    `json:"-"`
	Err     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// NewAppError creates a new application error.
func NewAppError(code, field, message string, status int) *AppError {
	return &AppError{Code: code, Message: message, Field: field, Status: status}
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

func InternalError(message string) *AppError {
	return NewAppError("ERR_INTERNAL", "", message, http.StatusInternalServerError)
}

// InvalidInputError reports candles the engine refused to analyze.
func InvalidInputError(err error) *AppError {
	appErr := NewAppError("ERR_INVALID_INPUT", "", err.Error(), http.StatusUnprocessableEntity).WithError(err)
	var ie *model.InputError
	if errors.As(err, &ie) {
		appErr.Field = ie.Field
		if ie.Index >= 0 {
			appErr.WithParam("index", ie.Index)
		}
	}
	return appErr
}

// toAppError maps a service error onto the HTTP error envelope.
func toAppError(err error) *AppError {
	var appErr *AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, model.ErrInvalidInput):
		return InvalidInputError(err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return NewAppError("ERR_UNAVAILABLE", "", "request cancelled", http.StatusServiceUnavailable).WithError(err)
	default:
		return InternalError("analysis failed").WithError(err)
	}
}

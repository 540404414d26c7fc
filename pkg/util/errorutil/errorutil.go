package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// AppError standardizes application errors with a stable code, an HTTP
// status, and an operational flag separating expected client failures from
// server faults.
type AppError struct {
	Code        string
	Message     string
	HTTPStatus  int
	Operational bool
	Err         error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New constructs an operational AppError.
func New(code, message string, status int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Operational: true}
}

func NewBadRequest(code, message string) *AppError {
	return New(code, message, http.StatusBadRequest)
}

func NewUnauthorized(code, message string) *AppError {
	return New(code, message, http.StatusUnauthorized)
}

func NewForbidden(code, message string) *AppError {
	return New(code, message, http.StatusForbidden)
}

func NewNotFound(code, message string) *AppError {
	return New(code, message, http.StatusNotFound)
}

func NewConflict(code, message string) *AppError {
	return New(code, message, http.StatusConflict)
}

// NewInternal wraps an unexpected fault. Not operational: these get stack
// logging at the boundary.
func NewInternal(code string, err error) *AppError {
	return &AppError{
		Code:        code,
		Message:     "internal server error",
		HTTPStatus:  http.StatusInternalServerError,
		Operational: false,
		Err:         err,
	}
}

// ToAppError converts generic errors to AppError.
func ToAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NewNotFound("NOT_FOUND", "resource not found")
	}
	return NewInternal("INTERNAL_ERROR", err)
}

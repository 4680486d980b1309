package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden          ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest         ErrorCode = "BAD_REQUEST"
	ErrCodeConflict           ErrorCode = "CONFLICT"
	ErrCodePreconditionFailed ErrorCode = "PRECONDITION_FAILED"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation         ErrorCode = "VALIDATION_ERROR"
	ErrCodeDatabaseError      ErrorCode = "DATABASE_ERROR"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Newf(code ErrorCode, format string, args ...any) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// Ensure passes application errors through unchanged and wraps anything else.
func Ensure(err error, code ErrorCode, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}
	return Wrap(err, code, message)
}

// Validation, Forbidden, Precondition and Conflict are shorthands for the
// error kinds the workflow machines report.
func Validation(message string) *AppError   { return New(ErrCodeValidation, message) }
func Forbidden(message string) *AppError    { return New(ErrCodeForbidden, message) }
func Precondition(message string) *AppError { return New(ErrCodePreconditionFailed, message) }
func Conflict(message string) *AppError     { return New(ErrCodeConflict, message) }
func NotFound(message string) *AppError     { return New(ErrCodeNotFound, message) }

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodePreconditionFailed:
		return http.StatusPreconditionFailed
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf returns the code carried by err, or ErrCodeInternal for foreign errors.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// HTTPStatusOf returns the status carried by err, or 500 for foreign errors.
func HTTPStatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

func IsNotFound(err error) bool {
	return Is(err, ErrCodeNotFound)
}

func IsForbidden(err error) bool {
	return Is(err, ErrCodeForbidden)
}

func IsValidation(err error) bool {
	return Is(err, ErrCodeValidation)
}

func IsConflict(err error) bool {
	return Is(err, ErrCodeConflict)
}

func IsPreconditionFailed(err error) bool {
	return Is(err, ErrCodePreconditionFailed)
}

var (
	ErrConsultationNotFound  = New(ErrCodeNotFound, "consultation request not found")
	ErrDesignRequestNotFound = New(ErrCodeNotFound, "design request not found")
	ErrDesignNotFound        = New(ErrCodeNotFound, "pond design not found")
	ErrProjectNotFound       = New(ErrCodeNotFound, "project not found")
	ErrTaskNotFound          = New(ErrCodeNotFound, "project task not found")
	ErrMaintenanceNotFound   = New(ErrCodeNotFound, "maintenance request not found")
	ErrReviewNotFound        = New(ErrCodeNotFound, "review not found")
	ErrUnauthorized          = New(ErrCodeUnauthorized, "authentication required")
	ErrForbidden             = New(ErrCodeForbidden, "insufficient permissions")
	ErrStaleVersion          = New(ErrCodeConflict, "entity was modified concurrently, reload and retry")
)

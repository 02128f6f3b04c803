package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// ErrorKind is the "status" value rendered in every error body
type ErrorKind string

const (
	KindNotFound     ErrorKind = "NotFound"
	KindDuplicate    ErrorKind = "DuplicateRelation"
	KindValidation   ErrorKind = "ValidationError"
	KindUnauthorized ErrorKind = "Unauthorized"
	KindForbidden    ErrorKind = "Forbidden"
	KindEditConflict ErrorKind = "EditConflict"
	KindBadRequest   ErrorKind = "BadRequest"
	KindRateLimited  ErrorKind = "TooManyRequests"
	KindInternal     ErrorKind = "Error"
)

// FieldError describes one failed validation rule
type FieldError struct {
	PropertyName string `json:"propertyName"`
	ErrorMessage string `json:"errorMessage"`
}

// ServiceError to define return exception for system
type ServiceError struct {
	StatusCode int
	Kind       ErrorKind
	Message    string
	Errors     []FieldError
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a ServiceError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.Kind == kind
}

func NotFound(format string, args ...any) *ServiceError {
	return &ServiceError{StatusCode: http.StatusNotFound, Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Duplicate(format string, args ...any) *ServiceError {
	return &ServiceError{StatusCode: http.StatusConflict, Kind: KindDuplicate, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(message string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusUnauthorized, Kind: KindUnauthorized, Message: message}
}

func Forbidden(message string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusForbidden, Kind: KindForbidden, Message: message}
}

func EditConflict(format string, args ...any) *ServiceError {
	return &ServiceError{StatusCode: http.StatusConflict, Kind: KindEditConflict, Message: fmt.Sprintf(format, args...)}
}

func BadRequest(format string, args ...any) *ServiceError {
	return &ServiceError{StatusCode: http.StatusBadRequest, Kind: KindBadRequest, Message: fmt.Sprintf(format, args...)}
}

func TooManyRequests(message string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusTooManyRequests, Kind: KindRateLimited, Message: message}
}

// Validation builds the 400 body for field-level failures.
func Validation(fields ...FieldError) *ServiceError {
	return &ServiceError{
		StatusCode: http.StatusBadRequest,
		Kind:       KindValidation,
		Message:    "Validation failed",
		Errors:     fields,
	}
}

func Internal(message string, err error) *ServiceError {
	return &ServiceError{StatusCode: http.StatusInternalServerError, Kind: KindInternal, Message: message, Err: err}
}

// IsDuplicateKey detects unique-constraint violations from any of the
// drivers we run against.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}

// IsNotFound reports gorm's missing-row error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

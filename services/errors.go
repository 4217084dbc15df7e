package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Error codes shared with the HTTP layer
const (
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeValidation          = "VALIDATION_ERROR"
	CodePersistence         = "DATABASE_ERROR"
	CodeOrderCreationFailed = "ORDER_CREATION_FAILED"
)

// ServiceError is returned by every service operation that fails.
// Two ServiceErrors match under errors.Is when their codes are equal.
type ServiceError struct {
	Code    string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	t, ok := target.(*ServiceError)
	return ok && t.Code == e.Code
}

var (
	ErrNotFound            = &ServiceError{Code: CodeNotFound, Message: "record not found"}
	ErrConflict            = &ServiceError{Code: CodeConflict, Message: "record already exists"}
	ErrPersistence         = &ServiceError{Code: CodePersistence, Message: "database operation failed"}
	ErrOrderCreationFailed = &ServiceError{Code: CodeOrderCreationFailed, Message: "failed to create order"}
)

// ValidationError reports a missing or malformed input field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func notFound(message string) error {
	return &ServiceError{Code: CodeNotFound, Message: message}
}

// wrapDBError classifies a gorm error into the service taxonomy
func wrapDBError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &ServiceError{Code: CodeNotFound, Message: op + ": record not found", Err: err}
	case isUniqueViolation(err):
		return &ServiceError{Code: CodeConflict, Message: op + ": record already exists", Err: err}
	default:
		return &ServiceError{Code: CodePersistence, Message: op, Err: err}
	}
}

// isUniqueViolation works with both PostgreSQL and SQLite, with or without gorm's TranslateError
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate") ||
		strings.Contains(errMsg, "unique constraint") ||
		strings.Contains(errMsg, "unique")
}

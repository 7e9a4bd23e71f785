// Package errors provides custom error types for Atlas
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// AppError is the base interface for all Atlas errors
type AppError interface {
	error
	HTTPStatus() int
	Code() string
}

// BaseError is the base implementation of AppError
type BaseError struct {
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	ErrorCode  string `json:"code"`
	Details    string `json:"details,omitempty"`
}

func (e *BaseError) Error() string {
	return e.Message
}

func (e *BaseError) HTTPStatus() int {
	return e.StatusCode
}

func (e *BaseError) Code() string {
	return e.ErrorCode
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	BaseError
	Resource string
}

func NewNotFoundError(resource string) *NotFoundError {
	return &NotFoundError{
		BaseError: BaseError{
			Message:    fmt.Sprintf("%s not found", resource),
			StatusCode: http.StatusNotFound,
			ErrorCode:  "NOT_FOUND",
		},
		Resource: resource,
	}
}

// ValidationError represents a validation error
type ValidationError struct {
	BaseError
	Field string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		BaseError: BaseError{
			Message:    message,
			StatusCode: http.StatusBadRequest,
			ErrorCode:  "VALIDATION_ERROR",
		},
		Field: field,
	}
}

// UnauthorizedError represents an authentication error
type UnauthorizedError struct {
	BaseError
}

func NewUnauthorizedError(message string) *UnauthorizedError {
	if message == "" {
		message = "authentication required"
	}
	return &UnauthorizedError{
		BaseError: BaseError{
			Message:    message,
			StatusCode: http.StatusUnauthorized,
			ErrorCode:  "UNAUTHORIZED",
		},
	}
}

// ProtectedError represents a rejected delete of a still-referenced row
type ProtectedError struct {
	BaseError
	Resource string
}

func NewProtectedError(resource, referencedBy string) *ProtectedError {
	return &ProtectedError{
		BaseError: BaseError{
			Message:    fmt.Sprintf("%s is referenced by existing %s and cannot be deleted", resource, referencedBy),
			StatusCode: http.StatusBadRequest,
			ErrorCode:  "PROTECTED",
		},
		Resource: resource,
	}
}

// ConflictError represents a conflict error (e.g., duplicate)
type ConflictError struct {
	BaseError
	Resource string
}

func NewConflictError(resource string) *ConflictError {
	return &ConflictError{
		BaseError: BaseError{
			Message:    fmt.Sprintf("%s already exists", resource),
			StatusCode: http.StatusConflict,
			ErrorCode:  "CONFLICT",
		},
		Resource: resource,
	}
}

// BadRequestError represents a generic bad request error
type BadRequestError struct {
	BaseError
}

func NewBadRequestError(message string) *BadRequestError {
	return &BadRequestError{
		BaseError: BaseError{
			Message:    message,
			StatusCode: http.StatusBadRequest,
			ErrorCode:  "BAD_REQUEST",
		},
	}
}

// InternalError represents an internal server error
type InternalError struct {
	BaseError
	OriginalError error
}

func NewInternalError(original error) *InternalError {
	return &InternalError{
		BaseError: BaseError{
			Message:    "internal server error",
			StatusCode: http.StatusInternalServerError,
			ErrorCode:  "INTERNAL_ERROR",
		},
		OriginalError: original,
	}
}

// FromDB translates a gorm error into the matching AppError.
// Unique violations are reported per driver wording, so the duplicated-key
// sentinel is checked first and a message sniff covers older drivers.
func FromDB(err error, resource string) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return NewNotFoundError(resource)
	}
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return NewConflictError(resource)
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key") {
		return NewConflictError(resource)
	}
	if strings.Contains(msg, "foreign key constraint") {
		return NewBadRequestError(resource + " has conflicting references")
	}
	return NewInternalError(err)
}

// ToHTTPError converts any error to an appropriate HTTP response
func ToHTTPError(err error) (int, map[string]interface{}) {
	if err == nil {
		return http.StatusOK, nil
	}

	var ae AppError
	if stderrors.As(err, &ae) {
		return ae.HTTPStatus(), map[string]interface{}{
			"error":   ae.Code(),
			"message": ae.Error(),
		}
	}

	// Default to internal server error for unknown errors
	return http.StatusInternalServerError, map[string]interface{}{
		"error":   "INTERNAL_ERROR",
		"message": "internal server error",
	}
}

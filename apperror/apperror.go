// Package apperror defines the application's error taxonomy and the mapping
// from error types to HTTP status codes and response bodies. Handlers and
// services return *AppError values; the HTTP layer serializes them with
// WriteError so every failure leaves the service in the same shape.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType enumerates the categories of application errors.
type ErrorType int

const (
	// UnknownError is for unspecified errors.
	UnknownError ErrorType = iota
	// DatabaseError represents an error originating from the database.
	DatabaseError
	// AuthError represents an authentication failure (bad credentials,
	// missing/invalid/expired token).
	AuthError
	// NotFoundError represents a resource not found error.
	NotFoundError
	// ValidationError represents an input shape or length violation.
	ValidationError
	// InvalidFieldError represents a reference to a field outside the
	// updatable allow-list.
	InvalidFieldError
	// BadRequestError represents a generic malformed request.
	BadRequestError
	// InternalError represents a generic internal server error.
	InternalError
)

// AppError is the application's error type. Fields carries the names of
// offending payload fields for validation errors; Err holds the underlying
// cause, which is logged but never sent to clients.
type AppError struct {
	Type    ErrorType
	Message string
	Fields  []string
	Err     error
}

// Error satisfies the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error, supporting errors.Is/errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code for the error type.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case AuthError:
		return http.StatusUnauthorized
	case NotFoundError:
		return http.StatusNotFound
	case ValidationError:
		return http.StatusUnprocessableEntity
	case InvalidFieldError, BadRequestError:
		return http.StatusBadRequest
	case DatabaseError, InternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// NewAppError creates a new AppError with an explicit type.
func NewAppError(errType ErrorType, message string, underlying error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     underlying,
	}
}

// NewDatabaseError creates a DatabaseError.
func NewDatabaseError(message string, underlying error) *AppError {
	return NewAppError(DatabaseError, message, underlying)
}

// NewAuthError creates an AuthError.
func NewAuthError(message string, underlying error) *AppError {
	return NewAppError(AuthError, message, underlying)
}

// NewNotFoundError creates a NotFoundError.
func NewNotFoundError(message string, underlying error) *AppError {
	return NewAppError(NotFoundError, message, underlying)
}

// NewValidationError creates a ValidationError with a single message.
func NewValidationError(message string, underlying error) *AppError {
	return NewAppError(ValidationError, message, underlying)
}

// NewFieldValidationError creates a ValidationError carrying the names of
// the offending payload fields. The response body lists one entry per field.
func NewFieldValidationError(fields ...string) *AppError {
	return &AppError{
		Type:    ValidationError,
		Message: "invalid input",
		Fields:  fields,
	}
}

// NewInvalidFieldError creates an InvalidFieldError for an update key that
// is not in the updatable allow-list.
func NewInvalidFieldError(field string) *AppError {
	return NewAppError(InvalidFieldError, fmt.Sprintf("Invalid field name: %s", field), nil)
}

// NewBadRequestError creates a BadRequestError.
func NewBadRequestError(message string, underlying error) *AppError {
	return NewAppError(BadRequestError, message, underlying)
}

// NewInternalError creates an InternalError.
func NewInternalError(message string, underlying error) *AppError {
	return NewAppError(InternalError, message, underlying)
}

// ErrorResponse is the body for single-message errors.
type ErrorResponse struct {
	Detail string `json:"detail" example:"Book not found"`
}

// FieldError is one entry of a validation error list.
type FieldError struct {
	Detail string `json:"detail" example:"Invalid input given for title"`
}

// FieldErrorResponse is the body for per-field validation errors.
type FieldErrorResponse struct {
	Errors []FieldError `json:"errors"`
}

// ToResponse converts an AppError to its client-facing body. Validation
// errors with field names become a structured list; everything else is a
// single detail message. Underlying causes are never included.
func (e *AppError) ToResponse() interface{} {
	if len(e.Fields) > 0 {
		resp := FieldErrorResponse{Errors: make([]FieldError, 0, len(e.Fields))}
		for _, f := range e.Fields {
			resp.Errors = append(resp.Errors, FieldError{
				Detail: fmt.Sprintf("Invalid input given for %s", f),
			})
		}
		return resp
	}
	return ErrorResponse{Detail: e.Message}
}

// FromError attempts to convert a generic error to an *AppError.
func FromError(err error) (*AppError, bool) {
	if err == nil {
		return nil, false
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsNotFound checks whether an error is a NotFoundError.
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == NotFoundError
}

// IsAuthError checks whether an error is an AuthError.
func IsAuthError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == AuthError
}

// IsValidationError checks whether an error is a ValidationError.
func IsValidationError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ValidationError
}

// IsInvalidField checks whether an error is an InvalidFieldError.
func IsInvalidField(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == InvalidFieldError
}

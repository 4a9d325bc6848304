// Package errors provides standardized error handling for the HTTP surface.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed        ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidRequest          ErrorCode = "INVALID_REQUEST"
	ErrCodeInvalidStateTransition  ErrorCode = "INVALID_STATE_TRANSITION"
	ErrCodeFileConstraintViolation ErrorCode = "FILE_CONSTRAINT_VIOLATION"
	ErrCodeFileProcessingTimeout   ErrorCode = "FILE_PROCESSING_TIMEOUT"
	ErrCodeObjectStorageFailed     ErrorCode = "OBJECT_STORAGE_FAILED"

	ErrCodeDatabaseInsertFailed ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeDatabaseQueryFailed  ErrorCode = "DATABASE_QUERY_FAILED"
	ErrCodeApplicationNotFound  ErrorCode = "APPLICATION_NOT_FOUND"
	ErrCodeSessionNotFound      ErrorCode = "SESSION_NOT_FOUND"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeMailConfigMissing      ErrorCode = "MAIL_CONFIG_MISSING"

	ErrCodeRequestTimeout ErrorCode = "REQUEST_TIMEOUT"
	ErrCodeInternal       ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a metadata entry and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message string, cause error, retryable bool) *StandardError {
	e := &StandardError{
		Code:      code,
		Message:   message,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

// NewValidationError creates a user-correctable validation error. fieldErrors may be nil.
func NewValidationError(message string, fieldErrors map[string]string) *StandardError {
	e := newError(ErrCodeValidationFailed, message, nil, false)
	if len(fieldErrors) > 0 {
		e.WithMetadata("fieldErrors", fieldErrors)
	}
	return e
}

// NewInvalidRequestError creates an error for malformed request bodies.
func NewInvalidRequestError(message string) *StandardError {
	return newError(ErrCodeInvalidRequest, message, nil, false)
}

// NewInvalidStateTransitionError creates a wizard transition error.
func NewInvalidStateTransitionError(details string) *StandardError {
	e := newError(ErrCodeInvalidStateTransition, "This action is not available at the current step", nil, false)
	e.Details = details
	return e
}

// NewFileConstraintError creates a user-correctable receipt size or type error.
func NewFileConstraintError(message string) *StandardError {
	return newError(ErrCodeFileConstraintViolation, message, nil, false)
}

// NewFileProcessingTimeoutError creates the receipt upload timeout error.
func NewFileProcessingTimeoutError(cause error) *StandardError {
	return newError(ErrCodeFileProcessingTimeout, "File upload timed out. Please try again with a smaller image.", cause, true)
}

// NewObjectStorageFailedError creates a retryable object storage error.
func NewObjectStorageFailedError(cause error) *StandardError {
	return newError(ErrCodeObjectStorageFailed, "Failed to store payment proof", cause, true)
}

// NewDatabaseInsertFailedError creates a retryable insert error.
func NewDatabaseInsertFailedError(cause error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, "Failed to save application", cause, true)
}

// NewDatabaseQueryFailedError creates a retryable query error.
func NewDatabaseQueryFailedError(message string, cause error) *StandardError {
	return newError(ErrCodeDatabaseQueryFailed, message, cause, true)
}

// NewApplicationNotFoundError creates a not-found error for an application id.
func NewApplicationNotFoundError(id string) *StandardError {
	e := newError(ErrCodeApplicationNotFound, "Application not found", nil, false)
	e.Details = fmt.Sprintf("applicationId: %s", id)
	return e
}

// NewSessionNotFoundError creates a not-found error for a wizard session.
func NewSessionNotFoundError(id string) *StandardError {
	e := newError(ErrCodeSessionNotFound, "Wizard session not found", nil, false)
	e.Details = fmt.Sprintf("sessionId: %s", id)
	return e
}

// NewNotificationSendFailedError creates a retryable delivery error.
func NewNotificationSendFailedError(channel string, cause error) *StandardError {
	e := newError(ErrCodeNotificationSendFailed, "Notification delivery failed", cause, true)
	return e.WithMetadata("channel", channel)
}

// NewMailConfigMissingError creates the development fail-fast mail error.
func NewMailConfigMissingError() *StandardError {
	return newError(ErrCodeMailConfigMissing,
		"SMTP configuration is missing. Please set SMTP_HOST, SMTP_USER, and SMTP_PASSWORD environment variables.",
		nil, false)
}

// NewRequestTimeoutError creates a request timeout error.
func NewRequestTimeoutError(cause error) *StandardError {
	return newError(ErrCodeRequestTimeout, "Request timed out", cause, true)
}

// NewInternalError wraps an unexpected error.
func NewInternalError(message string, cause error) *StandardError {
	return newError(ErrCodeInternal, message, cause, false)
}

// AsStandardError extracts a StandardError from err's chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandardError(err)
	return ok && stdErr.Code == code
}

// FieldErrors returns the per-field messages attached to a validation error.
func FieldErrors(err error) map[string]string {
	stdErr, ok := AsStandardError(err)
	if !ok || stdErr.Metadata == nil {
		return nil
	}
	fe, _ := stdErr.Metadata["fieldErrors"].(map[string]string)
	return fe
}

// IsUserCorrectable reports whether the error message may be shown to end users verbatim.
func IsUserCorrectable(code ErrorCode) bool {
	switch code {
	case ErrCodeValidationFailed,
		ErrCodeInvalidRequest,
		ErrCodeFileConstraintViolation,
		ErrCodeFileProcessingTimeout,
		ErrCodeInvalidStateTransition:
		return true
	default:
		return false
	}
}

// HTTPStatus maps an error code to its HTTP status.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed, ErrCodeInvalidRequest, ErrCodeFileConstraintViolation:
		return http.StatusBadRequest
	case ErrCodeApplicationNotFound, ErrCodeSessionNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidStateTransition:
		return http.StatusConflict
	case ErrCodeRequestTimeout, ErrCodeFileProcessingTimeout:
		return http.StatusRequestTimeout
	case ErrCodeObjectStorageFailed, ErrCodeNotificationSendFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeValidationFailed, ErrCodeInvalidRequest, ErrCodeFileConstraintViolation, ErrCodeInvalidStateTransition:
		return "VALIDATION"
	case ErrCodeFileProcessingTimeout, ErrCodeObjectStorageFailed:
		return "STORAGE"
	case ErrCodeDatabaseInsertFailed, ErrCodeDatabaseQueryFailed, ErrCodeApplicationNotFound, ErrCodeSessionNotFound:
		return "DATABASE"
	case ErrCodeNotificationSendFailed, ErrCodeMailConfigMissing:
		return "NOTIFICATION"
	default:
		return "OTHER"
	}
}

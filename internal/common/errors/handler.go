// internal/common/errors/handler.go
package errors

import (
	"encoding/json"
	"net/http"
	"time"
)

// ErrorHandler writes errors as JSON responses with standardized logging.
type ErrorHandler struct {
	logger      Logger
	development bool
}

type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger, development bool) *ErrorHandler {
	return &ErrorHandler{logger: logger, development: development}
}

// Development reports whether raw error detail is exposed.
func (h *ErrorHandler) Development() bool {
	return h.development
}

// WriteError normalizes err, logs it, and writes {"error": message} with the mapped status.
// fallback is used as the public message for non user-correctable errors outside development.
func (h *ErrorHandler) WriteError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	stdErr := h.normalizeError(err)
	status := HTTPStatus(stdErr.Code)

	h.logError(r, stdErr, status)

	message := stdErr.Message
	if !IsUserCorrectable(stdErr.Code) && stdErr.Code != ErrCodeApplicationNotFound &&
		stdErr.Code != ErrCodeSessionNotFound && stdErr.Code != ErrCodeRequestTimeout {
		switch {
		case h.development:
			message = SanitizeMessage(stdErr, true)
		case fallback != "":
			message = fallback
		default:
			message = SanitizeMessage(stdErr, false)
		}
	}

	body := map[string]interface{}{"error": message}
	if fe := FieldErrors(stdErr); len(fe) > 0 {
		body["fieldErrors"] = fe
	}
	WriteJSON(w, status, body)
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// normalizeError ensures we always have a StandardError
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func (h *ErrorHandler) logError(r *http.Request, stdErr *StandardError, status int) {
	fields := map[string]interface{}{
		"errorCode":    string(stdErr.Code),
		"errorMessage": stdErr.Message,
		"errorDetails": stdErr.Details,
		"retryable":    stdErr.Retryable,
		"category":     GetErrorCategory(stdErr.Code),
		"status":       status,
		"method":       r.Method,
		"path":         r.URL.Path,
		"timestamp":    stdErr.Timestamp.Format(time.RFC3339),
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", fields)
		return
	}
	h.logger.Warn("request rejected", fields)
}

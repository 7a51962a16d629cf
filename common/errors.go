package common

import (
	"encoding/json"
	"net/http"
	"videotube-api/logger"

	"github.com/sirupsen/logrus"
)

// AppError is the JSON error envelope returned for every failed request.
// Err carries the internal cause; it is logged and never serialized.
type AppError struct {
	Code    int      `json:"statusCode"`
	Message string   `json:"message"`
	Success bool     `json:"success"`
	Errors  []string `json:"errors,omitempty"`
	Err     error    `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string, err error) *AppError {
	return NewAppError(http.StatusBadRequest, message, err)
}

func Unauthorized(message string, err error) *AppError {
	return NewAppError(http.StatusUnauthorized, message, err)
}

func Forbidden(message string, err error) *AppError {
	return NewAppError(http.StatusForbidden, message, err)
}

func NotFound(message string, err error) *AppError {
	return NewAppError(http.StatusNotFound, message, err)
}

func Conflict(message string, err error) *AppError {
	return NewAppError(http.StatusConflict, message, err)
}

func Internal(message string, err error) *AppError {
	return NewAppError(http.StatusInternalServerError, message, err)
}

// WithErrors attaches field-level details (validation failures) to the response body.
func (e *AppError) WithErrors(details ...string) *AppError {
	e.Errors = append(e.Errors, details...)
	return e
}

func (e *AppError) Send(w http.ResponseWriter) {
	if e.Err != nil {
		entry := logger.Log.WithFields(logrus.Fields{
			"status_code":    e.Code,
			"internal_error": e.Err.Error(),
		})
		if e.Code >= http.StatusInternalServerError {
			entry.Error(e.Message)
		} else {
			entry.Warn(e.Message)
		}
	}

	e.Success = false
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.Code)
	json.NewEncoder(w).Encode(e)
}

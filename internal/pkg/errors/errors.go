package errors

import (
	"errors"
	"net/http"
)

// CustomError carries the HTTP status it should be reported with.
type CustomError struct {
	Code    int
	Message string
	Fields  map[string]string
}

func (e *CustomError) Error() string {
	return e.Message
}

func New(code int, message string) error {
	return &CustomError{Code: code, Message: message}
}

func BadRequest(message string) error {
	return New(http.StatusBadRequest, message)
}

// ValidationError is a BadRequest with field level details.
func ValidationError(message string, fields map[string]string) error {
	return &CustomError{Code: http.StatusBadRequest, Message: message, Fields: fields}
}

func NotFound(message string) error {
	return New(http.StatusNotFound, message)
}

func InsufficientBalance(message string) error {
	return New(http.StatusUnprocessableEntity, message)
}

func Conflict(message string) error {
	return New(http.StatusConflict, message)
}

func UnauthorizedError(message string) error {
	return New(http.StatusUnauthorized, message)
}

func Forbidden(message string) error {
	return New(http.StatusForbidden, message)
}

func InternalServerError(message string) error {
	return New(http.StatusInternalServerError, message)
}

// As unwraps err into a *CustomError.
func As(err error) (*CustomError, bool) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// Is reports whether err is a CustomError with the given status code.
func Is(err error, code int) bool {
	ce, ok := As(err)
	return ok && ce.Code == code
}

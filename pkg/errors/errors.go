package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType classifies the failures a download run can hit
type ErrorType string

const (
	ErrorTypeNetwork      ErrorType = "network"
	ErrorTypeHTTPStatus   ErrorType = "http_status"
	ErrorTypeParsing      ErrorType = "parsing"
	ErrorTypeInvalidID    ErrorType = "invalid_id"
	ErrorTypeFilesystem   ErrorType = "filesystem"
	ErrorTypePrecondition ErrorType = "precondition"
	ErrorTypeUnknown      ErrorType = "unknown"
)

// Error is a typed failure. Code carries the HTTP status when there is one.
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, msg)
	}
	return fmt.Sprintf("%s error: %s", e.Type, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed error without a cause
func New(t ErrorType, format string, args ...interface{}) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a typed error around cause
func Wrap(t ErrorType, cause error, format string, args ...interface{}) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...), Err: cause}
}

// HTTPStatus reports an unexpected response status
func HTTPStatus(code int, url string) *Error {
	return &Error{
		Type:    ErrorTypeHTTPStatus,
		Message: fmt.Sprintf("unexpected status fetching %s", url),
		Code:    code,
	}
}

// TypeOf returns the type of the first *Error in err's chain, or
// ErrorTypeUnknown when there is none.
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// Is reports whether err carries a typed error of kind t
func Is(err error, t ErrorType) bool {
	return err != nil && TypeOf(err) == t
}

// IsSuccessStatus reports whether an HTTP status code is 2xx
func IsSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

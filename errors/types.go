package errors

import "net/http"

// 4xx

func BadRequest(format string, args ...any) *Error {
	return New(http.StatusBadRequest, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return New(http.StatusUnauthorized, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return New(http.StatusForbidden, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return New(http.StatusNotFound, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return New(http.StatusConflict, format, args...)
}

// 5xx

func InternalServer(format string, args ...any) *Error {
	return New(http.StatusInternalServerError, format, args...)
}

func ServiceUnavailable(format string, args ...any) *Error {
	return New(http.StatusServiceUnavailable, format, args...)
}

// IsClientError reports whether err carries a 4xx code.
func IsClientError(err error) bool {
	code := Code(err)
	return code >= 400 && code < 500
}

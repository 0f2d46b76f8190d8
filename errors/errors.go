package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error is the error type returned across package boundaries. Code mirrors the
// upstream HTTP status that best describes the failure, Op names the operation
// that produced it.
type Error struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
	Op      string `json:"-"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func InvalidInput(op string, err error, message string) *Error {
	return &Error{
		Code:    http.StatusBadRequest,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func NotFound(op string, err error, message string) *Error {
	return &Error{
		Code:    http.StatusNotFound,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

// Unauthorized marks failures that require authentication material, e.g.
// age-restricted videos fetched without cookies.
func Unauthorized(op string, err error, message string) *Error {
	return &Error{
		Code:    http.StatusUnauthorized,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

// RateLimited marks requests rejected upstream, including captcha challenges.
func RateLimited(op string, err error, message string) *Error {
	return &Error{
		Code:    http.StatusTooManyRequests,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

// Unavailable marks videos that exist but cannot be served (removed, private,
// region locked).
func Unavailable(op string, err error, message string) *Error {
	return &Error{
		Code:    http.StatusServiceUnavailable,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func Internal(op string, err error, message string) *Error {
	return &Error{
		Code:    http.StatusInternalServerError,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func is(err error, code int) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code == code
	}
	return false
}

func IsInvalidInput(err error) bool { return is(err, http.StatusBadRequest) }
func IsNotFound(err error) bool     { return is(err, http.StatusNotFound) }
func IsUnauthorized(err error) bool { return is(err, http.StatusUnauthorized) }
func IsRateLimited(err error) bool  { return is(err, http.StatusTooManyRequests) }
func IsUnavailable(err error) bool  { return is(err, http.StatusServiceUnavailable) }

package errors

import "errors"

// AppError carries a machine readable code alongside the failure.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Wrap produces a new AppError instance.
func Wrap(code, message string, err error) error {
	return &AppError{Code: code, Message: message, Err: err}
}

// IsCode reports whether any AppError in the chain carries code, including
// AppErrors wrapped inside another AppError.
func IsCode(err error, code string) bool {
	switch e := err.(type) {
	case nil:
		return false
	case *AppError:
		if e == nil {
			return false
		}
		if e.Code == code {
			return true
		}
		return IsCode(e.Err, code)
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			if IsCode(inner, code) {
				return true
			}
		}
		return false
	default:
		return IsCode(errors.Unwrap(err), code)
	}
}

// CodeOf returns the code of the outermost AppError, or "" when err has none.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

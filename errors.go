package contactbook

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeEmptyName    = "EMPTY_NAME"
	ErrCodeInvalidEmail = "INVALID_EMAIL"
	ErrCodeInvalidPhone = "INVALID_PHONE_FORMAT"
	ErrCodeNotANumber   = "PHONE_NOT_A_NUMBER"
	ErrCodeIO           = "IO_ERROR"
	ErrCodeDecode       = "DECODE_ERROR"
	ErrCodeConsistency  = "BACKEND_CONSISTENCY"
)

// Sentinels for errors.Is matching. Comparison is by code only.
var (
	ErrEmptyName    = &ContactError{Code: ErrCodeEmptyName, Message: "name cannot be empty"}
	ErrInvalidEmail = &ContactError{Code: ErrCodeInvalidEmail, Message: "email is not valid"}
	ErrInvalidPhone = &ContactError{Code: ErrCodeInvalidPhone, Message: "phone no is not valid"}
	ErrNotANumber   = &ContactError{Code: ErrCodeNotANumber, Message: "phone no is not a u64 value"}
	ErrIO           = &ContactError{Code: ErrCodeIO, Message: "bulk file i/o failed"}
	ErrDecode       = &ContactError{Code: ErrCodeDecode, Message: "bulk file is malformed"}
	ErrConsistency  = &ContactError{Code: ErrCodeConsistency, Message: "backend returned an unexpected result"}
)

// ContactError is the tagged failure returned by validators and repositories
type ContactError struct {
	Code    string
	Message string
	Key     string
	Err     error
}

// Error implements the error interface
func (e *ContactError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Key != "" {
		msg = fmt.Sprintf("%s (contact: %s)", msg, e.Key)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause, if any
func (e *ContactError) Unwrap() error {
	return e.Err
}

// Is reports whether target carries the same error code
func (e *ContactError) Is(target error) bool {
	t, ok := target.(*ContactError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewContactError creates a new contact error
func NewContactError(code, message string) *ContactError {
	return &ContactError{
		Code:    code,
		Message: message,
	}
}

// WithKey attaches the contact name the error refers to
func (e *ContactError) WithKey(key string) *ContactError {
	e.Key = key
	return e
}

// WithCause attaches the underlying error
func (e *ContactError) WithCause(err error) *ContactError {
	e.Err = err
	return e
}

// NewIOError wraps a file open/create/write failure
func NewIOError(path string, err error) *ContactError {
	return NewContactError(ErrCodeIO, fmt.Sprintf("cannot access %s", path)).WithCause(err)
}

// NewDecodeError wraps a bulk file parse failure
func NewDecodeError(path string, err error) *ContactError {
	return NewContactError(ErrCodeDecode, fmt.Sprintf("cannot decode %s", path)).WithCause(err)
}

// NewConsistencyError reports a backend result that does not match the request
func NewConsistencyError(key, message string) *ContactError {
	return NewContactError(ErrCodeConsistency, message).WithKey(key)
}

// ErrorCode returns the code of a ContactError in err's chain, or "" if there is none
func ErrorCode(err error) string {
	var ce *ContactError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// IsValidationError checks if an error was raised by field validation
func IsValidationError(err error) bool {
	switch ErrorCode(err) {
	case ErrCodeEmptyName, ErrCodeInvalidEmail, ErrCodeInvalidPhone, ErrCodeNotANumber:
		return true
	}
	return false
}

// IsConsistencyError checks if an error is a backend consistency error
func IsConsistencyError(err error) bool {
	return ErrorCode(err) == ErrCodeConsistency
}

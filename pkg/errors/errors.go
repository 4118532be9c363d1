package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target carries the same code, so cloned errors still
// match their predefined sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache miss")
	ErrCalendarNotFound   = New("CALENDAR_NOT_FOUND", http.StatusNotFound, "calendar not found")
	ErrEmptyName          = New("EMPTY_NAME", http.StatusBadRequest, "name must not be blank")
	ErrDuplicateName      = New("DUPLICATE_NAME", http.StatusConflict, "a term with this name already exists")
	ErrInvalidOrder       = New("INVALID_ORDER", http.StatusBadRequest, "order must be a non-negative integer")
	ErrInvalidClassCount  = New("INVALID_CLASS_COUNT", http.StatusBadRequest, "class count must be a non-negative integer")
	ErrInvalidHolidayFlag = New("INVALID_HOLIDAY_FLAG", http.StatusBadRequest, "holiday flag must be TEACHING or VACATION")
	ErrTermNotFound       = New("TERM_NOT_FOUND", http.StatusNotFound, "term not found")
	ErrCrossCalendar      = New("CROSS_CALENDAR_ACCESS", http.StatusForbidden, "term belongs to another calendar")
	ErrInvalidDate        = New("INVALID_DATE", http.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
	ErrInvalidDateRange   = New("INVALID_DATE_RANGE", http.StatusBadRequest, "invalid date range")
	ErrInvalidDayType     = New("INVALID_DAY_TYPE", http.StatusBadRequest, "unknown day type")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

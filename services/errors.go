package services

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure for the HTTP boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

var (
	ErrDuplicateEmail     = newError(KindValidation, "email already registered")
	ErrInvalidCredentials = newError(KindAuthentication, "invalid email or password")
	ErrInvalidSession     = newError(KindAuthentication, "invalid or expired token")
	ErrForbiddenRole      = newError(KindAuthorization, "insufficient permissions")

	ErrTenantNotFound     = newError(KindNotFound, "restaurant not found")
	ErrTableNotFound      = newError(KindNotFound, "table not found")
	ErrCategoryNotFound   = newError(KindNotFound, "category not found")
	ErrItemNotFound       = newError(KindNotFound, "menu item not found")
	ErrOrderNotFound      = newError(KindNotFound, "order not found")
	ErrWaiterCallNotFound = newError(KindNotFound, "waiter call not found")

	ErrInvalidTransition = newError(KindValidation, "invalid order status transition")
	ErrNotCashOrder      = newError(KindValidation, "payment can only be recorded for cash orders")
	ErrOrderChanged      = newError(KindConflict, "order was modified by another request")
)

// Validation builds a KindValidation error with a formatted message.
func Validation(format string, args ...interface{}) error {
	return newError(KindValidation, fmt.Sprintf(format, args...))
}

// KindOf reports the Kind of err, or KindInternal for errors not raised by this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

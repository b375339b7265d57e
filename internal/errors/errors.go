// Package errors defines the domain error taxonomy shared by services and
// handlers.
package errors

import (
	stderrors "errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindInvalidState
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindInvalidState:
		return "invalid_state"
	default:
		return "internal"
	}
}

// DomainError is a failure the caller can act on.
type DomainError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches on Kind and Code so sentinel values work with errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

func New(kind Kind, code, message string) *DomainError {
	return &DomainError{Kind: kind, Code: code, Message: message}
}

func Validation(code, format string, args ...interface{}) *DomainError {
	return New(KindValidation, code, fmt.Sprintf(format, args...))
}

func Unauthenticated(code, format string, args ...interface{}) *DomainError {
	return New(KindUnauthenticated, code, fmt.Sprintf(format, args...))
}

func Forbidden(code, format string, args ...interface{}) *DomainError {
	return New(KindForbidden, code, fmt.Sprintf(format, args...))
}

func NotFound(code, format string, args ...interface{}) *DomainError {
	return New(KindNotFound, code, fmt.Sprintf(format, args...))
}

func InvalidState(code, format string, args ...interface{}) *DomainError {
	return New(KindInvalidState, code, fmt.Sprintf(format, args...))
}

// KindOf returns the kind of the first DomainError in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// As is errors.As restricted to DomainError.
func As(err error) (*DomainError, bool) {
	var de *DomainError
	ok := stderrors.As(err, &de)
	return de, ok
}

package catalog

import (
	"errors"
	"strings"
)

// Kind classifies a business-rule failure. Every error leaving a catalog
// operation carries exactly one kind; nothing propagates unclassified.
type Kind int

const (
	KindUnknown Kind = iota
	// KindNotFound covers both absent rows and rows the caller may not see.
	// The two are deliberately indistinguishable so that ownership misses do
	// not leak the existence of other vendors' products.
	KindNotFound
	// KindForbidden means the caller lacks the role or capability for the
	// endpoint family itself, independent of any particular entity.
	KindForbidden
	// KindInvalidTransition means the product's current status does not permit
	// the requested operation.
	KindInvalidTransition
	// KindValidationFailed carries the full ordered list of submission-blocking
	// rule violations.
	KindValidationFailed
	// KindBadInput covers malformed or missing request fields.
	KindBadInput
)

type Error struct {
	Kind     Kind
	Messages []string
}

func (e *Error) Error() string {
	return strings.Join(e.Messages, "; ")
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Messages: []string{message}}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Messages: []string{message}}
}

func InvalidTransition(message string) *Error {
	return &Error{Kind: KindInvalidTransition, Messages: []string{message}}
}

func ValidationFailed(messages []string) *Error {
	return &Error{Kind: KindValidationFailed, Messages: messages}
}

func BadInput(message string) *Error {
	return &Error{Kind: KindBadInput, Messages: []string{message}}
}

// KindOf returns the kind carried by err, or KindUnknown when err is not a
// catalog error.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}

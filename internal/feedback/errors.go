package feedback

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure. Handlers map kinds to transport codes;
// nothing below this layer leaks storage error codes past the store boundary.
type Kind string

const (
	KindNotFound       Kind = "not_found"
	KindGone           Kind = "gone"
	KindForbidden      Kind = "forbidden"
	KindConflict       Kind = "conflict"
	KindInvalidInput   Kind = "invalid_input"
	KindInconsistency  Kind = "internal_inconsistency"
	KindInternal       Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
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

// E constructs a domain error at the point of detection.
func E(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a kind and message to an underlying infrastructure error.
func Wrap(kind Kind, message string, err error) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind of err, defaulting to KindInternal for anything
// that is not a domain error.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindInternal
}

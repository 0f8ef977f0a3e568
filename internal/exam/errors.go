package exam

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindInvalidState
	KindInvalid
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidState:
		return "invalid_state"
	case KindInvalid:
		return "invalid"
	case KindDecode:
		return "decode"
	default:
		return "internal"
	}
}

// Error is a domain failure with a caller-facing message.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

var (
	ErrUserNotFound   = &Error{Kind: KindNotFound, Msg: "User not found"}
	ErrExamNotFound   = &Error{Kind: KindNotFound, Msg: "Exam not found"}
	ErrResultNotFound = &Error{Kind: KindNotFound, Msg: "Results not found for this user"}

	ErrUserExists = &Error{Kind: KindConflict, Msg: "User with this user_id or user_name already exists"}
	ErrExamExists = &Error{Kind: KindConflict, Msg: "Exam with this name already exists"}

	ErrNotEnrolled  = &Error{Kind: KindInvalidState, Msg: "User is not enrolled in this exam"}
	ErrNoSubmission = &Error{Kind: KindInvalidState, Msg: "User has not submitted answers for this exam"}
)

// Invalid builds a KindInvalid error.
func Invalid(format string, args ...any) error {
	return &Error{Kind: KindInvalid, Msg: fmt.Sprintf(format, args...)}
}

// DecodeError reports a stored document that does not have the expected shape.
type DecodeError struct {
	Collection string
	Key        string
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s %q: %v", e.Collection, e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// KindOf classifies err. Unknown errors are KindInternal.
func KindOf(err error) Kind {
	var de *DecodeError
	if errors.As(err, &de) {
		return KindDecode
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

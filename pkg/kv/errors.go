package kv

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrIO              = errors.New("i/o error")
)

// Error describes a failed dictionary operation.
type Error struct {
	Op   string // operation, e.g. "add" or "load"
	Kind error  // one of ErrInvalidArgument, ErrNotFound, ErrIO
	Msg  string
	Err  error // underlying cause, may be nil
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

// Is reports whether target is the error's kind.
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Err
}

// InvalidArgument builds an ErrInvalidArgument error.
func InvalidArgument(op, msg string) *Error {
	return &Error{Op: op, Kind: ErrInvalidArgument, Msg: msg}
}

// NotFound builds an ErrNotFound error.
func NotFound(op, msg string) *Error {
	return &Error{Op: op, Kind: ErrNotFound, Msg: msg}
}

// IOError builds an ErrIO error wrapping err.
func IOError(op string, err error) *Error {
	return &Error{Op: op, Kind: ErrIO, Err: err}
}

// Message returns the human-readable part of err without the op prefix,
// falling back to err.Error() for foreign errors.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Msg != "" {
			return e.Msg
		}
		if e.Err != nil {
			return e.Err.Error()
		}
		return e.Kind.Error()
	}
	return err.Error()
}

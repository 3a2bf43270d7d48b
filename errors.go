package fileshell

import (
	"errors"
	"strings"
)

// Error conditions reported by the shell. All of them are recoverable by
// retrying with different input. Match them with [errors.Is].
var (
	ErrSandboxViolation    = errors.New("path escapes the working directory")
	ErrNotFound            = errors.New("no such file or directory")
	ErrAlreadyExists       = errors.New("already exists")
	ErrNotADirectory       = errors.New("not a directory")
	ErrNotAFile            = errors.New("is a directory")
	ErrInUse               = errors.New("directory is in use")
	ErrUnknownCommand      = errors.New("unknown command")
	ErrMalformedInvocation = errors.New("wrong number of arguments")
)

// Error records the operation and argument that failed and why.
// Path is the argument as the user typed it, never the resolved absolute path.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Path != "" {
		b.WriteString(" '")
		b.WriteString(e.Path)
		b.WriteString("'")
	}
	b.WriteString(": ")
	if e.Err == nil {
		b.WriteString("unknown error")
	} else {
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// NewError is shorthand for &Error{Op: op, Path: path, Err: err}.
func NewError(op, path string, err error) *Error {
	return &Error{Op: op, Path: path, Err: err}
}

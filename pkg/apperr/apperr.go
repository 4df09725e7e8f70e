// Package apperr defines the error kinds shared by gamekit's template sync and
// self-update code paths.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can pick a recovery strategy.
type Kind string

const (
	// NotFound: template or manifest missing. Recoverable by fetching or by
	// treating the project as a first install.
	NotFound Kind = "not_found"
	// InvalidInput: malformed names, paths escaping the allowed root, corrupt
	// state files. Always fatal to the requested operation.
	InvalidInput Kind = "invalid_input"
	// Network: registry or archive transport failure.
	Network Kind = "network"
	// Unparsable: a remote payload lacked the expected shape.
	Unparsable Kind = "unparsable"
	// IO: filesystem permission/space issues.
	IO Kind = "io"
)

// Error carries a Kind plus the operation and path that failed.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg = e.Op
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s %s", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, apperr.NotFound) match on the kind alone.
func (e *Error) Is(target error) bool {
	if k, ok := target.(Kind); ok {
		return e.Kind == k
	}
	return false
}

// Error makes a Kind usable directly as an errors.Is target.
func (k Kind) Error() string { return string(k) }

// New builds an *Error.
func New(kind Kind, op, path string, err error) error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// Errorf builds an *Error with a formatted cause.
func Errorf(kind Kind, op string, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or "" when none.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

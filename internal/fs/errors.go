package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// ErrorKind tags the failure reported by the filesystem collaborator.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota
	KindNotADirectory
	KindIo
	KindPermissionDenied
	KindCancelled
	KindInvalidOperation
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindNotADirectory:
		return "NotADirectory"
	case KindIo:
		return "Io"
	case KindPermissionDenied:
		return "PermissionDenied"
	case KindCancelled:
		return "Cancelled"
	case KindInvalidOperation:
		return "InvalidOperation"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is the tagged error union returned across the collaborator boundary.
type Error struct {
	Kind   ErrorKind
	Detail string
}

// NewError builds a tagged error.
func NewError(kind ErrorKind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// Error renders the tag and its detail as a single line.
func (e *Error) Error() string {
	switch e.Kind {
	case KindNotFound:
		return "Path not found: " + e.Detail
	case KindNotADirectory:
		return "Not a directory: " + e.Detail
	case KindIo:
		return "IO error: " + e.Detail
	case KindPermissionDenied:
		return "Permission denied: " + e.Detail
	case KindCancelled:
		return "Operation cancelled"
	case KindInvalidOperation:
		return "Invalid operation: " + e.Detail
	default:
		return unknownError
	}
}

// Is matches any *Error of the same kind, so errors.Is(err, &Error{Kind: KindNotFound}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

const unknownError = "Unknown error"

// Describe renders err for the status line. Tagged errors print their kind and
// detail, cancellation prints the cancelled message, anything else collapses to
// a fixed generic message.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Error()
	}
	if errors.Is(err, context.Canceled) {
		return NewError(KindCancelled, "").Error()
	}
	return unknownError
}

// classify converts an os-level failure into the tagged union.
func classify(err error, path string) error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return NewError(KindCancelled, "")
	case errors.Is(err, os.ErrNotExist):
		return NewError(KindNotFound, path)
	case errors.Is(err, os.ErrPermission):
		return NewError(KindPermissionDenied, path)
	default:
		return NewError(KindIo, err.Error())
	}
}

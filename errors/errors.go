package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates which lifecycle operation the error occurred in
type Phase string

const (
	PhaseOpen     Phase = "open"     // resource acquisition
	PhaseUse      Phase = "use"      // read/write through a handle
	PhaseTransfer Phase = "transfer" // ownership moves
	PhaseRelease  Phase = "release"  // explicit handle close
	PhaseScope    Phase = "scope"    // scope-wide operations
)

// Kind categorizes the error
type Kind string

const (
	// KindUnavailable means the provider's open failed; the error is
	// surfaced to the caller immediately and never retried.
	KindUnavailable Kind = "resource_unavailable"

	// KindUseAfterRelease means an operation was attempted on an empty
	// handle. This is a programming error, not a recoverable condition.
	KindUseAfterRelease Kind = "use_after_release"

	// KindReleaseFailed means the provider's close returned an error.
	KindReleaseFailed Kind = "release_failed"

	// KindScopeClosed means the scope no longer accepts acquisitions.
	KindScopeClosed Kind = "scope_closed"

	// KindUnsupported means the resource does not support the requested
	// capability (e.g. writing to a read-only resource).
	KindUnsupported Kind = "unsupported"

	// KindInvalidInput means the caller passed an argument that does not
	// identify a handle or resource at all, such as a nil destination.
	KindInvalidInput Kind = "invalid_input"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Name   string // resource identifier, when known
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Name != "" {
		b.WriteString(": ")
		b.WriteString(strconv.Quote(e.Name))
	}

	if e.Detail != "" {
		if e.Name != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Two Errors match when their
// Phase and Kind agree, so callers can probe categories with sentinel values:
//
//	errors.Is(err, &Error{Phase: PhaseUse, Kind: KindUseAfterRelease})
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Name sets the resource identifier
func (b *Builder) Name(name string) *Builder {
	b.err.Name = name
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Unavailable creates an acquisition failure error
func Unavailable(name string, cause error) *Error {
	return &Error{
		Phase: PhaseOpen,
		Kind:  KindUnavailable,
		Name:  name,
		Cause: cause,
	}
}

// UseAfterRelease creates an empty-handle misuse error
func UseAfterRelease(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUseAfterRelease,
		Detail: fmt.Sprintf("%s on empty handle", what),
	}
}

// ReleaseFailed creates a close-time failure error
func ReleaseFailed(phase Phase, name string, cause error) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindReleaseFailed,
		Name:  name,
		Cause: cause,
	}
}

// ScopeClosed creates an error for operations on a closed scope
func ScopeClosed(phase Phase) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindScopeClosed,
		Detail: "scope is closed",
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Unsupported creates an unsupported capability error
func Unsupported(name, what string) *Error {
	return &Error{
		Phase:  PhaseUse,
		Kind:   KindUnsupported,
		Name:   name,
		Detail: what,
	}
}

// Package errors provides structured error types for the scoped library.
//
// Errors are categorized by Phase (which lifecycle operation failed) and
// Kind (error category). The Error type carries the resource identifier and
// cause chain when known.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseOpen, errors.KindUnavailable).
//		Name("/var/data/report").
//		Cause(osErr).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Unavailable("/var/data/report", osErr)
//	err := errors.UseAfterRelease(errors.PhaseUse, "write")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors

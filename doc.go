// Package scoped turns manual open/close resource APIs into scoped, move-only
// handles with a guaranteed release on every exit path.
//
// Two-phase APIs (open a handle, remember to close it exactly once) push the
// release obligation onto every caller. This library moves that obligation
// into a Scope: resources acquired through a Scope are released exactly once,
// either when their handle is closed, when ownership is transferred away, or
// when the Scope itself closes.
//
// # Architecture Overview
//
// The library is organized into a small set of packages:
//
//	scoped/       Root package with the Provider and Resource interfaces
//	├── handle/   Scope arena and move-only Handle
//	├── provider/ File, in-memory buffer, and test stub providers
//	└── errors/   Structured error types
//
// # Quick Start
//
// Acquire resources under a scope and let the scope guarantee release:
//
//	scope := handle.NewScope()
//	defer scope.Close()
//
//	h, err := scope.Open(ctx, provider.File{}, "/tmp/report.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	h.Write([]byte("hello"))
//
// The deferred Close releases everything the scope still owns, in reverse
// acquisition order, even when the function unwinds through a panic.
//
// # Ownership
//
// A Handle is move-only. There is no way to duplicate ownership: copying
// would produce two owners obligated to release the same resource once.
// Ownership moves between handles with MoveTo, which empties the source:
//
//	a, _ := scope.Open(ctx, p, "foo")
//	b, _ := scope.Open(ctx, p, "bar")
//	a.MoveTo(b)          // "bar" is released, b now owns "foo"
//	a.Write(data)        // use_after_release error: a is empty
//
// Across every sequence of moves and closes, the underlying resource is
// released exactly once.
//
// # Shared Ownership
//
// Multiple logical owners of one resource is a different pattern
// (reference-counted handles) and is deliberately not provided here.
package scoped

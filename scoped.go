package scoped

import "context"

// Resource is an open resource obtained from a Provider. The only operation
// every resource must support is release; read/write capabilities are
// discovered through the standard io interfaces.
type Resource interface {
	Close() error
}

// Provider is a two-phase resource API: Open acquires, Close on the returned
// Resource releases. The contract providers must honor:
//
//   - a Resource is usable from the moment Open returns until Close is called
//   - Close is called exactly once per successful Open
//   - a failed Open returns a nil Resource and never receives a Close
type Provider interface {
	Open(ctx context.Context, name string) (Resource, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, name string) (Resource, error)

// Open calls f.
func (f ProviderFunc) Open(ctx context.Context, name string) (Resource, error) {
	return f(ctx, name)
}

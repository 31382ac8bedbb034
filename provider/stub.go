package provider

import (
	"context"
	"sync"

	"github.com/wippyai/scoped"
)

// Stub is an in-memory two-phase API that records every open and close.
// It exists so lifecycle invariants ("exactly one close per open") can be
// asserted in tests, both in this module and by users of the library.
type Stub struct {
	// FailOpen maps names to errors their open should fail with.
	FailOpen map[string]error
	// FailClose maps names to errors their close should return. The close
	// is still counted.
	FailClose map[string]error

	mu     sync.Mutex
	opens  map[string]int
	closes map[string]int
}

// NewStub creates an empty stub provider.
func NewStub() *Stub {
	return &Stub{
		opens:  make(map[string]int),
		closes: make(map[string]int),
	}
}

// Open records the attempt. Names listed in FailOpen fail without
// producing a resource.
func (s *Stub) Open(ctx context.Context, name string) (scoped.Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.FailOpen[name]; err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.opens[name]++
	s.mu.Unlock()

	return &stubResource{owner: s, name: name}, nil
}

// Opens returns how many times the named resource was opened successfully.
func (s *Stub) Opens(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opens[name]
}

// Closes returns how many times the named resource was closed.
func (s *Stub) Closes(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes[name]
}

// Live returns the number of resources opened but not yet closed.
func (s *Stub) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	live := 0
	for name, n := range s.opens {
		live += n - s.closes[name]
	}
	return live
}

type stubResource struct {
	owner *Stub
	name  string
}

func (r *stubResource) Close() error {
	r.owner.mu.Lock()
	r.owner.closes[r.name]++
	r.owner.mu.Unlock()
	return r.owner.FailClose[r.name]
}

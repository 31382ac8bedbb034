package provider

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/wippyai/scoped"
)

// Buffer provides named in-memory byte buffers. Contents persist across
// opens: a buffer reopened by name sees what earlier owners wrote. The
// provider and its resources are safe for concurrent use; interleaving of
// concurrent writes to one buffer is unspecified.
type Buffer struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewBuffer creates an empty buffer provider.
func NewBuffer() *Buffer {
	return &Buffer{data: make(map[string][]byte)}
}

// Open returns a resource reading from the start of the named buffer and
// appending on write. Open never fails; unknown names start empty.
func (b *Buffer) Open(ctx context.Context, name string) (scoped.Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &bufferResource{owner: b, name: name}, nil
}

// Bytes returns a copy of the named buffer's current contents.
func (b *Buffer) Bytes(name string) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]byte, len(b.data[name]))
	copy(out, b.data[name])
	return out
}

// bufferResource's own fields are guarded by the owner's mutex, so a
// resource shared between goroutines does not race.
type bufferResource struct {
	owner  *Buffer
	name   string
	off    int
	closed bool
}

func (r *bufferResource) Read(p []byte) (int, error) {
	r.owner.mu.Lock()
	defer r.owner.mu.Unlock()

	if r.closed {
		return 0, os.ErrClosed
	}
	data := r.owner.data[r.name]
	if r.off >= len(data) {
		return 0, io.EOF
	}
	n := copy(p, data[r.off:])
	r.off += n
	return n, nil
}

func (r *bufferResource) Write(p []byte) (int, error) {
	r.owner.mu.Lock()
	defer r.owner.mu.Unlock()

	if r.closed {
		return 0, os.ErrClosed
	}
	r.owner.data[r.name] = append(r.owner.data[r.name], p...)
	return len(p), nil
}

func (r *bufferResource) Close() error {
	r.owner.mu.Lock()
	defer r.owner.mu.Unlock()

	if r.closed {
		return os.ErrClosed
	}
	r.closed = true
	return nil
}

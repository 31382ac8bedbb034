// Package provider contains two-phase resource providers for use with
// scoped handles: OS files, named in-memory buffers, and a recording stub
// for tests.
package provider

import (
	"context"
	"os"

	"github.com/wippyai/scoped"
)

// File opens operating system files. The zero value opens read-only.
type File struct {
	Flag int         // os.O_* flags; zero means os.O_RDONLY
	Perm os.FileMode // mode for created files; zero means 0644
}

// Open opens the named file. The returned *os.File is the resource.
func (p File) Open(ctx context.Context, name string) (scoped.Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	perm := p.Perm
	if perm == 0 {
		perm = 0o644
	}
	return os.OpenFile(name, p.Flag, perm)
}

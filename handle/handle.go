package handle

import (
	"io"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/scoped"
	"github.com/wippyai/scoped/errors"
)

// Handle is a move-only owner of exactly one resource. A handle is either
// owning or empty; the zero value is empty.
//
// There is no way to duplicate ownership. Copying the struct aliases the
// same arena slot, and a slot is released at most once per generation, so
// a stale copy degrades to empty rather than producing a second release —
// even after the slot number has been reused by a later acquisition.
//
// A Handle is NOT safe for concurrent use. Use it from a single goroutine
// or synchronize access externally; the owning Scope may still close the
// underlying resource concurrently, which empties the handle.
type Handle struct {
	scope *Scope
	slot  uint32
	gen   uint32
}

// Owning reports whether the handle currently owns a resource.
func (h *Handle) Owning() bool {
	if h.scope == nil {
		return false
	}
	_, ok := h.scope.lookup(h.slot, h.gen)
	return ok
}

// Name returns the identifier the resource was opened with, or "" when
// the handle is empty.
func (h *Handle) Name() string {
	if h.scope == nil {
		return ""
	}
	e, ok := h.scope.lookup(h.slot, h.gen)
	if !ok {
		return ""
	}
	return e.name
}

// ID returns the acquisition ID, stable across transfers, or "" when empty.
func (h *Handle) ID() string {
	if h.scope == nil {
		return ""
	}
	e, ok := h.scope.lookup(h.slot, h.gen)
	if !ok {
		return ""
	}
	return e.id
}

// Use runs fn against the owned resource. On an empty handle it fails with
// use_after_release and fn is not called.
func (h *Handle) Use(fn func(scoped.Resource) error) error {
	res, _, err := h.resource("use")
	if err != nil {
		return err
	}
	return fn(res)
}

// Read reads from the owned resource. Fails with use_after_release on an
// empty handle and with unsupported when the resource is not an io.Reader.
func (h *Handle) Read(p []byte) (int, error) {
	res, name, err := h.resource("read")
	if err != nil {
		return 0, err
	}
	r, ok := res.(io.Reader)
	if !ok {
		return 0, errors.Unsupported(name, "resource is not readable")
	}
	return r.Read(p)
}

// Write writes to the owned resource. Fails with use_after_release on an
// empty handle and with unsupported when the resource is not an io.Writer.
func (h *Handle) Write(p []byte) (int, error) {
	res, name, err := h.resource("write")
	if err != nil {
		return 0, err
	}
	w, ok := res.(io.Writer)
	if !ok {
		return 0, errors.Unsupported(name, "resource is not writable")
	}
	return w.Write(p)
}

// Close releases the owned resource now and empties the handle. Closing an
// empty handle is a no-op. The underlying resource is closed at most once
// per acquisition no matter how often Close is called.
func (h *Handle) Close() error {
	if h.scope == nil || h.slot == 0 {
		return nil
	}
	slot, gen := h.slot, h.gen
	h.slot, h.gen = 0, 0
	return h.scope.release(errors.PhaseRelease, slot, gen)
}

// MoveTo transfers ownership from h to dst. If dst currently owns a
// resource, that resource is released first. h becomes empty
// unconditionally, whether or not it owned anything. Moving a handle into
// itself is a no-op. dst may belong to a different scope; the resource
// migrates and keeps its acquisition ID.
func (h *Handle) MoveTo(dst *Handle) error {
	if dst == nil {
		return errors.InvalidInput(errors.PhaseTransfer, "nil destination handle")
	}
	if h == dst || (h.scope == dst.scope && h.slot == dst.slot && h.gen == dst.gen) {
		return nil
	}

	// Release whatever dst holds before it adopts h's state.
	var relErr error
	if dst.scope != nil && dst.slot != 0 {
		slot, gen := dst.slot, dst.gen
		dst.slot, dst.gen = 0, 0
		relErr = dst.scope.release(errors.PhaseTransfer, slot, gen)
	}

	if h.scope == nil || h.slot == 0 {
		// Moving an empty handle: dst ends up empty too.
		return relErr
	}

	if dst.scope == nil || dst.scope == h.scope {
		// Same-scope transfer is a slot handoff; the arena entry and its
		// release obligation are untouched. A source that turns out to be
		// stale hands nothing over: dst stays empty.
		e, ok := h.scope.lookup(h.slot, h.gen)
		if !ok {
			h.slot, h.gen = 0, 0
			return relErr
		}
		dst.scope = h.scope
		dst.slot, dst.gen = h.slot, h.gen
		h.slot, h.gen = 0, 0
		h.scope.log.Debug("resource transferred",
			zap.String("name", e.name),
			zap.String("id", e.id))
		h.scope.notify(Event{Type: EventTransferred, Name: e.name, ID: e.id})
		return relErr
	}

	// Cross-scope transfer: migrate the entry between arenas.
	e, ok := h.scope.detach(h.slot, h.gen)
	src := h.scope
	h.slot, h.gen = 0, 0
	if !ok {
		return relErr
	}

	slot, gen, err := dst.scope.adopt(errors.PhaseTransfer, e)
	if err != nil {
		// Destination scope is closed. Ownership cannot be dropped on the
		// floor: release here, exactly once.
		relErr = multierr.Append(relErr, err)
		if closeErr := e.res.Close(); closeErr != nil {
			relErr = multierr.Append(relErr,
				errors.ReleaseFailed(errors.PhaseTransfer, e.name, closeErr))
		}
		src.notify(Event{Type: EventReleased, Name: e.name, ID: e.id})
		return relErr
	}
	dst.slot, dst.gen = slot, gen

	dst.scope.log.Debug("resource transferred",
		zap.String("name", e.name),
		zap.String("id", e.id))
	dst.scope.notify(Event{Type: EventTransferred, Name: e.name, ID: e.id})
	return relErr
}

// resource resolves the owned resource or reports the misuse.
func (h *Handle) resource(op string) (scoped.Resource, string, error) {
	if h.scope == nil || h.slot == 0 {
		return nil, "", errors.UseAfterRelease(errors.PhaseUse, op)
	}
	e, ok := h.scope.lookup(h.slot, h.gen)
	if !ok {
		return nil, "", errors.UseAfterRelease(errors.PhaseUse, op)
	}
	return e.res, e.name, nil
}

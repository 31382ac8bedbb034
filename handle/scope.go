package handle

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/scoped"
	"github.com/wippyai/scoped/errors"
)

// Scope is an arena of acquired resources. Every resource opened through a
// scope is released exactly once: when its handle is closed, when ownership
// is transferred to another scope, or at the latest when the scope itself
// closes.
//
// Scope is safe for concurrent use.
type Scope struct {
	log       *zap.Logger
	entries   []entry
	freeList  []uint32
	order     []uint32
	observers []Observer
	mu        sync.Mutex
	obsMu     sync.RWMutex
	closed    bool
}

// entry is one arena slot. Slot numbers are 1-based; slot 0 is reserved
// and always invalid, so a zero Handle is empty. gen survives slot reuse
// and is bumped on every detach, so a stale slot reference can never
// resolve to a later acquisition that happens to land in the same slot.
type entry struct {
	res   scoped.Resource
	name  string
	id    string
	gen   uint32
	valid bool
}

// Option configures a Scope.
type Option func(*Scope)

// WithLogger sets the scope's logger. Defaults to the package logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scope) { s.log = l }
}

// WithObserver registers an observer at construction time.
func WithObserver(o Observer) Option {
	return func(s *Scope) { s.observers = append(s.observers, o) }
}

// NewScope creates an empty scope.
func NewScope(opts ...Option) *Scope {
	s := &Scope{
		entries:  make([]entry, 0, 16),
		freeList: make([]uint32, 0, 8),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = Logger()
	}
	return s
}

// Open acquires a resource from the provider and returns an owning handle.
// On provider failure no resource is retained and the error carries the
// resource_unavailable kind. The failed attempt never receives a close.
func (s *Scope) Open(ctx context.Context, p scoped.Provider, name string) (*Handle, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, errors.ScopeClosed(errors.PhaseOpen)
	}
	s.mu.Unlock()

	res, err := p.Open(ctx, name)
	if err != nil {
		return nil, errors.Unavailable(name, err)
	}

	e := entry{res: res, name: name, id: uuid.NewString(), valid: true}
	slot, gen, err := s.adopt(errors.PhaseOpen, e)
	if err != nil {
		// The scope closed while the open was in flight. The resource was
		// acquired, so it still gets its one release, here.
		err = multierr.Append(err, res.Close())
		return nil, err
	}

	s.log.Debug("resource opened",
		zap.String("name", name),
		zap.String("id", e.id))
	s.notify(Event{Type: EventOpened, Name: name, ID: e.id})

	return &Handle{scope: s, slot: slot, gen: gen}, nil
}

// Len returns the number of resources the scope currently owns.
func (s *Scope) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, e := range s.entries {
		if e.valid {
			count++
		}
	}
	return count
}

// Each iterates over all owned resources in acquisition order.
func (s *Scope) Each(fn func(name, id string) bool) {
	type item struct {
		name, id string
	}

	s.mu.Lock()
	items := make([]item, 0, len(s.order))
	for _, slot := range s.order {
		e := s.entries[slot-1]
		if e.valid {
			items = append(items, item{e.name, e.id})
		}
	}
	s.mu.Unlock()

	for _, it := range items {
		if !fn(it.name, it.id) {
			break
		}
	}
}

// Subscribe adds an observer for lifecycle events.
func (s *Scope) Subscribe(o Observer) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.observers = append(s.observers, o)
}

// Unsubscribe removes an observer.
func (s *Scope) Unsubscribe(o Observer) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	for i, obs := range s.observers {
		if obs == o {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

// Close releases every resource the scope still owns, in reverse
// acquisition order, and stops accepting new acquisitions. Close is
// idempotent; release errors are aggregated. Deferring Close guarantees
// release on every exit path, including panics.
func (s *Scope) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	type slotRef struct {
		slot, gen uint32
	}
	refs := make([]slotRef, 0, len(s.order))
	for _, slot := range s.order {
		refs = append(refs, slotRef{slot, s.entries[slot-1].gen})
	}
	s.mu.Unlock()

	var err error
	for i := len(refs) - 1; i >= 0; i-- {
		err = multierr.Append(err, s.release(errors.PhaseScope, refs[i].slot, refs[i].gen))
	}
	return err
}

// adopt installs an entry into the arena and returns its slot and
// generation. A reused slot keeps the generation its last detach bumped it
// to, so references to the slot's previous occupant stay dead.
func (s *Scope) adopt(phase errors.Phase, e entry) (uint32, uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, 0, errors.ScopeClosed(phase)
	}

	var slot uint32
	if len(s.freeList) > 0 {
		slot = s.freeList[len(s.freeList)-1]
		s.freeList = s.freeList[:len(s.freeList)-1]
		e.gen = s.entries[slot-1].gen
		s.entries[slot-1] = e
	} else {
		e.gen = 0
		s.entries = append(s.entries, e)
		slot = uint32(len(s.entries))
	}
	s.order = append(s.order, slot)
	return slot, e.gen, nil
}

// lookup returns a copy of the entry at slot, provided gen still matches.
func (s *Scope) lookup(slot, gen uint32) (entry, bool) {
	if slot == 0 {
		return entry{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if int(slot) > len(s.entries) {
		return entry{}, false
	}
	e := s.entries[slot-1]
	if !e.valid || e.gen != gen {
		return entry{}, false
	}
	return e, true
}

// detach removes the entry at slot without closing its resource. The caller
// takes over the release obligation. A slot detaches at most once per
// generation; stale references, including ones whose slot number has been
// reused by a later acquisition, get (entry{}, false).
func (s *Scope) detach(slot, gen uint32) (entry, bool) {
	if slot == 0 {
		return entry{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if int(slot) > len(s.entries) {
		return entry{}, false
	}
	e := &s.entries[slot-1]
	if !e.valid || e.gen != gen {
		return entry{}, false
	}

	out := *e
	*e = entry{gen: e.gen + 1}
	s.freeList = append(s.freeList, slot)
	for i, o := range s.order {
		if o == slot {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return out, true
}

// release detaches the slot and closes its resource. Releasing an already
// emptied slot is a no-op; the detach-at-most-once rule is what makes a
// double release unreachable.
func (s *Scope) release(phase errors.Phase, slot, gen uint32) error {
	e, ok := s.detach(slot, gen)
	if !ok {
		return nil
	}

	err := e.res.Close()
	if err != nil {
		s.log.Warn("resource close failed",
			zap.String("name", e.name),
			zap.String("id", e.id),
			zap.Error(err))
	} else {
		s.log.Debug("resource released",
			zap.String("name", e.name),
			zap.String("id", e.id))
	}
	s.notify(Event{Type: EventReleased, Name: e.name, ID: e.id})

	if err != nil {
		return errors.ReleaseFailed(phase, e.name, err)
	}
	return nil
}

func (s *Scope) notify(e Event) {
	s.obsMu.RLock()
	defer s.obsMu.RUnlock()
	for _, o := range s.observers {
		o.OnHandleEvent(e)
	}
}

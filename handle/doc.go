// Package handle provides scoped, move-only ownership of two-phase
// resources.
//
// # Lifecycle
//
// A Handle is in exactly one of two states:
//
//	owning - it holds a valid resource it is responsible for releasing
//	empty  - no resource; use operations fail with use_after_release
//
// The transitions:
//
//	Open succeeds           -> owning
//	MoveTo (as source)      -> empty, destination becomes owning
//	Close / scope close     -> empty, resource released
//
// Across the whole lifetime, the underlying resource is released exactly
// once, no matter how many transfers occurred.
//
// # Scopes
//
// Handles are acquired under a Scope, which acts as an ownership arena:
//
//	scope := handle.NewScope()
//	defer scope.Close()
//
//	h, err := scope.Open(ctx, prov, "data.bin")
//
// Scope.Close releases everything still owned, in reverse acquisition
// order. Because deferred calls run during panic unwinding, release is
// guaranteed on every exit path, which is the whole point of tying a
// resource to a scope instead of remembering a matching close call.
//
// # Observers
//
// Register observers to track lifecycle events:
//
//	scope.Subscribe(obs) // EventOpened, EventTransferred, EventReleased
//
// Each acquisition carries a unique ID that survives transfers, so one
// resource can be followed across handles in logs and events.
package handle

package handle

// Event types for handle lifecycle notifications.
type EventType uint8

const (
	EventOpened EventType = iota
	EventTransferred
	EventReleased
)

// Event represents a resource lifecycle event. ID identifies one
// acquisition and is stable across ownership transfers.
type Event struct {
	Name string
	ID   string
	Type EventType
}

// Observer receives notifications about resource lifecycle events.
type Observer interface {
	OnHandleEvent(Event)
}

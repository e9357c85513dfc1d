package events

// EventType represents the type of an event in the system.
type EventType string

const (
	// EventTypeAccountCreated is emitted once an account row is committed.
	EventTypeAccountCreated EventType = "Account.Created"
)

// String returns the string representation of the event type.
func (et EventType) String() string {
	return string(et)
}

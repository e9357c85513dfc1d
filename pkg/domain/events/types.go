package events

// Event is implemented by every event published on the bus.
type Event interface {
	Type() string
}

// EventTypes maps an event type to a constructor used when decoding events
// read back from a broker.
var EventTypes = map[string]func() Event{
	EventTypeAccountCreated.String(): func() Event { return &AccountCreated{} },
}

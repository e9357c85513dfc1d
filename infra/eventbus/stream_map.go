package eventbus

import (
	"fmt"
	"strings"

	"github.com/amirasaad/accounts/pkg/domain/events"
)

// groupNameFor returns the Redis consumer group name for the event type.
// Each event type gets its own group so every handler type sees every entry.
func groupNameFor(eventType events.EventType) string {
	return nameFor("group", eventType)
}

// consumerNameFor returns the Redis consumer name for the event type.
func consumerNameFor(eventType events.EventType) string {
	return nameFor("consumer", eventType)
}

// dlqStreamName returns the dead letter stream for stream.
func dlqStreamName(stream string) string {
	return stream + "-DLQ"
}

func nameFor(prefix string, eventType events.EventType) string {
	parts := strings.Split(eventType.String(), ".")
	if len(parts) == 2 {
		return fmt.Sprintf(
			"%s:%s:%s",
			prefix,
			strings.ToLower(parts[0]),
			strings.ToLower(parts[1]))
	}
	return fmt.Sprintf("%s:%s", prefix, strings.ToLower(eventType.String()))
}

func topicNameFor(prefix string, eventType events.EventType) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultTopicPrefix
	}
	return fmt.Sprintf("%s.%s", prefix, strings.ToLower(eventType.String()))
}

func dlqTopicNameFor(prefix string, eventType events.EventType) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultTopicPrefix
	}
	return fmt.Sprintf("%s.dlq.%s", prefix, strings.ToLower(eventType.String()))
}

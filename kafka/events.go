package kafka

import "time"

// AggregatesChangedEvent announces which data sets a committed
// operation touched, so read-side consumers can refresh or invalidate
// what they hold
type AggregatesChangedEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	Operation  string    `json:"operation"`
	Aggregates []string  `json:"aggregates"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeAggregatesChanged = "inventory.aggregates_changed"
)

// Kafka topics
const (
	TopicAggregatesChanged = "inventory-aggregates-changed"
)

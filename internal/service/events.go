package service

import "github.com/google/uuid"

// EventType defines the type of event
type EventType string

const (
	EventNetworkCreated EventType = "network_created"
	EventNetworkUpdated EventType = "network_updated"
	EventAlertRaised    EventType = "alert_raised"
)

// Event represents something that happened to a network's state
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	NetworkID string      `json:"network_id"`
	Payload   interface{} `json:"payload,omitempty"`
}

// NewEvent creates an event with a fresh id
func NewEvent(eventType EventType, networkID string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		NetworkID: networkID,
		Payload:   payload,
	}
}

// EventBus allows publishing and subscribing to events
type EventBus struct {
	subscribers []chan<- Event
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.subscribers = append(eb.subscribers, ch)
}

// Publish sends an event to all subscribers
func (eb *EventBus) Publish(event Event) {
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}

package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventSpotRequested = "spot_requested"
	EventOfferMade     = "offer_made"
	EventOfferAccepted = "offer_accepted"
	EventOfferRejected = "offer_rejected"
	EventSosRaised     = "sos_raised"
)

// SpotEventPayload describes a parking spot transition for event consumers.
type SpotEventPayload struct {
	SpotID    string `json:"spot_id"`
	Owner     string `json:"owner"`
	Region    string `json:"region"`
	Requester string `json:"requester"`
}

// OfferEventPayload describes a service request transition.
type OfferEventPayload struct {
	RequestID   string `json:"request_id"`
	Requester   string `json:"requester"`
	ServiceName string `json:"service_name"`
	Provider    string `json:"provider"`
	Price       int    `json:"price,omitempty"`
}

// SosEventPayload describes a raised SOS alert.
type SosEventPayload struct {
	AlertID   string `json:"alert_id"`
	Requester string `json:"requester"`
	IssueType string `json:"issue_type"`
}

// Event represents a lightweight domain event.
type Event struct {
	ID        int64
	Type      string
	Payload   []byte
	CreatedAt time.Time
	Processed bool
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events. Handlers run
// synchronously on the publishing goroutine, which keeps notification
// fan-out a same-operation side effect of each transition.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}

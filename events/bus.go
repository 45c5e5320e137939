// Package events provides the in-process publish/subscribe channel that
// connects incident writes to realtime delivery.
package events

import (
	"sync"

	"safecity-be/models"
)

// EventType enum
type EventType string

const (
	IncidentCreated       EventType = "incident_created"
	IncidentStatusChanged EventType = "incident_status_changed"
)

// Event carries an incident domain event. Incident holds the response-shaped
// document (reporter already expanded) so subscribers can forward it as-is.
type Event struct {
	Type           EventType
	Incident       interface{}
	Title          string
	Category       models.IncidentCategory
	Status         models.IncidentStatus
	PreviousStatus models.IncidentStatus
}

const subscriberBuffer = 32

// Bus fans out published events to all current subscribers. Publish never
// blocks: a subscriber whose buffer is full misses the event. There is no
// persistence or replay.
type Bus struct {
	mu   sync.RWMutex
	subs []chan Event
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a new subscriber and returns its receive channel.
// Events published before Subscribe returns are not delivered.
func (b *Bus) Subscribe() <-chan Event {
	ch := make(chan Event, subscriberBuffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, ch)
	return ch
}

// Publish delivers ev to every subscriber connected at publish time. A slow
// subscriber drops the event instead of blocking the publisher or the
// remaining subscribers.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// Subscriber buffer full, drop for this subscriber only
		}
	}
}

// Close closes all subscriber channels. Publish must not be called after Close.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}

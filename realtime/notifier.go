package realtime

import (
	"fmt"

	"safecity-be/events"
)

// AttachBus consumes incident events from the bus and broadcasts the matching
// notification to every connected client. Runs until the bus is closed.
// Both notification kinds are delivered globally, matching the public-feed
// behavior; per-room delivery stays available through BroadcastToRoom.
func AttachBus(hub *Hub, bus *events.Bus) {
	ch := bus.Subscribe()
	go func() {
		for ev := range ch {
			n, ok := NotificationFor(ev)
			if !ok {
				continue
			}
			hub.Broadcast(n)
		}
	}()
}

// NotificationFor maps a domain event to its client-facing notification.
func NotificationFor(ev events.Event) (Notification, bool) {
	switch ev.Type {
	case events.IncidentCreated:
		return Notification{
			Event:    "new_incident",
			Message:  fmt.Sprintf("New %s incident reported: %s", ev.Category, ev.Title),
			Incident: ev.Incident,
			Type:     "info",
		}, true
	case events.IncidentStatusChanged:
		return Notification{
			Event:    "incident_updated",
			Message:  fmt.Sprintf("Incident %q status updated to %s", ev.Title, ev.Status),
			Incident: ev.Incident,
			Type:     "warning",
		}, true
	}
	return Notification{}, false
}

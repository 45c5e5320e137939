// Package realtime maintains the registry of live websocket connections and
// their room memberships, and fans incident events out to them.
package realtime

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Notification is the message shape pushed to connected clients.
type Notification struct {
	Event    string      `json:"event"`
	Message  string      `json:"message"`
	Incident interface{} `json:"incident"`
	Type     string      `json:"type"`
}

// Client is the interface for one live connection. It abstracts the underlying
// transport so the hub can be exercised without a real websocket.
type Client interface {
	// GetID returns the unique identifier of this connection.
	GetID() string
	// GetSendChannel returns the channel the hub delivers notifications into.
	GetSendChannel() chan Notification
	// Close releases the connection's send channel. Called by the hub exactly
	// once, when the connection is unregistered.
	Close()
}

// Hub is the process-wide connection registry. It is created at server start,
// injected into whatever publishes to it, and torn down at shutdown.
// All map mutations are serialized by the mutex so a broadcast never races a
// removal.
type Hub struct {
	mu      sync.Mutex
	clients map[Client]bool
	// rooms maps a room key (user id) to the set of member connections.
	rooms map[string]map[Client]bool
	log   *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		clients: make(map[Client]bool),
		rooms:   make(map[string]map[Client]bool),
		log:     log,
	}
}

// Register adds a connection to the registry. Room membership starts empty.
func (h *Hub) Register(c Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = true
	h.log.WithField("client", c.GetID()).Info("client connected")
}

// Unregister removes a connection from the registry and from every room it
// belonged to, and closes it. Calling it again for the same connection is a
// no-op, so the disconnect path and slow-client eviction cannot double-close.
func (h *Hub) Unregister(c Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(c)
}

// remove must be called with the lock held.
func (h *Hub) remove(c Client) {
	if !h.clients[c] {
		return
	}
	delete(h.clients, c)
	for key, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, key)
		}
	}
	c.Close()
	h.log.WithField("client", c.GetID()).Info("client disconnected")
}

// Join adds the connection to the room's member set. Idempotent; joining an
// unregistered connection is ignored.
func (h *Hub) Join(c Client, roomKey string) {
	if roomKey == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.clients[c] {
		return
	}
	members, ok := h.rooms[roomKey]
	if !ok {
		members = make(map[Client]bool)
		h.rooms[roomKey] = members
	}
	members[c] = true
	h.log.WithFields(logrus.Fields{"client": c.GetID(), "room": roomKey}).Info("client joined room")
}

// Broadcast delivers a notification to every connected client. Delivery is
// best-effort: a client whose send buffer is full is dropped from the registry
// rather than blocking the caller.
func (h *Hub) Broadcast(n Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.deliver(c, n)
	}
}

// BroadcastToRoom delivers a notification to the members of one room.
// Unused by the two incident notification kinds, which are global, but kept as
// a supported primitive for narrowing delivery later.
func (h *Hub) BroadcastToRoom(roomKey string, n Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.rooms[roomKey] {
		h.deliver(c, n)
	}
}

// deliver must be called with the lock held.
func (h *Hub) deliver(c Client, n Notification) {
	select {
	case c.GetSendChannel() <- n:
	default:
		h.log.WithField("client", c.GetID()).Warn("send buffer full, dropping client")
		h.remove(c)
	}
}

// ClientCount returns the number of live connections.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// RoomSize returns the number of members in a room.
func (h *Hub) RoomSize(roomKey string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[roomKey])
}

// Shutdown unregisters every connection.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.remove(c)
	}
}

package realtime

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub() *Hub {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewHub(log)
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := newTestHub()
	client := newMockClient(1)

	hub.Register(client)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Unregister(client)
	assert.Equal(t, 0, hub.ClientCount())
	assert.Equal(t, 1, client.closed)
}

func TestHub_UnregisterTwiceClosesOnce(t *testing.T) {
	hub := newTestHub()
	client := newMockClient(1)

	hub.Register(client)
	hub.Join(client, "u1")

	hub.Unregister(client)
	hub.Unregister(client)

	assert.Equal(t, 1, client.closed)
	assert.Equal(t, 0, hub.RoomSize("u1"))
}

func TestHub_JoinIsIdempotent(t *testing.T) {
	hub := newTestHub()
	client := newMockClient(1)
	hub.Register(client)

	hub.Join(client, "u1")
	hub.Join(client, "u1")

	assert.Equal(t, 1, hub.RoomSize("u1"))
}

func TestHub_JoinUnregisteredClientIgnored(t *testing.T) {
	hub := newTestHub()
	client := newMockClient(1)

	hub.Join(client, "u1")

	assert.Equal(t, 0, hub.RoomSize("u1"))
}

func TestHub_DisconnectPurgesAllRooms(t *testing.T) {
	hub := newTestHub()
	client := newMockClient(1)
	hub.Register(client)
	hub.Join(client, "u1")
	hub.Join(client, "u2")

	hub.Unregister(client)

	assert.Equal(t, 0, hub.RoomSize("u1"))
	assert.Equal(t, 0, hub.RoomSize("u2"))

	// Next broadcast finds nobody; no delivery attempt, no panic
	hub.Broadcast(Notification{Event: "new_incident"})
	hub.BroadcastToRoom("u1", Notification{Event: "new_incident"})
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub := newTestHub()
	a := newMockClient(1)
	b := newMockClient(1)
	hub.Register(a)
	hub.Register(b)
	// Room membership is irrelevant to global broadcast
	hub.Join(a, "u1")

	hub.Broadcast(Notification{Event: "new_incident", Message: "New Theft incident reported: Stolen bike", Type: "info"})

	for _, c := range []*mockClient{a, b} {
		require.Len(t, c.send, 1)
		n := <-c.send
		assert.Equal(t, "new_incident", n.Event)
		assert.Equal(t, "info", n.Type)
	}
}

func TestHub_BroadcastToRoomOnlyReachesMembers(t *testing.T) {
	hub := newTestHub()
	member := newMockClient(1)
	outsider := newMockClient(1)
	hub.Register(member)
	hub.Register(outsider)
	hub.Join(member, "u1")

	hub.BroadcastToRoom("u1", Notification{Event: "incident_updated", Type: "warning"})

	require.Len(t, member.send, 1)
	assert.Len(t, outsider.send, 0)
}

func TestHub_SlowClientIsEvicted(t *testing.T) {
	hub := newTestHub()
	slow := newMockClient(1)
	healthy := newMockClient(2)
	hub.Register(slow)
	hub.Register(healthy)
	hub.Join(slow, "u1")

	// First broadcast fills the slow client's buffer; the second finds it
	// full and evicts it without blocking
	hub.Broadcast(Notification{Event: "new_incident"})
	hub.Broadcast(Notification{Event: "new_incident"})

	assert.Equal(t, 1, hub.ClientCount())
	assert.Equal(t, 0, hub.RoomSize("u1"))
	assert.Equal(t, 1, slow.closed)
	assert.Len(t, healthy.send, 2)
}

func TestHub_Shutdown(t *testing.T) {
	hub := newTestHub()
	a := newMockClient(1)
	b := newMockClient(1)
	hub.Register(a)
	hub.Register(b)
	hub.Join(a, "u1")

	hub.Shutdown()

	assert.Equal(t, 0, hub.ClientCount())
	assert.Equal(t, 1, a.closed)
	assert.Equal(t, 1, b.closed)
}

package realtime

import "github.com/google/uuid"

// mockClient stands in for a websocket connection in hub tests.
type mockClient struct {
	id     string
	send   chan Notification
	closed int
}

func newMockClient(buffer int) *mockClient {
	return &mockClient{
		id:   uuid.NewString(),
		send: make(chan Notification, buffer),
	}
}

func (c *mockClient) GetID() string                     { return c.id }
func (c *mockClient) GetSendChannel() chan Notification { return c.send }

func (c *mockClient) Close() {
	c.closed++
	close(c.send)
}

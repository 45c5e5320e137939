package realtime

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

// clientMessage is what a connected browser sends us. The only recognized
// event is join_room, carrying the user's id as the room key.
type clientMessage struct {
	Event  string `json:"event"`
	UserID string `json:"userId"`
}

// wsClient implements Client over a gorilla websocket connection.
type wsClient struct {
	id   string
	conn *websocket.Conn
	hub  *Hub
	send chan Notification
	log  *logrus.Logger
}

func newWSClient(hub *Hub, conn *websocket.Conn, log *logrus.Logger) *wsClient {
	return &wsClient{
		id:   uuid.NewString(),
		conn: conn,
		hub:  hub,
		send: make(chan Notification, sendBuffer),
		log:  log,
	}
}

func (c *wsClient) GetID() string                     { return c.id }
func (c *wsClient) GetSendChannel() chan Notification { return c.send }

// Close closes the send channel, which stops writePump.
func (c *wsClient) Close() {
	close(c.send)
}

// Run starts the read and write pumps.
func (c *wsClient) Run() {
	go c.writePump()
	go c.readPump()
}

func (c *wsClient) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithField("client", c.id).Warnf("read error: %v", err)
			}
			break
		}

		var msg clientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.log.WithField("client", c.id).Warnf("invalid client message: %v", err)
			continue
		}

		if msg.Event == "join_room" {
			c.hub.Join(c, msg.UserID)
		}
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case notification, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(notification); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package realtime

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Control frames are small; anything larger is a broken client
	maxMessageSize = 4096

	// Outbound buffer per connection; overflow drops frames
	sendBufferSize = 64
)

// Client is one websocket connection owned by the hub.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID uuid.UUID
	email  string

	// boards the client has joined; touched only by the hub run loop
	boards map[uuid.UUID]bool
}

// controlMessage is what clients send us: join/leave requests keyed by
// board id.
type controlMessage struct {
	Type    string    `json:"type"`
	BoardID uuid.UUID `json:"board_id"`
}

const (
	controlJoinBoard  = "join_board"
	controlLeaveBoard = "leave_board"
)

// trySend queues a frame without ever blocking; a slow consumer loses
// the frame rather than stalling the hub.
func (c *Client) trySend(payload []byte) {
	select {
	case c.send <- payload:
	default:
	}
}

// readPump pumps control messages from the connection to the hub.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregisterClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var msg controlMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Printf("Error unmarshalling control message: %v", err)
			continue
		}

		switch msg.Type {
		case controlJoinBoard:
			ok, err := c.hub.access.IsMember(context.Background(), msg.BoardID, c.userID)
			if err != nil {
				log.Printf("Membership check failed for board %s: %v", msg.BoardID, err)
				continue
			}
			if !ok {
				continue
			}
			c.hub.joinBoard(c, msg.BoardID)
		case controlLeaveBoard:
			c.hub.leaveBoard(c, msg.BoardID)
		}
	}
}

// writePump pumps events from the hub to the connection and keeps the
// connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
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

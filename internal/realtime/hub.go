package realtime

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
)

// AccessChecker gates room joins; only board members may subscribe to a
// board's events. Satisfied by repository.BoardMemberRepository.
type AccessChecker interface {
	IsMember(ctx context.Context, boardID, userID uuid.UUID) (bool, error)
}

type subscription struct {
	client  *Client
	boardID uuid.UUID
}

type message struct {
	boardID uuid.UUID
	payload []byte
}

// Hub owns the connection registry and all per-board rooms. All room
// state is confined to the Run loop; the rest of the process talks to it
// through channels. It is constructed by the server and stopped on
// shutdown.
type Hub struct {
	access AccessChecker

	register   chan *Client
	unregister chan *Client
	join       chan subscription
	leave      chan subscription
	broadcast  chan message

	clients map[*Client]bool
	rooms   map[uuid.UUID]map[*Client]bool

	done chan struct{}
}

func NewHub(access AccessChecker) *Hub {
	return &Hub{
		access:     access,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		join:       make(chan subscription),
		leave:      make(chan subscription),
		broadcast:  make(chan message, 256),
		clients:    make(map[*Client]bool),
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		done:       make(chan struct{}),
	}
}

// Broadcast publishes an event to every connection currently joined to
// the board's room, including the acting user's own other sessions.
// Delivery is best-effort: it never blocks the caller and a full relay
// drops the frame.
func (h *Hub) Broadcast(boardID uuid.UUID, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshalling event %s: %v", event.Type, err)
		return
	}

	select {
	case h.broadcast <- message{boardID: boardID, payload: payload}:
	case <-h.done:
	default:
		log.Printf("Relay full, dropping %s for board %s", event.Type, boardID)
	}
}

// Run processes registry changes and broadcasts until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Printf("Client connected: %s", client.email)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; !ok {
				continue
			}
			delete(h.clients, client)
			for boardID := range client.boards {
				h.removeFromRoom(client, boardID)
			}
			close(client.send)
			log.Printf("Client disconnected: %s", client.email)

		case sub := <-h.join:
			room := h.rooms[sub.boardID]
			if room == nil {
				room = make(map[*Client]bool)
				h.rooms[sub.boardID] = room
			}
			room[sub.client] = true
			sub.client.boards[sub.boardID] = true
			h.emit(sub.boardID, Event{
				Type: EventUserOnline,
				Data: map[string]string{"user_id": sub.client.userID.String(), "email": sub.client.email},
			}, sub.client)

		case sub := <-h.leave:
			h.removeFromRoom(sub.client, sub.boardID)
			delete(sub.client.boards, sub.boardID)

		case msg := <-h.broadcast:
			for client := range h.rooms[msg.boardID] {
				client.trySend(msg.payload)
			}

		case <-h.done:
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		}
	}
}

// Stop shuts the hub down and closes every connected client's send
// channel, which ends their write pumps.
func (h *Hub) Stop() {
	close(h.done)
}

// The pump goroutines outlive the run loop during shutdown, so every
// send into the registry channels races Stop. These helpers drop the
// request once the hub is stopped instead of blocking forever.

func (h *Hub) registerClient(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) joinBoard(c *Client, boardID uuid.UUID) {
	select {
	case h.join <- subscription{client: c, boardID: boardID}:
	case <-h.done:
	}
}

func (h *Hub) leaveBoard(c *Client, boardID uuid.UUID) {
	select {
	case h.leave <- subscription{client: c, boardID: boardID}:
	case <-h.done:
	}
}

func (h *Hub) removeFromRoom(client *Client, boardID uuid.UUID) {
	room := h.rooms[boardID]
	if room == nil {
		return
	}
	if !room[client] {
		return
	}
	delete(room, client)
	if len(room) == 0 {
		delete(h.rooms, boardID)
	}
	h.emit(boardID, Event{
		Type: EventUserOffline,
		Data: map[string]string{"user_id": client.userID.String()},
	}, client)
}

// emit sends an event to a room from inside the run loop, optionally
// excluding one client (presence events skip their subject).
func (h *Hub) emit(boardID uuid.UUID, event Event, exclude *Client) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshalling event %s: %v", event.Type, err)
		return
	}
	for client := range h.rooms[boardID] {
		if client == exclude {
			continue
		}
		client.trySend(payload)
	}
}

package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type allowAllAccess struct{}

func (allowAllAccess) IsMember(ctx context.Context, boardID, userID uuid.UUID) (bool, error) {
	return true, nil
}

func newTestClient(hub *Hub, email string) *Client {
	return &Client{
		hub:    hub,
		send:   make(chan []byte, 8),
		userID: uuid.New(),
		email:  email,
		boards: make(map[uuid.UUID]bool),
	}
}

func recvEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case payload := <-c.send:
		var ev Event
		require.NoError(t, json.Unmarshal(payload, &ev))
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func assertNoEvent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case payload := <-c.send:
		t.Fatalf("unexpected event: %s", payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubBroadcastReachesRoomMembers(t *testing.T) {
	// Arrange
	hub := NewHub(allowAllAccess{})
	go hub.Run()
	defer hub.Stop()

	boardA := uuid.New()
	boardB := uuid.New()

	alice := newTestClient(hub, "alice@example.com")
	bob := newTestClient(hub, "bob@example.com")
	carol := newTestClient(hub, "carol@example.com")

	hub.register <- alice
	hub.register <- bob
	hub.register <- carol

	hub.join <- subscription{client: alice, boardID: boardA}
	hub.join <- subscription{client: bob, boardID: boardA}
	hub.join <- subscription{client: carol, boardID: boardB}

	// Alice sees Bob come online
	online := recvEvent(t, alice)
	assert.Equal(t, EventUserOnline, online.Type)

	// Act
	hub.Broadcast(boardA, Event{Type: EventTaskCreated, Data: map[string]string{"title": "Fix bug"}})

	// Assert
	got := recvEvent(t, alice)
	assert.Equal(t, EventTaskCreated, got.Type)

	got = recvEvent(t, bob)
	assert.Equal(t, EventTaskCreated, got.Type)

	assertNoEvent(t, carol)
}

func TestHubPresenceEvents(t *testing.T) {
	// Arrange
	hub := NewHub(allowAllAccess{})
	go hub.Run()
	defer hub.Stop()

	board := uuid.New()
	alice := newTestClient(hub, "alice@example.com")
	bob := newTestClient(hub, "bob@example.com")

	hub.register <- alice
	hub.register <- bob
	hub.join <- subscription{client: alice, boardID: board}

	// Act: Bob joins, then leaves
	hub.join <- subscription{client: bob, boardID: board}

	// Assert: Alice is told Bob is online; Bob gets nothing about himself
	online := recvEvent(t, alice)
	assert.Equal(t, EventUserOnline, online.Type)
	data, ok := online.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, bob.userID.String(), data["user_id"])
	assert.Equal(t, "bob@example.com", data["email"])
	assertNoEvent(t, bob)

	hub.leave <- subscription{client: bob, boardID: board}

	offline := recvEvent(t, alice)
	assert.Equal(t, EventUserOffline, offline.Type)
}

func TestHubUnregisterLeavesRoomsAndClosesSend(t *testing.T) {
	// Arrange
	hub := NewHub(allowAllAccess{})
	go hub.Run()
	defer hub.Stop()

	board := uuid.New()
	alice := newTestClient(hub, "alice@example.com")
	bob := newTestClient(hub, "bob@example.com")

	hub.register <- alice
	hub.register <- bob
	hub.join <- subscription{client: alice, boardID: board}
	hub.join <- subscription{client: bob, boardID: board}
	recvEvent(t, alice) // Bob's user_online

	// Act
	hub.unregister <- bob

	// Assert: Alice sees Bob go offline, Bob's channel is closed
	offline := recvEvent(t, alice)
	assert.Equal(t, EventUserOffline, offline.Type)

	select {
	case _, open := <-bob.send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("expected send channel to be closed")
	}

	// Broadcasts no longer reach Bob
	hub.Broadcast(board, Event{Type: EventListCreated})
	got := recvEvent(t, alice)
	assert.Equal(t, EventListCreated, got.Type)
}

func TestHubSendsDoNotBlockAfterStop(t *testing.T) {
	// Arrange: a stopped hub whose run loop has already returned
	hub := NewHub(allowAllAccess{})
	board := uuid.New()
	alice := newTestClient(hub, "alice@example.com")
	hub.Stop()

	// Act: every registry entry point a lingering pump could still hit
	finished := make(chan struct{})
	go func() {
		assert.False(t, hub.registerClient(alice))
		hub.joinBoard(alice, board)
		hub.leaveBoard(alice, board)
		hub.unregisterClient(alice)
		close(finished)
	}()

	// Assert
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("hub send blocked after Stop")
	}
}

package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayplan/wayplan-backend/models"
)

func testClient(hub *Hub, tripID, userID string) *Client {
	return newClient(hub, nil, nil, tripID, &models.User{ID: userID})
}

func receiveEvent(t *testing.T, c *Client) *Event {
	t.Helper()
	select {
	case data := <-c.send:
		var event Event
		require.NoError(t, json.Unmarshal(data, &event))
		return &event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestHubBroadcastsToTripRoomOnly(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	alice := testClient(hub, "trip-1", "alice")
	bob := testClient(hub, "trip-1", "bob")
	carol := testClient(hub, "trip-2", "carol")
	hub.register <- alice
	hub.register <- bob
	hub.register <- carol

	msg := &models.ChatMessage{ID: "m1", TripID: "trip-1", Content: "hello"}
	hub.Broadcast("trip-1", msg)

	for _, c := range []*Client{alice, bob} {
		event := receiveEvent(t, c)
		assert.Equal(t, "message", event.Type)
		require.NotNil(t, event.Message)
		assert.Equal(t, "m1", event.Message.ID)
	}

	select {
	case <-carol.send:
		t.Fatal("client outside the trip room received the message")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := testClient(hub, "trip-1", "alice")
	hub.register <- client
	hub.unregister <- client

	// The send channel is closed on unregister.
	select {
	case _, ok := <-client.send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}

	// Broadcasting to an empty room is a no-op, not a panic.
	hub.Broadcast("trip-1", &models.ChatMessage{ID: "m2", TripID: "trip-1"})
	time.Sleep(20 * time.Millisecond)
}

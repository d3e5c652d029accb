package realtime

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/wayplan/wayplan-backend/models"
)

// Hub fans chat messages out to every connected member of a trip. Each trip
// is a room; a client belongs to exactly one room, fixed at connect time.
type Hub struct {
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan outbound
	mutex      sync.RWMutex
}

// Event is the envelope written to clients.
type Event struct {
	Type    string              `json:"type"`
	Message *models.ChatMessage `json:"message,omitempty"`
	Error   string              `json:"error,omitempty"`
}

type outbound struct {
	tripID string
	data   []byte
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan outbound, 64),
	}
}

// Run processes register/unregister/broadcast events until the process
// exits. Call it once, in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case out := <-h.broadcast:
			h.sendToRoom(out.tripID, out.data)
		}
	}
}

// Broadcast delivers a persisted chat message to every connection in the
// message's trip room. It implements services.Broadcaster.
func (h *Hub) Broadcast(tripID string, message *models.ChatMessage) {
	data, err := json.Marshal(Event{Type: "message", Message: message})
	if err != nil {
		logrus.WithError(err).Error("failed to marshal chat event")
		return
	}

	select {
	case h.broadcast <- outbound{tripID: tripID, data: data}:
	default:
		// Hub is saturated; drop rather than block the sender. Clients
		// recover history over HTTP.
		logrus.WithField("trip_id", tripID).Warn("broadcast queue full, dropping event")
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.rooms[client.tripID] == nil {
		h.rooms[client.tripID] = make(map[*Client]bool)
	}
	h.rooms[client.tripID][client] = true

	logrus.WithFields(logrus.Fields{
		"trip_id": client.tripID,
		"user_id": client.user.ID,
	}).Debug("websocket client connected")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	room, ok := h.rooms[client.tripID]
	if !ok {
		return
	}
	if _, exists := room[client]; !exists {
		return
	}

	delete(room, client)
	close(client.send)
	if len(room) == 0 {
		delete(h.rooms, client.tripID)
	}

	logrus.WithFields(logrus.Fields{
		"trip_id": client.tripID,
		"user_id": client.user.ID,
	}).Debug("websocket client disconnected")
}

func (h *Hub) sendToRoom(tripID string, data []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	room, ok := h.rooms[tripID]
	if !ok {
		return
	}

	for client := range room {
		select {
		case client.send <- data:
		default:
			// Slow consumer; disconnect it instead of backing up the room.
			delete(room, client)
			close(client.send)
		}
	}
	if len(room) == 0 {
		delete(h.rooms, tripID)
	}
}

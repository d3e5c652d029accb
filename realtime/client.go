package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/wayplan/wayplan-backend/models"
	"github.com/wayplan/wayplan-backend/utils"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
)

// Client is one websocket connection, bound to a trip room and an
// authenticated user for its whole lifetime.
type Client struct {
	hub    *Hub
	chat   ChatSender
	conn   *websocket.Conn
	send   chan []byte
	tripID string
	user   *models.User
}

// ChatSender persists inbound frames. Satisfied by services.ChatService.
// The bool reports whether a new row was created; false means a client id
// replay that was answered from the stored message without a broadcast.
type ChatSender interface {
	SendFromMember(ctx context.Context, tripID string, sender *models.User, req *models.SendMessageRequest) (*models.ChatMessage, bool, error)
}

// inboundFrame is what clients send over the socket.
type inboundFrame struct {
	Type              string  `json:"type"`
	Content           string  `json:"content"`
	EncryptedContent  string  `json:"encrypted_content"`
	EncryptionVersion *int    `json:"encryption_version"`
	ClientID          *string `json:"client_id"`
}

func newClient(hub *Hub, chat ChatSender, conn *websocket.Conn, tripID string, user *models.User) *Client {
	return &Client{
		hub:    hub,
		chat:   chat,
		conn:   conn,
		send:   make(chan []byte, 64),
		tripID: tripID,
		user:   user,
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
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
				logrus.WithError(err).Debug("websocket read failed")
			}
			break
		}
		c.handleFrame(raw)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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

func (c *Client) handleFrame(raw []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		c.sendError("invalid frame")
		return
	}
	if frame.Type != "" && frame.Type != "message" {
		c.sendError("unsupported frame type: " + frame.Type)
		return
	}

	req := &models.SendMessageRequest{
		Content:           frame.Content,
		EncryptedContent:  frame.EncryptedContent,
		EncryptionVersion: frame.EncryptionVersion,
		ClientID:          frame.ClientID,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Persist-then-broadcast: the hub delivery happens inside the chat
	// service once the row is durable, including to this client.
	msg, created, err := c.chat.SendFromMember(ctx, c.tripID, c.user, req)
	if err != nil {
		c.sendError(errorMessage(err))
		return
	}
	if !created {
		// Replayed client id: no broadcast happened, so echo the stored
		// message back to the retrying sender.
		c.sendEvent(Event{Type: "message", Message: msg})
	}
}

func (c *Client) sendError(msg string) {
	c.sendEvent(Event{Type: "error", Error: msg})
}

func (c *Client) sendEvent(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func errorMessage(err error) string {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "failed to send message"
}

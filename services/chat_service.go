package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/wayplan/wayplan-backend/models"
	"github.com/wayplan/wayplan-backend/utils"
)

// ChatStore is the persistence surface the chat service needs.
type ChatStore interface {
	CreateMessage(ctx context.Context, msg *models.ChatMessage) (*models.ChatMessage, bool, error)
	FindByClientID(ctx context.Context, tripID, senderID, clientID string) (*models.ChatMessage, error)
	ListBefore(ctx context.Context, tripID string, before *time.Time, limit int) ([]*models.ChatMessage, error)
}

// Broadcaster fans a persisted message out to the trip's live subscribers.
// Delivery is best-effort; the stored row is authoritative.
type Broadcaster interface {
	Broadcast(tripID string, message *models.ChatMessage)
}

// ChatService handles message persistence, idempotent sends and fan-out.
type ChatService struct {
	messages  ChatStore
	broadcast Broadcaster
	guard     *AccessGuard
}

// NewChatService creates a new ChatService
func NewChatService(messages ChatStore, members MembershipStore, broadcast Broadcaster) *ChatService {
	return &ChatService{messages: messages, broadcast: broadcast, guard: NewAccessGuard(members)}
}

// Send validates, persists and broadcasts a message. A repeated client id
// within (trip, sender) returns the stored message unchanged and does not
// broadcast again.
func (s *ChatService) Send(ctx context.Context, tripID string, sender *models.User, req *models.SendMessageRequest) (*models.ChatMessage, error) {
	if _, _, err := s.guard.Require(ctx, tripID, sender.ID, ActionEditContent); err != nil {
		return nil, err
	}
	msg, _, err := s.persist(ctx, tripID, sender, req)
	return msg, err
}

// SendFromMember persists a message for an already-admitted realtime
// subscriber; the websocket handshake has done the membership check. The
// second return reports whether a new row was created; a client id replay
// returns the stored message with created=false so the caller can echo it
// back to the sender (the room broadcast only happens for new rows).
func (s *ChatService) SendFromMember(ctx context.Context, tripID string, sender *models.User, req *models.SendMessageRequest) (*models.ChatMessage, bool, error) {
	return s.persist(ctx, tripID, sender, req)
}

func (s *ChatService) persist(ctx context.Context, tripID string, sender *models.User, req *models.SendMessageRequest) (*models.ChatMessage, bool, error) {
	content := strings.TrimSpace(req.Content)
	encrypted := strings.TrimSpace(req.EncryptedContent)
	if content == "" && encrypted == "" {
		return nil, false, utils.NewValidationError("content is required")
	}

	var encryptedContent *string
	var encryptionVersion *int
	if encrypted != "" {
		encryptedContent = &encrypted
		if req.EncryptionVersion != nil {
			encryptionVersion = req.EncryptionVersion
		} else {
			v := 1
			encryptionVersion = &v
		}
	} else if req.EncryptionVersion != nil {
		return nil, false, utils.NewValidationError("encryption_version requires encrypted_content")
	}

	var clientID *string
	if req.ClientID != nil && strings.TrimSpace(*req.ClientID) != "" {
		trimmed := strings.TrimSpace(*req.ClientID)
		clientID = &trimmed

		existing, err := s.messages.FindByClientID(ctx, tripID, sender.ID, trimmed)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			return existing, false, nil
		}
	}

	msg := &models.ChatMessage{
		ID:                uuid.NewString(),
		TripID:            tripID,
		Sender:            sender.Public(),
		Content:           content,
		EncryptedContent:  encryptedContent,
		EncryptionVersion: encryptionVersion,
		ClientID:          clientID,
		CreatedAt:         time.Now().UTC(),
	}

	stored, created, err := s.messages.CreateMessage(ctx, msg)
	if err != nil {
		return nil, false, err
	}
	if created {
		s.deliver(stored)
	}
	return stored, created, nil
}

// deliver fans out to live subscribers. Failures must never fail the send;
// they are logged and swallowed.
func (s *ChatService) deliver(msg *models.ChatMessage) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("trip_id", msg.TripID).Warnf("chat broadcast panicked: %v", r)
		}
	}()
	s.broadcast.Broadcast(msg.TripID, msg)
}

// History returns up to limit messages older than before (exclusive) in
// chronological order. Default page 50, capped at 200.
func (s *ChatService) History(ctx context.Context, tripID, userID string, before *time.Time, limit int) ([]*models.ChatMessage, error) {
	if _, _, err := s.guard.Require(ctx, tripID, userID, ActionRead); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = utils.DefaultChatPageSize
	}
	if limit > utils.MaxChatPageSize {
		limit = utils.MaxChatPageSize
	}

	page, err := s.messages.ListBefore(ctx, tripID, before, limit)
	if err != nil {
		return nil, err
	}

	// Query is newest-first; hand the page back chronologically.
	for i, j := 0, len(page)-1; i < j; i, j = i+1, j-1 {
		page[i], page[j] = page[j], page[i]
	}
	return page, nil
}

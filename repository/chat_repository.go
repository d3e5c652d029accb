// repository/chat_repository.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/wayplan/wayplan-backend/models"
)

// ChatRepository handles database operations for chat messages
type ChatRepository struct {
	DB *sql.DB
}

// NewChatRepository creates a new ChatRepository
func NewChatRepository() *ChatRepository {
	return &ChatRepository{
		DB: GetDB(),
	}
}

const messageSelect = `SELECT m.id, m.trip_id, u.id, u.email, u.name, m.content,
         m.encrypted_content, m.encryption_version, m.client_id, m.created_at
         FROM chat_messages m
         JOIN users u ON u.id = m.sender_id`

// CreateMessage inserts a message. When a client id collides with an existing
// row for (trip, sender) the partial unique index rejects the insert and the
// stored row is returned instead, making retries idempotent without a
// check-then-insert race.
func (r *ChatRepository) CreateMessage(ctx context.Context, msg *models.ChatMessage) (*models.ChatMessage, bool, error) {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO chat_messages
         (id, trip_id, sender_id, content, encrypted_content, encryption_version, client_id, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		msg.ID, msg.TripID, msg.Sender.ID, msg.Content,
		msg.EncryptedContent, msg.EncryptionVersion, msg.ClientID, msg.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) && msg.ClientID != nil {
			existing, lookupErr := r.FindByClientID(ctx, msg.TripID, msg.Sender.ID, *msg.ClientID)
			if lookupErr != nil {
				return nil, false, lookupErr
			}
			if existing != nil {
				return existing, false, nil
			}
		}
		return nil, false, fmt.Errorf("failed to insert chat message: %v", err)
	}

	stored, err := r.getByID(ctx, msg.ID)
	if err != nil {
		return nil, false, err
	}
	return stored, true, nil
}

// FindByClientID retrieves the message previously created with the same
// client id by the same sender in the same trip, nil when absent.
func (r *ChatRepository) FindByClientID(ctx context.Context, tripID, senderID, clientID string) (*models.ChatMessage, error) {
	return r.scanMessage(r.DB.QueryRowContext(ctx,
		messageSelect+` WHERE m.trip_id = $1 AND m.sender_id = $2 AND m.client_id = $3`,
		tripID, senderID, clientID,
	))
}

// ListBefore retrieves up to limit messages older than before (exclusive),
// newest first. Callers reverse the page into chronological order.
func (r *ChatRepository) ListBefore(ctx context.Context, tripID string, before *time.Time, limit int) ([]*models.ChatMessage, error) {
	query := messageSelect + ` WHERE m.trip_id = $1`
	args := []interface{}{tripID}
	if before != nil {
		query += ` AND m.created_at < $2`
		args = append(args, *before)
	}
	query += fmt.Sprintf(` ORDER BY m.created_at DESC, m.id DESC LIMIT %d`, limit)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %v", err)
	}
	defer rows.Close()

	messages := []*models.ChatMessage{}
	for rows.Next() {
		var msg models.ChatMessage
		if err := rows.Scan(&msg.ID, &msg.TripID, &msg.Sender.ID, &msg.Sender.Email, &msg.Sender.Name,
			&msg.Content, &msg.EncryptedContent, &msg.EncryptionVersion, &msg.ClientID, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %v", err)
		}
		messages = append(messages, &msg)
	}
	return messages, rows.Err()
}

func (r *ChatRepository) getByID(ctx context.Context, id string) (*models.ChatMessage, error) {
	return r.scanMessage(r.DB.QueryRowContext(ctx, messageSelect+` WHERE m.id = $1`, id))
}

func (r *ChatRepository) scanMessage(row *sql.Row) (*models.ChatMessage, error) {
	var msg models.ChatMessage
	err := row.Scan(&msg.ID, &msg.TripID, &msg.Sender.ID, &msg.Sender.Email, &msg.Sender.Name,
		&msg.Content, &msg.EncryptedContent, &msg.EncryptionVersion, &msg.ClientID, &msg.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chat message: %v", err)
	}
	return &msg, nil
}

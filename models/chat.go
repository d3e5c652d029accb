package models

import "time"

// ChatMessage is an immutable trip-scoped message. It carries either plain
// content or an encrypted payload with a version. ClientID, when supplied by
// the sender, makes creation idempotent within (trip, sender).
type ChatMessage struct {
	ID                string     `json:"id"`
	TripID            string     `json:"trip_id"`
	Sender            PublicUser `json:"sender"`
	Content           string     `json:"content"`
	EncryptedContent  *string    `json:"encrypted_content"`
	EncryptionVersion *int       `json:"encryption_version"`
	ClientID          *string    `json:"client_id"`
	CreatedAt         time.Time  `json:"created_at"`
}

// SendMessageRequest request model
type SendMessageRequest struct {
	Content           string  `json:"content"`
	EncryptedContent  string  `json:"encrypted_content"`
	EncryptionVersion *int    `json:"encryption_version"`
	ClientID          *string `json:"client_id"`
}

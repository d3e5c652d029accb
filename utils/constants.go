package utils

import "time"

const (
	// Invite tokens
	InviteTokenBytes         = 32
	DefaultInviteExpiryHours = 72

	// JWT lifetimes
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour

	// Chat pagination
	DefaultChatPageSize = 50
	MaxChatPageSize     = 200

	// Date format for trip and itinerary dates
	DateFormat = "2006-01-02"

	// HTTP status messages
	ErrInvalidRequest = "Invalid request"
	ErrMembersOnly    = "Trip membership required"
	ErrOwnerOnly      = "Only the trip owner can do this"
	ErrEditorOrOwner  = "Editor or owner role required"
	ErrInvalidToken   = "Invalid or expired token"
	ErrInvalidInvite  = "Invalid invite token"
)

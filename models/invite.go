package models

import "time"

// InviteStatus is the invite lifecycle state. Accepted, expired and revoked
// are terminal; the only transitions are out of pending.
type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteExpired  InviteStatus = "expired"
	InviteRevoked  InviteStatus = "revoked"
)

// Terminal reports whether no further transitions are allowed.
func (s InviteStatus) Terminal() bool {
	return s == InviteAccepted || s == InviteExpired || s == InviteRevoked
}

// CanTransition reports whether moving to the given state is legal.
func (s InviteStatus) CanTransition(to InviteStatus) bool {
	return s == InvitePending && to.Terminal()
}

// TripInvite is a single-use, time-limited, tokenized offer of membership.
// Only the SHA-256 digest of the token is ever persisted.
type TripInvite struct {
	ID        string       `json:"id"`
	TripID    string       `json:"trip_id"`
	Email     string       `json:"email"`
	Role      TripRole     `json:"role"`
	Status    InviteStatus `json:"status"`
	TokenHash string       `json:"-"`
	InvitedBy string       `json:"invited_by"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Expired reports whether the invite's TTL has elapsed at the given instant.
func (i *TripInvite) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// CreateInviteRequest request model
type CreateInviteRequest struct {
	Email string   `json:"email" binding:"required,email"`
	Role  TripRole `json:"role" binding:"required"`
}

// AcceptInviteRequest request model
type AcceptInviteRequest struct {
	Token string `json:"token" binding:"required"`
}

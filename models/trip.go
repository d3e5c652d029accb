package models

import "time"

// TripRole is a member's role within a trip.
type TripRole string

const (
	RoleOwner  TripRole = "owner"
	RoleEditor TripRole = "editor"
	RoleViewer TripRole = "viewer"
)

// Valid reports whether the role is one of the known roles.
func (r TripRole) Valid() bool {
	switch r {
	case RoleOwner, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// MemberStatus is the membership lifecycle state. Only active is modeled.
type MemberStatus string

const MemberActive MemberStatus = "active"

// Trip represents a planned trip shared by a group of members.
type Trip struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Destination string    `json:"destination"`
	StartDate   *string   `json:"start_date"`
	EndDate     *string   `json:"end_date"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TripMember pairs a user with a trip at a role. (trip, user) is unique.
type TripMember struct {
	ID        string       `json:"id"`
	TripID    string       `json:"trip_id"`
	UserID    string       `json:"user_id"`
	Role      TripRole     `json:"role"`
	Status    MemberStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

// TripMemberView is a member row with the user embedded.
type TripMemberView struct {
	ID        string       `json:"id"`
	User      PublicUser   `json:"user"`
	Role      TripRole     `json:"role"`
	Status    MemberStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

// CreateTripRequest request model
type CreateTripRequest struct {
	Title       string  `json:"title" binding:"required"`
	Destination string  `json:"destination"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
}

// UpdateTripRequest request model; nil fields are left unchanged.
type UpdateTripRequest struct {
	Title       *string `json:"title"`
	Destination *string `json:"destination"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
}

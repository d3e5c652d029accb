package models

import "time"

// Poll is a trip-scoped question with a fixed option set.
type Poll struct {
	ID        string    `json:"id"`
	TripID    string    `json:"trip_id"`
	Question  string    `json:"question"`
	IsActive  bool      `json:"is_active"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PollOption is one choice of a poll. Options are immutable after creation.
type PollOption struct {
	ID        string `json:"id"`
	PollID    string `json:"-"`
	Text      string `json:"text"`
	SortOrder int    `json:"-"`
}

// Vote references one option per (poll, user). Re-voting overwrites it.
type Vote struct {
	ID        string    `json:"id"`
	PollID    string    `json:"poll_id"`
	OptionID  string    `json:"option_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// PollOptionView is an option with its denormalized vote count.
type PollOptionView struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	VoteCount int    `json:"vote_count"`
}

// PollView is the poll shape returned to members, including the requester's
// current choice (null when they have not voted).
type PollView struct {
	ID               string           `json:"id"`
	TripID           string           `json:"trip_id"`
	Question         string           `json:"question"`
	IsActive         bool             `json:"is_active"`
	Options          []PollOptionView `json:"options"`
	UserVoteOptionID *string          `json:"user_vote_option_id"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// CreatePollRequest request model
type CreatePollRequest struct {
	Question string   `json:"question" binding:"required"`
	Options  []string `json:"options" binding:"required,min=2"`
}

// VoteRequest request model
type VoteRequest struct {
	OptionID string `json:"option_id" binding:"required"`
}

// UpdatePollRequest toggles the poll's active flag.
type UpdatePollRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

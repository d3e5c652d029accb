package models

import "time"

// Expense is a trip-scoped amount paid by one member and split across
// participants. Split amounts always sum exactly to Amount.
type Expense struct {
	ID        string         `json:"id"`
	TripID    string         `json:"trip_id"`
	Title     string         `json:"title"`
	Amount    Cents          `json:"amount"`
	Currency  string         `json:"currency"`
	PaidBy    PublicUser     `json:"paid_by"`
	CreatedBy PublicUser     `json:"created_by"`
	Splits    []ExpenseSplit `json:"splits"`
	CreatedAt time.Time      `json:"created_at"`
}

// ExpenseSplit is one participant's share of an expense. (expense, user) is
// unique.
type ExpenseSplit struct {
	ID     string     `json:"id"`
	User   PublicUser `json:"user"`
	Amount Cents      `json:"amount"`
}

// SplitInput is an explicit (user, amount) share in a create request.
type SplitInput struct {
	UserID string `json:"user_id" binding:"required"`
	Amount Cents  `json:"amount"`
}

// CreateExpenseRequest request model. When Splits is given the amounts must
// sum exactly to Amount; otherwise the amount is divided evenly across
// ParticipantIDs (defaulting to all active members).
type CreateExpenseRequest struct {
	Title          string       `json:"title" binding:"required"`
	Amount         Cents        `json:"amount"`
	Currency       string       `json:"currency"`
	PaidBy         string       `json:"paid_by"`
	ParticipantIDs []string     `json:"participant_ids"`
	Splits         []SplitInput `json:"splits"`
}

// MemberBalance is one row of the per-member expense summary.
type MemberBalance struct {
	User PublicUser `json:"user"`
	Paid Cents      `json:"paid"`
	Owed Cents      `json:"owed"`
	Net  Cents      `json:"net"`
}

// repository/poll_repository.go
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wayplan/wayplan-backend/models"
)

// PollRepository handles database operations for polls, options and votes
type PollRepository struct {
	DB *sql.DB
}

// NewPollRepository creates a new PollRepository
func NewPollRepository() *PollRepository {
	return &PollRepository{
		DB: GetDB(),
	}
}

// CreatePoll saves a poll and its options in one transaction. Options are
// fixed at creation.
func (r *PollRepository) CreatePoll(ctx context.Context, poll *models.Poll, options []models.PollOption) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO polls (id, trip_id, question, is_active, created_by, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		poll.ID, poll.TripID, poll.Question, poll.IsActive, poll.CreatedBy, poll.CreatedAt, poll.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert poll: %v", err)
	}

	for _, option := range options {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO poll_options (id, poll_id, text, sort_order) VALUES ($1, $2, $3, $4)`,
			option.ID, option.PollID, option.Text, option.SortOrder,
		)
		if err != nil {
			return fmt.Errorf("failed to insert poll option: %v", err)
		}
	}

	return tx.Commit()
}

// GetPoll retrieves a poll by id, nil when absent.
func (r *PollRepository) GetPoll(ctx context.Context, pollID string) (*models.Poll, error) {
	var poll models.Poll
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, trip_id, question, is_active, created_by, created_at, updated_at
         FROM polls WHERE id = $1`,
		pollID,
	).Scan(&poll.ID, &poll.TripID, &poll.Question, &poll.IsActive,
		&poll.CreatedBy, &poll.CreatedAt, &poll.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get poll: %v", err)
	}
	return &poll, nil
}

// ListByTrip retrieves all polls of a trip, newest first.
func (r *PollRepository) ListByTrip(ctx context.Context, tripID string) ([]*models.Poll, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, trip_id, question, is_active, created_by, created_at, updated_at
         FROM polls WHERE trip_id = $1 ORDER BY created_at DESC`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %v", err)
	}
	defer rows.Close()

	polls := []*models.Poll{}
	for rows.Next() {
		var poll models.Poll
		if err := rows.Scan(&poll.ID, &poll.TripID, &poll.Question, &poll.IsActive,
			&poll.CreatedBy, &poll.CreatedAt, &poll.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan poll: %v", err)
		}
		polls = append(polls, &poll)
	}
	return polls, rows.Err()
}

// ListOptions retrieves options of a poll with vote counts, in option order.
func (r *PollRepository) ListOptions(ctx context.Context, pollID string) ([]models.PollOptionView, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT o.id, o.text, COUNT(v.id)
         FROM poll_options o
         LEFT JOIN votes v ON v.option_id = o.id
         WHERE o.poll_id = $1
         GROUP BY o.id, o.text, o.sort_order
         ORDER BY o.sort_order ASC`,
		pollID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list poll options: %v", err)
	}
	defer rows.Close()

	options := []models.PollOptionView{}
	for rows.Next() {
		var view models.PollOptionView
		if err := rows.Scan(&view.ID, &view.Text, &view.VoteCount); err != nil {
			return nil, fmt.Errorf("failed to scan poll option: %v", err)
		}
		options = append(options, view)
	}
	return options, rows.Err()
}

// OptionBelongsToPoll reports whether the option is one of the poll's choices.
func (r *PollRepository) OptionBelongsToPoll(ctx context.Context, pollID, optionID string) (bool, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM poll_options WHERE id = $1 AND poll_id = $2`,
		optionID, pollID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check poll option: %v", err)
	}
	return count > 0, nil
}

// UpsertVote records a vote, overwriting the user's prior choice. The unique
// (poll_id, user_id) constraint plus ON CONFLICT is what guarantees one row
// per user under concurrent double-submission.
func (r *PollRepository) UpsertVote(ctx context.Context, vote *models.Vote) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO votes (id, poll_id, option_id, user_id, created_at)
         VALUES ($1, $2, $3, $4, $5)
         ON CONFLICT (poll_id, user_id)
         DO UPDATE SET option_id = EXCLUDED.option_id, created_at = EXCLUDED.created_at`,
		vote.ID, vote.PollID, vote.OptionID, vote.UserID, vote.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert vote: %v", err)
	}
	return nil
}

// UserVoteOption returns the option id the user currently has on the poll,
// nil when they have not voted.
func (r *PollRepository) UserVoteOption(ctx context.Context, pollID, userID string) (*string, error) {
	var optionID string
	err := r.DB.QueryRowContext(ctx,
		`SELECT option_id FROM votes WHERE poll_id = $1 AND user_id = $2`,
		pollID, userID,
	).Scan(&optionID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vote: %v", err)
	}
	return &optionID, nil
}

// SetActive toggles the poll's active flag.
func (r *PollRepository) SetActive(ctx context.Context, pollID string, active bool) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE polls SET is_active = $2, updated_at = now() WHERE id = $1`,
		pollID, active,
	)
	if err != nil {
		return fmt.Errorf("failed to update poll: %v", err)
	}
	return nil
}

// DeletePoll removes a poll; options and votes cascade.
func (r *PollRepository) DeletePoll(ctx context.Context, pollID string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM polls WHERE id = $1", pollID)
	if err != nil {
		return fmt.Errorf("failed to delete poll: %v", err)
	}
	return nil
}

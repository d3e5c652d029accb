// repository/invite_repository.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/wayplan/wayplan-backend/models"
)

// InviteRepository handles database operations for trip invites
type InviteRepository struct {
	DB *sql.DB
}

// NewInviteRepository creates a new InviteRepository
func NewInviteRepository() *InviteRepository {
	return &InviteRepository{
		DB: GetDB(),
	}
}

// CreateInvite saves a new pending invite.
func (r *InviteRepository) CreateInvite(ctx context.Context, invite *models.TripInvite) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO trip_invites (id, trip_id, email, role, status, token_hash, invited_by, created_at, expires_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		invite.ID, invite.TripID, invite.Email, invite.Role, invite.Status,
		invite.TokenHash, invite.InvitedBy, invite.CreatedAt, invite.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert invite: %v", err)
	}
	return nil
}

// GetByTokenHash looks an invite up by token digest, nil when absent.
func (r *InviteRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.TripInvite, error) {
	return r.scanInvite(r.DB.QueryRowContext(ctx,
		inviteSelect+" WHERE token_hash = $1", tokenHash,
	))
}

// GetByID retrieves an invite by id, nil when absent.
func (r *InviteRepository) GetByID(ctx context.Context, inviteID string) (*models.TripInvite, error) {
	return r.scanInvite(r.DB.QueryRowContext(ctx,
		inviteSelect+" WHERE id = $1", inviteID,
	))
}

// ListByTrip retrieves all invites for a trip, newest first.
func (r *InviteRepository) ListByTrip(ctx context.Context, tripID string) ([]*models.TripInvite, error) {
	rows, err := r.DB.QueryContext(ctx,
		inviteSelect+" WHERE trip_id = $1 ORDER BY created_at DESC", tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list invites: %v", err)
	}
	defer rows.Close()

	invites := []*models.TripInvite{}
	for rows.Next() {
		var inv models.TripInvite
		if err := rows.Scan(&inv.ID, &inv.TripID, &inv.Email, &inv.Role, &inv.Status,
			&inv.TokenHash, &inv.InvitedBy, &inv.CreatedAt, &inv.ExpiresAt); err != nil {
			return nil, fmt.Errorf("failed to scan invite: %v", err)
		}
		invites = append(invites, &inv)
	}
	return invites, rows.Err()
}

// HasPendingInvite reports whether a pending, unexpired invite already exists
// for (trip, email).
func (r *InviteRepository) HasPendingInvite(ctx context.Context, tripID, email string, now time.Time) (bool, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM trip_invites
         WHERE trip_id = $1 AND LOWER(email) = LOWER($2) AND status = $3 AND expires_at > $4`,
		tripID, email, models.InvitePending, now,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check pending invite: %v", err)
	}
	return count > 0, nil
}

// TransitionStatus moves an invite out of pending. The WHERE clause makes the
// write conditional so concurrent accept/revoke/expiry races settle on the
// first transition; reports whether this call won.
func (r *InviteRepository) TransitionStatus(ctx context.Context, inviteID string, to models.InviteStatus) (bool, error) {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE trip_invites SET status = $2 WHERE id = $1 AND status = $3`,
		inviteID, to, models.InvitePending,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update invite status: %v", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to update invite status: %v", err)
	}
	return affected == 1, nil
}

const inviteSelect = `SELECT id, trip_id, email, role, status, token_hash, invited_by, created_at, expires_at
         FROM trip_invites`

func (r *InviteRepository) scanInvite(row *sql.Row) (*models.TripInvite, error) {
	var inv models.TripInvite
	err := row.Scan(&inv.ID, &inv.TripID, &inv.Email, &inv.Role, &inv.Status,
		&inv.TokenHash, &inv.InvitedBy, &inv.CreatedAt, &inv.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invite: %v", err)
	}
	return &inv, nil
}

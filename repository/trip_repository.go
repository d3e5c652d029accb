// repository/trip_repository.go
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wayplan/wayplan-backend/models"
)

// TripRepository handles database operations for trips and memberships
type TripRepository struct {
	DB *sql.DB
}

// NewTripRepository creates a new TripRepository
func NewTripRepository() *TripRepository {
	return &TripRepository{
		DB: GetDB(),
	}
}

// CreateTripWithOwner saves a trip and its owner membership in one
// transaction so a trip can never exist without exactly one owner member.
func (r *TripRepository) CreateTripWithOwner(ctx context.Context, trip *models.Trip, owner *models.TripMember) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO trips (id, title, destination, start_date, end_date, created_by, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		trip.ID, trip.Title, trip.Destination, trip.StartDate, trip.EndDate,
		trip.CreatedBy, trip.CreatedAt, trip.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trip: %v", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO trip_members (id, trip_id, user_id, role, status, created_at)
         VALUES ($1, $2, $3, $4, $5, $6)`,
		owner.ID, owner.TripID, owner.UserID, owner.Role, owner.Status, owner.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert owner membership: %v", err)
	}

	return tx.Commit()
}

// GetTrip retrieves a trip by id, nil when absent.
func (r *TripRepository) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	var trip models.Trip
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, title, destination, start_date, end_date, created_by, created_at, updated_at
         FROM trips WHERE id = $1`,
		tripID,
	).Scan(&trip.ID, &trip.Title, &trip.Destination, &trip.StartDate, &trip.EndDate,
		&trip.CreatedBy, &trip.CreatedAt, &trip.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %v", err)
	}
	return &trip, nil
}

// ListTripsForUser retrieves trips where the user is an active member,
// newest first.
func (r *TripRepository) ListTripsForUser(ctx context.Context, userID string) ([]*models.Trip, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT t.id, t.title, t.destination, t.start_date, t.end_date, t.created_by, t.created_at, t.updated_at
         FROM trips t
         JOIN trip_members m ON m.trip_id = t.id
         WHERE m.user_id = $1 AND m.status = $2
         ORDER BY t.created_at DESC`,
		userID, models.MemberActive,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %v", err)
	}
	defer rows.Close()

	trips := []*models.Trip{}
	for rows.Next() {
		var trip models.Trip
		if err := rows.Scan(&trip.ID, &trip.Title, &trip.Destination, &trip.StartDate, &trip.EndDate,
			&trip.CreatedBy, &trip.CreatedAt, &trip.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %v", err)
		}
		trips = append(trips, &trip)
	}
	return trips, rows.Err()
}

// UpdateTrip persists mutable trip fields.
func (r *TripRepository) UpdateTrip(ctx context.Context, trip *models.Trip) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE trips SET title = $2, destination = $3, start_date = $4, end_date = $5, updated_at = $6
         WHERE id = $1`,
		trip.ID, trip.Title, trip.Destination, trip.StartDate, trip.EndDate, trip.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update trip: %v", err)
	}
	return nil
}

// DeleteTrip removes a trip; dependent rows cascade.
func (r *TripRepository) DeleteTrip(ctx context.Context, tripID string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM trips WHERE id = $1", tripID)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %v", err)
	}
	return nil
}

// GetMember resolves the active membership of (trip, user), nil when absent.
func (r *TripRepository) GetMember(ctx context.Context, tripID, userID string) (*models.TripMember, error) {
	var m models.TripMember
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, trip_id, user_id, role, status, created_at
         FROM trip_members WHERE trip_id = $1 AND user_id = $2 AND status = $3`,
		tripID, userID, models.MemberActive,
	).Scan(&m.ID, &m.TripID, &m.UserID, &m.Role, &m.Status, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %v", err)
	}
	return &m, nil
}

// GetMemberByEmail resolves an active membership by the member's email.
func (r *TripRepository) GetMemberByEmail(ctx context.Context, tripID, email string) (*models.TripMember, error) {
	var m models.TripMember
	err := r.DB.QueryRowContext(ctx,
		`SELECT m.id, m.trip_id, m.user_id, m.role, m.status, m.created_at
         FROM trip_members m
         JOIN users u ON u.id = m.user_id
         WHERE m.trip_id = $1 AND LOWER(u.email) = LOWER($2) AND m.status = $3`,
		tripID, email, models.MemberActive,
	).Scan(&m.ID, &m.TripID, &m.UserID, &m.Role, &m.Status, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %v", err)
	}
	return &m, nil
}

// ListMembers retrieves all active members of a trip with users embedded.
func (r *TripRepository) ListMembers(ctx context.Context, tripID string) ([]models.TripMemberView, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT m.id, u.id, u.email, u.name, m.role, m.status, m.created_at
         FROM trip_members m
         JOIN users u ON u.id = m.user_id
         WHERE m.trip_id = $1 AND m.status = $2
         ORDER BY m.created_at ASC`,
		tripID, models.MemberActive,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %v", err)
	}
	defer rows.Close()

	members := []models.TripMemberView{}
	for rows.Next() {
		var v models.TripMemberView
		if err := rows.Scan(&v.ID, &v.User.ID, &v.User.Email, &v.User.Name,
			&v.Role, &v.Status, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %v", err)
		}
		members = append(members, v)
	}
	return members, rows.Err()
}

// CreateMemberIfAbsent inserts a membership, treating a unique-constraint
// conflict as "already a member". Inserting and handling the conflict avoids
// the check-then-insert race under concurrent accepts.
func (r *TripRepository) CreateMemberIfAbsent(ctx context.Context, member *models.TripMember) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO trip_members (id, trip_id, user_id, role, status, created_at)
         VALUES ($1, $2, $3, $4, $5, $6)
         ON CONFLICT (trip_id, user_id) DO NOTHING`,
		member.ID, member.TripID, member.UserID, member.Role, member.Status, member.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert membership: %v", err)
	}
	return nil
}

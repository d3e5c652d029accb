// repository/user_repository.go
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wayplan/wayplan-backend/models"
)

// ErrDuplicateEmail is returned when a registration hits the unique email
// constraint.
var ErrDuplicateEmail = fmt.Errorf("email already registered")

// UserRepository handles database operations for users
type UserRepository struct {
	DB *sql.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository() *UserRepository {
	return &UserRepository{
		DB: GetDB(),
	}
}

// CreateUser inserts a new user. The unique constraint on email is the
// enforcement mechanism for duplicate registrations.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (id, email, name, password_hash, is_active, created_at)
         VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Email, user.Name, user.PasswordHash, user.IsActive, user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert user: %v", err)
	}
	return nil
}

// GetUserByEmail retrieves an active user by case-insensitive email.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.scanUser(r.DB.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, is_active, created_at
         FROM users WHERE LOWER(email) = LOWER($1) AND is_active`,
		email,
	))
}

// GetUserByID retrieves an active user by id.
func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.scanUser(r.DB.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, is_active, created_at
         FROM users WHERE id = $1 AND is_active`,
		id,
	))
}

// SearchByEmail finds users whose email contains the query, for the owner's
// invite flow.
func (r *UserRepository) SearchByEmail(ctx context.Context, query string, limit int) ([]models.PublicUser, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, email, name FROM users
         WHERE is_active AND email ILIKE '%' || $1 || '%'
         ORDER BY email ASC LIMIT $2`,
		query, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %v", err)
	}
	defer rows.Close()

	users := []models.PublicUser{}
	for rows.Next() {
		var u models.PublicUser
		if err := rows.Scan(&u.ID, &u.Email, &u.Name); err != nil {
			return nil, fmt.Errorf("failed to scan user: %v", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.IsActive, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}
	return &user, nil
}

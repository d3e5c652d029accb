// repository/expense_repository.go
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wayplan/wayplan-backend/models"
)

// ExpenseRepository handles database operations for expenses
type ExpenseRepository struct {
	DB *sql.DB
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository() *ExpenseRepository {
	return &ExpenseRepository{
		DB: GetDB(),
	}
}

// CreateExpenseWithSplits saves an expense and its split rows as one atomic
// unit so split totals can never drift from the expense amount.
func (r *ExpenseRepository) CreateExpenseWithSplits(ctx context.Context, expense *models.Expense) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, trip_id, title, amount_cents, currency, paid_by, created_by, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		expense.ID, expense.TripID, expense.Title, expense.Amount, expense.Currency,
		expense.PaidBy.ID, expense.CreatedBy.ID, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %v", err)
	}

	for _, split := range expense.Splits {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO expense_splits (id, expense_id, user_id, amount_cents)
             VALUES ($1, $2, $3, $4)`,
			split.ID, expense.ID, split.User.ID, split.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense split: %v", err)
		}
	}

	return tx.Commit()
}

// ListByTrip retrieves all expenses for a trip with splits and users
// embedded, newest first.
func (r *ExpenseRepository) ListByTrip(ctx context.Context, tripID string) ([]*models.Expense, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT e.id, e.trip_id, e.title, e.amount_cents, e.currency, e.created_at,
                p.id, p.email, p.name, c.id, c.email, c.name
         FROM expenses e
         JOIN users p ON p.id = e.paid_by
         JOIN users c ON c.id = e.created_by
         WHERE e.trip_id = $1
         ORDER BY e.created_at DESC`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %v", err)
	}
	defer rows.Close()

	expenses := []*models.Expense{}
	byID := map[string]*models.Expense{}
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.TripID, &e.Title, &e.Amount, &e.Currency, &e.CreatedAt,
			&e.PaidBy.ID, &e.PaidBy.Email, &e.PaidBy.Name,
			&e.CreatedBy.ID, &e.CreatedBy.Email, &e.CreatedBy.Name); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %v", err)
		}
		e.Splits = []models.ExpenseSplit{}
		expenses = append(expenses, &e)
		byID[e.ID] = &e
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	splitRows, err := r.DB.QueryContext(ctx,
		`SELECT s.expense_id, s.id, s.amount_cents, u.id, u.email, u.name
         FROM expense_splits s
         JOIN expenses e ON e.id = s.expense_id
         JOIN users u ON u.id = s.user_id
         WHERE e.trip_id = $1
         ORDER BY s.id ASC`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense splits: %v", err)
	}
	defer splitRows.Close()

	for splitRows.Next() {
		var expenseID string
		var split models.ExpenseSplit
		if err := splitRows.Scan(&expenseID, &split.ID, &split.Amount,
			&split.User.ID, &split.User.Email, &split.User.Name); err != nil {
			return nil, fmt.Errorf("failed to scan expense split: %v", err)
		}
		if expense, ok := byID[expenseID]; ok {
			expense.Splits = append(expense.Splits, split)
		}
	}
	return expenses, splitRows.Err()
}

// GetExpense retrieves a single expense header, nil when absent.
func (r *ExpenseRepository) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	var e models.Expense
	err := r.DB.QueryRowContext(ctx,
		`SELECT e.id, e.trip_id, e.title, e.amount_cents, e.currency, e.created_at,
                p.id, p.email, p.name, c.id, c.email, c.name
         FROM expenses e
         JOIN users p ON p.id = e.paid_by
         JOIN users c ON c.id = e.created_by
         WHERE e.id = $1`,
		expenseID,
	).Scan(&e.ID, &e.TripID, &e.Title, &e.Amount, &e.Currency, &e.CreatedAt,
		&e.PaidBy.ID, &e.PaidBy.Email, &e.PaidBy.Name,
		&e.CreatedBy.ID, &e.CreatedBy.Email, &e.CreatedBy.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %v", err)
	}
	return &e, nil
}

// DeleteExpense removes an expense; splits cascade.
func (r *ExpenseRepository) DeleteExpense(ctx context.Context, expenseID string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM expenses WHERE id = $1", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %v", err)
	}
	return nil
}

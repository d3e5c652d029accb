// repository/itinerary_repository.go
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wayplan/wayplan-backend/models"
)

// ItineraryRepository handles database operations for itinerary items
type ItineraryRepository struct {
	DB *sql.DB
}

// NewItineraryRepository creates a new ItineraryRepository
func NewItineraryRepository() *ItineraryRepository {
	return &ItineraryRepository{
		DB: GetDB(),
	}
}

// CreateItem inserts an item with sort_order = max(existing)+1 for the trip,
// computed inside the insert so concurrent appends both land after existing
// rows.
func (r *ItineraryRepository) CreateItem(ctx context.Context, item *models.ItineraryItem) error {
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO itinerary_items
         (id, trip_id, title, notes, location, start_time, end_time, date, sort_order, created_by, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
                 (SELECT COALESCE(MAX(sort_order) + 1, 0) FROM itinerary_items WHERE trip_id = $2),
                 $9, $10, $11)
         RETURNING sort_order`,
		item.ID, item.TripID, item.Title, item.Notes, item.Location,
		item.StartTime, item.EndTime, item.Date, item.CreatedBy, item.CreatedAt, item.UpdatedAt,
	).Scan(&item.SortOrder)
	if err != nil {
		return fmt.Errorf("failed to insert itinerary item: %v", err)
	}
	return nil
}

// GetItem retrieves an item by id, nil when absent.
func (r *ItineraryRepository) GetItem(ctx context.Context, itemID string) (*models.ItineraryItem, error) {
	var item models.ItineraryItem
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, trip_id, title, notes, location, start_time, end_time, date, sort_order, created_by, created_at, updated_at
         FROM itinerary_items WHERE id = $1`,
		itemID,
	).Scan(&item.ID, &item.TripID, &item.Title, &item.Notes, &item.Location,
		&item.StartTime, &item.EndTime, &item.Date, &item.SortOrder,
		&item.CreatedBy, &item.CreatedAt, &item.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get itinerary item: %v", err)
	}
	return &item, nil
}

// ListByTrip retrieves all items of a trip. Ties on sort_order break by
// creation time then id so the order is deterministic.
func (r *ItineraryRepository) ListByTrip(ctx context.Context, tripID string) ([]*models.ItineraryItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, trip_id, title, notes, location, start_time, end_time, date, sort_order, created_by, created_at, updated_at
         FROM itinerary_items WHERE trip_id = $1
         ORDER BY sort_order ASC, created_at ASC, id ASC`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list itinerary items: %v", err)
	}
	defer rows.Close()

	items := []*models.ItineraryItem{}
	for rows.Next() {
		var item models.ItineraryItem
		if err := rows.Scan(&item.ID, &item.TripID, &item.Title, &item.Notes, &item.Location,
			&item.StartTime, &item.EndTime, &item.Date, &item.SortOrder,
			&item.CreatedBy, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan itinerary item: %v", err)
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

// UpdateItem persists mutable item fields.
func (r *ItineraryRepository) UpdateItem(ctx context.Context, item *models.ItineraryItem) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE itinerary_items
         SET title = $2, notes = $3, location = $4, start_time = $5, end_time = $6, date = $7, updated_at = $8
         WHERE id = $1`,
		item.ID, item.Title, item.Notes, item.Location,
		item.StartTime, item.EndTime, item.Date, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update itinerary item: %v", err)
	}
	return nil
}

// DeleteItem removes an item.
func (r *ItineraryRepository) DeleteItem(ctx context.Context, itemID string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM itinerary_items WHERE id = $1", itemID)
	if err != nil {
		return fmt.Errorf("failed to delete itinerary item: %v", err)
	}
	return nil
}

// Reorder applies a batch of (item, sort_order) pairs in one transaction.
// The whole batch fails when any id does not belong to the trip.
func (r *ItineraryRepository) Reorder(ctx context.Context, tripID string, entries []models.ReorderEntry) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	for _, entry := range entries {
		result, err := tx.ExecContext(ctx,
			`UPDATE itinerary_items SET sort_order = $3, updated_at = now()
             WHERE id = $1 AND trip_id = $2`,
			entry.ID, tripID, entry.SortOrder,
		)
		if err != nil {
			return fmt.Errorf("failed to reorder item: %v", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to reorder item: %v", err)
		}
		if affected == 0 {
			return ErrItemNotInTrip
		}
	}

	return tx.Commit()
}

// ErrItemNotInTrip aborts a reorder batch referencing a foreign item.
var ErrItemNotInTrip = fmt.Errorf("item does not belong to trip")

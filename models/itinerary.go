package models

import "time"

// ItineraryItem is a trip-scoped schedule entry. SortOrder is an advisory
// ordering key; ties are broken by creation time, then id.
type ItineraryItem struct {
	ID        string     `json:"id"`
	TripID    string     `json:"trip_id"`
	Title     string     `json:"title"`
	Notes     string     `json:"notes"`
	Location  string     `json:"location"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Date      *string    `json:"date"`
	SortOrder int        `json:"sort_order"`
	CreatedBy string     `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CreateItineraryItemRequest request model
type CreateItineraryItemRequest struct {
	Title     string     `json:"title" binding:"required"`
	Notes     string     `json:"notes"`
	Location  string     `json:"location"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Date      *string    `json:"date"`
}

// UpdateItineraryItemRequest request model; nil fields are left unchanged.
type UpdateItineraryItemRequest struct {
	Title     *string    `json:"title"`
	Notes     *string    `json:"notes"`
	Location  *string    `json:"location"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Date      *string    `json:"date"`
}

// ReorderEntry is one (item, sort_order) pair of a reorder batch.
type ReorderEntry struct {
	ID        string `json:"id" binding:"required"`
	SortOrder int    `json:"sort_order" binding:"min=0"`
}

// ReorderItineraryRequest request model
type ReorderItineraryRequest struct {
	Items []ReorderEntry `json:"items" binding:"required,min=1"`
}

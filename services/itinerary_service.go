package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/wayplan/wayplan-backend/models"
	"github.com/wayplan/wayplan-backend/repository"
	"github.com/wayplan/wayplan-backend/utils"
)

// ItineraryStore is the persistence surface the itinerary service needs.
type ItineraryStore interface {
	CreateItem(ctx context.Context, item *models.ItineraryItem) error
	GetItem(ctx context.Context, itemID string) (*models.ItineraryItem, error)
	ListByTrip(ctx context.Context, tripID string) ([]*models.ItineraryItem, error)
	UpdateItem(ctx context.Context, item *models.ItineraryItem) error
	DeleteItem(ctx context.Context, itemID string) error
	Reorder(ctx context.Context, tripID string, entries []models.ReorderEntry) error
}

// ItineraryService handles itinerary items and their advisory ordering.
type ItineraryService struct {
	items ItineraryStore
	guard *AccessGuard
}

// NewItineraryService creates a new ItineraryService
func NewItineraryService(items ItineraryStore, members MembershipStore) *ItineraryService {
	return &ItineraryService{items: items, guard: NewAccessGuard(members)}
}

// CreateItem appends an item to the trip's itinerary. The store assigns
// sort_order = max(existing)+1, starting at 0 for an empty trip.
func (s *ItineraryService) CreateItem(ctx context.Context, tripID string, creator *models.User, req *models.CreateItineraryItemRequest) (*models.ItineraryItem, error) {
	if _, _, err := s.guard.Require(ctx, tripID, creator.ID, ActionEditContent); err != nil {
		return nil, err
	}
	if req.Date != nil && !utils.ValidDate(*req.Date) {
		return nil, utils.NewValidationError("date must be YYYY-MM-DD")
	}

	now := time.Now().UTC()
	item := &models.ItineraryItem{
		ID:        uuid.NewString(),
		TripID:    tripID,
		Title:     req.Title,
		Notes:     req.Notes,
		Location:  req.Location,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Date:      req.Date,
		CreatedBy: creator.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.items.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// List returns the trip's items in display order.
func (s *ItineraryService) List(ctx context.Context, tripID, userID string) ([]*models.ItineraryItem, error) {
	if _, _, err := s.guard.Require(ctx, tripID, userID, ActionRead); err != nil {
		return nil, err
	}
	return s.items.ListByTrip(ctx, tripID)
}

// UpdateItem patches an item's fields. Editor or owner.
func (s *ItineraryService) UpdateItem(ctx context.Context, itemID, userID string, req *models.UpdateItineraryItemRequest) (*models.ItineraryItem, error) {
	item, err := s.requireItem(ctx, itemID, userID, ActionEditContent)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if err := utils.ValidateRequired(*req.Title, "title"); err != nil {
			return nil, err
		}
		item.Title = *req.Title
	}
	if req.Notes != nil {
		item.Notes = *req.Notes
	}
	if req.Location != nil {
		item.Location = *req.Location
	}
	if req.StartTime != nil {
		item.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		item.EndTime = req.EndTime
	}
	if req.Date != nil {
		if !utils.ValidDate(*req.Date) {
			return nil, utils.NewValidationError("date must be YYYY-MM-DD")
		}
		item.Date = req.Date
	}

	item.UpdatedAt = time.Now().UTC()
	if err := s.items.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes an item. Editor or owner.
func (s *ItineraryService) DeleteItem(ctx context.Context, itemID, userID string) error {
	item, err := s.requireItem(ctx, itemID, userID, ActionEditContent)
	if err != nil {
		return err
	}
	return s.items.DeleteItem(ctx, item.ID)
}

// Reorder applies a full or partial batch of (item, sort_order) pairs. The
// batch is atomic: one foreign id rejects the whole thing.
func (s *ItineraryService) Reorder(ctx context.Context, tripID, userID string, req *models.ReorderItineraryRequest) ([]*models.ItineraryItem, error) {
	if _, _, err := s.guard.Require(ctx, tripID, userID, ActionEditContent); err != nil {
		return nil, err
	}
	if err := utils.ValidateNotEmpty(req.Items, "items"); err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	for _, entry := range req.Items {
		if entry.SortOrder < 0 {
			return nil, utils.NewValidationError("sort_order cannot be negative")
		}
		if seen[entry.ID] {
			return nil, utils.NewValidationError("duplicate item in reorder batch")
		}
		seen[entry.ID] = true
	}

	if err := s.items.Reorder(ctx, tripID, req.Items); err != nil {
		if errors.Is(err, repository.ErrItemNotInTrip) {
			return nil, utils.NewValidationError("item does not belong to this trip")
		}
		return nil, err
	}
	return s.items.ListByTrip(ctx, tripID)
}

func (s *ItineraryService) requireItem(ctx context.Context, itemID, userID string, action Action) (*models.ItineraryItem, error) {
	item, err := s.items.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, utils.NewNotFoundError("Itinerary item")
	}
	if _, _, err := s.guard.Require(ctx, item.TripID, userID, action); err != nil {
		return nil, err
	}
	return item, nil
}

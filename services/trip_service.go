package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wayplan/wayplan-backend/models"
	"github.com/wayplan/wayplan-backend/utils"
)

// TripStore is the persistence surface the trip service needs.
type TripStore interface {
	MembershipStore
	CreateTripWithOwner(ctx context.Context, trip *models.Trip, owner *models.TripMember) error
	ListTripsForUser(ctx context.Context, userID string) ([]*models.Trip, error)
	UpdateTrip(ctx context.Context, trip *models.Trip) error
	DeleteTrip(ctx context.Context, tripID string) error
	ListMembers(ctx context.Context, tripID string) ([]models.TripMemberView, error)
}

// UserSearcher finds users by email fragment for the owner's invite flow.
type UserSearcher interface {
	SearchByEmail(ctx context.Context, query string, limit int) ([]models.PublicUser, error)
}

// TripService handles trips and their membership views.
type TripService struct {
	store TripStore
	users UserSearcher
	guard *AccessGuard
}

// NewTripService creates a new TripService
func NewTripService(store TripStore, users UserSearcher) *TripService {
	return &TripService{store: store, users: users, guard: NewAccessGuard(store)}
}

// CreateTrip creates a trip and its owner membership atomically, so every
// trip starts with exactly one active owner member.
func (s *TripService) CreateTrip(ctx context.Context, creator *models.User, req *models.CreateTripRequest) (*models.Trip, error) {
	if err := utils.ValidateDateRange(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	trip := &models.Trip{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		CreatedBy:   creator.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	owner := &models.TripMember{
		ID:        uuid.NewString(),
		TripID:    trip.ID,
		UserID:    creator.ID,
		Role:      models.RoleOwner,
		Status:    models.MemberActive,
		CreatedAt: now,
	}
	if err := s.store.CreateTripWithOwner(ctx, trip, owner); err != nil {
		return nil, err
	}
	return trip, nil
}

// ListTrips returns the trips the user is an active member of.
func (s *TripService) ListTrips(ctx context.Context, userID string) ([]*models.Trip, error) {
	return s.store.ListTripsForUser(ctx, userID)
}

// GetTrip returns a trip visible to the requesting member.
func (s *TripService) GetTrip(ctx context.Context, tripID, userID string) (*models.Trip, error) {
	trip, _, err := s.guard.Require(ctx, tripID, userID, ActionRead)
	return trip, err
}

// UpdateTrip applies owner-only changes to trip fields.
func (s *TripService) UpdateTrip(ctx context.Context, tripID, userID string, req *models.UpdateTripRequest) (*models.Trip, error) {
	trip, _, err := s.guard.Require(ctx, tripID, userID, ActionManageTrip)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if err := utils.ValidateRequired(*req.Title, "title"); err != nil {
			return nil, err
		}
		trip.Title = *req.Title
	}
	if req.Destination != nil {
		trip.Destination = *req.Destination
	}
	if req.StartDate != nil {
		trip.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		trip.EndDate = req.EndDate
	}
	if err := utils.ValidateDateRange(trip.StartDate, trip.EndDate); err != nil {
		return nil, err
	}

	trip.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateTrip(ctx, trip); err != nil {
		return nil, err
	}
	return trip, nil
}

// DeleteTrip removes a trip and everything under it. Owner only.
func (s *TripService) DeleteTrip(ctx context.Context, tripID, userID string) error {
	_, _, err := s.guard.Require(ctx, tripID, userID, ActionManageTrip)
	if err != nil {
		return err
	}
	return s.store.DeleteTrip(ctx, tripID)
}

// ListMembers returns the trip's active members. Any member may look.
func (s *TripService) ListMembers(ctx context.Context, tripID, userID string) ([]models.TripMemberView, error) {
	if _, _, err := s.guard.Require(ctx, tripID, userID, ActionRead); err != nil {
		return nil, err
	}
	return s.store.ListMembers(ctx, tripID)
}

// SearchUsers finds users by email fragment. Owner only, for inviting.
func (s *TripService) SearchUsers(ctx context.Context, tripID, userID, query string) ([]models.PublicUser, error) {
	if _, _, err := s.guard.Require(ctx, tripID, userID, ActionManageInvites); err != nil {
		return nil, err
	}
	if err := utils.ValidateRequired(query, "q"); err != nil {
		return nil, err
	}
	return s.users.SearchByEmail(ctx, query, 10)
}

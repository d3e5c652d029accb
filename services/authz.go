package services

import (
	"context"

	"github.com/wayplan/wayplan-backend/models"
	"github.com/wayplan/wayplan-backend/utils"
)

// Action is a trip-scoped operation class checked against a member's role.
type Action string

const (
	// ActionRead covers viewing the trip, itinerary, polls, chat and expenses.
	ActionRead Action = "trip.read"
	// ActionEditContent covers creating, updating and deleting itinerary
	// items, expenses, polls and chat messages, and toggling polls.
	ActionEditContent Action = "content.edit"
	// ActionManageTrip covers updating and deleting the trip itself.
	ActionManageTrip Action = "trip.manage"
	// ActionManageInvites covers issuing, revoking and listing invites and
	// searching users.
	ActionManageInvites Action = "invites.manage"
)

// Authorizer decides whether a member may perform an action. Every handler
// path consults this one policy table instead of re-deriving role checks.
type Authorizer interface {
	Check(action Action, member *models.TripMember) bool
}

// NewAuthorizer returns the role policy used across the API.
func NewAuthorizer() Authorizer {
	return rolePolicy{}
}

type rolePolicy struct{}

func (rolePolicy) Check(action Action, member *models.TripMember) bool {
	if member == nil || member.Status != models.MemberActive {
		return false
	}
	switch action {
	case ActionRead:
		return true
	case ActionEditContent:
		return IsEditorOrOwner(member)
	case ActionManageTrip, ActionManageInvites:
		return IsOwner(member)
	}
	return false
}

// IsOwner reports whether the member holds the owner role.
func IsOwner(member *models.TripMember) bool {
	return member != nil && member.Role == models.RoleOwner
}

// IsEditorOrOwner reports whether the member may mutate trip content.
func IsEditorOrOwner(member *models.TripMember) bool {
	return member != nil && (member.Role == models.RoleOwner || member.Role == models.RoleEditor)
}

// MembershipStore resolves trips and memberships for access checks.
type MembershipStore interface {
	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)
	GetMember(ctx context.Context, tripID, userID string) (*models.TripMember, error)
}

// AccessGuard bundles the membership lookup with the role policy. Require
// answers 404 before 403: a nonexistent trip is "not found" for everyone,
// while an existing trip is "forbidden" to non-members so membership is the
// only thing a rejection can leak.
type AccessGuard struct {
	Store MembershipStore
	Authz Authorizer
}

// NewAccessGuard creates an AccessGuard
func NewAccessGuard(store MembershipStore) *AccessGuard {
	return &AccessGuard{Store: store, Authz: NewAuthorizer()}
}

// Require resolves the trip and the caller's membership, then checks the
// action against the policy table.
func (g *AccessGuard) Require(ctx context.Context, tripID, userID string, action Action) (*models.Trip, *models.TripMember, error) {
	trip, err := g.Store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}
	if trip == nil {
		return nil, nil, utils.NewNotFoundError("Trip")
	}

	member, err := g.Store.GetMember(ctx, tripID, userID)
	if err != nil {
		return nil, nil, err
	}
	if member == nil {
		return nil, nil, utils.NewForbiddenError(utils.ErrMembersOnly)
	}
	if !g.Authz.Check(action, member) {
		switch action {
		case ActionManageTrip, ActionManageInvites:
			return nil, nil, utils.NewForbiddenError(utils.ErrOwnerOnly)
		default:
			return nil, nil, utils.NewForbiddenError(utils.ErrEditorOrOwner)
		}
	}
	return trip, member, nil
}

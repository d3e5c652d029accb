package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/wayplan/wayplan-backend/models"
	"github.com/wayplan/wayplan-backend/utils"
)

// InviteStore is the persistence surface the invite service needs.
type InviteStore interface {
	CreateInvite(ctx context.Context, invite *models.TripInvite) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.TripInvite, error)
	GetByID(ctx context.Context, inviteID string) (*models.TripInvite, error)
	ListByTrip(ctx context.Context, tripID string) ([]*models.TripInvite, error)
	HasPendingInvite(ctx context.Context, tripID, email string, now time.Time) (bool, error)
	TransitionStatus(ctx context.Context, inviteID string, to models.InviteStatus) (bool, error)
}

// InviteMemberStore covers the membership writes acceptance needs.
type InviteMemberStore interface {
	MembershipStore
	GetMemberByEmail(ctx context.Context, tripID, email string) (*models.TripMember, error)
	CreateMemberIfAbsent(ctx context.Context, member *models.TripMember) error
}

// Notifier dispatches invite notifications. Delivery guarantees are the
// implementation's concern; the invite flow only hands it the message.
type Notifier interface {
	Send(to, subject, body string) error
}

// InviteService drives the invite lifecycle: pending -> accepted | expired |
// revoked. Expiry is evaluated lazily at the point of use, not by a sweep.
type InviteService struct {
	invites InviteStore
	members InviteMemberStore
	notify  Notifier
	guard   *AccessGuard
	ttl     time.Duration
	now     func() time.Time
}

// NewInviteService creates a new InviteService
func NewInviteService(invites InviteStore, members InviteMemberStore, notify Notifier, ttl time.Duration) *InviteService {
	return &InviteService{
		invites: invites,
		members: members,
		notify:  notify,
		guard:   NewAccessGuard(members),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Issue creates a pending invite and dispatches the token out-of-band. The
// raw token exists only in the notification; the store keeps its hash.
func (s *InviteService) Issue(ctx context.Context, tripID string, issuer *models.User, req *models.CreateInviteRequest) (*models.TripInvite, error) {
	trip, _, err := s.guard.Require(ctx, tripID, issuer.ID, ActionManageInvites)
	if err != nil {
		return nil, err
	}

	if req.Role != models.RoleEditor && req.Role != models.RoleViewer {
		return nil, utils.NewValidationError("role must be editor or viewer")
	}
	email := utils.NormalizeEmail(req.Email)

	existing, err := s.members.GetMemberByEmail(ctx, tripID, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.NewValidationError("user is already a member of this trip")
	}

	pending, err := s.invites.HasPendingInvite(ctx, tripID, email, s.now())
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, utils.NewValidationError("a pending invite already exists for this email")
	}

	token, err := utils.GenerateInviteToken()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	invite := &models.TripInvite{
		ID:        uuid.NewString(),
		TripID:    tripID,
		Email:     email,
		Role:      req.Role,
		Status:    models.InvitePending,
		TokenHash: utils.HashToken(token),
		InvitedBy: issuer.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.invites.CreateInvite(ctx, invite); err != nil {
		return nil, err
	}

	subject := fmt.Sprintf("You're invited to %s", trip.Title)
	body := fmt.Sprintf("%s invited you to join the trip %q as %s.\n\nToken: %s\n\nThe invite expires at %s.",
		issuer.Email, trip.Title, invite.Role, token, invite.ExpiresAt.Format(time.RFC3339))
	if err := s.notify.Send(email, subject, body); err != nil {
		// Delivery is the notifier's concern; the invite stands either way.
		log.WithError(err).WithField("invite_id", invite.ID).Warn("invite notification failed")
	}

	return invite, nil
}

// Accept redeems a token for a membership. Expired invites are transitioned
// here, at the point of use.
func (s *InviteService) Accept(ctx context.Context, token string, acceptor *models.User) (*models.TripInvite, error) {
	invite, err := s.invites.GetByTokenHash(ctx, utils.HashToken(token))
	if err != nil {
		return nil, err
	}
	if invite == nil || invite.Status != models.InvitePending {
		return nil, utils.NewValidationError(utils.ErrInvalidInvite)
	}

	if invite.Expired(s.now()) {
		if _, err := s.invites.TransitionStatus(ctx, invite.ID, models.InviteExpired); err != nil {
			return nil, err
		}
		return nil, utils.NewValidationError("invite has expired")
	}

	if !utils.EmailsEqual(invite.Email, acceptor.Email) {
		return nil, utils.NewForbiddenError("invite was issued to a different email")
	}

	// Already-a-member accepts succeed; the unique (trip, user) constraint
	// absorbs the duplicate instead of a pre-check.
	member := &models.TripMember{
		ID:        uuid.NewString(),
		TripID:    invite.TripID,
		UserID:    acceptor.ID,
		Role:      invite.Role,
		Status:    models.MemberActive,
		CreatedAt: s.now().UTC(),
	}
	if err := s.members.CreateMemberIfAbsent(ctx, member); err != nil {
		return nil, err
	}

	ok, err := s.invites.TransitionStatus(ctx, invite.ID, models.InviteAccepted)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost a race with another accept/revoke of the same invite.
		return nil, utils.NewValidationError(utils.ErrInvalidInvite)
	}

	invite.Status = models.InviteAccepted
	return invite, nil
}

// Revoke cancels a pending invite. Owner of the invite's trip only.
func (s *InviteService) Revoke(ctx context.Context, inviteID string, issuer *models.User) (*models.TripInvite, error) {
	invite, err := s.invites.GetByID(ctx, inviteID)
	if err != nil {
		return nil, err
	}
	if invite == nil {
		return nil, utils.NewNotFoundError("Invite")
	}

	if _, _, err := s.guard.Require(ctx, invite.TripID, issuer.ID, ActionManageInvites); err != nil {
		return nil, err
	}

	if !invite.Status.CanTransition(models.InviteRevoked) {
		return nil, utils.NewValidationError("only pending invites can be revoked")
	}
	ok, err := s.invites.TransitionStatus(ctx, invite.ID, models.InviteRevoked)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, utils.NewValidationError("only pending invites can be revoked")
	}

	invite.Status = models.InviteRevoked
	return invite, nil
}

// List returns all invites for a trip. Owner only.
func (s *InviteService) List(ctx context.Context, tripID, userID string) ([]*models.TripInvite, error) {
	if _, _, err := s.guard.Require(ctx, tripID, userID, ActionManageInvites); err != nil {
		return nil, err
	}
	return s.invites.ListByTrip(ctx, tripID)
}

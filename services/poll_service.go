package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wayplan/wayplan-backend/models"
	"github.com/wayplan/wayplan-backend/utils"
)

// PollStore is the persistence surface the poll service needs.
type PollStore interface {
	CreatePoll(ctx context.Context, poll *models.Poll, options []models.PollOption) error
	GetPoll(ctx context.Context, pollID string) (*models.Poll, error)
	ListByTrip(ctx context.Context, tripID string) ([]*models.Poll, error)
	ListOptions(ctx context.Context, pollID string) ([]models.PollOptionView, error)
	OptionBelongsToPoll(ctx context.Context, pollID, optionID string) (bool, error)
	UpsertVote(ctx context.Context, vote *models.Vote) error
	UserVoteOption(ctx context.Context, pollID, userID string) (*string, error)
	SetActive(ctx context.Context, pollID string, active bool) error
	DeletePoll(ctx context.Context, pollID string) error
}

// PollService handles polls, options and one-vote-per-user voting.
type PollService struct {
	polls PollStore
	guard *AccessGuard
}

// NewPollService creates a new PollService
func NewPollService(polls PollStore, members MembershipStore) *PollService {
	return &PollService{polls: polls, guard: NewAccessGuard(members)}
}

// CreatePoll creates a poll with a fixed option set. At least two non-empty
// options are required after trimming.
func (s *PollService) CreatePoll(ctx context.Context, tripID string, creator *models.User, req *models.CreatePollRequest) (*models.PollView, error) {
	if _, _, err := s.guard.Require(ctx, tripID, creator.ID, ActionEditContent); err != nil {
		return nil, err
	}

	options := make([]string, 0, len(req.Options))
	for _, text := range utils.TrimAll(req.Options) {
		if text == "" {
			return nil, utils.NewValidationError("poll options cannot be blank")
		}
		options = append(options, text)
	}
	if len(options) < 2 {
		return nil, utils.NewValidationError("poll needs at least two options")
	}
	if strings.TrimSpace(req.Question) == "" {
		return nil, utils.NewValidationError("question is required")
	}

	now := time.Now().UTC()
	poll := &models.Poll{
		ID:        uuid.NewString(),
		TripID:    tripID,
		Question:  req.Question,
		IsActive:  true,
		CreatedBy: creator.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	rows := make([]models.PollOption, len(options))
	for i, text := range options {
		rows[i] = models.PollOption{
			ID:        uuid.NewString(),
			PollID:    poll.ID,
			Text:      text,
			SortOrder: i,
		}
	}
	if err := s.polls.CreatePoll(ctx, poll, rows); err != nil {
		return nil, err
	}
	return s.buildView(ctx, poll, creator.ID)
}

// ListPolls returns all polls of a trip with counts and the requester's vote.
func (s *PollService) ListPolls(ctx context.Context, tripID, userID string) ([]*models.PollView, error) {
	if _, _, err := s.guard.Require(ctx, tripID, userID, ActionRead); err != nil {
		return nil, err
	}
	polls, err := s.polls.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	views := make([]*models.PollView, 0, len(polls))
	for _, poll := range polls {
		view, err := s.buildView(ctx, poll, userID)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// GetPoll returns one poll with counts and the requester's vote.
func (s *PollService) GetPoll(ctx context.Context, pollID, userID string) (*models.PollView, error) {
	poll, err := s.requirePoll(ctx, pollID, userID, ActionRead)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, poll, userID)
}

// Vote records the user's choice. Voting again overwrites the prior choice;
// the store's unique (poll, user) upsert guarantees a single row.
func (s *PollService) Vote(ctx context.Context, pollID string, voter *models.User, req *models.VoteRequest) (*models.PollView, error) {
	poll, err := s.requirePoll(ctx, pollID, voter.ID, ActionRead)
	if err != nil {
		return nil, err
	}
	if !poll.IsActive {
		return nil, utils.NewValidationError("poll is closed")
	}

	belongs, err := s.polls.OptionBelongsToPoll(ctx, pollID, req.OptionID)
	if err != nil {
		return nil, err
	}
	if !belongs {
		return nil, utils.NewValidationError("option does not belong to this poll")
	}

	vote := &models.Vote{
		ID:        uuid.NewString(),
		PollID:    pollID,
		OptionID:  req.OptionID,
		UserID:    voter.ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.polls.UpsertVote(ctx, vote); err != nil {
		return nil, err
	}
	return s.buildView(ctx, poll, voter.ID)
}

// SetActive opens or closes a poll. Editor or owner.
func (s *PollService) SetActive(ctx context.Context, pollID, userID string, active bool) (*models.PollView, error) {
	poll, err := s.requirePoll(ctx, pollID, userID, ActionEditContent)
	if err != nil {
		return nil, err
	}
	if err := s.polls.SetActive(ctx, pollID, active); err != nil {
		return nil, err
	}
	poll.IsActive = active
	poll.UpdatedAt = time.Now().UTC()
	return s.buildView(ctx, poll, userID)
}

// DeletePoll removes a poll and its votes. Editor or owner.
func (s *PollService) DeletePoll(ctx context.Context, pollID, userID string) error {
	poll, err := s.requirePoll(ctx, pollID, userID, ActionEditContent)
	if err != nil {
		return err
	}
	return s.polls.DeletePoll(ctx, poll.ID)
}

func (s *PollService) requirePoll(ctx context.Context, pollID, userID string, action Action) (*models.Poll, error) {
	poll, err := s.polls.GetPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if poll == nil {
		return nil, utils.NewNotFoundError("Poll")
	}
	if _, _, err := s.guard.Require(ctx, poll.TripID, userID, action); err != nil {
		return nil, err
	}
	return poll, nil
}

func (s *PollService) buildView(ctx context.Context, poll *models.Poll, userID string) (*models.PollView, error) {
	options, err := s.polls.ListOptions(ctx, poll.ID)
	if err != nil {
		return nil, err
	}
	userVote, err := s.polls.UserVoteOption(ctx, poll.ID, userID)
	if err != nil {
		return nil, err
	}
	return &models.PollView{
		ID:               poll.ID,
		TripID:           poll.TripID,
		Question:         poll.Question,
		IsActive:         poll.IsActive,
		Options:          options,
		UserVoteOptionID: userVote,
		CreatedAt:        poll.CreatedAt,
		UpdatedAt:        poll.UpdatedAt,
	}, nil
}

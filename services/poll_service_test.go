package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayplan/wayplan-backend/models"
)

func pollFixture(t *testing.T) (*PollService, *fakePollStore, *models.Trip, *models.User, *models.User, *models.User) {
	t.Helper()
	members := newFakeTripStore()
	owner := members.addUser("owner@example.com", "Owner")
	editor := members.addUser("editor@example.com", "Editor")
	viewer := members.addUser("viewer@example.com", "Viewer")
	trip := members.addTrip("Oslo", owner)
	members.addMember(trip, editor, models.RoleEditor)
	members.addMember(trip, viewer, models.RoleViewer)

	store := newFakePollStore()
	return NewPollService(store, members), store, trip, owner, editor, viewer
}

func TestCreatePoll(t *testing.T) {
	svc, _, trip, owner, _, viewer := pollFixture(t)
	ctx := context.Background()

	poll, err := svc.CreatePoll(ctx, trip.ID, owner, &models.CreatePollRequest{
		Question: "Where to eat?",
		Options:  []string{" Ramen ", "Sushi"},
	})
	require.NoError(t, err)
	assert.True(t, poll.IsActive)
	require.Len(t, poll.Options, 2)
	assert.Equal(t, "Ramen", poll.Options[0].Text)
	assert.Nil(t, poll.UserVoteOptionID)

	// Fewer than two non-blank options is invalid.
	_, err = svc.CreatePoll(ctx, trip.ID, owner, &models.CreatePollRequest{
		Question: "Where?",
		Options:  []string{"Ramen", "   "},
	})
	require.Error(t, err)

	// Viewers cannot open polls.
	_, err = svc.CreatePoll(ctx, trip.ID, viewer, &models.CreatePollRequest{
		Question: "Where?",
		Options:  []string{"A", "B"},
	})
	require.Error(t, err)
	assertStatus(t, err, 403)
}

func TestVoteUpsertsSingleRow(t *testing.T) {
	svc, store, trip, owner, _, viewer := pollFixture(t)
	ctx := context.Background()

	poll, err := svc.CreatePoll(ctx, trip.ID, owner, &models.CreatePollRequest{
		Question: "Where to eat?",
		Options:  []string{"Ramen", "Sushi"},
	})
	require.NoError(t, err)
	first, second := poll.Options[0].ID, poll.Options[1].ID

	view, err := svc.Vote(ctx, poll.ID, viewer, &models.VoteRequest{OptionID: first})
	require.NoError(t, err)
	require.NotNil(t, view.UserVoteOptionID)
	assert.Equal(t, first, *view.UserVoteOptionID)
	assert.Equal(t, 1, view.Options[0].VoteCount)

	// Re-voting moves, not adds.
	view, err = svc.Vote(ctx, poll.ID, viewer, &models.VoteRequest{OptionID: second})
	require.NoError(t, err)
	assert.Equal(t, second, *view.UserVoteOptionID)
	assert.Equal(t, 0, view.Options[0].VoteCount)
	assert.Equal(t, 1, view.Options[1].VoteCount)
	assert.Len(t, store.votes[poll.ID], 1)
}

func TestVoteRejections(t *testing.T) {
	svc, _, trip, owner, editor, viewer := pollFixture(t)
	ctx := context.Background()

	poll, err := svc.CreatePoll(ctx, trip.ID, owner, &models.CreatePollRequest{
		Question: "Where?",
		Options:  []string{"A", "B"},
	})
	require.NoError(t, err)

	other, err := svc.CreatePoll(ctx, trip.ID, owner, &models.CreatePollRequest{
		Question: "When?",
		Options:  []string{"Now", "Later"},
	})
	require.NoError(t, err)

	// Option from another poll.
	_, err = svc.Vote(ctx, poll.ID, viewer, &models.VoteRequest{OptionID: other.Options[0].ID})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not belong")

	// Closed poll rejects votes; viewers cannot close it.
	_, err = svc.SetActive(ctx, poll.ID, viewer.ID, false)
	require.Error(t, err)
	assertStatus(t, err, 403)

	_, err = svc.SetActive(ctx, poll.ID, editor.ID, false)
	require.NoError(t, err)

	_, err = svc.Vote(ctx, poll.ID, viewer, &models.VoteRequest{OptionID: poll.Options[0].ID})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed")
}

func TestPollNotFoundBeforeForbidden(t *testing.T) {
	svc, _, trip, owner, _, _ := pollFixture(t)
	ctx := context.Background()

	_, err := svc.GetPoll(ctx, "no-such-poll", owner.ID)
	require.Error(t, err)
	assertStatus(t, err, 404)

	poll, err := svc.CreatePoll(ctx, trip.ID, owner, &models.CreatePollRequest{
		Question: "Where?", Options: []string{"A", "B"},
	})
	require.NoError(t, err)

	members := newFakeTripStore()
	stranger := members.addUser("stranger@example.com", "Stranger")
	_, err = svc.GetPoll(ctx, poll.ID, stranger.ID)
	require.Error(t, err)
	assertStatus(t, err, 403)
}

func TestDeletePoll(t *testing.T) {
	svc, store, trip, owner, editor, _ := pollFixture(t)
	ctx := context.Background()

	poll, err := svc.CreatePoll(ctx, trip.ID, owner, &models.CreatePollRequest{
		Question: "Where?", Options: []string{"A", "B"},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePoll(ctx, poll.ID, editor.ID))
	assert.Empty(t, store.polls)

	err = svc.DeletePoll(ctx, poll.ID, owner.ID)
	require.Error(t, err)
	assertStatus(t, err, 404)
}

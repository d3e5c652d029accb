package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayplan/wayplan-backend/models"
)

func chatFixture(t *testing.T) (*ChatService, *fakeChatStore, *captureBroadcaster, *models.Trip, *models.User, *models.User, *models.User) {
	t.Helper()
	members := newFakeTripStore()
	owner := members.addUser("owner@example.com", "Owner")
	editor := members.addUser("editor@example.com", "Editor")
	viewer := members.addUser("viewer@example.com", "Viewer")
	trip := members.addTrip("Porto", owner)
	members.addMember(trip, editor, models.RoleEditor)
	members.addMember(trip, viewer, models.RoleViewer)

	store := &fakeChatStore{}
	broadcast := &captureBroadcaster{}
	return NewChatService(store, members, broadcast), store, broadcast, trip, owner, editor, viewer
}

func TestSendMessageBroadcasts(t *testing.T) {
	svc, store, broadcast, trip, owner, _, _ := chatFixture(t)

	msg, err := svc.Send(context.Background(), trip.ID, owner, &models.SendMessageRequest{
		Content: "  hello there  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "hello there", msg.Content)
	assert.Len(t, store.messages, 1)
	require.Len(t, broadcast.delivered, 1)
	assert.Equal(t, msg.ID, broadcast.delivered[0].ID)
}

func TestSendMessageClientIDIdempotent(t *testing.T) {
	svc, store, broadcast, trip, owner, editor, _ := chatFixture(t)
	ctx := context.Background()
	clientID := "device-42"

	first, err := svc.Send(ctx, trip.ID, owner, &models.SendMessageRequest{
		Content:  "hello",
		ClientID: &clientID,
	})
	require.NoError(t, err)

	replay, err := svc.Send(ctx, trip.ID, owner, &models.SendMessageRequest{
		Content:  "hello again, but replayed",
		ClientID: &clientID,
	})
	require.NoError(t, err)

	// One row, one broadcast, first write wins.
	assert.Equal(t, first.ID, replay.ID)
	assert.Equal(t, "hello", replay.Content)
	assert.Len(t, store.messages, 1)
	assert.Len(t, broadcast.delivered, 1)

	// A different sender may reuse the same client id.
	_, err = svc.Send(ctx, trip.ID, editor, &models.SendMessageRequest{
		Content:  "different sender",
		ClientID: &clientID,
	})
	require.NoError(t, err)
	assert.Len(t, store.messages, 2)
}

func TestSendFromMemberReportsReplay(t *testing.T) {
	svc, store, broadcast, trip, _, _, viewer := chatFixture(t)
	ctx := context.Background()
	clientID := "device-7"

	// Realtime admission already checked membership, so a viewer may send.
	first, created, err := svc.SendFromMember(ctx, trip.ID, viewer, &models.SendMessageRequest{
		Content:  "made it to the hostel",
		ClientID: &clientID,
	})
	require.NoError(t, err)
	assert.True(t, created)
	require.Len(t, broadcast.delivered, 1)

	replay, created, err := svc.SendFromMember(ctx, trip.ID, viewer, &models.SendMessageRequest{
		Content:  "made it to the hostel",
		ClientID: &clientID,
	})
	require.NoError(t, err)

	// Replays come back with created=false and the stored row, so the
	// socket can echo it to the retrying sender without a broadcast.
	assert.False(t, created)
	assert.Equal(t, first.ID, replay.ID)
	assert.Len(t, store.messages, 1)
	assert.Len(t, broadcast.delivered, 1)
}

func TestSendEncryptedMessage(t *testing.T) {
	svc, _, _, trip, owner, _, _ := chatFixture(t)
	ctx := context.Background()

	msg, err := svc.Send(ctx, trip.ID, owner, &models.SendMessageRequest{
		EncryptedContent: "ciphertext==",
	})
	require.NoError(t, err)
	require.NotNil(t, msg.EncryptionVersion)
	assert.Equal(t, 1, *msg.EncryptionVersion)

	version := 2
	msg, err = svc.Send(ctx, trip.ID, owner, &models.SendMessageRequest{
		EncryptedContent:  "ciphertext2==",
		EncryptionVersion: &version,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, *msg.EncryptionVersion)

	// Version without payload is invalid.
	_, err = svc.Send(ctx, trip.ID, owner, &models.SendMessageRequest{
		Content:           "plain",
		EncryptionVersion: &version,
	})
	require.Error(t, err)

	// Blank message is invalid.
	_, err = svc.Send(ctx, trip.ID, owner, &models.SendMessageRequest{Content: "   "})
	require.Error(t, err)
}

func TestSendMessageViewerReadOnly(t *testing.T) {
	svc, _, _, trip, _, _, viewer := chatFixture(t)

	// Viewers can read but not post.
	_, err := svc.Send(context.Background(), trip.ID, viewer, &models.SendMessageRequest{Content: "hi"})
	require.Error(t, err)
	assertStatus(t, err, 403)

	_, err = svc.History(context.Background(), trip.ID, viewer.ID, nil, 0)
	require.NoError(t, err)
}

func TestHistoryChronologicalWithPaging(t *testing.T) {
	svc, store, _, trip, owner, _, _ := chatFixture(t)
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	for i := 0; i < 5; i++ {
		msg := &models.ChatMessage{
			ID:        string(rune('a' + i)),
			TripID:    trip.ID,
			Sender:    owner.Public(),
			Content:   "m",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		store.messages = append(store.messages, msg)
	}

	page, err := svc.History(ctx, trip.ID, owner.ID, nil, 3)
	require.NoError(t, err)
	require.Len(t, page, 3)
	// Newest three, oldest first.
	assert.Equal(t, "c", page[0].ID)
	assert.Equal(t, "e", page[2].ID)

	before := page[0].CreatedAt
	older, err := svc.History(ctx, trip.ID, owner.ID, &before, 3)
	require.NoError(t, err)
	require.Len(t, older, 2)
	assert.Equal(t, "a", older[0].ID)
	assert.Equal(t, "b", older[1].ID)
}

func TestHistoryLimitCapped(t *testing.T) {
	svc, store, _, trip, owner, _, _ := chatFixture(t)
	ctx := context.Background()

	for i := 0; i < 250; i++ {
		store.messages = append(store.messages, &models.ChatMessage{
			ID:        fmt.Sprintf("msg-%03d", i),
			TripID:    trip.ID,
			Sender:    owner.Public(),
			Content:   "m",
			CreatedAt: time.Now().UTC().Add(time.Duration(i) * time.Second),
		})
	}

	page, err := svc.History(ctx, trip.ID, owner.ID, nil, 1000)
	require.NoError(t, err)
	assert.Len(t, page, 200)
}

package services

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/wayplan/wayplan-backend/models"
	"github.com/wayplan/wayplan-backend/repository"
	"github.com/wayplan/wayplan-backend/utils"
)

// assertStatus checks the HTTP status an error would map to.
func assertStatus(t *testing.T, err error, code int) {
	t.Helper()
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	require.Equal(t, code, appErr.Code)
}

// In-memory stores backing the service tests. They honor the same contracts
// the Postgres repositories do: nil for missing rows, unique-constraint
// behavior for conditional writes.

type fakeTripStore struct {
	trips   map[string]*models.Trip
	members []*models.TripMember
	users   map[string]*models.User
}

func newFakeTripStore() *fakeTripStore {
	return &fakeTripStore{
		trips: make(map[string]*models.Trip),
		users: make(map[string]*models.User),
	}
}

func (f *fakeTripStore) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	return f.trips[tripID], nil
}

func (f *fakeTripStore) GetMember(ctx context.Context, tripID, userID string) (*models.TripMember, error) {
	for _, m := range f.members {
		if m.TripID == tripID && m.UserID == userID {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeTripStore) GetMemberByEmail(ctx context.Context, tripID, email string) (*models.TripMember, error) {
	for _, m := range f.members {
		if m.TripID != tripID {
			continue
		}
		if user, ok := f.users[m.UserID]; ok && user.Email == email {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeTripStore) CreateTripWithOwner(ctx context.Context, trip *models.Trip, owner *models.TripMember) error {
	f.trips[trip.ID] = trip
	f.members = append(f.members, owner)
	return nil
}

func (f *fakeTripStore) CreateMemberIfAbsent(ctx context.Context, member *models.TripMember) error {
	for _, m := range f.members {
		if m.TripID == member.TripID && m.UserID == member.UserID {
			return nil
		}
	}
	f.members = append(f.members, member)
	return nil
}

func (f *fakeTripStore) ListTripsForUser(ctx context.Context, userID string) ([]*models.Trip, error) {
	var trips []*models.Trip
	for _, m := range f.members {
		if m.UserID == userID {
			if trip, ok := f.trips[m.TripID]; ok {
				trips = append(trips, trip)
			}
		}
	}
	sort.Slice(trips, func(i, j int) bool { return trips[i].CreatedAt.After(trips[j].CreatedAt) })
	return trips, nil
}

func (f *fakeTripStore) UpdateTrip(ctx context.Context, trip *models.Trip) error {
	f.trips[trip.ID] = trip
	return nil
}

func (f *fakeTripStore) DeleteTrip(ctx context.Context, tripID string) error {
	delete(f.trips, tripID)
	return nil
}

func (f *fakeTripStore) ListMembers(ctx context.Context, tripID string) ([]models.TripMemberView, error) {
	var views []models.TripMemberView
	for _, m := range f.members {
		if m.TripID != tripID || m.Status != models.MemberActive {
			continue
		}
		user := f.users[m.UserID]
		views = append(views, models.TripMemberView{
			ID:        m.ID,
			User:      user.Public(),
			Role:      m.Role,
			Status:    m.Status,
			CreatedAt: m.CreatedAt,
		})
	}
	return views, nil
}

func (f *fakeTripStore) addUser(email, name string) *models.User {
	user := &models.User{ID: uuid.NewString(), Email: email, Name: name, IsActive: true}
	f.users[user.ID] = user
	return user
}

func (f *fakeTripStore) addTrip(title string, owner *models.User) *models.Trip {
	trip := &models.Trip{ID: uuid.NewString(), Title: title, CreatedBy: owner.ID, CreatedAt: time.Now().UTC()}
	f.trips[trip.ID] = trip
	f.addMember(trip, owner, models.RoleOwner)
	return trip
}

func (f *fakeTripStore) addMember(trip *models.Trip, user *models.User, role models.TripRole) *models.TripMember {
	member := &models.TripMember{
		ID:        uuid.NewString(),
		TripID:    trip.ID,
		UserID:    user.ID,
		Role:      role,
		Status:    models.MemberActive,
		CreatedAt: time.Now().UTC(),
	}
	f.members = append(f.members, member)
	return member
}

type fakeUserStore struct {
	byID map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byID: make(map[string]*models.User)}
}

func (f *fakeUserStore) CreateUser(ctx context.Context, user *models.User) error {
	for _, existing := range f.byID {
		if utils.EmailsEqual(existing.Email, user.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	f.byID[user.ID] = user
	return nil
}

// Email matching is case-insensitive, like the Postgres LOWER() lookup.
func (f *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range f.byID {
		if utils.EmailsEqual(user.Email, email) && user.IsActive {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return f.byID[id], nil
}

func (f *fakeUserStore) SearchByEmail(ctx context.Context, query string, limit int) ([]models.PublicUser, error) {
	var results []models.PublicUser
	for _, user := range f.byID {
		if len(results) == limit {
			break
		}
		results = append(results, user.Public())
	}
	return results, nil
}

type fakeInviteStore struct {
	invites map[string]*models.TripInvite
}

func newFakeInviteStore() *fakeInviteStore {
	return &fakeInviteStore{invites: make(map[string]*models.TripInvite)}
}

func (f *fakeInviteStore) CreateInvite(ctx context.Context, invite *models.TripInvite) error {
	copied := *invite
	f.invites[invite.ID] = &copied
	return nil
}

func (f *fakeInviteStore) GetByTokenHash(ctx context.Context, tokenHash string) (*models.TripInvite, error) {
	for _, invite := range f.invites {
		if invite.TokenHash == tokenHash {
			copied := *invite
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeInviteStore) GetByID(ctx context.Context, inviteID string) (*models.TripInvite, error) {
	invite, ok := f.invites[inviteID]
	if !ok {
		return nil, nil
	}
	copied := *invite
	return &copied, nil
}

func (f *fakeInviteStore) ListByTrip(ctx context.Context, tripID string) ([]*models.TripInvite, error) {
	var invites []*models.TripInvite
	for _, invite := range f.invites {
		if invite.TripID == tripID {
			copied := *invite
			invites = append(invites, &copied)
		}
	}
	return invites, nil
}

func (f *fakeInviteStore) HasPendingInvite(ctx context.Context, tripID, email string, now time.Time) (bool, error) {
	for _, invite := range f.invites {
		if invite.TripID == tripID && invite.Email == email &&
			invite.Status == models.InvitePending && now.Before(invite.ExpiresAt) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeInviteStore) TransitionStatus(ctx context.Context, inviteID string, to models.InviteStatus) (bool, error) {
	invite, ok := f.invites[inviteID]
	if !ok || invite.Status != models.InvitePending {
		return false, nil
	}
	invite.Status = to
	return true, nil
}

type fakeItineraryStore struct {
	items map[string]*models.ItineraryItem
}

func newFakeItineraryStore() *fakeItineraryStore {
	return &fakeItineraryStore{items: make(map[string]*models.ItineraryItem)}
}

func (f *fakeItineraryStore) CreateItem(ctx context.Context, item *models.ItineraryItem) error {
	next := 0
	for _, existing := range f.items {
		if existing.TripID == item.TripID && existing.SortOrder >= next {
			next = existing.SortOrder + 1
		}
	}
	item.SortOrder = next
	f.items[item.ID] = item
	return nil
}

func (f *fakeItineraryStore) GetItem(ctx context.Context, itemID string) (*models.ItineraryItem, error) {
	return f.items[itemID], nil
}

func (f *fakeItineraryStore) ListByTrip(ctx context.Context, tripID string) ([]*models.ItineraryItem, error) {
	var items []*models.ItineraryItem
	for _, item := range f.items {
		if item.TripID == tripID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].SortOrder != items[j].SortOrder {
			return items[i].SortOrder < items[j].SortOrder
		}
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (f *fakeItineraryStore) UpdateItem(ctx context.Context, item *models.ItineraryItem) error {
	f.items[item.ID] = item
	return nil
}

func (f *fakeItineraryStore) DeleteItem(ctx context.Context, itemID string) error {
	delete(f.items, itemID)
	return nil
}

func (f *fakeItineraryStore) Reorder(ctx context.Context, tripID string, entries []models.ReorderEntry) error {
	for _, entry := range entries {
		item, ok := f.items[entry.ID]
		if !ok || item.TripID != tripID {
			return repository.ErrItemNotInTrip
		}
	}
	for _, entry := range entries {
		f.items[entry.ID].SortOrder = entry.SortOrder
	}
	return nil
}

type fakeExpenseStore struct {
	expenses []*models.Expense
}

func (f *fakeExpenseStore) CreateExpenseWithSplits(ctx context.Context, expense *models.Expense) error {
	f.expenses = append(f.expenses, expense)
	return nil
}

func (f *fakeExpenseStore) ListByTrip(ctx context.Context, tripID string) ([]*models.Expense, error) {
	var result []*models.Expense
	for _, e := range f.expenses {
		if e.TripID == tripID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (f *fakeExpenseStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	for _, e := range f.expenses {
		if e.ID == expenseID {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeExpenseStore) DeleteExpense(ctx context.Context, expenseID string) error {
	kept := f.expenses[:0]
	for _, e := range f.expenses {
		if e.ID != expenseID {
			kept = append(kept, e)
		}
	}
	f.expenses = kept
	return nil
}

type fakePollStore struct {
	polls   map[string]*models.Poll
	options map[string][]models.PollOption
	votes   map[string]map[string]string // pollID -> userID -> optionID
}

func newFakePollStore() *fakePollStore {
	return &fakePollStore{
		polls:   make(map[string]*models.Poll),
		options: make(map[string][]models.PollOption),
		votes:   make(map[string]map[string]string),
	}
}

func (f *fakePollStore) CreatePoll(ctx context.Context, poll *models.Poll, options []models.PollOption) error {
	f.polls[poll.ID] = poll
	f.options[poll.ID] = options
	return nil
}

func (f *fakePollStore) GetPoll(ctx context.Context, pollID string) (*models.Poll, error) {
	return f.polls[pollID], nil
}

func (f *fakePollStore) ListByTrip(ctx context.Context, tripID string) ([]*models.Poll, error) {
	var polls []*models.Poll
	for _, poll := range f.polls {
		if poll.TripID == tripID {
			polls = append(polls, poll)
		}
	}
	sort.Slice(polls, func(i, j int) bool { return polls[i].CreatedAt.Before(polls[j].CreatedAt) })
	return polls, nil
}

func (f *fakePollStore) ListOptions(ctx context.Context, pollID string) ([]models.PollOptionView, error) {
	counts := make(map[string]int)
	for _, optionID := range f.votes[pollID] {
		counts[optionID]++
	}
	var views []models.PollOptionView
	for _, option := range f.options[pollID] {
		views = append(views, models.PollOptionView{
			ID:        option.ID,
			Text:      option.Text,
			VoteCount: counts[option.ID],
		})
	}
	return views, nil
}

func (f *fakePollStore) OptionBelongsToPoll(ctx context.Context, pollID, optionID string) (bool, error) {
	for _, option := range f.options[pollID] {
		if option.ID == optionID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePollStore) UpsertVote(ctx context.Context, vote *models.Vote) error {
	if f.votes[vote.PollID] == nil {
		f.votes[vote.PollID] = make(map[string]string)
	}
	f.votes[vote.PollID][vote.UserID] = vote.OptionID
	return nil
}

func (f *fakePollStore) UserVoteOption(ctx context.Context, pollID, userID string) (*string, error) {
	optionID, ok := f.votes[pollID][userID]
	if !ok {
		return nil, nil
	}
	return &optionID, nil
}

func (f *fakePollStore) SetActive(ctx context.Context, pollID string, active bool) error {
	if poll, ok := f.polls[pollID]; ok {
		poll.IsActive = active
	}
	return nil
}

func (f *fakePollStore) DeletePoll(ctx context.Context, pollID string) error {
	delete(f.polls, pollID)
	delete(f.options, pollID)
	delete(f.votes, pollID)
	return nil
}

type fakeChatStore struct {
	messages []*models.ChatMessage
}

func (f *fakeChatStore) CreateMessage(ctx context.Context, msg *models.ChatMessage) (*models.ChatMessage, bool, error) {
	if msg.ClientID != nil {
		for _, existing := range f.messages {
			if existing.TripID == msg.TripID && existing.Sender.ID == msg.Sender.ID &&
				existing.ClientID != nil && *existing.ClientID == *msg.ClientID {
				return existing, false, nil
			}
		}
	}
	f.messages = append(f.messages, msg)
	return msg, true, nil
}

func (f *fakeChatStore) FindByClientID(ctx context.Context, tripID, senderID, clientID string) (*models.ChatMessage, error) {
	for _, msg := range f.messages {
		if msg.TripID == tripID && msg.Sender.ID == senderID &&
			msg.ClientID != nil && *msg.ClientID == clientID {
			return msg, nil
		}
	}
	return nil, nil
}

func (f *fakeChatStore) ListBefore(ctx context.Context, tripID string, before *time.Time, limit int) ([]*models.ChatMessage, error) {
	var page []*models.ChatMessage
	for _, msg := range f.messages {
		if msg.TripID != tripID {
			continue
		}
		if before != nil && !msg.CreatedAt.Before(*before) {
			continue
		}
		page = append(page, msg)
	}
	sort.Slice(page, func(i, j int) bool { return page[i].CreatedAt.After(page[j].CreatedAt) })
	if len(page) > limit {
		page = page[:limit]
	}
	return page, nil
}

type captureNotifier struct {
	sent []string
	err  error
}

func (n *captureNotifier) Send(to, subject, body string) error {
	n.sent = append(n.sent, to+": "+body)
	return n.err
}

type captureBroadcaster struct {
	delivered []*models.ChatMessage
}

func (b *captureBroadcaster) Broadcast(tripID string, message *models.ChatMessage) {
	b.delivered = append(b.delivered, message)
}

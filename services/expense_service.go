package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wayplan/wayplan-backend/models"
	"github.com/wayplan/wayplan-backend/utils"
)

// ExpenseStore is the persistence surface the expense service needs.
type ExpenseStore interface {
	CreateExpenseWithSplits(ctx context.Context, expense *models.Expense) error
	ListByTrip(ctx context.Context, tripID string) ([]*models.Expense, error)
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)
	DeleteExpense(ctx context.Context, expenseID string) error
}

// ExpenseMemberStore covers the member lookups expense creation needs.
type ExpenseMemberStore interface {
	MembershipStore
	ListMembers(ctx context.Context, tripID string) ([]models.TripMemberView, error)
}

// ExpenseService handles expenses, splits and the per-member summary.
type ExpenseService struct {
	expenses ExpenseStore
	members  ExpenseMemberStore
	guard    *AccessGuard
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenses ExpenseStore, members ExpenseMemberStore) *ExpenseService {
	return &ExpenseService{expenses: expenses, members: members, guard: NewAccessGuard(members)}
}

// SplitEvenly divides an amount across n participants in minor units. Every
// share is the floored even share; the residual cents go to the last
// participant in iteration order so the shares always sum exactly to amount.
func SplitEvenly(amount models.Cents, n int) []models.Cents {
	base := amount / models.Cents(n)
	shares := make([]models.Cents, n)
	for i := range shares {
		shares[i] = base
	}
	shares[n-1] += amount - base*models.Cents(n)
	return shares
}

// CreateExpense validates and persists an expense with its splits as one
// atomic unit.
func (s *ExpenseService) CreateExpense(ctx context.Context, tripID string, creator *models.User, req *models.CreateExpenseRequest) (*models.Expense, error) {
	if _, _, err := s.guard.Require(ctx, tripID, creator.ID, ActionEditContent); err != nil {
		return nil, err
	}
	if req.Amount <= 0 {
		return nil, utils.NewValidationError("amount must be positive")
	}
	currency, err := utils.ValidateCurrency(req.Currency)
	if err != nil {
		return nil, err
	}

	members, err := s.members.ListMembers(ctx, tripID)
	if err != nil {
		return nil, err
	}
	usersByID := make(map[string]models.PublicUser, len(members))
	for _, m := range members {
		usersByID[m.User.ID] = m.User
	}

	payerID := req.PaidBy
	if payerID == "" {
		payerID = creator.ID
	}
	payer, ok := usersByID[payerID]
	if !ok {
		return nil, utils.NewValidationError("payer must be an active trip member")
	}

	var splits []models.ExpenseSplit
	if len(req.Splits) > 0 {
		splits, err = s.buildExplicitSplits(req, usersByID)
	} else {
		splits, err = s.buildEvenSplits(req, members, usersByID)
	}
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		ID:        uuid.NewString(),
		TripID:    tripID,
		Title:     req.Title,
		Amount:    req.Amount,
		Currency:  currency,
		PaidBy:    payer,
		CreatedBy: usersByID[creator.ID],
		Splits:    splits,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.expenses.CreateExpenseWithSplits(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *ExpenseService) buildExplicitSplits(req *models.CreateExpenseRequest, usersByID map[string]models.PublicUser) ([]models.ExpenseSplit, error) {
	var total models.Cents
	seen := map[string]bool{}
	splits := make([]models.ExpenseSplit, 0, len(req.Splits))
	for _, input := range req.Splits {
		user, ok := usersByID[input.UserID]
		if !ok {
			return nil, utils.NewValidationError("split user must be an active trip member")
		}
		if seen[input.UserID] {
			return nil, utils.NewValidationError("duplicate split user")
		}
		seen[input.UserID] = true
		if input.Amount < 0 {
			return nil, utils.NewValidationError("split amount cannot be negative")
		}
		total += input.Amount
		splits = append(splits, models.ExpenseSplit{
			ID:     uuid.NewString(),
			User:   user,
			Amount: input.Amount,
		})
	}
	if total != req.Amount {
		return nil, utils.NewValidationError("split amounts must sum exactly to the expense amount")
	}
	return splits, nil
}

func (s *ExpenseService) buildEvenSplits(req *models.CreateExpenseRequest, members []models.TripMemberView, usersByID map[string]models.PublicUser) ([]models.ExpenseSplit, error) {
	var participants []models.PublicUser
	if len(req.ParticipantIDs) > 0 {
		seen := map[string]bool{}
		for _, id := range req.ParticipantIDs {
			user, ok := usersByID[id]
			if !ok {
				return nil, utils.NewValidationError("participant must be an active trip member")
			}
			if seen[id] {
				return nil, utils.NewValidationError("duplicate participant")
			}
			seen[id] = true
			participants = append(participants, user)
		}
	} else {
		// Default to every active member, in membership order.
		for _, m := range members {
			participants = append(participants, m.User)
		}
	}
	if len(participants) == 0 {
		return nil, utils.NewValidationError("expense needs at least one participant")
	}

	shares := SplitEvenly(req.Amount, len(participants))
	splits := make([]models.ExpenseSplit, len(participants))
	for i, user := range participants {
		splits[i] = models.ExpenseSplit{
			ID:     uuid.NewString(),
			User:   user,
			Amount: shares[i],
		}
	}
	return splits, nil
}

// ListExpenses returns all expenses of a trip. Any member may look.
func (s *ExpenseService) ListExpenses(ctx context.Context, tripID, userID string) ([]*models.Expense, error) {
	if _, _, err := s.guard.Require(ctx, tripID, userID, ActionRead); err != nil {
		return nil, err
	}
	return s.expenses.ListByTrip(ctx, tripID)
}

// DeleteExpense removes an expense. Editor or owner.
func (s *ExpenseService) DeleteExpense(ctx context.Context, expenseID, userID string) error {
	expense, err := s.expenses.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}
	if expense == nil {
		return utils.NewNotFoundError("Expense")
	}
	if _, _, err := s.guard.Require(ctx, expense.TripID, userID, ActionEditContent); err != nil {
		return err
	}
	return s.expenses.DeleteExpense(ctx, expenseID)
}

// Summary computes paid/owed/net per active member. Members with no expense
// activity report zeros rather than being absent.
func (s *ExpenseService) Summary(ctx context.Context, tripID, userID string) ([]models.MemberBalance, error) {
	if _, _, err := s.guard.Require(ctx, tripID, userID, ActionRead); err != nil {
		return nil, err
	}

	members, err := s.members.ListMembers(ctx, tripID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenses.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	return SummarizeBalances(members, expenses), nil
}

// SummarizeBalances folds expenses into per-member paid/owed/net rows, one
// row per active member in membership order.
func SummarizeBalances(members []models.TripMemberView, expenses []*models.Expense) []models.MemberBalance {
	balances := make([]models.MemberBalance, len(members))
	index := make(map[string]int, len(members))
	for i, m := range members {
		balances[i] = models.MemberBalance{User: m.User}
		index[m.User.ID] = i
	}

	for _, expense := range expenses {
		if i, ok := index[expense.PaidBy.ID]; ok {
			balances[i].Paid += expense.Amount
		}
		for _, split := range expense.Splits {
			if i, ok := index[split.User.ID]; ok {
				balances[i].Owed += split.Amount
			}
		}
	}
	for i := range balances {
		balances[i].Net = balances[i].Paid - balances[i].Owed
	}
	return balances
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/wayplan/wayplan-backend/models"
)

// ExcelService handles Excel export of a trip's expenses
type ExcelService struct {
	expenses ExpenseStore
	members  ExpenseMemberStore
	guard    *AccessGuard
}

// NewExcelService creates a new Excel service
func NewExcelService(expenses ExpenseStore, members ExpenseMemberStore) *ExcelService {
	return &ExcelService{
		expenses: expenses,
		members:  members,
		guard:    NewAccessGuard(members),
	}
}

// ExportTripExpenses generates an Excel workbook with a balance summary sheet
// and a per-expense matrix sheet. Any active member may export.
func (s *ExcelService) ExportTripExpenses(ctx context.Context, tripID, userID string) (*excelize.File, string, error) {
	trip, _, err := s.guard.Require(ctx, tripID, userID, ActionRead)
	if err != nil {
		return nil, "", err
	}

	members, err := s.members.ListMembers(ctx, tripID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list members: %v", err)
	}
	expenses, err := s.expenses.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list expenses: %v", err)
	}

	f := excelize.NewFile()

	if err := s.createSummarySheet(f, members, expenses); err != nil {
		return nil, "", fmt.Errorf("failed to create summary sheet: %v", err)
	}
	if err := s.createExpenseSheet(f, members, expenses); err != nil {
		return nil, "", fmt.Errorf("failed to create expense sheet: %v", err)
	}

	f.DeleteSheet("Sheet1")

	filename := fmt.Sprintf("%s-expenses-%s.xlsx",
		slugify(trip.Title),
		time.Now().Format("2006-01-02"))

	return f, filename, nil
}

// createSummarySheet creates Sheet 1: per-member balances
func (s *ExcelService) createSummarySheet(f *excelize.File, members []models.TripMemberView, expenses []*models.Expense) error {
	sheetName := "Summary"
	f.NewSheet(sheetName)
	sheetIndex, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(sheetIndex)

	headers := []string{"Member", "Email", "Paid", "Owed", "Net"}
	for i, header := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+i)))
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6F3FF"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", string(rune('A'+len(headers)-1))), headerStyle)

	balances := SummarizeBalances(members, expenses)
	for i, balance := range balances {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), balance.User.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), balance.User.Email)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), cellAmount(balance.Paid))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), cellAmount(balance.Owed))
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), cellAmount(balance.Net))
	}

	f.SetColWidth(sheetName, "A", "E", 18)

	return nil
}

// createExpenseSheet creates Sheet 2: one row per expense plus a column per
// member with that member's share.
func (s *ExcelService) createExpenseSheet(f *excelize.File, members []models.TripMemberView, expenses []*models.Expense) error {
	sheetName := "Expenses"
	f.NewSheet(sheetName)

	headers := []string{"Date", "Title", "Currency", "Paid By", "Amount"}
	for _, member := range members {
		headers = append(headers, member.User.Name)
	}

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6F3FF"}, Pattern: 1},
	})
	lastCol, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	f.SetCellStyle(sheetName, "A1", lastCol, headerStyle)

	for i, expense := range expenses {
		row := i + 2
		shares := make(map[string]models.Cents, len(expense.Splits))
		for _, split := range expense.Splits {
			shares[split.User.ID] = split.Amount
		}

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), expense.CreatedAt.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), expense.Title)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), expense.Currency)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), expense.PaidBy.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), cellAmount(expense.Amount))

		for j, member := range members {
			cell, err := excelize.CoordinatesToCellName(6+j, row)
			if err != nil {
				return err
			}
			f.SetCellValue(sheetName, cell, cellAmount(shares[member.User.ID]))
		}
	}

	colName, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	f.SetColWidth(sheetName, "A", colName[:len(colName)-1], 14)
	f.SetColWidth(sheetName, "B", "B", 24)

	return nil
}

// cellAmount converts minor units to a spreadsheet-friendly decimal value.
func cellAmount(c models.Cents) float64 {
	return float64(c) / 100
}

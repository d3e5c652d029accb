package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/wayplan/wayplan-backend/middleware"
	"github.com/wayplan/wayplan-backend/models"
	"github.com/wayplan/wayplan-backend/utils"
)

// CreateExpense records an expense with its splits
func CreateExpense(c *gin.Context) {
	var request models.CreateExpenseRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	user := middleware.CurrentUser(c)
	expense, err := handlerServices.ExpenseService.CreateExpense(c.Request.Context(), c.Param("id"), user, &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleCreated(c, expense)
}

// ListExpenses returns a trip's expenses, newest first
func ListExpenses(c *gin.Context) {
	user := middleware.CurrentUser(c)
	expenses, err := handlerServices.ExpenseService.ListExpenses(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, expenses)
}

// DeleteExpense removes an expense and its splits
func DeleteExpense(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := handlerServices.ExpenseService.DeleteExpense(c.Request.Context(), c.Param("expenseId"), user.ID); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleNoContent(c)
}

// ExpenseSummary returns per-member paid/owed/net balances
func ExpenseSummary(c *gin.Context) {
	user := middleware.CurrentUser(c)
	balances, err := handlerServices.ExpenseService.Summary(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, balances)
}

// ExportExpensesToExcel streams the trip's expenses as an .xlsx download
func ExportExpensesToExcel(c *gin.Context) {
	user := middleware.CurrentUser(c)
	file, filename, err := handlerServices.ExcelService.ExportTripExpenses(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Transfer-Encoding", "binary")

	if err := file.Write(c.Writer); err != nil {
		utils.HandleError(c, utils.NewInternalError("Failed to write Excel file"))
		return
	}
}

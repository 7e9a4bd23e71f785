// Package api - Expense handlers
package api

import (
	"net/http"

	"github.com/aethra/atlas/internal/errors"
	"github.com/aethra/atlas/internal/expenses"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExpenseHandler contains expense API handlers
type ExpenseHandler struct {
	db *gorm.DB
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(db *gorm.DB) *ExpenseHandler {
	return &ExpenseHandler{db: db}
}

// ListExpenses returns expenses
// GET /api/expenses
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	params := parseListParams(c)

	query := h.db.Model(&expenses.Expense{})
	if projectID := c.Query("project_id"); projectID != "" {
		id, err := uuid.Parse(projectID)
		if err != nil {
			respondError(c, errors.NewValidationError("project_id", "must be a uuid"))
			return
		}
		query = query.Where("project_id = ?", id)
	}
	if vendorID := c.Query("vendor_id"); vendorID != "" {
		id, err := uuid.Parse(vendorID)
		if err != nil {
			respondError(c, errors.NewValidationError("vendor_id", "must be a uuid"))
			return
		}
		query = query.Where("vendor_id = ?", id)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}

	var results []expenses.Expense
	err := query.Preload("Vendor").Preload("Project").
		Order("date DESC, created_at DESC").
		Offset(params.Offset()).Limit(params.PageSize).
		Find(&results).Error
	if err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}
	listResponse(c, results, total, params)
}

// GetExpense returns a single expense
// GET /api/expenses/:id
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var expense expenses.Expense
	err := h.db.Preload("Vendor").Preload("Project").
		First(&expense, "id = ?", id).Error
	if err != nil {
		respondError(c, errors.FromDB(err, "expense"))
		return
	}
	c.JSON(http.StatusOK, expense)
}

// CreateExpense records an expense booked by the current user
// POST /api/expenses
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	user := currentUser(c)

	var input struct {
		ProjectID   *uuid.UUID      `json:"project_id"`
		VendorID    *uuid.UUID      `json:"vendor_id"`
		Name        string          `json:"name" binding:"required"`
		Date        *string         `json:"date"`
		Amount      decimal.Decimal `json:"amount" binding:"required"`
		Description string          `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	if input.Amount.IsNegative() {
		respondError(c, errors.NewValidationError("amount", "must not be negative"))
		return
	}

	date, err := requireDate("date", input.Date)
	if err != nil {
		respondError(c, err)
		return
	}

	expense := expenses.Expense{
		ProjectID:   input.ProjectID,
		VendorID:    input.VendorID,
		UserID:      &user.ID,
		Name:        input.Name,
		Date:        date,
		Amount:      input.Amount,
		Description: input.Description,
	}
	if err := h.db.Create(&expense).Error; err != nil {
		respondError(c, errors.FromDB(err, "expense"))
		return
	}
	c.JSON(http.StatusCreated, expense)
}

// UpdateExpense applies a partial update
// PUT/PATCH /api/expenses/:id
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var expense expenses.Expense
	if err := h.db.First(&expense, "id = ?", id).Error; err != nil {
		respondError(c, errors.FromDB(err, "expense"))
		return
	}

	var input struct {
		ProjectID   *uuid.UUID       `json:"project_id"`
		VendorID    *uuid.UUID       `json:"vendor_id"`
		Name        *string          `json:"name"`
		Date        *string          `json:"date"`
		Amount      *decimal.Decimal `json:"amount"`
		Description *string          `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	if input.ProjectID != nil {
		expense.ProjectID = input.ProjectID
	}
	if input.VendorID != nil {
		expense.VendorID = input.VendorID
	}
	if input.Name != nil {
		expense.Name = *input.Name
	}
	if input.Date != nil {
		date, err := requireDate("date", input.Date)
		if err != nil {
			respondError(c, err)
			return
		}
		expense.Date = date
	}
	if input.Amount != nil {
		if input.Amount.IsNegative() {
			respondError(c, errors.NewValidationError("amount", "must not be negative"))
			return
		}
		expense.Amount = *input.Amount
	}
	if input.Description != nil {
		expense.Description = *input.Description
	}

	if err := h.db.Save(&expense).Error; err != nil {
		respondError(c, errors.FromDB(err, "expense"))
		return
	}
	c.JSON(http.StatusOK, expense)
}

// DeleteExpense removes an expense
// DELETE /api/expenses/:id
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	result := h.db.Where("id = ?", id).Delete(&expenses.Expense{})
	if result.Error != nil {
		respondError(c, errors.FromDB(result.Error, "expense"))
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, errors.NewNotFoundError("expense"))
		return
	}
	c.Status(http.StatusNoContent)
}

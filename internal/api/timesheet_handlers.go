// Package api - Timesheet handlers
package api

import (
	"net/http"

	"github.com/aethra/atlas/internal/errors"
	"github.com/aethra/atlas/internal/timesheets"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimesheetHandler contains time entry API handlers
type TimesheetHandler struct {
	db *gorm.DB
}

// NewTimesheetHandler creates a new timesheet handler
func NewTimesheetHandler(db *gorm.DB) *TimesheetHandler {
	return &TimesheetHandler{db: db}
}

// ListTimeEntries returns the current user's entries
// GET /api/time-entries
func (h *TimesheetHandler) ListTimeEntries(c *gin.Context) {
	user := currentUser(c)
	params := parseListParams(c)

	query := h.db.Model(&timesheets.TimeEntry{}).Where("user_id = ?", user.ID)
	if taskID := c.Query("task_id"); taskID != "" {
		id, err := uuid.Parse(taskID)
		if err != nil {
			respondError(c, errors.NewValidationError("task_id", "must be a uuid"))
			return
		}
		query = query.Where("task_id = ?", id)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}

	var entries []timesheets.TimeEntry
	err := query.Preload("Task").
		Order("date DESC, created_at DESC").
		Offset(params.Offset()).Limit(params.PageSize).
		Find(&entries).Error
	if err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}
	listResponse(c, entries, total, params)
}

// GetTimeEntry returns one of the current user's entries
// GET /api/time-entries/:id
func (h *TimesheetHandler) GetTimeEntry(c *gin.Context) {
	user := currentUser(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var entry timesheets.TimeEntry
	err := h.db.Preload("Task").
		First(&entry, "id = ? AND user_id = ?", id, user.ID).Error
	if err != nil {
		respondError(c, errors.FromDB(err, "time entry"))
		return
	}
	c.JSON(http.StatusOK, entry)
}

// CreateTimeEntry books time on a task for the current user
// POST /api/time-entries
func (h *TimesheetHandler) CreateTimeEntry(c *gin.Context) {
	user := currentUser(c)

	var input struct {
		TaskID          uuid.UUID `json:"task_id" binding:"required"`
		Date            *string   `json:"date"`
		DurationMinutes int       `json:"duration_minutes"`
		Description     string    `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	if input.DurationMinutes < 0 {
		respondError(c, errors.NewValidationError("duration_minutes", "must not be negative"))
		return
	}

	date, err := requireDate("date", input.Date)
	if err != nil {
		respondError(c, err)
		return
	}

	var taskCount int64
	h.db.Table("tasks").Where("id = ?", input.TaskID).Count(&taskCount)
	if taskCount == 0 {
		respondError(c, errors.NewNotFoundError("task"))
		return
	}

	entry := timesheets.TimeEntry{
		UserID:          user.ID,
		TaskID:          input.TaskID,
		Date:            date,
		DurationMinutes: input.DurationMinutes,
		Description:     input.Description,
	}
	if err := h.db.Create(&entry).Error; err != nil {
		respondError(c, errors.FromDB(err, "time entry"))
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// UpdateTimeEntry applies a partial update to an entry the user owns
// PUT/PATCH /api/time-entries/:id
func (h *TimesheetHandler) UpdateTimeEntry(c *gin.Context) {
	user := currentUser(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var entry timesheets.TimeEntry
	err := h.db.First(&entry, "id = ? AND user_id = ?", id, user.ID).Error
	if err != nil {
		respondError(c, errors.FromDB(err, "time entry"))
		return
	}

	var input struct {
		TaskID          *uuid.UUID `json:"task_id"`
		Date            *string    `json:"date"`
		DurationMinutes *int       `json:"duration_minutes"`
		Description     *string    `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	if input.TaskID != nil {
		var taskCount int64
		h.db.Table("tasks").Where("id = ?", *input.TaskID).Count(&taskCount)
		if taskCount == 0 {
			respondError(c, errors.NewNotFoundError("task"))
			return
		}
		entry.TaskID = *input.TaskID
	}
	if input.Date != nil {
		date, err := requireDate("date", input.Date)
		if err != nil {
			respondError(c, err)
			return
		}
		entry.Date = date
	}
	if input.DurationMinutes != nil {
		if *input.DurationMinutes < 0 {
			respondError(c, errors.NewValidationError("duration_minutes", "must not be negative"))
			return
		}
		entry.DurationMinutes = *input.DurationMinutes
	}
	if input.Description != nil {
		entry.Description = *input.Description
	}

	if err := h.db.Save(&entry).Error; err != nil {
		respondError(c, errors.FromDB(err, "time entry"))
		return
	}
	c.JSON(http.StatusOK, entry)
}

// DeleteTimeEntry removes an entry the user owns
// DELETE /api/time-entries/:id
func (h *TimesheetHandler) DeleteTimeEntry(c *gin.Context) {
	user := currentUser(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	result := h.db.Where("id = ? AND user_id = ?", id, user.ID).
		Delete(&timesheets.TimeEntry{})
	if result.Error != nil {
		respondError(c, errors.FromDB(result.Error, "time entry"))
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, errors.NewNotFoundError("time entry"))
		return
	}
	c.Status(http.StatusNoContent)
}

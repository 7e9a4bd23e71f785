// Package api - Task handlers
package api

import (
	"net/http"

	"github.com/aethra/atlas/internal/errors"
	"github.com/aethra/atlas/internal/models"
	"github.com/aethra/atlas/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TaskHandler contains task API handlers
type TaskHandler struct {
	db    *gorm.DB
	tasks *services.TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(db *gorm.DB, tasks *services.TaskService) *TaskHandler {
	return &TaskHandler{db: db, tasks: tasks}
}

// scopedTasks limits a query to tasks on projects the user is a member of.
// Task visibility follows team membership, not ownership.
func (h *TaskHandler) scopedTasks(userID uuid.UUID) *gorm.DB {
	member := h.db.Table("project_members").
		Select("project_id").
		Where("user_id = ?", userID)
	return h.db.Model(&models.Task{}).Where("project_id IN (?)", member)
}

// ListTasks returns tasks on the current user's projects
// GET /api/tasks
func (h *TaskHandler) ListTasks(c *gin.Context) {
	user := currentUser(c)
	params := parseListParams(c)

	query := h.scopedTasks(user.ID)
	if projectID := c.Query("project_id"); projectID != "" {
		id, err := uuid.Parse(projectID)
		if err != nil {
			respondError(c, errors.NewValidationError("project_id", "must be a uuid"))
			return
		}
		query = query.Where("project_id = ?", id)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if assignee := c.Query("assignee_id"); assignee != "" {
		id, err := uuid.Parse(assignee)
		if err != nil {
			respondError(c, errors.NewValidationError("assignee_id", "must be a uuid"))
			return
		}
		query = query.Where("assignee_id = ?", id)
	}
	query = applySearch(query, c, "name", "description")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}

	var tasks []models.Task
	err := query.Preload("Assignee").
		Order("priority ASC, created_at DESC").
		Offset(params.Offset()).Limit(params.PageSize).
		Find(&tasks).Error
	if err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}
	listResponse(c, tasks, total, params)
}

// GetTask returns a single task with its subtasks
// GET /api/tasks/:id
func (h *TaskHandler) GetTask(c *gin.Context) {
	user := currentUser(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var task models.Task
	err := h.scopedTasks(user.ID).
		Preload("Assignee").Preload("Subtasks").
		First(&task, "tasks.id = ?", id).Error
	if err != nil {
		respondError(c, errors.FromDB(err, "task"))
		return
	}
	c.JSON(http.StatusOK, task)
}

// CreateTask creates a task on a project the user can see
// POST /api/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	user := currentUser(c)

	var input struct {
		ProjectID     uuid.UUID        `json:"project_id" binding:"required"`
		Name          string           `json:"name" binding:"required"`
		Description   string           `json:"description"`
		AssigneeID    *uuid.UUID       `json:"assignee_id"`
		ParentID      *uuid.UUID       `json:"parent_id"`
		Status        string           `json:"status"`
		Priority      *int             `json:"priority"`
		DueDate       *string          `json:"due_date"`
		EstimateHours *decimal.Decimal `json:"estimate_hours"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	var projectCount int64
	member := h.db.Table("project_members").
		Select("project_id").
		Where("user_id = ?", user.ID)
	h.db.Model(&models.Project{}).
		Where("id = ? AND (owner_id = ? OR id IN (?))", input.ProjectID, user.ID, member).
		Count(&projectCount)
	if projectCount == 0 {
		respondError(c, errors.NewNotFoundError("project"))
		return
	}

	status := models.TaskStatus(input.Status)
	if status == "" {
		status = models.TaskNew
	}
	if !validTaskStatus(status) {
		respondError(c, errors.NewValidationError("status", "unknown task status"))
		return
	}

	priority := 3
	if input.Priority != nil {
		priority = *input.Priority
	}
	if priority < 1 || priority > 5 {
		respondError(c, errors.NewValidationError("priority", "must be between 1 and 5"))
		return
	}

	dueDate, err := parseDate("due_date", input.DueDate)
	if err != nil {
		respondError(c, err)
		return
	}

	if input.ParentID != nil {
		if err := h.tasks.ValidateParent(uuid.Nil, input.ParentID); err != nil {
			respondError(c, err)
			return
		}
		var parent models.Task
		if err := h.db.First(&parent, "id = ?", *input.ParentID).Error; err != nil {
			respondError(c, errors.FromDB(err, "parent task"))
			return
		}
		if parent.ProjectID != input.ProjectID {
			respondError(c, errors.NewValidationError("parent_id", "parent task belongs to a different project"))
			return
		}
	}

	task := models.Task{
		ProjectID:     input.ProjectID,
		Name:          input.Name,
		Description:   input.Description,
		AssigneeID:    input.AssigneeID,
		ParentID:      input.ParentID,
		Status:        status,
		Priority:      priority,
		DueDate:       dueDate,
		EstimateHours: input.EstimateHours,
	}
	if err := h.db.Create(&task).Error; err != nil {
		respondError(c, errors.FromDB(err, "task"))
		return
	}
	c.JSON(http.StatusCreated, task)
}

// UpdateTask applies a partial update, re-checking the parent chain when it
// changes
// PUT/PATCH /api/tasks/:id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	user := currentUser(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var task models.Task
	err := h.scopedTasks(user.ID).First(&task, "tasks.id = ?", id).Error
	if err != nil {
		respondError(c, errors.FromDB(err, "task"))
		return
	}

	var input struct {
		Name          *string          `json:"name"`
		Description   *string          `json:"description"`
		AssigneeID    *uuid.UUID       `json:"assignee_id"`
		ParentID      *uuid.UUID       `json:"parent_id"`
		Status        *string          `json:"status"`
		Priority      *int             `json:"priority"`
		DueDate       *string          `json:"due_date"`
		EstimateHours *decimal.Decimal `json:"estimate_hours"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	if input.Name != nil {
		task.Name = *input.Name
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.AssigneeID != nil {
		task.AssigneeID = input.AssigneeID
	}
	if input.ParentID != nil {
		if err := h.tasks.ValidateParent(task.ID, input.ParentID); err != nil {
			respondError(c, err)
			return
		}
		task.ParentID = input.ParentID
	}
	if input.Status != nil {
		status := models.TaskStatus(*input.Status)
		if !validTaskStatus(status) {
			respondError(c, errors.NewValidationError("status", "unknown task status"))
			return
		}
		task.Status = status
	}
	if input.Priority != nil {
		if *input.Priority < 1 || *input.Priority > 5 {
			respondError(c, errors.NewValidationError("priority", "must be between 1 and 5"))
			return
		}
		task.Priority = *input.Priority
	}
	if input.DueDate != nil {
		dueDate, err := parseDate("due_date", input.DueDate)
		if err != nil {
			respondError(c, err)
			return
		}
		task.DueDate = dueDate
	}
	if input.EstimateHours != nil {
		task.EstimateHours = input.EstimateHours
	}

	if err := h.db.Save(&task).Error; err != nil {
		respondError(c, errors.FromDB(err, "task"))
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTask removes a task and its whole subtree
// DELETE /api/tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	user := currentUser(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var task models.Task
	err := h.scopedTasks(user.ID).First(&task, "tasks.id = ?", id).Error
	if err != nil {
		respondError(c, errors.FromDB(err, "task"))
		return
	}

	if err := h.tasks.DeleteSubtree(task.ID); err != nil {
		respondError(c, errors.FromDB(err, "task"))
		return
	}
	c.Status(http.StatusNoContent)
}

func validTaskStatus(s models.TaskStatus) bool {
	switch s {
	case models.TaskNew, models.TaskInProgress, models.TaskDone, models.TaskBlocked:
		return true
	}
	return false
}

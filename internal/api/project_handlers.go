// Package api - Project handlers
package api

import (
	"net/http"

	"github.com/aethra/atlas/internal/errors"
	"github.com/aethra/atlas/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProjectHandler contains project API handlers
type ProjectHandler struct {
	db *gorm.DB
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(db *gorm.DB) *ProjectHandler {
	return &ProjectHandler{db: db}
}

// scopedProjects limits a query to projects the user owns or is a member of
func (h *ProjectHandler) scopedProjects(userID uuid.UUID) *gorm.DB {
	member := h.db.Table("project_members").
		Select("project_id").
		Where("user_id = ?", userID)
	return h.db.Model(&models.Project{}).
		Where("owner_id = ? OR id IN (?)", userID, member)
}

// ListProjects returns projects visible to the current user
// GET /api/projects
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	user := currentUser(c)
	params := parseListParams(c)

	query := h.scopedProjects(user.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	query = applySearch(query, c, "name", "description")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}

	var projects []models.Project
	err := query.Preload("Customer").Preload("Owner").
		Order("created_at DESC").
		Offset(params.Offset()).Limit(params.PageSize).
		Find(&projects).Error
	if err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}
	listResponse(c, projects, total, params)
}

// GetProject returns a single project
// GET /api/projects/:id
func (h *ProjectHandler) GetProject(c *gin.Context) {
	user := currentUser(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var project models.Project
	err := h.scopedProjects(user.ID).
		Preload("Customer").Preload("Owner").Preload("Team").
		First(&project, "projects.id = ?", id).Error
	if err != nil {
		respondError(c, errors.FromDB(err, "project"))
		return
	}
	c.JSON(http.StatusOK, project)
}

// CreateProject creates a new project owned by the current user unless an
// explicit owner is given
// POST /api/projects
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	user := currentUser(c)

	var input struct {
		Name        string           `json:"name" binding:"required"`
		Description string           `json:"description"`
		CustomerID  *uuid.UUID       `json:"customer_id"`
		OwnerID     *uuid.UUID       `json:"owner_id"`
		StartDate   *string          `json:"start_date"`
		EndDate     *string          `json:"end_date"`
		Status      string           `json:"status"`
		Budget      *decimal.Decimal `json:"budget"`
		TeamIDs     []uuid.UUID      `json:"team_ids"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	startDate, err := parseDate("start_date", input.StartDate)
	if err != nil {
		respondError(c, err)
		return
	}
	endDate, err := parseDate("end_date", input.EndDate)
	if err != nil {
		respondError(c, err)
		return
	}

	status := models.ProjectStatus(input.Status)
	if status == "" {
		status = models.ProjectDraft
	}
	if !validProjectStatus(status) {
		respondError(c, errors.NewValidationError("status", "unknown project status"))
		return
	}

	ownerID := input.OwnerID
	if ownerID == nil {
		ownerID = &user.ID
	}

	project := models.Project{
		Name:        input.Name,
		Description: input.Description,
		CustomerID:  input.CustomerID,
		OwnerID:     ownerID,
		StartDate:   startDate,
		EndDate:     endDate,
		Status:      status,
		Budget:      input.Budget,
	}
	if err := h.db.Create(&project).Error; err != nil {
		respondError(c, errors.FromDB(err, "project"))
		return
	}

	if len(input.TeamIDs) > 0 {
		if err := h.replaceTeam(&project, input.TeamIDs); err != nil {
			respondError(c, err)
			return
		}
	}

	h.db.Preload("Customer").Preload("Owner").Preload("Team").
		First(&project, "id = ?", project.ID)
	c.JSON(http.StatusCreated, project)
}

// UpdateProject applies a partial update
// PUT/PATCH /api/projects/:id
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	user := currentUser(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var project models.Project
	err := h.scopedProjects(user.ID).First(&project, "projects.id = ?", id).Error
	if err != nil {
		respondError(c, errors.FromDB(err, "project"))
		return
	}

	var input struct {
		Name        *string          `json:"name"`
		Description *string          `json:"description"`
		CustomerID  *uuid.UUID       `json:"customer_id"`
		OwnerID     *uuid.UUID       `json:"owner_id"`
		StartDate   *string          `json:"start_date"`
		EndDate     *string          `json:"end_date"`
		Status      *string          `json:"status"`
		Budget      *decimal.Decimal `json:"budget"`
		TeamIDs     []uuid.UUID      `json:"team_ids"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	if input.Name != nil {
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.CustomerID != nil {
		project.CustomerID = input.CustomerID
	}
	if input.OwnerID != nil {
		project.OwnerID = input.OwnerID
	}
	if input.StartDate != nil {
		startDate, err := parseDate("start_date", input.StartDate)
		if err != nil {
			respondError(c, err)
			return
		}
		project.StartDate = startDate
	}
	if input.EndDate != nil {
		endDate, err := parseDate("end_date", input.EndDate)
		if err != nil {
			respondError(c, err)
			return
		}
		project.EndDate = endDate
	}
	if input.Status != nil {
		status := models.ProjectStatus(*input.Status)
		if !validProjectStatus(status) {
			respondError(c, errors.NewValidationError("status", "unknown project status"))
			return
		}
		project.Status = status
	}
	if input.Budget != nil {
		project.Budget = input.Budget
	}

	if err := h.db.Save(&project).Error; err != nil {
		respondError(c, errors.FromDB(err, "project"))
		return
	}

	if input.TeamIDs != nil {
		if err := h.replaceTeam(&project, input.TeamIDs); err != nil {
			respondError(c, err)
			return
		}
	}

	h.db.Preload("Customer").Preload("Owner").Preload("Team").
		First(&project, "id = ?", project.ID)
	c.JSON(http.StatusOK, project)
}

// DeleteProject removes a project and cascades to its tasks; expenses,
// analytics events, orders, and invoices keep a nullable reference and
// are cleared
// DELETE /api/projects/:id
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	user := currentUser(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var project models.Project
	err := h.scopedProjects(user.ID).First(&project, "projects.id = ?", id).Error
	if err != nil {
		respondError(c, errors.FromDB(err, "project"))
		return
	}

	// Documents keep a nullable project reference; clear them all here so
	// every driver behaves the same regardless of FK enforcement.
	for _, table := range []string{
		"expenses", "analytics_events",
		"sales_orders", "purchase_orders", "invoices",
	} {
		h.db.Table(table).
			Where("project_id = ?", id).
			Update("project_id", nil)
	}

	if err := h.db.Select("Team", "Tasks").Delete(&project).Error; err != nil {
		respondError(c, errors.FromDB(err, "project"))
		return
	}
	c.Status(http.StatusNoContent)
}

// replaceTeam swaps the member association for the given user ids
func (h *ProjectHandler) replaceTeam(project *models.Project, teamIDs []uuid.UUID) error {
	var members []models.User
	if len(teamIDs) > 0 {
		if err := h.db.Where("id IN ?", teamIDs).Find(&members).Error; err != nil {
			return errors.NewInternalError(err)
		}
		if len(members) != len(teamIDs) {
			return errors.NewValidationError("team_ids", "unknown user in team list")
		}
	}
	if err := h.db.Model(project).Association("Team").Replace(members); err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}

func validProjectStatus(s models.ProjectStatus) bool {
	switch s {
	case models.ProjectDraft, models.ProjectActive, models.ProjectCompleted, models.ProjectArchived:
		return true
	}
	return false
}

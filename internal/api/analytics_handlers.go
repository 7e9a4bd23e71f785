// Package api - Analytics event and metric handlers
package api

import (
	"net/http"
	"time"

	"github.com/aethra/atlas/internal/errors"
	"github.com/aethra/atlas/internal/models"
	"github.com/aethra/atlas/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnalyticsHandler contains analytics API handlers
type AnalyticsHandler struct {
	db      *gorm.DB
	metrics *services.MetricsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(db *gorm.DB, metrics *services.MetricsService) *AnalyticsHandler {
	return &AnalyticsHandler{db: db, metrics: metrics}
}

// =============================================================================
// EVENTS
// =============================================================================

// ListEvents returns analytics events, newest first
// GET /api/analytics/events
func (h *AnalyticsHandler) ListEvents(c *gin.Context) {
	params := parseListParams(c)

	query := h.db.Model(&models.AnalyticsEvent{})
	if eventName := c.Query("event_name"); eventName != "" {
		query = query.Where("event_name = ?", eventName)
	}
	if projectID := c.Query("project_id"); projectID != "" {
		id, err := uuid.Parse(projectID)
		if err != nil {
			respondError(c, errors.NewValidationError("project_id", "must be a uuid"))
			return
		}
		query = query.Where("project_id = ?", id)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}

	var events []models.AnalyticsEvent
	err := query.Order("timestamp DESC").
		Offset(params.Offset()).Limit(params.PageSize).
		Find(&events).Error
	if err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}
	listResponse(c, events, total, params)
}

// GetEvent returns a single analytics event
// GET /api/analytics/events/:id
func (h *AnalyticsHandler) GetEvent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var event models.AnalyticsEvent
	if err := h.db.First(&event, "id = ?", id).Error; err != nil {
		respondError(c, errors.FromDB(err, "analytics event"))
		return
	}
	c.JSON(http.StatusOK, event)
}

// CreateEvent records an analytics event attributed to the current user
// POST /api/analytics/events
func (h *AnalyticsHandler) CreateEvent(c *gin.Context) {
	user := currentUser(c)

	var input struct {
		EventName  string       `json:"event_name" binding:"required"`
		ProjectID  *uuid.UUID   `json:"project_id"`
		Path       *string      `json:"path"`
		Properties models.JSONB `json:"properties"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	event := models.AnalyticsEvent{
		EventName:  input.EventName,
		UserID:     &user.ID,
		ProjectID:  input.ProjectID,
		Path:       input.Path,
		Properties: input.Properties,
	}
	if err := h.db.Create(&event).Error; err != nil {
		respondError(c, errors.FromDB(err, "analytics event"))
		return
	}
	c.JSON(http.StatusCreated, event)
}

// DeleteEvent removes an analytics event
// DELETE /api/analytics/events/:id
func (h *AnalyticsHandler) DeleteEvent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	result := h.db.Where("id = ?", id).Delete(&models.AnalyticsEvent{})
	if result.Error != nil {
		respondError(c, errors.FromDB(result.Error, "analytics event"))
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, errors.NewNotFoundError("analytics event"))
		return
	}
	c.Status(http.StatusNoContent)
}

// =============================================================================
// AGGREGATED METRICS
// =============================================================================

// ListMetrics returns aggregated metric rows
// GET /api/analytics/metrics
func (h *AnalyticsHandler) ListMetrics(c *gin.Context) {
	params := parseListParams(c)

	query := h.db.Model(&models.AggregatedMetric{})
	if metricName := c.Query("metric_name"); metricName != "" {
		query = query.Where("metric_name = ?", metricName)
	}
	if granularity := c.Query("granularity"); granularity != "" {
		query = query.Where("granularity = ?", granularity)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}

	var metrics []models.AggregatedMetric
	err := query.Order("period_start DESC, metric_name ASC").
		Offset(params.Offset()).Limit(params.PageSize).
		Find(&metrics).Error
	if err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}
	listResponse(c, metrics, total, params)
}

// GetMetric returns a single aggregated metric row
// GET /api/analytics/metrics/:id
func (h *AnalyticsHandler) GetMetric(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var metric models.AggregatedMetric
	if err := h.db.First(&metric, "id = ?", id).Error; err != nil {
		respondError(c, errors.FromDB(err, "aggregated metric"))
		return
	}
	c.JSON(http.StatusOK, metric)
}

// Rollup aggregates stored events into per-period metric rows. The window
// defaults to the last 24 hours.
// POST /api/analytics/rollup
func (h *AnalyticsHandler) Rollup(c *gin.Context) {
	var input struct {
		Granularity string  `json:"granularity"`
		Since       *string `json:"since"`
		Until       *string `json:"until"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	granularity := models.Granularity(input.Granularity)
	if granularity == "" {
		granularity = models.GranularityDay
	}
	if granularity != models.GranularityHour && granularity != models.GranularityDay {
		respondError(c, errors.NewValidationError("granularity", "must be hour or day"))
		return
	}

	until := time.Now().UTC()
	since := until.Add(-24 * time.Hour)
	if input.Since != nil {
		parsed, err := parseDate("since", input.Since)
		if err != nil {
			respondError(c, err)
			return
		}
		// parseDate treats "" as unset; keep the default window then
		if parsed != nil {
			since = *parsed
		}
	}
	if input.Until != nil {
		parsed, err := parseDate("until", input.Until)
		if err != nil {
			respondError(c, err)
			return
		}
		if parsed != nil {
			until = *parsed
		}
	}
	if !since.Before(until) {
		respondError(c, errors.NewValidationError("since", "must be before until"))
		return
	}

	updated, err := h.metrics.Rollup(granularity, since, until)
	if err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"granularity": granularity,
		"since":       since,
		"until":       until,
		"updated":     updated,
	})
}

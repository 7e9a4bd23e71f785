// Package api contains the HTTP API handlers for Atlas
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aethra/atlas/internal/errors"
	"github.com/aethra/atlas/internal/models"
	"github.com/aethra/atlas/internal/security"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// =============================================================================
// SHARED HELPERS
// =============================================================================

// listParams carries pagination settings parsed from the query string
type listParams struct {
	Page     int
	PageSize int
}

func (p listParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// parseListParams reads page/page_size with sane bounds
func parseListParams(c *gin.Context) listParams {
	params := listParams{
		Page:     parseIntParam(c.Query("page"), 1),
		PageSize: parseIntParam(c.Query("page_size"), 25),
	}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = 25
	}
	if params.PageSize > 200 {
		params.PageSize = 200
	}
	return params
}

func parseIntParam(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return i
}

// listResponse is the common list envelope
func listResponse(c *gin.Context, items interface{}, total int64, params listParams) {
	c.JSON(http.StatusOK, gin.H{
		"items":     items,
		"total":     total,
		"page":      params.Page,
		"page_size": params.PageSize,
	})
}

// respondError maps an error to its HTTP response
func respondError(c *gin.Context, err error) {
	status, body := errors.ToHTTPError(err)
	c.JSON(status, body)
}

// bindError reports a request binding failure the way the rest of the API
// reports validation problems
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
}

// pathID parses the :id route parameter
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

// applySearch narrows a list query by the ?search= term over the given
// columns
func applySearch(query *gorm.DB, c *gin.Context, columns ...string) *gorm.DB {
	term := c.Query("search")
	if term == "" {
		return query
	}
	condition, args := security.SearchCondition(columns, term)
	if condition == "" {
		return query
	}
	return query.Where(condition, args...)
}

// pathLineID parses the :lineID route parameter on nested line routes
func pathLineID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("lineID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid line id"})
		return uuid.Nil, false
	}
	return id, true
}

// currentUser returns the authenticated user set by RequireAuth
func currentUser(c *gin.Context) *models.User {
	user, exists := c.Get(ctxUser)
	if !exists {
		return nil
	}
	return user.(*models.User)
}

// currentSession returns the session set by RequireAuth
func currentSession(c *gin.Context) *models.Session {
	session, exists := c.Get(ctxSession)
	if !exists {
		return nil
	}
	return session.(*models.Session)
}

// parseDate accepts YYYY-MM-DD or a full RFC 3339 timestamp
func parseDate(field string, value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	if *value == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", *value); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, *value); err == nil {
		return &t, nil
	}
	return nil, errors.NewValidationError(field, field+" must be a YYYY-MM-DD date")
}

// requireDate is parseDate for fields that default to today when unset
func requireDate(field string, value *string) (time.Time, error) {
	parsed, err := parseDate(field, value)
	if err != nil {
		return time.Time{}, err
	}
	if parsed == nil {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return *parsed, nil
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// Health returns the health status
// GET /api/health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "atlas",
	})
}

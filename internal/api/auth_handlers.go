// Package api - Authentication handlers
package api

import (
	"net/http"
	"time"

	"github.com/aethra/atlas/internal/auth"
	"github.com/aethra/atlas/internal/errors"
	"github.com/aethra/atlas/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultRole is assigned at signup when no role is requested
const DefaultRole = "user"

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	db       *gorm.DB
	sessions *auth.SessionService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *gorm.DB, sessions *auth.SessionService) *AuthHandler {
	return &AuthHandler{db: db, sessions: sessions}
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignupRequest represents registration data
type SignupRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// RoleResponse mirrors the stored role
type RoleResponse struct {
	Name string `json:"name"`
}

// UserResponse represents user data in responses (without password)
type UserResponse struct {
	ID        uuid.UUID      `json:"id"`
	Email     string         `json:"email"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Name      string         `json:"name"`
	Roles     []RoleResponse `json:"roles"`
}

func newUserResponse(user *models.User) UserResponse {
	roles := make([]RoleResponse, 0, len(user.Roles))
	for _, role := range user.Roles {
		roles = append(roles, RoleResponse{Name: role.Name})
	}
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Name:      user.FullName(),
		Roles:     roles,
	}
}

// setSessionCookie attaches the opaque session token
func (h *AuthHandler) setSessionCookie(c *gin.Context, session *models.Session) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetCookie(auth.SessionCookie, session.Token, maxAge, "/", "", false, true)
}

// CSRF returns the per-session CSRF token
// GET /api/auth/csrf
func (h *AuthHandler) CSRF(c *gin.Context) {
	session := currentSession(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"csrf_token": session.CSRFToken})
}

// Login authenticates a user and opens a session.
// The failure response never distinguishes an unknown email from a wrong
// password.
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var user models.User
	err := h.db.Preload("Roles").Where("email = ?", req.Email).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid credentials"})
		} else {
			respondError(c, errors.NewInternalError(err))
		}
		return
	}

	if !user.IsActive || !auth.CheckPassword(req.Password, user.PasswordHash) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid credentials"})
		return
	}

	session, err := h.sessions.Create(&user)
	if err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}

	h.db.Model(&user).Update("last_login_at", time.Now())
	h.setSessionCookie(c, session)

	c.JSON(http.StatusOK, gin.H{
		"user":       newUserResponse(&user),
		"csrf_token": session.CSRFToken,
	})
}

// Signup creates a user, assigns a role, and logs the new user in
// POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var existing int64
	h.db.Model(&models.User{}).Where("email = ?", req.Email).Count(&existing)
	if existing > 0 {
		respondError(c, errors.NewConflictError("user"))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}

	roleName := req.Role
	if roleName == "" {
		roleName = DefaultRole
	}
	role := models.Role{Name: roleName}
	if err := h.db.Where("name = ?", roleName).FirstOrCreate(&role).Error; err != nil {
		respondError(c, errors.FromDB(err, "role"))
		return
	}

	user := models.User{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		IsActive:     true,
		Roles:        []models.Role{role},
	}
	if err := h.db.Create(&user).Error; err != nil {
		respondError(c, errors.FromDB(err, "user"))
		return
	}

	session, err := h.sessions.Create(&user)
	if err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}
	h.setSessionCookie(c, session)

	c.JSON(http.StatusCreated, gin.H{
		"user":       newUserResponse(&user),
		"csrf_token": session.CSRFToken,
	})
}

// Logout closes the current session
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	session := currentSession(c)
	if session != nil {
		if err := h.sessions.Delete(session.Token); err != nil {
			respondError(c, errors.NewInternalError(err))
			return
		}
	}
	c.SetCookie(auth.SessionCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

// Me returns the current authenticated user
// GET /api/auth/user
func (h *AuthHandler) Me(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	// Reload with roles; the session preload does not bring them along.
	var full models.User
	if err := h.db.Preload("Roles").First(&full, "id = ?", user.ID).Error; err != nil {
		respondError(c, errors.FromDB(err, "user"))
		return
	}
	c.JSON(http.StatusOK, newUserResponse(&full))
}

// ChangePassword re-verifies the current password before accepting a new one
// POST /api/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if !auth.CheckPassword(req.CurrentPassword, user.PasswordHash) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "current password is incorrect"})
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}

	if err := h.db.Model(&models.User{}).Where("id = ?", user.ID).Update("password_hash", hash).Error; err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

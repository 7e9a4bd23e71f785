// Package auth - server-side session store
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/aethra/atlas/internal/models"
	"gorm.io/gorm"
)

// SessionCookie is the name of the cookie carrying the opaque session token
const SessionCookie = "atlas_session"

// SessionService manages server-side sessions. The cookie only carries an
// opaque token; everything else lives in the sessions table.
type SessionService struct {
	db       *gorm.DB
	ttl      time.Duration
	auxToken *AuxTokenService
}

// NewSessionService creates a session service
func NewSessionService(db *gorm.DB, ttlHours int, auxToken *AuxTokenService) *SessionService {
	if ttlHours <= 0 {
		ttlHours = 24 * 14
	}
	return &SessionService{
		db:       db,
		ttl:      time.Duration(ttlHours) * time.Hour,
		auxToken: auxToken,
	}
}

// Create opens a session for a user. A CSRF token is minted alongside, and
// the auxiliary signed token is stored on the session row. Nothing reads the
// auxiliary token back; the session cookie stays the actual credential.
func (s *SessionService) Create(user *models.User) (*models.Session, error) {
	token, err := randomToken()
	if err != nil {
		return nil, err
	}
	csrf, err := randomToken()
	if err != nil {
		return nil, err
	}

	aux, err := s.auxToken.Mint(user)
	if err != nil {
		return nil, fmt.Errorf("failed to mint auxiliary token: %w", err)
	}

	session := &models.Session{
		Token:     token,
		UserID:    user.ID,
		CSRFToken: csrf,
		AuxToken:  aux,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.db.Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// Get resolves a session token to its session and user.
// Expired sessions are treated as missing.
func (s *SessionService) Get(token string) (*models.Session, error) {
	if token == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var session models.Session
	err := s.db.Preload("User").Where("token = ?", token).First(&session).Error
	if err != nil {
		return nil, err
	}
	if time.Now().After(session.ExpiresAt) {
		s.db.Delete(&session)
		return nil, gorm.ErrRecordNotFound
	}
	return &session, nil
}

// Delete removes a session by token
func (s *SessionService) Delete(token string) error {
	return s.db.Where("token = ?", token).Delete(&models.Session{}).Error
}

// DeleteExpired drops every session past its expiry
func (s *SessionService) DeleteExpired() error {
	return s.db.Where("expires_at < ?", time.Now()).Delete(&models.Session{}).Error
}

// randomToken generates an opaque 32-byte URL-safe token
func randomToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

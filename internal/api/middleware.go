// Package api - authentication and CSRF middleware
package api

import (
	"net/http"

	"github.com/aethra/atlas/internal/auth"
	"github.com/gin-gonic/gin"
)

// Context keys set by the middleware chain
const (
	ctxSession = "session"
	ctxUser    = "user"
	ctxUserID  = "user_id"
)

// CSRFHeader carries the per-session CSRF token on state-changing requests
const CSRFHeader = "X-CSRF-Token"

// Middleware bundles the request guards around the session store
type Middleware struct {
	sessions *auth.SessionService
}

// NewMiddleware creates the middleware set
func NewMiddleware(sessions *auth.SessionService) *Middleware {
	return &Middleware{sessions: sessions}
}

// RequireAuth resolves the session cookie and aborts with 401 when the
// session is missing, expired, or belongs to a disabled account.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(auth.SessionCookie)
		if err != nil || token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		session, err := m.sessions.Get(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			c.Abort()
			return
		}
		if session.User == nil || !session.User.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "account is disabled"})
			c.Abort()
			return
		}

		c.Set(ctxSession, session)
		c.Set(ctxUser, session.User)
		c.Set(ctxUserID, session.UserID)
		c.Next()
	}
}

// RequireCSRF compares the CSRF header against the session token on
// state-changing methods. Runs after RequireAuth.
func (m *Middleware) RequireCSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		session := currentSession(c)
		if session == nil || c.GetHeader(CSRFHeader) != session.CSRFToken {
			c.JSON(http.StatusForbidden, gin.H{"error": "CSRF token missing or invalid"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// AllowedHosts rejects requests whose Host header is not in the configured
// list. An empty list disables the check (development default).
func AllowedHosts(hosts []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(hosts))
	for _, host := range hosts {
		allowed[host] = struct{}{}
	}
	return func(c *gin.Context) {
		if len(allowed) == 0 {
			c.Next()
			return
		}
		if _, ok := allowed[c.Request.Host]; !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid host header"})
			c.Abort()
			return
		}
		c.Next()
	}
}

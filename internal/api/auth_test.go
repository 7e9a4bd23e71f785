package api

import (
	"net/http"
	"testing"

	"github.com/aethra/atlas/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupAndLoginFlow(t *testing.T) {
	router, db := setupTestServer(t, "")
	client := newTestClient(t, router)

	body := client.signup("alice@example.com", "supersecret")
	require.NotNil(t, body["user"])
	require.NotEmpty(t, body["csrf_token"])

	user := body["user"].(map[string]interface{})
	assert.Equal(t, "alice@example.com", user["email"])
	assert.Equal(t, "Test User", user["name"])

	// default role was assigned
	roles := user["roles"].([]interface{})
	require.Len(t, roles, 1)
	assert.Equal(t, "user", roles[0].(map[string]interface{})["name"])

	// the session row exists
	var count int64
	db.Model(&models.Session{}).Count(&count)
	assert.Equal(t, int64(1), count)

	me := client.do(http.MethodGet, "/api/auth/user", nil, http.StatusOK)
	assert.Equal(t, "alice@example.com", me["email"])
}

func TestLoginWrongPasswordIsIndistinguishable(t *testing.T) {
	router, _ := setupTestServer(t, "")
	client := newTestClient(t, router)
	client.signup("bob@example.com", "supersecret")
	client.do(http.MethodPost, "/api/auth/logout", nil, http.StatusNoContent)

	fresh := newTestClient(t, router)
	wrongPassword := fresh.login("bob@example.com", "wrong-password")
	unknownEmail := fresh.login("nobody@example.com", "supersecret")

	assert.Equal(t, http.StatusBadRequest, wrongPassword.Code)
	assert.Equal(t, http.StatusBadRequest, unknownEmail.Code)
	// same body for both failure modes
	assert.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestSignupRejectsShortPassword(t *testing.T) {
	router, _ := setupTestServer(t, "")
	client := newTestClient(t, router)

	rr := client.raw(http.MethodPost, "/api/auth/signup", map[string]interface{}{
		"email":    "short@example.com",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSignupDuplicateEmail(t *testing.T) {
	router, _ := setupTestServer(t, "")
	client := newTestClient(t, router)
	client.signup("dup@example.com", "supersecret")

	fresh := newTestClient(t, router)
	rr := fresh.raw(http.MethodPost, "/api/auth/signup", map[string]interface{}{
		"email":    "dup@example.com",
		"password": "supersecret",
	})
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestLogoutEndsSession(t *testing.T) {
	router, db := setupTestServer(t, "")
	client := newTestClient(t, router)
	client.signup("carol@example.com", "supersecret")

	client.do(http.MethodPost, "/api/auth/logout", nil, http.StatusNoContent)

	var count int64
	db.Model(&models.Session{}).Count(&count)
	assert.Equal(t, int64(0), count)

	// the old cookie no longer authenticates
	rr := client.raw(http.MethodGet, "/api/auth/user", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestChangePassword(t *testing.T) {
	router, _ := setupTestServer(t, "")
	client := newTestClient(t, router)
	client.signup("dave@example.com", "supersecret")

	// wrong current password
	rr := client.raw(http.MethodPost, "/api/auth/password", map[string]interface{}{
		"current_password": "not-it",
		"new_password":     "anothersecret",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// short new password
	rr = client.raw(http.MethodPost, "/api/auth/password", map[string]interface{}{
		"current_password": "supersecret",
		"new_password":     "tiny",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	client.do(http.MethodPost, "/api/auth/password", map[string]interface{}{
		"current_password": "supersecret",
		"new_password":     "freshsecret",
	}, http.StatusOK)
	client.do(http.MethodPost, "/api/auth/logout", nil, http.StatusNoContent)

	fresh := newTestClient(t, router)
	assert.Equal(t, http.StatusBadRequest, fresh.login("dave@example.com", "supersecret").Code)
	assert.Equal(t, http.StatusOK, fresh.login("dave@example.com", "freshsecret").Code)
}

func TestCSRFRequiredOnUnsafeMethods(t *testing.T) {
	router, _ := setupTestServer(t, "")
	client := newTestClient(t, router)
	client.signup("erin@example.com", "supersecret")

	// reads pass without the header
	client.csrf = ""
	client.do(http.MethodGet, "/api/projects", nil, http.StatusOK)

	// writes are rejected
	rr := client.raw(http.MethodPost, "/api/projects", map[string]interface{}{"name": "P"})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// the token is recoverable from the csrf endpoint
	body := client.do(http.MethodGet, "/api/auth/csrf", nil, http.StatusOK)
	client.csrf = body["csrf_token"].(string)
	client.do(http.MethodPost, "/api/projects", map[string]interface{}{"name": "P"}, http.StatusCreated)
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	router, _ := setupTestServer(t, "")
	client := newTestClient(t, router)

	rr := client.raw(http.MethodGet, "/api/projects", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHealthEndpointIsPublic(t *testing.T) {
	router, _ := setupTestServer(t, "")
	client := newTestClient(t, router)
	client.do(http.MethodGet, "/api/health", nil, http.StatusOK)
}

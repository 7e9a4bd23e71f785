package api

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func seedTask(t *testing.T, client *testClient, projectID, name string) string {
	t.Helper()
	created := client.do(http.MethodPost, "/api/tasks", map[string]interface{}{
		"project_id": projectID,
		"name":       name,
	}, http.StatusCreated)
	return created["id"].(string)
}

func TestTimeEntryLifecycle(t *testing.T) {
	router, _ := setupTestServer(t, "")

	client := newTestClient(t, router)
	body := client.signup("worker@example.com", "supersecret")
	userID := body["user"].(map[string]interface{})["id"].(string)

	projectID := seedProject(t, client, userID, "Billing project")
	taskID := seedTask(t, client, projectID, "Implement export")

	created := client.do(http.MethodPost, "/api/time-entries", map[string]interface{}{
		"task_id":          taskID,
		"date":             "2026-02-10",
		"duration_minutes": 90,
		"description":      "pairing session",
	}, http.StatusCreated)
	entryID := created["id"].(string)
	assert.Equal(t, float64(90), created["duration_minutes"])

	fetched := client.do(http.MethodGet, "/api/time-entries/"+entryID, nil, http.StatusOK)
	assert.Equal(t, taskID, fetched["task_id"])

	client.do(http.MethodPatch, "/api/time-entries/"+entryID, map[string]interface{}{
		"duration_minutes": 120,
	}, http.StatusOK)
	fetched = client.do(http.MethodGet, "/api/time-entries/"+entryID, nil, http.StatusOK)
	assert.Equal(t, float64(120), fetched["duration_minutes"])

	client.do(http.MethodDelete, "/api/time-entries/"+entryID, nil, http.StatusNoContent)
	client.do(http.MethodGet, "/api/time-entries/"+entryID, nil, http.StatusNotFound)
}

func TestTimeEntryRejectsNegativeDuration(t *testing.T) {
	router, _ := setupTestServer(t, "")

	client := newTestClient(t, router)
	body := client.signup("worker@example.com", "supersecret")
	userID := body["user"].(map[string]interface{})["id"].(string)

	projectID := seedProject(t, client, userID, "Billing project")
	taskID := seedTask(t, client, projectID, "Implement export")

	client.do(http.MethodPost, "/api/time-entries", map[string]interface{}{
		"task_id":          taskID,
		"duration_minutes": -15,
	}, http.StatusBadRequest)
}

func TestTimeEntryRequiresExistingTask(t *testing.T) {
	router, _ := setupTestServer(t, "")

	client := newTestClient(t, router)
	client.signup("worker@example.com", "supersecret")

	client.do(http.MethodPost, "/api/time-entries", map[string]interface{}{
		"task_id":          uuid.NewString(),
		"duration_minutes": 30,
	}, http.StatusNotFound)
}

func TestTimeEntriesAreScopedToOwner(t *testing.T) {
	router, _ := setupTestServer(t, "")

	owner := newTestClient(t, router)
	ownerBody := owner.signup("worker@example.com", "supersecret")
	ownerID := ownerBody["user"].(map[string]interface{})["id"].(string)

	projectID := seedProject(t, owner, ownerID, "Billing project")
	taskID := seedTask(t, owner, projectID, "Implement export")
	created := owner.do(http.MethodPost, "/api/time-entries", map[string]interface{}{
		"task_id":          taskID,
		"duration_minutes": 45,
	}, http.StatusCreated)
	entryID := created["id"].(string)

	other := newTestClient(t, router)
	other.signup("colleague@example.com", "supersecret")

	list := other.do(http.MethodGet, "/api/time-entries", nil, http.StatusOK)
	assert.Equal(t, float64(0), list["total"])
	other.do(http.MethodGet, "/api/time-entries/"+entryID, nil, http.StatusNotFound)

	list = owner.do(http.MethodGet, "/api/time-entries", nil, http.StatusOK)
	assert.Equal(t, float64(1), list["total"])
}

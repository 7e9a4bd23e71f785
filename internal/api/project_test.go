package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aethra/atlas/internal/expenses"
	"github.com/aethra/atlas/internal/invoices"
	"github.com/aethra/atlas/internal/orders"
)

func TestProjectVisibilityScoping(t *testing.T) {
	router, _ := setupTestServer(t, "")

	owner := newTestClient(t, router)
	ownerBody := owner.signup("owner@example.com", "supersecret")
	ownerID := ownerBody["user"].(map[string]interface{})["id"].(string)

	member := newTestClient(t, router)
	memberBody := member.signup("member@example.com", "supersecret")
	memberID := memberBody["user"].(map[string]interface{})["id"].(string)

	stranger := newTestClient(t, router)
	stranger.signup("stranger@example.com", "supersecret")

	created := owner.do(http.MethodPost, "/api/projects", map[string]interface{}{
		"name":     "Website relaunch",
		"status":   "active",
		"team_ids": []string{memberID},
	}, http.StatusCreated)
	projectID := created["id"].(string)
	assert.Equal(t, ownerID, created["owner_id"])

	// owner sees it
	list := owner.do(http.MethodGet, "/api/projects", nil, http.StatusOK)
	assert.Equal(t, float64(1), list["total"])

	// team member sees it
	list = member.do(http.MethodGet, "/api/projects", nil, http.StatusOK)
	assert.Equal(t, float64(1), list["total"])
	member.do(http.MethodGet, "/api/projects/"+projectID, nil, http.StatusOK)

	// a stranger sees nothing
	list = stranger.do(http.MethodGet, "/api/projects", nil, http.StatusOK)
	assert.Equal(t, float64(0), list["total"])
	rr := stranger.raw(http.MethodGet, "/api/projects/"+projectID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestProjectDefaultsAndValidation(t *testing.T) {
	router, _ := setupTestServer(t, "")
	client := newTestClient(t, router)
	client.signup("pm@example.com", "supersecret")

	created := client.do(http.MethodPost, "/api/projects", map[string]interface{}{
		"name": "Unplanned work",
	}, http.StatusCreated)
	assert.Equal(t, "draft", created["status"])

	rr := client.raw(http.MethodPost, "/api/projects", map[string]interface{}{
		"name":   "Bad status",
		"status": "galactic",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = client.raw(http.MethodPost, "/api/projects", map[string]interface{}{
		"name":       "Bad date",
		"start_date": "not-a-date",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestProjectPartialUpdate(t *testing.T) {
	router, _ := setupTestServer(t, "")
	client := newTestClient(t, router)
	client.signup("pm2@example.com", "supersecret")

	created := client.do(http.MethodPost, "/api/projects", map[string]interface{}{
		"name":        "Initial",
		"description": "keep me",
	}, http.StatusCreated)
	projectID := created["id"].(string)

	updated := client.do(http.MethodPatch, "/api/projects/"+projectID, map[string]interface{}{
		"status": "active",
	}, http.StatusOK)
	assert.Equal(t, "active", updated["status"])
	assert.Equal(t, "Initial", updated["name"])
	assert.Equal(t, "keep me", updated["description"])
}

func TestProjectSearch(t *testing.T) {
	router, _ := setupTestServer(t, "")
	client := newTestClient(t, router)
	client.signup("pm3@example.com", "supersecret")

	client.do(http.MethodPost, "/api/projects", map[string]interface{}{"name": "Warehouse move"}, http.StatusCreated)
	client.do(http.MethodPost, "/api/projects", map[string]interface{}{"name": "Website relaunch"}, http.StatusCreated)

	list := client.do(http.MethodGet, "/api/projects?search=warehouse", nil, http.StatusOK)
	require.Equal(t, float64(1), list["total"])
	items := list["items"].([]interface{})
	assert.Equal(t, "Warehouse move", items[0].(map[string]interface{})["name"])
}

func TestProjectDeleteCascadesTasks(t *testing.T) {
	router, db := setupTestServer(t, "")
	client := newTestClient(t, router)
	body := client.signup("pm4@example.com", "supersecret")
	userID := body["user"].(map[string]interface{})["id"].(string)

	created := client.do(http.MethodPost, "/api/projects", map[string]interface{}{
		"name":     "Doomed",
		"team_ids": []string{userID},
	}, http.StatusCreated)
	projectID := created["id"].(string)

	client.do(http.MethodPost, "/api/tasks", map[string]interface{}{
		"project_id": projectID,
		"name":       "Doomed task",
	}, http.StatusCreated)

	client.do(http.MethodDelete, "/api/projects/"+projectID, nil, http.StatusNoContent)

	var taskCount int64
	db.Table("tasks").Count(&taskCount)
	assert.Equal(t, int64(0), taskCount)
}

func TestProjectDeleteClearsExpenseReference(t *testing.T) {
	router, db := setupTestServer(t, "")
	client := newTestClient(t, router)
	body := client.signup("pm5@example.com", "supersecret")
	userID := body["user"].(map[string]interface{})["id"].(string)

	created := client.do(http.MethodPost, "/api/projects", map[string]interface{}{
		"name":     "Short-lived",
		"team_ids": []string{userID},
	}, http.StatusCreated)
	projectID := created["id"].(string)

	expense := client.do(http.MethodPost, "/api/expenses", map[string]interface{}{
		"name":       "Kickoff dinner",
		"project_id": projectID,
		"amount":     "80.00",
	}, http.StatusCreated)
	expenseID := expense["id"].(string)

	client.do(http.MethodDelete, "/api/projects/"+projectID, nil, http.StatusNoContent)

	var stored expenses.Expense
	if err := db.First(&stored, "id = ?", expenseID).Error; err != nil {
		t.Fatalf("expense should survive project delete: %v", err)
	}
	assert.Nil(t, stored.ProjectID)
}

func TestProjectDeleteClearsDocumentReferences(t *testing.T) {
	router, db := setupTestServer(t, "")
	client := newTestClient(t, router)
	body := client.signup("pm6@example.com", "supersecret")
	userID := body["user"].(map[string]interface{})["id"].(string)

	created := client.do(http.MethodPost, "/api/projects", map[string]interface{}{
		"name":     "Engagement",
		"team_ids": []string{userID},
	}, http.StatusCreated)
	projectID := created["id"].(string)

	customer := client.do(http.MethodPost, "/api/customers", map[string]interface{}{
		"name": "Acme Corp",
	}, http.StatusCreated)

	invoice := client.do(http.MethodPost, "/api/invoices", map[string]interface{}{
		"number":      "INV-7001",
		"customer_id": customer["id"],
		"project_id":  projectID,
	}, http.StatusCreated)
	order := client.do(http.MethodPost, "/api/sales-orders", map[string]interface{}{
		"number":      "SO-7001",
		"customer_id": customer["id"],
		"project_id":  projectID,
	}, http.StatusCreated)

	client.do(http.MethodDelete, "/api/projects/"+projectID, nil, http.StatusNoContent)

	var storedInvoice invoices.Invoice
	require.NoError(t, db.First(&storedInvoice, "id = ?", invoice["id"]).Error)
	assert.Nil(t, storedInvoice.ProjectID)

	var storedOrder orders.SalesOrder
	require.NoError(t, db.First(&storedOrder, "id = ?", order["id"]).Error)
	assert.Nil(t, storedOrder.ProjectID)
}

package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModuleAllowListGatesRoutes(t *testing.T) {
	router, _ := setupTestServer(t, "projects,customers")
	client := newTestClient(t, router)
	client.signup("gate@example.com", "supersecret")

	// allow-listed groups respond
	client.do(http.MethodGet, "/api/projects", nil, http.StatusOK)
	client.do(http.MethodGet, "/api/customers", nil, http.StatusOK)

	// everything else was never registered
	for _, path := range []string{
		"/api/tasks",
		"/api/products",
		"/api/vendors",
		"/api/sales-orders",
		"/api/purchase-orders",
		"/api/invoices",
		"/api/expenses",
		"/api/time-entries",
		"/api/analytics/events",
		"/api/analytics/metrics",
	} {
		rr := client.raw(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code, path)
	}
}

func TestLineRoutesGatedSeparately(t *testing.T) {
	router, _ := setupTestServer(t, "customers,products,sales")
	client := newTestClient(t, router)
	client.signup("gate2@example.com", "supersecret")

	customerID := client.do(http.MethodPost, "/api/customers", map[string]interface{}{
		"name": "Gated Co",
	}, http.StatusCreated)["id"].(string)
	productID := client.do(http.MethodPost, "/api/products", map[string]interface{}{
		"name": "Gated widget",
	}, http.StatusCreated)["id"].(string)

	orderID := client.do(http.MethodPost, "/api/sales-orders", map[string]interface{}{
		"number":      "SO-9001",
		"customer_id": customerID,
	}, http.StatusCreated)["id"].(string)

	// the sales module is on but its line routes are not
	rr := client.raw(http.MethodPost, "/api/sales-orders/"+orderID+"/lines", map[string]interface{}{
		"product_id": productID,
	})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestEmptyAllowListEnablesEverything(t *testing.T) {
	router, _ := setupTestServer(t, "")
	client := newTestClient(t, router)
	client.signup("gate3@example.com", "supersecret")

	for _, path := range []string{
		"/api/projects",
		"/api/tasks",
		"/api/products",
		"/api/customers",
		"/api/vendors",
		"/api/sales-orders",
		"/api/purchase-orders",
		"/api/invoices",
		"/api/expenses",
		"/api/time-entries",
		"/api/analytics/events",
		"/api/analytics/metrics",
	} {
		client.do(http.MethodGet, path, nil, http.StatusOK)
	}
}

package api

import (
	"net/http"
	"testing"

	"github.com/aethra/atlas/internal/expenses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductDeleteProtectedByLines(t *testing.T) {
	router, _ := setupTestServer(t, "")
	client := newTestClient(t, router)
	client.signup("cat1@example.com", "supersecret")

	productID := client.do(http.MethodPost, "/api/products", map[string]interface{}{
		"name": "Protected widget", "sales_price": "9.99",
	}, http.StatusCreated)["id"].(string)
	customerID := client.do(http.MethodPost, "/api/customers", map[string]interface{}{
		"name": "Lines Co",
	}, http.StatusCreated)["id"].(string)

	client.do(http.MethodPost, "/api/sales-orders", map[string]interface{}{
		"number":      "SO-2001",
		"customer_id": customerID,
		"lines": []map[string]interface{}{
			{"product_id": productID, "quantity": "1", "unit_price": "9.99"},
		},
	}, http.StatusCreated)

	rr := client.raw(http.MethodDelete, "/api/products/"+productID, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// an unreferenced product deletes fine
	freeID := client.do(http.MethodPost, "/api/products", map[string]interface{}{
		"name": "Free widget",
	}, http.StatusCreated)["id"].(string)
	client.do(http.MethodDelete, "/api/products/"+freeID, nil, http.StatusNoContent)
}

func TestVendorDeleteClearsExpenseReference(t *testing.T) {
	router, db := setupTestServer(t, "")
	client := newTestClient(t, router)
	client.signup("cat2@example.com", "supersecret")

	vendorID := client.do(http.MethodPost, "/api/vendors", map[string]interface{}{
		"name": "Disposable Vendor",
	}, http.StatusCreated)["id"].(string)

	expenseID := client.do(http.MethodPost, "/api/expenses", map[string]interface{}{
		"name":      "Office chairs",
		"amount":    "150.00",
		"vendor_id": vendorID,
	}, http.StatusCreated)["id"].(string)

	client.do(http.MethodDelete, "/api/vendors/"+vendorID, nil, http.StatusNoContent)

	// the expense survives with the vendor reference cleared
	var expense expenses.Expense
	require.NoError(t, db.First(&expense, "id = ?", expenseID).Error)
	assert.Nil(t, expense.VendorID)
}

func TestVendorDeleteProtectedByPurchaseOrders(t *testing.T) {
	router, _ := setupTestServer(t, "")
	client := newTestClient(t, router)
	client.signup("cat3@example.com", "supersecret")

	vendorID := client.do(http.MethodPost, "/api/vendors", map[string]interface{}{
		"name": "Locked Vendor",
	}, http.StatusCreated)["id"].(string)

	client.do(http.MethodPost, "/api/purchase-orders", map[string]interface{}{
		"number":    "PO-1001",
		"vendor_id": vendorID,
	}, http.StatusCreated)

	rr := client.raw(http.MethodDelete, "/api/vendors/"+vendorID, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestProductSearch(t *testing.T) {
	router, _ := setupTestServer(t, "")
	client := newTestClient(t, router)
	client.signup("cat4@example.com", "supersecret")

	client.do(http.MethodPost, "/api/products", map[string]interface{}{
		"name": "Steel bolt", "sku": "ST-01",
	}, http.StatusCreated)
	client.do(http.MethodPost, "/api/products", map[string]interface{}{
		"name": "Wood screw", "sku": "WD-01",
	}, http.StatusCreated)

	list := client.do(http.MethodGet, "/api/products?search=steel", nil, http.StatusOK)
	assert.Equal(t, float64(1), list["total"])

	// LIKE wildcards in input match literally, not as patterns
	list = client.do(http.MethodGet, "/api/products?search=%25", nil, http.StatusOK)
	assert.Equal(t, float64(0), list["total"])
}

package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyticsEventLifecycle(t *testing.T) {
	router, _ := setupTestServer(t, "")

	client := newTestClient(t, router)
	body := client.signup("analyst@example.com", "supersecret")
	userID := body["user"].(map[string]interface{})["id"].(string)

	created := client.do(http.MethodPost, "/api/analytics/events", map[string]interface{}{
		"event_name": "page_view",
		"path":       "/dashboard",
		"properties": map[string]interface{}{"referrer": "direct"},
	}, http.StatusCreated)
	eventID := created["id"].(string)
	assert.Equal(t, userID, created["user_id"])

	fetched := client.do(http.MethodGet, "/api/analytics/events/"+eventID, nil, http.StatusOK)
	assert.Equal(t, "page_view", fetched["event_name"])
	assert.Equal(t, "direct", fetched["properties"].(map[string]interface{})["referrer"])

	client.do(http.MethodDelete, "/api/analytics/events/"+eventID, nil, http.StatusNoContent)
	client.do(http.MethodGet, "/api/analytics/events/"+eventID, nil, http.StatusNotFound)
}

func TestAnalyticsEventListFilters(t *testing.T) {
	router, _ := setupTestServer(t, "")

	client := newTestClient(t, router)
	client.signup("analyst@example.com", "supersecret")

	for _, name := range []string{"page_view", "page_view", "button_click"} {
		client.do(http.MethodPost, "/api/analytics/events", map[string]interface{}{
			"event_name": name,
		}, http.StatusCreated)
	}

	list := client.do(http.MethodGet, "/api/analytics/events", nil, http.StatusOK)
	assert.Equal(t, float64(3), list["total"])

	list = client.do(http.MethodGet, "/api/analytics/events?event_name=page_view", nil, http.StatusOK)
	assert.Equal(t, float64(2), list["total"])
}

func TestAnalyticsRollupEndpoint(t *testing.T) {
	router, _ := setupTestServer(t, "")

	client := newTestClient(t, router)
	client.signup("analyst@example.com", "supersecret")

	for _, name := range []string{"page_view", "page_view", "signup"} {
		client.do(http.MethodPost, "/api/analytics/events", map[string]interface{}{
			"event_name": name,
		}, http.StatusCreated)
	}

	// default window is the last 24 hours, which covers events created now
	result := client.do(http.MethodPost, "/api/analytics/rollup", map[string]interface{}{}, http.StatusOK)
	assert.Equal(t, "day", result["granularity"])
	assert.Equal(t, float64(2), result["updated"])

	list := client.do(http.MethodGet, "/api/analytics/metrics?metric_name=page_view", nil, http.StatusOK)
	assert.Equal(t, float64(1), list["total"])
	metric := list["items"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, float64(2), metric["value"])

	metricID := metric["id"].(string)
	fetched := client.do(http.MethodGet, "/api/analytics/metrics/"+metricID, nil, http.StatusOK)
	assert.Equal(t, "page_view", fetched["metric_name"])
}

func TestAnalyticsRollupRejectsBadInput(t *testing.T) {
	router, _ := setupTestServer(t, "")

	client := newTestClient(t, router)
	client.signup("analyst@example.com", "supersecret")

	client.do(http.MethodPost, "/api/analytics/rollup", map[string]interface{}{
		"granularity": "week",
	}, http.StatusBadRequest)

	client.do(http.MethodPost, "/api/analytics/rollup", map[string]interface{}{
		"since": "2026-03-02",
		"until": "2026-03-01",
	}, http.StatusBadRequest)

	client.do(http.MethodPost, "/api/analytics/rollup", map[string]interface{}{
		"since": "not-a-date",
	}, http.StatusBadRequest)
}

func TestAnalyticsRollupTreatsEmptyWindowBoundsAsUnset(t *testing.T) {
	router, _ := setupTestServer(t, "")

	client := newTestClient(t, router)
	client.signup("analyst@example.com", "supersecret")

	client.do(http.MethodPost, "/api/analytics/events", map[string]interface{}{
		"event_name": "page_view",
	}, http.StatusCreated)

	result := client.do(http.MethodPost, "/api/analytics/rollup", map[string]interface{}{
		"since": "",
		"until": "",
	}, http.StatusOK)
	assert.Equal(t, "day", result["granularity"])
	assert.Equal(t, float64(1), result["updated"])
}

package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aethra/atlas/internal/auth"
	"github.com/aethra/atlas/internal/config"
	"github.com/aethra/atlas/internal/database"
	"github.com/aethra/atlas/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:api_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testConfig(modules string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "0", Debug: true},
		Auth:   config.AuthConfig{SecretKey: "test-secret", SessionTTLHours: 1},
		CORS: config.CORSConfig{
			AllowedOrigins:   []string{"http://localhost:3000"},
			AllowCredentials: true,
		},
		Modules: config.ParseModules(modules),
	}
}

func setupTestServer(t *testing.T, modules string) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)

	auxTokens := auth.NewAuxTokenService("test-secret")
	sessions := auth.NewSessionService(db, 1, auxTokens)

	handlers := &Handlers{
		Auth:       NewAuthHandler(db, sessions),
		Projects:   NewProjectHandler(db),
		Tasks:      NewTaskHandler(db, services.NewTaskService(db)),
		Timesheets: NewTimesheetHandler(db),
		Catalog:    NewCatalogHandler(db),
		Orders:     NewOrderHandler(db),
		Invoices:   NewInvoiceHandler(db, services.NewInvoiceService(db)),
		Expenses:   NewExpenseHandler(db),
		Analytics:  NewAnalyticsHandler(db, services.NewMetricsService(db)),
	}
	router := SetupRouter(testConfig(modules), NewMiddleware(sessions), handlers)
	return router, db
}

// testClient drives the router with the session cookie and CSRF header of a
// logged-in user
type testClient struct {
	t      *testing.T
	router *gin.Engine
	cookie *http.Cookie
	csrf   string
}

func newTestClient(t *testing.T, router *gin.Engine) *testClient {
	return &testClient{t: t, router: router}
}

// signup registers a user and captures the session cookie and CSRF token
func (c *testClient) signup(email, password string) map[string]interface{} {
	c.t.Helper()
	body := c.do(http.MethodPost, "/api/auth/signup", map[string]interface{}{
		"email":      email,
		"password":   password,
		"first_name": "Test",
		"last_name":  "User",
	}, http.StatusCreated)
	return body
}

// login authenticates and captures the session cookie and CSRF token
func (c *testClient) login(email, password string) *httptest.ResponseRecorder {
	c.t.Helper()
	return c.raw(http.MethodPost, "/api/auth/login", map[string]interface{}{
		"email":    email,
		"password": password,
	})
}

// raw performs a request and returns the recorder without status assertions
func (c *testClient) raw(method, path string, payload interface{}) *httptest.ResponseRecorder {
	c.t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			c.t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	if c.csrf != "" {
		req.Header.Set(CSRFHeader, c.csrf)
	}

	rr := httptest.NewRecorder()
	c.router.ServeHTTP(rr, req)
	c.captureSession(rr)
	return rr
}

// do performs a request, asserts the status, and decodes the JSON body
func (c *testClient) do(method, path string, payload interface{}, wantStatus int) map[string]interface{} {
	c.t.Helper()
	rr := c.raw(method, path, payload)
	if rr.Code != wantStatus {
		c.t.Fatalf("%s %s: expected %d got %d body=%s", method, path, wantStatus, rr.Code, rr.Body.String())
	}
	if rr.Body.Len() == 0 {
		return nil
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		c.t.Fatalf("%s %s: decode body: %v (%s)", method, path, err, rr.Body.String())
	}
	return body
}

func (c *testClient) captureSession(rr *httptest.ResponseRecorder) {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == auth.SessionCookie && cookie.Value != "" {
			c.cookie = cookie
		}
	}
	if rr.Body.Len() > 0 {
		var body struct {
			CSRFToken string `json:"csrf_token"`
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err == nil && body.CSRFToken != "" {
			c.csrf = body.CSRFToken
		}
	}
}

// Package api - Router setup
package api

import (
	"time"

	"github.com/aethra/atlas/internal/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers bundles every handler the router mounts
type Handlers struct {
	Auth       *AuthHandler
	Projects   *ProjectHandler
	Tasks      *TaskHandler
	Timesheets *TimesheetHandler
	Catalog    *CatalogHandler
	Orders     *OrderHandler
	Invoices   *InvoiceHandler
	Expenses   *ExpenseHandler
	Analytics  *AnalyticsHandler
}

// SetupRouter creates and configures the Gin router. Entity groups absent
// from the module allow-list are never registered, so their routes 404.
func SetupRouter(cfg *config.Config, mw *Middleware, h *Handlers) *gin.Engine {
	r := gin.Default()

	if len(cfg.Server.AllowedHosts) > 0 {
		r.Use(AllowedHosts(cfg.Server.AllowedHosts))
	}

	// When credentials are used, specific origins must be provided (not *)
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", CSRFHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	} else {
		// Development defaults - in production, set CORS_ALLOWED_ORIGINS
		corsConfig.AllowOrigins = []string{
			"http://localhost:3000",
			"http://localhost:8080",
			"http://127.0.0.1:3000",
			"http://127.0.0.1:8080",
		}
	}
	r.Use(cors.New(corsConfig))

	// Health check (no auth required)
	r.GET("/api/health", Health)

	// ==========================================================================
	// AUTH API - session establishment (no auth, no CSRF)
	// ==========================================================================
	authRoutes := r.Group("/api/auth")
	{
		authRoutes.POST("/login", h.Auth.Login)
		authRoutes.POST("/signup", h.Auth.Signup)
	}

	// Authenticated auth endpoints. Unsafe methods carry the CSRF header.
	authProtected := r.Group("/api/auth")
	authProtected.Use(mw.RequireAuth())
	authProtected.Use(mw.RequireCSRF())
	{
		authProtected.GET("/csrf", h.Auth.CSRF)
		authProtected.GET("/user", h.Auth.Me)
		authProtected.POST("/logout", h.Auth.Logout)
		authProtected.POST("/password", h.Auth.ChangePassword)
	}

	// ==========================================================================
	// RESOURCE API - module-gated entity groups
	// ==========================================================================
	api := r.Group("/api")
	api.Use(mw.RequireAuth())
	api.Use(mw.RequireCSRF())

	enabled := cfg.Modules.Enabled

	if enabled(config.ModuleProjects) {
		api.GET("/projects", h.Projects.ListProjects)
		api.POST("/projects", h.Projects.CreateProject)
		api.GET("/projects/:id", h.Projects.GetProject)
		api.PUT("/projects/:id", h.Projects.UpdateProject)
		api.PATCH("/projects/:id", h.Projects.UpdateProject)
		api.DELETE("/projects/:id", h.Projects.DeleteProject)
	}

	if enabled(config.ModuleTasks) {
		api.GET("/tasks", h.Tasks.ListTasks)
		api.POST("/tasks", h.Tasks.CreateTask)
		api.GET("/tasks/:id", h.Tasks.GetTask)
		api.PUT("/tasks/:id", h.Tasks.UpdateTask)
		api.PATCH("/tasks/:id", h.Tasks.UpdateTask)
		api.DELETE("/tasks/:id", h.Tasks.DeleteTask)
	}

	if enabled(config.ModuleTime) {
		api.GET("/time-entries", h.Timesheets.ListTimeEntries)
		api.POST("/time-entries", h.Timesheets.CreateTimeEntry)
		api.GET("/time-entries/:id", h.Timesheets.GetTimeEntry)
		api.PUT("/time-entries/:id", h.Timesheets.UpdateTimeEntry)
		api.PATCH("/time-entries/:id", h.Timesheets.UpdateTimeEntry)
		api.DELETE("/time-entries/:id", h.Timesheets.DeleteTimeEntry)
	}

	if enabled(config.ModuleProducts) {
		api.GET("/products", h.Catalog.ListProducts)
		api.POST("/products", h.Catalog.CreateProduct)
		api.GET("/products/:id", h.Catalog.GetProduct)
		api.PUT("/products/:id", h.Catalog.UpdateProduct)
		api.PATCH("/products/:id", h.Catalog.UpdateProduct)
		api.DELETE("/products/:id", h.Catalog.DeleteProduct)
	}

	if enabled(config.ModuleCustomers) {
		api.GET("/customers", h.Catalog.ListCustomers)
		api.POST("/customers", h.Catalog.CreateCustomer)
		api.GET("/customers/:id", h.Catalog.GetCustomer)
		api.PUT("/customers/:id", h.Catalog.UpdateCustomer)
		api.PATCH("/customers/:id", h.Catalog.UpdateCustomer)
		api.DELETE("/customers/:id", h.Catalog.DeleteCustomer)
	}

	if enabled(config.ModuleVendors) {
		api.GET("/vendors", h.Catalog.ListVendors)
		api.POST("/vendors", h.Catalog.CreateVendor)
		api.GET("/vendors/:id", h.Catalog.GetVendor)
		api.PUT("/vendors/:id", h.Catalog.UpdateVendor)
		api.PATCH("/vendors/:id", h.Catalog.UpdateVendor)
		api.DELETE("/vendors/:id", h.Catalog.DeleteVendor)
	}

	if enabled(config.ModuleSales) {
		api.GET("/sales-orders", h.Orders.ListSalesOrders)
		api.POST("/sales-orders", h.Orders.CreateSalesOrder)
		api.GET("/sales-orders/:id", h.Orders.GetSalesOrder)
		api.PUT("/sales-orders/:id", h.Orders.UpdateSalesOrder)
		api.PATCH("/sales-orders/:id", h.Orders.UpdateSalesOrder)
		api.DELETE("/sales-orders/:id", h.Orders.DeleteSalesOrder)

		if enabled(config.ModuleSalesLines) {
			api.POST("/sales-orders/:id/lines", h.Orders.CreateSalesOrderLine)
			api.PUT("/sales-orders/:id/lines/:lineID", h.Orders.UpdateSalesOrderLine)
			api.PATCH("/sales-orders/:id/lines/:lineID", h.Orders.UpdateSalesOrderLine)
			api.DELETE("/sales-orders/:id/lines/:lineID", h.Orders.DeleteSalesOrderLine)
		}
	}

	if enabled(config.ModulePurchases) {
		api.GET("/purchase-orders", h.Orders.ListPurchaseOrders)
		api.POST("/purchase-orders", h.Orders.CreatePurchaseOrder)
		api.GET("/purchase-orders/:id", h.Orders.GetPurchaseOrder)
		api.PUT("/purchase-orders/:id", h.Orders.UpdatePurchaseOrder)
		api.PATCH("/purchase-orders/:id", h.Orders.UpdatePurchaseOrder)
		api.DELETE("/purchase-orders/:id", h.Orders.DeletePurchaseOrder)

		if enabled(config.ModulePurchaseLines) {
			api.POST("/purchase-orders/:id/lines", h.Orders.CreatePurchaseOrderLine)
			api.PUT("/purchase-orders/:id/lines/:lineID", h.Orders.UpdatePurchaseOrderLine)
			api.PATCH("/purchase-orders/:id/lines/:lineID", h.Orders.UpdatePurchaseOrderLine)
			api.DELETE("/purchase-orders/:id/lines/:lineID", h.Orders.DeletePurchaseOrderLine)
		}
	}

	if enabled(config.ModuleInvoices) {
		api.GET("/invoices", h.Invoices.ListInvoices)
		api.POST("/invoices", h.Invoices.CreateInvoice)
		api.GET("/invoices/:id", h.Invoices.GetInvoice)
		api.PUT("/invoices/:id", h.Invoices.UpdateInvoice)
		api.PATCH("/invoices/:id", h.Invoices.UpdateInvoice)
		api.DELETE("/invoices/:id", h.Invoices.DeleteInvoice)

		if enabled(config.ModuleInvoiceLines) {
			api.POST("/invoices/:id/lines", h.Invoices.CreateInvoiceLine)
			api.PUT("/invoices/:id/lines/:lineID", h.Invoices.UpdateInvoiceLine)
			api.PATCH("/invoices/:id/lines/:lineID", h.Invoices.UpdateInvoiceLine)
			api.DELETE("/invoices/:id/lines/:lineID", h.Invoices.DeleteInvoiceLine)
		}
	}

	if enabled(config.ModuleExpenses) {
		api.GET("/expenses", h.Expenses.ListExpenses)
		api.POST("/expenses", h.Expenses.CreateExpense)
		api.GET("/expenses/:id", h.Expenses.GetExpense)
		api.PUT("/expenses/:id", h.Expenses.UpdateExpense)
		api.PATCH("/expenses/:id", h.Expenses.UpdateExpense)
		api.DELETE("/expenses/:id", h.Expenses.DeleteExpense)
	}

	if enabled(config.ModuleAnalytics) {
		api.GET("/analytics/events", h.Analytics.ListEvents)
		api.POST("/analytics/events", h.Analytics.CreateEvent)
		api.GET("/analytics/events/:id", h.Analytics.GetEvent)
		api.DELETE("/analytics/events/:id", h.Analytics.DeleteEvent)
		api.POST("/analytics/rollup", h.Analytics.Rollup)
	}

	if enabled(config.ModuleAggregatedMetrics) {
		api.GET("/analytics/metrics", h.Analytics.ListMetrics)
		api.GET("/analytics/metrics/:id", h.Analytics.GetMetric)
	}

	return r
}

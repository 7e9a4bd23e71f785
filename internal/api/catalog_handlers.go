// Package api - Catalog handlers for products, customers and vendors
package api

import (
	"net/http"

	"github.com/aethra/atlas/internal/catalog"
	"github.com/aethra/atlas/internal/errors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CatalogHandler contains catalog API handlers
type CatalogHandler struct {
	db *gorm.DB
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

// referenceCount sums rows in the given tables pointing at id through column
func (h *CatalogHandler) referenceCount(id interface{}, column string, tables ...string) (int64, string) {
	for _, table := range tables {
		var count int64
		h.db.Table(table).Where(column+" = ?", id).Count(&count)
		if count > 0 {
			return count, table
		}
	}
	return 0, ""
}

// =============================================================================
// PRODUCTS
// =============================================================================

// ListProducts returns catalog products
// GET /api/products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	params := parseListParams(c)

	query := h.db.Model(&catalog.Product{})
	if productType := c.Query("product_type"); productType != "" {
		query = query.Where("product_type = ?", productType)
	}
	if active := c.Query("is_active"); active != "" {
		query = query.Where("is_active = ?", active == "true")
	}
	query = applySearch(query, c, "name", "sku", "notes")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}

	var products []catalog.Product
	err := query.Order("name ASC").
		Offset(params.Offset()).Limit(params.PageSize).
		Find(&products).Error
	if err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}
	listResponse(c, products, total, params)
}

// GetProduct returns a single product
// GET /api/products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var product catalog.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		respondError(c, errors.FromDB(err, "product"))
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateProduct creates a catalog product
// POST /api/products
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var input struct {
		Name        string           `json:"name" binding:"required"`
		SKU         *string          `json:"sku"`
		ProductType string           `json:"product_type"`
		SalesPrice  *decimal.Decimal `json:"sales_price"`
		CostPrice   *decimal.Decimal `json:"cost_price"`
		Unit        string           `json:"unit"`
		IsActive    *bool            `json:"is_active"`
		Notes       string           `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	productType := catalog.ProductType(input.ProductType)
	if productType == "" {
		productType = catalog.TypeService
	}
	if !validProductType(productType) {
		respondError(c, errors.NewValidationError("product_type", "unknown product type"))
		return
	}

	product := catalog.Product{
		Name:        input.Name,
		SKU:         input.SKU,
		ProductType: productType,
		CostPrice:   input.CostPrice,
		Unit:        input.Unit,
		IsActive:    true,
		Notes:       input.Notes,
	}
	if input.SalesPrice != nil {
		product.SalesPrice = *input.SalesPrice
	}
	if product.Unit == "" {
		product.Unit = "unit"
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := h.db.Create(&product).Error; err != nil {
		respondError(c, errors.FromDB(err, "product"))
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct applies a partial update
// PUT/PATCH /api/products/:id
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var product catalog.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		respondError(c, errors.FromDB(err, "product"))
		return
	}

	var input struct {
		Name        *string          `json:"name"`
		SKU         *string          `json:"sku"`
		ProductType *string          `json:"product_type"`
		SalesPrice  *decimal.Decimal `json:"sales_price"`
		CostPrice   *decimal.Decimal `json:"cost_price"`
		Unit        *string          `json:"unit"`
		IsActive    *bool            `json:"is_active"`
		Notes       *string          `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.SKU != nil {
		product.SKU = input.SKU
	}
	if input.ProductType != nil {
		productType := catalog.ProductType(*input.ProductType)
		if !validProductType(productType) {
			respondError(c, errors.NewValidationError("product_type", "unknown product type"))
			return
		}
		product.ProductType = productType
	}
	if input.SalesPrice != nil {
		product.SalesPrice = *input.SalesPrice
	}
	if input.CostPrice != nil {
		product.CostPrice = input.CostPrice
	}
	if input.Unit != nil {
		product.Unit = *input.Unit
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.Notes != nil {
		product.Notes = *input.Notes
	}

	if err := h.db.Save(&product).Error; err != nil {
		respondError(c, errors.FromDB(err, "product"))
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct refuses to delete a product still referenced by order or
// invoice lines
// DELETE /api/products/:id
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var product catalog.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		respondError(c, errors.FromDB(err, "product"))
		return
	}

	if count, table := h.referenceCount(id, "product_id",
		"sales_order_lines", "purchase_order_lines", "invoice_lines"); count > 0 {
		respondError(c, errors.NewProtectedError("product", table))
		return
	}

	if err := h.db.Delete(&product).Error; err != nil {
		respondError(c, errors.FromDB(err, "product"))
		return
	}
	c.Status(http.StatusNoContent)
}

// =============================================================================
// CUSTOMERS
// =============================================================================

// ListCustomers returns customers
// GET /api/customers
func (h *CatalogHandler) ListCustomers(c *gin.Context) {
	params := parseListParams(c)

	query := applySearch(h.db.Model(&catalog.Customer{}), c, "name", "company", "email")
	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}

	var customers []catalog.Customer
	err := query.Order("name ASC").
		Offset(params.Offset()).Limit(params.PageSize).
		Find(&customers).Error
	if err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}
	listResponse(c, customers, total, params)
}

// GetCustomer returns a single customer
// GET /api/customers/:id
func (h *CatalogHandler) GetCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var customer catalog.Customer
	if err := h.db.First(&customer, "id = ?", id).Error; err != nil {
		respondError(c, errors.FromDB(err, "customer"))
		return
	}
	c.JSON(http.StatusOK, customer)
}

// CreateCustomer creates a customer
// POST /api/customers
func (h *CatalogHandler) CreateCustomer(c *gin.Context) {
	var input struct {
		Name    string  `json:"name" binding:"required"`
		Company string  `json:"company"`
		Email   *string `json:"email" binding:"omitempty,email"`
		Phone   string  `json:"phone"`
		Address string  `json:"address"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	customer := catalog.Customer{
		Name:    input.Name,
		Company: input.Company,
		Email:   input.Email,
		Phone:   input.Phone,
		Address: input.Address,
	}
	if err := h.db.Create(&customer).Error; err != nil {
		respondError(c, errors.FromDB(err, "customer"))
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// UpdateCustomer applies a partial update
// PUT/PATCH /api/customers/:id
func (h *CatalogHandler) UpdateCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var customer catalog.Customer
	if err := h.db.First(&customer, "id = ?", id).Error; err != nil {
		respondError(c, errors.FromDB(err, "customer"))
		return
	}

	var input struct {
		Name    *string `json:"name"`
		Company *string `json:"company"`
		Email   *string `json:"email" binding:"omitempty,email"`
		Phone   *string `json:"phone"`
		Address *string `json:"address"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Company != nil {
		customer.Company = *input.Company
	}
	if input.Email != nil {
		customer.Email = input.Email
	}
	if input.Phone != nil {
		customer.Phone = *input.Phone
	}
	if input.Address != nil {
		customer.Address = *input.Address
	}

	if err := h.db.Save(&customer).Error; err != nil {
		respondError(c, errors.FromDB(err, "customer"))
		return
	}
	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer refuses to delete a customer still referenced by orders or
// invoices; projects keep a nullable reference and are cleared instead
// DELETE /api/customers/:id
func (h *CatalogHandler) DeleteCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var customer catalog.Customer
	if err := h.db.First(&customer, "id = ?", id).Error; err != nil {
		respondError(c, errors.FromDB(err, "customer"))
		return
	}

	if count, table := h.referenceCount(id, "customer_id",
		"sales_orders", "invoices"); count > 0 {
		respondError(c, errors.NewProtectedError("customer", table))
		return
	}

	h.db.Table("projects").
		Where("customer_id = ?", id).
		Update("customer_id", nil)

	if err := h.db.Delete(&customer).Error; err != nil {
		respondError(c, errors.FromDB(err, "customer"))
		return
	}
	c.Status(http.StatusNoContent)
}

// =============================================================================
// VENDORS
// =============================================================================

// ListVendors returns vendors
// GET /api/vendors
func (h *CatalogHandler) ListVendors(c *gin.Context) {
	params := parseListParams(c)

	query := applySearch(h.db.Model(&catalog.Vendor{}), c, "name", "contact", "email")
	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}

	var vendors []catalog.Vendor
	err := query.Order("name ASC").
		Offset(params.Offset()).Limit(params.PageSize).
		Find(&vendors).Error
	if err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}
	listResponse(c, vendors, total, params)
}

// GetVendor returns a single vendor
// GET /api/vendors/:id
func (h *CatalogHandler) GetVendor(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var vendor catalog.Vendor
	if err := h.db.First(&vendor, "id = ?", id).Error; err != nil {
		respondError(c, errors.FromDB(err, "vendor"))
		return
	}
	c.JSON(http.StatusOK, vendor)
}

// CreateVendor creates a vendor
// POST /api/vendors
func (h *CatalogHandler) CreateVendor(c *gin.Context) {
	var input struct {
		Name    string  `json:"name" binding:"required"`
		Contact string  `json:"contact"`
		Email   *string `json:"email" binding:"omitempty,email"`
		Phone   string  `json:"phone"`
		Address string  `json:"address"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	vendor := catalog.Vendor{
		Name:    input.Name,
		Contact: input.Contact,
		Email:   input.Email,
		Phone:   input.Phone,
		Address: input.Address,
	}
	if err := h.db.Create(&vendor).Error; err != nil {
		respondError(c, errors.FromDB(err, "vendor"))
		return
	}
	c.JSON(http.StatusCreated, vendor)
}

// UpdateVendor applies a partial update
// PUT/PATCH /api/vendors/:id
func (h *CatalogHandler) UpdateVendor(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var vendor catalog.Vendor
	if err := h.db.First(&vendor, "id = ?", id).Error; err != nil {
		respondError(c, errors.FromDB(err, "vendor"))
		return
	}

	var input struct {
		Name    *string `json:"name"`
		Contact *string `json:"contact"`
		Email   *string `json:"email" binding:"omitempty,email"`
		Phone   *string `json:"phone"`
		Address *string `json:"address"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	if input.Name != nil {
		vendor.Name = *input.Name
	}
	if input.Contact != nil {
		vendor.Contact = *input.Contact
	}
	if input.Email != nil {
		vendor.Email = input.Email
	}
	if input.Phone != nil {
		vendor.Phone = *input.Phone
	}
	if input.Address != nil {
		vendor.Address = *input.Address
	}

	if err := h.db.Save(&vendor).Error; err != nil {
		respondError(c, errors.FromDB(err, "vendor"))
		return
	}
	c.JSON(http.StatusOK, vendor)
}

// DeleteVendor refuses to delete a vendor still referenced by purchase orders
// or invoices; expenses keep a nullable reference and are cleared
// DELETE /api/vendors/:id
func (h *CatalogHandler) DeleteVendor(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var vendor catalog.Vendor
	if err := h.db.First(&vendor, "id = ?", id).Error; err != nil {
		respondError(c, errors.FromDB(err, "vendor"))
		return
	}

	if count, table := h.referenceCount(id, "vendor_id",
		"purchase_orders", "invoices"); count > 0 {
		respondError(c, errors.NewProtectedError("vendor", table))
		return
	}

	h.db.Table("expenses").
		Where("vendor_id = ?", id).
		Update("vendor_id", nil)

	if err := h.db.Delete(&vendor).Error; err != nil {
		respondError(c, errors.FromDB(err, "vendor"))
		return
	}
	c.Status(http.StatusNoContent)
}

func validProductType(t catalog.ProductType) bool {
	switch t {
	case catalog.TypeService, catalog.TypeGoods, catalog.TypeExpense:
		return true
	}
	return false
}

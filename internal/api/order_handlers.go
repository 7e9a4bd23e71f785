// Package api - Sales and purchase order handlers
package api

import (
	"net/http"

	"github.com/aethra/atlas/internal/errors"
	"github.com/aethra/atlas/internal/orders"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderHandler contains sales and purchase order API handlers.
// Order totals are stored as written; line writes never recompute them.
type OrderHandler struct {
	db *gorm.DB
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(db *gorm.DB) *OrderHandler {
	return &OrderHandler{db: db}
}

// orderLineInput is shared by sales and purchase order line writes
type orderLineInput struct {
	ProductID   uuid.UUID        `json:"product_id" binding:"required"`
	Description string           `json:"description"`
	Quantity    *decimal.Decimal `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	LineTotal   *decimal.Decimal `json:"line_total"`
}

type orderLinePatch struct {
	ProductID   *uuid.UUID       `json:"product_id"`
	Description *string          `json:"description"`
	Quantity    *decimal.Decimal `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	LineTotal   *decimal.Decimal `json:"line_total"`
}

func (h *OrderHandler) productExists(id uuid.UUID) bool {
	var count int64
	h.db.Table("products").Where("id = ?", id).Count(&count)
	return count > 0
}

// =============================================================================
// SALES ORDERS
// =============================================================================

// ListSalesOrders returns sales orders
// GET /api/sales-orders
func (h *OrderHandler) ListSalesOrders(c *gin.Context) {
	params := parseListParams(c)

	query := h.db.Model(&orders.SalesOrder{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if customerID := c.Query("customer_id"); customerID != "" {
		id, err := uuid.Parse(customerID)
		if err != nil {
			respondError(c, errors.NewValidationError("customer_id", "must be a uuid"))
			return
		}
		query = query.Where("customer_id = ?", id)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}

	var results []orders.SalesOrder
	err := query.Preload("Customer").Preload("Lines").Preload("Lines.Product").
		Order("date DESC, number DESC").
		Offset(params.Offset()).Limit(params.PageSize).
		Find(&results).Error
	if err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}
	listResponse(c, results, total, params)
}

// GetSalesOrder returns a sales order with its lines
// GET /api/sales-orders/:id
func (h *OrderHandler) GetSalesOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var order orders.SalesOrder
	err := h.db.Preload("Customer").Preload("Lines").Preload("Lines.Product").
		First(&order, "id = ?", id).Error
	if err != nil {
		respondError(c, errors.FromDB(err, "sales order"))
		return
	}
	c.JSON(http.StatusOK, order)
}

// CreateSalesOrder creates a sales order, optionally with lines
// POST /api/sales-orders
func (h *OrderHandler) CreateSalesOrder(c *gin.Context) {
	var input struct {
		Number      string           `json:"number" binding:"required"`
		CustomerID  uuid.UUID        `json:"customer_id" binding:"required"`
		ProjectID   *uuid.UUID       `json:"project_id"`
		Date        *string          `json:"date"`
		Status      string           `json:"status"`
		TotalAmount *decimal.Decimal `json:"total_amount"`
		Lines       []orderLineInput `json:"lines"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	date, err := requireDate("date", input.Date)
	if err != nil {
		respondError(c, err)
		return
	}

	status := orders.SalesOrderStatus(input.Status)
	if status == "" {
		status = orders.SalesDraft
	}
	if !validSalesStatus(status) {
		respondError(c, errors.NewValidationError("status", "unknown sales order status"))
		return
	}

	order := orders.SalesOrder{
		Number:     input.Number,
		CustomerID: input.CustomerID,
		ProjectID:  input.ProjectID,
		Date:       date,
		Status:     status,
	}
	if input.TotalAmount != nil {
		order.TotalAmount = *input.TotalAmount
	}
	for _, line := range input.Lines {
		if !h.productExists(line.ProductID) {
			respondError(c, errors.NewNotFoundError("product"))
			return
		}
		order.Lines = append(order.Lines, newSalesLine(line))
	}

	if err := h.db.Create(&order).Error; err != nil {
		respondError(c, errors.FromDB(err, "sales order"))
		return
	}
	c.JSON(http.StatusCreated, order)
}

// UpdateSalesOrder applies a partial update to the order header
// PUT/PATCH /api/sales-orders/:id
func (h *OrderHandler) UpdateSalesOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var order orders.SalesOrder
	if err := h.db.First(&order, "id = ?", id).Error; err != nil {
		respondError(c, errors.FromDB(err, "sales order"))
		return
	}

	var input struct {
		Number      *string          `json:"number"`
		CustomerID  *uuid.UUID       `json:"customer_id"`
		ProjectID   *uuid.UUID       `json:"project_id"`
		Date        *string          `json:"date"`
		Status      *string          `json:"status"`
		TotalAmount *decimal.Decimal `json:"total_amount"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	if input.Number != nil {
		order.Number = *input.Number
	}
	if input.CustomerID != nil {
		order.CustomerID = *input.CustomerID
	}
	if input.ProjectID != nil {
		order.ProjectID = input.ProjectID
	}
	if input.Date != nil {
		date, err := requireDate("date", input.Date)
		if err != nil {
			respondError(c, err)
			return
		}
		order.Date = date
	}
	if input.Status != nil {
		status := orders.SalesOrderStatus(*input.Status)
		if !validSalesStatus(status) {
			respondError(c, errors.NewValidationError("status", "unknown sales order status"))
			return
		}
		order.Status = status
	}
	if input.TotalAmount != nil {
		order.TotalAmount = *input.TotalAmount
	}

	if err := h.db.Save(&order).Error; err != nil {
		respondError(c, errors.FromDB(err, "sales order"))
		return
	}
	c.JSON(http.StatusOK, order)
}

// DeleteSalesOrder removes an order and cascades to its lines
// DELETE /api/sales-orders/:id
func (h *OrderHandler) DeleteSalesOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var order orders.SalesOrder
	if err := h.db.First(&order, "id = ?", id).Error; err != nil {
		respondError(c, errors.FromDB(err, "sales order"))
		return
	}
	if err := h.db.Select("Lines").Delete(&order).Error; err != nil {
		respondError(c, errors.FromDB(err, "sales order"))
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateSalesOrderLine appends a line; the order total is untouched
// POST /api/sales-orders/:id/lines
func (h *OrderHandler) CreateSalesOrderLine(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}

	var order orders.SalesOrder
	if err := h.db.First(&order, "id = ?", orderID).Error; err != nil {
		respondError(c, errors.FromDB(err, "sales order"))
		return
	}

	var input orderLineInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	if !h.productExists(input.ProductID) {
		respondError(c, errors.NewNotFoundError("product"))
		return
	}

	line := newSalesLine(input)
	line.OrderID = order.ID
	if err := h.db.Create(&line).Error; err != nil {
		respondError(c, errors.FromDB(err, "sales order line"))
		return
	}
	c.JSON(http.StatusCreated, line)
}

// UpdateSalesOrderLine applies a partial update; the order total is untouched
// PUT/PATCH /api/sales-orders/:id/lines/:lineID
func (h *OrderHandler) UpdateSalesOrderLine(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}
	lineID, ok := pathLineID(c)
	if !ok {
		return
	}

	var line orders.SalesOrderLine
	err := h.db.First(&line, "id = ? AND order_id = ?", lineID, orderID).Error
	if err != nil {
		respondError(c, errors.FromDB(err, "sales order line"))
		return
	}

	var input orderLinePatch
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	if err := h.applyLinePatch(&line.ProductID, &line.Description, &line.Quantity, &line.UnitPrice, &line.LineTotal, input); err != nil {
		respondError(c, err)
		return
	}

	if err := h.db.Save(&line).Error; err != nil {
		respondError(c, errors.FromDB(err, "sales order line"))
		return
	}
	c.JSON(http.StatusOK, line)
}

// DeleteSalesOrderLine removes a line; the order total is untouched
// DELETE /api/sales-orders/:id/lines/:lineID
func (h *OrderHandler) DeleteSalesOrderLine(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}
	lineID, ok := pathLineID(c)
	if !ok {
		return
	}

	result := h.db.Where("id = ? AND order_id = ?", lineID, orderID).
		Delete(&orders.SalesOrderLine{})
	if result.Error != nil {
		respondError(c, errors.FromDB(result.Error, "sales order line"))
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, errors.NewNotFoundError("sales order line"))
		return
	}
	c.Status(http.StatusNoContent)
}

// =============================================================================
// PURCHASE ORDERS
// =============================================================================

// ListPurchaseOrders returns purchase orders
// GET /api/purchase-orders
func (h *OrderHandler) ListPurchaseOrders(c *gin.Context) {
	params := parseListParams(c)

	query := h.db.Model(&orders.PurchaseOrder{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if vendorID := c.Query("vendor_id"); vendorID != "" {
		id, err := uuid.Parse(vendorID)
		if err != nil {
			respondError(c, errors.NewValidationError("vendor_id", "must be a uuid"))
			return
		}
		query = query.Where("vendor_id = ?", id)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}

	var results []orders.PurchaseOrder
	err := query.Preload("Vendor").Preload("Lines").Preload("Lines.Product").
		Order("date DESC, number DESC").
		Offset(params.Offset()).Limit(params.PageSize).
		Find(&results).Error
	if err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}
	listResponse(c, results, total, params)
}

// GetPurchaseOrder returns a purchase order with its lines
// GET /api/purchase-orders/:id
func (h *OrderHandler) GetPurchaseOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var order orders.PurchaseOrder
	err := h.db.Preload("Vendor").Preload("Lines").Preload("Lines.Product").
		First(&order, "id = ?", id).Error
	if err != nil {
		respondError(c, errors.FromDB(err, "purchase order"))
		return
	}
	c.JSON(http.StatusOK, order)
}

// CreatePurchaseOrder creates a purchase order, optionally with lines
// POST /api/purchase-orders
func (h *OrderHandler) CreatePurchaseOrder(c *gin.Context) {
	var input struct {
		Number      string           `json:"number" binding:"required"`
		VendorID    uuid.UUID        `json:"vendor_id" binding:"required"`
		ProjectID   *uuid.UUID       `json:"project_id"`
		Date        *string          `json:"date"`
		Status      string           `json:"status"`
		TotalAmount *decimal.Decimal `json:"total_amount"`
		Lines       []orderLineInput `json:"lines"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	date, err := requireDate("date", input.Date)
	if err != nil {
		respondError(c, err)
		return
	}

	status := orders.PurchaseOrderStatus(input.Status)
	if status == "" {
		status = orders.PurchaseDraft
	}
	if !validPurchaseStatus(status) {
		respondError(c, errors.NewValidationError("status", "unknown purchase order status"))
		return
	}

	order := orders.PurchaseOrder{
		Number:    input.Number,
		VendorID:  input.VendorID,
		ProjectID: input.ProjectID,
		Date:      date,
		Status:    status,
	}
	if input.TotalAmount != nil {
		order.TotalAmount = *input.TotalAmount
	}
	for _, line := range input.Lines {
		if !h.productExists(line.ProductID) {
			respondError(c, errors.NewNotFoundError("product"))
			return
		}
		order.Lines = append(order.Lines, newPurchaseLine(line))
	}

	if err := h.db.Create(&order).Error; err != nil {
		respondError(c, errors.FromDB(err, "purchase order"))
		return
	}
	c.JSON(http.StatusCreated, order)
}

// UpdatePurchaseOrder applies a partial update to the order header
// PUT/PATCH /api/purchase-orders/:id
func (h *OrderHandler) UpdatePurchaseOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var order orders.PurchaseOrder
	if err := h.db.First(&order, "id = ?", id).Error; err != nil {
		respondError(c, errors.FromDB(err, "purchase order"))
		return
	}

	var input struct {
		Number      *string          `json:"number"`
		VendorID    *uuid.UUID       `json:"vendor_id"`
		ProjectID   *uuid.UUID       `json:"project_id"`
		Date        *string          `json:"date"`
		Status      *string          `json:"status"`
		TotalAmount *decimal.Decimal `json:"total_amount"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	if input.Number != nil {
		order.Number = *input.Number
	}
	if input.VendorID != nil {
		order.VendorID = *input.VendorID
	}
	if input.ProjectID != nil {
		order.ProjectID = input.ProjectID
	}
	if input.Date != nil {
		date, err := requireDate("date", input.Date)
		if err != nil {
			respondError(c, err)
			return
		}
		order.Date = date
	}
	if input.Status != nil {
		status := orders.PurchaseOrderStatus(*input.Status)
		if !validPurchaseStatus(status) {
			respondError(c, errors.NewValidationError("status", "unknown purchase order status"))
			return
		}
		order.Status = status
	}
	if input.TotalAmount != nil {
		order.TotalAmount = *input.TotalAmount
	}

	if err := h.db.Save(&order).Error; err != nil {
		respondError(c, errors.FromDB(err, "purchase order"))
		return
	}
	c.JSON(http.StatusOK, order)
}

// DeletePurchaseOrder removes an order and cascades to its lines
// DELETE /api/purchase-orders/:id
func (h *OrderHandler) DeletePurchaseOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var order orders.PurchaseOrder
	if err := h.db.First(&order, "id = ?", id).Error; err != nil {
		respondError(c, errors.FromDB(err, "purchase order"))
		return
	}
	if err := h.db.Select("Lines").Delete(&order).Error; err != nil {
		respondError(c, errors.FromDB(err, "purchase order"))
		return
	}
	c.Status(http.StatusNoContent)
}

// CreatePurchaseOrderLine appends a line; the order total is untouched
// POST /api/purchase-orders/:id/lines
func (h *OrderHandler) CreatePurchaseOrderLine(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}

	var order orders.PurchaseOrder
	if err := h.db.First(&order, "id = ?", orderID).Error; err != nil {
		respondError(c, errors.FromDB(err, "purchase order"))
		return
	}

	var input orderLineInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	if !h.productExists(input.ProductID) {
		respondError(c, errors.NewNotFoundError("product"))
		return
	}

	line := newPurchaseLine(input)
	line.OrderID = order.ID
	if err := h.db.Create(&line).Error; err != nil {
		respondError(c, errors.FromDB(err, "purchase order line"))
		return
	}
	c.JSON(http.StatusCreated, line)
}

// UpdatePurchaseOrderLine applies a partial update; the order total is
// untouched
// PUT/PATCH /api/purchase-orders/:id/lines/:lineID
func (h *OrderHandler) UpdatePurchaseOrderLine(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}
	lineID, ok := pathLineID(c)
	if !ok {
		return
	}

	var line orders.PurchaseOrderLine
	err := h.db.First(&line, "id = ? AND order_id = ?", lineID, orderID).Error
	if err != nil {
		respondError(c, errors.FromDB(err, "purchase order line"))
		return
	}

	var input orderLinePatch
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	if err := h.applyLinePatch(&line.ProductID, &line.Description, &line.Quantity, &line.UnitPrice, &line.LineTotal, input); err != nil {
		respondError(c, err)
		return
	}

	if err := h.db.Save(&line).Error; err != nil {
		respondError(c, errors.FromDB(err, "purchase order line"))
		return
	}
	c.JSON(http.StatusOK, line)
}

// DeletePurchaseOrderLine removes a line; the order total is untouched
// DELETE /api/purchase-orders/:id/lines/:lineID
func (h *OrderHandler) DeletePurchaseOrderLine(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}
	lineID, ok := pathLineID(c)
	if !ok {
		return
	}

	result := h.db.Where("id = ? AND order_id = ?", lineID, orderID).
		Delete(&orders.PurchaseOrderLine{})
	if result.Error != nil {
		respondError(c, errors.FromDB(result.Error, "purchase order line"))
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, errors.NewNotFoundError("purchase order line"))
		return
	}
	c.Status(http.StatusNoContent)
}

// =============================================================================
// SHARED LINE HELPERS
// =============================================================================

func newSalesLine(input orderLineInput) orders.SalesOrderLine {
	line := orders.SalesOrderLine{
		ProductID:   input.ProductID,
		Description: input.Description,
		Quantity:    decimal.NewFromInt(1),
	}
	if input.Quantity != nil {
		line.Quantity = *input.Quantity
	}
	if input.UnitPrice != nil {
		line.UnitPrice = *input.UnitPrice
	}
	if input.LineTotal != nil {
		line.LineTotal = *input.LineTotal
	}
	return line
}

func newPurchaseLine(input orderLineInput) orders.PurchaseOrderLine {
	line := orders.PurchaseOrderLine{
		ProductID:   input.ProductID,
		Description: input.Description,
		Quantity:    decimal.NewFromInt(1),
	}
	if input.Quantity != nil {
		line.Quantity = *input.Quantity
	}
	if input.UnitPrice != nil {
		line.UnitPrice = *input.UnitPrice
	}
	if input.LineTotal != nil {
		line.LineTotal = *input.LineTotal
	}
	return line
}

func (h *OrderHandler) applyLinePatch(productID *uuid.UUID, description *string, quantity, unitPrice, lineTotal *decimal.Decimal, input orderLinePatch) error {
	if input.ProductID != nil {
		if !h.productExists(*input.ProductID) {
			return errors.NewNotFoundError("product")
		}
		*productID = *input.ProductID
	}
	if input.Description != nil {
		*description = *input.Description
	}
	if input.Quantity != nil {
		*quantity = *input.Quantity
	}
	if input.UnitPrice != nil {
		*unitPrice = *input.UnitPrice
	}
	if input.LineTotal != nil {
		*lineTotal = *input.LineTotal
	}
	return nil
}

func validSalesStatus(s orders.SalesOrderStatus) bool {
	switch s {
	case orders.SalesDraft, orders.SalesConfirmed, orders.SalesInvoiced, orders.SalesCancelled:
		return true
	}
	return false
}

func validPurchaseStatus(s orders.PurchaseOrderStatus) bool {
	switch s {
	case orders.PurchaseDraft, orders.PurchaseOrdered, orders.PurchaseReceived, orders.PurchaseBilled, orders.PurchaseCancelled:
		return true
	}
	return false
}

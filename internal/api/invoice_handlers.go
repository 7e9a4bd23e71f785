// Package api - Invoice and bill handlers
package api

import (
	"net/http"

	"github.com/aethra/atlas/internal/errors"
	"github.com/aethra/atlas/internal/invoices"
	"github.com/aethra/atlas/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceHandler contains invoice API handlers. Line writes route through
// the invoice service so the stored total follows the lines.
type InvoiceHandler struct {
	db      *gorm.DB
	service *services.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(db *gorm.DB, service *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{db: db, service: service}
}

// invoiceLineInput is the write shape for invoice lines. LineTotal is never
// accepted from the client; it is always quantity times unit price.
type invoiceLineInput struct {
	ProductID   *uuid.UUID       `json:"product_id"`
	Description string           `json:"description"`
	Quantity    *decimal.Decimal `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
}

// invoiceLinePatch is the partial-update shape; every field is optional
type invoiceLinePatch struct {
	ProductID   *uuid.UUID       `json:"product_id"`
	Description *string          `json:"description"`
	Quantity    *decimal.Decimal `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
}

// ListInvoices returns invoices and bills
// GET /api/invoices
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	params := parseListParams(c)

	query := h.db.Model(&invoices.Invoice{})
	if invoiceType := c.Query("invoice_type"); invoiceType != "" {
		query = query.Where("invoice_type = ?", invoiceType)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if projectID := c.Query("project_id"); projectID != "" {
		id, err := uuid.Parse(projectID)
		if err != nil {
			respondError(c, errors.NewValidationError("project_id", "must be a uuid"))
			return
		}
		query = query.Where("project_id = ?", id)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}

	var results []invoices.Invoice
	err := query.Preload("Customer").Preload("Vendor").
		Preload("Lines").Preload("Lines.Product").
		Order("date DESC, number DESC").
		Offset(params.Offset()).Limit(params.PageSize).
		Find(&results).Error
	if err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}
	listResponse(c, results, total, params)
}

// GetInvoice returns an invoice with its lines
// GET /api/invoices/:id
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var invoice invoices.Invoice
	err := h.db.Preload("Customer").Preload("Vendor").
		Preload("Lines").Preload("Lines.Product").
		First(&invoice, "id = ?", id).Error
	if err != nil {
		respondError(c, errors.FromDB(err, "invoice"))
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// CreateInvoice creates an invoice or bill, optionally with lines. A customer
// invoice must name a customer, a vendor bill must name a vendor.
// POST /api/invoices
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var input struct {
		Number      string             `json:"number" binding:"required"`
		InvoiceType string             `json:"invoice_type"`
		CustomerID  *uuid.UUID         `json:"customer_id"`
		VendorID    *uuid.UUID         `json:"vendor_id"`
		ProjectID   *uuid.UUID         `json:"project_id"`
		Date        *string            `json:"date"`
		DueDate     *string            `json:"due_date"`
		Status      string             `json:"status"`
		Lines       []invoiceLineInput `json:"lines"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	invoiceType := invoices.Type(input.InvoiceType)
	if invoiceType == "" {
		invoiceType = invoices.TypeCustomer
	}
	switch invoiceType {
	case invoices.TypeCustomer:
		if input.CustomerID == nil {
			respondError(c, errors.NewValidationError("customer_id", "required for customer invoices"))
			return
		}
	case invoices.TypeVendor:
		if input.VendorID == nil {
			respondError(c, errors.NewValidationError("vendor_id", "required for vendor bills"))
			return
		}
	default:
		respondError(c, errors.NewValidationError("invoice_type", "unknown invoice type"))
		return
	}

	status := invoices.Status(input.Status)
	if status == "" {
		status = invoices.StatusDraft
	}
	if !validInvoiceStatus(status) {
		respondError(c, errors.NewValidationError("status", "unknown invoice status"))
		return
	}

	date, err := requireDate("date", input.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	dueDate, err := parseDate("due_date", input.DueDate)
	if err != nil {
		respondError(c, err)
		return
	}

	invoice := invoices.Invoice{
		Number:      input.Number,
		InvoiceType: invoiceType,
		CustomerID:  input.CustomerID,
		VendorID:    input.VendorID,
		ProjectID:   input.ProjectID,
		Date:        date,
		DueDate:     dueDate,
		Status:      status,
	}
	if err := h.db.Create(&invoice).Error; err != nil {
		respondError(c, errors.FromDB(err, "invoice"))
		return
	}

	for _, lineInput := range input.Lines {
		line := newInvoiceLine(invoice.ID, lineInput)
		if err := h.service.SaveLine(&line); err != nil {
			respondError(c, errors.FromDB(err, "invoice line"))
			return
		}
	}

	h.db.Preload("Lines").First(&invoice, "id = ?", invoice.ID)
	c.JSON(http.StatusCreated, invoice)
}

// UpdateInvoice applies a partial update to the invoice header. The stored
// total is only ever rewritten by line writes.
// PUT/PATCH /api/invoices/:id
func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var invoice invoices.Invoice
	if err := h.db.First(&invoice, "id = ?", id).Error; err != nil {
		respondError(c, errors.FromDB(err, "invoice"))
		return
	}

	var input struct {
		Number     *string    `json:"number"`
		CustomerID *uuid.UUID `json:"customer_id"`
		VendorID   *uuid.UUID `json:"vendor_id"`
		ProjectID  *uuid.UUID `json:"project_id"`
		Date       *string    `json:"date"`
		DueDate    *string    `json:"due_date"`
		Status     *string    `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	if input.Number != nil {
		invoice.Number = *input.Number
	}
	if input.CustomerID != nil {
		invoice.CustomerID = input.CustomerID
	}
	if input.VendorID != nil {
		invoice.VendorID = input.VendorID
	}
	if input.ProjectID != nil {
		invoice.ProjectID = input.ProjectID
	}
	if input.Date != nil {
		date, err := requireDate("date", input.Date)
		if err != nil {
			respondError(c, err)
			return
		}
		invoice.Date = date
	}
	if input.DueDate != nil {
		dueDate, err := parseDate("due_date", input.DueDate)
		if err != nil {
			respondError(c, err)
			return
		}
		invoice.DueDate = dueDate
	}
	if input.Status != nil {
		status := invoices.Status(*input.Status)
		if !validInvoiceStatus(status) {
			respondError(c, errors.NewValidationError("status", "unknown invoice status"))
			return
		}
		invoice.Status = status
	}

	if err := h.db.Save(&invoice).Error; err != nil {
		respondError(c, errors.FromDB(err, "invoice"))
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// DeleteInvoice removes an invoice and cascades to its lines
// DELETE /api/invoices/:id
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var invoice invoices.Invoice
	if err := h.db.First(&invoice, "id = ?", id).Error; err != nil {
		respondError(c, errors.FromDB(err, "invoice"))
		return
	}
	if err := h.db.Select("Lines").Delete(&invoice).Error; err != nil {
		respondError(c, errors.FromDB(err, "invoice"))
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateInvoiceLine appends a line and rewrites the invoice total
// POST /api/invoices/:id/lines
func (h *InvoiceHandler) CreateInvoiceLine(c *gin.Context) {
	invoiceID, ok := pathID(c)
	if !ok {
		return
	}

	var invoice invoices.Invoice
	if err := h.db.First(&invoice, "id = ?", invoiceID).Error; err != nil {
		respondError(c, errors.FromDB(err, "invoice"))
		return
	}

	var input invoiceLineInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	line := newInvoiceLine(invoice.ID, input)
	if err := h.service.SaveLine(&line); err != nil {
		respondError(c, errors.FromDB(err, "invoice line"))
		return
	}
	c.JSON(http.StatusCreated, line)
}

// UpdateInvoiceLine applies a partial update and rewrites the invoice total
// PUT/PATCH /api/invoices/:id/lines/:lineID
func (h *InvoiceHandler) UpdateInvoiceLine(c *gin.Context) {
	invoiceID, ok := pathID(c)
	if !ok {
		return
	}
	lineID, ok := pathLineID(c)
	if !ok {
		return
	}

	var line invoices.InvoiceLine
	err := h.db.First(&line, "id = ? AND invoice_id = ?", lineID, invoiceID).Error
	if err != nil {
		respondError(c, errors.FromDB(err, "invoice line"))
		return
	}

	var input invoiceLinePatch
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	if input.ProductID != nil {
		line.ProductID = input.ProductID
	}
	if input.Description != nil {
		line.Description = *input.Description
	}
	if input.Quantity != nil {
		line.Quantity = *input.Quantity
	}
	if input.UnitPrice != nil {
		line.UnitPrice = *input.UnitPrice
	}

	if err := h.service.SaveLine(&line); err != nil {
		respondError(c, errors.FromDB(err, "invoice line"))
		return
	}
	c.JSON(http.StatusOK, line)
}

// DeleteInvoiceLine removes a line and rewrites the invoice total
// DELETE /api/invoices/:id/lines/:lineID
func (h *InvoiceHandler) DeleteInvoiceLine(c *gin.Context) {
	invoiceID, ok := pathID(c)
	if !ok {
		return
	}
	lineID, ok := pathLineID(c)
	if !ok {
		return
	}

	var line invoices.InvoiceLine
	err := h.db.First(&line, "id = ? AND invoice_id = ?", lineID, invoiceID).Error
	if err != nil {
		respondError(c, errors.FromDB(err, "invoice line"))
		return
	}

	if err := h.service.DeleteLine(&line); err != nil {
		respondError(c, errors.FromDB(err, "invoice line"))
		return
	}
	c.Status(http.StatusNoContent)
}

func newInvoiceLine(invoiceID uuid.UUID, input invoiceLineInput) invoices.InvoiceLine {
	line := invoices.InvoiceLine{
		InvoiceID:   invoiceID,
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
	return line
}

func validInvoiceStatus(s invoices.Status) bool {
	switch s {
	case invoices.StatusDraft, invoices.StatusSent, invoices.StatusPaid,
		invoices.StatusOverdue, invoices.StatusCancelled:
		return true
	}
	return false
}

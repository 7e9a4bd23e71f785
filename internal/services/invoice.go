// Package services contains the business logic shared by handlers and the CLI
package services

import (
	"github.com/aethra/atlas/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceService owns the invoice line/total recomputation.
//
// A line write is two sequential persists: the line with its recomputed
// total, then the owning invoice with the summed total. If the second
// persist fails the invoice total is stale until the next line write; there
// is no rollback or retry.
type InvoiceService struct {
	db *gorm.DB
}

// NewInvoiceService creates an invoice service
func NewInvoiceService(db *gorm.DB) *InvoiceService {
	return &InvoiceService{db: db}
}

// LineTotal computes quantity x unit price at the stored precision
func LineTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice).Round(2)
}

// SaveLine recomputes the line total, persists the line, then recomputes the
// owning invoice's total. Works for both create and update.
func (s *InvoiceService) SaveLine(line *models.InvoiceLine) error {
	line.LineTotal = LineTotal(line.Quantity, line.UnitPrice)
	if err := s.db.Save(line).Error; err != nil {
		return err
	}
	return s.RecalculateTotal(line.InvoiceID)
}

// DeleteLine removes a line and recomputes the owning invoice's total
func (s *InvoiceService) DeleteLine(line *models.InvoiceLine) error {
	if err := s.db.Delete(line).Error; err != nil {
		return err
	}
	return s.RecalculateTotal(line.InvoiceID)
}

// RecalculateTotal sums the invoice's current lines and persists the result
func (s *InvoiceService) RecalculateTotal(invoiceID uuid.UUID) error {
	var lines []models.InvoiceLine
	if err := s.db.Where("invoice_id = ?", invoiceID).Find(&lines).Error; err != nil {
		return err
	}

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.LineTotal)
	}

	return s.db.Model(&models.Invoice{}).
		Where("id = ?", invoiceID).
		Update("total_amount", total).Error
}

// Package invoices re-exports the invoice subsystem's entities from the
// canonical schema. The aliases share storage with internal/models;
// no table definitions are duplicated.
package invoices

import "github.com/aethra/atlas/internal/models"

type (
	Invoice     = models.Invoice
	InvoiceLine = models.InvoiceLine
	Type        = models.InvoiceType
	Status      = models.InvoiceStatus
)

const (
	TypeCustomer = models.InvoiceCustomer
	TypeVendor   = models.InvoiceVendor

	StatusDraft     = models.InvoiceDraft
	StatusSent      = models.InvoiceSent
	StatusPaid      = models.InvoicePaid
	StatusOverdue   = models.InvoiceOverdue
	StatusCancelled = models.InvoiceCancelled
)

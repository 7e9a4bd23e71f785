// Package orders re-exports the order subsystem's entities from the
// canonical schema. The aliases share storage with internal/models;
// no table definitions are duplicated.
package orders

import "github.com/aethra/atlas/internal/models"

type (
	SalesOrder          = models.SalesOrder
	SalesOrderLine      = models.SalesOrderLine
	SalesOrderStatus    = models.SalesOrderStatus
	PurchaseOrder       = models.PurchaseOrder
	PurchaseOrderLine   = models.PurchaseOrderLine
	PurchaseOrderStatus = models.PurchaseOrderStatus
)

const (
	SalesDraft     = models.SalesOrderDraft
	SalesConfirmed = models.SalesOrderConfirmed
	SalesInvoiced  = models.SalesOrderInvoiced
	SalesCancelled = models.SalesOrderCancelled

	PurchaseDraft     = models.PurchaseOrderDraft
	PurchaseOrdered   = models.PurchaseOrderOrdered
	PurchaseReceived  = models.PurchaseOrderReceived
	PurchaseBilled    = models.PurchaseOrderBilled
	PurchaseCancelled = models.PurchaseOrderCancelled
)

// Package catalog re-exports the catalog reference entities from the
// canonical schema. The aliases share storage with internal/models.
package catalog

import "github.com/aethra/atlas/internal/models"

type (
	Product     = models.Product
	ProductType = models.ProductType
	Customer    = models.Customer
	Vendor      = models.Vendor
)

const (
	TypeService = models.ProductService
	TypeGoods   = models.ProductGoods
	TypeExpense = models.ProductExpense
)

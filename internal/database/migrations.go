// Package database provides database utilities including migrations
package database

import (
	"fmt"
	"log"

	"github.com/aethra/atlas/internal/models"
	"gorm.io/gorm"
)

// migrationOrder lists every persisted model, parents before children so
// foreign keys resolve during AutoMigrate.
func migrationOrder() []interface{} {
	return []interface{}{
		&models.Role{},
		&models.User{},
		&models.Session{},
		&models.Customer{},
		&models.Vendor{},
		&models.Product{},
		&models.Project{},
		&models.Task{},
		&models.TimeEntry{},
		&models.SalesOrder{},
		&models.SalesOrderLine{},
		&models.PurchaseOrder{},
		&models.PurchaseOrderLine{},
		&models.Invoice{},
		&models.InvoiceLine{},
		&models.Expense{},
		&models.AnalyticsEvent{},
		&models.AggregatedMetric{},
	}
}

// RunMigrations brings the schema up to date
func RunMigrations(db *gorm.DB) error {
	for _, model := range migrationOrder() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("automigrate %T: %w", model, err)
		}
	}

	// Sanity check: the tables the rest of the process depends on must exist.
	for _, table := range []string{"users", "sessions", "projects", "invoices"} {
		if !db.Migrator().HasTable(table) {
			return fmt.Errorf("missing table after migration: %s", table)
		}
	}

	log.Printf("  ✓ Schema migrated (%d models)", len(migrationOrder()))
	return nil
}

// Package models - ID assignment hooks
package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ensureID assigns a fresh UUID when the caller did not set one.
// IDs are generated application-side so every supported driver behaves
// the same (sqlite has no uuid_generate_v4).
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *User) BeforeCreate(*gorm.DB) error              { ensureID(&u.ID); return nil }
func (r *Role) BeforeCreate(*gorm.DB) error              { ensureID(&r.ID); return nil }
func (s *Session) BeforeCreate(*gorm.DB) error           { ensureID(&s.ID); return nil }
func (p *Project) BeforeCreate(*gorm.DB) error           { ensureID(&p.ID); return nil }
func (t *Task) BeforeCreate(*gorm.DB) error              { ensureID(&t.ID); return nil }
func (t *TimeEntry) BeforeCreate(*gorm.DB) error         { ensureID(&t.ID); return nil }
func (p *Product) BeforeCreate(*gorm.DB) error           { ensureID(&p.ID); return nil }
func (c *Customer) BeforeCreate(*gorm.DB) error          { ensureID(&c.ID); return nil }
func (v *Vendor) BeforeCreate(*gorm.DB) error            { ensureID(&v.ID); return nil }
func (o *SalesOrder) BeforeCreate(*gorm.DB) error        { ensureID(&o.ID); return nil }
func (l *SalesOrderLine) BeforeCreate(*gorm.DB) error    { ensureID(&l.ID); return nil }
func (o *PurchaseOrder) BeforeCreate(*gorm.DB) error     { ensureID(&o.ID); return nil }
func (l *PurchaseOrderLine) BeforeCreate(*gorm.DB) error { ensureID(&l.ID); return nil }
func (i *Invoice) BeforeCreate(*gorm.DB) error           { ensureID(&i.ID); return nil }
func (l *InvoiceLine) BeforeCreate(*gorm.DB) error       { ensureID(&l.ID); return nil }
func (e *Expense) BeforeCreate(*gorm.DB) error           { ensureID(&e.ID); return nil }
func (e *AnalyticsEvent) BeforeCreate(*gorm.DB) error    { ensureID(&e.ID); return nil }
func (m *AggregatedMetric) BeforeCreate(*gorm.DB) error  { ensureID(&m.ID); return nil }

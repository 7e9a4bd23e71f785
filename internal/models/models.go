// Package models contains the canonical Atlas schema.
// Every subsystem (orders, invoices, timesheets, catalog, expenses) aliases
// these types instead of declaring its own storage.
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// ACCOUNTS & SESSIONS
// =============================================================================

// User represents a system user
type User struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string     `json:"-" gorm:"size:255"`
	FirstName    string     `json:"first_name" gorm:"size:100"`
	LastName     string     `json:"last_name" gorm:"size:100"`
	IsActive     bool       `json:"is_active" gorm:"default:true"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relations
	Roles []Role `json:"roles,omitempty" gorm:"many2many:user_roles;"`
}

// FullName returns the user's display name
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Role represents a user role
type Role struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null;size:50"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Users []User `json:"users,omitempty" gorm:"many2many:user_roles;"`
}

// Session is a server-side login session. The opaque Token travels in the
// session cookie; AuxToken is issued at login and stored here only.
type Session struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Token     string    `json:"-" gorm:"uniqueIndex;not null;size:64"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;index;not null"`
	CSRFToken string    `json:"-" gorm:"size:64"`
	AuxToken  string    `json:"-" gorm:"size:512"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// =============================================================================
// PROJECTS / TASKS / TIME TRACKING
// =============================================================================

// ProjectStatus enumerates project lifecycle states
type ProjectStatus string

const (
	ProjectDraft     ProjectStatus = "draft"
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectArchived  ProjectStatus = "archived"
)

// Project represents a tracked project
type Project struct {
	ID          uuid.UUID        `json:"id" gorm:"type:uuid;primary_key"`
	Name        string           `json:"name" gorm:"not null;size:255"`
	Description string           `json:"description"`
	CustomerID  *uuid.UUID       `json:"customer_id" gorm:"type:uuid;index"`
	OwnerID     *uuid.UUID       `json:"owner_id" gorm:"type:uuid;index"`
	StartDate   *time.Time       `json:"start_date" gorm:"type:date"`
	EndDate     *time.Time       `json:"end_date" gorm:"type:date"`
	Status      ProjectStatus    `json:"status" gorm:"size:16;default:'draft';index"`
	Budget      *decimal.Decimal `json:"budget" gorm:"type:decimal(14,2)"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	// Relations
	Customer *Customer `json:"customer,omitempty" gorm:"foreignKey:CustomerID;constraint:OnDelete:SET NULL"`
	Owner    *User     `json:"owner,omitempty" gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL"`
	Team     []User    `json:"team,omitempty" gorm:"many2many:project_members;"`
	Tasks    []Task    `json:"tasks,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// TaskStatus enumerates task lifecycle states
type TaskStatus string

const (
	TaskNew        TaskStatus = "new"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
	TaskBlocked    TaskStatus = "blocked"
)

// Task represents a unit of work inside a project. ParentID forms a tree;
// cycles are rejected at the application layer since the store cannot
// express acyclicity.
type Task struct {
	ID            uuid.UUID        `json:"id" gorm:"type:uuid;primary_key"`
	ProjectID     uuid.UUID        `json:"project_id" gorm:"type:uuid;index;not null"`
	Name          string           `json:"name" gorm:"not null;size:255"`
	Description   string           `json:"description"`
	AssigneeID    *uuid.UUID       `json:"assignee_id" gorm:"type:uuid;index"`
	ParentID      *uuid.UUID       `json:"parent_id" gorm:"type:uuid;index"`
	Status        TaskStatus       `json:"status" gorm:"size:16;default:'new';index"`
	Priority      int              `json:"priority" gorm:"default:3"` // 1-high .. 5-low
	DueDate       *time.Time       `json:"due_date" gorm:"type:date"`
	EstimateHours *decimal.Decimal `json:"estimate_hours" gorm:"type:decimal(6,2)"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`

	// Relations
	Project  *Project `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	Assignee *User    `json:"assignee,omitempty" gorm:"foreignKey:AssigneeID;constraint:OnDelete:SET NULL"`
	Parent   *Task    `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
	Subtasks []Task   `json:"subtasks,omitempty" gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
}

// TimeEntry is a timesheet entry connected to a task and user.
// Duration is stored in minutes for precision.
type TimeEntry struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	UserID          uuid.UUID `json:"user_id" gorm:"type:uuid;index;not null"`
	TaskID          uuid.UUID `json:"task_id" gorm:"type:uuid;index;not null"`
	Date            time.Time `json:"date" gorm:"type:date"`
	DurationMinutes int       `json:"duration_minutes" gorm:"not null"`
	Description     string    `json:"description"`
	CreatedAt       time.Time `json:"created_at"`

	// Relations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Task *Task `json:"task,omitempty" gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}

// =============================================================================
// CATALOG
// =============================================================================

// ProductType enumerates what a catalog product represents
type ProductType string

const (
	ProductService ProductType = "service"
	ProductGoods   ProductType = "goods"
	ProductExpense ProductType = "expense"
)

// Product is catalog reference data. Deletion is rejected while any order or
// invoice line references it.
type Product struct {
	ID          uuid.UUID        `json:"id" gorm:"type:uuid;primary_key"`
	Name        string           `json:"name" gorm:"not null;size:255"`
	SKU         *string          `json:"sku" gorm:"size:64;index"`
	ProductType ProductType      `json:"product_type" gorm:"size:16;default:'service';index"`
	SalesPrice  decimal.Decimal  `json:"sales_price" gorm:"type:decimal(12,2);default:0"`
	CostPrice   *decimal.Decimal `json:"cost_price" gorm:"type:decimal(12,2)"`
	Unit        string           `json:"unit" gorm:"size:32;default:'unit'"`
	IsActive    bool             `json:"is_active" gorm:"default:true"`
	Notes       string           `json:"notes"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// Customer is catalog reference data for the sales side
type Customer struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Name      string    `json:"name" gorm:"not null;size:255"`
	Company   string    `json:"company" gorm:"size:255"`
	Email     *string   `json:"email" gorm:"size:255"`
	Phone     string    `json:"phone" gorm:"size:64"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// Vendor is catalog reference data for the purchase side
type Vendor struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Name      string    `json:"name" gorm:"not null;size:255"`
	Contact   string    `json:"contact" gorm:"size:255"`
	Email     *string   `json:"email" gorm:"size:255"`
	Phone     string    `json:"phone" gorm:"size:64"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// =============================================================================
// SALES & PURCHASE ORDERS
// =============================================================================

// SalesOrderStatus enumerates sales order lifecycle states
type SalesOrderStatus string

const (
	SalesOrderDraft     SalesOrderStatus = "draft"
	SalesOrderConfirmed SalesOrderStatus = "confirmed"
	SalesOrderInvoiced  SalesOrderStatus = "invoiced"
	SalesOrderCancelled SalesOrderStatus = "cancelled"
)

// SalesOrder owns an ordered collection of lines. TotalAmount is stored as
// written; sales order line writes do not recompute it server-side.
type SalesOrder struct {
	ID          uuid.UUID        `json:"id" gorm:"type:uuid;primary_key"`
	Number      string           `json:"number" gorm:"uniqueIndex;not null;size:64"`
	CustomerID  uuid.UUID        `json:"customer_id" gorm:"type:uuid;index;not null"`
	ProjectID   *uuid.UUID       `json:"project_id" gorm:"type:uuid;index"`
	Date        time.Time        `json:"date" gorm:"type:date"`
	Status      SalesOrderStatus `json:"status" gorm:"size:16;default:'draft';index"`
	TotalAmount decimal.Decimal  `json:"total_amount" gorm:"type:decimal(14,2);default:0"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	// Relations
	Customer *Customer        `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Project  *Project         `json:"project,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:SET NULL"`
	Lines    []SalesOrderLine `json:"lines,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// SalesOrderLine references a product with quantity and pricing
type SalesOrderLine struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `json:"order_id" gorm:"type:uuid;index;not null"`
	ProductID   uuid.UUID       `json:"product_id" gorm:"type:uuid;index;not null"`
	Description string          `json:"description" gorm:"size:512"`
	Quantity    decimal.Decimal `json:"quantity" gorm:"type:decimal(10,2);default:1"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:decimal(12,2);default:0"`
	LineTotal   decimal.Decimal `json:"line_total" gorm:"type:decimal(14,2);default:0"`
	CreatedAt   time.Time       `json:"created_at"`

	// Relations
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// PurchaseOrderStatus enumerates purchase order lifecycle states
type PurchaseOrderStatus string

const (
	PurchaseOrderDraft     PurchaseOrderStatus = "draft"
	PurchaseOrderOrdered   PurchaseOrderStatus = "ordered"
	PurchaseOrderReceived  PurchaseOrderStatus = "received"
	PurchaseOrderBilled    PurchaseOrderStatus = "billed"
	PurchaseOrderCancelled PurchaseOrderStatus = "cancelled"
)

// PurchaseOrder mirrors SalesOrder on the vendor side
type PurchaseOrder struct {
	ID          uuid.UUID           `json:"id" gorm:"type:uuid;primary_key"`
	Number      string              `json:"number" gorm:"uniqueIndex;not null;size:64"`
	VendorID    uuid.UUID           `json:"vendor_id" gorm:"type:uuid;index;not null"`
	ProjectID   *uuid.UUID          `json:"project_id" gorm:"type:uuid;index"`
	Date        time.Time           `json:"date" gorm:"type:date"`
	Status      PurchaseOrderStatus `json:"status" gorm:"size:16;default:'draft';index"`
	TotalAmount decimal.Decimal     `json:"total_amount" gorm:"type:decimal(14,2);default:0"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`

	// Relations
	Vendor  *Vendor             `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
	Project *Project            `json:"project,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:SET NULL"`
	Lines   []PurchaseOrderLine `json:"lines,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// PurchaseOrderLine references a product with quantity and pricing
type PurchaseOrderLine struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `json:"order_id" gorm:"type:uuid;index;not null"`
	ProductID   uuid.UUID       `json:"product_id" gorm:"type:uuid;index;not null"`
	Description string          `json:"description" gorm:"size:512"`
	Quantity    decimal.Decimal `json:"quantity" gorm:"type:decimal(10,2);default:1"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:decimal(12,2);default:0"`
	LineTotal   decimal.Decimal `json:"line_total" gorm:"type:decimal(14,2);default:0"`
	CreatedAt   time.Time       `json:"created_at"`

	// Relations
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// =============================================================================
// INVOICES & BILLS
// =============================================================================

// InvoiceType distinguishes customer invoices from vendor bills
type InvoiceType string

const (
	InvoiceCustomer InvoiceType = "customer"
	InvoiceVendor   InvoiceType = "vendor"
)

// InvoiceStatus enumerates invoice lifecycle states. Transitions are not
// validated; any status may be written at any time.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceSent      InvoiceStatus = "sent"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// Invoice owns lines whose writes recompute TotalAmount synchronously
type Invoice struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primary_key"`
	Number      string          `json:"number" gorm:"uniqueIndex;not null;size:64"`
	InvoiceType InvoiceType     `json:"invoice_type" gorm:"size:16;default:'customer'"`
	CustomerID  *uuid.UUID      `json:"customer_id" gorm:"type:uuid;index"`
	VendorID    *uuid.UUID      `json:"vendor_id" gorm:"type:uuid;index"`
	ProjectID   *uuid.UUID      `json:"project_id" gorm:"type:uuid;index"`
	Date        time.Time       `json:"date" gorm:"type:date"`
	DueDate     *time.Time      `json:"due_date" gorm:"type:date"`
	Status      InvoiceStatus   `json:"status" gorm:"size:16;default:'draft';index"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:decimal(14,2);default:0"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relations
	Customer *Customer     `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Vendor   *Vendor       `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
	Project  *Project      `json:"project,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:SET NULL"`
	Lines    []InvoiceLine `json:"lines,omitempty" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// InvoiceLine is a line item for invoices/bills. LineTotal is recomputed as
// quantity x unit price on every write.
type InvoiceLine struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primary_key"`
	InvoiceID   uuid.UUID       `json:"invoice_id" gorm:"type:uuid;index;not null"`
	ProductID   *uuid.UUID      `json:"product_id" gorm:"type:uuid;index"`
	Description string          `json:"description" gorm:"size:512"`
	Quantity    decimal.Decimal `json:"quantity" gorm:"type:decimal(10,2);default:1"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:decimal(12,2);default:0"`
	LineTotal   decimal.Decimal `json:"line_total" gorm:"type:decimal(14,2);default:0"`
	CreatedAt   time.Time       `json:"created_at"`

	// Relations
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// =============================================================================
// EXPENSES
// =============================================================================

// Expense is a flat ledger entry, optionally tied to project/vendor/user
type Expense struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primary_key"`
	ProjectID   *uuid.UUID      `json:"project_id" gorm:"type:uuid;index"`
	VendorID    *uuid.UUID      `json:"vendor_id" gorm:"type:uuid;index"`
	UserID      *uuid.UUID      `json:"user_id" gorm:"type:uuid;index"`
	Name        string          `json:"name" gorm:"not null;size:255"`
	Date        time.Time       `json:"date" gorm:"type:date;index"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`

	// Relations
	Project *Project `json:"project,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:SET NULL"`
	Vendor  *Vendor  `json:"vendor,omitempty" gorm:"foreignKey:VendorID;constraint:OnDelete:SET NULL"`
	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
}

// =============================================================================
// ANALYTICS
// =============================================================================

// AnalyticsEvent is an append-only event record
type AnalyticsEvent struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	EventName  string     `json:"event_name" gorm:"size:128;index;not null"`
	UserID     *uuid.UUID `json:"user_id" gorm:"type:uuid"`
	ProjectID  *uuid.UUID `json:"project_id" gorm:"type:uuid;index"`
	Timestamp  time.Time  `json:"timestamp" gorm:"autoCreateTime;index"`
	Path       *string    `json:"path" gorm:"size:1024"`
	Properties JSONB      `json:"properties" gorm:"type:jsonb;default:'{}'"`

	// Relations
	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
	Project *Project `json:"project,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:SET NULL"`
}

// Granularity is the time-bucket size used when aggregating metrics
type Granularity string

const (
	GranularityHour Granularity = "hour"
	GranularityDay  Granularity = "day"
)

// AggregatedMetric is a periodic rollup, unique per
// (metric_name, period_start, granularity)
type AggregatedMetric struct {
	ID          uuid.UUID   `json:"id" gorm:"type:uuid;primary_key"`
	MetricName  string      `json:"metric_name" gorm:"size:128;uniqueIndex:idx_metric_period,priority:1;not null"`
	PeriodStart time.Time   `json:"period_start" gorm:"uniqueIndex:idx_metric_period,priority:2;index"`
	Granularity Granularity `json:"granularity" gorm:"size:8;default:'day';uniqueIndex:idx_metric_period,priority:3"`
	Value       int64       `json:"value" gorm:"default:0"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

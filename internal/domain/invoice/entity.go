// internal/domain/invoice/entity.go
package invoice

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice status values
const (
	StatusDraft     = "draft"
	StatusSent      = "sent"
	StatusPaid      = "paid"
	StatusOverdue   = "overdue"
	StatusCancelled = "cancelled"
)

// Invoice is the billing document for a sale. Exactly one invoice exists per
// sale; its total mirrors the sale total at generation time.
type Invoice struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	InvoiceNumber string          `gorm:"uniqueIndex;not null;size:50" json:"invoice_number"`
	SaleID        uint            `gorm:"uniqueIndex;not null" json:"sale_id"`
	InvoiceDate   time.Time       `gorm:"not null" json:"invoice_date"`
	DueDate       time.Time       `gorm:"not null" json:"due_date"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Status        string          `gorm:"size:20;not null;default:'draft';index" json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

// IsOverdue returns true when the due date has passed on an unpaid invoice
func (i *Invoice) IsOverdue() bool {
	return i.Status != StatusPaid && i.Status != StatusCancelled && time.Now().After(i.DueDate)
}

// TableName overrides
func (Invoice) TableName() string { return "invoices" }

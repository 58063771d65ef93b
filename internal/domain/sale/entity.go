// internal/domain/sale/entity.go
package sale

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/pos-backend/internal/domain/client"
	"github.com/your-org/pos-backend/internal/domain/invoice"
	"github.com/your-org/pos-backend/internal/domain/product"
	"gorm.io/gorm"
)

// Sale status values
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Payment methods accepted at the counter
const (
	PaymentCash        = "cash"
	PaymentMobileMoney = "mobile_money"
	PaymentCard        = "card"
	PaymentCredit      = "credit"
)

// Sale represents a completed counter transaction. It owns its details and
// its invoice; the total is always derived from the persisted details.
type Sale struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	Reference        string          `gorm:"uniqueIndex;not null;size:50" json:"reference"`
	UserID           uint            `gorm:"not null;index" json:"user_id"`
	ClientID         *uint           `gorm:"index" json:"client_id"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"total_amount"`
	Status           string          `gorm:"size:20;not null;default:'completed';index" json:"status"`
	PaymentMethod    string          `gorm:"size:20;not null" json:"payment_method"`
	PaymentReference string          `gorm:"size:255" json:"payment_reference"`
	Notes            string          `gorm:"type:text" json:"notes"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Client  *client.Client   `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Details []SaleDetail     `gorm:"foreignKey:SaleID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"details,omitempty"`
	Invoice *invoice.Invoice `gorm:"foreignKey:SaleID" json:"invoice,omitempty"`
}

// SaleDetail is one line of a sale. The unit price is a snapshot of the
// product price at the time of the sale, never a live reference.
type SaleDetail struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	SaleID    uint            `gorm:"not null;index" json:"sale_id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Quantity  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	// Relationships
	Product product.Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// IsCancelled returns true when the sale has been cancelled
func (s *Sale) IsCancelled() bool {
	return s.Status == StatusCancelled
}

// ValidPaymentMethod reports whether the value is an accepted payment method
func ValidPaymentMethod(method string) bool {
	switch method {
	case PaymentCash, PaymentMobileMoney, PaymentCard, PaymentCredit:
		return true
	}
	return false
}

// TableName overrides
func (Sale) TableName() string       { return "sales" }
func (SaleDetail) TableName() string { return "sale_details" }

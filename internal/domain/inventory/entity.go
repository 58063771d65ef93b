// internal/domain/inventory/entity.go
package inventory

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/pos-backend/internal/domain/product"
)

// MovementType represents the type of stock movement
type MovementType string

const (
	MovementTypeIn         MovementType = "in"         // Restock, sale cancellation
	MovementTypeOut        MovementType = "out"        // Sale
	MovementTypeAdjustment MovementType = "adjustment" // Manual stock adjustment
	MovementTypeCorrection MovementType = "correction" // Inventory count correction
)

// StockMovement is one entry in the append-only stock ledger. Rows are
// never updated or deleted after creation.
type StockMovement struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Type      MovementType    `gorm:"size:20;not null;index" json:"type"`
	Quantity  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Reference string          `gorm:"size:100;index" json:"reference"`
	Reason    string          `gorm:"size:255" json:"reason"`
	UserID    uint            `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time       `json:"created_at"`

	// Relationships
	Product product.Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// IsInbound returns true when the movement increases stock
func (m *StockMovement) IsInbound() bool {
	return m.Type == MovementTypeIn
}

// TableName overrides
func (StockMovement) TableName() string { return "stock_movements" }

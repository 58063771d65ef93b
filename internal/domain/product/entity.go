// internal/domain/product/entity.go
package product

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product status values
const (
	StatusAvailable    = "available"
	StatusOutOfStock   = "out_of_stock"
	StatusDiscontinued = "discontinued"
)

// Product represents a sellable item held in stock
type Product struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Name           string          `gorm:"not null;size:255" json:"name"`
	Description    string          `gorm:"type:text" json:"description"`
	CategoryID     uint            `gorm:"not null;index" json:"category_id"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	StockQuantity  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"stock_quantity"`
	Unit           string          `gorm:"size:50;default:'piece'" json:"unit"`
	AlertThreshold decimal.Decimal `gorm:"type:decimal(10,2);not null;default:10" json:"alert_threshold"`
	Status         string          `gorm:"size:20;not null;default:'available';index" json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category"`
}

// Category groups products for display and filtering
type Category struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null;size:255;uniqueIndex" json:"name"`
	Description string         `gorm:"size:500" json:"description"`
	Color       string         `gorm:"size:20" json:"color"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Products []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
}

// IsLowStock returns true when the stock level has reached the alert threshold
func (p *Product) IsLowStock() bool {
	return p.StockQuantity.LessThanOrEqual(p.AlertThreshold)
}

// IsSellable returns true when the product can appear on a new sale
func (p *Product) IsSellable() bool {
	return p.Status == StatusAvailable
}

// HasStockFor returns true when the current stock covers the requested quantity
func (p *Product) HasStockFor(quantity decimal.Decimal) bool {
	return p.StockQuantity.GreaterThanOrEqual(quantity)
}

// RecomputeStatus derives the status from the current stock level.
// A discontinued product keeps its status until it is changed explicitly.
func (p *Product) RecomputeStatus() {
	if p.Status == StatusDiscontinued {
		return
	}
	if p.StockQuantity.LessThanOrEqual(decimal.Zero) {
		p.Status = StatusOutOfStock
	} else if p.Status == StatusOutOfStock {
		p.Status = StatusAvailable
	}
}

// TableName overrides
func (Product) TableName() string  { return "products" }
func (Category) TableName() string { return "categories" }

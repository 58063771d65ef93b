// internal/domain/supplier/entity.go
package supplier

import (
	"time"

	"gorm.io/gorm"
)

// Supplier represents a goods supplier
type Supplier struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"not null;size:255" json:"name"`
	ContactPerson string         `gorm:"size:255" json:"contact_person"`
	Phone         string         `gorm:"size:20" json:"phone"`
	Email         string         `gorm:"size:255" json:"email"`
	Address       string         `gorm:"size:500" json:"address"`
	City          string         `gorm:"size:100" json:"city"`
	Country       string         `gorm:"size:100" json:"country"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	Notes         string         `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides
func (Supplier) TableName() string { return "suppliers" }

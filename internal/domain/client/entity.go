// internal/domain/client/entity.go
package client

import (
	"time"

	"gorm.io/gorm"
)

// Client represents a customer of the shop. The phone number is the
// deduplication key: sales referencing the same phone resolve to one record.
type Client struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null;size:255" json:"name"`
	Phone     string         `gorm:"uniqueIndex;not null;size:20" json:"phone"`
	Email     string         `gorm:"size:255" json:"email"`
	Address   string         `gorm:"size:500" json:"address"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides
func (Client) TableName() string { return "clients" }

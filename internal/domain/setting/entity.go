// internal/domain/setting/entity.go
package setting

import "time"

// Setting is a single key-value configuration entry
type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;not null;size:100" json:"key"`
	Value     string    `gorm:"size:1000" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name for Setting
func (Setting) TableName() string {
	return "settings"
}

// internal/domain/setting/service.go
package setting

import (
	"errors"
	"fmt"

	"github.com/your-org/pos-backend/internal/config"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNoSettings is returned when an update carries no entries
var ErrNoSettings = errors.New("no settings provided")

// Service handles application settings
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new setting service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// GetAll returns every setting as a key-value map
func (s *Service) GetAll() (map[string]string, error) {
	var settings []Setting
	if err := s.db.Order("key ASC").Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve settings: %w", err)
	}

	values := make(map[string]string, len(settings))
	for _, entry := range settings {
		values[entry.Key] = entry.Value
	}
	return values, nil
}

// Update upserts the given settings by key
func (s *Service) Update(values map[string]string) error {
	if len(values) == 0 {
		return ErrNoSettings
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for key, value := range values {
		entry := Setting{Key: key, Value: value}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&entry).Error
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to save setting %s: %w", key, err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit settings: %w", err)
	}
	return nil
}

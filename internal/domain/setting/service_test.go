// internal/domain/setting/service_test.go
package setting

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/pos-backend/internal/config"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&Setting{}))
	return db
}

func TestSettingsRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})

	values, err := svc.GetAll()
	require.NoError(t, err)
	assert.Empty(t, values)

	require.NoError(t, svc.Update(map[string]string{
		"company_name": "Boutique Centrale",
		"currency":     "XOF",
	}))

	values, err = svc.GetAll()
	require.NoError(t, err)
	assert.Equal(t, "Boutique Centrale", values["company_name"])
	assert.Equal(t, "XOF", values["currency"])
}

func TestSettingsUpsert(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})

	require.NoError(t, svc.Update(map[string]string{"currency": "XOF"}))
	require.NoError(t, svc.Update(map[string]string{"currency": "GHS"}))

	// Updating an existing key overwrites, it does not duplicate
	var count int64
	require.NoError(t, db.Model(&Setting{}).Where("key = ?", "currency").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	values, err := svc.GetAll()
	require.NoError(t, err)
	assert.Equal(t, "GHS", values["currency"])
}

func TestSettingsUpdateEmpty(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})

	assert.ErrorIs(t, svc.Update(nil), ErrNoSettings)
	assert.ErrorIs(t, svc.Update(map[string]string{}), ErrNoSettings)
}

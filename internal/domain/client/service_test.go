// internal/domain/client/service_test.go
package client

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

// saleRow mirrors the sales table for usage checks without importing the
// sale package
type saleRow struct {
	ID       uint `gorm:"primaryKey"`
	ClientID *uint
}

func (saleRow) TableName() string { return "sales" }

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&Client{}, &saleRow{}))
	return db
}

func TestCreateClient_PhoneIsIdentity(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})

	created, err := svc.CreateClient(&ClientCreateRequest{Name: "Ama", Phone: "+22997000001"})
	require.NoError(t, err)
	assert.Equal(t, "Ama", created.Name)

	_, err = svc.CreateClient(&ClientCreateRequest{Name: "Other", Phone: "+22997000001"})
	assert.ErrorIs(t, err, ErrPhoneTaken)
}

func TestFindOrCreateByPhone(t *testing.T) {
	db := setupTestDB(t)

	first, err := FindOrCreateByPhone(db, "Ama", "+22997000001")
	require.NoError(t, err)

	// Same phone returns the existing record unchanged
	second, err := FindOrCreateByPhone(db, "Different Name", "+22997000001")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Ama", second.Name)

	var count int64
	db.Model(&Client{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestFindByPhone(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})

	created, err := svc.CreateClient(&ClientCreateRequest{Name: "Ama", Phone: "+22997000001"})
	require.NoError(t, err)

	found, err := svc.FindByPhone("+22997000001")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.FindByPhone("+22900000000")
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestUpdateClient_PhoneConflict(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})

	first, err := svc.CreateClient(&ClientCreateRequest{Name: "Ama", Phone: "+22997000001"})
	require.NoError(t, err)
	_, err = svc.CreateClient(&ClientCreateRequest{Name: "Kofi", Phone: "+22997000002"})
	require.NoError(t, err)

	taken := "+22997000002"
	_, err = svc.UpdateClient(first.ID, &ClientUpdateRequest{Phone: &taken})
	assert.ErrorIs(t, err, ErrPhoneTaken)

	newName := "Ama A."
	updated, err := svc.UpdateClient(first.ID, &ClientUpdateRequest{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Ama A.", updated.Name)
}

func TestDeleteClient_BlockedBySaleHistory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})

	regular, err := svc.CreateClient(&ClientCreateRequest{Name: "Ama", Phone: "+22997000001"})
	require.NoError(t, err)
	require.NoError(t, db.Create(&saleRow{ClientID: &regular.ID}).Error)

	assert.ErrorIs(t, svc.DeleteClient(regular.ID), ErrClientHasSales)

	fresh, err := svc.CreateClient(&ClientCreateRequest{Name: "Kofi", Phone: "+22997000002"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteClient(fresh.ID))

	_, err = svc.GetClient(fresh.ID)
	assert.ErrorIs(t, err, ErrClientNotFound)
}

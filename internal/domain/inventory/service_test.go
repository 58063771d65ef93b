// internal/domain/inventory/service_test.go
package inventory

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/product"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	// SQLite has no row locks, drop the FOR UPDATE clause
	db.ClauseBuilders[clause.Locking{}.Name()] = func(c clause.Clause, b clause.Builder) {}

	err = db.AutoMigrate(&product.Category{}, &product.Product{}, &StockMovement{})
	require.NoError(t, err)

	return db
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Sales.LowStockLevel = 10
	return cfg
}

func seedProduct(t *testing.T, db *gorm.DB, stock int64, status string) *product.Product {
	t.Helper()

	category := product.Category{Name: fmt.Sprintf("Category %s", t.Name()), IsActive: true}
	require.NoError(t, db.Create(&category).Error)

	p := product.Product{
		Name:           "Soda",
		CategoryID:     category.ID,
		UnitPrice:      decimal.NewFromInt(500),
		StockQuantity:  decimal.NewFromInt(stock),
		Unit:           "piece",
		AlertThreshold: decimal.NewFromInt(5),
		Status:         status,
	}
	require.NoError(t, db.Create(&p).Error)
	return &p
}

func TestApplyMovement_Directions(t *testing.T) {
	db := setupTestDB(t)
	p := seedProduct(t, db, 10, product.StatusAvailable)

	err := ApplyMovement(db, p, decimal.NewFromInt(4), MovementTypeOut, "REF-1", "test out", 1)
	require.NoError(t, err)
	assert.True(t, p.StockQuantity.Equal(decimal.NewFromInt(6)))

	err = ApplyMovement(db, p, decimal.NewFromInt(2), MovementTypeIn, "REF-2", "test in", 1)
	require.NoError(t, err)
	assert.True(t, p.StockQuantity.Equal(decimal.NewFromInt(8)))

	var movements []StockMovement
	require.NoError(t, db.Order("id").Find(&movements).Error)
	require.Len(t, movements, 2)
	assert.Equal(t, MovementTypeOut, movements[0].Type)
	assert.False(t, movements[0].IsInbound())
	assert.True(t, movements[1].IsInbound())
	// The ledger snapshots the unit price alongside the quantity
	assert.True(t, movements[0].UnitPrice.Equal(decimal.NewFromInt(500)))
}

func TestApplyMovement_RejectsBadInput(t *testing.T) {
	db := setupTestDB(t)
	p := seedProduct(t, db, 10, product.StatusAvailable)

	err := ApplyMovement(db, p, decimal.Zero, MovementTypeOut, "", "", 1)
	assert.Error(t, err)

	err = ApplyMovement(db, p, decimal.NewFromInt(-1), MovementTypeIn, "", "", 1)
	assert.Error(t, err)

	err = ApplyMovement(db, p, decimal.NewFromInt(1), MovementType("transfer"), "", "", 1)
	assert.ErrorIs(t, err, ErrMovementNotAllowed)

	var count int64
	db.Model(&StockMovement{}).Count(&count)
	assert.Zero(t, count)
}

func TestApplyMovement_StatusTransitions(t *testing.T) {
	db := setupTestDB(t)

	t.Run("selling out flips to out_of_stock", func(t *testing.T) {
		p := seedProduct(t, db, 3, product.StatusAvailable)
		require.NoError(t, ApplyMovement(db, p, decimal.NewFromInt(3), MovementTypeOut, "", "", 1))
		assert.Equal(t, product.StatusOutOfStock, p.Status)
	})

	t.Run("restock flips back to available", func(t *testing.T) {
		p := seedProduct(t, db, 0, product.StatusOutOfStock)
		require.NoError(t, ApplyMovement(db, p, decimal.NewFromInt(5), MovementTypeIn, "", "", 1))
		assert.Equal(t, product.StatusAvailable, p.Status)
	})

	t.Run("discontinued survives restock", func(t *testing.T) {
		p := seedProduct(t, db, 0, product.StatusDiscontinued)
		require.NoError(t, ApplyMovement(db, p, decimal.NewFromInt(5), MovementTypeIn, "", "", 1))
		assert.Equal(t, product.StatusDiscontinued, p.Status)
	})
}

func TestAdjustStock_AbsoluteTarget(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	p := seedProduct(t, db, 10, product.StatusAvailable)

	adjusted, err := svc.AdjustStock(p.ID, &StockAdjustRequest{
		StockQuantity: decimal.NewFromInt(4),
		Reason:        "Inventory count",
	}, 1)
	require.NoError(t, err)
	assert.True(t, adjusted.StockQuantity.Equal(decimal.NewFromInt(4)))

	// The ledger records the magnitude of the change, not the target
	var movement StockMovement
	require.NoError(t, db.First(&movement).Error)
	assert.Equal(t, MovementTypeAdjustment, movement.Type)
	assert.True(t, movement.Quantity.Equal(decimal.NewFromInt(6)))
	assert.Equal(t, "Inventory count", movement.Reason)
}

func TestAdjustStock_NegativeTargetClampsToZero(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	p := seedProduct(t, db, 10, product.StatusAvailable)

	adjusted, err := svc.AdjustStock(p.ID, &StockAdjustRequest{
		StockQuantity: decimal.NewFromInt(-7),
	}, 1)
	require.NoError(t, err)
	assert.True(t, adjusted.StockQuantity.IsZero())
	assert.Equal(t, product.StatusOutOfStock, adjusted.Status)

	var movement StockMovement
	require.NoError(t, db.First(&movement).Error)
	assert.True(t, movement.Quantity.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "Manual stock adjustment", movement.Reason)
}

func TestAdjustStock_NoOpWritesNoMovement(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	p := seedProduct(t, db, 10, product.StatusAvailable)

	adjusted, err := svc.AdjustStock(p.ID, &StockAdjustRequest{
		StockQuantity: decimal.NewFromInt(10),
	}, 1)
	require.NoError(t, err)
	assert.True(t, adjusted.StockQuantity.Equal(decimal.NewFromInt(10)))

	var count int64
	db.Model(&StockMovement{}).Count(&count)
	assert.Zero(t, count)
}

func TestAdjustStock_UnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	_, err := svc.AdjustStock(9999, &StockAdjustRequest{StockQuantity: decimal.NewFromInt(1)}, 1)
	assert.ErrorIs(t, err, product.ErrProductNotFound)
}

func TestGetMovements_NewestFirstWithTypeFilter(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	p := seedProduct(t, db, 50, product.StatusAvailable)

	require.NoError(t, ApplyMovement(db, p, decimal.NewFromInt(5), MovementTypeOut, "REF-1", "", 1))
	require.NoError(t, ApplyMovement(db, p, decimal.NewFromInt(3), MovementTypeIn, "REF-2", "", 1))

	all, err := svc.GetMovements(p.ID, &MovementListRequest{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, all.Movements, 2)
	assert.Equal(t, "REF-2", all.Movements[0].Reference)

	outs, err := svc.GetMovements(p.ID, &MovementListRequest{Page: 1, Limit: 20, Type: "out"})
	require.NoError(t, err)
	require.Len(t, outs.Movements, 1)
	assert.Equal(t, "REF-1", outs.Movements[0].Reference)
}

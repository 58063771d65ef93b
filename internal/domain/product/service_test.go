// internal/domain/product/service_test.go
package product

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/pos-backend/internal/config"
	"gorm.io/gorm"
)

// saleDetailRow mirrors the sale_details table for usage checks without
// importing the sale package
type saleDetailRow struct {
	ID        uint `gorm:"primaryKey"`
	SaleID    uint
	ProductID uint
}

func (saleDetailRow) TableName() string { return "sale_details" }

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&Category{}, &Product{}, &saleDetailRow{}))
	return db
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Sales.LowStockLevel = 10
	return cfg
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *Category {
	t.Helper()
	category := Category{Name: name, IsActive: true}
	require.NoError(t, db.Create(&category).Error)
	return &category
}

func TestCreateProduct_Defaults(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	category := seedCategory(t, db, "Beverages")

	created, err := svc.CreateProduct(&ProductCreateRequest{
		Name:       "Soda",
		CategoryID: category.ID,
		UnitPrice:  decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	assert.Equal(t, "piece", created.Unit)
	assert.True(t, created.AlertThreshold.Equal(decimal.NewFromInt(10)),
		"expected default threshold 10, got %s", created.AlertThreshold)
	// Created with zero stock, so it starts out of stock
	assert.Equal(t, StatusOutOfStock, created.Status)
	assert.Equal(t, category.ID, created.Category.ID)
}

func TestCreateProduct_Guards(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	category := seedCategory(t, db, "Beverages")

	_, err := svc.CreateProduct(&ProductCreateRequest{
		Name:       "Soda",
		CategoryID: 9999,
		UnitPrice:  decimal.NewFromInt(500),
	})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	_, err = svc.CreateProduct(&ProductCreateRequest{
		Name:       "Soda",
		CategoryID: category.ID,
		UnitPrice:  decimal.NewFromInt(-1),
	})
	assert.Error(t, err)

	_, err = svc.CreateProduct(&ProductCreateRequest{
		Name:          "Soda",
		CategoryID:    category.ID,
		UnitPrice:     decimal.NewFromInt(500),
		StockQuantity: decimal.NewFromInt(-3),
	})
	assert.Error(t, err)
}

func TestGetLowStockProducts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	category := seedCategory(t, db, "Beverages")

	low := Product{Name: "Low", CategoryID: category.ID, UnitPrice: decimal.NewFromInt(100),
		StockQuantity: decimal.NewFromInt(2), AlertThreshold: decimal.NewFromInt(5), Status: StatusAvailable}
	fine := Product{Name: "Fine", CategoryID: category.ID, UnitPrice: decimal.NewFromInt(100),
		StockQuantity: decimal.NewFromInt(50), AlertThreshold: decimal.NewFromInt(5), Status: StatusAvailable}
	discontinued := Product{Name: "Gone", CategoryID: category.ID, UnitPrice: decimal.NewFromInt(100),
		StockQuantity: decimal.Zero, AlertThreshold: decimal.NewFromInt(5), Status: StatusDiscontinued}
	require.NoError(t, db.Create(&low).Error)
	require.NoError(t, db.Create(&fine).Error)
	require.NoError(t, db.Create(&discontinued).Error)

	products, err := svc.GetLowStockProducts()
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Low", products[0].Name)
}

func TestUpdateProduct_StatusValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	category := seedCategory(t, db, "Beverages")

	created, err := svc.CreateProduct(&ProductCreateRequest{
		Name:          "Soda",
		CategoryID:    category.ID,
		UnitPrice:     decimal.NewFromInt(500),
		StockQuantity: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	discontinued := StatusDiscontinued
	updated, err := svc.UpdateProduct(created.ID, &ProductUpdateRequest{Status: &discontinued})
	require.NoError(t, err)
	assert.Equal(t, StatusDiscontinued, updated.Status)

	bogus := "on_sale"
	_, err = svc.UpdateProduct(created.ID, &ProductUpdateRequest{Status: &bogus})
	assert.Error(t, err)
}

func TestDeleteProduct_BlockedBySaleHistory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	category := seedCategory(t, db, "Beverages")

	sold, err := svc.CreateProduct(&ProductCreateRequest{
		Name:       "Sold",
		CategoryID: category.ID,
		UnitPrice:  decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	require.NoError(t, db.Create(&saleDetailRow{SaleID: 1, ProductID: sold.ID}).Error)

	assert.ErrorIs(t, svc.DeleteProduct(sold.ID), ErrProductInUse)

	fresh, err := svc.CreateProduct(&ProductCreateRequest{
		Name:       "Fresh",
		CategoryID: category.ID,
		UnitPrice:  decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteProduct(fresh.ID))

	_, err = svc.GetProduct(fresh.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	assert.ErrorIs(t, svc.DeleteProduct(9999), ErrProductNotFound)
}

func TestDeleteCategory_BlockedByProducts(t *testing.T) {
	db := setupTestDB(t)
	catSvc := NewCategoryService(db, testConfig())
	svc := NewService(db, testConfig())

	category := seedCategory(t, db, "Beverages")
	_, err := svc.CreateProduct(&ProductCreateRequest{
		Name:       "Soda",
		CategoryID: category.ID,
		UnitPrice:  decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	assert.ErrorIs(t, catSvc.DeleteCategory(category.ID), ErrCategoryInUse)

	empty := seedCategory(t, db, "Empty")
	require.NoError(t, catSvc.DeleteCategory(empty.ID))
	assert.ErrorIs(t, catSvc.DeleteCategory(9999), ErrCategoryNotFound)
}

func TestGetCategories_ProductCounts(t *testing.T) {
	db := setupTestDB(t)
	catSvc := NewCategoryService(db, testConfig())
	svc := NewService(db, testConfig())

	category := seedCategory(t, db, "Beverages")
	inactive := Category{Name: "Archived", IsActive: false}
	require.NoError(t, db.Create(&inactive).Error)

	_, err := svc.CreateProduct(&ProductCreateRequest{
		Name:       "Soda",
		CategoryID: category.ID,
		UnitPrice:  decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	active, err := catSvc.GetCategories(false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.EqualValues(t, 1, active[0].ProductCount)

	all, err := catSvc.GetCategories(true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

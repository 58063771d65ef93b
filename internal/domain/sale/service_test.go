// internal/domain/sale/service_test.go
package sale

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/client"
	"github.com/your-org/pos-backend/internal/domain/inventory"
	"github.com/your-org/pos-backend/internal/domain/invoice"
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

	err = db.AutoMigrate(
		&product.Category{},
		&product.Product{},
		&client.Client{},
		&Sale{},
		&SaleDetail{},
		&inventory.StockMovement{},
		&invoice.Invoice{},
	)
	require.NoError(t, err)

	return db
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Sales.Currency = "XOF"
	cfg.Sales.InvoiceDueDays = 30
	cfg.Sales.LowStockLevel = 10
	return cfg
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price, stock int64) *product.Product {
	t.Helper()

	category := product.Category{Name: "Category for " + name, IsActive: true}
	require.NoError(t, db.Create(&category).Error)

	p := product.Product{
		Name:           name,
		CategoryID:     category.ID,
		UnitPrice:      decimal.NewFromInt(price),
		StockQuantity:  decimal.NewFromInt(stock),
		Unit:           "piece",
		AlertThreshold: decimal.NewFromInt(5),
		Status:         product.StatusAvailable,
	}
	require.NoError(t, db.Create(&p).Error)
	return &p
}

func TestCreateSale_TotalsDetailsAndInvoice(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	soda := seedProduct(t, db, "Soda", 500, 20)
	rice := seedProduct(t, db, "Rice 5kg", 4500, 10)

	created, err := svc.CreateSale(1, &CreateSaleRequest{
		PaymentMethod: PaymentCash,
		Items: []SaleItemRequest{
			{ProductID: soda.ID, Quantity: decimal.NewFromInt(3)},
			{ProductID: rice.ID, Quantity: decimal.NewFromInt(2)},
		},
	})
	require.NoError(t, err)

	// Total is the sum of the persisted line subtotals
	assert.True(t, created.TotalAmount.Equal(decimal.NewFromInt(10500)),
		"expected total 10500, got %s", created.TotalAmount)
	assert.Equal(t, StatusCompleted, created.Status)
	assert.Nil(t, created.ClientID)
	require.Len(t, created.Details, 2)
	assert.True(t, created.Details[0].UnitPrice.Equal(decimal.NewFromInt(500)))
	assert.True(t, created.Details[0].Subtotal.Equal(decimal.NewFromInt(1500)))

	// Stock was decremented per line with a matching ledger entry
	var after product.Product
	require.NoError(t, db.First(&after, soda.ID).Error)
	assert.True(t, after.StockQuantity.Equal(decimal.NewFromInt(17)))

	var movements []inventory.StockMovement
	require.NoError(t, db.Where("reference = ?", created.Reference).Find(&movements).Error)
	assert.Len(t, movements, 2)
	for _, m := range movements {
		assert.Equal(t, inventory.MovementTypeOut, m.Type)
	}

	// Invoice was generated inside the same transaction
	require.NotNil(t, created.Invoice)
	assert.Equal(t, fmt.Sprintf("INV-%06d", created.ID), created.Invoice.InvoiceNumber)
	assert.Equal(t, invoice.StatusDraft, created.Invoice.Status)
	assert.True(t, created.Invoice.TotalAmount.Equal(created.TotalAmount))

	expectedDue := created.Invoice.InvoiceDate.AddDate(0, 0, 30)
	assert.WithinDuration(t, expectedDue, created.Invoice.DueDate, time.Second)
}

func TestCreateSale_ReferenceFormat(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	p := seedProduct(t, db, "Bread", 300, 5)

	created, err := svc.CreateSale(1, &CreateSaleRequest{
		PaymentMethod: PaymentCash,
		Items:         []SaleItemRequest{{ProductID: p.ID, Quantity: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)

	parts := strings.Split(created.Reference, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "SALE", parts[0])
	assert.Equal(t, time.Now().Format("20060102"), parts[1])
	assert.Len(t, parts[2], 6)
}

func TestCreateSale_InsufficientStockRollsBackEverything(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	soda := seedProduct(t, db, "Soda", 500, 20)
	rice := seedProduct(t, db, "Rice 5kg", 4500, 1)

	_, err := svc.CreateSale(1, &CreateSaleRequest{
		PaymentMethod: PaymentCash,
		Items: []SaleItemRequest{
			{ProductID: soda.ID, Quantity: decimal.NewFromInt(3)},
			{ProductID: rice.ID, Quantity: decimal.NewFromInt(2)},
		},
	})
	require.Error(t, err)

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, rice.ID, stockErr.ProductID)
	assert.True(t, stockErr.Requested.Equal(decimal.NewFromInt(2)))
	assert.True(t, stockErr.Available.Equal(decimal.NewFromInt(1)))

	// Nothing was written: no sale, no details, no movements, stock untouched
	var saleCount, detailCount, movementCount, invoiceCount int64
	db.Model(&Sale{}).Count(&saleCount)
	db.Model(&SaleDetail{}).Count(&detailCount)
	db.Model(&inventory.StockMovement{}).Count(&movementCount)
	db.Model(&invoice.Invoice{}).Count(&invoiceCount)
	assert.Zero(t, saleCount)
	assert.Zero(t, detailCount)
	assert.Zero(t, movementCount)
	assert.Zero(t, invoiceCount)

	var after product.Product
	require.NoError(t, db.First(&after, soda.ID).Error)
	assert.True(t, after.StockQuantity.Equal(decimal.NewFromInt(20)))
}

func TestCreateSale_DuplicateLinesCannotOversell(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	p := seedProduct(t, db, "Soda", 500, 5)

	// 3 + 3 exceeds the 5 in stock even though each line alone fits
	_, err := svc.CreateSale(1, &CreateSaleRequest{
		PaymentMethod: PaymentCash,
		Items: []SaleItemRequest{
			{ProductID: p.ID, Quantity: decimal.NewFromInt(3)},
			{ProductID: p.ID, Quantity: decimal.NewFromInt(3)},
		},
	})
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.True(t, stockErr.Available.Equal(decimal.NewFromInt(2)))

	var after product.Product
	require.NoError(t, db.First(&after, p.ID).Error)
	assert.True(t, after.StockQuantity.Equal(decimal.NewFromInt(5)))
}

func TestCreateSale_SellingOutMarksProductOutOfStock(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	p := seedProduct(t, db, "Soda", 500, 4)

	_, err := svc.CreateSale(1, &CreateSaleRequest{
		PaymentMethod: PaymentCash,
		Items:         []SaleItemRequest{{ProductID: p.ID, Quantity: decimal.NewFromInt(4)}},
	})
	require.NoError(t, err)

	var after product.Product
	require.NoError(t, db.First(&after, p.ID).Error)
	assert.True(t, after.StockQuantity.IsZero())
	assert.Equal(t, product.StatusOutOfStock, after.Status)
}

func TestCreateSale_ValidationErrors(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	p := seedProduct(t, db, "Soda", 500, 10)

	_, err := svc.CreateSale(1, &CreateSaleRequest{
		PaymentMethod: PaymentCash,
		Items:         []SaleItemRequest{},
	})
	assert.ErrorIs(t, err, ErrEmptySale)

	_, err = svc.CreateSale(1, &CreateSaleRequest{
		PaymentMethod: PaymentCash,
		Items:         []SaleItemRequest{{ProductID: p.ID, Quantity: decimal.Zero}},
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.CreateSale(1, &CreateSaleRequest{
		PaymentMethod: "barter",
		Items:         []SaleItemRequest{{ProductID: p.ID, Quantity: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
}

func TestCreateSale_UnknownProductAndClient(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	p := seedProduct(t, db, "Soda", 500, 10)

	_, err := svc.CreateSale(1, &CreateSaleRequest{
		PaymentMethod: PaymentCash,
		Items:         []SaleItemRequest{{ProductID: 9999, Quantity: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, product.ErrProductNotFound)

	missing := uint(9999)
	_, err = svc.CreateSale(1, &CreateSaleRequest{
		ClientID:      &missing,
		PaymentMethod: PaymentCash,
		Items:         []SaleItemRequest{{ProductID: p.ID, Quantity: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, client.ErrClientNotFound)
}

func TestCreateSale_ClientByPhoneIsDeduplicated(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	p := seedProduct(t, db, "Soda", 500, 10)

	first, err := svc.CreateSale(1, &CreateSaleRequest{
		ClientName:    "Ama",
		ClientPhone:   "+22997000001",
		PaymentMethod: PaymentCash,
		Items:         []SaleItemRequest{{ProductID: p.ID, Quantity: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)
	require.NotNil(t, first.ClientID)

	// Same phone with a different name reuses the existing client unchanged
	second, err := svc.CreateSale(1, &CreateSaleRequest{
		ClientName:    "Someone Else",
		ClientPhone:   "+22997000001",
		PaymentMethod: PaymentCash,
		Items:         []SaleItemRequest{{ProductID: p.ID, Quantity: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)
	require.NotNil(t, second.ClientID)
	assert.Equal(t, *first.ClientID, *second.ClientID)

	var count int64
	db.Model(&client.Client{}).Count(&count)
	assert.EqualValues(t, 1, count)

	var c client.Client
	require.NoError(t, db.First(&c, *first.ClientID).Error)
	assert.Equal(t, "Ama", c.Name)
}

func TestCancelSale_RestoresStockAndCancelsInvoice(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	p := seedProduct(t, db, "Soda", 500, 4)

	created, err := svc.CreateSale(1, &CreateSaleRequest{
		PaymentMethod: PaymentCash,
		Items:         []SaleItemRequest{{ProductID: p.ID, Quantity: decimal.NewFromInt(4)}},
	})
	require.NoError(t, err)

	cancelled, err := svc.CancelSale(created.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	// Stock came back and the product became available again
	var after product.Product
	require.NoError(t, db.First(&after, p.ID).Error)
	assert.True(t, after.StockQuantity.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, product.StatusAvailable, after.Status)

	// The reversal left an inbound ledger entry next to the original out
	var movements []inventory.StockMovement
	require.NoError(t, db.Where("reference = ?", created.Reference).Order("id").Find(&movements).Error)
	require.Len(t, movements, 2)
	assert.Equal(t, inventory.MovementTypeOut, movements[0].Type)
	assert.Equal(t, inventory.MovementTypeIn, movements[1].Type)

	require.NotNil(t, cancelled.Invoice)
	assert.Equal(t, invoice.StatusCancelled, cancelled.Invoice.Status)
}

func TestCancelSale_Guards(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	_, err := svc.CancelSale(42, 1)
	assert.ErrorIs(t, err, ErrSaleNotFound)

	p := seedProduct(t, db, "Soda", 500, 10)
	created, err := svc.CreateSale(1, &CreateSaleRequest{
		PaymentMethod: PaymentCash,
		Items:         []SaleItemRequest{{ProductID: p.ID, Quantity: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)

	_, err = svc.CancelSale(created.ID, 1)
	require.NoError(t, err)

	_, err = svc.CancelSale(created.ID, 1)
	assert.ErrorIs(t, err, ErrSaleAlreadyCancelled)

	// Cancelling twice must not restock twice
	var after product.Product
	require.NoError(t, db.First(&after, p.ID).Error)
	assert.True(t, after.StockQuantity.Equal(decimal.NewFromInt(10)))
}

func TestGenerateInvoice_IsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	p := seedProduct(t, db, "Soda", 500, 10)
	created, err := svc.CreateSale(1, &CreateSaleRequest{
		PaymentMethod: PaymentCash,
		Items:         []SaleItemRequest{{ProductID: p.ID, Quantity: decimal.NewFromInt(2)}},
	})
	require.NoError(t, err)

	// The sale already carries its invoice, so this reports nothing new
	inv, wasCreated, err := svc.GenerateInvoice(created.ID)
	require.NoError(t, err)
	assert.False(t, wasCreated)
	assert.Equal(t, created.Invoice.ID, inv.ID)

	_, _, err = svc.GenerateInvoice(9999)
	assert.ErrorIs(t, err, ErrSaleNotFound)

	var count int64
	db.Model(&invoice.Invoice{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestGetSales_Filtering(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	p := seedProduct(t, db, "Soda", 500, 100)

	cash, err := svc.CreateSale(1, &CreateSaleRequest{
		PaymentMethod: PaymentCash,
		Items:         []SaleItemRequest{{ProductID: p.ID, Quantity: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)

	_, err = svc.CreateSale(1, &CreateSaleRequest{
		PaymentMethod: PaymentMobileMoney,
		Items:         []SaleItemRequest{{ProductID: p.ID, Quantity: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)

	all, err := svc.GetSales(&SaleListRequest{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Total)

	byMethod, err := svc.GetSales(&SaleListRequest{Page: 1, Limit: 20, PaymentMethod: PaymentCash})
	require.NoError(t, err)
	require.EqualValues(t, 1, byMethod.Total)
	assert.Equal(t, cash.Reference, byMethod.Sales[0].Reference)

	byRef, err := svc.GetSales(&SaleListRequest{Page: 1, Limit: 20, Search: cash.Reference})
	require.NoError(t, err)
	assert.EqualValues(t, 1, byRef.Total)
}

func TestCancelSale_LosesRaceToEarlierCancellation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	p := seedProduct(t, db, "Soda", 500, 10)
	created, err := svc.CreateSale(1, &CreateSaleRequest{
		PaymentMethod: PaymentCash,
		Items:         []SaleItemRequest{{ProductID: p.ID, Quantity: decimal.NewFromInt(3)}},
	})
	require.NoError(t, err)

	// Another request cancelled the sale and restored the stock while
	// this one was still on its way in.
	require.NoError(t, db.Model(&Sale{}).Where("id = ?", created.ID).
		Update("status", StatusCancelled).Error)
	require.NoError(t, db.Model(&product.Product{}).Where("id = ?", p.ID).
		Update("stock_quantity", decimal.NewFromInt(10)).Error)

	_, err = svc.CancelSale(created.ID, 2)
	assert.ErrorIs(t, err, ErrSaleAlreadyCancelled)

	// The late cancel must not restock on top of the earlier one
	var after product.Product
	require.NoError(t, db.First(&after, p.ID).Error)
	assert.True(t, after.StockQuantity.Equal(decimal.NewFromInt(10)))

	var inbound int64
	require.NoError(t, db.Model(&inventory.StockMovement{}).
		Where("reference = ? AND type = ?", created.Reference, inventory.MovementTypeIn).
		Count(&inbound).Error)
	assert.EqualValues(t, 0, inbound)
}

func TestCreateSale_ItemOrderDoesNotAffectResult(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	first := seedProduct(t, db, "Soda", 500, 20)
	second := seedProduct(t, db, "Juice", 800, 20)

	// Items arrive in descending product id order; rows are still locked
	// in ascending order and each line keeps its own quantity.
	created, err := svc.CreateSale(1, &CreateSaleRequest{
		PaymentMethod: PaymentCash,
		Items: []SaleItemRequest{
			{ProductID: second.ID, Quantity: decimal.NewFromInt(5)},
			{ProductID: first.ID, Quantity: decimal.NewFromInt(2)},
		},
	})
	require.NoError(t, err)

	require.Len(t, created.Details, 2)
	assert.Equal(t, second.ID, created.Details[0].ProductID)
	assert.Equal(t, first.ID, created.Details[1].ProductID)

	var afterFirst, afterSecond product.Product
	require.NoError(t, db.First(&afterFirst, first.ID).Error)
	require.NoError(t, db.First(&afterSecond, second.ID).Error)
	assert.True(t, afterFirst.StockQuantity.Equal(decimal.NewFromInt(18)))
	assert.True(t, afterSecond.StockQuantity.Equal(decimal.NewFromInt(15)))
}

// internal/domain/mobilemoney/service_test.go
package mobilemoney

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

	require.NoError(t, db.AutoMigrate(&MobileTransaction{}))
	return db
}

func TestFees_PercentageWithinBand(t *testing.T) {
	cases := []struct {
		operator string
		amount   int64
		expected string
	}{
		// MTN 1% clamped to [50, 500]
		{OperatorMTN, 1000, "50"},    // 1% = 10, clamped up
		{OperatorMTN, 10000, "100"},  // 1% inside the band
		{OperatorMTN, 100000, "500"}, // 1% = 1000, clamped down
		// MOOV 0.9% clamped to [40, 400]
		{OperatorMoov, 1000, "40"},
		{OperatorMoov, 10000, "90"},
		{OperatorMoov, 100000, "400"},
		// CELTIS 0.95% clamped to [45, 450]
		{OperatorCeltis, 1000, "45"},
		{OperatorCeltis, 10000, "95"},
		{OperatorCeltis, 100000, "450"},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s_%d", tc.operator, tc.amount), func(t *testing.T) {
			trx := MobileTransaction{Operator: tc.operator, Amount: decimal.NewFromInt(tc.amount)}
			expected, err := decimal.NewFromString(tc.expected)
			require.NoError(t, err)
			assert.True(t, trx.Fees().Equal(expected),
				"expected fee %s, got %s", expected, trx.Fees())
		})
	}
}

func TestNetAmount(t *testing.T) {
	trx := MobileTransaction{Operator: OperatorMTN, Amount: decimal.NewFromInt(10000)}
	assert.True(t, trx.NetAmount().Equal(decimal.NewFromInt(9900)))

	unknown := MobileTransaction{Operator: "ACME", Amount: decimal.NewFromInt(10000)}
	assert.True(t, unknown.Fees().IsZero())
	assert.True(t, unknown.NetAmount().Equal(unknown.Amount))
}

func TestCreateTransaction(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})

	view, err := svc.CreateTransaction(1, &TransactionCreateRequest{
		Operator:    OperatorMTN,
		Type:        TypeDeposit,
		Amount:      decimal.NewFromInt(5000),
		ClientName:  "Ama",
		ClientPhone: "+22997000001",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, view.Status)
	assert.EqualValues(t, 1, view.UserID)
	assert.True(t, view.Fees.Equal(decimal.NewFromInt(50)))
	assert.True(t, view.NetAmount.Equal(decimal.NewFromInt(4950)))

	// Reference is <OPERATOR>-YYYYMMDD-<6 char suffix>
	parts := strings.Split(view.Reference, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, OperatorMTN, parts[0])
	assert.Equal(t, time.Now().Format("20060102"), parts[1])
	assert.Len(t, parts[2], 6)
}

func TestCreateTransaction_Validation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})

	_, err := svc.CreateTransaction(1, &TransactionCreateRequest{
		Operator: "ACME",
		Type:     TypeDeposit,
		Amount:   decimal.NewFromInt(5000),
	})
	assert.ErrorIs(t, err, ErrInvalidOperator)

	_, err = svc.CreateTransaction(1, &TransactionCreateRequest{
		Operator: OperatorMTN,
		Type:     "transfer",
		Amount:   decimal.NewFromInt(5000),
	})
	assert.ErrorIs(t, err, ErrInvalidType)

	_, err = svc.CreateTransaction(1, &TransactionCreateRequest{
		Operator: OperatorMTN,
		Type:     TypeWithdrawal,
		Amount:   decimal.NewFromInt(99),
	})
	assert.ErrorIs(t, err, ErrAmountTooSmall)

	var count int64
	db.Model(&MobileTransaction{}).Count(&count)
	assert.Zero(t, count)
}

func TestUpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})

	view, err := svc.CreateTransaction(1, &TransactionCreateRequest{
		Operator:    OperatorMoov,
		Type:        TypeWithdrawal,
		Amount:      decimal.NewFromInt(2000),
		ClientName:  "Kofi",
		ClientPhone: "+22997000002",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(view.ID, StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, updated.Status)

	_, err = svc.UpdateStatus(view.ID, "refunded")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.UpdateStatus(9999, StatusFailed)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestGetTransactions_Filters(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})

	mtn, err := svc.CreateTransaction(1, &TransactionCreateRequest{
		Operator:    OperatorMTN,
		Type:        TypeDeposit,
		Amount:      decimal.NewFromInt(5000),
		ClientName:  "Ama",
		ClientPhone: "+22997000001",
	})
	require.NoError(t, err)

	_, err = svc.CreateTransaction(1, &TransactionCreateRequest{
		Operator:    OperatorMoov,
		Type:        TypeWithdrawal,
		Amount:      decimal.NewFromInt(2000),
		ClientName:  "Kofi",
		ClientPhone: "+22997000002",
	})
	require.NoError(t, err)

	byOperator, err := svc.GetTransactions(&TransactionListRequest{Page: 1, Limit: 20, Operator: OperatorMTN})
	require.NoError(t, err)
	require.EqualValues(t, 1, byOperator.Total)
	assert.Equal(t, mtn.Reference, byOperator.Transactions[0].Reference)

	bySearch, err := svc.GetTransactions(&TransactionListRequest{Page: 1, Limit: 20, Search: "Kofi"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, bySearch.Total)

	byType, err := svc.GetTransactions(&TransactionListRequest{Page: 1, Limit: 20, Type: TypeDeposit})
	require.NoError(t, err)
	assert.EqualValues(t, 1, byType.Total)
}

// internal/domain/mobilemoney/entity.go
package mobilemoney

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Supported mobile money operators
const (
	OperatorMTN    = "MTN"
	OperatorMoov   = "MOOV"
	OperatorCeltis = "CELTIS"
)

// Transaction types
const (
	TypeDeposit    = "deposit"
	TypeWithdrawal = "withdrawal"
)

// Transaction status values
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// MobileTransaction represents a mobile money operation handled at the counter
type MobileTransaction struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	Reference         string          `gorm:"uniqueIndex;not null;size:50" json:"reference"`
	Operator          string          `gorm:"size:20;not null;index" json:"operator"`
	Type              string          `gorm:"size:20;not null" json:"type"`
	Amount            decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	ClientName        string          `gorm:"not null;size:255" json:"client_name"`
	ClientPhone       string          `gorm:"not null;size:20" json:"client_phone"`
	ExternalReference string          `gorm:"size:255" json:"external_reference"`
	Status            string          `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Notes             string          `gorm:"type:text" json:"notes"`
	UserID            uint            `gorm:"not null;index" json:"user_id"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	DeletedAt         gorm.DeletedAt  `gorm:"index" json:"-"`
}

// Fees returns the operator commission for the transaction amount.
// Each operator applies a percentage clamped to a fixed band:
// MTN 1% in [50, 500], MOOV 0.9% in [40, 400], CELTIS 0.95% in [45, 450].
func (t *MobileTransaction) Fees() decimal.Decimal {
	switch t.Operator {
	case OperatorMTN:
		return clampFee(t.Amount.Mul(decimal.NewFromFloat(0.01)), 50, 500)
	case OperatorMoov:
		return clampFee(t.Amount.Mul(decimal.NewFromFloat(0.009)), 40, 400)
	case OperatorCeltis:
		return clampFee(t.Amount.Mul(decimal.NewFromFloat(0.0095)), 45, 450)
	}
	return decimal.Zero
}

// NetAmount returns the amount after operator fees
func (t *MobileTransaction) NetAmount() decimal.Decimal {
	return t.Amount.Sub(t.Fees())
}

func clampFee(fee decimal.Decimal, min, max int64) decimal.Decimal {
	lo := decimal.NewFromInt(min)
	hi := decimal.NewFromInt(max)
	if fee.LessThan(lo) {
		return lo
	}
	if fee.GreaterThan(hi) {
		return hi
	}
	return fee.Round(2)
}

// ValidOperator reports whether the operator is supported
func ValidOperator(operator string) bool {
	switch operator {
	case OperatorMTN, OperatorMoov, OperatorCeltis:
		return true
	}
	return false
}

// ValidStatus reports whether the status value is known
func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// TableName overrides
func (MobileTransaction) TableName() string { return "mobile_transactions" }

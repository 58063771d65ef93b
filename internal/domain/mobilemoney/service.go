// internal/domain/mobilemoney/service.go
package mobilemoney

import (
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"github.com/your-org/pos-backend/internal/config"
	"gorm.io/gorm"
)

var (
	// ErrTransactionNotFound is returned when the requested transaction does not exist
	ErrTransactionNotFound = errors.New("mobile transaction not found")

	// ErrInvalidOperator is returned for unsupported operators
	ErrInvalidOperator = errors.New("invalid mobile money operator")

	// ErrInvalidStatus is returned for unknown status values
	ErrInvalidStatus = errors.New("invalid transaction status")

	// ErrInvalidType is returned for unknown transaction types
	ErrInvalidType = errors.New("invalid transaction type")

	// ErrAmountTooSmall is returned when the amount is below the operator minimum
	ErrAmountTooSmall = errors.New("transaction amount must be at least 100")
)

// Service handles mobile money business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new mobile money service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// newReference builds an operator-prefixed reference, e.g. MTN-20250131-4F7Q2A
func newReference(operator string, now time.Time) string {
	id := ulid.Make().String()
	return fmt.Sprintf("%s-%s-%s", operator, now.Format("20060102"), id[len(id)-6:])
}

// TransactionCreateRequest represents mobile transaction creation data
type TransactionCreateRequest struct {
	Operator          string          `json:"operator" binding:"required"`
	Type              string          `json:"type" binding:"required"`
	Amount            decimal.Decimal `json:"amount" binding:"required"`
	ClientName        string          `json:"client_name" binding:"required"`
	ClientPhone       string          `json:"client_phone" binding:"required"`
	ExternalReference string          `json:"external_reference"`
	Notes             string          `json:"notes"`
}

// TransactionListRequest represents transaction list query parameters
type TransactionListRequest struct {
	Page     int    `form:"page,default=1"`
	Limit    int    `form:"limit,default=20"`
	Operator string `form:"operator"`
	Status   string `form:"status"`
	Type     string `form:"type"`
	Search   string `form:"search"`
}

// TransactionListResponse represents transactions with pagination
type TransactionListResponse struct {
	Transactions []MobileTransaction `json:"transactions"`
	Total        int64               `json:"total"`
	Page         int                 `json:"page"`
	Limit        int                 `json:"limit"`
}

// TransactionView augments a transaction with its computed fee breakdown
type TransactionView struct {
	MobileTransaction
	Fees      decimal.Decimal `json:"fees"`
	NetAmount decimal.Decimal `json:"net_amount"`
}

// CreateTransaction records a new mobile money transaction with a generated
// reference and validated operator, type and amount
func (s *Service) CreateTransaction(userID uint, req *TransactionCreateRequest) (*TransactionView, error) {
	if !ValidOperator(req.Operator) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidOperator, req.Operator)
	}
	if req.Type != TypeDeposit && req.Type != TypeWithdrawal {
		return nil, fmt.Errorf("%w: %s", ErrInvalidType, req.Type)
	}
	if req.Amount.LessThan(decimal.NewFromInt(100)) {
		return nil, ErrAmountTooSmall
	}

	trx := MobileTransaction{
		Reference:         newReference(req.Operator, time.Now()),
		Operator:          req.Operator,
		Type:              req.Type,
		Amount:            req.Amount,
		ClientName:        req.ClientName,
		ClientPhone:       req.ClientPhone,
		ExternalReference: req.ExternalReference,
		Status:            StatusPending,
		Notes:             req.Notes,
		UserID:            userID,
	}
	if err := s.db.Create(&trx).Error; err != nil {
		return nil, fmt.Errorf("failed to create mobile transaction: %w", err)
	}

	return s.view(&trx), nil
}

// GetTransactions retrieves transactions with filtering and pagination
func (s *Service) GetTransactions(req *TransactionListRequest) (*TransactionListResponse, error) {
	var transactions []MobileTransaction
	var total int64

	query := s.db.Model(&MobileTransaction{})
	if req.Operator != "" {
		query = query.Where("operator = ?", req.Operator)
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.Type != "" {
		query = query.Where("type = ?", req.Type)
	}
	if req.Search != "" {
		search := "%" + req.Search + "%"
		query = query.Where(
			"reference LIKE ? OR client_name LIKE ? OR client_phone LIKE ? OR external_reference LIKE ?",
			search, search, search, search,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count mobile transactions: %w", err)
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(req.Limit).Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve mobile transactions: %w", err)
	}

	return &TransactionListResponse{
		Transactions: transactions,
		Total:        total,
		Page:         req.Page,
		Limit:        req.Limit,
	}, nil
}

// GetTransaction retrieves a single transaction by ID
func (s *Service) GetTransaction(id uint) (*TransactionView, error) {
	var trx MobileTransaction
	result := s.db.Where("id = ?", id).First(&trx)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to retrieve mobile transaction: %w", result.Error)
	}
	return s.view(&trx), nil
}

// UpdateStatus moves a transaction to a new status
func (s *Service) UpdateStatus(id uint, status string) (*TransactionView, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	var trx MobileTransaction
	result := s.db.Where("id = ?", id).First(&trx)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to find mobile transaction: %w", result.Error)
	}

	if err := s.db.Model(&trx).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update transaction status: %w", err)
	}
	trx.Status = status

	return s.view(&trx), nil
}

func (s *Service) view(trx *MobileTransaction) *TransactionView {
	return &TransactionView{
		MobileTransaction: *trx,
		Fees:              trx.Fees(),
		NetAmount:         trx.NetAmount(),
	}
}

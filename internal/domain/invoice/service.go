// internal/domain/invoice/service.go
package invoice

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/pos-backend/internal/config"
	"gorm.io/gorm"
)

var (
	// ErrInvoiceNotFound is returned when the requested invoice does not exist
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrInvoiceExists is returned when a sale already has an invoice
	ErrInvoiceExists = errors.New("invoice already exists for this sale")
)

// Service handles invoice business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new invoice service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// GenerateForSale creates the invoice for a sale inside the caller's
// transaction. Idempotent: when an invoice already exists it is returned
// unchanged. The invoice number derives from the sale id so concurrent
// generation cannot hand out duplicates.
func GenerateForSale(tx *gorm.DB, saleID uint, totalAmount decimal.Decimal, dueDays int) (*Invoice, error) {
	var existing Invoice
	err := tx.Where("sale_id = ?", saleID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up invoice: %w", err)
	}

	now := time.Now()
	inv := Invoice{
		InvoiceNumber: fmt.Sprintf("INV-%06d", saleID),
		SaleID:        saleID,
		InvoiceDate:   now,
		DueDate:       now.AddDate(0, 0, dueDays),
		TotalAmount:   totalAmount,
		Status:        StatusDraft,
	}
	if err := tx.Create(&inv).Error; err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	return &inv, nil
}

// InvoiceListRequest represents invoice list query parameters
type InvoiceListRequest struct {
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit,default=20"`
	Status string `form:"status"`
}

// InvoiceListResponse represents invoices with pagination
type InvoiceListResponse struct {
	Invoices []Invoice `json:"invoices"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}

// GetInvoices retrieves invoices with filtering and pagination
func (s *Service) GetInvoices(req *InvoiceListRequest) (*InvoiceListResponse, error) {
	var invoices []Invoice
	var total int64

	query := s.db.Model(&Invoice{})
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count invoices: %w", err)
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Order("invoice_date DESC, id DESC").Offset(offset).Limit(req.Limit).Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve invoices: %w", err)
	}

	return &InvoiceListResponse{
		Invoices: invoices,
		Total:    total,
		Page:     req.Page,
		Limit:    req.Limit,
	}, nil
}

// GetInvoice retrieves a single invoice by ID
func (s *Service) GetInvoice(id uint) (*Invoice, error) {
	var inv Invoice
	result := s.db.Where("id = ?", id).First(&inv)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to retrieve invoice: %w", result.Error)
	}
	return &inv, nil
}

// UpdateStatus moves an invoice to a new status
func (s *Service) UpdateStatus(id uint, status string) (*Invoice, error) {
	switch status {
	case StatusDraft, StatusSent, StatusPaid, StatusOverdue, StatusCancelled:
	default:
		return nil, fmt.Errorf("invalid invoice status: %s", status)
	}

	var inv Invoice
	result := s.db.Where("id = ?", id).First(&inv)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to find invoice: %w", result.Error)
	}

	if err := s.db.Model(&inv).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update invoice status: %w", err)
	}
	return &inv, nil
}

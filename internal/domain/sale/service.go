// internal/domain/sale/service.go
package sale

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/client"
	"github.com/your-org/pos-backend/internal/domain/inventory"
	"github.com/your-org/pos-backend/internal/domain/invoice"
	"github.com/your-org/pos-backend/internal/domain/product"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service handles sale business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new sale service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// SaleItemRequest is one requested line of a sale
type SaleItemRequest struct {
	ProductID uint            `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// CreateSaleRequest represents sale creation data
type CreateSaleRequest struct {
	ClientID         *uint             `json:"client_id"`
	ClientName       string            `json:"client_name"`
	ClientPhone      string            `json:"client_phone"`
	PaymentMethod    string            `json:"payment_method" binding:"required"`
	PaymentReference string            `json:"payment_reference"`
	Notes            string            `json:"notes"`
	Items            []SaleItemRequest `json:"items" binding:"required"`
}

// Validate checks the request before any database work starts
func (r *CreateSaleRequest) Validate() error {
	if len(r.Items) == 0 {
		return ErrEmptySale
	}
	for _, item := range r.Items {
		if item.Quantity.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: product %d", ErrInvalidQuantity, item.ProductID)
		}
	}
	if !ValidPaymentMethod(r.PaymentMethod) {
		return fmt.Errorf("%w: %s", ErrInvalidPaymentMethod, r.PaymentMethod)
	}
	return nil
}

// CreateSale processes a sale as one atomic transaction: stock is checked
// under row locks for every line, the client is resolved, details snapshot
// the current prices, stock is decremented with matching ledger entries, the
// total is summed from the persisted details and the invoice is generated.
// Any failure rolls the whole transaction back with no partial writes.
func (s *Service) CreateSale(userID uint, req *CreateSaleRequest) (*Sale, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// Lock every product row up front, in ascending id order so two
	// concurrent sales over the same products cannot deadlock each other.
	productIDs := make([]uint, 0, len(req.Items))
	seen := make(map[uint]bool, len(req.Items))
	for _, item := range req.Items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			productIDs = append(productIDs, item.ProductID)
		}
	}
	sort.Slice(productIDs, func(i, j int) bool { return productIDs[i] < productIDs[j] })

	products := make(map[uint]*product.Product, len(productIDs))
	remaining := make(map[uint]decimal.Decimal, len(productIDs))
	for _, id := range productIDs {
		var loaded product.Product
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&loaded).Error
		if err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, product.ErrProductNotFound
			}
			return nil, fmt.Errorf("failed to load product %d: %w", id, err)
		}
		products[loaded.ID] = &loaded
		remaining[loaded.ID] = loaded.StockQuantity
	}

	// Check stock against a running remainder, so duplicate lines for the
	// same product cannot oversell.
	for _, item := range req.Items {
		p := products[item.ProductID]
		if remaining[p.ID].LessThan(item.Quantity) {
			tx.Rollback()
			return nil, &InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Requested:   item.Quantity,
				Available:   remaining[p.ID],
			}
		}
		remaining[p.ID] = remaining[p.ID].Sub(item.Quantity)
	}

	// Resolve the client. An explicit id must exist; a phone number is
	// find-or-create; neither means an anonymous sale.
	var clientID *uint
	if req.ClientID != nil {
		var c client.Client
		if err := tx.Where("id = ?", *req.ClientID).First(&c).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, client.ErrClientNotFound
			}
			return nil, fmt.Errorf("failed to load client: %w", err)
		}
		clientID = &c.ID
	} else if req.ClientPhone != "" {
		c, err := client.FindOrCreateByPhone(tx, req.ClientName, req.ClientPhone)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		clientID = &c.ID
	}

	now := time.Now()
	newSale := Sale{
		Reference:        NewReference(now),
		UserID:           userID,
		ClientID:         clientID,
		TotalAmount:      decimal.Zero,
		Status:           StatusCompleted,
		PaymentMethod:    req.PaymentMethod,
		PaymentReference: req.PaymentReference,
		Notes:            req.Notes,
	}
	if err := tx.Create(&newSale).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}

	// Persist details in input order, decrementing stock line by line.
	for _, item := range req.Items {
		p := products[item.ProductID]
		detail := SaleDetail{
			SaleID:    newSale.ID,
			ProductID: p.ID,
			Quantity:  item.Quantity,
			UnitPrice: p.UnitPrice,
			Subtotal:  item.Quantity.Mul(p.UnitPrice),
		}
		if err := tx.Create(&detail).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to create sale detail: %w", err)
		}

		reason := fmt.Sprintf("Sale %s", newSale.Reference)
		if err := inventory.ApplyMovement(tx, p, item.Quantity, inventory.MovementTypeOut, newSale.Reference, reason, userID); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	// The total comes from the persisted details, never from client input.
	var details []SaleDetail
	if err := tx.Where("sale_id = ?", newSale.ID).Find(&details).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to load sale details: %w", err)
	}
	total := decimal.Zero
	for _, d := range details {
		total = total.Add(d.Subtotal)
	}
	if err := tx.Model(&newSale).Update("total_amount", total).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to set sale total: %w", err)
	}

	if _, err := invoice.GenerateForSale(tx, newSale.ID, total, s.config.Sales.InvoiceDueDays); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit sale: %w", err)
	}

	return s.GetSale(newSale.ID)
}

// CancelSale reverses a sale: every detail gets its stock restored with an
// inbound ledger entry referencing the sale, then the sale and its invoice
// are marked cancelled. The whole reversal is one transaction.
func (s *Service) CancelSale(saleID, userID uint) (*Sale, error) {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// The status check has to happen under the row lock, otherwise two
	// concurrent cancels can both pass the guard and restore stock twice.
	var existing Sale
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Details").
		Where("id = ?", saleID).
		First(&existing).Error
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to load sale: %w", err)
	}
	if existing.IsCancelled() {
		tx.Rollback()
		return nil, ErrSaleAlreadyCancelled
	}

	reason := fmt.Sprintf("Sale cancellation %s", existing.Reference)
	for _, detail := range existing.Details {
		var p product.Product
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", detail.ProductID).
			First(&p).Error
		if err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to load product %d: %w", detail.ProductID, err)
		}

		if err := inventory.ApplyMovement(tx, &p, detail.Quantity, inventory.MovementTypeIn, existing.Reference, reason, userID); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	// Conditional write as a backstop to the locked read above
	result := tx.Model(&Sale{}).
		Where("id = ? AND status <> ?", saleID, StatusCancelled).
		Update("status", StatusCancelled)
	if result.Error != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to cancel sale: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return nil, ErrSaleAlreadyCancelled
	}

	if err := tx.Model(&invoice.Invoice{}).Where("sale_id = ?", saleID).
		Update("status", invoice.StatusCancelled).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to cancel invoice: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit cancellation: %w", err)
	}

	return s.GetSale(saleID)
}

// GenerateInvoice creates the invoice for a sale after the fact. The second
// return value reports whether a new invoice was created; callers that need
// strict semantics can reject the already-exists case.
func (s *Service) GenerateInvoice(saleID uint) (*invoice.Invoice, bool, error) {
	var existing Sale
	err := s.db.Where("id = ?", saleID).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrSaleNotFound
		}
		return nil, false, fmt.Errorf("failed to load sale: %w", err)
	}

	var current invoice.Invoice
	if err := s.db.Where("sale_id = ?", saleID).First(&current).Error; err == nil {
		return &current, false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to look up invoice: %w", err)
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	inv, err := invoice.GenerateForSale(tx, existing.ID, existing.TotalAmount, s.config.Sales.InvoiceDueDays)
	if err != nil {
		tx.Rollback()
		return nil, false, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, false, fmt.Errorf("failed to commit invoice: %w", err)
	}

	return inv, true, nil
}

// SaleListRequest represents sale list query parameters
type SaleListRequest struct {
	Page          int    `form:"page,default=1"`
	Limit         int    `form:"limit,default=20"`
	Status        string `form:"status"`
	PaymentMethod string `form:"payment_method"`
	Search        string `form:"search"`
	DateFrom      string `form:"date_from"`
	DateTo        string `form:"date_to"`
}

// SaleListResponse represents sales with pagination
type SaleListResponse struct {
	Sales []Sale `json:"sales"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

// GetSales retrieves sales with filtering and pagination, newest first
func (s *Service) GetSales(req *SaleListRequest) (*SaleListResponse, error) {
	var sales []Sale
	var total int64

	query := s.db.Model(&Sale{}).
		Preload("Client").
		Preload("Details").
		Preload("Invoice")

	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.PaymentMethod != "" {
		query = query.Where("payment_method = ?", req.PaymentMethod)
	}
	if req.Search != "" {
		query = query.Where("reference LIKE ?", "%"+req.Search+"%")
	}
	if req.DateFrom != "" {
		query = query.Where("created_at >= ?", req.DateFrom)
	}
	if req.DateTo != "" {
		query = query.Where("created_at <= ?", req.DateTo+" 23:59:59")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count sales: %w", err)
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(req.Limit).Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve sales: %w", err)
	}

	return &SaleListResponse{
		Sales: sales,
		Total: total,
		Page:  req.Page,
		Limit: req.Limit,
	}, nil
}

// GetSale retrieves one sale with its client, detail products and invoice
func (s *Service) GetSale(id uint) (*Sale, error) {
	var loaded Sale
	err := s.db.
		Preload("Client").
		Preload("Details.Product").
		Preload("Invoice").
		Where("id = ?", id).
		First(&loaded).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to retrieve sale: %w", err)
	}
	return &loaded, nil
}

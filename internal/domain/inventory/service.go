// internal/domain/inventory/service.go
package inventory

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/product"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrMovementNotAllowed is returned for movement types the ledger does not accept
var ErrMovementNotAllowed = errors.New("invalid stock movement type")

// Service handles stock movement business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new inventory service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ApplyMovement mutates a product's stock level and appends the matching
// ledger entry in one step. It must run inside the caller's transaction so
// the stock change and the ledger entry commit or roll back together. The
// product row is expected to be locked by the caller.
//
// Quantity is a positive magnitude; the movement type carries the direction.
// No clamping happens here, callers check stock sufficiency first.
func ApplyMovement(tx *gorm.DB, p *product.Product, quantity decimal.Decimal, movementType MovementType, reference, reason string, userID uint) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("movement quantity must be positive, got %s", quantity)
	}

	switch movementType {
	case MovementTypeIn:
		p.StockQuantity = p.StockQuantity.Add(quantity)
	case MovementTypeOut:
		p.StockQuantity = p.StockQuantity.Sub(quantity)
	case MovementTypeAdjustment, MovementTypeCorrection:
		// The caller has already set the target quantity on the product;
		// the ledger keeps the magnitude of the change.
	default:
		return ErrMovementNotAllowed
	}

	p.RecomputeStatus()

	if err := tx.Save(p).Error; err != nil {
		return fmt.Errorf("failed to update product stock: %w", err)
	}

	movement := StockMovement{
		ProductID: p.ID,
		Type:      movementType,
		Quantity:  quantity,
		UnitPrice: p.UnitPrice,
		Reference: reference,
		Reason:    reason,
		UserID:    userID,
	}
	if err := tx.Create(&movement).Error; err != nil {
		return fmt.Errorf("failed to record stock movement: %w", err)
	}

	return nil
}

// StockAdjustRequest represents a manual stock adjustment
type StockAdjustRequest struct {
	StockQuantity decimal.Decimal `json:"stock_quantity" binding:"required"`
	Reason        string          `json:"reason"`
}

// AdjustStock sets a product's stock to an absolute quantity and records an
// adjustment movement for the difference. Negative targets clamp to zero.
func (s *Service) AdjustStock(productID uint, req *StockAdjustRequest, userID uint) (*product.Product, error) {
	target := req.StockQuantity
	if target.IsNegative() {
		target = decimal.Zero
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var p product.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", productID).First(&p).Error
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}

	difference := target.Sub(p.StockQuantity)
	if difference.IsZero() {
		tx.Rollback()
		return &p, nil
	}

	reason := req.Reason
	if reason == "" {
		reason = "Manual stock adjustment"
	}

	p.StockQuantity = target
	if err := ApplyMovement(tx, &p, difference.Abs(), MovementTypeAdjustment, "", reason, userID); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit stock adjustment: %w", err)
	}

	return &p, nil
}

// MovementListRequest represents stock movement list query parameters
type MovementListRequest struct {
	Page  int    `form:"page,default=1"`
	Limit int    `form:"limit,default=20"`
	Type  string `form:"type"`
}

// MovementResponse represents stock movement history with pagination
type MovementResponse struct {
	Movements  []StockMovement    `json:"movements"`
	Pagination product.Pagination `json:"pagination"`
}

// GetMovements retrieves the stock movement history of a product, newest first
func (s *Service) GetMovements(productID uint, req *MovementListRequest) (*MovementResponse, error) {
	var p product.Product
	if err := s.db.Where("id = ?", productID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}

	var movements []StockMovement
	var total int64

	query := s.db.Model(&StockMovement{}).Where("product_id = ?", productID)
	if req.Type != "" {
		query = query.Where("type = ?", req.Type)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count stock movements: %w", err)
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(req.Limit).Find(&movements).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve stock movements: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &MovementResponse{
		Movements: movements,
		Pagination: product.Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

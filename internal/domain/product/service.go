// internal/domain/product/service.go
package product

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/your-org/pos-backend/internal/config"
	"gorm.io/gorm"
)

// Service handles product business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=20"`
	CategoryID uint   `form:"category_id"`
	Search     string `form:"search"`
	Status     string `form:"status"`
	LowStock   bool   `form:"low_stock"`
	SortBy     string `form:"sort_by,default=created_at"`
	SortOrder  string `form:"sort_order,default=desc"`
}

// ProductCreateRequest represents product creation data
type ProductCreateRequest struct {
	Name           string          `json:"name" binding:"required"`
	Description    string          `json:"description"`
	CategoryID     uint            `json:"category_id" binding:"required"`
	UnitPrice      decimal.Decimal `json:"unit_price" binding:"required"`
	StockQuantity  decimal.Decimal `json:"stock_quantity"`
	Unit           string          `json:"unit"`
	AlertThreshold decimal.Decimal `json:"alert_threshold"`
}

// ProductUpdateRequest represents product update data
type ProductUpdateRequest struct {
	Name           *string          `json:"name"`
	Description    *string          `json:"description"`
	CategoryID     *uint            `json:"category_id"`
	UnitPrice      *decimal.Decimal `json:"unit_price"`
	Unit           *string          `json:"unit"`
	AlertThreshold *decimal.Decimal `json:"alert_threshold"`
	Status         *string          `json:"status"`
}

// ProductResponse represents product response with pagination
type ProductResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// GetProducts retrieves products with filtering and pagination
func (s *Service) GetProducts(req *ProductListRequest) (*ProductResponse, error) {
	var products []Product
	var total int64

	query := s.db.Model(&Product{}).Preload("Category")

	if req.CategoryID > 0 {
		query = query.Where("category_id = ?", req.CategoryID)
	}

	if req.Search != "" {
		search := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", search, search)
	}

	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}

	if req.LowStock {
		query = query.Where("stock_quantity <= alert_threshold")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	query = query.Order(s.buildOrderClause(req.SortBy, req.SortOrder))

	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	pagination := Pagination{
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    req.Page < totalPages,
		HasPrev:    req.Page > 1,
	}

	return &ProductResponse{
		Products:   products,
		Pagination: pagination,
	}, nil
}

// GetProduct retrieves a single product by ID
func (s *Service) GetProduct(id uint) (*Product, error) {
	var product Product
	result := s.db.Preload("Category").Where("id = ?", id).First(&product)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}
	return &product, nil
}

// GetLowStockProducts retrieves products at or below their alert threshold
func (s *Service) GetLowStockProducts() ([]Product, error) {
	var products []Product
	err := s.db.
		Preload("Category").
		Where("stock_quantity <= alert_threshold").
		Where("status <> ?", StatusDiscontinued).
		Order("stock_quantity ASC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve low stock products: %w", err)
	}
	return products, nil
}

// CreateProduct creates a new product
func (s *Service) CreateProduct(req *ProductCreateRequest) (*Product, error) {
	var category Category
	if result := s.db.Where("id = ?", req.CategoryID).First(&category); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", result.Error)
	}

	if req.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("unit price cannot be negative")
	}
	if req.StockQuantity.IsNegative() {
		return nil, fmt.Errorf("stock quantity cannot be negative")
	}

	unit := req.Unit
	if unit == "" {
		unit = "piece"
	}
	threshold := req.AlertThreshold
	if threshold.IsZero() {
		threshold = decimal.NewFromInt(int64(s.config.Sales.LowStockLevel))
	}

	product := Product{
		Name:           req.Name,
		Description:    req.Description,
		CategoryID:     req.CategoryID,
		UnitPrice:      req.UnitPrice,
		StockQuantity:  req.StockQuantity,
		Unit:           unit,
		AlertThreshold: threshold,
		Status:         StatusAvailable,
	}
	product.RecomputeStatus()

	if err := s.db.Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.db.Preload("Category").First(&product, product.ID)

	return &product, nil
}

// UpdateProduct updates an existing product
func (s *Service) UpdateProduct(id uint, req *ProductUpdateRequest) (*Product, error) {
	var product Product
	result := s.db.Where("id = ?", id).First(&product)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", result.Error)
	}

	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.CategoryID != nil {
		var category Category
		if err := s.db.Where("id = ?", *req.CategoryID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, fmt.Errorf("failed to find category: %w", err)
		}
		updates["category_id"] = *req.CategoryID
	}
	if req.UnitPrice != nil {
		if req.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("unit price cannot be negative")
		}
		updates["unit_price"] = *req.UnitPrice
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}
	if req.AlertThreshold != nil {
		updates["alert_threshold"] = *req.AlertThreshold
	}
	if req.Status != nil {
		switch *req.Status {
		case StatusAvailable, StatusOutOfStock, StatusDiscontinued:
			updates["status"] = *req.Status
		default:
			return nil, fmt.Errorf("invalid status: %s", *req.Status)
		}
	}

	if err := s.db.Model(&product).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.db.Preload("Category").First(&product, product.ID)

	return &product, nil
}

// DeleteProduct soft deletes a product. Products that appear on existing
// sales are kept so the sale history stays intact.
func (s *Service) DeleteProduct(id uint) error {
	var product Product
	if result := s.db.Where("id = ?", id).First(&product); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to find product: %w", result.Error)
	}

	var saleCount int64
	if err := s.db.Table("sale_details").Where("product_id = ?", id).Count(&saleCount).Error; err != nil {
		return fmt.Errorf("failed to check product usage: %w", err)
	}
	if saleCount > 0 {
		return ErrProductInUse
	}

	if err := s.db.Delete(&product).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// buildOrderClause builds ORDER BY clause for sorting
func (s *Service) buildOrderClause(sortBy, sortOrder string) string {
	validSortFields := map[string]bool{
		"name":           true,
		"unit_price":     true,
		"stock_quantity": true,
		"created_at":     true,
		"updated_at":     true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}

	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}

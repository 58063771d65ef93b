// internal/domain/supplier/service.go
package supplier

import (
	"errors"
	"fmt"
	"strings"

	"github.com/your-org/pos-backend/internal/config"
	"gorm.io/gorm"
)

// ErrSupplierNotFound is returned when the requested supplier does not exist
var ErrSupplierNotFound = errors.New("supplier not found")

// Service handles supplier business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new supplier service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// SupplierListRequest represents supplier list query parameters
type SupplierListRequest struct {
	Page     int    `form:"page,default=1"`
	Limit    int    `form:"limit,default=20"`
	Search   string `form:"search"`
	IsActive *bool  `form:"is_active"`
}

// SupplierCreateRequest represents supplier creation data
type SupplierCreateRequest struct {
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	City          string `json:"city"`
	Country       string `json:"country"`
	Notes         string `json:"notes"`
}

// SupplierUpdateRequest represents supplier update data
type SupplierUpdateRequest struct {
	Name          *string `json:"name"`
	ContactPerson *string `json:"contact_person"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	Address       *string `json:"address"`
	City          *string `json:"city"`
	Country       *string `json:"country"`
	IsActive      *bool   `json:"is_active"`
	Notes         *string `json:"notes"`
}

// SupplierListResponse represents suppliers with pagination
type SupplierListResponse struct {
	Suppliers []Supplier `json:"suppliers"`
	Total     int64      `json:"total"`
	Page      int        `json:"page"`
	Limit     int        `json:"limit"`
}

// GetSuppliers retrieves suppliers with filtering and pagination
func (s *Service) GetSuppliers(req *SupplierListRequest) (*SupplierListResponse, error) {
	var suppliers []Supplier
	var total int64

	query := s.db.Model(&Supplier{})
	if req.Search != "" {
		search := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(contact_person) LIKE ?", search, search)
	}
	if req.IsActive != nil {
		query = query.Where("is_active = ?", *req.IsActive)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count suppliers: %w", err)
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Order("name ASC").Offset(offset).Limit(req.Limit).Find(&suppliers).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve suppliers: %w", err)
	}

	return &SupplierListResponse{
		Suppliers: suppliers,
		Total:     total,
		Page:      req.Page,
		Limit:     req.Limit,
	}, nil
}

// GetSupplier retrieves a single supplier by ID
func (s *Service) GetSupplier(id uint) (*Supplier, error) {
	var sup Supplier
	result := s.db.Where("id = ?", id).First(&sup)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, fmt.Errorf("failed to retrieve supplier: %w", result.Error)
	}
	return &sup, nil
}

// CreateSupplier creates a new supplier
func (s *Service) CreateSupplier(req *SupplierCreateRequest) (*Supplier, error) {
	sup := Supplier{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		City:          req.City,
		Country:       req.Country,
		IsActive:      true,
		Notes:         req.Notes,
	}
	if err := s.db.Create(&sup).Error; err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}
	return &sup, nil
}

// UpdateSupplier updates an existing supplier
func (s *Service) UpdateSupplier(id uint, req *SupplierUpdateRequest) (*Supplier, error) {
	var sup Supplier
	result := s.db.Where("id = ?", id).First(&sup)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, fmt.Errorf("failed to find supplier: %w", result.Error)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.ContactPerson != nil {
		updates["contact_person"] = *req.ContactPerson
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.Country != nil {
		updates["country"] = *req.Country
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if err := s.db.Model(&sup).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}
	return &sup, nil
}

// DeleteSupplier soft deletes a supplier
func (s *Service) DeleteSupplier(id uint) error {
	result := s.db.Where("id = ?", id).Delete(&Supplier{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete supplier: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSupplierNotFound
	}
	return nil
}

// internal/domain/client/service.go
package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/your-org/pos-backend/internal/config"
	"gorm.io/gorm"
)

var (
	// ErrClientNotFound is returned when the requested client does not exist
	ErrClientNotFound = errors.New("client not found")

	// ErrClientHasSales is returned when deleting a client with sale history
	ErrClientHasSales = errors.New("client has existing sales")

	// ErrPhoneTaken is returned when another client already holds the phone number
	ErrPhoneTaken = errors.New("phone number already registered to another client")
)

// Service handles client business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new client service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ClientListRequest represents client list query parameters
type ClientListRequest struct {
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit,default=20"`
	Search string `form:"search"`
}

// ClientCreateRequest represents client creation data
type ClientCreateRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// ClientUpdateRequest represents client update data
type ClientUpdateRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

// ClientListResponse represents clients with pagination
type ClientListResponse struct {
	Clients []Client `json:"clients"`
	Total   int64    `json:"total"`
	Page    int      `json:"page"`
	Limit   int      `json:"limit"`
}

// GetClients retrieves clients with filtering and pagination
func (s *Service) GetClients(req *ClientListRequest) (*ClientListResponse, error) {
	var clients []Client
	var total int64

	query := s.db.Model(&Client{})
	if req.Search != "" {
		search := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR phone LIKE ?", search, "%"+req.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count clients: %w", err)
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Order("name ASC").Offset(offset).Limit(req.Limit).Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve clients: %w", err)
	}

	return &ClientListResponse{
		Clients: clients,
		Total:   total,
		Page:    req.Page,
		Limit:   req.Limit,
	}, nil
}

// GetClient retrieves a single client by ID
func (s *Service) GetClient(id uint) (*Client, error) {
	var c Client
	result := s.db.Where("id = ?", id).First(&c)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to retrieve client: %w", result.Error)
	}
	return &c, nil
}

// FindByPhone retrieves a client by exact phone number
func (s *Service) FindByPhone(phone string) (*Client, error) {
	var c Client
	result := s.db.Where("phone = ?", phone).First(&c)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to retrieve client: %w", result.Error)
	}
	return &c, nil
}

// FindOrCreateByPhone resolves a client by phone number, creating the record
// when none exists. The phone is the identity: a second caller with the same
// phone but a different name gets the existing record unchanged. Runs against
// the transaction handle passed in so sale creation stays atomic.
func FindOrCreateByPhone(tx *gorm.DB, name, phone string) (*Client, error) {
	var c Client
	err := tx.Where("phone = ?", phone).First(&c).Error
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up client by phone: %w", err)
	}

	c = Client{Name: name, Phone: phone}
	if err := tx.Create(&c).Error; err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &c, nil
}

// CreateClient creates a new client
func (s *Service) CreateClient(req *ClientCreateRequest) (*Client, error) {
	var existing Client
	if result := s.db.Where("phone = ?", req.Phone).First(&existing); result.Error == nil {
		return nil, ErrPhoneTaken
	}

	c := Client{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	}
	if err := s.db.Create(&c).Error; err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &c, nil
}

// UpdateClient updates an existing client
func (s *Service) UpdateClient(id uint, req *ClientUpdateRequest) (*Client, error) {
	var c Client
	result := s.db.Where("id = ?", id).First(&c)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to find client: %w", result.Error)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Phone != nil && *req.Phone != c.Phone {
		var existing Client
		if result := s.db.Where("phone = ? AND id <> ?", *req.Phone, id).First(&existing); result.Error == nil {
			return nil, ErrPhoneTaken
		}
		updates["phone"] = *req.Phone
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}

	if err := s.db.Model(&c).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return &c, nil
}

// DeleteClient soft deletes a client that has no sale history
func (s *Service) DeleteClient(id uint) error {
	var c Client
	if result := s.db.Where("id = ?", id).First(&c); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("failed to find client: %w", result.Error)
	}

	var saleCount int64
	if err := s.db.Table("sales").Where("client_id = ?", id).Count(&saleCount).Error; err != nil {
		return fmt.Errorf("failed to check client sales: %w", err)
	}
	if saleCount > 0 {
		return ErrClientHasSales
	}

	if err := s.db.Delete(&c).Error; err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}

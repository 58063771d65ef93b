// internal/domain/user/admin_service.go
package user

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	// ErrInvalidRole is returned when an unknown role is assigned
	ErrInvalidRole = errors.New("invalid role")

	// ErrSelfAction is returned when an admin targets their own account
	ErrSelfAction = errors.New("cannot perform this action on your own account")
)

// validRoles lists the roles an admin may assign
var validRoles = map[string]bool{
	RoleAdmin:   true,
	RoleManager: true,
	RoleCashier: true,
}

// UserListRequest represents user list query parameters
type UserListRequest struct {
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit,default=20"`
	Search string `form:"search"`
	Role   string `form:"role"`
	Active *bool  `form:"active"`
}

// UserListResponse represents users with pagination
type UserListResponse struct {
	Users []User `json:"users"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

// UserStats summarizes a user's activity for the admin detail view
type UserStats struct {
	TotalSales        int64      `json:"total_sales"`
	TotalTransactions int64      `json:"total_transactions"`
	SalesThisMonth    int64      `json:"sales_this_month"`
	LastLoginAt       *time.Time `json:"last_login_at"`
}

// AdminCreateRequest represents admin-side user creation data
type AdminCreateRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	Role            string `json:"role" binding:"required"`
	IsActive        *bool  `json:"is_active"`
}

// AdminUpdateRequest represents admin-side user update data
type AdminUpdateRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// ResetPasswordRequest represents an admin password reset
type ResetPasswordRequest struct {
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// ListUsers retrieves users with filtering and pagination
func (s *Service) ListUsers(req *UserListRequest) (*UserListResponse, error) {
	var users []User
	var total int64

	query := s.db.Model(&User{})
	if req.Search != "" {
		search := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", search, search)
	}
	if req.Role != "" {
		query = query.Where("role = ?", req.Role)
	}
	if req.Active != nil {
		query = query.Where("is_active = ?", *req.Active)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Order("name ASC").Offset(offset).Limit(req.Limit).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}

	for i := range users {
		users[i].Password = ""
	}

	return &UserListResponse{
		Users: users,
		Total: total,
		Page:  req.Page,
		Limit: req.Limit,
	}, nil
}

// GetUser retrieves a single user with activity stats
func (s *Service) GetUser(id uint) (*User, *UserStats, error) {
	var u User
	result := s.db.Where("id = ?", id).First(&u)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("failed to retrieve user: %w", result.Error)
	}
	u.Password = ""

	stats := UserStats{LastLoginAt: u.LastLoginAt}
	if err := s.db.Table("sales").Where("user_id = ?", id).Count(&stats.TotalSales).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count sales: %w", err)
	}
	if err := s.db.Table("mobile_transactions").Where("user_id = ?", id).Count(&stats.TotalTransactions).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count transactions: %w", err)
	}
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if err := s.db.Table("sales").Where("user_id = ? AND created_at >= ?", id, monthStart).Count(&stats.SalesThisMonth).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count monthly sales: %w", err)
	}

	return &u, &stats, nil
}

// CreateUser creates a user with an admin-assigned role
func (s *Service) CreateUser(req *AdminCreateRequest) (*User, error) {
	if req.Password != req.ConfirmPassword {
		return nil, fmt.Errorf("passwords do not match")
	}
	if !validRoles[req.Role] {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRole, req.Role)
	}

	var existing User
	if result := s.db.Where("email = ?", req.Email).First(&existing); result.Error == nil {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	u := User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hashedPassword,
		Role:     req.Role,
		IsActive: isActive,
	}
	if err := s.db.Create(&u).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	u.Password = ""
	return &u, nil
}

// UpdateUser updates a user account, including its role
func (s *Service) UpdateUser(id uint, req *AdminUpdateRequest) (*User, error) {
	var u User
	result := s.db.Where("id = ?", id).First(&u)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", result.Error)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		var existing User
		if result := s.db.Where("email = ? AND id <> ?", *req.Email, id).First(&existing); result.Error == nil {
			return nil, ErrEmailTaken
		}
		updates["email"] = strings.ToLower(*req.Email)
	}
	if req.Role != nil {
		if !validRoles[*req.Role] {
			return nil, fmt.Errorf("%w: %s", ErrInvalidRole, *req.Role)
		}
		updates["role"] = *req.Role
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if err := s.db.Model(&u).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	u.Password = ""
	return &u, nil
}

// DeleteUser removes a user account. Admins cannot delete themselves.
func (s *Service) DeleteUser(actorID, id uint) error {
	if actorID == id {
		return ErrSelfAction
	}

	var u User
	result := s.db.Where("id = ?", id).First(&u)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", result.Error)
	}

	if err := s.db.Delete(&u).Error; err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// ToggleStatus flips a user's active flag. Admins cannot deactivate themselves.
func (s *Service) ToggleStatus(actorID, id uint) (*User, error) {
	if actorID == id {
		return nil, ErrSelfAction
	}

	var u User
	result := s.db.Where("id = ?", id).First(&u)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", result.Error)
	}

	if err := s.db.Model(&u).Update("is_active", !u.IsActive).Error; err != nil {
		return nil, fmt.Errorf("failed to toggle user status: %w", err)
	}

	u.Password = ""
	return &u, nil
}

// ResetPassword sets a new password for a user without the current one
func (s *Service) ResetPassword(id uint, req *ResetPasswordRequest) error {
	if req.Password != req.ConfirmPassword {
		return fmt.Errorf("passwords do not match")
	}

	var u User
	result := s.db.Where("id = ?", id).First(&u)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", result.Error)
	}

	hashedPassword, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Model(&u).Update("password", hashedPassword).Error; err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	return nil
}

// internal/domain/user/service_test.go
package user

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/pkg/auth"
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

	require.NoError(t, db.AutoMigrate(&User{}))
	return db
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-at-least-32-characters!!"
	cfg.JWT.AccessTokenExpiry = 15 * time.Minute
	cfg.JWT.RefreshTokenExpiry = 7 * 24 * time.Hour
	cfg.Security.BcryptCost = 4 // keep the tests fast
	return cfg
}

func TestRegister(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	resp, err := svc.Register(&RegisterRequest{
		Name:            "Cashier One",
		Email:           "Cashier@Example.com",
		Password:        "Str0ng!Pass",
		ConfirmPassword: "Str0ng!Pass",
	})
	require.NoError(t, err)

	assert.Equal(t, RoleCashier, resp.User.Role)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Empty(t, resp.User.Password)
	// Emails are stored lowercase
	assert.Equal(t, "cashier@example.com", resp.User.Email)

	_, err = svc.Register(&RegisterRequest{
		Name:            "Duplicate",
		Email:           "cashier@example.com",
		Password:        "Str0ng!Pass",
		ConfirmPassword: "Str0ng!Pass",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Register(&RegisterRequest{
		Name:            "Mismatch",
		Email:           "other@example.com",
		Password:        "Str0ng!Pass",
		ConfirmPassword: "Different!1",
	})
	assert.Error(t, err)

}

func TestRegisterIgnoresCallerRole(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	// Registration is public: even if the raw request smuggles a role
	// field past binding, the stored account must be a cashier.
	body := []byte(`{"name":"Sneaky","email":"sneaky@example.com",` +
		`"password":"Str0ng!Pass","confirm_password":"Str0ng!Pass","role":"admin"}`)
	var req RegisterRequest
	require.NoError(t, json.Unmarshal(body, &req))

	resp, err := svc.Register(&req)
	require.NoError(t, err)
	assert.Equal(t, RoleCashier, resp.User.Role)

	var stored User
	require.NoError(t, db.Where("email = ?", "sneaky@example.com").First(&stored).Error)
	assert.Equal(t, RoleCashier, stored.Role)
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	_, err := svc.Register(&RegisterRequest{
		Name:            "Cashier One",
		Email:           "cashier@example.com",
		Password:        "Str0ng!Pass",
		ConfirmPassword: "Str0ng!Pass",
	})
	require.NoError(t, err)

	resp, err := svc.Login(&LoginRequest{Email: "cashier@example.com", Password: "Str0ng!Pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	require.NotNil(t, resp.User.LastLoginAt)

	_, err = svc.Login(&LoginRequest{Email: "cashier@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(&LoginRequest{Email: "nobody@example.com", Password: "Str0ng!Pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Deactivated accounts cannot log in
	require.NoError(t, db.Model(&User{}).Where("email = ?", "cashier@example.com").
		Update("is_active", false).Error)
	_, err = svc.Login(&LoginRequest{Email: "cashier@example.com", Password: "Str0ng!Pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAccessTokenCarriesRole(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	svc := NewService(db, cfg)

	created, err := svc.CreateUser(&AdminCreateRequest{
		Name:            "Manager One",
		Email:           "manager@example.com",
		Password:        "Str0ng!Pass",
		ConfirmPassword: "Str0ng!Pass",
		Role:            RoleManager,
	})
	require.NoError(t, err)

	resp, err := svc.Login(&LoginRequest{Email: "manager@example.com", Password: "Str0ng!Pass"})
	require.NoError(t, err)

	claims, err := auth.NewJWTManager(cfg).ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
	assert.Equal(t, RoleManager, claims.Role)
}

func TestRefreshToken(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	resp, err := svc.Register(&RegisterRequest{
		Name:            "Cashier One",
		Email:           "cashier@example.com",
		Password:        "Str0ng!Pass",
		ConfirmPassword: "Str0ng!Pass",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.RefreshToken("not-a-token")
	assert.Error(t, err)

	// An access token is not accepted as a refresh token
	_, err = svc.RefreshToken(resp.AccessToken)
	assert.Error(t, err)
}

func TestChangePassword(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	resp, err := svc.Register(&RegisterRequest{
		Name:            "Cashier One",
		Email:           "cashier@example.com",
		Password:        "Str0ng!Pass",
		ConfirmPassword: "Str0ng!Pass",
	})
	require.NoError(t, err)

	err = svc.ChangePassword(resp.User.ID, &ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "An0ther!Pass",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(resp.User.ID, &ChangePasswordRequest{
		CurrentPassword: "Str0ng!Pass",
		NewPassword:     "An0ther!Pass",
	})
	require.NoError(t, err)

	_, err = svc.Login(&LoginRequest{Email: "cashier@example.com", Password: "An0ther!Pass"})
	assert.NoError(t, err)
}

func TestRolePredicates(t *testing.T) {
	admin := User{Role: RoleAdmin}
	manager := User{Role: RoleManager}
	cashier := User{Role: RoleCashier}

	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.CanManageStock())
	assert.False(t, manager.IsAdmin())
	assert.True(t, manager.CanManageStock())
	assert.False(t, cashier.CanManageStock())
}

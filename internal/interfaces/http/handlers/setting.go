// internal/interfaces/http/handlers/setting.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/setting"
	"gorm.io/gorm"
)

// SettingHandler handles application settings endpoints
type SettingHandler struct {
	settingService *setting.Service
	config         *config.Config
}

// NewSettingHandler creates a new setting handler
func NewSettingHandler(db *gorm.DB, cfg *config.Config) *SettingHandler {
	return &SettingHandler{
		settingService: setting.NewService(db, cfg),
		config:         cfg,
	}
}

// GetSettings returns all settings as a key-value map
func (h *SettingHandler) GetSettings(c *gin.Context) {
	values, err := h.settingService.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to retrieve settings",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    values,
	})
}

// UpdateSettings upserts the submitted settings
func (h *SettingHandler) UpdateSettings(c *gin.Context) {
	var req struct {
		Settings map[string]string `json:"settings" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"errors":  err.Error(),
		})
		return
	}

	if err := h.settingService.Update(req.Settings); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, setting.ErrNoSettings) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Settings updated successfully",
	})
}

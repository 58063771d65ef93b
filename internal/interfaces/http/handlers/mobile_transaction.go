// internal/interfaces/http/handlers/mobile_transaction.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/mobilemoney"
	"github.com/your-org/pos-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// MobileTransactionHandler handles mobile money endpoints
type MobileTransactionHandler struct {
	service *mobilemoney.Service
	config  *config.Config
}

// NewMobileTransactionHandler creates a new mobile transaction handler
func NewMobileTransactionHandler(db *gorm.DB, cfg *config.Config) *MobileTransactionHandler {
	return &MobileTransactionHandler{
		service: mobilemoney.NewService(db, cfg),
		config:  cfg,
	}
}

// GetTransactions handles GET /mobile-transactions
func (h *MobileTransactionHandler) GetTransactions(c *gin.Context) {
	var req mobilemoney.TransactionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"errors":  err.Error(),
		})
		return
	}

	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}

	response, err := h.service.GetTransactions(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to retrieve mobile transactions",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    response,
	})
}

// GetTransaction handles GET /mobile-transactions/:id
func (h *MobileTransactionHandler) GetTransaction(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid transaction ID",
		})
		return
	}

	trx, err := h.service.GetTransaction(uint(id))
	if err != nil {
		if errors.Is(err, mobilemoney.ErrTransactionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Mobile transaction not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to retrieve mobile transaction",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    trx,
	})
}

// CreateTransaction handles POST /mobile-transactions
func (h *MobileTransactionHandler) CreateTransaction(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Authentication required",
		})
		return
	}

	var req mobilemoney.TransactionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"errors":  err.Error(),
		})
		return
	}

	trx, err := h.service.CreateTransaction(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, mobilemoney.ErrInvalidOperator),
			errors.Is(err, mobilemoney.ErrInvalidType),
			errors.Is(err, mobilemoney.ErrAmountTooSmall):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"errors":  err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Failed to create mobile transaction",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    trx,
		"message": "Mobile transaction created successfully",
	})
}

// UpdateTransactionStatus handles POST /mobile-transactions/:id/status
func (h *MobileTransactionHandler) UpdateTransactionStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid transaction ID",
		})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"errors":  err.Error(),
		})
		return
	}

	trx, err := h.service.UpdateStatus(uint(id), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, mobilemoney.ErrTransactionNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Mobile transaction not found",
			})
		case errors.Is(err, mobilemoney.ErrInvalidStatus):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"errors":  err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Failed to update transaction status",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    trx,
		"message": "Transaction status updated successfully",
	})
}

// internal/interfaces/http/handlers/sale.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/client"
	"github.com/your-org/pos-backend/internal/domain/product"
	"github.com/your-org/pos-backend/internal/domain/sale"
	"github.com/your-org/pos-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SaleHandler handles sale endpoints
type SaleHandler struct {
	saleService *sale.Service
	config      *config.Config
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(db *gorm.DB, cfg *config.Config) *SaleHandler {
	return &SaleHandler{
		saleService: sale.NewService(db, cfg),
		config:      cfg,
	}
}

// CreateSale handles POST /sales
func (h *SaleHandler) CreateSale(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Authentication required",
		})
		return
	}

	var req sale.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"errors":  err.Error(),
		})
		return
	}

	created, err := h.saleService.CreateSale(userID, &req)
	if err != nil {
		var stockErr *sale.InsufficientStockError
		switch {
		case errors.As(err, &stockErr):
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"message": stockErr.Error(),
			})
		case errors.Is(err, sale.ErrEmptySale),
			errors.Is(err, sale.ErrInvalidQuantity),
			errors.Is(err, sale.ErrInvalidPaymentMethod):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"errors":  err.Error(),
			})
		case errors.Is(err, product.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Product not found",
			})
		case errors.Is(err, client.ErrClientNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Client not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Failed to process sale",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"sale":    created,
			"invoice": created.Invoice,
		},
		"message": "Sale created successfully",
	})
}

// CancelSale handles POST /sales/:id/cancel
func (h *SaleHandler) CancelSale(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid sale ID",
		})
		return
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Authentication required",
		})
		return
	}

	cancelled, err := h.saleService.CancelSale(uint(id), userID)
	if err != nil {
		switch {
		case errors.Is(err, sale.ErrSaleNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Sale not found",
			})
		case errors.Is(err, sale.ErrSaleAlreadyCancelled):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Sale is already cancelled",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Failed to cancel sale",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cancelled,
		"message": "Sale cancelled successfully",
	})
}

// GenerateInvoice handles POST /sales/:id/invoice
func (h *SaleHandler) GenerateInvoice(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid sale ID",
		})
		return
	}

	inv, created, err := h.saleService.GenerateInvoice(uint(id))
	if err != nil {
		if errors.Is(err, sale.ErrSaleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Sale not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to generate invoice",
		})
		return
	}

	if !created {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invoice already exists for this sale",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    inv,
		"message": "Invoice generated successfully",
	})
}

// GetSales handles GET /sales
func (h *SaleHandler) GetSales(c *gin.Context) {
	var req sale.SaleListRequest
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

	response, err := h.saleService.GetSales(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to retrieve sales",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    response,
	})
}

// GetSale handles GET /sales/:id
func (h *SaleHandler) GetSale(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid sale ID",
		})
		return
	}

	found, err := h.saleService.GetSale(uint(id))
	if err != nil {
		if errors.Is(err, sale.ErrSaleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Sale not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to retrieve sale",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    found,
	})
}

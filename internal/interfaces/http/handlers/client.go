// internal/interfaces/http/handlers/client.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/client"
	"gorm.io/gorm"
)

// ClientHandler handles client endpoints
type ClientHandler struct {
	clientService *client.Service
	config        *config.Config
}

// NewClientHandler creates a new client handler
func NewClientHandler(db *gorm.DB, cfg *config.Config) *ClientHandler {
	return &ClientHandler{
		clientService: client.NewService(db, cfg),
		config:        cfg,
	}
}

// GetClients handles GET /clients
func (h *ClientHandler) GetClients(c *gin.Context) {
	var req client.ClientListRequest
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

	response, err := h.clientService.GetClients(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to retrieve clients",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    response,
	})
}

// GetClient handles GET /clients/:id
func (h *ClientHandler) GetClient(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid client ID",
		})
		return
	}

	cl, err := h.clientService.GetClient(uint(id))
	if err != nil {
		if errors.Is(err, client.ErrClientNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Client not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to retrieve client",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cl,
	})
}

// SearchByPhone handles GET /clients/search/phone/:phone
func (h *ClientHandler) SearchByPhone(c *gin.Context) {
	phone := c.Param("phone")
	if phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Phone number is required",
		})
		return
	}

	cl, err := h.clientService.FindByPhone(phone)
	if err != nil {
		if errors.Is(err, client.ErrClientNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Client not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to search client",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cl,
	})
}

// CreateClient handles POST /clients
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req client.ClientCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"errors":  err.Error(),
		})
		return
	}

	cl, err := h.clientService.CreateClient(&req)
	if err != nil {
		if errors.Is(err, client.ErrPhoneTaken) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"message": "Phone number already registered",
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    cl,
		"message": "Client created successfully",
	})
}

// UpdateClient handles PUT /clients/:id
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid client ID",
		})
		return
	}

	var req client.ClientUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"errors":  err.Error(),
		})
		return
	}

	cl, err := h.clientService.UpdateClient(uint(id), &req)
	if err != nil {
		switch {
		case errors.Is(err, client.ErrClientNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Client not found",
			})
		case errors.Is(err, client.ErrPhoneTaken):
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"message": "Phone number already registered",
			})
		default:
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cl,
		"message": "Client updated successfully",
	})
}

// DeleteClient handles DELETE /clients/:id
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid client ID",
		})
		return
	}

	if err := h.clientService.DeleteClient(uint(id)); err != nil {
		switch {
		case errors.Is(err, client.ErrClientNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Client not found",
			})
		case errors.Is(err, client.ErrClientHasSales):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Cannot delete a client with existing sales",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Failed to delete client",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Client deleted successfully",
	})
}

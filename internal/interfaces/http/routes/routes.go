// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/user"
	"github.com/your-org/pos-backend/internal/interfaces/http/handlers"
	"github.com/your-org/pos-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires every route group onto the API router
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	SetupAuthRoutes(rg, db, redisClient, cfg)
	SetupProductRoutes(rg, db, redisClient, cfg)
	SetupPartnerRoutes(rg, db, redisClient, cfg)
	SetupSaleRoutes(rg, db, redisClient, cfg)
	SetupAdminRoutes(rg, db, redisClient, cfg)
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)

	auth := rg.Group("/auth")
	{
		// Public auth endpoints
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)

		// Protected auth endpoints
		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/profile", authHandler.GetProfile)
			protected.PUT("/profile", authHandler.UpdateProfile)
			protected.PUT("/password", authHandler.ChangePassword)
		}
	}
}

// SetupProductRoutes sets up product and category related routes
func SetupProductRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	productHandler := handlers.NewProductHandler(db, cfg)
	categoryHandler := handlers.NewCategoryHandler(db, cfg)

	products := rg.Group("/products")
	products.Use(middleware.AuthMiddleware(cfg))
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/low-stock/alerts", productHandler.GetLowStockProducts)
		products.GET("/:id", productHandler.GetProduct)
		products.GET("/:id/movements", productHandler.GetStockMovements)

		// Stock and catalog mutations are for staff who manage inventory
		manage := products.Group("")
		manage.Use(middleware.RoleMiddleware(user.RoleAdmin, user.RoleManager))
		{
			manage.POST("", productHandler.CreateProduct)
			manage.PUT("/:id", productHandler.UpdateProduct)
			manage.DELETE("/:id", productHandler.DeleteProduct)
			manage.POST("/:id/stock", productHandler.AdjustStock)
		}
	}

	categories := rg.Group("/categories")
	categories.Use(middleware.AuthMiddleware(cfg))
	{
		categories.GET("", categoryHandler.GetCategories)
		categories.GET("/:id", categoryHandler.GetCategory)

		manage := categories.Group("")
		manage.Use(middleware.RoleMiddleware(user.RoleAdmin, user.RoleManager))
		{
			manage.POST("", categoryHandler.CreateCategory)
			manage.PUT("/:id", categoryHandler.UpdateCategory)
			manage.DELETE("/:id", categoryHandler.DeleteCategory)
		}
	}
}

// SetupPartnerRoutes sets up client and supplier related routes
func SetupPartnerRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	clientHandler := handlers.NewClientHandler(db, cfg)
	supplierHandler := handlers.NewSupplierHandler(db, cfg)

	clients := rg.Group("/clients")
	clients.Use(middleware.AuthMiddleware(cfg))
	{
		clients.GET("", clientHandler.GetClients)
		clients.GET("/search/phone/:phone", clientHandler.SearchByPhone)
		clients.GET("/:id", clientHandler.GetClient)
		clients.POST("", clientHandler.CreateClient)
		clients.PUT("/:id", clientHandler.UpdateClient)
		clients.DELETE("/:id", clientHandler.DeleteClient)
	}

	suppliers := rg.Group("/suppliers")
	suppliers.Use(middleware.AuthMiddleware(cfg))
	suppliers.Use(middleware.RoleMiddleware(user.RoleAdmin, user.RoleManager))
	{
		suppliers.GET("", supplierHandler.GetSuppliers)
		suppliers.GET("/:id", supplierHandler.GetSupplier)
		suppliers.POST("", supplierHandler.CreateSupplier)
		suppliers.PUT("/:id", supplierHandler.UpdateSupplier)
		suppliers.DELETE("/:id", supplierHandler.DeleteSupplier)
	}
}

// SetupSaleRoutes sets up sale, invoice and mobile money routes
func SetupSaleRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	saleHandler := handlers.NewSaleHandler(db, cfg)
	invoiceHandler := handlers.NewInvoiceHandler(db, cfg)
	mobileHandler := handlers.NewMobileTransactionHandler(db, cfg)

	sales := rg.Group("/sales")
	sales.Use(middleware.AuthMiddleware(cfg))
	{
		sales.GET("", saleHandler.GetSales)
		sales.GET("/:id", saleHandler.GetSale)
		sales.POST("", saleHandler.CreateSale)
		sales.POST("/:id/invoice", saleHandler.GenerateInvoice)

		// Cancellation reverses stock, so it is restricted
		cancel := sales.Group("")
		cancel.Use(middleware.RoleMiddleware(user.RoleAdmin, user.RoleManager))
		{
			cancel.POST("/:id/cancel", saleHandler.CancelSale)
		}
	}

	invoices := rg.Group("/invoices")
	invoices.Use(middleware.AuthMiddleware(cfg))
	{
		invoices.GET("", invoiceHandler.GetInvoices)
		invoices.GET("/:id", invoiceHandler.GetInvoice)
		invoices.PUT("/:id/status", invoiceHandler.UpdateInvoiceStatus)
	}

	mobile := rg.Group("/mobile-transactions")
	mobile.Use(middleware.AuthMiddleware(cfg))
	{
		mobile.GET("", mobileHandler.GetTransactions)
		mobile.GET("/:id", mobileHandler.GetTransaction)
		mobile.POST("", mobileHandler.CreateTransaction)
		mobile.POST("/:id/status", mobileHandler.UpdateTransactionStatus)
	}
}

// SetupAdminRoutes sets up user management and settings routes
func SetupAdminRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	userAdminHandler := handlers.NewUserAdminHandler(db, cfg)
	settingHandler := handlers.NewSettingHandler(db, cfg)

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		users := admin.Group("/users")
		{
			users.GET("", userAdminHandler.GetUsers)
			users.GET("/:id", userAdminHandler.GetUser)
			users.POST("", userAdminHandler.CreateUser)
			users.PUT("/:id", userAdminHandler.UpdateUser)
			users.DELETE("/:id", userAdminHandler.DeleteUser)
			users.POST("/:id/toggle-status", userAdminHandler.ToggleUserStatus)
			users.POST("/:id/reset-password", userAdminHandler.ResetUserPassword)
		}

		settings := admin.Group("/settings")
		{
			settings.GET("", settingHandler.GetSettings)
			settings.PUT("", settingHandler.UpdateSettings)
		}
	}
}

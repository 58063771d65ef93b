// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/your-org/pos-backend/internal/domain/client"
	"github.com/your-org/pos-backend/internal/domain/inventory"
	"github.com/your-org/pos-backend/internal/domain/invoice"
	"github.com/your-org/pos-backend/internal/domain/mobilemoney"
	"github.com/your-org/pos-backend/internal/domain/product"
	"github.com/your-org/pos-backend/internal/domain/sale"
	"github.com/your-org/pos-backend/internal/domain/setting"
	"github.com/your-org/pos-backend/internal/domain/supplier"
	"github.com/your-org/pos-backend/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Models in dependency order
	models := []interface{}{
		&user.User{},

		&product.Category{},
		&product.Product{},

		&client.Client{},
		&supplier.Supplier{},

		&sale.Sale{},
		&sale.SaleDetail{},

		&inventory.StockMovement{},
		&invoice.Invoice{},

		&mobilemoney.MobileTransaction{},

		&setting.Setting{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",

		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_category_status ON products(category_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_products_stock_threshold ON products(stock_quantity, alert_threshold)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",

		// Client indexes
		"CREATE INDEX IF NOT EXISTS idx_clients_phone ON clients(phone)",
		"CREATE INDEX IF NOT EXISTS idx_clients_name ON clients(name)",

		// Sale indexes
		"CREATE INDEX IF NOT EXISTS idx_sales_user_status ON sales(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_sales_client ON sales(client_id)",
		"CREATE INDEX IF NOT EXISTS idx_sales_status_created ON sales(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_sales_payment_method ON sales(payment_method)",
		"CREATE INDEX IF NOT EXISTS idx_sales_reference ON sales(reference)",

		// Sale detail indexes
		"CREATE INDEX IF NOT EXISTS idx_sale_details_sale ON sale_details(sale_id)",
		"CREATE INDEX IF NOT EXISTS idx_sale_details_product ON sale_details(product_id)",

		// Stock movement indexes
		"CREATE INDEX IF NOT EXISTS idx_stock_movements_product_created ON stock_movements(product_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_stock_movements_type ON stock_movements(type)",
		"CREATE INDEX IF NOT EXISTS idx_stock_movements_reference ON stock_movements(reference)",

		// Invoice indexes
		"CREATE INDEX IF NOT EXISTS idx_invoices_status_due ON invoices(status, due_date)",
		"CREATE INDEX IF NOT EXISTS idx_invoices_invoice_date ON invoices(invoice_date DESC)",

		// Mobile transaction indexes
		"CREATE INDEX IF NOT EXISTS idx_mobile_transactions_operator_status ON mobile_transactions(operator, status)",
		"CREATE INDEX IF NOT EXISTS idx_mobile_transactions_created_at ON mobile_transactions(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_mobile_transactions_client_phone ON mobile_transactions(client_phone)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedCategories(); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := m.seedCashierUser(); err != nil {
		return fmt.Errorf("failed to seed cashier user: %w", err)
	}

	if err := m.seedSampleProducts(); err != nil {
		return fmt.Errorf("failed to seed sample products: %w", err)
	}

	if err := m.seedDefaultSettings(); err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

// seedCategories creates default product categories
func (m *Migration) seedCategories() error {
	log.Println("🏷️ Seeding categories...")

	categories := []product.Category{
		{
			Name:        "Beverages",
			Description: "Drinks, juices and bottled water",
			Color:       "#2196F3",
			IsActive:    true,
		},
		{
			Name:        "Food",
			Description: "Dry goods and packaged food",
			Color:       "#4CAF50",
			IsActive:    true,
		},
		{
			Name:        "Household",
			Description: "Cleaning products and household supplies",
			Color:       "#FF9800",
			IsActive:    true,
		},
		{
			Name:        "Phone Credit",
			Description: "Airtime and mobile data vouchers",
			Color:       "#9C27B0",
			IsActive:    true,
		},
	}

	for _, category := range categories {
		var existing product.Category
		result := m.db.Where("name = ?", category.Name).First(&existing)
		if result.Error != nil {
			if err := m.db.Create(&category).Error; err != nil {
				return err
			}
			log.Printf("✅ Created category: %s", category.Name)
		} else {
			log.Printf("⏭️ Category already exists: %s", category.Name)
		}
	}

	return nil
}

func (m *Migration) seedAdminUser() error {
	log.Println("👤 Seeding admin user...")

	var existing user.User
	result := m.db.Where("email = ?", "admin@example.com").First(&existing)
	if result.Error != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), 10)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		adminUser := user.User{
			Name:     "Admin User",
			Email:    "admin@example.com",
			Password: string(hashedPassword),
			Role:     user.RoleAdmin,
			IsActive: true,
		}

		if err := m.db.Create(&adminUser).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Println("✅ Created admin user: admin@example.com (password: admin123)")
	} else {
		log.Printf("⏭️ Admin user already exists with ID: %d", existing.ID)
	}

	return nil
}

func (m *Migration) seedCashierUser() error {
	log.Println("👤 Seeding cashier user...")

	var existing user.User
	result := m.db.Where("email = ?", "cashier@example.com").First(&existing)
	if result.Error != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte("cashier123"), 10)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		cashier := user.User{
			Name:     "Counter Cashier",
			Email:    "cashier@example.com",
			Password: string(hashedPassword),
			Role:     user.RoleCashier,
			IsActive: true,
		}

		if err := m.db.Create(&cashier).Error; err != nil {
			return err
		}

		log.Println("✅ Created cashier user: cashier@example.com (password: cashier123)")
	} else {
		log.Println("⏭️ Cashier user already exists")
	}

	return nil
}

// seedSampleProducts creates a handful of products for a fresh install
func (m *Migration) seedSampleProducts() error {
	log.Println("🛍️ Seeding sample products...")

	var productCount int64
	m.db.Model(&product.Product{}).Count(&productCount)
	if productCount > 0 {
		log.Println("⏭️ Products already exist")
		return nil
	}

	var beverages product.Category
	if err := m.db.Where("name = ?", "Beverages").First(&beverages).Error; err != nil {
		return fmt.Errorf("beverages category missing: %w", err)
	}
	var food product.Category
	if err := m.db.Where("name = ?", "Food").First(&food).Error; err != nil {
		return fmt.Errorf("food category missing: %w", err)
	}

	products := []product.Product{
		{
			Name:           "Mineral Water 1.5L",
			Description:    "Bottled mineral water, 1.5 litre",
			CategoryID:     beverages.ID,
			UnitPrice:      decimal.NewFromInt(500),
			StockQuantity:  decimal.NewFromInt(120),
			Unit:           "bottle",
			AlertThreshold: decimal.NewFromInt(24),
			Status:         product.StatusAvailable,
		},
		{
			Name:           "Rice 25kg",
			Description:    "Long grain rice, 25kg bag",
			CategoryID:     food.ID,
			UnitPrice:      decimal.NewFromInt(18500),
			StockQuantity:  decimal.NewFromInt(40),
			Unit:           "bag",
			AlertThreshold: decimal.NewFromInt(10),
			Status:         product.StatusAvailable,
		},
		{
			Name:           "Vegetable Oil 5L",
			Description:    "Refined vegetable cooking oil, 5 litre",
			CategoryID:     food.ID,
			UnitPrice:      decimal.NewFromInt(7200),
			StockQuantity:  decimal.NewFromInt(25),
			Unit:           "bottle",
			AlertThreshold: decimal.NewFromInt(8),
			Status:         product.StatusAvailable,
		},
	}

	for _, p := range products {
		if err := m.db.Create(&p).Error; err != nil {
			return fmt.Errorf("failed to create product %s: %w", p.Name, err)
		}
		log.Printf("✅ Created product: %s", p.Name)
	}

	return nil
}

// seedDefaultSettings inserts baseline settings when the keys are absent
func (m *Migration) seedDefaultSettings() error {
	log.Println("⚙️ Seeding default settings...")

	defaults := map[string]string{
		"company_name":     "POS Store",
		"currency":         "XOF",
		"invoice_due_days": "30",
		"receipt_footer":   "Thank you for your purchase",
	}

	for key, value := range defaults {
		var existing setting.Setting
		result := m.db.Where("key = ?", key).First(&existing)
		if result.Error != nil {
			entry := setting.Setting{Key: key, Value: value}
			if err := m.db.Create(&entry).Error; err != nil {
				return err
			}
			log.Printf("✅ Created setting: %s", key)
		}
	}

	return nil
}

package services

import (
	"os"
	"testing"

	"garagehub-backend/models"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB opens the database named by TEST_DB_URL and migrates a clean
// schema. Service-level tests need a real postgres because the locking
// semantics under test live in the database; they skip when none is
// configured.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DB_URL")
	if dsn == "" {
		t.Skip("TEST_DB_URL not set, skipping database-backed test")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("connect test database: %v", err)
	}

	db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`)

	tables := []interface{}{
		&models.Payment{}, &models.OrderItem{}, &models.Order{},
		&models.Booking{}, &models.Product{}, &models.Service{},
	}
	if err := db.Migrator().DropTable(tables...); err != nil {
		t.Fatalf("drop tables: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Product{}, &models.Service{}, &models.Order{},
		&models.OrderItem{}, &models.Booking{}, &models.Payment{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Exec(models.BookingSlotIndexSQL).Error; err != nil {
		t.Fatalf("create booking slot index: %v", err)
	}

	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:          name,
		Price:         price,
		StockQuantity: stock,
		IsAvailable:   stock > 0,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product %s: %v", name, err)
	}
	return product
}

func seedService(t *testing.T, db *gorm.DB, name string, price float64) *models.Service {
	t.Helper()
	service := &models.Service{Name: name, Price: price, IsActive: true}
	if err := db.Create(service).Error; err != nil {
		t.Fatalf("seed service %s: %v", name, err)
	}
	return service
}

func stockOf(t *testing.T, db *gorm.DB, productID uuid.UUID) int {
	t.Helper()
	var product models.Product
	if err := db.First(&product, "id = ?", productID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	return product.StockQuantity
}

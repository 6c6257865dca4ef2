package services

import (
	"errors"
	"fmt"

	"garagehub-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryService is the only code allowed to change a product's stock
// quantity. Every mutation happens on a product row locked FOR UPDATE
// inside the caller's transaction, which is what keeps stock from ever
// going negative under concurrent orders.
type InventoryService struct{}

func NewInventoryService() *InventoryService {
	return &InventoryService{}
}

// LockProduct loads the product row under an exclusive lock held until the
// transaction ends.
func (s *InventoryService) LockProduct(tx *gorm.DB, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// HasStock reports whether the product can cover the requested quantity.
func (s *InventoryService) HasStock(product *models.Product, quantity int) bool {
	return quantity <= product.StockQuantity
}

// ReduceStock deducts quantity from a locked product row, marking it
// unavailable when stock hits zero.
func (s *InventoryService) ReduceStock(tx *gorm.DB, product *models.Product, quantity int) error {
	if !s.HasStock(product, quantity) {
		return fmt.Errorf("%w: %s", ErrInsufficientStock, product.Name)
	}

	product.StockQuantity -= quantity
	if product.StockQuantity == 0 {
		product.IsAvailable = false
	}

	return tx.Model(product).
		Select("stock_quantity", "is_available").
		Updates(map[string]interface{}{
			"stock_quantity": product.StockQuantity,
			"is_available":   product.IsAvailable,
		}).Error
}

// RestoreStock returns quantity to a locked product row, re-listing it if
// it was sold out.
func (s *InventoryService) RestoreStock(tx *gorm.DB, product *models.Product, quantity int) error {
	product.StockQuantity += quantity
	if product.StockQuantity > 0 {
		product.IsAvailable = true
	}

	return tx.Model(product).
		Select("stock_quantity", "is_available").
		Updates(map[string]interface{}{
			"stock_quantity": product.StockQuantity,
			"is_available":   product.IsAvailable,
		}).Error
}

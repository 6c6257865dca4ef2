package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"garagehub-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderItemInput is one requested line of a new order.
type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CustomerInfo carries the delivery and vehicle details captured with an
// order.
type CustomerInfo struct {
	FullName      string
	PhoneNumber   string
	Estate        string
	StreetAddress string
	AutoPart      string
	VehicleMake   string
	VehicleModel  string
	VehicleYear   string
}

type OrderService struct {
	db        *gorm.DB
	inventory *InventoryService
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{
		db:        db,
		inventory: NewInventoryService(),
	}
}

// Create builds an order from the given line items inside a single
// transaction. Repeated lines for the same product are merged into one
// order item. Product rows are locked in ascending ID order so two
// concurrent multi-item orders can never deadlock on each other. If any
// item is short on stock the whole order is aborted; partial orders are
// never persisted. Cash orders deduct stock immediately, M-Pesa orders
// leave stock untouched until the payment callback confirms settlement.
func (s *OrderService) Create(items []OrderItemInput, paymentMethod string, info CustomerInfo) (*models.Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	}
	if paymentMethod != models.PaymentMethodCash && paymentMethod != models.PaymentMethodMpesa {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, paymentMethod)
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item quantity must be positive", ErrValidation)
		}
	}

	// Merge repeated lines for the same product so the stock check sees the
	// combined demand, then fix the lock acquisition order across products.
	demand := make(map[uuid.UUID]int)
	var productIDs []uuid.UUID
	for _, item := range items {
		if _, seen := demand[item.ProductID]; !seen {
			productIDs = append(productIDs, item.ProductID)
		}
		demand[item.ProductID] += item.Quantity
	}
	sort.Slice(productIDs, func(i, j int) bool {
		return strings.Compare(productIDs[i].String(), productIDs[j].String()) < 0
	})

	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var orderItems []models.OrderItem
		var total float64
		locked := make(map[uuid.UUID]*models.Product)

		for _, productID := range productIDs {
			product, err := s.inventory.LockProduct(tx, productID)
			if err != nil {
				return err
			}
			quantity := demand[productID]
			if !s.inventory.HasStock(product, quantity) {
				return fmt.Errorf("%w: %s", ErrInsufficientStock, product.Name)
			}
			locked[product.ID] = product

			orderItems = append(orderItems, models.OrderItem{
				ID:           uuid.New(),
				ProductID:    product.ID,
				ProductName:  product.Name,
				Quantity:     quantity,
				PriceAtOrder: product.Price,
			})
			total += product.Price * float64(quantity)
		}

		order = models.Order{
			ID:            uuid.New(),
			Status:        models.OrderPending,
			PaymentMethod: paymentMethod,
			TotalPrice:    total,
			FullName:      info.FullName,
			PhoneNumber:   info.PhoneNumber,
			Estate:        info.Estate,
			StreetAddress: info.StreetAddress,
			AutoPart:      info.AutoPart,
			VehicleMake:   info.VehicleMake,
			VehicleModel:  info.VehicleModel,
			VehicleYear:   info.VehicleYear,
			Items:         orderItems,
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		if paymentMethod == models.PaymentMethodCash {
			for _, item := range order.Items {
				if err := s.inventory.ReduceStock(tx, locked[item.ProductID], item.Quantity); err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// Cancel transitions an order to cancelled and restores any stock that was
// deducted for it. Cancelling an already-cancelled order is an idempotent
// no-op reported through the second return value; cancelling a completed
// order is rejected. A paid order may still be cancelled (the refund is an
// external workflow), and its stock is restored exactly once.
func (s *OrderService) Cancel(orderID uuid.UUID) (*models.Order, bool, error) {
	var order models.Order
	alreadyCancelled := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, "id = ?", orderID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		if order.Status == models.OrderCancelled {
			alreadyCancelled = true
			return nil
		}
		if !order.CanTransition(models.OrderCancelled) {
			return fmt.Errorf("%w: cannot cancel a %s order", ErrInvalidTransition, order.Status)
		}

		if order.StockDeducted() {
			var items []models.OrderItem
			if err := tx.Order("product_id").Find(&items, "order_id = ?", order.ID).Error; err != nil {
				return err
			}
			for _, item := range items {
				product, err := s.inventory.LockProduct(tx, item.ProductID)
				if err != nil {
					return err
				}
				if err := s.inventory.RestoreStock(tx, product, item.Quantity); err != nil {
					return err
				}
			}
		}

		order.Status = models.OrderCancelled
		return tx.Model(&order).Update("status", models.OrderCancelled).Error
	})
	if err != nil {
		return nil, false, err
	}

	return &order, alreadyCancelled, nil
}

// Get returns an order with its items.
func (s *OrderService) Get(orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").First(&order, "id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns all orders, newest first.
func (s *OrderService) List() ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

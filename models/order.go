package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// Payment method selectors. Cash settles at delivery so stock is deducted
// when the order is created; M-Pesa settles asynchronously so deduction
// waits for the payment callback.
const (
	PaymentMethodCash  = "cash_on_delivery"
	PaymentMethodMpesa = "mpesa"
)

// orderTransitions is the only legal set of status moves. Anything outside
// it is rejected with ErrInvalidTransition by the order service.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending: {OrderPaid, OrderCancelled},
	OrderPaid:    {OrderCompleted, OrderCancelled},
}

// Order is a customer purchase of one or more auto parts. TotalPrice is the
// sum of the item price snapshots, fixed at creation.
type Order struct {
	ID            uuid.UUID   `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Status        OrderStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaymentMethod string      `gorm:"not null" json:"paymentMethod"`
	TotalPrice    float64     `gorm:"type:decimal(10,2);not null" json:"totalPrice"`

	// IsPaid is sticky: once set it is never cleared, even if the order is
	// later cancelled (the refund workflow lives outside this system).
	IsPaid bool `gorm:"default:false" json:"isPaid"`

	FullName      string `json:"fullName"`
	PhoneNumber   string `json:"phoneNumber"`
	Estate        string `json:"estate"`
	StreetAddress string `json:"streetAddress"`
	AutoPart      string `json:"autoPart"`
	VehicleMake   string `json:"vehicleMake"`
	VehicleModel  string `json:"vehicleModel"`
	VehicleYear   string `json:"vehicleYear"`

	Items    []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	Payments []Payment   `gorm:"foreignKey:OrderID" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OrderItem references a product with the quantity and the price frozen at
// order time. PriceAtOrder is never recomputed, catalog price changes do
// not affect existing orders.
type OrderItem struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	OrderID      uuid.UUID `gorm:"type:uuid;index;not null" json:"orderId"`
	ProductID    uuid.UUID `gorm:"type:uuid;index;not null" json:"productId"`
	ProductName  string    `gorm:"not null" json:"productName"`
	Quantity     int       `gorm:"not null" json:"quantity"`
	PriceAtOrder float64   `gorm:"type:decimal(10,2);not null" json:"priceAtOrder"`
}

// CanTransition reports whether moving the order to the given status is a
// legal state machine move.
func (o *Order) CanTransition(to OrderStatus) bool {
	for _, next := range orderTransitions[o.Status] {
		if next == to {
			return true
		}
	}
	return false
}

// StockDeducted reports whether the order's stock has already been taken
// from inventory: at creation for cash orders, at first successful payment
// otherwise.
func (o *Order) StockDeducted() bool {
	return o.PaymentMethod == PaymentMethodCash || o.IsPaid
}

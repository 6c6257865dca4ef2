package models

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentCompleted PaymentStatus = "Completed"
	PaymentFailed    PaymentStatus = "Failed"
)

// Payment tracks one push-payment attempt for an order. TransactionID is
// the gateway's CheckoutRequestID and is the key the asynchronous callback
// reconciles against.
type Payment struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	OrderID uuid.UUID `gorm:"type:uuid;index;not null" json:"orderId"`

	TransactionID string        `gorm:"uniqueIndex;not null" json:"transactionId"`
	PaymentMethod string        `gorm:"default:'M-Pesa'" json:"paymentMethod"`
	Amount        float64       `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status        PaymentStatus `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`

	MpesaReceiptNumber string `json:"mpesaReceiptNumber"`
	ResultDescription  string `json:"resultDescription"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsTerminal reports whether the payment has reached a final state, after
// which duplicate gateway callbacks are acknowledged without side effects.
func (p *Payment) IsTerminal() bool {
	return p.Status == PaymentCompleted || p.Status == PaymentFailed
}

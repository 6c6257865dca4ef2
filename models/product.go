package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a stocked auto part sold through the shop. StockQuantity is
// only ever mutated through the inventory service so it can never go
// negative; IsAvailable tracks stock unless an admin disables the listing.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	Price       float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL    string    `json:"imageUrl"`

	StockQuantity int  `gorm:"not null;default:0" json:"stockQuantity"`
	IsAvailable   bool `gorm:"default:true" json:"isAvailable"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

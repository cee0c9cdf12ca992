// internal/models/cart.go
package models

import (
	"github.com/google/uuid"
)

// CartItem holds a user's pending (product, quantity) pair. The composite
// unique index enforces at most one row per (user, product); the service
// layer merges quantities instead of inserting duplicates.
type CartItem struct {
	BaseModel
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product"`
	Quantity  int       `json:"quantity" gorm:"not null"`

	// Relationships
	User    *User    `json:"-" gorm:"foreignKey:UserID"`
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// TotalPrice is the line total at the product's current price. Order items
// snapshot their own unit price at checkout; this is only for cart display.
func (ci *CartItem) TotalPrice() float64 {
	if ci.Product == nil {
		return 0
	}
	return ci.Product.Price * float64(ci.Quantity)
}

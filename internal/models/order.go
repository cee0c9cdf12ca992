// internal/models/order.go
package models

import (
	"github.com/google/uuid"
)

// Order and OrderItem are written exactly once, at checkout, and never
// mutated or deleted afterwards (audit trail).
type Order struct {
	BaseModel
	UserID          uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	TotalAmount     float64   `json:"total_amount" gorm:"not null"`
	ShippingAddress string    `json:"shipping_address" gorm:"type:text;not null"`

	// Relationships
	User  *User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	// UnitPrice snapshots Product.Price at purchase time. Later price edits
	// must not change historical orders.
	UnitPrice float64 `json:"unit_price" gorm:"not null"`

	// Relationships
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// LineTotal is quantity times the snapshotted unit price.
func (oi *OrderItem) LineTotal() float64 {
	return oi.UnitPrice * float64(oi.Quantity)
}

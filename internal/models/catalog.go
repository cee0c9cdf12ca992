// internal/models/catalog.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Category struct {
	BaseModel
	Name        string `json:"name" gorm:"uniqueIndex;size:100;not null"`
	Description string `json:"description" gorm:"type:text"`

	// Relationships
	Products []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
}

type Product struct {
	BaseModel
	Name        string         `json:"name" gorm:"size:255;not null"`
	Description string         `json:"description" gorm:"type:text"`
	Price       float64        `json:"price" gorm:"not null"`
	Stock       int            `json:"stock" gorm:"not null;default:0"`
	CategoryID  uuid.UUID      `json:"category_id" gorm:"type:uuid;not null"`
	ImageURL    string         `json:"image_url" gorm:"size:512"`
	Images      pq.StringArray `json:"images,omitempty" gorm:"type:text[]"`
	IsActive    bool           `json:"is_active" gorm:"default:true"`

	// Relationships
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

// InStock reports whether the requested quantity is currently available.
func (p *Product) InStock(quantity int) bool {
	return quantity > 0 && quantity <= p.Stock
}

// internal/services/cart_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mercato/mercato-backend/internal/models"
)

// CartService maintains the invariant that at most one cart row exists per
// (user, product) and that no row's quantity exceeds current stock. Stock is
// only ever decremented at checkout, never here.
type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

func (s *CartService) AddToCart(userID, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, errors.New("quantity must be at least 1")
	}

	var product models.Product
	if err := s.db.Where("is_active = ?", true).First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if quantity > product.Stock {
		return nil, &InsufficientStockError{ProductName: product.Name, Available: product.Stock}
	}

	// Merge with an existing row for this (user, product) pair
	var cartItem models.CartItem
	err := s.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&cartItem).Error
	switch {
	case err == nil:
		if cartItem.Quantity+quantity > product.Stock {
			return nil, &InsufficientStockError{ProductName: product.Name, Available: product.Stock}
		}
		cartItem.Quantity += quantity
		if err := s.db.Model(&cartItem).Update("quantity", cartItem.Quantity).Error; err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		cartItem = models.CartItem{
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
		}
		if err := s.db.Create(&cartItem).Error; err != nil {
			return nil, fmt.Errorf("failed to add to cart: %w", err)
		}
	default:
		return nil, fmt.Errorf("database error: %w", err)
	}

	cartItem.Product = &product
	return &cartItem, nil
}

// UpdateCartItem sets a new quantity; zero or below removes the row.
func (s *CartService) UpdateCartItem(userID, itemID uuid.UUID, quantity int) error {
	var cartItem models.CartItem
	if err := s.db.Preload("Product").First(&cartItem, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("cart item not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if cartItem.UserID != userID {
		return ErrNotOwner
	}

	if quantity <= 0 {
		if err := s.db.Delete(&cartItem).Error; err != nil {
			return fmt.Errorf("failed to remove cart item: %w", err)
		}
		return nil
	}

	if cartItem.Product == nil {
		return errors.New("product not found")
	}
	if quantity > cartItem.Product.Stock {
		return &InsufficientStockError{ProductName: cartItem.Product.Name, Available: cartItem.Product.Stock}
	}

	if err := s.db.Model(&cartItem).Update("quantity", quantity).Error; err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	return nil
}

func (s *CartService) RemoveCartItem(userID, itemID uuid.UUID) error {
	var cartItem models.CartItem
	if err := s.db.First(&cartItem, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("cart item not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if cartItem.UserID != userID {
		return ErrNotOwner
	}

	if err := s.db.Delete(&cartItem).Error; err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	return nil
}

// ViewCart returns the user's cart items with products preloaded and the
// running total at current prices.
func (s *CartService) ViewCart(userID uuid.UUID) ([]models.CartItem, float64, error) {
	var items []models.CartItem
	if err := s.db.Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch cart: %w", err)
	}

	var total float64
	for i := range items {
		total += items[i].TotalPrice()
	}
	return items, total, nil
}

// internal/services/checkout_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mercato/mercato-backend/internal/models"
)

// CheckoutService converts a user's cart into a durable order inside a
// single database transaction: total computation, order creation, per-item
// stock re-validation, unit-price snapshots, stock decrements and cart
// clearing either all happen or none do.
type CheckoutService struct {
	db *gorm.DB
}

func NewCheckoutService(db *gorm.DB) *CheckoutService {
	return &CheckoutService{db: db}
}

// Checkout places an order for everything in the user's cart. The stock
// decrement is a conditional update (stock = stock - qty WHERE stock >= qty):
// a concurrent checkout that wins the last unit makes the update match zero
// rows here, which aborts and rolls back the whole transaction instead of
// overselling.
func (s *CheckoutService) Checkout(userID uuid.UUID, shippingAddress string) (*models.Order, error) {
	if strings.TrimSpace(shippingAddress) == "" {
		return nil, ErrMissingAddress
	}

	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cartItems []models.CartItem
		if err := tx.Preload("Product").Where("user_id = ?", userID).Find(&cartItems).Error; err != nil {
			return fmt.Errorf("failed to fetch cart: %w", err)
		}
		if len(cartItems) == 0 {
			return ErrCartEmpty
		}

		var total float64
		for i := range cartItems {
			if cartItems[i].Product == nil {
				return errors.New("product no longer exists")
			}
			total += cartItems[i].Product.Price * float64(cartItems[i].Quantity)
		}

		order = models.Order{
			UserID:          userID,
			TotalAmount:     total,
			ShippingAddress: shippingAddress,
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for i := range cartItems {
			item := &cartItems[i]

			if item.Quantity > item.Product.Stock {
				return &InsufficientStockError{ProductName: item.Product.Name, Available: item.Product.Stock}
			}

			orderItem := models.OrderItem{
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.Product.Price,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}

			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return fmt.Errorf("failed to update stock: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				// Lost a race since the read above; re-read for an accurate report
				var current models.Product
				if err := tx.First(&current, "id = ?", item.ProductID).Error; err == nil {
					return &InsufficientStockError{ProductName: current.Name, Available: current.Stock}
				}
				return &InsufficientStockError{ProductName: item.Product.Name, Available: item.Product.Stock}
			}
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Reload with items for the confirmation payload
	if err := s.db.Preload("Items").Preload("Items.Product").First(&order, "id = ?", order.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &order, nil
}

// ListOrders returns the user's order history, newest first.
func (s *CheckoutService) ListOrders(userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Preload("Items").Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	return orders, nil
}

func (s *CheckoutService) GetOrder(userID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items").Preload("Items.Product").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("order not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if order.UserID != userID {
		return nil, ErrNotOwner
	}
	return &order, nil
}

// internal/services/checkout_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/mercato/mercato-backend/internal/models"
)

type CheckoutServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	checkout *CheckoutService
	carts    *CartService
	user     *models.User
	product  *models.Product
	category *models.Category
}

func (s *CheckoutServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.checkout = NewCheckoutService(s.db)
	s.carts = NewCartService(s.db)
	s.user = createTestUser(s.T(), s.db, "buyer", false)
	s.category = createTestCategory(s.T(), s.db, "Electronics")
	s.product = createTestProduct(s.T(), s.db, s.category, "Wireless Headphones", 99.99, 10)
}

func (s *CheckoutServiceTestSuite) TestCheckoutPlacesOrderAndDecrementsStock() {
	_, err := s.carts.AddToCart(s.user.ID, s.product.ID, 3)
	require.NoError(s.T(), err)

	// Adding to cart must not touch stock
	var before models.Product
	require.NoError(s.T(), s.db.First(&before, "id = ?", s.product.ID).Error)
	assert.Equal(s.T(), 10, before.Stock)

	order, err := s.checkout.Checkout(s.user.ID, "123 Main St")
	require.NoError(s.T(), err)
	require.NotNil(s.T(), order)

	require.Len(s.T(), order.Items, 1)
	assert.Equal(s.T(), 3, order.Items[0].Quantity)
	assert.Equal(s.T(), 99.99, order.Items[0].UnitPrice)
	assert.InDelta(s.T(), 299.97, order.TotalAmount, 0.001)

	var after models.Product
	require.NoError(s.T(), s.db.First(&after, "id = ?", s.product.ID).Error)
	assert.Equal(s.T(), 7, after.Stock)

	var cartCount int64
	s.db.Model(&models.CartItem{}).Where("user_id = ?", s.user.ID).Count(&cartCount)
	assert.Zero(s.T(), cartCount)
}

func (s *CheckoutServiceTestSuite) TestCheckoutTotalMatchesItemSnapshots() {
	second := createTestProduct(s.T(), s.db, s.category, "Laptop", 1299.99, 15)

	_, err := s.carts.AddToCart(s.user.ID, s.product.ID, 2)
	require.NoError(s.T(), err)
	_, err = s.carts.AddToCart(s.user.ID, second.ID, 1)
	require.NoError(s.T(), err)

	order, err := s.checkout.Checkout(s.user.ID, "42 Elm Ave")
	require.NoError(s.T(), err)

	var itemTotal float64
	for i := range order.Items {
		itemTotal += order.Items[i].LineTotal()
	}
	assert.InDelta(s.T(), order.TotalAmount, itemTotal, 0.001)
	assert.InDelta(s.T(), 2*99.99+1299.99, order.TotalAmount, 0.001)
}

func (s *CheckoutServiceTestSuite) TestUnitPriceIsSnapshotNotLivePrice() {
	_, err := s.carts.AddToCart(s.user.ID, s.product.ID, 1)
	require.NoError(s.T(), err)

	order, err := s.checkout.Checkout(s.user.ID, "9 Oak Rd")
	require.NoError(s.T(), err)

	// A later price edit must not change the recorded order
	require.NoError(s.T(), s.db.Model(&models.Product{}).
		Where("id = ?", s.product.ID).
		Update("price", 149.99).Error)

	var item models.OrderItem
	require.NoError(s.T(), s.db.First(&item, "order_id = ?", order.ID).Error)
	assert.Equal(s.T(), 99.99, item.UnitPrice)
}

func (s *CheckoutServiceTestSuite) TestInsufficientStockRollsBackEverything() {
	_, err := s.carts.AddToCart(s.user.ID, s.product.ID, 5)
	require.NoError(s.T(), err)

	// Stock shrinks after the cart was populated
	require.NoError(s.T(), s.db.Model(&models.Product{}).
		Where("id = ?", s.product.ID).
		Update("stock", 2).Error)

	_, err = s.checkout.Checkout(s.user.ID, "123 Main St")
	require.Error(s.T(), err)

	var stockErr *InsufficientStockError
	require.ErrorAs(s.T(), err, &stockErr)
	assert.Equal(s.T(), "Wireless Headphones", stockErr.ProductName)
	assert.Equal(s.T(), 2, stockErr.Available)

	// No order, no order items, stock untouched, cart intact
	var orderCount, itemCount, cartCount int64
	s.db.Model(&models.Order{}).Count(&orderCount)
	s.db.Model(&models.OrderItem{}).Count(&itemCount)
	s.db.Model(&models.CartItem{}).Where("user_id = ?", s.user.ID).Count(&cartCount)
	assert.Zero(s.T(), orderCount)
	assert.Zero(s.T(), itemCount)
	assert.Equal(s.T(), int64(1), cartCount)

	var product models.Product
	require.NoError(s.T(), s.db.First(&product, "id = ?", s.product.ID).Error)
	assert.Equal(s.T(), 2, product.Stock)
}

func (s *CheckoutServiceTestSuite) TestPartialFailureRollsBackEarlierItems() {
	scarce := createTestProduct(s.T(), s.db, s.category, "Smartphone", 699.99, 1)

	_, err := s.carts.AddToCart(s.user.ID, s.product.ID, 2)
	require.NoError(s.T(), err)
	_, err = s.carts.AddToCart(s.user.ID, scarce.ID, 1)
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.db.Model(&models.Product{}).
		Where("id = ?", scarce.ID).
		Update("stock", 0).Error)

	_, err = s.checkout.Checkout(s.user.ID, "123 Main St")
	var stockErr *InsufficientStockError
	require.ErrorAs(s.T(), err, &stockErr)
	assert.Equal(s.T(), "Smartphone", stockErr.ProductName)

	// The first item's decrement must have been rolled back too
	var headphones models.Product
	require.NoError(s.T(), s.db.First(&headphones, "id = ?", s.product.ID).Error)
	assert.Equal(s.T(), 10, headphones.Stock)

	var orderCount int64
	s.db.Model(&models.Order{}).Count(&orderCount)
	assert.Zero(s.T(), orderCount)
}

func (s *CheckoutServiceTestSuite) TestEmptyCartRejected() {
	_, err := s.checkout.Checkout(s.user.ID, "123 Main St")
	assert.ErrorIs(s.T(), err, ErrCartEmpty)

	var orderCount int64
	s.db.Model(&models.Order{}).Count(&orderCount)
	assert.Zero(s.T(), orderCount)
}

func (s *CheckoutServiceTestSuite) TestMissingAddressRejected() {
	_, err := s.carts.AddToCart(s.user.ID, s.product.ID, 1)
	require.NoError(s.T(), err)

	_, err = s.checkout.Checkout(s.user.ID, "   ")
	assert.ErrorIs(s.T(), err, ErrMissingAddress)

	var orderCount int64
	s.db.Model(&models.Order{}).Count(&orderCount)
	assert.Zero(s.T(), orderCount)
}

func (s *CheckoutServiceTestSuite) TestListOrdersNewestFirst() {
	for i := 0; i < 2; i++ {
		_, err := s.carts.AddToCart(s.user.ID, s.product.ID, 1)
		require.NoError(s.T(), err)
		_, err = s.checkout.Checkout(s.user.ID, "123 Main St")
		require.NoError(s.T(), err)
	}

	orders, err := s.checkout.ListOrders(s.user.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), orders, 2)
	assert.False(s.T(), orders[0].CreatedAt.Before(orders[1].CreatedAt))
}

func (s *CheckoutServiceTestSuite) TestGetOrderEnforcesOwnership() {
	_, err := s.carts.AddToCart(s.user.ID, s.product.ID, 1)
	require.NoError(s.T(), err)
	order, err := s.checkout.Checkout(s.user.ID, "123 Main St")
	require.NoError(s.T(), err)

	stranger := createTestUser(s.T(), s.db, "stranger", false)
	_, err = s.checkout.GetOrder(stranger.ID, order.ID)
	assert.ErrorIs(s.T(), err, ErrNotOwner)

	got, err := s.checkout.GetOrder(s.user.ID, order.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), order.ID, got.ID)
}

func TestCheckoutServiceSuite(t *testing.T) {
	suite.Run(t, new(CheckoutServiceTestSuite))
}

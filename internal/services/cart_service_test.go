// internal/services/cart_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/mercato/mercato-backend/internal/models"
)

type CartServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	carts    *CartService
	user     *models.User
	product  *models.Product
	category *models.Category
}

func (s *CartServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.carts = NewCartService(s.db)
	s.user = createTestUser(s.T(), s.db, "shopper", false)
	s.category = createTestCategory(s.T(), s.db, "Books")
	s.product = createTestProduct(s.T(), s.db, s.category, "Programming Guide", 29.99, 10)
}

func (s *CartServiceTestSuite) cartRows() []models.CartItem {
	var rows []models.CartItem
	require.NoError(s.T(), s.db.Where("user_id = ?", s.user.ID).Find(&rows).Error)
	return rows
}

func (s *CartServiceTestSuite) TestAddCreatesRow() {
	item, err := s.carts.AddToCart(s.user.ID, s.product.ID, 3)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 3, item.Quantity)

	rows := s.cartRows()
	require.Len(s.T(), rows, 1)
	assert.Equal(s.T(), 3, rows[0].Quantity)
}

func (s *CartServiceTestSuite) TestAddMergesIntoSingleRow() {
	_, err := s.carts.AddToCart(s.user.ID, s.product.ID, 3)
	require.NoError(s.T(), err)
	_, err = s.carts.AddToCart(s.user.ID, s.product.ID, 4)
	require.NoError(s.T(), err)

	rows := s.cartRows()
	require.Len(s.T(), rows, 1)
	assert.Equal(s.T(), 7, rows[0].Quantity)
}

func (s *CartServiceTestSuite) TestAddRejectsQuantityOverStock() {
	_, err := s.carts.AddToCart(s.user.ID, s.product.ID, 11)
	var stockErr *InsufficientStockError
	require.ErrorAs(s.T(), err, &stockErr)
	assert.Equal(s.T(), "Programming Guide", stockErr.ProductName)
	assert.Equal(s.T(), 10, stockErr.Available)
	assert.Empty(s.T(), s.cartRows())
}

func (s *CartServiceTestSuite) TestMergeRejectsWhenSumExceedsStock() {
	_, err := s.carts.AddToCart(s.user.ID, s.product.ID, 7)
	require.NoError(s.T(), err)

	_, err = s.carts.AddToCart(s.user.ID, s.product.ID, 4)
	var stockErr *InsufficientStockError
	require.ErrorAs(s.T(), err, &stockErr)

	// Existing row left as it was
	rows := s.cartRows()
	require.Len(s.T(), rows, 1)
	assert.Equal(s.T(), 7, rows[0].Quantity)
}

func (s *CartServiceTestSuite) TestAddDoesNotTouchStock() {
	_, err := s.carts.AddToCart(s.user.ID, s.product.ID, 3)
	require.NoError(s.T(), err)

	var product models.Product
	require.NoError(s.T(), s.db.First(&product, "id = ?", s.product.ID).Error)
	assert.Equal(s.T(), 10, product.Stock)
}

func (s *CartServiceTestSuite) TestAddRejectsInactiveProduct() {
	require.NoError(s.T(), s.db.Model(&models.Product{}).
		Where("id = ?", s.product.ID).
		Update("is_active", false).Error)

	_, err := s.carts.AddToCart(s.user.ID, s.product.ID, 1)
	assert.ErrorContains(s.T(), err, "not found")
}

func (s *CartServiceTestSuite) TestUpdateSetsQuantity() {
	item, err := s.carts.AddToCart(s.user.ID, s.product.ID, 3)
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.carts.UpdateCartItem(s.user.ID, item.ID, 5))

	rows := s.cartRows()
	require.Len(s.T(), rows, 1)
	assert.Equal(s.T(), 5, rows[0].Quantity)
}

func (s *CartServiceTestSuite) TestUpdateToZeroRemovesRow() {
	item, err := s.carts.AddToCart(s.user.ID, s.product.ID, 3)
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.carts.UpdateCartItem(s.user.ID, item.ID, 0))
	assert.Empty(s.T(), s.cartRows())
}

func (s *CartServiceTestSuite) TestUpdateRejectsQuantityOverStock() {
	item, err := s.carts.AddToCart(s.user.ID, s.product.ID, 3)
	require.NoError(s.T(), err)

	err = s.carts.UpdateCartItem(s.user.ID, item.ID, 11)
	var stockErr *InsufficientStockError
	require.ErrorAs(s.T(), err, &stockErr)

	rows := s.cartRows()
	require.Len(s.T(), rows, 1)
	assert.Equal(s.T(), 3, rows[0].Quantity)
}

func (s *CartServiceTestSuite) TestUpdateEnforcesOwnership() {
	item, err := s.carts.AddToCart(s.user.ID, s.product.ID, 3)
	require.NoError(s.T(), err)

	stranger := createTestUser(s.T(), s.db, "stranger", false)
	err = s.carts.UpdateCartItem(stranger.ID, item.ID, 1)
	assert.ErrorIs(s.T(), err, ErrNotOwner)

	rows := s.cartRows()
	require.Len(s.T(), rows, 1)
	assert.Equal(s.T(), 3, rows[0].Quantity)
}

func (s *CartServiceTestSuite) TestRemoveEnforcesOwnership() {
	item, err := s.carts.AddToCart(s.user.ID, s.product.ID, 3)
	require.NoError(s.T(), err)

	stranger := createTestUser(s.T(), s.db, "stranger", false)
	assert.ErrorIs(s.T(), s.carts.RemoveCartItem(stranger.ID, item.ID), ErrNotOwner)
	require.Len(s.T(), s.cartRows(), 1)

	require.NoError(s.T(), s.carts.RemoveCartItem(s.user.ID, item.ID))
	assert.Empty(s.T(), s.cartRows())
}

func (s *CartServiceTestSuite) TestViewCartTotals() {
	second := createTestProduct(s.T(), s.db, s.category, "Classic T-Shirt", 19.99, 100)

	_, err := s.carts.AddToCart(s.user.ID, s.product.ID, 2)
	require.NoError(s.T(), err)
	_, err = s.carts.AddToCart(s.user.ID, second.ID, 1)
	require.NoError(s.T(), err)

	items, total, err := s.carts.ViewCart(s.user.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), items, 2)
	assert.InDelta(s.T(), 2*29.99+19.99, total, 0.001)
}

func TestCartServiceSuite(t *testing.T) {
	suite.Run(t, new(CartServiceTestSuite))
}

// internal/services/admin_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/mercato/mercato-backend/internal/models"
	"github.com/mercato/mercato-backend/internal/utils"
)

type AdminServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	admin    *AdminService
	category *models.Category
}

func (s *AdminServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.admin = NewAdminService(s.db)
	s.category = createTestCategory(s.T(), s.db, "Electronics")
}

func (s *AdminServiceTestSuite) TestCreateProduct() {
	product, err := s.admin.CreateProduct(&CreateProductRequest{
		Name:       "Smartphone",
		Price:      699.99,
		Stock:      30,
		CategoryID: s.category.ID,
		ImageURL:   "https://example.com/phone.jpg",
	})
	require.NoError(s.T(), err)
	assert.NotEqual(s.T(), uuid.Nil, product.ID)
	assert.True(s.T(), product.IsActive)
	require.NotNil(s.T(), product.Category)
	assert.Equal(s.T(), "Electronics", product.Category.Name)
}

func (s *AdminServiceTestSuite) TestCreateProductRejectsBadPrice() {
	_, err := s.admin.CreateProduct(&CreateProductRequest{
		Name:       "Freebie",
		Price:      0,
		Stock:      1,
		CategoryID: s.category.ID,
	})
	assert.ErrorContains(s.T(), err, "validation failed")
}

func (s *AdminServiceTestSuite) TestCreateProductRejectsUnknownCategory() {
	_, err := s.admin.CreateProduct(&CreateProductRequest{
		Name:       "Orphan",
		Price:      9.99,
		Stock:      1,
		CategoryID: uuid.New(),
	})
	assert.ErrorContains(s.T(), err, "category not found")
}

func (s *AdminServiceTestSuite) TestUpdateProductSetsStockExplicitly() {
	product := createTestProduct(s.T(), s.db, s.category, "Smartphone", 699.99, 30)

	stock := 0
	updated, err := s.admin.UpdateProduct(product.ID, &UpdateProductRequest{Stock: &stock})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 0, updated.Stock)
	assert.Equal(s.T(), "Smartphone", updated.Name)
	assert.Equal(s.T(), 699.99, updated.Price)
}

func (s *AdminServiceTestSuite) TestUpdateProductRejectsUnknownCategory() {
	product := createTestProduct(s.T(), s.db, s.category, "Smartphone", 699.99, 30)

	bogus := uuid.New()
	_, err := s.admin.UpdateProduct(product.ID, &UpdateProductRequest{CategoryID: &bogus})
	assert.ErrorContains(s.T(), err, "category not found")
}

func (s *AdminServiceTestSuite) TestUpdateProductCanDeactivate() {
	product := createTestProduct(s.T(), s.db, s.category, "Smartphone", 699.99, 30)

	inactive := false
	updated, err := s.admin.UpdateProduct(product.ID, &UpdateProductRequest{IsActive: &inactive})
	require.NoError(s.T(), err)
	assert.False(s.T(), updated.IsActive)

	// The storefront no longer sees it
	catalog := NewCatalogService(s.db)
	_, _, err = catalog.GetProduct(product.ID)
	assert.ErrorContains(s.T(), err, "not found")
}

func (s *AdminServiceTestSuite) TestAttachProductImagePromotesFirstToPrimary() {
	product, err := s.admin.CreateProduct(&CreateProductRequest{
		Name:       "Smartphone",
		Price:      699.99,
		Stock:      30,
		CategoryID: s.category.ID,
	})
	require.NoError(s.T(), err)
	require.Empty(s.T(), product.ImageURL)

	withImage, err := s.admin.AttachProductImage(product.ID, "https://cdn.example.com/a.jpg")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "https://cdn.example.com/a.jpg", withImage.ImageURL)
	require.Len(s.T(), withImage.Images, 1)

	withSecond, err := s.admin.AttachProductImage(product.ID, "https://cdn.example.com/b.jpg")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "https://cdn.example.com/a.jpg", withSecond.ImageURL)
	assert.Len(s.T(), withSecond.Images, 2)
}

func (s *AdminServiceTestSuite) TestCategoryCRUD() {
	created, err := s.admin.CreateCategory(&CategoryRequest{
		Name:        "Books",
		Description: "Paper and ink",
	})
	require.NoError(s.T(), err)

	updated, err := s.admin.UpdateCategory(created.ID, &CategoryRequest{
		Name:        "Books & Media",
		Description: "Paper, ink, pixels",
	})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Books & Media", updated.Name)

	categories, err := s.admin.ListCategories()
	require.NoError(s.T(), err)
	assert.Len(s.T(), categories, 2)
}

func (s *AdminServiceTestSuite) TestCategoryNameTooShortRejected() {
	_, err := s.admin.CreateCategory(&CategoryRequest{Name: "X"})
	assert.ErrorContains(s.T(), err, "validation failed")
}

func (s *AdminServiceTestSuite) TestListProductsIncludesInactive() {
	createTestProduct(s.T(), s.db, s.category, "Smartphone", 699.99, 30)
	hidden := createTestProduct(s.T(), s.db, s.category, "Discontinued", 49.99, 0)
	require.NoError(s.T(), s.db.Model(hidden).Update("is_active", false).Error)

	products, total, err := s.admin.ListProducts(utils.PaginationParams{Page: 1, Limit: utils.AdminPageSize})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(2), total)
	assert.Len(s.T(), products, 2)
}

func (s *AdminServiceTestSuite) TestDashboardStats() {
	user := createTestUser(s.T(), s.db, "shopper", false)
	product := createTestProduct(s.T(), s.db, s.category, "Smartphone", 699.99, 30)

	cart := NewCartService(s.db)
	_, err := cart.AddToCart(user.ID, product.ID, 1)
	require.NoError(s.T(), err)
	checkout := NewCheckoutService(s.db)
	_, err = checkout.Checkout(user.ID, "1 Main St")
	require.NoError(s.T(), err)

	stats, err := s.admin.GetDashboardStats()
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(1), stats.TotalProducts)
	assert.Equal(s.T(), int64(1), stats.TotalOrders)
	assert.Equal(s.T(), int64(1), stats.TotalUsers)
	require.Len(s.T(), stats.RecentOrders, 1)
	assert.Equal(s.T(), user.ID, stats.RecentOrders[0].UserID)
}

func TestAdminServiceSuite(t *testing.T) {
	suite.Run(t, new(AdminServiceTestSuite))
}

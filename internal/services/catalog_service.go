// internal/services/catalog_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mercato/mercato-backend/internal/models"
	"github.com/mercato/mercato-backend/internal/utils"
)

// CatalogService is the read-only storefront view of the catalog: only
// active products, no write side effects.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

const (
	featuredProductLimit = 8
	relatedProductLimit  = 4
)

func (s *CatalogService) ListProducts(params utils.PaginationParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{}).
		Preload("Category").
		Where("is_active = ?", true)

	if params.Category != "" {
		categoryID, err := uuid.Parse(params.Category)
		if err != nil {
			return nil, 0, errors.New("invalid category")
		}
		query = query.Where("category_id = ?", categoryID)
	}

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var products []models.Product
	if err := utils.ApplyPagination(query.Order("created_at DESC"), params).Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

// GetProduct returns the product plus up to four related products from the
// same category.
func (s *CatalogService) GetProduct(id uuid.UUID) (*models.Product, []models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Category").Where("is_active = ?", true).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errors.New("product not found")
		}
		return nil, nil, fmt.Errorf("database error: %w", err)
	}

	var related []models.Product
	if err := s.db.
		Where("category_id = ? AND id <> ? AND is_active = ?", product.CategoryID, product.ID, true).
		Limit(relatedProductLimit).
		Find(&related).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to fetch related products: %w", err)
	}

	return &product, related, nil
}

// FeaturedProducts backs the homepage.
func (s *CatalogService) FeaturedProducts() ([]models.Product, error) {
	var products []models.Product
	if err := s.db.
		Where("is_active = ?", true).
		Order("created_at DESC").
		Limit(featuredProductLimit).
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch featured products: %w", err)
	}
	return products, nil
}

func (s *CatalogService) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

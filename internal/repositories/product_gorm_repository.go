package repositories

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"techmart/internal/apperrors"
	"techmart/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{db: db}
}

// List retrieves active products matching the filter along with the total
// match count for pagination.
func (r *GORMProductRepository) List(filter ProductFilter) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{}).Where("products.is_active = ?", true)

	if filter.CategorySlug != "" {
		query = query.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("products.name LIKE ? OR products.description LIKE ? OR products.brand LIKE ?", like, like, like)
	}
	if filter.MinPrice != nil {
		query = query.Where("products.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("products.price <= ?", *filter.MaxPrice)
	}
	if filter.Brand != "" {
		query = query.Where("products.brand LIKE ?", "%"+filter.Brand+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	switch filter.SortBy {
	case "popularity":
		query = query.Order("products.view_count DESC, products.rating DESC")
	case "rating":
		query = query.Order("products.rating DESC, products.review_count DESC")
	case "price_asc":
		query = query.Order("products.price ASC")
	case "price_desc":
		query = query.Order("products.price DESC")
	default:
		query = query.Order("products.created_at DESC")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 12
	}

	var products []models.Product
	err := query.Preload("Category").
		Limit(limit).Offset((page - 1) * limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

// ListFeatured retrieves the best-rated featured products.
func (r *GORMProductRepository) ListFeatured(limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Preload("Category").
		Where("is_featured = ? AND is_active = ?", true, true).
		Order("rating DESC, view_count DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list featured products: %w", err)
	}
	return products, nil
}

// ListSimilar retrieves other active products from the same category.
func (r *GORMProductRepository) ListSimilar(categoryID, excludeProductID uint, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("category_id = ? AND id != ? AND is_active = ?", categoryID, excludeProductID, true).
		Order("rating DESC, view_count DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list similar products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// GetBySlug retrieves a single active product by its slug.
func (r *GORMProductRepository) GetBySlug(slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("Category").
		First(&product, "slug = ? AND is_active = ?", slug, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product %s not found", slug)
		}
		return nil, fmt.Errorf("failed to get product by slug %s: %w", slug, err)
	}
	return &product, nil
}

// Create inserts a new product.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update saves all fields of an existing product.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Save(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("product with ID %d not found for update", product.ID)
	}
	return nil
}

// Delete removes a product by its ID.
func (r *GORMProductRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("product with ID %d not found for deletion", id)
	}
	return nil
}

// IncrementViewCount bumps the product's view counter in place.
func (r *GORMProductRepository) IncrementViewCount(id uint) error {
	err := r.db.Model(&models.Product{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
	if err != nil {
		return fmt.Errorf("failed to increment view count for product %d: %w", id, err)
	}
	return nil
}

// ListCategories retrieves active categories with their active product counts.
func (r *GORMProductRepository) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Model(&models.Category{}).
		Select("categories.*, COUNT(products.id) AS product_count").
		Joins("LEFT JOIN products ON products.category_id = categories.id AND products.is_active = ?", true).
		Where("categories.is_active = ?", true).
		Group("categories.id").
		Order("categories.sort_order, categories.name").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// TouchRecentlyViewed upserts the (user, product) row and bumps viewed_at.
func (r *GORMProductRepository) TouchRecentlyViewed(userID, productID uint) error {
	entry := models.RecentlyViewed{UserID: userID, ProductID: productID, ViewedAt: time.Now()}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"viewed_at": time.Now()}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to touch recently viewed for user %d: %w", userID, err)
	}
	return nil
}

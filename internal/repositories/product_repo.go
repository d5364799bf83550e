package repositories

import "techmart/internal/models"

// ProductFilter narrows and orders a catalog listing.
type ProductFilter struct {
	Page         int
	Limit        int
	CategorySlug string
	Search       string
	MinPrice     *float64
	MaxPrice     *float64
	Brand        string
	SortBy       string // created_at, popularity, rating, price_asc, price_desc
}

// ProductRepository defines the interface for catalog data access.
type ProductRepository interface {
	List(filter ProductFilter) ([]models.Product, int64, error)
	ListFeatured(limit int) ([]models.Product, error)
	ListSimilar(categoryID, excludeProductID uint, limit int) ([]models.Product, error)
	GetByID(id uint) (*models.Product, error)
	GetBySlug(slug string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
	IncrementViewCount(id uint) error
	ListCategories() ([]models.Category, error)
	TouchRecentlyViewed(userID, productID uint) error
}

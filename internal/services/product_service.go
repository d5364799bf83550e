package services

import (
	"log"

	"techmart/internal/models"
	"techmart/internal/repositories"
)

// ProductService handles business logic for catalog browsing.
type ProductService struct {
	productRepo  repositories.ProductRepository
	reviewRepo   repositories.ReviewRepository
	favoriteRepo repositories.FavoriteRepository
}

// NewProductService creates a new ProductService.
func NewProductService(productRepo repositories.ProductRepository, reviewRepo repositories.ReviewRepository, favoriteRepo repositories.FavoriteRepository) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		reviewRepo:   reviewRepo,
		favoriteRepo: favoriteRepo,
	}
}

// ProductPage is one page of catalog results.
type ProductPage struct {
	Products      []models.Product `json:"products"`
	CurrentPage   int              `json:"currentPage"`
	TotalPages    int              `json:"totalPages"`
	TotalProducts int64            `json:"totalProducts"`
	HasNext       bool             `json:"hasNext"`
	HasPrev       bool             `json:"hasPrev"`
}

// ListProducts returns a filtered, sorted catalog page with discount
// percentages computed.
func (s *ProductService) ListProducts(filter repositories.ProductFilter) (*ProductPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 12
	}

	products, total, err := s.productRepo.List(filter)
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].ComputeDiscountPercentage()
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ProductPage{
		Products:      products,
		CurrentPage:   filter.Page,
		TotalPages:    totalPages,
		TotalProducts: total,
		HasNext:       filter.Page < totalPages,
		HasPrev:       filter.Page > 1,
	}, nil
}

// ProductDetail is a product page: the product itself, its latest reviews,
// similar products and, for a signed-in viewer, the favorite flag.
type ProductDetail struct {
	Product         models.Product   `json:"product"`
	IsFavorite      bool             `json:"isFavorite"`
	Reviews         []ReviewView     `json:"reviews"`
	SimilarProducts []models.Product `json:"similarProducts"`
}

// GetProductDetail looks a product up by slug, bumps its view counter and,
// when viewerID is non-zero, records the view and resolves the favorite
// flag. viewerID zero means an anonymous visitor.
func (s *ProductService) GetProductDetail(slug string, viewerID uint) (*ProductDetail, error) {
	product, err := s.productRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.IncrementViewCount(product.ID); err != nil {
		log.Printf("Failed to increment view count for product %d: %v", product.ID, err)
	}

	detail := &ProductDetail{}
	if viewerID != 0 {
		if err := s.productRepo.TouchRecentlyViewed(viewerID, product.ID); err != nil {
			log.Printf("Failed to record recently viewed for user %d: %v", viewerID, err)
		}
		isFavorite, err := s.favoriteRepo.Exists(viewerID, product.ID)
		if err != nil {
			return nil, err
		}
		detail.IsFavorite = isFavorite
	}

	reviews, _, err := s.reviewRepo.ListByProduct(product.ID, 1, 5)
	if err != nil {
		return nil, err
	}
	detail.Reviews = make([]ReviewView, 0, len(reviews))
	for _, review := range reviews {
		detail.Reviews = append(detail.Reviews, newReviewView(review))
	}

	similar, err := s.productRepo.ListSimilar(product.CategoryID, product.ID, 6)
	if err != nil {
		return nil, err
	}
	for i := range similar {
		similar[i].ComputeDiscountPercentage()
	}
	detail.SimilarProducts = similar

	product.ComputeDiscountPercentage()
	detail.Product = *product
	return detail, nil
}

// ListFeatured returns the featured-product strip for the storefront.
func (s *ProductService) ListFeatured() ([]models.Product, error) {
	products, err := s.productRepo.ListFeatured(8)
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].ComputeDiscountPercentage()
	}
	return products, nil
}

// ListCategories returns active categories with product counts.
func (s *ProductService) ListCategories() ([]models.Category, error) {
	return s.productRepo.ListCategories()
}

// CreateProduct adds a catalog item.
func (s *ProductService) CreateProduct(product *models.Product) error {
	return s.productRepo.Create(product)
}

// UpdateProduct saves catalog edits. The derived aggregates (rating, review
// count, view count) are never authored through edits; whatever the caller
// sent for them is discarded in favor of the stored values.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	existing, err := s.productRepo.GetByID(product.ID)
	if err != nil {
		return err
	}
	product.Rating = existing.Rating
	product.ReviewCount = existing.ReviewCount
	product.ViewCount = existing.ViewCount
	product.CreatedAt = existing.CreatedAt
	return s.productRepo.Update(product)
}

// DeleteProduct removes a catalog item.
func (s *ProductService) DeleteProduct(id uint) error {
	return s.productRepo.Delete(id)
}

package repositories

import (
	"sort"
	"strings"
	"sync"
	"time"

	"techmart/internal/apperrors"
	"techmart/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository
// used by unit tests.
type MockProductRepository struct {
	products   map[uint]models.Product
	categories map[uint]models.Category
	nextID     uint
	mu         sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products:   make(map[uint]models.Product),
		categories: make(map[uint]models.Category),
		nextID:     1,
	}
}

// List returns active products; only the search and pagination parts of the
// filter are emulated, which is all the unit tests need.
func (r *MockProductRepository) List(filter ProductFilter) ([]models.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.Product
	for _, p := range r.products {
		if !p.IsActive {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 12
	}
	start := (page - 1) * limit
	if start >= len(matched) {
		return []models.Product{}, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// ListFeatured returns active featured products.
func (r *MockProductRepository) ListFeatured(limit int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var featured []models.Product
	for _, p := range r.products {
		if p.IsFeatured && p.IsActive {
			featured = append(featured, p)
		}
	}
	sort.Slice(featured, func(i, j int) bool {
		return featured[i].Rating > featured[j].Rating
	})
	if len(featured) > limit {
		featured = featured[:limit]
	}
	return featured, nil
}

// ListSimilar returns other active products from the same category.
func (r *MockProductRepository) ListSimilar(categoryID, excludeProductID uint, limit int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var similar []models.Product
	for _, p := range r.products {
		if p.CategoryID == categoryID && p.ID != excludeProductID && p.IsActive {
			similar = append(similar, p)
		}
	}
	if len(similar) > limit {
		similar = similar[:limit]
	}
	return similar, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, apperrors.NotFound("product with ID %d not found", id)
	}
	return &product, nil
}

// GetBySlug returns an active product by its slug.
func (r *MockProductRepository) GetBySlug(slug string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.Slug == slug && p.IsActive {
			product := p
			return &product, nil
		}
	}
	return nil, apperrors.NotFound("product %s not found", slug)
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == 0 {
		product.ID = r.nextID
		r.nextID++
	} else if product.ID >= r.nextID {
		r.nextID = product.ID + 1
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return apperrors.NotFound("product with ID %d not found for update", product.ID)
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return apperrors.NotFound("product with ID %d not found for deletion", id)
	}
	delete(r.products, id)
	return nil
}

// IncrementViewCount bumps the product's view counter.
func (r *MockProductRepository) IncrementViewCount(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return apperrors.NotFound("product with ID %d not found", id)
	}
	product.ViewCount++
	r.products[id] = product
	return nil
}

// ListCategories returns all stored categories.
func (r *MockProductRepository) ListCategories() ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := make([]models.Category, 0, len(r.categories))
	for _, c := range r.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].SortOrder < categories[j].SortOrder
	})
	return categories, nil
}

// AddCategory seeds a category for tests.
func (r *MockProductRepository) AddCategory(category models.Category) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories[category.ID] = category
}

// TouchRecentlyViewed is a no-op in the mock.
func (r *MockProductRepository) TouchRecentlyViewed(userID, productID uint) error {
	return nil
}

// decrementStockIfAvailable emulates the conditional stock update used by
// the order repository; it reports false when stock does not cover qty.
func (r *MockProductRepository) decrementStockIfAvailable(productID uint, qty int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[productID]
	if !ok || product.Stock < qty {
		return false
	}
	product.Stock -= qty
	r.products[productID] = product
	return true
}

// restoreStock undoes decrements from a failed mock placement.
func (r *MockProductRepository) restoreStock(productID uint, qty int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product, ok := r.products[productID]; ok {
		product.Stock += qty
		r.products[productID] = product
	}
}

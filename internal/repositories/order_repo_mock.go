package repositories

import (
	"sort"
	"sync"
	"time"

	"techmart/internal/apperrors"
	"techmart/internal/models"
)

// MockOrderRepository is an in-memory implementation of OrderRepository used
// by unit tests. It emulates the placement transaction against the mock
// product and cart repositories: conditional stock decrements, rollback on a
// short line, and the cart clear on success.
type MockOrderRepository struct {
	orders   map[uint]models.Order
	nextID   uint
	products *MockProductRepository
	carts    *MockCartRepository
	mu       sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository(products *MockProductRepository, carts *MockCartRepository) *MockOrderRepository {
	return &MockOrderRepository{
		orders:   make(map[uint]models.Order),
		nextID:   1,
		products: products,
		carts:    carts,
	}
}

// Place emulates the atomic checkout: either every line's stock is taken and
// the order is stored with the cart cleared, or nothing changes.
func (r *MockOrderRepository) Place(order *models.Order) error {
	var taken []models.OrderItem
	for _, item := range order.Items {
		if !r.products.decrementStockIfAvailable(item.ProductID, item.Quantity) {
			for _, t := range taken {
				r.products.restoreStock(t.ProductID, t.Quantity)
			}
			return apperrors.InsufficientStock("insufficient stock for %s", item.ProductName)
		}
		taken = append(taken, item)
	}

	r.mu.Lock()
	order.ID = r.nextID
	r.nextID++
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	r.orders[order.ID] = *order
	r.mu.Unlock()

	if r.carts != nil {
		r.carts.clear(order.UserID)
	}
	return nil
}

// ListByUser returns the user's most recent orders.
func (r *MockOrderRepository) ListByUser(userID uint, limit int) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Order, 0)
	for _, order := range r.orders {
		if order.UserID == userID {
			result = append(result, order)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id uint) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, apperrors.NotFound("order with ID %d not found", id)
	}
	return &order, nil
}

// UpdateStatus moves an order between statuses with the same conditional
// semantics as the GORM implementation.
func (r *MockOrderRepository) UpdateStatus(id uint, from, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return apperrors.NotFound("order with ID %d not found", id)
	}
	if order.Status != from {
		return apperrors.InvalidTransition("order %d is no longer %s", id, from)
	}
	order.Status = to
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

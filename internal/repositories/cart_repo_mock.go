package repositories

import (
	"sort"
	"sync"
	"time"

	"techmart/internal/models"
)

// MockCartRepository is an in-memory implementation of CartRepository used
// by unit tests. Products are resolved against the given product repository
// so ListByUser can preload them the way the GORM implementation does.
type MockCartRepository struct {
	entries  map[uint]models.CartEntry
	nextID   uint
	products *MockProductRepository
	mu       sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository(products *MockProductRepository) *MockCartRepository {
	return &MockCartRepository{
		entries:  make(map[uint]models.CartEntry),
		nextID:   1,
		products: products,
	}
}

// ListByUser returns the user's entries newest first with products attached.
func (r *MockCartRepository) ListByUser(userID uint) ([]models.CartEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.CartEntry, 0)
	for _, entry := range r.entries {
		if entry.UserID != userID {
			continue
		}
		if r.products != nil {
			if product, err := r.products.GetByID(entry.ProductID); err == nil {
				entry.Product = product
			}
		}
		result = append(result, entry)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].AddedAt.After(result[j].AddedAt)
	})
	return result, nil
}

// AddOrIncrement inserts or sums onto the (user, product) entry.
func (r *MockCartRepository) AddOrIncrement(userID, productID uint, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, entry := range r.entries {
		if entry.UserID == userID && entry.ProductID == productID {
			entry.Quantity += qty
			entry.UpdatedAt = time.Now()
			r.entries[id] = entry
			return nil
		}
	}
	entry := models.CartEntry{
		ID:        r.nextID,
		UserID:    userID,
		ProductID: productID,
		Quantity:  qty,
		AddedAt:   time.Now(),
		UpdatedAt: time.Now(),
	}
	r.nextID++
	r.entries[entry.ID] = entry
	return nil
}

// Remove deletes the user's entry; unknown or foreign entries are a no-op.
func (r *MockCartRepository) Remove(userID, entryID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.entries[entryID]; ok && entry.UserID == userID {
		delete(r.entries, entryID)
	}
	return nil
}

// ReplaceAll swaps the user's cart for the given entries.
func (r *MockCartRepository) ReplaceAll(userID uint, entries []models.CartEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clearLocked(userID)
	for _, entry := range entries {
		entry.ID = r.nextID
		entry.UserID = userID
		entry.AddedAt = time.Now()
		entry.UpdatedAt = time.Now()
		r.nextID++
		r.entries[entry.ID] = entry
	}
	return nil
}

// clear removes every entry of the user (mock counterpart of the cart clear
// inside the order placement transaction).
func (r *MockCartRepository) clear(userID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearLocked(userID)
}

func (r *MockCartRepository) clearLocked(userID uint) {
	for id, entry := range r.entries {
		if entry.UserID == userID {
			delete(r.entries, id)
		}
	}
}

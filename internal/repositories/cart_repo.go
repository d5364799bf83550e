package repositories

import "techmart/internal/models"

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	// ListByUser returns the user's cart entries with products preloaded,
	// newest first.
	ListByUser(userID uint) ([]models.CartEntry, error)
	// AddOrIncrement inserts a (user, product) entry or adds qty to the
	// existing one.
	AddOrIncrement(userID, productID uint, qty int) error
	// Remove deletes the entry scoped to the user. Removing an entry that
	// does not exist or belongs to someone else is a no-op.
	Remove(userID, entryID uint) error
	// ReplaceAll atomically swaps the user's cart for the given entries.
	ReplaceAll(userID uint, entries []models.CartEntry) error
}

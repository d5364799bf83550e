package repositories

import "techmart/internal/models"

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// Place commits a checkout as one atomic unit: every line's stock is
	// decremented only while it still covers the quantity, the order and its
	// items are inserted, and the user's cart is cleared. If any line is
	// short, the whole placement fails with an InsufficientStock error and
	// nothing is written.
	Place(order *models.Order) error
	ListByUser(userID uint, limit int) ([]models.Order, error)
	GetByID(id uint) (*models.Order, error)
	// UpdateStatus moves the order from one status to another. The update is
	// conditional on the current status so concurrent transitions cannot
	// both win.
	UpdateStatus(id uint, from, to string) error
}

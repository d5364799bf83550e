package repositories

import "techmart/internal/models"

// FavoriteRepository defines the interface for favorite data access.
type FavoriteRepository interface {
	// Toggle flips the (user, product) membership and reports the resulting
	// state: true when the product is now favorited.
	Toggle(userID, productID uint) (bool, error)
	// Exists reports whether the user has favorited the product.
	Exists(userID, productID uint) (bool, error)
	// ListByUser returns the user's favorites newest first with active
	// products preloaded.
	ListByUser(userID uint) ([]models.Favorite, error)
}

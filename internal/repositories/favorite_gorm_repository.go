package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"techmart/internal/models"
)

// GORMFavoriteRepository is a GORM implementation of FavoriteRepository.
type GORMFavoriteRepository struct {
	db *gorm.DB
}

// NewGORMFavoriteRepository creates a new instance of GORMFavoriteRepository.
func NewGORMFavoriteRepository(db *gorm.DB) *GORMFavoriteRepository {
	return &GORMFavoriteRepository{db: db}
}

// Toggle removes the favorite when it exists and inserts it otherwise.
// Check-then-act is fine here: the unique index keeps duplicate inserts out
// and membership is idempotent either way.
func (r *GORMFavoriteRepository) Toggle(userID, productID uint) (bool, error) {
	var favorite models.Favorite
	err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&favorite).Error
	switch {
	case err == nil:
		if err := r.db.Delete(&favorite).Error; err != nil {
			return false, fmt.Errorf("failed to remove favorite: %w", err)
		}
		return false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		favorite = models.Favorite{UserID: userID, ProductID: productID}
		if err := r.db.Create(&favorite).Error; err != nil {
			return false, fmt.Errorf("failed to add favorite: %w", err)
		}
		return true, nil
	default:
		return false, fmt.Errorf("failed to look up favorite: %w", err)
	}
}

// Exists reports whether the user has favorited the product.
func (r *GORMFavoriteRepository) Exists(userID, productID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Favorite{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return count > 0, nil
}

// ListByUser returns favorites with active products, newest first.
func (r *GORMFavoriteRepository) ListByUser(userID uint) ([]models.Favorite, error) {
	var favorites []models.Favorite
	err := r.db.Preload("Product", "is_active = ?", true).Preload("Product.Category").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites for user %d: %w", userID, err)
	}
	return favorites, nil
}

package repositories

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"techmart/internal/models"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

// ListByUser returns the user's cart entries with products preloaded.
func (r *GORMCartRepository) ListByUser(userID uint) ([]models.CartEntry, error) {
	var entries []models.CartEntry
	err := r.db.Preload("Product").
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cart entries for user %d: %w", userID, err)
	}
	return entries, nil
}

// AddOrIncrement upserts the (user, product) entry. The summation happens in
// the database so concurrent adds compose instead of overwriting each other.
func (r *GORMCartRepository) AddOrIncrement(userID, productID uint, qty int) error {
	entry := models.CartEntry{UserID: userID, ProductID: productID, Quantity: qty}
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_entries.quantity + excluded.quantity"),
			"updated_at": time.Now(),
		}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to add cart entry for user %d: %w", userID, err)
	}
	return nil
}

// Remove deletes the entry scoped to the user; deletion is idempotent.
func (r *GORMCartRepository) Remove(userID, entryID uint) error {
	err := r.db.Where("id = ? AND user_id = ?", entryID, userID).
		Delete(&models.CartEntry{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove cart entry %d: %w", entryID, err)
	}
	return nil
}

// ReplaceAll swaps the user's cart for the given entries in one transaction.
func (r *GORMCartRepository) ReplaceAll(userID uint, entries []models.CartEntry) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.CartEntry{}).Error; err != nil {
			return err
		}
		for i := range entries {
			entries[i].ID = 0
			entries[i].UserID = userID
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.Create(&entries).Error
	})
	if err != nil {
		return fmt.Errorf("failed to replace cart for user %d: %w", userID, err)
	}
	return nil
}

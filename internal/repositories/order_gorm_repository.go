package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"techmart/internal/apperrors"
	"techmart/internal/models"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// Place runs the whole checkout in one transaction. Stock is taken with a
// conditional decrement ("stock = stock - q WHERE stock >= q") so two
// concurrent checkouts cannot oversell the same product.
func (r *GORMOrderRepository) Place(order *models.Order) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return fmt.Errorf("failed to decrement stock for product %d: %w", item.ProductID, res.Error)
			}
			if res.RowsAffected == 0 {
				return apperrors.InsufficientStock("insufficient stock for %s", item.ProductName)
			}
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		if err := tx.Where("user_id = ?", order.UserID).Delete(&models.CartEntry{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart for user %d: %w", order.UserID, err)
		}
		return nil
	})
}

// ListByUser returns the user's most recent orders with items preloaded.
func (r *GORMOrderRepository) ListByUser(userID uint, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for user %d: %w", userID, err)
	}
	return orders, nil
}

// GetByID returns an order with its items.
func (r *GORMOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to get order by ID %d: %w", id, err)
	}
	return &order, nil
}

// UpdateStatus performs a conditional status update; zero affected rows
// means the order moved out of `from` concurrently.
func (r *GORMOrderRepository) UpdateStatus(id uint, from, to string) error {
	res := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return fmt.Errorf("failed to update status of order %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.InvalidTransition("order %d is no longer %s", id, from)
	}
	return nil
}

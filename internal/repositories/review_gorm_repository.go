package repositories

import (
	"errors"
	"fmt"
	"math"

	"gorm.io/gorm"

	"techmart/internal/apperrors"
	"techmart/internal/models"
)

// GORMReviewRepository is a GORM implementation of ReviewRepository.
type GORMReviewRepository struct {
	db *gorm.DB
}

// NewGORMReviewRepository creates a new instance of GORMReviewRepository.
func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{db: db}
}

// Create inserts the review and recomputes the product aggregate inside one
// transaction, so no reader observes a review without its effect on the
// product's rating.
func (r *GORMReviewRepository) Create(review *models.Review) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.Review{}).
			Where("product_id = ? AND user_id = ?", review.ProductID, review.UserID).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check for existing review: %w", err)
		}
		if count > 0 {
			return apperrors.Conflict("you have already reviewed this product")
		}

		if err := tx.Create(review).Error; err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}
		return recomputeProductRating(tx, review.ProductID)
	})
}

// recomputeProductRating sets the product's rating and review count to the
// exact aggregate of its approved reviews.
func recomputeProductRating(tx *gorm.DB, productID uint) error {
	var agg struct {
		AvgRating   float64
		ReviewCount int64
	}
	err := tx.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg_rating, COUNT(*) AS review_count").
		Where("product_id = ? AND is_approved = ?", productID, true).
		Scan(&agg).Error
	if err != nil {
		return fmt.Errorf("failed to aggregate reviews for product %d: %w", productID, err)
	}

	rating := math.Round(agg.AvgRating*100) / 100
	err = tx.Model(&models.Product{}).Where("id = ?", productID).
		Updates(map[string]interface{}{
			"rating":       rating,
			"review_count": agg.ReviewCount,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update aggregate rating for product %d: %w", productID, err)
	}
	return nil
}

// ListByProduct returns approved reviews newest first with their authors.
func (r *GORMReviewRepository) ListByProduct(productID uint, page, limit int) ([]models.Review, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 5
	}

	query := r.db.Model(&models.Review{}).
		Where("product_id = ? AND is_approved = ?", productID, true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews for product %d: %w", productID, err)
	}

	var reviews []models.Review
	err := query.Preload("User").
		Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews for product %d: %w", productID, err)
	}
	return reviews, total, nil
}

// RatingHistogram counts approved reviews per star value.
func (r *GORMReviewRepository) RatingHistogram(productID uint) (map[int]int64, error) {
	var rows []struct {
		Rating int
		Count  int64
	}
	err := r.db.Model(&models.Review{}).
		Select("rating, COUNT(*) AS count").
		Where("product_id = ? AND is_approved = ?", productID, true).
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to build rating histogram for product %d: %w", productID, err)
	}

	histogram := make(map[int]int64, 5)
	for star := 1; star <= 5; star++ {
		histogram[star] = 0
	}
	for _, row := range rows {
		histogram[row.Rating] = row.Count
	}
	return histogram, nil
}

// GetByID retrieves a single review.
func (r *GORMReviewRepository) GetByID(id uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("review with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to get review by ID %d: %w", id, err)
	}
	return &review, nil
}

// ToggleVote inserts, retracts or flips the user's vote and persists the
// recomputed tallies, all in one transaction.
func (r *GORMReviewRepository) ToggleVote(reviewID, userID uint, isHelpful bool) (VoteTally, error) {
	var tally VoteTally
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.ReviewVote
		err := tx.Where("review_id = ? AND user_id = ?", reviewID, userID).First(&existing).Error
		switch {
		case err == nil && existing.IsHelpful == isHelpful:
			// Same vote again retracts it.
			if err := tx.Delete(&existing).Error; err != nil {
				return fmt.Errorf("failed to retract vote: %w", err)
			}
		case err == nil:
			if err := tx.Model(&existing).Update("is_helpful", isHelpful).Error; err != nil {
				return fmt.Errorf("failed to flip vote: %w", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := models.ReviewVote{ReviewID: reviewID, UserID: userID, IsHelpful: isHelpful}
			if err := tx.Create(&vote).Error; err != nil {
				return fmt.Errorf("failed to create vote: %w", err)
			}
		default:
			return fmt.Errorf("failed to look up existing vote: %w", err)
		}

		var counts []struct {
			IsHelpful bool
			Count     int
		}
		err = tx.Model(&models.ReviewVote{}).
			Select("is_helpful, COUNT(*) AS count").
			Where("review_id = ?", reviewID).
			Group("is_helpful").
			Scan(&counts).Error
		if err != nil {
			return fmt.Errorf("failed to count votes for review %d: %w", reviewID, err)
		}
		tally = VoteTally{}
		for _, c := range counts {
			if c.IsHelpful {
				tally.HelpfulCount = c.Count
			} else {
				tally.NotHelpfulCount = c.Count
			}
		}

		err = tx.Model(&models.Review{}).Where("id = ?", reviewID).
			Updates(map[string]interface{}{
				"helpful_count":     tally.HelpfulCount,
				"not_helpful_count": tally.NotHelpfulCount,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to persist vote tallies for review %d: %w", reviewID, err)
		}
		return nil
	})
	if err != nil {
		return VoteTally{}, err
	}
	return tally, nil
}

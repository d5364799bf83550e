package repositories

import "techmart/internal/models"

// VoteTally is the exact helpful / not-helpful split of a review's votes.
type VoteTally struct {
	HelpfulCount    int
	NotHelpfulCount int
}

// ReviewRepository defines the interface for review and vote data access.
type ReviewRepository interface {
	// Create inserts the review and, in the same transaction, recomputes the
	// product's aggregate rating (2 decimals) and review count from all
	// approved reviews. A second review by the same user for the same
	// product fails with a Conflict error.
	Create(review *models.Review) error
	// ListByProduct returns approved reviews newest first, authors
	// preloaded, plus the total approved count.
	ListByProduct(productID uint, page, limit int) ([]models.Review, int64, error)
	// RatingHistogram returns the count of approved reviews per star value,
	// independent of pagination.
	RatingHistogram(productID uint) (map[int]int64, error)
	GetByID(id uint) (*models.Review, error)
	// ToggleVote applies the toggle semantics (insert / retract / flip) and
	// persists the recomputed tallies on the review, all in one transaction.
	ToggleVote(reviewID, userID uint, isHelpful bool) (VoteTally, error)
}

package services

import (
	"fmt"
	"strings"
	"time"

	"techmart/internal/apperrors"
	"techmart/internal/models"
	"techmart/internal/repositories"
)

// ReviewService handles business logic for product reviews and votes.
type ReviewService struct {
	reviewRepo  repositories.ReviewRepository
	productRepo repositories.ProductRepository
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviewRepo repositories.ReviewRepository, productRepo repositories.ProductRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

// SubmitReview validates and stores a review. Reviews are auto-approved, so
// the product aggregate is recomputed in the same transaction as the insert.
func (s *ReviewService) SubmitReview(userID, productID uint, rating int, title, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.Validation("rating must be between 1 and 5")
	}
	if strings.TrimSpace(comment) == "" {
		return nil, apperrors.Validation("comment is required")
	}

	if _, err := s.productRepo.GetByID(productID); err != nil {
		return nil, err
	}

	review := &models.Review{
		ProductID:  productID,
		UserID:     userID,
		Rating:     rating,
		Title:      title,
		Comment:    comment,
		IsApproved: true,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}

// ReviewView is a review annotated for display: masked author name and a
// relative time string.
type ReviewView struct {
	ID                 uint      `json:"id"`
	Rating             int       `json:"rating"`
	Title              string    `json:"title,omitempty"`
	Comment            string    `json:"comment"`
	HelpfulCount       int       `json:"helpfulCount"`
	NotHelpfulCount    int       `json:"notHelpfulCount"`
	IsVerifiedPurchase bool      `json:"isVerifiedPurchase"`
	UserName           string    `json:"userName"`
	TimeAgo            string    `json:"timeAgo"`
	CreatedAt          time.Time `json:"createdAt"`
}

// ReviewPage is one page of a product's reviews plus the page-independent
// rating histogram.
type ReviewPage struct {
	Reviews         []ReviewView  `json:"reviews"`
	CurrentPage     int           `json:"currentPage"`
	TotalPages      int           `json:"totalPages"`
	TotalReviews    int64         `json:"totalReviews"`
	RatingHistogram map[int]int64 `json:"ratingHistogram"`
}

// ListReviews returns approved reviews newest first with display
// annotations, pagination metadata and the star histogram.
func (s *ReviewService) ListReviews(productID uint, page, limit int) (*ReviewPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 5
	}

	reviews, total, err := s.reviewRepo.ListByProduct(productID, page, limit)
	if err != nil {
		return nil, err
	}
	histogram, err := s.reviewRepo.RatingHistogram(productID)
	if err != nil {
		return nil, err
	}

	views := make([]ReviewView, 0, len(reviews))
	for _, review := range reviews {
		views = append(views, newReviewView(review))
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ReviewPage{
		Reviews:         views,
		CurrentPage:     page,
		TotalPages:      totalPages,
		TotalReviews:    total,
		RatingHistogram: histogram,
	}, nil
}

// VoteReview toggles the user's helpful vote on a review and returns the
// exact tallies after the toggle.
func (s *ReviewService) VoteReview(userID, reviewID uint, isHelpful bool) (repositories.VoteTally, error) {
	if _, err := s.reviewRepo.GetByID(reviewID); err != nil {
		return repositories.VoteTally{}, err
	}
	return s.reviewRepo.ToggleVote(reviewID, userID, isHelpful)
}

func newReviewView(review models.Review) ReviewView {
	userName := "Anonymous"
	if review.User != nil {
		userName = maskReviewerName(review.User.FirstName, review.User.LastName)
	}
	return ReviewView{
		ID:                 review.ID,
		Rating:             review.Rating,
		Title:              review.Title,
		Comment:            review.Comment,
		HelpfulCount:       review.HelpfulCount,
		NotHelpfulCount:    review.NotHelpfulCount,
		IsVerifiedPurchase: review.IsVerifiedPurchase,
		UserName:           userName,
		TimeAgo:            timeAgo(review.CreatedAt),
		CreatedAt:          review.CreatedAt,
	}
}

// maskReviewerName keeps the first name and reduces the last name to an
// initial, e.g. "Jane D.".
func maskReviewerName(firstName, lastName string) string {
	if firstName == "" || lastName == "" {
		return "Anonymous"
	}
	return fmt.Sprintf("%s %s.", firstName, string([]rune(lastName)[0]))
}

// timeAgo renders a coarse human-relative age for review timestamps.
func timeAgo(t time.Time) string {
	seconds := int64(time.Since(t).Seconds())
	switch {
	case seconds < 60:
		return "just now"
	case seconds < 3600:
		return fmt.Sprintf("%d minutes ago", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%d hours ago", seconds/3600)
	case seconds < 2592000:
		return fmt.Sprintf("%d days ago", seconds/86400)
	case seconds < 31536000:
		return fmt.Sprintf("%d months ago", seconds/2592000)
	default:
		return fmt.Sprintf("%d years ago", seconds/31536000)
	}
}

package services_test

import (
	"testing"
	"time"

	"techmart/internal/apperrors"
	"techmart/internal/models"
	"techmart/internal/repositories"
	"techmart/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockReviewRepository is a mock implementation of repositories.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(review *models.Review) error {
	args := m.Called(review)
	return args.Error(0)
}

func (m *MockReviewRepository) ListByProduct(productID uint, page, limit int) ([]models.Review, int64, error) {
	args := m.Called(productID, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Review), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewRepository) RatingHistogram(productID uint) (map[int]int64, error) {
	args := m.Called(productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]int64), args.Error(1)
}

func (m *MockReviewRepository) GetByID(id uint) (*models.Review, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) ToggleVote(reviewID, userID uint, isHelpful bool) (repositories.VoteTally, error) {
	args := m.Called(reviewID, userID, isHelpful)
	return args.Get(0).(repositories.VoteTally), args.Error(1)
}

func newReviewFixture(t *testing.T) (*services.ReviewService, *MockReviewRepository, *repositories.MockProductRepository) {
	t.Helper()
	reviewRepo := new(MockReviewRepository)
	productRepo := repositories.NewMockProductRepository()
	return services.NewReviewService(reviewRepo, productRepo), reviewRepo, productRepo
}

func TestReviewService_SubmitReview(t *testing.T) {
	reviewService, reviewRepo, productRepo := newReviewFixture(t)

	product := &models.Product{Name: "Keyboard", Slug: "keyboard", Price: 75.00, Stock: 25, IsActive: true}
	assert.NoError(t, productRepo.Create(product))

	reviewRepo.On("Create", mock.AnythingOfType("*models.Review")).Run(func(args mock.Arguments) {
		r := args.Get(0).(*models.Review)
		r.ID = 1
	}).Return(nil).Once()

	review, err := reviewService.SubmitReview(1, product.ID, 5, "Great", "Types like a dream.")
	assert.NoError(t, err)
	assert.True(t, review.IsApproved)
	assert.Equal(t, 5, review.Rating)
	reviewRepo.AssertExpectations(t)
}

func TestReviewService_SubmitReview_Validation(t *testing.T) {
	reviewService, reviewRepo, productRepo := newReviewFixture(t)

	product := &models.Product{Name: "Keyboard", Slug: "keyboard", Price: 75.00, Stock: 25, IsActive: true}
	assert.NoError(t, productRepo.Create(product))

	_, err := reviewService.SubmitReview(1, product.ID, 0, "", "Fine.")
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
	_, err = reviewService.SubmitReview(1, product.ID, 6, "", "Fine.")
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	_, err = reviewService.SubmitReview(1, product.ID, 4, "", "   ")
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
	assert.Contains(t, err.Error(), "comment is required")

	_, err = reviewService.SubmitReview(1, 999, 4, "", "Fine.")
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

	// A second review for the same product surfaces the repository conflict.
	reviewRepo.On("Create", mock.AnythingOfType("*models.Review")).
		Return(apperrors.Conflict("you have already reviewed this product")).Once()
	_, err = reviewService.SubmitReview(1, product.ID, 4, "", "Fine.")
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
	reviewRepo.AssertExpectations(t)
}

func TestReviewService_ListReviews(t *testing.T) {
	reviewService, reviewRepo, _ := newReviewFixture(t)

	reviews := []models.Review{
		{
			ID: 1, ProductID: 3, UserID: 1, Rating: 5, Comment: "Excellent",
			HelpfulCount: 2, CreatedAt: time.Now().Add(-30 * time.Second),
			User: &models.User{FirstName: "Jane", LastName: "Doe"},
		},
		{
			ID: 2, ProductID: 3, UserID: 2, Rating: 3, Comment: "Okay",
			CreatedAt: time.Now().Add(-2 * time.Hour),
		},
	}
	reviewRepo.On("ListByProduct", uint(3), 1, 5).Return(reviews, int64(12), nil).Once()
	reviewRepo.On("RatingHistogram", uint(3)).Return(map[int]int64{1: 0, 2: 0, 3: 4, 4: 3, 5: 5}, nil).Once()

	page, err := reviewService.ListReviews(3, 0, 0)
	assert.NoError(t, err)
	assert.Len(t, page.Reviews, 2)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, int64(12), page.TotalReviews)
	assert.Equal(t, int64(5), page.RatingHistogram[5])

	// Author names are masked, missing authors fall back to Anonymous.
	assert.Equal(t, "Jane D.", page.Reviews[0].UserName)
	assert.Equal(t, "Anonymous", page.Reviews[1].UserName)
	assert.Equal(t, "just now", page.Reviews[0].TimeAgo)
	assert.Equal(t, "2 hours ago", page.Reviews[1].TimeAgo)
	reviewRepo.AssertExpectations(t)
}

func TestReviewService_VoteReview(t *testing.T) {
	reviewService, reviewRepo, _ := newReviewFixture(t)

	// Voting on a missing review fails without touching the votes.
	reviewRepo.On("GetByID", uint(9)).Return(nil, apperrors.NotFound("review with ID 9 not found")).Once()
	_, err := reviewService.VoteReview(1, 9, true)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

	reviewRepo.On("GetByID", uint(4)).Return(&models.Review{ID: 4, ProductID: 3}, nil).Once()
	reviewRepo.On("ToggleVote", uint(4), uint(1), true).
		Return(repositories.VoteTally{HelpfulCount: 3, NotHelpfulCount: 1}, nil).Once()

	tally, err := reviewService.VoteReview(1, 4, true)
	assert.NoError(t, err)
	assert.Equal(t, 3, tally.HelpfulCount)
	assert.Equal(t, 1, tally.NotHelpfulCount)
	reviewRepo.AssertExpectations(t)
}

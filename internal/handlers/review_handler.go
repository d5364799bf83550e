package handlers

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"techmart/internal/middleware"
	"techmart/internal/services"
)

// ReviewHandler handles HTTP requests for product reviews and votes.
type ReviewHandler struct {
	reviewService *services.ReviewService
	authService   *services.AuthService
	validate      *validator.Validate
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService *services.ReviewService, authService *services.AuthService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		authService:   authService,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the review routes. Reading reviews is public,
// writing a review or voting requires a token.
func (h *ReviewHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/products/:productId/reviews", h.HandleListReviews)
	router.Post("/products/:productId/reviews", middleware.AuthRequired(h.authService), h.HandleSubmitReview)
	router.Post("/reviews/:reviewId/vote", middleware.AuthRequired(h.authService), h.HandleVoteReview)
}

// SubmitReviewRequest is the request body for posting a review.
type SubmitReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Title   string `json:"title"`
	Comment string `json:"comment" validate:"required"`
}

// HandleSubmitReview creates a review for a product.
func (h *ReviewHandler) HandleSubmitReview(c *fiber.Ctx) error {
	productID, err := strconv.ParseUint(c.Params("productId"), 10, 32)
	if err != nil {
		return badRequest(c, "invalid product id")
	}

	var req SubmitReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return failValidation(c, err)
	}

	review, err := h.reviewService.SubmitReview(middleware.UserID(c), uint(productID), req.Rating, req.Title, req.Comment)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "review submitted successfully",
		"review":  review,
	})
}

// HandleListReviews returns a page of reviews for a product along with
// its rating histogram.
func (h *ReviewHandler) HandleListReviews(c *fiber.Ctx) error {
	productID, err := strconv.ParseUint(c.Params("productId"), 10, 32)
	if err != nil {
		return badRequest(c, "invalid product id")
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	result, err := h.reviewService.ListReviews(uint(productID), page, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":         true,
		"reviews":         result.Reviews,
		"currentPage":     result.CurrentPage,
		"totalPages":      result.TotalPages,
		"totalReviews":    result.TotalReviews,
		"ratingHistogram": result.RatingHistogram,
	})
}

// VoteReviewRequest is the request body for a helpfulness vote.
type VoteReviewRequest struct {
	IsHelpful *bool `json:"isHelpful" validate:"required"`
}

// HandleVoteReview toggles the caller's helpfulness vote on a review.
func (h *ReviewHandler) HandleVoteReview(c *fiber.Ctx) error {
	reviewID, err := strconv.ParseUint(c.Params("reviewId"), 10, 32)
	if err != nil {
		return badRequest(c, "invalid review id")
	}

	var req VoteReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return failValidation(c, err)
	}

	tally, err := h.reviewService.VoteReview(middleware.UserID(c), uint(reviewID), *req.IsHelpful)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":         true,
		"helpfulCount":    tally.HelpfulCount,
		"notHelpfulCount": tally.NotHelpfulCount,
	})
}

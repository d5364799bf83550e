package handlers

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"techmart/internal/middleware"
	"techmart/internal/services"
)

// CartHandler handles HTTP requests for the shopping cart.
type CartHandler struct {
	cartService *services.CartService
	authService *services.AuthService
	validate    *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cartService *services.CartService, authService *services.AuthService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the cart routes; all of them require a token.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart", middleware.AuthRequired(h.authService))
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/sync", h.HandleSyncCart)
	cartRoutes.Post("/:productId", h.HandleAddItem)
	cartRoutes.Delete("/:id", h.HandleRemoveItem)
}

// AddItemRequest is the request body for adding a product to the cart.
type AddItemRequest struct {
	Quantity int `json:"quantity" validate:"omitempty,gte=1"`
}

// HandleAddItem adds a product to the caller's cart, summing quantities on
// repeat adds.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	productID, err := strconv.ParseUint(c.Params("productId"), 10, 32)
	if err != nil {
		return badRequest(c, "invalid product id")
	}

	req := AddItemRequest{Quantity: 1}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if err := h.validate.Struct(req); err != nil {
		return failValidation(c, err)
	}

	if err := h.cartService.AddItem(middleware.UserID(c), uint(productID), req.Quantity); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "product added to cart",
	})
}

// HandleGetCart returns the caller's cart as a live view with the current
// catalog prices and the computed total.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	view, err := h.cartService.GetCart(middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":     true,
		"items":       view.Items,
		"totalAmount": view.TotalAmount,
	})
}

// HandleRemoveItem deletes one cart entry; removing an unknown entry still
// succeeds.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	entryID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return badRequest(c, "invalid cart entry id")
	}

	if err := h.cartService.RemoveItem(middleware.UserID(c), uint(entryID)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "product removed from cart",
	})
}

// SyncCartRequest is the request body for a full cart replacement.
type SyncCartRequest struct {
	Items []services.SyncItem `json:"items" validate:"dive"`
}

// HandleSyncCart replaces the caller's whole cart in one atomic step.
func (h *CartHandler) HandleSyncCart(c *fiber.Ctx) error {
	var req SyncCartRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return failValidation(c, err)
	}

	if err := h.cartService.SyncCart(middleware.UserID(c), req.Items); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "cart synchronized",
	})
}

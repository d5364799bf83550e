package handlers

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"techmart/internal/middleware"
	"techmart/internal/services"
)

// OrderHandler handles HTTP requests for checkout and order lifecycle.
type OrderHandler struct {
	orderService *services.OrderService
	authService  *services.AuthService
	validate     *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *services.OrderService, authService *services.AuthService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		authService:  authService,
		validate:     validator.New(),
	}
}

// RegisterRoutes registers the order routes; all of them require a token.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders", middleware.AuthRequired(h.authService))
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/", h.HandleListOrders)
	orderRoutes.Get("/:id", h.HandleGetOrder)
	orderRoutes.Put("/:id/status", h.HandleUpdateOrderStatus)
}

// HandleCreateOrder checks the caller's cart out into an order.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var contact services.ContactInfo
	if err := c.BodyParser(&contact); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(contact); err != nil {
		return failValidation(c, err)
	}

	order, err := h.orderService.CreateOrder(middleware.UserID(c), contact)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "order placed successfully",
		"order":   order,
	})
}

// HandleListOrders returns the caller's most recent orders.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	orders, err := h.orderService.ListOrders(middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"orders":  orders,
	})
}

// HandleGetOrder returns one of the caller's orders.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	orderID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return badRequest(c, "invalid order id")
	}

	order, err := h.orderService.GetOrder(middleware.UserID(c), uint(orderID))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"order":   order,
	})
}

// UpdateOrderStatusRequest is the request body for a status transition.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleUpdateOrderStatus moves an order through the pending ->
// completed/cancelled state machine.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return badRequest(c, "invalid order id")
	}

	var req UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return failValidation(c, err)
	}

	order, err := h.orderService.UpdateOrderStatus(uint(orderID), req.Status)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "order status updated",
		"order":   order,
	})
}

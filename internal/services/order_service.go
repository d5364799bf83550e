package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"techmart/internal/apperrors"
	"techmart/internal/models"
	"techmart/internal/repositories"
	"techmart/pkg/rabbitmq"
)

// OrderService handles business logic for checkout and order lifecycle.
type OrderService struct {
	orderRepo repositories.OrderRepository
	cartRepo  repositories.CartRepository
	mqClient  *rabbitmq.Client
}

// NewOrderService creates a new OrderService. mqClient may be nil, in which
// case order events are not published.
func NewOrderService(orderRepo repositories.OrderRepository, cartRepo repositories.CartRepository, mqClient *rabbitmq.Client) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		mqClient:  mqClient,
	}
}

// ContactInfo is the customer contact snapshot stored on an order.
type ContactInfo struct {
	Name  string `json:"customerName" validate:"required,max=200"`
	Email string `json:"customerEmail" validate:"required,email"`
	Phone string `json:"customerPhone" validate:"omitempty,min=10"`
}

// CreateOrder converts the user's cart into an immutable order: one frozen
// OrderItem per cart line, total at current prices, conditional stock
// decrements and the cart clear all committed atomically by the repository.
func (s *OrderService) CreateOrder(userID uint, contact ContactInfo) (*models.Order, error) {
	entries, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	var items []models.OrderItem
	var total float64
	for _, entry := range entries {
		if entry.Product == nil {
			continue
		}
		items = append(items, models.OrderItem{
			ProductID:    entry.ProductID,
			ProductName:  entry.Product.Name,
			ProductPrice: entry.Product.Price,
			Quantity:     entry.Quantity,
		})
		total += float64(entry.Quantity) * entry.Product.Price
	}
	if len(items) == 0 {
		return nil, apperrors.Validation("cart is empty")
	}

	order := &models.Order{
		UserID:        userID,
		OrderNumber:   generateOrderNumber(),
		CustomerName:  contact.Name,
		CustomerEmail: contact.Email,
		CustomerPhone: contact.Phone,
		TotalAmount:   total,
		Status:        models.OrderStatusPending,
		Items:         items,
	}

	if err := s.orderRepo.Place(order); err != nil {
		return nil, err
	}

	s.publishOrderCreated(order)
	return order, nil
}

// publishOrderCreated emits an order.created event; failures are logged and
// never fail the checkout.
func (s *OrderService) publishOrderCreated(order *models.Order) {
	if s.mqClient == nil {
		return
	}

	body, err := json.Marshal(map[string]interface{}{
		"orderId":     order.ID,
		"orderNumber": order.OrderNumber,
		"userId":      order.UserID,
		"status":      order.Status,
		"total":       order.TotalAmount,
	})
	if err != nil {
		log.Printf("Failed to marshal order %d event: %v", order.ID, err)
		return
	}
	if err := s.mqClient.Publish("", rabbitmq.OrderQueue, body); err != nil {
		log.Printf("Warning: failed to publish order created event for order %d: %v", order.ID, err)
	}
}

// ListOrders returns the user's most recent orders.
func (s *OrderService) ListOrders(userID uint) ([]models.Order, error) {
	return s.orderRepo.ListByUser(userID, 20)
}

// GetOrder returns one of the user's orders. Someone else's order is
// indistinguishable from a missing one.
func (s *OrderService) GetOrder(userID, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, apperrors.NotFound("order with ID %d not found", orderID)
	}
	return order, nil
}

// UpdateOrderStatus applies the one-way state machine: an order only ever
// moves from pending to completed or cancelled. Cancelling restores no
// stock.
func (s *OrderService) UpdateOrderStatus(orderID uint, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, apperrors.Validation("invalid order status: %s", status)
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPending || status == models.OrderStatusPending {
		return nil, apperrors.InvalidTransition("cannot move order from %s to %s", order.Status, status)
	}

	if err := s.orderRepo.UpdateStatus(orderID, models.OrderStatusPending, status); err != nil {
		return nil, err
	}
	order.Status = status
	return order, nil
}

// generateOrderNumber builds a human-readable unique-ish order number from
// the millisecond timestamp tail plus three random digits, e.g. TM123456789.
func generateOrderNumber() string {
	ts := fmt.Sprintf("%d", time.Now().UnixMilli())
	return "TM" + ts[len(ts)-6:] + randomDigits(3)
}

package services

import (
	"fmt"

	"techmart/internal/apperrors"
	"techmart/internal/models"
	"techmart/internal/repositories"
)

// CartService handles business logic for shopping carts.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// CartLine is one cart entry joined with the current catalog state. Price is
// the live catalog price, not a frozen one; a placed order snapshots prices
// separately.
type CartLine struct {
	ID        uint    `json:"id"`
	ProductID uint    `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}

// CartView is the user's cart with a computed total.
type CartView struct {
	Items       []CartLine `json:"items"`
	TotalAmount float64    `json:"totalAmount"`
}

// AddItem puts qty of a product into the user's cart, summing onto an
// existing entry. Stock is only checked here, not reserved.
func (s *CartService) AddItem(userID, productID uint, qty int) error {
	if qty < 1 {
		return apperrors.Validation("quantity must be at least 1")
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product.Stock < qty {
		return apperrors.InsufficientStock("insufficient stock for %s", product.Name)
	}

	if err := s.cartRepo.AddOrIncrement(userID, productID, qty); err != nil {
		return fmt.Errorf("failed to add item to cart: %w", err)
	}
	return nil
}

// RemoveItem deletes the entry scoped to the user. Removing a missing or
// foreign entry succeeds silently; deletion is idempotent.
func (s *CartService) RemoveItem(userID, entryID uint) error {
	return s.cartRepo.Remove(userID, entryID)
}

// SyncItem is one (product, quantity) pair of a full cart replacement.
type SyncItem struct {
	ProductID uint `json:"productId" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,gte=1"`
}

// SyncCart replaces the user's whole cart with the given items in one atomic
// step. An empty list empties the cart.
func (s *CartService) SyncCart(userID uint, items []SyncItem) error {
	entries := make([]models.CartEntry, 0, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			return apperrors.Validation("quantity must be at least 1")
		}
		entries = append(entries, models.CartEntry{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return s.cartRepo.ReplaceAll(userID, entries)
}

// GetCart returns the live view of the user's cart: current product
// name/price/image per line plus the summed total.
func (s *CartService) GetCart(userID uint) (*CartView, error) {
	entries, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	view := &CartView{Items: make([]CartLine, 0, len(entries))}
	for _, entry := range entries {
		if entry.Product == nil {
			// Product vanished from the catalog since it was added.
			continue
		}
		subtotal := float64(entry.Quantity) * entry.Product.Price
		view.Items = append(view.Items, CartLine{
			ID:        entry.ID,
			ProductID: entry.ProductID,
			Name:      entry.Product.Name,
			Price:     entry.Product.Price,
			Image:     entry.Product.ImageURL,
			Quantity:  entry.Quantity,
			Subtotal:  subtotal,
		})
		view.TotalAmount += subtotal
	}
	return view, nil
}

package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"techmart/internal/middleware"
	"techmart/internal/services"
)

// FavoriteHandler handles HTTP requests for the user's favorites list.
type FavoriteHandler struct {
	favoriteService *services.FavoriteService
	authService     *services.AuthService
}

// NewFavoriteHandler creates a new FavoriteHandler.
func NewFavoriteHandler(favoriteService *services.FavoriteService, authService *services.AuthService) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favoriteService,
		authService:     authService,
	}
}

// RegisterRoutes registers the favorite routes; all of them require a token.
func (h *FavoriteHandler) RegisterRoutes(router fiber.Router) {
	favoriteRoutes := router.Group("/favorites", middleware.AuthRequired(h.authService))
	favoriteRoutes.Get("/", h.HandleListFavorites)
	favoriteRoutes.Post("/:productId", h.HandleToggleFavorite)
}

// HandleToggleFavorite flips the favorite mark on a product and reports
// the resulting state.
func (h *FavoriteHandler) HandleToggleFavorite(c *fiber.Ctx) error {
	productID, err := strconv.ParseUint(c.Params("productId"), 10, 32)
	if err != nil {
		return badRequest(c, "invalid product id")
	}

	isFavorite, err := h.favoriteService.ToggleFavorite(middleware.UserID(c), uint(productID))
	if err != nil {
		return fail(c, err)
	}

	message := "product removed from favorites"
	if isFavorite {
		message = "product added to favorites"
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"message":    message,
		"isFavorite": isFavorite,
	})
}

// HandleListFavorites returns the caller's favorited products.
func (h *FavoriteHandler) HandleListFavorites(c *fiber.Ctx) error {
	favorites, err := h.favoriteService.ListFavorites(middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"favorites": favorites,
	})
}

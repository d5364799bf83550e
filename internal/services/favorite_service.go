package services

import (
	"time"

	"techmart/internal/models"
	"techmart/internal/repositories"
)

// FavoriteService handles business logic for per-user product favorites.
type FavoriteService struct {
	favoriteRepo repositories.FavoriteRepository
	productRepo  repositories.ProductRepository
}

// NewFavoriteService creates a new FavoriteService.
func NewFavoriteService(favoriteRepo repositories.FavoriteRepository, productRepo repositories.ProductRepository) *FavoriteService {
	return &FavoriteService{
		favoriteRepo: favoriteRepo,
		productRepo:  productRepo,
	}
}

// ToggleFavorite flips the favorite state of (user, product) and reports the
// resulting state. Calling it twice always lands back where it started.
func (s *FavoriteService) ToggleFavorite(userID, productID uint) (bool, error) {
	if _, err := s.productRepo.GetByID(productID); err != nil {
		return false, err
	}
	return s.favoriteRepo.Toggle(userID, productID)
}

// FavoriteView is a favorited product with the time it was favorited.
type FavoriteView struct {
	Product     models.Product `json:"product"`
	FavoritedAt time.Time      `json:"favoritedAt"`
}

// ListFavorites returns the user's favorited products, newest first.
// Favorites whose product has gone inactive are skipped.
func (s *FavoriteService) ListFavorites(userID uint) ([]FavoriteView, error) {
	favorites, err := s.favoriteRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	views := make([]FavoriteView, 0, len(favorites))
	for _, favorite := range favorites {
		if favorite.Product == nil {
			continue
		}
		product := *favorite.Product
		product.ComputeDiscountPercentage()
		views = append(views, FavoriteView{
			Product:     product,
			FavoritedAt: favorite.CreatedAt,
		})
	}
	return views, nil
}

package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"techmart/internal/handlers"
	"techmart/internal/models"
	"techmart/internal/repositories"
	"techmart/internal/services"
)

// newTestApp wires the full stack against an in-memory SQLite database, one
// database per test so they cannot see each other's rows.
func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.CartEntry{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
		&models.ReviewVote{},
		&models.Favorite{},
		&models.RecentlyViewed{},
	))

	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	reviewRepo := repositories.NewGORMReviewRepository(db)
	favoriteRepo := repositories.NewGORMFavoriteRepository(db)

	authService := services.NewAuthService(userRepo, "test_jwt_secret")
	productService := services.NewProductService(productRepo, reviewRepo, favoriteRepo)
	cartService := services.NewCartService(cartRepo, productRepo)
	orderService := services.NewOrderService(orderRepo, cartRepo, nil)
	reviewService := services.NewReviewService(reviewRepo, productRepo)
	favoriteService := services.NewFavoriteService(favoriteRepo, productRepo)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService).RegisterRoutes(apiV1)
	handlers.NewProductHandler(productService, authService).RegisterRoutes(apiV1)
	handlers.NewCartHandler(cartService, authService).RegisterRoutes(apiV1)
	handlers.NewOrderHandler(orderService, authService).RegisterRoutes(apiV1)
	handlers.NewReviewHandler(reviewService, authService).RegisterRoutes(apiV1)
	handlers.NewFavoriteHandler(favoriteService, authService).RegisterRoutes(apiV1)

	return app, db
}

// doJSON performs a request against the app and decodes the JSON response.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	decoded := make(map[string]interface{})
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

// registerUser creates an account through the API and returns its token.
func registerUser(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email":     email,
		"password":  "password123",
		"firstName": "Jane",
		"lastName":  "Doe",
	})
	require.Equal(t, http.StatusCreated, status)
	token, ok := body["token"].(string)
	require.True(t, ok)
	return token
}

func seedProduct(t *testing.T, db *gorm.DB, product *models.Product) {
	t.Helper()
	require.NoError(t, db.Create(product).Error)
}

func TestAuthEndpoints(t *testing.T) {
	app, _ := newTestApp(t)

	// Protected routes reject anonymous callers.
	status, body := doJSON(t, app, http.MethodGet, "/api/v1/auth/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, false, body["success"])

	// Register
	status, body = doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email":     "jane@example.com",
		"password":  "password123",
		"firstName": "Jane",
		"lastName":  "Doe",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, true, body["success"])
	token := body["token"].(string)
	code := body["verificationCode"].(string)
	assert.Len(t, code, 6)

	// Registering the same email again conflicts.
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email":     "jane@example.com",
		"password":  "password123",
		"firstName": "Jane",
		"lastName":  "Doe",
	})
	assert.Equal(t, http.StatusConflict, status)

	// Verify email with the issued code.
	status, body = doJSON(t, app, http.MethodPost, "/api/v1/auth/verify-email", token, map[string]interface{}{
		"verificationCode": code,
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])

	// Login and read the profile.
	status, body = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    "jane@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, status)
	token = body["token"].(string)

	status, body = doJSON(t, app, http.MethodGet, "/api/v1/auth/profile", token, nil)
	assert.Equal(t, http.StatusOK, status)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "jane@example.com", user["email"])
	assert.Equal(t, true, user["isVerified"])

	// Wrong password gets the generic auth error.
	status, body = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    "jane@example.com",
		"password": "wrongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid email or password", body["error"])
}

func TestCartAndCheckoutFlow(t *testing.T) {
	app, db := newTestApp(t)
	token := registerUser(t, app, "shopper@example.com")

	keyboard := &models.Product{Name: "Keyboard", Slug: "keyboard", Price: 75.00, Stock: 25, IsActive: true}
	headset := &models.Product{Name: "Headset", Slug: "headset", Price: 100.00, Stock: 10, IsActive: true}
	seedProduct(t, db, keyboard)
	seedProduct(t, db, headset)

	// Add the keyboard twice; the cart merges onto one line.
	status, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/cart/%d", keyboard.ID), token, map[string]interface{}{"quantity": 1})
	require.Equal(t, http.StatusOK, status)
	status, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/cart/%d", keyboard.ID), token, map[string]interface{}{"quantity": 1})
	require.Equal(t, http.StatusOK, status)
	status, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/cart/%d", headset.ID), token, nil)
	require.Equal(t, http.StatusOK, status)

	status, body := doJSON(t, app, http.MethodGet, "/api/v1/cart", token, nil)
	require.Equal(t, http.StatusOK, status)
	items := body["items"].([]interface{})
	assert.Len(t, items, 2)
	assert.Equal(t, 250.00, body["totalAmount"])

	// Checkout
	status, body = doJSON(t, app, http.MethodPost, "/api/v1/orders", token, map[string]interface{}{
		"customerName":  "Jane Doe",
		"customerEmail": "shopper@example.com",
		"customerPhone": "5551234567",
	})
	require.Equal(t, http.StatusCreated, status)
	order := body["order"].(map[string]interface{})
	assert.Equal(t, 250.00, order["totalAmount"])
	assert.Equal(t, "pending", order["status"])
	orderID := uint(order["id"].(float64))

	// Stock was decremented and the cart cleared.
	var stored models.Product
	require.NoError(t, db.First(&stored, keyboard.ID).Error)
	assert.Equal(t, 23, stored.Stock)

	status, body = doJSON(t, app, http.MethodGet, "/api/v1/cart", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["items"])

	// Checking out the now-empty cart fails.
	status, body = doJSON(t, app, http.MethodPost, "/api/v1/orders", token, map[string]interface{}{
		"customerName":  "Jane Doe",
		"customerEmail": "shopper@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "cart is empty", body["error"])

	// A cart bigger than the stock fails atomically.
	status, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/cart/%d", headset.ID), token, map[string]interface{}{"quantity": 50})
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/cart/sync", token, map[string]interface{}{
		"items": []map[string]interface{}{{"productId": headset.ID, "quantity": 50}},
	})
	require.Equal(t, http.StatusOK, status)
	status, body = doJSON(t, app, http.MethodPost, "/api/v1/orders", token, map[string]interface{}{
		"customerName":  "Jane Doe",
		"customerEmail": "shopper@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "insufficient stock")
	// Fresh destination struct: reusing one keeps its old primary key in
	// the WHERE clause.
	var headsetRow models.Product
	require.NoError(t, db.First(&headsetRow, headset.ID).Error)
	assert.Equal(t, 9, headsetRow.Stock)

	// Order history and the status machine.
	status, body = doJSON(t, app, http.MethodGet, "/api/v1/orders", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["orders"].([]interface{}), 1)

	status, body = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/orders/%d/status", orderID), token, map[string]interface{}{"status": "completed"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "completed", body["order"].(map[string]interface{})["status"])

	status, _ = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/orders/%d/status", orderID), token, map[string]interface{}{"status": "cancelled"})
	assert.Equal(t, http.StatusConflict, status)

	// The order is invisible to another account.
	otherToken := registerUser(t, app, "other@example.com")
	status, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", orderID), otherToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestReviewEndpoints(t *testing.T) {
	app, db := newTestApp(t)
	token := registerUser(t, app, "reviewer@example.com")
	voterToken := registerUser(t, app, "voter@example.com")

	product := &models.Product{Name: "Headset", Slug: "headset", Price: 100.00, Stock: 10, IsActive: true}
	seedProduct(t, db, product)

	status, body := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/products/%d/reviews", product.ID), token, map[string]interface{}{
		"rating":  5,
		"title":   "Great",
		"comment": "Crisp highs, deep lows.",
	})
	require.Equal(t, http.StatusCreated, status)
	reviewID := uint(body["review"].(map[string]interface{})["id"].(float64))

	// The product aggregate moved with the insert.
	var stored models.Product
	require.NoError(t, db.First(&stored, product.ID).Error)
	assert.Equal(t, 5.0, stored.Rating)
	assert.Equal(t, 1, stored.ReviewCount)

	// A second review of the same product by the same user conflicts.
	status, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/products/%d/reviews", product.ID), token, map[string]interface{}{
		"rating":  1,
		"comment": "Changed my mind.",
	})
	assert.Equal(t, http.StatusConflict, status)

	// A second reviewer shifts the average.
	status, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/products/%d/reviews", product.ID), voterToken, map[string]interface{}{
		"rating":  4,
		"comment": "Solid, a bit heavy.",
	})
	require.Equal(t, http.StatusCreated, status)
	require.NoError(t, db.First(&stored, product.ID).Error)
	assert.Equal(t, 4.5, stored.Rating)
	assert.Equal(t, 2, stored.ReviewCount)

	// Reviews are public, names masked.
	status, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/products/%d/reviews", product.ID), "", nil)
	require.Equal(t, http.StatusOK, status)
	reviews := body["reviews"].([]interface{})
	assert.Len(t, reviews, 2)
	assert.Equal(t, "Jane D.", reviews[0].(map[string]interface{})["userName"])
	assert.Equal(t, float64(2), body["totalReviews"])

	// Vote, then toggle the same vote off.
	votePath := fmt.Sprintf("/api/v1/reviews/%d/vote", reviewID)
	status, body = doJSON(t, app, http.MethodPost, votePath, voterToken, map[string]interface{}{"isHelpful": true})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["helpfulCount"])

	status, body = doJSON(t, app, http.MethodPost, votePath, voterToken, map[string]interface{}{"isHelpful": true})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["helpfulCount"])

	// Flipping lands on the other side.
	status, body = doJSON(t, app, http.MethodPost, votePath, voterToken, map[string]interface{}{"isHelpful": false})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["notHelpfulCount"])
}

func TestFavoriteEndpoints(t *testing.T) {
	app, db := newTestApp(t)
	token := registerUser(t, app, "collector@example.com")

	product := &models.Product{Name: "Speaker", Slug: "speaker", Price: 150.00, Stock: 5, IsActive: true}
	seedProduct(t, db, product)

	path := fmt.Sprintf("/api/v1/favorites/%d", product.ID)
	status, body := doJSON(t, app, http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["isFavorite"])

	status, body = doJSON(t, app, http.MethodGet, "/api/v1/favorites", token, nil)
	require.Equal(t, http.StatusOK, status)
	favorites := body["favorites"].([]interface{})
	require.Len(t, favorites, 1)
	favProduct := favorites[0].(map[string]interface{})["product"].(map[string]interface{})
	assert.Equal(t, "Speaker", favProduct["name"])

	// Toggling again retracts.
	status, body = doJSON(t, app, http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["isFavorite"])

	status, body = doJSON(t, app, http.MethodGet, "/api/v1/favorites", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["favorites"])

	// Unknown products cannot be favorited.
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/favorites/999", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestProductManagement(t *testing.T) {
	app, db := newTestApp(t)
	token := registerUser(t, app, "merchant@example.com")

	// Mutations under /products need a token; reads under the same prefix
	// stay public.
	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/products", "", map[string]interface{}{
		"name": "Soundbar", "slug": "soundbar", "price": 200.00,
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusOK, status)

	// A create without an isActive field lands active and listed.
	status, body := doJSON(t, app, http.MethodPost, "/api/v1/products", token, map[string]interface{}{
		"name": "Soundbar", "slug": "soundbar", "price": 200.00, "stock": 5,
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, true, body["product"].(map[string]interface{})["isActive"])

	// An explicitly inactive create is honored and kept out of the listing.
	status, body = doJSON(t, app, http.MethodPost, "/api/v1/products", token, map[string]interface{}{
		"name": "Draft Turntable", "slug": "draft-turntable", "price": 350.00, "stock": 2, "isActive": false,
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, false, body["product"].(map[string]interface{})["isActive"])

	var draft models.Product
	require.NoError(t, db.Where("slug = ?", "draft-turntable").First(&draft).Error)
	assert.False(t, draft.IsActive)

	status, body = doJSON(t, app, http.MethodGet, "/api/v1/products", "", nil)
	require.Equal(t, http.StatusOK, status)
	products := body["products"].([]interface{})
	require.Len(t, products, 1)
	assert.Equal(t, "Soundbar", products[0].(map[string]interface{})["name"])

	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/products/draft-turntable", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestProductBrowsing(t *testing.T) {
	app, db := newTestApp(t)

	require.NoError(t, db.Create(&models.Category{Name: "Audio", Slug: "audio", IsActive: true}).Error)
	discount := 80.00
	seedProduct(t, db, &models.Product{Name: "Headset", Slug: "headset", Price: 100.00, DiscountPrice: &discount, CategoryID: 1, Stock: 10, IsActive: true, IsFeatured: true})
	seedProduct(t, db, &models.Product{Name: "Speaker", Slug: "speaker", Price: 150.00, CategoryID: 1, Stock: 5, IsActive: true})
	seedProduct(t, db, &models.Product{Name: "Retired Amp", Slug: "retired-amp", Price: 500.00, CategoryID: 1, Stock: 0, IsActive: false})

	status, body := doJSON(t, app, http.MethodGet, "/api/v1/products", "", nil)
	require.Equal(t, http.StatusOK, status)
	products := body["products"].([]interface{})
	assert.Len(t, products, 2)
	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(2), pagination["totalProducts"])

	// Filters narrow the page.
	status, body = doJSON(t, app, http.MethodGet, "/api/v1/products?search=headset", "", nil)
	require.Equal(t, http.StatusOK, status)
	products = body["products"].([]interface{})
	require.Len(t, products, 1)
	assert.Equal(t, float64(20), products[0].(map[string]interface{})["discountPercentage"])

	status, body = doJSON(t, app, http.MethodGet, "/api/v1/products?minPrice=120", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["products"].([]interface{}), 1)

	// Product detail by slug bumps the view counter.
	status, body = doJSON(t, app, http.MethodGet, "/api/v1/products/headset", "", nil)
	require.Equal(t, http.StatusOK, status)
	detail := body["product"].(map[string]interface{})
	assert.Equal(t, "Headset", detail["name"])
	assert.Len(t, body["similarProducts"].([]interface{}), 1)

	var stored models.Product
	require.NoError(t, db.Where("slug = ?", "headset").First(&stored).Error)
	assert.Equal(t, 1, stored.ViewCount)

	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/products/no-such-slug", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	// Featured strip and categories with counts.
	status, body = doJSON(t, app, http.MethodGet, "/api/v1/products/featured", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["products"].([]interface{}), 1)

	status, body = doJSON(t, app, http.MethodGet, "/api/v1/categories", "", nil)
	require.Equal(t, http.StatusOK, status)
	categories := body["categories"].([]interface{})
	require.Len(t, categories, 1)
	assert.Equal(t, float64(2), categories[0].(map[string]interface{})["productCount"])
}

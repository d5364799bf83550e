package handlers

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"techmart/internal/middleware"
	"techmart/internal/models"
	"techmart/internal/repositories"
	"techmart/internal/services"
)

// ProductHandler handles HTTP requests for catalog browsing and management.
type ProductHandler struct {
	productService *services.ProductService
	authService    *services.AuthService
	validate       *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *services.ProductService, authService *services.AuthService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		authService:    authService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the catalog routes. Browsing is public with
// optional personalization; catalog management requires authentication.
// AuthRequired is attached per route, not on the /products group: a group
// middleware would also guard routes other handlers register under the same
// prefix, like the public review listing.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/categories", h.HandleListCategories)

	productRoutes := router.Group("/products")
	productRoutes.Get("/", middleware.OptionalAuth(h.authService), h.HandleListProducts)
	productRoutes.Get("/featured", h.HandleListFeatured)
	productRoutes.Get("/:slug", middleware.OptionalAuth(h.authService), h.HandleGetProduct)

	productRoutes.Post("/", middleware.AuthRequired(h.authService), h.HandleCreateProduct)
	productRoutes.Put("/:id", middleware.AuthRequired(h.authService), h.HandleUpdateProduct)
	productRoutes.Delete("/:id", middleware.AuthRequired(h.authService), h.HandleDeleteProduct)
}

// HandleListProducts returns a filtered catalog page.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	filter := repositories.ProductFilter{
		Page:         c.QueryInt("page", 1),
		Limit:        c.QueryInt("limit", 12),
		CategorySlug: c.Query("category"),
		Search:       c.Query("search"),
		Brand:        c.Query("brand"),
		SortBy:       c.Query("sortBy"),
	}
	if raw := c.Query("minPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MinPrice = &v
		}
	}
	if raw := c.Query("maxPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MaxPrice = &v
		}
	}

	page, err := h.productService.ListProducts(filter)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"products": page.Products,
		"pagination": fiber.Map{
			"currentPage":   page.CurrentPage,
			"totalPages":    page.TotalPages,
			"totalProducts": page.TotalProducts,
			"hasNext":       page.HasNext,
			"hasPrev":       page.HasPrev,
		},
	})
}

// HandleListFeatured returns the storefront's featured products.
func (h *ProductHandler) HandleListFeatured(c *fiber.Ctx) error {
	products, err := h.productService.ListFeatured()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"products": products,
	})
}

// HandleGetProduct returns the product detail page by slug.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	detail, err := h.productService.GetProductDetail(c.Params("slug"), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":         true,
		"product":         detail.Product,
		"isFavorite":      detail.IsFavorite,
		"reviews":         detail.Reviews,
		"similarProducts": detail.SimilarProducts,
	})
}

// HandleListCategories returns active categories with product counts.
func (h *ProductHandler) HandleListCategories(c *fiber.Ctx) error {
	categories, err := h.productService.ListCategories()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"categories": categories,
	})
}

// HandleCreateProduct adds a catalog item. New products are active unless
// the body says otherwise.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	product := models.Product{IsActive: true}
	if err := c.BodyParser(&product); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(product); err != nil {
		return failValidation(c, err)
	}

	if err := h.productService.CreateProduct(&product); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"product": product,
	})
}

// HandleUpdateProduct saves catalog edits to an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return badRequest(c, "invalid product id")
	}

	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return badRequest(c, "invalid request body")
	}
	product.ID = uint(id)
	if err := h.validate.Struct(product); err != nil {
		return failValidation(c, err)
	}

	if err := h.productService.UpdateProduct(&product); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"product": product,
	})
}

// HandleDeleteProduct removes a catalog item.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return badRequest(c, "invalid product id")
	}

	if err := h.productService.DeleteProduct(uint(id)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "product deleted successfully",
	})
}

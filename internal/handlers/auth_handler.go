package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"techmart/internal/middleware"
	"techmart/internal/services"
)

// AuthHandler handles HTTP requests for accounts and authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes. Registration and login
// are public; profile and verification require a token.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)

	protected := authRoutes.Group("", middleware.AuthRequired(h.authService))
	protected.Post("/verify-email", h.HandleVerifyEmail)
	protected.Get("/profile", h.HandleGetProfile)
	protected.Put("/profile", h.HandleUpdateProfile)
}

// HandleRegister handles new account registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var input services.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(input); err != nil {
		return failValidation(c, err)
	}

	user, token, err := h.authService.RegisterUser(input)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "registration successful, a verification code has been sent to your email",
		"user":    user,
		"token":   token,
		// Exposed until outbound mail is wired up; the storefront dev
		// build reads it to complete verification.
		"verificationCode": user.VerificationCode,
	})
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return failValidation(c, err)
	}

	user, token, err := h.authService.LoginUser(req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "login successful",
		"user":    user,
		"token":   token,
	})
}

// VerifyEmailRequest is the request body for email verification.
type VerifyEmailRequest struct {
	VerificationCode string `json:"verificationCode" validate:"required,len=6"`
}

// HandleVerifyEmail confirms the caller's pending verification code.
func (h *AuthHandler) HandleVerifyEmail(c *fiber.Ctx) error {
	var req VerifyEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return failValidation(c, err)
	}

	if err := h.authService.VerifyEmail(middleware.UserID(c), req.VerificationCode); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "email verified successfully",
	})
}

// HandleGetProfile returns the caller's account details.
func (h *AuthHandler) HandleGetProfile(c *fiber.Ctx) error {
	user, err := h.authService.GetProfile(middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// HandleUpdateProfile overwrites the caller's editable profile fields.
func (h *AuthHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var input services.ProfileUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(input); err != nil {
		return failValidation(c, err)
	}

	user, err := h.authService.UpdateProfile(middleware.UserID(c), input)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "profile updated successfully",
		"user":    user,
	})
}

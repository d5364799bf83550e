package services

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"techmart/internal/apperrors"
	"techmart/internal/models"
	"techmart/internal/repositories"
)

const bcryptCost = 12

// AuthService handles business logic for accounts and authentication.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 7 * 24 * time.Hour,
	}
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Email       string     `json:"email" validate:"required,email"`
	Password    string     `json:"password" validate:"required,min=6"`
	FirstName   string     `json:"firstName" validate:"required,max=100"`
	LastName    string     `json:"lastName" validate:"required,max=100"`
	Phone       string     `json:"phone" validate:"omitempty,min=10"`
	CountryCode string     `json:"countryCode"`
	BirthDate   *time.Time `json:"birthDate"`
	Gender      string     `json:"gender"`
}

// RegisterUser creates an unverified account, hashes the password and issues
// a token. The pending verification code is left on the returned user.
func (s *AuthService) RegisterUser(input RegisterInput) (*models.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return nil, "", apperrors.Conflict("email %s is already registered", email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	countryCode := input.CountryCode
	if countryCode == "" {
		countryCode = "+90"
	}

	user := &models.User{
		Email:            email,
		PasswordHash:     string(hashed),
		FirstName:        input.FirstName,
		LastName:         input.LastName,
		Phone:            input.Phone,
		CountryCode:      countryCode,
		BirthDate:        input.BirthDate,
		Gender:           input.Gender,
		VerificationCode: randomDigits(6),
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, "", fmt.Errorf("failed to register user: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// LoginUser authenticates a user and returns the user plus a JWT. Unknown
// email and wrong password both give the same generic auth error.
func (s *AuthService) LoginUser(email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", apperrors.Auth("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperrors.Auth("invalid email or password")
	}

	if err := s.userRepo.TouchLastLogin(user.ID); err != nil {
		log.Printf("Failed to update last login for user %d: %v", user.ID, err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(s.tokenDurat).Unix(),
		"iat":     time.Now().Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, apperrors.Auth("invalid token")
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, apperrors.Auth("invalid token")
}

// VerifyEmail marks the account verified when the code matches and clears
// the pending code.
func (s *AuthService) VerifyEmail(userID uint, code string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return apperrors.Validation("account is already verified")
	}
	if code == "" || user.VerificationCode != code {
		return apperrors.Validation("invalid verification code")
	}

	user.IsVerified = true
	user.VerificationCode = ""
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to mark user %d verified: %w", userID, err)
	}
	return nil
}

// GetProfile returns the user's account details.
func (s *AuthService) GetProfile(userID uint) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

// ProfileUpdateInput carries the editable profile fields.
type ProfileUpdateInput struct {
	FirstName   string     `json:"firstName" validate:"required,max=100"`
	LastName    string     `json:"lastName" validate:"required,max=100"`
	Phone       string     `json:"phone" validate:"omitempty,min=10"`
	CountryCode string     `json:"countryCode"`
	BirthDate   *time.Time `json:"birthDate"`
	Gender      string     `json:"gender"`
}

// UpdateProfile overwrites the editable profile fields.
func (s *AuthService) UpdateProfile(userID uint, input ProfileUpdateInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.Phone = input.Phone
	if input.CountryCode != "" {
		user.CountryCode = input.CountryCode
	}
	user.BirthDate = input.BirthDate
	user.Gender = input.Gender

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update profile for user %d: %w", userID, err)
	}
	return user, nil
}

// randomDigits returns n random decimal digits (verification codes, order
// number suffixes).
func randomDigits(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			// crypto/rand only fails when the platform source is broken.
			sb.WriteByte('0')
			continue
		}
		sb.WriteByte(byte('0' + d.Int64()))
	}
	return sb.String()
}

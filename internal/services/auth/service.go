package auth

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	apperrors "lumbung/internal/errors"
	"lumbung/internal/models"
	"lumbung/internal/repositories"
	"lumbung/internal/utils"
	"lumbung/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = apperrors.Unauthenticated("invalid_credentials", "invalid email or password")
	ErrEmailTaken         = apperrors.Validation("email_taken", "email already registered")
	ErrSessionExpired     = apperrors.Unauthenticated("session_expired", "session expired")
	ErrInvalidToken       = apperrors.Unauthenticated("invalid_token", "invalid token")
)

type Service interface {
	Register(ctx context.Context, input models.CreateUserInput) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Me(ctx context.Context, userID uint) (*models.User, error)
	UpdateBankDetails(ctx context.Context, actor models.Identity, input models.BankDetailsInput) (*models.User, error)
	Logout(ctx context.Context, userID uint) error
	// Authenticate resolves a bearer token to claims, rejecting tokens
	// issued before the user's last logout.
	Authenticate(ctx context.Context, token string) (*models.UserClaims, error)
}

type service struct {
	userRepo  repositories.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewService(userRepo repositories.UserRepository, jwtSecret string, tokenTTL time.Duration) Service {
	return &service{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

func (s *service) Register(ctx context.Context, input models.CreateUserInput) (*models.User, string, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if err := validation.Struct(&input); err != nil {
		return nil, "", err
	}

	role, err := models.ParseRole(input.Role)
	if err != nil {
		return nil, "", apperrors.Validation("invalid_role", "%v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Email:        input.Email,
		Password:     string(hashed),
		Name:         input.Name,
		Role:         role,
		Contact:      input.Contact,
		TokenVersion: 1,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			return nil, "", ErrEmailTaken
		}
		log.Printf("Register failed for %s: %v", input.Email, err)
		return nil, "", err
	}

	token, err := utils.GenerateToken(s.jwtSecret, s.tokenTTL, user)
	if err != nil {
		return nil, "", err
	}
	log.Printf("Registered %s user %d", user.Role, user.ID)
	return user, token, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, "", apperrors.Validation("invalid_input", "email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			log.Printf("Login failed: user not found for %s", email)
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		log.Printf("Login failed: incorrect password for user ID: %d", user.ID)
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(s.jwtSecret, s.tokenTTL, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *service) Me(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NotFound("user_not_found", "user %d not found", userID)
		}
		return nil, err
	}
	return user, nil
}

func (s *service) UpdateBankDetails(ctx context.Context, actor models.Identity, input models.BankDetailsInput) (*models.User, error) {
	if actor.Role != models.RoleProducer {
		return nil, apperrors.Forbidden("producer_only", "only producers receive payouts")
	}
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}

	bank := models.BankDetails{
		BankName:      input.BankName,
		BankAccount:   input.BankAccount,
		AccountHolder: input.AccountHolder,
	}
	if err := s.userRepo.UpdateBankDetails(ctx, actor.UserID, bank); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NotFound("user_not_found", "user %d not found", actor.UserID)
		}
		return nil, err
	}
	return s.Me(ctx, actor.UserID)
}

func (s *service) Logout(ctx context.Context, userID uint) error {
	return s.userRepo.IncrementTokenVersion(ctx, userID)
}

func (s *service) Authenticate(ctx context.Context, token string) (*models.UserClaims, error) {
	claims, err := utils.ParseToken(s.jwtSecret, token)
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			log.Printf("User %d from token not found", claims.UserID)
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if user.TokenVersion != claims.TokenVersion {
		log.Printf("Token version mismatch for user %d. Token: %d, DB: %d",
			claims.UserID, claims.TokenVersion, user.TokenVersion)
		return nil, ErrSessionExpired
	}
	return claims, nil
}

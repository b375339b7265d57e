package handlers

import (
	"lumbung/internal/models"
	"lumbung/internal/services/auth"
	"lumbung/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func tokenResponse(token string, user *models.User) fiber.Map {
	return fiber.Map{
		"access_token": token,
		"token_type":   "bearer",
		"user":         user,
	}
}

// Register creates an account and logs it in.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input models.CreateUserInput
	if err := parseBody(c, &input, false); err != nil {
		return respondError(c, err)
	}

	user, token, err := h.authService.Register(c.UserContext(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tokenResponse(token, user))
}

// Login accepts JSON or form bodies; username is an alias for email.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Username string `json:"username" form:"username"`
		Email    string `json:"email" form:"email"`
		Password string `json:"password" form:"password"`
	}
	if err := parseBody(c, &input, false); err != nil {
		return respondError(c, err)
	}

	email := input.Email
	if email == "" {
		email = input.Username
	}

	user, token, err := h.authService.Login(c.UserContext(), email, input.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tokenResponse(token, user))
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	actor, err := identity(c)
	if err != nil {
		return respondError(c, err)
	}

	user, err := h.authService.Me(c.UserContext(), actor.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func (h *AuthHandler) UpdateBankDetails(c *fiber.Ctx) error {
	actor, err := identity(c)
	if err != nil {
		return respondError(c, err)
	}

	var input models.BankDetailsInput
	if err := parseBody(c, &input, false); err != nil {
		return respondError(c, err)
	}

	user, err := h.authService.UpdateBankDetails(c.UserContext(), actor, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// Logout revokes every token issued to the caller so far.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	actor, err := identity(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.authService.Logout(c.UserContext(), actor.UserID); err != nil {
		return respondError(c, err)
	}
	return response.Success(c, "Successfully logged out", nil)
}

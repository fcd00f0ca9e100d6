package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/item-lending/internal/api/dto"
	"github.com/spec-kit/item-lending/internal/auth"
	"github.com/spec-kit/item-lending/internal/service"
	apperrors "github.com/spec-kit/item-lending/pkg/util"
)

// UsersHandler exposes the user registry.
type UsersHandler struct {
	auth  *service.AuthService
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, users *service.UserService) *UsersHandler {
	return &UsersHandler{auth: authService, users: users}
}

// Register handles POST /users.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidData("invalid payload", nil)
	}

	user, token, exp, err := h.auth.RegisterUser(c.UserContext(), req.Name, req.Phone, req.Email)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user": userResponse(user),
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Get handles GET /users/:name/:phone.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	key, err := auth.KeyFromParams(c)
	if err != nil {
		return err
	}
	user, err := h.users.Resolve(c.UserContext(), key)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"user":  userResponse(user),
		"items": user.ItemNames(),
	}})
}

// UpdateEmail handles PATCH /users/:name/:phone.
func (h *UsersHandler) UpdateEmail(c *fiber.Ctx) error {
	key, err := auth.KeyFromParams(c)
	if err != nil {
		return err
	}
	var req dto.UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidData("invalid payload", nil)
	}
	user, err := h.users.UpdateEmail(c.UserContext(), key, req.Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// Delete handles DELETE /users/:name/:phone.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	key, err := auth.KeyFromParams(c)
	if err != nil {
		return err
	}
	if err := h.users.Remove(c.UserContext(), key); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

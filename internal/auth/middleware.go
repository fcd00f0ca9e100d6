package auth

import (
	"errors"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/item-lending/internal/domain"
	"github.com/spec-kit/item-lending/internal/repository"
	apperrors "github.com/spec-kit/item-lending/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	User *domain.User
}

// Key returns the caller's identity.
func (p *Principal) Key() domain.UserKey {
	return p.User.Key
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	user, err := m.users.Get(c.UserContext(), claims.Key())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewUnauthorized("user not found")
		}
		return err
	}

	c.Locals(principalKey, &Principal{User: user})
	return c.Next()
}

// RequireSelf ensures the caller is the user named by the :name and :phone route params.
func RequireSelf() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		key, err := KeyFromParams(c)
		if err != nil {
			return err
		}
		if principal.Key() != key {
			return apperrors.NewForbidden("only the owner may do this")
		}
		return c.Next()
	}
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// KeyFromParams decodes the :name and :phone route params.
func KeyFromParams(c *fiber.Ctx) (domain.UserKey, error) {
	name, err := Param(c, "name")
	if err != nil {
		return domain.UserKey{}, err
	}
	phone, err := Param(c, "phone")
	if err != nil {
		return domain.UserKey{}, err
	}
	return domain.UserKey{Name: name, Phone: phone}, nil
}

// Param returns the unescaped route param.
func Param(c *fiber.Ctx, key string) (string, error) {
	v, err := url.PathUnescape(c.Params(key))
	if err != nil {
		return "", apperrors.NewInvalidData("invalid path parameter", map[string]any{"param": key})
	}
	return v, nil
}

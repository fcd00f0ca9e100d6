package service

import (
	"context"
	"time"

	"github.com/spec-kit/item-lending/internal/auth"
	"github.com/spec-kit/item-lending/internal/config"
	"github.com/spec-kit/item-lending/internal/domain"
)

// AuthService registers users and issues their bearer tokens.
type AuthService struct {
	users    *UserService
	tokenMgr *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users *UserService) *AuthService {
	return &AuthService{
		users:    users,
		tokenMgr: auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
	}
}

// RegisterUser creates a user and returns a token identifying them.
func (s *AuthService) RegisterUser(ctx context.Context, name, phone, email string) (*domain.User, string, time.Time, error) {
	user, err := s.users.Register(ctx, name, phone, email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	token, exp, err := s.tokenMgr.GenerateToken(user.Key)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

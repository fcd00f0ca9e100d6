package service

import (
	"context"
	"errors"

	"github.com/spec-kit/item-lending/internal/domain"
	"github.com/spec-kit/item-lending/internal/platform/keylock"
	"github.com/spec-kit/item-lending/internal/repository"
	apperrors "github.com/spec-kit/item-lending/pkg/util"
)

// UserService manages registry membership. The catalog and ledger only resolve users through it.
type UserService struct {
	users repository.UserRepository
	loans repository.LoanRepository
	locks *keylock.Locker
}

// NewUserService constructs the service. locks must be shared with the loan service.
func NewUserService(users repository.UserRepository, loans repository.LoanRepository, locks *keylock.Locker) *UserService {
	if locks == nil {
		locks = keylock.New()
	}
	return &UserService{users: users, loans: loans, locks: locks}
}

// Register adds a user. The (name, phone) pair must be new.
func (s *UserService) Register(ctx context.Context, name, phone, email string) (*domain.User, error) {
	user, err := domain.NewUser(name, phone, email)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, apperrors.NewOperationNotAllowed("user already registered", map[string]any{"user": user.Key.String()})
		}
		return nil, err
	}
	return user, nil
}

// Resolve returns the user or InvalidData.
func (s *UserService) Resolve(ctx context.Context, key domain.UserKey) (*domain.User, error) {
	return resolveUser(ctx, s.users, key)
}

// UpdateEmail replaces the user's email.
func (s *UserService) UpdateEmail(ctx context.Context, key domain.UserKey, email string) (*domain.User, error) {
	user, err := resolveUser(ctx, s.users, key)
	if err != nil {
		return nil, err
	}
	if err := user.SetEmail(email); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Remove deletes a user that takes no part in an open loan.
// No loan naming the user can be registered while the check and delete run.
func (s *UserService) Remove(ctx context.Context, key domain.UserKey) error {
	unlock := lockUsers(s.locks, key)
	defer unlock()

	if _, err := resolveUser(ctx, s.users, key); err != nil {
		return err
	}
	asOwner, err := s.loans.List(ctx, repository.LoanFilter{Owner: &key, OpenOnly: true})
	if err != nil {
		return err
	}
	asBorrower, err := s.loans.List(ctx, repository.LoanFilter{Borrower: &key, OpenOnly: true})
	if err != nil {
		return err
	}
	if len(asOwner)+len(asBorrower) > 0 {
		return apperrors.NewOperationNotAllowed("user has open loans", map[string]any{"user": key.String()})
	}
	return s.users.Delete(ctx, key)
}

// Count returns the number of registered users.
func (s *UserService) Count(ctx context.Context) (int, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(users), nil
}

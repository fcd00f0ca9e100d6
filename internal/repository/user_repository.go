package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/spec-kit/item-lending/internal/domain"
)

// ErrNotFound is returned when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned when a key is already taken.
var ErrAlreadyExists = errors.New("already exists")

// UserRepository defines access to registered users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Get(ctx context.Context, key domain.UserKey) (*domain.User, error)
	Delete(ctx context.Context, key domain.UserKey) error
	List(ctx context.Context) ([]*domain.User, error)
}

type userRepository struct {
	mu    sync.RWMutex
	users map[domain.UserKey]*domain.User
	order []domain.UserKey
}

// NewUserRepository returns an in-memory implementation that keeps registration order.
func NewUserRepository() UserRepository {
	return &userRepository{users: make(map[domain.UserKey]*domain.User)}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Key]; ok {
		return ErrAlreadyExists
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.Key] = user
	r.order = append(r.order, user.Key)
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Key]; !ok {
		return ErrNotFound
	}
	user.UpdatedAt = time.Now().UTC()
	r.users[user.Key] = user
	return nil
}

func (r *userRepository) Get(ctx context.Context, key domain.UserKey) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[key]
	if !ok {
		return nil, ErrNotFound
	}
	return user, nil
}

func (r *userRepository) Delete(ctx context.Context, key domain.UserKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[key]; !ok {
		return ErrNotFound
	}
	delete(r.users, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*domain.User, 0, len(r.order))
	for _, key := range r.order {
		users = append(users, r.users[key])
	}
	return users, nil
}

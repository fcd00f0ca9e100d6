package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/item-lending/internal/domain"
	"github.com/spec-kit/item-lending/internal/events"
	"github.com/spec-kit/item-lending/internal/platform/keylock"
	"github.com/spec-kit/item-lending/internal/repository"
	apperrors "github.com/spec-kit/item-lending/pkg/util"
)

const invalidUserMessage = "invalid user"

func resolveUser(ctx context.Context, users repository.UserRepository, key domain.UserKey) (*domain.User, error) {
	user, err := users.Get(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewInvalidData(invalidUserMessage, map[string]any{"user": key.String()})
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func findItem(owner *domain.User, name string) (domain.Item, error) {
	it, ok := owner.FindItem(name)
	if !ok {
		return nil, apperrors.NewItemNotFound("item not found", map[string]any{
			"owner": owner.Key.String(),
			"item":  name,
		})
	}
	return it, nil
}

// itemLockKey scopes the exclusive lock to one item of one owner.
// Parts are quoted, so no item key equals a user key.
func itemLockKey(owner domain.UserKey, itemName string) string {
	return "item:" + strconv.Quote(owner.Name) + strconv.Quote(owner.Phone) + strconv.Quote(itemName)
}

// userLockKey scopes a lock to a user's membership. It is always taken before item locks.
func userLockKey(key domain.UserKey) string {
	return "user:" + strconv.Quote(key.Name) + strconv.Quote(key.Phone)
}

// lockUsers holds the membership locks of every given user.
func lockUsers(locks *keylock.Locker, keys ...domain.UserKey) (unlock func()) {
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, userLockKey(k))
	}
	return lockAll(locks, names...)
}

// lockAll takes every distinct key in sorted order.
func lockAll(locks *keylock.Locker, keys ...string) (unlock func()) {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)

	unlocks := make([]func(), 0, len(sorted))
	for i, key := range sorted {
		if i > 0 && sorted[i-1] == key {
			continue
		}
		unlocks = append(unlocks, locks.Lock(key))
	}
	return func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_ = dispatcher.Publish(ctx, event)
}

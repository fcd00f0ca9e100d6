package service

import (
	"context"
	"sort"
	"strings"

	"github.com/spec-kit/item-lending/internal/domain"
	"github.com/spec-kit/item-lending/internal/platform/keylock"
	"github.com/spec-kit/item-lending/internal/repository"
)

// ItemOrder selects a listing order.
type ItemOrder string

const (
	OrderRegistry    ItemOrder = "registry"
	OrderDescription ItemOrder = "description"
	OrderPrice       ItemOrder = "price"
)

// ItemView is a consistent snapshot of one item taken under its lock.
type ItemView struct {
	Owner       domain.UserKey
	Key         string
	Kind        domain.ItemKind
	Name        string
	Price       float64
	OnLoan      bool
	Description string
}

// ListingService aggregates items across every user.
type ListingService struct {
	users repository.UserRepository
	locks *keylock.Locker
}

// NewListingService constructs the service. locks must be shared with the catalog and loan services.
func NewListingService(users repository.UserRepository, locks *keylock.Locker) *ListingService {
	if locks == nil {
		locks = keylock.New()
	}
	return &ListingService{users: users, locks: locks}
}

// ListAllItems flattens every user's items in registry order.
// Items removed while the listing runs are left out.
func (s *ListingService) ListAllItems(ctx context.Context) ([]ItemView, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]ItemView, 0)
	for _, user := range users {
		for _, it := range user.Items() {
			if view, ok := s.snapshot(user, it); ok {
				views = append(views, view)
			}
		}
	}
	return views, nil
}

// List returns all items in the requested order.
func (s *ListingService) List(ctx context.Context, order ItemOrder) ([]ItemView, error) {
	views, err := s.ListAllItems(ctx)
	if err != nil {
		return nil, err
	}
	switch order {
	case OrderDescription:
		SortByDescription(views)
	case OrderPrice:
		SortByPrice(views)
	}
	return views, nil
}

// ListByDescription renders every item sorted by description.
func (s *ListingService) ListByDescription(ctx context.Context) (string, error) {
	views, err := s.List(ctx, OrderDescription)
	if err != nil {
		return "", err
	}
	return Render(views), nil
}

// ListByPrice renders every item sorted by ascending price.
func (s *ListingService) ListByPrice(ctx context.Context) (string, error) {
	views, err := s.List(ctx, OrderPrice)
	if err != nil {
		return "", err
	}
	return Render(views), nil
}

// snapshot copies it under its item lock. A rename between reading the name
// and taking the lock moves the lock key, so the name is re-read until they agree.
func (s *ListingService) snapshot(user *domain.User, it domain.Item) (ItemView, bool) {
	for {
		name, ok := user.NameOf(it)
		if !ok {
			return ItemView{}, false
		}
		unlock := s.locks.Lock(itemLockKey(user.Key, name))
		if current, found := user.FindItem(name); found && current == it {
			view := viewOf(user.Key, it)
			unlock()
			return view, true
		}
		unlock()
	}
}

// viewOf copies it. Callers must hold the item's lock.
func viewOf(owner domain.UserKey, it domain.Item) ItemView {
	return ItemView{
		Owner:       owner,
		Key:         domain.ItemKey(it),
		Kind:        it.Kind(),
		Name:        it.Name(),
		Price:       it.Price(),
		OnLoan:      it.OnLoan(),
		Description: it.Describe(),
	}
}

// SortByDescription orders lexicographically by description, keeping ties in place.
func SortByDescription(views []ItemView) {
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Description < views[j].Description
	})
}

// SortByPrice orders by ascending price, keeping ties in insertion order.
func SortByPrice(views []ItemView) {
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Price < views[j].Price
	})
}

// Distinct drops items whose variant and name were already seen. The first one wins.
func Distinct(views []ItemView) []ItemView {
	seen := make(map[string]struct{}, len(views))
	out := make([]ItemView, 0, len(views))
	for _, v := range views {
		if _, ok := seen[v.Key]; ok {
			continue
		}
		seen[v.Key] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Render joins descriptions with "|". No items yields "".
func Render(views []ItemView) string {
	parts := make([]string, 0, len(views))
	for _, v := range views {
		parts = append(parts, v.Description)
	}
	return strings.Join(parts, "|")
}

package domain

import (
	"strings"
	"sync"
	"time"

	apperrors "github.com/spec-kit/item-lending/pkg/util"
)

// UserKey identifies a user: name and phone are unique together.
type UserKey struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (k UserKey) String() string {
	return k.Name + "/" + k.Phone
}

// User owns an ordered collection of items.
// mu guards the collection, item names and the email.
type User struct {
	Key       UserKey
	CreatedAt time.Time
	UpdatedAt time.Time

	mu    sync.RWMutex
	email string
	items []Item
}

// NewUser validates the identity fields.
func NewUser(name, phone, email string) (*User, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(phone) == "" || strings.TrimSpace(email) == "" {
		return nil, apperrors.NewInvalidData("name, phone, email required", nil)
	}
	return &User{Key: UserKey{Name: name, Phone: phone}, email: email}, nil
}

func (u *User) Email() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.email
}

func (u *User) SetEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return apperrors.NewInvalidData("email required", nil)
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.email = email
	return nil
}

// Items returns the owned items in registration order.
func (u *User) Items() []Item {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return append([]Item(nil), u.items...)
}

// ItemNames returns the owned item names in registration order.
func (u *User) ItemNames() []string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	names := make([]string, 0, len(u.items))
	for _, it := range u.items {
		names = append(names, it.Name())
	}
	return names
}

// FindItem looks an item up by exact name.
func (u *User) FindItem(name string) (Item, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	i := u.indexOf(name)
	if i < 0 {
		return nil, false
	}
	return u.items[i], true
}

// AddItem appends it unless the name is already taken.
func (u *User) AddItem(it Item) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.indexOf(it.Name()) >= 0 {
		return apperrors.NewInvalidData("item already registered", map[string]any{"item": it.Name()})
	}
	u.items = append(u.items, it)
	return nil
}

// NameOf returns the current name of it, or false once it is no longer owned.
func (u *User) NameOf(it Item) (string, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	for _, owned := range u.items {
		if owned == it {
			return owned.Name(), true
		}
	}
	return "", false
}

// RemoveItem deletes the named item and reports whether it existed.
func (u *User) RemoveItem(name string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	i := u.indexOf(name)
	if i < 0 {
		return false
	}
	u.items = append(u.items[:i], u.items[i+1:]...)
	return true
}

// SetItemAttribute updates an attribute of an owned item, keeping names unique.
func (u *User) SetItemAttribute(it Item, attr, value string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if strings.EqualFold(strings.TrimSpace(attr), AttrName) && value != it.Name() && u.indexOf(value) >= 0 {
		return apperrors.NewInvalidData("item already registered", map[string]any{"item": value})
	}
	return SetAttribute(it, attr, value)
}

func (u *User) indexOf(name string) int {
	for i, it := range u.items {
		if it.Name() == name {
			return i
		}
	}
	return -1
}

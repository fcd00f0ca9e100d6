package dto

import "time"

// UserRegisterRequest payload for new users.
type UserRegisterRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// UserUpdateRequest payload for PATCH /users/:name/:phone.
type UserUpdateRequest struct {
	Email string `json:"email"`
}

// UserKey identifies a user inside request bodies.
type UserKey struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// UserResponse describes a user.
type UserResponse struct {
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	ItemCount int       `json:"item_count"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

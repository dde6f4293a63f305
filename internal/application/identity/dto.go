package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/shop/backend/internal/domain/identity"
	"github.com/shop/backend/internal/infrastructure/auth"
)

// RegisterRequest represents a request to create an account
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=200"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents a token refresh
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdatePreferencesRequest replaces the user's category preferences
type UpdatePreferencesRequest struct {
	Preferences []string `json:"preferences" binding:"required"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Roles       []string  `json:"roles"`
	Preferences []string  `json:"preferences"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuthResponse carries the authenticated user and their tokens
type AuthResponse struct {
	User   UserResponse    `json:"user"`
	Tokens *auth.TokenPair `json:"tokens"`
}

// ToUserResponse converts a user aggregate to a response DTO
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Roles:       append([]string{}, u.Roles...),
		Preferences: append([]string{}, u.Preferences...),
		CreatedAt:   u.CreatedAt,
	}
}

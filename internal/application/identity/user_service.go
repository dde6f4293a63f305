package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/shop/backend/internal/domain/identity"
)

// UserService handles profile operations
type UserService struct {
	userRepo identity.Repository
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.Repository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetProfile returns the user's profile
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// UpdatePreferences replaces the user's category preferences
// These drive the per-user recommendations
func (s *UserService) UpdatePreferences(ctx context.Context, userID uuid.UUID, req UpdatePreferencesRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := user.SetPreferences(req.Preferences); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

package identity

import (
	"github.com/shop/backend/internal/domain/shared"
)

const (
	AggregateTypeUser = "User"

	EventTypeUserRegistered         = "user.registered"
	EventTypeUserPreferencesChanged = "user.preferences_changed"
)

// UserRegisteredEvent is raised when a new user registers
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

// NewUserRegisteredEvent creates a new user registered event
func NewUserRegisteredEvent(u *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, AggregateTypeUser, u.ID),
		Email:           u.Email,
	}
}

// UserPreferencesChangedEvent is raised when a user updates category preferences
type UserPreferencesChangedEvent struct {
	shared.BaseDomainEvent
	Preferences []string `json:"preferences"`
}

// NewUserPreferencesChangedEvent creates a new preferences changed event
func NewUserPreferencesChangedEvent(u *User) *UserPreferencesChangedEvent {
	return &UserPreferencesChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserPreferencesChanged, AggregateTypeUser, u.ID),
		Preferences:     append([]string(nil), u.Preferences...),
	}
}

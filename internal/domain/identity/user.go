package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/shop/backend/internal/domain/shared"
)

// Role names recognized by the system
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Password cost for bcrypt
const bcryptCost = 12

// User represents a registered shopper or administrator
// It is the aggregate root for identity operations
type User struct {
	shared.BaseAggregateRoot
	Name         string         `gorm:"type:varchar(200);not null"`
	Email        string         `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string         `gorm:"type:varchar(200);not null"`
	Roles        pq.StringArray `gorm:"type:text[];not null;default:'{customer}'"`
	Preferences  pq.StringArray `gorm:"type:text[];not null;default:'{}'"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new user with the customer role
func NewUser(name, email, password string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             strings.ToLower(strings.TrimSpace(email)),
		PasswordHash:      passwordHash,
		Roles:             pq.StringArray{RoleCustomer},
		Preferences:       pq.StringArray{},
	}

	user.AddDomainEvent(NewUserRegisteredEvent(user))

	return user, nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// SetPassword sets a new password
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// HasRole checks if the user carries the given role
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin returns true if the user carries the admin role
func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// GrantRole adds a role to the user if not already present
func (u *User) GrantRole(role string) error {
	if role != RoleCustomer && role != RoleAdmin {
		return shared.NewDomainError("INVALID_ROLE", "Unknown role: "+role)
	}
	if u.HasRole(role) {
		return shared.NewDomainError("ROLE_ALREADY_ASSIGNED", "User already has this role")
	}

	u.Roles = append(u.Roles, role)
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// SetPreferences replaces the user's category preferences
// Preferences are trimmed and deduplicated, order preserved
func (u *User) SetPreferences(preferences []string) error {
	seen := make(map[string]bool, len(preferences))
	cleaned := make(pq.StringArray, 0, len(preferences))
	for _, p := range preferences {
		p = strings.TrimSpace(p)
		if p == "" {
			return shared.NewDomainError("INVALID_PREFERENCE", "Preference cannot be empty")
		}
		if !seen[p] {
			seen[p] = true
			cleaned = append(cleaned, p)
		}
	}

	u.Preferences = cleaned
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	u.AddDomainEvent(NewUserPreferencesChangedEvent(u))

	return nil
}

// PreferenceSet returns the preferences as a set for scoring
func (u *User) PreferenceSet() map[string]struct{} {
	set := make(map[string]struct{}, len(u.Preferences))
	for _, p := range u.Preferences {
		set[p] = struct{}{}
	}
	return set
}

// RecordLogin records a successful login
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
	u.IncrementVersion()
}

// Validation functions

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 128 characters")
	}

	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}

	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}

	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Permission represents the role a user holds on the platform.
type Permission string

// Possible user permissions.
const (
	PermissionAdmin     Permission = "admin"
	PermissionCorrector Permission = "corrector"
	PermissionStudent   Permission = "student"
)

// UserStatus represents the account state of a user.
type UserStatus string

// Possible user status values.
const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// Common validation errors for User.
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyUserName       = errors.New("user first and last name cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
	ErrInvalidPermission   = errors.New("invalid user permission")
	ErrInvalidUserStatus   = errors.New("invalid user status")
)

// User represents a registered user of the platform: a student, a corrector
// or an administrator, distinguished by Permission.
type User struct {
	ID             uuid.UUID  `json:"id"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Email          string     `json:"email"`
	Password       string     `json:"-"` // Plaintext password, only set during registration/updates
	HashedPassword string     `json:"-"` // Never expose password hash in JSON
	Status         UserStatus `json:"status"`
	Permission     Permission `json:"permission"`
	Phone          string     `json:"phone,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewUser creates a new active User with the given name, email, permission and
// plaintext password. It generates a new UUID for the user ID and sets the
// creation/update timestamps.
//
// NOTE: The caller is responsible for hashing the password before storing
// the user.
func NewUser(firstName, lastName, email, password string, permission Permission) (*User, error) {
	user := &User{
		ID:         uuid.New(),
		FirstName:  firstName,
		LastName:   lastName,
		Email:      strings.ToLower(strings.TrimSpace(email)),
		Password:   password,
		Status:     UserStatusActive,
		Permission: permission,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.FirstName == "" || u.LastName == "" {
		return ErrEmptyUserName
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if u.Password == "" && u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	if !isValidPermission(u.Permission) {
		return ErrInvalidPermission
	}

	if !isValidUserStatus(u.Status) {
		return ErrInvalidUserStatus
	}

	return nil
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsActive reports whether the user account is active.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// CanCorrect reports whether the user is allowed to correct essays.
// Administrators implicitly hold corrector rights.
func (u *User) CanCorrect() bool {
	return u.Permission == PermissionCorrector || u.Permission == PermissionAdmin
}

func isValidPermission(p Permission) bool {
	switch p {
	case PermissionAdmin, PermissionCorrector, PermissionStudent:
		return true
	default:
		return false
	}
}

func isValidUserStatus(s UserStatus) bool {
	switch s {
	case UserStatusActive, UserStatusInactive:
		return true
	default:
		return false
	}
}

// validateEmailFormat performs basic validation of email format.
// Request-level validation uses a schema library; this is a last line of
// defense for users created internally (e.g. by the payment webhook).
func validateEmailFormat(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domainPart := email[at+1:]
	dot := strings.IndexByte(domainPart, '.')
	return dot > 0 && dot < len(domainPart)-1
}

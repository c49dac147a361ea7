package ports

import (
	"context"
	"time"

	"github.com/accounthub/user-service/internal/core/domain"
)

// Requester is the authenticated identity performing an operation, extracted
// from the access token by the HTTP layer.
type Requester struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the requester carries the admin role.
func (r Requester) IsAdmin() bool { return r.Role == domain.RoleAdmin }

// RegisterInput carries all data needed to create a new account.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Role        string // optional; defaults to "user"
	Gender      string
	Phone       string
	DateOfBirth *time.Time
	Bio         string
	CreatedBy   string // set for administrative creation
}

// RegisterResult is returned by the registration use case.
type RegisterResult struct {
	User *domain.User
	// EmailVerificationRequired is true until the account verifies its email.
	EmailVerificationRequired bool
}

// LoginInput carries raw credentials.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	User   *domain.User
	Tokens TokenPair
}

// AuthService defines the unauthenticated account operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*RegisterResult, error)
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	// Refresh exchanges a valid refresh token for a new token pair.
	Refresh(ctx context.Context, refreshToken string) (*LoginResult, error)
}

// UpdateUserInput carries partial profile/preferences updates. Both patches
// nil is a no-op.
type UpdateUserInput struct {
	Requester   Requester
	UserID      string
	Profile     *domain.ProfilePatch
	Preferences *domain.PreferencesPatch
}

// ListUsersInput carries the admin listing parameters.
type ListUsersInput struct {
	Requester Requester
	Filter    ListUsersFilter
}

// ListUsersResult is a page of users plus pagination metadata.
type ListUsersResult struct {
	Items      []*domain.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// SearchUsersInput carries a free-text query.
type SearchUsersInput struct {
	Requester       Requester
	Query           string
	Limit           int
	IncludeInactive bool
}

// LinkSocialAccountInput carries an external identity to attach to a user.
type LinkSocialAccountInput struct {
	Requester    Requester
	UserID       string
	Provider     string
	ProviderID   string
	Email        string
	ProviderData map[string]any
}

// UserService defines the authenticated account operations. Every method
// enforces its own authorization; the HTTP layer only supplies the requester.
type UserService interface {
	GetUser(ctx context.Context, requester Requester, userID string) (*domain.User, error)
	UpdateUser(ctx context.Context, in UpdateUserInput) (*domain.User, error)
	// DeleteUser soft-deletes: deactivate + suspend with a recorded reason.
	DeleteUser(ctx context.Context, requester Requester, userID string) error
	ListUsers(ctx context.Context, in ListUsersInput) (*ListUsersResult, error)
	SearchUsers(ctx context.Context, in SearchUsersInput) ([]*domain.User, error)
	LinkSocialAccount(ctx context.Context, in LinkSocialAccountInput) (*domain.User, error)
	UnlinkSocialAccount(ctx context.Context, requester Requester, userID, provider string) (*domain.User, error)
	// VerifyEmail marks the account's email as verified (admin operation,
	// standing in for a mailed confirmation link).
	VerifyEmail(ctx context.Context, requester Requester, userID string) (*domain.User, error)
	// AddAddress assigns a fresh id to the address and appends it.
	AddAddress(ctx context.Context, requester Requester, userID string, addr domain.Address) (*domain.User, error)
	SetDefaultAddress(ctx context.Context, requester Requester, userID, addressID string) (*domain.User, error)
	RemoveAddress(ctx context.Context, requester Requester, userID, addressID string) (*domain.User, error)
}

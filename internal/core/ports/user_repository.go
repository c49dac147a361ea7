package ports

import (
	"context"
	"time"

	"github.com/accounthub/user-service/internal/core/domain"
)

// ListUsersFilter carries all query parameters for the admin listing.
type ListUsersFilter struct {
	Role          string     // optional: "user" or "admin"
	IsActive      *bool      // optional tri-state filters
	EmailVerified *bool
	IsSuspended   *bool
	CreatedFrom   time.Time  // optional: created_at >= CreatedFrom
	CreatedTo     time.Time  // optional: created_at <= CreatedTo
	SortBy        string     // defaults to "created_at"
	SortDesc      bool
	Page          int        // 1-based
	Limit         int        // capped at 100 by the service
}

// SearchOptions tunes the text search.
type SearchOptions struct {
	Limit           int  // capped at 50 by the service
	IncludeInactive bool // only honored for admin requesters
}

// ExistsResult reports which unique identifiers are already taken.
type ExistsResult struct {
	Exists        bool
	EmailTaken    bool
	UsernameTaken bool
}

// UserRepository defines persistence operations for user accounts. It is the
// only path between the use cases and durable storage.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// FindBySocialAccount returns the user holding an active link for the
	// given (provider, providerID) pair, across all users.
	FindBySocialAccount(ctx context.Context, provider, providerID string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	// Delete removes the document. Application flow never calls it for user
	// deletion (soft delete only); it exists for administrative cleanup.
	Delete(ctx context.Context, id string) error
	// FindAll returns a page of users matching the filter and the total count.
	FindAll(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
	Search(ctx context.Context, query string, opts SearchOptions) ([]*domain.User, error)
	// Exists checks email and username in one round trip and reports every
	// conflict, not just the first.
	Exists(ctx context.Context, email, username string) (ExistsResult, error)
}

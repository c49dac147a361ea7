package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/accounthub/user-service/internal/core/domain"
	"github.com/accounthub/user-service/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
	defaultSearchCap = 20
	maxSearchCap     = 50

	softDeleteReason = "Account deleted by user"
)

// canActOn is the shared self-or-admin predicate: an operation on targetID is
// permitted to any admin and to the target itself.
func canActOn(requester ports.Requester, targetID string) bool {
	return requester.IsAdmin() || requester.UserID == targetID
}

// UserService implements the authenticated account use cases.
type UserService struct {
	repo   ports.UserRepository
	ids    ports.IDGenerator
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, ids ports.IDGenerator, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, ids: ids, logger: logger}
}

// GetUser loads a user. Third parties may read only non-private profiles; a
// private target yields a distinct forbidden error rather than not-found.
func (s *UserService) GetUser(ctx context.Context, requester ports.Requester, userID string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !canActOn(requester, userID) && user.Preferences.ProfileVisibility == domain.VisibilityPrivate {
		return nil, &domain.ForbiddenError{Message: "this profile is private"}
	}

	return user, nil
}

// UpdateUser merges any supplied profile/preferences partials through the
// aggregate's own mutators and persists. A call with neither patch is a no-op.
func (s *UserService) UpdateUser(ctx context.Context, in ports.UpdateUserInput) (*domain.User, error) {
	if !canActOn(in.Requester, in.UserID) {
		return nil, &domain.ForbiddenError{Message: "you may only update your own account"}
	}

	user, err := s.repo.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Profile == nil && in.Preferences == nil {
		return user, nil
	}

	if in.Profile != nil {
		user.UpdateProfile(*in.Profile)
	}
	if in.Preferences != nil {
		user.UpdatePreferences(*in.Preferences)
	}
	user.UpdatedBy = in.Requester.UserID

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Str("updated_by", in.Requester.UserID).Msg("user updated")
	return user, nil
}

// DeleteUser soft-deletes: deactivate + suspend with a recorded reason. An
// admin may delete anyone except their own admin account.
func (s *UserService) DeleteUser(ctx context.Context, requester ports.Requester, userID string) error {
	if !canActOn(requester, userID) {
		return &domain.ForbiddenError{Message: "you may only delete your own account"}
	}
	if requester.IsAdmin() && requester.UserID == userID {
		return &domain.ForbiddenError{Message: "admins cannot delete their own account"}
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	user.SoftDelete(softDeleteReason)
	user.UpdatedBy = requester.UserID

	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.logger.Info().Str("user_id", userID).Str("deleted_by", requester.UserID).Msg("user soft-deleted")
	return nil
}

// ListUsers is admin-only. Pagination defaults to page 1 / limit 20 and the
// limit is silently clamped to 100.
func (s *UserService) ListUsers(ctx context.Context, in ports.ListUsersInput) (*ports.ListUsersResult, error) {
	if !in.Requester.IsAdmin() {
		return nil, &domain.ForbiddenError{Message: "only admins may list users"}
	}

	filter := in.Filter
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}
	if filter.SortBy == "" {
		filter.SortBy = "created_at"
		filter.SortDesc = true
	}

	users, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))

	return &ports.ListUsersResult{
		Items:      users,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// SearchUsers runs a free-text search. IncludeInactive is honored only for
// admin requesters; for everyone else it is silently forced off.
func (s *UserService) SearchUsers(ctx context.Context, in ports.SearchUsersInput) ([]*domain.User, error) {
	query := strings.TrimSpace(in.Query)
	if len(query) < 2 {
		return nil, &domain.ValidationError{Message: "search query must be at least 2 characters"}
	}

	opts := ports.SearchOptions{Limit: in.Limit, IncludeInactive: in.IncludeInactive}
	if opts.Limit <= 0 {
		opts.Limit = defaultSearchCap
	}
	if opts.Limit > maxSearchCap {
		opts.Limit = maxSearchCap
	}
	if !in.Requester.IsAdmin() {
		opts.IncludeInactive = false
	}

	users, err := s.repo.Search(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return users, nil
}

// LinkSocialAccount attaches an external identity. The (provider, providerID)
// pair must not be actively bound to a different user anywhere in the system;
// that cross-user check happens here, while the per-user active-provider
// invariant lives in the aggregate.
func (s *UserService) LinkSocialAccount(ctx context.Context, in ports.LinkSocialAccountInput) (*domain.User, error) {
	if !canActOn(in.Requester, in.UserID) {
		return nil, &domain.ForbiddenError{Message: "you may only link accounts to your own profile"}
	}
	if in.Provider == "" || in.ProviderID == "" {
		return nil, &domain.ValidationError{Message: "provider and provider id are required"}
	}

	owner, err := s.repo.FindBySocialAccount(ctx, in.Provider, in.ProviderID)
	switch {
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		// The uniqueness check must not be skipped on a lookup failure.
		return nil, fmt.Errorf("link social account: lookup identity: %w", err)
	case err == nil && owner.ID != in.UserID:
		return nil, &domain.ConflictError{
			Message: fmt.Sprintf("%s account is already linked to another user", in.Provider),
		}
	}

	user, err := s.repo.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	user.LinkSocialAccount(in.Provider, in.ProviderID, in.Email, in.ProviderData)
	user.UpdatedBy = in.Requester.UserID

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("link social account: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Str("provider", in.Provider).Msg("social account linked")
	return user, nil
}

// VerifyEmail marks the target's email as verified. Restricted to admins: a
// user cannot self-attest, and the deployment's mail pipeline lands here.
func (s *UserService) VerifyEmail(ctx context.Context, requester ports.Requester, userID string) (*domain.User, error) {
	if !requester.IsAdmin() {
		return nil, &domain.ForbiddenError{Message: "only an administrator may verify an email"}
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !user.EmailVerified {
		user.VerifyEmail()
		user.UpdatedBy = requester.UserID
		if err := s.repo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("verify email: %w", err)
		}
		s.logger.Info().Str("user_id", user.ID).Str("verified_by", requester.UserID).Msg("email verified")
	}
	return user, nil
}

// AddAddress appends a postal address, assigning it a generated id. The
// aggregate keeps at most one default.
func (s *UserService) AddAddress(ctx context.Context, requester ports.Requester, userID string, addr domain.Address) (*domain.User, error) {
	if !canActOn(requester, userID) {
		return nil, &domain.ForbiddenError{Message: "you may only manage your own addresses"}
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.AddAddress(addr, s.ids.NewID())
	user.UpdatedBy = requester.UserID

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("add address: %w", err)
	}
	return user, nil
}

// SetDefaultAddress marks an existing address as the sole default.
func (s *UserService) SetDefaultAddress(ctx context.Context, requester ports.Requester, userID, addressID string) (*domain.User, error) {
	if !canActOn(requester, userID) {
		return nil, &domain.ForbiddenError{Message: "you may only manage your own addresses"}
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !user.SetDefaultAddress(addressID) {
		return nil, &domain.NotFoundError{Resource: "address"}
	}
	user.UpdatedBy = requester.UserID

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("set default address: %w", err)
	}
	return user, nil
}

// RemoveAddress deletes an address from the aggregate.
func (s *UserService) RemoveAddress(ctx context.Context, requester ports.Requester, userID, addressID string) (*domain.User, error) {
	if !canActOn(requester, userID) {
		return nil, &domain.ForbiddenError{Message: "you may only manage your own addresses"}
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !user.RemoveAddress(addressID) {
		return nil, &domain.NotFoundError{Resource: "address"}
	}
	user.UpdatedBy = requester.UserID

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("remove address: %w", err)
	}
	return user, nil
}

// UnlinkSocialAccount deactivates the active link for the given provider.
func (s *UserService) UnlinkSocialAccount(ctx context.Context, requester ports.Requester, userID, provider string) (*domain.User, error) {
	if !canActOn(requester, userID) {
		return nil, &domain.ForbiddenError{Message: "you may only unlink accounts from your own profile"}
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !user.UnlinkSocialAccount(provider) {
		return nil, &domain.NotFoundError{Resource: provider + " link"}
	}
	user.UpdatedBy = requester.UserID

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("unlink social account: %w", err)
	}

	return user, nil
}

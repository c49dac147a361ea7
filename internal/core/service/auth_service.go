package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/accounthub/user-service/internal/core/domain"
	"github.com/accounthub/user-service/internal/core/ports"
)

// AuthService implements registration, login, and token refresh.
type AuthService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	logger zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenIssuer, logger zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, hasher: hasher, tokens: tokens, logger: logger}
}

// Register creates a new account. Both email and username conflicts are
// reported together when both are taken.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.RegisterResult, error) {
	email, err := domain.NewEmail(in.Email)
	if err != nil {
		return nil, err
	}
	username, err := domain.NewUsername(in.Username)
	if err != nil {
		return nil, err
	}
	password, err := domain.NewPassword(in.Password)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, &domain.ValidationError{Message: "first name and last name are required"}
	}

	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return nil, &domain.ValidationError{Message: "role must be user or admin"}
	}
	// Elevated roles exist only through administrative creation; the public
	// endpoint never sets CreatedBy.
	if role == domain.RoleAdmin && in.CreatedBy == "" {
		return nil, &domain.ForbiddenError{Message: "admin accounts can only be created by an administrator"}
	}

	taken, err := s.repo.Exists(ctx, email.String(), username.String())
	if err != nil {
		return nil, fmt.Errorf("register: check existing: %w", err)
	}
	if taken.Exists {
		fields := make([]string, 0, 2)
		if taken.EmailTaken {
			fields = append(fields, "email")
		}
		if taken.UsernameTaken {
			fields = append(fields, "username")
		}
		return nil, &domain.ConflictError{Message: "already in use", Fields: fields}
	}

	hash, err := s.hasher.Hash(password.String())
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username.String(),
		Email:        email.String(),
		PasswordHash: hash,
		Role:         role,
		Profile: domain.Profile{
			FirstName:   strings.TrimSpace(in.FirstName),
			LastName:    strings.TrimSpace(in.LastName),
			Gender:      in.Gender,
			Phone:       in.Phone,
			DateOfBirth: in.DateOfBirth,
			Bio:         in.Bio,
		},
		Preferences: domain.DefaultPreferences(),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   in.CreatedBy,
	}
	// Administrative creation may skip the verification step.
	if in.CreatedBy != "" {
		user.EmailVerified = true
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		s.logger.Error().Err(err).Str("username", user.Username).Msg("failed to create user")
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")

	return &ports.RegisterResult{
		User:                      created,
		EmailVerificationRequired: !created.EmailVerified,
	}, nil
}

// errInvalidCredentials is the single message for both "no such email" and
// "wrong password", so responses do not reveal whether an account exists.
func errInvalidCredentials() error {
	return &domain.UnauthorizedError{Message: "invalid email or password"}
}

// Login authenticates raw credentials and mints a token pair.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, &domain.ValidationError{Message: "email and password are required"}
	}

	email, err := domain.NewEmail(in.Email)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByEmail(ctx, email.String())
	if err != nil {
		// Only an absent account collapses into the generic message; a store
		// failure is an outage, not a bad credential.
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Debug().Str("email", email.String()).Msg("login for unknown email")
			return nil, errInvalidCredentials()
		}
		return nil, fmt.Errorf("login: lookup account: %w", err)
	}

	if !user.CanLogin() {
		// The account was located by its own email, so its owner is entitled
		// to know every reason login is blocked.
		reasons := make([]string, 0, 3)
		if !user.IsActive {
			reasons = append(reasons, "account is deactivated")
		}
		if user.IsSuspended {
			reasons = append(reasons, "account is suspended")
		}
		if !user.EmailVerified {
			reasons = append(reasons, "email is not verified")
		}
		return nil, &domain.UnauthorizedError{Message: strings.Join(reasons, "; ")}
	}

	if user.PasswordHash == "" {
		return nil, &domain.UnauthorizedError{Message: "password not set for this account"}
	}

	if !s.hasher.Compare(in.Password, user.PasswordHash) {
		return nil, errInvalidCredentials()
	}

	user.RecordLogin()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("login: record login: %w", err)
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")

	return &ports.LoginResult{User: user, Tokens: tokens}, nil
}

// Refresh exchanges a valid refresh token for a new pair. The user is
// re-loaded so revocations and suspensions since issuance take effect.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.LoginResult, error) {
	if refreshToken == "" {
		return nil, &domain.ValidationError{Message: "refresh token is required"}
	}

	claims, err := s.tokens.VerifyRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, &domain.UnauthorizedError{Message: "invalid refresh token"}
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, &domain.UnauthorizedError{Message: "invalid refresh token"}
	}
	if !user.CanLogin() {
		return nil, &domain.UnauthorizedError{Message: "account can no longer log in"}
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &ports.LoginResult{User: user, Tokens: tokens}, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *domain.User) (ports.TokenPair, error) {
	claims := ports.Claims{UserID: user.ID, Email: user.Email, Role: user.Role}

	access, err := s.tokens.IssueAccessToken(claims)
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.tokens.IssueRefreshToken(ctx, claims)
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}
	return ports.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

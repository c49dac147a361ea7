package ports

import "context"

// Claims is the token payload: subject id, email, and role.
type Claims struct {
	UserID string
	Email  string
	Role   string
}

// TokenPair is an access/refresh token pair issued on successful login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// PasswordHasher abstracts the one-way password hash function.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(plain, hash string) bool
}

// TokenIssuer mints and verifies tokens. Refresh operations take a context
// because their session state lives in an external store.
type TokenIssuer interface {
	IssueAccessToken(claims Claims) (string, error)
	IssueRefreshToken(ctx context.Context, claims Claims) (string, error)
	VerifyAccessToken(token string) (Claims, error)
	VerifyRefreshToken(ctx context.Context, token string) (Claims, error)
}

// IDGenerator produces opaque identifiers for address and social-account
// sub-records.
type IDGenerator interface {
	NewID() string
}

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/accounthub/user-service/internal/core/ports"
)

var errInvalidToken = errors.New("invalid token")

// SessionStore abstracts the refresh-session persistence (Redis).
type SessionStore interface {
	Put(ctx context.Context, userID, jti string, ttl time.Duration) error
	Valid(ctx context.Context, userID, jti string) (bool, error)
	Revoke(ctx context.Context, userID, jti string) error
}

// JWTIssuer mints HS256 access tokens and session-backed refresh tokens.
type JWTIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	sessions   SessionStore
}

func NewJWTIssuer(secret string, accessTTL, refreshTTL time.Duration, sessions SessionStore) *JWTIssuer {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 30 * 24 * time.Hour
	}
	return &JWTIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		sessions:   sessions,
	}
}

func (i *JWTIssuer) IssueAccessToken(claims ports.Claims) (string, error) {
	return i.sign(jwt.MapClaims{
		"sub":   claims.UserID,
		"email": claims.Email,
		"role":  claims.Role,
		"typ":   "access",
		"exp":   time.Now().Add(i.accessTTL).Unix(),
	})
}

// IssueRefreshToken mints a refresh token carrying a jti and records the
// session; verification later requires the session to still exist.
func (i *JWTIssuer) IssueRefreshToken(ctx context.Context, claims ports.Claims) (string, error) {
	jti := uuid.NewString()
	token, err := i.sign(jwt.MapClaims{
		"sub":   claims.UserID,
		"email": claims.Email,
		"role":  claims.Role,
		"typ":   "refresh",
		"jti":   jti,
		"exp":   time.Now().Add(i.refreshTTL).Unix(),
	})
	if err != nil {
		return "", err
	}
	if err := i.sessions.Put(ctx, claims.UserID, jti, i.refreshTTL); err != nil {
		return "", err
	}
	return token, nil
}

func (i *JWTIssuer) VerifyAccessToken(token string) (ports.Claims, error) {
	claims, _, err := i.parse(token, "access")
	return claims, err
}

func (i *JWTIssuer) VerifyRefreshToken(ctx context.Context, token string) (ports.Claims, error) {
	claims, jti, err := i.parse(token, "refresh")
	if err != nil {
		return ports.Claims{}, err
	}
	ok, err := i.sessions.Valid(ctx, claims.UserID, jti)
	if err != nil {
		return ports.Claims{}, err
	}
	if !ok {
		return ports.Claims{}, errInvalidToken
	}
	return claims, nil
}

func (i *JWTIssuer) sign(claims jwt.MapClaims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.secret)
}

func (i *JWTIssuer) parse(token, wantType string) (ports.Claims, string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil || !tkn.Valid {
		return ports.Claims{}, "", errInvalidToken
	}

	typ, _ := claims["typ"].(string)
	if typ != wantType {
		return ports.Claims{}, "", errInvalidToken
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	jti, _ := claims["jti"].(string)
	if sub == "" {
		return ports.Claims{}, "", errInvalidToken
	}

	return ports.Claims{UserID: sub, Email: email, Role: role}, jti, nil
}

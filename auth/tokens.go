package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/user/storeapi-go/apperror"
	"github.com/user/storeapi-go/config"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims is the JWT payload of both access and refresh tokens.
// The user id travels as the standard `sub` claim and the token id as `jti`.
type Claims struct {
	Type    string `json:"type"`
	Fresh   bool   `json:"fresh"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// ExpiresAtTime returns the expiry, or the zero time when the claim is missing.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// TokenManager issues and verifies HS256 tokens.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	admins     map[int64]struct{}
	now        func() time.Time
}

// NewTokenManager creates a TokenManager from the auth configuration.
func NewTokenManager(cfg *config.AuthConfig) *TokenManager {
	admins := make(map[int64]struct{}, len(cfg.AdminUserIDs))
	for _, id := range cfg.AdminUserIDs {
		admins[id] = struct{}{}
	}
	return &TokenManager{
		secret:     []byte(cfg.JWTSecret),
		accessTTL:  cfg.AccessTokenDuration,
		refreshTTL: cfg.RefreshTokenDuration,
		admins:     admins,
		now:        time.Now,
	}
}

// IsAdmin reports whether the user gets the is_admin claim.
func (m *TokenManager) IsAdmin(userID int64) bool {
	_, ok := m.admins[userID]
	return ok
}

// IssueAccess creates an access token. Only tokens minted from a password login are fresh.
func (m *TokenManager) IssueAccess(userID int64, fresh bool) (string, *Claims, error) {
	return m.issue(userID, tokenTypeAccess, fresh, m.accessTTL)
}

// IssueRefresh creates a refresh token.
func (m *TokenManager) IssueRefresh(userID int64) (string, *Claims, error) {
	return m.issue(userID, tokenTypeRefresh, false, m.refreshTTL)
}

func (m *TokenManager) issue(userID int64, tokenType string, fresh bool, ttl time.Duration) (string, *Claims, error) {
	now := m.now()
	claims := &Claims{
		Type:    tokenType,
		Fresh:   fresh,
		IsAdmin: m.IsAdmin(userID),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, claims, nil
}

// Parse verifies signature, shape and type of a token, then its lifetime.
// Structural problems (signature, algorithm, missing claims, wrong type) are reported
// as invalid_token before expiry is considered, so an expired token of the wrong kind
// is still "invalid" rather than "expired".
func (m *TokenManager) Parse(tokenString, wantType string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	_, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, errInvalidToken(err)
	}

	if claims.Type != wantType {
		return nil, errInvalidToken(fmt.Errorf("expected %s token, got %q", wantType, claims.Type))
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		return nil, errInvalidToken(errors.New("token is missing jti or exp"))
	}
	if _, err := claims.UserID(); err != nil {
		return nil, errInvalidToken(fmt.Errorf("bad subject: %w", err))
	}

	now := m.now()
	if claims.NotBefore != nil && now.Before(claims.NotBefore.Time) {
		return nil, errInvalidToken(jwt.ErrTokenNotValidYet)
	}
	if !now.Before(claims.ExpiresAt.Time) {
		return nil, apperror.NewAuthError("The token has expired.", jwt.ErrTokenExpired).
			WithCode(apperror.CodeTokenExpired)
	}
	return claims, nil
}

func errInvalidToken(err error) error {
	return apperror.NewAuthError("Signature verification failed.", err).WithCode(apperror.CodeInvalidToken)
}

// This file defines the HTTP middleware that guards protected routes.
// A middleware wraps the next http.Handler and either rejects the request with
// an apperror response or passes it on with the token claims in its context.
// Handlers behind it read the caller through ClaimsFromContext.

package auth

import (
	"net/http"
	"strings"

	"github.com/user/storeapi-go/apperror"
	"github.com/user/storeapi-go/httpx"
)

// requirement describes what a protected route demands of the bearer token.
// The zero value plus tokenTypeAccess is a plain access-token check; the
// Option functions below switch on the stricter checks.
type requirement struct {
	tokenType string
	fresh     bool
	admin     bool
}

// Option adjusts what JWTMiddleware requires.
type Option func(*requirement)

// Fresh demands an access token obtained directly from a password login.
// Tokens issued by /refresh carry fresh=false and are rejected with
// fresh_token_required.
func Fresh() Option { return func(r *requirement) { r.fresh = true } }

// Admin demands the is_admin claim. The claim is computed when the token is
// issued, so changing ADMIN_USER_IDS only affects tokens issued afterwards.
func Admin() Option { return func(r *requirement) { r.admin = true } }

// RefreshToken makes the route accept refresh tokens instead of access tokens.
// It is used by /refresh only; an access token presented there is invalid_token.
func RefreshToken() Option { return func(r *requirement) { r.tokenType = tokenTypeRefresh } }

// JWTMiddleware verifies the bearer token and stores its claims in the request context.
// It is a higher-order function: the options are resolved once, and the returned
// func(next http.Handler) http.Handler is what chi's Use and With expect.
//
// Checks run in a fixed order and the first failure wins:
//  1. the Authorization header carries a bearer token (authorization_required)
//  2. the signature, type and timestamps are valid (invalid_token, token_expired)
//  3. the jti is not on the blocklist (token_revoked)
//  4. the token is fresh, if Fresh was given (fresh_token_required)
//  5. the is_admin claim is set, if Admin was given (admin_required, 403)
//
// A blocklist lookup failure is a 500; the request is never let through on error.
func JWTMiddleware(tokens *TokenManager, blocklist Blocklist, opts ...Option) func(next http.Handler) http.Handler {
	req := requirement{tokenType: tokenTypeAccess}
	for _, opt := range opts {
		opt(&req)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				httpx.WriteError(w, r, apperror.NewAuthError("Request does not contain an access token.", nil).
					WithCode(apperror.CodeAuthorizationRequired))
				return
			}

			claims, err := tokens.Parse(tokenString, req.tokenType)
			if err != nil {
				httpx.WriteError(w, r, err)
				return
			}

			revoked, err := blocklist.IsRevoked(r.Context(), claims.ID)
			if err != nil {
				httpx.WriteError(w, r, apperror.NewInternalError("failed to check token revocation", err))
				return
			}
			if revoked {
				httpx.WriteError(w, r, apperror.NewAuthError("The token has been revoked.", nil).
					WithCode(apperror.CodeTokenRevoked))
				return
			}

			if req.fresh && !claims.Fresh {
				httpx.WriteError(w, r, apperror.NewAuthError("The token is not fresh.", nil).
					WithCode(apperror.CodeFreshTokenRequired))
				return
			}
			if req.admin && !claims.IsAdmin {
				httpx.WriteError(w, r, apperror.NewUnauthorizedError("Admin privilege required.", nil).
					WithCode(apperror.CodeAdminRequired))
				return
			}

			next.ServeHTTP(w, r.WithContext(NewContextWithClaims(r.Context(), claims)))
		})
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// The scheme is matched case-insensitively.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

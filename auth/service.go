// Package auth handles user registration, login, token refresh and logout.
// Tokens are HS256 JWTs; revoked token ids are kept in a Blocklist that the
// JWTMiddleware consults on every protected request.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/storeapi-go/apperror"
	"github.com/user/storeapi-go/tasks"
)

// enqueueTimeout bounds how long registration waits on the task queue.
const enqueueTimeout = 2 * time.Second

// AuthService provides authentication-related services.
type AuthService struct {
	users     UserRepository
	tokens    *TokenManager
	blocklist Blocklist
	queue     tasks.Queue
	log       logrus.FieldLogger
	hashCost  int
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserRepository, tokens *TokenManager, blocklist Blocklist, queue tasks.Queue, log logrus.FieldLogger) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		blocklist: blocklist,
		queue:     queue,
		log:       log,
		hashCost:  bcrypt.DefaultCost,
	}
}

// Register creates a new user and enqueues the welcome email.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	exists, err := s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.NewConflictError("User already exists.", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, apperror.NewValidationError("Request validation failed.", []apperror.FieldError{
			{Field: "password", Message: "Must be at most 72 bytes long.", Type: "maxbytes"},
		})
	}
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	user := &User{Username: req.Username, HashedPassword: string(hashedPassword)}
	if req.Email != "" {
		email := req.Email
		user.Email = &email
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.enqueueWelcome(ctx, user)
	return user, nil
}

// enqueueWelcome is fire-and-forget: the account exists whether or not the email goes out.
func (s *AuthService) enqueueWelcome(ctx context.Context, user *User) {
	log := s.log.WithFields(logrus.Fields{"user_id": user.ID, "task_type": tasks.TypeSendWelcomeEmail})

	task, err := tasks.NewTask(tasks.TypeSendWelcomeEmail, tasks.WelcomeEmailPayload{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.EmailAddress(),
	})
	if err != nil {
		log.WithError(err).Error("failed to build welcome email task")
		return
	}

	// Detach from the request so a client disconnect does not drop the task.
	enqueueCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), enqueueTimeout)
	defer cancel()
	if err := s.queue.Enqueue(enqueueCtx, task); err != nil {
		log.WithError(err).Error("failed to enqueue welcome email")
		return
	}
	log.WithField("task_id", task.ID).Debug("welcome email enqueued")
}

// Login verifies the credentials and returns a fresh access token plus a refresh token.
// Unknown users and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, errInvalidCredentials()
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, errInvalidCredentials()
		}
		return nil, apperror.NewInternalError("failed to verify password", err)
	}

	access, _, err := s.tokens.IssueAccess(user.ID, true)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue access token", err)
	}
	refresh, _, err := s.tokens.IssueRefresh(user.ID)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue refresh token", err)
	}

	s.log.WithField("user_id", user.ID).Info("user logged in")
	return &TokenResponse{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh issues a non-fresh access token for the subject of an already verified
// refresh token. The refresh token itself stays valid.
func (s *AuthService) Refresh(_ context.Context, claims *Claims) (*AccessTokenResponse, error) {
	userID, err := claims.UserID()
	if err != nil {
		return nil, errInvalidToken(err)
	}
	access, _, err := s.tokens.IssueAccess(userID, false)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue access token", err)
	}
	return &AccessTokenResponse{AccessToken: access}, nil
}

// Logout revokes the token described by claims.
func (s *AuthService) Logout(ctx context.Context, claims *Claims) error {
	if err := s.blocklist.Revoke(ctx, claims.ID, claims.ExpiresAtTime()); err != nil {
		return apperror.NewInternalError("failed to revoke token", fmt.Errorf("jti %s: %w", claims.ID, err))
	}
	s.log.WithFields(logrus.Fields{"user_id": claims.Subject, "jti": claims.ID}).Info("user logged out")
	return nil
}

func errInvalidCredentials() error {
	return apperror.NewAuthError("Invalid credentials.", nil).WithCode(apperror.CodeInvalidCredentials)
}

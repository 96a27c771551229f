// Package apperror defines a centralized system for application-specific errors.
// Every handler funnels its failures through AppError so API clients always get the
// same JSON body: a human readable `message` and, where one applies, a stable
// machine-readable `error` code.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType defines the type of application error
type ErrorType int

const (
	// UnknownError is for unspecified errors
	UnknownError ErrorType = iota
	// DatabaseError represents an error originating from the database
	DatabaseError
	// ConfigError represents an error related to application configuration
	ConfigError
	// AuthError represents an authentication error (bad credentials, bad or missing token)
	AuthError
	// UnauthorizedError represents an authorization error (e.g. insufficient permissions)
	UnauthorizedError
	// NotFoundError represents a resource not found error
	NotFoundError
	// ValidationError represents an input validation error
	ValidationError
	// BadRequestError represents a generic bad request
	BadRequestError
	// InternalError represents a generic internal server error
	InternalError
	// ExternalServiceError represents an error from an external service
	ExternalServiceError
	// MigrationError represents an error during database migrations
	MigrationError
	// ConflictError represents a conflict, e.g., resource already exists
	ConflictError
	// RateLimitError represents a client that exceeded its request budget
	RateLimitError
)

// Stable error codes returned in the `error` field of a response body.
const (
	CodeAuthorizationRequired = "authorization_required"
	CodeInvalidToken          = "invalid_token"
	CodeTokenExpired          = "token_expired"
	CodeTokenRevoked          = "token_revoked"
	CodeFreshTokenRequired    = "fresh_token_required"
	CodeAdminRequired         = "admin_required"
	CodeInvalidCredentials    = "invalid_credentials"
	CodeRateLimited           = "rate_limited"
	CodeValidationFailed      = "validation_failed"
)

// AppError is a custom error type for the application.
// It allows wrapping an underlying error (`Err`) for debugging and logging; only
// `Message` and `Code` ever reach the client.
type AppError struct {
	Type    ErrorType
	Code    string
	Message string
	Err     error // Underlying error
	Details []FieldError
}

// FieldError describes one failed field of a validated request body.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Error returns the string representation of the error, satisfying the `error` interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithCode sets the machine-readable code and returns the same error for chaining.
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// StatusCode returns the HTTP status code appropriate for the error type
func (e *AppError) StatusCode() int {
	switch e.Type {
	case DatabaseError:
		return http.StatusInternalServerError
	case ConfigError:
		return http.StatusInternalServerError
	case AuthError:
		return http.StatusUnauthorized
	case UnauthorizedError:
		// 401 is for "who are you?" (AuthError), 403 is for "you may not do this".
		return http.StatusForbidden
	case NotFoundError:
		return http.StatusNotFound
	case ValidationError:
		return http.StatusBadRequest
	case BadRequestError:
		return http.StatusBadRequest
	case InternalError:
		return http.StatusInternalServerError
	case ExternalServiceError:
		return http.StatusBadGateway
	case MigrationError:
		return http.StatusInternalServerError
	case ConflictError:
		return http.StatusConflict
	case RateLimitError:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// NewAppError creates a new AppError. This is a generic constructor.
func NewAppError(errType ErrorType, message string, underlyingError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     underlyingError,
	}
}

// NewDatabaseError creates a new DatabaseError
func NewDatabaseError(message string, underlyingError error) *AppError {
	return NewAppError(DatabaseError, message, underlyingError)
}

// NewConfigError creates a new ConfigError
func NewConfigError(message string, underlyingError error) *AppError {
	return NewAppError(ConfigError, message, underlyingError)
}

// NewAuthError creates a new AuthError (for authentication issues)
func NewAuthError(message string, underlyingError error) *AppError {
	return NewAppError(AuthError, message, underlyingError)
}

// NewUnauthorizedError creates a new UnauthorizedError (for authorization issues)
func NewUnauthorizedError(message string, underlyingError error) *AppError {
	return NewAppError(UnauthorizedError, message, underlyingError)
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(message string, underlyingError error) *AppError {
	return NewAppError(NotFoundError, message, underlyingError)
}

// NewValidationError creates a new ValidationError
func NewValidationError(message string, details []FieldError) *AppError {
	e := NewAppError(ValidationError, message, nil).WithCode(CodeValidationFailed)
	e.Details = details
	return e
}

// NewBadRequestError creates a new BadRequestError
func NewBadRequestError(message string, underlyingError error) *AppError {
	return NewAppError(BadRequestError, message, underlyingError)
}

// NewInternalError creates a new InternalError
func NewInternalError(message string, underlyingError error) *AppError {
	return NewAppError(InternalError, message, underlyingError)
}

// NewExternalServiceError creates a new ExternalServiceError
func NewExternalServiceError(message string, underlyingError error) *AppError {
	return NewAppError(ExternalServiceError, message, underlyingError)
}

// NewMigrationError creates a new MigrationError
func NewMigrationError(message string, underlyingError error) *AppError {
	return NewAppError(MigrationError, message, underlyingError)
}

// NewConflictError creates a new ConflictError
func NewConflictError(message string, underlyingError error) *AppError {
	return NewAppError(ConflictError, message, underlyingError)
}

// NewRateLimitError creates a new RateLimitError
func NewRateLimitError(message string) *AppError {
	return NewAppError(RateLimitError, message, nil).WithCode(CodeRateLimited)
}

// ErrorResponse represents a generic error response payload for API clients.
type ErrorResponse struct {
	Message string       `json:"message" example:"A description of the error"`
	Error   string       `json:"error,omitempty" example:"token_revoked"`
	Details []FieldError `json:"details,omitempty"`
}

// ToResponse converts an AppError to an ErrorResponse suitable for API responses.
// The underlying `Err` is never included.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Message: e.Message, Error: e.Code, Details: e.Details}
}

// FromError attempts to convert a generic error to an *AppError, looking through
// wrapped errors. It returns the *AppError and true if successful, otherwise nil and false.
func FromError(err error) (*AppError, bool) {
	if err == nil {
		return nil, false
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func is(err error, t ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == t
}

// IsNotFound checks if an error is a NotFound error
func IsNotFound(err error) bool { return is(err, NotFoundError) }

// IsAuthError checks if an error is an AuthError (authentication problem)
func IsAuthError(err error) bool { return is(err, AuthError) }

// IsUnauthorizedError checks if an error is an UnauthorizedError (authorization problem)
func IsUnauthorizedError(err error) bool { return is(err, UnauthorizedError) }

// IsValidationError checks if an error is a Validation error
func IsValidationError(err error) bool { return is(err, ValidationError) }

// IsConflictError checks if an error is a Conflict error
func IsConflictError(err error) bool { return is(err, ConflictError) }

// IsBadRequest checks if an error is a BadRequest error
func IsBadRequest(err error) bool { return is(err, BadRequestError) }

// HasCode reports whether err is an AppError carrying the given code.
func HasCode(err error, code string) bool {
	ae, ok := FromError(err)
	return ok && ae.Code == code
}

package auth

// RegisterRequest represents the registration request payload.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=80" example:"alice"`
	Password string `json:"password" validate:"required,maxbytes=72" example:"pw123"`
	Email    string `json:"email,omitempty" validate:"omitempty,email,max=255" example:"alice@example.com"`
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Username string `json:"username" validate:"required" example:"alice"`
	Password string `json:"password" validate:"required" example:"pw123"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken  string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// AccessTokenResponse is returned by /refresh: a new, non-fresh access token only.
type AccessTokenResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

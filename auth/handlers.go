package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/storeapi-go/apperror"
	"github.com/user/storeapi-go/httpx"
)

// Handlers wraps the AuthService to provide HTTP handlers.
type Handlers struct {
	service   *AuthService
	tokens    *TokenManager
	blocklist Blocklist
	limiter   *IPRateLimiter
}

// NewHandlers creates a new Handlers instance. A nil limiter disables login throttling.
func NewHandlers(service *AuthService, tokens *TokenManager, blocklist Blocklist, limiter *IPRateLimiter) *Handlers {
	return &Handlers{service: service, tokens: tokens, blocklist: blocklist, limiter: limiter}
}

// RegisterRoutes mounts /register, /login, /refresh and /logout.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Post("/register", h.HandleRegister())

	r.Group(func(r chi.Router) {
		if h.limiter != nil {
			r.Use(h.limiter.Middleware)
		}
		r.Post("/login", h.HandleLogin())
	})

	r.With(JWTMiddleware(h.tokens, h.blocklist, RefreshToken())).Post("/refresh", h.HandleRefresh())
	r.With(JWTMiddleware(h.tokens, h.blocklist)).Post("/logout", h.HandleLogout())
}

// HandleRegister godoc
// @Summary Register a user
// @Description Creates an account and queues a welcome email.
// @Tags Users
// @Accept json
// @Produce json
// @Param registerBody body auth.RegisterRequest true "User registration details"
// @Success 201 {object} auth.User
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 409 {object} apperror.ErrorResponse "User already exists"
// @Failure 500 {object} apperror.ErrorResponse
// @Router /register [post]
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := httpx.DecodeAndValidate(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		user, err := h.service.Register(r.Context(), req)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, user)
	}
}

// HandleLogin godoc
// @Summary Log in
// @Description Exchanges credentials for a fresh access token and a refresh token.
// @Tags Users
// @Accept json
// @Produce json
// @Param loginBody body auth.LoginRequest true "Credentials"
// @Success 200 {object} auth.TokenResponse
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 401 {object} apperror.ErrorResponse "Invalid credentials"
// @Failure 429 {object} apperror.ErrorResponse
// @Router /login [post]
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := httpx.DecodeAndValidate(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		resp, err := h.service.Login(r.Context(), req)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, resp)
	}
}

// HandleRefresh godoc
// @Summary Refresh the access token
// @Description Issues a non-fresh access token. Send the refresh token as the bearer token.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} auth.AccessTokenResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Router /refresh [post]
func (h *Handlers) HandleRefresh() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			httpx.WriteError(w, r, apperror.NewInternalError("claims missing from context", nil))
			return
		}

		resp, err := h.service.Refresh(r.Context(), claims)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, resp)
	}
}

// HandleLogout godoc
// @Summary Log out
// @Description Revokes the access token used for this request.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} httpx.MessageResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Router /logout [post]
func (h *Handlers) HandleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			httpx.WriteError(w, r, apperror.NewInternalError("claims missing from context", nil))
			return
		}

		if err := h.service.Logout(r.Context(), claims); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteMessage(w, http.StatusOK, "User logged out successfully.")
	}
}

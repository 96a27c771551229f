package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/storeapi-go/auth"
	"github.com/user/storeapi-go/httpx"
)

// UserHandlers provides HTTP handlers for user administration.
type UserHandlers struct {
	service *UserService
}

// NewUserHandlers creates new UserHandlers.
func NewUserHandlers(service *UserService) *UserHandlers {
	return &UserHandlers{service: service}
}

// RegisterRoutes mounts /user/{user_id}. adminOnly guards the delete route.
func (h *UserHandlers) RegisterRoutes(r chi.Router, adminOnly func(http.Handler) http.Handler) {
	r.Get("/user/{user_id}", h.HandleGetUser())
	r.With(adminOnly).Delete("/user/{user_id}", h.HandleDeleteUser())
}

// HandleGetUser godoc
// @Summary Get a user
// @Tags Users
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} users.UserResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /user/{user_id} [get]
func (h *UserHandlers) HandleGetUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.PathID(r, "user_id")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		user, err := h.service.GetUser(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, user)
	}
}

// HandleDeleteUser godoc
// @Summary Delete a user
// @Description Requires an access token carrying is_admin.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Success 200 {object} httpx.MessageResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 403 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /user/{user_id} [delete]
func (h *UserHandlers) HandleDeleteUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.PathID(r, "user_id")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		actorID, _ := auth.UserIDFromContext(r.Context())
		if err := h.service.DeleteUser(r.Context(), id, actorID); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteMessage(w, http.StatusOK, "User deleted.")
	}
}

package users

import (
	"time"

	"github.com/user/storeapi-go/auth"
)

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        int64     `json:"id" example:"1"`
	Username  string    `json:"username" example:"alice"`
	Email     *string   `json:"email,omitempty" example:"alice@example.com"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserResponse(u *auth.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt}
}

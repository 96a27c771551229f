package auth

import "time"

// User is a registered account. The password hash is never serialized.
type User struct {
	ID             int64     `db:"id" json:"id" example:"1"`
	Username       string    `db:"username" json:"username" example:"alice"`
	Email          *string   `db:"email" json:"email,omitempty" example:"alice@example.com"`
	HashedPassword string    `db:"password" json:"-"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// EmailAddress returns the user's email or "" when none was given.
func (u *User) EmailAddress() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}

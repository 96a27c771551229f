package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/user/storeapi-go/apperror"
	"github.com/user/storeapi-go/db"
)

// UserRepository is the persistence port for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Delete(ctx context.Context, id int64) error
}

// SQLUserRepository implements UserRepository on PostgreSQL.
type SQLUserRepository struct {
	db *sqlx.DB
}

func NewSQLUserRepository(db *sqlx.DB) *SQLUserRepository {
	return &SQLUserRepository{db: db}
}

const userColumns = `id, username, email, password, created_at`

// Create inserts the user and fills in ID and CreatedAt. A duplicate username
// that slips past the existence check still surfaces as a conflict.
func (r *SQLUserRepository) Create(ctx context.Context, user *User) error {
	query := `INSERT INTO users (username, email, password)
              VALUES ($1, $2, $3)
              RETURNING id, created_at`
	err := r.db.QueryRowxContext(ctx, query, user.Username, user.Email, user.HashedPassword).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return apperror.NewConflictError("User already exists.", err)
		}
		return apperror.NewDatabaseError("An error occurred while creating the user.", err)
	}
	return nil
}

func (r *SQLUserRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFoundError("User not found.", nil)
	}
	if err != nil {
		return nil, apperror.NewDatabaseError("An error occurred while loading the user.", err)
	}
	return &u, nil
}

func (r *SQLUserRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFoundError("User not found.", nil)
	}
	if err != nil {
		return nil, apperror.NewDatabaseError("An error occurred while loading the user.", err)
	}
	return &u, nil
}

func (r *SQLUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username)
	if err != nil {
		return false, apperror.NewDatabaseError("An error occurred while checking the username.", err)
	}
	return exists, nil
}

func (r *SQLUserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDatabaseError("An error occurred while deleting the user.", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.NewDatabaseError("An error occurred while deleting the user.", err)
	}
	if n == 0 {
		return apperror.NewNotFoundError("User not found.", nil)
	}
	return nil
}

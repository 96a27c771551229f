package auth

import (
	"context"
	"sync"
	"time"

	"github.com/user/storeapi-go/apperror"
	"github.com/user/storeapi-go/config"
	"github.com/user/storeapi-go/tasks"
)

// memUserRepo is an in-memory UserRepository for service and handler tests.
type memUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{nextID: 1, users: make(map[int64]*User)}
}

func (r *memUserRepo) Create(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return apperror.NewConflictError("User already exists.", nil)
		}
	}
	user.ID = r.nextID
	user.CreatedAt = time.Now().UTC()
	r.nextID++
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id int64) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperror.NewNotFoundError("User not found.", nil)
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFoundError("User not found.", nil)
}

func (r *memUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	if apperror.IsNotFound(err) {
		return false, nil
	}
	return err == nil, err
}

func (r *memUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return apperror.NewNotFoundError("User not found.", nil)
	}
	delete(r.users, id)
	return nil
}

// stubQueue lets a test decide what Enqueue returns.
type stubQueue struct {
	enqueueFn func(tasks.Task) error
}

func (q *stubQueue) Enqueue(_ context.Context, task tasks.Task) error {
	if q.enqueueFn != nil {
		return q.enqueueFn(task)
	}
	return nil
}

func (q *stubQueue) Dequeue(context.Context) (tasks.Task, error) {
	return tasks.Task{}, tasks.ErrNoTask
}

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:            "test-secret",
		AccessTokenDuration:  15 * time.Minute,
		RefreshTokenDuration: 720 * time.Hour,
		AdminUserIDs:         []int64{1},
		LoginRateLimit:       100,
		LoginRateBurst:       100,
	}
}

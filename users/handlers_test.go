package users

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/storeapi-go/apperror"
	"github.com/user/storeapi-go/auth"
	"github.com/user/storeapi-go/config"
)

// ---- mock implementations ----

type mockUserRepo struct {
	getByIDFn func(int64) (*auth.User, error)
	deleteFn  func(int64) error
}

func (m *mockUserRepo) Create(context.Context, *auth.User) error { return fmt.Errorf("not configured") }
func (m *mockUserRepo) GetByUsername(context.Context, string) (*auth.User, error) {
	return nil, fmt.Errorf("not configured")
}
func (m *mockUserRepo) ExistsByUsername(context.Context, string) (bool, error) {
	return false, fmt.Errorf("not configured")
}
func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*auth.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(id)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockUserRepo) Delete(_ context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(id)
	}
	return fmt.Errorf("not configured")
}

// ---- helpers ----

func newUsersTestRouter(repo auth.UserRepository) (chi.Router, *auth.TokenManager) {
	log, _ := test.NewNullLogger()
	tokens := auth.NewTokenManager(&config.AuthConfig{
		JWTSecret:            "test-secret",
		AccessTokenDuration:  time.Minute,
		RefreshTokenDuration: time.Hour,
		AdminUserIDs:         []int64{1},
	})
	r := chi.NewRouter()
	NewUserHandlers(NewUserService(repo, log)).
		RegisterRoutes(r, auth.JWTMiddleware(tokens, auth.NewMemoryBlocklist(), auth.Admin()))
	return r, tokens
}

func doRequest(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// ---- tests ----

func TestGetUser(t *testing.T) {
	email := "alice@example.com"
	repo := &mockUserRepo{getByIDFn: func(id int64) (*auth.User, error) {
		if id != 1 {
			return nil, apperror.NewNotFoundError("User not found.", nil)
		}
		return &auth.User{ID: 1, Username: "alice", Email: &email, HashedPassword: "secret-hash"}, nil
	}}
	r, _ := newUsersTestRouter(repo)

	rec := doRequest(r, http.MethodGet, "/user/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret-hash")

	var got UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, email, *got.Email)

	assert.Equal(t, http.StatusNotFound, doRequest(r, http.MethodGet, "/user/2", "").Code)
	assert.Equal(t, http.StatusNotFound, doRequest(r, http.MethodGet, "/user/abc", "").Code)
}

func TestDeleteUserRequiresAdmin(t *testing.T) {
	var deleted []int64
	repo := &mockUserRepo{deleteFn: func(id int64) error {
		if id == 99 {
			return apperror.NewNotFoundError("User not found.", nil)
		}
		deleted = append(deleted, id)
		return nil
	}}
	r, tokens := newUsersTestRouter(repo)

	admin, _, err := tokens.IssueAccess(1, true)
	require.NoError(t, err)
	regular, _, err := tokens.IssueAccess(2, true)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, http.MethodDelete, "/user/2", "").Code)
	assert.Equal(t, http.StatusForbidden, doRequest(r, http.MethodDelete, "/user/2", regular).Code)
	assert.Empty(t, deleted)

	rec := doRequest(r, http.MethodDelete, "/user/2", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"User deleted."}`, rec.Body.String())
	assert.Equal(t, []int64{2}, deleted)

	assert.Equal(t, http.StatusNotFound, doRequest(r, http.MethodDelete, "/user/99", admin).Code)
}

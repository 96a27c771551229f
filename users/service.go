// Package users exposes account lookup and administrative deletion.
package users

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/user/storeapi-go/auth"
)

// UserService provides user administration on top of the auth user repository.
type UserService struct {
	repo auth.UserRepository
	log  logrus.FieldLogger
}

// NewUserService creates a new UserService.
func NewUserService(repo auth.UserRepository, log logrus.FieldLogger) *UserService {
	return &UserService{repo: repo, log: log}
}

// GetUser returns the user or a NotFound error.
func (s *UserService) GetUser(ctx context.Context, id int64) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := newUserResponse(user)
	return &resp, nil
}

// DeleteUser removes the user. actorID is the admin performing the deletion.
func (s *UserService) DeleteUser(ctx context.Context, id, actorID int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"user_id": id, "deleted_by": actorID}).Info("user deleted")
	return nil
}

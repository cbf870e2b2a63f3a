package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sakif/shareit/internal/apperror"
	"github.com/sakif/shareit/internal/model"
	"github.com/sakif/shareit/internal/repository"
)

// UserService manages the user directory.
type UserService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewUserService(store repository.Store, logger *slog.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

// Create registers a user. The email must be unused.
func (s *UserService) Create(ctx context.Context, name, email string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}

	user := &model.User{Name: name, Email: email}
	err := s.store.Atomic(ctx, func(tx repository.Store) error {
		taken, err := tx.Users().EmailTaken(ctx, email, 0)
		if err != nil {
			return err
		}
		if taken {
			return apperror.Duplicate("user", "email", email)
		}
		return tx.Users().Create(ctx, user)
	})
	if err != nil {
		return nil, fail(s.logger, "user", "create user", err)
	}

	s.logger.Info("user created", slog.Int64("id", user.ID))
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, fail(s.logger, "user", "get user", err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, fail(s.logger, "user", "list users", err)
	}
	return users, nil
}

// Update applies a partial update. Changing the email re-checks uniqueness
// against every other user.
func (s *UserService) Update(ctx context.Context, id int64, patch model.UserPatch) (*model.User, error) {
	var user *model.User
	err := s.store.Atomic(ctx, func(tx repository.Store) error {
		var err error
		if user, err = tx.Users().GetByID(ctx, id); err != nil {
			return err
		}

		if patch.Email != nil && *patch.Email != user.Email {
			taken, err := tx.Users().EmailTaken(ctx, *patch.Email, id)
			if err != nil {
				return err
			}
			if taken {
				return apperror.Duplicate("user", "email", *patch.Email)
			}
		}

		patch.Apply(user)
		return tx.Users().Update(ctx, user)
	})
	if err != nil {
		return nil, fail(s.logger, "user", "update user", err)
	}

	s.logger.Info("user updated", slog.Int64("id", id))
	return user, nil
}

// Delete removes the user together with their items, bookings, requests and
// comments.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Users().Delete(ctx, id); err != nil {
		return fail(s.logger, "user", "delete user", err)
	}
	s.logger.Info("user deleted", slog.Int64("id", id))
	return nil
}

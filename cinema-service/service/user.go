package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/arunvm123/cinemabooking/cinema-service/cache"
	"github.com/arunvm123/cinemabooking/cinema-service/model"
	"github.com/arunvm123/cinemabooking/cinema-service/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	*base
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return one(ctx, s.base, cache.UserKey(id), func(ctx context.Context) (*model.User, error) {
		return s.repos.Users.FindByID(ctx, id)
	})
}

func (s *UserService) GetAll(ctx context.Context) ([]model.User, error) {
	return many(ctx, s.base, cache.UsersAllKey(), s.repos.Users.FindAll)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return one(ctx, s.base, cache.UserByUsernameKey(username), func(ctx context.Context) (*model.User, error) {
		return s.repos.Users.FindByUsername(ctx, username)
	})
}

// Create registers a user with a bcrypt hash of password.
func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	user, err := newUser(req)
	if err != nil {
		return nil, err
	}

	if err := s.repos.Users.Save(ctx, &user); err != nil {
		return nil, err
	}

	s.invalidate(s.resolver(ctx).userNode(user))
	s.logger.Info("user created", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return &user, nil
}

// CreateAll registers every user or none of them.
func (s *UserService) CreateAll(ctx context.Context, reqs []model.CreateUserRequest) ([]model.User, error) {
	users := make([]model.User, 0, len(reqs))
	for _, req := range reqs {
		user, err := newUser(req)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := s.repos.Users.SaveAll(ctx, users); err != nil {
		return nil, err
	}

	r := s.resolver(ctx)
	for _, user := range users {
		s.invalidate(r.userNode(user))
	}
	s.logger.Info("users created", zap.Int("count", len(users)))
	return users, nil
}

// Update replaces a user's profile. An empty password keeps the current one.
func (s *UserService) Update(ctx context.Context, id int64, req model.UpdateUserRequest) (*model.User, error) {
	old, err := s.repos.Users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r := s.resolver(ctx)
	before := r.userNode(*old)

	user := *old
	user.Username = req.Username
	user.Email = req.Email
	if req.Password != "" {
		hash, err := hashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.repos.Users.Save(ctx, &user); err != nil {
		return nil, err
	}

	s.invalidate(updated(r.userNode(user), &before))
	s.logger.Info("user updated", zap.Int64("user_id", id))
	return &user, nil
}

// Delete removes the user with their tickets and reviews.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	user, err := s.repos.Users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	node, err := s.resolver(ctx).userTree(*user)
	if err != nil {
		return err
	}

	if err := s.repos.Users.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.invalidate(node)
	s.logger.Info("user deleted", zap.Int64("user_id", id))
	return nil
}

// Login checks the password against the stored hash. It reads the store
// directly so a changed password takes effect at once.
func (s *UserService) Login(ctx context.Context, req model.LoginRequest) (*model.User, error) {
	user, err := s.repos.Users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func newUser(req model.CreateUserRequest) (model.User, error) {
	hash, err := hashPassword(req.Password)
	if err != nil {
		return model.User{}, err
	}
	return model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}, nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: password longer than 72 bytes", ErrInvalidInput)
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

package service

import (
	"context"

	"github.com/mellobo05/diet-ai-recommender/internal/entity"
)

// UserStore is the user store surface the user service needs.
type UserStore interface {
	GetUserByID(ctx context.Context, id int) (*entity.User, error)
	GetUsers(ctx context.Context) ([]*entity.User, error)
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
	SetOnDiet(ctx context.Context, id int, onDiet bool) error
}

type UserService struct {
	repo UserStore
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo UserStore) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) GetUserByID(ctx context.Context, id int) (*entity.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting user by ID %d", id)
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUsers(ctx context.Context) ([]*entity.User, error) {
	users, err := s.repo.GetUsers(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error getting users")
		return nil, err
	}
	return users, nil
}

func (s *UserService) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	createdUser, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating user")
		return nil, err
	}
	return createdUser, nil
}

// SetDietStatus is the administrative override for the on-diet flag. It is
// the only path allowed to unset it; the threshold evaluator never does.
func (s *UserService) SetDietStatus(ctx context.Context, id int, onDiet bool) (*entity.User, error) {
	if err := s.repo.SetOnDiet(ctx, id, onDiet); err != nil {
		logger.Error().Err(err).Msgf("Error setting diet status for user %d", id)
		return nil, err
	}
	return s.repo.GetUserByID(ctx, id)
}

package service

import (
	"context"
	"fmt"

	"github.com/volunthub/volunthub-api/internal/domain"
)

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	Profile(ctx context.Context, id uint) (domain.Profile, error)
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

func (s *UserService) GetProfile(ctx context.Context, id uint) (domain.Profile, error) {
	profile, err := s.repo.Profile(ctx, id)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("s.repo.Profile -> %w", err)
	}

	return profile, nil
}

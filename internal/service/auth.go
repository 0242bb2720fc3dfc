package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/volunthub/volunthub-api/internal/domain"
	"github.com/volunthub/volunthub-api/internal/repository"
	"github.com/volunthub/volunthub-api/internal/reward"
)

var (
	ErrUserEmailExists = repository.ErrUserEmailExists
	ErrUserNotFound    = repository.ErrUserNotFound
	ErrWrongPassword   = errors.New("wrong password")
	ErrInvalidRole     = errors.New("invalid role")
)

// welcomeReference keys the one-time signup bonus; the grant's uniqueness
// makes a retried signup unable to re-credit it.
const welcomeReference = "signup"

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User, welcome *repository.CreditOrder) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

type AuthService struct {
	repo  AuthUserRepository
	rules *reward.Rules
}

func NewAuthService(repo AuthUserRepository, rules *reward.Rules) *AuthService {
	return &AuthService{
		repo:  repo,
		rules: rules,
	}
}

// Signup registers the user and grants the welcome bonus in one unit.
// Only participant and organization accounts self-register.
func (s *AuthService) Signup(ctx context.Context, user domain.User) (domain.User, error) {
	if user.Role != domain.RoleParticipant && user.Role != domain.RoleOrganization {
		return domain.User{}, ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}
	user.Password = string(hash)

	var welcome *repository.CreditOrder
	if rule, ok := s.rules.Lookup(reward.ActionWelcome); ok {
		welcome = &repository.CreditOrder{
			Action:    reward.ActionWelcome,
			Reference: welcomeReference,
			Points:    rule.Points,
			Coins:     rule.Coins,
			LevelSize: s.rules.LevelSize(),
			Badges:    s.rules.Badges(),
		}
	}

	created, err := s.repo.Create(ctx, user, welcome)
	if err != nil {
		if errors.Is(err, repository.ErrUserEmailExists) {
			return domain.User{}, ErrUserEmailExists
		}

		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, ErrWrongPassword
	}

	return user, nil
}

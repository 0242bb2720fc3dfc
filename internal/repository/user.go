package repository

import (
	"context"
	"fmt"

	"github.com/volunthub/volunthub-api/internal/domain"
	"github.com/volunthub/volunthub-api/internal/repository/dao"
)

var (
	ErrUserEmailExists = dao.ErrUserEmailExists
	ErrUserNotFound    = dao.ErrUserNotFound
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User, welcome *dao.CreditSpec) (dao.User, error)
	FindByID(ctx context.Context, id uint) (dao.User, error)
	FindByEmail(ctx context.Context, email string) (dao.User, error)
	FindBadgesByUserID(ctx context.Context, id uint) ([]dao.UserBadge, error)
	FindRegisteredEventIDs(ctx context.Context, id uint) ([]uint, error)
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func userDaoToDomain(u dao.User) domain.User {
	return domain.User{
		ID:        u.ID,
		Email:     u.Email,
		Password:  u.Password,
		Name:      u.Name,
		Role:      u.Role,
		Points:    u.Points,
		Coins:     u.Coins,
		Level:     u.Level,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func badgeDaoToDomain(b dao.UserBadge) domain.EarnedBadge {
	return domain.EarnedBadge{
		BadgeID:    b.BadgeID,
		Name:       b.Name,
		Tier:       b.Tier,
		UnlockedAt: b.UnlockedAt,
	}
}

// Create inserts the user and its welcome bonus as one unit; either both
// persist or neither does.
func (r *UserRepository) Create(ctx context.Context, user domain.User, welcome *CreditOrder) (domain.User, error) {
	var spec *dao.CreditSpec
	if welcome != nil {
		s := creditOrderToSpec(*welcome)
		spec = &s
	}

	created, err := r.dao.Insert(ctx, dao.User{
		Email:    user.Email,
		Password: user.Password,
		Name:     user.Name,
		Role:     user.Role,
		Level:    1,
	}, spec)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return userDaoToDomain(created), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return userDaoToDomain(found), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return userDaoToDomain(found), nil
}

func (r *UserRepository) Profile(ctx context.Context, id uint) (domain.Profile, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	badges, err := r.dao.FindBadgesByUserID(ctx, id)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("r.dao.FindBadgesByUserID -> %w", err)
	}

	eventIDs, err := r.dao.FindRegisteredEventIDs(ctx, id)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("r.dao.FindRegisteredEventIDs -> %w", err)
	}

	profile := domain.Profile{
		User:             userDaoToDomain(found),
		RegisteredEvents: eventIDs,
	}
	for _, b := range badges {
		profile.Badges = append(profile.Badges, badgeDaoToDomain(b))
	}

	return profile, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/volunthub/volunthub-api/internal/domain"
	"github.com/volunthub/volunthub-api/internal/repository/dao"
	"github.com/volunthub/volunthub-api/internal/reward"
)

var (
	ErrDuplicateReward   = dao.ErrDuplicateReward
	ErrInsufficientCoins = dao.ErrInsufficientCoins
)

// CreditOrder is one exactly-once credit as the services express it:
// a rule outcome plus the badge catalog and level arithmetic inputs.
type CreditOrder struct {
	UserID    uint
	Action    reward.Action
	Reference string
	Points    int
	Coins     int

	LevelSize int
	Badges    []reward.Badge

	IgnoreDuplicate bool
}

func creditOrderToSpec(order CreditOrder) dao.CreditSpec {
	badges := make([]dao.BadgeSpec, len(order.Badges))
	for i, b := range order.Badges {
		badges[i] = dao.BadgeSpec{
			ID:        b.ID,
			Name:      b.Name,
			Tier:      b.Tier,
			Threshold: b.Threshold,
		}
	}

	return dao.CreditSpec{
		UserID:          order.UserID,
		Action:          string(order.Action),
		Reference:       order.Reference,
		Points:          order.Points,
		Coins:           order.Coins,
		LevelSize:       order.LevelSize,
		Badges:          badges,
		IgnoreDuplicate: order.IgnoreDuplicate,
	}
}

func creditOutcomeToDomain(outcome dao.CreditOutcome) domain.CreditResult {
	result := domain.CreditResult{
		Points: outcome.Points,
		Coins:  outcome.Coins,
		Level:  outcome.Level,
	}
	for _, b := range outcome.Unlocked {
		result.UnlockedBadges = append(result.UnlockedBadges, domain.EarnedBadge{
			BadgeID:    b.BadgeID,
			Name:       b.Name,
			Tier:       b.Tier,
			UnlockedAt: b.UnlockedAt,
		})
	}

	return result
}

type RewardDAO interface {
	Credit(ctx context.Context, spec dao.CreditSpec) (dao.CreditOutcome, error)
	AwardCoins(ctx context.Context, userID uint, amount int) (dao.User, error)
	SpendCoins(ctx context.Context, userID uint, amount int) (dao.User, error)
	FindGrantsByUserID(ctx context.Context, userID uint) ([]dao.RewardGrant, error)
}

type RewardRepository struct {
	dao RewardDAO
}

func NewRewardRepository(dao RewardDAO) *RewardRepository {
	return &RewardRepository{
		dao: dao,
	}
}

func (r *RewardRepository) Credit(ctx context.Context, order CreditOrder) (domain.CreditResult, error) {
	outcome, err := r.dao.Credit(ctx, creditOrderToSpec(order))
	if err != nil {
		if err == dao.ErrDuplicateReward || err == dao.ErrUserNotFound {
			return domain.CreditResult{}, err
		}

		return domain.CreditResult{}, fmt.Errorf("r.dao.Credit -> %w", err)
	}

	return creditOutcomeToDomain(outcome), nil
}

func (r *RewardRepository) AwardCoins(ctx context.Context, userID uint, amount int) (domain.User, error) {
	user, err := r.dao.AwardCoins(ctx, userID, amount)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.AwardCoins -> %w", err)
	}

	return userDaoToDomain(user), nil
}

func (r *RewardRepository) SpendCoins(ctx context.Context, userID uint, amount int) (domain.User, error) {
	user, err := r.dao.SpendCoins(ctx, userID, amount)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.SpendCoins -> %w", err)
	}

	return userDaoToDomain(user), nil
}

func (r *RewardRepository) GrantsByUserID(ctx context.Context, userID uint) ([]domain.RewardGrant, error) {
	found, err := r.dao.FindGrantsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindGrantsByUserID -> %w", err)
	}

	grants := make([]domain.RewardGrant, len(found))
	for i, g := range found {
		grants[i] = domain.RewardGrant{
			ID:        g.ID,
			UserID:    g.UserID,
			Action:    g.Action,
			Reference: g.Reference,
			Points:    g.Points,
			Coins:     g.Coins,
			CreatedAt: g.CreatedAt,
		}
	}

	return grants, nil
}

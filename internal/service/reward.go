package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/volunthub/volunthub-api/internal/domain"
	"github.com/volunthub/volunthub-api/internal/repository"
	"github.com/volunthub/volunthub-api/internal/reward"
)

var (
	ErrDuplicateReward   = repository.ErrDuplicateReward
	ErrInsufficientCoins = repository.ErrInsufficientCoins
	ErrUnknownAction     = errors.New("unknown reward action")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrNotAdministrator  = errors.New("administrator role required")
)

type RewardLedgerRepository interface {
	Credit(ctx context.Context, order repository.CreditOrder) (domain.CreditResult, error)
	AwardCoins(ctx context.Context, userID uint, amount int) (domain.User, error)
	SpendCoins(ctx context.Context, userID uint, amount int) (domain.User, error)
	GrantsByUserID(ctx context.Context, userID uint) ([]domain.RewardGrant, error)
}

// RewardService is the ledger engine's facade: rule lookup, idempotent
// crediting, coin balance changes. It holds no action-specific branches;
// all policy lives in the rule table.
type RewardService struct {
	repo  RewardLedgerRepository
	rules *reward.Rules
}

func NewRewardService(repo RewardLedgerRepository, rules *reward.Rules) *RewardService {
	return &RewardService{
		repo:  repo,
		rules: rules,
	}
}

// CreditReward credits the rule for action to the user exactly once per
// (action, reference). An empty reference gets a generated one, making
// the grant unconditionally fresh. Requires an administrator caller;
// internal managers credit through their own repositories instead.
func (s *RewardService) CreditReward(ctx context.Context, caller domain.User, userID uint, action reward.Action, reference string) (domain.CreditResult, error) {
	if !caller.IsAdministrator() {
		return domain.CreditResult{}, ErrNotAdministrator
	}

	rule, ok := s.rules.Lookup(action)
	if !ok {
		return domain.CreditResult{}, ErrUnknownAction
	}

	if reference == "" {
		reference = uuid.NewString()
	}

	result, err := s.repo.Credit(ctx, repository.CreditOrder{
		UserID:    userID,
		Action:    action,
		Reference: reference,
		Points:    rule.Points,
		Coins:     rule.Coins,
		LevelSize: s.rules.LevelSize(),
		Badges:    s.rules.Badges(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateReward) {
			return domain.CreditResult{}, ErrDuplicateReward
		}
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.CreditResult{}, ErrUserNotFound
		}

		return domain.CreditResult{}, fmt.Errorf("s.repo.Credit -> %w", err)
	}

	return result, nil
}

func (s *RewardService) AwardCoins(ctx context.Context, caller domain.User, userID uint, amount int) (domain.User, error) {
	if !caller.IsAdministrator() {
		return domain.User{}, ErrNotAdministrator
	}
	if amount <= 0 {
		return domain.User{}, ErrInvalidAmount
	}

	user, err := s.repo.AwardCoins(ctx, userID, amount)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("s.repo.AwardCoins -> %w", err)
	}

	return user, nil
}

// SpendCoins debits the caller's own balance. The balance floor is
// enforced by the store, not here; a concurrent spend cannot slip below
// zero.
func (s *RewardService) SpendCoins(ctx context.Context, caller domain.User, amount int) (domain.User, error) {
	if amount <= 0 {
		return domain.User{}, ErrInvalidAmount
	}

	user, err := s.repo.SpendCoins(ctx, caller.ID, amount)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientCoins) {
			return domain.User{}, ErrInsufficientCoins
		}
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("s.repo.SpendCoins -> %w", err)
	}

	return user, nil
}

func (s *RewardService) GetGrants(ctx context.Context, userID uint) ([]domain.RewardGrant, error) {
	grants, err := s.repo.GrantsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.GrantsByUserID -> %w", err)
	}

	return grants, nil
}

package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volunthub/volunthub-api/internal/domain"
	"github.com/volunthub/volunthub-api/internal/reward"
	"github.com/volunthub/volunthub-api/internal/service"
)

var (
	admin       = domain.User{ID: 99, Role: domain.RoleAdministrator}
	participant = domain.User{ID: 1, Role: domain.RoleParticipant}
)

func TestRewardService_CreditReward(t *testing.T) {
	ctx := context.Background()

	t.Run("requires an administrator", func(t *testing.T) {
		svc := service.NewRewardService(newFakeLedgerRepo(), reward.Default(100))

		_, err := svc.CreditReward(ctx, participant, 1, reward.ActionWelcome, "signup")
		assert.ErrorIs(t, err, service.ErrNotAdministrator)
	})

	t.Run("rejects unknown actions", func(t *testing.T) {
		svc := service.NewRewardService(newFakeLedgerRepo(), reward.Default(100))

		_, err := svc.CreditReward(ctx, admin, 1, reward.Action("referral"), "ref")
		assert.ErrorIs(t, err, service.ErrUnknownAction)
	})

	t.Run("credits once per action and reference", func(t *testing.T) {
		repo := newFakeLedgerRepo()
		svc := service.NewRewardService(repo, reward.Default(100))

		result, err := svc.CreditReward(ctx, admin, 1, reward.ActionEventCompletion, "event:7")
		require.NoError(t, err)
		assert.Equal(t, 100, result.Points)
		assert.Equal(t, 20, result.Coins)
		assert.Equal(t, 2, result.Level)

		_, err = svc.CreditReward(ctx, admin, 1, reward.ActionEventCompletion, "event:7")
		assert.ErrorIs(t, err, service.ErrDuplicateReward)
	})

	t.Run("same reference for a different action credits", func(t *testing.T) {
		repo := newFakeLedgerRepo()
		svc := service.NewRewardService(repo, reward.Default(100))

		_, err := svc.CreditReward(ctx, admin, 1, reward.ActionEventApplication, "event:7")
		require.NoError(t, err)

		result, err := svc.CreditReward(ctx, admin, 1, reward.ActionEventParticipation, "event:7")
		require.NoError(t, err)
		assert.Equal(t, 60, result.Points)
	})

	t.Run("empty reference gets a generated one", func(t *testing.T) {
		repo := newFakeLedgerRepo()
		svc := service.NewRewardService(repo, reward.Default(100))

		_, err := svc.CreditReward(ctx, admin, 1, reward.ActionEventParticipation, "")
		require.NoError(t, err)
		_, err = svc.CreditReward(ctx, admin, 1, reward.ActionEventParticipation, "")
		require.NoError(t, err)

		require.Len(t, repo.orders, 2)
		assert.NotEmpty(t, repo.orders[0].Reference)
		assert.NotEqual(t, repo.orders[0].Reference, repo.orders[1].Reference)
	})

	t.Run("crossing a level boundary raises the level", func(t *testing.T) {
		repo := newFakeLedgerRepo()
		svc := service.NewRewardService(repo, reward.Default(100))

		result, err := svc.CreditReward(ctx, admin, 1, reward.ActionEventParticipation, "event:1")
		require.NoError(t, err)
		assert.Equal(t, 1, result.Level)

		result, err = svc.CreditReward(ctx, admin, 1, reward.ActionEventParticipation, "event:2")
		require.NoError(t, err)
		assert.Equal(t, 100, result.Points)
		assert.Equal(t, 2, result.Level)
	})

	t.Run("badge unlocks exactly once", func(t *testing.T) {
		repo := newFakeLedgerRepo()
		svc := service.NewRewardService(repo, reward.Default(100))

		result, err := svc.CreditReward(ctx, admin, 1, reward.ActionEventParticipation, "event:1")
		require.NoError(t, err)
		require.Len(t, result.UnlockedBadges, 1)
		assert.Equal(t, "first-steps", result.UnlockedBadges[0].BadgeID)

		result, err = svc.CreditReward(ctx, admin, 1, reward.ActionEventParticipation, "event:2")
		require.NoError(t, err)
		require.Len(t, result.UnlockedBadges, 1)
		assert.Equal(t, "helping-hand", result.UnlockedBadges[0].BadgeID)
	})

	t.Run("unknown user is reported", func(t *testing.T) {
		repo := newFakeLedgerRepo()
		repo.missing[42] = true
		svc := service.NewRewardService(repo, reward.Default(100))

		_, err := svc.CreditReward(ctx, admin, 42, reward.ActionWelcome, "signup")
		assert.ErrorIs(t, err, service.ErrUserNotFound)
	})
}

func TestRewardService_AwardCoins(t *testing.T) {
	ctx := context.Background()

	t.Run("requires an administrator", func(t *testing.T) {
		svc := service.NewRewardService(newFakeLedgerRepo(), reward.Default(100))

		_, err := svc.AwardCoins(ctx, participant, 1, 10)
		assert.ErrorIs(t, err, service.ErrNotAdministrator)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		svc := service.NewRewardService(newFakeLedgerRepo(), reward.Default(100))

		_, err := svc.AwardCoins(ctx, admin, 1, 0)
		assert.ErrorIs(t, err, service.ErrInvalidAmount)

		_, err = svc.AwardCoins(ctx, admin, 1, -5)
		assert.ErrorIs(t, err, service.ErrInvalidAmount)
	})

	t.Run("adds to the balance", func(t *testing.T) {
		repo := newFakeLedgerRepo()
		svc := service.NewRewardService(repo, reward.Default(100))

		user, err := svc.AwardCoins(ctx, admin, 1, 30)
		require.NoError(t, err)
		assert.Equal(t, 30, user.Coins)
	})
}

func TestRewardService_SpendCoins(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		svc := service.NewRewardService(newFakeLedgerRepo(), reward.Default(100))

		_, err := svc.SpendCoins(ctx, participant, 0)
		assert.ErrorIs(t, err, service.ErrInvalidAmount)
	})

	t.Run("cannot overdraw the balance", func(t *testing.T) {
		repo := newFakeLedgerRepo()
		repo.coins[participant.ID] = 40
		svc := service.NewRewardService(repo, reward.Default(100))

		_, err := svc.SpendCoins(ctx, participant, 50)
		assert.ErrorIs(t, err, service.ErrInsufficientCoins)

		user, err := svc.SpendCoins(ctx, participant, 40)
		require.NoError(t, err)
		assert.Equal(t, 0, user.Coins)
	})
}

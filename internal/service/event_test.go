package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volunthub/volunthub-api/internal/config"
	"github.com/volunthub/volunthub-api/internal/domain"
	"github.com/volunthub/volunthub-api/internal/repository"
	"github.com/volunthub/volunthub-api/internal/reward"
	"github.com/volunthub/volunthub-api/internal/service"
)

var organization = domain.User{ID: 2, Role: domain.RoleOrganization}

func newEventService(repo *fakeEventRepo) *service.EventService {
	return service.NewEventService(repo, reward.Default(100), &config.RewardsConfig{
		LevelSize:            100,
		ParticipationEnabled: true,
	})
}

func approvedEvent(id, organizerID uint) domain.Event {
	return domain.Event{
		ID:          id,
		OrganizerID: organizerID,
		Title:       "Beach cleanup",
		Status:      domain.EventApproved,
		StartsAt:    time.Now().Add(48 * time.Hour),
	}
}

func TestEventService_CreateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("requires an organization", func(t *testing.T) {
		svc := newEventService(newFakeEventRepo())

		_, err := svc.CreateEvent(ctx, participant, domain.Event{StartsAt: time.Now().Add(time.Hour)})
		assert.ErrorIs(t, err, service.ErrNotOrganization)
	})

	t.Run("rejects past dates", func(t *testing.T) {
		svc := newEventService(newFakeEventRepo())

		_, err := svc.CreateEvent(ctx, organization, domain.Event{StartsAt: time.Now().Add(-time.Hour)})
		assert.ErrorIs(t, err, service.ErrEventDateInPast)
	})

	t.Run("rejects negative capacity", func(t *testing.T) {
		svc := newEventService(newFakeEventRepo())

		_, err := svc.CreateEvent(ctx, organization, domain.Event{
			StartsAt: time.Now().Add(time.Hour),
			Capacity: -1,
		})
		assert.ErrorIs(t, err, service.ErrInvalidCapacity)
	})

	t.Run("new events are pending and owned by the caller", func(t *testing.T) {
		svc := newEventService(newFakeEventRepo())

		event, err := svc.CreateEvent(ctx, organization, domain.Event{
			Title:    "Food drive",
			StartsAt: time.Now().Add(time.Hour),
			Status:   domain.EventApproved, // must be ignored
		})
		require.NoError(t, err)
		assert.Equal(t, domain.EventPending, event.Status)
		assert.Equal(t, organization.ID, event.OrganizerID)
	})
}

func TestEventService_SetEventStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("requires an administrator", func(t *testing.T) {
		repo := newFakeEventRepo(domain.Event{ID: 1, Status: domain.EventPending})
		svc := newEventService(repo)

		_, err := svc.SetEventStatus(ctx, organization, 1, domain.EventApproved, "")
		assert.ErrorIs(t, err, service.ErrNotAdministrator)
	})

	t.Run("target must be approved or rejected", func(t *testing.T) {
		repo := newFakeEventRepo(domain.Event{ID: 1, Status: domain.EventApproved})
		svc := newEventService(repo)

		_, err := svc.SetEventStatus(ctx, admin, 1, domain.EventPending, "")
		assert.ErrorIs(t, err, service.ErrInvalidTransition)
	})

	t.Run("approved events cannot be rejected", func(t *testing.T) {
		repo := newFakeEventRepo(domain.Event{ID: 1, Status: domain.EventApproved})
		svc := newEventService(repo)

		_, err := svc.SetEventStatus(ctx, admin, 1, domain.EventRejected, "changed my mind")
		assert.ErrorIs(t, err, service.ErrInvalidTransition)
	})

	t.Run("rejection records the reason", func(t *testing.T) {
		repo := newFakeEventRepo(domain.Event{ID: 1, Status: domain.EventPending})
		svc := newEventService(repo)

		event, err := svc.SetEventStatus(ctx, admin, 1, domain.EventRejected, "too vague")
		require.NoError(t, err)
		assert.Equal(t, domain.EventRejected, event.Status)
		assert.Equal(t, "too vague", event.RejectReason)
	})

	t.Run("approving a rejected event clears the reason", func(t *testing.T) {
		repo := newFakeEventRepo(domain.Event{
			ID:           1,
			Status:       domain.EventRejected,
			RejectReason: "too vague",
		})
		svc := newEventService(repo)

		event, err := svc.SetEventStatus(ctx, admin, 1, domain.EventApproved, "ignored")
		require.NoError(t, err)
		assert.Equal(t, domain.EventApproved, event.Status)
		assert.Empty(t, event.RejectReason)
	})
}

func TestEventService_Participate(t *testing.T) {
	ctx := context.Background()

	t.Run("passes an idempotent event-keyed credit", func(t *testing.T) {
		repo := newFakeEventRepo(approvedEvent(7, organization.ID))
		svc := newEventService(repo)

		result, err := svc.Participate(ctx, participant, 7)
		require.NoError(t, err)
		assert.Equal(t, 50, result.PointsEarned)

		require.NotNil(t, repo.lastCredit)
		assert.Equal(t, reward.ActionEventParticipation, repo.lastCredit.Action)
		assert.Equal(t, "event:7", repo.lastCredit.Reference)
		assert.True(t, repo.lastCredit.IgnoreDuplicate)
	})

	t.Run("event reward overrides the default rule", func(t *testing.T) {
		event := approvedEvent(7, organization.ID)
		event.RewardPoints = 80
		repo := newFakeEventRepo(event)
		svc := newEventService(repo)

		result, err := svc.Participate(ctx, participant, 7)
		require.NoError(t, err)
		assert.Equal(t, 80, result.PointsEarned)
	})

	t.Run("no credit when participation rewards are disabled", func(t *testing.T) {
		repo := newFakeEventRepo(approvedEvent(7, organization.ID))
		svc := service.NewEventService(repo, reward.Default(100), &config.RewardsConfig{LevelSize: 100})

		result, err := svc.Participate(ctx, participant, 7)
		require.NoError(t, err)
		assert.Zero(t, result.PointsEarned)
		assert.Nil(t, repo.lastCredit)
	})

	t.Run("store errors are mapped", func(t *testing.T) {
		repo := newFakeEventRepo(approvedEvent(7, organization.ID))
		repo.addParticipantFn = func(uint, uint, *repository.CreditOrder) (domain.Event, int, error) {
			return domain.Event{}, 0, repository.ErrEventFull
		}
		svc := newEventService(repo)

		_, err := svc.Participate(ctx, participant, 7)
		assert.ErrorIs(t, err, service.ErrEventFull)

		repo.addParticipantFn = func(uint, uint, *repository.CreditOrder) (domain.Event, int, error) {
			return domain.Event{}, 0, repository.ErrAlreadyParticipant
		}
		_, err = svc.Participate(ctx, participant, 7)
		assert.ErrorIs(t, err, service.ErrAlreadyParticipant)
	})

	t.Run("unknown event", func(t *testing.T) {
		svc := newEventService(newFakeEventRepo())

		_, err := svc.Participate(ctx, participant, 999)
		assert.ErrorIs(t, err, service.ErrEventNotFound)
	})
}

func TestEventService_Leave(t *testing.T) {
	ctx := context.Background()

	repo := newFakeEventRepo(approvedEvent(7, organization.ID))
	repo.removeParticipantFn = func(uint, uint) (domain.Event, error) {
		return domain.Event{}, repository.ErrNotParticipant
	}
	svc := newEventService(repo)

	_, err := svc.Leave(ctx, participant, 7)
	assert.ErrorIs(t, err, service.ErrNotParticipant)
}

func TestEventService_Donate(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		svc := newEventService(newFakeEventRepo(approvedEvent(7, organization.ID)))

		_, err := svc.Donate(ctx, participant, 7, decimal.Zero)
		assert.ErrorIs(t, err, service.ErrInvalidAmount)

		_, err = svc.Donate(ctx, participant, 7, decimal.NewFromInt(-5))
		assert.ErrorIs(t, err, service.ErrInvalidAmount)
	})

	t.Run("credits the donation coins and the first-donation bonus", func(t *testing.T) {
		repo := newFakeEventRepo(approvedEvent(7, organization.ID))
		svc := newEventService(repo)

		_, err := svc.Donate(ctx, participant, 7, decimal.NewFromFloat(12.50))
		require.NoError(t, err)

		require.Len(t, repo.lastCredits, 2)
		assert.Equal(t, reward.ActionDonation, repo.lastCredits[0].Action)
		assert.NotEmpty(t, repo.lastCredits[0].Reference)
		assert.False(t, repo.lastCredits[0].IgnoreDuplicate)

		assert.Equal(t, reward.ActionFirstDonation, repo.lastCredits[1].Action)
		assert.Equal(t, "first", repo.lastCredits[1].Reference)
		assert.True(t, repo.lastCredits[1].IgnoreDuplicate)
	})

	t.Run("two donations carry distinct coin references", func(t *testing.T) {
		repo := newFakeEventRepo(approvedEvent(7, organization.ID))
		svc := newEventService(repo)

		_, err := svc.Donate(ctx, participant, 7, decimal.NewFromInt(5))
		require.NoError(t, err)
		first := repo.lastCredits[0].Reference

		_, err = svc.Donate(ctx, participant, 7, decimal.NewFromInt(5))
		require.NoError(t, err)
		assert.NotEqual(t, first, repo.lastCredits[0].Reference)
	})
}

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volunthub/volunthub-api/internal/domain"
	"github.com/volunthub/volunthub-api/internal/reward"
	"github.com/volunthub/volunthub-api/internal/service"
)

func finishedEvent(id, organizerID uint) domain.Event {
	return domain.Event{
		ID:          id,
		OrganizerID: organizerID,
		Status:      domain.EventApproved,
		StartsAt:    time.Now().Add(-24 * time.Hour),
	}
}

func newCompletionService(repo *fakeCompletionRepo, eventRepo *fakeEventRepo) *service.CompletionService {
	return service.NewCompletionService(repo, eventRepo, reward.Default(100))
}

func TestCompletionService_Request(t *testing.T) {
	ctx := context.Background()

	t.Run("only the owning organization may file", func(t *testing.T) {
		svc := newCompletionService(newFakeCompletionRepo(), newFakeEventRepo(finishedEvent(7, organization.ID)))

		_, err := svc.Request(ctx, participant, 7, "photos")
		assert.ErrorIs(t, err, service.ErrNotEventOrganizer)
	})

	t.Run("event must be approved", func(t *testing.T) {
		event := finishedEvent(7, organization.ID)
		event.Status = domain.EventPending
		svc := newCompletionService(newFakeCompletionRepo(), newFakeEventRepo(event))

		_, err := svc.Request(ctx, organization, 7, "photos")
		assert.ErrorIs(t, err, service.ErrEventNotApproved)
	})

	t.Run("event must have taken place", func(t *testing.T) {
		svc := newCompletionService(newFakeCompletionRepo(), newFakeEventRepo(approvedEvent(7, organization.ID)))

		_, err := svc.Request(ctx, organization, 7, "photos")
		assert.ErrorIs(t, err, service.ErrEventNotFinished)
	})

	t.Run("files a pending request", func(t *testing.T) {
		svc := newCompletionService(newFakeCompletionRepo(), newFakeEventRepo(finishedEvent(7, organization.ID)))

		request, err := svc.Request(ctx, organization, 7, "photos")
		require.NoError(t, err)
		assert.Equal(t, domain.CompletionPending, request.Status)
		assert.Equal(t, organization.ID, request.OrganizerID)
	})
}

func TestCompletionService_Review(t *testing.T) {
	ctx := context.Background()

	pending := domain.CompletionRequest{
		ID:          1,
		EventID:     7,
		OrganizerID: organization.ID,
		Status:      domain.CompletionPending,
	}

	t.Run("requires an administrator", func(t *testing.T) {
		svc := newCompletionService(newFakeCompletionRepo(pending), newFakeEventRepo(finishedEvent(7, organization.ID)))

		_, err := svc.Review(ctx, organization, 1, true, "")
		assert.ErrorIs(t, err, service.ErrNotAdministrator)
	})

	t.Run("approval scores participants with the event reference", func(t *testing.T) {
		repo := newFakeCompletionRepo(pending)
		repo.credited = 3
		svc := newCompletionService(repo, newFakeEventRepo(finishedEvent(7, organization.ID)))

		result, err := svc.Review(ctx, admin, 1, true, "ignored")
		require.NoError(t, err)
		assert.Equal(t, domain.CompletionApproved, result.Request.Status)
		assert.Empty(t, result.Request.RejectReason)
		assert.Equal(t, 3, result.Credited)

		require.NotNil(t, repo.lastScore)
		assert.Equal(t, reward.ActionEventCompletion, repo.lastScore.Action)
		assert.Equal(t, "event:7", repo.lastScore.Reference)
		assert.Equal(t, 100, repo.lastScore.Points)
		assert.Equal(t, 20, repo.lastScore.Coins)
	})

	t.Run("rejection records the reason and scores no one", func(t *testing.T) {
		repo := newFakeCompletionRepo(pending)
		svc := newCompletionService(repo, newFakeEventRepo(finishedEvent(7, organization.ID)))

		result, err := svc.Review(ctx, admin, 1, false, "no evidence")
		require.NoError(t, err)
		assert.Equal(t, domain.CompletionRejected, result.Request.Status)
		assert.Equal(t, "no evidence", result.Request.RejectReason)
		assert.Zero(t, result.Credited)
		assert.Nil(t, repo.lastScore)
	})

	t.Run("reviewed requests are final", func(t *testing.T) {
		repo := newFakeCompletionRepo(pending)
		svc := newCompletionService(repo, newFakeEventRepo(finishedEvent(7, organization.ID)))

		_, err := svc.Review(ctx, admin, 1, false, "no evidence")
		require.NoError(t, err)

		_, err = svc.Review(ctx, admin, 1, true, "")
		assert.ErrorIs(t, err, service.ErrCompletionReviewed)
	})
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/volunthub/volunthub-api/internal/domain"
	"github.com/volunthub/volunthub-api/internal/repository"
	"github.com/volunthub/volunthub-api/internal/reward"
)

var (
	ErrCompletionNotFound = repository.ErrCompletionNotFound
	ErrCompletionReviewed = repository.ErrCompletionReviewed
	ErrEventNotFinished   = errors.New("event has not taken place yet")
)

type CompletionRepository interface {
	Create(ctx context.Context, request domain.CompletionRequest) (domain.CompletionRequest, error)
	FindByID(ctx context.Context, id uint) (domain.CompletionRequest, error)
	ListByEventID(ctx context.Context, eventID uint) ([]domain.CompletionRequest, error)
	Review(ctx context.Context, id uint, status domain.CompletionStatus, rejectReason string, score *repository.CreditOrder) (domain.CompletionRequest, int, error)
}

// CompletionResult reports a settled review and, on approval, how many
// participants the scoring pass credited.
type CompletionResult struct {
	Request  domain.CompletionRequest `json:"request"`
	Credited int                      `json:"credited"`
}

type CompletionService struct {
	repo      CompletionRepository
	eventRepo ApplicationEventRepository
	rules     *reward.Rules
}

func NewCompletionService(repo CompletionRepository, eventRepo ApplicationEventRepository, rules *reward.Rules) *CompletionService {
	return &CompletionService{
		repo:      repo,
		eventRepo: eventRepo,
		rules:     rules,
	}
}

// Request files a completion claim for a finished event, with supporting
// evidence, on behalf of the owning organization.
func (s *CompletionService) Request(ctx context.Context, caller domain.User, eventID uint, evidence string) (domain.CompletionRequest, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.CompletionRequest{}, ErrEventNotFound
		}

		return domain.CompletionRequest{}, fmt.Errorf("s.eventRepo.FindByID -> %w", err)
	}

	if event.OrganizerID != caller.ID {
		return domain.CompletionRequest{}, ErrNotEventOrganizer
	}
	if event.Status != domain.EventApproved {
		return domain.CompletionRequest{}, ErrEventNotApproved
	}
	if !event.Started(time.Now()) {
		return domain.CompletionRequest{}, ErrEventNotFinished
	}

	created, err := s.repo.Create(ctx, domain.CompletionRequest{
		EventID:     eventID,
		OrganizerID: caller.ID,
		Evidence:    evidence,
	})
	if err != nil {
		return domain.CompletionRequest{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *CompletionService) ListForEvent(ctx context.Context, caller domain.User, eventID uint) ([]domain.CompletionRequest, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}

		return nil, fmt.Errorf("s.eventRepo.FindByID -> %w", err)
	}

	if !caller.IsAdministrator() && event.OrganizerID != caller.ID {
		return nil, ErrNotReviewer
	}

	requests, err := s.repo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListByEventID -> %w", err)
	}

	return requests, nil
}

// Review settles a completion request. Approval runs the scoring pass
// that credits every participant, keyed by the event reference so a
// replayed approval cannot double-pay; rejection records the reason and
// credits no one. Reviewed requests are terminal.
func (s *CompletionService) Review(ctx context.Context, caller domain.User, requestID uint, approve bool, rejectReason string) (CompletionResult, error) {
	if !caller.IsAdministrator() {
		return CompletionResult{}, ErrNotAdministrator
	}

	request, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrCompletionNotFound) {
			return CompletionResult{}, ErrCompletionNotFound
		}

		return CompletionResult{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	status := domain.CompletionRejected
	var score *repository.CreditOrder
	if approve {
		status = domain.CompletionApproved
		rejectReason = ""

		if rule, ok := s.rules.Lookup(reward.ActionEventCompletion); ok {
			score = &repository.CreditOrder{
				Action:    reward.ActionEventCompletion,
				Reference: fmt.Sprintf("event:%d", request.EventID),
				Points:    rule.Points,
				Coins:     rule.Coins,
				LevelSize: s.rules.LevelSize(),
				Badges:    s.rules.Badges(),
			}
		}
	}

	reviewed, credited, err := s.repo.Review(ctx, requestID, status, rejectReason, score)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCompletionNotFound):
			return CompletionResult{}, ErrCompletionNotFound
		case errors.Is(err, repository.ErrCompletionReviewed):
			return CompletionResult{}, ErrCompletionReviewed
		}

		return CompletionResult{}, fmt.Errorf("s.repo.Review -> %w", err)
	}

	return CompletionResult{Request: reviewed, Credited: credited}, nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/volunthub/volunthub-api/internal/domain"
	"github.com/volunthub/volunthub-api/internal/repository"
	"github.com/volunthub/volunthub-api/internal/reward"
)

var (
	ErrApplicationExists   = repository.ErrApplicationExists
	ErrApplicationNotFound = repository.ErrApplicationNotFound
	ErrApplicationReviewed = repository.ErrApplicationReviewed
	ErrNotReviewer         = errors.New("owning organization or administrator role required")
)

type ApplicationRepository interface {
	Create(ctx context.Context, application domain.Application, credit *repository.CreditOrder) (domain.Application, error)
	FindByID(ctx context.Context, id uint) (domain.Application, error)
	ListByEventID(ctx context.Context, eventID uint) ([]domain.Application, error)
	ListByApplicantID(ctx context.Context, applicantID uint) ([]domain.Application, error)
	UpdateStatus(ctx context.Context, id uint, status domain.ApplicationStatus) (domain.Application, error)
}

type ApplicationEventRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Event, error)
}

type ApplicationService struct {
	repo      ApplicationRepository
	eventRepo ApplicationEventRepository
	rules     *reward.Rules
}

func NewApplicationService(repo ApplicationRepository, eventRepo ApplicationEventRepository, rules *reward.Rules) *ApplicationService {
	return &ApplicationService{
		repo:      repo,
		eventRepo: eventRepo,
		rules:     rules,
	}
}

// Apply records the caller's application. The insert and the applicant's
// credit share a transaction; the (event, applicant) unique key turns a
// concurrent duplicate into a conflict, and the credit's reference makes
// a retried apply unable to double-credit.
func (s *ApplicationService) Apply(ctx context.Context, caller domain.User, eventID uint, message string) (domain.Application, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.Application{}, ErrEventNotFound
		}

		return domain.Application{}, fmt.Errorf("s.eventRepo.FindByID -> %w", err)
	}
	if event.Status != domain.EventApproved {
		return domain.Application{}, ErrEventNotApproved
	}
	if event.OrganizerID == caller.ID {
		return domain.Application{}, ErrOwnEvent
	}

	var credit *repository.CreditOrder
	if rule, ok := s.rules.Lookup(reward.ActionEventApplication); ok {
		credit = &repository.CreditOrder{
			UserID:    caller.ID,
			Action:    reward.ActionEventApplication,
			Reference: fmt.Sprintf("event:%d", eventID),
			Points:    rule.Points,
			Coins:     rule.Coins,
			LevelSize: s.rules.LevelSize(),
			Badges:    s.rules.Badges(),
		}
	}

	created, err := s.repo.Create(ctx, domain.Application{
		EventID:     eventID,
		ApplicantID: caller.ID,
		Message:     message,
	}, credit)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationExists) {
			return domain.Application{}, ErrApplicationExists
		}

		return domain.Application{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// ListForEvent returns an event's applications to its owning organization
// or an administrator.
func (s *ApplicationService) ListForEvent(ctx context.Context, caller domain.User, eventID uint) ([]domain.Application, error) {
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

	applications, err := s.repo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListByEventID -> %w", err)
	}

	return applications, nil
}

func (s *ApplicationService) ListByApplicant(ctx context.Context, applicantID uint) ([]domain.Application, error) {
	applications, err := s.repo.ListByApplicantID(ctx, applicantID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListByApplicantID -> %w", err)
	}

	return applications, nil
}

// UpdateStatus reviews a pending application. The reviewer must be the
// event's owning organization or an administrator; terminal applications
// are immutable.
func (s *ApplicationService) UpdateStatus(ctx context.Context, caller domain.User, applicationID uint, status domain.ApplicationStatus) (domain.Application, error) {
	if status != domain.ApplicationAccepted && status != domain.ApplicationRejected {
		return domain.Application{}, ErrApplicationReviewed
	}

	application, err := s.repo.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return domain.Application{}, ErrApplicationNotFound
		}

		return domain.Application{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	event, err := s.eventRepo.FindByID(ctx, application.EventID)
	if err != nil {
		return domain.Application{}, fmt.Errorf("s.eventRepo.FindByID -> %w", err)
	}
	if !caller.IsAdministrator() && event.OrganizerID != caller.ID {
		return domain.Application{}, ErrNotReviewer
	}

	updated, err := s.repo.UpdateStatus(ctx, applicationID, status)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrApplicationNotFound):
			return domain.Application{}, ErrApplicationNotFound
		case errors.Is(err, repository.ErrApplicationReviewed):
			return domain.Application{}, ErrApplicationReviewed
		}

		return domain.Application{}, fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	return updated, nil
}

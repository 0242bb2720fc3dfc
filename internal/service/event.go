package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/volunthub/volunthub-api/internal/config"
	"github.com/volunthub/volunthub-api/internal/domain"
	"github.com/volunthub/volunthub-api/internal/repository"
	"github.com/volunthub/volunthub-api/internal/reward"
)

var (
	ErrEventNotFound      = repository.ErrEventNotFound
	ErrEventNotApproved   = repository.ErrEventNotApproved
	ErrEventStarted       = repository.ErrEventStarted
	ErrEventFull          = repository.ErrEventFull
	ErrOwnEvent           = repository.ErrOwnEvent
	ErrAlreadyParticipant = repository.ErrAlreadyParticipant
	ErrNotParticipant     = repository.ErrNotParticipant
	ErrInvalidTransition  = repository.ErrInvalidTransition
	ErrNotOrganization    = errors.New("organization role required")
	ErrNotEventOrganizer  = errors.New("caller does not own this event")
	ErrEventDateInPast    = errors.New("event date must be in the future")
	ErrInvalidCapacity    = errors.New("capacity must not be negative")
)

// firstDonationReference keys the one-time first-donation bonus per user.
const firstDonationReference = "first"

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	ListApproved(ctx context.Context) ([]domain.Event, error)
	ListByOrganizerID(ctx context.Context, organizerID uint) ([]domain.Event, error)
	UpdateStatus(ctx context.Context, eventID uint, from, to domain.EventStatus, rejectReason string) (domain.Event, error)
	AddParticipant(ctx context.Context, eventID, userID uint, credit *repository.CreditOrder) (domain.Event, int, error)
	RemoveParticipant(ctx context.Context, eventID, userID uint) (domain.Event, error)
	RecordDonation(ctx context.Context, donation domain.Donation, credits []repository.CreditOrder) (domain.Donation, error)
}

type EventService struct {
	repo  EventRepository
	rules *reward.Rules
	conf  *config.RewardsConfig
}

func NewEventService(repo EventRepository, rules *reward.Rules, conf *config.RewardsConfig) *EventService {
	return &EventService{
		repo:  repo,
		rules: rules,
		conf:  conf,
	}
}

// CreateEvent publishes a new event in pending status on behalf of an
// organization. Approval is an administrator's call.
func (s *EventService) CreateEvent(ctx context.Context, caller domain.User, event domain.Event) (domain.Event, error) {
	if !caller.IsOrganization() {
		return domain.Event{}, ErrNotOrganization
	}
	if !event.StartsAt.After(time.Now()) {
		return domain.Event{}, ErrEventDateInPast
	}
	if event.Capacity < 0 {
		return domain.Event{}, ErrInvalidCapacity
	}

	event.OrganizerID = caller.ID
	event.Status = domain.EventPending
	event.RejectReason = ""

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *EventService) GetEvent(ctx context.Context, id uint) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.Event{}, ErrEventNotFound
		}

		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return event, nil
}

func (s *EventService) ListApprovedEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.repo.ListApproved(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListApproved -> %w", err)
	}

	return events, nil
}

func (s *EventService) ListEventsByOrganizer(ctx context.Context, organizerID uint) ([]domain.Event, error) {
	events, err := s.repo.ListByOrganizerID(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListByOrganizerID -> %w", err)
	}

	return events, nil
}

// SetEventStatus applies an administrator review. Permitted transitions
// are pending->approved, pending->rejected and rejected->approved;
// re-approval clears any previous rejection reason. The current status
// guards the store update, so concurrent reviews cannot both win.
func (s *EventService) SetEventStatus(ctx context.Context, caller domain.User, eventID uint, status domain.EventStatus, reason string) (domain.Event, error) {
	if !caller.IsAdministrator() {
		return domain.Event{}, ErrNotAdministrator
	}
	if status != domain.EventApproved && status != domain.EventRejected {
		return domain.Event{}, ErrInvalidTransition
	}

	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.Event{}, ErrEventNotFound
		}

		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !event.CanTransition(status) {
		return domain.Event{}, ErrInvalidTransition
	}

	if status == domain.EventApproved {
		reason = ""
	}

	updated, err := s.repo.UpdateStatus(ctx, eventID, event.Status, status, reason)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidTransition) {
			return domain.Event{}, ErrInvalidTransition
		}

		return domain.Event{}, fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	return updated, nil
}

// Participate joins the caller to the event and credits the event's
// configured reward, both in one store transaction. The store re-checks
// every precondition under a row lock, so a race for the last slot
// produces exactly one success.
func (s *EventService) Participate(ctx context.Context, caller domain.User, eventID uint) (domain.ParticipationResult, error) {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.ParticipationResult{}, ErrEventNotFound
		}

		return domain.ParticipationResult{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	var credit *repository.CreditOrder
	if s.conf.ParticipationEnabled {
		points, coins := event.RewardPoints, event.RewardCoins
		if points == 0 && coins == 0 {
			if rule, ok := s.rules.Lookup(reward.ActionEventParticipation); ok {
				points, coins = rule.Points, rule.Coins
			}
		}

		credit = &repository.CreditOrder{
			UserID:    caller.ID,
			Action:    reward.ActionEventParticipation,
			Reference: fmt.Sprintf("event:%d", eventID),
			Points:    points,
			Coins:     coins,
			LevelSize: s.rules.LevelSize(),
			Badges:    s.rules.Badges(),
			// A re-join after leaving finds the old grant; the join still
			// succeeds, it just earns nothing new.
			IgnoreDuplicate: true,
		}
	}

	joined, earned, err := s.repo.AddParticipant(ctx, eventID, caller.ID, credit)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			return domain.ParticipationResult{}, ErrEventNotFound
		case errors.Is(err, repository.ErrEventNotApproved):
			return domain.ParticipationResult{}, ErrEventNotApproved
		case errors.Is(err, repository.ErrEventStarted):
			return domain.ParticipationResult{}, ErrEventStarted
		case errors.Is(err, repository.ErrOwnEvent):
			return domain.ParticipationResult{}, ErrOwnEvent
		case errors.Is(err, repository.ErrAlreadyParticipant):
			return domain.ParticipationResult{}, ErrAlreadyParticipant
		case errors.Is(err, repository.ErrEventFull):
			return domain.ParticipationResult{}, ErrEventFull
		}

		return domain.ParticipationResult{}, fmt.Errorf("s.repo.AddParticipant -> %w", err)
	}

	return domain.ParticipationResult{Event: joined, PointsEarned: earned}, nil
}

// Leave removes the caller from the participant set. The earned reward
// is not clawed back.
func (s *EventService) Leave(ctx context.Context, caller domain.User, eventID uint) (domain.Event, error) {
	event, err := s.repo.RemoveParticipant(ctx, eventID, caller.ID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			return domain.Event{}, ErrEventNotFound
		case errors.Is(err, repository.ErrEventStarted):
			return domain.Event{}, ErrEventStarted
		case errors.Is(err, repository.ErrNotParticipant):
			return domain.Event{}, ErrNotParticipant
		}

		return domain.Event{}, fmt.Errorf("s.repo.RemoveParticipant -> %w", err)
	}

	return event, nil
}

// Donate records a donation against an approved event. The donation row,
// the event's collected total and the donor's credits persist together
// or not at all. The first-donation bonus is idempotent per donor; the
// per-donation coin credit gets a fresh reference every time.
func (s *EventService) Donate(ctx context.Context, caller domain.User, eventID uint, amount decimal.Decimal) (domain.Donation, error) {
	if !amount.IsPositive() {
		return domain.Donation{}, ErrInvalidAmount
	}

	var credits []repository.CreditOrder
	if rule, ok := s.rules.Lookup(reward.ActionDonation); ok {
		credits = append(credits, repository.CreditOrder{
			UserID:    caller.ID,
			Action:    reward.ActionDonation,
			Reference: uuid.NewString(),
			Points:    rule.Points,
			Coins:     rule.Coins,
			LevelSize: s.rules.LevelSize(),
			Badges:    s.rules.Badges(),
		})
	}
	if rule, ok := s.rules.Lookup(reward.ActionFirstDonation); ok {
		credits = append(credits, repository.CreditOrder{
			UserID:          caller.ID,
			Action:          reward.ActionFirstDonation,
			Reference:       firstDonationReference,
			Points:          rule.Points,
			Coins:           rule.Coins,
			LevelSize:       s.rules.LevelSize(),
			Badges:          s.rules.Badges(),
			IgnoreDuplicate: true,
		})
	}

	donation, err := s.repo.RecordDonation(ctx, domain.Donation{
		EventID:   eventID,
		DonorID:   caller.ID,
		Amount:    amount,
		Reference: uuid.NewString(),
	}, credits)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			return domain.Donation{}, ErrEventNotFound
		case errors.Is(err, repository.ErrEventNotApproved):
			return domain.Donation{}, ErrEventNotApproved
		}

		return domain.Donation{}, fmt.Errorf("s.repo.RecordDonation -> %w", err)
	}

	return donation, nil
}

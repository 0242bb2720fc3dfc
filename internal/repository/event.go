package repository

import (
	"context"
	"fmt"

	"github.com/volunthub/volunthub-api/internal/domain"
	"github.com/volunthub/volunthub-api/internal/repository/dao"
)

var (
	ErrEventNotFound      = dao.ErrEventNotFound
	ErrEventNotApproved   = dao.ErrEventNotApproved
	ErrEventStarted       = dao.ErrEventStarted
	ErrEventFull          = dao.ErrEventFull
	ErrOwnEvent           = dao.ErrOwnEvent
	ErrAlreadyParticipant = dao.ErrAlreadyParticipant
	ErrNotParticipant     = dao.ErrNotParticipant
	ErrInvalidTransition  = dao.ErrInvalidTransition
)

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	FindByID(ctx context.Context, id uint) (dao.Event, error)
	FindApproved(ctx context.Context) ([]dao.Event, error)
	FindByOrganizerID(ctx context.Context, organizerID uint) ([]dao.Event, error)
	FindParticipantIDs(ctx context.Context, eventID uint) ([]uint, error)
	UpdateStatus(ctx context.Context, eventID uint, from, to, rejectReason string) (dao.Event, error)
	AddParticipant(ctx context.Context, eventID, userID uint, credit *dao.CreditSpec) (dao.Event, int, error)
	RemoveParticipant(ctx context.Context, eventID, userID uint) (dao.Event, error)
	RecordDonation(ctx context.Context, donation dao.Donation, credits []dao.CreditSpec) (dao.Donation, error)
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) eventDomainToDao(e domain.Event) dao.Event {
	return dao.Event{
		ID:           e.ID,
		OrganizerID:  e.OrganizerID,
		Title:        e.Title,
		Description:  e.Description,
		Location:     e.Location,
		StartsAt:     e.StartsAt,
		Capacity:     e.Capacity,
		RewardPoints: e.RewardPoints,
		RewardCoins:  e.RewardCoins,
		Collected:    e.Collected,
		Status:       string(e.Status),
		RejectReason: e.RejectReason,
	}
}

func (r *EventRepository) eventDaoToDomain(e dao.Event) domain.Event {
	return domain.Event{
		ID:           e.ID,
		OrganizerID:  e.OrganizerID,
		Title:        e.Title,
		Description:  e.Description,
		Location:     e.Location,
		StartsAt:     e.StartsAt,
		Capacity:     e.Capacity,
		RewardPoints: e.RewardPoints,
		RewardCoins:  e.RewardCoins,
		Collected:    e.Collected,
		Status:       domain.EventStatus(e.Status),
		RejectReason: e.RejectReason,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func (r *EventRepository) eventsDaoToDomain(daoEvents []dao.Event) []domain.Event {
	events := make([]domain.Event, len(daoEvents))
	for i, e := range daoEvents {
		events[i] = r.eventDaoToDomain(e)
	}

	return events
}

func (r *EventRepository) donationDaoToDomain(d dao.Donation) domain.Donation {
	return domain.Donation{
		ID:        d.ID,
		EventID:   d.EventID,
		DonorID:   d.DonorID,
		Amount:    d.Amount,
		Reference: d.Reference,
		CreatedAt: d.CreatedAt,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, r.eventDomainToDao(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.eventDaoToDomain(created), nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	event := r.eventDaoToDomain(found)
	event.Participants, err = r.dao.FindParticipantIDs(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindParticipantIDs -> %w", err)
	}

	return event, nil
}

func (r *EventRepository) ListApproved(ctx context.Context) ([]domain.Event, error) {
	found, err := r.dao.FindApproved(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindApproved -> %w", err)
	}

	return r.eventsDaoToDomain(found), nil
}

func (r *EventRepository) ListByOrganizerID(ctx context.Context, organizerID uint) ([]domain.Event, error) {
	found, err := r.dao.FindByOrganizerID(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByOrganizerID -> %w", err)
	}

	return r.eventsDaoToDomain(found), nil
}

func (r *EventRepository) ParticipantIDs(ctx context.Context, eventID uint) ([]uint, error) {
	ids, err := r.dao.FindParticipantIDs(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindParticipantIDs -> %w", err)
	}

	return ids, nil
}

func (r *EventRepository) UpdateStatus(ctx context.Context, eventID uint, from, to domain.EventStatus, rejectReason string) (domain.Event, error) {
	updated, err := r.dao.UpdateStatus(ctx, eventID, string(from), string(to), rejectReason)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return r.eventDaoToDomain(updated), nil
}

func (r *EventRepository) AddParticipant(ctx context.Context, eventID, userID uint, credit *CreditOrder) (domain.Event, int, error) {
	var spec *dao.CreditSpec
	if credit != nil {
		s := creditOrderToSpec(*credit)
		spec = &s
	}

	added, earned, err := r.dao.AddParticipant(ctx, eventID, userID, spec)
	if err != nil {
		return domain.Event{}, 0, fmt.Errorf("r.dao.AddParticipant -> %w", err)
	}

	event := r.eventDaoToDomain(added)
	event.Participants, err = r.dao.FindParticipantIDs(ctx, eventID)
	if err != nil {
		return domain.Event{}, 0, fmt.Errorf("r.dao.FindParticipantIDs -> %w", err)
	}

	return event, earned, nil
}

func (r *EventRepository) RemoveParticipant(ctx context.Context, eventID, userID uint) (domain.Event, error) {
	removed, err := r.dao.RemoveParticipant(ctx, eventID, userID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.RemoveParticipant -> %w", err)
	}

	event := r.eventDaoToDomain(removed)
	event.Participants, err = r.dao.FindParticipantIDs(ctx, eventID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindParticipantIDs -> %w", err)
	}

	return event, nil
}

func (r *EventRepository) RecordDonation(ctx context.Context, donation domain.Donation, credits []CreditOrder) (domain.Donation, error) {
	specs := make([]dao.CreditSpec, len(credits))
	for i, c := range credits {
		specs[i] = creditOrderToSpec(c)
	}

	created, err := r.dao.RecordDonation(ctx, dao.Donation{
		EventID:   donation.EventID,
		DonorID:   donation.DonorID,
		Amount:    donation.Amount,
		Reference: donation.Reference,
	}, specs)
	if err != nil {
		return domain.Donation{}, fmt.Errorf("r.dao.RecordDonation -> %w", err)
	}

	return r.donationDaoToDomain(created), nil
}

package dao

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrEventNotApproved   = errors.New("event is not approved")
	ErrEventStarted       = errors.New("event has already started")
	ErrEventFull          = errors.New("event is full")
	ErrOwnEvent           = errors.New("organizer cannot join own event")
	ErrAlreadyParticipant = errors.New("already a participant")
	ErrNotParticipant     = errors.New("not a participant")
	ErrInvalidTransition  = errors.New("status transition not permitted")
)

type Event struct {
	ID uint `gorm:"primaryKey"`

	OrganizerID uint `gorm:"not null;index"`

	Title       string `gorm:"not null"`
	Description string
	Location    string    `gorm:"not null"`
	StartsAt    time.Time `gorm:"not null"`

	Capacity     int             `gorm:"not null;default:0"` // 0 means unbounded
	RewardPoints int             `gorm:"not null;default:0"`
	RewardCoins  int             `gorm:"not null;default:0"`
	Collected    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`

	Status       string `gorm:"not null;index"`
	RejectReason string

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// EventParticipant's composite primary key is the at-most-one-registration
// invariant; a duplicate join fails on the key, never overwrites.
type EventParticipant struct {
	EventID uint `gorm:"primaryKey;autoIncrement:false"`
	UserID  uint `gorm:"primaryKey;autoIncrement:false"`

	CreatedAt time.Time `gorm:"not null"`
}

type Donation struct {
	ID uint `gorm:"primaryKey"`

	EventID   uint            `gorm:"not null;index"`
	DonorID   uint            `gorm:"not null;index"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Reference string          `gorm:"not null;unique"`

	CreatedAt time.Time `gorm:"not null"`
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Create(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindApproved(ctx context.Context) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).
		Where("status = ?", "approved").
		Order("starts_at").
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) FindByOrganizerID(ctx context.Context, organizerID uint) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).
		Where("organizer_id = ?", organizerID).
		Order("created_at desc").
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) FindParticipantIDs(ctx context.Context, eventID uint) ([]uint, error) {
	var userIDs []uint

	result := d.db.WithContext(ctx).
		Model(&EventParticipant{}).
		Where("event_id = ?", eventID).
		Order("user_id").
		Pluck("user_id", &userIDs)
	if result.Error != nil {
		return nil, result.Error
	}

	return userIDs, nil
}

// UpdateStatus moves the event from exactly the given status to the new
// one. The status guard is part of the UPDATE itself, so two concurrent
// reviews cannot both apply; the loser sees ErrInvalidTransition.
func (d *EventDAO) UpdateStatus(ctx context.Context, eventID uint, from, to, rejectReason string) (Event, error) {
	var event Event

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Event{}).
			Where("id = ? AND status = ?", eventID, from).
			Updates(map[string]interface{}{
				"status":        to,
				"reject_reason": rejectReason,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&Event{}).Where("id = ?", eventID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrEventNotFound
			}

			return ErrInvalidTransition
		}

		return tx.First(&event, eventID).Error
	})
	if err != nil {
		return Event{}, err
	}

	return event, nil
}

// AddParticipant re-validates every join precondition under a row lock on
// the event, inserts the participant and credits the join reward, all in
// one transaction. Two concurrent joins racing for the last slot
// serialize on the lock; exactly one passes the capacity check.
func (d *EventDAO) AddParticipant(ctx context.Context, eventID, userID uint, credit *CreditSpec) (Event, int, error) {
	var (
		event  Event
		earned int
	)

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&event, eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}

			return err
		}

		if event.Status != "approved" {
			return ErrEventNotApproved
		}
		if !event.StartsAt.After(time.Now()) {
			return ErrEventStarted
		}
		if event.OrganizerID == userID {
			return ErrOwnEvent
		}

		var count int64
		if err := tx.Model(&EventParticipant{}).Where("event_id = ?", eventID).Count(&count).Error; err != nil {
			return err
		}
		if event.Capacity > 0 && count >= int64(event.Capacity) {
			return ErrEventFull
		}

		participant := EventParticipant{EventID: eventID, UserID: userID}
		if err := tx.Create(&participant).Error; err != nil {
			if isUniqueViolation(err, "event_participants_pkey") {
				return ErrAlreadyParticipant
			}

			return err
		}

		if credit != nil {
			outcome, err := creditTx(tx, *credit)
			if err != nil {
				return err
			}
			if !outcome.Duplicate {
				earned = credit.Points
			}
		}

		return nil
	})
	if err != nil {
		return Event{}, 0, err
	}

	return event, earned, nil
}

func (d *EventDAO) RemoveParticipant(ctx context.Context, eventID, userID uint) (Event, error) {
	var event Event

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&event, eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}

			return err
		}

		if !event.StartsAt.After(time.Now()) {
			return ErrEventStarted
		}

		result := tx.Where("event_id = ? AND user_id = ?", eventID, userID).Delete(&EventParticipant{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotParticipant
		}

		return nil
	})
	if err != nil {
		return Event{}, err
	}

	return event, nil
}

// RecordDonation inserts the donation, bumps the event's collected total
// and credits the donor, atomically. Either the donation, the total and
// the credits all persist, or none do.
func (d *EventDAO) RecordDonation(ctx context.Context, donation Donation, credits []CreditSpec) (Donation, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&event, donation.EventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}

			return err
		}

		if event.Status != "approved" {
			return ErrEventNotApproved
		}

		if err := tx.Create(&donation).Error; err != nil {
			return err
		}

		result := tx.Model(&Event{}).
			Where("id = ?", donation.EventID).
			Update("collected", gorm.Expr("collected + ?", donation.Amount))
		if result.Error != nil {
			return result.Error
		}

		for _, spec := range credits {
			if _, err := creditTx(tx, spec); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return Donation{}, err
	}

	return donation, nil
}

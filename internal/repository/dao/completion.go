package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrCompletionNotFound = errors.New("completion request not found")
	ErrCompletionReviewed = errors.New("completion request already reviewed")
)

type CompletionRequest struct {
	ID uint `gorm:"primaryKey"`

	EventID     uint `gorm:"not null;index"`
	OrganizerID uint `gorm:"not null"`

	Evidence     string `gorm:"not null"`
	Status       string `gorm:"not null"`
	RejectReason string

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type CompletionDAO struct {
	db *gorm.DB
}

func NewCompletionDAO(db *gorm.DB) *CompletionDAO {
	return &CompletionDAO{
		db: db,
	}
}

func (d *CompletionDAO) Insert(ctx context.Context, request CompletionRequest) (CompletionRequest, error) {
	result := d.db.WithContext(ctx).Create(&request)
	if result.Error != nil {
		return CompletionRequest{}, result.Error
	}

	return request, nil
}

func (d *CompletionDAO) FindByID(ctx context.Context, id uint) (CompletionRequest, error) {
	var request CompletionRequest

	result := d.db.WithContext(ctx).First(&request, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return CompletionRequest{}, ErrCompletionNotFound
		}

		return CompletionRequest{}, result.Error
	}

	return request, nil
}

func (d *CompletionDAO) FindByEventID(ctx context.Context, eventID uint) ([]CompletionRequest, error) {
	var requests []CompletionRequest

	result := d.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at desc").
		Find(&requests)
	if result.Error != nil {
		return nil, result.Error
	}

	return requests, nil
}

// Review settles a pending request. Approval runs the scoring pass inside
// the same transaction, crediting every participant with the spec
// template keyed by the event reference; participants already scored for
// this event are skipped, so a re-run cannot double-pay. Returns how many
// participants were credited.
func (d *CompletionDAO) Review(ctx context.Context, id uint, status, rejectReason string, score *CreditSpec) (CompletionRequest, int, error) {
	var (
		request  CompletionRequest
		credited int
	)

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&request, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCompletionNotFound
			}

			return err
		}

		if request.Status != "pending" {
			return ErrCompletionReviewed
		}

		request.Status = status
		request.RejectReason = rejectReason
		if err := tx.Model(&CompletionRequest{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":        status,
				"reject_reason": rejectReason,
			}).Error; err != nil {
			return err
		}

		if score == nil {
			return nil
		}

		var participantIDs []uint
		if err := tx.Model(&EventParticipant{}).
			Where("event_id = ?", request.EventID).
			Pluck("user_id", &participantIDs).Error; err != nil {
			return err
		}

		for _, userID := range participantIDs {
			spec := *score
			spec.UserID = userID
			spec.IgnoreDuplicate = true

			outcome, err := creditTx(tx, spec)
			if err != nil {
				return err
			}
			if !outcome.Duplicate {
				credited++
			}
		}

		return nil
	})
	if err != nil {
		return CompletionRequest{}, 0, err
	}

	return request, credited, nil
}

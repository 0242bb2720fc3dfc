package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrApplicationExists   = errors.New("application already exists")
	ErrApplicationNotFound = errors.New("application not found")
	ErrApplicationReviewed = errors.New("application already reviewed")
)

// Application's composite unique index closes the check-then-insert race:
// a concurrent duplicate loses on the index and surfaces as a conflict.
type Application struct {
	ID uint `gorm:"primaryKey"`

	EventID     uint `gorm:"not null;uniqueIndex:idx_applications_event_applicant"`
	ApplicantID uint `gorm:"not null;uniqueIndex:idx_applications_event_applicant"`

	Message string
	Status  string `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type ApplicationDAO struct {
	db *gorm.DB
}

func NewApplicationDAO(db *gorm.DB) *ApplicationDAO {
	return &ApplicationDAO{
		db: db,
	}
}

// Insert creates the application and credits the applicant in one
// transaction. A duplicate insert fails with ErrApplicationExists and
// never reports the pre-existing row as success.
func (d *ApplicationDAO) Insert(ctx context.Context, application Application, credit *CreditSpec) (Application, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&application).Error; err != nil {
			if isUniqueViolation(err, "idx_applications_event_applicant") {
				return ErrApplicationExists
			}

			return err
		}

		if credit != nil {
			if _, err := creditTx(tx, *credit); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return Application{}, err
	}

	return application, nil
}

func (d *ApplicationDAO) FindByID(ctx context.Context, id uint) (Application, error) {
	var application Application

	result := d.db.WithContext(ctx).First(&application, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Application{}, ErrApplicationNotFound
		}

		return Application{}, result.Error
	}

	return application, nil
}

func (d *ApplicationDAO) FindByEventID(ctx context.Context, eventID uint) ([]Application, error) {
	var applications []Application

	result := d.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at").
		Find(&applications)
	if result.Error != nil {
		return nil, result.Error
	}

	return applications, nil
}

func (d *ApplicationDAO) FindByApplicantID(ctx context.Context, applicantID uint) ([]Application, error) {
	var applications []Application

	result := d.db.WithContext(ctx).
		Where("applicant_id = ?", applicantID).
		Order("created_at desc").
		Find(&applications)
	if result.Error != nil {
		return nil, result.Error
	}

	return applications, nil
}

// UpdateStatus reviews a pending application. The pending guard rides on
// the UPDATE, so a terminal application is immutable even under
// concurrent reviews.
func (d *ApplicationDAO) UpdateStatus(ctx context.Context, id uint, status string) (Application, error) {
	var application Application

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Application{}).
			Where("id = ? AND status = ?", id, "pending").
			Update("status", status)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&Application{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrApplicationNotFound
			}

			return ErrApplicationReviewed
		}

		return tx.First(&application, id).Error
	})
	if err != nil {
		return Application{}, err
	}

	return application, nil
}

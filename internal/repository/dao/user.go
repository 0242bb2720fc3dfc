package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrUserEmailExists = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
)

type User struct {
	ID uint `gorm:"primaryKey"`

	Email    string `gorm:"unique;not null"`
	Password string `gorm:"not null"`

	Name string `gorm:"not null"`
	Role string `gorm:"not null"` // "participant", "organization" or "administrator"

	Points int `gorm:"not null;default:0"`
	Coins  int `gorm:"not null;default:0"`
	Level  int `gorm:"not null;default:1"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation on the named constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return false
	}

	return pgErr.ConstraintName == constraint || strings.Contains(pgErr.Message, constraint)
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

// Insert creates the user and, when welcome is non-nil, records the
// one-time welcome bonus in the same transaction. The grant's
// (user, action, reference) uniqueness makes a retried signup safe.
func (d *UserDAO) Insert(ctx context.Context, user User, welcome *CreditSpec) (User, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			if isUniqueViolation(err, "uni_users_email") {
				return ErrUserEmailExists
			}

			return err
		}

		if welcome != nil {
			spec := *welcome
			spec.UserID = user.ID
			outcome, err := creditTx(tx, spec)
			if err != nil {
				return err
			}
			user.Points = outcome.Points
			user.Coins = outcome.Coins
			user.Level = outcome.Level
		}

		return nil
	})
	if err != nil {
		return User{}, err
	}

	return user, nil
}

func (d *UserDAO) FindByID(ctx context.Context, id uint) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindBadgesByUserID(ctx context.Context, id uint) ([]UserBadge, error) {
	var badges []UserBadge

	result := d.db.WithContext(ctx).
		Where("user_id = ?", id).
		Order("unlocked_at").
		Find(&badges)
	if result.Error != nil {
		return nil, result.Error
	}

	return badges, nil
}

func (d *UserDAO) FindRegisteredEventIDs(ctx context.Context, id uint) ([]uint, error) {
	var eventIDs []uint

	result := d.db.WithContext(ctx).
		Model(&EventParticipant{}).
		Where("user_id = ?", id).
		Order("event_id").
		Pluck("event_id", &eventIDs)
	if result.Error != nil {
		return nil, result.Error
	}

	return eventIDs, nil
}

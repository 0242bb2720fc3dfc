package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrDuplicateReward   = errors.New("reward already granted for this reference")
	ErrInsufficientCoins = errors.New("insufficient coins")
)

// RewardGrant is append-only. The composite unique index is what makes
// crediting idempotent: a second grant for the same (user, action,
// reference) fails structurally instead of racing an application-level
// check.
type RewardGrant struct {
	ID uint `gorm:"primaryKey"`

	UserID    uint   `gorm:"not null;uniqueIndex:idx_reward_grants_reference"`
	Action    string `gorm:"not null;uniqueIndex:idx_reward_grants_reference"`
	Reference string `gorm:"not null;uniqueIndex:idx_reward_grants_reference"`

	Points int `gorm:"not null"`
	Coins  int `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
}

type UserBadge struct {
	UserID  uint   `gorm:"primaryKey;autoIncrement:false"`
	BadgeID string `gorm:"primaryKey"`

	Name       string    `gorm:"not null"`
	Tier       int       `gorm:"not null"`
	UnlockedAt time.Time `gorm:"not null"`
}

// BadgeSpec mirrors a static badge definition. The catalog is passed in
// by the caller so the DAO stays free of reward policy.
type BadgeSpec struct {
	ID        string
	Name      string
	Tier      int
	Threshold int
}

// CreditSpec describes one exactly-once credit against the ledger.
type CreditSpec struct {
	UserID    uint
	Action    string
	Reference string
	Points    int
	Coins     int

	LevelSize int
	Badges    []BadgeSpec // ascending threshold

	// IgnoreDuplicate turns an existing grant into a zero credit instead
	// of an error, for credits embedded in a larger mutation.
	IgnoreDuplicate bool
}

type CreditOutcome struct {
	Points   int
	Coins    int
	Level    int
	Unlocked []UserBadge

	// Duplicate is set when IgnoreDuplicate swallowed an existing grant.
	Duplicate bool
}

// creditTx applies one CreditSpec inside the caller's transaction: insert
// the grant, bump the locked user row, recompute the level and unlock any
// newly met badges. Partial application is impossible; the transaction
// either commits all of it or none.
func creditTx(tx *gorm.DB, spec CreditSpec) (CreditOutcome, error) {
	grant := RewardGrant{
		UserID:    spec.UserID,
		Action:    spec.Action,
		Reference: spec.Reference,
		Points:    spec.Points,
		Coins:     spec.Coins,
	}
	if err := tx.Create(&grant).Error; err != nil {
		if isUniqueViolation(err, "idx_reward_grants_reference") {
			if spec.IgnoreDuplicate {
				return CreditOutcome{Duplicate: true}, nil
			}

			return CreditOutcome{}, ErrDuplicateReward
		}

		return CreditOutcome{}, err
	}

	var user User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, spec.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CreditOutcome{}, ErrUserNotFound
		}

		return CreditOutcome{}, err
	}

	user.Points += spec.Points
	user.Coins += spec.Coins
	user.Level = user.Points/spec.LevelSize + 1

	err := tx.Model(&User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"points": user.Points,
		"coins":  user.Coins,
		"level":  user.Level,
	}).Error
	if err != nil {
		return CreditOutcome{}, err
	}

	var held []UserBadge
	if err = tx.Where("user_id = ?", user.ID).Find(&held).Error; err != nil {
		return CreditOutcome{}, err
	}
	heldSet := make(map[string]bool, len(held))
	for _, b := range held {
		heldSet[b.BadgeID] = true
	}

	outcome := CreditOutcome{
		Points: user.Points,
		Coins:  user.Coins,
		Level:  user.Level,
	}
	for _, b := range spec.Badges {
		if b.Threshold > user.Points {
			break
		}
		if heldSet[b.ID] {
			continue
		}

		badge := UserBadge{
			UserID:     user.ID,
			BadgeID:    b.ID,
			Name:       b.Name,
			Tier:       b.Tier,
			UnlockedAt: time.Now(),
		}
		if err = tx.Create(&badge).Error; err != nil {
			return CreditOutcome{}, err
		}

		outcome.Unlocked = append(outcome.Unlocked, badge)
	}

	return outcome, nil
}

type RewardDAO struct {
	db *gorm.DB
}

func NewRewardDAO(db *gorm.DB) *RewardDAO {
	return &RewardDAO{
		db: db,
	}
}

func (d *RewardDAO) Credit(ctx context.Context, spec CreditSpec) (CreditOutcome, error) {
	var outcome CreditOutcome

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		outcome, err = creditTx(tx, spec)

		return err
	})
	if err != nil {
		return CreditOutcome{}, err
	}

	return outcome, nil
}

// AwardCoins adds amount to the balance as one conditional UPDATE.
func (d *RewardDAO) AwardCoins(ctx context.Context, userID uint, amount int) (User, error) {
	return d.adjustCoins(ctx, userID, amount, false)
}

// SpendCoins subtracts amount, failing with ErrInsufficientCoins when the
// balance cannot cover it. The balance check and the subtraction are the
// same statement, so the balance can never go negative.
func (d *RewardDAO) SpendCoins(ctx context.Context, userID uint, amount int) (User, error) {
	return d.adjustCoins(ctx, userID, amount, true)
}

func (d *RewardDAO) adjustCoins(ctx context.Context, userID uint, amount int, spend bool) (User, error) {
	var user User

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&User{}).Where("id = ?", userID)
		expr := gorm.Expr("coins + ?", amount)
		if spend {
			query = query.Where("coins >= ?", amount)
			expr = gorm.Expr("coins - ?", amount)
		}

		result := query.Update("coins", expr)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrUserNotFound
			}

			return ErrInsufficientCoins
		}

		return tx.First(&user, userID).Error
	})
	if err != nil {
		return User{}, err
	}

	return user, nil
}

func (d *RewardDAO) FindGrantsByUserID(ctx context.Context, userID uint) ([]RewardGrant, error) {
	var grants []RewardGrant

	result := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&grants)
	if result.Error != nil {
		return nil, result.Error
	}

	return grants, nil
}

package domain

import "time"

// RewardGrant is the idempotency record for a single credited reward.
// At most one grant exists per (user, action, reference).
type RewardGrant struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Action    string    `json:"action"`
	Reference string    `json:"reference"`
	Points    int       `json:"points"`
	Coins     int       `json:"coins"`
	CreatedAt time.Time `json:"created_at"`
}

// CreditResult reports the totals after a credit and any badges the
// credit unlocked.
type CreditResult struct {
	Points         int           `json:"points"`
	Coins          int           `json:"coins"`
	Level          int           `json:"level"`
	UnlockedBadges []EarnedBadge `json:"unlocked_badges"`
}

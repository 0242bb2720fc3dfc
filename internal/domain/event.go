package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type EventStatus string

const (
	EventPending  EventStatus = "pending"
	EventApproved EventStatus = "approved"
	EventRejected EventStatus = "rejected"
)

type Event struct {
	ID           uint            `json:"id"`
	OrganizerID  uint            `json:"organizer_id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Location     string          `json:"location"`
	StartsAt     time.Time       `json:"starts_at"`
	Capacity     int             `json:"capacity"` // 0 means unbounded
	RewardPoints int             `json:"reward_points"`
	RewardCoins  int             `json:"reward_coins"`
	Collected    decimal.Decimal `json:"collected"`
	Status       EventStatus     `json:"status"`
	RejectReason string          `json:"reject_reason,omitempty"`
	Participants []uint          `json:"participants,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (e Event) Started(now time.Time) bool {
	return !e.StartsAt.After(now)
}

// CanTransition reports whether an administrator may move the event from
// its current status to the target. The only permitted transitions are
// pending->approved, pending->rejected and rejected->approved.
func (e Event) CanTransition(target EventStatus) bool {
	switch e.Status {
	case EventPending:
		return target == EventApproved || target == EventRejected
	case EventRejected:
		return target == EventApproved
	default:
		return false
	}
}

// ParticipationResult is what a successful join returns: the event as it
// looks after the join plus the points actually credited.
type ParticipationResult struct {
	Event        Event `json:"event"`
	PointsEarned int   `json:"points_earned"`
}

type Donation struct {
	ID        uint            `json:"id"`
	EventID   uint            `json:"event_id"`
	DonorID   uint            `json:"donor_id"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference"`
	CreatedAt time.Time       `json:"created_at"`
}

package domain

import "time"

type CompletionStatus string

const (
	CompletionPending  CompletionStatus = "pending"
	CompletionApproved CompletionStatus = "approved"
	CompletionRejected CompletionStatus = "rejected"
)

// CompletionRequest is an organization's claim that a finished event took
// place, reviewed by an administrator. Approval triggers the scoring pass
// that credits every participant.
type CompletionRequest struct {
	ID           uint             `json:"id"`
	EventID      uint             `json:"event_id"`
	OrganizerID  uint             `json:"organizer_id"`
	Evidence     string           `json:"evidence"`
	Status       CompletionStatus `json:"status"`
	RejectReason string           `json:"reject_reason,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func (c CompletionRequest) Reviewed() bool {
	return c.Status != CompletionPending
}

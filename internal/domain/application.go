package domain

import "time"

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

type Application struct {
	ID          uint              `json:"id"`
	EventID     uint              `json:"event_id"`
	ApplicantID uint              `json:"applicant_id"`
	Message     string            `json:"message"`
	Status      ApplicationStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Terminal applications are immutable.
func (a Application) Terminal() bool {
	return a.Status == ApplicationAccepted || a.Status == ApplicationRejected
}

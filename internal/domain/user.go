package domain

import "time"

const (
	RoleParticipant   = "participant"
	RoleOrganization  = "organization"
	RoleAdministrator = "administrator"
)

type User struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Points    int       `json:"points"`
	Coins     int       `json:"coins"`
	Level     int       `json:"level"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) IsAdministrator() bool {
	return u.Role == RoleAdministrator
}

func (u User) IsOrganization() bool {
	return u.Role == RoleOrganization
}

// Profile is a user together with everything earned so far.
type Profile struct {
	User
	Badges           []EarnedBadge `json:"badges"`
	RegisteredEvents []uint        `json:"registered_events"`
}

type EarnedBadge struct {
	BadgeID    string    `json:"badge_id"`
	Name       string    `json:"name"`
	Tier       int       `json:"tier"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

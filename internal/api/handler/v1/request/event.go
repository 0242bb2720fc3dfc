package request

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"
)

var errNonPositiveAmount = errors.New("amount must be greater than zero")

type CreateEventRequest struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	StartsAt     time.Time `json:"starts_at"`
	Capacity     int       `json:"capacity"`
	RewardPoints int       `json:"reward_points"`
	RewardCoins  int       `json:"reward_coins"`
}

func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(2, 200)),
		validation.Field(&req.Description, validation.Length(0, 5000)),
		validation.Field(&req.Location, validation.Required, validation.Length(2, 200)),
		validation.Field(&req.StartsAt, validation.Required),
		validation.Field(&req.Capacity, validation.Min(0)),
		validation.Field(&req.RewardPoints, validation.Min(0)),
		validation.Field(&req.RewardCoins, validation.Min(0)),
	)
}

type EventStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

func (req *EventStatusRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.Required, validation.In("approved", "rejected")),
		validation.Field(&req.Reason, validation.Length(0, 1000)),
	)
}

type DonationRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (req *DonationRequest) Validate() error {
	if !req.Amount.IsPositive() {
		return errNonPositiveAmount
	}

	return nil
}

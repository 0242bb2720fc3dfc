package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreditRewardRequest struct {
	UserID    uint   `json:"user_id"`
	Action    string `json:"action"`
	Reference string `json:"reference"`
}

func (req *CreditRewardRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Action, validation.Required),
		validation.Field(&req.Reference, validation.Length(0, 200)),
	)
}

type CoinsRequest struct {
	Amount int `json:"amount"`
}

func (req *CoinsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Amount, validation.Required, validation.Min(1)),
	)
}

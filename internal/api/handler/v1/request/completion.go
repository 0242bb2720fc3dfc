package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CompletionRequest struct {
	Evidence string `json:"evidence"`
}

func (req *CompletionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Evidence, validation.Required, validation.Length(2, 5000)),
	)
}

type ReviewCompletionRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

func (req *ReviewCompletionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.Required, validation.In("approved", "rejected")),
		validation.Field(&req.Reason, validation.Length(0, 1000)),
	)
}

package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type ApplyRequest struct {
	Message string `json:"message"`
}

func (req *ApplyRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Message, validation.Length(0, 2000)),
	)
}

type ApplicationStatusRequest struct {
	Status string `json:"status"`
}

func (req *ApplicationStatusRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.Required, validation.In("accepted", "rejected")),
	)
}

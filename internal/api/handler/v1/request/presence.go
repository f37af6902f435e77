package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type MarkPresenceRequest struct {
	ParticipantID uint   `json:"participant_id"`
	Status        string `json:"status"`
}

func (req *MarkPresenceRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ParticipantID, validation.Required),
		validation.Field(&req.Status, validation.Required, validation.In("PRESENT", "ABSENT", "RETARD")),
	)
}

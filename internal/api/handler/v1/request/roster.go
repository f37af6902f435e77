package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type CreateParticipantRequest struct {
	Nom        string `json:"nom"`
	Prenom     string `json:"prenom"`
	Email      string `json:"email"`
	Entreprise string `json:"entreprise"`
}

func (req *CreateParticipantRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Nom, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Prenom, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Email, validation.Required, is.Email),
	)
}

type CreateEnrollmentRequest struct {
	ParticipantID uint   `json:"participant_id"`
	Statut        string `json:"statut"`
}

func (req *CreateEnrollmentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ParticipantID, validation.Required),
	)
}

type UpdateEnrollmentStatusRequest struct {
	Statut string `json:"statut"`
}

func (req *UpdateEnrollmentStatusRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Statut, validation.Required, validation.Length(1, 50)),
	)
}

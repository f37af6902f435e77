package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

const dateLayout = "2006-01-02"

type CreateFormationRequest struct {
	Intitule      string `json:"intitule"`
	ThemeID       *uint  `json:"theme_id"`
	DateDebut     string `json:"date_debut"`
	DateFin       string `json:"date_fin"`
	Lieu          string `json:"lieu"`
	EffectifPrevu int    `json:"effectif_prevu"`
	DureeJours    int    `json:"duree_jours"`
	DureeHeures   int    `json:"duree_heures"`
}

func (req *CreateFormationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Intitule, validation.Required, validation.Length(2, 200)),
		validation.Field(&req.DateDebut, validation.Required, validation.Date(dateLayout)),
		validation.Field(&req.DateFin, validation.Required, validation.Date(dateLayout)),
		validation.Field(&req.EffectifPrevu, validation.Min(0)),
		validation.Field(&req.DureeJours, validation.Min(0)),
		validation.Field(&req.DureeHeures, validation.Min(0)),
	)
}

func (req *CreateFormationRequest) ParsedDates() (time.Time, time.Time, error) {
	debut, err := time.Parse(dateLayout, req.DateDebut)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	fin, err := time.Parse(dateLayout, req.DateFin)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	return debut, fin, nil
}

type CreateSeanceRequest struct {
	Date        string `json:"date"`
	Heure       string `json:"heure"`
	DureeHeures int    `json:"duree_heures"`
	FormateurID *uint  `json:"formateur_id"`
}

func (req *CreateSeanceRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Date, validation.Required, validation.Date(dateLayout)),
		validation.Field(&req.Heure, validation.Required, validation.Date("15:04")),
		validation.Field(&req.DureeHeures, validation.Required, validation.Min(1), validation.Max(8)),
	)
}

func (req *CreateSeanceRequest) ParsedDate() (time.Time, error) {
	return time.Parse(dateLayout, req.Date)
}

type RescheduleSeanceRequest struct {
	Date  string `json:"date"`
	Heure string `json:"heure"`
}

func (req *RescheduleSeanceRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Date, validation.Required, validation.Date(dateLayout)),
		validation.Field(&req.Heure, validation.Required, validation.Date("15:04")),
	)
}

func (req *RescheduleSeanceRequest) ParsedDate() (time.Time, error) {
	return time.Parse(dateLayout, req.Date)
}

type UpdateSeanceStatusRequest struct {
	Statut string `json:"statut"`
}

func (req *UpdateSeanceStatusRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Statut, validation.Required),
	)
}

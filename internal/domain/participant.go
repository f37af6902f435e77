package domain

import "time"

// Participant is a trainee on the roster. The roster CRUD owns it.
type Participant struct {
	ID         uint      `json:"id"`
	Nom        string    `json:"nom"`
	Prenom     string    `json:"prenom"`
	Email      string    `json:"email"`
	Entreprise string    `json:"entreprise"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Enrollment statut values observed in the wild. The field is free-form; only
// StatutConfirme has meaning to the certification pipeline.
const (
	StatutConfirme     = "Confirmé"
	StatutEnAttente    = "En attente"
	StatutListeAttente = "Liste d'attente"
)

// Enrollment links a participant to a formation. It is the eligibility
// precondition consumed by the certification pipeline.
type Enrollment struct {
	ID              uint      `json:"id"`
	ActionID        uint      `json:"action_id"`
	ParticipantID   uint      `json:"participant_id"`
	Statut          string    `json:"statut"`
	DateInscription time.Time `json:"date_inscription"`
}

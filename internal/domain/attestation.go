package domain

import "time"

// Attestation is an issued certificate for a (participant, formation) pair.
// Immutable once created; at most one exists per pair.
type Attestation struct {
	ID            uint      `json:"id"`
	ParticipantID uint      `json:"participant_id"`
	ActionID      uint      `json:"action_id"`
	DateEmission  time.Time `json:"date_emission"`
	QRCodeRef     string    `json:"qr_code_ref"`
}

// Issue outcomes reported per participant by a generation batch.
const (
	IssueStatusIssued        = "issued"
	IssueStatusAlreadyIssued = "already_issued"
	IssueStatusFailed        = "failed"
)

type IssueOutcome struct {
	ParticipantID uint   `json:"participant_id"`
	Status        string `json:"status"`
	Error         string `json:"error,omitempty"`
}

// AttestationSummary is what a public verification lookup returns.
type AttestationSummary struct {
	ParticipantNom    string    `json:"participant_nom"`
	ParticipantPrenom string    `json:"participant_prenom"`
	Entreprise        string    `json:"entreprise"`
	Intitule          string    `json:"intitule"`
	Lieu              string    `json:"lieu"`
	DateDebut         time.Time `json:"date_debut"`
	DateFin           time.Time `json:"date_fin"`
	DateEmission      time.Time `json:"date_emission"`
}

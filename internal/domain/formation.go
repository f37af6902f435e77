package domain

import "time"

// Formation is a scheduled training offering. The catalog CRUD owns it; the
// scheduling and certification pipeline only reads it and attaches seances.
type Formation struct {
	ID            uint      `json:"id"`
	Intitule      string    `json:"intitule"`
	ThemeID       *uint     `json:"theme_id,omitempty"`
	DateDebut     time.Time `json:"date_debut"`
	DateFin       time.Time `json:"date_fin"`
	Lieu          string    `json:"lieu"`
	EffectifPrevu int       `json:"effectif_prevu"`
	DureeJours    int       `json:"duree_jours"`
	DureeHeures   int       `json:"duree_heures"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

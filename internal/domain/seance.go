package domain

import (
	"fmt"
	"time"
)

type SeanceStatut string

const (
	SeanceEnAttente SeanceStatut = "EN_ATTENTE"
	SeanceEnCours   SeanceStatut = "EN_COURS"
	SeanceTerminee  SeanceStatut = "TERMINEE"
	SeanceAnnulee   SeanceStatut = "ANNULEE"
)

// Valid returns true when the statut is a supported value.
func (s SeanceStatut) Valid() bool {
	switch s {
	case SeanceEnAttente, SeanceEnCours, SeanceTerminee, SeanceAnnulee:
		return true
	default:
		return false
	}
}

// Seance is one dated, timed occurrence of a Formation. Statut is
// operator-set; there is no automatic advance on date arrival.
type Seance struct {
	ID          uint         `json:"id"`
	ActionID    uint         `json:"action_id"`
	Date        time.Time    `json:"date"`
	Heure       string       `json:"heure"`
	DureeHeures int          `json:"duree_heures"`
	Statut      SeanceStatut `json:"statut"`
	FormateurID *uint        `json:"formateur_id,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Interval returns the [start, end) time span the seance occupies.
func (s Seance) Interval() (time.Time, time.Time, error) {
	t, err := time.Parse("15:04", s.Heure)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid heure %q: %w", s.Heure, err)
	}

	start := time.Date(s.Date.Year(), s.Date.Month(), s.Date.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
	end := start.Add(time.Duration(s.DureeHeures) * time.Hour)

	return start, end, nil
}

// Overlaps reports whether two seances occupy intersecting time spans.
func (s Seance) Overlaps(other Seance) (bool, error) {
	aStart, aEnd, err := s.Interval()
	if err != nil {
		return false, err
	}
	bStart, bEnd, err := other.Interval()
	if err != nil {
		return false, err
	}

	return aStart.Before(bEnd) && bStart.Before(aEnd), nil
}

// SeanceEvent is pushed to connected planning views whenever the schedule
// changes.
type SeanceEvent struct {
	Type   string `json:"type"` // "created", "rescheduled", "status_changed" or "deleted"
	Seance Seance `json:"seance"`
}

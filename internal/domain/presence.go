package domain

import "time"

type PresenceStatus string

const (
	PresencePresent PresenceStatus = "PRESENT"
	PresenceAbsent  PresenceStatus = "ABSENT"
	PresenceRetard  PresenceStatus = "RETARD"
)

// Valid returns true when the status is a supported value.
func (s PresenceStatus) Valid() bool {
	switch s {
	case PresencePresent, PresenceAbsent, PresenceRetard:
		return true
	default:
		return false
	}
}

// Presence is one attendance record for a (participant, seance) pair. At most
// one exists per pair; marking again flips the status.
type Presence struct {
	ID            uint           `json:"id"`
	SeanceID      uint           `json:"seance_id"`
	ParticipantID uint           `json:"participant_id"`
	Status        PresenceStatus `json:"status"`
	NotedAt       time.Time      `json:"noted_at"`
	FormateurID   *uint          `json:"formateur_id,omitempty"`
}

// AttendanceEntry joins an enrolled participant with their presence for a
// seance. Presence is nil when the participant has not been marked yet; the
// "unmarked" state is never persisted.
type AttendanceEntry struct {
	Participant Participant `json:"participant"`
	Presence    *Presence   `json:"presence,omitempty"`
}

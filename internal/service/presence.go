package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lbonnet/formatrack-api/internal/domain"
	"github.com/lbonnet/formatrack-api/internal/repository"
)

var (
	ErrParticipantNotEnrolled = errors.New("participant is not enrolled in this formation")
	ErrInvalidPresenceStatus  = errors.New("invalid presence status")
)

type PresencePlanningRepository interface {
	GetSeanceByID(ctx context.Context, id uint) (domain.Seance, error)
	FindPresence(ctx context.Context, seanceID, participantID uint) (domain.Presence, error)
	CreatePresence(ctx context.Context, presence domain.Presence) (domain.Presence, error)
	UpdatePresence(ctx context.Context, presence domain.Presence) (domain.Presence, error)
	ListPresencesBySeance(ctx context.Context, seanceID uint) ([]domain.Presence, error)
}

type PresenceRosterRepository interface {
	FindEnrollment(ctx context.Context, actionID, participantID uint) (domain.Enrollment, error)
	ListEnrollmentsByFormation(ctx context.Context, actionID uint) ([]domain.Enrollment, error)
	ListParticipantsByIDs(ctx context.Context, ids []uint) ([]domain.Participant, error)
}

type PresenceService struct {
	planningRepo PresencePlanningRepository
	rosterRepo   PresenceRosterRepository
	now          func() time.Time
}

func NewPresenceService(planningRepo PresencePlanningRepository, rosterRepo PresenceRosterRepository) *PresenceService {
	return &PresenceService{
		planningRepo: planningRepo,
		rosterRepo:   rosterRepo,
		now:          time.Now,
	}
}

// MarkPresence records a participant's attendance for a seance. Marking is an
// upsert keyed on (seance, participant): the first mark creates the record,
// every later mark flips its status and refreshes the noted_at timestamp, so
// repeated marks never duplicate.
func (s *PresenceService) MarkPresence(ctx context.Context, seanceID, participantID uint, status domain.PresenceStatus, formateurID *uint) (domain.Presence, error) {
	if !status.Valid() {
		return domain.Presence{}, ErrInvalidPresenceStatus
	}

	seance, err := s.planningRepo.GetSeanceByID(ctx, seanceID)
	if err != nil {
		return domain.Presence{}, fmt.Errorf("s.planningRepo.GetSeanceByID -> %w", err)
	}

	if _, err = s.rosterRepo.FindEnrollment(ctx, seance.ActionID, participantID); err != nil {
		if errors.Is(err, repository.ErrEnrollmentNotFound) {
			return domain.Presence{}, ErrParticipantNotEnrolled
		}

		return domain.Presence{}, fmt.Errorf("s.rosterRepo.FindEnrollment -> %w", err)
	}

	existing, err := s.planningRepo.FindPresence(ctx, seanceID, participantID)
	switch {
	case err == nil:
		existing.Status = status
		existing.NotedAt = s.now()
		existing.FormateurID = formateurID

		updated, err := s.planningRepo.UpdatePresence(ctx, existing)
		if err != nil {
			return domain.Presence{}, fmt.Errorf("s.planningRepo.UpdatePresence -> %w", err)
		}

		return updated, nil

	case errors.Is(err, repository.ErrPresenceNotFound):
		created, err := s.planningRepo.CreatePresence(ctx, domain.Presence{
			SeanceID:      seanceID,
			ParticipantID: participantID,
			Status:        status,
			NotedAt:       s.now(),
			FormateurID:   formateurID,
		})
		if err != nil {
			// Lost an insert race against another trainer marking the same
			// participant; the unique index caught it, retry as an update.
			if errors.Is(err, repository.ErrPresenceExists) {
				return s.MarkPresence(ctx, seanceID, participantID, status, formateurID)
			}

			return domain.Presence{}, fmt.Errorf("s.planningRepo.CreatePresence -> %w", err)
		}

		return created, nil

	default:
		return domain.Presence{}, fmt.Errorf("s.planningRepo.FindPresence -> %w", err)
	}
}

// AttendanceSheet lists every participant enrolled in the seance's formation,
// left-joined with their presence. A nil Presence means "unmarked", a state
// that is rendered but never persisted.
func (s *PresenceService) AttendanceSheet(ctx context.Context, seanceID uint) ([]domain.AttendanceEntry, error) {
	seance, err := s.planningRepo.GetSeanceByID(ctx, seanceID)
	if err != nil {
		return nil, fmt.Errorf("s.planningRepo.GetSeanceByID -> %w", err)
	}

	enrollments, err := s.rosterRepo.ListEnrollmentsByFormation(ctx, seance.ActionID)
	if err != nil {
		return nil, fmt.Errorf("s.rosterRepo.ListEnrollmentsByFormation -> %w", err)
	}

	if len(enrollments) == 0 {
		return []domain.AttendanceEntry{}, nil
	}

	ids := make([]uint, len(enrollments))
	for i, e := range enrollments {
		ids[i] = e.ParticipantID
	}

	participants, err := s.rosterRepo.ListParticipantsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("s.rosterRepo.ListParticipantsByIDs -> %w", err)
	}

	presences, err := s.planningRepo.ListPresencesBySeance(ctx, seanceID)
	if err != nil {
		return nil, fmt.Errorf("s.planningRepo.ListPresencesBySeance -> %w", err)
	}

	byParticipant := make(map[uint]domain.Presence, len(presences))
	for _, p := range presences {
		byParticipant[p.ParticipantID] = p
	}

	entries := make([]domain.AttendanceEntry, 0, len(participants))
	for _, participant := range participants {
		entry := domain.AttendanceEntry{Participant: participant}
		if p, ok := byParticipant[participant.ID]; ok {
			presence := p
			entry.Presence = &presence
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

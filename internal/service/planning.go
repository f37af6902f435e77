package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lbonnet/formatrack-api/internal/domain"
	"github.com/lbonnet/formatrack-api/internal/pkg/dateutil"
	"github.com/lbonnet/formatrack-api/internal/repository"
)

var (
	ErrFormationNotFound    = repository.ErrFormationNotFound
	ErrSeanceNotFound       = repository.ErrSeanceNotFound
	ErrDateOutsideFormation = errors.New("seance date is outside the formation date range")
	ErrInvalidDuration      = errors.New("seance duration must be between 1 and 8 hours")
	ErrInvalidHeure         = errors.New("seance start time must be in HH:MM format")
	ErrInvalidStatut        = errors.New("invalid seance statut")
	ErrTrainerConflict      = errors.New("trainer already has an overlapping seance")
)

// The UI caps duration at 1-8h as a sanity bound, not a hard domain rule.
const (
	minSeanceHours = 1
	maxSeanceHours = 8
)

type PlanningRepository interface {
	CreateFormation(ctx context.Context, formation domain.Formation) (domain.Formation, error)
	GetFormationByID(ctx context.Context, id uint) (domain.Formation, error)
	ListFormations(ctx context.Context) ([]domain.Formation, error)
	CreateSeance(ctx context.Context, seance domain.Seance) (domain.Seance, error)
	GetSeanceByID(ctx context.Context, id uint) (domain.Seance, error)
	UpdateSeance(ctx context.Context, seance domain.Seance) (domain.Seance, error)
	UpdateSeanceStatut(ctx context.Context, seanceID uint, statut domain.SeanceStatut) error
	DeleteSeance(ctx context.Context, seanceID uint) error
	ListSeancesByFormation(ctx context.Context, formationID uint) ([]domain.Seance, error)
	ListSeancesByFormateurAndDate(ctx context.Context, formateurID uint, date time.Time) ([]domain.Seance, error)
}

// EventPublisher pushes schedule changes to connected planning views. A nil
// publisher is valid and turns publishing into a no-op.
type EventPublisher interface {
	PublishSeanceEvent(event domain.SeanceEvent)
}

type PlanningService struct {
	repo      PlanningRepository
	publisher EventPublisher
}

func NewPlanningService(repo PlanningRepository, publisher EventPublisher) *PlanningService {
	return &PlanningService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *PlanningService) CreateFormation(ctx context.Context, formation domain.Formation) (domain.Formation, error) {
	if formation.DateDebut.After(formation.DateFin) {
		return domain.Formation{}, dateutil.ErrInvalidRange
	}

	created, err := s.repo.CreateFormation(ctx, formation)
	if err != nil {
		return domain.Formation{}, fmt.Errorf("s.repo.CreateFormation -> %w", err)
	}

	return created, nil
}

func (s *PlanningService) GetFormation(ctx context.Context, id uint) (domain.Formation, error) {
	formation, err := s.repo.GetFormationByID(ctx, id)
	if err != nil {
		return domain.Formation{}, fmt.Errorf("s.repo.GetFormationByID -> %w", err)
	}

	return formation, nil
}

func (s *PlanningService) ListFormations(ctx context.Context) ([]domain.Formation, error) {
	formations, err := s.repo.ListFormations(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListFormations -> %w", err)
	}

	return formations, nil
}

// SchedulableDates returns every day a seance of the formation may be placed
// on, driving the date picker.
func (s *PlanningService) SchedulableDates(ctx context.Context, formationID uint) ([]time.Time, error) {
	formation, err := s.repo.GetFormationByID(ctx, formationID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.GetFormationByID -> %w", err)
	}

	days, err := dateutil.DatesBetween(formation.DateDebut, formation.DateFin)
	if err != nil {
		return nil, fmt.Errorf("dateutil.DatesBetween -> %w", err)
	}

	return days, nil
}

func (s *PlanningService) ListSeances(ctx context.Context, formationID uint) ([]domain.Seance, error) {
	if _, err := s.repo.GetFormationByID(ctx, formationID); err != nil {
		return nil, fmt.Errorf("s.repo.GetFormationByID -> %w", err)
	}

	seances, err := s.repo.ListSeancesByFormation(ctx, formationID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListSeancesByFormation -> %w", err)
	}

	return seances, nil
}

func (s *PlanningService) CreateSeance(ctx context.Context, formationID uint, date time.Time, heure string, dureeHeures int, formateurID *uint) (domain.Seance, error) {
	formation, err := s.repo.GetFormationByID(ctx, formationID)
	if err != nil {
		return domain.Seance{}, fmt.Errorf("s.repo.GetFormationByID -> %w", err)
	}

	seance := domain.Seance{
		ActionID:    formationID,
		Date:        dateutil.Day(date),
		Heure:       heure,
		DureeHeures: dureeHeures,
		Statut:      domain.SeanceEnAttente,
		FormateurID: formateurID,
	}

	if err = s.validateSeance(ctx, formation, seance, 0); err != nil {
		return domain.Seance{}, err
	}

	created, err := s.repo.CreateSeance(ctx, seance)
	if err != nil {
		return domain.Seance{}, fmt.Errorf("s.repo.CreateSeance -> %w", err)
	}

	s.publish(domain.SeanceEvent{Type: "created", Seance: created})

	return created, nil
}

// RescheduleSeance moves a seance to a new day and/or start time. Statut is
// left untouched.
func (s *PlanningService) RescheduleSeance(ctx context.Context, seanceID uint, newDate time.Time, newHeure string) (domain.Seance, error) {
	seance, err := s.repo.GetSeanceByID(ctx, seanceID)
	if err != nil {
		return domain.Seance{}, fmt.Errorf("s.repo.GetSeanceByID -> %w", err)
	}

	formation, err := s.repo.GetFormationByID(ctx, seance.ActionID)
	if err != nil {
		return domain.Seance{}, fmt.Errorf("s.repo.GetFormationByID -> %w", err)
	}

	seance.Date = dateutil.Day(newDate)
	seance.Heure = newHeure

	if err = s.validateSeance(ctx, formation, seance, seance.ID); err != nil {
		return domain.Seance{}, err
	}

	updated, err := s.repo.UpdateSeance(ctx, seance)
	if err != nil {
		return domain.Seance{}, fmt.Errorf("s.repo.UpdateSeance -> %w", err)
	}

	s.publish(domain.SeanceEvent{Type: "rescheduled", Seance: updated})

	return updated, nil
}

// SetSeanceStatus is the single entry point for statut changes. Any statut
// may be set to any other; only membership in the enum is checked, so a
// stricter transition table can later be added here without touching callers.
func (s *PlanningService) SetSeanceStatus(ctx context.Context, seanceID uint, statut domain.SeanceStatut) (domain.Seance, error) {
	if !statut.Valid() {
		return domain.Seance{}, ErrInvalidStatut
	}

	if _, err := s.repo.GetSeanceByID(ctx, seanceID); err != nil {
		return domain.Seance{}, fmt.Errorf("s.repo.GetSeanceByID -> %w", err)
	}

	if err := s.repo.UpdateSeanceStatut(ctx, seanceID, statut); err != nil {
		return domain.Seance{}, fmt.Errorf("s.repo.UpdateSeanceStatut -> %w", err)
	}

	updated, err := s.repo.GetSeanceByID(ctx, seanceID)
	if err != nil {
		return domain.Seance{}, fmt.Errorf("s.repo.GetSeanceByID -> %w", err)
	}

	s.publish(domain.SeanceEvent{Type: "status_changed", Seance: updated})

	return updated, nil
}

// DeleteSeance removes the seance together with its presences.
func (s *PlanningService) DeleteSeance(ctx context.Context, seanceID uint) error {
	seance, err := s.repo.GetSeanceByID(ctx, seanceID)
	if err != nil {
		return fmt.Errorf("s.repo.GetSeanceByID -> %w", err)
	}

	if err = s.repo.DeleteSeance(ctx, seanceID); err != nil {
		return fmt.Errorf("s.repo.DeleteSeance -> %w", err)
	}

	s.publish(domain.SeanceEvent{Type: "deleted", Seance: seance})

	return nil
}

func (s *PlanningService) validateSeance(ctx context.Context, formation domain.Formation, seance domain.Seance, excludeID uint) error {
	if seance.DureeHeures < minSeanceHours || seance.DureeHeures > maxSeanceHours {
		return ErrInvalidDuration
	}

	if _, err := time.Parse("15:04", seance.Heure); err != nil {
		return ErrInvalidHeure
	}

	if !dateutil.WithinRange(seance.Date, formation.DateDebut, formation.DateFin) {
		return ErrDateOutsideFormation
	}

	if seance.FormateurID != nil {
		if err := s.checkTrainerConflict(ctx, seance, excludeID); err != nil {
			return err
		}
	}

	return nil
}

// checkTrainerConflict rejects a create/reschedule that would give the same
// trainer two intersecting seances on the same day.
func (s *PlanningService) checkTrainerConflict(ctx context.Context, seance domain.Seance, excludeID uint) error {
	existing, err := s.repo.ListSeancesByFormateurAndDate(ctx, *seance.FormateurID, seance.Date)
	if err != nil {
		return fmt.Errorf("s.repo.ListSeancesByFormateurAndDate -> %w", err)
	}

	for _, other := range existing {
		if other.ID == excludeID {
			continue
		}
		if other.Statut == domain.SeanceAnnulee {
			continue
		}

		overlaps, err := seance.Overlaps(other)
		if err != nil {
			zap.L().Warn("skipping overlap check against seance with unparseable heure",
				zap.Uint("seance_id", other.ID),
				zap.Error(err))
			continue
		}
		if overlaps {
			return ErrTrainerConflict
		}
	}

	return nil
}

func (s *PlanningService) publish(event domain.SeanceEvent) {
	if s.publisher != nil {
		s.publisher.PublishSeanceEvent(event)
	}
}

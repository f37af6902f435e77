package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lbonnet/formatrack-api/internal/domain"
)

type RosterRepository interface {
	CreateParticipant(ctx context.Context, participant domain.Participant) (domain.Participant, error)
	CreateEnrollment(ctx context.Context, enrollment domain.Enrollment) (domain.Enrollment, error)
	GetEnrollmentByID(ctx context.Context, id uint) (domain.Enrollment, error)
	UpdateEnrollmentStatut(ctx context.Context, enrollmentID uint, statut string) error
}

type RosterFormationRepository interface {
	GetFormationByID(ctx context.Context, id uint) (domain.Formation, error)
}

// RosterService is the thin boundary over participants and enrollments. It
// exists so the attendance and certification pipeline has members to work
// with; the richer roster management lives elsewhere.
type RosterService struct {
	repo          RosterRepository
	formationRepo RosterFormationRepository
	now           func() time.Time
}

func NewRosterService(repo RosterRepository, formationRepo RosterFormationRepository) *RosterService {
	return &RosterService{
		repo:          repo,
		formationRepo: formationRepo,
		now:           time.Now,
	}
}

func (s *RosterService) CreateParticipant(ctx context.Context, participant domain.Participant) (domain.Participant, error) {
	created, err := s.repo.CreateParticipant(ctx, participant)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("s.repo.CreateParticipant -> %w", err)
	}

	return created, nil
}

// Enroll registers a participant on a formation. Statut is free-form;
// an empty value defaults to "En attente".
func (s *RosterService) Enroll(ctx context.Context, formationID, participantID uint, statut string) (domain.Enrollment, error) {
	if _, err := s.formationRepo.GetFormationByID(ctx, formationID); err != nil {
		return domain.Enrollment{}, fmt.Errorf("s.formationRepo.GetFormationByID -> %w", err)
	}

	if statut == "" {
		statut = domain.StatutEnAttente
	}

	created, err := s.repo.CreateEnrollment(ctx, domain.Enrollment{
		ActionID:        formationID,
		ParticipantID:   participantID,
		Statut:          statut,
		DateInscription: s.now(),
	})
	if err != nil {
		return domain.Enrollment{}, fmt.Errorf("s.repo.CreateEnrollment -> %w", err)
	}

	return created, nil
}

func (s *RosterService) UpdateEnrollmentStatut(ctx context.Context, enrollmentID uint, statut string) (domain.Enrollment, error) {
	if _, err := s.repo.GetEnrollmentByID(ctx, enrollmentID); err != nil {
		return domain.Enrollment{}, fmt.Errorf("s.repo.GetEnrollmentByID -> %w", err)
	}

	if err := s.repo.UpdateEnrollmentStatut(ctx, enrollmentID, statut); err != nil {
		return domain.Enrollment{}, fmt.Errorf("s.repo.UpdateEnrollmentStatut -> %w", err)
	}

	updated, err := s.repo.GetEnrollmentByID(ctx, enrollmentID)
	if err != nil {
		return domain.Enrollment{}, fmt.Errorf("s.repo.GetEnrollmentByID -> %w", err)
	}

	return updated, nil
}

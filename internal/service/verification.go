package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/lbonnet/formatrack-api/internal/domain"
)

type VerificationRepository interface {
	GetParticipantByID(ctx context.Context, id uint) (domain.Participant, error)
	FindLatestAttestationByParticipant(ctx context.Context, participantID uint) (domain.Attestation, error)
}

type VerificationFormationRepository interface {
	GetFormationByID(ctx context.Context, id uint) (domain.Formation, error)
}

// VerificationService resolves QR tokens scanned off printed certificates.
// It is served unauthenticated, so the only errors it distinguishes are
// "valid" and "not found": a malformed token and an unknown participant
// look the same to the caller.
type VerificationService struct {
	repo          VerificationRepository
	formationRepo VerificationFormationRepository
}

func NewVerificationService(repo VerificationRepository, formationRepo VerificationFormationRepository) *VerificationService {
	return &VerificationService{
		repo:          repo,
		formationRepo: formationRepo,
	}
}

// ParseVerificationToken extracts the participant id from a "p<id>" token.
func ParseVerificationToken(token string) (uint, bool) {
	raw, found := strings.CutPrefix(token, "p")
	if !found || raw == "" {
		return 0, false
	}

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}

	return uint(id), true
}

// Resolve looks up the most recently issued attestation behind the token and
// returns the public summary printed on the verification page.
func (s *VerificationService) Resolve(ctx context.Context, token string) (domain.AttestationSummary, error) {
	participantID, ok := ParseVerificationToken(token)
	if !ok {
		return domain.AttestationSummary{}, ErrAttestationNotFound
	}

	attestation, err := s.repo.FindLatestAttestationByParticipant(ctx, participantID)
	if err != nil {
		return domain.AttestationSummary{}, fmt.Errorf("s.repo.FindLatestAttestationByParticipant -> %w", err)
	}

	participant, err := s.repo.GetParticipantByID(ctx, attestation.ParticipantID)
	if err != nil {
		return domain.AttestationSummary{}, fmt.Errorf("s.repo.GetParticipantByID -> %w", err)
	}

	formation, err := s.formationRepo.GetFormationByID(ctx, attestation.ActionID)
	if err != nil {
		return domain.AttestationSummary{}, fmt.Errorf("s.formationRepo.GetFormationByID -> %w", err)
	}

	return domain.AttestationSummary{
		ParticipantNom:    participant.Nom,
		ParticipantPrenom: participant.Prenom,
		Entreprise:        participant.Entreprise,
		Intitule:          formation.Intitule,
		Lieu:              formation.Lieu,
		DateDebut:         formation.DateDebut,
		DateFin:           formation.DateFin,
		DateEmission:      attestation.DateEmission,
	}, nil
}

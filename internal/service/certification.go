package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lbonnet/formatrack-api/internal/config"
	"github.com/lbonnet/formatrack-api/internal/domain"
	"github.com/lbonnet/formatrack-api/internal/pkg/certificate"
	"github.com/lbonnet/formatrack-api/internal/repository"
)

var (
	ErrParticipantNotFound = repository.ErrParticipantNotFound
	ErrEnrollmentNotFound  = repository.ErrEnrollmentNotFound
	ErrAttestationNotFound = repository.ErrAttestationNotFound
	ErrAttestationExists   = repository.ErrAttestationExists
	ErrNothingToExport     = errors.New("no attestations to export")
)

// EligibilityPolicy decides whether an enrollment qualifies for a certificate
// right now. The default rule is enrollment confirmation only; an
// attendance-ratio rule can be substituted here without touching the issuer.
type EligibilityPolicy func(enrollment domain.Enrollment, hasAttestation bool) bool

// ConfirmedEnrollment is the default policy: the enrollment is confirmed and
// no attestation has been issued yet.
func ConfirmedEnrollment(enrollment domain.Enrollment, hasAttestation bool) bool {
	return enrollment.Statut == domain.StatutConfirme && !hasAttestation
}

// BuildVerificationToken derives the verification token from the participant
// identity alone, so the same participant always yields the same token with
// no extra state. The token is predictable by anyone who knows the
// participant id; that weakness is inherited from the behavior being ported
// and is documented rather than patched.
func BuildVerificationToken(participantID uint) string {
	return fmt.Sprintf("p%d", participantID)
}

type CertificationRepository interface {
	GetParticipantByID(ctx context.Context, id uint) (domain.Participant, error)
	ListParticipantsByIDs(ctx context.Context, ids []uint) ([]domain.Participant, error)
	ListEnrollmentsByFormation(ctx context.Context, actionID uint) ([]domain.Enrollment, error)
	CreateAttestation(ctx context.Context, attestation domain.Attestation) (domain.Attestation, error)
	GetAttestationByID(ctx context.Context, id uint) (domain.Attestation, error)
	FindAttestation(ctx context.Context, actionID, participantID uint) (domain.Attestation, error)
	ListAttestationsByFormation(ctx context.Context, actionID uint) ([]domain.Attestation, error)
}

type CertificationFormationRepository interface {
	GetFormationByID(ctx context.Context, id uint) (domain.Formation, error)
}

type CertificateRenderer interface {
	Render(data certificate.Data) ([]byte, error)
	RenderBatch(items []certificate.Data) ([]byte, map[int]error, error)
}

type CertificationService struct {
	repo          CertificationRepository
	formationRepo CertificationFormationRepository
	renderer      CertificateRenderer
	conf          *config.CertificateConfig
	policy        EligibilityPolicy
	now           func() time.Time
}

func NewCertificationService(repo CertificationRepository, formationRepo CertificationFormationRepository, renderer CertificateRenderer, conf *config.CertificateConfig) *CertificationService {
	return &CertificationService{
		repo:          repo,
		formationRepo: formationRepo,
		renderer:      renderer,
		conf:          conf,
		policy:        ConfirmedEnrollment,
		now:           time.Now,
	}
}

// PendingForCertificate computes the participants who should receive a
// certificate for the formation right now: confirmed enrollments minus those
// already holding an attestation, per the configured policy.
func (s *CertificationService) PendingForCertificate(ctx context.Context, formationID uint) ([]domain.Participant, error) {
	if _, err := s.formationRepo.GetFormationByID(ctx, formationID); err != nil {
		return nil, fmt.Errorf("s.formationRepo.GetFormationByID -> %w", err)
	}

	enrollments, err := s.repo.ListEnrollmentsByFormation(ctx, formationID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListEnrollmentsByFormation -> %w", err)
	}

	var pendingIDs []uint
	for _, enrollment := range enrollments {
		hasAttestation := true
		if _, err := s.repo.FindAttestation(ctx, formationID, enrollment.ParticipantID); err != nil {
			if !errors.Is(err, repository.ErrAttestationNotFound) {
				return nil, fmt.Errorf("s.repo.FindAttestation -> %w", err)
			}
			hasAttestation = false
		}

		if s.policy(enrollment, hasAttestation) {
			pendingIDs = append(pendingIDs, enrollment.ParticipantID)
		}
	}

	if len(pendingIDs) == 0 {
		return []domain.Participant{}, nil
	}

	participants, err := s.repo.ListParticipantsByIDs(ctx, pendingIDs)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListParticipantsByIDs -> %w", err)
	}

	return participants, nil
}

// GenerateAttestations issues one attestation per pending participant. Each
// creation is independent: a failure for one participant is reported in its
// outcome and never drops the others. The unique index over
// (participant_id, action_id) turns a concurrent duplicate into an
// "already_issued" outcome instead of a second attestation.
func (s *CertificationService) GenerateAttestations(ctx context.Context, formationID uint) ([]domain.IssueOutcome, int, error) {
	pending, err := s.PendingForCertificate(ctx, formationID)
	if err != nil {
		return nil, 0, fmt.Errorf("s.PendingForCertificate -> %w", err)
	}

	outcomes := make([]domain.IssueOutcome, 0, len(pending))
	issued := 0

	for _, participant := range pending {
		_, err := s.repo.CreateAttestation(ctx, domain.Attestation{
			ParticipantID: participant.ID,
			ActionID:      formationID,
			DateEmission:  s.now(),
			QRCodeRef:     BuildVerificationToken(participant.ID),
		})
		switch {
		case err == nil:
			issued++
			outcomes = append(outcomes, domain.IssueOutcome{
				ParticipantID: participant.ID,
				Status:        domain.IssueStatusIssued,
			})
		case errors.Is(err, repository.ErrAttestationExists):
			outcomes = append(outcomes, domain.IssueOutcome{
				ParticipantID: participant.ID,
				Status:        domain.IssueStatusAlreadyIssued,
			})
		default:
			zap.L().Error("attestation creation failed",
				zap.Uint("participant_id", participant.ID),
				zap.Uint("formation_id", formationID),
				zap.Error(err))
			outcomes = append(outcomes, domain.IssueOutcome{
				ParticipantID: participant.ID,
				Status:        domain.IssueStatusFailed,
				Error:         err.Error(),
			})
		}
	}

	return outcomes, issued, nil
}

func (s *CertificationService) ListAttestations(ctx context.Context, formationID uint) ([]domain.Attestation, error) {
	if _, err := s.formationRepo.GetFormationByID(ctx, formationID); err != nil {
		return nil, fmt.Errorf("s.formationRepo.GetFormationByID -> %w", err)
	}

	attestations, err := s.repo.ListAttestationsByFormation(ctx, formationID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListAttestationsByFormation -> %w", err)
	}

	return attestations, nil
}

// RenderAttestation produces the single-certificate preview document.
func (s *CertificationService) RenderAttestation(ctx context.Context, attestationID uint) ([]byte, error) {
	attestation, err := s.repo.GetAttestationByID(ctx, attestationID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.GetAttestationByID -> %w", err)
	}

	data, err := s.certificateData(ctx, attestation)
	if err != nil {
		return nil, err
	}

	doc, err := s.renderer.Render(data)
	if err != nil {
		return nil, fmt.Errorf("s.renderer.Render -> %w", err)
	}

	return doc, nil
}

// ExportAttestations produces the "download all" document: one page per
// attestation of the formation. A page that fails to render is logged and
// skipped; the remaining pages are still produced.
func (s *CertificationService) ExportAttestations(ctx context.Context, formationID uint) ([]byte, error) {
	attestations, err := s.ListAttestations(ctx, formationID)
	if err != nil {
		return nil, err
	}
	if len(attestations) == 0 {
		return nil, ErrNothingToExport
	}

	items := make([]certificate.Data, 0, len(attestations))
	for _, attestation := range attestations {
		data, err := s.certificateData(ctx, attestation)
		if err != nil {
			zap.L().Warn("skipping attestation in batch export",
				zap.Uint("attestation_id", attestation.ID),
				zap.Error(err))
			continue
		}
		items = append(items, data)
	}
	if len(items) == 0 {
		return nil, ErrNothingToExport
	}

	doc, pageErrs, err := s.renderer.RenderBatch(items)
	if err != nil {
		return nil, fmt.Errorf("s.renderer.RenderBatch -> %w", err)
	}
	for i, pageErr := range pageErrs {
		zap.L().Warn("certificate page failed to render",
			zap.Int("page", i),
			zap.Error(pageErr))
	}

	return doc, nil
}

func (s *CertificationService) certificateData(ctx context.Context, attestation domain.Attestation) (certificate.Data, error) {
	participant, err := s.repo.GetParticipantByID(ctx, attestation.ParticipantID)
	if err != nil {
		return certificate.Data{}, fmt.Errorf("s.repo.GetParticipantByID -> %w", err)
	}

	formation, err := s.formationRepo.GetFormationByID(ctx, attestation.ActionID)
	if err != nil {
		return certificate.Data{}, fmt.Errorf("s.formationRepo.GetFormationByID -> %w", err)
	}

	return certificate.Data{
		ParticipantName: participant.Prenom + " " + participant.Nom,
		Entreprise:      participant.Entreprise,
		Intitule:        formation.Intitule,
		Lieu:            formation.Lieu,
		DateDebut:       formation.DateDebut,
		DateFin:         formation.DateFin,
		DateEmission:    attestation.DateEmission,
		QRPayload:       s.verificationURL(attestation.QRCodeRef),
	}, nil
}

func (s *CertificationService) verificationURL(token string) string {
	return strings.TrimRight(s.conf.VerificationBaseURL, "/") + "/verify/" + token
}

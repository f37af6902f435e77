package repository

import (
	"context"
	"fmt"

	"github.com/lbonnet/formatrack-api/internal/domain"
	"github.com/lbonnet/formatrack-api/internal/repository/dao"
)

var (
	ErrParticipantNotFound = dao.ErrParticipantNotFound
	ErrEnrollmentNotFound  = dao.ErrEnrollmentNotFound
	ErrAttestationNotFound = dao.ErrAttestationNotFound
	ErrAttestationExists   = dao.ErrAttestationExists
)

type CertificationDAO interface {
	InsertParticipant(ctx context.Context, participant dao.Participant) (dao.Participant, error)
	GetParticipantByID(ctx context.Context, id uint) (dao.Participant, error)
	ListParticipantsByIDs(ctx context.Context, ids []uint) ([]dao.Participant, error)
	InsertEnrollment(ctx context.Context, enrollment dao.Enrollment) (dao.Enrollment, error)
	GetEnrollmentByID(ctx context.Context, id uint) (dao.Enrollment, error)
	UpdateEnrollmentStatut(ctx context.Context, enrollmentID uint, statut string) error
	FindEnrollment(ctx context.Context, actionID, participantID uint) (dao.Enrollment, error)
	ListEnrollmentsByFormation(ctx context.Context, actionID uint) ([]dao.Enrollment, error)
	InsertAttestation(ctx context.Context, attestation dao.Attestation) (dao.Attestation, error)
	GetAttestationByID(ctx context.Context, id uint) (dao.Attestation, error)
	FindAttestation(ctx context.Context, actionID, participantID uint) (dao.Attestation, error)
	FindLatestAttestationByParticipant(ctx context.Context, participantID uint) (dao.Attestation, error)
	ListAttestationsByFormation(ctx context.Context, actionID uint) ([]dao.Attestation, error)
}

type CertificationRepository struct {
	dao CertificationDAO
}

func NewCertificationRepository(dao CertificationDAO) *CertificationRepository {
	return &CertificationRepository{
		dao: dao,
	}
}

func (r *CertificationRepository) CreateParticipant(ctx context.Context, participant domain.Participant) (domain.Participant, error) {
	created, err := r.dao.InsertParticipant(ctx, r.participantDomainToDao(participant))
	if err != nil {
		return domain.Participant{}, fmt.Errorf("r.dao.InsertParticipant -> %w", err)
	}

	return r.participantDaoToDomain(created), nil
}

func (r *CertificationRepository) GetParticipantByID(ctx context.Context, id uint) (domain.Participant, error) {
	participant, err := r.dao.GetParticipantByID(ctx, id)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("r.dao.GetParticipantByID -> %w", err)
	}

	return r.participantDaoToDomain(participant), nil
}

func (r *CertificationRepository) ListParticipantsByIDs(ctx context.Context, ids []uint) ([]domain.Participant, error) {
	participants, err := r.dao.ListParticipantsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListParticipantsByIDs -> %w", err)
	}

	out := make([]domain.Participant, len(participants))
	for i, p := range participants {
		out[i] = r.participantDaoToDomain(p)
	}

	return out, nil
}

func (r *CertificationRepository) CreateEnrollment(ctx context.Context, enrollment domain.Enrollment) (domain.Enrollment, error) {
	created, err := r.dao.InsertEnrollment(ctx, r.enrollmentDomainToDao(enrollment))
	if err != nil {
		return domain.Enrollment{}, fmt.Errorf("r.dao.InsertEnrollment -> %w", err)
	}

	return r.enrollmentDaoToDomain(created), nil
}

func (r *CertificationRepository) GetEnrollmentByID(ctx context.Context, id uint) (domain.Enrollment, error) {
	enrollment, err := r.dao.GetEnrollmentByID(ctx, id)
	if err != nil {
		return domain.Enrollment{}, fmt.Errorf("r.dao.GetEnrollmentByID -> %w", err)
	}

	return r.enrollmentDaoToDomain(enrollment), nil
}

func (r *CertificationRepository) UpdateEnrollmentStatut(ctx context.Context, enrollmentID uint, statut string) error {
	if err := r.dao.UpdateEnrollmentStatut(ctx, enrollmentID, statut); err != nil {
		return fmt.Errorf("r.dao.UpdateEnrollmentStatut -> %w", err)
	}

	return nil
}

func (r *CertificationRepository) FindEnrollment(ctx context.Context, actionID, participantID uint) (domain.Enrollment, error) {
	enrollment, err := r.dao.FindEnrollment(ctx, actionID, participantID)
	if err != nil {
		return domain.Enrollment{}, fmt.Errorf("r.dao.FindEnrollment -> %w", err)
	}

	return r.enrollmentDaoToDomain(enrollment), nil
}

func (r *CertificationRepository) ListEnrollmentsByFormation(ctx context.Context, actionID uint) ([]domain.Enrollment, error) {
	enrollments, err := r.dao.ListEnrollmentsByFormation(ctx, actionID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListEnrollmentsByFormation -> %w", err)
	}

	out := make([]domain.Enrollment, len(enrollments))
	for i, e := range enrollments {
		out[i] = r.enrollmentDaoToDomain(e)
	}

	return out, nil
}

func (r *CertificationRepository) CreateAttestation(ctx context.Context, attestation domain.Attestation) (domain.Attestation, error) {
	created, err := r.dao.InsertAttestation(ctx, r.attestationDomainToDao(attestation))
	if err != nil {
		return domain.Attestation{}, fmt.Errorf("r.dao.InsertAttestation -> %w", err)
	}

	return r.attestationDaoToDomain(created), nil
}

func (r *CertificationRepository) GetAttestationByID(ctx context.Context, id uint) (domain.Attestation, error) {
	attestation, err := r.dao.GetAttestationByID(ctx, id)
	if err != nil {
		return domain.Attestation{}, fmt.Errorf("r.dao.GetAttestationByID -> %w", err)
	}

	return r.attestationDaoToDomain(attestation), nil
}

func (r *CertificationRepository) FindAttestation(ctx context.Context, actionID, participantID uint) (domain.Attestation, error) {
	attestation, err := r.dao.FindAttestation(ctx, actionID, participantID)
	if err != nil {
		return domain.Attestation{}, fmt.Errorf("r.dao.FindAttestation -> %w", err)
	}

	return r.attestationDaoToDomain(attestation), nil
}

func (r *CertificationRepository) FindLatestAttestationByParticipant(ctx context.Context, participantID uint) (domain.Attestation, error) {
	attestation, err := r.dao.FindLatestAttestationByParticipant(ctx, participantID)
	if err != nil {
		return domain.Attestation{}, fmt.Errorf("r.dao.FindLatestAttestationByParticipant -> %w", err)
	}

	return r.attestationDaoToDomain(attestation), nil
}

func (r *CertificationRepository) ListAttestationsByFormation(ctx context.Context, actionID uint) ([]domain.Attestation, error) {
	attestations, err := r.dao.ListAttestationsByFormation(ctx, actionID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListAttestationsByFormation -> %w", err)
	}

	out := make([]domain.Attestation, len(attestations))
	for i, a := range attestations {
		out[i] = r.attestationDaoToDomain(a)
	}

	return out, nil
}

func (r *CertificationRepository) participantDomainToDao(p domain.Participant) dao.Participant {
	return dao.Participant{
		ID:         p.ID,
		Nom:        p.Nom,
		Prenom:     p.Prenom,
		Email:      p.Email,
		Entreprise: p.Entreprise,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func (r *CertificationRepository) participantDaoToDomain(p dao.Participant) domain.Participant {
	return domain.Participant{
		ID:         p.ID,
		Nom:        p.Nom,
		Prenom:     p.Prenom,
		Email:      p.Email,
		Entreprise: p.Entreprise,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func (r *CertificationRepository) enrollmentDomainToDao(e domain.Enrollment) dao.Enrollment {
	return dao.Enrollment{
		ID:              e.ID,
		ActionID:        e.ActionID,
		ParticipantID:   e.ParticipantID,
		Statut:          e.Statut,
		DateInscription: e.DateInscription,
	}
}

func (r *CertificationRepository) enrollmentDaoToDomain(e dao.Enrollment) domain.Enrollment {
	return domain.Enrollment{
		ID:              e.ID,
		ActionID:        e.ActionID,
		ParticipantID:   e.ParticipantID,
		Statut:          e.Statut,
		DateInscription: e.DateInscription,
	}
}

func (r *CertificationRepository) attestationDomainToDao(a domain.Attestation) dao.Attestation {
	return dao.Attestation{
		ID:            a.ID,
		ParticipantID: a.ParticipantID,
		ActionID:      a.ActionID,
		DateEmission:  a.DateEmission,
		QRCodeRef:     a.QRCodeRef,
	}
}

func (r *CertificationRepository) attestationDaoToDomain(a dao.Attestation) domain.Attestation {
	return domain.Attestation{
		ID:            a.ID,
		ParticipantID: a.ParticipantID,
		ActionID:      a.ActionID,
		DateEmission:  a.DateEmission,
		QRCodeRef:     a.QRCodeRef,
	}
}

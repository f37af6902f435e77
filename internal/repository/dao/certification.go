package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrParticipantNotFound = errors.New("participant not found")
	ErrEnrollmentNotFound  = errors.New("enrollment not found")
	ErrAttestationNotFound = errors.New("attestation not found")
	ErrAttestationExists   = errors.New("attestation already issued for this participant and formation")
)

type Participant struct {
	ID         uint   `gorm:"primaryKey"`
	Nom        string `gorm:"not null"`
	Prenom     string `gorm:"not null"`
	Email      string `gorm:"index"`
	Entreprise string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Enrollment struct {
	ID              uint      `gorm:"primaryKey"`
	ActionID        uint      `gorm:"not null;uniqueIndex:idx_inscriptions_action_participant"`
	ParticipantID   uint      `gorm:"not null;uniqueIndex:idx_inscriptions_action_participant"`
	Statut          string    `gorm:"not null"`
	DateInscription time.Time `gorm:"not null"`
}

func (Enrollment) TableName() string {
	return "action_formation_participants"
}

type Attestation struct {
	ID            uint      `gorm:"primaryKey"`
	ParticipantID uint      `gorm:"not null;uniqueIndex:idx_attestations_participant_action"`
	ActionID      uint      `gorm:"not null;uniqueIndex:idx_attestations_participant_action"`
	DateEmission  time.Time `gorm:"not null"`
	QRCodeRef     string    `gorm:"not null"`
}

type CertificationDAO struct {
	db *gorm.DB
}

func NewCertificationDAO(db *gorm.DB) *CertificationDAO {
	return &CertificationDAO{
		db: db,
	}
}

func (d *CertificationDAO) InsertParticipant(ctx context.Context, participant Participant) (Participant, error) {
	result := d.db.WithContext(ctx).Create(&participant)
	if result.Error != nil {
		return Participant{}, result.Error
	}

	return participant, nil
}

func (d *CertificationDAO) GetParticipantByID(ctx context.Context, id uint) (Participant, error) {
	var participant Participant

	result := d.db.WithContext(ctx).First(&participant, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Participant{}, ErrParticipantNotFound
		}

		return Participant{}, result.Error
	}

	return participant, nil
}

func (d *CertificationDAO) ListParticipantsByIDs(ctx context.Context, ids []uint) ([]Participant, error) {
	var participants []Participant

	result := d.db.WithContext(ctx).Where("id IN ?", ids).Find(&participants)
	if result.Error != nil {
		return nil, result.Error
	}

	return participants, nil
}

func (d *CertificationDAO) InsertEnrollment(ctx context.Context, enrollment Enrollment) (Enrollment, error) {
	result := d.db.WithContext(ctx).Create(&enrollment)
	if result.Error != nil {
		return Enrollment{}, result.Error
	}

	return enrollment, nil
}

func (d *CertificationDAO) GetEnrollmentByID(ctx context.Context, id uint) (Enrollment, error) {
	var enrollment Enrollment

	result := d.db.WithContext(ctx).First(&enrollment, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Enrollment{}, ErrEnrollmentNotFound
		}

		return Enrollment{}, result.Error
	}

	return enrollment, nil
}

func (d *CertificationDAO) UpdateEnrollmentStatut(ctx context.Context, enrollmentID uint, statut string) error {
	result := d.db.WithContext(ctx).
		Model(&Enrollment{}).
		Where("id = ?", enrollmentID).
		Update("statut", statut)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEnrollmentNotFound
	}

	return nil
}

func (d *CertificationDAO) FindEnrollment(ctx context.Context, actionID, participantID uint) (Enrollment, error) {
	var enrollment Enrollment

	result := d.db.WithContext(ctx).
		Where("action_id = ? AND participant_id = ?", actionID, participantID).
		First(&enrollment)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Enrollment{}, ErrEnrollmentNotFound
		}

		return Enrollment{}, result.Error
	}

	return enrollment, nil
}

func (d *CertificationDAO) ListEnrollmentsByFormation(ctx context.Context, actionID uint) ([]Enrollment, error) {
	var enrollments []Enrollment

	result := d.db.WithContext(ctx).
		Where("action_id = ?", actionID).
		Order("date_inscription").
		Find(&enrollments)
	if result.Error != nil {
		return nil, result.Error
	}

	return enrollments, nil
}

// InsertAttestation relies on the unique index over (participant_id,
// action_id) to close the race between two concurrent generation batches.
func (d *CertificationDAO) InsertAttestation(ctx context.Context, attestation Attestation) (Attestation, error) {
	result := d.db.WithContext(ctx).Create(&attestation)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return Attestation{}, ErrAttestationExists
		}

		return Attestation{}, result.Error
	}

	return attestation, nil
}

func (d *CertificationDAO) GetAttestationByID(ctx context.Context, id uint) (Attestation, error) {
	var attestation Attestation

	result := d.db.WithContext(ctx).First(&attestation, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Attestation{}, ErrAttestationNotFound
		}

		return Attestation{}, result.Error
	}

	return attestation, nil
}

func (d *CertificationDAO) FindAttestation(ctx context.Context, actionID, participantID uint) (Attestation, error) {
	var attestation Attestation

	result := d.db.WithContext(ctx).
		Where("action_id = ? AND participant_id = ?", actionID, participantID).
		First(&attestation)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Attestation{}, ErrAttestationNotFound
		}

		return Attestation{}, result.Error
	}

	return attestation, nil
}

func (d *CertificationDAO) FindLatestAttestationByParticipant(ctx context.Context, participantID uint) (Attestation, error) {
	var attestation Attestation

	result := d.db.WithContext(ctx).
		Where("participant_id = ?", participantID).
		Order("date_emission DESC").
		First(&attestation)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Attestation{}, ErrAttestationNotFound
		}

		return Attestation{}, result.Error
	}

	return attestation, nil
}

func (d *CertificationDAO) ListAttestationsByFormation(ctx context.Context, actionID uint) ([]Attestation, error) {
	var attestations []Attestation

	result := d.db.WithContext(ctx).
		Where("action_id = ?", actionID).
		Order("date_emission").
		Find(&attestations)
	if result.Error != nil {
		return nil, result.Error
	}

	return attestations, nil
}

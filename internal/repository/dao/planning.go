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
	ErrFormationNotFound = errors.New("formation not found")
	ErrSeanceNotFound    = errors.New("seance not found")
	ErrPresenceNotFound  = errors.New("presence not found")
	ErrPresenceExists    = errors.New("presence already recorded for this participant and seance")
)

type Formation struct {
	ID            uint      `gorm:"primaryKey"`
	Intitule      string    `gorm:"not null"`
	ThemeID       *uint     `gorm:"index"`
	DateDebut     time.Time `gorm:"not null"`
	DateFin       time.Time `gorm:"not null"`
	Lieu          string
	EffectifPrevu int
	DureeJours    int
	DureeHeures   int
	Seances       []Seance `gorm:"foreignKey:ActionID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Seance struct {
	ID          uint      `gorm:"primaryKey"`
	ActionID    uint      `gorm:"index;not null"`
	Date        time.Time `gorm:"not null;index"`
	Heure       string    `gorm:"not null"`
	DureeHeures int       `gorm:"not null"`
	Statut      string    `gorm:"not null;default:EN_ATTENTE"`
	FormateurID *uint     `gorm:"index"`
	Presences   []Presence `gorm:"foreignKey:SeanceID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Presence struct {
	ID            uint      `gorm:"primaryKey"`
	SeanceID      uint      `gorm:"not null;uniqueIndex:idx_presences_seance_participant"`
	ParticipantID uint      `gorm:"not null;uniqueIndex:idx_presences_seance_participant"`
	Status        string    `gorm:"not null"`
	NotedAt       time.Time `gorm:"not null"`
	FormateurID   *uint
}

type PlanningDAO struct {
	db *gorm.DB
}

func NewPlanningDAO(db *gorm.DB) *PlanningDAO {
	return &PlanningDAO{
		db: db,
	}
}

func (d *PlanningDAO) InsertFormation(ctx context.Context, formation Formation) (Formation, error) {
	result := d.db.WithContext(ctx).Create(&formation)
	if result.Error != nil {
		return Formation{}, result.Error
	}

	return formation, nil
}

func (d *PlanningDAO) GetFormationByID(ctx context.Context, id uint) (Formation, error) {
	var formation Formation

	result := d.db.WithContext(ctx).First(&formation, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Formation{}, ErrFormationNotFound
		}

		return Formation{}, result.Error
	}

	return formation, nil
}

func (d *PlanningDAO) ListFormations(ctx context.Context) ([]Formation, error) {
	var formations []Formation

	result := d.db.WithContext(ctx).Order("date_debut").Find(&formations)
	if result.Error != nil {
		return nil, result.Error
	}

	return formations, nil
}

func (d *PlanningDAO) InsertSeance(ctx context.Context, seance Seance) (Seance, error) {
	result := d.db.WithContext(ctx).Create(&seance)
	if result.Error != nil {
		return Seance{}, result.Error
	}

	return seance, nil
}

func (d *PlanningDAO) GetSeanceByID(ctx context.Context, id uint) (Seance, error) {
	var seance Seance

	result := d.db.WithContext(ctx).First(&seance, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Seance{}, ErrSeanceNotFound
		}

		return Seance{}, result.Error
	}

	return seance, nil
}

func (d *PlanningDAO) UpdateSeance(ctx context.Context, seance Seance) (Seance, error) {
	result := d.db.WithContext(ctx).Save(&seance)
	if result.Error != nil {
		return Seance{}, result.Error
	}

	return seance, nil
}

func (d *PlanningDAO) UpdateSeanceStatut(ctx context.Context, seanceID uint, statut string) error {
	result := d.db.WithContext(ctx).
		Model(&Seance{}).
		Where("id = ?", seanceID).
		Update("statut", statut)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSeanceNotFound
	}

	return nil
}

// DeleteSeance removes the seance and its presences in one transaction. The
// FK also cascades at the database level; deleting explicitly keeps the
// behavior identical on stores that ignore the constraint.
func (d *PlanningDAO) DeleteSeance(ctx context.Context, seanceID uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("seance_id = ?", seanceID).Delete(&Presence{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&Seance{}, seanceID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrSeanceNotFound
		}

		return nil
	})
}

func (d *PlanningDAO) ListSeancesByFormation(ctx context.Context, formationID uint) ([]Seance, error) {
	var seances []Seance

	result := d.db.WithContext(ctx).
		Where("action_id = ?", formationID).
		Order("date, heure").
		Find(&seances)
	if result.Error != nil {
		return nil, result.Error
	}

	return seances, nil
}

func (d *PlanningDAO) ListSeancesByFormateurAndDate(ctx context.Context, formateurID uint, date time.Time) ([]Seance, error) {
	var seances []Seance

	result := d.db.WithContext(ctx).
		Where("formateur_id = ? AND date = ?", formateurID, date).
		Find(&seances)
	if result.Error != nil {
		return nil, result.Error
	}

	return seances, nil
}

func (d *PlanningDAO) FindPresence(ctx context.Context, seanceID, participantID uint) (Presence, error) {
	var presence Presence

	result := d.db.WithContext(ctx).
		Where("seance_id = ? AND participant_id = ?", seanceID, participantID).
		First(&presence)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Presence{}, ErrPresenceNotFound
		}

		return Presence{}, result.Error
	}

	return presence, nil
}

func (d *PlanningDAO) InsertPresence(ctx context.Context, presence Presence) (Presence, error) {
	result := d.db.WithContext(ctx).Create(&presence)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return Presence{}, ErrPresenceExists
		}

		return Presence{}, result.Error
	}

	return presence, nil
}

func (d *PlanningDAO) UpdatePresence(ctx context.Context, presence Presence) (Presence, error) {
	result := d.db.WithContext(ctx).Save(&presence)
	if result.Error != nil {
		return Presence{}, result.Error
	}

	return presence, nil
}

func (d *PlanningDAO) ListPresencesBySeance(ctx context.Context, seanceID uint) ([]Presence, error) {
	var presences []Presence

	result := d.db.WithContext(ctx).Where("seance_id = ?", seanceID).Find(&presences)
	if result.Error != nil {
		return nil, result.Error
	}

	return presences, nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/lbonnet/formatrack-api/internal/domain"
	"github.com/lbonnet/formatrack-api/internal/repository/dao"
)

var (
	ErrFormationNotFound = dao.ErrFormationNotFound
	ErrSeanceNotFound    = dao.ErrSeanceNotFound
	ErrPresenceNotFound  = dao.ErrPresenceNotFound
	ErrPresenceExists    = dao.ErrPresenceExists
)

type PlanningDAO interface {
	InsertFormation(ctx context.Context, formation dao.Formation) (dao.Formation, error)
	GetFormationByID(ctx context.Context, id uint) (dao.Formation, error)
	ListFormations(ctx context.Context) ([]dao.Formation, error)
	InsertSeance(ctx context.Context, seance dao.Seance) (dao.Seance, error)
	GetSeanceByID(ctx context.Context, id uint) (dao.Seance, error)
	UpdateSeance(ctx context.Context, seance dao.Seance) (dao.Seance, error)
	UpdateSeanceStatut(ctx context.Context, seanceID uint, statut string) error
	DeleteSeance(ctx context.Context, seanceID uint) error
	ListSeancesByFormation(ctx context.Context, formationID uint) ([]dao.Seance, error)
	ListSeancesByFormateurAndDate(ctx context.Context, formateurID uint, date time.Time) ([]dao.Seance, error)
	FindPresence(ctx context.Context, seanceID, participantID uint) (dao.Presence, error)
	InsertPresence(ctx context.Context, presence dao.Presence) (dao.Presence, error)
	UpdatePresence(ctx context.Context, presence dao.Presence) (dao.Presence, error)
	ListPresencesBySeance(ctx context.Context, seanceID uint) ([]dao.Presence, error)
}

type PlanningRepository struct {
	dao PlanningDAO
}

func NewPlanningRepository(dao PlanningDAO) *PlanningRepository {
	return &PlanningRepository{
		dao: dao,
	}
}

func (r *PlanningRepository) CreateFormation(ctx context.Context, formation domain.Formation) (domain.Formation, error) {
	created, err := r.dao.InsertFormation(ctx, r.formationDomainToDao(formation))
	if err != nil {
		return domain.Formation{}, fmt.Errorf("r.dao.InsertFormation -> %w", err)
	}

	return r.formationDaoToDomain(created), nil
}

func (r *PlanningRepository) GetFormationByID(ctx context.Context, id uint) (domain.Formation, error) {
	formation, err := r.dao.GetFormationByID(ctx, id)
	if err != nil {
		return domain.Formation{}, fmt.Errorf("r.dao.GetFormationByID -> %w", err)
	}

	return r.formationDaoToDomain(formation), nil
}

func (r *PlanningRepository) ListFormations(ctx context.Context) ([]domain.Formation, error) {
	formations, err := r.dao.ListFormations(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListFormations -> %w", err)
	}

	out := make([]domain.Formation, len(formations))
	for i, f := range formations {
		out[i] = r.formationDaoToDomain(f)
	}

	return out, nil
}

func (r *PlanningRepository) CreateSeance(ctx context.Context, seance domain.Seance) (domain.Seance, error) {
	created, err := r.dao.InsertSeance(ctx, r.seanceDomainToDao(seance))
	if err != nil {
		return domain.Seance{}, fmt.Errorf("r.dao.InsertSeance -> %w", err)
	}

	return r.seanceDaoToDomain(created), nil
}

func (r *PlanningRepository) GetSeanceByID(ctx context.Context, id uint) (domain.Seance, error) {
	seance, err := r.dao.GetSeanceByID(ctx, id)
	if err != nil {
		return domain.Seance{}, fmt.Errorf("r.dao.GetSeanceByID -> %w", err)
	}

	return r.seanceDaoToDomain(seance), nil
}

func (r *PlanningRepository) UpdateSeance(ctx context.Context, seance domain.Seance) (domain.Seance, error) {
	updated, err := r.dao.UpdateSeance(ctx, r.seanceDomainToDao(seance))
	if err != nil {
		return domain.Seance{}, fmt.Errorf("r.dao.UpdateSeance -> %w", err)
	}

	return r.seanceDaoToDomain(updated), nil
}

func (r *PlanningRepository) UpdateSeanceStatut(ctx context.Context, seanceID uint, statut domain.SeanceStatut) error {
	if err := r.dao.UpdateSeanceStatut(ctx, seanceID, string(statut)); err != nil {
		return fmt.Errorf("r.dao.UpdateSeanceStatut -> %w", err)
	}

	return nil
}

func (r *PlanningRepository) DeleteSeance(ctx context.Context, seanceID uint) error {
	if err := r.dao.DeleteSeance(ctx, seanceID); err != nil {
		return fmt.Errorf("r.dao.DeleteSeance -> %w", err)
	}

	return nil
}

func (r *PlanningRepository) ListSeancesByFormation(ctx context.Context, formationID uint) ([]domain.Seance, error) {
	seances, err := r.dao.ListSeancesByFormation(ctx, formationID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListSeancesByFormation -> %w", err)
	}

	return r.seancesDaoToDomain(seances), nil
}

func (r *PlanningRepository) ListSeancesByFormateurAndDate(ctx context.Context, formateurID uint, date time.Time) ([]domain.Seance, error) {
	seances, err := r.dao.ListSeancesByFormateurAndDate(ctx, formateurID, date)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListSeancesByFormateurAndDate -> %w", err)
	}

	return r.seancesDaoToDomain(seances), nil
}

func (r *PlanningRepository) FindPresence(ctx context.Context, seanceID, participantID uint) (domain.Presence, error) {
	presence, err := r.dao.FindPresence(ctx, seanceID, participantID)
	if err != nil {
		return domain.Presence{}, fmt.Errorf("r.dao.FindPresence -> %w", err)
	}

	return r.presenceDaoToDomain(presence), nil
}

func (r *PlanningRepository) CreatePresence(ctx context.Context, presence domain.Presence) (domain.Presence, error) {
	created, err := r.dao.InsertPresence(ctx, r.presenceDomainToDao(presence))
	if err != nil {
		return domain.Presence{}, fmt.Errorf("r.dao.InsertPresence -> %w", err)
	}

	return r.presenceDaoToDomain(created), nil
}

func (r *PlanningRepository) UpdatePresence(ctx context.Context, presence domain.Presence) (domain.Presence, error) {
	updated, err := r.dao.UpdatePresence(ctx, r.presenceDomainToDao(presence))
	if err != nil {
		return domain.Presence{}, fmt.Errorf("r.dao.UpdatePresence -> %w", err)
	}

	return r.presenceDaoToDomain(updated), nil
}

func (r *PlanningRepository) ListPresencesBySeance(ctx context.Context, seanceID uint) ([]domain.Presence, error) {
	presences, err := r.dao.ListPresencesBySeance(ctx, seanceID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListPresencesBySeance -> %w", err)
	}

	out := make([]domain.Presence, len(presences))
	for i, p := range presences {
		out[i] = r.presenceDaoToDomain(p)
	}

	return out, nil
}

func (r *PlanningRepository) formationDomainToDao(f domain.Formation) dao.Formation {
	return dao.Formation{
		ID:            f.ID,
		Intitule:      f.Intitule,
		ThemeID:       f.ThemeID,
		DateDebut:     f.DateDebut,
		DateFin:       f.DateFin,
		Lieu:          f.Lieu,
		EffectifPrevu: f.EffectifPrevu,
		DureeJours:    f.DureeJours,
		DureeHeures:   f.DureeHeures,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}

func (r *PlanningRepository) formationDaoToDomain(f dao.Formation) domain.Formation {
	return domain.Formation{
		ID:            f.ID,
		Intitule:      f.Intitule,
		ThemeID:       f.ThemeID,
		DateDebut:     f.DateDebut,
		DateFin:       f.DateFin,
		Lieu:          f.Lieu,
		EffectifPrevu: f.EffectifPrevu,
		DureeJours:    f.DureeJours,
		DureeHeures:   f.DureeHeures,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}

func (r *PlanningRepository) seanceDomainToDao(s domain.Seance) dao.Seance {
	return dao.Seance{
		ID:          s.ID,
		ActionID:    s.ActionID,
		Date:        s.Date,
		Heure:       s.Heure,
		DureeHeures: s.DureeHeures,
		Statut:      string(s.Statut),
		FormateurID: s.FormateurID,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (r *PlanningRepository) seanceDaoToDomain(s dao.Seance) domain.Seance {
	return domain.Seance{
		ID:          s.ID,
		ActionID:    s.ActionID,
		Date:        s.Date,
		Heure:       s.Heure,
		DureeHeures: s.DureeHeures,
		Statut:      domain.SeanceStatut(s.Statut),
		FormateurID: s.FormateurID,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (r *PlanningRepository) seancesDaoToDomain(seances []dao.Seance) []domain.Seance {
	out := make([]domain.Seance, len(seances))
	for i, s := range seances {
		out[i] = r.seanceDaoToDomain(s)
	}

	return out
}

func (r *PlanningRepository) presenceDomainToDao(p domain.Presence) dao.Presence {
	return dao.Presence{
		ID:            p.ID,
		SeanceID:      p.SeanceID,
		ParticipantID: p.ParticipantID,
		Status:        string(p.Status),
		NotedAt:       p.NotedAt,
		FormateurID:   p.FormateurID,
	}
}

func (r *PlanningRepository) presenceDaoToDomain(p dao.Presence) domain.Presence {
	return domain.Presence{
		ID:            p.ID,
		SeanceID:      p.SeanceID,
		ParticipantID: p.ParticipantID,
		Status:        domain.PresenceStatus(p.Status),
		NotedAt:       p.NotedAt,
		FormateurID:   p.FormateurID,
	}
}

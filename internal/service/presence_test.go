package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lbonnet/formatrack-api/internal/domain"
	"github.com/lbonnet/formatrack-api/internal/repository"
)

type presenceKey struct {
	seanceID      uint
	participantID uint
}

type fakePresencePlanningRepo struct {
	seances   map[uint]domain.Seance
	presences map[presenceKey]domain.Presence
	nextID    uint
}

func newFakePresencePlanningRepo() *fakePresencePlanningRepo {
	return &fakePresencePlanningRepo{
		seances:   make(map[uint]domain.Seance),
		presences: make(map[presenceKey]domain.Presence),
		nextID:    1,
	}
}

func (f *fakePresencePlanningRepo) GetSeanceByID(_ context.Context, id uint) (domain.Seance, error) {
	seance, ok := f.seances[id]
	if !ok {
		return domain.Seance{}, repository.ErrSeanceNotFound
	}

	return seance, nil
}

func (f *fakePresencePlanningRepo) FindPresence(_ context.Context, seanceID, participantID uint) (domain.Presence, error) {
	presence, ok := f.presences[presenceKey{seanceID, participantID}]
	if !ok {
		return domain.Presence{}, repository.ErrPresenceNotFound
	}

	return presence, nil
}

func (f *fakePresencePlanningRepo) CreatePresence(_ context.Context, presence domain.Presence) (domain.Presence, error) {
	key := presenceKey{presence.SeanceID, presence.ParticipantID}
	if _, ok := f.presences[key]; ok {
		return domain.Presence{}, repository.ErrPresenceExists
	}

	presence.ID = f.nextID
	f.nextID++
	f.presences[key] = presence

	return presence, nil
}

func (f *fakePresencePlanningRepo) UpdatePresence(_ context.Context, presence domain.Presence) (domain.Presence, error) {
	key := presenceKey{presence.SeanceID, presence.ParticipantID}
	if _, ok := f.presences[key]; !ok {
		return domain.Presence{}, repository.ErrPresenceNotFound
	}
	f.presences[key] = presence

	return presence, nil
}

func (f *fakePresencePlanningRepo) ListPresencesBySeance(_ context.Context, seanceID uint) ([]domain.Presence, error) {
	var out []domain.Presence
	for key, presence := range f.presences {
		if key.seanceID == seanceID {
			out = append(out, presence)
		}
	}

	return out, nil
}

type fakeRosterRepo struct {
	enrollments  []domain.Enrollment
	participants map[uint]domain.Participant
}

func (f *fakeRosterRepo) FindEnrollment(_ context.Context, actionID, participantID uint) (domain.Enrollment, error) {
	for _, e := range f.enrollments {
		if e.ActionID == actionID && e.ParticipantID == participantID {
			return e, nil
		}
	}

	return domain.Enrollment{}, repository.ErrEnrollmentNotFound
}

func (f *fakeRosterRepo) ListEnrollmentsByFormation(_ context.Context, actionID uint) ([]domain.Enrollment, error) {
	var out []domain.Enrollment
	for _, e := range f.enrollments {
		if e.ActionID == actionID {
			out = append(out, e)
		}
	}

	return out, nil
}

func (f *fakeRosterRepo) ListParticipantsByIDs(_ context.Context, ids []uint) ([]domain.Participant, error) {
	out := make([]domain.Participant, 0, len(ids))
	for _, id := range ids {
		if p, ok := f.participants[id]; ok {
			out = append(out, p)
		}
	}

	return out, nil
}

func presenceFixture() (*fakePresencePlanningRepo, *fakeRosterRepo) {
	planningRepo := newFakePresencePlanningRepo()
	planningRepo.seances[1] = domain.Seance{
		ID:       1,
		ActionID: 10,
		Date:     time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
		Heure:    "09:00",
		Statut:   domain.SeanceEnAttente,
	}

	rosterRepo := &fakeRosterRepo{
		enrollments: []domain.Enrollment{
			{ID: 1, ActionID: 10, ParticipantID: 100, Statut: domain.StatutConfirme},
			{ID: 2, ActionID: 10, ParticipantID: 101, Statut: domain.StatutEnAttente},
		},
		participants: map[uint]domain.Participant{
			100: {ID: 100, Nom: "Durand", Prenom: "Alice"},
			101: {ID: 101, Nom: "Martin", Prenom: "Bruno"},
		},
	}

	return planningRepo, rosterRepo
}

func TestMarkPresence(t *testing.T) {
	t.Run("first mark creates the record", func(t *testing.T) {
		planningRepo, rosterRepo := presenceFixture()
		svc := NewPresenceService(planningRepo, rosterRepo)

		presence, err := svc.MarkPresence(context.Background(), 1, 100, domain.PresencePresent, nil)

		require.NoError(t, err)
		assert.Equal(t, domain.PresencePresent, presence.Status)
		assert.False(t, presence.NotedAt.IsZero())
	})

	t.Run("second mark flips status without duplicating", func(t *testing.T) {
		planningRepo, rosterRepo := presenceFixture()
		svc := NewPresenceService(planningRepo, rosterRepo)

		first, err := svc.MarkPresence(context.Background(), 1, 100, domain.PresencePresent, nil)
		require.NoError(t, err)

		second, err := svc.MarkPresence(context.Background(), 1, 100, domain.PresenceAbsent, nil)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, domain.PresenceAbsent, second.Status)
		assert.Len(t, planningRepo.presences, 1)
	})

	t.Run("non-enrolled participant is rejected", func(t *testing.T) {
		planningRepo, rosterRepo := presenceFixture()
		svc := NewPresenceService(planningRepo, rosterRepo)

		_, err := svc.MarkPresence(context.Background(), 1, 999, domain.PresencePresent, nil)

		assert.ErrorIs(t, err, ErrParticipantNotEnrolled)
		assert.Empty(t, planningRepo.presences)
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		planningRepo, rosterRepo := presenceFixture()
		svc := NewPresenceService(planningRepo, rosterRepo)

		_, err := svc.MarkPresence(context.Background(), 1, 100, "LATE", nil)

		assert.ErrorIs(t, err, ErrInvalidPresenceStatus)
	})

	t.Run("unknown seance", func(t *testing.T) {
		planningRepo, rosterRepo := presenceFixture()
		svc := NewPresenceService(planningRepo, rosterRepo)

		_, err := svc.MarkPresence(context.Background(), 99, 100, domain.PresencePresent, nil)

		assert.ErrorIs(t, err, ErrSeanceNotFound)
	})
}

func TestAttendanceSheet(t *testing.T) {
	planningRepo, rosterRepo := presenceFixture()
	svc := NewPresenceService(planningRepo, rosterRepo)

	_, err := svc.MarkPresence(context.Background(), 1, 100, domain.PresenceRetard, nil)
	require.NoError(t, err)

	entries, err := svc.AttendanceSheet(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, entries, 2)

	byParticipant := make(map[uint]domain.AttendanceEntry, len(entries))
	for _, entry := range entries {
		byParticipant[entry.Participant.ID] = entry
	}

	marked := byParticipant[100]
	require.NotNil(t, marked.Presence)
	assert.Equal(t, domain.PresenceRetard, marked.Presence.Status)

	// Enrolled but never marked: rendered with no presence.
	unmarked := byParticipant[101]
	assert.Nil(t, unmarked.Presence)
}

func TestAttendanceSheet_EmptyRoster(t *testing.T) {
	planningRepo, _ := presenceFixture()
	svc := NewPresenceService(planningRepo, &fakeRosterRepo{participants: map[uint]domain.Participant{}})

	entries, err := svc.AttendanceSheet(context.Background(), 1)

	require.NoError(t, err)
	assert.Empty(t, entries)
}

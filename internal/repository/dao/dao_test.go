package dao

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupTestDB spins up a throwaway postgres container. Needs a local docker
// daemon; skipped in -short runs.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping DAO integration test in short mode")
	}

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)
	require.NoError(t, pool.Client.Ping())

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=formatrack_test",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = pool.Purge(resource)
	})

	dsn := fmt.Sprintf("host=localhost port=%v user=postgres password=secret dbname=formatrack_test sslmode=disable",
		resource.GetPort("5432/tcp"))

	var db *gorm.DB
	require.NoError(t, pool.Retry(func() error {
		var openErr error
		db, openErr = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if openErr != nil {
			return openErr
		}

		sqlDB, openErr := db.DB()
		if openErr != nil {
			return openErr
		}

		return sqlDB.Ping()
	}))

	require.NoError(t, InitTables(db))

	return db
}

func TestDAOs(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	planningDAO := NewPlanningDAO(db)
	certDAO := NewCertificationDAO(db)
	userDAO := NewUserDAO(db)

	formation, err := planningDAO.InsertFormation(ctx, Formation{
		Intitule:  "Sécurité incendie",
		DateDebut: time.Date(2024, time.March, 30, 0, 0, 0, 0, time.UTC),
		DateFin:   time.Date(2024, time.April, 2, 0, 0, 0, 0, time.UTC),
		Lieu:      "Lyon",
	})
	require.NoError(t, err)

	participant, err := certDAO.InsertParticipant(ctx, Participant{
		Nom: "Durand", Prenom: "Alice", Email: "alice@example.com", Entreprise: "Acme",
	})
	require.NoError(t, err)

	_, err = certDAO.InsertEnrollment(ctx, Enrollment{
		ActionID:        formation.ID,
		ParticipantID:   participant.ID,
		Statut:          "Confirmé",
		DateInscription: time.Now(),
	})
	require.NoError(t, err)

	t.Run("seance lifecycle", func(t *testing.T) {
		seance, err := planningDAO.InsertSeance(ctx, Seance{
			ActionID:    formation.ID,
			Date:        time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
			Heure:       "09:00",
			DureeHeures: 3,
			Statut:      "EN_ATTENTE",
		})
		require.NoError(t, err)

		require.NoError(t, planningDAO.UpdateSeanceStatut(ctx, seance.ID, "EN_COURS"))

		got, err := planningDAO.GetSeanceByID(ctx, seance.ID)
		require.NoError(t, err)
		assert.Equal(t, "EN_COURS", got.Statut)

		assert.ErrorIs(t, planningDAO.UpdateSeanceStatut(ctx, 9999, "TERMINEE"), ErrSeanceNotFound)
	})

	t.Run("duplicate presence hits the unique index", func(t *testing.T) {
		seance, err := planningDAO.InsertSeance(ctx, Seance{
			ActionID: formation.ID,
			Date:     time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
			Heure:    "09:00", DureeHeures: 2, Statut: "EN_ATTENTE",
		})
		require.NoError(t, err)

		_, err = planningDAO.InsertPresence(ctx, Presence{
			SeanceID: seance.ID, ParticipantID: participant.ID, Status: "PRESENT", NotedAt: time.Now(),
		})
		require.NoError(t, err)

		_, err = planningDAO.InsertPresence(ctx, Presence{
			SeanceID: seance.ID, ParticipantID: participant.ID, Status: "ABSENT", NotedAt: time.Now(),
		})
		assert.ErrorIs(t, err, ErrPresenceExists)
	})

	t.Run("deleting a seance removes its presences", func(t *testing.T) {
		seance, err := planningDAO.InsertSeance(ctx, Seance{
			ActionID: formation.ID,
			Date:     time.Date(2024, time.April, 2, 0, 0, 0, 0, time.UTC),
			Heure:    "14:00", DureeHeures: 2, Statut: "EN_ATTENTE",
		})
		require.NoError(t, err)

		_, err = planningDAO.InsertPresence(ctx, Presence{
			SeanceID: seance.ID, ParticipantID: participant.ID, Status: "PRESENT", NotedAt: time.Now(),
		})
		require.NoError(t, err)

		require.NoError(t, planningDAO.DeleteSeance(ctx, seance.ID))

		_, err = planningDAO.GetSeanceByID(ctx, seance.ID)
		assert.ErrorIs(t, err, ErrSeanceNotFound)

		presences, err := planningDAO.ListPresencesBySeance(ctx, seance.ID)
		require.NoError(t, err)
		assert.Empty(t, presences)
	})

	t.Run("duplicate attestation hits the unique index", func(t *testing.T) {
		_, err := certDAO.InsertAttestation(ctx, Attestation{
			ParticipantID: participant.ID, ActionID: formation.ID,
			DateEmission: time.Now(), QRCodeRef: "p1",
		})
		require.NoError(t, err)

		_, err = certDAO.InsertAttestation(ctx, Attestation{
			ParticipantID: participant.ID, ActionID: formation.ID,
			DateEmission: time.Now(), QRCodeRef: "p1",
		})
		assert.ErrorIs(t, err, ErrAttestationExists)
	})

	t.Run("latest attestation by participant", func(t *testing.T) {
		other, err := planningDAO.InsertFormation(ctx, Formation{
			Intitule:  "Habilitation électrique",
			DateDebut: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
			DateFin:   time.Date(2024, time.May, 3, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)

		newer, err := certDAO.InsertAttestation(ctx, Attestation{
			ParticipantID: participant.ID, ActionID: other.ID,
			DateEmission: time.Now().Add(time.Hour), QRCodeRef: "p1",
		})
		require.NoError(t, err)

		latest, err := certDAO.FindLatestAttestationByParticipant(ctx, participant.ID)
		require.NoError(t, err)
		assert.Equal(t, newer.ID, latest.ID)
	})

	t.Run("duplicate user email", func(t *testing.T) {
		_, err := userDAO.Insert(ctx, User{
			Email: "admin@example.com", Password: "hash", Name: "Admin", Role: "admin",
		})
		require.NoError(t, err)

		_, err = userDAO.Insert(ctx, User{
			Email: "admin@example.com", Password: "hash", Name: "Again", Role: "admin",
		})
		assert.ErrorIs(t, err, ErrUserEmailExists)
	})
}

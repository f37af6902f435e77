package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lbonnet/formatrack-api/internal/domain"
)

func TestParseVerificationToken(t *testing.T) {
	tests := []struct {
		token  string
		wantID uint
		wantOK bool
	}{
		{"p12", 12, true},
		{"p1", 1, true},
		{"p", 0, false},
		{"p0", 0, false},
		{"12", 0, false},
		{"pabc", 0, false},
		{"p12x", 0, false},
		{"", 0, false},
		{"P12", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			id, ok := ParseVerificationToken(tt.token)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestResolve(t *testing.T) {
	repo, formations, _, _ := certFixture()
	repo.attestations[attestationKey{10, 100}] = domain.Attestation{
		ID: 1, ActionID: 10, ParticipantID: 100, QRCodeRef: "p100",
		DateEmission: time.Date(2024, time.April, 3, 0, 0, 0, 0, time.UTC),
	}
	svc := NewVerificationService(repo, formations)

	t.Run("known token resolves to the summary", func(t *testing.T) {
		summary, err := svc.Resolve(context.Background(), "p100")

		require.NoError(t, err)
		assert.Equal(t, "Durand", summary.ParticipantNom)
		assert.Equal(t, "Alice", summary.ParticipantPrenom)
		assert.Equal(t, "Acme", summary.Entreprise)
		assert.Equal(t, "Sécurité incendie", summary.Intitule)
		assert.Equal(t, "Lyon", summary.Lieu)
		assert.Equal(t, time.Date(2024, time.April, 3, 0, 0, 0, 0, time.UTC), summary.DateEmission)
	})

	t.Run("participant without attestation", func(t *testing.T) {
		_, err := svc.Resolve(context.Background(), "p101")

		assert.ErrorIs(t, err, ErrAttestationNotFound)
	})

	t.Run("malformed token reads as not found", func(t *testing.T) {
		for _, token := range []string{"", "garbage", "100", "p-1"} {
			_, err := svc.Resolve(context.Background(), token)

			assert.ErrorIs(t, err, ErrAttestationNotFound, "token %q", token)
		}
	})

	t.Run("latest attestation wins", func(t *testing.T) {
		formations.formations[11] = domain.Formation{ID: 11, Intitule: "Habilitation électrique", Lieu: "Paris"}
		repo.attestations[attestationKey{11, 100}] = domain.Attestation{
			ID: 2, ActionID: 11, ParticipantID: 100, QRCodeRef: "p100",
			DateEmission: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
		}

		summary, err := svc.Resolve(context.Background(), "p100")

		require.NoError(t, err)
		assert.Equal(t, "Habilitation électrique", summary.Intitule)
	})
}

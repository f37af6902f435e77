package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lbonnet/formatrack-api/internal/config"
	"github.com/lbonnet/formatrack-api/internal/domain"
	"github.com/lbonnet/formatrack-api/internal/pkg/certificate"
	"github.com/lbonnet/formatrack-api/internal/repository"
)

type attestationKey struct {
	actionID      uint
	participantID uint
}

type fakeCertRepo struct {
	participants map[uint]domain.Participant
	enrollments  []domain.Enrollment
	attestations map[attestationKey]domain.Attestation
	createErrFor map[uint]error
	nextID       uint
}

func newFakeCertRepo() *fakeCertRepo {
	return &fakeCertRepo{
		participants: make(map[uint]domain.Participant),
		attestations: make(map[attestationKey]domain.Attestation),
		createErrFor: make(map[uint]error),
		nextID:       1,
	}
}

func (f *fakeCertRepo) GetParticipantByID(_ context.Context, id uint) (domain.Participant, error) {
	p, ok := f.participants[id]
	if !ok {
		return domain.Participant{}, repository.ErrParticipantNotFound
	}

	return p, nil
}

func (f *fakeCertRepo) ListParticipantsByIDs(_ context.Context, ids []uint) ([]domain.Participant, error) {
	out := make([]domain.Participant, 0, len(ids))
	for _, id := range ids {
		if p, ok := f.participants[id]; ok {
			out = append(out, p)
		}
	}

	return out, nil
}

func (f *fakeCertRepo) ListEnrollmentsByFormation(_ context.Context, actionID uint) ([]domain.Enrollment, error) {
	var out []domain.Enrollment
	for _, e := range f.enrollments {
		if e.ActionID == actionID {
			out = append(out, e)
		}
	}

	return out, nil
}

func (f *fakeCertRepo) CreateAttestation(_ context.Context, attestation domain.Attestation) (domain.Attestation, error) {
	if err, ok := f.createErrFor[attestation.ParticipantID]; ok {
		return domain.Attestation{}, err
	}

	key := attestationKey{attestation.ActionID, attestation.ParticipantID}
	if _, ok := f.attestations[key]; ok {
		return domain.Attestation{}, repository.ErrAttestationExists
	}

	attestation.ID = f.nextID
	f.nextID++
	f.attestations[key] = attestation

	return attestation, nil
}

func (f *fakeCertRepo) GetAttestationByID(_ context.Context, id uint) (domain.Attestation, error) {
	for _, a := range f.attestations {
		if a.ID == id {
			return a, nil
		}
	}

	return domain.Attestation{}, repository.ErrAttestationNotFound
}

func (f *fakeCertRepo) FindAttestation(_ context.Context, actionID, participantID uint) (domain.Attestation, error) {
	a, ok := f.attestations[attestationKey{actionID, participantID}]
	if !ok {
		return domain.Attestation{}, repository.ErrAttestationNotFound
	}

	return a, nil
}

func (f *fakeCertRepo) FindLatestAttestationByParticipant(_ context.Context, participantID uint) (domain.Attestation, error) {
	var latest domain.Attestation
	found := false
	for key, a := range f.attestations {
		if key.participantID == participantID && (!found || a.DateEmission.After(latest.DateEmission)) {
			latest = a
			found = true
		}
	}
	if !found {
		return domain.Attestation{}, repository.ErrAttestationNotFound
	}

	return latest, nil
}

func (f *fakeCertRepo) ListAttestationsByFormation(_ context.Context, actionID uint) ([]domain.Attestation, error) {
	var out []domain.Attestation
	for key, a := range f.attestations {
		if key.actionID == actionID {
			out = append(out, a)
		}
	}

	return out, nil
}

type fakeFormationGetter struct {
	formations map[uint]domain.Formation
}

func (f *fakeFormationGetter) GetFormationByID(_ context.Context, id uint) (domain.Formation, error) {
	formation, ok := f.formations[id]
	if !ok {
		return domain.Formation{}, repository.ErrFormationNotFound
	}

	return formation, nil
}

type fakeRenderer struct {
	rendered []certificate.Data
	pageErrs map[int]error
}

func (f *fakeRenderer) Render(data certificate.Data) ([]byte, error) {
	f.rendered = append(f.rendered, data)

	return []byte("%PDF-fake"), nil
}

func (f *fakeRenderer) RenderBatch(items []certificate.Data) ([]byte, map[int]error, error) {
	f.rendered = append(f.rendered, items...)

	return []byte("%PDF-fake-batch"), f.pageErrs, nil
}

func certFixture() (*fakeCertRepo, *fakeFormationGetter, *fakeRenderer, *CertificationService) {
	repo := newFakeCertRepo()
	repo.participants[100] = domain.Participant{ID: 100, Nom: "Durand", Prenom: "Alice", Entreprise: "Acme"}
	repo.participants[101] = domain.Participant{ID: 101, Nom: "Martin", Prenom: "Bruno"}
	repo.participants[102] = domain.Participant{ID: 102, Nom: "Petit", Prenom: "Chloé"}
	repo.enrollments = []domain.Enrollment{
		{ID: 1, ActionID: 10, ParticipantID: 100, Statut: domain.StatutConfirme},
		{ID: 2, ActionID: 10, ParticipantID: 101, Statut: domain.StatutEnAttente},
		{ID: 3, ActionID: 10, ParticipantID: 102, Statut: domain.StatutConfirme},
	}

	formations := &fakeFormationGetter{
		formations: map[uint]domain.Formation{
			10: {
				ID:        10,
				Intitule:  "Sécurité incendie",
				Lieu:      "Lyon",
				DateDebut: time.Date(2024, time.March, 30, 0, 0, 0, 0, time.UTC),
				DateFin:   time.Date(2024, time.April, 2, 0, 0, 0, 0, time.UTC),
			},
		},
	}

	renderer := &fakeRenderer{}
	svc := NewCertificationService(repo, formations, renderer, &config.CertificateConfig{
		Organisme:           "FormaTrack",
		VerificationBaseURL: "https://formatrack.example",
	})

	return repo, formations, renderer, svc
}

func TestBuildVerificationToken(t *testing.T) {
	assert.Equal(t, "p42", BuildVerificationToken(42))
	// Same participant, same token, no state involved.
	assert.Equal(t, BuildVerificationToken(42), BuildVerificationToken(42))
}

func TestPendingForCertificate(t *testing.T) {
	t.Run("confirmed without attestation are pending", func(t *testing.T) {
		_, _, _, svc := certFixture()

		pending, err := svc.PendingForCertificate(context.Background(), 10)

		require.NoError(t, err)
		require.Len(t, pending, 2)
		ids := []uint{pending[0].ID, pending[1].ID}
		assert.ElementsMatch(t, []uint{100, 102}, ids)
	})

	t.Run("already certified drop out", func(t *testing.T) {
		repo, _, _, svc := certFixture()
		repo.attestations[attestationKey{10, 100}] = domain.Attestation{ID: 1, ActionID: 10, ParticipantID: 100}

		pending, err := svc.PendingForCertificate(context.Background(), 10)

		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, uint(102), pending[0].ID)
	})

	t.Run("unknown formation", func(t *testing.T) {
		_, _, _, svc := certFixture()

		_, err := svc.PendingForCertificate(context.Background(), 99)

		assert.ErrorIs(t, err, ErrFormationNotFound)
	})
}

func TestGenerateAttestations(t *testing.T) {
	t.Run("issues one per pending participant", func(t *testing.T) {
		repo, _, _, svc := certFixture()

		outcomes, issued, err := svc.GenerateAttestations(context.Background(), 10)

		require.NoError(t, err)
		assert.Equal(t, 2, issued)
		require.Len(t, outcomes, 2)
		for _, outcome := range outcomes {
			assert.Equal(t, domain.IssueStatusIssued, outcome.Status)
		}
		assert.Len(t, repo.attestations, 2)

		a := repo.attestations[attestationKey{10, 100}]
		assert.Equal(t, "p100", a.QRCodeRef)
	})

	t.Run("one failure never drops the others", func(t *testing.T) {
		repo, _, _, svc := certFixture()
		repo.createErrFor[100] = errors.New("insert blew up")

		outcomes, issued, err := svc.GenerateAttestations(context.Background(), 10)

		require.NoError(t, err)
		assert.Equal(t, 1, issued)
		require.Len(t, outcomes, 2)

		byParticipant := make(map[uint]domain.IssueOutcome)
		for _, o := range outcomes {
			byParticipant[o.ParticipantID] = o
		}
		assert.Equal(t, domain.IssueStatusFailed, byParticipant[100].Status)
		assert.NotEmpty(t, byParticipant[100].Error)
		assert.Equal(t, domain.IssueStatusIssued, byParticipant[102].Status)
	})

	t.Run("duplicate race reads as already issued", func(t *testing.T) {
		repo, _, _, svc := certFixture()
		repo.createErrFor[102] = repository.ErrAttestationExists

		outcomes, issued, err := svc.GenerateAttestations(context.Background(), 10)

		require.NoError(t, err)
		assert.Equal(t, 1, issued)

		byParticipant := make(map[uint]domain.IssueOutcome)
		for _, o := range outcomes {
			byParticipant[o.ParticipantID] = o
		}
		assert.Equal(t, domain.IssueStatusAlreadyIssued, byParticipant[102].Status)
	})

	t.Run("second run issues nothing", func(t *testing.T) {
		_, _, _, svc := certFixture()

		_, issued, err := svc.GenerateAttestations(context.Background(), 10)
		require.NoError(t, err)
		require.Equal(t, 2, issued)

		outcomes, issued, err := svc.GenerateAttestations(context.Background(), 10)
		require.NoError(t, err)
		assert.Zero(t, issued)
		assert.Empty(t, outcomes)
	})
}

func TestRenderAttestation(t *testing.T) {
	repo, _, renderer, svc := certFixture()
	repo.attestations[attestationKey{10, 100}] = domain.Attestation{
		ID: 1, ActionID: 10, ParticipantID: 100, QRCodeRef: "p100",
		DateEmission: time.Date(2024, time.April, 3, 0, 0, 0, 0, time.UTC),
	}

	doc, err := svc.RenderAttestation(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(doc))

	require.Len(t, renderer.rendered, 1)
	data := renderer.rendered[0]
	assert.Equal(t, "Alice Durand", data.ParticipantName)
	assert.Equal(t, "Acme", data.Entreprise)
	assert.Equal(t, "Sécurité incendie", data.Intitule)
	assert.Equal(t, "https://formatrack.example/verify/p100", data.QRPayload)
}

func TestRenderAttestation_NotFound(t *testing.T) {
	_, _, _, svc := certFixture()

	_, err := svc.RenderAttestation(context.Background(), 99)

	assert.ErrorIs(t, err, ErrAttestationNotFound)
}

func TestExportAttestations(t *testing.T) {
	t.Run("renders one page per attestation", func(t *testing.T) {
		_, _, renderer, svc := certFixture()

		_, issued, err := svc.GenerateAttestations(context.Background(), 10)
		require.NoError(t, err)
		require.Equal(t, 2, issued)

		doc, err := svc.ExportAttestations(context.Background(), 10)

		require.NoError(t, err)
		assert.Equal(t, "%PDF-fake-batch", string(doc))
		assert.Len(t, renderer.rendered, 2)
	})

	t.Run("nothing to export", func(t *testing.T) {
		_, _, _, svc := certFixture()

		_, err := svc.ExportAttestations(context.Background(), 10)

		assert.ErrorIs(t, err, ErrNothingToExport)
	})
}

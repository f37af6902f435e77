package certificate

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleData(name string) Data {
	return Data{
		ParticipantName: name,
		Entreprise:      "ACME Industries",
		Intitule:        "Sécurité incendie niveau 1",
		Lieu:            "Lyon",
		DateDebut:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		DateFin:         time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		DateEmission:    time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC),
		QRPayload:       "https://example.com/verify/p42",
	}
}

func TestEncodeQR(t *testing.T) {
	data, err := EncodeQR("https://example.com/verify/p42")

	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
}

func TestEncodeQR_EmptyPayload(t *testing.T) {
	_, err := EncodeQR("")

	assert.Error(t, err)
}

func TestRenderer_Render(t *testing.T) {
	r := NewRenderer("Centre de Formation Durand")

	doc, err := r.Render(sampleData("Jean Dupont"))

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")), "output should be a PDF document")
}

func TestRenderer_RenderBatch(t *testing.T) {
	r := NewRenderer("Centre de Formation Durand")

	doc, pageErrs, err := r.RenderBatch([]Data{
		sampleData("Jean Dupont"),
		sampleData("Marie Curie"),
		sampleData("Louis Pasteur"),
	})

	require.NoError(t, err)
	assert.Empty(t, pageErrs)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestRenderer_RenderBatch_OneFailingItemDoesNotAbort(t *testing.T) {
	r := NewRenderer("Centre de Formation Durand")

	bad := sampleData("Sans QR")
	bad.QRPayload = "" // QR encoding fails on an empty payload

	doc, pageErrs, err := r.RenderBatch([]Data{
		sampleData("Jean Dupont"),
		bad,
		sampleData("Marie Curie"),
	})

	require.NoError(t, err)
	assert.Len(t, pageErrs, 1)
	assert.Contains(t, pageErrs, 1)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestRenderer_RenderBatch_Empty(t *testing.T) {
	r := NewRenderer("Centre de Formation Durand")

	_, _, err := r.RenderBatch(nil)

	assert.ErrorIs(t, err, ErrNothingToRender)
}

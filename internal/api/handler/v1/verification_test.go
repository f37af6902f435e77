package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lbonnet/formatrack-api/internal/domain"
	"github.com/lbonnet/formatrack-api/internal/service"
)

type stubVerificationService struct {
	summaries map[string]domain.AttestationSummary
}

func (s *stubVerificationService) Resolve(_ context.Context, token string) (domain.AttestationSummary, error) {
	summary, ok := s.summaries[token]
	if !ok {
		return domain.AttestationSummary{}, service.ErrAttestationNotFound
	}

	return summary, nil
}

func setupVerifyRouter(svc VerificationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/verify/:token", NewVerificationHandler(svc).HandleVerify)

	return router
}

func TestHandleVerify(t *testing.T) {
	svc := &stubVerificationService{
		summaries: map[string]domain.AttestationSummary{
			"p100": {
				ParticipantNom:    "Durand",
				ParticipantPrenom: "Alice",
				Entreprise:        "Acme",
				Intitule:          "Sécurité incendie",
				Lieu:              "Lyon",
				DateEmission:      time.Date(2024, time.April, 3, 0, 0, 0, 0, time.UTC),
			},
		},
	}
	router := setupVerifyRouter(svc)

	t.Run("known token returns the summary", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/verify/p100", nil)

		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var got domain.AttestationSummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "Durand", got.ParticipantNom)
		assert.Equal(t, "Sécurité incendie", got.Intitule)
	})

	t.Run("unknown token is a 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/verify/p999", nil)

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("garbage token is a 404, not a 500", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/verify/garbage", nil)

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

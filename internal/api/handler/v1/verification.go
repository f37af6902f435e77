package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lbonnet/formatrack-api/internal/api/handler/v1/response"
	"github.com/lbonnet/formatrack-api/internal/domain"
	"github.com/lbonnet/formatrack-api/internal/service"
)

type VerificationService interface {
	Resolve(ctx context.Context, token string) (domain.AttestationSummary, error)
}

// VerificationHandler serves the public certificate check behind the QR code.
type VerificationHandler struct {
	svc VerificationService
}

func NewVerificationHandler(svc VerificationService) *VerificationHandler {
	return &VerificationHandler{
		svc: svc,
	}
}

// HandleVerify godoc
// @Summary      Verify a certificate by its QR token
// @Tags         verification
// @Produce      json
// @Param        token  path      string  true  "Verification token"
// @Success      200    {object}  domain.AttestationSummary
// @Failure      404    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /verify/{token} [get]
func (h *VerificationHandler) HandleVerify(ctx *gin.Context) {
	token := ctx.Param("token")

	summary, err := h.svc.Resolve(ctx.Request.Context(), token)
	if err != nil {
		// Unknown participant or malformed token both read as "no such
		// certificate" to the public.
		if errors.Is(err, service.ErrAttestationNotFound) ||
			errors.Is(err, service.ErrParticipantNotFound) ||
			errors.Is(err, service.ErrFormationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("attestation", "token", token))

			return
		}

		err = fmt.Errorf("v1.HandleVerify -> h.svc.Resolve -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, summary)
}

package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lbonnet/formatrack-api/internal/api/handler/v1/response"
	"github.com/lbonnet/formatrack-api/internal/domain"
	"github.com/lbonnet/formatrack-api/internal/service"
)

type CertificationService interface {
	PendingForCertificate(ctx context.Context, formationID uint) ([]domain.Participant, error)
	GenerateAttestations(ctx context.Context, formationID uint) ([]domain.IssueOutcome, int, error)
	ListAttestations(ctx context.Context, formationID uint) ([]domain.Attestation, error)
	RenderAttestation(ctx context.Context, attestationID uint) ([]byte, error)
	ExportAttestations(ctx context.Context, formationID uint) ([]byte, error)
}

type AttestationHandler struct {
	svc  CertificationService
	uSvc UserService
}

func NewAttestationHandler(svc CertificationService, uSvc UserService) *AttestationHandler {
	return &AttestationHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleListAttestations godoc
// @Summary      List attestations of a formation
// @Tags         attestations
// @Produce      json
// @Param        formationID  path      int  true  "Formation ID"
// @Success      200          {array}   domain.Attestation
// @Failure      404          {object}  response.Err
// @Failure      500          {object}  response.Err
// @Router       /formations/{formationID}/attestations [get]
// @Security     BearerAuth
func (h *AttestationHandler) HandleListAttestations(ctx *gin.Context) {
	formationID, respErr := parseIDParam(ctx, "formationID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	attestations, err := h.svc.ListAttestations(ctx.Request.Context(), formationID)
	if err != nil {
		h.renderCertErr(ctx, "v1.HandleListAttestations", formationID, err)

		return
	}

	ctx.JSON(http.StatusOK, attestations)
}

// HandlePendingAttestations godoc
// @Summary      Participants pending a certificate for a formation
// @Tags         attestations
// @Produce      json
// @Param        formationID  path      int  true  "Formation ID"
// @Success      200          {array}   domain.Participant
// @Failure      404          {object}  response.Err
// @Failure      500          {object}  response.Err
// @Router       /formations/{formationID}/attestations/pending [get]
// @Security     BearerAuth
func (h *AttestationHandler) HandlePendingAttestations(ctx *gin.Context) {
	formationID, respErr := parseIDParam(ctx, "formationID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	pending, err := h.svc.PendingForCertificate(ctx.Request.Context(), formationID)
	if err != nil {
		h.renderCertErr(ctx, "v1.HandlePendingAttestations", formationID, err)

		return
	}

	ctx.JSON(http.StatusOK, pending)
}

// HandleGenerateAttestations godoc
// @Summary      Issue attestations for every pending participant
// @Tags         attestations
// @Produce      json
// @Param        formationID  path      int  true  "Formation ID"
// @Success      200          {object}  response.GenerateAttestationsResponse
// @Failure      403          {object}  response.Err
// @Failure      404          {object}  response.Err
// @Failure      500          {object}  response.Err
// @Router       /formations/{formationID}/attestations/generate [post]
// @Security     BearerAuth
func (h *AttestationHandler) HandleGenerateAttestations(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if user.Role != domain.RoleAdmin {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))

		return
	}

	formationID, respErr := parseIDParam(ctx, "formationID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	outcomes, issued, err := h.svc.GenerateAttestations(ctx.Request.Context(), formationID)
	if err != nil {
		h.renderCertErr(ctx, "v1.HandleGenerateAttestations", formationID, err)

		return
	}

	ctx.JSON(http.StatusOK, response.GenerateAttestationsResponse{
		Issued:   issued,
		Outcomes: outcomes,
	})
}

// HandleAttestationDocument godoc
// @Summary      Download a single attestation as PDF
// @Tags         attestations
// @Produce      application/pdf
// @Param        attestationID  path  int  true  "Attestation ID"
// @Success      200  {file}    binary
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /attestations/{attestationID}/document [get]
// @Security     BearerAuth
func (h *AttestationHandler) HandleAttestationDocument(ctx *gin.Context) {
	attestationID, respErr := parseIDParam(ctx, "attestationID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	doc, err := h.svc.RenderAttestation(ctx.Request.Context(), attestationID)
	if err != nil {
		h.renderCertErr(ctx, "v1.HandleAttestationDocument", attestationID, err)

		return
	}

	filename := fmt.Sprintf("attestation_%d.pdf", attestationID)
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(http.StatusOK, "application/pdf", doc)
}

// HandleExportAttestations godoc
// @Summary      Download every attestation of a formation as one PDF
// @Tags         attestations
// @Produce      application/pdf
// @Param        formationID  path  int  true  "Formation ID"
// @Success      200  {file}    binary
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /formations/{formationID}/attestations/export [get]
// @Security     BearerAuth
func (h *AttestationHandler) HandleExportAttestations(ctx *gin.Context) {
	formationID, respErr := parseIDParam(ctx, "formationID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	doc, err := h.svc.ExportAttestations(ctx.Request.Context(), formationID)
	if err != nil {
		if errors.Is(err, service.ErrNothingToExport) {
			response.RenderErr(ctx, response.ErrNotFound("attestations", "formation ID", formationID))

			return
		}

		h.renderCertErr(ctx, "v1.HandleExportAttestations", formationID, err)

		return
	}

	filename := fmt.Sprintf("attestations_%d_%s.pdf", formationID, time.Now().Format("2006-01-02"))
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(http.StatusOK, "application/pdf", doc)
}

func (h *AttestationHandler) renderCertErr(ctx *gin.Context, op string, id uint, err error) {
	switch {
	case errors.Is(err, service.ErrFormationNotFound):
		response.RenderErr(ctx, response.ErrNotFound("formation", "ID", id))
	case errors.Is(err, service.ErrAttestationNotFound):
		response.RenderErr(ctx, response.ErrNotFound("attestation", "ID", id))
	case errors.Is(err, service.ErrParticipantNotFound):
		response.RenderErr(ctx, response.ErrNotFound("participant", "ID", id))
	default:
		response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("%v -> %w", op, err)))
	}
}

package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lbonnet/formatrack-api/internal/api/handler/v1/request"
	"github.com/lbonnet/formatrack-api/internal/api/handler/v1/response"
	"github.com/lbonnet/formatrack-api/internal/domain"
	"github.com/lbonnet/formatrack-api/internal/service"
)

type RosterService interface {
	CreateParticipant(ctx context.Context, participant domain.Participant) (domain.Participant, error)
	Enroll(ctx context.Context, formationID, participantID uint, statut string) (domain.Enrollment, error)
	UpdateEnrollmentStatut(ctx context.Context, enrollmentID uint, statut string) (domain.Enrollment, error)
}

type RosterHandler struct {
	svc RosterService
}

func NewRosterHandler(svc RosterService) *RosterHandler {
	return &RosterHandler{
		svc: svc,
	}
}

// HandleCreateParticipant godoc
// @Summary      Create a participant
// @Tags         participants
// @Produce      json
// @Param        request  body      request.CreateParticipantRequest true "request body"
// @Success      201      {object}  domain.Participant
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /participants [post]
// @Security     BearerAuth
func (h *RosterHandler) HandleCreateParticipant(ctx *gin.Context) {
	var req request.CreateParticipantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	participant, err := h.svc.CreateParticipant(ctx.Request.Context(), domain.Participant{
		Nom:        req.Nom,
		Prenom:     req.Prenom,
		Email:      req.Email,
		Entreprise: req.Entreprise,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateParticipant -> h.svc.CreateParticipant -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, participant)
}

// HandleEnroll godoc
// @Summary      Enroll a participant in a formation
// @Tags         inscriptions
// @Produce      json
// @Param        formationID  path      int  true  "Formation ID"
// @Param        request      body      request.CreateEnrollmentRequest true "request body"
// @Success      201          {object}  domain.Enrollment
// @Failure      400          {object}  response.Err
// @Failure      404          {object}  response.Err
// @Failure      500          {object}  response.Err
// @Router       /formations/{formationID}/inscriptions [post]
// @Security     BearerAuth
func (h *RosterHandler) HandleEnroll(ctx *gin.Context) {
	formationID, respErr := parseIDParam(ctx, "formationID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.CreateEnrollmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	enrollment, err := h.svc.Enroll(ctx.Request.Context(), formationID, req.ParticipantID, req.Statut)
	if err != nil {
		if errors.Is(err, service.ErrFormationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("formation", "ID", formationID))

			return
		}

		err = fmt.Errorf("v1.HandleEnroll -> h.svc.Enroll -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, enrollment)
}

// HandleUpdateEnrollmentStatus godoc
// @Summary      Update an enrollment's statut
// @Tags         inscriptions
// @Produce      json
// @Param        inscriptionID  path      int  true  "Enrollment ID"
// @Param        request        body      request.UpdateEnrollmentStatusRequest true "request body"
// @Success      200            {object}  domain.Enrollment
// @Failure      400            {object}  response.Err
// @Failure      404            {object}  response.Err
// @Failure      500            {object}  response.Err
// @Router       /inscriptions/{inscriptionID}/status [patch]
// @Security     BearerAuth
func (h *RosterHandler) HandleUpdateEnrollmentStatus(ctx *gin.Context) {
	enrollmentID, respErr := parseIDParam(ctx, "inscriptionID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.UpdateEnrollmentStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	enrollment, err := h.svc.UpdateEnrollmentStatut(ctx.Request.Context(), enrollmentID, req.Statut)
	if err != nil {
		if errors.Is(err, service.ErrEnrollmentNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("inscription", "ID", enrollmentID))

			return
		}

		err = fmt.Errorf("v1.HandleUpdateEnrollmentStatus -> h.svc.UpdateEnrollmentStatut -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, enrollment)
}

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

type PresenceService interface {
	MarkPresence(ctx context.Context, seanceID, participantID uint, status domain.PresenceStatus, formateurID *uint) (domain.Presence, error)
	AttendanceSheet(ctx context.Context, seanceID uint) ([]domain.AttendanceEntry, error)
}

type PresenceHandler struct {
	svc  PresenceService
	uSvc UserService
}

func NewPresenceHandler(svc PresenceService, uSvc UserService) *PresenceHandler {
	return &PresenceHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleAttendanceSheet godoc
// @Summary      Attendance sheet of a seance
// @Description  Every enrolled participant of the owning formation, with their presence when marked
// @Tags         presences
// @Produce      json
// @Param        seanceID  path      int  true  "Seance ID"
// @Success      200       {array}   domain.AttendanceEntry
// @Failure      404       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /seances/{seanceID}/presences [get]
// @Security     BearerAuth
func (h *PresenceHandler) HandleAttendanceSheet(ctx *gin.Context) {
	seanceID, respErr := parseIDParam(ctx, "seanceID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	entries, err := h.svc.AttendanceSheet(ctx.Request.Context(), seanceID)
	if err != nil {
		if errors.Is(err, service.ErrSeanceNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("seance", "ID", seanceID))

			return
		}

		err = fmt.Errorf("v1.HandleAttendanceSheet -> h.svc.AttendanceSheet -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, entries)
}

// HandleMarkPresence godoc
// @Summary      Mark a participant's presence for a seance
// @Description  Upsert: marking the same participant again flips the recorded status
// @Tags         presences
// @Produce      json
// @Param        seanceID  path      int  true  "Seance ID"
// @Param        request   body      request.MarkPresenceRequest true "request body"
// @Success      200       {object}  domain.Presence
// @Failure      400       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /seances/{seanceID}/presences [put]
// @Security     BearerAuth
func (h *PresenceHandler) HandleMarkPresence(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	seanceID, respErr := parseIDParam(ctx, "seanceID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.MarkPresenceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	// The mark is attributed to the trainer doing the marking.
	var formateurID *uint
	if user.Role == domain.RoleFormateur {
		formateurID = &user.ID
	}

	presence, err := h.svc.MarkPresence(ctx.Request.Context(), seanceID, req.ParticipantID, domain.PresenceStatus(req.Status), formateurID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSeanceNotFound):
			response.RenderErr(ctx, response.ErrNotFound("seance", "ID", seanceID))
		case errors.Is(err, service.ErrParticipantNotEnrolled),
			errors.Is(err, service.ErrInvalidPresenceStatus):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleMarkPresence -> h.svc.MarkPresence -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, presence)
}

package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lbonnet/formatrack-api/internal/api/handler/v1/request"
	"github.com/lbonnet/formatrack-api/internal/api/handler/v1/response"
	"github.com/lbonnet/formatrack-api/internal/domain"
	"github.com/lbonnet/formatrack-api/internal/pkg/dateutil"
	"github.com/lbonnet/formatrack-api/internal/service"
)

type PlanningService interface {
	CreateFormation(ctx context.Context, formation domain.Formation) (domain.Formation, error)
	GetFormation(ctx context.Context, id uint) (domain.Formation, error)
	ListFormations(ctx context.Context) ([]domain.Formation, error)
	SchedulableDates(ctx context.Context, formationID uint) ([]time.Time, error)
	ListSeances(ctx context.Context, formationID uint) ([]domain.Seance, error)
	CreateSeance(ctx context.Context, formationID uint, date time.Time, heure string, dureeHeures int, formateurID *uint) (domain.Seance, error)
	RescheduleSeance(ctx context.Context, seanceID uint, newDate time.Time, newHeure string) (domain.Seance, error)
	SetSeanceStatus(ctx context.Context, seanceID uint, statut domain.SeanceStatut) (domain.Seance, error)
	DeleteSeance(ctx context.Context, seanceID uint) error
}

type PlanningHandler struct {
	svc  PlanningService
	uSvc UserService
}

func NewPlanningHandler(svc PlanningService, uSvc UserService) *PlanningHandler {
	return &PlanningHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleListFormations godoc
// @Summary      List formations
// @Tags         formations
// @Produce      json
// @Success      200  {array}   domain.Formation
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /formations [get]
// @Security     BearerAuth
func (h *PlanningHandler) HandleListFormations(ctx *gin.Context) {
	formations, err := h.svc.ListFormations(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListFormations -> h.svc.ListFormations -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, formations)
}

// HandleCreateFormation godoc
// @Summary      Create a formation
// @Tags         formations
// @Produce      json
// @Param        request  body      request.CreateFormationRequest true "request body"
// @Success      201      {object}  domain.Formation
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /formations [post]
// @Security     BearerAuth
func (h *PlanningHandler) HandleCreateFormation(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if user.Role != domain.RoleAdmin {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))

		return
	}

	var req request.CreateFormationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	debut, fin, err := req.ParsedDates()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	formation, err := h.svc.CreateFormation(ctx.Request.Context(), domain.Formation{
		Intitule:      req.Intitule,
		ThemeID:       req.ThemeID,
		DateDebut:     debut,
		DateFin:       fin,
		Lieu:          req.Lieu,
		EffectifPrevu: req.EffectifPrevu,
		DureeJours:    req.DureeJours,
		DureeHeures:   req.DureeHeures,
	})
	if err != nil {
		if errors.Is(err, dateutil.ErrInvalidRange) {
			response.RenderErr(ctx, response.ErrBadRequest(err))

			return
		}

		err = fmt.Errorf("v1.HandleCreateFormation -> h.svc.CreateFormation -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, formation)
}

// HandleGetFormation godoc
// @Summary      Get a formation by ID
// @Tags         formations
// @Produce      json
// @Param        formationID  path      int  true  "Formation ID"
// @Success      200          {object}  domain.Formation
// @Failure      404          {object}  response.Err
// @Failure      500          {object}  response.Err
// @Router       /formations/{formationID} [get]
// @Security     BearerAuth
func (h *PlanningHandler) HandleGetFormation(ctx *gin.Context) {
	formationID, respErr := parseIDParam(ctx, "formationID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	formation, err := h.svc.GetFormation(ctx.Request.Context(), formationID)
	if err != nil {
		h.renderPlanningErr(ctx, "v1.HandleGetFormation", formationID, err)

		return
	}

	ctx.JSON(http.StatusOK, formation)
}

// HandleSchedulableDates godoc
// @Summary      List schedulable days of a formation
// @Tags         formations
// @Produce      json
// @Param        formationID  path      int  true  "Formation ID"
// @Success      200          {array}   string
// @Failure      404          {object}  response.Err
// @Failure      500          {object}  response.Err
// @Router       /formations/{formationID}/dates [get]
// @Security     BearerAuth
func (h *PlanningHandler) HandleSchedulableDates(ctx *gin.Context) {
	formationID, respErr := parseIDParam(ctx, "formationID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	days, err := h.svc.SchedulableDates(ctx.Request.Context(), formationID)
	if err != nil {
		h.renderPlanningErr(ctx, "v1.HandleSchedulableDates", formationID, err)

		return
	}

	dates := make([]string, len(days))
	for i, day := range days {
		dates[i] = day.Format("2006-01-02")
	}

	ctx.JSON(http.StatusOK, dates)
}

// HandleListSeances godoc
// @Summary      List seances of a formation
// @Tags         seances
// @Produce      json
// @Param        formationID  path      int  true  "Formation ID"
// @Success      200          {array}   domain.Seance
// @Failure      404          {object}  response.Err
// @Failure      500          {object}  response.Err
// @Router       /formations/{formationID}/seances [get]
// @Security     BearerAuth
func (h *PlanningHandler) HandleListSeances(ctx *gin.Context) {
	formationID, respErr := parseIDParam(ctx, "formationID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	seances, err := h.svc.ListSeances(ctx.Request.Context(), formationID)
	if err != nil {
		h.renderPlanningErr(ctx, "v1.HandleListSeances", formationID, err)

		return
	}

	ctx.JSON(http.StatusOK, seances)
}

// HandleCreateSeance godoc
// @Summary      Schedule a seance
// @Tags         seances
// @Produce      json
// @Param        formationID  path      int  true  "Formation ID"
// @Param        request      body      request.CreateSeanceRequest true "request body"
// @Success      201          {object}  domain.Seance
// @Failure      400          {object}  response.Err
// @Failure      404          {object}  response.Err
// @Failure      409          {object}  response.Err
// @Failure      500          {object}  response.Err
// @Router       /formations/{formationID}/seances [post]
// @Security     BearerAuth
func (h *PlanningHandler) HandleCreateSeance(ctx *gin.Context) {
	formationID, respErr := parseIDParam(ctx, "formationID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.CreateSeanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	date, err := req.ParsedDate()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	seance, err := h.svc.CreateSeance(ctx.Request.Context(), formationID, date, req.Heure, req.DureeHeures, req.FormateurID)
	if err != nil {
		h.renderPlanningErr(ctx, "v1.HandleCreateSeance", formationID, err)

		return
	}

	ctx.JSON(http.StatusCreated, seance)
}

// HandleRescheduleSeance godoc
// @Summary      Reschedule a seance
// @Tags         seances
// @Produce      json
// @Param        seanceID  path      int  true  "Seance ID"
// @Param        request   body      request.RescheduleSeanceRequest true "request body"
// @Success      200       {object}  domain.Seance
// @Failure      400       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      409       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /seances/{seanceID} [put]
// @Security     BearerAuth
func (h *PlanningHandler) HandleRescheduleSeance(ctx *gin.Context) {
	seanceID, respErr := parseIDParam(ctx, "seanceID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.RescheduleSeanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	date, err := req.ParsedDate()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	seance, err := h.svc.RescheduleSeance(ctx.Request.Context(), seanceID, date, req.Heure)
	if err != nil {
		h.renderPlanningErr(ctx, "v1.HandleRescheduleSeance", seanceID, err)

		return
	}

	ctx.JSON(http.StatusOK, seance)
}

// HandleSetSeanceStatus godoc
// @Summary      Set a seance's statut
// @Tags         seances
// @Produce      json
// @Param        seanceID  path      int  true  "Seance ID"
// @Param        request   body      request.UpdateSeanceStatusRequest true "request body"
// @Success      200       {object}  domain.Seance
// @Failure      400       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /seances/{seanceID}/status [patch]
// @Security     BearerAuth
func (h *PlanningHandler) HandleSetSeanceStatus(ctx *gin.Context) {
	seanceID, respErr := parseIDParam(ctx, "seanceID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.UpdateSeanceStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	seance, err := h.svc.SetSeanceStatus(ctx.Request.Context(), seanceID, domain.SeanceStatut(req.Statut))
	if err != nil {
		h.renderPlanningErr(ctx, "v1.HandleSetSeanceStatus", seanceID, err)

		return
	}

	ctx.JSON(http.StatusOK, seance)
}

// HandleDeleteSeance godoc
// @Summary      Delete a seance and its presences
// @Tags         seances
// @Produce      json
// @Param        seanceID  path  int  true  "Seance ID"
// @Success      204
// @Failure      404       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /seances/{seanceID} [delete]
// @Security     BearerAuth
func (h *PlanningHandler) HandleDeleteSeance(ctx *gin.Context) {
	seanceID, respErr := parseIDParam(ctx, "seanceID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if err := h.svc.DeleteSeance(ctx.Request.Context(), seanceID); err != nil {
		h.renderPlanningErr(ctx, "v1.HandleDeleteSeance", seanceID, err)

		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *PlanningHandler) renderPlanningErr(ctx *gin.Context, op string, id uint, err error) {
	switch {
	case errors.Is(err, service.ErrFormationNotFound):
		response.RenderErr(ctx, response.ErrNotFound("formation", "ID", id))
	case errors.Is(err, service.ErrSeanceNotFound):
		response.RenderErr(ctx, response.ErrNotFound("seance", "ID", id))
	case errors.Is(err, service.ErrTrainerConflict):
		response.RenderErr(ctx, response.ErrConflict(err))
	case errors.Is(err, service.ErrDateOutsideFormation),
		errors.Is(err, service.ErrInvalidDuration),
		errors.Is(err, service.ErrInvalidHeure),
		errors.Is(err, service.ErrInvalidStatut),
		errors.Is(err, dateutil.ErrInvalidRange):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	default:
		response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("%v -> %w", op, err)))
	}
}

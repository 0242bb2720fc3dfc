package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/volunthub/volunthub-api/internal/api/handler/v1/request"
	"github.com/volunthub/volunthub-api/internal/api/handler/v1/response"
	"github.com/volunthub/volunthub-api/internal/domain"
	"github.com/volunthub/volunthub-api/internal/service"
)

type ApplicationService interface {
	Apply(ctx context.Context, caller domain.User, eventID uint, message string) (domain.Application, error)
	ListForEvent(ctx context.Context, caller domain.User, eventID uint) ([]domain.Application, error)
	ListByApplicant(ctx context.Context, applicantID uint) ([]domain.Application, error)
	UpdateStatus(ctx context.Context, caller domain.User, applicationID uint, status domain.ApplicationStatus) (domain.Application, error)
}

type ApplicationHandler struct {
	svc  ApplicationService
	uSvc UserService
}

func NewApplicationHandler(svc ApplicationService, uSvc UserService) *ApplicationHandler {
	return &ApplicationHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleApply godoc
// @Summary      Apply to an event
// @Description  Files the caller's application. One application per (event, applicant); the application credit is granted in the same transaction.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        eventID  path      int  true "event ID"
// @Param        request  body      request.ApplyRequest true "request body"
// @Success      201      {object}  domain.Application
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/applications [post]
// @Security     BearerAuth
func (h *ApplicationHandler) HandleApply(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	eventID, respErr := eventIDFromPath(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.ApplyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	application, err := h.svc.Apply(ctx.Request.Context(), user, eventID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrEventNotApproved):
			response.RenderErr(ctx, response.ErrUnprocessable(service.ErrEventNotApproved))
		case errors.Is(err, service.ErrOwnEvent):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrOwnEvent))
		case errors.Is(err, service.ErrApplicationExists):
			response.RenderErr(ctx, response.ErrConflict(service.ErrApplicationExists))
		default:
			err = fmt.Errorf("v1.HandleApply -> h.svc.Apply -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusCreated, application)
}

// HandleGetEventApplications godoc
// @Summary      List an event's applications
// @Description  Visible to the event's owning organization and administrators
// @Tags         applications
// @Produce      json
// @Param        eventID  path      int  true "event ID"
// @Success      200      {array}   domain.Application
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) HandleGetEventApplications(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	eventID, respErr := eventIDFromPath(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	applications, err := h.svc.ListForEvent(ctx.Request.Context(), user, eventID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrNotReviewer):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotReviewer))
		default:
			err = fmt.Errorf("v1.HandleGetEventApplications -> h.svc.ListForEvent -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, applications)
}

// HandleGetMyApplications godoc
// @Summary      List the caller's applications
// @Tags         applications
// @Produce      json
// @Success      200  {array}   domain.Application
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) HandleGetMyApplications(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	applications, err := h.svc.ListByApplicant(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetMyApplications -> h.svc.ListByApplicant -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, applications)
}

// HandleUpdateApplicationStatus godoc
// @Summary      Accept or reject an application
// @Description  Reviews a pending application. Accepted and rejected applications are final.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        applicationID  path      int  true "application ID"
// @Param        request        body      request.ApplicationStatusRequest true "request body"
// @Success      200            {object}  domain.Application
// @Failure      400            {object}  response.Err
// @Failure      401            {object}  response.Err
// @Failure      403            {object}  response.Err
// @Failure      404            {object}  response.Err
// @Failure      422            {object}  response.Err
// @Failure      500            {object}  response.Err
// @Router       /applications/{applicationID}/status [patch]
// @Security     BearerAuth
func (h *ApplicationHandler) HandleUpdateApplicationStatus(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	rawApplicationID := ctx.Param("applicationID")
	applicationID, err := strconv.Atoi(rawApplicationID)
	if err != nil || applicationID <= 0 {
		response.RenderErr(ctx, response.ErrNotFound("application", "ID", rawApplicationID))

		return
	}

	var req request.ApplicationStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	application, err := h.svc.UpdateStatus(ctx.Request.Context(), user, uint(applicationID), domain.ApplicationStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrApplicationNotFound):
			response.RenderErr(ctx, response.ErrNotFound("application", "ID", applicationID))
		case errors.Is(err, service.ErrNotReviewer):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotReviewer))
		case errors.Is(err, service.ErrApplicationReviewed):
			response.RenderErr(ctx, response.ErrUnprocessable(service.ErrApplicationReviewed))
		default:
			err = fmt.Errorf("v1.HandleUpdateApplicationStatus -> h.svc.UpdateStatus -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, application)
}

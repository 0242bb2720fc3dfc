package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/volunthub/volunthub-api/internal/api/handler/v1/request"
	"github.com/volunthub/volunthub-api/internal/api/handler/v1/response"
	"github.com/volunthub/volunthub-api/internal/domain"
	"github.com/volunthub/volunthub-api/internal/service"
)

type EventService interface {
	CreateEvent(ctx context.Context, caller domain.User, event domain.Event) (domain.Event, error)
	GetEvent(ctx context.Context, id uint) (domain.Event, error)
	ListApprovedEvents(ctx context.Context) ([]domain.Event, error)
	ListEventsByOrganizer(ctx context.Context, organizerID uint) ([]domain.Event, error)
	SetEventStatus(ctx context.Context, caller domain.User, eventID uint, status domain.EventStatus, reason string) (domain.Event, error)
	Participate(ctx context.Context, caller domain.User, eventID uint) (domain.ParticipationResult, error)
	Leave(ctx context.Context, caller domain.User, eventID uint) (domain.Event, error)
	Donate(ctx context.Context, caller domain.User, eventID uint, amount decimal.Decimal) (domain.Donation, error)
}

type EventHandler struct {
	svc  EventService
	uSvc UserService
}

func NewEventHandler(svc EventService, uSvc UserService) *EventHandler {
	return &EventHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

func eventIDFromPath(ctx *gin.Context) (uint, *response.Err) {
	rawEventID := ctx.Param("eventID")
	eventID, err := strconv.Atoi(rawEventID)
	if err != nil || eventID <= 0 {
		return 0, response.ErrNotFound("event", "ID", rawEventID)
	}

	return uint(eventID), nil
}

// HandleCreateEvent godoc
// @Summary      Create a new event
// @Description  Publishes an event in pending status. Only organization accounts can create events.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateEventRequest true "request body"
// @Success      201      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events [post]
// @Security     BearerAuth
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	event, err := h.svc.CreateEvent(ctx.Request.Context(), user, domain.Event{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		StartsAt:     req.StartsAt,
		Capacity:     req.Capacity,
		RewardPoints: req.RewardPoints,
		RewardCoins:  req.RewardCoins,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotOrganization):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotOrganization))
		case errors.Is(err, service.ErrEventDateInPast):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrEventDateInPast))
		case errors.Is(err, service.ErrInvalidCapacity):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidCapacity))
		default:
			err = fmt.Errorf("v1.HandleCreateEvent -> h.svc.CreateEvent -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusCreated, event)
}

// HandleGetEvents godoc
// @Summary      List approved events
// @Tags         events
// @Produce      json
// @Success      200  {array}   domain.Event
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events [get]
// @Security     BearerAuth
func (h *EventHandler) HandleGetEvents(ctx *gin.Context) {
	events, err := h.svc.ListApprovedEvents(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetEvents -> h.svc.ListApprovedEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleGetMyEvents godoc
// @Summary      List the caller's own events
// @Description  Returns every event the calling organization created, in any status
// @Tags         events
// @Produce      json
// @Success      200  {array}   domain.Event
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/mine [get]
// @Security     BearerAuth
func (h *EventHandler) HandleGetMyEvents(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	events, err := h.svc.ListEventsByOrganizer(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetMyEvents -> h.svc.ListEventsByOrganizer -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleGetEvent godoc
// @Summary      Get an event by ID
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true "event ID"
// @Success      200      {object}  domain.Event
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID} [get]
// @Security     BearerAuth
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	eventID, respErr := eventIDFromPath(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	event, err := h.svc.GetEvent(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))

			return
		}

		err = fmt.Errorf("v1.HandleGetEvent -> h.svc.GetEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleSetEventStatus godoc
// @Summary      Review an event
// @Description  Approves or rejects a pending event; a rejected event may still be approved later. Administrators only.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      int  true "event ID"
// @Param        request  body      request.EventStatusRequest true "request body"
// @Success      200      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/status [patch]
// @Security     BearerAuth
func (h *EventHandler) HandleSetEventStatus(ctx *gin.Context) {
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

	var req request.EventStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	event, err := h.svc.SetEventStatus(ctx.Request.Context(), user, eventID, domain.EventStatus(req.Status), req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAdministrator):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotAdministrator))
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrInvalidTransition):
			response.RenderErr(ctx, response.ErrUnprocessable(service.ErrInvalidTransition))
		default:
			err = fmt.Errorf("v1.HandleSetEventStatus -> h.svc.SetEventStatus -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleParticipate godoc
// @Summary      Join an event
// @Description  Registers the caller as a participant and credits the participation reward in the same transaction
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true "event ID"
// @Success      200      {object}  domain.ParticipationResult
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/participate [post]
// @Security     BearerAuth
func (h *EventHandler) HandleParticipate(ctx *gin.Context) {
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

	result, err := h.svc.Participate(ctx.Request.Context(), user, eventID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrEventNotApproved):
			response.RenderErr(ctx, response.ErrUnprocessable(service.ErrEventNotApproved))
		case errors.Is(err, service.ErrEventStarted):
			response.RenderErr(ctx, response.ErrUnprocessable(service.ErrEventStarted))
		case errors.Is(err, service.ErrOwnEvent):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrOwnEvent))
		case errors.Is(err, service.ErrAlreadyParticipant):
			response.RenderErr(ctx, response.ErrConflict(service.ErrAlreadyParticipant))
		case errors.Is(err, service.ErrEventFull):
			response.RenderErr(ctx, response.ErrConflict(service.ErrEventFull))
		default:
			err = fmt.Errorf("v1.HandleParticipate -> h.svc.Participate -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, result)
}

// HandleLeave godoc
// @Summary      Leave an event
// @Description  Removes the caller from the participant set. Earned rewards are kept.
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true "event ID"
// @Success      200      {object}  domain.Event
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/participate [delete]
// @Security     BearerAuth
func (h *EventHandler) HandleLeave(ctx *gin.Context) {
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

	event, err := h.svc.Leave(ctx.Request.Context(), user, eventID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrEventStarted):
			response.RenderErr(ctx, response.ErrUnprocessable(service.ErrEventStarted))
		case errors.Is(err, service.ErrNotParticipant):
			response.RenderErr(ctx, response.ErrConflict(service.ErrNotParticipant))
		default:
			err = fmt.Errorf("v1.HandleLeave -> h.svc.Leave -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleDonate godoc
// @Summary      Donate to an event
// @Description  Records a donation against an approved event and credits the donor's coins
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      int  true "event ID"
// @Param        request  body      request.DonationRequest true "request body"
// @Success      201      {object}  domain.Donation
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/donations [post]
// @Security     BearerAuth
func (h *EventHandler) HandleDonate(ctx *gin.Context) {
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

	var req request.DonationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	donation, err := h.svc.Donate(ctx.Request.Context(), user, eventID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidAmount))
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrEventNotApproved):
			response.RenderErr(ctx, response.ErrUnprocessable(service.ErrEventNotApproved))
		default:
			err = fmt.Errorf("v1.HandleDonate -> h.svc.Donate -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusCreated, donation)
}

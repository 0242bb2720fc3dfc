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

type CompletionService interface {
	Request(ctx context.Context, caller domain.User, eventID uint, evidence string) (domain.CompletionRequest, error)
	ListForEvent(ctx context.Context, caller domain.User, eventID uint) ([]domain.CompletionRequest, error)
	Review(ctx context.Context, caller domain.User, requestID uint, approve bool, rejectReason string) (service.CompletionResult, error)
}

type CompletionHandler struct {
	svc  CompletionService
	uSvc UserService
}

func NewCompletionHandler(svc CompletionService, uSvc UserService) *CompletionHandler {
	return &CompletionHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleRequestCompletion godoc
// @Summary      File a completion request
// @Description  Claims a finished event as completed, with supporting evidence. Only the owning organization may file.
// @Tags         completions
// @Accept       json
// @Produce      json
// @Param        eventID  path      int  true "event ID"
// @Param        request  body      request.CompletionRequest true "request body"
// @Success      201      {object}  domain.CompletionRequest
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/completions [post]
// @Security     BearerAuth
func (h *CompletionHandler) HandleRequestCompletion(ctx *gin.Context) {
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

	var req request.CompletionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	completion, err := h.svc.Request(ctx.Request.Context(), user, eventID, req.Evidence)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrNotEventOrganizer):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotEventOrganizer))
		case errors.Is(err, service.ErrEventNotApproved):
			response.RenderErr(ctx, response.ErrUnprocessable(service.ErrEventNotApproved))
		case errors.Is(err, service.ErrEventNotFinished):
			response.RenderErr(ctx, response.ErrUnprocessable(service.ErrEventNotFinished))
		default:
			err = fmt.Errorf("v1.HandleRequestCompletion -> h.svc.Request -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusCreated, completion)
}

// HandleGetEventCompletions godoc
// @Summary      List an event's completion requests
// @Description  Visible to the event's owning organization and administrators
// @Tags         completions
// @Produce      json
// @Param        eventID  path      int  true "event ID"
// @Success      200      {array}   domain.CompletionRequest
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/completions [get]
// @Security     BearerAuth
func (h *CompletionHandler) HandleGetEventCompletions(ctx *gin.Context) {
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

	completions, err := h.svc.ListForEvent(ctx.Request.Context(), user, eventID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrNotReviewer):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotReviewer))
		default:
			err = fmt.Errorf("v1.HandleGetEventCompletions -> h.svc.ListForEvent -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, completions)
}

// HandleReviewCompletion godoc
// @Summary      Review a completion request
// @Description  Approves or rejects a pending completion request. Approval credits every participant's completion score exactly once. Administrators only.
// @Tags         completions
// @Accept       json
// @Produce      json
// @Param        completionID  path      int  true "completion request ID"
// @Param        request       body      request.ReviewCompletionRequest true "request body"
// @Success      200           {object}  service.CompletionResult
// @Failure      400           {object}  response.Err
// @Failure      401           {object}  response.Err
// @Failure      403           {object}  response.Err
// @Failure      404           {object}  response.Err
// @Failure      422           {object}  response.Err
// @Failure      500           {object}  response.Err
// @Router       /completions/{completionID}/review [post]
// @Security     BearerAuth
func (h *CompletionHandler) HandleReviewCompletion(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	rawCompletionID := ctx.Param("completionID")
	completionID, err := strconv.Atoi(rawCompletionID)
	if err != nil || completionID <= 0 {
		response.RenderErr(ctx, response.ErrNotFound("completion request", "ID", rawCompletionID))

		return
	}

	var req request.ReviewCompletionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	result, err := h.svc.Review(ctx.Request.Context(), user, uint(completionID), req.Status == "approved", req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAdministrator):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotAdministrator))
		case errors.Is(err, service.ErrCompletionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("completion request", "ID", completionID))
		case errors.Is(err, service.ErrCompletionReviewed):
			response.RenderErr(ctx, response.ErrUnprocessable(service.ErrCompletionReviewed))
		default:
			err = fmt.Errorf("v1.HandleReviewCompletion -> h.svc.Review -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, result)
}

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
	"github.com/volunthub/volunthub-api/internal/reward"
	"github.com/volunthub/volunthub-api/internal/service"
)

type RewardService interface {
	CreditReward(ctx context.Context, caller domain.User, userID uint, action reward.Action, reference string) (domain.CreditResult, error)
	AwardCoins(ctx context.Context, caller domain.User, userID uint, amount int) (domain.User, error)
	SpendCoins(ctx context.Context, caller domain.User, amount int) (domain.User, error)
	GetGrants(ctx context.Context, userID uint) ([]domain.RewardGrant, error)
}

type RewardHandler struct {
	svc  RewardService
	uSvc UserService
}

func NewRewardHandler(svc RewardService, uSvc UserService) *RewardHandler {
	return &RewardHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleCreditReward godoc
// @Summary      Credit a reward to a user
// @Description  Credits the configured rule for an action once per (action, reference). Administrators only.
// @Tags         rewards
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreditRewardRequest true "request body"
// @Success      200      {object}  domain.CreditResult
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /rewards/credit [post]
// @Security     BearerAuth
func (h *RewardHandler) HandleCreditReward(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.CreditRewardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	result, err := h.svc.CreditReward(ctx.Request.Context(), user, req.UserID, reward.Action(req.Action), req.Reference)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAdministrator):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotAdministrator))
		case errors.Is(err, service.ErrUnknownAction):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrUnknownAction))
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", req.UserID))
		case errors.Is(err, service.ErrDuplicateReward):
			response.RenderErr(ctx, response.ErrConflict(service.ErrDuplicateReward))
		default:
			err = fmt.Errorf("v1.HandleCreditReward -> h.svc.CreditReward -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, result)
}

// HandleAwardCoins godoc
// @Summary      Award free coins to a user
// @Tags         rewards
// @Accept       json
// @Produce      json
// @Param        userID   path      int  true "user ID"
// @Param        request  body      request.CoinsRequest true "request body"
// @Success      200      {object}  domain.User
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /users/{userID}/coins/award [post]
// @Security     BearerAuth
func (h *RewardHandler) HandleAwardCoins(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	rawUserID := ctx.Param("userID")
	userID, err := strconv.Atoi(rawUserID)
	if err != nil || userID <= 0 {
		response.RenderErr(ctx, response.ErrNotFound("user", "ID", rawUserID))

		return
	}

	var req request.CoinsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	awarded, err := h.svc.AwardCoins(ctx.Request.Context(), user, uint(userID), req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAdministrator):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotAdministrator))
		case errors.Is(err, service.ErrInvalidAmount):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidAmount))
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))
		default:
			err = fmt.Errorf("v1.HandleAwardCoins -> h.svc.AwardCoins -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, awarded)
}

// HandleSpendCoins godoc
// @Summary      Spend coins from the caller's balance
// @Description  Debits the caller's coins. The balance can never go below zero.
// @Tags         rewards
// @Accept       json
// @Produce      json
// @Param        request  body      request.CoinsRequest true "request body"
// @Success      200      {object}  domain.User
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /coins/spend [post]
// @Security     BearerAuth
func (h *RewardHandler) HandleSpendCoins(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.CoinsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	debited, err := h.svc.SpendCoins(ctx.Request.Context(), user, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidAmount))
		case errors.Is(err, service.ErrInsufficientCoins):
			response.RenderErr(ctx, response.ErrUnprocessable(service.ErrInsufficientCoins))
		default:
			err = fmt.Errorf("v1.HandleSpendCoins -> h.svc.SpendCoins -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, debited)
}

// HandleGetGrants godoc
// @Summary      List a user's reward grants
// @Description  Returns the user's ledger entries. Callers see their own; administrators see anyone's.
// @Tags         rewards
// @Produce      json
// @Param        userID   path      int  true "user ID"
// @Success      200      {array}   domain.RewardGrant
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /users/{userID}/grants [get]
// @Security     BearerAuth
func (h *RewardHandler) HandleGetGrants(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	rawUserID := ctx.Param("userID")
	userID, err := strconv.Atoi(rawUserID)
	if err != nil || userID <= 0 {
		response.RenderErr(ctx, response.ErrNotFound("user", "ID", rawUserID))

		return
	}

	if !user.IsAdministrator() && user.ID != uint(userID) {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v may not read another user's grants", user.ID)))

		return
	}

	grants, err := h.svc.GetGrants(ctx.Request.Context(), uint(userID))
	if err != nil {
		err = fmt.Errorf("v1.HandleGetGrants -> h.svc.GetGrants -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, grants)
}

package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/volunthub/volunthub-api/internal/api/handler/v1/response"
	"github.com/volunthub/volunthub-api/internal/domain"
)

// getUserFromContext resolves the authenticated caller from the user id
// the JWT middleware stored on the request.
func getUserFromContext(ctx *gin.Context, uSvc UserService) (domain.User, *response.Err) {
	value, exists := ctx.Get("userID")
	if !exists {
		return domain.User{}, response.ErrUnauthorized("user is not authenticated")
	}

	userID, ok := value.(uint)
	if !ok {
		return domain.User{}, response.ErrUnauthorized("user is not authenticated")
	}

	user, err := uSvc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		return domain.User{}, response.ErrUnauthorized("user is not found")
	}

	return user, nil
}

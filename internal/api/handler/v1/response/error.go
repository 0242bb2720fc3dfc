package response

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Err struct {
	StatusCode   int    `json:"-"`
	ErrorMsg     string `json:"error"`
	internalOnly bool
}

func (e *Err) Error() string {
	return e.ErrorMsg
}

// RenderErr writes the error as JSON. Server-side errors are logged with
// the request id and replaced with a generic message so internals never
// reach the client.
func RenderErr(ctx *gin.Context, err *Err) {
	if err.internalOnly {
		zap.L().Error("server error",
			zap.Int("status_code", err.StatusCode),
			zap.String("request_id", requestid.Get(ctx)),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.String("error", err.ErrorMsg),
		)

		ctx.JSON(err.StatusCode, Err{
			StatusCode: err.StatusCode,
			ErrorMsg:   "something went wrong",
		})
		return
	}

	ctx.JSON(err.StatusCode, err)
}

func ErrBadRequest(err error) *Err {
	return &Err{
		StatusCode: http.StatusBadRequest,
		ErrorMsg:   err.Error(),
	}
}

func ErrWrongCredentials(err error) *Err {
	return &Err{
		StatusCode: http.StatusUnauthorized,
		ErrorMsg:   err.Error(),
	}
}

func ErrUnauthorized(msg string) *Err {
	return &Err{
		StatusCode: http.StatusUnauthorized,
		ErrorMsg:   msg,
	}
}

func ErrPermissionDenied(err error) *Err {
	return &Err{
		StatusCode: http.StatusForbidden,
		ErrorMsg:   err.Error(),
	}
}

func ErrNotFound(resource, by string, value interface{}) *Err {
	return &Err{
		StatusCode: http.StatusNotFound,
		ErrorMsg:   fmt.Sprintf("%v with %v (%v) is not found", resource, by, value),
	}
}

func ErrConflict(err error) *Err {
	return &Err{
		StatusCode: http.StatusConflict,
		ErrorMsg:   err.Error(),
	}
}

func ErrUnprocessable(err error) *Err {
	return &Err{
		StatusCode: http.StatusUnprocessableEntity,
		ErrorMsg:   err.Error(),
	}
}

func ErrInternalServerError(err error) *Err {
	return &Err{
		StatusCode:   http.StatusInternalServerError,
		ErrorMsg:     err.Error(),
		internalOnly: true,
	}
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/fatflowers/duesledger/internal/app/service/billing"
	nh "github.com/fatflowers/duesledger/internal/app/service/notification_handler"
	"github.com/fatflowers/duesledger/internal/app/service/paymentlog"
	"github.com/fatflowers/duesledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// errorCode maps service errors onto response codes.
func errorCode(err error) response.APIResponseCode {
	switch {
	case errors.Is(err, billing.ErrMemberNotFound), errors.Is(err, paymentlog.ErrEntryNotFound):
		return response.APIResponseCodeNotFound
	case errors.Is(err, paymentlog.ErrInvalidReturnCode),
		errors.Is(err, paymentlog.ErrInvalidSort),
		errors.Is(err, nh.ErrInvalidEvent),
		errors.Is(err, nh.ErrUnsupportedPortal):
		return response.APIResponseCodeBadRequest
	default:
		return response.APIResponseCodeError
	}
}

func writeError(c *gin.Context, err error) {
	c.JSON(http.StatusOK, response.ErrorT[any](errorCode(err), err.Error()))
}

func writeBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, msg))
}

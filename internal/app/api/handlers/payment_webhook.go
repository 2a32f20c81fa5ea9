package handlers

import (
	"io"
	"net/http"

	nh "github.com/fatflowers/duesledger/internal/app/service/notification_handler"
	"github.com/fatflowers/duesledger/pkg/logctx"
	"github.com/fatflowers/duesledger/pkg/response"
	"github.com/fatflowers/duesledger/pkg/types"

	"github.com/gin-gonic/gin"
)

const maxWebhookBody = 1 << 20

// @Summary      Payment webhook
// @Description  Records a payment event the processor adapter has already verified. The member is resolved from the custom field.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Param        portal   path  string                true  "Payment portal"  Enums(paypal)
// @Param        payload  body  nh.PaymentEvent  true  "Verified payment event"
// @Success      200  {object}  handlers.RespRecordPayment
// @Router       /api/v2/payment/webhook/{portal} [post]
func ApiPaymentWebhook(h *nh.NotificationHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		portal := types.PaymentPortal(c.Param("portal"))
		lg := logctx.FromGin(c, h.Logger).With("payment_portal", portal)
		lg.Infow("webhook_received")

		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
		if err != nil {
			writeBadRequest(c, err.Error())
			return
		}
		res, err := h.HandleNotification(c.Request.Context(), portal, body)
		if err != nil {
			lg.Errorw("webhook_handle_error", "error", err.Error())
			writeError(c, err)
			return
		}
		lg.Infow("webhook_handled", "entry_id", res.EntryID, "duplicate", res.Duplicate)
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterPaymentWebhookRoutes(r gin.IRouter, h *nh.NotificationHandler) {
	r.POST("/webhook/:portal", ApiPaymentWebhook(h))
}

package handlers

import (
	"net/http"

	"github.com/fatflowers/duesledger/internal/app/service/paymentlog"
	"github.com/fatflowers/duesledger/internal/app/service/status"
	"github.com/fatflowers/duesledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// MemberStatusResponse is the status view plus the return code the member's
// payment form sends as its custom field.
type MemberStatusResponse struct {
	*status.View
	Custom string `json:"custom"`
}

// @Summary      Member payment status
// @Description  Evaluates the member's dues status without writing it. Info holds the display dates; custom is the payment form return code.
// @Tags         Member
// @Produce      json
// @Param        id   path  string  true  "Member ID"
// @Success      200  {object}  handlers.RespMemberStatus
// @Router       /api/v1/member/{id}/status [get]
func ApiGetMemberStatus(w *status.Writer, code paymentlog.ReturnCode) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := w.Query(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(&MemberStatusResponse{View: view, Custom: code.Encode(view.MemberID)}))
	}
}

// @Summary      Offline payment promise
// @Description  Marks the member as pending until the offline payment arrives or the pending window ends.
// @Tags         Member
// @Produce      json
// @Param        id   path  string  true  "Member ID"
// @Success      200  {object}  handlers.RespWriteResult
// @Router       /api/v1/member/{id}/offline_payment [post]
func ApiOfflinePayment(svc *paymentlog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.RecordOfflinePromise(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

type SubmissionRequest struct {
	Values map[string]any `json:"values"`
}

// @Summary      Member form submission
// @Description  Rewrites the member's status after a form submission. Submissions on the way to an online portal are skipped.
// @Tags         Member
// @Accept       json
// @Produce      json
// @Param        id       path  string             true  "Member ID"
// @Param        request  body  SubmissionRequest  true  "Submitted values"
// @Success      200  {object}  handlers.RespWriteResult
// @Router       /api/v1/member/{id}/submission [post]
func ApiSubmission(w *status.Writer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SubmissionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBadRequest(c, err.Error())
			return
		}
		res, err := w.UpdateStatusFields(c.Request.Context(), status.Submission{MemberID: c.Param("id"), Values: req.Values})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterMemberRoutes(r gin.IRouter, w *status.Writer, payments *paymentlog.Service) {
	r.GET("/:id/status", ApiGetMemberStatus(w, payments.ReturnCode()))
	r.POST("/:id/offline_payment", ApiOfflinePayment(payments))
	r.POST("/:id/submission", ApiSubmission(w))
}

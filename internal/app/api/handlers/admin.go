package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/fatflowers/duesledger/internal/app/service/events"
	"github.com/fatflowers/duesledger/internal/app/service/member"
	"github.com/fatflowers/duesledger/internal/app/service/paymentlog"
	"github.com/fatflowers/duesledger/internal/app/service/reconcile"
	"github.com/fatflowers/duesledger/internal/app/service/statistics"
	"github.com/fatflowers/duesledger/internal/models"
	"github.com/fatflowers/duesledger/pkg/response"
	"github.com/fatflowers/duesledger/pkg/types"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// parseDate accepts YYYY-MM-DD or RFC 3339. Empty input yields nil.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", s)
	}
	return &t, nil
}

type CreateMemberRequest struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	// DateRecorded defaults to now.
	DateRecorded string         `json:"date_recorded"`
	Fields       map[string]any `json:"fields"`
}

// @Summary      Create member (Admin)
// @Description  Creates a member record. The status is written immediately.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body CreateMemberRequest true "Member"
// @Success      200  {object}  handlers.RespMember
// @Router       /api/v1/admin/member [post]
func ApiCreateMember(store *member.Store, payments *paymentlog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateMemberRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBadRequest(c, err.Error())
			return
		}
		recorded, err := parseDate(req.DateRecorded)
		if err != nil {
			writeBadRequest(c, err.Error())
			return
		}
		m := &models.Member{ID: req.ID, Email: req.Email, Fields: req.Fields}
		if recorded != nil {
			m.DateRecorded = *recorded
		}
		if err := store.Create(c.Request.Context(), m); err != nil {
			writeError(c, err)
			return
		}
		if _, err := payments.RefreshStatus(c.Request.Context(), m.ID); err != nil {
			writeError(c, err)
			return
		}
		created, err := store.Find(c.Request.Context(), m.ID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(created))
	}
}

type ListPaymentEntriesRequest struct {
	// MemberID lists one member's entries in the order they were logged;
	// the remaining fields are ignored then.
	MemberID  string              `json:"member_id"`
	Filters   types.CommonFilters `json:"filters"`
	From      int                 `json:"from"`
	Size      int                 `json:"size"`
	SortBy    string              `json:"sort_by"`
	SortOrder string              `json:"sort_order"`
}

// @Summary      List payment entries (Admin)
// @Description  Lists one member's ledger, or scans the whole ledger with filters, pagination and sorting.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body ListPaymentEntriesRequest true "List request"
// @Success      200  {object}  handlers.RespListPaymentEntries
// @Router       /api/v1/admin/list_payment_entries [post]
func ApiListPaymentEntries(svc *paymentlog.Service, ledger *paymentlog.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ListPaymentEntriesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBadRequest(c, err.Error())
			return
		}
		if req.MemberID != "" {
			items, err := svc.List(c.Request.Context(), req.MemberID)
			if err != nil {
				writeError(c, err)
				return
			}
			c.JSON(http.StatusOK, response.OKT(&paymentlog.ScanResponse{Items: items, Total: int64(len(items))}))
			return
		}
		res, err := ledger.Scan(c.Request.Context(), &paymentlog.ScanRequest{
			Filters: req.Filters, From: req.From, Size: req.Size, SortBy: req.SortBy, SortOrder: req.SortOrder,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

type DeletePaymentEntryRequest struct {
	EntryID string `json:"entry_id"`
}

// @Summary      Delete payment entry (Admin)
// @Description  Deletes one ledger entry and rewrites the member's status.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body DeletePaymentEntryRequest true "Entry"
// @Success      200  {object}  handlers.RespWriteResult
// @Router       /api/v1/admin/delete_payment_entry [post]
func ApiDeletePaymentEntry(svc *paymentlog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DeletePaymentEntryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBadRequest(c, err.Error())
			return
		}
		if req.EntryID == "" {
			writeBadRequest(c, "missing entry_id")
			return
		}
		res, err := svc.DeleteEntry(c.Request.Context(), req.EntryID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

type ImportEntry struct {
	Portal        types.PaymentPortal `json:"payment_portal"`
	TransactionID string              `json:"transaction_id"`
	GrossAmount   decimal.Decimal     `json:"gross_amount"`
	Currency      string              `json:"currency"`
	PaymentDate   string              `json:"payment_date"`
	DueDate       string              `json:"due_date"`
	PayerEmail    string              `json:"payer_email"`
	PeriodCount   int                 `json:"period_count"`
	Note          string              `json:"note"`
}

type ImportPaymentEntriesRequest struct {
	MemberID string         `json:"member_id"`
	Entries  []*ImportEntry `json:"entries"`
}

func (e *ImportEntry) payment() (*paymentlog.Payment, error) {
	paid, err := parseDate(e.PaymentDate)
	if err != nil {
		return nil, err
	}
	due, err := parseDate(e.DueDate)
	if err != nil {
		return nil, err
	}
	return &paymentlog.Payment{
		Portal:        e.Portal,
		TransactionID: e.TransactionID,
		GrossAmount:   e.GrossAmount,
		Currency:      e.Currency,
		PaymentDate:   paid,
		DueDate:       due,
		PayerEmail:    e.PayerEmail,
		PeriodCount:   e.PeriodCount,
		Note:          e.Note,
	}, nil
}

// @Summary      Import payment entries (Admin)
// @Description  Logs historical entries for one member, then writes its status once.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body ImportPaymentEntriesRequest true "Entries"
// @Success      200  {object}  handlers.RespImport
// @Router       /api/v1/admin/import_payment_entries [post]
func ApiImportPaymentEntries(svc *paymentlog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ImportPaymentEntriesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBadRequest(c, err.Error())
			return
		}
		if req.MemberID == "" {
			writeBadRequest(c, "missing member_id")
			return
		}
		payments := make([]*paymentlog.Payment, 0, len(req.Entries))
		for _, e := range lo.Compact(req.Entries) {
			p, err := e.payment()
			if err != nil {
				writeBadRequest(c, err.Error())
				return
			}
			payments = append(payments, p)
		}
		res, err := svc.Import(c.Request.Context(), req.MemberID, payments)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

type ClearMemberEntriesRequest struct {
	MemberID string `json:"member_id"`
}

// @Summary      Clear member entries (Admin)
// @Description  Deletes every ledger entry of a member and rewrites its status.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body ClearMemberEntriesRequest true "Member"
// @Success      200  {object}  handlers.RespClear
// @Router       /api/v1/admin/clear_member_entries [post]
func ApiClearMemberEntries(svc *paymentlog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ClearMemberEntriesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBadRequest(c, err.Error())
			return
		}
		if req.MemberID == "" {
			writeBadRequest(c, "missing member_id")
			return
		}
		n, err := svc.ClearMember(c.Request.Context(), req.MemberID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(map[string]int64{"deleted": n}))
	}
}

type MemberStatusLogRequest struct {
	MemberID string `json:"member_id"`
}

// @Summary      Member status log (Admin)
// @Description  Lists the status transitions logged for a member, oldest first.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body MemberStatusLogRequest true "Member"
// @Success      200  {object}  handlers.RespStatusLog
// @Router       /api/v1/admin/member_status_log [post]
func ApiMemberStatusLog(store *member.Store, statusLog *events.StatusLogListener) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MemberStatusLogRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBadRequest(c, err.Error())
			return
		}
		if req.MemberID == "" {
			writeBadRequest(c, "missing member_id")
			return
		}
		if _, err := store.Find(c.Request.Context(), req.MemberID); err != nil {
			writeError(c, err)
			return
		}
		rows, err := statusLog.History(c.Request.Context(), req.MemberID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(rows))
	}
}

// @Summary      Run reconciliation (Admin)
// @Description  Runs one time-boxed reconciliation pass. Members not reached are picked up by the next pass.
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  handlers.RespReconcile
// @Router       /api/v1/admin/reconcile [post]
func ApiReconcile(r *reconcile.Reconciler) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := r.Run(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Get dues statistics (Admin)
// @Description  Daily payment counts, daily gross by portal and the status distribution.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body statistics.DuesStatisticRequest true "Statistic request parameters"
// @Success      200  {object}  handlers.RespDuesStatistic
// @Router       /api/v1/admin/get_dues_statistic [post]
func ApiGetDuesStatistic(svc *statistics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statistics.DuesStatisticRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBadRequest(c, err.Error())
			return
		}
		res, err := svc.GetDuesStatistic(c.Request.Context(), &req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

type AdminDeps struct {
	Members    *member.Store
	Payments   *paymentlog.Service
	Ledger     *paymentlog.Ledger
	Reconciler *reconcile.Reconciler
	Stats      *statistics.Service
	StatusLog  *events.StatusLogListener
}

func RegisterAdminRoutes(r gin.IRouter, d AdminDeps) {
	r.POST("/member", ApiCreateMember(d.Members, d.Payments))
	r.POST("/list_payment_entries", ApiListPaymentEntries(d.Payments, d.Ledger))
	r.POST("/delete_payment_entry", ApiDeletePaymentEntry(d.Payments))
	r.POST("/import_payment_entries", ApiImportPaymentEntries(d.Payments))
	r.POST("/clear_member_entries", ApiClearMemberEntries(d.Payments))
	r.POST("/member_status_log", ApiMemberStatusLog(d.Members, d.StatusLog))
	r.POST("/reconcile", ApiReconcile(d.Reconciler))
	r.POST("/get_dues_statistic", ApiGetDuesStatistic(d.Stats))
}

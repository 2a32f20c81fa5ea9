package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fatflowers/duesledger/internal/app/service/billing"
	"github.com/fatflowers/duesledger/internal/app/service/events"
	"github.com/fatflowers/duesledger/internal/app/service/member"
	nh "github.com/fatflowers/duesledger/internal/app/service/notification_handler"
	notificationlog "github.com/fatflowers/duesledger/internal/app/service/notification_log"
	"github.com/fatflowers/duesledger/internal/app/service/paymentlog"
	"github.com/fatflowers/duesledger/internal/app/service/reconcile"
	"github.com/fatflowers/duesledger/internal/app/service/statistics"
	"github.com/fatflowers/duesledger/internal/app/service/status"
	"github.com/fatflowers/duesledger/internal/models"
	"github.com/fatflowers/duesledger/internal/platform/db/dbtest"
	"github.com/fatflowers/duesledger/pkg/config"
	"github.com/fatflowers/duesledger/pkg/response"
)

type envelope struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    json.RawMessage          `json:"data"`
}

type testServer struct {
	router  *gin.Engine
	members *member.Store
	notif   *notificationlog.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.Default()
	cfg.Dues.ReturnCodeKey = "dues-"
	settings, err := billing.NewSettings(cfg)
	require.NoError(t, err)
	log := zap.NewNop().Sugar()
	db := dbtest.New(t)

	members := member.NewStore(db, log)
	ledger := paymentlog.NewLedger(db)
	clock := billing.FixedClock(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
	engine := billing.NewEngine(settings, clock, ledger, members, log)
	bus := events.NewBus(log)
	statusLog := events.NewStatusLogListener(db)
	statusLog.Register(bus)
	writer := status.NewWriter(engine, bus, nil, log)
	payments := paymentlog.NewService(cfg, ledger, engine, writer, log)
	notif := notificationlog.New(db, log)

	r := gin.New()
	RegisterHealthRoutes(r, db)
	RegisterMemberRoutes(r.Group("/api/v1/member"), writer, payments)
	RegisterAdminRoutes(r.Group("/api/v1/admin"), AdminDeps{
		Members:    members,
		Payments:   payments,
		Ledger:     ledger,
		Reconciler: reconcile.NewReconciler(settings, writer, members, reconcile.NewOptionState(db), nil, log),
		Stats:      statistics.New(db),
		StatusLog:  statusLog,
	})
	RegisterPaymentWebhookRoutes(r.Group("/api/v2/payment"), nh.NewNotificationHandler(notif, payments, log))
	t.Cleanup(notif.Wait)
	return &testServer{router: r, members: members, notif: notif}
}

func (s *testServer) do(t *testing.T, method, path string, body any) envelope {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func (s *testServer) createMember(t *testing.T, id, recorded string) {
	t.Helper()
	env := s.do(t, http.MethodPost, "/api/v1/admin/member", map[string]any{"id": id, "email": id + "@example.org", "date_recorded": recorded})
	require.Equal(t, response.APIResponseCodeOK, env.Code, string(env.Data))
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	env := s.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, response.APIResponseCodeOK, env.Code)
	require.JSONEq(t, `{"status":"ok","database":"ok"}`, string(env.Data))
}

func TestCreateMember_WritesStatus(t *testing.T) {
	s := newTestServer(t)
	s.createMember(t, "m1", "2024-01-01")

	m, err := s.members.Find(context.Background(), "m1")
	require.NoError(t, err)
	require.Equal(t, "past_due", string(m.PaymentStatus))
	require.NotNil(t, m.NextDueDate)
}

func TestWebhook_ThenStatus(t *testing.T) {
	s := newTestServer(t)
	s.createMember(t, "m1", "2024-01-01")

	env := s.do(t, http.MethodPost, "/api/v2/payment/webhook/paypal", `{
		"transaction_id": "TX-1",
		"gross_amount": "50",
		"custom": "dues-m1"
	}`)
	require.Equal(t, response.APIResponseCodeOK, env.Code, string(env.Data))
	var rec paymentlog.RecordResult
	require.NoError(t, json.Unmarshal(env.Data, &rec))
	require.Equal(t, "m1", rec.MemberID)
	require.NotEmpty(t, rec.EntryID)

	env = s.do(t, http.MethodGet, "/api/v1/member/m1/status", nil)
	require.Equal(t, response.APIResponseCodeOK, env.Code)
	var view MemberStatusResponse
	require.NoError(t, json.Unmarshal(env.Data, &view))
	require.Equal(t, "paid", string(view.Status))
	require.Equal(t, "Paid", view.Title)
	require.Equal(t, "dues-m1", view.Custom)

	env = s.do(t, http.MethodPost, "/api/v1/admin/list_payment_entries", map[string]any{"member_id": "m1"})
	require.Equal(t, response.APIResponseCodeOK, env.Code)
	var list paymentlog.ScanResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.EqualValues(t, 1, list.Total)
	require.Equal(t, "TX-1", list.Items[0].GetTransactionID())
}

func TestWebhook_Errors(t *testing.T) {
	s := newTestServer(t)

	env := s.do(t, http.MethodPost, "/api/v2/payment/webhook/offline", `{"transaction_id":"x"}`)
	require.Equal(t, response.APIResponseCodeBadRequest, env.Code)

	env = s.do(t, http.MethodPost, "/api/v2/payment/webhook/paypal", `{"transaction_id":"x","custom":"dues-ghost","gross_amount":"5"}`)
	require.Equal(t, response.APIResponseCodeNotFound, env.Code)
}

func TestWebhook_DuplicateIsNotAnError(t *testing.T) {
	s := newTestServer(t)
	s.createMember(t, "m1", "2024-01-01")

	body := `{"transaction_id": "TX-1", "gross_amount": "50", "custom": "dues-m1"}`
	env := s.do(t, http.MethodPost, "/api/v2/payment/webhook/paypal", body)
	require.Equal(t, response.APIResponseCodeOK, env.Code, string(env.Data))
	var first paymentlog.RecordResult
	require.NoError(t, json.Unmarshal(env.Data, &first))
	require.False(t, first.Duplicate)

	env = s.do(t, http.MethodPost, "/api/v2/payment/webhook/paypal", body)
	require.Equal(t, response.APIResponseCodeOK, env.Code, string(env.Data))
	var second paymentlog.RecordResult
	require.NoError(t, json.Unmarshal(env.Data, &second))
	require.True(t, second.Duplicate)
	require.Equal(t, first.EntryID, second.EntryID)
}

func TestListPaymentEntries_UnknownSortColumn(t *testing.T) {
	s := newTestServer(t)

	env := s.do(t, http.MethodPost, "/api/v1/admin/list_payment_entries", map[string]any{"sort_by": "gross_amount; DROP TABLE payment_log"})
	require.Equal(t, response.APIResponseCodeBadRequest, env.Code)

	env = s.do(t, http.MethodPost, "/api/v1/admin/list_payment_entries", map[string]any{"sort_by": "payment_date", "sort_order": "asc"})
	require.Equal(t, response.APIResponseCodeOK, env.Code, env.Message)
}

func TestMemberStatusLog(t *testing.T) {
	s := newTestServer(t)
	s.createMember(t, "m1", "2024-01-01")

	env := s.do(t, http.MethodPost, "/api/v2/payment/webhook/paypal", `{"transaction_id": "TX-1", "gross_amount": "50", "custom": "dues-m1"}`)
	require.Equal(t, response.APIResponseCodeOK, env.Code, string(env.Data))

	env = s.do(t, http.MethodPost, "/api/v1/admin/member_status_log", map[string]any{"member_id": "m1"})
	require.Equal(t, response.APIResponseCodeOK, env.Code, env.Message)
	var rows []*models.MemberStatusLog
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.NotEmpty(t, rows)
	last := rows[len(rows)-1]
	require.Equal(t, "m1", last.MemberID)
	require.Equal(t, "paid", string(last.To))

	env = s.do(t, http.MethodPost, "/api/v1/admin/member_status_log", map[string]any{"member_id": "ghost"})
	require.Equal(t, response.APIResponseCodeNotFound, env.Code)

	env = s.do(t, http.MethodPost, "/api/v1/admin/member_status_log", map[string]any{})
	require.Equal(t, response.APIResponseCodeBadRequest, env.Code)
}

func TestMemberStatus_NotFound(t *testing.T) {
	s := newTestServer(t)
	env := s.do(t, http.MethodGet, "/api/v1/member/ghost/status", nil)
	require.Equal(t, response.APIResponseCodeNotFound, env.Code)
}

func TestOfflinePayment_SetsPending(t *testing.T) {
	s := newTestServer(t)
	s.createMember(t, "m1", "2024-01-01")

	env := s.do(t, http.MethodPost, "/api/v1/member/m1/offline_payment", nil)
	require.Equal(t, response.APIResponseCodeOK, env.Code, string(env.Data))
	var res status.WriteResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.Equal(t, "pending", string(res.Status))
	require.Equal(t, "past_due", string(res.Computed))
}

func TestSubmission_PrePaymentSkipped(t *testing.T) {
	s := newTestServer(t)
	s.createMember(t, "m1", "2024-01-01")

	env := s.do(t, http.MethodPost, "/api/v1/member/m1/submission", map[string]any{"values": map[string]any{"last_payment_type": "paypal"}})
	require.Equal(t, response.APIResponseCodeOK, env.Code)
	var res status.WriteResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.True(t, res.Skipped)
}

func TestAdmin_ImportDeleteClear(t *testing.T) {
	s := newTestServer(t)
	s.createMember(t, "m1", "2023-01-01")

	env := s.do(t, http.MethodPost, "/api/v1/admin/import_payment_entries", map[string]any{
		"member_id": "m1",
		"entries": []map[string]any{
			{"transaction_id": "I-1", "gross_amount": "50", "payment_date": "2023-01-01", "due_date": "2023-01-01"},
			{"transaction_id": "I-2", "gross_amount": "50", "payment_date": "2024-01-01", "due_date": "2024-01-01"},
		},
	})
	require.Equal(t, response.APIResponseCodeOK, env.Code, string(env.Data))
	var imported paymentlog.ImportResult
	require.NoError(t, json.Unmarshal(env.Data, &imported))
	require.Len(t, imported.Imported, 2)
	require.Equal(t, "paid", string(imported.Status.Status))

	env = s.do(t, http.MethodPost, "/api/v1/admin/delete_payment_entry", map[string]any{"entry_id": imported.Imported[1]})
	require.Equal(t, response.APIResponseCodeOK, env.Code)

	env = s.do(t, http.MethodPost, "/api/v1/admin/delete_payment_entry", map[string]any{"entry_id": imported.Imported[1]})
	require.Equal(t, response.APIResponseCodeNotFound, env.Code)

	env = s.do(t, http.MethodPost, "/api/v1/admin/clear_member_entries", map[string]any{"member_id": "m1"})
	require.Equal(t, response.APIResponseCodeOK, env.Code)
	require.JSONEq(t, `{"deleted":1}`, string(env.Data))

	env = s.do(t, http.MethodPost, "/api/v1/admin/import_payment_entries", map[string]any{
		"member_id": "m1",
		"entries":   []map[string]any{{"payment_date": "yesterday"}},
	})
	require.Equal(t, response.APIResponseCodeBadRequest, env.Code)
}

func TestAdmin_ScanEntries(t *testing.T) {
	s := newTestServer(t)
	s.createMember(t, "m1", "2024-01-01")
	s.createMember(t, "m2", "2024-01-01")
	for _, p := range []struct{ txn, custom string }{{"A", "dues-m1"}, {"B", "dues-m2"}, {"C", "dues-m2"}} {
		env := s.do(t, http.MethodPost, "/api/v2/payment/webhook/paypal", map[string]any{"transaction_id": p.txn, "custom": p.custom, "gross_amount": "10"})
		require.Equal(t, response.APIResponseCodeOK, env.Code, string(env.Data))
	}

	env := s.do(t, http.MethodPost, "/api/v1/admin/list_payment_entries", map[string]any{
		"filters": []map[string]any{{"field": "member_id", "operator": "eq", "values": []string{"m2"}}},
		"size":    1,
	})
	require.Equal(t, response.APIResponseCodeOK, env.Code, string(env.Data))
	var res paymentlog.ScanResponse
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.EqualValues(t, 2, res.Total)
	require.Len(t, res.Items, 1)
}

func TestAdmin_ReconcileAndStatistics(t *testing.T) {
	s := newTestServer(t)
	s.createMember(t, "m1", "2024-01-01")
	s.createMember(t, "m2", "2024-01-01")

	env := s.do(t, http.MethodPost, "/api/v1/admin/reconcile", nil)
	require.Equal(t, response.APIResponseCodeOK, env.Code, string(env.Data))
	var run reconcile.RunResult
	require.NoError(t, json.Unmarshal(env.Data, &run))
	require.Equal(t, 2, run.Processed)
	require.Zero(t, run.Remaining)

	env = s.do(t, http.MethodPost, "/api/v1/admin/get_dues_statistic", map[string]any{
		"data_items": []map[string]any{{"id": "status_distribution"}},
	})
	require.Equal(t, response.APIResponseCodeOK, env.Code, string(env.Data))
	var stats statistics.DuesStatisticResponse
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	require.Equal(t, []statistics.DuesStatisticResponseDataItem{{Label: "past_due", Value: 2}},
		stats.DataItems[statistics.StatisticTypeStatusDistribution])

	env = s.do(t, http.MethodPost, "/api/v1/admin/get_dues_statistic", `{"data_items":[{"id":"nope"}]}`)
	require.Equal(t, response.APIResponseCodeError, env.Code)
}

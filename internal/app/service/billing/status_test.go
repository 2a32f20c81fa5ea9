package billing_test

import (
	"context"
	"testing"

	"github.com/fatflowers/duesledger/internal/app/service/billing"
	"github.com/fatflowers/duesledger/internal/app/service/billing/memstore"
	"github.com/fatflowers/duesledger/pkg/config"
	"github.com/fatflowers/duesledger/pkg/types"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_MissingMemberUsesInitialStatus(t *testing.T) {
	f := newFixture(t, "2024-02-01", func(d *config.DuesConfig) { d.InitialStatus = types.PaymentStatusDue })

	ms := f.status(t, "ghost")
	require.Nil(t, ms.Schedule())
	require.Equal(t, types.PaymentStatusDue, ms.Status())
	_, ok := ms.NextDueDate()
	require.False(t, ok)
	require.Equal(t, "2024-02-01", ms.Info().Display(billing.DisplayLayout)["current_date"])
}

func TestEvaluate_EmptyInitialStatusNeverFires(t *testing.T) {
	f := newFixture(t, "2024-02-01", nil)
	events := &memstore.Events{}

	ms := f.status(t, "ghost")
	require.Equal(t, types.PaymentStatusNone, ms.Computed())
	require.False(t, ms.CheckForStatusChange(context.Background(), types.PaymentStatusPaid, events, nil, nil))
	require.Empty(t, events.All())
}

func TestEvaluate_PendingOverlaysDisplayOnly(t *testing.T) {
	f := newFixture(t, "2024-03-01", nil)
	f.member("m1", "2024-01-01")
	f.pay(t, "m1", "2024-01-01", "2024-01-01", "50")
	require.NoError(t, f.engine.Pending().Mark(context.Background(), "m1"))

	ms := f.status(t, "m1")
	require.True(t, ms.Pending())
	require.Equal(t, types.PaymentStatusPending, ms.Status())
	require.Equal(t, types.PaymentStatusPaid, ms.Computed())
	require.Equal(t, types.PaymentStatusPending, ms.Info().PaymentStatus)

	// transition detection uses the computed status
	require.False(t, ms.Changed(types.PaymentStatusPaid))
	require.True(t, ms.Changed(types.PaymentStatusPending))
}

func TestEvaluate_PendingExpires(t *testing.T) {
	f := newFixture(t, "2024-03-01", nil)
	f.member("m1", "2024-01-01")
	require.NoError(t, f.engine.Pending().Mark(context.Background(), "m1"))

	f.at("2024-03-15")
	require.Equal(t, types.PaymentStatusPending, f.status(t, "m1").Status())

	f.at("2024-03-16")
	ms := f.status(t, "m1")
	require.False(t, ms.Pending())
	require.Equal(t, types.PaymentStatusPastDue, ms.Status())
}

func TestCheckForStatusChange_PayableToDue(t *testing.T) {
	f := newFixture(t, "2025-01-01", nil)
	f.records.Add("m1", date("2024-01-01"), billing.Record{"email": "m1@example.org"})
	f.pay(t, "m1", "2024-01-01", "2024-01-01", "50")
	events := &memstore.Events{}

	ms := f.status(t, "m1")
	require.Equal(t, types.PaymentStatusDue, ms.Status())

	record, err := f.records.Record(context.Background(), "m1")
	require.NoError(t, err)
	txn := map[string]any{"txn_id": "T-1"}
	require.True(t, ms.CheckForStatusChange(context.Background(), types.PaymentStatusPayable, events, record, txn))

	fired := events.Named("status_change_to_due")
	require.Len(t, fired, 1)
	require.Len(t, events.All(), 1)
	payload, ok := fired[0].Payload.(*billing.StatusChangeEvent)
	require.True(t, ok)
	require.Equal(t, "m1", payload.MemberID)
	require.Equal(t, types.PaymentStatusPayable, payload.From)
	require.Equal(t, types.PaymentStatusDue, payload.To)
	require.Equal(t, "m1@example.org", payload.Record["email"])
	require.Equal(t, txn, payload.Transaction)
	require.Equal(t, map[string]string{
		"last_payment_date": "2024-01-01",
		"current_due_date":  "2024-01-01",
		"next_due_date":     "2025-01-01",
		"current_date":      "2025-01-01",
		"payable_date":      "2024-12-18",
		"past_due_date":     "2025-01-15",
		"payment_status":    "due",
	}, payload.Info.Display(billing.DisplayLayout))
}

func TestCheckForStatusChange_NoEvent(t *testing.T) {
	f := newFixture(t, "2025-01-01", nil)
	f.member("m1", "2024-01-01")
	f.pay(t, "m1", "2024-01-01", "2024-01-01", "50")
	ms := f.status(t, "m1")

	for _, previous := range []types.PaymentStatus{types.PaymentStatusDue, types.PaymentStatusNone, "corrupt"} {
		events := &memstore.Events{}
		require.False(t, ms.CheckForStatusChange(context.Background(), previous, events, nil, nil), string(previous))
		require.Empty(t, events.All())
	}
}

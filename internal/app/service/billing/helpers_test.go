package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/fatflowers/duesledger/internal/app/service/billing"
	"github.com/fatflowers/duesledger/internal/app/service/billing/memstore"
	"github.com/fatflowers/duesledger/internal/models"
	"github.com/fatflowers/duesledger/pkg/config"
	"github.com/fatflowers/duesledger/pkg/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	engine  *billing.Engine
	ledger  *memstore.Ledger
	records *memstore.Records
	clock   *billing.ManualClock
}

func newFixture(t *testing.T, now string, mutate func(d *config.DuesConfig)) *fixture {
	t.Helper()
	settings, err := billing.NewSettings(testConfig(mutate))
	require.NoError(t, err)
	f := &fixture{
		ledger:  memstore.NewLedger(),
		records: memstore.NewRecords(),
		clock:   billing.NewManualClock(date(now)),
	}
	f.engine = billing.NewEngine(settings, f.clock, f.ledger, f.records, zap.NewNop().Sugar())
	return f
}

func (f *fixture) member(id, recorded string) {
	f.records.Add(id, date(recorded), nil)
}

func (f *fixture) pay(t *testing.T, memberID, paid, due, amount string) *models.PaymentLogEntry {
	t.Helper()
	e := &models.PaymentLogEntry{
		MemberID:    memberID,
		PaymentDate: lo.ToPtr(date(paid)),
		DueDate:     lo.ToPtr(date(due)),
		GrossAmount: decimal.RequireFromString(amount),
		Portal:      types.PaymentPortalPaypal,
		PeriodCount: 1,
	}
	_, err := f.ledger.Append(context.Background(), e)
	require.NoError(t, err)
	return e
}

func (f *fixture) at(now string) {
	f.clock.Set(date(now))
}

func (f *fixture) schedule(t *testing.T, memberID string) *billing.Schedule {
	t.Helper()
	s, err := f.engine.Schedule(context.Background(), memberID, billing.ScheduleOptions{})
	require.NoError(t, err)
	return s
}

func (f *fixture) status(t *testing.T, memberID string) *billing.MemberStatus {
	t.Helper()
	ms, err := f.engine.Evaluate(context.Background(), memberID, billing.ScheduleOptions{})
	require.NoError(t, err)
	return ms
}

func day(t time.Time) string { return t.Format(time.DateOnly) }

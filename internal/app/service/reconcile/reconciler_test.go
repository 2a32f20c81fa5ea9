package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fatflowers/duesledger/internal/app/service/billing"
	"github.com/fatflowers/duesledger/internal/app/service/billing/memstore"
	"github.com/fatflowers/duesledger/internal/app/service/status"
	"github.com/fatflowers/duesledger/internal/platform/db/dbtest"
	"github.com/fatflowers/duesledger/pkg/config"
	"github.com/fatflowers/duesledger/pkg/metrics"
	"github.com/fatflowers/duesledger/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// steppingClock moves forward by step on every read.
type steppingClock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.t
	c.t = c.t.Add(c.step)
	return now
}

type harness struct {
	reconciler *Reconciler
	records    *memstore.Records
	state      *OptionState
	metrics    *metrics.DuesMetrics
}

func newHarness(t *testing.T, batchSeconds int) *harness {
	t.Helper()
	return newHarnessWithStore(t, batchSeconds, func(r *memstore.Records) billing.RecordStore { return r })
}

// newHarnessWithStore lets a test wrap the record store the engine reads.
func newHarnessWithStore(t *testing.T, batchSeconds int, wrap func(*memstore.Records) billing.RecordStore) *harness {
	t.Helper()
	cfg := config.Default()
	cfg.Dues.MaxBatchSeconds = batchSeconds
	settings, err := billing.NewSettings(cfg)
	require.NoError(t, err)
	m, err := metrics.NewDuesMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	records := memstore.NewRecords()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	engine := billing.NewEngine(settings, billing.FixedClock(now), memstore.NewLedger(), wrap(records), zap.NewNop().Sugar())
	writer := status.NewWriter(engine, &memstore.Events{}, m, zap.NewNop().Sugar())
	state := NewOptionState(dbtest.New(t))

	r := NewReconciler(settings, writer, records, state, m, zap.NewNop().Sugar())
	r.WithClock(&steppingClock{t: now, step: time.Second})
	return &harness{reconciler: r, records: records, state: state, metrics: m}
}

func (h *harness) members(n int) {
	for i := 1; i <= n; i++ {
		h.records.Add(fmt.Sprintf("m%02d", i), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), billing.Record{billing.FieldPaymentStatus: types.PaymentStatusPayable})
	}
}

func TestRun_ResumesWhereBudgetRanOut(t *testing.T) {
	// Each record costs one clock step, so a 2s budget admits three records.
	h := newHarness(t, 2)
	h.members(5)
	ctx := context.Background()

	first, err := h.reconciler.Run(ctx)
	require.NoError(t, err)
	require.False(t, first.Resumed)
	require.Equal(t, 3, first.Processed)
	require.Equal(t, 2, first.Remaining)

	ids, ok, err := h.state.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"m04", "m05"}, ids)

	second, err := h.reconciler.Run(ctx)
	require.NoError(t, err)
	require.True(t, second.Resumed)
	require.Equal(t, 2, second.Processed)
	require.Zero(t, second.Remaining)

	_, ok, err = h.state.Load(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	for _, id := range []string{"m01", "m02", "m03", "m04", "m05"} {
		v, found, err := h.records.Get(ctx, id, billing.FieldPaymentStatus)
		require.NoError(t, err)
		require.True(t, found, id)
		require.Equal(t, types.PaymentStatusPastDue, v, id)
	}
}

func TestRun_ZeroBudgetProcessesEverything(t *testing.T) {
	h := newHarness(t, 0)
	h.members(7)

	res, err := h.reconciler.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 7, res.Processed)
	require.Zero(t, res.Remaining)
	require.Equal(t, 7, res.Changed)
}

func TestRun_MissingMemberIsSkipped(t *testing.T) {
	h := newHarness(t, 0)
	h.members(1)
	require.NoError(t, h.state.Save(context.Background(), []string{"m01", "ghost"}))

	res, err := h.reconciler.Run(context.Background())
	require.NoError(t, err)
	require.True(t, res.Resumed)
	require.Equal(t, 2, res.Processed)
	require.Equal(t, 1, res.Skipped)
}

// faultyRecords fails reads of one member and panics on another.
type faultyRecords struct {
	*memstore.Records
	failOn  string
	panicOn string
}

func (f *faultyRecords) Get(ctx context.Context, memberID, field string) (any, bool, error) {
	switch memberID {
	case f.failOn:
		return nil, false, errors.New("record store unavailable")
	case f.panicOn:
		panic("corrupt member record")
	}
	return f.Records.Get(ctx, memberID, field)
}

func TestRun_FailingMemberDoesNotStopPass(t *testing.T) {
	h := newHarnessWithStore(t, 0, func(r *memstore.Records) billing.RecordStore {
		return &faultyRecords{Records: r, failOn: "m02", panicOn: "m03"}
	})
	reg := prometheus.NewRegistry()
	m, err := metrics.NewDuesMetrics(reg)
	require.NoError(t, err)
	h.reconciler.metrics = m
	h.members(5)
	ctx := context.Background()

	res, err := h.reconciler.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, res.Processed)
	require.Equal(t, 2, res.Failed)
	require.Equal(t, 3, res.Changed)
	require.Zero(t, res.Remaining)

	for _, id := range []string{"m01", "m04", "m05"} {
		v, _, err := h.records.Get(ctx, id, billing.FieldPaymentStatus)
		require.NoError(t, err)
		require.Equal(t, types.PaymentStatusPastDue, v, id)
	}
	for _, id := range []string{"m02", "m03"} {
		v, _, err := h.records.Get(ctx, id, billing.FieldPaymentStatus)
		require.NoError(t, err)
		require.Equal(t, types.PaymentStatusPayable, v, id)
	}
	// one series for "ok", one for "failed"
	require.Equal(t, 2, testutil.CollectAndCount(reg, "dues_reconcile_records_total"))
}

func TestRun_CancelledContextKeepsList(t *testing.T) {
	h := newHarness(t, 0)
	h.members(3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := h.reconciler.Run(ctx)
	require.NoError(t, err)
	require.Zero(t, res.Processed)
	require.Equal(t, 3, res.Remaining)
}

type failingLister struct{}

func (failingLister) MemberIDs(context.Context) ([]string, error) {
	return nil, errors.New("boom")
}

func TestRun_ListerError(t *testing.T) {
	h := newHarness(t, 0)
	h.reconciler.lister = failingLister{}

	_, err := h.reconciler.Run(context.Background())
	require.ErrorContains(t, err, "boom")
}

func TestRun_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.NewDuesMetrics(reg)
	require.NoError(t, err)

	h := newHarness(t, 0)
	h.reconciler.metrics = m
	h.members(2)

	_, err = h.reconciler.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, testutil.CollectAndCount(reg, "dues_reconcile_pass_ms"))
	require.Equal(t, 1, testutil.CollectAndCount(reg, "dues_reconcile_records_total"))
}

func TestOptionState_SaveOverwrites(t *testing.T) {
	s := NewOptionState(dbtest.New(t))
	ctx := context.Background()

	_, ok, err := s.Load(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Save(ctx, []string{"a", "b"}))
	require.NoError(t, s.Save(ctx, []string{"b"}))
	ids, ok, err := s.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"b"}, ids)

	require.NoError(t, s.Clear(ctx))
	_, ok, err = s.Load(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestScheduler_DisabledDoesNothing(t *testing.T) {
	h := newHarness(t, 0)
	cfg := config.Default()
	cfg.Reconcile.Enabled = false
	s := NewScheduler(cfg, h.reconciler, zap.NewNop().Sugar())
	s.Start()
	s.Stop()
	require.Nil(t, s.ticker)
}

func TestScheduler_RunsImmediately(t *testing.T) {
	h := newHarness(t, 0)
	h.members(2)
	cfg := config.Default()
	cfg.Reconcile.Interval = time.Hour
	s := NewScheduler(cfg, h.reconciler, zap.NewNop().Sugar())

	s.Start()
	require.Eventually(t, func() bool {
		v, _, _ := h.records.Get(context.Background(), "m02", billing.FieldPaymentStatus)
		return v == types.PaymentStatusPastDue
	}, 2*time.Second, 10*time.Millisecond)
	s.Stop()
}

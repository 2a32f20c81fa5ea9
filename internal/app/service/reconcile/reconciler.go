package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fatflowers/duesledger/internal/app/service/billing"
	"github.com/fatflowers/duesledger/internal/app/service/status"
	"github.com/fatflowers/duesledger/pkg/logctx"
	"github.com/fatflowers/duesledger/pkg/metrics"
	"go.uber.org/zap"
)

// RunResult summarizes one reconciliation pass.
type RunResult struct {
	Processed int   `json:"processed"`
	Changed   int   `json:"changed"`
	Failed    int   `json:"failed"`
	Skipped   int   `json:"skipped"`
	Remaining int   `json:"remaining"`
	Resumed   bool  `json:"resumed"`
	ElapsedMS int64 `json:"elapsed_ms"`
}

// Reconciler rewrites the status of every member, a time-boxed slice per
// pass. Members not reached are persisted and picked up by the next pass.
type Reconciler struct {
	writer  *status.Writer
	lister  billing.MemberLister
	state   StateStore
	clock   billing.Clock
	budget  time.Duration
	metrics *metrics.DuesMetrics
	log     *zap.SugaredLogger

	mu sync.Mutex
}

func NewReconciler(settings *billing.Settings, writer *status.Writer, lister billing.MemberLister, state StateStore, m *metrics.DuesMetrics, log *zap.SugaredLogger) *Reconciler {
	return &Reconciler{
		writer:  writer,
		lister:  lister,
		state:   state,
		clock:   billing.SystemClock,
		budget:  settings.MaxBatchDuration(),
		metrics: m,
		log:     log,
	}
}

// WithClock replaces the clock that measures the pass budget.
func (r *Reconciler) WithClock(c billing.Clock) *Reconciler {
	r.clock = c
	return r
}

// Run executes one pass. A zero budget processes the whole list. At least
// one member is processed per pass so the list always shrinks.
func (r *Reconciler) Run(ctx context.Context) (*RunResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lg := logctx.FromCtx(ctx, r.log)
	start := r.clock.Now()
	res := &RunResult{}

	ids, ok, err := r.state.Load(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		res.Resumed = true
	} else if ids, err = r.lister.MemberIDs(ctx); err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	cache := billing.NewPassCache()
	i := 0
	for ; i < len(ids); i++ {
		if ctx.Err() != nil {
			break
		}
		if i > 0 && r.budget > 0 && r.clock.Now().After(start.Add(r.budget)) {
			break
		}
		r.process(ctx, ids[i], cache, res)
	}
	res.Processed = i

	remaining := ids[i:]
	res.Remaining = len(remaining)
	if len(remaining) == 0 {
		err = r.state.Clear(ctx)
	} else {
		err = r.state.Save(ctx, remaining)
	}
	if err != nil {
		return nil, err
	}

	elapsed := r.clock.Now().Sub(start)
	res.ElapsedMS = elapsed.Milliseconds()
	r.metrics.ObserveReconcilePass(elapsed)
	lg.Infow("reconciliation pass finished",
		"processed", res.Processed,
		"changed", res.Changed,
		"failed", res.Failed,
		"skipped", res.Skipped,
		"remaining", res.Remaining,
		"resumed", res.Resumed,
		"cached_due_dates", cache.Len(),
	)
	return res, nil
}

func (r *Reconciler) process(ctx context.Context, memberID string, cache *billing.PassCache, res *RunResult) {
	ctx = logctx.WithMemberID(ctx, memberID)
	defer func() {
		if p := recover(); p != nil {
			res.Failed++
			r.metrics.ReconcileRecord(metrics.ReconcileResultFailed)
			logctx.FromCtx(ctx, r.log).Errorw("reconciliation record panicked", "cause", fmt.Sprint(p))
		}
	}()

	wr, err := r.writer.WritePaymentStatus(ctx, status.WriteRequest{MemberID: memberID, Cache: cache})
	switch {
	case err != nil:
		res.Failed++
		r.metrics.ReconcileRecord(metrics.ReconcileResultFailed)
		logctx.FromCtx(ctx, r.log).Errorw("reconciliation record failed", "cause", err)
	case wr.Skipped:
		res.Skipped++
		r.metrics.ReconcileRecord(metrics.ReconcileResultSkipped)
	default:
		if wr.Changed {
			res.Changed++
		}
		r.metrics.ReconcileRecord(metrics.ReconcileResultOK)
	}
}

package status

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatflowers/duesledger/internal/app/service/billing"
	"github.com/fatflowers/duesledger/pkg/logctx"
	"github.com/fatflowers/duesledger/pkg/metrics"
	"github.com/fatflowers/duesledger/pkg/types"
	"go.uber.org/zap"
)

// WriteRequest describes one status write.
type WriteRequest struct {
	MemberID string
	// InitialStatus is the baseline used when the member has no stored
	// status yet. Empty falls back to the configured initial status.
	InitialStatus types.PaymentStatus
	PeriodCount   int
	// TransactionData is the processor payload attached to a fired event.
	TransactionData map[string]any
	Cache           *billing.PassCache
}

// WriteResult reports what a status write stored.
type WriteResult struct {
	MemberID    string              `json:"member_id"`
	Previous    types.PaymentStatus `json:"previous"`
	Status      types.PaymentStatus `json:"status"`
	Computed    types.PaymentStatus `json:"computed"`
	NextDueDate *time.Time          `json:"next_due_date"`
	Changed     bool                `json:"changed"`
	// Skipped is set when nothing was written: the member does not exist or
	// the submission was a pre-payment submission.
	Skipped bool `json:"skipped"`
}

// Writer persists the evaluated status of a member back to its record.
type Writer struct {
	engine  *billing.Engine
	records billing.RecordStore
	events  billing.EventSink
	metrics *metrics.DuesMetrics
	log     *zap.SugaredLogger
}

func NewWriter(engine *billing.Engine, events billing.EventSink, m *metrics.DuesMetrics, log *zap.SugaredLogger) *Writer {
	return &Writer{engine: engine, records: engine.Records(), events: events, metrics: m, log: log}
}

// WritePaymentStatus evaluates the member, overwrites the status, next due
// date and last payment date fields, and fires a status change event when
// the computed status differs from the stored one. The write itself is
// unconditional, so repeating it is harmless.
func (w *Writer) WritePaymentStatus(ctx context.Context, req WriteRequest) (*WriteResult, error) {
	ctx = logctx.WithMemberID(ctx, req.MemberID)
	lg := logctx.FromCtx(ctx, w.log)

	ms, err := w.engine.Evaluate(ctx, req.MemberID, billing.ScheduleOptions{PeriodCount: req.PeriodCount, Cache: req.Cache})
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate member status: %w", err)
	}
	res := &WriteResult{MemberID: req.MemberID, Status: ms.Status(), Computed: ms.Computed()}
	sched := ms.Schedule()
	if sched == nil {
		lg.Warnw("member record not found, status not written")
		res.Skipped = true
		return res, nil
	}

	previous, err := w.baseline(ctx, req)
	if err != nil {
		return nil, err
	}
	res.Previous = previous

	due := sched.NextDueDate()
	res.NextDueDate = &due
	if err := w.records.Set(ctx, req.MemberID, billing.FieldPaymentStatus, ms.Status()); err != nil {
		return nil, fmt.Errorf("failed to write payment status: %w", err)
	}
	if err := w.records.Set(ctx, req.MemberID, billing.FieldNextDueDate, due); err != nil {
		return nil, fmt.Errorf("failed to write next due date: %w", err)
	}
	var last any
	if t, ok := sched.LastPaymentDate(); ok {
		last = t
	}
	if err := w.records.Set(ctx, req.MemberID, billing.FieldLastPaymentDate, last); err != nil {
		return nil, fmt.Errorf("failed to write last payment date: %w", err)
	}
	req.Cache.Invalidate(req.MemberID)

	record, err := w.records.Record(ctx, req.MemberID)
	if err != nil {
		return nil, fmt.Errorf("failed to read member record: %w", err)
	}
	if ms.CheckForStatusChange(ctx, previous, w.events, record, req.TransactionData) {
		res.Changed = true
		w.metrics.StatusTransition(previous, ms.Computed())
		lg.Infow("member payment status changed", "from", previous, "to", ms.Computed())
	}
	lg.Debugw("member payment status written", "status", res.Status, "next_due_date", due.Format(time.DateOnly))
	return res, nil
}

// baseline is the stored status, or the initial status when none is stored.
func (w *Writer) baseline(ctx context.Context, req WriteRequest) (types.PaymentStatus, error) {
	v, _, err := w.records.Get(ctx, req.MemberID, billing.FieldPaymentStatus)
	if err != nil {
		return types.PaymentStatusNone, fmt.Errorf("failed to read stored payment status: %w", err)
	}
	if stored := types.PaymentStatus(billing.AsString(v)); stored != types.PaymentStatusNone {
		return stored, nil
	}
	if req.InitialStatus != types.PaymentStatusNone {
		return req.InitialStatus, nil
	}
	return w.engine.Settings().InitialStatus(), nil
}

// Submission is a member form submission.
type Submission struct {
	MemberID string         `json:"member_id"`
	Values   map[string]any `json:"values"`
}

// IsPrePayment reports whether the submission was made on the way to an
// online payment portal, before the payment is confirmed.
func (s Submission) IsPrePayment() bool {
	return types.PaymentPortal(billing.AsString(s.Values[billing.FieldLastPaymentType])).Online()
}

// UpdateStatusFields writes the status after a member form submission.
// Pre-payment submissions are skipped: the confirmed payment writes the
// status when it arrives.
func (w *Writer) UpdateStatusFields(ctx context.Context, sub Submission) (*WriteResult, error) {
	if sub.IsPrePayment() {
		logctx.FromCtx(logctx.WithMemberID(ctx, sub.MemberID), w.log).Infow("pre-payment submission, status write skipped")
		return &WriteResult{MemberID: sub.MemberID, Skipped: true}, nil
	}
	return w.WritePaymentStatus(ctx, WriteRequest{MemberID: sub.MemberID})
}

// View is the member status as shown to members and admins.
type View struct {
	MemberID string              `json:"member_id"`
	Status   types.PaymentStatus `json:"status"`
	Title    string              `json:"title"`
	Pending  bool                `json:"pending"`
	Info     map[string]string   `json:"info"`
}

// Query evaluates the member without writing anything.
func (w *Writer) Query(ctx context.Context, memberID string) (*View, error) {
	if _, err := w.records.Record(ctx, memberID); err != nil {
		if errors.Is(err, billing.ErrMemberNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read member record: %w", err)
	}
	ms, err := w.engine.Evaluate(ctx, memberID, billing.ScheduleOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate member status: %w", err)
	}
	return &View{
		MemberID: memberID,
		Status:   ms.Status(),
		Title:    w.engine.Settings().StatusTitle(ms.Status()),
		Pending:  ms.Pending(),
		Info:     ms.Info().Display(billing.DisplayLayout),
	}, nil
}

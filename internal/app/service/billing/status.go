package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatflowers/duesledger/pkg/logctx"
	"github.com/fatflowers/duesledger/pkg/types"
)

// DisplayLayout renders dates at the event and API boundary.
const DisplayLayout = time.DateOnly

// StatusInfo is the full status tuple of a member at evaluation time.
type StatusInfo struct {
	LastPaymentDate time.Time           `json:"last_payment_date"`
	CurrentDueDate  time.Time           `json:"current_due_date"`
	NextDueDate     time.Time           `json:"next_due_date"`
	CurrentDate     time.Time           `json:"current_date"`
	PayableDate     time.Time           `json:"payable_date"`
	PastDueDate     time.Time           `json:"past_due_date"`
	PaymentStatus   types.PaymentStatus `json:"payment_status"`
}

// Display converts the tuple to strings. Zero dates render empty.
func (i StatusInfo) Display(layout string) map[string]string {
	f := func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format(layout)
	}
	return map[string]string{
		"last_payment_date": f(i.LastPaymentDate),
		"current_due_date":  f(i.CurrentDueDate),
		"next_due_date":     f(i.NextDueDate),
		"current_date":      f(i.CurrentDate),
		"payable_date":      f(i.PayableDate),
		"past_due_date":     f(i.PastDueDate),
		"payment_status":    string(i.PaymentStatus),
	}
}

// StatusChangeEvent is the payload of a status_change_to_<status> event.
type StatusChangeEvent struct {
	MemberID    string              `json:"member_id"`
	From        types.PaymentStatus `json:"from"`
	To          types.PaymentStatus `json:"to"`
	Record      Record              `json:"record"`
	Transaction map[string]any      `json:"transaction"`
	Info        StatusInfo          `json:"info"`
}

// MemberStatus is one evaluation of a member's dues status.
type MemberStatus struct {
	memberID string
	schedule *Schedule
	computed types.PaymentStatus
	pending  bool
	now      time.Time
}

// Evaluate determines the member's status. A member unknown to the record
// store evaluates to the configured initial status.
func (e *Engine) Evaluate(ctx context.Context, memberID string, opts ScheduleOptions) (*MemberStatus, error) {
	ms := &MemberStatus{memberID: memberID, now: e.clock.Now()}

	sched, err := e.Schedule(ctx, memberID, opts)
	switch {
	case errors.Is(err, ErrMemberNotFound):
		logctx.FromCtx(ctx, e.log).Warnw("no schedule for member, using initial status", "member_id", memberID)
		ms.computed = e.settings.InitialStatus()
		return ms, nil
	case err != nil:
		return nil, fmt.Errorf("failed to build schedule: %w", err)
	}
	ms.schedule = sched
	ms.computed = sched.Status()

	pending, err := e.pending.Active(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to read pending state: %w", err)
	}
	ms.pending = pending
	return ms, nil
}

func (m *MemberStatus) MemberID() string { return m.memberID }

// Schedule is nil when the member could not be found.
func (m *MemberStatus) Schedule() *Schedule { return m.schedule }

// Computed is the schedule-derived status without the pending overlay. It is
// the baseline for transition detection.
func (m *MemberStatus) Computed() types.PaymentStatus { return m.computed }

func (m *MemberStatus) Pending() bool { return m.pending }

// Status is the displayed status: pending while a promise is active,
// otherwise the computed status.
func (m *MemberStatus) Status() types.PaymentStatus {
	if m.pending {
		return types.PaymentStatusPending
	}
	return m.computed
}

// NextDueDate returns the projected due date, false without a schedule.
func (m *MemberStatus) NextDueDate() (time.Time, bool) {
	if m.schedule == nil {
		return time.Time{}, false
	}
	return m.schedule.NextDueDate(), true
}

// Info returns the status tuple with the displayed status.
func (m *MemberStatus) Info() StatusInfo {
	info := StatusInfo{CurrentDate: m.now, PaymentStatus: m.Status()}
	if m.schedule == nil {
		return info
	}
	if t, ok := m.schedule.LastPaymentDate(); ok {
		info.LastPaymentDate = t
	}
	info.CurrentDueDate = m.schedule.CurrentDueDate()
	info.NextDueDate = m.schedule.NextDueDate()
	info.CurrentDate = m.schedule.CurrentDate()
	info.PayableDate = m.schedule.NextPayableDate()
	info.PastDueDate = m.schedule.NextPastDueDate()
	return info
}

// Changed reports whether the computed status differs from a recognized
// previous status. An unrecognized previous value never counts as a change,
// and neither does an empty computed status.
func (m *MemberStatus) Changed(previous types.PaymentStatus) bool {
	return previous.Recognized() && m.computed != types.PaymentStatusNone && previous != m.computed
}

// CheckForStatusChange fires status_change_to_<status> on sink when the
// computed status differs from previous, and reports whether it did.
func (m *MemberStatus) CheckForStatusChange(ctx context.Context, previous types.PaymentStatus, sink EventSink, record Record, transaction map[string]any) bool {
	if !m.Changed(previous) {
		return false
	}
	if sink != nil {
		sink.Emit(ctx, m.computed.EventName(), &StatusChangeEvent{
			MemberID:    m.memberID,
			From:        previous,
			To:          m.computed,
			Record:      record,
			Transaction: transaction,
			Info:        m.Info(),
		})
	}
	return true
}

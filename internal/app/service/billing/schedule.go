package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatflowers/duesledger/internal/models"
	"github.com/fatflowers/duesledger/pkg/logctx"
	"github.com/fatflowers/duesledger/pkg/types"
	"go.uber.org/zap"
)

// maxRenewalIterations caps the catch-up loop of the rolling schedule.
const maxRenewalIterations = 50

// DueDatePolicy projects the next due date of a schedule. RollingPeriod and
// FixedCalendar are the two implementations.
type DueDatePolicy interface {
	nextDueDate(s *Schedule) time.Time
}

// ScheduleOptions tune a single schedule construction.
type ScheduleOptions struct {
	// PeriodCount is the number of renewal periods the last payment covers.
	// Zero means one.
	PeriodCount int
	// Cache memoizes rolling due dates within one pass. May be nil.
	Cache *PassCache
}

// Schedule is the payment schedule of one member, derived fresh from the
// ledger on every evaluation.
type Schedule struct {
	memberID    string
	settings    *Settings
	clock       Clock
	policy      DueDatePolicy
	cache       *PassCache
	periodCount int

	dateRecorded    time.Time
	hasPayment      bool
	lastPaymentDate time.Time
	lastDueDate     time.Time
	lastEntry       *models.PaymentLogEntry
}

// Engine builds schedules and member statuses from the ledger and the
// member record store.
type Engine struct {
	settings *Settings
	clock    Clock
	ledger   Ledger
	records  RecordStore
	pending  *PendingTracker
	log      *zap.SugaredLogger
}

func NewEngine(settings *Settings, clock Clock, ledger Ledger, records RecordStore, log *zap.SugaredLogger) *Engine {
	return &Engine{
		settings: settings,
		clock:    clock,
		ledger:   ledger,
		records:  records,
		pending:  NewPendingTracker(settings, clock, records),
		log:      log,
	}
}

func (e *Engine) Settings() *Settings       { return e.settings }
func (e *Engine) Clock() Clock              { return e.clock }
func (e *Engine) Pending() *PendingTracker  { return e.pending }
func (e *Engine) Records() RecordStore      { return e.records }

func (e *Engine) policy() DueDatePolicy {
	if e.settings.PaymentDueMode() == types.PaymentDueModeFixed {
		return NewFixedCalendar(e.settings.FixedRenewalDates())
	}
	return RollingPeriod{}
}

// Schedule builds the member's schedule. It returns ErrMemberNotFound when
// the record store does not know the member.
func (e *Engine) Schedule(ctx context.Context, memberID string, opts ScheduleOptions) (*Schedule, error) {
	raw, ok, err := e.records.Get(ctx, memberID, FieldDateRecorded)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read date_recorded: %w", err)
	}
	dateRecorded, parsed := AsTime(raw)
	if !ok || !parsed {
		logctx.FromCtx(ctx, e.log).Warnw("member has no usable date_recorded, anchoring on now", "member_id", memberID, "value", raw)
		dateRecorded = e.clock.Now()
	}

	entries, err := e.ledger.Entries(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger entries: %w", err)
	}

	s := &Schedule{
		memberID:     memberID,
		settings:     e.settings,
		clock:        e.clock,
		policy:       e.policy(),
		cache:        opts.Cache,
		periodCount:  max(opts.PeriodCount, 1),
		dateRecorded: dateRecorded,
		lastDueDate:  dateRecorded,
	}
	s.lastEntry = e.latestValidEntry(ctx, memberID, entries)
	if s.lastEntry != nil {
		s.hasPayment = true
		s.lastPaymentDate = *s.lastEntry.PaymentDate
		s.lastDueDate = *s.lastEntry.DueDate
		if opts.PeriodCount == 0 && s.lastEntry.PeriodCount > 1 {
			s.periodCount = s.lastEntry.PeriodCount
		}
	}
	return s, nil
}

// latestValidEntry returns the valid entry with the latest payment date.
// Inconsistent entries are logged and skipped.
func (e *Engine) latestValidEntry(ctx context.Context, memberID string, entries []*models.PaymentLogEntry) *models.PaymentLogEntry {
	var latest *models.PaymentLogEntry
	for _, entry := range entries {
		if !e.settings.IsValidEntry(entry) {
			continue
		}
		if !entry.Consistent() {
			logctx.FromCtx(ctx, e.log).Warnw("skipping ledger entry",
				"member_id", memberID, "entry_id", entry.ID, "cause", ErrLedgerInconsistency)
			continue
		}
		if latest == nil || entry.PaymentDate.After(*latest.PaymentDate) {
			latest = entry
		}
	}
	return latest
}

func (s *Schedule) MemberID() string { return s.memberID }

// LastPaymentDate is the payment date of the most recent valid entry.
func (s *Schedule) LastPaymentDate() (time.Time, bool) {
	return s.lastPaymentDate, s.hasPayment
}

// CurrentDueDate is the due date recorded on the last valid payment, or the
// member's date_recorded before the first payment.
func (s *Schedule) CurrentDueDate() time.Time { return s.lastDueDate }

func (s *Schedule) DateRecorded() time.Time { return s.dateRecorded }

// LastEntry is the entry the schedule is anchored on, nil before the first
// payment.
func (s *Schedule) LastEntry() *models.PaymentLogEntry { return s.lastEntry }

func (s *Schedule) NoPaymentHasBeenMade() bool { return !s.hasPayment }

func (s *Schedule) CurrentDate() time.Time { return s.clock.Now() }

// SetPeriodCount changes how many renewal periods the last payment covers.
func (s *Schedule) SetPeriodCount(n int) {
	s.periodCount = max(n, 1)
}

func (s *Schedule) NextDueDate() time.Time {
	return s.policy.nextDueDate(s)
}

// daysBetweenDueDates is the length of the current period in days, minus
// one, never negative.
func (s *Schedule) daysBetweenDueDates() int {
	from := s.dateRecorded
	if s.hasPayment {
		from = s.lastPaymentDate
	}
	return max(civilDays(from, s.NextDueDate())-1, 0)
}

func (s *Schedule) pastDueOffsetDays() int {
	return min(s.settings.StatusOffset(types.PaymentStatusPastDue), s.daysBetweenDueDates())
}

func (s *Schedule) payableOffsetDays() int {
	return min(s.settings.StatusOffset(types.PaymentStatusPayable), s.daysBetweenDueDates()-s.pastDueOffsetDays())
}

func (s *Schedule) NextPayableDate() time.Time {
	return s.NextDueDate().AddDate(0, 0, -s.payableOffsetDays())
}

func (s *Schedule) NextPastDueDate() time.Time {
	return s.NextDueDate().AddDate(0, 0, s.pastDueOffsetDays())
}

func (s *Schedule) AccountIsPayable() bool {
	return !s.NextPayableDate().After(s.CurrentDate())
}

func (s *Schedule) AccountIsDue() bool {
	return !s.NextDueDate().After(s.CurrentDate())
}

// AccountIsPastDue is always true before the first valid payment.
func (s *Schedule) AccountIsPastDue() bool {
	return s.NoPaymentHasBeenMade() || !s.NextPastDueDate().After(s.CurrentDate())
}

// Status derives the schedule status, ignoring any pending overlay.
func (s *Schedule) Status() types.PaymentStatus {
	switch {
	case s.AccountIsPastDue():
		return types.PaymentStatusPastDue
	case s.AccountIsPayable():
		if s.AccountIsDue() {
			return types.PaymentStatusDue
		}
		return types.PaymentStatusPayable
	default:
		return types.PaymentStatusPaid
	}
}

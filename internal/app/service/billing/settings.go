package billing

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fatflowers/duesledger/internal/models"
	"github.com/fatflowers/duesledger/pkg/config"
	"github.com/fatflowers/duesledger/pkg/types"
)

// MonthDay is a yearless calendar date such as "Jan 1".
type MonthDay struct {
	Month time.Month
	Day   int
}

var monthDayLayouts = []string{"Jan 2", "January 2", "Jan 02", "January 02", "2 Jan", "2 January"}

// ParseMonthDay parses "Mon D" style dates, case-insensitively.
func ParseMonthDay(s string) (MonthDay, error) {
	v := strings.Join(strings.Fields(s), " ")
	for _, layout := range monthDayLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return MonthDay{Month: t.Month(), Day: t.Day()}, nil
		}
	}
	return MonthDay{}, &ConfigurationError{Setting: "fixed_renewal_dates", Value: s, Reason: "expected a date like \"Jan 1\""}
}

// In returns the date in the given year and location.
func (md MonthDay) In(year int, loc *time.Location) time.Time {
	return time.Date(year, md.Month, md.Day, 0, 0, 0, 0, loc)
}

func (md MonthDay) String() string {
	return fmt.Sprintf("%s %d", md.Month.String()[:3], md.Day)
}

// ValidEntryFunc decides whether a ledger entry counts as a payment for
// schedule purposes.
type ValidEntryFunc func(e *models.PaymentLogEntry) bool

// PositiveGrossAmount is the default ValidEntryFunc.
func PositiveGrossAmount(e *models.PaymentLogEntry) bool {
	return e != nil && e.GrossAmount.IsPositive()
}

// Settings is the immutable dues configuration shared by every core
// component. Build it once with NewSettings.
type Settings struct {
	offsets       map[types.PaymentStatus]int
	titles        map[types.PaymentStatus]string
	renewal       Period
	latePolicy    types.LatePaymentPolicy
	lateGraceDays int
	dueMode       types.PaymentDueMode
	fixedDates    []MonthDay
	initialStatus types.PaymentStatus
	maxBatch      time.Duration
	testDate      *time.Time
	validEntry    ValidEntryFunc
}

// NewSettings validates the dues block of cfg. Any error is a
// *ConfigurationError.
func NewSettings(cfg *config.Config) (*Settings, error) {
	if cfg == nil {
		return nil, &ConfigurationError{Setting: "dues", Value: "", Reason: "missing configuration"}
	}
	d := cfg.Dues
	s := &Settings{
		offsets:       make(map[types.PaymentStatus]int, len(types.PaymentStatuses)),
		titles:        make(map[types.PaymentStatus]string, len(types.PaymentStatuses)),
		lateGraceDays: d.LatePaymentGraceDays,
		initialStatus: d.InitialStatus,
		maxBatch:      time.Duration(d.MaxBatchSeconds) * time.Second,
		validEntry:    PositiveGrossAmount,
	}

	for _, st := range types.PaymentStatuses {
		label := d.StatusLabel(st)
		if label.Offset < 0 {
			return nil, &ConfigurationError{Setting: "status_labels." + string(st) + ".offset", Value: fmt.Sprint(label.Offset), Reason: "offset must not be negative"}
		}
		s.offsets[st] = label.Offset
		s.titles[st] = label.Title
	}

	renewal, err := ParsePeriod(d.RenewalPeriod)
	if err != nil {
		return nil, err
	}
	s.renewal = renewal

	switch d.LatePaymentPolicy {
	case "", types.LatePaymentPolicyLastDue:
		s.latePolicy = types.LatePaymentPolicyLastDue
	case types.LatePaymentPolicyLastPayment:
		s.latePolicy = types.LatePaymentPolicyLastPayment
	default:
		return nil, &ConfigurationError{Setting: "late_payment_policy", Value: string(d.LatePaymentPolicy), Reason: "expected last_due or last_payment"}
	}

	switch d.PaymentDueMode {
	case "", types.PaymentDueModePeriod:
		s.dueMode = types.PaymentDueModePeriod
	case types.PaymentDueModeFixed:
		s.dueMode = types.PaymentDueModeFixed
		if len(d.FixedRenewalDates) == 0 {
			return nil, &ConfigurationError{Setting: "fixed_renewal_dates", Value: "", Reason: "fixed due mode needs at least one date"}
		}
	default:
		return nil, &ConfigurationError{Setting: "payment_due_mode", Value: string(d.PaymentDueMode), Reason: "expected period or fixed"}
	}
	for _, raw := range d.FixedRenewalDates {
		md, err := ParseMonthDay(raw)
		if err != nil {
			return nil, err
		}
		s.fixedDates = append(s.fixedDates, md)
	}
	sort.Slice(s.fixedDates, func(i, j int) bool {
		a, b := s.fixedDates[i], s.fixedDates[j]
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		return a.Day < b.Day
	})

	if d.InitialStatus != types.PaymentStatusNone && !d.InitialStatus.Recognized() {
		return nil, &ConfigurationError{Setting: "initial_status", Value: string(d.InitialStatus), Reason: "unknown status"}
	}

	if d.TestDate != "" {
		t, err := time.ParseInLocation(time.DateOnly, d.TestDate, time.Local)
		if err != nil {
			return nil, &ConfigurationError{Setting: "test_date", Value: d.TestDate, Reason: "expected YYYY-MM-DD"}
		}
		s.testDate = &t
	}
	return s, nil
}

// WithValidEntry returns a copy of s using fn as the valid-payment predicate.
func (s *Settings) WithValidEntry(fn ValidEntryFunc) *Settings {
	cp := *s
	cp.validEntry = fn
	return &cp
}

// StatusOffset is the configured day offset for status.
func (s *Settings) StatusOffset(status types.PaymentStatus) int { return s.offsets[status] }

// StatusTitle is the display title for status; the raw status when unset.
func (s *Settings) StatusTitle(status types.PaymentStatus) string {
	if t := s.titles[status]; t != "" {
		return t
	}
	return string(status)
}

func (s *Settings) RenewalPeriod() Period                       { return s.renewal }
func (s *Settings) LatePaymentPolicy() types.LatePaymentPolicy { return s.latePolicy }
func (s *Settings) LatePaymentGraceDays() int                  { return s.lateGraceDays }
func (s *Settings) PaymentDueMode() types.PaymentDueMode       { return s.dueMode }
func (s *Settings) InitialStatus() types.PaymentStatus         { return s.initialStatus }
func (s *Settings) PendingWindowDays() int                     { return s.offsets[types.PaymentStatusPending] }
func (s *Settings) MaxBatchDuration() time.Duration            { return s.maxBatch }

// FixedRenewalDates returns the configured dates sorted within the year.
func (s *Settings) FixedRenewalDates() []MonthDay {
	return append([]MonthDay(nil), s.fixedDates...)
}

// TestDate is the simulated "now", if configured.
func (s *Settings) TestDate() (time.Time, bool) {
	if s.testDate == nil {
		return time.Time{}, false
	}
	return *s.testDate, true
}

// IsValidEntry applies the valid-payment predicate.
func (s *Settings) IsValidEntry(e *models.PaymentLogEntry) bool {
	return s.validEntry(e)
}

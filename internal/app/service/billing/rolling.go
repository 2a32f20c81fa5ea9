package billing

import (
	"time"

	"github.com/fatflowers/duesledger/pkg/types"
)

// RollingPeriod renews a fixed period after the last due date.
type RollingPeriod struct{}

func (RollingPeriod) nextDueDate(s *Schedule) time.Time {
	if !s.hasPayment {
		return s.dateRecorded
	}
	cacheable := s.periodCount == 1
	if cacheable {
		if due, ok := s.cache.NextDueDate(s.memberID); ok {
			return due
		}
	}

	base := s.rollingBaseDate()
	renewal := s.settings.RenewalPeriod()
	iv := Interval{Unit: renewal.Unit, Base: base}
	count := s.periodCount * renewal.Count
	due := iv.NextDate(count)
	for i := 0; due.Before(base) && i < maxRenewalIterations; i++ {
		count += renewal.Count
		due = iv.NextDate(count)
	}

	if cacheable {
		s.cache.Remember(s.memberID, due)
	}
	return due
}

// rollingBaseDate picks the anchor of the next period. A late payment inside
// the grace window always anchors on the payment; otherwise the late payment
// policy decides.
func (s *Schedule) rollingBaseDate() time.Time {
	if !s.lastPaymentDate.After(s.lastDueDate) {
		return s.lastDueDate
	}
	if grace := s.settings.LatePaymentGraceDays(); grace > 0 &&
		!s.lastPaymentDate.AddDate(0, 0, -grace).After(s.lastDueDate) {
		return s.lastPaymentDate
	}
	if s.settings.LatePaymentPolicy() == types.LatePaymentPolicyLastPayment {
		return s.lastPaymentDate
	}
	return s.lastDueDate
}

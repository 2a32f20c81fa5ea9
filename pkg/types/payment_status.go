package types

import "github.com/samber/lo"

// PaymentStatus is the dues status stored on a member record.
type PaymentStatus string

const (
	// PaymentStatusNone is the empty/initial sentinel.
	PaymentStatusNone    PaymentStatus = ""
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPayable PaymentStatus = "payable"
	PaymentStatusDue     PaymentStatus = "due"
	PaymentStatusPastDue PaymentStatus = "past_due"
	PaymentStatusPending PaymentStatus = "pending"
)

// PaymentStatuses lists every recognized status.
var PaymentStatuses = []PaymentStatus{
	PaymentStatusPaid,
	PaymentStatusPastDue,
	PaymentStatusDue,
	PaymentStatusPayable,
	PaymentStatusPending,
}

// Recognized reports whether s is one of the known statuses. The empty
// sentinel is not recognized.
func (s PaymentStatus) Recognized() bool {
	return lo.Contains(PaymentStatuses, s)
}

// EventName is the name of the event fired when a member transitions into s.
func (s PaymentStatus) EventName() string {
	return StatusChangeEventPrefix + string(s)
}

const StatusChangeEventPrefix = "status_change_to_"

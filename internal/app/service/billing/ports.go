package billing

import (
	"context"
	"time"

	"github.com/fatflowers/duesledger/internal/models"
	"github.com/fatflowers/duesledger/pkg/types"
)

// Member record fields read and written by the engine.
const (
	FieldDateRecorded            = "date_recorded"
	FieldLastPaymentDate         = "last_payment_date"
	FieldNextDueDate             = "next_due_date"
	FieldPaymentStatus           = "member_payment_status"
	FieldPendingPaymentTimestamp = "pending_payment_timestamp"
	FieldLastPaymentType         = "last_payment_type"
)

// Ledger is the payment log the schedule is computed from.
type Ledger interface {
	// Entries returns every entry of the member, most recent payment first.
	Entries(ctx context.Context, memberID string) ([]*models.PaymentLogEntry, error)
	// Append stores entry and returns its id.
	Append(ctx context.Context, entry *models.PaymentLogEntry) (string, error)
}

// Record is a member record as a flat field map.
type Record map[string]any

// RecordStore reads and writes named member fields. Every method returns
// ErrMemberNotFound for an unknown member.
type RecordStore interface {
	Get(ctx context.Context, memberID, field string) (any, bool, error)
	Set(ctx context.Context, memberID, field string, value any) error
	Record(ctx context.Context, memberID string) (Record, error)
}

// MemberLister enumerates member ids for reconciliation.
type MemberLister interface {
	MemberIDs(ctx context.Context) ([]string, error)
}

// EventSink receives named engine events. Emit must not fail back into the
// caller; implementations isolate their listeners.
type EventSink interface {
	Emit(ctx context.Context, name string, payload any)
}

// AsTime converts a stored field value into a time.
func AsTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return *t, true
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.DateTime, time.DateOnly} {
			if parsed, err := time.ParseInLocation(layout, t, time.Local); err == nil {
				return parsed, true
			}
		}
	case int64:
		if t > 0 {
			return time.Unix(t, 0), true
		}
	}
	return time.Time{}, false
}

// AsString converts a stored field value into a string.
func AsString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case *string:
		if s != nil {
			return *s
		}
	case types.PaymentStatus:
		return string(s)
	case types.PaymentPortal:
		return string(s)
	case interface{ String() string }:
		return s.String()
	}
	return ""
}

package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPaymentStatus_Recognized(t *testing.T) {
	cases := []struct {
		status PaymentStatus
		want   bool
	}{
		{PaymentStatusPaid, true},
		{PaymentStatusPayable, true},
		{PaymentStatusDue, true},
		{PaymentStatusPastDue, true},
		{PaymentStatusPending, true},
		{PaymentStatusNone, false},
		{PaymentStatus("overdue"), false},
	}
	for _, c := range cases {
		t.Run(string(c.status), func(t *testing.T) {
			require.Equal(t, c.want, c.status.Recognized())
		})
	}
}

func TestPaymentStatus_EventName(t *testing.T) {
	require.Equal(t, "status_change_to_due", PaymentStatusDue.EventName())
	require.Equal(t, "status_change_to_past_due", PaymentStatusPastDue.EventName())
}

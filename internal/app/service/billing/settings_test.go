package billing_test

import (
	"errors"
	"testing"
	"time"

	"github.com/fatflowers/duesledger/internal/app/service/billing"
	"github.com/fatflowers/duesledger/internal/models"
	"github.com/fatflowers/duesledger/pkg/config"
	"github.com/fatflowers/duesledger/pkg/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testConfig(mutate func(d *config.DuesConfig)) *config.Config {
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg.Dues)
	}
	return cfg
}

func TestNewSettings_Defaults(t *testing.T) {
	s, err := billing.NewSettings(testConfig(nil))
	require.NoError(t, err)
	require.Equal(t, billing.Period{Count: 1, Unit: billing.UnitYear}, s.RenewalPeriod())
	require.Equal(t, 14, s.StatusOffset(types.PaymentStatusPayable))
	require.Equal(t, 14, s.StatusOffset(types.PaymentStatusPastDue))
	require.Equal(t, 14, s.PendingWindowDays())
	require.Equal(t, types.LatePaymentPolicyLastDue, s.LatePaymentPolicy())
	require.Equal(t, types.PaymentDueModePeriod, s.PaymentDueMode())
	require.Equal(t, 30*time.Second, s.MaxBatchDuration())
	require.Equal(t, "Past Due", s.StatusTitle(types.PaymentStatusPastDue))
	_, ok := s.TestDate()
	require.False(t, ok)
}

func TestNewSettings_ConfigurationErrors(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(d *config.DuesConfig)
		setting string
	}{
		{"bad renewal period", func(d *config.DuesConfig) { d.RenewalPeriod = "every so often" }, "renewal_period"},
		{"fixed mode without dates", func(d *config.DuesConfig) {
			d.PaymentDueMode = types.PaymentDueModeFixed
			d.FixedRenewalDates = nil
		}, "fixed_renewal_dates"},
		{"bad fixed date", func(d *config.DuesConfig) { d.FixedRenewalDates = []string{"Smarch 3"} }, "fixed_renewal_dates"},
		{"unknown due mode", func(d *config.DuesConfig) { d.PaymentDueMode = "monthly" }, "payment_due_mode"},
		{"unknown late policy", func(d *config.DuesConfig) { d.LatePaymentPolicy = "whenever" }, "late_payment_policy"},
		{"unknown initial status", func(d *config.DuesConfig) { d.InitialStatus = "lapsed" }, "initial_status"},
		{"bad test date", func(d *config.DuesConfig) { d.TestDate = "01/02/2024" }, "test_date"},
		{"negative offset", func(d *config.DuesConfig) {
			d.StatusLabels["payable"] = config.StatusLabel{Title: "Payable", Offset: -1}
		}, "status_labels.payable.offset"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := billing.NewSettings(testConfig(c.mutate))
			require.Error(t, err)
			require.True(t, errors.Is(err, billing.ErrConfiguration))
			var cfgErr *billing.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			require.Equal(t, c.setting, cfgErr.Setting)
		})
	}
}

func TestNewSettings_FixedDatesSorted(t *testing.T) {
	s, err := billing.NewSettings(testConfig(func(d *config.DuesConfig) {
		d.PaymentDueMode = types.PaymentDueModeFixed
		d.FixedRenewalDates = []string{"jul 1", "October 15", "Jan 1"}
	}))
	require.NoError(t, err)
	require.Equal(t, []billing.MonthDay{
		{Month: time.January, Day: 1},
		{Month: time.July, Day: 1},
		{Month: time.October, Day: 15},
	}, s.FixedRenewalDates())
}

func TestNewSettings_TestDateDrivesClock(t *testing.T) {
	s, err := billing.NewSettings(testConfig(func(d *config.DuesConfig) { d.TestDate = "2030-05-05" }))
	require.NoError(t, err)
	clock := billing.NewClock(s)
	require.Equal(t, "2030-05-05", clock.Now().Format(time.DateOnly))
}

func TestSettings_ValidEntryPredicate(t *testing.T) {
	s, err := billing.NewSettings(testConfig(nil))
	require.NoError(t, err)

	positive := &models.PaymentLogEntry{GrossAmount: decimal.RequireFromString("50.00")}
	zero := &models.PaymentLogEntry{GrossAmount: decimal.Zero}
	refund := &models.PaymentLogEntry{GrossAmount: decimal.RequireFromString("-50")}
	require.True(t, s.IsValidEntry(positive))
	require.False(t, s.IsValidEntry(zero))
	require.False(t, s.IsValidEntry(refund))
	require.False(t, s.IsValidEntry(nil))

	offlineOnly := s.WithValidEntry(func(e *models.PaymentLogEntry) bool {
		return e != nil && e.Portal == types.PaymentPortalOffline
	})
	require.False(t, offlineOnly.IsValidEntry(positive))
	require.True(t, s.IsValidEntry(positive), "original settings unchanged")
}

func TestParseMonthDay(t *testing.T) {
	md, err := billing.ParseMonthDay("  apr   1 ")
	require.NoError(t, err)
	require.Equal(t, billing.MonthDay{Month: time.April, Day: 1}, md)
	require.Equal(t, "Apr 1", md.String())

	md, err = billing.ParseMonthDay("15 September")
	require.NoError(t, err)
	require.Equal(t, billing.MonthDay{Month: time.September, Day: 15}, md)
}

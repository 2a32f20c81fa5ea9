package billing_test

import (
	"errors"
	"testing"
	"time"

	"github.com/fatflowers/duesledger/internal/app/service/billing"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.ParseInLocation(time.DateOnly, s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func TestInterval_NextDate(t *testing.T) {
	base := date("2024-01-31")
	cases := []struct {
		name   string
		unit   string
		offset int
		want   time.Time
	}{
		{"zero offset returns base", "month", 0, base},
		{"days", "day", 10, date("2024-02-10")},
		{"plural unit", "days", -31, date("2023-12-31")},
		{"weeks", "week", 2, date("2024-02-14")},
		{"month overflow normalizes", "month", 1, date("2024-03-02")},
		{"years", "YEAR", 1, date("2025-01-31")},
		{"negative years", "years", -2, date("2022-01-31")},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			iv, err := billing.NewInterval(c.unit, base)
			require.NoError(t, err)
			require.Equal(t, c.want, iv.NextDate(c.offset))
		})
	}
}

func TestInterval_PreviousDate(t *testing.T) {
	iv := billing.Interval{Unit: billing.UnitYear, Base: date("2024-02-29")}
	require.Equal(t, date("2023-03-01"), iv.PreviousDate(1))
	require.Equal(t, iv.Base, iv.PreviousDate(0))
}

func TestNewInterval_UnknownUnit(t *testing.T) {
	_, err := billing.NewInterval("fortnightly", date("2024-01-01"))
	require.Error(t, err)
	require.True(t, errors.Is(err, billing.ErrConfiguration))
}

func TestParsePeriod(t *testing.T) {
	cases := []struct {
		in      string
		want    billing.Period
		wantErr bool
	}{
		{in: "1 year", want: billing.Period{Count: 1, Unit: billing.UnitYear}},
		{in: "6 months", want: billing.Period{Count: 6, Unit: billing.UnitMonth}},
		{in: " 3 Months ", want: billing.Period{Count: 3, Unit: billing.UnitMonth}},
		{in: "week", want: billing.Period{Count: 1, Unit: billing.UnitWeek}},
		{in: "4weeks", want: billing.Period{Count: 4, Unit: billing.UnitWeek}},
		{in: "0 years", wantErr: true},
		{in: "1 decade", wantErr: true},
		{in: "", wantErr: true},
		{in: "yearly-ish", wantErr: true},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, err := billing.ParsePeriod(c.in)
			if c.wantErr {
				var cfgErr *billing.ConfigurationError
				require.ErrorAs(t, err, &cfgErr)
				require.Equal(t, "renewal_period", cfgErr.Setting)
				return
			}
			require.NoError(t, err)
			require.Equal(t, c.want, got)
		})
	}
}

func TestPeriod_String(t *testing.T) {
	require.Equal(t, "1 year", billing.Period{Count: 1, Unit: billing.UnitYear}.String())
	require.Equal(t, "6 months", billing.Period{Count: 6, Unit: billing.UnitMonth}.String())
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2024, 3, 10, 1, 0, 0, 0, time.UTC)
	require.True(t, billing.SameDay(morning, time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC)))
	require.False(t, billing.SameDay(morning, time.Date(2024, 3, 11, 1, 0, 0, 0, time.UTC)))
	require.False(t, billing.SameDay(morning, time.Date(2023, 3, 10, 1, 0, 0, 0, time.UTC)))
}

package statistics

import (
	"context"
	"testing"
	"time"

	"github.com/fatflowers/duesledger/internal/models"
	"github.com/fatflowers/duesledger/internal/platform/db/dbtest"
	"github.com/fatflowers/duesledger/pkg/tool"
	"github.com/fatflowers/duesledger/pkg/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seed(t *testing.T, db *gorm.DB) {
	t.Helper()
	day := func(d int) *time.Time { return lo.ToPtr(time.Date(2024, 3, d, 12, 0, 0, 0, time.UTC)) }
	entries := []*models.PaymentLogEntry{
		{MemberID: "m1", PaymentDate: day(1), GrossAmount: decimal.NewFromInt(50), Portal: types.PaymentPortalPaypal},
		{MemberID: "m2", PaymentDate: day(1), GrossAmount: decimal.NewFromInt(25), Portal: types.PaymentPortalPaypal},
		{MemberID: "m3", PaymentDate: day(1), GrossAmount: decimal.NewFromInt(40), Portal: types.PaymentPortalManual},
		{MemberID: "m1", PaymentDate: day(2), GrossAmount: decimal.NewFromInt(10), Portal: types.PaymentPortalPaypal},
		// zero-amount entries are not payments
		{MemberID: "m4", PaymentDate: day(2), GrossAmount: decimal.Zero, Portal: types.PaymentPortalOffline},
	}
	for _, e := range entries {
		e.ID = tool.GenerateUUIDV7()
		e.PeriodCount = 1
		require.NoError(t, db.Create(e).Error)
	}
	members := []*models.Member{
		{ID: "m1", PaymentStatus: types.PaymentStatusPaid},
		{ID: "m2", PaymentStatus: types.PaymentStatusPaid},
		{ID: "m3", PaymentStatus: types.PaymentStatusPastDue},
		{ID: "m4", PaymentStatus: types.PaymentStatusPending},
	}
	for _, m := range members {
		m.DateRecorded = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, db.Create(m).Error)
	}
}

func request(filters types.CommonFilters, ids ...StatisticType) *DuesStatisticRequest {
	return &DuesStatisticRequest{
		Filters: filters,
		DataItems: lo.Map(ids, func(id StatisticType, _ int) *DuesStatisticDataItem {
			return &DuesStatisticDataItem{ID: id}
		}),
	}
}

func TestGetDuesStatistic(t *testing.T) {
	db := dbtest.New(t)
	seed(t, db)
	svc := New(db)

	res, err := svc.GetDuesStatistic(context.Background(), request(nil,
		StatisticTypeDailyPaymentCount, StatisticTypeDailyGross, StatisticTypeStatusDistribution))
	require.NoError(t, err)

	require.Equal(t, []DuesStatisticResponseDataItem{
		{Date: "2024-03-01", Value: 3},
		{Date: "2024-03-02", Value: 1},
	}, res.DataItems[StatisticTypeDailyPaymentCount])

	gross := res.DataItems[StatisticTypeDailyGross]
	require.Len(t, gross, 3)
	require.Equal(t, "2024-03-02", gross[0].Date)
	require.Equal(t, "paypal", gross[0].Label)
	require.Equal(t, "10", gross[0].Amount.String())
	require.Equal(t, "manual", gross[1].Label)
	require.Equal(t, "40", gross[1].Amount.String())
	require.Equal(t, "paypal", gross[2].Label)
	require.Equal(t, int64(2), gross[2].Value)
	require.Equal(t, "75", gross[2].Amount.String())

	dist := lo.SliceToMap(res.DataItems[StatisticTypeStatusDistribution], func(i DuesStatisticResponseDataItem) (string, int64) {
		return i.Label, i.Value
	})
	require.Equal(t, map[string]int64{"paid": 2, "past_due": 1, "pending": 1}, dist)
}

func TestGetDuesStatistic_Filters(t *testing.T) {
	db := dbtest.New(t)
	seed(t, db)
	svc := New(db)

	filters := types.CommonFilters{
		{Field: "payment_portal", Operator: types.CommonFilterOperatorEq, Values: []any{"paypal"}},
		{Field: "payment_date", Operator: types.CommonFilterOperatorDateRange, Values: []any{"2024-03-01", "2024-03-01"}},
	}
	res, err := svc.GetDuesStatistic(context.Background(), request(filters, StatisticTypeDailyPaymentCount))
	require.NoError(t, err)
	require.Equal(t, []DuesStatisticResponseDataItem{{Date: "2024-03-01", Value: 2}}, res.DataItems[StatisticTypeDailyPaymentCount])
}

func TestGetDuesStatistic_UnknownItem(t *testing.T) {
	svc := New(dbtest.New(t))
	_, err := svc.GetDuesStatistic(context.Background(), request(nil, "renewal_success_rate"))
	require.ErrorContains(t, err, "invalid data item id")
}

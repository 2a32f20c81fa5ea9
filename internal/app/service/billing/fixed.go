package billing

import (
	"sort"
	"time"

	"github.com/fatflowers/duesledger/pkg/types"
)

// FixedCalendar renews on configured calendar dates regardless of when the
// member paid.
type FixedCalendar struct {
	dates []MonthDay
}

func NewFixedCalendar(dates []MonthDay) FixedCalendar {
	return FixedCalendar{dates: dates}
}

// DateMap expands the configured dates over the previous, current and next
// two years around now, ascending.
func (f FixedCalendar) DateMap(now time.Time) []time.Time {
	out := make([]time.Time, 0, len(f.dates)*4)
	for year := now.Year() - 1; year <= now.Year()+2; year++ {
		for _, md := range f.dates {
			out = append(out, md.In(year, now.Location()))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func (f FixedCalendar) nextDueDate(s *Schedule) time.Time {
	if !s.hasPayment || len(f.dates) == 0 {
		return s.dateRecorded
	}
	dates := f.DateMap(s.CurrentDate())
	payable := s.settings.StatusOffset(types.PaymentStatusPayable)
	for _, d := range dates {
		if d.AddDate(0, 0, -payable).After(s.lastPaymentDate) {
			return d
		}
	}
	return dates[len(dates)-1]
}

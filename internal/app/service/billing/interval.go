package billing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Unit is a calendar unit an Interval advances by.
type Unit string

const (
	UnitDay   Unit = "day"
	UnitWeek  Unit = "week"
	UnitMonth Unit = "month"
	UnitYear  Unit = "year"
)

var unitAliases = map[string]Unit{
	"day": UnitDay, "days": UnitDay,
	"week": UnitWeek, "weeks": UnitWeek,
	"month": UnitMonth, "months": UnitMonth,
	"year": UnitYear, "years": UnitYear,
}

// ParseUnit accepts singular and plural unit names in any case.
func ParseUnit(s string) (Unit, error) {
	u, ok := unitAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", &ConfigurationError{Setting: "interval unit", Value: s, Reason: "expected day, week, month or year"}
	}
	return u, nil
}

// Period is a renewal period such as "1 year" or "6 months".
type Period struct {
	Count int
	Unit  Unit
}

var periodPattern = regexp.MustCompile(`^(\d*)\s*([a-z]+)$`)

// ParsePeriod parses "<count> <unit>". A missing count means 1.
func ParsePeriod(s string) (Period, error) {
	m := periodPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if m == nil {
		return Period{}, &ConfigurationError{Setting: "renewal_period", Value: s, Reason: "expected \"<count> <unit>\""}
	}
	count := 1
	if m[1] != "" {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return Period{}, &ConfigurationError{Setting: "renewal_period", Value: s, Reason: err.Error()}
		}
		count = n
	}
	if count <= 0 {
		return Period{}, &ConfigurationError{Setting: "renewal_period", Value: s, Reason: "count must be positive"}
	}
	unit, err := ParseUnit(m[2])
	if err != nil {
		return Period{}, &ConfigurationError{Setting: "renewal_period", Value: s, Reason: "unknown unit " + m[2]}
	}
	return Period{Count: count, Unit: unit}, nil
}

func (p Period) String() string {
	if p.Count == 1 {
		return fmt.Sprintf("1 %s", p.Unit)
	}
	return fmt.Sprintf("%d %ss", p.Count, p.Unit)
}

// Interval advances a base time by whole calendar units. Month and year steps
// follow time.AddDate normalization (Jan 31 + 1 month = Mar 2 or 3).
type Interval struct {
	Unit Unit
	Base time.Time
}

// NewInterval parses unit and returns an Interval anchored at base.
func NewInterval(unit string, base time.Time) (Interval, error) {
	u, err := ParseUnit(unit)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Unit: u, Base: base}, nil
}

// NextDate returns Base advanced by offset units. Offset may be negative.
func (iv Interval) NextDate(offset int) time.Time {
	if offset == 0 {
		return iv.Base
	}
	switch iv.Unit {
	case UnitDay:
		return iv.Base.AddDate(0, 0, offset)
	case UnitWeek:
		return iv.Base.AddDate(0, 0, 7*offset)
	case UnitMonth:
		return iv.Base.AddDate(0, offset, 0)
	case UnitYear:
		return iv.Base.AddDate(offset, 0, 0)
	}
	return iv.Base
}

// PreviousDate returns Base moved back by offset units.
func (iv Interval) PreviousDate(offset int) time.Time {
	return iv.NextDate(-offset)
}

// civilDays counts calendar days from a to b, ignoring time of day and DST.
func civilDays(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

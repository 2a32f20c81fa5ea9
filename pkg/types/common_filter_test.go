package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"
)

type recorder struct {
	sql  []byte
	vars []any
}

func (r *recorder) WriteByte(b byte) error { r.sql = append(r.sql, b); return nil }
func (r *recorder) WriteString(s string) (int, error) { r.sql = append(r.sql, s...); return len(s), nil }
func (r *recorder) WriteQuoted(field interface{}) { r.sql = append(r.sql, []byte(toColumn(field))...) }
func (r *recorder) AddVar(_ clause.Writer, v ...any) { r.sql = append(r.sql, '?'); r.vars = append(r.vars, v...) }
func (r *recorder) AddError(error) error { return nil }

func toColumn(field interface{}) string {
	switch f := field.(type) {
	case clause.Column:
		return f.Name
	case string:
		return f
	}
	return ""
}

var _ clause.Builder = (*recorder)(nil)

func build(e clause.Expression) (string, []any) {
	r := &recorder{}
	e.Build(r)
	return string(r.sql), r.vars
}

func TestCommonFilters_Build(t *testing.T) {
	cases := []struct {
		name    string
		filters CommonFilters
		sql     string
		nvars   int
	}{
		{"empty matches all", nil, "1=1", 0},
		{"skips valueless", CommonFilters{{Field: "member_id", Operator: CommonFilterOperatorEq}}, "1=1", 0},
		{"eq", CommonFilters{{Field: "member_id", Operator: CommonFilterOperatorEq, Values: []any{"m1"}}}, "member_id = ?", 1},
		{
			"json path eq",
			CommonFilters{{Field: "columns->>'payer_email'", Operator: CommonFilterOperatorEq, Values: []any{"a@b"}}},
			"columns->>'payer_email' = ?", 1,
		},
		{
			"and joined",
			CommonFilters{
				{Field: "member_id", Operator: CommonFilterOperatorEq, Values: []any{"m1"}},
				{Field: "period_count", Operator: CommonFilterOperatorGt, Values: []any{1}},
			},
			"member_id = ? AND period_count > ?", 2,
		},
		{
			"range",
			CommonFilters{{Field: "gross_amount", Operator: CommonFilterOperatorRange, Values: []any{1, 10}}},
			"(gross_amount >= ? AND gross_amount <= ?)", 2,
		},
		{
			"date range",
			CommonFilters{{Field: "payment_date", Operator: CommonFilterOperatorDateRange, Values: []any{"2024-01-01", "2024-01-31"}}},
			"(payment_date >= ? AND payment_date < ?)", 2,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sql, vars := build(c.filters)
			require.Equal(t, c.sql, sql)
			require.Len(t, vars, c.nvars)
		})
	}
}

func TestCommonFilter_DateRangeIncludesLastDay(t *testing.T) {
	f := &CommonFilter{Field: "payment_date", Operator: CommonFilterOperatorDateRange, Values: []any{"2024-01-01", "2024-01-31"}}
	_, vars := build(f)
	require.Len(t, vars, 2)
	require.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), vars[1])
}

func TestCommonFilter_DateRangeRejectsBadValues(t *testing.T) {
	f := &CommonFilter{Field: "payment_date", Operator: CommonFilterOperatorDateRange, Values: []any{"2024-01-01", 5}}
	sql, vars := build(f)
	require.Empty(t, sql)
	require.Empty(t, vars)
}

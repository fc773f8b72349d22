// Package format renders money, percentages and dates the way every view
// of the client shows them.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/dyike/ForecastGo/consts"
)

const DisplayDate = "Jan 02, 2006"

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// Money formats d as "$50,000.00".
func Money(d decimal.Decimal) string {
	return MoneyFloat(d.Round(2).InexactFloat64())
}

// MoneyFloat formats f as "$50,000.00".
func MoneyFloat(f float64) string {
	if f == 0 {
		f = 0
	}
	if f < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -f)
	}
	return "$" + humanize.FormatFloat("#,###.##", f)
}

// SignedMoney formats d with an explicit sign, "+$1,000.00" or "-$12.50".
func SignedMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return Money(d)
	}
	return "+" + Money(d)
}

// Percent formats p with an explicit sign and two decimals, "+4.00%".
// Negative zero prints as "+0.00%".
func Percent(p float64) string {
	if p == 0 {
		p = 0
	}
	if p >= 0 {
		return fmt.Sprintf("+%.2f%%", p)
	}
	return fmt.Sprintf("%.2f%%", p)
}

// ChangeClass is positive iff p >= 0.
func ChangeClass(p float64) string {
	if p >= 0 {
		return consts.ClassPositive
	}
	return consts.ClassNegative
}

// DecimalClass is positive iff d >= 0.
func DecimalClass(d decimal.Decimal) string {
	if d.IsNegative() {
		return consts.ClassNegative
	}
	return consts.ClassPositive
}

// AxisLabel formats a y-axis tick, "$52,000".
func AxisLabel(f float64) string {
	n := int64(math.Round(f))
	if n < 0 {
		return "-$" + humanize.Comma(-n)
	}
	return "$" + humanize.Comma(n)
}

// Tooltip formats a chart point label, "Price: $52,000.00".
func Tooltip(f float64) string {
	return "Price: " + MoneyFloat(f)
}

// ParseDate accepts the date shapes the backend emits.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// Date formats a backend date as "Jun 01, 2024". Unparseable input is
// returned unchanged.
func Date(s string) string {
	t, err := ParseDate(s)
	if err != nil {
		return s
	}
	return t.Format(DisplayDate)
}

// ShortDate formats a backend date as "06-01" for chart axes.
func ShortDate(s string) string {
	t, err := ParseDate(s)
	if err != nil {
		return s
	}
	return t.Format("01-02")
}

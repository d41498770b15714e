package bill

import (
	"time"

	"github.com/xraph/lodger/types"
)

// Prorate computes the charge for occupying a bed from periodStart to
// periodEnd given its monthly cost. The day count is the span in whole days
// rounded up, minimum one; the daily rate divides the monthly cost by the
// number of days in periodStart's calendar month, rounding half up at the end
// so the tenant is never systematically undercharged or overcharged by
// truncation.
//
// A full calendar month therefore always bills exactly the monthly cost.
func Prorate(monthlyCost types.Money, periodStart, periodEnd time.Time) types.Money {
	days := PeriodDays(periodStart, periodEnd)
	dim := DaysInMonth(periodStart)
	return monthlyCost.Multiply(int64(days)).DivideRound(int64(dim))
}

// PeriodDays returns the number of billable days between start and end:
// the duration in whole days rounded up, never less than one.
func PeriodDays(start, end time.Time) int {
	if !end.After(start) {
		return 1
	}
	d := end.Sub(start)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days
}

// DaysInMonth returns the number of calendar days in t's month.
func DaysInMonth(t time.Time) int {
	firstOfMonth := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return firstOfMonth.AddDate(0, 1, -1).Day()
}

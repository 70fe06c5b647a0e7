package domain

import "time"

// RevenuePeriod is a temporal gap used to filter revenues by insertion date.
type RevenuePeriod string

const (
	LastWeek        RevenuePeriod = "LAST_WEEK"
	LastMonth       RevenuePeriod = "LAST_MONTH"
	LastThreeMonths RevenuePeriod = "LAST_THREE_MONTHS"
	LastSixMonths   RevenuePeriod = "LAST_SIX_MONTHS"
	LastYear        RevenuePeriod = "LAST_YEAR"
	AllPeriods      RevenuePeriod = "ALL"
)

const dayMillis = 24 * int64(time.Hour/time.Millisecond)

// gapMillis returns the width of the period in milliseconds, 0 meaning unbounded.
func (p RevenuePeriod) gapMillis() int64 {
	switch p {
	case LastWeek:
		return 7 * dayMillis
	case LastMonth:
		return 30 * dayMillis
	case LastThreeMonths:
		return 90 * dayMillis
	case LastSixMonths:
		return 180 * dayMillis
	case LastYear:
		return 365 * dayMillis
	default:
		return 0
	}
}

// FromDate returns the lower bound, in epoch milliseconds, of the period shifted
// back by offset gaps from now. offset 1 selects the current period, offset 2 the
// one preceding it, and so on. AllPeriods always yields 0.
func (p RevenuePeriod) FromDate(now int64, offset int) int64 {
	if p == AllPeriods || offset < 1 {
		return 0
	}
	return now - p.gapMillis()*int64(offset)
}

// ParseRevenuePeriod maps a raw value to a period; an empty value defaults to
// LastMonth and an unknown one reports false.
func ParseRevenuePeriod(raw string) (RevenuePeriod, bool) {
	if raw == "" {
		return LastMonth, true
	}
	switch p := RevenuePeriod(raw); p {
	case LastWeek, LastMonth, LastThreeMonths, LastSixMonths, LastYear, AllPeriods:
		return p, true
	default:
		return "", false
	}
}

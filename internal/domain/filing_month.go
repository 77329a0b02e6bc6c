package domain

import (
	"fmt"
	"strconv"
	"time"

	"vatkhata/internal/bikram"
)

// FilingMonth is the Nepali month for which VAT reports are prepared.
// Immutable once constructed; the BS and Gregorian ranges and the fiscal-year
// label are derived on demand.
type FilingMonth struct {
	Year  int
	Month int
}

// NewFilingMonth validates the year/month pair against the BS calendar table
// before any I/O happens.
func NewFilingMonth(year, month int) (FilingMonth, error) {
	if month < 1 || month > 12 {
		return FilingMonth{}, fmt.Errorf("%w: month %d", ErrInvalidFilingMonth, month)
	}
	if _, err := bikram.DaysInMonth(year, month); err != nil {
		return FilingMonth{}, err
	}
	return FilingMonth{Year: year, Month: month}, nil
}

// ParseFilingMonth builds a FilingMonth from untrusted text. Non-integer
// input is a contract violation and fails before anything else runs.
func ParseFilingMonth(yearStr, monthStr string) (FilingMonth, error) {
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return FilingMonth{}, fmt.Errorf("%w: year %q", ErrInvalidFilingMonth, yearStr)
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return FilingMonth{}, fmt.Errorf("%w: month %q", ErrInvalidFilingMonth, monthStr)
	}
	return NewFilingMonth(year, month)
}

// MonthName returns the romanized Nepali month name.
func (m FilingMonth) MonthName() string {
	name, _ := bikram.MonthName(m.Month)
	return name
}

// BSRange returns the first and last day of the filing month in BS dates.
func (m FilingMonth) BSRange() (bikram.Range, error) {
	return bikram.MonthRange(m.Year, m.Month)
}

// GregorianRange converts the BS month range into a Gregorian interval.
func (m FilingMonth) GregorianRange() (Period, error) {
	bs, err := m.BSRange()
	if err != nil {
		return Period{}, err
	}
	start, err := bs.Start.ToGregorian()
	if err != nil {
		return Period{}, err
	}
	end, err := bs.End.ToGregorian()
	if err != nil {
		return Period{}, err
	}
	return Period{Start: start, End: end}, nil
}

// FiscalYear returns the "YYYY/YY" label. The fiscal year starts at BS month
// 4, so months 1-3 belong to the previous fiscal year.
func (m FilingMonth) FiscalYear() string {
	if m.Month > 3 {
		return fmt.Sprintf("%d/%02d", m.Year, (m.Year+1)%100)
	}
	return fmt.Sprintf("%d/%02d", m.Year-1, m.Year%100)
}

// Period is an inclusive Gregorian date interval.
type Period struct {
	Start time.Time
	End   time.Time
}

func (p Period) String() string {
	return fmt.Sprintf("%s - %s", p.Start.Format("2006-01-02"), p.End.Format("2006-01-02"))
}

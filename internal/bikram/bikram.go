// Package bikram converts Bikram Sambat (BS) dates to Gregorian dates and
// back. The BS calendar is not arithmetic: month lengths (29-32 days) come
// from an observed per-year table, so conversion is table-driven from a fixed
// anchor date.
package bikram

import (
	"errors"
	"fmt"
	"time"
)

// ErrOutOfRange is returned for dates outside the supported calendar table.
var ErrOutOfRange = errors.New("bikram: date out of supported range")

// BaseYear is the first BS year covered by the calendar table.
const BaseYear = 2070

// anchor is the Gregorian date of BS 2070-01-01.
var anchor = time.Date(2013, time.April, 14, 0, 0, 0, 0, time.UTC)

// monthLengths holds the days of each BS month for BaseYear onwards.
var monthLengths = [][12]int{
	{31, 31, 31, 32, 31, 31, 29, 30, 30, 29, 30, 30}, // 2070
	{31, 31, 32, 31, 32, 30, 30, 29, 30, 29, 30, 30}, // 2071
	{31, 32, 31, 32, 31, 30, 30, 29, 30, 29, 30, 30}, // 2072
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31}, // 2073
	{31, 31, 31, 32, 31, 31, 29, 30, 30, 29, 30, 30}, // 2074
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 2075
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31}, // 2076
	{31, 31, 31, 32, 31, 31, 29, 30, 30, 29, 30, 30}, // 2077
	{31, 31, 31, 32, 31, 31, 30, 29, 30, 29, 30, 30}, // 2078
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 2079
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31}, // 2080
	{31, 31, 32, 32, 31, 30, 30, 30, 29, 30, 30, 30}, // 2081
	{30, 32, 31, 32, 31, 30, 30, 30, 29, 30, 30, 30}, // 2082
	{31, 31, 32, 31, 31, 30, 30, 30, 29, 30, 30, 30}, // 2083
	{31, 31, 32, 31, 31, 30, 30, 30, 29, 30, 30, 30}, // 2084
	{31, 32, 31, 32, 30, 31, 30, 30, 29, 30, 30, 30}, // 2085
	{30, 32, 31, 32, 31, 30, 30, 30, 29, 30, 30, 30}, // 2086
	{31, 31, 32, 31, 31, 31, 30, 30, 29, 30, 30, 30}, // 2087
	{30, 31, 32, 32, 30, 31, 30, 30, 29, 30, 30, 30}, // 2088
	{30, 32, 31, 32, 31, 30, 30, 30, 29, 30, 30, 30}, // 2089
	{30, 32, 31, 32, 31, 30, 30, 30, 29, 30, 30, 30}, // 2090
}

var monthNames = [13]string{
	"",
	"Baishakh",
	"Jestha",
	"Ashadh",
	"Shrawan",
	"Bhadau",
	"Ashwin",
	"Kartik",
	"Mangsir",
	"Poush",
	"Magh",
	"Falgun",
	"Chaitra",
}

// Date is a calendar date in the Bikram Sambat system.
type Date struct {
	Year  int
	Month int
	Day   int
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Range is an inclusive BS date interval.
type Range struct {
	Start Date
	End   Date
}

func (r Range) String() string {
	return fmt.Sprintf("%s - %s", r.Start, r.End)
}

// MonthName returns the romanized Nepali name of a BS month (1-12).
func MonthName(month int) (string, error) {
	if month < 1 || month > 12 {
		return "", fmt.Errorf("%w: month %d", ErrOutOfRange, month)
	}
	return monthNames[month], nil
}

// DaysInMonth returns the number of days in the given BS month.
func DaysInMonth(year, month int) (int, error) {
	idx := year - BaseYear
	if idx < 0 || idx >= len(monthLengths) {
		return 0, fmt.Errorf("%w: year %d", ErrOutOfRange, year)
	}
	if month < 1 || month > 12 {
		return 0, fmt.Errorf("%w: month %d", ErrOutOfRange, month)
	}
	return monthLengths[idx][month-1], nil
}

// MonthRange returns the first and last day of a BS month.
func MonthRange(year, month int) (Range, error) {
	last, err := DaysInMonth(year, month)
	if err != nil {
		return Range{}, err
	}
	return Range{
		Start: Date{Year: year, Month: month, Day: 1},
		End:   Date{Year: year, Month: month, Day: last},
	}, nil
}

// ToGregorian converts a BS date by counting days from the anchor through the
// calendar table.
func (d Date) ToGregorian() (time.Time, error) {
	length, err := DaysInMonth(d.Year, d.Month)
	if err != nil {
		return time.Time{}, err
	}
	if d.Day < 1 || d.Day > length {
		return time.Time{}, fmt.Errorf("%w: day %d of %04d-%02d", ErrOutOfRange, d.Day, d.Year, d.Month)
	}

	days := 0
	for y := BaseYear; y < d.Year; y++ {
		for _, n := range monthLengths[y-BaseYear] {
			days += n
		}
	}
	for m := 1; m < d.Month; m++ {
		days += monthLengths[d.Year-BaseYear][m-1]
	}
	days += d.Day - 1

	return anchor.AddDate(0, 0, days), nil
}

// FromGregorian converts a Gregorian date into BS by walking the calendar
// table forward from the anchor.
func FromGregorian(t time.Time) (Date, error) {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	days := int(t.Sub(anchor).Hours() / 24)
	if days < 0 {
		return Date{}, fmt.Errorf("%w: %s precedes anchor", ErrOutOfRange, t.Format("2006-01-02"))
	}

	for y := BaseYear; y < BaseYear+len(monthLengths); y++ {
		for m := 1; m <= 12; m++ {
			n := monthLengths[y-BaseYear][m-1]
			if days < n {
				return Date{Year: y, Month: m, Day: days + 1}, nil
			}
			days -= n
		}
	}
	return Date{}, fmt.Errorf("%w: %s exceeds calendar table", ErrOutOfRange, t.Format("2006-01-02"))
}

package core

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// MonthKey is the ordering primitive for months: year*12 + (month-1).
// Integer comparison on MonthKeys equals chronological comparison, so all
// month-range iteration uses this key, never string or time comparison.
type MonthKey int

// NewMonthKey builds the key for a calendar year and 1-based month.
func NewMonthKey(year, month int) MonthKey {
	return MonthKey(year*12 + (month - 1))
}

// Parts is the exact inverse of NewMonthKey.
func (k MonthKey) Parts() (year, month int) {
	return int(k) / 12, int(k)%12 + 1
}

func (k MonthKey) String() string {
	year, month := k.Parts()
	return fmt.Sprintf("%04d-%02d", year, month)
}

// MonthParts is the result of parsing a date-like string down to its month.
// Timestamp is a UTC-normalized instant used only for recency comparisons
// between records that land in the same month.
type MonthParts struct {
	Year      int
	Month     int
	Key       MonthKey
	Timestamp time.Time
}

var datePattern = regexp.MustCompile(`^(\d{4})-(\d{2})(?:-(\d{2}))?$`)

// ParseMonthParts parses a YYYY-MM or YYYY-MM-DD value. The day defaults to
// 1 when omitted. context tags the resulting ValidationError so callers can
// tell which input field was bad.
func ParseMonthParts(value, context string) (MonthParts, error) {
	if value == "" {
		return MonthParts{}, newValidationError(context, "date is empty")
	}
	m := datePattern.FindStringSubmatch(value)
	if m == nil {
		return MonthParts{}, newValidationError(context, "invalid date %q, want YYYY-MM or YYYY-MM-DD", value)
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return MonthParts{}, newValidationError(context, "invalid year in %q", value)
	}
	month, err := strconv.Atoi(m[2])
	if err != nil || month < 1 || month > 12 {
		return MonthParts{}, newValidationError(context, "month out of range in %q", value)
	}
	day := 1
	if m[3] != "" {
		day, err = strconv.Atoi(m[3])
		if err != nil || day < 1 || day > 31 {
			return MonthParts{}, newValidationError(context, "day out of range in %q", value)
		}
	}
	return MonthParts{
		Year:      year,
		Month:     month,
		Key:       NewMonthKey(year, month),
		Timestamp: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC),
	}, nil
}

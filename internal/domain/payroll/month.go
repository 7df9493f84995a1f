package payroll

import (
	"time"

	"github.com/erp/payroll/internal/domain/shared"
)

const monthLayout = "2006-01"

// Month is a payroll period in YYYY-MM form
type Month string

// ParseMonth validates and normalizes a YYYY-MM string
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return "", shared.NewValidationError("month %q must be in YYYY-MM format", s)
	}
	return Month(t.Format(monthLayout)), nil
}

// MonthOf returns the month containing t
func MonthOf(t time.Time) Month {
	return Month(t.Format(monthLayout))
}

// String returns the string representation of Month
func (m Month) String() string {
	return string(m)
}

// IsValid reports whether m parses as YYYY-MM
func (m Month) IsValid() bool {
	_, err := time.Parse(monthLayout, string(m))
	return err == nil
}

// Start returns midnight UTC on the first day of the month
func (m Month) Start() time.Time {
	t, _ := time.Parse(monthLayout, string(m))
	return t
}

// Add returns the month n months later
func (m Month) Add(n int) Month {
	return Month(m.Start().AddDate(0, n, 0).Format(monthLayout))
}

// Before reports whether m is earlier than o
func (m Month) Before(o Month) bool {
	return m < o
}

// Span returns n consecutive months starting at m
func (m Month) Span(n int) []Month {
	if n < 1 {
		n = 1
	}
	out := make([]Month, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, m.Add(i))
	}
	return out
}

package directory

import (
	"strings"
	"time"
)

// dateLayouts are tried in order; day-first wins over month-first for
// ambiguous inputs like 03/04/2025.
var dateLayouts = []string{
	"2006-1-2",
	"2/1/2006",
	"1/2/2006",
}

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// FallbackWeekday is returned when a date expression cannot be resolved.
const FallbackWeekday = "Monday"

// ResolveWeekday maps a free-text date expression onto a weekday name.
// Calendar dates are parsed first; otherwise the first weekday name found in
// the text is used, and anything else resolves to Monday.
func ResolveWeekday(date string) string {
	date = strings.TrimSpace(date)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Weekday().String()
		}
	}

	lower := strings.ToLower(date)
	for _, day := range weekdays {
		if strings.Contains(lower, strings.ToLower(day)) {
			return day
		}
	}
	return FallbackWeekday
}

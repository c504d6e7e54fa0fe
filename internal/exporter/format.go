package exporter

import (
	"fmt"
	"strconv"
	"time"

	"deliverypulse/pkg/contracts/domain"
)

// formatFloat formats a float64 value with exactly 2 decimal places
func formatFloat(f float64) string {
	// 13.4 appears as 13.40 so columns line up in spreadsheets
	return fmt.Sprintf("%.2f", f)
}

// formatCoordinate keeps enough precision to place a marker within a metre
func formatCoordinate(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}

// formatInt formats an int value
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatOptional renders an undefined statistic as an empty cell
func formatOptional(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}

// formatOptionalInt renders a missing count as an empty cell
func formatOptionalInt(i *int) string {
	if i == nil {
		return ""
	}
	return formatInt(*i)
}

// formatDate uses the extract's own day-month-year layout
func formatDate(t time.Time) string {
	return t.Format(domain.OrderDateLayout)
}

// Package cli provides the command-line interface for the barrier pricer.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PricePlaces is the number of decimals shown for option values.
const PricePlaces = 4

// FormatPrice rounds a price half away from zero and pads it to PricePlaces.
func FormatPrice(price float64) string {
	return formatFixed(price, PricePlaces)
}

// FormatStrike prints strikes without trailing zeros ("100", "97.5").
func FormatStrike(strike float64) string {
	if math.IsNaN(strike) || math.IsInf(strike, 0) {
		return fmt.Sprint(strike)
	}
	return decimal.NewFromFloat(strike).String()
}

// FormatInterval formats a confidence interval such as "[1.2000, 1.5000]".
func FormatInterval(low, high float64) string {
	return "[" + FormatPrice(low) + ", " + FormatPrice(high) + "]"
}

// FormatPercent formats a fraction as a percentage ("95%", "99.5%").
func FormatPercent(fraction float64) string {
	if math.IsNaN(fraction) || math.IsInf(fraction, 0) {
		return fmt.Sprint(fraction)
	}
	return decimal.NewFromFloat(fraction).Shift(2).Round(2).String() + "%"
}

func formatFixed(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprint(v)
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}

// FormatDateTime formats a timestamp in local time.
func FormatDateTime(t time.Time) string {
	return t.Local().Format("02-Jan-2006 15:04:05")
}

// FormatDuration formats a duration in human-readable form.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
}

// TruncateString truncates a string to max length with ellipsis.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// ShortID returns the first block of a uuid for table display.
func ShortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return TruncateString(id, 8)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

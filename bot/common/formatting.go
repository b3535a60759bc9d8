package common

import (
	"fmt"
	"strings"
	"time"
)

// FormatAmount formats a coin amount with thousand separators
func FormatAmount(amount int64) string {
	str := fmt.Sprintf("%d", amount)
	if amount < 0 {
		str = str[1:]
	}

	n := len(str)
	if n > 3 {
		var result strings.Builder
		for i, digit := range str {
			if i > 0 && (n-i)%3 == 0 {
				result.WriteRune(',')
			}
			result.WriteRune(digit)
		}
		str = result.String()
	}

	if amount < 0 {
		return "-" + str
	}
	return str
}

// FormatDuration renders a cooldown remainder as a compact human string,
// e.g. "23h 12m" or "45s". Sub-minute remainders round up to whole seconds
// so the user never sees "0s" while still on cooldown.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	if d < time.Minute {
		secs := int((d + time.Second - 1) / time.Second)
		return fmt.Sprintf("%ds", secs)
	}

	d = d.Round(time.Minute)
	hours := int(d / time.Hour)
	minutes := int(d % time.Hour / time.Minute)
	if hours == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

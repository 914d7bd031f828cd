package race

import (
	"fmt"
	"math"
)

// FormatTime renders a race time: "SS.hh" under a minute, "M:SS.hh" above.
func FormatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	// Work in whole hundredths to avoid float formatting drift.
	total := int(math.Round(seconds * 100))
	if total < 6000 {
		return fmt.Sprintf("%d.%02d", total/100, total%100)
	}
	minutes := total / 6000
	rem := total % 6000
	return fmt.Sprintf("%d:%02d.%02d", minutes, rem/100, rem%100)
}

// Formats aggregation results into the one-line status message sent to
// the recipient. Pure functions only; callers map upstream retrieval
// errors to the same failure line by passing nil.
package report

import (
	"fmt"

	"github.com/solarwatch/solar_notifier/pkg/window"
)

// FailureMessage is the single user-visible failure line. No granular
// error detail ever reaches the recipient.
const FailureMessage = "Failed to get solar production data"

func Format(result *window.Result) string {
	if result == nil || result.IsEmpty {
		return FailureMessage
	}

	msg := fmt.Sprintf("Solar production (%s): %.2f kWh", result.WindowLabel, result.TotalKwh)
	if result.Kind == window.KindTrailingHours {
		unit := "readings"
		if result.ReadingCount == 1 {
			unit = "reading"
		}
		msg += fmt.Sprintf(" (%d %s)", result.ReadingCount, unit)
	}
	return msg
}

package eligibility_service

import (
	"time"

	"github.com/tcp_snm/arena/internal/database"
)

// computeWindowStart returns the instant the counting window for a
// limit tier opens. The window always closes at the round's end, never
// at `now`: counts run over the round's full remaining extent.
func computeWindowStart(
	limitType database.EvaluationRoundLimitType,
	roundStart time.Time,
	now time.Time,
) time.Time {
	utc := now.UTC()
	switch limitType {
	case database.LimitTypeDaily:
		year, month, day := utc.Date()
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	case database.LimitTypeWeekly:
		year, month, day := utc.Date()
		midnight := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		// most recent Monday on or before now
		daysSinceMonday := (int(midnight.Weekday()) + 6) % 7
		return midnight.AddDate(0, 0, -daysSinceMonday)
	case database.LimitTypeMonthly:
		year, month, _ := utc.Date()
		return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	default:
		// TOTAL spans the whole round
		return roundStart
	}
}

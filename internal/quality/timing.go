package quality

import "time"

type Timing struct {
	// Now is the send-candidate instant in the recipient's plausible
	// timezone.
	Now time.Time
	// LastTouchAt is the last time this contact was touched, zero if never.
	LastTouchAt time.Time
}

// ScoreTiming implements the business-hours, recent-touch-avoidance, and
// optimal-day-preference bands from the pre-send contract.
func ScoreTiming(t Timing) float64 {
	score := businessHoursScore(t.Now) + recentTouchScore(t.Now, t.LastTouchAt) + optimalDayScore(t.Now)
	return score
}

func businessHoursScore(now time.Time) float64 {
	weekday := now.Weekday()
	hour := now.Hour()
	isWeekend := weekday == time.Saturday || weekday == time.Sunday

	switch {
	case !isWeekend && hour >= 9 && hour < 17:
		return 40
	case !isWeekend && hour >= 7 && hour < 19:
		return 30
	case !isWeekend:
		return 20
	default:
		return 10
	}
}

func recentTouchScore(now, lastTouch time.Time) float64 {
	if lastTouch.IsZero() {
		return 30
	}
	days := now.Sub(lastTouch).Hours() / 24
	switch {
	case days >= 14:
		return 30
	case days >= 5:
		return 25
	case days >= 2:
		return 15
	default:
		return 5
	}
}

func optimalDayScore(now time.Time) float64 {
	switch now.Weekday() {
	case time.Tuesday, time.Wednesday, time.Thursday:
		return 30
	case time.Monday, time.Friday:
		return 20
	default:
		return 10
	}
}

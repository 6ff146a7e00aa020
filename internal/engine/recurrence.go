package engine

import (
	"time"

	"github.com/hallister/belfry/internal/model"
)

// NextOccurrence computes the earliest instant strictly after now at which the
// schedule is due, in now's location. It returns false for muted schedules and
// for schedules with no valid day, so polling a muted rule yields nothing.
//
// Strict forward progress: an occurrence exactly at now rolls over to the next
// qualifying day, which is what makes repeated polling within the same minute
// safe.
func NextOccurrence(s model.Schedule, now time.Time) (time.Time, bool) {
	if s.Muted {
		return time.Time{}, false
	}
	hour, minute, err := model.ParseClock(s.Time)
	if err != nil {
		return time.Time{}, false
	}

	var best time.Time
	for _, day := range s.Days {
		if !day.Valid() {
			continue
		}
		delta := (int(day.Time()) - int(now.Weekday()) + 7) % 7
		cand := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		cand = cand.AddDate(0, 0, delta)
		if !cand.After(now) {
			// today at or before now: next week
			cand = cand.AddDate(0, 0, 7)
		}
		if best.IsZero() || cand.Before(best) {
			best = cand
		}
	}
	if best.IsZero() {
		return time.Time{}, false
	}
	return best, true
}

package model

import (
	"fmt"
	"time"
)

// Weekday is the wire encoding used across the API: 0 = Monday .. 6 = Sunday.
// Note this differs from time.Weekday, which starts the week on Sunday.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

func (w Weekday) Valid() bool { return w >= Monday && w <= Sunday }

func (w Weekday) String() string {
	if !w.Valid() {
		return fmt.Sprintf("weekday(%d)", int(w))
	}
	return weekdayNames[w]
}

// Time converts to the stdlib encoding (Sunday = 0).
func (w Weekday) Time() time.Weekday {
	return time.Weekday((int(w) + 1) % 7)
}

// WeekdayOf converts from the stdlib encoding.
func WeekdayOf(t time.Weekday) Weekday {
	return Weekday((int(t) + 6) % 7)
}

// ParseDays validates a wire-level day list and returns it as a deduplicated,
// sorted Weekday set. An empty or out-of-range list is a validation error.
func ParseDays(raw []int) ([]Weekday, error) {
	if len(raw) == 0 {
		return nil, Validationf("day set must not be empty")
	}
	var seen [7]bool
	for _, d := range raw {
		w := Weekday(d)
		if !w.Valid() {
			return nil, Validationf("day %d out of range 0-6", d)
		}
		seen[w] = true
	}
	out := make([]Weekday, 0, 7)
	for w := Monday; w <= Sunday; w++ {
		if seen[w] {
			out = append(out, w)
		}
	}
	return out, nil
}

// DayInts is the inverse of ParseDays, for responses.
func DayInts(days []Weekday) []int {
	out := make([]int, len(days))
	for i, d := range days {
		out[i] = int(d)
	}
	return out
}

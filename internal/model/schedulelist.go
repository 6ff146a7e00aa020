package model

import "time"

// ScheduleList is a named group of schedules. Exactly one list is active
// system-wide; only schedules of the active list may fire.
type ScheduleList struct {
	ID        int       `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	IsActive  bool      `db:"is_active"  json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

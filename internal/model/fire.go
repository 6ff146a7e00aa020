package model

import "time"

// FireEvent is emitted once per (schedule, occurrence minute) and handed to
// the playback sink. For playlist schedules TrackSequence holds the expanded
// ordering and TrackInterval the spacing hint, in seconds.
type FireEvent struct {
	ID            string       `json:"id"`
	ScheduleID    int          `json:"schedule_id"`
	Kind          ScheduleKind `json:"kind"`
	OccurredAt    time.Time    `json:"occurrence_time"`
	Filename      *string      `json:"filename,omitempty"`
	FolderPath    *string      `json:"folder_path,omitempty"`
	TrackSequence []string     `json:"track_sequence,omitempty"`
	TrackInterval int          `json:"track_interval,omitempty"`
}

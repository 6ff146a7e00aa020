package model

import "time"

type ScheduleKind string

const (
	KindSingle   ScheduleKind = "single"
	KindPlaylist ScheduleKind = "playlist"
)

// PlaylistConfig carries the expansion parameters of a playlist schedule.
// TrackInterval doubles as the per-track spacing hint for the player and as
// the basis of the duration-cap estimate; true track length is unknown here.
type PlaylistConfig struct {
	DurationCap   *int `db:"playlist_duration" json:"playlist_duration,omitempty"` // minutes
	MaxTracks     *int `db:"max_tracks"        json:"max_tracks,omitempty"`
	TrackInterval int  `db:"track_interval"    json:"track_interval"` // seconds
	Shuffle       bool `db:"shuffle_mode"      json:"shuffle_mode"`
}

// Schedule is one recurring playback rule: play Filename (single) or the
// contents of FolderPath (playlist) at Time on each weekday in Days.
type Schedule struct {
	ID             int             `json:"id"`
	ListID         int             `json:"list_id"`
	Kind           ScheduleKind    `json:"kind"`
	Filename       *string         `json:"filename,omitempty"`
	FolderPath     *string         `json:"folder_path,omitempty"`
	Time           string          `json:"time"` // "HH:MM" wall clock
	Days           []Weekday       `json:"days"`
	Muted          bool            `json:"muted"`
	PlaylistConfig *PlaylistConfig `json:"playlist_config,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ParseClock validates an "HH:MM" wall-clock string.
func ParseClock(s string) (hour, minute int, err error) {
	t, perr := time.Parse("15:04", s)
	if perr != nil {
		return 0, 0, Validationf("time %q is not HH:MM", s)
	}
	return t.Hour(), t.Minute(), nil
}

// Validate enforces the schedule invariants: non-empty day set, a well-formed
// time, and a target/config matching the kind.
func (s Schedule) Validate() error {
	if _, _, err := ParseClock(s.Time); err != nil {
		return err
	}
	if len(s.Days) == 0 {
		return Validationf("day set must not be empty")
	}
	for _, d := range s.Days {
		if !d.Valid() {
			return Validationf("day %d out of range 0-6", int(d))
		}
	}
	switch s.Kind {
	case KindSingle:
		if s.Filename == nil || *s.Filename == "" {
			return Validationf("single schedule requires a filename")
		}
		if s.PlaylistConfig != nil {
			return Validationf("single schedule must not carry playlist config")
		}
	case KindPlaylist:
		if s.FolderPath == nil || *s.FolderPath == "" {
			return Validationf("playlist schedule requires a folder path")
		}
		if s.PlaylistConfig == nil {
			return Validationf("playlist schedule requires playlist config")
		}
		if s.PlaylistConfig.TrackInterval < 0 {
			return Validationf("track interval must not be negative")
		}
	default:
		return Validationf("unknown schedule kind %q", s.Kind)
	}
	return nil
}

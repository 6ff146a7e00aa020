package packets

// Weekdays travel as integers 0-6 mapping Monday-Sunday everywhere.

type CreateScheduleRequest struct {
	Filename string `json:"filename" binding:"required"`
	Time     string `json:"time" binding:"required"`
	Days     []int  `json:"days"`
	ListID   *int   `json:"list_id"`
}

type CreatePlaylistScheduleRequest struct {
	FolderPath       string `json:"folder_path" binding:"required"`
	Time             string `json:"time" binding:"required"`
	Days             []int  `json:"days"`
	ListID           *int   `json:"list_id"`
	PlaylistDuration *int   `json:"playlist_duration"` // minutes
	MaxTracks        *int   `json:"max_tracks"`
	TrackInterval    int    `json:"track_interval"` // seconds
	Shuffle          bool   `json:"shuffle_mode"`
}

type UpdateScheduleRequest struct {
	Time string `json:"time" binding:"required"`
	Days []int  `json:"days"`
}

type CreateScheduleListRequest struct {
	Name string `json:"name" binding:"required"`
}

type RenameScheduleListRequest struct {
	Name string `json:"name" binding:"required"`
}

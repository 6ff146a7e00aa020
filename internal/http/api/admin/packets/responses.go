package packets

import "github.com/hallister/belfry/internal/model"

type ScheduleResponse struct {
	ID             int                   `json:"id"`
	ListID         int                   `json:"list_id"`
	Kind           string                `json:"kind"`
	Filename       *string               `json:"filename,omitempty"`
	FolderPath     *string               `json:"folder_path,omitempty"`
	Time           string                `json:"time"`
	Days           []int                 `json:"days"`
	Muted          bool                  `json:"muted"`
	NextRun        *string               `json:"next_run"` // RFC3339, null while muted
	PlaylistConfig *model.PlaylistConfig `json:"playlist_config,omitempty"`
}

type MuteResponse struct {
	ID    int  `json:"id"`
	Muted bool `json:"muted"`
}

type ScheduleListResponse struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

type UploadResponse struct {
	Filename string `json:"filename"`
}

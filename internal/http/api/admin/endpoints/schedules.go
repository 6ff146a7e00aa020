package endpoints

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hallister/belfry/internal/db"
	"github.com/hallister/belfry/internal/engine"
	"github.com/hallister/belfry/internal/http/api"
	"github.com/hallister/belfry/internal/http/api/admin/packets"
	"github.com/hallister/belfry/internal/model"
)

type ScheduleController struct {
	store db.Store
}

func newScheduleController(store db.Store) *ScheduleController {
	return &ScheduleController{store: store}
}

// ScheduleModule mounts all authenticated /schedules endpoints.
func ScheduleModule(store db.Store) api.Module {
	ctl := newScheduleController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/schedules", ctl.listSchedules)
		c.POST("/schedules", ctl.createSchedule)
		c.POST("/schedules/playlist", ctl.createPlaylistSchedule)
		c.PUT("/schedules/:id", ctl.updateSchedule)
		c.DELETE("/schedules/:id", ctl.deleteSchedule)
		c.POST("/schedules/:id/mute", ctl.toggleMute)
	})
}

func mapSchedule(s model.Schedule, now time.Time) packets.ScheduleResponse {
	resp := packets.ScheduleResponse{
		ID:             s.ID,
		ListID:         s.ListID,
		Kind:           string(s.Kind),
		Filename:       s.Filename,
		FolderPath:     s.FolderPath,
		Time:           s.Time,
		Days:           model.DayInts(s.Days),
		Muted:          s.Muted,
		PlaylistConfig: s.PlaylistConfig,
	}
	if next, ok := engine.NextOccurrence(s, now); ok {
		formatted := next.Format(time.RFC3339)
		resp.NextRun = &formatted
	}
	return resp
}

// GET /api/admin/schedules?list_id=N | ?active=true
func (c *ScheduleController) listSchedules(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	var listID *int
	if raw := ctx.Query("list_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid list_id"}
		}
		listID = &id
	} else if ctx.Query("active") == "true" {
		active, err := c.store.ActiveScheduleList()
		if err != nil {
			return nil, api.FromError(err)
		}
		listID = &active.ID
	}

	schedules, err := c.store.ListSchedules(listID)
	if err != nil {
		log.Error().Err(err).Msg("[schedules] list failed")
		return nil, api.FromError(err)
	}

	now := time.Now()
	out := make([]packets.ScheduleResponse, len(schedules))
	for i, s := range schedules {
		out[i] = mapSchedule(s, now)
	}
	return out, nil
}

func (c *ScheduleController) targetList(listID *int) (int, *api.APIError) {
	if listID != nil {
		return *listID, nil
	}
	active, err := c.store.ActiveScheduleList()
	if err != nil {
		return 0, &api.APIError{Code: http.StatusConflict, Message: "no schedule list exists yet"}
	}
	return active.ID, nil
}

// POST /api/admin/schedules
func (c *ScheduleController) createSchedule(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	var req packets.CreateScheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	days, err := model.ParseDays(req.Days)
	if err != nil {
		return nil, api.FromError(err)
	}
	listID, apiErr := c.targetList(req.ListID)
	if apiErr != nil {
		return nil, apiErr
	}

	s, err := c.store.CreateSchedule(model.Schedule{
		ListID:   listID,
		Kind:     model.KindSingle,
		Filename: &req.Filename,
		Time:     req.Time,
		Days:     days,
	})
	if err != nil {
		log.Error().Err(err).Msg("[schedules] create failed")
		return nil, api.FromError(err)
	}
	return mapSchedule(s, time.Now()), nil
}

// POST /api/admin/schedules/playlist
func (c *ScheduleController) createPlaylistSchedule(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	var req packets.CreatePlaylistScheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	days, err := model.ParseDays(req.Days)
	if err != nil {
		return nil, api.FromError(err)
	}
	listID, apiErr := c.targetList(req.ListID)
	if apiErr != nil {
		return nil, apiErr
	}

	s, err := c.store.CreateSchedule(model.Schedule{
		ListID:     listID,
		Kind:       model.KindPlaylist,
		FolderPath: &req.FolderPath,
		Time:       req.Time,
		Days:       days,
		PlaylistConfig: &model.PlaylistConfig{
			DurationCap:   req.PlaylistDuration,
			MaxTracks:     req.MaxTracks,
			TrackInterval: req.TrackInterval,
			Shuffle:       req.Shuffle,
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("[schedules] create playlist failed")
		return nil, api.FromError(err)
	}
	return mapSchedule(s, time.Now()), nil
}

// PUT /api/admin/schedules/:id
func (c *ScheduleController) updateSchedule(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	var req packets.UpdateScheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	days, err := model.ParseDays(req.Days)
	if err != nil {
		return nil, api.FromError(err)
	}

	s, err := c.store.UpdateSchedule(id, req.Time, days)
	if err != nil {
		log.Error().Err(err).Int("schedule_id", id).Msg("[schedules] update failed")
		return nil, api.FromError(err)
	}
	return mapSchedule(s, time.Now()), nil
}

// DELETE /api/admin/schedules/:id
func (c *ScheduleController) deleteSchedule(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	if err := c.store.DeleteSchedule(id); err != nil {
		return nil, api.FromError(err)
	}
	return gin.H{"deleted": id}, nil
}

// POST /api/admin/schedules/:id/mute
func (c *ScheduleController) toggleMute(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	muted, err := c.store.ToggleMute(id)
	if err != nil {
		return nil, api.FromError(err)
	}
	return packets.MuteResponse{ID: id, Muted: muted}, nil
}

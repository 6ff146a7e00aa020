package endpoints

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hallister/belfry/internal/db"
	"github.com/hallister/belfry/internal/http/api"
	"github.com/hallister/belfry/internal/http/api/admin/packets"
	"github.com/hallister/belfry/internal/model"
)

type ScheduleListController struct {
	store db.Store
}

// ScheduleListModule mounts all authenticated /schedule-lists endpoints.
func ScheduleListModule(store db.Store) api.Module {
	ctl := &ScheduleListController{store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/schedule-lists", ctl.listLists)
		c.POST("/schedule-lists", ctl.createList)
		c.PUT("/schedule-lists/:id", ctl.renameList)
		c.POST("/schedule-lists/:id/activate", ctl.activateList)
		c.DELETE("/schedule-lists/:id", ctl.deleteList)
	})
}

func mapList(l model.ScheduleList) packets.ScheduleListResponse {
	return packets.ScheduleListResponse{ID: l.ID, Name: l.Name, IsActive: l.IsActive}
}

// GET /api/admin/schedule-lists
func (c *ScheduleListController) listLists(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	lists, err := c.store.ListScheduleLists()
	if err != nil {
		log.Error().Err(err).Msg("[lists] list failed")
		return nil, api.FromError(err)
	}
	out := make([]packets.ScheduleListResponse, len(lists))
	for i, l := range lists {
		out[i] = mapList(l)
	}
	return out, nil
}

// POST /api/admin/schedule-lists
func (c *ScheduleListController) createList(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	var req packets.CreateScheduleListRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	l, err := c.store.CreateScheduleList(req.Name)
	if err != nil {
		log.Error().Err(err).Msg("[lists] create failed")
		return nil, api.FromError(err)
	}
	return mapList(l), nil
}

// PUT /api/admin/schedule-lists/:id
func (c *ScheduleListController) renameList(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	var req packets.RenameScheduleListRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	l, err := c.store.RenameScheduleList(id, req.Name)
	if err != nil {
		return nil, api.FromError(err)
	}
	return mapList(l), nil
}

// POST /api/admin/schedule-lists/:id/activate
func (c *ScheduleListController) activateList(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	if err := c.store.ActivateScheduleList(id); err != nil {
		log.Error().Err(err).Int("list_id", id).Msg("[lists] activate failed")
		return nil, api.FromError(err)
	}
	return gin.H{"activated": id}, nil
}

// DELETE /api/admin/schedule-lists/:id
func (c *ScheduleListController) deleteList(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	if err := c.store.DeleteScheduleList(id); err != nil {
		log.Error().Err(err).Int("list_id", id).Msg("[lists] delete failed")
		return nil, api.FromError(err)
	}
	return gin.H{"deleted": id}, nil
}

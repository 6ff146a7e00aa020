package endpoints

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hallister/belfry/internal/http/api"
	"github.com/hallister/belfry/internal/http/api/admin/packets"
	"github.com/hallister/belfry/internal/library"
	"github.com/hallister/belfry/internal/model"
	"github.com/hallister/belfry/internal/storage"
)

type LibraryController struct {
	lib     *library.Library
	uploads storage.Storage
}

// LibraryModule mounts the audio library endpoints: listing files and playlist
// folders, and uploading new audio.
func LibraryModule(lib *library.Library, uploads storage.Storage) api.Module {
	ctl := &LibraryController{lib: lib, uploads: uploads}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/library/files", ctl.listFiles)
		c.GET("/library/folders", ctl.listFolders)
		c.POST("/library/upload", ctl.upload)
	})
}

// GET /api/admin/library/files
func (c *LibraryController) listFiles(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	files, err := c.lib.ListFiles()
	if err != nil {
		log.Error().Err(err).Msg("[library] list files failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list library"}
	}
	return gin.H{"files": files}, nil
}

// GET /api/admin/library/folders
func (c *LibraryController) listFolders(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	folders, err := c.lib.ListFolders()
	if err != nil {
		log.Error().Err(err).Msg("[library] list folders failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list folders"}
	}
	return gin.H{"folders": folders}, nil
}

var allowedUploadExt = map[string]bool{
	".mp3": true, ".wav": true, ".ogg": true, ".flac": true, ".m4a": true, ".aac": true,
}

// POST /api/admin/library/upload (multipart: "audio" file, optional "folder")
func (c *LibraryController) upload(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	fileHeader, err := ctx.FormFile("audio")
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "missing audio file"}
	}
	if !allowedUploadExt[strings.ToLower(filepath.Ext(fileHeader.Filename))] {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "unsupported audio format"}
	}

	folder := ctx.PostForm("folder")
	stored, err := c.uploads.SaveFile(fileHeader, folder, fileHeader.Filename)
	if err != nil {
		log.Error().Err(err).Str("filename", fileHeader.Filename).Msg("[library] upload failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not store file"}
	}
	if folder != "" {
		c.lib.Invalidate(folder)
	} else {
		c.lib.Invalidate(".")
	}

	log.Info().Str("stored", stored).Msg("[library] audio uploaded")
	return packets.UploadResponse{Filename: stored}, nil
}

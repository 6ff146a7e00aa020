package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/hallister/belfry/internal/db"
	"github.com/hallister/belfry/internal/http/api"
	authapi "github.com/hallister/belfry/internal/http/api/admin/auth/endpoints"
	adminapi "github.com/hallister/belfry/internal/http/api/admin/endpoints"
	"github.com/hallister/belfry/internal/library"
	"github.com/hallister/belfry/internal/storage"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, env Environment, store db.Store, storageSystem storage.Storage, lib *library.Library) {
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
		Auth:   false,
	},
		authapi.AuthPublicModule(env.SecretKey, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: env.SecretKey,
		Store:     store,
	},
		adminapi.ScheduleModule(store),
		adminapi.ScheduleListModule(store),
		adminapi.LibraryModule(lib, storageSystem),
		// session endpoints that require auth
		authapi.AuthSessionModule(env.SecretKey, store),
	)

	// serve uploaded audio for in-browser preview
	if !env.UseSpaces {
		r.Static("/uploads", env.LibraryPath)
	}
}

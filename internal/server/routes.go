package server

import (
	"github.com/gin-contrib/cors"
	"go.uber.org/fx"

	"github.com/looplj/mediahub/internal/server/api"
	"github.com/looplj/mediahub/internal/server/middleware"
)

type Handlers struct {
	fx.In

	Generation *api.GenerationHandlers
	Preference *api.PreferenceHandlers
	Storage    *api.StorageHandlers
	System     *api.SystemHandlers
}

func SetupRoutes(server *Server, handlers Handlers) {
	server.Use(middleware.AccessLog())
	server.Use(middleware.WithRequestID())

	if server.Config.CORS.Enabled {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = server.Config.CORS.AllowedOrigins
		corsConfig.AllowMethods = server.Config.CORS.AllowedMethods
		corsConfig.AllowHeaders = server.Config.CORS.AllowedHeaders
		corsConfig.ExposeHeaders = server.Config.CORS.ExposedHeaders
		corsConfig.AllowCredentials = server.Config.CORS.AllowCredentials
		corsConfig.MaxAge = server.Config.CORS.MaxAge

		corsHandler := cors.New(corsConfig)
		server.Use(corsHandler)
		server.OPTIONS("*any", corsHandler)
	}

	publicGroup := server.Group(server.Config.BasePath, middleware.WithTimeout(server.Config.RequestTimeout))
	{
		// Health check endpoint - no authentication required
		publicGroup.GET("/health", handlers.System.Health)
	}

	apiGroup := server.Group(server.Config.BasePath+"/v1",
		middleware.WithAPIKeyAuth(server.Config.APIKey),
	)

	{
		apiGroup.GET("/models", middleware.WithTimeout(server.Config.RequestTimeout), handlers.Generation.ListModels)

		// Generations block on the remote service and get the long
		// timeout.
		apiGroup.POST("/generations", middleware.WithTimeout(server.Config.GenerationTimeout), handlers.Generation.CreateGeneration)
	}

	{
		prefsGroup := apiGroup.Group("/preferences", middleware.WithTimeout(server.Config.RequestTimeout))
		prefsGroup.GET("", handlers.Preference.GetPreferences)
		prefsGroup.PUT("", handlers.Preference.PutPreferences)
	}

	{
		storageGroup := apiGroup.Group("/storage", middleware.WithTimeout(server.Config.RequestTimeout))
		storageGroup.GET("/permission", handlers.Storage.GetPermission)
		storageGroup.POST("/permission", handlers.Storage.RequestPermission)
	}
}

package main

import (
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/mrkuros/scenebucket/internal/config"
	"github.com/mrkuros/scenebucket/internal/handlers"
	"github.com/mrkuros/scenebucket/internal/logger"
	customMiddleware "github.com/mrkuros/scenebucket/internal/middleware"
	"github.com/mrkuros/scenebucket/internal/scene"
	"github.com/mrkuros/scenebucket/internal/session"
	"github.com/mrkuros/scenebucket/internal/storage"
)

func main() {
	configPath := os.Getenv("SCENEBUCKET_CONFIG")
	if configPath == "" {
		configPath = "scenebucket.yaml"
	}

	store, err := config.Load(configPath)
	if err != nil {
		errLog := logger.New(os.Stderr, "error", false)
		errLog.Fatal().Err(err).Msg("load config")
	}
	settings := store.Settings()
	log := logger.New(os.Stdout, settings.LogLevel, false)
	log.Info().Str("config", configPath).Str("addr", settings.ListenAddr).Msg("starting scenebucket")

	e := newServer(store, log)
	if err := e.Start(settings.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func newServer(store *config.Store, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Services
	settings := store.Settings()
	factory := storage.NewFactory(settings.ReuseClients)
	sess := session.New(log)
	loader := scene.NewLoader(settings.StagingDir, scene.NopImporter(), log)

	panelHandler := handlers.NewPanelHandler(store, factory, sess)
	objectsHandler := handlers.NewObjectsHandler(store, factory, sess, loader, settings.StagingDir)
	connectionsHandler := handlers.NewConnectionsHandler(store)

	// Middleware
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info().Str("uri", v.URI).Int("status", v.Status).Msg("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(customMiddleware.SecurityHeaders())

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	// Panel
	e.GET("/api/tree", panelHandler.GetTree)
	e.POST("/api/tree/refresh", panelHandler.Refresh)
	e.POST("/api/tree/toggle", panelHandler.ToggleFolder)
	e.GET("/api/errors", panelHandler.GetErrors)

	// Objects
	e.POST("/api/objects/upload", objectsHandler.Upload)
	e.POST("/api/objects/download", objectsHandler.Download)
	e.POST("/api/objects/delete", objectsHandler.Delete)
	e.POST("/api/objects/load", objectsHandler.Load)

	// Connections
	e.GET("/api/connections", connectionsHandler.List)
	e.POST("/api/connections", connectionsHandler.Create)
	e.PUT("/api/connections/:name", connectionsHandler.Update)
	e.DELETE("/api/connections/:name", connectionsHandler.Delete)
	e.POST("/api/connections/:name/activate", connectionsHandler.Activate)

	return e
}

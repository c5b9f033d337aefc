package routers

import (
	"convert-mastery/internal/delivery/http/handlers"
	"convert-mastery/internal/pkg/config"
	consts "convert-mastery/pkg/constants"
	"convert-mastery/pkg/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// NewApp builds the Fiber app with the shared middleware stack, the health
// check, Swagger UI and the static mount for converted files.
func NewApp(cfg *config.Config, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "convert-mastery",
		BodyLimit:             int(cfg.Upload.MaxFileSize),
		DisableStartupMessage: !cfg.IsDevelopment(),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return errors.HandleError(c, log, err)
		},
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigin,
		AllowCredentials: cfg.Server.CORSOrigin != "*",
		ExposeHeaders:    consts.HeaderJobID,
	}))

	app.Get("/health", handlers.Health)
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Static(consts.ConvertedRoute, cfg.Upload.ConvertedDir)

	return app
}

func SetupConversionRoutes(app *fiber.App, ocrHandler *handlers.OCRHandler, videoHandler *handlers.VideoHandler, progressHandler *handlers.ProgressHandler) {
	api := app.Group("/api")
	api.Post("/convert-image", ocrHandler.ConvertImage)
	api.Post("/convert-video", videoHandler.ConvertVideo)
	api.Get("/progress", progressHandler.Progress)
}

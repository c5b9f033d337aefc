package main

import (
	"context"

	_ "convert-mastery/docs"

	"convert-mastery/internal/delivery/http/handlers"
	"convert-mastery/internal/delivery/http/routers"
	"convert-mastery/internal/domain/repositories"
	"convert-mastery/internal/infrastructure/ocr"
	"convert-mastery/internal/infrastructure/processor"
	"convert-mastery/internal/infrastructure/progress"
	"convert-mastery/internal/infrastructure/storage"
	"convert-mastery/internal/pkg/config"
	"convert-mastery/internal/pkg/logger"
	"convert-mastery/internal/usecases"
	"convert-mastery/pkg/errors/i18n"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

const progressBuffer = 16

// @title          Convert Mastery API
// @version        1.0
// @description    Image OCR and video conversion backend with server-sent progress.
// @host           localhost:5000
// @BasePath       /
func main() {
	envErr := godotenv.Load()

	fx.New(
		fx.Provide(
			config.LoadConfig,
			newLogger,
			newRootContext,
			newHub,
			newUploadStore,
			newArtifactStorage,
			newOCREngine,
			newTranscoder,
			newOCRService,
			newVideoService,
			newCleanupService,
			newRetentionScheduler,
			handlers.NewOCRHandler,
			handlers.NewVideoHandler,
			handlers.NewProgressHandler,
			routers.NewApp,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Invoke(func(log *zap.Logger) {
			if envErr != nil {
				log.Debug("No .env file found, using system environment variables")
			}
		}),
		fx.Invoke(loadMessages),
		fx.Invoke(checkBinaries),
		fx.Invoke(routers.SetupConversionRoutes),
		fx.Invoke(startServer),
	).Run()
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(cfg.App.Env)
}

// newRootContext outlives individual requests and is cancelled when the
// application stops, which kills any ffmpeg still running.
func newRootContext(lc fx.Lifecycle) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
	return ctx
}

func newHub() *progress.Hub {
	return progress.NewHub(progressBuffer)
}

func newUploadStore(cfg *config.Config) repositories.UploadRepository {
	return storage.NewUploadStore(cfg.Upload.UploadsDir)
}

func newArtifactStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (repositories.ArtifactStorage, error) {
	var (
		s   repositories.ArtifactStorage
		err error
	)
	switch cfg.Storage.Driver {
	case "s3":
		s, err = storage.NewS3Storage(ctx, cfg.Storage.S3Bucket, cfg.Storage.S3Region)
	default:
		s = storage.NewLocalStorage(cfg.Upload.ConvertedDir, cfg.Server.PublicBaseURL)
	}
	if err != nil {
		return nil, err
	}
	log.Info("Artifact storage ready", zap.String("driver", s.Name()))
	return s, nil
}

func newOCREngine(cfg *config.Config, log *zap.Logger) (ocr.Engine, error) {
	return ocr.NewEngine(cfg.OCR, log.Named("ocr"))
}

func newTranscoder(cfg *config.Config, log *zap.Logger) usecases.Transcoder {
	return processor.NewTranscoder(cfg.FFmpeg.Path, cfg.FFmpeg.Timeout, log.Named("ffmpeg"))
}

func newOCRService(uploads repositories.UploadRepository, engine ocr.Engine, cfg *config.Config, log *zap.Logger) usecases.OCRService {
	return usecases.NewOCRService(uploads, engine, cfg.OCR.Language, cfg.OCR.MaxEdge, log)
}

func newVideoService(
	ctx context.Context,
	uploads repositories.UploadRepository,
	transcoder usecases.Transcoder,
	artifacts repositories.ArtifactStorage,
	hub *progress.Hub,
	cfg *config.Config,
	log *zap.Logger,
) usecases.VideoService {
	return usecases.NewVideoService(ctx, uploads, transcoder, artifacts, hub, cfg.Upload.ConvertedDir, log)
}

func newCleanupService(cfg *config.Config, log *zap.Logger) usecases.CleanupService {
	return usecases.NewCleanupService(usecases.RetentionPolicy{
		UploadDir:         cfg.Upload.UploadsDir,
		UploadRetention:   cfg.Cleanup.UploadRetention,
		ConvertedDir:      cfg.Upload.ConvertedDir,
		ArtifactRetention: cfg.Cleanup.ArtifactRetention,
	}, log.Named("cleanup"))
}

func newRetentionScheduler(svc usecases.CleanupService, cfg *config.Config, log *zap.Logger) (*cron.Cron, error) {
	return usecases.NewRetentionScheduler(cfg.Cleanup.Schedule, svc, log)
}

func loadMessages(cfg *config.Config, log *zap.Logger) error {
	if err := i18n.Load(cfg.App.Locale); err != nil {
		return err
	}
	log.Debug("Error messages loaded", zap.String("locale", cfg.App.Locale))
	return nil
}

// checkBinaries only warns: the server still serves static files and the
// health check without the external tools.
func checkBinaries(cfg *config.Config, engine ocr.Engine, log *zap.Logger) {
	if err := processor.EnsureBinary(cfg.FFmpeg.Path); err != nil {
		log.Warn("Video conversion will fail", zap.Error(err))
	}
	if engine.Name() == ocr.EngineCLI {
		if err := ocr.EnsureBinary(cfg.OCR.TesseractPath); err != nil {
			log.Warn("Image OCR will fail", zap.Error(err))
		}
	}
}

func startServer(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	app *fiber.App,
	cfg *config.Config,
	hub *progress.Hub,
	scheduler *cron.Cron,
	log *zap.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			scheduler.Start()
			addr := cfg.Addr()
			log.Info("Server starting", zap.String("addr", addr), zap.String("env", cfg.App.Env))
			go func() {
				if err := app.Listen(addr); err != nil {
					log.Error("Server failed", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			<-scheduler.Stop().Done()
			hub.Close()
			if err := app.ShutdownWithContext(ctx); err != nil {
				log.Error("Server did not shut down cleanly", zap.Error(err))
				return err
			}
			log.Info("Server stopped")
			_ = log.Sync()
			return nil
		},
	})
}
